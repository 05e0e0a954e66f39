package services

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Service issues presigned URLs for profile photo storage. Clients upload
// directly to S3; the server never touches image bytes.
type S3Service struct {
	Presigner *s3.PresignClient
	Bucket    string
}

// InitializeS3Service builds an S3 presign client for the given bucket.
func InitializeS3Service(ctx context.Context, region, bucket string) (*S3Service, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return &S3Service{
		Presigner: s3.NewPresignClient(s3.NewFromConfig(cfg)),
		Bucket:    bucket,
	}, nil
}

// GenerateUploadURL generates a presigned URL for uploading a photo. The key
// is namespaced under the owning account id.
func (s *S3Service) GenerateUploadURL(ctx context.Context, userID, fileName, fileType string) (string, string, error) {
	key := "profile-pics/" + userID + "/" + time.Now().Format("20060102150405") + "-" + fileName
	request, err := s.Presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.Bucket),
		Key:         aws.String(key),
		ContentType: aws.String(fileType),
	}, s3.WithPresignExpires(5*time.Minute))
	if err != nil {
		return "", "", fmt.Errorf("failed to presign upload: %w", err)
	}
	return request.URL, key, nil
}

// GenerateReadURL generates a presigned URL for reading a stored photo.
func (s *S3Service) GenerateReadURL(ctx context.Context, key string) (string, error) {
	request, err := s.Presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(5*time.Minute))
	if err != nil {
		return "", fmt.Errorf("failed to presign read: %w", err)
	}
	return request.URL, nil
}
