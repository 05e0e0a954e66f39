package services

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"amora_server/models"
	"amora_server/utils"
)

// DynamoProfileStore persists matching profiles in the Profiles table.
type DynamoProfileStore struct {
	Dynamo *DynamoService
}

func NewDynamoProfileStore(dynamo *DynamoService) *DynamoProfileStore {
	return &DynamoProfileStore{Dynamo: dynamo}
}

func profileKey(userID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"userId": &types.AttributeValueMemberS{Value: userID},
	}
}

func (s *DynamoProfileStore) Get(ctx context.Context, userID string) (*models.Profile, error) {
	item, err := s.Dynamo.GetItem(ctx, models.ProfilesTable, profileKey(userID))
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, nil
	}

	var profile models.Profile
	if err := attributevalue.UnmarshalMap(item, &profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile: %w", err)
	}
	return &profile, nil
}

// Ensure lazily materializes the profile for userID. The conditional put
// keeps two concurrent first swipes from clobbering each other.
func (s *DynamoProfileStore) Ensure(ctx context.Context, userID string, defaultAge int) (*models.Profile, error) {
	profile := models.Profile{
		UserID:    userID,
		Age:       defaultAge,
		CreatedAt: utils.Timestamp(time.Now()),
	}

	created, err := s.Dynamo.PutItemIfAbsent(ctx, models.ProfilesTable, profile, "userId")
	if err != nil {
		return nil, err
	}
	if created {
		return &profile, nil
	}
	return s.Get(ctx, userID)
}

func (s *DynamoProfileStore) Create(ctx context.Context, profile models.Profile) error {
	if profile.CreatedAt == "" {
		profile.CreatedAt = utils.Timestamp(time.Now())
	}
	_, err := s.Dynamo.PutItemIfAbsent(ctx, models.ProfilesTable, profile, "userId")
	return err
}

func (s *DynamoProfileStore) AddToSet(ctx context.Context, userID, field, member string) error {
	return s.Dynamo.AddToStringSet(ctx, models.ProfilesTable, profileKey(userID), field, member)
}

func (s *DynamoProfileStore) RemoveFromSet(ctx context.Context, userID, field, member string) error {
	return s.Dynamo.DeleteFromStringSet(ctx, models.ProfilesTable, profileKey(userID), field, member)
}

func (s *DynamoProfileStore) SetAge(ctx context.Context, userID string, age int) error {
	_, err := s.Dynamo.UpdateItem(ctx, models.ProfilesTable, "SET age = :age", profileKey(userID),
		map[string]types.AttributeValue{
			":age": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", age)},
		}, nil)
	return err
}

func (s *DynamoProfileStore) ListExcluding(ctx context.Context, exclude map[string]struct{}, limit int) ([]models.Profile, error) {
	var profiles []models.Profile
	err := s.Dynamo.ScanWithFilter(ctx, models.ProfilesTable, func(item map[string]types.AttributeValue) bool {
		owner := utils.ExtractString(item, "userId")
		if owner == "" {
			return false
		}
		_, excluded := exclude[owner]
		return !excluded
	}, &profiles)
	if err != nil {
		return nil, err
	}

	if limit > 0 && len(profiles) > limit {
		profiles = profiles[:limit]
	}
	return profiles, nil
}
