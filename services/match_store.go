package services

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"amora_server/models"
	"amora_server/utils"
)

// DynamoMatchStore persists canonical match records in the Matches table.
type DynamoMatchStore struct {
	Dynamo *DynamoService
}

func NewDynamoMatchStore(dynamo *DynamoService) *DynamoMatchStore {
	return &DynamoMatchStore{Dynamo: dynamo}
}

func matchKey(pairKey string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"pairKey": &types.AttributeValueMemberS{Value: pairKey},
	}
}

func (s *DynamoMatchStore) Get(ctx context.Context, pairKey string) (*models.Match, error) {
	item, err := s.Dynamo.GetItem(ctx, models.MatchesTable, matchKey(pairKey))
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, nil
	}

	var match models.Match
	if err := attributevalue.UnmarshalMap(item, &match); err != nil {
		return nil, fmt.Errorf("failed to unmarshal match: %w", err)
	}
	return &match, nil
}

func (s *DynamoMatchStore) CreateIfAbsent(ctx context.Context, match models.Match) (bool, error) {
	return s.Dynamo.PutItemIfAbsent(ctx, models.MatchesTable, match, "pairKey")
}

func (s *DynamoMatchStore) Reactivate(ctx context.Context, pairKey, matchedAt string) error {
	_, err := s.Dynamo.UpdateItem(ctx, models.MatchesTable, "SET active = :active, matchedAt = :matchedAt", matchKey(pairKey),
		map[string]types.AttributeValue{
			":active":    &types.AttributeValueMemberBOOL{Value: true},
			":matchedAt": &types.AttributeValueMemberS{Value: matchedAt},
		}, nil)
	return err
}

func (s *DynamoMatchStore) ListActiveByUser(ctx context.Context, userID string) ([]models.Match, error) {
	var matches []models.Match
	err := s.Dynamo.ScanWithFilter(ctx, models.MatchesTable, func(item map[string]types.AttributeValue) bool {
		if !utils.ExtractBool(item, "active") {
			return false
		}
		return utils.ExtractString(item, "user1") == userID || utils.ExtractString(item, "user2") == userID
	}, &matches)
	if err != nil {
		return nil, err
	}
	return matches, nil
}

// DeactivateAndUnlink commits both profiles' set-removals and the match
// deactivation as one transaction, so unmatch can never be half-applied.
func (s *DynamoMatchStore) DeactivateAndUnlink(ctx context.Context, userA, userB string) error {
	pairKey := utils.PairKey(userA, userB)

	removeFromMatches := func(owner, member string) types.TransactWriteItem {
		return types.TransactWriteItem{
			Update: &types.Update{
				TableName:        aws.String(models.ProfilesTable),
				Key:              profileKey(owner),
				UpdateExpression: aws.String("DELETE #matches :member"),
				ExpressionAttributeNames: map[string]string{
					"#matches": models.ProfileFieldMatches,
				},
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":member": &types.AttributeValueMemberSS{Value: []string{member}},
				},
			},
		}
	}

	items := []types.TransactWriteItem{
		removeFromMatches(userA, userB),
		removeFromMatches(userB, userA),
		{
			Update: &types.Update{
				TableName:        aws.String(models.MatchesTable),
				Key:              matchKey(pairKey),
				UpdateExpression: aws.String("SET active = :inactive"),
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":inactive": &types.AttributeValueMemberBOOL{Value: false},
				},
			},
		},
	}

	return s.Dynamo.TransactWrite(ctx, items)
}
