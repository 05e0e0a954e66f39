package services

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"amora_server/models"
)

// DynamoAccountStore persists accounts in the Accounts table.
type DynamoAccountStore struct {
	Dynamo *DynamoService
}

func NewDynamoAccountStore(dynamo *DynamoService) *DynamoAccountStore {
	return &DynamoAccountStore{Dynamo: dynamo}
}

func accountKey(userID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"userId": &types.AttributeValueMemberS{Value: userID},
	}
}

func (s *DynamoAccountStore) Create(ctx context.Context, account models.Account) error {
	created, err := s.Dynamo.PutItemIfAbsent(ctx, models.AccountsTable, account, "userId")
	if err != nil {
		return err
	}
	if !created {
		return fmt.Errorf("account %s already exists", account.UserID)
	}
	return nil
}

func (s *DynamoAccountStore) Get(ctx context.Context, userID string) (*models.Account, error) {
	item, err := s.Dynamo.GetItem(ctx, models.AccountsTable, accountKey(userID))
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, nil
	}

	var account models.Account
	if err := attributevalue.UnmarshalMap(item, &account); err != nil {
		return nil, fmt.Errorf("failed to unmarshal account: %w", err)
	}
	return &account, nil
}

// GetByEmail looks an account up through the email GSI. Returns nil when no
// account carries the address.
func (s *DynamoAccountStore) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	items, err := s.Dynamo.QueryItemsWithIndex(ctx, models.AccountsTable, models.AccountsEmailIndex,
		"email = :email",
		map[string]types.AttributeValue{
			":email": &types.AttributeValueMemberS{Value: email},
		}, 1)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}

	var account models.Account
	if err := attributevalue.UnmarshalMap(items[0], &account); err != nil {
		return nil, fmt.Errorf("failed to unmarshal account: %w", err)
	}
	return &account, nil
}

// Update applies a partial update and returns the new account state, or nil
// when no account exists for userID. The update is conditional on the item
// existing so an unknown id cannot materialize a phantom account.
func (s *DynamoAccountStore) Update(ctx context.Context, userID string, updates map[string]interface{}) (*models.Account, error) {
	updateExpression := "SET"
	expressionValues := make(map[string]types.AttributeValue)
	expressionNames := make(map[string]string)

	for field, value := range updates {
		placeholder := ":" + field
		name := "#" + field
		updateExpression += " " + name + " = " + placeholder + ","

		attr, err := attributevalue.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal update for %s: %w", field, err)
		}
		expressionValues[placeholder] = attr
		expressionNames[name] = field
	}
	updateExpression = updateExpression[:len(updateExpression)-1]

	updated, exists, err := s.Dynamo.UpdateItemIfExists(ctx, models.AccountsTable, updateExpression, "userId", accountKey(userID), expressionValues, expressionNames)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, nil
	}

	var account models.Account
	if err := attributevalue.UnmarshalMap(updated, &account); err != nil {
		return nil, fmt.Errorf("failed to unmarshal updated account: %w", err)
	}
	return &account, nil
}
