package services

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"amora_server/models"
	"amora_server/utils"
)

// DynamoMessageStore persists chat messages in the Messages table, keyed by
// conversation id with the timestamp-plus-id message key as range key.
type DynamoMessageStore struct {
	Dynamo *DynamoService
}

func NewDynamoMessageStore(dynamo *DynamoService) *DynamoMessageStore {
	return &DynamoMessageStore{Dynamo: dynamo}
}

// cascadePageSize bounds how many message keys one unmatch cascade query
// fetches; well above the per-fetch history cap of 100.
const cascadePageSize = 1000

func conversationCondition(conversationID string) (string, map[string]types.AttributeValue) {
	return "conversationId = :cid", map[string]types.AttributeValue{
		":cid": &types.AttributeValueMemberS{Value: conversationID},
	}
}

func (s *DynamoMessageStore) Append(ctx context.Context, message models.Message) error {
	return s.Dynamo.PutItem(ctx, models.MessagesTable, message)
}

// ListAscending fetches the newest limit messages, returned oldest first.
func (s *DynamoMessageStore) ListAscending(ctx context.Context, conversationID string, limit int32) ([]models.Message, error) {
	keyCondition, values := conversationCondition(conversationID)
	items, err := s.Dynamo.QueryItemsWithOptions(ctx, models.MessagesTable, keyCondition, values, limit, true)
	if err != nil {
		return nil, err
	}

	var messages []models.Message
	if err := attributevalue.UnmarshalListOfMaps(items, &messages); err != nil {
		return nil, fmt.Errorf("failed to unmarshal messages: %w", err)
	}

	// Query returned newest first; flip to ascending creation order.
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

func (s *DynamoMessageStore) Latest(ctx context.Context, conversationID string) (*models.Message, error) {
	keyCondition, values := conversationCondition(conversationID)
	items, err := s.Dynamo.QueryItemsWithOptions(ctx, models.MessagesTable, keyCondition, values, 1, true)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}

	var message models.Message
	if err := attributevalue.UnmarshalMap(items[0], &message); err != nil {
		return nil, fmt.Errorf("failed to unmarshal message: %w", err)
	}
	return &message, nil
}

func (s *DynamoMessageStore) queryUnread(ctx context.Context, conversationID, receiverID string) ([]map[string]types.AttributeValue, error) {
	keyCondition, values := conversationCondition(conversationID)
	values[":rid"] = &types.AttributeValueMemberS{Value: receiverID}
	values[":unread"] = &types.AttributeValueMemberBOOL{Value: false}

	return s.Dynamo.QueryItemsWithFilters(ctx, models.MessagesTable, keyCondition, values,
		"receiverId = :rid AND isRead = :unread")
}

func (s *DynamoMessageStore) CountUnread(ctx context.Context, conversationID, receiverID string) (int, error) {
	items, err := s.queryUnread(ctx, conversationID, receiverID)
	if err != nil {
		return 0, err
	}
	return len(items), nil
}

func (s *DynamoMessageStore) MarkRead(ctx context.Context, conversationID, receiverID string) (int, error) {
	items, err := s.queryUnread(ctx, conversationID, receiverID)
	if err != nil {
		return 0, err
	}

	marked := 0
	for _, item := range items {
		messageKey := utils.ExtractString(item, "messageKey")
		if messageKey == "" {
			continue
		}

		key := map[string]types.AttributeValue{
			"conversationId": &types.AttributeValueMemberS{Value: conversationID},
			"messageKey":     &types.AttributeValueMemberS{Value: messageKey},
		}
		_, err := s.Dynamo.UpdateItem(ctx, models.MessagesTable, "SET isRead = :read", key,
			map[string]types.AttributeValue{
				":read": &types.AttributeValueMemberBOOL{Value: true},
			}, nil)
		if err != nil {
			return marked, err
		}
		marked++
	}
	return marked, nil
}

// DeleteConversation removes every message in the conversation. Re-running
// it is a no-op, which is what makes a retried unmatch cascade safe.
func (s *DynamoMessageStore) DeleteConversation(ctx context.Context, conversationID string) error {
	keyCondition, values := conversationCondition(conversationID)
	items, err := s.Dynamo.QueryItems(ctx, models.MessagesTable, keyCondition, values, nil, cascadePageSize)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}

	writeRequests := make([]types.WriteRequest, 0, len(items))
	for _, item := range items {
		writeRequests = append(writeRequests, types.WriteRequest{
			DeleteRequest: &types.DeleteRequest{
				Key: map[string]types.AttributeValue{
					"conversationId": item["conversationId"],
					"messageKey":     item["messageKey"],
				},
			},
		})
	}
	return s.Dynamo.BatchWriteItems(ctx, models.MessagesTable, writeRequests)
}
