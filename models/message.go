package models

// Message is one chat message inside a conversation. The conversation id is
// derived from the two participant ids, so messages need no separate
// conversation table.
type Message struct {
	ConversationID string `dynamodbav:"conversationId" json:"conversationId"`
	// MessageKey is the range key: the fixed-width creation timestamp
	// suffixed with the message id, so two sends on the same instant
	// remain distinct items in timestamp order.
	MessageKey string `dynamodbav:"messageKey" json:"-"`
	CreatedAt  string `dynamodbav:"createdAt" json:"createdAt"`
	MessageID  string `dynamodbav:"messageId" json:"messageId"`
	SenderID   string `dynamodbav:"senderId" json:"senderId"`
	ReceiverID string `dynamodbav:"receiverId" json:"receiverId"`
	Content    string `dynamodbav:"content" json:"content"`
	IsRead     bool   `dynamodbav:"isRead" json:"isRead"`
}

// MessageSortKey builds the range key for a message. The timestamp is fixed
// width, so keys still sort chronologically.
func MessageSortKey(createdAt, messageID string) string {
	return createdAt + "#" + messageID
}

// MessagesTable is the DynamoDB table name for chat messages
const MessagesTable = "Messages"
