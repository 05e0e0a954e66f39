package services

import (
	"context"

	"amora_server/models"
)

// The engine and history services work against these narrow store
// interfaces so the matching and conversation logic can be exercised
// without a live DynamoDB table.

// AccountStore is durable storage for accounts.
type AccountStore interface {
	Create(ctx context.Context, account models.Account) error
	Get(ctx context.Context, userID string) (*models.Account, error)
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	Update(ctx context.Context, userID string, updates map[string]interface{}) (*models.Account, error)
}

// ProfileStore is durable storage for matching profiles.
type ProfileStore interface {
	Get(ctx context.Context, userID string) (*models.Profile, error)
	// Ensure returns the profile for userID, creating it with defaultAge
	// when absent. Safe to call concurrently for the same id.
	Ensure(ctx context.Context, userID string, defaultAge int) (*models.Profile, error)
	Create(ctx context.Context, profile models.Profile) error
	AddToSet(ctx context.Context, userID, field, member string) error
	RemoveFromSet(ctx context.Context, userID, field, member string) error
	SetAge(ctx context.Context, userID string, age int) error
	// ListExcluding returns up to limit profiles whose owner is not in
	// exclude. Ordering among candidates is unspecified.
	ListExcluding(ctx context.Context, exclude map[string]struct{}, limit int) ([]models.Profile, error)
}

// MatchStore is durable storage for canonical match records.
type MatchStore interface {
	Get(ctx context.Context, pairKey string) (*models.Match, error)
	// CreateIfAbsent stores the match only when no record exists for its
	// pair key, reporting whether it was created. This is the guard that
	// keeps concurrent double-likes from producing duplicate records.
	CreateIfAbsent(ctx context.Context, match models.Match) (bool, error)
	Reactivate(ctx context.Context, pairKey, matchedAt string) error
	ListActiveByUser(ctx context.Context, userID string) ([]models.Match, error)
	// DeactivateAndUnlink removes each user from the other's matches set
	// and deactivates the pair's match record as one atomic unit.
	DeactivateAndUnlink(ctx context.Context, userA, userB string) error
}

// MessageStore is durable storage for conversation messages.
type MessageStore interface {
	Append(ctx context.Context, message models.Message) error
	// ListAscending returns the most recent limit messages in ascending
	// creation order.
	ListAscending(ctx context.Context, conversationID string, limit int32) ([]models.Message, error)
	Latest(ctx context.Context, conversationID string) (*models.Message, error)
	CountUnread(ctx context.Context, conversationID, receiverID string) (int, error)
	// MarkRead transitions every unread message addressed to receiverID in
	// the conversation to read, returning how many changed.
	MarkRead(ctx context.Context, conversationID, receiverID string) (int, error)
	DeleteConversation(ctx context.Context, conversationID string) error
}
