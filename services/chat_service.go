package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"amora_server/apperrors"
	"amora_server/models"
	"amora_server/utils"
)

// messageHistoryCap bounds how many messages one conversation fetch returns.
const messageHistoryCap = 100

// ChatService maintains conversation history between matched users. Every
// read and write is guarded by RequireMatch.
type ChatService struct {
	Accounts AccountStore
	Matches  MatchStore
	Messages MessageStore
}

func NewChatService(accounts AccountStore, matches MatchStore, messages MessageStore) *ChatService {
	return &ChatService{Accounts: accounts, Matches: matches, Messages: messages}
}

// RequireMatch fails unless an active match exists between the two users.
// The canonical pair key covers both orientations in a single lookup.
func (s *ChatService) RequireMatch(ctx context.Context, a, b string) error {
	match, err := s.Matches.Get(ctx, utils.PairKey(a, b))
	if err != nil {
		return err
	}
	if match == nil || !match.Active {
		return apperrors.Forbidden("NOT_MATCHED", "you can only message users you have matched with")
	}
	return nil
}

// ListConversations produces one summary row per active match, sorted by
// most recent activity; a conversation with no messages yet falls back to
// the match creation time.
func (s *ChatService) ListConversations(ctx context.Context, ownerID string) ([]models.ConversationSummary, error) {
	if ownerID == "" {
		return nil, apperrors.Validation("MISSING_FIELDS", "user id is required")
	}

	matches, err := s.Matches.ListActiveByUser(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	summaries := make([]models.ConversationSummary, 0, len(matches))
	for _, match := range matches {
		counterpartID := match.Counterpart(ownerID)
		conversationID := utils.ConversationID(ownerID, counterpartID)

		summary := models.ConversationSummary{
			ConversationID:  conversationID,
			UserID:          counterpartID,
			LastMessage:     "Start a conversation",
			LastMessageTime: match.MatchedAt,
		}

		if account, err := s.Accounts.Get(ctx, counterpartID); err == nil && account != nil {
			summary.UserName = account.Name
			summary.UserPhoto = account.PhotoURL
		}

		latest, err := s.Messages.Latest(ctx, conversationID)
		if err != nil {
			return nil, err
		}
		if latest != nil {
			summary.LastMessage = latest.Content
			summary.LastMessageTime = latest.CreatedAt
		}

		unread, err := s.Messages.CountUnread(ctx, conversationID, ownerID)
		if err != nil {
			return nil, err
		}
		summary.UnreadCount = unread

		summaries = append(summaries, summary)
	}

	// Timestamps are fixed width, so string order is time order.
	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].LastMessageTime > summaries[j].LastMessageTime
	})
	return summaries, nil
}

// ListMessages returns the conversation with counterpartID in ascending
// creation order, capped at the most recent 100. As a side effect, every
// unread message addressed to ownerID in the conversation becomes read:
// viewing marks read.
func (s *ChatService) ListMessages(ctx context.Context, ownerID, counterpartID string) ([]models.Message, error) {
	if err := validatePair(ownerID, counterpartID); err != nil {
		return nil, err
	}
	if err := s.RequireMatch(ctx, ownerID, counterpartID); err != nil {
		return nil, err
	}

	conversationID := utils.ConversationID(ownerID, counterpartID)
	messages, err := s.Messages.ListAscending(ctx, conversationID, messageHistoryCap)
	if err != nil {
		return nil, err
	}

	if _, err := s.Messages.MarkRead(ctx, conversationID, ownerID); err != nil {
		return nil, err
	}
	return messages, nil
}

// SendMessage persists a new unread message from sender to receiver. The
// caller is responsible for real-time delivery through the presence map.
func (s *ChatService) SendMessage(ctx context.Context, senderID, receiverID, content string) (*models.Message, error) {
	if err := validatePair(senderID, receiverID); err != nil {
		return nil, err
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperrors.Validation("EMPTY_MESSAGE", "message content is required")
	}

	if err := s.RequireMatch(ctx, senderID, receiverID); err != nil {
		return nil, err
	}

	createdAt := utils.Timestamp(time.Now())
	messageID := uuid.NewString()
	message := models.Message{
		ConversationID: utils.ConversationID(senderID, receiverID),
		MessageKey:     models.MessageSortKey(createdAt, messageID),
		CreatedAt:      createdAt,
		MessageID:      messageID,
		SenderID:       senderID,
		ReceiverID:     receiverID,
		Content:        content,
		IsRead:         false,
	}

	if err := s.Messages.Append(ctx, message); err != nil {
		return nil, err
	}
	return &message, nil
}

// MarkRead transitions all unread messages addressed to ownerID in the
// conversation to read. Calling it with nothing unread is a no-op.
func (s *ChatService) MarkRead(ctx context.Context, ownerID, counterpartID string) (int, error) {
	if err := validatePair(ownerID, counterpartID); err != nil {
		return 0, err
	}
	if err := s.RequireMatch(ctx, ownerID, counterpartID); err != nil {
		return 0, err
	}
	return s.Messages.MarkRead(ctx, utils.ConversationID(ownerID, counterpartID), ownerID)
}
