package services

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"amora_server/models"
	"amora_server/utils"
)

// In-memory store implementations backing the service tests. They mirror
// the semantics of the DynamoDB-backed stores: set fields never hold
// duplicates, conditional creation is first-writer-wins, and the unmatch
// transaction touches both profiles and the match record together.

type memAccountStore struct {
	mu       sync.Mutex
	accounts map[string]models.Account
}

func newMemAccountStore() *memAccountStore {
	return &memAccountStore{accounts: make(map[string]models.Account)}
}

func (s *memAccountStore) Create(ctx context.Context, account models.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[account.UserID]; ok {
		return fmt.Errorf("account %s already exists", account.UserID)
	}
	s.accounts[account.UserID] = account
	return nil
}

func (s *memAccountStore) Get(ctx context.Context, userID string) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	account, ok := s.accounts[userID]
	if !ok {
		return nil, nil
	}
	return &account, nil
}

func (s *memAccountStore) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, account := range s.accounts {
		if account.Email == email {
			a := account
			return &a, nil
		}
	}
	return nil, nil
}

func (s *memAccountStore) Update(ctx context.Context, userID string, updates map[string]interface{}) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	account, ok := s.accounts[userID]
	if !ok {
		return nil, nil
	}
	for field, value := range updates {
		switch field {
		case "name":
			account.Name = value.(string)
		case "email":
			account.Email = value.(string)
		case "bio":
			account.Bio = value.(string)
		case "photoUrl":
			account.PhotoURL = value.(string)
		case "gender":
			account.Gender = value.(string)
		case "birthday":
			account.Birthday = value.(string)
		case "age":
			account.Age = value.(int)
		}
	}
	s.accounts[userID] = account
	return &account, nil
}

type memProfileStore struct {
	mu       sync.Mutex
	profiles map[string]models.Profile
}

func newMemProfileStore() *memProfileStore {
	return &memProfileStore{profiles: make(map[string]models.Profile)}
}

func (s *memProfileStore) Get(ctx context.Context, userID string) (*models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	profile, ok := s.profiles[userID]
	if !ok {
		return nil, nil
	}
	return &profile, nil
}

func (s *memProfileStore) Ensure(ctx context.Context, userID string, defaultAge int) (*models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	profile, ok := s.profiles[userID]
	if !ok {
		profile = models.Profile{UserID: userID, Age: defaultAge}
		s.profiles[userID] = profile
	}
	return &profile, nil
}

func (s *memProfileStore) Create(ctx context.Context, profile models.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.profiles[profile.UserID]; ok {
		return fmt.Errorf("profile %s already exists", profile.UserID)
	}
	s.profiles[profile.UserID] = profile
	return nil
}

func (s *memProfileStore) AddToSet(ctx context.Context, userID, field, member string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	profile, ok := s.profiles[userID]
	if !ok {
		return fmt.Errorf("profile %s not found", userID)
	}
	set := s.setFor(&profile, field)
	if !models.Has(*set, member) {
		*set = append(*set, member)
	}
	s.profiles[userID] = profile
	return nil
}

func (s *memProfileStore) RemoveFromSet(ctx context.Context, userID, field, member string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeLocked(userID, field, member)
	return nil
}

func (s *memProfileStore) removeLocked(userID, field, member string) {
	profile, ok := s.profiles[userID]
	if !ok {
		return
	}
	set := s.setFor(&profile, field)
	filtered := (*set)[:0]
	for _, id := range *set {
		if id != member {
			filtered = append(filtered, id)
		}
	}
	*set = filtered
	s.profiles[userID] = profile
}

func (s *memProfileStore) setFor(profile *models.Profile, field string) *[]string {
	switch field {
	case models.ProfileFieldLiked:
		return &profile.LikedProfiles
	case models.ProfileFieldPassed:
		return &profile.PassedProfiles
	default:
		return &profile.Matches
	}
}

func (s *memProfileStore) SetAge(ctx context.Context, userID string, age int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	profile, ok := s.profiles[userID]
	if !ok {
		return fmt.Errorf("profile %s not found", userID)
	}
	profile.Age = age
	s.profiles[userID] = profile
	return nil
}

func (s *memProfileStore) ListExcluding(ctx context.Context, exclude map[string]struct{}, limit int) ([]models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.profiles))
	for id := range s.profiles {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var result []models.Profile
	for _, id := range ids {
		if _, skip := exclude[id]; skip {
			continue
		}
		result = append(result, s.profiles[id])
		if len(result) >= limit {
			break
		}
	}
	return result, nil
}

type memMatchStore struct {
	mu       sync.Mutex
	matches  map[string]models.Match
	profiles *memProfileStore
}

func newMemMatchStore(profiles *memProfileStore) *memMatchStore {
	return &memMatchStore{matches: make(map[string]models.Match), profiles: profiles}
}

func (s *memMatchStore) Get(ctx context.Context, pairKey string) (*models.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	match, ok := s.matches[pairKey]
	if !ok {
		return nil, nil
	}
	return &match, nil
}

func (s *memMatchStore) CreateIfAbsent(ctx context.Context, match models.Match) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.matches[match.PairKey]; ok {
		return false, nil
	}
	s.matches[match.PairKey] = match
	return true, nil
}

func (s *memMatchStore) Reactivate(ctx context.Context, pairKey, matchedAt string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	match, ok := s.matches[pairKey]
	if !ok {
		return fmt.Errorf("match %s not found", pairKey)
	}
	match.Active = true
	match.MatchedAt = matchedAt
	s.matches[pairKey] = match
	return nil
}

func (s *memMatchStore) ListActiveByUser(ctx context.Context, userID string) ([]models.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []models.Match
	for _, match := range s.matches {
		if match.Active && (match.User1 == userID || match.User2 == userID) {
			result = append(result, match)
		}
	}
	return result, nil
}

func (s *memMatchStore) DeactivateAndUnlink(ctx context.Context, userA, userB string) error {
	s.mu.Lock()
	pairKey := utils.PairKey(userA, userB)
	match, ok := s.matches[pairKey]
	if ok {
		match.Active = false
		s.matches[pairKey] = match
	}
	s.mu.Unlock()

	s.profiles.mu.Lock()
	s.profiles.removeLocked(userA, models.ProfileFieldMatches, userB)
	s.profiles.removeLocked(userB, models.ProfileFieldMatches, userA)
	s.profiles.mu.Unlock()
	return nil
}

// memMessageStore keys messages by conversation id plus message key, the
// same primary key the table uses, and sorts by the message key string the
// way a range-key query does.
type memMessageStore struct {
	mu            sync.Mutex
	conversations map[string]map[string]models.Message
}

func newMemMessageStore() *memMessageStore {
	return &memMessageStore{conversations: make(map[string]map[string]models.Message)}
}

func (s *memMessageStore) Append(ctx context.Context, message models.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	messages, ok := s.conversations[message.ConversationID]
	if !ok {
		messages = make(map[string]models.Message)
		s.conversations[message.ConversationID] = messages
	}
	messages[message.MessageKey] = message
	return nil
}

func (s *memMessageStore) sortedLocked(conversationID string) []models.Message {
	byKey := s.conversations[conversationID]
	keys := make([]string, 0, len(byKey))
	for key := range byKey {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	messages := make([]models.Message, 0, len(keys))
	for _, key := range keys {
		messages = append(messages, byKey[key])
	}
	return messages
}

func (s *memMessageStore) ListAscending(ctx context.Context, conversationID string, limit int32) ([]models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	messages := s.sortedLocked(conversationID)
	if int32(len(messages)) > limit {
		messages = messages[int32(len(messages))-limit:]
	}
	return messages, nil
}

func (s *memMessageStore) Latest(ctx context.Context, conversationID string) (*models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	messages := s.sortedLocked(conversationID)
	if len(messages) == 0 {
		return nil, nil
	}
	latest := messages[len(messages)-1]
	return &latest, nil
}

func (s *memMessageStore) CountUnread(ctx context.Context, conversationID, receiverID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, message := range s.conversations[conversationID] {
		if message.ReceiverID == receiverID && !message.IsRead {
			count++
		}
	}
	return count, nil
}

func (s *memMessageStore) MarkRead(ctx context.Context, conversationID, receiverID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	changed := 0
	for key, message := range s.conversations[conversationID] {
		if message.ReceiverID == receiverID && !message.IsRead {
			message.IsRead = true
			s.conversations[conversationID][key] = message
			changed++
		}
	}
	return changed, nil
}

func (s *memMessageStore) DeleteConversation(ctx context.Context, conversationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.conversations, conversationID)
	return nil
}

// testStores bundles the in-memory stores and the services built on them.
type testStores struct {
	accounts *memAccountStore
	profiles *memProfileStore
	matches  *memMatchStore
	messages *memMessageStore
	engine   *MatchService
	chat     *ChatService
}

func newTestStores() *testStores {
	accounts := newMemAccountStore()
	profiles := newMemProfileStore()
	matches := newMemMatchStore(profiles)
	messages := newMemMessageStore()
	return &testStores{
		accounts: accounts,
		profiles: profiles,
		matches:  matches,
		messages: messages,
		engine:   NewMatchService(accounts, profiles, matches, messages),
		chat:     NewChatService(accounts, matches, messages),
	}
}

func (ts *testStores) addAccount(userID, name, email string) {
	ts.accounts.accounts[userID] = models.Account{
		UserID: userID,
		Name:   name,
		Email:  email,
		Age:    25,
	}
	ts.profiles.profiles[userID] = models.Profile{UserID: userID, Age: 25}
}
