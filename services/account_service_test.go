package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"amora_server/apperrors"
	"amora_server/auth"
	"amora_server/models"
	"amora_server/utils"
)

const testSecret = "test-secret"

func newTestAccountService(ts *testStores) *AccountService {
	return NewAccountService(ts.accounts, ts.profiles, testSecret, time.Hour)
}

func birthdayYearsAgo(years int) string {
	return time.Now().AddDate(-years, 0, 0).Format("2006-01-02")
}

func validRegistration() RegisterRequest {
	return RegisterRequest{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "s3cret!",
		Gender:   "female",
		Birthday: birthdayYearsAgo(30),
	}
}

func TestCalculateAge(t *testing.T) {
	now := time.Date(2026, time.August, 30, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		birth time.Time
		want  int
	}{
		{"birthday passed this year", time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC), 26},
		{"birthday later this year", time.Date(2000, time.December, 1, 0, 0, 0, 0, time.UTC), 25},
		{"birthday today", time.Date(2000, time.August, 30, 0, 0, 0, 0, time.UTC), 26},
		{"birthday tomorrow", time.Date(2000, time.August, 31, 0, 0, 0, 0, time.UTC), 25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CalculateAge(tt.birth, now))
		})
	}
}

func TestRegisterCreatesAccountAndProfile(t *testing.T) {
	ts := newTestStores()
	svc := newTestAccountService(ts)
	ctx := context.Background()

	resp, err := svc.Register(ctx, validRegistration())
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.NotEmpty(t, resp.Account.UserID)
	assert.Equal(t, 30, resp.Account.Age)

	claims, err := auth.ValidateToken(resp.Token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, resp.Account.UserID, claims.UserID)

	profile, err := ts.profiles.Get(ctx, resp.Account.UserID)
	require.NoError(t, err)
	require.NotNil(t, profile)
	assert.Equal(t, 30, profile.Age)
}

func TestRegisterValidation(t *testing.T) {
	ts := newTestStores()
	svc := newTestAccountService(ts)
	ctx := context.Background()

	tests := []struct {
		name     string
		mutate   func(*RegisterRequest)
		wantCode string
	}{
		{"missing name", func(r *RegisterRequest) { r.Name = "" }, "MISSING_FIELDS"},
		{"missing password", func(r *RegisterRequest) { r.Password = "" }, "MISSING_FIELDS"},
		{"bad email", func(r *RegisterRequest) { r.Email = "not-an-email" }, "INVALID_EMAIL"},
		{"short password", func(r *RegisterRequest) { r.Password = "abc" }, "WEAK_PASSWORD"},
		{"bad birthday", func(r *RegisterRequest) { r.Birthday = "31-12-2000" }, "INVALID_BIRTHDAY"},
		{"underage", func(r *RegisterRequest) { r.Birthday = birthdayYearsAgo(17) }, "UNDERAGE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRegistration()
			tt.mutate(&req)
			_, err := svc.Register(ctx, req)
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, apperrors.From(err).Code)
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	ts := newTestStores()
	svc := newTestAccountService(ts)
	ctx := context.Background()

	_, err := svc.Register(ctx, validRegistration())
	require.NoError(t, err)

	_, err = svc.Register(ctx, validRegistration())
	require.Error(t, err)
	appErr := apperrors.From(err)
	assert.Equal(t, "EMAIL_EXISTS", appErr.Code)
	assert.Equal(t, 409, appErr.Status)
}

func TestLogin(t *testing.T) {
	ts := newTestStores()
	svc := newTestAccountService(ts)
	ctx := context.Background()

	req := validRegistration()
	_, err := svc.Register(ctx, req)
	require.NoError(t, err)

	resp, err := svc.Login(ctx, req.Email, req.Password)
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, req.Email, resp.Account.Email)

	_, err = svc.Login(ctx, req.Email, "wrong-password")
	require.Error(t, err)
	assert.Equal(t, "INVALID_CREDENTIALS", apperrors.From(err).Code)

	_, err = svc.Login(ctx, "nobody@example.com", "whatever")
	require.Error(t, err)
	assert.Equal(t, "USER_NOT_FOUND", apperrors.From(err).Code)
}

func TestUpdateAccount(t *testing.T) {
	ts := newTestStores()
	svc := newTestAccountService(ts)
	ctx := context.Background()

	resp, err := svc.Register(ctx, validRegistration())
	require.NoError(t, err)
	userID := resp.Account.UserID

	_, err = svc.Update(ctx, userID, UpdateRequest{})
	require.Error(t, err)
	assert.Equal(t, "NO_UPDATE_FIELDS", apperrors.From(err).Code)

	bio := "hiking and bad puns"
	name := "Alice B."
	updated, err := svc.Update(ctx, userID, UpdateRequest{Name: &name, Bio: &bio})
	require.NoError(t, err)
	assert.Equal(t, "Alice B.", updated.Name)
	assert.Equal(t, bio, updated.Bio)
}

func TestUpdateBirthdayPropagatesAge(t *testing.T) {
	ts := newTestStores()
	svc := newTestAccountService(ts)
	ctx := context.Background()

	resp, err := svc.Register(ctx, validRegistration())
	require.NoError(t, err)
	userID := resp.Account.UserID

	birthday := birthdayYearsAgo(21)
	updated, err := svc.Update(ctx, userID, UpdateRequest{Birthday: &birthday})
	require.NoError(t, err)
	assert.Equal(t, 21, updated.Age)

	profile, err := ts.profiles.Get(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 21, profile.Age)
}

func TestUpdateUnknownUserTouchesNothing(t *testing.T) {
	ts := newTestStores()
	svc := newTestAccountService(ts)
	ctx := context.Background()

	// A profile without an account, as after a partial deletion. The
	// failed account update must not move its age.
	ts.profiles.profiles["ghost"] = models.Profile{UserID: "ghost", Age: 30}

	birthday := birthdayYearsAgo(21)
	_, err := svc.Update(ctx, "ghost", UpdateRequest{Birthday: &birthday})
	require.Error(t, err)
	assert.Equal(t, "USER_NOT_FOUND", apperrors.From(err).Code)

	profile, err := ts.profiles.Get(ctx, "ghost")
	require.NoError(t, err)
	assert.Equal(t, 30, profile.Age)
}

func TestUpdateEmailConflict(t *testing.T) {
	ts := newTestStores()
	svc := newTestAccountService(ts)
	ctx := context.Background()

	first, err := svc.Register(ctx, validRegistration())
	require.NoError(t, err)

	second := validRegistration()
	second.Email = "bob@example.com"
	secondResp, err := svc.Register(ctx, second)
	require.NoError(t, err)

	taken := "alice@example.com"
	_, err = svc.Update(ctx, secondResp.Account.UserID, UpdateRequest{Email: &taken})
	require.Error(t, err)
	assert.Equal(t, "EMAIL_EXISTS", apperrors.From(err).Code)

	// Re-submitting your own email is not a conflict.
	own := taken
	_, err = svc.Update(ctx, first.Account.UserID, UpdateRequest{Email: &own})
	require.NoError(t, err)
}

func TestRegisterToUnmatchFlow(t *testing.T) {
	ts := newTestStores()
	svc := newTestAccountService(ts)
	ctx := context.Background()

	aliceReq := validRegistration()
	bobReq := validRegistration()
	bobReq.Name = "Bob"
	bobReq.Email = "bob@example.com"
	bobReq.Gender = "male"

	alice, err := svc.Register(ctx, aliceReq)
	require.NoError(t, err)
	bob, err := svc.Register(ctx, bobReq)
	require.NoError(t, err)
	aliceID, bobID := alice.Account.UserID, bob.Account.UserID

	candidates, err := ts.engine.ListCandidates(ctx, aliceID, 20)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, bobID, candidates[0].UserID)

	result, err := ts.engine.RecordLike(ctx, aliceID, bobID)
	require.NoError(t, err)
	assert.False(t, result.IsMatch)

	result, err = ts.engine.RecordLike(ctx, bobID, aliceID)
	require.NoError(t, err)
	require.True(t, result.IsMatch)

	message, err := ts.chat.SendMessage(ctx, aliceID, bobID, "hi Bob!")
	require.NoError(t, err)

	summaries, err := ts.chat.ListConversations(ctx, bobID)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, "hi Bob!", summaries[0].LastMessage)
	assert.Equal(t, 1, summaries[0].UnreadCount)

	messages, err := ts.chat.ListMessages(ctx, bobID, aliceID)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, message.MessageID, messages[0].MessageID)

	require.NoError(t, ts.engine.Unmatch(ctx, bobID, aliceID))

	_, err = ts.chat.SendMessage(ctx, aliceID, bobID, "hello?")
	require.Error(t, err)
	assert.Equal(t, "NOT_MATCHED", apperrors.From(err).Code)

	latest, err := ts.messages.Latest(ctx, utils.ConversationID(aliceID, bobID))
	require.NoError(t, err)
	assert.Nil(t, latest)
}
