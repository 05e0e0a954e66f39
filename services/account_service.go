package services

import (
	"context"
	"regexp"
	"time"

	"github.com/google/uuid"

	"amora_server/apperrors"
	"amora_server/auth"
	"amora_server/models"
	"amora_server/utils"
)

const minimumAge = 18

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// AccountService handles registration, login, and account updates. Each
// account gets a 1:1 matching profile on creation.
type AccountService struct {
	Accounts  AccountStore
	Profiles  ProfileStore
	JWTSecret string
	JWTExpiry time.Duration
}

func NewAccountService(accounts AccountStore, profiles ProfileStore, jwtSecret string, jwtExpiry time.Duration) *AccountService {
	return &AccountService{Accounts: accounts, Profiles: profiles, JWTSecret: jwtSecret, JWTExpiry: jwtExpiry}
}

// RegisterRequest carries the fields of a registration call.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Gender   string `json:"gender"`
	Birthday string `json:"birthday"`
}

// UpdateRequest carries a partial account update. Nil pointers mean the
// field is untouched.
type UpdateRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Bio      *string `json:"bio"`
	PhotoURL *string `json:"photoUrl"`
	Gender   *string `json:"gender"`
	Birthday *string `json:"birthday"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Token   string         `json:"token"`
	Account models.Account `json:"user"`
}

// CalculateAge derives age in whole years from a birth date.
func CalculateAge(birthDate, now time.Time) int {
	age := now.Year() - birthDate.Year()
	if now.Month() < birthDate.Month() ||
		(now.Month() == birthDate.Month() && now.Day() < birthDate.Day()) {
		age--
	}
	return age
}

func parseBirthday(birthday string) (time.Time, int, error) {
	birthDate, err := time.Parse("2006-01-02", birthday)
	if err != nil {
		return time.Time{}, 0, apperrors.Validation("INVALID_BIRTHDAY", "invalid birth date format")
	}
	age := CalculateAge(birthDate, time.Now())
	if age < minimumAge {
		return time.Time{}, 0, apperrors.Validation("UNDERAGE", "you must be at least 18 years old")
	}
	return birthDate, age, nil
}

// Register creates an account and its paired matching profile, returning a
// session token.
func (s *AccountService) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	if req.Name == "" || req.Email == "" || req.Password == "" || req.Gender == "" || req.Birthday == "" {
		return nil, apperrors.Validation("MISSING_FIELDS", "missing required fields")
	}
	if !emailPattern.MatchString(req.Email) {
		return nil, apperrors.Validation("INVALID_EMAIL", "invalid email format")
	}
	if len(req.Password) < 6 {
		return nil, apperrors.Validation("WEAK_PASSWORD", "password must be at least 6 characters long")
	}

	_, age, err := parseBirthday(req.Birthday)
	if err != nil {
		return nil, err
	}

	existing, err := s.Accounts.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.Conflict("EMAIL_EXISTS", "email already registered")
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	account := models.Account{
		UserID:       uuid.NewString(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Gender:       req.Gender,
		Birthday:     req.Birthday,
		Age:          age,
		CreatedAt:    utils.Timestamp(time.Now()),
	}
	if err := s.Accounts.Create(ctx, account); err != nil {
		return nil, err
	}

	if err := s.Profiles.Create(ctx, models.Profile{UserID: account.UserID, Age: age}); err != nil {
		return nil, err
	}

	token, err := auth.GenerateToken(account.UserID, s.JWTSecret, s.JWTExpiry)
	if err != nil {
		return nil, err
	}
	return &AuthResponse{Token: token, Account: account}, nil
}

// Login authenticates by email and password, returning a session token.
func (s *AccountService) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	if email == "" || password == "" {
		return nil, apperrors.Validation("MISSING_FIELDS", "email and password are required")
	}

	account, err := s.Accounts.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, apperrors.NotFound("USER_NOT_FOUND", "user not found")
	}
	if !auth.CheckPasswordHash(password, account.PasswordHash) {
		return nil, apperrors.Unauthorized("INVALID_CREDENTIALS", "invalid credentials")
	}

	token, err := auth.GenerateToken(account.UserID, s.JWTSecret, s.JWTExpiry)
	if err != nil {
		return nil, err
	}
	return &AuthResponse{Token: token, Account: *account}, nil
}

// Update applies a partial account update. A birthday change recomputes the
// age and propagates it to the matching profile.
func (s *AccountService) Update(ctx context.Context, userID string, req UpdateRequest) (*models.Account, error) {
	if req.Name == nil && req.Email == nil && req.Bio == nil && req.PhotoURL == nil && req.Gender == nil && req.Birthday == nil {
		return nil, apperrors.Validation("NO_UPDATE_FIELDS", "no fields to update")
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Email != nil {
		if !emailPattern.MatchString(*req.Email) {
			return nil, apperrors.Validation("INVALID_EMAIL", "invalid email format")
		}
		existing, err := s.Accounts.GetByEmail(ctx, *req.Email)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.UserID != userID {
			return nil, apperrors.Conflict("EMAIL_EXISTS", "email already in use")
		}
		updates["email"] = *req.Email
	}
	if req.Bio != nil {
		updates["bio"] = *req.Bio
	}
	if req.PhotoURL != nil {
		updates["photoUrl"] = *req.PhotoURL
	}
	if req.Gender != nil {
		updates["gender"] = *req.Gender
	}
	var newAge *int
	if req.Birthday != nil {
		_, age, err := parseBirthday(*req.Birthday)
		if err != nil {
			return nil, err
		}
		updates["birthday"] = *req.Birthday
		updates["age"] = age
		newAge = &age
	}

	account, err := s.Accounts.Update(ctx, userID, updates)
	if err != nil {
		return nil, err
	}
	if account == nil || account.UserID == "" {
		return nil, apperrors.NotFound("USER_NOT_FOUND", "user not found")
	}

	// The profile age follows only once the account write has landed.
	if newAge != nil {
		if err := s.Profiles.SetAge(ctx, userID, *newAge); err != nil {
			return nil, err
		}
	}
	return account, nil
}
