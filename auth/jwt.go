package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"amora_server/apperrors"
)

// Claims are the JWT claims carried by a session token. The subject is the
// account id; everything else is standard.
type Claims struct {
	UserID string `json:"id"`
	jwt.RegisteredClaims
}

// GenerateToken issues a signed session token for the given account.
func GenerateToken(userID, secret string, expiry time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "amora-server",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken parses and verifies a session token, returning its claims.
// Failures are reported with the taxonomy codes the API exposes.
func ValidateToken(tokenString, secret string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.Unauthorized("TOKEN_EXPIRED", "token has expired")
		}
		return nil, apperrors.Unauthorized("INVALID_TOKEN", "invalid token")
	}
	if !token.Valid || claims.UserID == "" {
		return nil, apperrors.Unauthorized("INVALID_TOKEN", "invalid token")
	}
	return claims, nil
}
