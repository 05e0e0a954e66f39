package middleware

import (
	"context"
	"net/http"
	"strings"

	"amora_server/apperrors"
	"amora_server/auth"
)

// contextKey is a private type so context values cannot collide with other
// packages.
type contextKey string

const userIDKey contextKey = "userID"

// AuthMiddleware validates the Bearer session token and stores the caller's
// account id in the request context.
func AuthMiddleware(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				apperrors.Write(w, apperrors.Unauthorized("NO_AUTH_HEADER", "no authorization header provided"))
				return
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				apperrors.Write(w, apperrors.Unauthorized("NO_TOKEN", "authorization header must be Bearer {token}"))
				return
			}

			claims, err := auth.ValidateToken(parts[1], jwtSecret)
			if err != nil {
				apperrors.Write(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, claims.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserID returns the authenticated account id from the request context.
func GetUserID(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDKey).(string)
	return userID, ok
}
