package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/healthtrack/backend/internal/apperror"
)

// contextKey is an unexported type for context keys in this package.
// Only this package can create a key of this type, so no other package can
// read or shadow the userID we store in the request context.
type contextKey string

const userIDKey contextKey = "userID"

// ErrNoToken is returned by BearerToken when the Authorization header is
// missing or not of the form "Bearer <token>".
var ErrNoToken = errors.New("auth: no bearer token")

// BearerToken extracts the token from an "Authorization: Bearer <token>"
// header.
func BearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return "", ErrNoToken
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	if token == "" {
		return "", ErrNoToken
	}
	return token, nil
}

// RequireAuth gates protected routes. It reads the bearer token from the
// Authorization header, verifies it, and stores the resolved userID in the
// request context for handlers downstream.
//
// Two distinct failures, both 401:
//   - no token at all        → "Authentication required"
//   - bad or expired token   → "Invalid or expired token"
//
// A valid token is trusted as-is for its whole lifetime; the gate does not
// re-check that the account still exists on every request.
func RequireAuth(tokens *TokenService, onError func(w http.ResponseWriter, err error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr, err := BearerToken(r)
			if err != nil {
				onError(w, apperror.Unauthenticated())
				return
			}

			userID, err := tokens.Verify(tokenStr)
			if err != nil {
				onError(w, apperror.InvalidToken())
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserIDFromContext retrieves the authenticated user's ID set by RequireAuth.
// Returns ("", false) if the request never passed the gate.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}

// WithUserID returns a context carrying the given userID, as RequireAuth
// would set it. Test helper for exercising handlers without the middleware.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}
