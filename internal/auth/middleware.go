// internal/auth/middleware.go
package auth

import (
	"context"
	"net/http"
	"strings"

	"spendtrack/internal/util"
)

type ctxKey string

const userIDKey ctxKey = "user_id"

// Middleware returns a net/http middleware that requires a valid bearer token
// and resolves it to a user id stored in the request context. Handlers behind
// it never see raw credentials, only the authenticated identity.
func (m *TokenManager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := r.Header.Get("Authorization")
		if h == "" || !strings.HasPrefix(h, "Bearer ") {
			http.Error(w, "missing auth token", http.StatusUnauthorized)
			return
		}

		userID, err := m.Verify(strings.TrimPrefix(h, "Bearer "))
		if err != nil {
			http.Error(w, "invalid or expired token", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserIDFromContext extracts the authenticated user id placed by Middleware.
func UserIDFromContext(ctx context.Context) (int64, error) {
	userID, ok := ctx.Value(userIDKey).(int64)
	if !ok {
		return 0, util.ErrUnauthenticated
	}
	return userID, nil
}
