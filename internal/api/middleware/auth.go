package middleware

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/devhire/backend/internal/domain"
	"github.com/devhire/backend/internal/session"
	"github.com/devhire/backend/internal/token"
)

type contextKey string

const userKey contextKey = "user"

// Authenticate resolves the access token to a live session. Token
// validity alone is not enough: the session entry must still exist in
// cache, which is what makes logout and admin deletion immediate.
func Authenticate(tokens *token.Service, sessions *session.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			accessToken := tokenFromRequest(r)
			if accessToken == "" {
				unauthorized(w, "You are not logged in")
				return
			}

			userID, err := tokens.VerifyAccessToken(accessToken)
			if err != nil {
				log.Printf("ERROR [middleware.Authenticate] token verification failed: %v", err)
				unauthorized(w, "Access token expired")
				return
			}

			user, err := sessions.Get(r.Context(), userID)
			if err != nil {
				log.Printf("ERROR [middleware.Authenticate] session lookup failed: %v", err)
				unauthorized(w, "Please login to access this resource")
				return
			}

			ctx := context.WithValue(r.Context(), userKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AuthorizeRoles gates an already-authenticated request on role
// membership. Compose it after Authenticate.
func AuthorizeRoles(roles ...domain.Role) func(http.Handler) http.Handler {
	allowed := make(map[domain.Role]bool, len(roles))
	for _, role := range roles {
		allowed[role] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := GetUser(r.Context())
			if !ok {
				unauthorized(w, "You are not logged in")
				return
			}
			if !allowed[user.Role] {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				json.NewEncoder(w).Encode(map[string]any{
					"success": false,
					"message": "User role " + string(user.Role) + " is not allowed to access this resource",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GetUser returns the authenticated user attached by Authenticate.
func GetUser(ctx context.Context) (*domain.User, bool) {
	user, ok := ctx.Value(userKey).(*domain.User)
	return user, ok
}

// WithUser attaches a user to the context; used by tests.
func WithUser(ctx context.Context, user *domain.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

func tokenFromRequest(r *http.Request) string {
	if cookie, err := r.Cookie("accessToken"); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"message": message,
	})
}
