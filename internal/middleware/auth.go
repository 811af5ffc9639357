package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/xelth-com/bizziosync/internal/utils"
)

type contextKey string

const UserContextKey contextKey = "user"

// NonceHeader carries the per-action anti-replay token
const NonceHeader = "X-Bizzio-Nonce"

// AuthMiddleware verifies Bearer access tokens. Websocket clients cannot set
// headers, so a "token" query parameter is accepted as well.
func AuthMiddleware(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := r.URL.Query().Get("token")

			if authHeader := r.Header.Get("Authorization"); authHeader != "" {
				// Bearer token
				parts := strings.Split(authHeader, " ")
				if len(parts) != 2 || parts[0] != "Bearer" {
					http.Error(w, "Invalid authorization header format", http.StatusUnauthorized)
					return
				}
				tokenString = parts[1]
			}

			if tokenString == "" {
				http.Error(w, "Authorization header required", http.StatusUnauthorized)
				return
			}

			claims, err := utils.ValidateToken(tokenString, secret)
			if err != nil || claims["type"] != "access" {
				http.Error(w, "Invalid or expired token", http.StatusUnauthorized)
				return
			}

			subject, _ := claims["sub"].(string)
			ctx := context.WithValue(r.Context(), UserContextKey, subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Subject returns the authenticated user stored by AuthMiddleware
func Subject(ctx context.Context) string {
	subject, _ := ctx.Value(UserContextKey).(string)
	return subject
}

// RequireNonce rejects requests without a valid nonce for action. It must run
// after AuthMiddleware.
func RequireNonce(secret, action string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			nonce := r.Header.Get(NonceHeader)
			if nonce == "" {
				http.Error(w, "Security check failed: nonce required", http.StatusForbidden)
				return
			}
			if err := utils.ValidateNonce(nonce, Subject(r.Context()), action, secret); err != nil {
				http.Error(w, "Security check failed: invalid nonce", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
