package middleware

import (
	"context"
	"net/http"
	"strings"

	"library-api/utils"
)

type ctxKey string

const UserCtxKey ctxKey = "user"

// Auth checks the bearer token from the Authorization header, falling back
// to the token cookie, and stores the parsed claims in the request context.
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var token string

		auth := r.Header.Get("Authorization")
		if auth != "" {
			parts := strings.SplitN(auth, " ", 2)
			if len(parts) == 2 && strings.ToLower(parts[0]) == "bearer" {
				token = parts[1]
			}
		}

		if token == "" {
			cookie, err := r.Cookie("token")
			if err == nil {
				token = cookie.Value
			}
		}

		if token == "" {
			utils.WriteError(w, http.StatusUnauthorized, "Not authorized to access this route")
			return
		}

		claims, err := utils.ParseToken(token)
		if err != nil {
			utils.WriteError(w, http.StatusUnauthorized, "Not authorized to access this route")
			return
		}

		ctx := context.WithValue(r.Context(), UserCtxKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole admits only requests whose claims carry one of the given roles.
// It must run behind Auth.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(roles))
	for _, role := range roles {
		allowed[role] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFrom(r)
			if !ok {
				utils.WriteError(w, http.StatusUnauthorized, "Not authorized to access this route")
				return
			}

			if !allowed[claims.Role] {
				utils.WriteError(w, http.StatusForbidden, "Insufficient permissions to access this route")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// ClaimsFrom pulls the authenticated claims out of the request context.
func ClaimsFrom(r *http.Request) (*utils.Claims, bool) {
	claims, ok := r.Context().Value(UserCtxKey).(*utils.Claims)
	return claims, ok
}
