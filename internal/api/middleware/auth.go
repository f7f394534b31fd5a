package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/avukatajanda/ajanda/internal/auth"
	"github.com/avukatajanda/ajanda/internal/database/models"
	"github.com/google/uuid"
)

type contextKey string

const authContextKey contextKey = "auth_context"

// Auth validates the bearer token and resolves it into an auth.Context before
// any handler runs. Validation is two-step: the token signature and expiry
// first, then the user and membership are re-read from the database so a
// deleted user or revoked membership fails here with 401, no matter how fresh
// the token is. Any failure is terminal for the request.
func Auth(jwtService *auth.JWTService, authService *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok || token == "" {
				unauthorized(w)
				return
			}

			claims, err := jwtService.ValidateToken(token)
			if err != nil {
				unauthorized(w)
				return
			}

			authCtx, err := authService.Resolve(r.Context(), claims)
			if err != nil {
				unauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), authContextKey, authCtx)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter) {
	writeError(w, http.StatusUnauthorized, "Unauthorized")
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// GetAuthContext returns the resolved identity for the request, or nil when
// the request did not pass the Auth middleware.
func GetAuthContext(ctx context.Context) *auth.Context {
	if ac, ok := ctx.Value(authContextKey).(*auth.Context); ok {
		return ac
	}
	return nil
}

// GetUserID is a convenience accessor for the acting user's id.
func GetUserID(ctx context.Context) uuid.UUID {
	if ac := GetAuthContext(ctx); ac != nil && ac.User != nil {
		return ac.User.ID
	}
	return uuid.Nil
}

// GetOrgID is a convenience accessor for the acting org's id.
func GetOrgID(ctx context.Context) uuid.UUID {
	if ac := GetAuthContext(ctx); ac != nil {
		return ac.OrgID
	}
	return uuid.Nil
}

// RequireOrg rejects requests whose identity is not bound to an org. Handlers
// behind it can assume a non-nil org id and never run unscoped queries.
func RequireOrg(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ac := GetAuthContext(r.Context())
		if ac == nil {
			unauthorized(w)
			return
		}
		if !ac.HasOrg() {
			writeError(w, http.StatusForbidden, "No organization membership")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole ensures the current membership carries one of the given roles.
func RequireRole(roles ...models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ac := GetAuthContext(r.Context())
			if ac == nil {
				unauthorized(w)
				return
			}
			for _, role := range roles {
				if ac.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			writeError(w, http.StatusForbidden, "Forbidden")
		})
	}
}
