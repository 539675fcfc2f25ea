package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/sautihub/sauti/internal/model"
	"github.com/sautihub/sauti/internal/service"
)

type contextKeyAuth string

// ClaimsKey is the context key for the authenticated caller's token claims.
const ClaimsKey contextKeyAuth = "auth_claims"

// Authenticate returns an HTTP middleware that validates the JWT bearer
// token in the Authorization header. On success, the verified claims are
// attached to the request context. On failure, a 401 JSON error response is
// returned. Authentication failures (bad token) are deliberately distinct
// from authorization failures (wrong role, 403): the former means "log in
// again", the latter "you lack permission".
func Authenticate(authSvc *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				writeAuthError(w, http.StatusUnauthorized, "Authentication required. Provide a Bearer token.")
				return
			}

			token := strings.TrimPrefix(authHeader, "Bearer ")
			claims, err := authSvc.VerifyToken(token)
			if err != nil {
				writeAuthError(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), ClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireSuperAdmin returns an HTTP middleware that enforces super-admin
// access. It must be used after Authenticate in the middleware chain, and it
// runs before any handler-level input validation, so an unauthorized caller
// learns nothing about request validity. The admin record is re-resolved
// from the store on every call; the role inside the token is not trusted.
func RequireSuperAdmin(authSvc *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := GetClaims(r.Context())
			if claims == nil {
				writeAuthError(w, http.StatusUnauthorized, "Authentication required. Provide a Bearer token.")
				return
			}

			if _, err := authSvc.RequireSuperAdmin(r.Context(), claims); err != nil {
				if errors.Is(err, service.ErrUnauthorized) {
					writeAuthError(w, http.StatusForbidden, "Super-admin access required")
					return
				}
				writeAuthError(w, http.StatusInternalServerError, "Authorization check failed")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GetClaims extracts the authenticated claims from the context. Returns nil
// if no claims are present (i.e., unauthenticated request).
func GetClaims(ctx context.Context) *service.Claims {
	if c, ok := ctx.Value(ClaimsKey).(*service.Claims); ok {
		return c
	}
	return nil
}

func writeAuthError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(model.ErrorResponse{ //nolint:errcheck
		Error: model.ErrorDetail{Code: status, Message: message},
	})
}
