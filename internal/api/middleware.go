package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/erazemk/portfolio/internal/auth"
	"github.com/erazemk/portfolio/internal/errhttp"
)

type contextKey string

const claimsKey contextKey = "claims"

// AuthMiddleware validates the bearer token, checks revocation and adds
// the claims to the context.
func AuthMiddleware(svc *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				jsonError(w, http.StatusUnauthorized, errhttp.CodeUnauthorized, "missing or invalid authorization header")
				return
			}

			claims, err := svc.Authenticate(r.Context(), strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				writeError(w, r, err)
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin rejects tokens without the admin role.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := GetClaims(r.Context())
		if claims == nil {
			jsonError(w, http.StatusUnauthorized, errhttp.CodeUnauthorized, "not authenticated")
			return
		}
		if !claims.IsAdmin() {
			jsonError(w, http.StatusForbidden, errhttp.CodeForbidden, "insufficient permissions")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetClaims retrieves the JWT claims from the context.
func GetClaims(ctx context.Context) *auth.Claims {
	claims, _ := ctx.Value(claimsKey).(*auth.Claims)
	return claims
}
