package web

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/erazemk/portfolio/internal/auth"
	"github.com/erazemk/portfolio/internal/model"
)

type webContextKey string

const webClaimsKey webContextKey = "webclaims"

const cookieName = "token"

// SessionMiddleware loads the session from the token cookie when one is
// present. Requests without a valid session continue anonymously; stale or
// revoked cookies are cleared.
func (s *Server) SessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(cookieName)
		if err != nil || cookie.Value == "" {
			next.ServeHTTP(w, r)
			return
		}

		claims, err := s.App.Auth.Authenticate(r.Context(), cookie.Value)
		if err != nil {
			if !errors.Is(err, model.ErrUnauthorized) {
				slog.Error("failed to check session", "error", err)
			}
			clearAuthCookie(w)
			next.ServeHTTP(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), webClaimsKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin sends anonymous visitors to the admin login page and
// rejects signed-in users without the admin role.
func (s *Server) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := GetWebClaims(r.Context())
		if claims == nil {
			http.Redirect(w, r, "/admin", http.StatusSeeOther)
			return
		}
		if !claims.IsAdmin() {
			s.renderError(w, r, model.ErrForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// setAuthCookie stores an issued session token.
func setAuthCookie(w http.ResponseWriter, sess *auth.Session) {
	maxAge := int(auth.TokenExpiry / time.Second)
	if sess.Claims != nil && sess.Claims.ExpiresAt != nil {
		maxAge = int(time.Until(sess.Claims.ExpiresAt.Time) / time.Second)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    sess.Token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   maxAge,
	})
}

// clearAuthCookie clears the authentication cookie with consistent attributes.
func clearAuthCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

// GetWebClaims retrieves the session claims from web context.
func GetWebClaims(ctx context.Context) *auth.Claims {
	claims, _ := ctx.Value(webClaimsKey).(*auth.Claims)
	return claims
}
