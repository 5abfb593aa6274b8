package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/erazemk/portfolio/internal/auth"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	Auth *auth.Service
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expires_at,omitempty"`
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	sess, err := h.Auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		slog.Warn("api login failed", "email", req.Email, "remote", r.RemoteAddr, "reason", err.Error())
		writeError(w, r, err)
		return
	}

	resp := loginResponse{Token: sess.Token}
	if sess.Claims != nil && sess.Claims.ExpiresAt != nil {
		resp.ExpiresAt = sess.Claims.ExpiresAt.Time.UTC().Format(time.RFC3339)
	}
	slog.Info("user logged in", "user", sess.User.Username, "role", sess.User.Role, "via", "api")
	jsonResponse(w, http.StatusOK, resp)
}

// Logout handles POST /api/auth/logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	if err := h.Auth.Logout(r.Context(), claims); err != nil {
		writeError(w, r, err)
		return
	}
	slog.Info("user logged out", "user", claims.Username, "via", "api")
	w.WriteHeader(http.StatusNoContent)
}
