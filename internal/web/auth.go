package web

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/erazemk/portfolio/internal/auth"
	"github.com/erazemk/portfolio/internal/model"
)

// LoginPage handles GET /login.
func (s *Server) LoginPage(w http.ResponseWriter, r *http.Request) {
	s.Templates.Render(w, "login.html", &PageData{Title: "Log in", User: GetWebClaims(r.Context())})
}

// LoginSubmit handles POST /login.
func (s *Server) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	sess, err := s.App.Auth.Login(r.Context(), r.FormValue("email"), r.FormValue("password"))
	if err != nil {
		s.renderForm(w, r, "login.html", "Log in", err)
		return
	}

	setAuthCookie(w, sess)
	slog.Info("user logged in", "user", sess.User.Username)
	http.Redirect(w, r, "/islamabad", http.StatusSeeOther)
}

// SignupPage handles GET /signup.
func (s *Server) SignupPage(w http.ResponseWriter, r *http.Request) {
	s.Templates.Render(w, "signup.html", &PageData{Title: "Sign up", User: GetWebClaims(r.Context())})
}

// SignupSubmit handles POST /signup.
func (s *Server) SignupSubmit(w http.ResponseWriter, r *http.Request) {
	var age int
	if raw := strings.TrimSpace(r.FormValue("age")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			s.renderForm(w, r, "signup.html", "Sign up", fmt.Errorf("%w: age %q is not a number", model.ErrInvalidInput, raw))
			return
		}
		age = n
	}

	in := auth.SignupInput{
		Username: r.FormValue("username"),
		Email:    r.FormValue("email"),
		Password: r.FormValue("password"),
		Role:     r.FormValue("role"),
		Country:  r.FormValue("country"),
		Gender:   r.FormValue("gender"),
		Age:      age,
	}

	sess, err := s.App.Auth.Signup(r.Context(), in)
	if err != nil {
		if errors.Is(err, auth.ErrNotificationFailed) {
			slog.Warn("user registered without welcome email", "user", in.Username)
		}
		s.renderForm(w, r, "signup.html", "Sign up", err)
		return
	}

	setAuthCookie(w, sess)
	slog.Info("user signed up", "user", sess.User.Username, "role", sess.User.Role)
	http.Redirect(w, r, "/islamabad", http.StatusSeeOther)
}

// AdminPage handles GET /admin, the admin login form.
func (s *Server) AdminPage(w http.ResponseWriter, r *http.Request) {
	s.Templates.Render(w, "admin.html", &PageData{Title: "Admin login", User: GetWebClaims(r.Context())})
}

// AdminLoginSubmit handles POST /admin/login.
func (s *Server) AdminLoginSubmit(w http.ResponseWriter, r *http.Request) {
	sess, err := s.App.Auth.AdminLogin(r.Context(), r.FormValue("username"), r.FormValue("password"))
	if err != nil {
		s.renderForm(w, r, "admin.html", "Admin login", err)
		return
	}

	setAuthCookie(w, sess)
	slog.Info("admin logged in", "user", sess.User.Username)
	http.Redirect(w, r, "/admin_panel", http.StatusSeeOther)
}

// Logout handles POST /logout.
func (s *Server) Logout(w http.ResponseWriter, r *http.Request) {
	if claims := GetWebClaims(r.Context()); claims != nil {
		if err := s.App.Auth.Logout(r.Context(), claims); err != nil {
			slog.Error("failed to revoke token", "error", err)
		} else {
			slog.Info("user logged out", "user", claims.Username)
		}
	}
	clearAuthCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
