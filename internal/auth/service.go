// Package auth handles signup, password login and session tokens.
package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/erazemk/portfolio/internal/mailer"
	"github.com/erazemk/portfolio/internal/model"
	"github.com/erazemk/portfolio/internal/store"
	"github.com/erazemk/portfolio/internal/validate"
)

var (
	ErrInvalidRole        = errors.New("Invalid role specified")
	ErrUserNotFound       = errors.New("User not found")
	ErrIncorrectPassword  = errors.New("Incorrect password")
	ErrAdminLoginFailed   = errors.New("Admin login failed!")
	ErrNotificationFailed = errors.New("welcome email could not be sent")
)

// DefaultBcryptCost matches the cost used for stored hashes so far.
const DefaultBcryptCost = 10

// Service implements the authentication flows.
type Service struct {
	Users      store.Users
	Tokens     store.Tokens
	Mailer     mailer.Sender
	Secret     string
	BcryptCost int
	TokenTTL   time.Duration
}

// Session is an issued login.
type Session struct {
	Token  string
	Claims *Claims
	User   *model.User
}

// SignupInput is the signup form.
type SignupInput struct {
	Username string `form:"username" validate:"required,max=64"`
	Email    string `form:"email" validate:"required,email,max=254"`
	Password string `form:"password" validate:"required,max=72"`
	Role     string `form:"role"`
	Country  string `form:"country" validate:"required,max=100"`
	Gender   string `form:"gender" validate:"required,oneof=Male Female Other"`
	Age      int    `form:"age" validate:"required,gte=1,lte=150"`
}

// Signup registers a user and sends the welcome email. If the email fails
// the user stays registered and the error wraps ErrNotificationFailed.
func (s *Service) Signup(ctx context.Context, in SignupInput) (*Session, error) {
	if !model.ValidRole(in.Role) {
		return nil, ErrInvalidRole
	}
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	in.Country = strings.TrimSpace(in.Country)
	if err := validate.Struct(&in); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost())
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := &model.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(hash),
		Role:         in.Role,
		Country:      in.Country,
		Gender:       in.Gender,
		Age:          in.Age,
	}
	if err := s.Users.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	if err := s.Mailer.Send(ctx, mailer.Welcome(user.Email)); err != nil {
		slog.Error("failed to send welcome email", "user_id", user.ID, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrNotificationFailed, err)
	}

	return s.issue(user)
}

// Login authenticates a user by email.
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", model.ErrInvalidInput)
	}

	user, err := s.Users.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrIncorrectPassword
	}
	return s.issue(user)
}

// AdminLogin authenticates an admin by username. Non-admin accounts are
// refused before the password is checked.
func (s *Service) AdminLogin(ctx context.Context, username, password string) (*Session, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password are required", model.ErrInvalidInput)
	}

	user, err := s.Users.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil || user.Role != model.RoleAdmin {
		return nil, ErrAdminLoginFailed
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrIncorrectPassword
	}
	return s.issue(user)
}

// Authenticate validates a token and checks that it has not been revoked.
func (s *Service) Authenticate(ctx context.Context, token string) (*Claims, error) {
	claims, err := ValidateToken(s.Secret, token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrUnauthorized, err)
	}

	revoked, err := s.Tokens.IsTokenRevoked(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, fmt.Errorf("%w: token revoked", model.ErrUnauthorized)
	}
	return claims, nil
}

// Logout revokes the token until it would have expired anyway.
func (s *Service) Logout(ctx context.Context, claims *Claims) error {
	expiresAt := time.Now().Add(s.ttl())
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	return s.Tokens.RevokeToken(ctx, claims.ID, expiresAt)
}

// EnsureAdmin creates the admin account when no user with that username
// exists. The generated password is returned only when the account was
// created.
func (s *Service) EnsureAdmin(ctx context.Context, username, email string) (string, error) {
	existing, err := s.Users.GetUserByUsername(ctx, username)
	if err != nil {
		return "", err
	}
	if existing != nil {
		return "", nil
	}

	password, err := generatePassword(16)
	if err != nil {
		return "", fmt.Errorf("generating password: %w", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost())
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}

	err = s.Users.CreateUser(ctx, &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Role:         model.RoleAdmin,
		Gender:       model.GenderOther,
	})
	if err != nil {
		return "", fmt.Errorf("creating admin user: %w", err)
	}
	return password, nil
}

func (s *Service) issue(user *model.User) (*Session, error) {
	token, claims, err := GenerateToken(s.Secret, user, s.ttl())
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, Claims: claims, User: user}, nil
}

func (s *Service) cost() int {
	if s.BcryptCost == 0 {
		return DefaultBcryptCost
	}
	return s.BcryptCost
}

func (s *Service) ttl() time.Duration {
	if s.TokenTTL <= 0 {
		return TokenExpiry
	}
	return s.TokenTTL
}

// generatePassword creates a random alphanumeric password.
func generatePassword(length int) (string, error) {
	const chars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	b := make([]byte, length)
	for i := range b {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(chars))))
		if err != nil {
			return "", err
		}
		b[i] = chars[n.Int64()]
	}
	return string(b), nil
}
