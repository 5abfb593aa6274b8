package mongostore

import (
	"context"
	"fmt"
	"time"

	"github.com/erazemk/portfolio/internal/model"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
)

// CreateUser creates a new user. Duplicate usernames or emails return
// model.ErrConflict.
func (s *Store) CreateUser(ctx context.Context, u *model.User) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}

	if _, err := s.db.Collection(collUsers).InsertOne(ctx, u); err != nil {
		return fmt.Errorf("creating user: %w", conflict(err))
	}
	return nil
}

// GetUser returns a user by ID.
func (s *Store) GetUser(ctx context.Context, id string) (*model.User, error) {
	return s.getUserBy(ctx, "_id", id)
}

// GetUserByEmail returns a user by email.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.getUserBy(ctx, "email", email)
}

// GetUserByUsername returns a user by username.
func (s *Store) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	return s.getUserBy(ctx, "username", username)
}

func (s *Store) getUserBy(ctx context.Context, field, value string) (*model.User, error) {
	var u model.User
	found, err := s.findOne(ctx, collUsers, bson.M{field: value}, &u)
	if err != nil {
		return nil, fmt.Errorf("getting user by %s: %w", field, err)
	}
	if !found {
		return nil, nil
	}
	return &u, nil
}
