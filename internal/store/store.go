// Package store defines the persistence contracts shared by the SQLite and
// MongoDB backends.
//
// Getters return (nil, nil) when the record does not exist. Mutations of a
// missing record return model.ErrNotFound, and unique violations return
// model.ErrConflict.
package store

import (
	"context"
	"time"

	"github.com/erazemk/portfolio/internal/model"
)

// Items persists catalog items.
type Items interface {
	CreateItem(ctx context.Context, item *model.Item) error
	GetItem(ctx context.Context, id string) (*model.Item, error)
	ListItems(ctx context.Context) ([]model.Item, error)
	UpdateItem(ctx context.Context, item *model.Item) error
	// DeleteItem removes an item. Deleting a missing item is not an error.
	DeleteItem(ctx context.Context, id string) error
}

// Portfolios persists city portfolios and their embedded item snapshots.
type Portfolios interface {
	CreatePortfolio(ctx context.Context, p *model.Portfolio) error
	GetPortfolio(ctx context.Context, city string) (*model.Portfolio, error)
	ListPortfolios(ctx context.Context) ([]model.Portfolio, error)
	SetPortfolioItems(ctx context.Context, city string, items []model.Item, updatedAt time.Time) error
	DeletePortfolio(ctx context.Context, city string) error
}

// Users persists user accounts.
type Users interface {
	CreateUser(ctx context.Context, u *model.User) error
	GetUser(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
}

// Tokens tracks revoked session tokens.
type Tokens interface {
	RevokeToken(ctx context.Context, jti string, expiresAt time.Time) error
	IsTokenRevoked(ctx context.Context, jti string) (bool, error)
}

// Settings holds server-generated configuration.
type Settings interface {
	GetJWTSecret(ctx context.Context) (string, error)
}

// Store is the full persistence surface of a backend.
type Store interface {
	Items
	Portfolios
	Users
	Tokens
	Settings
	Ping(ctx context.Context) error
	Close() error
}
