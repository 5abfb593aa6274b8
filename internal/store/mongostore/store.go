// Package mongostore implements store.Store on MongoDB. Items, portfolios
// and users are stored as documents shaped by their bson tags.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/erazemk/portfolio/internal/model"
	"github.com/erazemk/portfolio/internal/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var _ store.Store = (*Store)(nil)

const (
	collUsers         = "users"
	collItems         = "items"
	collPortfolios    = "portfolios"
	collRevokedTokens = "revoked_tokens"
	collSettings      = "settings"
)

// Store is a MongoDB-backed store.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// Open connects to uri, verifies the connection and ensures indexes on
// the named database.
func Open(ctx context.Context, uri, database string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connecting to mongo: %w", err)
	}

	s := &Store{client: client, db: client.Database(database)}
	if err := s.Ping(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("pinging mongo: %w", err)
	}
	if err := s.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return s, nil
}

// EnsureIndexes creates the unique and TTL indexes the store relies on.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := map[string][]mongo.IndexModel{
		collUsers: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		collPortfolios: {
			{Keys: bson.D{{Key: "city", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		collItems: {
			{Keys: bson.D{{Key: "createdAt", Value: 1}}},
		},
		collRevokedTokens: {
			{Keys: bson.D{{Key: "expiresAt", Value: 1}}, Options: options.Index().SetExpireAfterSeconds(0)},
		},
	}
	for coll, models := range indexes {
		if _, err := s.db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("creating %s indexes: %w", coll, err)
		}
	}
	return nil
}

// Ping checks the server connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

// Close disconnects the client.
func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

// Drop removes the whole database. Used by tests.
func (s *Store) Drop(ctx context.Context) error {
	return s.db.Drop(ctx)
}

func conflict(err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%w: %v", model.ErrConflict, err)
	}
	return err
}

// findOne decodes a single document into v, reporting whether it existed.
func (s *Store) findOne(ctx context.Context, coll string, filter bson.M, v any) (bool, error) {
	err := s.db.Collection(coll).FindOne(ctx, filter).Decode(v)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
