package mongostore

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// RevokeToken adds a token's JTI to the revocation list. Expired entries
// are removed by the TTL index on expiresAt.
func (s *Store) RevokeToken(ctx context.Context, jti string, expiresAt time.Time) error {
	_, err := s.db.Collection(collRevokedTokens).UpdateOne(ctx,
		bson.M{"_id": jti},
		bson.M{"$setOnInsert": bson.M{"expiresAt": expiresAt.UTC()}},
		options.Update().SetUpsert(true),
	)
	if err != nil && !mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("revoking token: %w", err)
	}
	return nil
}

// IsTokenRevoked checks if a token's JTI has been revoked.
func (s *Store) IsTokenRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := s.db.Collection(collRevokedTokens).CountDocuments(ctx, bson.M{"_id": jti})
	if err != nil {
		return false, fmt.Errorf("checking token revocation: %w", err)
	}
	return n > 0, nil
}

// GetJWTSecret returns the stored JWT secret, generating and persisting one
// on first use.
func (s *Store) GetJWTSecret(ctx context.Context) (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating jwt secret: %w", err)
	}

	coll := s.db.Collection(collSettings)
	_, err := coll.UpdateOne(ctx,
		bson.M{"_id": "jwt_secret"},
		bson.M{"$setOnInsert": bson.M{"value": hex.EncodeToString(buf)}},
		options.Update().SetUpsert(true),
	)
	// A concurrent upsert may win the insert; the read below sees its value.
	if err != nil && !mongo.IsDuplicateKeyError(err) {
		return "", fmt.Errorf("storing jwt_secret: %w", err)
	}

	var doc struct {
		Value string `bson:"value"`
	}
	if err := coll.FindOne(ctx, bson.M{"_id": "jwt_secret"}).Decode(&doc); err != nil {
		return "", fmt.Errorf("querying jwt_secret: %w", err)
	}
	return doc.Value, nil
}
