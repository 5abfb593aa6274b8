package sqlite

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

const jwtSecretKey = "jwt_secret"

// GetJWTSecret returns the session signing key. The first caller stores a
// fresh random key; everyone reads back whichever row won, so instances
// starting together agree on it.
func (s *Store) GetJWTSecret(ctx context.Context) (string, error) {
	fresh := make([]byte, 32)
	if _, err := rand.Read(fresh); err != nil {
		return "", fmt.Errorf("generating signing key: %w", err)
	}

	if _, err := s.DB.ExecContext(ctx,
		`INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT (key) DO NOTHING`,
		jwtSecretKey, hex.EncodeToString(fresh),
	); err != nil {
		return "", fmt.Errorf("storing signing key: %w", err)
	}

	var secret string
	if err := s.DB.QueryRowContext(ctx,
		`SELECT value FROM settings WHERE key = ?`, jwtSecretKey,
	).Scan(&secret); err != nil {
		return "", fmt.Errorf("reading signing key: %w", err)
	}
	return secret, nil
}
