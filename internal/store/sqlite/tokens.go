package sqlite

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// RevokeToken marks a session as logged out until expiresAt. Rows for
// sessions that have already lapsed are pruned on the way, since the JWT
// expiry rejects those on its own.
func (s *Store) RevokeToken(ctx context.Context, jti string, expiresAt time.Time) error {
	if _, err := s.DB.ExecContext(ctx,
		`INSERT INTO revoked_tokens (jti, expires_at) VALUES (?, ?)
		 ON CONFLICT (jti) DO NOTHING`,
		jti, expiresAt.UTC(),
	); err != nil {
		return fmt.Errorf("revoking session %s: %w", jti, err)
	}

	if _, err := s.DB.ExecContext(ctx,
		`DELETE FROM revoked_tokens WHERE expires_at < ?`, time.Now().UTC(),
	); err != nil {
		slog.Warn("pruning revoked sessions", "error", err)
	}
	return nil
}

// IsTokenRevoked reports whether the session was logged out.
func (s *Store) IsTokenRevoked(ctx context.Context, jti string) (bool, error) {
	var revoked bool
	if err := s.DB.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM revoked_tokens WHERE jti = ?)`, jti,
	).Scan(&revoked); err != nil {
		return false, fmt.Errorf("looking up session %s: %w", jti, err)
	}
	return revoked, nil
}
