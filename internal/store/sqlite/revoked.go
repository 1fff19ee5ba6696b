package sqlite

import (
	"context"
	"time"
)

// RevokeToken adds a jti to the blocklist. Revoking an already-revoked
// jti is a no-op.
func (s *Store) RevokeToken(ctx context.Context, jti string, at time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO revoked_tokens (jti, revoked_at)
		VALUES (?, ?)`,
		jti, formatTime(at),
	)
	return err
}

// IsTokenRevoked reports whether a jti is on the blocklist.
func (s *Store) IsTokenRevoked(ctx context.Context, jti string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM revoked_tokens WHERE jti = ?`, jti).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
