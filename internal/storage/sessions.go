package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"spendlog/internal/core"
)

// Session timestamps are stored as RFC3339 UTC strings so that string
// comparison in SQL matches chronological order.
const sessionTimeLayout = time.RFC3339

// CreateSession records a session token for a user.
func (s *Store) CreateSession(ctx context.Context, token string, userID int64, expiresAt time.Time) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO sessions (token, user_id, expires_at) VALUES (?, ?, ?)`,
			token, userID, expiresAt.UTC().Format(sessionTimeLayout)); err != nil {
			return fmt.Errorf("insert session: %w", err)
		}
		return nil
	})
}

// UserBySession resolves a session token to its user, rejecting expired or
// unknown tokens with core.ErrNotFound.
func (s *Store) UserBySession(ctx context.Context, token string) (core.User, error) {
	var u core.User
	err := s.db.QueryRowContext(ctx,
		`SELECT u.id, u.username, u.password_hash
		 FROM sessions s JOIN users u ON s.user_id = u.id
		 WHERE s.token = ? AND s.expires_at > ?`,
		token, time.Now().UTC().Format(sessionTimeLayout)).
		Scan(&u.ID, &u.Username, &u.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return core.User{}, core.ErrNotFound
	}
	if err != nil {
		return core.User{}, fmt.Errorf("select session user: %w", err)
	}
	return u, nil
}

// DeleteSession removes a session token. Deleting an unknown token is not
// an error.
func (s *Store) DeleteSession(ctx context.Context, token string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM sessions WHERE token = ?`, token); err != nil {
			return fmt.Errorf("delete session: %w", err)
		}
		return nil
	})
}

// DeleteExpiredSessions sweeps sessions past their expiry and reports how
// many were removed.
func (s *Store) DeleteExpiredSessions(ctx context.Context) (int64, error) {
	var removed int64
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`DELETE FROM sessions WHERE expires_at <= ?`,
			time.Now().UTC().Format(sessionTimeLayout))
		if err != nil {
			return fmt.Errorf("delete expired sessions: %w", err)
		}
		removed, err = res.RowsAffected()
		if err != nil {
			return fmt.Errorf("expired sessions rows affected: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		slog.InfoContext(ctx, "Expired sessions removed", "count", removed)
	}
	return removed, nil
}
