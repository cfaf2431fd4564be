package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"spendlog/internal/core"
)

// CreateUser inserts a new account. The users.username unique index is the
// source of truth for duplicates: a violation comes back as
// core.ErrDuplicateUsername, so callers need no race-prone pre-check.
func (s *Store) CreateUser(ctx context.Context, username, passwordHash string) (core.User, error) {
	var user core.User
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO users (username, password_hash) VALUES (?, ?)`,
			username, passwordHash)
		if err != nil {
			if isUniqueViolation(err) {
				return core.ErrDuplicateUsername
			}
			return fmt.Errorf("insert user: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("user insert id: %w", err)
		}
		user = core.User{ID: id, Username: username, PasswordHash: passwordHash}
		return nil
	})
	if err != nil {
		return core.User{}, err
	}

	slog.InfoContext(ctx, "User created", "id", user.ID, "username", user.Username)
	return user, nil
}

// UserByUsername looks up an account by username.
func (s *Store) UserByUsername(ctx context.Context, username string) (core.User, error) {
	var u core.User
	err := s.db.QueryRowContext(ctx,
		`SELECT id, username, password_hash FROM users WHERE username = ?`,
		username).Scan(&u.ID, &u.Username, &u.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return core.User{}, core.ErrNotFound
	}
	if err != nil {
		return core.User{}, fmt.Errorf("select user by username: %w", err)
	}
	return u, nil
}

// UserByID looks up an account by id.
func (s *Store) UserByID(ctx context.Context, id int64) (core.User, error) {
	var u core.User
	err := s.db.QueryRowContext(ctx,
		`SELECT id, username, password_hash FROM users WHERE id = ?`,
		id).Scan(&u.ID, &u.Username, &u.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return core.User{}, core.ErrNotFound
	}
	if err != nil {
		return core.User{}, fmt.Errorf("select user by id: %w", err)
	}
	return u, nil
}

// DeleteUser removes an account. Expenses, budgets, categories and sessions
// owned by the user go with it via ON DELETE CASCADE.
func (s *Store) DeleteUser(ctx context.Context, id int64) (bool, error) {
	var found bool
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("delete user: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("delete user rows affected: %w", err)
		}
		found = n > 0
		return nil
	})
	if err != nil {
		return false, err
	}
	if found {
		slog.InfoContext(ctx, "User deleted", "id", id)
	}
	return found, nil
}
