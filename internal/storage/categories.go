package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"spendlog/internal/core"
)

// EnsureDefaultCategories seeds the default category set for a user whose
// registry is empty. It is idempotent and runs as its own unit of work so
// that listing stays a pure read afterwards.
func (s *Store) EnsureDefaultCategories(ctx context.Context, userID int64) error {
	var seeded bool
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var n int64
		if err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM categories WHERE user_id = ?`, userID).Scan(&n); err != nil {
			return fmt.Errorf("count categories: %w", err)
		}
		if n > 0 {
			return nil
		}
		for _, name := range core.DefaultCategories {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO categories (user_id, name) VALUES (?, ?)`, userID, name); err != nil {
				return fmt.Errorf("seed category %q: %w", name, err)
			}
		}
		seeded = true
		return nil
	})
	if err != nil {
		return err
	}
	if seeded {
		slog.InfoContext(ctx, "Default categories seeded",
			"user_id", userID, "count", len(core.DefaultCategories))
	}
	return nil
}

// ListCategories returns a user's categories sorted by name ascending.
func (s *Store) ListCategories(ctx context.Context, userID int64) ([]core.Category, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, name FROM categories WHERE user_id = ? ORDER BY name ASC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	categories := []core.Category{}
	for rows.Next() {
		var c core.Category
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// AddCategory inserts a category for a user, returning the existing row
// unchanged when the name is already present. A concurrent insert losing
// the race on the (user_id, name) unique index is folded into the same
// idempotent outcome by re-reading the winner's row.
func (s *Store) AddCategory(ctx context.Context, userID int64, name string) (core.Category, error) {
	var cat core.Category
	var inserted bool
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx,
			`SELECT id, user_id, name FROM categories WHERE user_id = ? AND name = ?`,
			userID, name).Scan(&cat.ID, &cat.UserID, &cat.Name)
		if err == nil {
			return nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("select category: %w", err)
		}

		res, err := tx.ExecContext(ctx,
			`INSERT INTO categories (user_id, name) VALUES (?, ?)`, userID, name)
		if err != nil {
			return fmt.Errorf("insert category: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("category insert id: %w", err)
		}
		cat = core.Category{ID: id, UserID: userID, Name: name}
		inserted = true
		return nil
	})
	if err != nil {
		if isUniqueViolation(err) {
			return s.categoryByName(ctx, userID, name)
		}
		return core.Category{}, err
	}

	if inserted {
		slog.InfoContext(ctx, "Category added", "id", cat.ID, "user_id", userID, "name", cat.Name)
	}
	return cat, nil
}

func (s *Store) categoryByName(ctx context.Context, userID int64, name string) (core.Category, error) {
	var c core.Category
	err := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, name FROM categories WHERE user_id = ? AND name = ?`,
		userID, name).Scan(&c.ID, &c.UserID, &c.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Category{}, core.ErrNotFound
	}
	if err != nil {
		return core.Category{}, fmt.Errorf("select category by name: %w", err)
	}
	return c, nil
}

// DeleteCategory removes an owned category. A category owned by another
// user reads as not-found.
func (s *Store) DeleteCategory(ctx context.Context, id, userID int64) (bool, error) {
	var found bool
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`DELETE FROM categories WHERE id = ? AND user_id = ?`, id, userID)
		if err != nil {
			return fmt.Errorf("delete category: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("delete category rows affected: %w", err)
		}
		found = n > 0
		return nil
	})
	if err != nil {
		return false, err
	}
	if found {
		slog.InfoContext(ctx, "Category deleted", "id", id, "user_id", userID)
	}
	return found, nil
}
