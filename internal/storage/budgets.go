package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"spendlog/internal/core"
)

// UpsertBudget sets a user's limit for a month, overwriting any existing
// row. The (user_id, month) unique index drives the upsert, so two
// concurrent writers converge on a single row instead of conflicting.
func (s *Store) UpsertBudget(ctx context.Context, userID int64, month string, limitAmount float64) (core.Budget, error) {
	var b core.Budget
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO budgets (user_id, month, limit_amount) VALUES (?, ?, ?)
			 ON CONFLICT (user_id, month) DO UPDATE SET limit_amount = excluded.limit_amount`,
			userID, month, limitAmount); err != nil {
			return fmt.Errorf("upsert budget: %w", err)
		}
		return tx.QueryRowContext(ctx,
			`SELECT id, user_id, month, limit_amount FROM budgets WHERE user_id = ? AND month = ?`,
			userID, month).Scan(&b.ID, &b.UserID, &b.Month, &b.LimitAmount)
	})
	if err != nil {
		return core.Budget{}, err
	}

	slog.InfoContext(ctx, "Budget saved",
		"id", b.ID, "user_id", userID, "month", month, "limit", limitAmount)
	return b, nil
}

// BudgetFor returns the budget row for a user and month, or
// core.ErrNotFound when none is set.
func (s *Store) BudgetFor(ctx context.Context, userID int64, month string) (core.Budget, error) {
	var b core.Budget
	err := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, month, limit_amount FROM budgets WHERE user_id = ? AND month = ?`,
		userID, month).Scan(&b.ID, &b.UserID, &b.Month, &b.LimitAmount)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Budget{}, core.ErrNotFound
	}
	if err != nil {
		return core.Budget{}, fmt.Errorf("select budget: %w", err)
	}
	return b, nil
}
