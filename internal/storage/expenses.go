package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"spendlog/internal/core"
)

// ExpenseFilter narrows a user's expense listing. Zero values mean
// "no filter". Date bounds are inclusive and compared as ISO date strings,
// which sort lexicographically; entries without a date pass range filters.
type ExpenseFilter struct {
	Category string
	DateFrom string
	DateTo   string
}

// CreateExpense inserts a ledger entry and returns it with its generated id.
// An empty Date is stored as NULL.
func (s *Store) CreateExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO expenses (user_id, amount, category, date, note)
			 VALUES (?, ?, ?, NULLIF(?, ''), ?)`,
			e.UserID, e.Amount, e.Category, e.Date, e.Note)
		if err != nil {
			return fmt.Errorf("insert expense: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("expense insert id: %w", err)
		}
		e.ID = id
		return nil
	})
	if err != nil {
		return core.Expense{}, err
	}

	slog.InfoContext(ctx, "Expense recorded",
		"id", e.ID, "user_id", e.UserID, "amount", e.Amount, "category", e.Category)
	return e, nil
}

// ExpenseOwnedBy fetches an expense by id scoped to its owner. A row owned
// by someone else is reported as core.ErrNotFound, same as a missing row.
func (s *Store) ExpenseOwnedBy(ctx context.Context, id, userID int64) (core.Expense, error) {
	var e core.Expense
	err := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, amount, category, COALESCE(date, ''), note
		 FROM expenses WHERE id = ? AND user_id = ?`,
		id, userID).Scan(&e.ID, &e.UserID, &e.Amount, &e.Category, &e.Date, &e.Note)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Expense{}, core.ErrNotFound
	}
	if err != nil {
		return core.Expense{}, fmt.Errorf("select expense: %w", err)
	}
	return e, nil
}

// ListExpenses returns a user's expenses, most recent first (date
// descending, ties broken by id descending; dateless entries sort last).
func (s *Store) ListExpenses(ctx context.Context, userID int64, f ExpenseFilter) ([]core.Expense, error) {
	var b strings.Builder
	b.WriteString(`SELECT id, user_id, amount, category, COALESCE(date, ''), note
		 FROM expenses WHERE user_id = ?`)
	args := []any{userID}

	if f.Category != "" {
		b.WriteString(` AND category = ?`)
		args = append(args, f.Category)
	}
	if f.DateFrom != "" {
		b.WriteString(` AND (date IS NULL OR date >= ?)`)
		args = append(args, f.DateFrom)
	}
	if f.DateTo != "" {
		b.WriteString(` AND (date IS NULL OR date <= ?)`)
		args = append(args, f.DateTo)
	}
	b.WriteString(` ORDER BY date DESC, id DESC`)

	rows, err := s.db.QueryContext(ctx, b.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	expenses := []core.Expense{}
	for rows.Next() {
		var e core.Expense
		if err := rows.Scan(&e.ID, &e.UserID, &e.Amount, &e.Category, &e.Date, &e.Note); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

// UpdateExpense applies a partial field set to an owned expense and returns
// the full updated record. Validation of the supplied fields happens above
// the storage layer; here only ownership and existence are enforced.
func (s *Store) UpdateExpense(ctx context.Context, id, userID int64, upd core.ExpenseUpdate) (core.Expense, error) {
	var e core.Expense
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		sets := []string{}
		args := []any{}
		if upd.Amount != nil {
			sets = append(sets, "amount = ?")
			args = append(args, *upd.Amount)
		}
		if upd.Category != nil {
			sets = append(sets, "category = ?")
			args = append(args, *upd.Category)
		}
		if upd.Date != nil {
			sets = append(sets, "date = ?")
			args = append(args, *upd.Date)
		}
		if upd.Note != nil {
			sets = append(sets, "note = ?")
			args = append(args, *upd.Note)
		}
		if len(sets) == 0 {
			return core.ErrNoFields
		}
		args = append(args, id, userID)

		res, err := tx.ExecContext(ctx,
			`UPDATE expenses SET `+strings.Join(sets, ", ")+` WHERE id = ? AND user_id = ?`,
			args...)
		if err != nil {
			return fmt.Errorf("update expense: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("update expense rows affected: %w", err)
		}
		if n == 0 {
			return core.ErrNotFound
		}

		return tx.QueryRowContext(ctx,
			`SELECT id, user_id, amount, category, COALESCE(date, ''), note
			 FROM expenses WHERE id = ?`, id).
			Scan(&e.ID, &e.UserID, &e.Amount, &e.Category, &e.Date, &e.Note)
	})
	if err != nil {
		return core.Expense{}, err
	}

	slog.InfoContext(ctx, "Expense updated", "id", e.ID, "user_id", userID)
	return e, nil
}

// DeleteExpense removes an owned expense. The boolean distinguishes
// found/not-found from a storage failure.
func (s *Store) DeleteExpense(ctx context.Context, id, userID int64) (bool, error) {
	var found bool
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`DELETE FROM expenses WHERE id = ? AND user_id = ?`, id, userID)
		if err != nil {
			return fmt.Errorf("delete expense: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("delete expense rows affected: %w", err)
		}
		found = n > 0
		return nil
	})
	if err != nil {
		return false, err
	}
	if found {
		slog.InfoContext(ctx, "Expense deleted", "id", id, "user_id", userID)
	}
	return found, nil
}

// SummaryByCategory sums a user's expenses grouped by their stored category
// value. Empty categories are folded into the default label for display.
// Categories with no expenses do not appear.
func (s *Store) SummaryByCategory(ctx context.Context, userID int64) (map[string]float64, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT category, SUM(amount) FROM expenses WHERE user_id = ? GROUP BY category`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("summary by category: %w", err)
	}
	defer rows.Close()

	totals := map[string]float64{}
	for rows.Next() {
		var category string
		var total float64
		if err := rows.Scan(&category, &total); err != nil {
			return nil, fmt.Errorf("scan category total: %w", err)
		}
		totals[core.DisplayCategory(category)] += total
	}
	return totals, rows.Err()
}

// MonthlyTotals sums a user's expenses grouped by calendar month
// ("YYYY-MM", the first 7 characters of the ISO date). Entries without a
// date are excluded entirely.
func (s *Store) MonthlyTotals(ctx context.Context, userID int64) (map[string]float64, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT substr(date, 1, 7), SUM(amount)
		 FROM expenses WHERE user_id = ? AND date IS NOT NULL
		 GROUP BY substr(date, 1, 7)`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("monthly totals: %w", err)
	}
	defer rows.Close()

	totals := map[string]float64{}
	for rows.Next() {
		var month string
		var total float64
		if err := rows.Scan(&month, &total); err != nil {
			return nil, fmt.Errorf("scan monthly total: %w", err)
		}
		totals[month] = total
	}
	return totals, rows.Err()
}

// MonthSpend returns a user's total spend for one "YYYY-MM" month, 0 when
// there are no dated expenses in it.
func (s *Store) MonthSpend(ctx context.Context, userID int64, month string) (float64, error) {
	var total float64
	err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount), 0)
		 FROM expenses WHERE user_id = ? AND date IS NOT NULL AND substr(date, 1, 7) = ?`,
		userID, month).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("month spend: %w", err)
	}
	return total, nil
}
