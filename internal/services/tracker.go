// Package services implements the operations exposed to the request layer:
// ledger writes with validation and defaulting, on-demand aggregation,
// budget upserts with status classification, and the category registry.
package services

import (
	"context"
	"errors"
	"strings"

	"spendlog/internal/core"
	"spendlog/internal/storage"
)

// TrackerService wraps the record store with the validation and defaulting
// rules of the ledger. All operations are scoped to an authenticated user
// id supplied by the caller.
type TrackerService struct {
	store *storage.Store
}

func NewTrackerService(store *storage.Store) *TrackerService {
	return &TrackerService{store: store}
}

// AddExpenseParams carries the caller-supplied fields of a new expense.
// Category and Date are optional.
type AddExpenseParams struct {
	Amount   float64
	Category string
	Date     string
	Note     string
}

// AddExpense validates and records a new ledger entry. The category
// defaults to "Uncategorized" and the date to the current UTC day.
func (s *TrackerService) AddExpense(ctx context.Context, userID int64, p AddExpenseParams) (core.Expense, error) {
	if p.Amount <= 0 {
		return core.Expense{}, core.ErrInvalidAmount
	}

	category := p.Category
	if category == "" {
		category = core.DefaultCategory
	}

	date := p.Date
	if date == "" {
		date = core.Today()
	} else if err := core.ValidateDate(date); err != nil {
		return core.Expense{}, err
	}

	return s.store.CreateExpense(ctx, core.Expense{
		UserID:   userID,
		Amount:   p.Amount,
		Category: category,
		Date:     date,
		Note:     p.Note,
	})
}

// ListExpenses returns the user's expenses, most recent first, optionally
// narrowed by category and an inclusive date range.
func (s *TrackerService) ListExpenses(ctx context.Context, userID int64, f storage.ExpenseFilter) ([]core.Expense, error) {
	return s.store.ListExpenses(ctx, userID, f)
}

// GetExpense fetches one owned expense; rows owned by other users read as
// not-found.
func (s *TrackerService) GetExpense(ctx context.Context, userID, id int64) (core.Expense, error) {
	return s.store.ExpenseOwnedBy(ctx, id, userID)
}

// UpdateExpense applies a partial field set to an owned expense.
func (s *TrackerService) UpdateExpense(ctx context.Context, userID, id int64, upd core.ExpenseUpdate) (core.Expense, error) {
	if err := upd.Validate(); err != nil {
		return core.Expense{}, err
	}
	return s.store.UpdateExpense(ctx, id, userID, upd)
}

// DeleteExpense removes an owned expense, reporting found/not-found
// separately from storage failures.
func (s *TrackerService) DeleteExpense(ctx context.Context, userID, id int64) (bool, error) {
	return s.store.DeleteExpense(ctx, id, userID)
}

// SummaryByCategory returns category totals across the user's whole ledger.
func (s *TrackerService) SummaryByCategory(ctx context.Context, userID int64) (map[string]float64, error) {
	return s.store.SummaryByCategory(ctx, userID)
}

// MonthlyTotals returns per-month totals; dateless entries are excluded.
func (s *TrackerService) MonthlyTotals(ctx context.Context, userID int64) (map[string]float64, error) {
	return s.store.MonthlyTotals(ctx, userID)
}

// SetBudget validates and upserts the user's limit for a month, returning
// the saved budget together with the resulting status.
func (s *TrackerService) SetBudget(ctx context.Context, userID int64, month string, limitAmount float64) (core.Budget, core.BudgetStatus, error) {
	if err := core.ValidateMonth(month); err != nil {
		return core.Budget{}, core.BudgetStatus{}, err
	}
	if limitAmount <= 0 {
		return core.Budget{}, core.BudgetStatus{}, core.ErrInvalidAmount
	}

	budget, err := s.store.UpsertBudget(ctx, userID, month, limitAmount)
	if err != nil {
		return core.Budget{}, core.BudgetStatus{}, err
	}
	status, err := s.BudgetStatus(ctx, userID, month)
	if err != nil {
		return core.Budget{}, core.BudgetStatus{}, err
	}
	return budget, status, nil
}

// BudgetStatus classifies the month's spend against its budget, if any.
func (s *TrackerService) BudgetStatus(ctx context.Context, userID int64, month string) (core.BudgetStatus, error) {
	if err := core.ValidateMonth(month); err != nil {
		return core.BudgetStatus{}, err
	}

	spent, err := s.store.MonthSpend(ctx, userID, month)
	if err != nil {
		return core.BudgetStatus{}, err
	}

	budget, err := s.store.BudgetFor(ctx, userID, month)
	if errors.Is(err, core.ErrNotFound) {
		return core.NewBudgetStatus(month, nil, spent), nil
	}
	if err != nil {
		return core.BudgetStatus{}, err
	}
	return core.NewBudgetStatus(month, &budget.LimitAmount, spent), nil
}

// ListCategories seeds the default set on first access, then returns the
// user's categories sorted by name.
func (s *TrackerService) ListCategories(ctx context.Context, userID int64) ([]core.Category, error) {
	if err := s.store.EnsureDefaultCategories(ctx, userID); err != nil {
		return nil, err
	}
	return s.store.ListCategories(ctx, userID)
}

// AddCategory adds a label to the user's registry. The name is trimmed;
// adding an existing name returns the existing row unchanged.
func (s *TrackerService) AddCategory(ctx context.Context, userID int64, name string) (core.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return core.Category{}, core.ErrEmptyName
	}
	return s.store.AddCategory(ctx, userID, name)
}

// DeleteCategory removes an owned category label.
func (s *TrackerService) DeleteCategory(ctx context.Context, userID, id int64) (bool, error) {
	return s.store.DeleteCategory(ctx, id, userID)
}
