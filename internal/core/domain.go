package core

import (
	"errors"
	"strings"
	"time"
)

// DefaultCategory is stored when an expense is added without a category.
const DefaultCategory = "Uncategorized"

// DefaultCategories is the set seeded for a user the first time their
// category list is read and found empty. Order is insignificant.
var DefaultCategories = []string{
	"Food & Dining",
	"Transportation",
	"Shopping",
	"Entertainment",
	"Bills & Utilities",
	"Healthcare",
	"Education",
	"Travel",
	"Groceries",
	"Other",
}

// Validation failures are caller-correctable and never retried.
var (
	ErrInvalidAmount = errors.New("amount must be greater than 0")
	ErrInvalidDate   = errors.New("invalid date, use YYYY-MM-DD")
	ErrInvalidMonth  = errors.New("invalid month, use YYYY-MM")
	ErrEmptyName     = errors.New("category name required")
	ErrNoFields      = errors.New("no valid update fields provided")
)

var (
	// ErrNotFound covers both a missing row and a row owned by another
	// user. The two cases are deliberately indistinguishable.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateUsername surfaces a users.username unique-index
	// violation. The index, not any pre-check, is the source of truth.
	ErrDuplicateUsername = errors.New("username already exists")
)

type (
	User struct {
		ID           int64  `json:"id"`
		Username     string `json:"username"`
		PasswordHash string `json:"-"`
	}

	// Expense is a single ledger entry. Date is an ISO calendar date
	// ("2006-01-02") or empty when the entry carries no date.
	Expense struct {
		ID       int64   `json:"id"`
		UserID   int64   `json:"user_id"`
		Amount   float64 `json:"amount"`
		Category string  `json:"category"`
		Date     string  `json:"date"`
		Note     string  `json:"note"`
	}

	Category struct {
		ID     int64  `json:"id"`
		UserID int64  `json:"-"`
		Name   string `json:"name"`
	}

	Budget struct {
		ID          int64   `json:"id"`
		UserID      int64   `json:"user_id"`
		Month       string  `json:"month"`
		LimitAmount float64 `json:"limit_amount"`
	}

	// ExpenseUpdate is a partial field set for an expense. A nil field
	// is left untouched.
	ExpenseUpdate struct {
		Amount   *float64 `json:"amount"`
		Category *string  `json:"category"`
		Date     *string  `json:"date"`
		Note     *string  `json:"note"`
	}
)

// IsEmpty reports whether the update carries no fields at all.
func (u ExpenseUpdate) IsEmpty() bool {
	return u.Amount == nil && u.Category == nil && u.Date == nil && u.Note == nil
}

// Validate checks the supplied fields only.
func (u ExpenseUpdate) Validate() error {
	if u.IsEmpty() {
		return ErrNoFields
	}
	if u.Amount != nil && *u.Amount <= 0 {
		return ErrInvalidAmount
	}
	if u.Date != nil {
		if err := ValidateDate(*u.Date); err != nil {
			return err
		}
	}
	return nil
}

// ValidateDate checks that s is an ISO calendar date.
func ValidateDate(s string) error {
	if _, err := time.Parse("2006-01-02", s); err != nil {
		return ErrInvalidDate
	}
	return nil
}

// ValidateMonth checks that s is a real "YYYY-MM" month.
func ValidateMonth(s string) error {
	if len(s) != 7 {
		return ErrInvalidMonth
	}
	if _, err := time.Parse("2006-01-02", s+"-01"); err != nil {
		return ErrInvalidMonth
	}
	return nil
}

// Today returns the current UTC calendar date, used as the default when an
// expense is added without one.
func Today() string {
	return time.Now().UTC().Format("2006-01-02")
}

// CurrentMonth returns the current UTC month in "YYYY-MM" form.
func CurrentMonth() string {
	return time.Now().UTC().Format("2006-01")
}

// DisplayCategory maps an absent category value to the default label.
func DisplayCategory(category string) string {
	if strings.TrimSpace(category) == "" {
		return DefaultCategory
	}
	return category
}
