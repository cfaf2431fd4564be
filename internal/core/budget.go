package core

import "math"

// Budget status classifications. A month with no budget row is "no_budget";
// otherwise the spent/limit ratio decides between ok, warning and over.
const (
	StatusOK       = "ok"
	StatusWarning  = "warning"
	StatusOver     = "over"
	StatusNoBudget = "no_budget"
)

// warningThreshold is the spent/limit ratio at which a budget flips to
// "warning". Fixed, not configurable.
const warningThreshold = 0.9

// BudgetStatus compares a month's actual spend against its budget limit.
// Limit and Remaining are nil when no budget exists for the month.
type BudgetStatus struct {
	Month     string   `json:"month"`
	Limit     *float64 `json:"limit"`
	Spent     float64  `json:"spent"`
	Remaining *float64 `json:"remaining"`
	Status    string   `json:"status"`
}

// NewBudgetStatus classifies spend against a limit. Pass a nil limit when
// the month has no budget row.
func NewBudgetStatus(month string, limit *float64, spent float64) BudgetStatus {
	st := BudgetStatus{Month: month, Spent: spent, Status: StatusNoBudget}
	if limit == nil {
		return st
	}

	lv := *limit
	remaining := math.Max(lv-spent, 0)
	st.Limit = &lv
	st.Remaining = &remaining

	var ratio float64
	if lv > 0 {
		ratio = spent / lv
	}
	switch {
	case lv <= 0:
		// Unreachable when limits are validated on write; kept so a bad
		// row cannot divide by zero.
		st.Status = StatusNoBudget
	case spent > lv:
		st.Status = StatusOver
	case ratio >= warningThreshold:
		st.Status = StatusWarning
	default:
		st.Status = StatusOK
	}
	return st
}
