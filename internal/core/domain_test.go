package core

import (
	"errors"
	"testing"
	"time"
)

func TestValidateDate(t *testing.T) {
	tests := []struct {
		name    string
		date    string
		wantErr error
	}{
		{name: "valid date", date: "2024-01-05"},
		{name: "leap day", date: "2024-02-29"},
		{name: "not a leap year", date: "2023-02-29", wantErr: ErrInvalidDate},
		{name: "month out of range", date: "2024-13-01", wantErr: ErrInvalidDate},
		{name: "day out of range", date: "2024-04-31", wantErr: ErrInvalidDate},
		{name: "wrong separator", date: "2024/01/05", wantErr: ErrInvalidDate},
		{name: "missing day", date: "2024-01", wantErr: ErrInvalidDate},
		{name: "empty", date: "", wantErr: ErrInvalidDate},
		{name: "garbage", date: "yesterday", wantErr: ErrInvalidDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDate(tt.date)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateDate(%q) = %v, want %v", tt.date, err, tt.wantErr)
			}
		})
	}
}

func TestValidateMonth(t *testing.T) {
	tests := []struct {
		name    string
		month   string
		wantErr error
	}{
		{name: "valid month", month: "2024-01"},
		{name: "december", month: "2024-12"},
		{name: "month zero", month: "2024-00", wantErr: ErrInvalidMonth},
		{name: "month thirteen", month: "2024-13", wantErr: ErrInvalidMonth},
		{name: "full date", month: "2024-01-05", wantErr: ErrInvalidMonth},
		{name: "no padding", month: "2024-1", wantErr: ErrInvalidMonth},
		{name: "empty", month: "", wantErr: ErrInvalidMonth},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateMonth(tt.month)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateMonth(%q) = %v, want %v", tt.month, err, tt.wantErr)
			}
		})
	}
}

func TestExpenseUpdateValidate(t *testing.T) {
	amount := func(v float64) *float64 { return &v }
	str := func(v string) *string { return &v }

	tests := []struct {
		name    string
		update  ExpenseUpdate
		wantErr error
	}{
		{name: "empty update", update: ExpenseUpdate{}, wantErr: ErrNoFields},
		{name: "valid amount", update: ExpenseUpdate{Amount: amount(12.5)}},
		{name: "zero amount", update: ExpenseUpdate{Amount: amount(0)}, wantErr: ErrInvalidAmount},
		{name: "negative amount", update: ExpenseUpdate{Amount: amount(-3)}, wantErr: ErrInvalidAmount},
		{name: "valid date", update: ExpenseUpdate{Date: str("2024-06-01")}},
		{name: "bad date", update: ExpenseUpdate{Date: str("01-06-2024")}, wantErr: ErrInvalidDate},
		{name: "note only", update: ExpenseUpdate{Note: str("")}},
		{name: "category is free text", update: ExpenseUpdate{Category: str("Anything Goes")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.update.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestToday(t *testing.T) {
	got := Today()
	want := time.Now().UTC().Format("2006-01-02")
	if got != want {
		t.Errorf("Today() = %q, want %q", got, want)
	}
	if err := ValidateDate(got); err != nil {
		t.Errorf("Today() produced invalid date %q: %v", got, err)
	}
}

func TestDisplayCategory(t *testing.T) {
	if got := DisplayCategory(""); got != DefaultCategory {
		t.Errorf("DisplayCategory(\"\") = %q, want %q", got, DefaultCategory)
	}
	if got := DisplayCategory("  "); got != DefaultCategory {
		t.Errorf("DisplayCategory(blank) = %q, want %q", got, DefaultCategory)
	}
	if got := DisplayCategory("Food"); got != "Food" {
		t.Errorf("DisplayCategory(Food) = %q", got)
	}
}
