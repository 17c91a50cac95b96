package board_test

import (
	"errors"
	"testing"

	"boardkit/pkg/domain/board"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"valid", "2026-02-02", false},
		{"valid month boundary", "2026-01-31", false},
		{"empty means unset", "", false},
		{"slashes", "2026/02/02", true},
		{"reversed", "02-02-2026", true},
		{"not a date", "soon", true},
		{"out of range day", "2026-02-30", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := board.ParseDate(tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseDate() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && d.String() != tt.value {
				t.Errorf("String() = %v, want %v", d.String(), tt.value)
			}
		})
	}
}

func TestDate_AddDays(t *testing.T) {
	tests := []struct {
		name  string
		start string
		days  int
		want  string
	}{
		{"same month", "2026-02-02", 6, "2026-02-08"},
		{"month rollover", "2026-01-28", 6, "2026-02-03"},
		{"year rollover", "2025-12-29", 6, "2026-01-04"},
		{"leap february", "2024-02-26", 6, "2024-03-03"},
		{"non-leap february", "2026-02-26", 6, "2026-03-04"},
		{"zero days", "2026-02-02", 0, "2026-02-02"},
		{"backwards", "2026-03-02", -2, "2026-02-28"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := board.MustParseDate(tt.start).AddDays(tt.days)
			if got.String() != tt.want {
				t.Errorf("AddDays(%d) = %v, want %v", tt.days, got, tt.want)
			}
		})
	}
}

func TestDate_Zero(t *testing.T) {
	var zero board.Date
	if !zero.IsZero() {
		t.Error("expected zero value to be zero")
	}
	if zero.String() != "" {
		t.Errorf("zero String() = %q, want empty", zero.String())
	}
	if !zero.AddDays(7).IsZero() {
		t.Error("AddDays on zero date should stay zero")
	}

	d := board.MustParseDate("2026-02-02")
	if d.IsZero() {
		t.Error("expected parsed date to not be zero")
	}
}

func TestIteration_EndDate(t *testing.T) {
	tests := []struct {
		name     string
		start    string
		duration int
		want     string
	}{
		{"one week", "2026-02-02", 7, "2026-02-08"},
		{"two weeks", "2026-02-09", 14, "2026-02-22"},
		{"crosses month end", "2026-02-24", 7, "2026-03-02"},
		{"crosses year end", "2025-12-29", 7, "2026-01-04"},
		{"single day", "2026-02-02", 1, "2026-02-02"},
		{"zero duration stays on start", "2026-02-02", 0, "2026-02-02"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			it := board.Iteration{
				Title:        "Sprint 1",
				StartDate:    board.MustParseDate(tt.start),
				DurationDays: tt.duration,
			}
			if got := it.EndDate().String(); got != tt.want {
				t.Errorf("EndDate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFieldNotFoundError_Is(t *testing.T) {
	err := &board.FieldNotFoundError{Name: "Due Date", Tried: board.DateFieldAliases}
	if !errors.Is(err, board.ErrFieldNotFound) {
		t.Error("expected FieldNotFoundError to match ErrFieldNotFound")
	}
	if err.Error() == "" {
		t.Error("expected non-empty message")
	}
}

func TestItem_HasDueDate(t *testing.T) {
	with := board.Item{DueDate: board.MustParseDate("2026-02-05")}
	without := board.Item{}

	if !with.HasDueDate() {
		t.Error("expected item with due date to report one")
	}
	if without.HasDueDate() {
		t.Error("expected item without due date to report none")
	}
}
