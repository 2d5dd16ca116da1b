package database

import (
	"errors"
	"testing"
)

func TestSortClause(t *testing.T) {
	tests := []struct {
		name   string
		sortBy string
		order  string
		want   string
	}{
		{"count desc", SortByCount, SortOrderDesc, "count DESC"},
		{"count asc", SortByCount, SortOrderAsc, "count ASC"},
		{"performer asc", SortByPerformer, SortOrderAsc, "canonical_name ASC"},
		{"performer desc", SortByPerformer, SortOrderDesc, "canonical_name DESC"},
		{"invalid sort key falls back", "songcount", SortOrderAsc, "count ASC"},
		{"invalid order falls back", SortByPerformer, "upward", "canonical_name DESC"},
		{"both invalid fall back", "x; DROP TABLE plays", "sideways", "count DESC"},
		{"empty inputs fall back", "", "", "count DESC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SortClause(tt.sortBy, tt.order); got != tt.want {
				t.Errorf("SortClause(%q, %q) = %q, want %q", tt.sortBy, tt.order, got, tt.want)
			}
		})
	}
}

func TestIsValidSortBy(t *testing.T) {
	if !IsValidSortBy(SortByCount) || !IsValidSortBy(SortByPerformer) {
		t.Error("expected count and performer to be valid sort keys")
	}
	if IsValidSortBy("user") || IsValidSortBy("") {
		t.Error("expected unknown sort keys to be invalid")
	}
}

func TestIsValidSortOrder(t *testing.T) {
	if !IsValidSortOrder(SortOrderAsc) || !IsValidSortOrder(SortOrderDesc) {
		t.Error("expected asc and desc to be valid sort orders")
	}
	if IsValidSortOrder("ASCENDING") || IsValidSortOrder("") {
		t.Error("expected unknown sort orders to be invalid")
	}
}

func TestPeriodFormat(t *testing.T) {
	tests := []struct {
		period  string
		want    string
		wantErr bool
	}{
		{PeriodDay, "%Y-%m-%d", false},
		{PeriodMonth, "%Y-%m", false},
		{PeriodYear, "%Y", false},
		{"week", "", true},
		{"period_typo", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.period, func(t *testing.T) {
			got, err := PeriodFormat(tt.period)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidPeriod) {
					t.Errorf("PeriodFormat(%q) error = %v, want ErrInvalidPeriod", tt.period, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("PeriodFormat(%q) error = %v", tt.period, err)
			}
			if got != tt.want {
				t.Errorf("PeriodFormat(%q) = %q, want %q", tt.period, got, tt.want)
			}
		})
	}
}
