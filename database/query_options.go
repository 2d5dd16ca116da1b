package database

import "errors"

// Sort and period parameters arrive from untrusted query strings. They are
// never interpolated into SQL directly; every value is checked against the
// allow-lists below and mapped through a fixed lookup table.

const (
	SortByCount     = "count"
	SortByPerformer = "performer"
)

const (
	SortOrderAsc  = "asc"
	SortOrderDesc = "desc"
)

const (
	PeriodDay   = "day"
	PeriodMonth = "month"
	PeriodYear  = "year"
)

const (
	DefaultSortBy    = SortByCount
	DefaultSortOrder = SortOrderDesc
)

// ErrInvalidPeriod is returned when a period value is not day, month or year.
// Unlike the sort parameters, a bad period is rejected rather than defaulted.
var ErrInvalidPeriod = errors.New("invalid period: must be day, month or year")

// sortColumns maps a sort key to the column of the aggregated performer query.
var sortColumns = map[string]string{
	SortByCount:     "count",
	SortByPerformer: "canonical_name",
}

// sortDirections maps a sort order to its SQL direction keyword.
var sortDirections = map[string]string{
	SortOrderAsc:  "ASC",
	SortOrderDesc: "DESC",
}

// periodFormats maps a period to the strftime projection that buckets a
// timestamp into that period.
var periodFormats = map[string]string{
	PeriodDay:   "%Y-%m-%d",
	PeriodMonth: "%Y-%m",
	PeriodYear:  "%Y",
}

// IsValidSortBy checks if a string is a valid performer sort key
func IsValidSortBy(sortBy string) bool {
	_, ok := sortColumns[sortBy]
	return ok
}

// IsValidSortOrder checks if a string is a valid sort direction
func IsValidSortOrder(order string) bool {
	_, ok := sortDirections[order]
	return ok
}

// SortClause resolves a sort key and order into an ORDER BY fragment.
// Invalid inputs silently fall back to count descending.
func SortClause(sortBy, order string) string {
	if !IsValidSortBy(sortBy) {
		sortBy = DefaultSortBy
	}
	if !IsValidSortOrder(order) {
		order = DefaultSortOrder
	}
	return sortColumns[sortBy] + " " + sortDirections[order]
}

// PeriodFormat resolves a period into its strftime format string
func PeriodFormat(period string) (string, error) {
	format, ok := periodFormats[period]
	if !ok {
		return "", ErrInvalidPeriod
	}
	return format, nil
}
