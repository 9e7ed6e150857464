package repository

import "strings"

// Sort is a single-field ordering. Repositories validate Field against
// their own column allowlist and fall back to their default when it is
// empty or unknown.
type Sort struct {
	Field string
	Desc  bool
}

// ParseSort reads an order-by expression where a leading '-' marks
// descending order, e.g. "-order_date".
func ParseSort(raw string) Sort {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Sort{}
	}
	if strings.HasPrefix(raw, "-") {
		return Sort{Field: raw[1:], Desc: true}
	}
	return Sort{Field: raw}
}
