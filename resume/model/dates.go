package model

import (
	"strings"
	"time"
)

var monthLayouts = []string{
	"2006-01-02",
	"2006-01",
	time.RFC3339,
	"2006-01-02T15:04:05",
}

// ParseMonth parses a resume date. Only year and month are kept.
func ParseMonth(value string) (time.Time, bool) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return time.Time{}, false
	}
	for _, layout := range monthLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}

// FormatMonth renders a date as MM/yyyy. Values that do not parse are returned trimmed.
func FormatMonth(value string) string {
	t, ok := ParseMonth(value)
	if !ok {
		return strings.TrimSpace(value)
	}
	return t.Format("01/2006")
}
