package conversion

import (
	"fmt"
	"time"

	"github.com/Ramsey-B/fern/pkg/models"
)

// Common date format aliases
var formatAliases = map[string]string{
	"iso8601":   time.RFC3339,
	"rfc3339":   time.RFC3339,
	"rfc822":    time.RFC822,
	"rfc850":    time.RFC850,
	"rfc1123":   time.RFC1123,
	"unix":      time.UnixDate,
	"date":      "2006-01-02",
	"datetime":  "2006-01-02 15:04:05",
	"time":      "15:04:05",
	"timestamp": "2006-01-02T15:04:05Z07:00",
}

// ResolveLayout expands a format alias into a Go time layout.
func ResolveLayout(format string) string {
	if alias, ok := formatAliases[format]; ok {
		return alias
	}
	return format
}

// DefaultLayout is the layout used to render t when no pattern is given.
func DefaultLayout(t models.FieldType) string {
	switch t {
	case models.FieldTypeDate:
		return "2006-01-02"
	case models.FieldTypeTime:
		return "15:04:05"
	}
	return time.RFC3339Nano
}

// layouts tried, in order, when parsing without a pattern
var parseLayouts = []string{
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"15:04:05",
}

// ParseTime parses s using pattern, or the common layouts when pattern is empty.
func ParseTime(s, pattern string) (time.Time, error) {
	if pattern != "" {
		return time.Parse(ResolveLayout(pattern), s)
	}

	for _, layout := range parseLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, fmt.Errorf("unable to parse date: %s", s)
}

// truncateTo reduces t to the part of it that target can hold.
func truncateTo(t time.Time, target models.FieldType) (time.Time, bool) {
	switch target {
	case models.FieldTypeDate:
		date := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
		return date, !date.Equal(t)
	case models.FieldTypeTime:
		clock := time.Date(0, time.January, 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
		return clock, t.Year() != 0 || t.Month() != time.January || t.Day() != 1
	case models.FieldTypeDateTime:
		return t.UTC(), false
	}
	return t, false
}
