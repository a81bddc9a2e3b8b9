package normalize

import (
	"fmt"
	"regexp"
	"time"
)

const (
	apiLayout       = "2006-01-02T15:04:05Z"
	CanonicalLayout = "2006-01-02 15:04:05-07:00"
)

var apiTimestampRE = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}Z$`)

var parseLayouts = []string{
	CanonicalLayout,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Timestamp rewrites the API form 2024-04-15T09:04:24Z into the canonical
// 2024-04-15 09:04:24+00:00. Anything else, including values that are
// already canonical, is returned unchanged.
func Timestamp(raw string) string {
	if !apiTimestampRE.MatchString(raw) {
		return raw
	}
	t, err := time.Parse(apiLayout, raw)
	if err != nil {
		return raw
	}

	return t.UTC().Format(CanonicalLayout)
}

// ParseTime parses any timestamp the cache may hold and returns it in UTC.
func ParseTime(raw string) (time.Time, error) {
	for _, layout := range parseLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}

	return time.Time{}, fmt.Errorf("unparseable timestamp %q", raw)
}

// FormatAPITime renders t the way the search endpoint expects publishedAfter.
func FormatAPITime(t time.Time) string {
	return t.UTC().Format(apiLayout)
}
