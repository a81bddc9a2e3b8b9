package handler

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"ewintr.nl/ytdash/analytics"
)

const dateLayout = "2006-01-02"

// parseFilter reads the filter parameters shared by the read endpoints:
// channel (repeatable), from and to as YYYY-MM-DD, and exclude_shorts.
func parseFilter(q url.Values) (analytics.Filter, error) {
	f := analytics.Filter{Channels: q["channel"]}

	var err error
	if f.From, err = parseDate(q, "from"); err != nil {
		return analytics.Filter{}, err
	}
	if f.To, err = parseDate(q, "to"); err != nil {
		return analytics.Filter{}, err
	}
	if !f.From.IsZero() && !f.To.IsZero() && f.To.Before(f.From) {
		return analytics.Filter{}, fmt.Errorf("to %s is before from %s", q.Get("to"), q.Get("from"))
	}
	if s := q.Get("exclude_shorts"); s != "" {
		if f.ExcludeShorts, err = strconv.ParseBool(s); err != nil {
			return analytics.Filter{}, fmt.Errorf("invalid exclude_shorts %q", s)
		}
	}

	return f, nil
}

func parseDate(q url.Values, key string) (time.Time, error) {
	s := q.Get(key)
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s date %q, expected YYYY-MM-DD", key, s)
	}

	return t, nil
}

// parsePositive reads an optional positive integer parameter.
func parsePositive(q url.Values, key string, def int) (int, error) {
	s := q.Get(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid %s %q, expected a positive number", key, s)
	}

	return n, nil
}
