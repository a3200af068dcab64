package services

import (
	"strings"
	"time"

	"eventbot/internal/domain"
)

// Accepted event date formats, longest first. Layouts without a year resolve
// against the current year, rolling forward when the instant already passed.
var eventTimeLayouts = []struct {
	layout  string
	hasYear bool
}{
	{"15:04 02.01.2006", true},
	{"15:04 02.01", false},
	{"02.01.2006", true},
	{"02.01", false},
}

// ParseEventTime parses a user-supplied event date string. Date-only formats
// default the time to midnight. Unparsable or calendar-invalid input yields
// domain.ErrInvalidDateTime.
func ParseEventTime(input string, now time.Time) (time.Time, error) {
	s := strings.TrimSpace(input)
	for _, l := range eventTimeLayouts {
		t, err := time.ParseInLocation(l.layout, s, now.Location())
		if err != nil {
			continue
		}
		if l.hasYear {
			return t, nil
		}
		resolved, ok := withYear(t, now.Year(), now.Location())
		if !ok {
			return time.Time{}, domain.ErrInvalidDateTime
		}
		if resolved.Before(now) {
			next, ok := withYear(t, now.Year()+1, now.Location())
			if !ok {
				return time.Time{}, domain.ErrInvalidDateTime
			}
			return next, nil
		}
		return resolved, nil
	}
	return time.Time{}, domain.ErrInvalidDateTime
}

// withYear rebuilds t in the given year. time.Date normalizes impossible
// dates (Feb 29 in a non-leap year becomes Mar 1), so a shifted month or day
// means the date does not exist in that year.
func withYear(t time.Time, year int, loc *time.Location) (time.Time, bool) {
	out := time.Date(year, t.Month(), t.Day(), t.Hour(), t.Minute(), 0, 0, loc)
	if out.Month() != t.Month() || out.Day() != t.Day() {
		return time.Time{}, false
	}
	return out, true
}
