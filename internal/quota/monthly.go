// Package quota implements the calendar-month mutation limiter used to gate
// profile image changes.
//
// A subject's change history is a list of UTC timestamps. Evaluate counts the
// entries that fall inside now's calendar month; Commit appends now and prunes
// entries that have aged out of the retention window. The limiter itself holds
// no state, so enforcement is only as strong as the read-check-write cycle of
// the caller.
package quota

import (
	"time"
)

const (
	// TimestampLayout is the fixed-precision UTC layout for history entries.
	TimestampLayout = "2006-01-02T15:04:05.000000Z"

	// NextAvailableLayout renders the first instant of the following month.
	NextAvailableLayout = "2006-01-02T15:04:05Z"

	// DefaultLimit is the number of changes allowed per calendar month.
	DefaultLimit = 2

	// DefaultRetentionYears is how long history entries are kept.
	DefaultRetentionYears = 1
)

// Decision is the outcome of evaluating a history at a given instant.
type Decision struct {
	Count         int
	Limit         int
	Allowed       bool
	Remaining     int
	NextAvailable time.Time
}

// NextAvailableDate formats NextAvailable, or returns "" when the change is allowed.
func (d Decision) NextAvailableDate() string {
	if d.Allowed {
		return ""
	}
	return d.NextAvailable.UTC().Format(NextAvailableLayout)
}

// Limiter enforces a per-calendar-month limit over a change history.
type Limiter struct {
	limit          int
	retentionYears int
}

// New creates a Limiter. Non-positive arguments fall back to the defaults.
func New(limit, retentionYears int) *Limiter {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if retentionYears <= 0 {
		retentionYears = DefaultRetentionYears
	}
	return &Limiter{limit: limit, retentionYears: retentionYears}
}

// Limit returns the configured monthly limit.
func (l *Limiter) Limit() int {
	return l.limit
}

// Evaluate decides whether one more change is allowed at now.
func (l *Limiter) Evaluate(history []string, now time.Time) Decision {
	count := CountInMonth(history, now)
	_, monthEnd := MonthBounds(now)

	if count >= l.limit {
		return Decision{
			Count:         count,
			Limit:         l.limit,
			Allowed:       false,
			NextAvailable: monthEnd,
		}
	}

	return Decision{
		Count:     count,
		Limit:     l.limit,
		Allowed:   true,
		Remaining: l.limit - count - 1,
	}
}

// Commit records a change at now and returns the pruned history to persist.
// The input slice is not modified.
func (l *Limiter) Commit(history []string, now time.Time) []string {
	next := make([]string, 0, len(history)+1)
	next = append(next, history...)
	next = append(next, FormatTimestamp(now))
	return Prune(next, now, l.retentionYears)
}

// MonthBounds returns the first instant of now's UTC month and of the month after.
func MonthBounds(now time.Time) (start, end time.Time) {
	now = now.UTC()
	start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	end = start.AddDate(0, 1, 0)
	return start, end
}

// CountInMonth counts history entries inside now's UTC calendar month.
// Unparseable entries are ignored.
func CountInMonth(history []string, now time.Time) int {
	start, end := MonthBounds(now)

	count := 0
	for _, entry := range history {
		ts, err := ParseTimestamp(entry)
		if err != nil {
			continue
		}
		if !ts.Before(start) && ts.Before(end) {
			count++
		}
	}
	return count
}

// Prune keeps the entries strictly newer than now minus retentionYears
// calendar years, preserving order. Unparseable entries are dropped.
func Prune(history []string, now time.Time, retentionYears int) []string {
	cutoff := now.UTC().AddDate(-retentionYears, 0, 0)

	kept := make([]string, 0, len(history))
	for _, entry := range history {
		ts, err := ParseTimestamp(entry)
		if err != nil {
			continue
		}
		if ts.After(cutoff) {
			kept = append(kept, entry)
		}
	}
	return kept
}

// FormatTimestamp renders t in TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// ParseTimestamp parses an RFC 3339 timestamp with or without fractional seconds.
func ParseTimestamp(s string) (time.Time, error) {
	ts, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, err
	}
	return ts.UTC(), nil
}
