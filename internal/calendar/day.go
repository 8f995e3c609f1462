// Package calendar works with calendar days as "2006-01-02" identity strings.
// Day arithmetic is done on UTC midnights so DST transitions in the user's
// zone can never shift a bucket.
package calendar

import (
	"errors"
	"fmt"
	"time"
)

const Layout = "2006-01-02"

var ErrInvalidDay = errors.New("invalid calendar day")

// Today returns the calendar day of now as observed in loc.
func Today(now time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return now.In(loc).Format(Layout)
}

// Parse validates a day string and returns its UTC midnight.
func Parse(day string) (time.Time, error) {
	t, err := time.ParseInLocation(Layout, day, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDay, day)
	}
	return t, nil
}

func Valid(day string) bool {
	_, err := Parse(day)
	return err == nil
}

// AddDays shifts day by n calendar days (n may be negative).
func AddDays(day string, n int) (string, error) {
	t, err := Parse(day)
	if err != nil {
		return "", err
	}
	return t.AddDate(0, 0, n).Format(Layout), nil
}

// Span counts the days in the inclusive range [start, end]. It returns 0 when
// end is before start.
func Span(start, end string) (int, error) {
	s, err := Parse(start)
	if err != nil {
		return 0, err
	}
	e, err := Parse(end)
	if err != nil {
		return 0, err
	}
	if e.Before(s) {
		return 0, nil
	}
	// both are UTC midnights, so the difference is a whole number of days
	return int(e.Sub(s).Hours()/24) + 1, nil
}

// Range lists every day in [start, end] in ascending order.
func Range(start, end string) ([]string, error) {
	n, err := Span(start, end)
	if err != nil {
		return nil, err
	}
	s, _ := Parse(start)
	days := make([]string, n)
	for i := 0; i < n; i++ {
		days[i] = s.AddDate(0, 0, i).Format(Layout)
	}
	return days, nil
}

// Trailing returns the n days ending at (and including) end.
func Trailing(end string, n int) ([]string, error) {
	if n <= 0 {
		return []string{}, nil
	}
	start, err := AddDays(end, -(n - 1))
	if err != nil {
		return nil, err
	}
	return Range(start, end)
}

// LoadLocation resolves an IANA zone name, falling back when it is empty or unknown.
func LoadLocation(name string, fallback *time.Location) *time.Location {
	if name == "" {
		return fallback
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return fallback
	}
	return loc
}
