// Package period resolves the start of the audit window.
package period

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidPeriod reports a month or day override that does not form a real date.
var ErrInvalidPeriod = errors.New("invalid period")

// Overrides carries the optional --month/--day values. A nil field means the
// flag was not given.
type Overrides struct {
	Month *int
	Day   *int
}

// Resolve returns the window start for today. Without a month override the
// window opens on the first day of today's month; with one it opens on the
// given month and day (day defaults to 1) of today's year. A day override on
// its own is ignored. The result is midnight in today's location.
func Resolve(o Overrides, today time.Time) (time.Time, error) {
	loc := today.Location()
	if o.Month == nil {
		return time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, loc), nil
	}

	month := *o.Month
	day := 1
	if o.Day != nil {
		day = *o.Day
	}
	if month < 1 || month > 12 {
		return time.Time{}, fmt.Errorf("%w: month %d is outside 1-12", ErrInvalidPeriod, month)
	}
	if day < 1 || day > 31 {
		return time.Time{}, fmt.Errorf("%w: day %d is outside 1-31", ErrInvalidPeriod, day)
	}

	start := time.Date(today.Year(), time.Month(month), day, 0, 0, 0, 0, loc)
	// time.Date normalizes 31 April into 1 May; reject instead of drifting.
	if start.Month() != time.Month(month) || start.Day() != day {
		return time.Time{}, fmt.Errorf("%w: %04d-%02d-%02d does not exist", ErrInvalidPeriod, today.Year(), month, day)
	}
	return start, nil
}

// Int returns a pointer to v for building Overrides.
func Int(v int) *int {
	return &v
}
