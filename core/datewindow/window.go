// Package datewindow scopes dated records (trimesters, evaluations, attendance) to a calendar year.
package datewindow

import (
	"strconv"
	"strings"
	"time"
)

var (
	NowFunc = time.Now // mockable

	layouts = []string{
		"2006-01-02",
		time.RFC3339Nano,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
	}
)

// Parse reads a date in any of the formats the legacy API emits.
// The calendar fields are kept as written: no timezone conversion is applied.
func Parse(date string) (time.Time, bool) {
	date = strings.TrimSpace(date)
	if date == "" {
		return time.Time{}, false
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, date); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// IsInYear reports whether date falls in the calendar year `year`.
// Empty or unparseable dates are never in any year.
func IsInYear(date string, year int) bool {
	t, ok := Parse(date)
	return ok && t.Year() == year
}

// FilterToYear keeps the items having at least one date, as returned by `dates`, in `year`.
func FilterToYear[T any](items []T, year int, dates ...func(T) string) []T {
	kept := make([]T, 0, len(items))
	for _, item := range items {
		for _, date := range dates {
			if IsInYear(date(item), year) {
				kept = append(kept, item)
				break
			}
		}
	}
	return kept
}

// CurrentYear is the calendar year of NowFunc.
func CurrentYear() int {
	return NowFunc().Year()
}

// YearBounds returns the first and last day of `year` formatted as YYYY-MM-DD.
func YearBounds(year int) (from, to string) {
	y := strconv.Itoa(year)
	return y + "-01-01", y + "-12-31"
}

// InRange reports whether date lies within [from, to]; an empty bound is open.
func InRange(date, from, to string) bool {
	t, ok := Parse(date)
	if !ok {
		return false
	}
	day := t.Format("2006-01-02")
	if f, ok := Parse(from); ok && day < f.Format("2006-01-02") {
		return false
	}
	if u, ok := Parse(to); ok && day > u.Format("2006-01-02") {
		return false
	}
	return true
}
