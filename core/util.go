package core

import (
	"math"
	"strconv"
	"strings"
)

// CleanString trims all leading and trailing whitespace in `s` and optionally lowers it.
func CleanString(s string, lower ...bool) string {
	s = strings.TrimSpace(s)
	if len(lower) > 0 && lower[0] {
		return strings.ToLower(s)
	}
	return s
}

// Round rounds x to the nearest integer, halves going up (towards +Inf),
// the way the web clients round percentages.
func Round(x float64) float64 {
	return math.Floor(x + .5)
}

// RoundTo rounds x to `places` decimals with the same rule as Round.
func RoundTo(x float64, places int) float64 {
	p := math.Pow10(places)
	return Round(x*p) / p
}

// Finite reports whether x is neither NaN nor infinite.
func Finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// FormatNumber prints x with the shortest representation that round-trips, e.g. 70 or 32.5.
func FormatNumber(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}
