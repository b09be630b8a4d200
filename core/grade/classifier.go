// Package grade classifies scores and aggregates them into statistics and subject reports.
package grade

import (
	"math"
	"strconv"

	"github.com/trezcool/gradebook/core"
)

// DefaultMinPassing is the score a student needs to pass, out of 100.
const DefaultMinPassing = 51.0

type Color string

const (
	ColorUngraded Color = "gray"
	ColorFail     Color = "red"
	ColorLow      Color = "orange"
	ColorMid      Color = "#9ACD32"
	ColorHigh     Color = "green"
)

type Label string

const (
	LabelUngraded  Label = "Sin calificar"
	LabelFail      Label = "Reprobado"
	LabelRegular   Label = "Regular"
	LabelGood      Label = "Bueno"
	LabelVeryGood  Label = "Muy Bueno"
	LabelExcellent Label = "Excelente"
)

// Classifier maps scores to a display color and a qualitative label.
type Classifier interface {
	Color(score *float64, minPassing float64) Color
	Label(score *float64) Label
}

// DefaultClassifier uses the fixed school scale.
type DefaultClassifier struct{}

var _ Classifier = DefaultClassifier{}

func (DefaultClassifier) Color(score *float64, minPassing float64) Color {
	return ColorFor(score, minPassing)
}

func (DefaultClassifier) Label(score *float64) Label {
	return LabelFor(score)
}

// Score is a convenience to take the address of a literal score.
func Score(x float64) *float64 { return &x }

func graded(score *float64) bool {
	return score != nil && !math.IsNaN(*score)
}

// ColorFor colors a score: failing scores are red and passing ones are split in three
// equal bands over [minPassing, 100]. A non-positive minPassing means DefaultMinPassing.
func ColorFor(score *float64, minPassing float64) Color {
	if !graded(score) {
		return ColorUngraded
	}
	if !core.Finite(minPassing) || minPassing <= 0 {
		minPassing = DefaultMinPassing
	}
	s := *score
	if s < minPassing {
		return ColorFail
	}
	if minPassing >= 100 {
		return ColorHigh
	}

	pct := (s - minPassing) / (100 - minPassing) * 100
	pct = math.Max(0, math.Min(100, pct))
	switch {
	case pct < 30:
		return ColorLow
	case pct < 70:
		return ColorMid
	default:
		return ColorHigh
	}
}

// LabelFor names the band of a score out of 100.
func LabelFor(score *float64) Label {
	if !graded(score) {
		return LabelUngraded
	}
	switch s := *score; {
	case s < 51:
		return LabelFail
	case s < 70:
		return LabelRegular
	case s < 80:
		return LabelGood
	case s < 90:
		return LabelVeryGood
	default:
		return LabelExcellent
	}
}

// FormatScore prints a score with two decimals, or "N/A" when ungraded.
func FormatScore(score *float64) string {
	if !graded(score) {
		return "N/A"
	}
	return strconv.FormatFloat(*score, 'f', 2, 64)
}
