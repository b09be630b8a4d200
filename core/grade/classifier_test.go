package grade

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestColorFor(t *testing.T) {
	tests := []struct {
		name       string
		score      *float64
		minPassing float64
		want       Color
	}{
		{name: "ungraded", score: nil, minPassing: 51, want: ColorUngraded},
		{name: "NaN is ungraded", score: Score(math.NaN()), minPassing: 51, want: ColorUngraded},
		{name: "failing", score: Score(50.99), minPassing: 51, want: ColorFail},
		{name: "zero", score: Score(0), minPassing: 51, want: ColorFail},
		{name: "just passing", score: Score(51), minPassing: 51, want: ColorLow},
		{name: "low band upper edge (28.57%)", score: Score(65), minPassing: 51, want: ColorLow},
		{name: "mid band lower edge (30%)", score: Score(65.7), minPassing: 51, want: ColorMid},
		{name: "mid band upper edge (69.8%)", score: Score(85.2), minPassing: 51, want: ColorMid},
		{name: "high band lower edge (70%)", score: Score(85.3), minPassing: 51, want: ColorHigh},
		{name: "perfect", score: Score(100), minPassing: 51, want: ColorHigh},
		{name: "above 100 is clamped", score: Score(130), minPassing: 51, want: ColorHigh},
		{name: "custom threshold (12.5%)", score: Score(65), minPassing: 60, want: ColorLow},
		{name: "custom threshold fail", score: Score(55), minPassing: 60, want: ColorFail},
		{name: "non positive threshold defaults", score: Score(50), minPassing: 0, want: ColorFail},
		{name: "threshold of 100", score: Score(100), minPassing: 100, want: ColorHigh},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ColorFor(tt.score, tt.minPassing))
		})
	}
}

func TestLabelFor(t *testing.T) {
	tests := []struct {
		score *float64
		want  Label
	}{
		{score: nil, want: LabelUngraded},
		{score: Score(45), want: LabelFail},
		{score: Score(50.9), want: LabelFail},
		{score: Score(51), want: LabelRegular},
		{score: Score(69.99), want: LabelRegular},
		{score: Score(70), want: LabelGood},
		{score: Score(80), want: LabelVeryGood},
		{score: Score(89.5), want: LabelVeryGood},
		{score: Score(90), want: LabelExcellent},
		{score: Score(95), want: LabelExcellent},
	}
	for _, tt := range tests {
		t.Run(FormatScore(tt.score), func(t *testing.T) {
			assert.Equal(t, tt.want, LabelFor(tt.score))
		})
	}
	assert.Equal(t, Label("Reprobado"), LabelFor(Score(45)))
	assert.Equal(t, Label("Excelente"), LabelFor(Score(95)))
	assert.Equal(t, Label("Sin calificar"), LabelFor(nil))
}

func TestFormatScore(t *testing.T) {
	assert.Equal(t, "N/A", FormatScore(nil))
	assert.Equal(t, "85.50", FormatScore(Score(85.5)))
	assert.Equal(t, "0.00", FormatScore(Score(0)))
	assert.Equal(t, "66.67", FormatScore(Score(200.0/3)))
}

func TestDefaultClassifier(t *testing.T) {
	var c Classifier = DefaultClassifier{}
	r := rand.New(rand.NewSource(3))
	for i := 0; i < 200; i++ {
		s := Score(float64(r.Intn(10001)) / 100)
		min := float64(1 + r.Intn(99))
		assert.Equal(t, ColorFor(s, min), c.Color(s, min))
		assert.Equal(t, c.Color(s, min), c.Color(s, min))
		assert.Equal(t, LabelFor(s), c.Label(s))
	}
}
