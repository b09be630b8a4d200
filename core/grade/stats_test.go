package grade

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummarize(t *testing.T) {
	tests := []struct {
		name   string
		scores []*float64
		want   Stats
	}{
		{name: "empty", scores: nil, want: Stats{}},
		{name: "all pending", scores: []*float64{nil, nil}, want: Stats{Total: 2, Pending: 2}},
		{name: "all graded", scores: []*float64{Score(51), Score(40)}, want: Stats{
			Total: 2, Graded: 2, Progress: 100, Average: 45.5, Highest: 51, Lowest: 40, Passed: 1, Failed: 1,
		}},
		{
			name:   "mixed",
			scores: []*float64{Score(80), nil, Score(45), Score(70.5), Score(math.NaN())},
			want: Stats{
				Total: 5, Graded: 3, Pending: 2, Progress: 60, Average: 65.17,
				Highest: 80, Lowest: 45, Passed: 2, Failed: 1,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Summarize(tt.scores, 51))
		})
	}
}

func TestProgress(t *testing.T) {
	assert.Equal(t, 0, Progress(0, 0))
	assert.Equal(t, 0, Progress(3, 0))
	assert.Equal(t, 33, Progress(1, 3))
	assert.Equal(t, 67, Progress(2, 3))
	assert.Equal(t, 50, Progress(1, 2))
	assert.Equal(t, 100, Progress(5, 4))
}

func TestFinalScore(t *testing.T) {
	tests := []struct {
		name                string
		score, penalty, max float64
		want                float64
	}{
		{name: "no penalty", score: 80, penalty: 0, max: 100, want: 80},
		{name: "penalty", score: 80, penalty: 10, max: 100, want: 70},
		{name: "floored at zero", score: 5, penalty: 10, max: 100, want: 0},
		{name: "capped at max", score: 25, penalty: 0, max: 20, want: 20},
		{name: "negative penalty ignored", score: 50, penalty: -5, max: 100, want: 50},
		{name: "NaN score", score: math.NaN(), penalty: 0, max: 100, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FinalScore(tt.score, tt.penalty, tt.max))
		})
	}
}

func TestWeightedAverage(t *testing.T) {
	tests := []struct {
		name  string
		items []Weighted
		want  Average
	}{
		{name: "nothing graded", items: nil, want: Average{}},
		{
			name:  "single",
			items: []Weighted{{Score: 80, MaxScore: 100, Weight: 30}},
			want:  Average{Average: 80, TotalWeight: 30, Passed: true},
		},
		{
			name: "weighted",
			items: []Weighted{
				{Score: 90, MaxScore: 100, Weight: 60},
				{Score: 10, MaxScore: 20, Weight: 40},
			},
			want: Average{Average: 74, TotalWeight: 100, Passed: true},
		},
		{
			name: "failing",
			items: []Weighted{
				{Score: 40, MaxScore: 100, Weight: 50},
				{Score: 60, MaxScore: 100, Weight: 50},
			},
			want: Average{Average: 50, TotalWeight: 100, Passed: false},
		},
		{
			name: "zero weights skipped",
			items: []Weighted{
				{Score: 100, MaxScore: 100, Weight: 0},
				{Score: 70, MaxScore: 0, Weight: 10},
			},
			want: Average{Average: 70, TotalWeight: 10, Passed: true},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WeightedAverage(tt.items))
		})
	}
}
