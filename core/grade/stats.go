package grade

import (
	"github.com/trezcool/gradebook/core"
)

// Stats summarizes the scores of one evaluation.
type Stats struct {
	Total    int     `json:"total"`
	Graded   int     `json:"graded"`
	Pending  int     `json:"pending"`
	Progress int     `json:"progress"` // percent of Total graded
	Average  float64 `json:"average"`
	Highest  float64 `json:"highest"`
	Lowest   float64 `json:"lowest"`
	Passed   int     `json:"passed"`
	Failed   int     `json:"failed"`
}

// Summarize counts graded and pending scores and averages the graded ones.
// Scores below minPassing fail.
func Summarize(scores []*float64, minPassing float64) Stats {
	if !core.Finite(minPassing) || minPassing <= 0 {
		minPassing = DefaultMinPassing
	}
	st := Stats{Total: len(scores)}
	var sum float64
	for _, s := range scores {
		if !graded(s) {
			st.Pending++
			continue
		}
		if st.Graded == 0 || *s > st.Highest {
			st.Highest = *s
		}
		if st.Graded == 0 || *s < st.Lowest {
			st.Lowest = *s
		}
		if *s >= minPassing {
			st.Passed++
		} else {
			st.Failed++
		}
		st.Graded++
		sum += *s
	}
	if st.Graded > 0 {
		st.Average = core.RoundTo(sum/float64(st.Graded), 2)
	}
	st.Progress = Progress(st.Graded, st.Total)
	return st
}

// Progress is the rounded percentage of graded out of total; 0 when total is 0.
func Progress(graded, total int) int {
	if total <= 0 || graded <= 0 {
		return 0
	}
	if graded > total {
		graded = total
	}
	return int(core.Round(float64(graded) / float64(total) * 100))
}

// FinalScore subtracts the late penalty from score, within [0, max].
func FinalScore(score, penalty, max float64) float64 {
	if !core.Finite(score) {
		return 0
	}
	if core.Finite(penalty) && penalty > 0 {
		score -= penalty
	}
	if score < 0 {
		return 0
	}
	if core.Finite(max) && max > 0 && score > max {
		return max
	}
	return score
}

// Weighted is one graded evaluation counted in a final average.
type Weighted struct {
	Score    float64 // out of MaxScore
	MaxScore float64
	Weight   float64 // percent of the final grade
}

type Average struct {
	Average     float64 `json:"average"`
	TotalWeight float64 `json:"total_weight"`
	Passed      bool    `json:"passed"`
}

// WeightedAverage averages the scores, as percents of their max, by their weights.
// The result is relative to the weight covered so far.
func WeightedAverage(items []Weighted) Average {
	var sum, total float64
	for _, it := range items {
		if !core.Finite(it.Weight) || it.Weight <= 0 || !core.Finite(it.Score) {
			continue
		}
		max := it.MaxScore
		if !core.Finite(max) || max <= 0 {
			max = 100
		}
		sum += it.Score / max * 100 * it.Weight / 100
		total += it.Weight
	}
	if total == 0 {
		return Average{}
	}
	avg := core.RoundTo(sum/total*100, 2)
	return Average{Average: avg, TotalWeight: core.RoundTo(total, 2), Passed: avg >= DefaultMinPassing}
}
