package evaluation

import (
	"github.com/trezcool/gradebook/core"
	"github.com/trezcool/gradebook/core/datewindow"
)

// InYear scopes an evaluation to a calendar year: deliverables by their assigned or due
// date, participations by their recording date, falling back to the creation date.
// An evaluation without any date is kept.
func InYear(e Evaluation, year int) bool {
	var dates []string
	switch e.Kind {
	case KindParticipation:
		dates = nonEmpty(e.RecordedOn)
	default:
		dates = nonEmpty(e.AssignedOn, e.DueOn)
	}
	if len(dates) == 0 && !e.CreatedAt.IsZero() {
		dates = []string{e.CreatedAt.Format(core.DateLayout)}
	}
	if len(dates) == 0 {
		return true
	}
	for _, d := range dates {
		if datewindow.IsInYear(d, year) {
			return true
		}
	}
	return false
}

// FilterToYear keeps the evaluations InYear.
func FilterToYear(evals []Evaluation, year int) []Evaluation {
	res := make([]Evaluation, 0, len(evals))
	for _, e := range evals {
		if InYear(e, year) {
			res = append(res, e)
		}
	}
	return res
}

func nonEmpty(ss ...string) []string {
	res := make([]string, 0, len(ss))
	for _, s := range ss {
		if s != "" {
			res = append(res, s)
		}
	}
	return res
}
