package evaluation

import (
	"fmt"
	"math"

	"github.com/trezcool/gradebook/core"
)

// Allocation tells how much of a (subject, type) quota is committed and whether a
// requested weight still fits.
type Allocation struct {
	TypeID    int     `json:"type_id"`
	Used      float64 `json:"used"`
	Requested float64 `json:"requested"`
	Max       float64 `json:"max"`
	Remaining float64 `json:"remaining"`
	Available bool    `json:"available"`
	Message   string  `json:"message"`
}

// UsedPercent sums the weights of the evaluations of type typeID.
// A type without evaluations uses 0.
func UsedPercent(evals []Evaluation, typeID int) float64 {
	var used float64
	for _, e := range evals {
		if e.TypeID == typeID {
			used += nonNegative(e.WeightPercent)
		}
	}
	return core.RoundTo(used, 2)
}

// MaxPercentFor returns the quota configured for (subjectID, typeID), or DefaultQuota.
func MaxPercentFor(configs []QuotaConfig, subjectID, typeID int) float64 {
	for _, c := range configs {
		if c.SubjectID == subjectID && c.TypeID == typeID {
			return maxPercent(c.MaxPercent)
		}
	}
	return DefaultQuota
}

// Remaining is the raw headroom of a quota; it is negative once the quota is overrun.
func Remaining(used, max float64) float64 {
	return core.RoundTo(maxPercent(max)-nonNegative(used), 2)
}

// RemainingFor is Remaining floored at zero, for display.
func RemainingFor(used, max float64) float64 {
	return math.Max(0, Remaining(used, max))
}

// Fits reports whether requested can be added to used without exceeding max.
func Fits(used, requested, max float64) bool {
	return core.RoundTo(nonNegative(used)+nonNegative(requested), 2) <= maxPercent(max)
}

// Allocate computes the allocation of requested for typeID over evals.
// A nil max means DefaultQuota.
func Allocate(evals []Evaluation, typeID int, requested float64, max *float64) Allocation {
	quota := DefaultQuota
	if max != nil {
		quota = maxPercent(*max)
	}
	used := UsedPercent(evals, typeID)
	requested = nonNegative(requested)

	a := Allocation{
		TypeID:    typeID,
		Used:      used,
		Requested: requested,
		Max:       quota,
		Remaining: Remaining(used, quota),
		Available: Fits(used, requested, quota),
	}
	if a.Available {
		a.Message = fmt.Sprintf("Porcentaje disponible: %s%%", core.FormatNumber(RemainingFor(used, quota)))
	} else {
		a.Message = fmt.Sprintf("El porcentaje excede el máximo disponible (%s%%)", core.FormatNumber(RemainingFor(used, quota)))
	}
	return a
}

// CheckSubjectQuota reports whether setting the quota of typeID to percent keeps the sum
// of all the subject's quotas within 100. It returns the percent still assignable
// to typeID.
func CheckSubjectQuota(configs []QuotaConfig, subjectID, typeID int, percent float64) (bool, float64) {
	var others float64
	for _, c := range configs {
		if c.SubjectID == subjectID && c.TypeID != typeID {
			others += maxPercent(c.MaxPercent)
		}
	}
	return Fits(others, percent, 100), RemainingFor(others, 100)
}

func nonNegative(x float64) float64 {
	if !core.Finite(x) || x < 0 {
		return 0
	}
	return x
}

// maxPercent normalizes a quota; 0 is a valid (closed) quota.
func maxPercent(x float64) float64 {
	if !core.Finite(x) || x < 0 {
		return DefaultQuota
	}
	return x
}
