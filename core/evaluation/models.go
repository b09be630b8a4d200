package evaluation

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/gradebook/core"
)

// Kind tells deliverables (exams, homework) from in-class participation records.
type Kind string

const (
	KindDeliverable   Kind = "deliverable"
	KindParticipation Kind = "participation"
)

func (k Kind) IsValid() bool {
	return k == KindDeliverable || k == KindParticipation
}

const (
	// DefaultQuota is the ceiling of the summed weights of one (subject, type) pair
	// when the subject has no QuotaConfig for the type.
	DefaultQuota      = 100.0
	DefaultMaxScore   = 100.0
	DefaultMinPassing = 51.0 // percent of MaxScore
)

// Evaluation types
const (
	TypeExam          = 1
	TypeParticipation = 2
	TypeAssignment    = 3
)

// Type is an evaluation category with the weight range a subject may give it.
type Type struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	MinPercent  float64 `json:"min_percent"`
	MaxPercent  float64 `json:"max_percent"`
	Kind        Kind    `json:"kind"`
}

var Types = []Type{
	{ID: TypeExam, Name: "EXAMEN", Description: "Written and oral exams", MinPercent: 20, MaxPercent: 60, Kind: KindDeliverable},
	{ID: TypeParticipation, Name: "PARTICIPACION", Description: "Active participation in class", MinPercent: 5, MaxPercent: 20, Kind: KindParticipation},
	{ID: TypeAssignment, Name: "TRABAJO", Description: "Practical work and homework", MinPercent: 10, MaxPercent: 40, Kind: KindDeliverable},
}

func TypeByID(id int) (Type, bool) {
	for _, typ := range Types {
		if typ.ID == id {
			return typ, true
		}
	}
	return Type{}, false
}

type Evaluation struct {
	ID            int       `json:"id" db:"id"`
	SubjectID     int       `json:"subject_id" db:"subject_id"`
	TypeID        int       `json:"type_id" db:"type_id"`
	TrimesterID   int       `json:"trimester_id" db:"trimester_id"`
	Title         string    `json:"title" db:"title"`
	Description   string    `json:"description" db:"description"`
	Kind          Kind      `json:"kind" db:"kind"`
	WeightPercent float64   `json:"weight_percent" db:"weight_percent"`
	MaxScore      float64   `json:"max_score" db:"max_score"`
	MinPassing    float64   `json:"min_passing" db:"min_passing"`
	AssignedOn    string    `json:"assigned_on,omitempty" db:"assigned_on"`
	DueOn         string    `json:"due_on,omitempty" db:"due_on"`
	LimitOn       string    `json:"limit_on,omitempty" db:"limit_on"`
	RecordedOn    string    `json:"recorded_on,omitempty" db:"recorded_on"`
	LatePenalty   float64   `json:"late_penalty" db:"late_penalty"`
	Published     bool      `json:"published" db:"published"`
	Active        bool      `json:"active" db:"active"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"` // UTC
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"` // UTC
}

// QuotaConfig overrides DefaultQuota for one (subject, type) pair.
type QuotaConfig struct {
	ID         int     `json:"id" db:"id"`
	SubjectID  int     `json:"subject_id" db:"subject_id"`
	TypeID     int     `json:"type_id" db:"type_id"`
	MaxPercent float64 `json:"max_percent" db:"max_percent"`
}

// NewEvaluation contains information needed to create or replace an Evaluation.
type NewEvaluation struct {
	SubjectID     int     `json:"subject_id" validate:"required,gt=0"`
	TypeID        int     `json:"type_id" validate:"required,evaltype"`
	TrimesterID   int     `json:"trimester_id" validate:"required,gt=0"`
	Title         string  `json:"title" validate:"notblank,max=200"`
	Description   string  `json:"description"`
	Kind          Kind    `json:"kind" validate:"omitempty,evalkind"`
	WeightPercent float64 `json:"weight_percent" validate:"gt=0,lte=100"`
	MaxScore      float64 `json:"max_score" validate:"gte=0"`
	MinPassing    float64 `json:"min_passing" validate:"gte=0"`
	AssignedOn    string  `json:"assigned_on" validate:"omitempty,isodate"`
	DueOn         string  `json:"due_on" validate:"omitempty,isodate"`
	LimitOn       string  `json:"limit_on" validate:"omitempty,isodate"`
	RecordedOn    string  `json:"recorded_on" validate:"omitempty,isodate"`
	LatePenalty   float64 `json:"late_penalty" validate:"gte=0"`
	Published     bool    `json:"published"`
}

// Validate cleans the input, fills the defaults then validates it.
func (ne *NewEvaluation) Validate(validate *validator.Validate) error {
	ne.Title = core.CleanString(ne.Title)
	ne.Description = core.CleanString(ne.Description)
	ne.AssignedOn = core.CleanString(ne.AssignedOn)
	ne.DueOn = core.CleanString(ne.DueOn)
	ne.LimitOn = core.CleanString(ne.LimitOn)
	ne.RecordedOn = core.CleanString(ne.RecordedOn)

	if ne.Kind == "" {
		if typ, ok := TypeByID(ne.TypeID); ok {
			ne.Kind = typ.Kind
		}
	}
	if ne.MaxScore == 0 {
		ne.MaxScore = DefaultMaxScore
	}
	if ne.MinPassing == 0 {
		ne.MinPassing = core.RoundTo(ne.MaxScore*DefaultMinPassing/100, 2)
	}
	return validate.Struct(ne)
}

func (ne NewEvaluation) evaluation() Evaluation {
	e := Evaluation{
		SubjectID:     ne.SubjectID,
		TypeID:        ne.TypeID,
		TrimesterID:   ne.TrimesterID,
		Title:         ne.Title,
		Description:   ne.Description,
		Kind:          ne.Kind,
		WeightPercent: ne.WeightPercent,
		MaxScore:      ne.MaxScore,
		MinPassing:    ne.MinPassing,
		LatePenalty:   ne.LatePenalty,
		Published:     ne.Published,
		Active:        true,
	}
	// only the dates meaningful to the kind are kept
	if ne.Kind == KindParticipation {
		e.RecordedOn = ne.RecordedOn
	} else {
		e.AssignedOn = ne.AssignedOn
		e.DueOn = ne.DueOn
		e.LimitOn = ne.LimitOn
	}
	return e
}

// NewQuota contains information needed to set a QuotaConfig.
type NewQuota struct {
	TypeID     int     `json:"type_id" validate:"required,evaltype"`
	MaxPercent float64 `json:"max_percent" validate:"gte=0,lte=100"`
}

func (nq *NewQuota) Validate(validate *validator.Validate) error { return validate.Struct(nq) }

type QueryFilter struct {
	SubjectID   int  `query:"-"`
	TypeID      int  `query:"type"`
	TrimesterID int  `query:"trimester"`
	Year        int  `query:"year"`
	ActiveOnly  bool `query:"active"`
	ExcludeID   int  `query:"-"`
}

// Match applies the filter in memory; Year is applied with InYear.
func (qf QueryFilter) Match(e Evaluation) bool {
	switch {
	case qf.SubjectID != 0 && e.SubjectID != qf.SubjectID,
		qf.TypeID != 0 && e.TypeID != qf.TypeID,
		qf.TrimesterID != 0 && e.TrimesterID != qf.TrimesterID,
		qf.ActiveOnly && !e.Active,
		qf.ExcludeID != 0 && e.ID == qf.ExcludeID:
		return false
	case qf.Year != 0:
		return InYear(e, qf.Year)
	}
	return true
}
