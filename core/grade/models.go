package grade

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/gradebook/core"
	"github.com/trezcool/gradebook/core/evaluation"
)

type Grade struct {
	ID             int       `json:"id" db:"id"`
	StudentID      int       `json:"student_id" db:"student_id"`
	EvaluationID   int       `json:"evaluation_id" db:"evaluation_id"`
	Score          *float64  `json:"score" db:"score"` // nil until graded
	MaxScore       float64   `json:"max_score" db:"max_score"`
	Late           bool      `json:"late" db:"late"`
	PenaltyApplied float64   `json:"penalty_applied" db:"penalty_applied"`
	Observations   string    `json:"observations" db:"observations"`
	Feedback       string    `json:"feedback" db:"feedback"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"` // UTC
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"` // UTC
}

// Final is the score after the late penalty; nil while ungraded.
func (g Grade) Final() *float64 {
	if !graded(g.Score) {
		return nil
	}
	return Score(FinalScore(*g.Score, g.PenaltyApplied, g.MaxScore))
}

// NewGrade contains information needed to grade a student.
// A nil Score records observations without grading.
type NewGrade struct {
	StudentID    int      `json:"student_id" validate:"required,gt=0"`
	Score        *float64 `json:"score" validate:"omitempty,gte=0"`
	Late         bool     `json:"late"`
	Observations string   `json:"observations" validate:"max=1000"`
	Feedback     string   `json:"feedback" validate:"max=1000"`
}

func (ng *NewGrade) Validate(validate *validator.Validate) error {
	ng.Observations = core.CleanString(ng.Observations)
	ng.Feedback = core.CleanString(ng.Feedback)
	return validate.Struct(ng)
}

func (ng NewGrade) grade(eval evaluation.Evaluation) Grade {
	g := Grade{
		StudentID:    ng.StudentID,
		EvaluationID: eval.ID,
		Score:        ng.Score,
		MaxScore:     eval.MaxScore,
		Late:         ng.Late,
		Observations: ng.Observations,
		Feedback:     ng.Feedback,
	}
	if ng.Late && eval.LatePenalty > 0 {
		g.PenaltyApplied = eval.LatePenalty
	}
	return g
}

// EvaluationGrades lists the grades of one evaluation with their statistics.
type EvaluationGrades struct {
	Evaluation evaluation.Evaluation `json:"evaluation"`
	Grades     []Grade               `json:"grades"`
	Stats      Stats                 `json:"stats"`
}

// ReportEntry is the grade of one student in one evaluation of a report.
type ReportEntry struct {
	EvaluationID int      `json:"evaluation_id"`
	Score        *float64 `json:"score"`
	Percent      *float64 `json:"percent"`
	Passed       bool     `json:"passed"`
	Late         bool     `json:"late"`
	Color        Color    `json:"color"`
	Label        Label    `json:"label"`
}

type StudentReport struct {
	StudentID int           `json:"student_id"`
	Entries   []ReportEntry `json:"entries"`
	Average
}

type SubjectReport struct {
	SubjectID   int                     `json:"subject_id"`
	Evaluations []evaluation.Evaluation `json:"evaluations"`
	Students    []StudentReport         `json:"students"`
	MinPassing  float64                 `json:"min_passing"`
}
