package sqlxrepos

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/gradebook/core/grade"
)

type gradeRow struct {
	ID             int          `db:"id"`
	StudentID      int          `db:"student_id"`
	EvaluationID   int          `db:"evaluation_id"`
	Score          null.Float64 `db:"score"`
	MaxScore       float64      `db:"max_score"`
	Late           bool         `db:"late"`
	PenaltyApplied float64      `db:"penalty_applied"`
	Observations   string       `db:"observations"`
	Feedback       string       `db:"feedback"`
	CreatedAt      time.Time    `db:"created_at"`
	UpdatedAt      time.Time    `db:"updated_at"`
}

func toGradeRow(g grade.Grade) gradeRow {
	return gradeRow{
		ID:             g.ID,
		StudentID:      g.StudentID,
		EvaluationID:   g.EvaluationID,
		Score:          null.Float64FromPtr(g.Score),
		MaxScore:       g.MaxScore,
		Late:           g.Late,
		PenaltyApplied: g.PenaltyApplied,
		Observations:   g.Observations,
		Feedback:       g.Feedback,
		CreatedAt:      g.CreatedAt.UTC(),
		UpdatedAt:      g.UpdatedAt.UTC(),
	}
}

func (row gradeRow) grade() grade.Grade {
	return grade.Grade{
		ID:             row.ID,
		StudentID:      row.StudentID,
		EvaluationID:   row.EvaluationID,
		Score:          row.Score.Ptr(),
		MaxScore:       row.MaxScore,
		Late:           row.Late,
		PenaltyApplied: row.PenaltyApplied,
		Observations:   row.Observations,
		Feedback:       row.Feedback,
		CreatedAt:      row.CreatedAt.UTC(),
		UpdatedAt:      row.UpdatedAt.UTC(),
	}
}

type gradeRepository struct {
	db *sqlx.DB
}

var _ grade.Repository = (*gradeRepository)(nil) // interface compliance check

func NewGradeRepository(db *sqlx.DB) grade.Repository {
	return &gradeRepository{db: db}
}

func (repo gradeRepository) UpsertGrade(ctx context.Context, g grade.Grade) (grade.Grade, error) {
	q := `INSERT INTO grade (student_id, evaluation_id, score, max_score, late, penalty_applied, observations,
		feedback, created_at, updated_at)
	VALUES (:student_id, :evaluation_id, :score, :max_score, :late, :penalty_applied, :observations,
		:feedback, :created_at, :updated_at)
	ON CONFLICT (student_id, evaluation_id) DO UPDATE SET score = EXCLUDED.score, max_score = EXCLUDED.max_score,
		late = EXCLUDED.late, penalty_applied = EXCLUDED.penalty_applied, observations = EXCLUDED.observations,
		feedback = EXCLUDED.feedback, updated_at = EXCLUDED.updated_at
	RETURNING id, created_at`

	stmt, err := repo.db.PrepareNamedContext(ctx, q)
	if err != nil {
		return grade.Grade{}, errors.Wrap(err, "preparing grade upsert")
	}
	defer func() { _ = stmt.Close() }()

	var saved struct {
		ID        int       `db:"id"`
		CreatedAt time.Time `db:"created_at"`
	}
	if err = stmt.GetContext(ctx, &saved, toGradeRow(g)); err != nil {
		return grade.Grade{}, errors.Wrap(err, "upserting grade")
	}
	g.ID = saved.ID
	g.CreatedAt = saved.CreatedAt.UTC()
	return g, nil
}

func (repo gradeRepository) FilterGrades(ctx context.Context, evaluationIDs ...int) ([]grade.Grade, error) {
	grades := make([]grade.Grade, 0)
	if len(evaluationIDs) == 0 {
		return grades, nil
	}

	q, args, err := sqlx.In(`SELECT id, student_id, evaluation_id, score, max_score, late, penalty_applied,
		observations, feedback, created_at, updated_at
	FROM grade WHERE evaluation_id IN (?) ORDER BY evaluation_id, student_id`, evaluationIDs)
	if err != nil {
		return nil, errors.Wrap(err, "building grades query")
	}

	var rows []gradeRow
	if err = repo.db.SelectContext(ctx, &rows, repo.db.Rebind(q), args...); err != nil {
		return nil, errors.Wrap(err, "selecting grades")
	}
	for _, row := range rows {
		grades = append(grades, row.grade())
	}
	return grades, nil
}
