package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/gradebook/core/evaluation"
)

const evaluationColumns = `id, subject_id, type_id, trimester_id, title, description, kind, weight_percent,
	max_score, min_passing, assigned_on::text AS assigned_on, due_on::text AS due_on, limit_on::text AS limit_on,
	recorded_on::text AS recorded_on, late_penalty, published, active, created_at, updated_at`

type evaluationRow struct {
	ID            int         `db:"id"`
	SubjectID     int         `db:"subject_id"`
	TypeID        int         `db:"type_id"`
	TrimesterID   int         `db:"trimester_id"`
	Title         string      `db:"title"`
	Description   string      `db:"description"`
	Kind          string      `db:"kind"`
	WeightPercent float64     `db:"weight_percent"`
	MaxScore      float64     `db:"max_score"`
	MinPassing    float64     `db:"min_passing"`
	AssignedOn    null.String `db:"assigned_on"`
	DueOn         null.String `db:"due_on"`
	LimitOn       null.String `db:"limit_on"`
	RecordedOn    null.String `db:"recorded_on"`
	LatePenalty   float64     `db:"late_penalty"`
	Published     bool        `db:"published"`
	Active        bool        `db:"active"`
	CreatedAt     time.Time   `db:"created_at"`
	UpdatedAt     time.Time   `db:"updated_at"`
}

func toEvaluationRow(e evaluation.Evaluation) evaluationRow {
	return evaluationRow{
		ID:            e.ID,
		SubjectID:     e.SubjectID,
		TypeID:        e.TypeID,
		TrimesterID:   e.TrimesterID,
		Title:         e.Title,
		Description:   e.Description,
		Kind:          string(e.Kind),
		WeightPercent: e.WeightPercent,
		MaxScore:      e.MaxScore,
		MinPassing:    e.MinPassing,
		AssignedOn:    null.NewString(e.AssignedOn, e.AssignedOn != ""),
		DueOn:         null.NewString(e.DueOn, e.DueOn != ""),
		LimitOn:       null.NewString(e.LimitOn, e.LimitOn != ""),
		RecordedOn:    null.NewString(e.RecordedOn, e.RecordedOn != ""),
		LatePenalty:   e.LatePenalty,
		Published:     e.Published,
		Active:        e.Active,
		CreatedAt:     e.CreatedAt.UTC(),
		UpdatedAt:     e.UpdatedAt.UTC(),
	}
}

func (row evaluationRow) evaluation() evaluation.Evaluation {
	return evaluation.Evaluation{
		ID:            row.ID,
		SubjectID:     row.SubjectID,
		TypeID:        row.TypeID,
		TrimesterID:   row.TrimesterID,
		Title:         row.Title,
		Description:   row.Description,
		Kind:          evaluation.Kind(row.Kind),
		WeightPercent: row.WeightPercent,
		MaxScore:      row.MaxScore,
		MinPassing:    row.MinPassing,
		AssignedOn:    row.AssignedOn.String,
		DueOn:         row.DueOn.String,
		LimitOn:       row.LimitOn.String,
		RecordedOn:    row.RecordedOn.String,
		LatePenalty:   row.LatePenalty,
		Published:     row.Published,
		Active:        row.Active,
		CreatedAt:     row.CreatedAt.UTC(),
		UpdatedAt:     row.UpdatedAt.UTC(),
	}
}

type evaluationRepository struct {
	db *sqlx.DB
}

var _ evaluation.Repository = (*evaluationRepository)(nil) // interface compliance check

func NewEvaluationRepository(db *sqlx.DB) evaluation.Repository {
	return &evaluationRepository{db: db}
}

// trapNoRowsErr maps psql "no rows" err to notFound
func trapNoRowsErr(err error, notFound error, msg string) error {
	if errors.Cause(err) == sql.ErrNoRows {
		return notFound
	}
	return errors.Wrap(err, msg)
}

func (repo evaluationRepository) CreateEvaluation(ctx context.Context, e evaluation.Evaluation) (evaluation.Evaluation, error) {
	q := `INSERT INTO evaluation (subject_id, type_id, trimester_id, title, description, kind, weight_percent,
		max_score, min_passing, assigned_on, due_on, limit_on, recorded_on, late_penalty, published, active,
		created_at, updated_at)
	VALUES (:subject_id, :type_id, :trimester_id, :title, :description, :kind, :weight_percent,
		:max_score, :min_passing, :assigned_on, :due_on, :limit_on, :recorded_on, :late_penalty, :published, :active,
		:created_at, :updated_at)
	RETURNING id`

	stmt, err := repo.db.PrepareNamedContext(ctx, q)
	if err != nil {
		return evaluation.Evaluation{}, errors.Wrap(err, "preparing evaluation insert")
	}
	defer func() { _ = stmt.Close() }()

	if err = stmt.GetContext(ctx, &e.ID, toEvaluationRow(e)); err != nil {
		return evaluation.Evaluation{}, errors.Wrap(err, "inserting evaluation")
	}
	return e, nil
}

func (repo evaluationRepository) GetEvaluation(ctx context.Context, id int) (evaluation.Evaluation, error) {
	var row evaluationRow
	q := `SELECT ` + evaluationColumns + ` FROM evaluation WHERE id = $1`
	if err := repo.db.GetContext(ctx, &row, q, id); err != nil {
		return evaluation.Evaluation{}, trapNoRowsErr(err, evaluation.ErrNotFound, "getting evaluation")
	}
	return row.evaluation(), nil
}

func (repo evaluationRepository) FilterEvaluations(ctx context.Context, filter evaluation.QueryFilter) ([]evaluation.Evaluation, error) {
	w := new(where)
	if filter.SubjectID != 0 {
		w.add("subject_id = ?", filter.SubjectID)
	}
	if filter.TypeID != 0 {
		w.add("type_id = ?", filter.TypeID)
	}
	if filter.TrimesterID != 0 {
		w.add("trimester_id = ?", filter.TrimesterID)
	}
	if filter.ActiveOnly {
		w.add("active = ?", true)
	}
	if filter.ExcludeID != 0 {
		w.add("id <> ?", filter.ExcludeID)
	}

	var rows []evaluationRow
	q := `SELECT ` + evaluationColumns + ` FROM evaluation` + w.String() + ` ORDER BY id`
	if err := repo.db.SelectContext(ctx, &rows, q, w.args...); err != nil {
		return nil, errors.Wrap(err, "selecting evaluations")
	}

	evals := make([]evaluation.Evaluation, 0, len(rows))
	for _, row := range rows {
		evals = append(evals, row.evaluation())
	}
	// the year rule depends on the kind of each evaluation
	if filter.Year != 0 {
		evals = evaluation.FilterToYear(evals, filter.Year)
	}
	return evals, nil
}

func (repo evaluationRepository) UpdateEvaluation(ctx context.Context, e evaluation.Evaluation) (evaluation.Evaluation, error) {
	q := `UPDATE evaluation SET subject_id = :subject_id, type_id = :type_id, trimester_id = :trimester_id,
		title = :title, description = :description, kind = :kind, weight_percent = :weight_percent,
		max_score = :max_score, min_passing = :min_passing, assigned_on = :assigned_on, due_on = :due_on,
		limit_on = :limit_on, recorded_on = :recorded_on, late_penalty = :late_penalty, published = :published,
		active = :active, updated_at = :updated_at
	WHERE id = :id`

	res, err := repo.db.NamedExecContext(ctx, q, toEvaluationRow(e))
	if err != nil {
		return evaluation.Evaluation{}, errors.Wrap(err, "updating evaluation")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return evaluation.Evaluation{}, evaluation.ErrNotFound
	}
	return e, nil
}

func (repo evaluationRepository) DeleteEvaluation(ctx context.Context, id int) error {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM evaluation WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "deleting evaluation")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return evaluation.ErrNotFound
	}
	return nil
}

func (repo evaluationRepository) SetQuota(ctx context.Context, qc evaluation.QuotaConfig) (evaluation.QuotaConfig, error) {
	q := `INSERT INTO quota_config (subject_id, type_id, max_percent) VALUES ($1, $2, $3)
	ON CONFLICT (subject_id, type_id) DO UPDATE SET max_percent = EXCLUDED.max_percent
	RETURNING id`
	if err := repo.db.GetContext(ctx, &qc.ID, q, qc.SubjectID, qc.TypeID, qc.MaxPercent); err != nil {
		return evaluation.QuotaConfig{}, errors.Wrap(err, "upserting quota config")
	}
	return qc, nil
}

func (repo evaluationRepository) GetQuota(ctx context.Context, id int) (evaluation.QuotaConfig, error) {
	var qc evaluation.QuotaConfig
	q := `SELECT id, subject_id, type_id, max_percent FROM quota_config WHERE id = $1`
	if err := repo.db.GetContext(ctx, &qc, q, id); err != nil {
		return evaluation.QuotaConfig{}, trapNoRowsErr(err, evaluation.ErrQuotaNotFound, "getting quota config")
	}
	return qc, nil
}

func (repo evaluationRepository) QueryQuotas(ctx context.Context, subjectID int) ([]evaluation.QuotaConfig, error) {
	configs := make([]evaluation.QuotaConfig, 0)
	q := `SELECT id, subject_id, type_id, max_percent FROM quota_config WHERE subject_id = $1 ORDER BY type_id`
	if err := repo.db.SelectContext(ctx, &configs, q, subjectID); err != nil {
		return nil, errors.Wrap(err, "selecting quota configs")
	}
	return configs, nil
}

func (repo evaluationRepository) DeleteQuota(ctx context.Context, id int) error {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM quota_config WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "deleting quota config")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return evaluation.ErrQuotaNotFound
	}
	return nil
}
