package inmemdb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/gradebook/core/attendance"
	"github.com/trezcool/gradebook/core/evaluation"
	"github.com/trezcool/gradebook/core/grade"
)

func openDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open()
	require.NoError(t, err)
	return db
}

func TestEvaluationRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewEvaluationRepository(openDB(t))

	e1, err := repo.CreateEvaluation(ctx, evaluation.Evaluation{SubjectID: 1, TypeID: evaluation.TypeExam, Active: true})
	require.NoError(t, err)
	e2, err := repo.CreateEvaluation(ctx, evaluation.Evaluation{SubjectID: 1, TypeID: evaluation.TypeAssignment})
	require.NoError(t, err)
	assert.Equal(t, 1, e1.ID)
	assert.Equal(t, 2, e2.ID)

	got, err := repo.GetEvaluation(ctx, e2.ID)
	require.NoError(t, err)
	assert.Equal(t, e2, got)

	_, err = repo.GetEvaluation(ctx, 99)
	assert.Equal(t, evaluation.ErrNotFound, err)

	active, err := repo.FilterEvaluations(ctx, evaluation.QueryFilter{SubjectID: 1, ActiveOnly: true})
	require.NoError(t, err)
	assert.Equal(t, []evaluation.Evaluation{e1}, active)

	e2.Title = "Trabajo final"
	_, err = repo.UpdateEvaluation(ctx, e2)
	require.NoError(t, err)
	got, _ = repo.GetEvaluation(ctx, e2.ID)
	assert.Equal(t, "Trabajo final", got.Title)

	_, err = repo.UpdateEvaluation(ctx, evaluation.Evaluation{ID: 42})
	assert.Equal(t, evaluation.ErrNotFound, err)

	require.NoError(t, repo.DeleteEvaluation(ctx, e1.ID))
	assert.Equal(t, evaluation.ErrNotFound, repo.DeleteEvaluation(ctx, e1.ID))
}

func TestEvaluationRepository_quotas(t *testing.T) {
	ctx := context.Background()
	repo := NewEvaluationRepository(openDB(t))

	qc, err := repo.SetQuota(ctx, evaluation.QuotaConfig{SubjectID: 1, TypeID: evaluation.TypeExam, MaxPercent: 60})
	require.NoError(t, err)
	replaced, err := repo.SetQuota(ctx, evaluation.QuotaConfig{SubjectID: 1, TypeID: evaluation.TypeExam, MaxPercent: 50})
	require.NoError(t, err)
	assert.Equal(t, qc.ID, replaced.ID)
	assert.Equal(t, 50.0, replaced.MaxPercent)

	_, err = repo.SetQuota(ctx, evaluation.QuotaConfig{SubjectID: 2, TypeID: evaluation.TypeExam, MaxPercent: 30})
	require.NoError(t, err)

	configs, err := repo.QueryQuotas(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []evaluation.QuotaConfig{replaced}, configs)

	require.NoError(t, repo.DeleteQuota(ctx, qc.ID))
	_, err = repo.GetQuota(ctx, qc.ID)
	assert.Equal(t, evaluation.ErrQuotaNotFound, err)
	assert.Equal(t, evaluation.ErrQuotaNotFound, repo.DeleteQuota(ctx, qc.ID))
}

func TestGradeRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewGradeRepository(openDB(t))

	g, err := repo.UpsertGrade(ctx, grade.Grade{StudentID: 2, EvaluationID: 1, Score: grade.Score(70)})
	require.NoError(t, err)
	again, err := repo.UpsertGrade(ctx, grade.Grade{StudentID: 2, EvaluationID: 1, Score: grade.Score(75)})
	require.NoError(t, err)
	assert.Equal(t, g.ID, again.ID)

	_, err = repo.UpsertGrade(ctx, grade.Grade{StudentID: 1, EvaluationID: 1})
	require.NoError(t, err)
	_, err = repo.UpsertGrade(ctx, grade.Grade{StudentID: 1, EvaluationID: 3})
	require.NoError(t, err)

	grades, err := repo.FilterGrades(ctx, 1)
	require.NoError(t, err)
	require.Len(t, grades, 2)
	assert.Equal(t, 1, grades[0].StudentID)
	assert.Equal(t, 75.0, *grades[1].Score)

	grades, err = repo.FilterGrades(ctx)
	require.NoError(t, err)
	assert.Empty(t, grades)
}

func TestAttendanceRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewAttendanceRepository(openDB(t))

	r, err := repo.UpsertRecord(ctx, attendance.Record{StudentID: 1, SubjectID: 1, Date: "2024-03-01", Present: false})
	require.NoError(t, err)
	again, err := repo.UpsertRecord(ctx, attendance.Record{StudentID: 1, SubjectID: 1, Date: "2024-03-01", Present: true})
	require.NoError(t, err)
	assert.Equal(t, r.ID, again.ID)

	_, err = repo.UpsertRecord(ctx, attendance.Record{StudentID: 1, SubjectID: 1, Date: "2023-03-01"})
	require.NoError(t, err)

	recs, err := repo.FilterRecords(ctx, attendance.QueryFilter{SubjectID: 1, From: "2024-01-01", To: "2024-12-31"})
	require.NoError(t, err)
	assert.Equal(t, []attendance.Record{again}, recs)
}
