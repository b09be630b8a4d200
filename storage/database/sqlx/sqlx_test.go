package sqlxrepos

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/gradebook/core/evaluation"
	"github.com/trezcool/gradebook/core/grade"
)

func TestWhere(t *testing.T) {
	w := new(where)
	assert.Equal(t, "", w.String())

	w.add("subject_id = ?", 1)
	w.add("date >= ?::date", "2024-01-01")
	w.add("id <> ?", 5)
	assert.Equal(t, " WHERE subject_id = $1 AND date >= $2::date AND id <> $3", w.String())
	assert.Equal(t, []interface{}{1, "2024-01-01", 5}, w.args)
}

func TestEvaluationRow(t *testing.T) {
	now := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	e := evaluation.Evaluation{
		ID: 3, SubjectID: 1, TypeID: evaluation.TypeParticipation, Kind: evaluation.KindParticipation,
		RecordedOn: "2024-03-01", CreatedAt: now, UpdatedAt: now,
	}

	row := toEvaluationRow(e)
	assert.False(t, row.AssignedOn.Valid)
	assert.False(t, row.DueOn.Valid)
	assert.True(t, row.RecordedOn.Valid)
	assert.Equal(t, e, row.evaluation())
}

func TestGradeRow(t *testing.T) {
	ungraded := toGradeRow(grade.Grade{StudentID: 1, EvaluationID: 2})
	assert.False(t, ungraded.Score.Valid)
	assert.Nil(t, ungraded.grade().Score)

	graded := toGradeRow(grade.Grade{StudentID: 1, EvaluationID: 2, Score: grade.Score(72.5)})
	assert.True(t, graded.Score.Valid)
	assert.Equal(t, 72.5, *graded.grade().Score)
}
