package echoapi_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/gradebook/core/grade"
)

func TestGradeAPI(t *testing.T) {
	app := setup(t)
	token := getToken(t, true)
	student := getToken(t, false)

	midterm := newExam(40)
	final := newExam(60)
	final.Title = "Examen final"
	final.AssignedOn, final.DueOn = "2024-06-01", "2024-06-05"
	final.LatePenalty = 10
	createEvaluation(t, app, token, midterm)
	createEvaluation(t, app, token, final)

	tests := []httpTest{
		{
			name:     "record midterm",
			method:   http.MethodPut,
			path:     "/v1/evaluations/1/grades",
			token:    token,
			body:     []byte(`{"grades": [{"student_id": 1, "score": 80}, {"student_id": 2, "score": 40}, {"student_id": 3, "observations": "ausente"}]}`),
			wantCode: http.StatusOK,
		},
		{
			name:     "record final late",
			method:   http.MethodPut,
			path:     "/v1/evaluations/2/grades",
			token:    token,
			body:     []byte(`{"grades": [{"student_id": 1, "score": 100, "late": true}]}`),
			wantCode: http.StatusOK,
		},
		{
			name:     "score above max",
			method:   http.MethodPut,
			path:     "/v1/evaluations/1/grades",
			token:    token,
			body:     []byte(`{"grades": [{"student_id": 4, "score": 50}, {"student_id": 5, "score": 101}]}`),
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"score": "score must be between 0 and 100"}`),
		},
		{
			name:     "negative score",
			method:   http.MethodPut,
			path:     "/v1/evaluations/1/grades",
			token:    token,
			body:     []byte(`{"grades": [{"student_id": 4, "score": -1}]}`),
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "missing student",
			method:   http.MethodPut,
			path:     "/v1/evaluations/1/grades",
			token:    token,
			body:     []byte(`{"grades": [{"score": 10}]}`),
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"student_id": "this field is required"}`),
		},
		{
			name:     "unknown evaluation",
			method:   http.MethodPut,
			path:     "/v1/evaluations/42/grades",
			token:    token,
			body:     []byte(`{"grades": [{"student_id": 1, "score": 10}]}`),
			wantCode: http.StatusNotFound,
		},
		{
			name:     "students cannot grade",
			method:   http.MethodPut,
			path:     "/v1/evaluations/1/grades",
			token:    student,
			body:     []byte(`{"grades": [{"student_id": 1, "score": 100}]}`),
			wantCode: http.StatusForbidden,
		},
	}
	runHTTPTests(t, app, tests)

	t.Run("by evaluation", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/evaluations/1/grades", student)
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var res grade.EvaluationGrades
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
		assert.Len(t, res.Grades, 3) // the rejected batch stored nothing
		assert.Equal(t, grade.Stats{
			Total: 3, Graded: 2, Pending: 1, Progress: 67, Average: 60, Highest: 80, Lowest: 40, Passed: 1, Failed: 1,
		}, res.Stats)
	})

	t.Run("late penalty", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/evaluations/2/grades", token)
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var res grade.EvaluationGrades
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
		require.Len(t, res.Grades, 1)
		assert.Equal(t, 10.0, res.Grades[0].PenaltyApplied)
		assert.Equal(t, 90.0, res.Stats.Average)
	})

	t.Run("subject report", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/subjects/1/report?year=2024", token)
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var report grade.SubjectReport
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
		require.Len(t, report.Evaluations, 2)
		require.Len(t, report.Students, 3)

		s1 := report.Students[0]
		assert.Equal(t, 1, s1.StudentID)
		assert.Equal(t, grade.Average{Average: 86, TotalWeight: 100, Passed: true}, s1.Average)
		require.Len(t, s1.Entries, 2)
		assert.Equal(t, grade.LabelVeryGood, s1.Entries[0].Label)
		assert.Equal(t, grade.ColorHigh, s1.Entries[1].Color)
		assert.True(t, s1.Entries[1].Late)

		s2 := report.Students[1]
		assert.Equal(t, grade.Average{Average: 40, TotalWeight: 40, Passed: false}, s2.Average)
		assert.Equal(t, grade.ColorFail, s2.Entries[0].Color)
		assert.Equal(t, grade.ColorUngraded, s2.Entries[1].Color)
		assert.Nil(t, s2.Entries[1].Score)

		s3 := report.Students[2]
		assert.Equal(t, grade.Average{}, s3.Average)
		assert.Equal(t, grade.LabelUngraded, s3.Entries[0].Label)
	})

	runHTTPTests(t, app, []httpTest{{
		name:     "other year",
		method:   http.MethodGet,
		path:     "/v1/subjects/1/report?year=2020",
		token:    token,
		wantCode: http.StatusOK,
		wantData: []byte(`{"subject_id": 1, "evaluations": [], "students": [], "min_passing": 51}`),
	}})
}
