package echoapi_test

import (
	"net/http"
	"testing"

	"github.com/trezcool/gradebook/core/attendance"
	"github.com/trezcool/gradebook/core/evaluation"
	"github.com/trezcool/gradebook/core/grade"
)

func TestCalcAPI(t *testing.T) {
	app := setup(t)
	roll := []attendance.Record{
		{StudentID: 1, Date: "2024-03-01", Present: true},
		{StudentID: 2, Date: "2024-03-01", Justified: true},
		{StudentID: 3, Date: "2024-03-01"},
	}

	tests := []httpTest{
		{
			name:   "allocation available",
			method: http.MethodPost,
			path:   "/v1/calc/allocation",
			body: []byte(`{"evaluations": [{"type_id": 1, "weight_percent": 30}, {"type_id": 3, "weight_percent": 50}],
				"type_id": 1, "requested": 20}`),
			wantCode: http.StatusOK,
			wantData: marshallObj(t, evaluation.Allocation{
				TypeID: 1, Used: 30, Requested: 20, Max: 100, Remaining: 70, Available: true,
				Message: "Porcentaje disponible: 70%",
			}),
		},
		{
			name:     "allocation exceeded with override",
			method:   http.MethodPost,
			path:     "/v1/calc/allocation",
			body:     []byte(`{"evaluations": [{"type_id": 1, "weight_percent": 50}], "type_id": 1, "requested": 15, "max_percent": 60}`),
			wantCode: http.StatusOK,
			wantData: marshallObj(t, evaluation.Allocation{
				TypeID: 1, Used: 50, Requested: 15, Max: 60, Remaining: 10, Available: false,
				Message: "El porcentaje excede el máximo disponible (10%)",
			}),
		},
		{
			name:     "grade",
			method:   http.MethodPost,
			path:     "/v1/calc/grade",
			body:     []byte(`{"score": 95}`),
			wantCode: http.StatusOK,
			wantData: []byte(`{"color": "green", "label": "Excelente", "formatted": "95.00"}`),
		},
		{
			name:     "ungraded",
			method:   http.MethodPost,
			path:     "/v1/calc/grade",
			body:     []byte(`{"score": null, "min_passing": 60}`),
			wantCode: http.StatusOK,
			wantData: marshallObj(t, map[string]string{
				"color": string(grade.ColorUngraded), "label": string(grade.LabelUngraded), "formatted": "N/A",
			}),
		},
		{
			name:     "attendance empty",
			method:   http.MethodPost,
			path:     "/v1/calc/attendance",
			body:     []byte(`{"records": []}`),
			wantCode: http.StatusOK,
			wantData: []byte(`{"summary": {"total": 0, "present": 0, "absent": 0, "justified": 0, "unjustified": 0, "present_rate": 0}, "days": []}`),
		},
		{
			name:     "attendance",
			method:   http.MethodPost,
			path:     "/v1/calc/attendance",
			body:     marshallObj(t, map[string]interface{}{"records": roll}),
			wantCode: http.StatusOK,
			wantData: marshallObj(t, map[string]interface{}{
				"summary": attendance.Summary{Total: 3, Present: 1, Absent: 2, Justified: 1, Unjustified: 1, PresentRate: 33},
				"days": []attendance.DaySummary{{
					Date:      "2024-03-01",
					Trimester: "Primer Trimestre 2024",
					Records:   roll,
					Summary:   attendance.Summary{Total: 3, Present: 1, Absent: 2, Justified: 1, Unjustified: 1, PresentRate: 33},
				}},
			}),
		},
		{
			name:     "year filter",
			method:   http.MethodPost,
			path:     "/v1/calc/year-filter",
			body:     []byte(`{"dates": ["2024-03-15", "", "not-a-date", "2023-12-31"], "year": 2024}`),
			wantCode: http.StatusOK,
			wantData: []byte(`{"year": 2024, "in_year": [true, false, false, false]}`),
		},
		{
			name:     "bad json",
			method:   http.MethodPost,
			path:     "/v1/calc/grade",
			body:     []byte(`{"score": "high"`),
			wantCode: http.StatusBadRequest,
		},
	}
	runHTTPTests(t, app, tests)
}
