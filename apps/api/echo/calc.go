package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/gradebook/core/attendance"
	"github.com/trezcool/gradebook/core/datewindow"
	"github.com/trezcool/gradebook/core/evaluation"
	"github.com/trezcool/gradebook/core/grade"
)

// calcApi exposes the grading helpers over already fetched data; nothing is stored.
type calcApi struct{}

func registerCalcAPI(g *echo.Group) {
	api := calcApi{}

	cg := g.Group("/calc")
	cg.POST("/allocation", api.allocation)
	cg.POST("/grade", api.grade)
	cg.POST("/attendance", api.attendance)
	cg.POST("/year-filter", api.yearFilter)
}

type (
	allocationRequest struct {
		Evaluations []evaluation.Evaluation `json:"evaluations"`
		TypeID      int                     `json:"type_id"`
		Requested   float64                 `json:"requested"`
		MaxPercent  *float64                `json:"max_percent"` // DefaultQuota when absent
	}

	gradeRequest struct {
		Score      *float64 `json:"score"`
		MinPassing float64  `json:"min_passing"`
	}

	gradeResponse struct {
		Color     grade.Color `json:"color"`
		Label     grade.Label `json:"label"`
		Formatted string      `json:"formatted"`
	}

	attendanceRequest struct {
		Records []attendance.Record `json:"records"`
	}

	attendanceResponse struct {
		Summary attendance.Summary      `json:"summary"`
		Days    []attendance.DaySummary `json:"days"`
	}

	yearFilterRequest struct {
		Dates []string `json:"dates"`
		Year  int      `json:"year"` // current year when 0
	}

	yearFilterResponse struct {
		Year   int    `json:"year"`
		InYear []bool `json:"in_year"`
	}
)

// Handlers

func (api calcApi) allocation(ctx echo.Context) error {
	var data allocationRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to allocationRequest")
	}
	return ctx.JSON(http.StatusOK, evaluation.Allocate(data.Evaluations, data.TypeID, data.Requested, data.MaxPercent))
}

func (api calcApi) grade(ctx echo.Context) error {
	var data gradeRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to gradeRequest")
	}
	return ctx.JSON(http.StatusOK, gradeResponse{
		Color:     grade.ColorFor(data.Score, data.MinPassing),
		Label:     grade.LabelFor(data.Score),
		Formatted: grade.FormatScore(data.Score),
	})
}

func (api calcApi) attendance(ctx echo.Context) error {
	var data attendanceRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to attendanceRequest")
	}
	return ctx.JSON(http.StatusOK, attendanceResponse{
		Summary: attendance.Summarize(data.Records),
		Days:    attendance.GroupByDate(data.Records),
	})
}

func (api calcApi) yearFilter(ctx echo.Context) error {
	var data yearFilterRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to yearFilterRequest")
	}
	if data.Year == 0 {
		data.Year = datewindow.CurrentYear()
	}
	res := yearFilterResponse{Year: data.Year, InYear: make([]bool, 0, len(data.Dates))}
	for _, d := range data.Dates {
		res.InYear = append(res.InYear, datewindow.IsInYear(d, data.Year))
	}
	return ctx.JSON(http.StatusOK, res)
}
