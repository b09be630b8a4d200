package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/gradebook/core/grade"
)

type gradeApi struct {
	svc      *grade.Service
	validate *validator.Validate
}

func registerGradeAPI(g *echo.Group, jwt, writer echo.MiddlewareFunc, svc *grade.Service, validate *validator.Validate) {
	api := gradeApi{
		svc:      svc,
		validate: validate,
	}

	g.GET("/evaluations/:id/grades", api.query, jwt)
	g.PUT("/evaluations/:id/grades", api.record, jwt, writer)
	g.GET("/subjects/:subject/report", api.report, jwt)
}

type recordGradesRequest struct {
	Grades []grade.NewGrade `json:"grades"`
}

// Handlers

func (api *gradeApi) record(ctx echo.Context) error {
	id, err := pathID(ctx, "id")
	if err != nil {
		return err
	}
	var data recordGradesRequest
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to recordGradesRequest")
	}
	for i := range data.Grades {
		if err = data.Grades[i].Validate(api.validate); err != nil {
			return err
		}
	}

	grades, err := api.svc.Record(ctx.Request().Context(), id, data.Grades...)
	if err != nil {
		return errors.Wrap(err, "recording grades")
	}
	return ctx.JSON(http.StatusOK, grades)
}

func (api *gradeApi) query(ctx echo.Context) error {
	id, err := pathID(ctx, "id")
	if err != nil {
		return err
	}
	res, err := api.svc.ByEvaluation(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "querying grades")
	}
	return ctx.JSON(http.StatusOK, res)
}

func (api *gradeApi) report(ctx echo.Context) error {
	subjectID, err := pathID(ctx, "subject")
	if err != nil {
		return err
	}
	year, err := queryInt(ctx, "year")
	if err != nil {
		return err
	}
	report, err := api.svc.SubjectReport(ctx.Request().Context(), subjectID, year)
	if err != nil {
		return errors.Wrap(err, "computing subject report")
	}
	return ctx.JSON(http.StatusOK, report)
}
