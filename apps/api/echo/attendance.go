package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/gradebook/core/attendance"
)

type attendanceApi struct {
	svc      *attendance.Service
	validate *validator.Validate
}

func registerAttendanceAPI(g *echo.Group, jwt, writer echo.MiddlewareFunc, svc *attendance.Service, validate *validator.Validate) {
	api := attendanceApi{
		svc:      svc,
		validate: validate,
	}

	ag := g.Group("/subjects/:subject/attendance", jwt)
	ag.GET("", api.report)
	ag.PUT("", api.record, writer)
}

// Handlers

func (api *attendanceApi) record(ctx echo.Context) error {
	subjectID, err := pathID(ctx, "subject")
	if err != nil {
		return err
	}
	var data attendance.NewRoll
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewRoll")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	recs, err := api.svc.Record(ctx.Request().Context(), subjectID, data)
	if err != nil {
		return errors.Wrap(err, "recording attendance")
	}
	return ctx.JSON(http.StatusOK, recs)
}

func (api *attendanceApi) report(ctx echo.Context) error {
	subjectID, err := pathID(ctx, "subject")
	if err != nil {
		return err
	}
	filter := attendance.QueryFilter{SubjectID: subjectID}
	if filter.StudentID, err = queryInt(ctx, "student"); err != nil {
		return err
	}
	if filter.From, err = queryDate(ctx, "from"); err != nil {
		return err
	}
	if filter.To, err = queryDate(ctx, "to"); err != nil {
		return err
	}

	report, err := api.svc.Report(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "computing attendance report")
	}
	return ctx.JSON(http.StatusOK, report)
}
