package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/gradebook/core/evaluation"
)

type activeRequest struct {
	Active *bool `json:"active" validate:"required"`
}

type evaluationApi struct {
	svc      *evaluation.Service
	validate *validator.Validate
}

func registerEvaluationAPI(g *echo.Group, jwt, writer echo.MiddlewareFunc, svc *evaluation.Service, validate *validator.Validate) {
	api := evaluationApi{
		svc:      svc,
		validate: validate,
	}

	g.GET("/evaluation-types", api.queryTypes)

	// subject endpoints
	sg := g.Group("/subjects/:subject", jwt)
	sg.GET("/evaluations", api.query)
	sg.POST("/evaluations", api.create, writer)
	sg.GET("/allocation", api.allocation)
	sg.GET("/quotas", api.queryQuotas)
	sg.PUT("/quotas", api.setQuota, writer)

	// detail endpoints
	dg := g.Group("/evaluations/:id", jwt)
	dg.GET("", api.retrieve)
	dg.PUT("", api.update, writer)
	dg.PUT("/active", api.setActive, writer)
	dg.DELETE("", api.destroy, writer)

	g.DELETE("/quotas/:id", api.destroyQuota, jwt, writer)
}

// Handlers

func (api *evaluationApi) queryTypes(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, evaluation.Types)
}

func (api *evaluationApi) create(ctx echo.Context) error {
	subjectID, err := pathID(ctx, "subject")
	if err != nil {
		return err
	}
	var data evaluation.NewEvaluation
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewEvaluation")
	}
	data.SubjectID = subjectID
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	e, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating evaluation")
	}
	return ctx.JSON(http.StatusCreated, e)
}

func (api *evaluationApi) query(ctx echo.Context) error {
	subjectID, err := pathID(ctx, "subject")
	if err != nil {
		return err
	}
	filter := evaluation.QueryFilter{SubjectID: subjectID}
	if filter.TypeID, err = queryInt(ctx, "type"); err != nil {
		return err
	}
	if filter.TrimesterID, err = queryInt(ctx, "trimester"); err != nil {
		return err
	}
	if filter.Year, err = queryInt(ctx, "year"); err != nil {
		return err
	}
	if filter.ActiveOnly, err = queryBool(ctx, "active"); err != nil {
		return err
	}

	evals, err := api.svc.Filter(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "filtering evaluations")
	}
	return ctx.JSON(http.StatusOK, evals)
}

func (api *evaluationApi) allocation(ctx echo.Context) error {
	subjectID, err := pathID(ctx, "subject")
	if err != nil {
		return err
	}
	typeID, err := queryInt(ctx, "type")
	if err != nil {
		return err
	}
	trimesterID, err := queryInt(ctx, "trimester")
	if err != nil {
		return err
	}
	requested, err := queryFloat(ctx, "requested")
	if err != nil {
		return err
	}

	alloc, err := api.svc.Allocation(ctx.Request().Context(), subjectID, typeID, trimesterID, requested)
	if err != nil {
		return errors.Wrap(err, "computing allocation")
	}
	return ctx.JSON(http.StatusOK, alloc)
}

func (api *evaluationApi) retrieve(ctx echo.Context) error {
	id, err := pathID(ctx, "id")
	if err != nil {
		return err
	}
	e, err := api.svc.Get(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "getting evaluation")
	}
	return ctx.JSON(http.StatusOK, e)
}

func (api *evaluationApi) update(ctx echo.Context) error {
	id, err := pathID(ctx, "id")
	if err != nil {
		return err
	}
	old, err := api.svc.Get(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "getting evaluation")
	}
	var data evaluation.NewEvaluation
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewEvaluation")
	}
	data.SubjectID = old.SubjectID // evaluations never change subject
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	e, err := api.svc.Update(ctx.Request().Context(), id, data)
	if err != nil {
		return errors.Wrap(err, "updating evaluation")
	}
	return ctx.JSON(http.StatusOK, e)
}

func (api *evaluationApi) setActive(ctx echo.Context) error {
	id, err := pathID(ctx, "id")
	if err != nil {
		return err
	}
	var data activeRequest
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to activeRequest")
	}
	if err = api.validate.Struct(data); err != nil {
		return err
	}

	e, err := api.svc.SetActive(ctx.Request().Context(), id, *data.Active)
	if err != nil {
		return errors.Wrap(err, "setting evaluation active")
	}
	return ctx.JSON(http.StatusOK, e)
}

func (api *evaluationApi) destroy(ctx echo.Context) error {
	id, err := pathID(ctx, "id")
	if err != nil {
		return err
	}
	if err = api.svc.Delete(ctx.Request().Context(), id); err != nil {
		return errors.Wrap(err, "deleting evaluation")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *evaluationApi) queryQuotas(ctx echo.Context) error {
	subjectID, err := pathID(ctx, "subject")
	if err != nil {
		return err
	}
	summary, err := api.svc.Quotas(ctx.Request().Context(), subjectID)
	if err != nil {
		return errors.Wrap(err, "querying quotas")
	}
	return ctx.JSON(http.StatusOK, summary)
}

func (api *evaluationApi) setQuota(ctx echo.Context) error {
	subjectID, err := pathID(ctx, "subject")
	if err != nil {
		return err
	}
	var data evaluation.NewQuota
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewQuota")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	qc, err := api.svc.SetQuota(ctx.Request().Context(), subjectID, data)
	if err != nil {
		return errors.Wrap(err, "setting quota")
	}
	return ctx.JSON(http.StatusOK, qc)
}

func (api *evaluationApi) destroyQuota(ctx echo.Context) error {
	id, err := pathID(ctx, "id")
	if err != nil {
		return err
	}
	if err = api.svc.DeleteQuota(ctx.Request().Context(), id); err != nil {
		return errors.Wrap(err, "deleting quota")
	}
	return ctx.NoContent(http.StatusNoContent)
}
