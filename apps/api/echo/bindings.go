package echoapi

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/gradebook/core"
)

// pathID reads a positive integer path parameter; anything else is not found.
func pathID(ctx echo.Context, name string) (int, error) {
	id, err := strconv.Atoi(ctx.Param(name))
	if err != nil || id <= 0 {
		return 0, errHttpNotFound
	}
	return id, nil
}

func queryInt(ctx echo.Context, name string) (int, error) {
	val := ctx.QueryParam(name)
	if val == "" {
		return 0, nil
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return 0, core.NewValidationError(err, core.FieldError{Field: name, Error: "must be an integer"})
	}
	return i, nil
}

func queryFloat(ctx echo.Context, name string) (float64, error) {
	val := ctx.QueryParam(name)
	if val == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil || !core.Finite(f) {
		return 0, core.NewValidationError(err, core.FieldError{Field: name, Error: "must be a number"})
	}
	return f, nil
}

func queryBool(ctx echo.Context, name string) (bool, error) {
	val := ctx.QueryParam(name)
	if val == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return false, core.NewValidationError(err, core.FieldError{Field: name, Error: "must be a boolean"})
	}
	return b, nil
}

func queryDate(ctx echo.Context, name string) (string, error) {
	val := core.CleanString(ctx.QueryParam(name))
	if val == "" {
		return "", nil
	}
	if _, err := core.ParseDate(val); err != nil {
		return "", core.NewValidationError(err, core.FieldError{Field: name, Error: "invalid date, use YYYY-MM-DD"})
	}
	return val, nil
}
