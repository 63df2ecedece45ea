package main

import (
	"net/http"

	"nereid/pkg/client"
	"nereid/pkg/compile"
	"nereid/pkg/registry"
	"nereid/pkg/util/context"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// Run executes a registered flow synchronously. A partial failure is a
// result, not an HTTP error: the response is 200 with the full
// ExecutionResult as long as the execution itself ran.
func (h handlers) Run(c echo.Context) error {
	ctx := context.FromContext(c.Request().Context())
	ctx = context.WithRunID(ctx, uuid.New().String())
	ctx = context.WithCorrelationID(ctx, uuid.New().String())
	name := c.Param(client.FlowNameParam)

	var req client.RunRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	spec, err := h.reg.Get(ctx, name)
	if err != nil {
		if registry.IsNotFound(err) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	flow, err := compile.Compile(spec)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.exec.Execute(ctx, flow, req.Params)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, result)
}
