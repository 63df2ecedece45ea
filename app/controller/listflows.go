package main

import (
	"net/http"

	"nereid/pkg/client"
	"nereid/pkg/util/context"

	"github.com/labstack/echo/v4"
)

func (h handlers) ListFlows(c echo.Context) error {
	ctx := context.FromContext(c.Request().Context())
	flows, err := h.reg.List(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, client.ListFlowsResponse{
		Flows: flows,
	})
}
