package main

import (
	"net/http"

	"nereid/pkg/client"
	"nereid/pkg/compile"
	"nereid/pkg/registry"
	"nereid/pkg/util/context"

	"github.com/labstack/echo/v4"
)

func (h handlers) Graph(c echo.Context) error {
	ctx := context.FromContext(c.Request().Context())
	name := c.Param(client.FlowNameParam)

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

	return c.JSON(http.StatusOK, client.GraphResponse{
		Flow:  flow.Name(),
		Edges: flow.Edges(),
	})
}
