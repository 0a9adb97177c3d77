package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ougirez/mothertongue/internal/domain/dto"
)

func (c *Controller) BackfillSources(ctx echo.Context) error {
	var req dto.BackfillRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}

	res, err := c.backfill.Backfill(ctx.Request().Context(), req.Dataset, req.IndexURL)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, res)
}
