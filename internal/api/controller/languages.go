package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ougirez/mothertongue/internal/domain/dto"
)

func (c *Controller) ListStates(ctx echo.Context) error {
	states, err := c.languages.ListStates(ctx.Request().Context())
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, map[string][]string{"states": states})
}

func (c *Controller) TopLanguagesForState(ctx echo.Context) error {
	var req dto.StateLanguagesRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}

	res, err := c.languages.TopLanguagesForState(ctx.Request().Context(), req.StateName, req.NumLanguages)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, res)
}

func (c *Controller) TopLanguagesForDistrict(ctx echo.Context) error {
	var req dto.DistrictLanguagesRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}

	res, err := c.languages.TopLanguagesForDistrict(ctx.Request().Context(), req.StateName, req.DistrictName, req.NumLanguages)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, res)
}

func (c *Controller) BilingualSummary(ctx echo.Context) error {
	var req dto.BilingualRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}

	res, err := c.languages.BilingualSummary(ctx.Request().Context(), req.StateName, req.NumLanguages)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, res)
}
