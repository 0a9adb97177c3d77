package controller

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/ougirez/mothertongue/internal/domain"
	"github.com/ougirez/mothertongue/internal/domain/dto"
	"github.com/ougirez/mothertongue/internal/pkg/constants"
	"github.com/ougirez/mothertongue/internal/pkg/store"
)

func (c *Controller) StatesReport(ctx echo.Context) error {
	var q dto.StatesReportQuery
	if err := ctx.Bind(&q); err != nil {
		return err
	}

	if q.Format == dto.FormatWide {
		rows, err := c.languages.AllStatesPivot(ctx.Request().Context(), q.NumLanguages)
		if err != nil {
			return err
		}
		return ctx.JSON(http.StatusOK, rows)
	}

	rows, err := c.languages.AllStatesReport(ctx.Request().Context(), q.NumLanguages)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, rows)
}

func (c *Controller) TownsReport(ctx echo.Context) error {
	var q dto.TownsReportQuery
	if err := ctx.Bind(&q); err != nil {
		return err
	}

	rows, err := c.languages.AllTownsReport(ctx.Request().Context(), q.NumLanguages, q.Pincodes)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, rows)
}

func (c *Controller) PopulationReport(ctx echo.Context) error {
	rows, err := c.languages.PopulationTotals(ctx.Request().Context())
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, rows)
}

func (c *Controller) ListReportRuns(ctx echo.Context) error {
	var q dto.ReportRunsQuery
	if err := ctx.Bind(&q); err != nil {
		return err
	}

	opts := store.ListReportRunsOpts{Limit: q.Limit}
	if q.Kind != "" {
		kind := domain.ReportKind(q.Kind)
		opts.Kind = &kind
	}

	runs, err := c.archive.ListReportRuns(ctx.Request().Context(), opts)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, runs)
}

func (c *Controller) GetReport(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return fmt.Errorf("%w: report id: %v", constants.ErrBadRequest, err)
	}

	report, err := c.archive.GetReport(ctx.Request().Context(), id)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, report)
}
