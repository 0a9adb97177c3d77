package controller

import (
	"context"

	"github.com/google/uuid"

	"github.com/ougirez/mothertongue/internal/domain"
	"github.com/ougirez/mothertongue/internal/pkg/store"
)

type LanguageService interface {
	ListStates(ctx context.Context) ([]string, error)
	TopLanguagesForState(ctx context.Context, state string, n int) (*domain.StateLanguages, error)
	TopLanguagesForDistrict(ctx context.Context, state, district string, n int) (*domain.DistrictLanguages, error)
	BilingualSummary(ctx context.Context, state string, n int) (*domain.BilingualSummary, error)
	AllStatesReport(ctx context.Context, n int) ([]domain.StateReportRow, error)
	AllStatesPivot(ctx context.Context, n int) ([]domain.PivotRow, error)
	AllTownsReport(ctx context.Context, n int, withPincodes bool) ([]domain.TownReportRow, error)
	PopulationTotals(ctx context.Context) ([]domain.PopulationTotals, error)
}

type BackfillService interface {
	Backfill(ctx context.Context, dataset, indexURL string) (*domain.BackfillResult, error)
}

type ReportArchive interface {
	ListReportRuns(ctx context.Context, opts store.ListReportRunsOpts) ([]domain.ReportRun, error)
	GetReport(ctx context.Context, id uuid.UUID) (*domain.ArchivedReport, error)
}

type Controller struct {
	languages LanguageService
	backfill  BackfillService
	archive   ReportArchive
}

func NewController(languages LanguageService, backfill BackfillService, archive ReportArchive) *Controller {
	return &Controller{languages: languages, backfill: backfill, archive: archive}
}
