package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/ougirez/mothertongue/internal/domain"
	"github.com/ougirez/mothertongue/internal/pkg/store/xpgx"
)

type Pool = xpgx.Pool

// Store archives generated reports.
type Store interface {
	Migrate(ctx context.Context) error
	SaveReport(ctx context.Context, kind domain.ReportKind, numLanguages int, payloads [][]byte) (*domain.ReportRun, error)
	ListReportRuns(ctx context.Context, opts ListReportRunsOpts) ([]domain.ReportRun, error)
	GetReport(ctx context.Context, id uuid.UUID) (*domain.ArchivedReport, error)
}

type store struct {
	pool  Pool
	newID func() uuid.UUID
}

func NewStore(pool Pool) Store {
	return &store{pool: pool, newID: uuid.New}
}
