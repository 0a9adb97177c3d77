package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/bytedance/sonic"
	"github.com/google/uuid"

	"github.com/ougirez/mothertongue/internal/domain"
	"github.com/ougirez/mothertongue/internal/pkg/logger"
	"github.com/ougirez/mothertongue/internal/pkg/store/xpgx"
)

type ListReportRunsOpts struct {
	Kind  *domain.ReportKind
	Limit uint64
}

var reportRunColumns = []string{"id", "kind", "num_languages", "row_count", "created_at"}

type reportRowRecord struct {
	Payload json.RawMessage `db:"payload"`
}

// Payloads encodes report rows for SaveReport.
func Payloads[T any](rows []T) ([][]byte, error) {
	out := make([][]byte, 0, len(rows))
	for i := range rows {
		b, err := sonic.Marshal(rows[i])
		if err != nil {
			return nil, fmt.Errorf("sonic.Marshal row %d: %w", i, err)
		}
		out = append(out, b)
	}
	return out, nil
}

// rowsPerInsert keeps one INSERT under the 65535 bind parameter limit of
// the postgres protocol (three parameters per row).
const rowsPerInsert = 10000

// SaveReport writes the run and its rows in one transaction.
func (s *store) SaveReport(
	ctx context.Context,
	kind domain.ReportKind,
	numLanguages int,
	payloads [][]byte,
) (*domain.ReportRun, error) {
	run := &domain.ReportRun{
		ID:           s.newID(),
		Kind:         kind,
		NumLanguages: numLanguages,
		RowCount:     len(payloads),
		CreatedAt:    time.Now().UTC(),
	}

	err := s.pool.InTx(ctx, func(q xpgx.Querier) error {
		query := builder().Insert(tableReportRuns).
			Columns(reportRunColumns...).
			Values(run.ID, run.Kind, run.NumLanguages, run.RowCount, run.CreatedAt)

		if _, err := q.Execx(ctx, query); err != nil {
			return fmt.Errorf("insert run: %w", err)
		}

		for start := 0; start < len(payloads); start += rowsPerInsert {
			end := min(start+rowsPerInsert, len(payloads))
			if err := insertRows(ctx, q, run.ID, start, payloads[start:end]); err != nil {
				return fmt.Errorf("insert rows %d-%d: %w", start, end-1, err)
			}
		}
		return nil
	})
	if err != nil {
		logger.Errorf(ctx, "SaveReport, run_id-%s: %s", run.ID, err.Error())
		return nil, err
	}

	return run, nil
}

func insertRows(ctx context.Context, q xpgx.Querier, runID uuid.UUID, offset int, payloads [][]byte) error {
	query := builder().Insert(tableReportRows).
		Columns("run_id", "position", "payload")

	for i, payload := range payloads {
		query = query.Values(runID, offset+i, string(payload))
	}

	_, err := q.Execx(ctx, query)
	return err
}

func listReportRunsQuery(opts ListReportRunsOpts) sq.SelectBuilder {
	query := builder().Select(reportRunColumns...).
		From(tableReportRuns).
		OrderBy("created_at desc")

	if opts.Kind != nil {
		query = query.Where(sq.Eq{"kind": *opts.Kind})
	}

	if opts.Limit > 0 {
		query = query.Limit(opts.Limit)
	}

	return query
}

func (s *store) ListReportRuns(ctx context.Context, opts ListReportRunsOpts) ([]domain.ReportRun, error) {
	runs, err := xpgx.Selectx[domain.ReportRun](ctx, s.pool, listReportRunsQuery(opts))
	if err != nil {
		logger.Error(ctx, err.Error())
		return nil, wrapErr(err)
	}
	return runs, nil
}

func (s *store) GetReport(ctx context.Context, id uuid.UUID) (*domain.ArchivedReport, error) {
	runQuery := builder().Select(reportRunColumns...).
		From(tableReportRuns).
		Where(sq.Eq{"id": id})

	run, err := xpgx.Getx[domain.ReportRun](ctx, s.pool, runQuery)
	if err != nil {
		return nil, wrapErr(err)
	}

	rowsQuery := builder().Select("payload").
		From(tableReportRows).
		Where(sq.Eq{"run_id": id}).
		OrderBy("position")

	records, err := xpgx.Selectx[reportRowRecord](ctx, s.pool, rowsQuery)
	if err != nil {
		return nil, wrapErr(err)
	}

	report := &domain.ArchivedReport{Run: run, Rows: make([]json.RawMessage, 0, len(records))}
	for _, r := range records {
		report.Rows = append(report.Rows, r.Payload)
	}
	return report, nil
}
