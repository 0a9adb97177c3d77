package language

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/ougirez/mothertongue/internal/domain"
	"github.com/ougirez/mothertongue/internal/pkg/census"
	"github.com/ougirez/mothertongue/internal/pkg/constants"
	"github.com/ougirez/mothertongue/internal/pkg/logger"
)

var hundred = decimal.NewFromInt(100)

// stateFunc computes the report rows of one state. contributed reports
// whether the state had any rows in scope, independently of how many rows
// survived the top-N cut.
type stateFunc[T any] func(ctx context.Context, state string) (rows []T, contributed bool, err error)

// perState runs fn for every state of src with at most workers in flight.
// Output keeps the order of ListStates. A failing state is logged and
// skipped; the batch fails only when no state contributed.
func perState[T any](ctx context.Context, src RowSource, workers int, fn stateFunc[T]) ([]T, error) {
	states, err := src.ListStates(ctx)
	if err != nil {
		return nil, fmt.Errorf("ListStates: %w", err)
	}

	started := time.Now()
	results := make([][]T, len(states))
	contributed := make([]bool, len(states))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)
	for i, state := range states {
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}

			stateCtx := logger.With(egCtx, "state", state)
			rows, ok, err := fn(stateCtx, state)
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return err
				}
				logger.Warnf(stateCtx, "skipping state: %v", err)
				return nil
			}

			results[i] = rows
			contributed[i] = ok
			return nil
		})
	}

	if err = eg.Wait(); err != nil {
		return nil, fmt.Errorf("err in goroutine: %w", err)
	}

	var (
		out  []T
		used int
	)
	for i := range states {
		if !contributed[i] {
			continue
		}
		used++
		out = append(out, results[i]...)
	}

	if used == 0 {
		return nil, fmt.Errorf("%w: none of %d states contributed rows", constants.ErrNoDataProduced, len(states))
	}

	logger.Infof(ctx, "report built from %d/%d states in %s", used, len(states), time.Since(started))
	if out == nil {
		out = []T{}
	}
	return out, nil
}

func (s *Service) percentBase(m map[census.LanguageKey]int64, top []census.Entry) int64 {
	if s.opts.PercentBase == PercentOfTopN {
		var sum int64
		for _, e := range top {
			sum += e.Value
		}
		return sum
	}
	return census.Total(m)
}

func percentOf(v, base int64) decimal.Decimal {
	if base == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(v).Mul(hundred).DivRound(decimal.NewFromInt(base), 2)
}

// stateTop ranks the whole-state languages of one state.
func (s *Service) stateTop(ctx context.Context, state string, n int) ([]census.Entry, int64, bool, error) {
	rows, err := loadRows(ctx, s.src.States, state)
	if err != nil {
		return nil, 0, false, err
	}

	m, err := census.Tally(rows, s.wholeStateQuery())
	if err != nil {
		return nil, 0, false, fmt.Errorf("census.Tally: %w", err)
	}

	top := census.Rank(m, n)
	return top, s.percentBase(m, top), len(m) > 0, nil
}

// AllStatesReport is the flat form: one row per ranked language per state.
func (s *Service) AllStatesReport(ctx context.Context, n int) ([]domain.StateReportRow, error) {
	rows, err := perState(ctx, s.src.States, s.opts.Workers,
		func(ctx context.Context, state string) ([]domain.StateReportRow, bool, error) {
			top, base, ok, err := s.stateTop(ctx, state, n)
			if err != nil {
				return nil, false, err
			}

			out := make([]domain.StateReportRow, 0, len(top))
			for i, e := range top {
				out = append(out, domain.StateReportRow{
					State:    state,
					Rank:     i + 1,
					Language: string(e.Language),
					Persons:  e.Value,
					Percent:  percentOf(e.Value, base),
				})
			}
			return out, ok, nil
		})
	if err != nil {
		return nil, fmt.Errorf("AllStatesReport: %w", err)
	}
	return rows, nil
}

// AllStatesPivot is the wide form: a persons line then a percent line per state.
func (s *Service) AllStatesPivot(ctx context.Context, n int) ([]domain.PivotRow, error) {
	rows, err := perState(ctx, s.src.States, s.opts.Workers,
		func(ctx context.Context, state string) ([]domain.PivotRow, bool, error) {
			top, base, ok, err := s.stateTop(ctx, state, n)
			if err != nil {
				return nil, false, err
			}

			persons := domain.PivotRow{State: state, Kind: domain.PivotPersons}
			percent := domain.PivotRow{State: state, Kind: domain.PivotPercent}
			for _, e := range top {
				persons.Languages = append(persons.Languages, string(e.Language))
				persons.Values = append(persons.Values, decimal.NewFromInt(e.Value))
				percent.Languages = append(percent.Languages, string(e.Language))
				percent.Values = append(percent.Values, percentOf(e.Value, base))
			}
			return []domain.PivotRow{persons, percent}, ok, nil
		})
	if err != nil {
		return nil, fmt.Errorf("AllStatesPivot: %w", err)
	}
	return rows, nil
}

// AllTownsReport ranks languages of every town of every state by total
// persons. withPincodes annotates each row with the postal codes of the town.
func (s *Service) AllTownsReport(ctx context.Context, n int, withPincodes bool) ([]domain.TownReportRow, error) {
	if withPincodes && s.src.Pincodes == nil {
		return nil, fmt.Errorf("%w: pincode table is not loaded", constants.ErrReferenceTableMalformed)
	}

	q := s.allTownsQuery()
	rows, err := perState(ctx, s.src.Towns, s.opts.Workers,
		func(ctx context.Context, state string) ([]domain.TownReportRow, bool, error) {
			rows, err := loadRows(ctx, s.src.Towns, state)
			if err != nil {
				return nil, false, err
			}

			groups, err := census.GroupTowns(rows, q)
			if err != nil {
				return nil, false, fmt.Errorf("census.GroupTowns: %w", err)
			}

			var out []domain.TownReportRow
			for _, dg := range groups {
				for _, tg := range dg.Towns {
					var pincodes []string
					if withPincodes {
						pincodes = s.src.Pincodes.Lookup(tg.Name)
					}

					top := census.Rank(census.SumByLanguage(tg.Rows, q.Metric), n)
					for i, e := range top {
						out = append(out, domain.TownReportRow{
							State:        state,
							DistrictCode: float64(dg.Code),
							DistrictName: dg.Name,
							TownCode:     float64(tg.Code),
							TownName:     tg.Name,
							Rank:         i + 1,
							Language:     string(e.Language),
							Persons:      e.Value,
							Pincodes:     pincodes,
						})
					}
				}
			}

			logger.Debugf(ctx, "grouped %d districts", len(groups))
			return out, len(groups) > 0, nil
		})
	if err != nil {
		return nil, fmt.Errorf("AllTownsReport: %w", err)
	}
	return rows, nil
}

// PopulationTotals sums the rural and urban persons of the language-group
// total rows of every state.
func (s *Service) PopulationTotals(ctx context.Context) ([]domain.PopulationTotals, error) {
	q := s.wholeStateQuery()
	rows, err := perState(ctx, s.src.States, s.opts.Workers,
		func(ctx context.Context, state string) ([]domain.PopulationTotals, bool, error) {
			rows, err := loadRows(ctx, s.src.States, state)
			if err != nil {
				return nil, false, err
			}

			totals, err := census.GroupTotals(rows, q)
			if err != nil {
				return nil, false, fmt.Errorf("census.GroupTotals: %w", err)
			}
			if totals.Rows == 0 {
				return nil, false, nil
			}

			return []domain.PopulationTotals{{State: state, Rural: totals.Rural, Urban: totals.Urban}}, true, nil
		})
	if err != nil {
		return nil, fmt.Errorf("PopulationTotals: %w", err)
	}
	return rows, nil
}
