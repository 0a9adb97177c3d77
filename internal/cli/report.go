package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/xuri/excelize/v2"

	"github.com/ougirez/mothertongue/internal/domain"
	"github.com/ougirez/mothertongue/internal/pkg/logger"
	"github.com/ougirez/mothertongue/internal/pkg/store"
	"github.com/ougirez/mothertongue/internal/pkg/workbook"
	"github.com/ougirez/mothertongue/internal/service/language"
)

type reportFlags struct {
	numLanguages int
	out          string
	archive      bool
}

// reportOutput is one generated report: rows for stdout and the archive, a
// workbook for --out.
type reportOutput[T any] struct {
	kind  domain.ReportKind
	rows  []T
	sheet func([]T) (*excelize.File, error)
}

func newReportCmd() *cobra.Command {
	flags := &reportFlags{}
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Generate a batch report over every state workbook",
	}

	cmd.PersistentFlags().IntVarP(&flags.numLanguages, "num-languages", "n", 3, "languages per state or town")
	cmd.PersistentFlags().StringVarP(&flags.out, "out", "o", "", "write the report to this .xlsx file instead of stdout")
	cmd.PersistentFlags().BoolVar(&flags.archive, "archive", false, "store the report in the postgres archive")

	var format string
	states := &cobra.Command{
		Use:   "states",
		Short: "Top languages of every state",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd.Context(), flags, func(ctx context.Context, svc *language.Service) error {
				if format == "wide" {
					rows, err := svc.AllStatesPivot(ctx, flags.numLanguages)
					if err != nil {
						return err
					}
					return emit(ctx, flags, reportOutput[domain.PivotRow]{domain.ReportStatesWide, rows, workbook.NewPivotReport})
				}

				rows, err := svc.AllStatesReport(ctx, flags.numLanguages)
				if err != nil {
					return err
				}
				return emit(ctx, flags, reportOutput[domain.StateReportRow]{domain.ReportStates, rows, workbook.NewStateReport})
			})
		},
	}
	states.Flags().StringVar(&format, "format", "flat", "flat or wide")

	var withPincodes bool
	towns := &cobra.Command{
		Use:   "towns",
		Short: "Top languages of every town",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd.Context(), flags, func(ctx context.Context, svc *language.Service) error {
				rows, err := svc.AllTownsReport(ctx, flags.numLanguages, withPincodes)
				if err != nil {
					return err
				}
				return emit(ctx, flags, reportOutput[domain.TownReportRow]{domain.ReportTowns, rows, workbook.NewTownReport})
			})
		},
	}
	towns.Flags().BoolVar(&withPincodes, "with-pincodes", false, "annotate towns with their pincodes")

	population := &cobra.Command{
		Use:   "population",
		Short: "Rural and urban totals of every state",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd.Context(), flags, func(ctx context.Context, svc *language.Service) error {
				rows, err := svc.PopulationTotals(ctx)
				if err != nil {
					return err
				}
				return emit(ctx, flags, reportOutput[domain.PopulationTotals]{domain.ReportPopulation, rows, workbook.NewPopulationReport})
			})
		},
	}

	cmd.AddCommand(states, towns, population)
	return cmd
}

func runReport(ctx context.Context, flags *reportFlags, fn func(context.Context, *language.Service) error) error {
	if flags.numLanguages < 1 {
		return fmt.Errorf("--num-languages must be at least 1")
	}

	svc, err := newLanguageService(ctx, viper.GetViper())
	if err != nil {
		return err
	}
	return fn(ctx, svc)
}

func emit[T any](ctx context.Context, flags *reportFlags, out reportOutput[T]) error {
	if flags.archive {
		if err := archiveReport(ctx, flags.numLanguages, out); err != nil {
			return err
		}
	}

	if flags.out != "" {
		f, err := out.sheet(out.rows)
		if err != nil {
			return fmt.Errorf("build %s workbook: %w", out.kind, err)
		}
		if err = workbook.Save(f, flags.out); err != nil {
			return err
		}
		logger.Infof(ctx, "wrote %d rows to %s", len(out.rows), flags.out)
		return nil
	}

	b, err := sonic.ConfigStd.MarshalIndent(out.rows, "", "  ")
	if err != nil {
		return fmt.Errorf("sonic.MarshalIndent: %w", err)
	}
	_, err = fmt.Fprintln(os.Stdout, string(b))
	return err
}

func archiveReport[T any](ctx context.Context, numLanguages int, out reportOutput[T]) error {
	s, closeStore, err := openStore(ctx, viper.GetViper())
	if err != nil {
		return err
	}
	defer closeStore()
	if s == nil {
		return fmt.Errorf("--archive needs a postgres dsn")
	}

	payloads, err := store.Payloads(out.rows)
	if err != nil {
		return err
	}

	run, err := s.SaveReport(ctx, out.kind, numLanguages, payloads)
	if err != nil {
		return fmt.Errorf("SaveReport: %w", err)
	}

	logger.Infof(ctx, "archived %s report as run %s", out.kind, run.ID)
	return nil
}
