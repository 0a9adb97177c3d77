package cli

import (
	"fmt"
	"os"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ougirez/mothertongue/internal/pkg/constants"
	"github.com/ougirez/mothertongue/internal/service/backfill"
)

func newBackfillCmd() *cobra.Command {
	var dataset string
	cmd := &cobra.Command{
		Use:   "backfill",
		Short: "Download the workbooks linked from an index page into a dataset directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			v := viper.GetViper()
			indexURL := v.GetString(constants.ViperBackfillIndexURLKey)
			if indexURL == "" {
				return fmt.Errorf("--index-url is required")
			}

			res, err := newBackfillService(v).Backfill(cmd.Context(), dataset, indexURL)
			if err != nil {
				return err
			}

			b, err := sonic.ConfigStd.MarshalIndent(res, "", "  ")
			if err != nil {
				return fmt.Errorf("sonic.MarshalIndent: %w", err)
			}
			_, err = fmt.Fprintln(os.Stdout, string(b))
			return err
		},
	}

	cmd.Flags().StringVar(&dataset, "dataset", backfill.DatasetStates, "states, towns or bilingual")
	cmd.Flags().String("index-url", "", "page listing the workbooks")
	_ = viper.BindPFlag(constants.ViperBackfillIndexURLKey, cmd.Flags().Lookup("index-url"))

	return cmd
}
