package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ougirez/mothertongue/internal/api"
	"github.com/ougirez/mothertongue/internal/api/controller"
	"github.com/ougirez/mothertongue/internal/pkg/constants"
	"github.com/ougirez/mothertongue/internal/pkg/logger"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			v := viper.GetViper()
			languages, err := newLanguageService(ctx, v)
			if err != nil {
				return err
			}

			s, closeStore, err := openStore(ctx, v)
			if err != nil {
				return err
			}
			defer closeStore()

			var archive controller.ReportArchive
			if s != nil {
				archive = s
			}

			svc, err := api.NewAPIService(
				api.Config{AllowOrigins: v.GetStringSlice(constants.ViperServerAllowOriginsKey)},
				languages,
				newBackfillService(v),
				archive,
			)
			if err != nil {
				return err
			}

			addr := v.GetString(constants.ViperServerAddrKey)
			go svc.Serve(addr)
			logger.Infof(ctx, "listening on %s", addr)

			<-ctx.Done()

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return svc.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().String("addr", "", "listen address")
	_ = viper.BindPFlag(constants.ViperServerAddrKey, cmd.Flags().Lookup("addr"))

	return cmd
}
