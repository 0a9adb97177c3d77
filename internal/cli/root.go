package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ougirez/mothertongue/internal/pkg/constants"
	"github.com/ougirez/mothertongue/internal/pkg/logger"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:           "censusd",
	Short:         "Mother-tongue census aggregation service",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return logger.Init(viper.GetString(constants.ViperLogLevelKey), viper.GetBool(constants.ViperLogDevelopmentKey))
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Sync()
	},
}

// Execute runs the root command; main only needs the exit status.
func Execute() error {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

func init() {
	cobra.OnInitialize(initConfig)
	setDefaults(viper.GetViper())

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default ./censusd.yaml)")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.String("states-dir", "", "directory of per-state district workbooks")
	flags.String("towns-dir", "", "directory of per-state town workbooks")
	flags.String("bilingual-dir", "", "directory of per-state bilingual workbooks")
	flags.String("districts", "", "district code reference table (.xlsx or .csv)")
	flags.String("pincodes", "", "pincode reference table (.xlsx or .csv)")
	flags.String("postgres-dsn", "", "report archive database")

	_ = viper.BindPFlag(constants.ViperLogLevelKey, flags.Lookup("log-level"))
	_ = viper.BindPFlag(constants.ViperStatesDirKey, flags.Lookup("states-dir"))
	_ = viper.BindPFlag(constants.ViperTownsDirKey, flags.Lookup("towns-dir"))
	_ = viper.BindPFlag(constants.ViperBilingualDirKey, flags.Lookup("bilingual-dir"))
	_ = viper.BindPFlag(constants.ViperDistrictTableKey, flags.Lookup("districts"))
	_ = viper.BindPFlag(constants.ViperPincodeTableKey, flags.Lookup("pincodes"))
	_ = viper.BindPFlag(constants.ViperPostgresDSNKey, flags.Lookup("postgres-dsn"))

	rootCmd.AddCommand(newServeCmd(), newReportCmd(), newBackfillCmd())
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(constants.ViperServerAddrKey, ":8080")
	v.SetDefault(constants.ViperServerAllowOriginsKey, []string{"http://localhost:3000"})
	v.SetDefault(constants.ViperLogLevelKey, "info")
	v.SetDefault(constants.ViperLogDevelopmentKey, false)
	v.SetDefault(constants.ViperStatesDirKey, "data/states")
	v.SetDefault(constants.ViperTownsDirKey, "data/towns")
	v.SetDefault(constants.ViperStatesHeaderRowsKey, 1)
	v.SetDefault(constants.ViperTownsHeaderRowsKey, 1)
	v.SetDefault(constants.ViperBilingualHeaderRowsKey, 1)
	v.SetDefault(constants.ViperWholeStateMatchKey, "numeric")
	v.SetDefault(constants.ViperWholeStateMarkerKey, "0.0")
	v.SetDefault(constants.ViperPercentBaseKey, "scope_total")
	v.SetDefault(constants.ViperReportWorkersKey, 4)
	v.SetDefault(constants.ViperBackfillRetriesKey, 5)
	v.SetDefault(constants.ViperPostgresRetriesKey, 10)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName("censusd")
	}

	viper.SetEnvPrefix("CENSUS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || cfgFile != "" {
			fmt.Fprintln(os.Stderr, "Error reading config:", err)
		}
		return
	}
	fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
}
