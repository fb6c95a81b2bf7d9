package commands

import (
	"context"
	"fmt"

	"github.com/jzelinskie/cobrautil/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/exscriptd/orderdb/internal/config"
)

const envPrefix = "ORDERDB"

var (
	// Global flags
	configPath string

	cfg *config.Configuration
)

// Execute runs the root command
func Execute(ctx context.Context, version, commit, buildDate string) error {
	rootCmd := newRootCommand(version, commit, buildDate)
	return rootCmd.ExecuteContext(ctx)
}

func newRootCommand(version, commit, buildDate string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "orderdb",
		Short: "Order database of the job dispatch daemon",
		Long: `orderdb manages the order, host and variable tables of the job dispatch
daemon. It can create and drop the schema, inspect and export orders, close
open orders and serve a read API over HTTP.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
		// Flags left unset on the command line are filled from ORDERDB_<FLAG>
		// first, e.g. ORDERDB_DSN or ORDERDB_TABLE_PREFIX.
		PersistentPreRunE: cobrautil.CommandStack(
			cobrautil.SyncViperPreRunE(envPrefix),
			loadConfiguration,
		),
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = zap.L().Sync()
		},
	}

	defaults := config.NewConfigurationWithDefaults()

	// Persistent flags available to all commands
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&configPath, "config", "c", "", "config file path")
	flags.String("dialect", defaults.Database.Dialect, "database engine: sqlite, postgres or duckdb")
	flags.String("dsn", defaults.Database.DSN, "database data source name")
	flags.String("table-prefix", defaults.Database.TablePrefix, "prefix of all table names")
	flags.Int("max-open-conns", defaults.Database.MaxOpenConns, "maximum open database connections, 0 for driver default")
	flags.Bool("debug-sql", defaults.Database.Debug, "log every SQL statement at info level")
	flags.Int("workers", defaults.Workers, "number of concurrent store workers")
	flags.String("log-level", defaults.LogLevel, "log level: debug, info, warn, error")
	flags.String("log-format", defaults.LogFormat, "log format: console or json")

	// Add subcommands
	rootCmd.AddCommand(newInstallCommand())
	rootCmd.AddCommand(newUninstallCommand())
	rootCmd.AddCommand(newClearCommand())
	rootCmd.AddCommand(newListCommand())
	rootCmd.AddCommand(newShowCommand())
	rootCmd.AddCommand(newCountCommand())
	rootCmd.AddCommand(newCloseOpenCommand())
	rootCmd.AddCommand(newExportCommand())
	rootCmd.AddCommand(newServeCommand())

	return rootCmd
}

func loadConfiguration(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(configPath, cmd.Flags())
	if err != nil {
		return err
	}
	if err := setupLogging(cfg.LogLevel, cfg.LogFormat); err != nil {
		return err
	}
	zap.S().Named("orderdb").Debugw("configuration loaded", "config", cfg.DebugMap())
	return nil
}
