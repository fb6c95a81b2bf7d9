// Package config defines the configuration structure for orderdb.
//
// Defaults come from `default` struct tags (creasty/defaults). Viper then
// overlays an optional config file, ORDERDB_* environment variables and
// command line flags.
//
// # Configuration Structure
//
//	Configuration
//	├── Database       - Engine, DSN and table prefix
//	├── Server         - HTTP server settings
//	├── Workers        - Size of the store worker pool
//	├── LogFormat      - Logging format
//	└── LogLevel       - Logging verbosity
//
// # Database Configuration
//
//	┌──────────────┬──────────────────┬─────────────────────────────────────┐
//	│ Field        │ Default          │ Description                         │
//	├──────────────┼──────────────────┼─────────────────────────────────────┤
//	│ Dialect      │ "sqlite"         │ sqlite, postgres or duckdb          │
//	│ DSN          │ "orderdb.sqlite" │ Driver data source name             │
//	│ TablePrefix  │ "exscriptd_"     │ Prefix of every table name          │
//	│ MaxOpenConns │ 0                │ Pool size, 0 leaves driver default  │
//	│ Debug        │ false            │ Log SQL statements at info level    │
//	└──────────────┴──────────────────┴─────────────────────────────────────┘
//
// # Server Configuration
//
//	┌──────────────────┬─────────┬────────────────────────────────────────┐
//	│ Field            │ Default │ Description                            │
//	├──────────────────┼─────────┼────────────────────────────────────────┤
//	│ ServerMode       │ "dev"   │ Server mode: "prod" or "dev"           │
//	│ HTTPPort         │ 8000    │ HTTP server listen port                │
//	└──────────────────┴─────────┴────────────────────────────────────────┘
//
// # Environment
//
// Keys map to variables by upper-casing and replacing dots and dashes with
// underscores:
//
//	database.dsn          → ORDERDB_DATABASE_DSN
//	database.table-prefix → ORDERDB_DATABASE_TABLE_PREFIX
//	log-level             → ORDERDB_LOG_LEVEL
//
// The root command also fills every flag left unset on the command line from
// ORDERDB_<FLAG> (cobrautil.SyncViperPreRunE), e.g. ORDERDB_DSN.
//
// # Code Generation
//
// The package uses optgen to generate functional option helpers:
//
//	//go:generate go run github.com/ecordell/optgen -output zz_generated.configuration.go . Configuration Database Server
//
// Generated helpers include:
//
//   - NewConfigurationWithOptionsAndDefaults(...ConfigurationOption) - Create with defaults + options
//   - WithDatabase(Database), WithServer(Server), WithDSN(string), etc. - Set fields
//   - DebugMap() - Returns map for debug logging; the DSN is tagged sensitive
//
// # Usage Example
//
//	cfg, err := config.Load(configFile, cmd.Flags())
//	if err != nil {
//	    return err
//	}
//	zap.S().Debugw("configuration", "config", cfg.DebugMap())
package config
