package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "ORDERDB"

//go:generate go run github.com/ecordell/optgen -output zz_generated.configuration.go . Configuration Database Server

type Configuration struct {
	Database  Database `mapstructure:"database" debugmap:"visible"`
	Server    Server   `mapstructure:"server" debugmap:"visible"`
	Workers   int      `mapstructure:"workers" default:"4" debugmap:"visible"`
	LogFormat string   `mapstructure:"log-format" default:"console" debugmap:"visible"`
	LogLevel  string   `mapstructure:"log-level" default:"info" debugmap:"visible"`
}

type Database struct {
	Dialect      string `mapstructure:"dialect" default:"sqlite" debugmap:"visible"`
	DSN          string `mapstructure:"dsn" default:"orderdb.sqlite" debugmap:"sensitive"`
	TablePrefix  string `mapstructure:"table-prefix" default:"exscriptd_" debugmap:"visible"`
	MaxOpenConns int    `mapstructure:"max-open-conns" default:"0" debugmap:"visible"`
	// Debug logs every SQL statement at info level.
	Debug bool `mapstructure:"debug" default:"false" debugmap:"visible"`
}

type Server struct {
	HTTPPort   int    `mapstructure:"http-port" default:"8000" debugmap:"visible"`
	ServerMode string `mapstructure:"mode" default:"dev" debugmap:"visible"`
}

// NewConfigurationWithDefaults returns a configuration holding only the
// values of the default tags.
func NewConfigurationWithDefaults() *Configuration {
	return NewConfigurationWithOptionsAndDefaults()
}

// flagKeys maps command line flags to configuration keys. Flags not listed
// here bind to the key of the same name.
var flagKeys = map[string]string{
	"dialect":        "database.dialect",
	"dsn":            "database.dsn",
	"table-prefix":   "database.table-prefix",
	"max-open-conns": "database.max-open-conns",
	"debug-sql":      "database.debug",
	"http-port":      "server.http-port",
	"server-mode":    "server.mode",
}

// Load builds the configuration from defaults, an optional config file,
// ORDERDB_* environment variables and the given flags, in increasing order of
// precedence. A flag only wins over the file and the environment when it was
// set on the command line.
func Load(configFile string, flags *pflag.FlagSet) (*Configuration, error) {
	cfg := NewConfigurationWithDefaults()

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	for key, value := range cfg.settings() {
		v.SetDefault(key, value)
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	}

	if flags != nil {
		var bindErr error
		flags.VisitAll(func(f *pflag.Flag) {
			key, ok := flagKeys[f.Name]
			if !ok {
				key = f.Name
			}
			if err := v.BindPFlag(key, f); err != nil {
				bindErr = errors.Join(bindErr, err)
			}
		})
		if bindErr != nil {
			return nil, fmt.Errorf("failed to bind flags: %w", bindErr)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Configuration) Validate() error {
	var errs []error
	switch c.Database.Dialect {
	case "sqlite", "sqlite3", "postgres", "postgresql", "pgx", "duckdb":
	default:
		errs = append(errs, fmt.Errorf("unsupported database dialect %q", c.Database.Dialect))
	}
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		errs = append(errs, fmt.Errorf("invalid http port %d", c.Server.HTTPPort))
	}
	if c.Server.ServerMode != "dev" && c.Server.ServerMode != "prod" {
		errs = append(errs, fmt.Errorf("invalid server mode %q", c.Server.ServerMode))
	}
	if c.Workers < 1 {
		errs = append(errs, fmt.Errorf("workers must be at least 1, got %d", c.Workers))
	}
	return errors.Join(errs...)
}

// settings flattens the configuration into viper keys.
func (c *Configuration) settings() map[string]any {
	return map[string]any{
		"database.dialect":        c.Database.Dialect,
		"database.dsn":            c.Database.DSN,
		"database.table-prefix":   c.Database.TablePrefix,
		"database.max-open-conns": c.Database.MaxOpenConns,
		"database.debug":          c.Database.Debug,
		"server.http-port":        c.Server.HTTPPort,
		"server.mode":             c.Server.ServerMode,
		"workers":                 c.Workers,
		"log-format":              c.LogFormat,
		"log-level":               c.LogLevel,
	}
}
