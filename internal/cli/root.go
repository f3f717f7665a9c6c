package cli

import (
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/housingjson/internal/config"
	"github.com/roach88/housingjson/internal/housing"
	"github.com/roach88/housingjson/internal/store"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigFile string
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// flagKeys maps config keys to the flags that override them. Commands
// define the subset they use; BindFlags skips the rest.
var flagKeys = map[string]string{
	"db.path":          "db",
	"db.driver":        "driver",
	"query.key_casing": "key-casing",
	"log.level":        "log-level",
	"http.addr":        "addr",
	"http.cors_origin": "cors-origin",
	"http.rate_limit":  "rate-limit",
}

// NewRootCommand creates the root command for the housingd CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "housingd",
		Short: "housingd - housing statistics JSON document service",
		Long: `Store housing statistics records as JSON documents in SQLite and query
them by dotted field path, compiled to native -> projection (dot) or
json_extract projection (jq).`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVarP(&opts.ConfigFile, "config", "c", "", "config file (yaml)")
	cmd.PersistentFlags().String("db", "", "database path (default ./housing.db)")
	cmd.PersistentFlags().String("driver", "", "sqlite driver: sqlite3 or sqlite (default sqlite3)")
	cmd.PersistentFlags().String("key-casing", "", "path segment casing: capitalize or preserve (default capitalize)")
	cmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error (default info)")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewSeedCommand(opts))
	cmd.AddCommand(NewQueryCommand(opts))
	cmd.AddCommand(NewCompileCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}

// newFormatter builds the formatter for cmd's output streams.
func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}
}

// loadConfig resolves defaults, the config file, HOUSING_* environment
// variables and cmd's flags, in increasing precedence.
func loadConfig(opts *RootOptions, cmd *cobra.Command) (config.Config, error) {
	v := config.New()
	if err := config.BindFlags(v, cmd, flagKeys); err != nil {
		return config.Config{}, err
	}
	cfg, err := config.Load(v, opts.ConfigFile)
	if err != nil {
		return config.Config{}, err
	}
	if opts.Verbose {
		cfg.Log.Level = "debug"
	}
	return cfg, nil
}

// setupLogging installs the process-wide slog logger writing to w.
func setupLogging(cfg config.LogConfig, w io.Writer) *slog.Logger {
	level, err := cfg.SlogLevel()
	if err != nil {
		level = slog.LevelInfo
	}
	handlerOpts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(w, handlerOpts)
	} else {
		handler = slog.NewTextHandler(w, handlerOpts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// logConfig is the logging setup for commands that read no config file:
// warnings only, or everything with --verbose.
func logConfig(opts *RootOptions) config.LogConfig {
	if opts.Verbose {
		return config.LogConfig{Level: "debug", Format: "text"}
	}
	return config.LogConfig{Level: "warn", Format: "text"}
}

// openService opens the configured store and builds a Service over it.
// The caller closes the returned store.
func openService(cfg config.Config, opts ...housing.Option) (*housing.Service, *store.Store, error) {
	slog.Debug("opening database", "driver", cfg.DB.Driver, "path", cfg.DB.Path)
	st, err := store.Open(cfg.DB.Driver, cfg.DB.Path)
	if err != nil {
		return nil, nil, err
	}
	return housing.NewService(st, cfg.Normalizer(), opts...), st, nil
}

// closeStore closes st, logging rather than returning the error.
func closeStore(st *store.Store) {
	if err := st.Close(); err != nil {
		slog.Error("error closing database", "error", err)
	}
}
