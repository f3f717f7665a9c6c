package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/housingjson/internal/config"
	"github.com/roach88/housingjson/internal/housing"
	"github.com/roach88/housingjson/internal/httpapi"
)

// ServeOptions holds flags for the serve command.
type ServeOptions struct {
	*RootOptions
	SeedFile string
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the housing HTTP API until SIGINT or SIGTERM.

Routes:
  GET  /housing/dot   projection query, native -> paths
  GET  /housing/jq    projection query, json_extract paths
  GET  /housing, /housing/id/:id, POST /housing, POST /housing/bulk,
  PUT /housing/:id, DELETE /housing/:id, GET /health, GET /metrics`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, opts, cmd)
		},
	}

	cmd.Flags().String("addr", "", "listen address (default :8000)")
	cmd.Flags().String("cors-origin", "", "Access-Control-Allow-Origin value (default *)")
	cmd.Flags().Int("rate-limit", 0, "requests per minute per client IP (default 600)")
	cmd.Flags().StringVar(&opts.SeedFile, "seed", "", "JSON array of documents to load when the store is empty")

	return cmd
}

func runServe(ctx context.Context, opts *ServeOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	cfg, err := loadConfig(opts.RootOptions, cmd)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeConfig, "loading config", err)
	}
	logger := setupLogging(cfg.Log, cmd.ErrOrStderr())

	svc, st, err := openService(cfg, housing.WithPrometheus())
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeStoreOpen, "opening database", err)
	}
	defer closeStore(st)

	if opts.SeedFile != "" {
		if err := seedFromFile(ctx, svc, opts.SeedFile); err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeSeedFailed, "seeding database", err)
		}
	}

	return serve(ctx, svc, cfg, logger, formatter)
}

func serve(ctx context.Context, svc *housing.Service, cfg config.Config, logger *slog.Logger, formatter *OutputFormatter) error {
	srv := httpapi.NewServer(svc, cfg.HTTP, logger)
	slog.Info("starting server", "addr", cfg.HTTP.Addr, "db", cfg.DB.Path, "driver", cfg.DB.Driver)
	if err := srv.Run(ctx); err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeServe, "server stopped", err)
	}
	slog.Info("server stopped")
	return nil
}

// seedFromFile loads docs from path and seeds svc if its store is empty.
func seedFromFile(ctx context.Context, svc *housing.Service, path string) error {
	docs, err := housing.LoadDocuments(path)
	if err != nil {
		return err
	}
	_, err = svc.Seed(ctx, docs)
	return err
}
