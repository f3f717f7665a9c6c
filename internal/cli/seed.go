package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/housingjson/internal/housing"
)

// NewSeedCommand creates the seed command.
func NewSeedCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed <file>",
		Short: "Load a JSON array of housing documents into an empty store",
		Long: `Load a JSON array of housing documents into the store.

All documents are inserted in one transaction. A store that already holds
records is left untouched.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runSeed(opts *RootOptions, file string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	cfg, err := loadConfig(opts, cmd)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeConfig, "loading config", err)
	}
	setupLogging(cfg.Log, cmd.ErrOrStderr())

	docs, err := housing.LoadDocuments(file)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeSeedFile, "loading seed file", err)
	}
	formatter.VerboseLog("Loaded %d document(s) from %s", len(docs), file)

	svc, st, err := openService(cfg)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeStoreOpen, "opening database", err)
	}
	defer closeStore(st)

	result, err := svc.Seed(cmd.Context(), docs)
	if err != nil {
		return formatter.Fail(ExitFailure, ErrCodeSeedFailed, "seeding database", err)
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}
	if result.Skipped {
		return formatter.Success(fmt.Sprintf("Store already holds %d record(s); nothing seeded", result.Existing))
	}
	return formatter.Success(fmt.Sprintf("Seeded %d record(s) into %s", result.Inserted, cfg.DB.Path))
}
