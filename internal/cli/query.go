package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/housingjson/internal/housing"
	"github.com/roach88/housingjson/internal/jsonval"
	"github.com/roach88/housingjson/internal/queryir"
	"github.com/roach88/housingjson/internal/querysql"
)

// QueryOptions holds the projection flags shared by query and compile.
type QueryOptions struct {
	*RootOptions
	Strategy string
	Select   []string
	Where    string
	Value    string
	Pattern  bool
	Limit    int
}

func (o *QueryOptions) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.Strategy, "strategy", "s", "dot", "projection strategy (dot|jq)")
	cmd.Flags().StringSliceVar(&o.Select, "select", nil, "dotted field paths to project (repeat or comma-separate)")
	cmd.Flags().StringVar(&o.Where, "where", "", "dotted field path to filter on")
	cmd.Flags().StringVar(&o.Value, "value", "", "filter value")
	cmd.Flags().BoolVar(&o.Pattern, "like", false, "compare the filter value with LIKE instead of =")
	cmd.Flags().IntVar(&o.Limit, "limit", 0, "maximum number of rows (0 for no limit)")
}

func (o *QueryOptions) request() queryir.Request {
	return queryir.Request{
		Select:  o.Select,
		Where:   o.Where,
		Value:   o.Value,
		Pattern: o.Pattern,
		Limit:   o.Limit,
	}
}

// NewQueryCommand creates the query command.
func NewQueryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &QueryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "query",
		Short: "Run a projection query against the store",
		Long: `Run a projection query and print the reshaped rows.

Text output prints one JSON document per line. JSON output prints the
{success, count, data} envelope served by the HTTP API.

Example:
  housingd query --select Dimensions.Value,CSD --where CSD --value 'Red%' --like`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(opts, cmd)
		},
	}
	opts.addFlags(cmd)

	return cmd
}

func runQuery(opts *QueryOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	strategy, err := querysql.ParseStrategy(opts.Strategy)
	if err != nil {
		return formatter.Fail(ExitFailure, ErrCodeInvalidQuery, "invalid strategy", err)
	}

	cfg, err := loadConfig(opts.RootOptions, cmd)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeConfig, "loading config", err)
	}
	setupLogging(cfg.Log, cmd.ErrOrStderr())

	svc, st, err := openService(cfg)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeStoreOpen, "opening database", err)
	}
	defer closeStore(st)

	resp, err := svc.Query(cmd.Context(), strategy, opts.request())
	if err != nil {
		if queryir.IsValidationError(err) {
			return formatter.Fail(ExitFailure, ErrCodeInvalidQuery, "invalid query", err)
		}
		return formatter.Fail(ExitFailure, ErrCodeQueryFailed, "Failed to query housing records", err)
	}

	if formatter.Format == "json" {
		return formatter.Success(resp)
	}
	formatter.VerboseLog("%d row(s)", resp.Count)
	return writeLines(formatter, resp.Data)
}

// writeLines prints each value as compact JSON on its own line.
func writeLines(formatter *OutputFormatter, values []jsonval.Value) error {
	for _, v := range values {
		b, err := jsonval.Marshal(v)
		if err != nil {
			return err
		}
		fmt.Fprintln(formatter.Writer, string(b))
	}
	return nil
}

// CompileResult is the compile command's JSON payload.
type CompileResult struct {
	Strategy string   `json:"strategy"`
	SQL      string   `json:"sql"`
	Binds    []any    `json:"binds"`
	Aliases  []string `json:"aliases"`
}

func (r CompileResult) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "-- strategy: %s\n%s\n", r.Strategy, r.SQL)
	for i, bind := range r.Binds {
		fmt.Fprintf(&b, "-- ?%d = %#v\n", i+1, bind)
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &QueryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile",
		Short: "Print the SQL and binds for a projection query",
		Long: `Compile a projection query to SQL without opening the database.

Takes the same flags as query and prints the statement followed by its
positional binds.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, cmd)
		},
	}
	opts.addFlags(cmd)

	return cmd
}

func runCompile(opts *QueryOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	strategy, err := querysql.ParseStrategy(opts.Strategy)
	if err != nil {
		return formatter.Fail(ExitFailure, ErrCodeInvalidQuery, "invalid strategy", err)
	}

	cfg, err := loadConfig(opts.RootOptions, cmd)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeConfig, "loading config", err)
	}

	// Compile never touches the store.
	svc := housing.NewService(nil, cfg.Normalizer())
	cq, q, err := svc.Compile(strategy, opts.request())
	if err != nil {
		return formatter.Fail(ExitFailure, ErrCodeInvalidQuery, "invalid query", err)
	}

	binds := cq.Binds
	if binds == nil {
		binds = []any{}
	}
	return formatter.Success(CompileResult{
		Strategy: strategy.Name(),
		SQL:      cq.SQL,
		Binds:    binds,
		Aliases:  querysql.NewCompiler(strategy, cfg.Normalizer()).Aliases(q),
	})
}
