package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/sql2ra/internal/rasql"
)

// EvalOptions holds flags for the eval command.
type EvalOptions struct {
	*RootOptions
	DB      string // SQLite database to evaluate against (required)
	Catalog string // optional CUE catalog overriding the database schema
}

// EvalResult holds the translated expression and the rows it evaluates to.
type EvalResult struct {
	Input   string   `json:"input"`
	RA      string   `json:"ra"`
	Query   string   `json:"query"`
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

// NewEvalCommand creates the eval command.
func NewEvalCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &EvalOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "eval <sql>",
		Short: "Translate a SQL query and evaluate the expression",
		Long: `Translate a SELECT DISTINCT query, check the expression against the
database schema, compile it back to SQL and run it.

The rows are those of the relational algebra expression: duplicates
removed, sorted by every output column.

Examples:
  sql2ra eval --db pizza.db "select distinct name from Person where age = 16"
  sql2ra eval --db pizza.db --format json "select distinct * from Serves"`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEval(cmd.Context(), opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DB, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.Catalog, "catalog", "", "CUE catalog to use instead of the database schema")

	return cmd
}

func runEval(ctx context.Context, opts *EvalOptions, input string, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	formatter, logger := newFormatter(opts.RootOptions, cmd)

	schema, err := LoadSchema(ctx, opts.Catalog, opts.DB)
	if err != nil {
		return outputLoadError(formatter, err)
	}
	defer schema.Close()

	expr, err := translateAndCheck(formatter, logger, schema.Catalog, input)
	if err != nil {
		return err
	}

	query, params, err := rasql.NewSQLCompiler(schema.Catalog).Compile(expr)
	if err != nil {
		_ = formatter.Error(ErrCodeCompile, err.Error(), nil)
		return WrapExitError(ExitFailure, "compile failed", err)
	}
	formatter.VerboseLog("Query: %s", query)

	res, err := schema.Store.Run(ctx, query, params...)
	if err != nil {
		_ = formatter.Error(ErrCodeDatabase, fmt.Sprintf("evaluation failed: %v", err), map[string]string{"query": query})
		return WrapExitError(ExitCommandError, "evaluation failed", err)
	}

	result := EvalResult{
		Input:   input,
		RA:      expr.String(),
		Query:   query,
		Columns: res.Columns,
		Rows:    res.Rows,
	}
	if result.Rows == nil {
		result.Rows = [][]any{}
	}

	if formatter.IsJSON() {
		return formatter.Success(result)
	}
	return outputEvalText(formatter, result)
}

// outputEvalText prints the expression, a header line and one line per row.
func outputEvalText(formatter *OutputFormatter, result EvalResult) error {
	w := formatter.Writer

	fmt.Fprintln(w, result.RA)
	fmt.Fprintln(w, strings.Join(result.Columns, " | "))
	for _, row := range result.Rows {
		cells := make([]string, len(row))
		for i, v := range row {
			if v == nil {
				cells[i] = "NULL"
				continue
			}
			cells[i] = fmt.Sprint(v)
		}
		fmt.Fprintln(w, strings.Join(cells, " | "))
	}
	fmt.Fprintf(w, "(%d row(s))\n", len(result.Rows))
	return nil
}
