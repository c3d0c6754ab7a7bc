package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/sql2ra/internal/catalog"
	"github.com/roach88/sql2ra/internal/ra"
	"github.com/roach88/sql2ra/internal/rasql"
	"github.com/roach88/sql2ra/internal/translate"
)

// TranslateOptions holds flags for the translate command.
type TranslateOptions struct {
	*RootOptions
	Catalog string // CUE catalog to check against
	DB      string // SQLite database whose schema to check against
	SQL     bool   // also print the compiled SQL
}

// TranslateResult is the payload of a successful translation.
type TranslateResult struct {
	Input  string         `json:"input"`
	RA     string         `json:"ra"`
	Tree   map[string]any `json:"tree"`
	Query  string         `json:"query,omitempty"`
	Params []any          `json:"params,omitempty"`
}

// NewTranslateCommand creates the translate command.
func NewTranslateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TranslateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "translate <sql>",
		Short: "Translate a SQL query to relational algebra",
		Long: `Translate a SELECT DISTINCT query to a relational algebra expression.

With --catalog or --db the expression is checked against the schema:
relations and attributes must exist, unqualified attributes must be
unambiguous and compared values must have compatible types.

Exit codes:
  0 - Translated (and checked)
  1 - Unsupported or malformed query, or check errors
  2 - Command error (missing catalog or database, etc.)

Examples:
  sql2ra translate "select distinct name from Person where age = 16"
  sql2ra translate --catalog pizza.cue "select distinct * from Person, Eats"
  sql2ra translate --db pizza.db --sql "select distinct P.name from Person P"`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTranslate(cmd.Context(), opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Catalog, "catalog", "", "CUE catalog to check the expression against")
	cmd.Flags().StringVar(&opts.DB, "db", "", "SQLite database whose schema to check the expression against")
	cmd.Flags().BoolVar(&opts.SQL, "sql", false, "print the SQL the expression compiles to")

	return cmd
}

func runTranslate(ctx context.Context, opts *TranslateOptions, input string, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	formatter, logger := newFormatter(opts.RootOptions, cmd)

	schema, err := LoadSchema(ctx, opts.Catalog, opts.DB)
	if err != nil {
		return outputLoadError(formatter, err)
	}
	defer schema.Close()
	if schema.Catalog != nil {
		formatter.VerboseLog("Loaded %d relation(s)", schema.Catalog.Len())
	}

	expr, err := translateAndCheck(formatter, logger, schema.Catalog, input)
	if err != nil {
		return err
	}

	result := TranslateResult{Input: input, RA: expr.String(), Tree: ra.ToMap(expr)}
	if opts.SQL {
		query, params, err := rasql.NewSQLCompiler(schema.Catalog).Compile(expr)
		if err != nil {
			_ = formatter.Error(ErrCodeCompile, err.Error(), nil)
			return WrapExitError(ExitFailure, "compile failed", err)
		}
		result.Query = query
		result.Params = params
	}

	if formatter.IsJSON() {
		return formatter.Success(result)
	}

	fmt.Fprintln(formatter.Writer, result.RA)
	if result.Query != "" {
		fmt.Fprintf(formatter.Writer, "sql: %s\n", result.Query)
		if len(result.Params) > 0 {
			fmt.Fprintf(formatter.Writer, "params: %v\n", result.Params)
		}
	}
	return nil
}

// translateAndCheck translates input and, when cat is set, checks the
// expression against it. Failures are written to formatter and returned
// as ExitFailure.
func translateAndCheck(formatter *OutputFormatter, logger *slog.Logger, cat *catalog.Catalog, input string) (ra.RelExpr, error) {
	expr, err := translate.NewTranslator(logger).TranslateSQL(input)
	if err != nil {
		return nil, outputTranslateError(formatter, err)
	}
	if cat == nil {
		return expr, nil
	}

	if errs := cat.Check(expr); len(errs) > 0 {
		return nil, outputCheckErrors(formatter, expr, errs)
	}
	return expr, nil
}

// translateErrorCode maps a translation error kind to an error code.
func translateErrorCode(kind translate.ErrorKind) string {
	switch kind {
	case translate.KindUnsupportedConstruct:
		return ErrCodeUnsupported
	case translate.KindMalformedInput:
		return ErrCodeMalformed
	case translate.KindStructuralViolation:
		return ErrCodeStructural
	default:
		return ErrCodeGeneric
	}
}

// outputTranslateError outputs a translation error.
func outputTranslateError(formatter *OutputFormatter, err error) error {
	kind := translate.KindOf(err)
	details := map[string]string{"kind": string(kind)}
	message := err.Error()

	var trErr *translate.TranslateError
	if errors.As(err, &trErr) {
		message = trErr.Message
		if trErr.Token != "" {
			details["near"] = trErr.Token
		}
		if trErr.Err != nil {
			message += ": " + trErr.Err.Error()
		}
	}

	_ = formatter.Error(translateErrorCode(kind), message, details)
	// Rejected queries are failures (exit code 1)
	return WrapExitError(ExitFailure, "translation failed", err)
}

// checkErrorDetail is one catalog check error in JSON output.
type checkErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// outputCheckErrors outputs every check error of expr.
func outputCheckErrors(formatter *OutputFormatter, expr ra.RelExpr, errs []catalog.CheckError) error {
	message := fmt.Sprintf("check failed with %d error(s)", len(errs))

	if formatter.IsJSON() {
		details := make([]checkErrorDetail, len(errs))
		for i, e := range errs {
			details[i] = checkErrorDetail{Code: e.Code, Message: e.Message}
		}
		_ = formatter.Failure(ErrCodeCheckFailed, message, map[string]any{
			"ra":     expr.String(),
			"errors": details,
		})
		return NewExitError(ExitFailure, message)
	}

	fmt.Fprintln(formatter.Writer, expr.String())
	fmt.Fprintf(formatter.Writer, "✗ %s\n", message)
	for _, e := range errs {
		fmt.Fprintf(formatter.Writer, "  %s: %s\n", e.Code, e.Message)
	}
	return NewExitError(ExitFailure, message)
}

// outputLoadError outputs a schema loading error.
func outputLoadError(formatter *OutputFormatter, err error) error {
	var loadErr *LoadError
	if !errors.As(err, &loadErr) {
		loadErr = &LoadError{Code: ErrCodeGeneric, Message: err.Error()}
	}

	var details any
	if loadErr.Pos.IsValid() {
		details = map[string]any{
			"file":   loadErr.Pos.Filename(),
			"line":   loadErr.Pos.Line(),
			"column": loadErr.Pos.Column(),
		}
		if !formatter.IsJSON() {
			fmt.Fprintf(formatter.Writer, "%s:%d:%d\n", loadErr.Pos.Filename(), loadErr.Pos.Line(), loadErr.Pos.Column())
		}
	}
	_ = formatter.Error(loadErr.Code, loadErr.Message, details)
	// Schema problems are command-level errors (exit code 2)
	return WrapExitError(ExitCommandError, "failed to load schema", err)
}
