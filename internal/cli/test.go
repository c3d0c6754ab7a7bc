package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roach88/sql2ra/internal/harness"
)

// TestOptions holds flags for the test command.
type TestOptions struct {
	*RootOptions
	Update bool   // regenerate golden files
	Filter string // scenario filter (glob pattern)
	Golden string // golden directory, defaults to <scenarios-dir>/golden
}

// NewTestCommand creates the test command.
func NewTestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TestOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "test <scenarios-dir>",
		Short: "Run translation scenarios",
		Long: `Run YAML translation scenarios.

Each scenario lists SQL statements with the expression, error kind,
check codes or rows they must produce. Its snapshot is compared with
<golden-dir>/<scenario>.golden.

Exit codes:
  0 - All scenarios passed
  1 - One or more scenarios failed
  2 - Command error (invalid paths, etc.)

Examples:
  sql2ra test ./testdata/scenarios
  sql2ra test ./testdata/scenarios --filter "pizza*"
  sql2ra test ./testdata/scenarios --update
  sql2ra test ./testdata/scenarios --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTests(cmd.Context(), opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Update, "update", false, "regenerate golden files")
	cmd.Flags().StringVar(&opts.Filter, "filter", "", "filter scenarios by glob pattern")
	cmd.Flags().StringVar(&opts.Golden, "golden", "", "golden file directory (default <scenarios-dir>/golden)")

	return cmd
}

func runTests(ctx context.Context, opts *TestOptions, scenariosPath string, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	formatter, logger := newFormatter(opts.RootOptions, cmd)

	paths, err := harness.FindScenarios(scenariosPath, opts.Filter)
	if err != nil {
		var notFound *harness.ScenarioNotFoundError
		if errors.As(err, &notFound) {
			_ = formatter.Error(ErrCodeNotFound, fmt.Sprintf("scenarios directory not found: %s", scenariosPath), nil)
			return NewExitError(ExitCommandError, fmt.Sprintf("scenarios directory not found: %s", scenariosPath))
		}
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to find scenarios", err)
	}

	if len(paths) == 0 {
		if formatter.IsJSON() {
			return formatter.Success(&harness.SuiteResult{})
		}
		fmt.Fprintln(formatter.Writer, "No scenarios found.")
		return nil
	}

	goldenDir := opts.Golden
	if goldenDir == "" {
		goldenDir = defaultGoldenDir(scenariosPath, paths)
	}
	formatter.VerboseLog("Running %d scenario(s), golden files in %s", len(paths), goldenDir)

	result, err := harness.RunSuite(ctx, paths, harness.SuiteOptions{
		GoldenDir: goldenDir,
		Update:    opts.Update,
		Logger:    logger,
	})
	if err != nil {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to run scenarios", err)
	}

	if formatter.IsJSON() {
		return outputTestJSON(formatter, result)
	}
	return outputTestText(formatter, result, opts.Update)
}

// defaultGoldenDir returns <dir>/golden, where dir is the scenarios
// directory or, for a single file, the directory holding it.
func defaultGoldenDir(scenariosPath string, paths []string) string {
	if len(paths) == 1 && paths[0] == scenariosPath {
		return filepath.Join(filepath.Dir(scenariosPath), "golden")
	}
	return filepath.Join(scenariosPath, "golden")
}

// outputTestJSON outputs the suite result as JSON.
func outputTestJSON(formatter *OutputFormatter, result *harness.SuiteResult) error {
	if result.Failed > 0 {
		message := fmt.Sprintf("%d scenario(s) failed", result.Failed)
		if err := formatter.Failure(ErrCodeTestFailed, message, result); err != nil {
			return err
		}
		// Test failures = exit code 1
		return NewExitError(ExitFailure, message)
	}
	return formatter.Success(result)
}

// outputTestText outputs the suite result as text.
func outputTestText(formatter *OutputFormatter, result *harness.SuiteResult, updated bool) error {
	w := formatter.Writer

	for _, f := range result.Failures {
		fmt.Fprintf(w, "✗ %s (%s)\n", f.Scenario, f.Path)
		for _, e := range f.Errors {
			fmt.Fprintf(w, "  %s\n", e)
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Test Summary: %d passed, %d failed, %d total\n", result.Passed, result.Failed, result.Total)
	if updated {
		fmt.Fprintf(w, "Updated %d golden file(s)\n", result.Updated)
	}

	if result.Failed > 0 {
		// Test failures = exit code 1
		return NewExitError(ExitFailure, fmt.Sprintf("%d scenario(s) failed", result.Failed))
	}

	fmt.Fprintln(w, "✓ All scenarios passed")
	return nil
}
