package cli

import (
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"

	// TraceIDs produces the trace_id of each invocation. Tests replace it
	// with a fixed generator.
	TraceIDs TraceIDGenerator
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the sql2ra CLI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{TraceIDs: UUIDv7Generator{}})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sql2ra",
		Short: "Translate SQL queries to relational algebra",
		Long: `Translate SELECT DISTINCT queries into relational algebra expressions.

The translated subset is SELECT DISTINCT over a comma-separated FROM list
with an optional WHERE clause of equalities joined by AND. The output uses
the radb notation: \project, \select, \cross and \rename.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Validate format flag
			if !isValidFormat(opts.Format) {
				msg := fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
				fmt.Fprintf(cmd.ErrOrStderr(), "Error [%s]: %s\n", ErrCodeGeneric, msg)
				return NewExitError(ExitCommandError, msg)
			}
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	// Add subcommands
	cmd.AddCommand(NewTranslateCommand(opts))
	cmd.AddCommand(NewEvalCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}

// newFormatter builds the formatter of one command invocation and the
// logger whose records carry the same trace id.
func newFormatter(opts *RootOptions, cmd *cobra.Command) (*OutputFormatter, *slog.Logger) {
	gen := opts.TraceIDs
	if gen == nil {
		gen = UUIDv7Generator{}
	}
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
		TraceID:   gen.Generate(),
	}
	return formatter, newLogger(formatter.GetErrWriter(), opts.Verbose).With("trace_id", formatter.TraceID)
}

// newLogger returns a text logger at Debug level when verbose, Warn
// otherwise.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
