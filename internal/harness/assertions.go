package harness

import (
	"fmt"
	"slices"
	"strings"
)

// Assertion types.
const (
	AssertTranslation = "translation"
	AssertError       = "error"
	AssertCheck       = "check"
	AssertRows        = "rows"
)

// AssertionError is returned when a case does not meet an expectation.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Case     string // Case name
	Type     string // Assertion type for categorization
	Expected string // Human-readable expected outcome
	Actual   string // Human-readable actual outcome
	SQL      string // Statement under test
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s (case %s)\n", e.Type, e.Case)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)
	fmt.Fprintf(&buf, "  SQL: %s\n", e.SQL)

	return buf.String()
}

// EvaluateCase checks a case result against the case's expectations.
// Returns all failures (does not fail-fast).
func EvaluateCase(c Case, got CaseResult) []error {
	var errs []error
	fail := func(typ, expected, actual string) {
		errs = append(errs, &AssertionError{
			Case:     c.Name,
			Type:     typ,
			Expected: expected,
			Actual:   actual,
			SQL:      normalizeSQL(c.SQL),
		})
	}

	if c.Error != "" {
		if got.ErrorKind != c.Error {
			fail(AssertError, c.Error, describeOutcome(got))
		}
		return errs
	}

	if got.ErrorKind != "" {
		fail(AssertTranslation, "successful translation", describeOutcome(got))
		return errs
	}

	if c.Expect != "" && got.RA != c.Expect {
		fail(AssertTranslation, c.Expect, got.RA)
	}

	if !slices.Equal(c.Check, got.Check) {
		fail(AssertCheck, formatCodes(c.Check), formatCodes(got.Check))
	}

	if len(c.Rows) > 0 {
		want := formatRows(c.Rows)
		switch {
		case !got.Evaluated:
			fail(AssertRows, fmt.Sprintf("%d rows", len(want)), "not evaluated")
		case !slices.EqualFunc(want, got.Rows, slices.Equal[[]string]):
			fail(AssertRows, fmt.Sprintf("%v", want), fmt.Sprintf("%v", got.Rows))
		}
	}

	return errs
}

func describeOutcome(got CaseResult) string {
	if got.ErrorKind != "" {
		return fmt.Sprintf("%s: %s", got.ErrorKind, got.ErrorMessage)
	}
	return got.RA
}

func formatCodes(codes []string) string {
	if len(codes) == 0 {
		return "no check errors"
	}
	return strings.Join(codes, ", ")
}

// formatRows prints every cell with fmt.Sprint.
func formatRows(rows [][]any) [][]string {
	out := make([][]string, len(rows))
	for i, row := range rows {
		out[i] = make([]string, len(row))
		for j, v := range row {
			out[i][j] = formatCell(v)
		}
	}
	return out
}

func formatCell(v any) string {
	if v == nil {
		return "NULL"
	}
	return fmt.Sprint(v)
}

// normalizeSQL collapses runs of whitespace so multi-line YAML statements
// print on one line.
func normalizeSQL(sql string) string {
	return strings.Join(strings.Fields(sql), " ")
}
