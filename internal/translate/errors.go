package translate

import (
	"errors"
	"fmt"
)

// ErrorKind categorizes translation failures.
type ErrorKind string

const (
	// KindUnsupportedConstruct marks SQL outside the translated subset:
	// operators other than equality, OR/NOT, joins, grouping.
	KindUnsupportedConstruct ErrorKind = "UNSUPPORTED_CONSTRUCT"

	// KindMalformedInput marks statements whose clauses have the wrong
	// shape: empty relation segments, incomplete comparisons.
	KindMalformedInput ErrorKind = "MALFORMED_INPUT"

	// KindStructuralViolation marks an intermediate tree the fold has no
	// rule for. It indicates a builder bug rather than bad input.
	KindStructuralViolation ErrorKind = "STRUCTURAL_INVARIANT_VIOLATION"
)

// TranslateError aborts the translation of one statement.
type TranslateError struct {
	Kind    ErrorKind
	Message string
	Token   string // offending source text, if any
	Err     error  // underlying cause, if any
}

func (e *TranslateError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Kind, e.Message)
	if e.Token != "" {
		msg += fmt.Sprintf(" (near %q)", e.Token)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *TranslateError) Unwrap() error {
	return e.Err
}

func unsupported(token, format string, args ...any) *TranslateError {
	return &TranslateError{Kind: KindUnsupportedConstruct, Message: fmt.Sprintf(format, args...), Token: token}
}

func malformed(token, format string, args ...any) *TranslateError {
	return &TranslateError{Kind: KindMalformedInput, Message: fmt.Sprintf(format, args...), Token: token}
}

func structural(format string, args ...any) *TranslateError {
	return &TranslateError{Kind: KindStructuralViolation, Message: fmt.Sprintf(format, args...)}
}

func hasKind(err error, kind ErrorKind) bool {
	var te *TranslateError
	if errors.As(err, &te) {
		return te.Kind == kind
	}
	return false
}

// IsUnsupported reports whether err is an UNSUPPORTED_CONSTRUCT error.
func IsUnsupported(err error) bool {
	return hasKind(err, KindUnsupportedConstruct)
}

// IsMalformed reports whether err is a MALFORMED_INPUT error.
func IsMalformed(err error) bool {
	return hasKind(err, KindMalformedInput)
}

// IsStructural reports whether err is a STRUCTURAL_INVARIANT_VIOLATION.
func IsStructural(err error) bool {
	return hasKind(err, KindStructuralViolation)
}

// KindOf returns the kind of a translation error, or "" for other errors.
func KindOf(err error) ErrorKind {
	var te *TranslateError
	if errors.As(err, &te) {
		return te.Kind
	}
	return ""
}
