package ra

import (
	"fmt"
	"strings"
)

// Op is a predicate operator. The set is closed: equality and conjunction
// are the only operators the translated SQL subset can express.
type Op int

const (
	// OpEq compares two values for equality.
	OpEq Op = iota + 1
	// OpAnd combines two predicates.
	OpAnd
)

// UnsupportedOpError reports an operator symbol outside {=, and}.
type UnsupportedOpError struct {
	Symbol string
}

func (e *UnsupportedOpError) Error() string {
	return fmt.Sprintf("unsupported operator %q", e.Symbol)
}

// ParseOp maps a source symbol to its operator.
// Symbols are matched case-insensitively ("AND" and "and" are the same).
func ParseOp(symbol string) (Op, error) {
	switch strings.ToLower(strings.TrimSpace(symbol)) {
	case "=":
		return OpEq, nil
	case "and":
		return OpAnd, nil
	default:
		return 0, &UnsupportedOpError{Symbol: symbol}
	}
}

// Symbol returns the radb spelling of the operator.
func (o Op) Symbol() string {
	switch o {
	case OpEq:
		return "="
	case OpAnd:
		return "and"
	default:
		return fmt.Sprintf("op(%d)", int(o))
	}
}

func (o Op) String() string {
	return o.Symbol()
}
