package translate

import (
	"github.com/roach88/sql2ra/internal/ra"
	"github.com/roach88/sql2ra/internal/sqlparse"
)

var comparisonOperators = map[string]bool{
	"=": true, "<": true, ">": true, "<=": true, ">=": true, "<>": true, "!=": true,
}

// buildConditions turns a WHERE group into equality predicates in clause
// order. The predicates are implicitly ANDed.
func buildConditions(where *sqlparse.Token) ([]ra.ValExpr, error) {
	if where == nil {
		return nil, nil
	}

	// Arithmetic and signs keep the operands from grouping into comparisons,
	// so report them before anything else.
	for _, tok := range where.Children {
		if tok.Kind == sqlparse.Operator && !comparisonOperators[tok.Value] {
			return nil, unsupported(tok.Value, "operator %s is not supported", tok.Value)
		}
	}

	var preds []ra.ValExpr
	expectTerm := true
	for i, tok := range where.Children {
		switch {
		case tok.IsWhitespace() || (i == 0 && tok.Is("WHERE")):
			continue
		case tok.Is("WHERE") || tok.Is("SELECT") || tok.Is("DISTINCT") || tok.Is("FROM"):
			return nil, malformed(tok.Value, "keyword %s inside the WHERE clause", tok.Normalized())
		case tok.IsKeyword():
			op, err := ra.ParseOp(tok.Value)
			if err != nil {
				return nil, &TranslateError{
					Kind:    KindUnsupportedConstruct,
					Message: "keyword " + tok.Normalized() + " in WHERE clause; only AND may combine conditions",
					Token:   tok.Value,
					Err:     err,
				}
			}
			if op != ra.OpAnd || expectTerm {
				return nil, malformed(tok.Value, "AND without a preceding condition")
			}
			expectTerm = true
		case tok.Kind == sqlparse.Comparison:
			if !expectTerm {
				return nil, malformed(tok.Value, "conditions must be separated by AND")
			}
			pred, err := buildComparison(tok)
			if err != nil {
				return nil, err
			}
			preds = append(preds, pred)
			expectTerm = false
		case tok.Kind == sqlparse.Punctuation && (tok.Value == "(" || tok.Value == ")"):
			return nil, unsupported(tok.Value, "parenthesized conditions are not supported")
		default:
			return nil, malformed(tok.Value, "expected a comparison")
		}
	}

	if len(preds) == 0 {
		return nil, malformed(where.Value, "WHERE clause has no conditions")
	}
	if expectTerm {
		return nil, malformed(where.Value, "WHERE clause ends with AND")
	}
	return preds, nil
}

// buildComparison decomposes "left op right" into an equality predicate.
func buildComparison(cmp *sqlparse.Token) (ra.ValExpr, error) {
	parts := cmp.NonWhitespace()
	if len(parts) != 3 {
		return nil, malformed(cmp.Value, "comparison needs a left operand, an operator and a right operand")
	}

	op, err := ra.ParseOp(parts[1].Value)
	if err != nil {
		return nil, &TranslateError{
			Kind:    KindUnsupportedConstruct,
			Message: "only equality comparisons are supported",
			Token:   cmp.Value,
			Err:     err,
		}
	}
	if op != ra.OpEq {
		return nil, malformed(cmp.Value, "operator %s cannot compare values", op)
	}

	left, err := buildOperand(parts[0])
	if err != nil {
		return nil, err
	}
	right, err := buildOperand(parts[2])
	if err != nil {
		return nil, err
	}
	return ra.Eq(left, right), nil
}

func buildOperand(tok *sqlparse.Token) (ra.ValExpr, error) {
	switch tok.Kind {
	case sqlparse.Name:
		name, err := nameOf(tok)
		if err != nil {
			return nil, err
		}
		return ra.ParseAttrRef(name), nil
	case sqlparse.Number:
		return ra.Number(tok.Value), nil
	case sqlparse.String:
		return ra.String(tok.Normalized()), nil
	default:
		return nil, malformed(tok.Value, "expected an attribute or a literal")
	}
}

// insertConditions adds one selection per predicate to t.
func insertConditions(t *Tree, preds []ra.ValExpr) error {
	for _, p := range preds {
		if err := t.InsertSelection(p); err != nil {
			return err
		}
	}
	return nil
}
