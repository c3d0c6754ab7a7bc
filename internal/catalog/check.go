package catalog

import (
	"fmt"
	"strings"

	"github.com/roach88/sql2ra/internal/ra"
)

// Check error codes (E200-E209)
const (
	ErrUnknownRelation     = "E201" // relation not in catalog
	ErrUnknownQualifier    = "E202" // qualifier names no relation or alias in FROM
	ErrUnknownAttribute    = "E203" // attribute not found in any visible relation
	ErrAmbiguousAttribute  = "E204" // unqualified attribute found in several relations
	ErrDuplicateQualifier  = "E205" // two FROM items visible under the same name
	ErrIncompatibleOperand = "E206" // equality between incompatible types
)

// CheckError is a schema violation found in a translated expression.
type CheckError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (e CheckError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// scope is the set of sources visible to an expression's attribute
// references.
type scope struct {
	sources   []ra.Source
	relations []*Relation // nil where the relation is unknown
}

// Check validates expr against the catalog.
// Returns all errors found (does not fail-fast); nil means expr is valid.
//
// Checks, in order:
//   - every relation exists (E201)
//   - no two sources share a qualifier (E205)
//   - every qualified attribute names a source (E202) that has it (E203)
//   - every unqualified attribute exists in exactly one source (E203, E204)
//   - both sides of every equality have compatible types (E206)
//
// Attribute checks are skipped for references that could only resolve
// against an unknown relation, so one missing relation reports once.
func (c *Catalog) Check(expr ra.RelExpr) []CheckError {
	var errs []CheckError
	seen := make(map[CheckError]bool)
	add := func(code, format string, args ...any) {
		e := CheckError{Code: code, Message: fmt.Sprintf(format, args...)}
		if !seen[e] {
			seen[e] = true
			errs = append(errs, e)
		}
	}

	sc := scope{sources: ra.Sources(expr)}
	qualifiers := make(map[string]bool)
	for _, src := range sc.sources {
		rel, ok := c.Relation(src.Relation)
		if !ok {
			add(ErrUnknownRelation, "unknown relation %s", src.Relation)
		}
		sc.relations = append(sc.relations, rel)

		q := strings.ToLower(src.Qualifier())
		if qualifiers[q] {
			add(ErrDuplicateQualifier, "%s appears more than once in FROM; use an alias", src.Qualifier())
		}
		qualifiers[q] = true
	}

	for _, attr := range ra.AttrRefs(expr) {
		if _, code, msg := sc.resolve(attr); code != "" {
			add(code, "%s", msg)
		}
	}

	for _, term := range selectTerms(expr) {
		eq, ok := term.(*ra.BinaryOp)
		if !ok || eq.Op != ra.OpEq {
			continue
		}
		lt := sc.typeOf(eq.Left)
		rt := sc.typeOf(eq.Right)
		if !compatible(lt, rt) {
			add(ErrIncompatibleOperand, "cannot compare %s (%s) with %s (%s)", eq.Left, lt, eq.Right, rt)
		}
	}

	return errs
}

// resolve finds the attribute attr refers to. On failure it returns an
// error code and message. A zero Attribute with an empty code means the
// reference depends on an unknown relation and was not checked.
func (sc scope) resolve(attr *ra.AttrRef) (a Attribute, code, msg string) {
	if attr.Rel != "" {
		for i, src := range sc.sources {
			if !strings.EqualFold(src.Qualifier(), attr.Rel) {
				continue
			}
			rel := sc.relations[i]
			if rel == nil {
				return Attribute{}, "", ""
			}
			if a, ok := rel.Attribute(attr.Name); ok {
				return a, "", ""
			}
			return Attribute{}, ErrUnknownAttribute, fmt.Sprintf("%s has no attribute %s", src.Qualifier(), attr.Name)
		}
		return Attribute{}, ErrUnknownQualifier, fmt.Sprintf("%s does not name a relation in FROM", attr.Rel)
	}

	var found []string
	unknown := false
	for i, src := range sc.sources {
		rel := sc.relations[i]
		if rel == nil {
			unknown = true
			continue
		}
		if match, ok := rel.Attribute(attr.Name); ok {
			a = match
			found = append(found, src.Qualifier())
		}
	}
	switch {
	case len(found) > 1:
		return Attribute{}, ErrAmbiguousAttribute, fmt.Sprintf("attribute %s is ambiguous (%s)", attr.Name, strings.Join(found, ", "))
	case len(found) == 1:
		return a, "", ""
	case unknown:
		return Attribute{}, "", ""
	default:
		return Attribute{}, ErrUnknownAttribute, fmt.Sprintf("no relation in FROM has attribute %s", attr.Name)
	}
}

// typeOf returns the type of an equality operand, or TypeAny when it
// cannot be determined.
func (sc scope) typeOf(v ra.ValExpr) string {
	switch n := v.(type) {
	case *ra.AttrRef:
		a, code, _ := sc.resolve(n)
		if code != "" || a.Type == "" {
			return TypeAny
		}
		return a.Type
	case ra.Number:
		if strings.ContainsAny(string(n), ".eE") {
			return TypeFloat
		}
		return TypeInt
	case ra.String:
		return TypeString
	default:
		return TypeAny
	}
}

// compatible reports whether values of types a and b may be compared.
func compatible(a, b string) bool {
	if a == TypeAny || b == TypeAny || a == b {
		return true
	}
	numeric := func(t string) bool { return t == TypeInt || t == TypeFloat }
	return numeric(a) && numeric(b)
}

// selectTerms returns the conjuncts of every selection in expr.
func selectTerms(e ra.RelExpr) []ra.ValExpr {
	switch n := e.(type) {
	case *ra.Select:
		return append(ra.Conjuncts(n.Cond), selectTerms(n.Input)...)
	case *ra.Project:
		return selectTerms(n.Input)
	case *ra.Rename:
		return selectTerms(n.Input)
	case *ra.Cross:
		return append(selectTerms(n.Left), selectTerms(n.Right)...)
	default:
		return nil
	}
}
