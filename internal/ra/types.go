package ra

import (
	"fmt"
	"strings"
)

// RelExpr is a relation-valued expression.
//
// This is a sealed interface - only types in this package implement it.
// Every RelExpr renders itself in radb syntax via String.
type RelExpr interface {
	fmt.Stringer
	relExpr() // Marker method - seals interface to this package
}

// ValExpr is a value-valued expression used in selection conditions.
//
// This is a sealed interface - only types in this package implement it.
type ValExpr interface {
	fmt.Stringer
	valExpr() // Marker method - seals interface to this package
}

// RelRef references a stored relation by name.
type RelRef struct {
	Name string
}

func (*RelRef) relExpr() {}

// Rename relabels its input under Alias while keeping every attribute.
//
// Semantics:
//
//	\rename_{Alias: *} Input
//
// Attribute references qualified with Alias resolve against Input's schema.
type Rename struct {
	Alias string
	Input RelExpr
}

func (*Rename) relExpr() {}

// Cross is the cross product of two relations.
type Cross struct {
	Left  RelExpr
	Right RelExpr
}

func (*Cross) relExpr() {}

// Select keeps the rows of Input for which Cond holds.
//
// Cond is an equality or a conjunction of equalities; the translator never
// produces directly nested Select nodes.
type Select struct {
	Cond  ValExpr
	Input RelExpr
}

func (*Select) relExpr() {}

// Project keeps the listed attributes of Input, in order.
type Project struct {
	Attrs []*AttrRef
	Input RelExpr
}

func (*Project) relExpr() {}

// AttrRef references an attribute, optionally qualified by a relation name
// or alias.
type AttrRef struct {
	Rel  string // empty when unqualified
	Name string
}

func (*AttrRef) valExpr() {}

// ParseAttrRef splits a possibly qualified attribute name ("X.name") at the
// first dot.
func ParseAttrRef(s string) *AttrRef {
	if rel, name, ok := strings.Cut(s, "."); ok {
		return &AttrRef{Rel: rel, Name: name}
	}
	return &AttrRef{Name: s}
}

// Number is a numeric literal kept in its source spelling ("16", "3.5").
type Number string

func (Number) valExpr() {}

// String is a string literal without its surrounding quotes.
type String string

func (String) valExpr() {}

// BinaryOp applies Op to two value expressions.
type BinaryOp struct {
	Op    Op
	Left  ValExpr
	Right ValExpr
}

func (*BinaryOp) valExpr() {}

// Eq builds the equality predicate left = right.
func Eq(left, right ValExpr) *BinaryOp {
	return &BinaryOp{Op: OpEq, Left: left, Right: right}
}

// And builds the conjunction left and right.
func And(left, right ValExpr) *BinaryOp {
	return &BinaryOp{Op: OpAnd, Left: left, Right: right}
}
