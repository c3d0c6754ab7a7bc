package ra

// Source is a relation leaf of an expression as seen from the operators
// above it: a stored relation, possibly visible under an alias.
type Source struct {
	Relation string
	Alias    string // empty when the relation is not renamed
}

// Qualifier returns the name attribute references use for this source.
func (s Source) Qualifier() string {
	if s.Alias != "" {
		return s.Alias
	}
	return s.Relation
}

// Sources returns the relation leaves of e from left to right.
// A Rename directly over a RelRef contributes one aliased source.
func Sources(e RelExpr) []Source {
	var out []Source
	var walk func(RelExpr, string)
	walk = func(e RelExpr, alias string) {
		switch n := e.(type) {
		case *RelRef:
			out = append(out, Source{Relation: n.Name, Alias: alias})
		case *Rename:
			walk(n.Input, n.Alias)
		case *Cross:
			walk(n.Left, "")
			walk(n.Right, "")
		case *Select:
			walk(n.Input, "")
		case *Project:
			walk(n.Input, "")
		}
	}
	walk(e, "")
	return out
}

// Conjuncts flattens a conjunction into its terms, left to right.
// A nil predicate has no terms.
func Conjuncts(v ValExpr) []ValExpr {
	if v == nil {
		return nil
	}
	if b, ok := v.(*BinaryOp); ok && b.Op == OpAnd {
		return append(Conjuncts(b.Left), Conjuncts(b.Right)...)
	}
	return []ValExpr{v}
}

// AttrRefs returns every attribute reference in e: projection lists first
// from the outermost operator inwards, then selection conditions.
func AttrRefs(e RelExpr) []*AttrRef {
	var out []*AttrRef
	var walkVal func(ValExpr)
	walkVal = func(v ValExpr) {
		switch n := v.(type) {
		case *AttrRef:
			out = append(out, n)
		case *BinaryOp:
			walkVal(n.Left)
			walkVal(n.Right)
		}
	}
	var walk func(RelExpr)
	walk = func(e RelExpr) {
		switch n := e.(type) {
		case *Rename:
			walk(n.Input)
		case *Cross:
			walk(n.Left)
			walk(n.Right)
		case *Select:
			walkVal(n.Cond)
			walk(n.Input)
		case *Project:
			out = append(out, n.Attrs...)
			walk(n.Input)
		}
	}
	walk(e)
	return out
}

// ToMap converts e into nested maps suitable for JSON encoding.
//
// Example:
//
//	{"op": "select", "cond": "age = 16", "input": {"op": "relation", "name": "Person"}}
func ToMap(e RelExpr) map[string]any {
	switch n := e.(type) {
	case *RelRef:
		return map[string]any{"op": "relation", "name": n.Name}
	case *Rename:
		return map[string]any{"op": "rename", "alias": n.Alias, "input": ToMap(n.Input)}
	case *Cross:
		return map[string]any{"op": "cross", "left": ToMap(n.Left), "right": ToMap(n.Right)}
	case *Select:
		return map[string]any{"op": "select", "cond": n.Cond.String(), "input": ToMap(n.Input)}
	case *Project:
		attrs := make([]string, len(n.Attrs))
		for i, a := range n.Attrs {
			attrs[i] = a.String()
		}
		return map[string]any{"op": "project", "attrs": attrs, "input": ToMap(n.Input)}
	default:
		return nil
	}
}
