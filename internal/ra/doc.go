// Package ra provides the relational algebra expression vocabulary that
// translated SQL queries are expressed in.
//
// ARCHITECTURE:
//
// The RA vocabulary sits between the translator and everything that
// consumes a translated query:
//
//	[SQL text] → [sqlparse] → [translate] → [RA expression] → String()
//	                                                        → catalog.Check
//	                                                        → rasql.Compile
//
// OPERATORS:
//
// Relation expressions (RelExpr):
//   - RelRef(name)            - a stored relation
//   - Rename(alias, input)    - relabel a relation under an alias, all attributes kept
//   - Cross(left, right)      - cross product
//   - Select(cond, input)     - keep rows satisfying cond
//   - Project(attrs, input)   - keep the listed attributes (set semantics)
//
// Value expressions (ValExpr):
//   - AttrRef(rel, name)      - attribute reference, rel optional
//   - Number, String          - literals
//   - BinaryOp(op, l, r)      - op is OpEq or OpAnd
//
// SEALED INTERFACES:
//
// RelExpr and ValExpr are sealed with marker methods. Only types in this
// package implement them, so consumers can switch exhaustively:
//
//	switch e := expr.(type) {
//	case *RelRef:
//	case *Rename:
//	case *Cross:
//	case *Select:
//	case *Project:
//	}
//
// TEXTUAL FORM:
//
// String renders the expression in the syntax accepted by the radb
// relational algebra interpreter:
//
//	\project_{Person.name} \select_{Person.name = Eats.name} (Person \cross Eats)
//
// Expressions are immutable once built. The translator assembles them
// bottom-up and never modifies a node after handing it out.
package ra
