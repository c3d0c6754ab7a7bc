package translate

import (
	"github.com/roach88/sql2ra/internal/ra"
	"github.com/roach88/sql2ra/internal/sqlparse"
)

// buildRelations turns FROM tokens into relation expressions, one per
// comma-separated segment. A name following a relation in the same segment
// is its alias:
//
//	Person          → Person
//	Person X        → \rename_{X: *} Person
//	Person AS X     → \rename_{X: *} Person
func buildRelations(tokens []*sqlparse.Token) ([]ra.RelExpr, error) {
	var relations []ra.RelExpr
	renaming := false // last relation may still take an alias
	aliased := false  // last relation already took one
	expectAlias := false
	segmentEmpty := true

	for _, tok := range tokens {
		if tok.IsWhitespace() {
			continue
		}

		if tok.Kind == sqlparse.Punctuation && tok.Value == "," {
			if segmentEmpty || expectAlias {
				return nil, malformed(tok.Value, "empty relation in FROM clause")
			}
			renaming, aliased, segmentEmpty = false, false, true
			continue
		}

		if tok.Is("AS") {
			if !renaming {
				return nil, malformed(tok.Value, "AS without a preceding relation")
			}
			expectAlias = true
			continue
		}

		if tok.Kind != sqlparse.Name {
			if tok.IsKeyword() {
				return nil, unsupported(tok.Value, "keyword %s in FROM clause", tok.Normalized())
			}
			return nil, malformed(tok.Value, "expected a relation name")
		}

		name, err := nameOf(tok)
		if err != nil {
			return nil, err
		}

		switch {
		case renaming:
			last := len(relations) - 1
			relations[last] = &ra.Rename{Alias: name, Input: relations[last]}
			renaming, aliased, expectAlias = false, true, false
		case aliased:
			return nil, malformed(tok.Value, "relation has more than one alias")
		default:
			relations = append(relations, &ra.RelRef{Name: name})
			renaming, segmentEmpty = true, false
		}
	}

	if expectAlias {
		return nil, malformed("AS", "AS without an alias")
	}
	if segmentEmpty {
		return nil, malformed("", "empty relation in FROM clause")
	}
	return relations, nil
}

// insertRelations adds the relations to t left to right.
func insertRelations(t *Tree, relations []ra.RelExpr) error {
	for _, r := range relations {
		if err := t.InsertRelation(r); err != nil {
			return err
		}
	}
	return nil
}
