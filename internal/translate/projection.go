package translate

import (
	"github.com/roach88/sql2ra/internal/ra"
	"github.com/roach88/sql2ra/internal/sqlparse"
)

// buildProjections returns the projected attributes in SELECT order, or
// nil for "*".
func buildProjections(tokens []*sqlparse.Token) ([]*ra.AttrRef, error) {
	var items []*sqlparse.Token
	for _, tok := range tokens {
		if tok.Kind == sqlparse.IdentifierList {
			items = append(items, tok.Children...)
			continue
		}
		items = append(items, tok)
	}

	var attrs []*ra.AttrRef
	star := false
	expectItem := true
	for _, tok := range items {
		switch {
		case tok.IsWhitespace():
			continue
		case tok.Kind == sqlparse.Punctuation && tok.Value == ",":
			if expectItem {
				return nil, malformed(tok.Value, "empty item in select list")
			}
			expectItem = true
		case !expectItem:
			return nil, malformed(tok.Value, "select list items must be separated by commas")
		case tok.Kind == sqlparse.Wildcard:
			star = true
			expectItem = false
		case tok.Kind == sqlparse.Name:
			name, err := nameOf(tok)
			if err != nil {
				return nil, err
			}
			attrs = append(attrs, ra.ParseAttrRef(name))
			expectItem = false
		case tok.IsKeyword():
			return nil, unsupported(tok.Value, "keyword %s in select list", tok.Normalized())
		default:
			return nil, unsupported(tok.Value, "only attribute names may be selected")
		}
	}

	if expectItem {
		return nil, malformed("", "select list ends with a comma")
	}
	if star {
		if len(attrs) > 0 {
			return nil, unsupported("*", "* cannot be combined with attribute names")
		}
		return nil, nil
	}
	return attrs, nil
}

// insertProjections adds one projection per attribute to t, in SELECT
// order.
func insertProjections(t *Tree, attrs []*ra.AttrRef) error {
	for _, a := range attrs {
		if err := t.InsertProjection(a); err != nil {
			return err
		}
	}
	return nil
}
