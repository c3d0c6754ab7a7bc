package translate

import (
	"strings"
	"unicode"

	"github.com/roach88/sql2ra/internal/sqlparse"
)

// nameOf returns the name a Name token denotes. Quoted names are accepted
// only when every dotted part is a plain identifier, since relational
// algebra text has no quoting.
func nameOf(tok *sqlparse.Token) (string, error) {
	name := tok.Normalized()
	for _, part := range strings.Split(name, ".") {
		if !isIdentifier(part) {
			return "", unsupported(tok.Value, "name %s cannot be written without quotes", tok.Value)
		}
	}
	return name, nil
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || unicode.IsLetter(r):
		case i > 0 && unicode.IsDigit(r):
		default:
			return false
		}
	}
	return true
}
