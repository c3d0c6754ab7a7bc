package translate

import (
	"github.com/roach88/sql2ra/internal/sqlparse"
)

// clauses holds the token groups of one statement.
type clauses struct {
	relations   []*sqlparse.Token // FROM clause, groups expanded one level
	condition   *sqlparse.Token   // WHERE group, nil without WHERE
	projections []*sqlparse.Token // SELECT list
}

// classify partitions the top-level tokens of stmt into relation,
// condition and projection tokens. The statement must have the shape
// SELECT [DISTINCT] <list> FROM <relations> [WHERE <conditions>].
func classify(stmt *sqlparse.Statement) (*clauses, error) {
	c := &clauses{}
	inFrom := false
	sawSelect := false
	afterSelect := false // previous token was SELECT
	var relationTokens []*sqlparse.Token

	for _, tok := range stmt.Tokens {
		if tok.IsWhitespace() || (tok.Kind == sqlparse.Punctuation && tok.Value == ";") {
			continue
		}

		if tok.IsKeyword() {
			switch {
			case tok.Is("SELECT"):
				if sawSelect {
					return nil, malformed(tok.Value, "SELECT may only start the statement")
				}
				sawSelect, afterSelect = true, true
				continue
			case tok.Is("DISTINCT"):
				if !afterSelect {
					return nil, malformed(tok.Value, "DISTINCT must directly follow SELECT")
				}
				afterSelect = false
				continue
			case tok.Is("FROM"):
				if !sawSelect {
					return nil, malformed(tok.Value, "statement must start with SELECT")
				}
				if inFrom {
					return nil, malformed(tok.Value, "statement has more than one FROM clause")
				}
				inFrom, afterSelect = true, false
				continue
			case tok.Is("WHERE"):
				return nil, malformed(tok.Value, "WHERE clause before FROM")
			default:
				return nil, unsupported(tok.Value, "keyword %s is not supported", tok.Normalized())
			}
		}

		if !sawSelect {
			return nil, malformed(tok.Value, "statement must start with SELECT")
		}
		afterSelect = false

		if !inFrom {
			c.projections = append(c.projections, tok)
			continue
		}

		if tok.Kind == sqlparse.Where {
			if c.condition != nil {
				return nil, malformed(tok.Value, "statement has more than one WHERE clause")
			}
			c.condition = tok
			continue
		}

		relationTokens = append(relationTokens, tok)
	}

	if !inFrom {
		return nil, malformed("", "statement has no FROM clause")
	}
	if len(c.projections) == 0 {
		return nil, malformed("", "statement has an empty select list")
	}

	// Expand groups one level so commas and aliases are visible.
	for _, tok := range relationTokens {
		if tok.IsGroup() {
			c.relations = append(c.relations, tok.Children...)
			continue
		}
		c.relations = append(c.relations, tok)
	}
	if len(c.relations) == 0 {
		return nil, malformed("", "FROM clause lists no relations")
	}

	return c, nil
}
