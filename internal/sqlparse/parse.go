package sqlparse

import (
	"golang.org/x/text/unicode/norm"
)

// Parse tokenizes and groups a single SQL statement.
//
// The input is NFC-normalized first so that identifiers written with
// combining characters compare equal to their precomposed spelling.
// A trailing ";" is allowed; anything but whitespace after it is an error.
func Parse(sql string) (*Statement, error) {
	tokens, err := tokenize(norm.NFC.String(sql))
	if err != nil {
		return nil, err
	}

	for i, t := range tokens {
		if !isTerminator(t) {
			continue
		}
		for _, rest := range tokens[i+1:] {
			if !rest.IsWhitespace() {
				return nil, &SyntaxError{Pos: rest.Pos, Message: "only one statement is supported"}
			}
		}
		break
	}

	return &Statement{Tokens: group(tokens)}, nil
}

// MustParse is like Parse but panics on error. Intended for tests.
func MustParse(sql string) *Statement {
	stmt, err := Parse(sql)
	if err != nil {
		panic(err)
	}
	return stmt
}
