package sqlparse

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	pg_query "github.com/pganalyze/pg_query_go/v5"
	pgparser "github.com/pganalyze/pg_query_go/v5/parser"
)

// keywords are the reserved words recognised by the lexer. Words outside
// this set are names, so identifiers such as select_from stay identifiers.
var keywords = map[string]bool{
	"SELECT": true, "DISTINCT": true, "ALL": true, "FROM": true, "WHERE": true,
	"AND": true, "OR": true, "NOT": true, "AS": true,
	"JOIN": true, "INNER": true, "LEFT": true, "RIGHT": true, "FULL": true,
	"OUTER": true, "CROSS": true, "NATURAL": true, "ON": true, "USING": true,
	"IN": true, "IS": true, "NULL": true, "LIKE": true, "BETWEEN": true, "EXISTS": true,
	"GROUP": true, "BY": true, "ORDER": true, "HAVING": true, "LIMIT": true,
	"UNION": true, "INTERSECT": true, "EXCEPT": true,
}

// IsKeyword reports whether word is a reserved word.
func IsKeyword(word string) bool {
	return keywords[strings.ToUpper(word)]
}

// SyntaxError reports text the lexer cannot tokenize.
type SyntaxError struct {
	Pos     Position
	Message string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at %s: %s", e.Pos, e.Message)
}

// tokenize splits input into tokens with the PostgreSQL scanner. Text the
// scanner skips (whitespace and comments) becomes Whitespace tokens, so the
// token values concatenate back to input.
func tokenize(input string) ([]*Token, error) {
	lines := newLineIndex(input)

	res, err := pg_query.Scan(input)
	if err != nil {
		return nil, scanError(input, lines, err)
	}

	var tokens []*Token
	emit := func(kind Kind, start, end int) {
		tokens = append(tokens, &Token{Kind: kind, Value: input[start:end], Pos: lines.position(start)})
	}

	scanned := res.GetTokens()
	prev := 0
	for i := 0; i < len(scanned); i++ {
		st := scanned[i]
		start, end := int(st.GetStart()), int(st.GetEnd())
		if start > prev {
			emit(Whitespace, prev, start)
		}

		switch {
		case isWord(st):
			// Person.name scans as three tokens.
			for i+2 < len(scanned) && touches(scanned[i+1], end) &&
				scanned[i+1].GetToken() == pg_query.Token_ASCII_46 &&
				isWord(scanned[i+2]) && touches(scanned[i+2], int(scanned[i+1].GetEnd())) {
				end = int(scanned[i+2].GetEnd())
				i += 2
			}
			if IsKeyword(input[start:end]) {
				emit(Keyword, start, end)
			} else {
				emit(Name, start, end)
			}
		default:
			kind, ok := tokenKinds[st.GetToken()]
			if !ok || (kind == String && !strings.HasPrefix(input[start:end], "'")) {
				return nil, &SyntaxError{Pos: lines.position(start), Message: fmt.Sprintf("unexpected %q", input[start:end])}
			}
			emit(kind, start, end)
		}
		prev = end
	}
	if prev < len(input) {
		emit(Whitespace, prev, len(input))
	}
	return tokens, nil
}

// tokenKinds maps scanner tokens other than words to token kinds.
var tokenKinds = map[pg_query.Token]Kind{
	pg_query.Token_SCONST:         String,
	pg_query.Token_ICONST:         Number,
	pg_query.Token_FCONST:         Number,
	pg_query.Token_ASCII_42:       Wildcard,    // *
	pg_query.Token_ASCII_44:       Punctuation, // ,
	pg_query.Token_ASCII_40:       Punctuation, // (
	pg_query.Token_ASCII_41:       Punctuation, // )
	pg_query.Token_ASCII_59:       Punctuation, // ;
	pg_query.Token_ASCII_46:       Punctuation, // .
	pg_query.Token_ASCII_61:       Operator,    // =
	pg_query.Token_ASCII_60:       Operator,    // <
	pg_query.Token_ASCII_62:       Operator,    // >
	pg_query.Token_ASCII_43:       Operator,    // +
	pg_query.Token_ASCII_45:       Operator,    // -
	pg_query.Token_ASCII_47:       Operator,    // /
	pg_query.Token_ASCII_37:       Operator,    // %
	pg_query.Token_ASCII_94:       Operator,    // ^
	pg_query.Token_LESS_EQUALS:    Operator,
	pg_query.Token_GREATER_EQUALS: Operator,
	pg_query.Token_NOT_EQUALS:     Operator, // <> and !=
	pg_query.Token_Op:             Operator,
}

// isWord reports whether st is an identifier or a keyword of any category.
func isWord(st *pg_query.ScanToken) bool {
	return st.GetToken() == pg_query.Token_IDENT || st.GetKeywordKind() != pg_query.KeywordKind_NO_KEYWORD
}

// touches reports whether st starts right at offset.
func touches(st *pg_query.ScanToken, offset int) bool {
	return int(st.GetStart()) == offset
}

// scanError converts a scanner failure into a SyntaxError.
func scanError(input string, lines lineIndex, err error) error {
	msg := err.Error()
	offset := 0

	var pgErr *pgparser.Error
	if errors.As(err, &pgErr) {
		msg = pgErr.Message
		offset = byteOffset(input, pgErr.Cursorpos-1)
	}
	return &SyntaxError{Pos: lines.position(offset), Message: msg}
}

// byteOffset returns the byte offset of the n-th character of s, clamped to
// the input.
func byteOffset(s string, n int) int {
	if n <= 0 {
		return 0
	}
	for i := range s {
		if n == 0 {
			return i
		}
		n--
	}
	return len(s)
}

// lineIndex holds the byte offset of every line start.
type lineIndex []int

func newLineIndex(s string) lineIndex {
	idx := lineIndex{0}
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			idx = append(idx, i+1)
		}
	}
	return idx
}

// position converts a byte offset to a line and a byte column.
func (li lineIndex) position(offset int) Position {
	line := sort.Search(len(li), func(i int) bool { return li[i] > offset })
	return Position{Line: line, Column: offset - li[line-1] + 1, Offset: offset}
}
