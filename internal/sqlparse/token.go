// Package sqlparse tokenizes SQL query text and groups the tokens into the
// clause structure the translator consumes.
//
// Parse never builds a full syntax tree. It produces a flat sequence of
// tokens in which a few compound constructs are pre-grouped:
//
//   - IdentifierList: a comma-separated select list or FROM list
//   - Where: the WHERE clause up to the end of the statement
//   - Comparison: "operand op operand" inside a WHERE clause
//
// Whitespace is preserved as tokens so that the concatenation of all token
// values reproduces the input text.
package sqlparse

import (
	"fmt"
	"strings"
)

// Kind identifies the lexical class of a token.
type Kind int

const (
	Whitespace Kind = iota
	Keyword
	Name
	Number
	String
	Wildcard
	Punctuation
	Operator

	// Group kinds carry Children.
	IdentifierList
	Comparison
	Where
)

var kindNames = map[Kind]string{
	Whitespace:     "Whitespace",
	Keyword:        "Keyword",
	Name:           "Name",
	Number:         "Number",
	String:         "String",
	Wildcard:       "Wildcard",
	Punctuation:    "Punctuation",
	Operator:       "Operator",
	IdentifierList: "IdentifierList",
	Comparison:     "Comparison",
	Where:          "Where",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Position is a location in the input text.
type Position struct {
	Line   int // 1-based
	Column int // 1-based
	Offset int // 0-based byte offset
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Token is a lexical unit or a group of them.
type Token struct {
	Kind     Kind
	Value    string // raw source text, including quotes for literals
	Children []*Token
	Pos      Position
}

// IsWhitespace reports whether the token is a whitespace run.
func (t *Token) IsWhitespace() bool {
	return t.Kind == Whitespace
}

// IsKeyword reports whether the token is a reserved word.
func (t *Token) IsKeyword() bool {
	return t.Kind == Keyword
}

// IsGroup reports whether the token groups child tokens.
func (t *Token) IsGroup() bool {
	switch t.Kind {
	case IdentifierList, Comparison, Where:
		return true
	default:
		return false
	}
}

// Normalized returns the canonical text of the token: upper case for
// keywords, the unquoted content for string literals and quoted names,
// the raw value otherwise.
func (t *Token) Normalized() string {
	switch t.Kind {
	case Keyword:
		return strings.ToUpper(t.Value)
	case String:
		return unquote(t.Value, '\'')
	case Name:
		if strings.HasPrefix(t.Value, `"`) {
			return unquote(t.Value, '"')
		}
		return t.Value
	default:
		return t.Value
	}
}

// Is reports whether t is the keyword kw (case-insensitive).
func (t *Token) Is(kw string) bool {
	return t.Kind == Keyword && strings.EqualFold(t.Value, kw)
}

// NonWhitespace returns the children of a group without whitespace tokens.
func (t *Token) NonWhitespace() []*Token {
	out := make([]*Token, 0, len(t.Children))
	for _, c := range t.Children {
		if !c.IsWhitespace() {
			out = append(out, c)
		}
	}
	return out
}

func (t *Token) String() string {
	return fmt.Sprintf("%s(%q)", t.Kind, t.Value)
}

func unquote(s string, q byte) string {
	if len(s) >= 2 && s[0] == q && s[len(s)-1] == q {
		s = s[1 : len(s)-1]
	}
	return strings.ReplaceAll(s, string([]byte{q, q}), string(q))
}

// Statement is one parsed SQL statement.
type Statement struct {
	Tokens []*Token
}

// String reproduces the statement text.
func (s *Statement) String() string {
	var b strings.Builder
	for _, t := range s.Tokens {
		b.WriteString(t.Value)
	}
	return b.String()
}

// newGroup builds a group token whose value is the concatenation of its
// children.
func newGroup(kind Kind, children []*Token) *Token {
	var b strings.Builder
	for _, c := range children {
		b.WriteString(c.Value)
	}
	g := &Token{Kind: kind, Value: b.String(), Children: children}
	if len(children) > 0 {
		g.Pos = children[0].Pos
	}
	return g
}
