package rasql

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/roach88/sql2ra/internal/catalog"
	"github.com/roach88/sql2ra/internal/ra"
)

// ErrUnsupportedShape is returned for expressions outside the shape
// produced by the translator:
//
//	[Project] [Select] (RelRef | Rename(RelRef)) { Cross ... }
var ErrUnsupportedShape = errors.New("unsupported expression shape")

// SQLCompiler compiles RA expressions to parameterized SQL for SQLite.
//
// All literals are parameterized (never interpolated) and every identifier
// is quoted. Every query with a known column list ends in ORDER BY over all
// of its columns, so results come back in a deterministic order.
type SQLCompiler struct {
	// Catalog, when set, expands "*" into the sources' columns so the
	// result can be ordered. Without it "*" is emitted as is.
	Catalog *catalog.Catalog
}

// NewSQLCompiler creates a new SQLCompiler. cat may be nil.
func NewSQLCompiler(cat *catalog.Catalog) *SQLCompiler {
	return &SQLCompiler{Catalog: cat}
}

// query is an expression taken apart into SQL clauses.
type query struct {
	attrs   []*ra.AttrRef // nil for all columns
	cond    ra.ValExpr    // nil without WHERE
	sources []ra.Source
}

// Compile converts an RA expression to a SQL query.
// Returns (sql, params, error) tuple.
//
// Example:
//
//	\project_{X.name} \select_{X.age = 16} \rename_{X: *} Person
//
// compiles to
//
//	SELECT DISTINCT "X"."name" FROM "Person" AS "X" WHERE "X"."age" = ? ORDER BY "X"."name" COLLATE BINARY ASC
//
// with params [16].
func (c *SQLCompiler) Compile(expr ra.RelExpr) (string, []any, error) {
	if expr == nil {
		return "", nil, fmt.Errorf("cannot compile nil expression")
	}

	q, err := decompose(expr)
	if err != nil {
		return "", nil, err
	}

	columns, err := c.compileColumns(q)
	if err != nil {
		return "", nil, err
	}
	selectClause := "*"
	if len(columns) > 0 {
		selectClause = strings.Join(columns, ", ")
	}

	from := make([]string, len(q.sources))
	for i, src := range q.sources {
		from[i] = quoteIdent(src.Relation)
		if src.Alias != "" {
			from[i] += " AS " + quoteIdent(src.Alias)
		}
	}

	var whereClause string
	var params []any
	if q.cond != nil {
		condSQL, condParams, err := c.compilePredicate(q.cond)
		if err != nil {
			return "", nil, fmt.Errorf("compile condition: %w", err)
		}
		whereClause = " WHERE " + condSQL
		params = condParams
	}

	var orderByClause string
	if len(columns) > 0 {
		keys := make([]string, len(columns))
		for i, col := range columns {
			keys[i] = col + " COLLATE BINARY ASC"
		}
		orderByClause = " ORDER BY " + strings.Join(keys, ", ")
	}

	sql := fmt.Sprintf("SELECT DISTINCT %s FROM %s%s%s",
		selectClause,
		strings.Join(from, ", "),
		whereClause,
		orderByClause)

	return sql, params, nil
}

// decompose splits expr into projection, selection and FROM items.
func decompose(expr ra.RelExpr) (query, error) {
	var q query

	if p, ok := expr.(*ra.Project); ok {
		if len(p.Attrs) == 0 {
			return q, fmt.Errorf("%w: projection without attributes", ErrUnsupportedShape)
		}
		q.attrs = p.Attrs
		expr = p.Input
	}
	if s, ok := expr.(*ra.Select); ok {
		q.cond = s.Cond
		expr = s.Input
	}

	var walk func(ra.RelExpr) error
	walk = func(e ra.RelExpr) error {
		switch n := e.(type) {
		case *ra.RelRef:
			q.sources = append(q.sources, ra.Source{Relation: n.Name})
		case *ra.Rename:
			ref, ok := n.Input.(*ra.RelRef)
			if !ok {
				return fmt.Errorf("%w: rename of %T", ErrUnsupportedShape, n.Input)
			}
			q.sources = append(q.sources, ra.Source{Relation: ref.Name, Alias: n.Alias})
		case *ra.Cross:
			if err := walk(n.Left); err != nil {
				return err
			}
			return walk(n.Right)
		default:
			return fmt.Errorf("%w: %T below the selection", ErrUnsupportedShape, e)
		}
		return nil
	}
	if err := walk(expr); err != nil {
		return query{}, err
	}
	return q, nil
}

// compileColumns returns the quoted select list, or nil for "*" when no
// catalog can expand it.
func (c *SQLCompiler) compileColumns(q query) ([]string, error) {
	if q.attrs != nil {
		cols := make([]string, len(q.attrs))
		for i, a := range q.attrs {
			cols[i] = compileAttr(a)
		}
		return cols, nil
	}

	if c.Catalog == nil {
		return nil, nil
	}
	var cols []string
	for _, src := range q.sources {
		rel, ok := c.Catalog.Relation(src.Relation)
		if !ok {
			return nil, fmt.Errorf("expand *: unknown relation %s", src.Relation)
		}
		for _, a := range rel.Attributes {
			cols = append(cols, compileAttr(&ra.AttrRef{Rel: src.Qualifier(), Name: a.Name}))
		}
	}
	return cols, nil
}

// compilePredicate compiles a selection condition to a WHERE fragment.
// Returns (sql, params, error).
func (c *SQLCompiler) compilePredicate(v ra.ValExpr) (string, []any, error) {
	b, ok := v.(*ra.BinaryOp)
	if !ok {
		return "", nil, fmt.Errorf("condition must be a comparison, got %s", v)
	}

	switch b.Op {
	case ra.OpEq:
		left, leftParams, err := compileOperand(b.Left)
		if err != nil {
			return "", nil, err
		}
		right, rightParams, err := compileOperand(b.Right)
		if err != nil {
			return "", nil, err
		}
		return left + " = " + right, append(leftParams, rightParams...), nil
	case ra.OpAnd:
		var parts []string
		var params []any
		for _, term := range ra.Conjuncts(b) {
			sql, termParams, err := c.compilePredicate(term)
			if err != nil {
				return "", nil, err
			}
			parts = append(parts, sql)
			params = append(params, termParams...)
		}
		return strings.Join(parts, " AND "), params, nil
	default:
		return "", nil, fmt.Errorf("unsupported operator %s", b.Op)
	}
}

// compileOperand compiles one side of a comparison.
// Literals are always parameterized.
func compileOperand(v ra.ValExpr) (string, []any, error) {
	switch n := v.(type) {
	case *ra.AttrRef:
		return compileAttr(n), nil, nil
	case ra.Number:
		param, err := numberParam(n)
		if err != nil {
			return "", nil, err
		}
		return "?", []any{param}, nil
	case ra.String:
		return "?", []any{string(n)}, nil
	default:
		return "", nil, fmt.Errorf("unsupported operand %s", v)
	}
}

// numberParam converts a numeric literal to int64 or float64.
func numberParam(n ra.Number) (any, error) {
	if i, err := strconv.ParseInt(string(n), 10, 64); err == nil {
		return i, nil
	}
	f, err := strconv.ParseFloat(string(n), 64)
	if err != nil {
		return nil, fmt.Errorf("convert number %s: %w", n, err)
	}
	return f, nil
}

func compileAttr(a *ra.AttrRef) string {
	if a.Rel == "" {
		return quoteIdent(a.Name)
	}
	return quoteIdent(a.Rel) + "." + quoteIdent(a.Name)
}

// quoteIdent quotes an SQLite identifier.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
