package translate

import (
	"io"
	"log/slog"

	"github.com/roach88/sql2ra/internal/ra"
	"github.com/roach88/sql2ra/internal/sqlparse"
)

// Translator converts parsed statements into relational algebra.
//
// Thread-safety: a Translator holds no per-statement state and is safe for
// concurrent use. Every call assembles its own Tree.
type Translator struct {
	logger *slog.Logger
}

// NewTranslator creates a translator that logs to logger.
// A nil logger discards all output.
func NewTranslator(logger *slog.Logger) *Translator {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Translator{logger: logger}
}

var defaultTranslator = NewTranslator(nil)

// Translate converts stmt using a translator that discards logs.
func Translate(stmt *sqlparse.Statement) (ra.RelExpr, error) {
	return defaultTranslator.Translate(stmt)
}

// TranslateSQL parses and converts sql. Syntax errors are reported as
// MALFORMED_INPUT.
func TranslateSQL(sql string) (ra.RelExpr, error) {
	return defaultTranslator.TranslateSQL(sql)
}

// TranslateSQL parses and converts sql.
func (tr *Translator) TranslateSQL(sql string) (ra.RelExpr, error) {
	stmt, err := sqlparse.Parse(sql)
	if err != nil {
		return nil, &TranslateError{Kind: KindMalformedInput, Message: "cannot tokenize statement", Err: err}
	}
	return tr.Translate(stmt)
}

// Translate converts stmt into an RA expression.
//
// The statement's relations are inserted first, then its WHERE conditions,
// then its projected attributes; the resulting tree is folded into the
// expression. On error no expression is returned.
func (tr *Translator) Translate(stmt *sqlparse.Statement) (ra.RelExpr, error) {
	if stmt == nil {
		return nil, malformed("", "nil statement")
	}

	c, err := classify(stmt)
	if err != nil {
		return nil, err
	}
	tr.logger.Debug("classified statement",
		"relation_tokens", len(c.relations),
		"has_where", c.condition != nil,
		"projection_tokens", len(c.projections))

	relations, err := buildRelations(c.relations)
	if err != nil {
		return nil, err
	}
	preds, err := buildConditions(c.condition)
	if err != nil {
		return nil, err
	}
	attrs, err := buildProjections(c.projections)
	if err != nil {
		return nil, err
	}

	tree := NewTree()
	if err := insertRelations(tree, relations); err != nil {
		return nil, err
	}
	if err := insertConditions(tree, preds); err != nil {
		return nil, err
	}
	if err := insertProjections(tree, attrs); err != nil {
		return nil, err
	}
	tr.logger.Debug("assembled tree",
		"relations", len(relations),
		"conditions", len(preds),
		"attributes", len(attrs),
		"nodes", tree.Len())

	expr, err := tree.Fold()
	if err != nil {
		return nil, err
	}
	tr.logger.Debug("translated statement", "ra", expr.String())
	return expr, nil
}
