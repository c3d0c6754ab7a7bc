package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/sql2ra/internal/catalog"
	"github.com/roach88/sql2ra/internal/rasql"
	"github.com/roach88/sql2ra/internal/store"
	"github.com/roach88/sql2ra/internal/translate"
)

// Harness is the scenario execution engine.
type Harness struct {
	store      *store.Store // nil without setup statements
	catalog    *catalog.Catalog
	translator *translate.Translator
	compiler   *rasql.SQLCompiler
	logger     *slog.Logger
}

// Run executes a scenario and returns the result, discarding logs.
func Run(scenario *Scenario) (*Result, error) {
	return RunContext(context.Background(), scenario, nil)
}

// RunContext executes a scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database for isolation.
//
// Execution flow:
//  1. Create a fresh in-memory database and run the setup statements
//  2. Load the catalog (CUE file, else the database schema)
//  3. Translate every case, check it, and evaluate it when a database exists
//  4. Compare each case with its expectations
//
// A returned error means the scenario could not be executed at all; case
// failures are reported in Result.Errors.
func RunContext(ctx context.Context, scenario *Scenario, logger *slog.Logger) (*Result, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	h := &Harness{
		translator: translate.NewTranslator(logger),
		logger:     logger,
	}

	if len(scenario.Setup) > 0 {
		st, err := store.Open(":memory:")
		if err != nil {
			return nil, fmt.Errorf("failed to create in-memory store: %w", err)
		}
		defer st.Close()
		h.store = st

		for i, stmt := range scenario.Setup {
			if err := st.Exec(ctx, stmt); err != nil {
				return nil, fmt.Errorf("setup statement %d: %w", i, err)
			}
		}
	}

	cat, err := h.loadCatalog(ctx, scenario)
	if err != nil {
		return nil, err
	}
	h.catalog = cat
	h.compiler = rasql.NewSQLCompiler(cat)

	result := NewResult()
	for _, c := range scenario.Cases {
		got := h.executeCase(ctx, c)
		result.AddCase(got)
		for _, e := range EvaluateCase(c, got) {
			result.AddError(e.Error())
		}
	}

	logger.Debug("scenario finished",
		"scenario", scenario.Name,
		"cases", len(result.Cases),
		"failures", len(result.Errors))

	return result, nil
}

// loadCatalog returns the scenario's catalog, or nil when it has neither a
// catalog file nor setup statements.
func (h *Harness) loadCatalog(ctx context.Context, scenario *Scenario) (*catalog.Catalog, error) {
	switch {
	case scenario.Catalog != "":
		cat, err := catalog.LoadCUE(scenario.Catalog)
		if err != nil {
			return nil, fmt.Errorf("failed to load catalog: %w", err)
		}
		return cat, nil
	case h.store != nil:
		cat, err := catalog.FromStore(ctx, h.store)
		if err != nil {
			return nil, fmt.Errorf("failed to read catalog: %w", err)
		}
		return cat, nil
	default:
		return nil, nil
	}
}

// executeCase translates, checks and evaluates one case.
func (h *Harness) executeCase(ctx context.Context, c Case) CaseResult {
	got := CaseResult{Name: c.Name, SQL: normalizeSQL(c.SQL)}

	expr, err := h.translator.TranslateSQL(c.SQL)
	if err != nil {
		got.ErrorKind = string(translate.KindOf(err))
		got.ErrorMessage = err.Error()
		return got
	}
	got.RA = expr.String()

	if h.catalog == nil {
		return got
	}
	for _, e := range h.catalog.Check(expr) {
		got.Check = append(got.Check, e.Code)
	}

	if h.store == nil || len(got.Check) > 0 {
		return got
	}

	query, params, err := h.compiler.Compile(expr)
	if err != nil {
		h.logger.Warn("compile failed", "case", c.Name, "error", err)
		return got
	}
	got.Query = query

	res, err := h.store.Run(ctx, query, params...)
	if err != nil {
		h.logger.Warn("evaluation failed", "case", c.Name, "error", err)
		return got
	}
	got.Rows = formatRows(res.Rows)
	got.Evaluated = true
	return got
}
