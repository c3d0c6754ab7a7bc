package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"cuelang.org/go/cue/token"

	"github.com/roach88/sql2ra/internal/catalog"
	"github.com/roach88/sql2ra/internal/store"
)

// Schema is the catalog a command checks against, plus the database it
// was read from when one was given.
type Schema struct {
	Catalog *catalog.Catalog // nil when neither --catalog nor --db is set
	Store   *store.Store     // nil without --db
}

// Close releases the database, if any.
func (s *Schema) Close() error {
	if s == nil || s.Store == nil {
		return nil
	}
	return s.Store.Close()
}

// LoadError represents an error that occurred while loading a schema.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// LoadSchema opens the schema sources named by the command flags.
//
// A CUE catalog takes precedence over the database schema; the database is
// still opened so that statements can be evaluated against it. With both
// paths empty the result holds neither.
func LoadSchema(ctx context.Context, catalogPath, dbPath string) (*Schema, error) {
	schema := &Schema{}

	if dbPath != "" {
		if err := requireFile(dbPath, "database"); err != nil {
			return nil, err
		}
		st, err := store.Open(dbPath)
		if err != nil {
			return nil, &LoadError{Code: ErrCodeDatabase, Message: fmt.Sprintf("opening database: %v", err)}
		}
		schema.Store = st
	}

	switch {
	case catalogPath != "":
		if err := requireFile(catalogPath, "catalog"); err != nil {
			schema.Close()
			return nil, err
		}
		cat, err := catalog.LoadCUE(catalogPath)
		if err != nil {
			schema.Close()
			return nil, convertCatalogError(err)
		}
		schema.Catalog = cat
	case schema.Store != nil:
		cat, err := catalog.FromStore(ctx, schema.Store)
		if err != nil {
			schema.Close()
			return nil, &LoadError{Code: ErrCodeDatabase, Message: fmt.Sprintf("reading database schema: %v", err)}
		}
		schema.Catalog = cat
	}

	return schema, nil
}

// requireFile fails with ErrCodeNotFound when path does not exist. SQLite
// would otherwise create an empty database in its place.
func requireFile(path, what string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("%s file not found: %s", what, path)}
	}
	if err != nil {
		return &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing %s file: %v", what, err)}
	}
	if info.IsDir() {
		return &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("%s path is a directory: %s", what, path)}
	}
	return nil
}

// convertCatalogError converts a catalog error to a LoadError with position info.
func convertCatalogError(err error) *LoadError {
	var catErr *catalog.LoadError
	if errors.As(err, &catErr) {
		return &LoadError{
			Code:    MapFieldToErrorCode(catErr.Field),
			Message: catErr.Message,
			Pos:     catErr.Pos,
		}
	}
	return &LoadError{
		Code:    ErrCodeCatalogLoad,
		Message: fmt.Sprintf("loading catalog: %v", err),
	}
}

// Error code constants - unified across all CLI commands.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeNotFound    = "E002" // Path not found
	ErrCodeCatalogLoad = "E003" // Catalog file could not be read
	ErrCodeDatabase    = "E004" // Database open, introspection or query failed

	// Translation errors
	ErrCodeUnsupported = "E010" // Construct outside the translated subset
	ErrCodeMalformed   = "E011" // Malformed statement
	ErrCodeStructural  = "E012" // Internal tree invariant broken

	// Schema errors
	ErrCodeCheckFailed = "E020" // Translated expression does not fit the catalog
	ErrCodeCompile     = "E030" // Expression cannot be compiled to SQL
	ErrCodeTestFailed  = "E040" // One or more scenarios failed

	// Catalog definition errors
	ErrCodeCatalogSyntax   = "E101" // CUE syntax or evaluation error
	ErrCodeCatalogRelation = "E102" // Missing or empty relation declaration
	ErrCodeInvalidType     = "E103" // Attribute type is not string, int, float, bool or _
)

// MapFieldToErrorCode maps a catalog error field to an error code.
func MapFieldToErrorCode(field string) string {
	switch {
	case field == "cue":
		return ErrCodeCatalogSyntax
	case field == "relation", strings.HasPrefix(field, "relation."):
		return ErrCodeCatalogRelation
	case field == "type":
		return ErrCodeInvalidType
	default:
		return ErrCodeCatalogLoad
	}
}
