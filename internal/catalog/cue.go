package catalog

import (
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

// LoadError is a catalog definition error with source position.
type LoadError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// LoadCUE reads a catalog from a CUE file.
func LoadCUE(path string) (*Catalog, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return ParseCUE(src, path)
}

// ParseCUE compiles a catalog from CUE source. filename is used in error
// positions only.
//
// Relations are declared under the top-level "relation" struct, one field
// per attribute, with CUE types as attribute types:
//
//	relation: {
//		Person: {name: string, age: int, gender: string}
//		Eats:   {name: string, pizza: string}
//	}
//
// Attribute order follows the declaration order.
func ParseCUE(src []byte, filename string) (*Catalog, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(src, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	relVal := v.LookupPath(cue.ParsePath("relation"))
	if !relVal.Exists() {
		return nil, &LoadError{
			Field:   "relation",
			Message: "relation is required",
			Pos:     v.Pos(),
		}
	}

	iter, err := relVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var relations []Relation
	for iter.Next() {
		rel := Relation{Name: iter.Label()}

		attrIter, err := iter.Value().Fields()
		if err != nil {
			return nil, formatCUEError(err)
		}
		for attrIter.Next() {
			typ, err := extractTypeName(attrIter.Value())
			if err != nil {
				return nil, err
			}
			rel.Attributes = append(rel.Attributes, Attribute{
				Name: attrIter.Label(),
				Type: typ,
			})
		}

		if len(rel.Attributes) == 0 {
			return nil, &LoadError{
				Field:   "relation." + rel.Name,
				Message: "relation must declare at least one attribute",
				Pos:     iter.Value().Pos(),
			}
		}
		relations = append(relations, rel)
	}

	return New(relations...), nil
}

// extractTypeName maps a CUE attribute value to an attribute type.
func extractTypeName(v cue.Value) (string, error) {
	switch v.IncompleteKind() {
	case cue.StringKind:
		return TypeString, nil
	case cue.IntKind:
		return TypeInt, nil
	case cue.FloatKind, cue.NumberKind:
		return TypeFloat, nil
	case cue.BoolKind:
		return TypeBool, nil
	case cue.TopKind:
		return TypeAny, nil
	default:
		return "", &LoadError{
			Field:   "type",
			Message: fmt.Sprintf("unsupported attribute kind: %v", v.IncompleteKind()),
			Pos:     v.Pos(),
		}
	}
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	first := errs[0]
	positions := errors.Positions(first)
	if len(positions) > 0 {
		return &LoadError{
			Field:   "cue",
			Message: first.Error(),
			Pos:     positions[0],
		}
	}

	return err
}
