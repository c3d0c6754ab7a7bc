package catalog

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/roach88/sql2ra/internal/store"
)

// Attribute types. Any is used for columns without a usable declared type
// and is compatible with every other type.
const (
	TypeString = "string"
	TypeInt    = "int"
	TypeFloat  = "float"
	TypeBool   = "bool"
	TypeAny    = "any"
)

// Attribute is a named, typed column of a relation.
type Attribute struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Relation is a stored relation and its attributes in declaration order.
type Relation struct {
	Name       string      `json:"name"`
	Attributes []Attribute `json:"attributes"`
}

// Attribute looks up an attribute by name. Names are case-insensitive, as
// in SQL.
func (r *Relation) Attribute(name string) (Attribute, bool) {
	for _, a := range r.Attributes {
		if strings.EqualFold(a.Name, name) {
			return a, true
		}
	}
	return Attribute{}, false
}

// Catalog is the set of relations queries are checked against.
type Catalog struct {
	relations map[string]*Relation // keyed by lower-cased name
}

// New builds a catalog from relations. A later relation with the same
// (case-insensitive) name replaces an earlier one.
func New(relations ...Relation) *Catalog {
	c := &Catalog{relations: make(map[string]*Relation, len(relations))}
	for i := range relations {
		r := relations[i]
		c.relations[strings.ToLower(r.Name)] = &r
	}
	return c
}

// Relation looks up a relation by name, case-insensitively.
func (c *Catalog) Relation(name string) (*Relation, bool) {
	r, ok := c.relations[strings.ToLower(name)]
	return r, ok
}

// Relations returns all relations sorted by name.
func (c *Catalog) Relations() []*Relation {
	out := make([]*Relation, 0, len(c.relations))
	for _, r := range c.relations {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Len returns the number of relations.
func (c *Catalog) Len() int {
	return len(c.relations)
}

// FromStore reads the catalog from a database's table definitions.
// Declared column types are mapped with SQLite's affinity rules.
func FromStore(ctx context.Context, s *store.Store) (*Catalog, error) {
	tables, err := s.Tables(ctx)
	if err != nil {
		return nil, fmt.Errorf("read schema: %w", err)
	}

	relations := make([]Relation, 0, len(tables))
	for _, t := range tables {
		r := Relation{Name: t.Name}
		for _, col := range t.Columns {
			r.Attributes = append(r.Attributes, Attribute{Name: col.Name, Type: affinity(col.Type)})
		}
		relations = append(relations, r)
	}
	return New(relations...), nil
}

// affinity maps a declared SQLite column type to an attribute type.
// See https://www.sqlite.org/datatype3.html#determination_of_column_affinity.
func affinity(declType string) string {
	t := strings.ToUpper(declType)
	switch {
	case strings.Contains(t, "INT"):
		return TypeInt
	case strings.Contains(t, "CHAR"), strings.Contains(t, "CLOB"), strings.Contains(t, "TEXT"):
		return TypeString
	case t == "BOOLEAN", t == "BOOL":
		return TypeBool
	case strings.Contains(t, "REAL"), strings.Contains(t, "FLOA"), strings.Contains(t, "DOUB"),
		strings.Contains(t, "NUMERIC"), strings.Contains(t, "DECIMAL"):
		return TypeFloat
	default:
		return TypeAny
	}
}
