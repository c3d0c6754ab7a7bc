package catalog

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sql2ra/internal/testutil"
	"github.com/roach88/sql2ra/internal/translate"
)

func TestParseCUE_Pizza(t *testing.T) {
	cat, err := ParseCUE([]byte(testutil.PizzaCatalogCUE), "pizza.cue")
	require.NoError(t, err)

	assert.Equal(t, 4, cat.Len())

	person, ok := cat.Relation("Person")
	require.True(t, ok)
	assert.Equal(t, []Attribute{
		{Name: "name", Type: TypeString},
		{Name: "age", Type: TypeInt},
		{Name: "gender", Type: TypeString},
	}, person.Attributes)

	serves, ok := cat.Relation("serves")
	require.True(t, ok, "lookup is case-insensitive")
	price, ok := serves.Attribute("PRICE")
	require.True(t, ok)
	assert.Equal(t, TypeFloat, price.Type)
}

func TestParseCUE_Kinds(t *testing.T) {
	cat, err := ParseCUE([]byte(`relation: R: {s: string, i: int, f: float, n: number, b: bool, x: _, c: "const"}`), "r.cue")
	require.NoError(t, err)

	r, ok := cat.Relation("R")
	require.True(t, ok)

	var types []string
	for _, a := range r.Attributes {
		types = append(types, a.Type)
	}
	assert.Equal(t, []string{TypeString, TypeInt, TypeFloat, TypeFloat, TypeBool, TypeAny, TypeString}, types)
}

func TestParseCUE_Errors(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		field string
	}{
		{"syntax error", `relation: {`, "cue"},
		{"missing relation", `tables: {}`, "relation"},
		{"empty relation", `relation: R: {}`, "relation.R"},
		{"list attribute", `relation: R: {a: [...int]}`, "type"},
		{"struct attribute", `relation: R: {a: {b: int}}`, "type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCUE([]byte(tt.src), "bad.cue")
			require.Error(t, err)

			var loadErr *LoadError
			require.ErrorAs(t, err, &loadErr)
			assert.Equal(t, tt.field, loadErr.Field)
		})
	}
}

func TestParseCUE_ErrorPosition(t *testing.T) {
	_, err := ParseCUE([]byte("relation: {\n\tR: {a: [...int]}\n}\n"), "pos.cue")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pos.cue:2:")
}

func TestLoadCUE(t *testing.T) {
	path := testutil.WritePizzaCatalog(t, t.TempDir())

	cat, err := LoadCUE(path)
	require.NoError(t, err)
	assert.Equal(t, 4, cat.Len())
}

func TestLoadCUE_MissingFile(t *testing.T) {
	_, err := LoadCUE(filepath.Join(t.TempDir(), "missing.cue"))
	assert.Error(t, err)
}

func TestFromStore(t *testing.T) {
	s := testutil.NewPizzaStore(t)

	cat, err := FromStore(context.Background(), s)
	require.NoError(t, err)

	fromCUE, err := ParseCUE([]byte(testutil.PizzaCatalogCUE), "pizza.cue")
	require.NoError(t, err)

	assert.Equal(t, fromCUE.Relations(), cat.Relations())
}

func TestRelations_Sorted(t *testing.T) {
	cat := New(
		Relation{Name: "B", Attributes: []Attribute{{Name: "x", Type: TypeInt}}},
		Relation{Name: "A", Attributes: []Attribute{{Name: "y", Type: TypeInt}}},
	)

	rels := cat.Relations()
	require.Len(t, rels, 2)
	assert.Equal(t, "A", rels[0].Name)
	assert.Equal(t, "B", rels[1].Name)
}

func TestAffinity(t *testing.T) {
	tests := map[string]string{
		"INTEGER":       TypeInt,
		"BIGINT":        TypeInt,
		"TEXT":          TypeString,
		"VARCHAR(255)":  TypeString,
		"CLOB":          TypeString,
		"REAL":          TypeFloat,
		"DOUBLE":        TypeFloat,
		"FLOAT":         TypeFloat,
		"NUMERIC(10,2)": TypeFloat,
		"BOOLEAN":       TypeBool,
		"BLOB":          TypeAny,
		"":              TypeAny,
	}
	for decl, want := range tests {
		assert.Equal(t, want, affinity(decl), "affinity(%q)", decl)
	}
}

func pizzaCatalog(t *testing.T) *Catalog {
	t.Helper()
	cat, err := ParseCUE([]byte(testutil.PizzaCatalogCUE), "pizza.cue")
	require.NoError(t, err)
	return cat
}

func TestCheck_Valid(t *testing.T) {
	cat := pizzaCatalog(t)

	queries := []string{
		"select distinct * from Person",
		"select distinct * from Person where age = 16 and gender = 'female'",
		"select distinct * from Person where 16 = age",
		"select distinct name, age from Person",
		"select distinct Person.name from Person, Eats where Person.name = Eats.name",
		"select distinct Person.name, pizzeria from Person, Eats, Serves where Person.name = Eats.name and Eats.pizza = Serves.pizza",
		"select distinct X.name from Person X",
		"select distinct A.name, B.name from Eats A, Eats B where A.pizza = B.pizza",
		"select distinct pizza from Serves where price = 9",
		"select distinct pizzeria from Serves where price = 9.75",
		"select distinct * from person where AGE = 16",
	}

	for _, sql := range queries {
		t.Run(sql, func(t *testing.T) {
			expr, err := translate.TranslateSQL(sql)
			require.NoError(t, err)
			assert.Empty(t, cat.Check(expr))
		})
	}
}

func TestCheck_Errors(t *testing.T) {
	cat := pizzaCatalog(t)

	tests := []struct {
		sql   string
		codes []string
	}{
		{"select distinct * from Pizzeria", []string{ErrUnknownRelation}},
		{"select distinct name from Pizzeria", []string{ErrUnknownRelation}},
		{"select distinct Person.name from Person X", []string{ErrUnknownQualifier}},
		{"select distinct Y.name from Person X", []string{ErrUnknownQualifier}},
		{"select distinct height from Person", []string{ErrUnknownAttribute}},
		{"select distinct Person.height from Person", []string{ErrUnknownAttribute}},
		{"select distinct name from Person, Eats", []string{ErrAmbiguousAttribute}},
		{"select distinct * from Eats, Eats", []string{ErrDuplicateQualifier}},
		{"select distinct * from Person X, Eats X", []string{ErrDuplicateQualifier}},
		{"select distinct * from Person where age = 'sixteen'", []string{ErrIncompatibleOperand}},
		{"select distinct * from Person, Eats where Person.age = Eats.name", []string{ErrIncompatibleOperand}},
		{
			"select distinct height, name from Person, Eats where shoe = 1",
			[]string{ErrUnknownAttribute, ErrAmbiguousAttribute, ErrUnknownAttribute},
		},
	}

	for _, tt := range tests {
		t.Run(tt.sql, func(t *testing.T) {
			expr, err := translate.TranslateSQL(tt.sql)
			require.NoError(t, err)

			errs := cat.Check(expr)
			var codes []string
			for _, e := range errs {
				codes = append(codes, e.Code)
			}
			assert.Equal(t, tt.codes, codes, "errors: %v", errs)
		})
	}
}

func TestCheck_UnknownRelationReportedOnce(t *testing.T) {
	cat := pizzaCatalog(t)

	expr, err := translate.TranslateSQL("select distinct X.a, X.b from Missing X where X.c = 1")
	require.NoError(t, err)

	errs := cat.Check(expr)
	require.Len(t, errs, 1)
	assert.Equal(t, ErrUnknownRelation, errs[0].Code)
	assert.Equal(t, "[E201] unknown relation Missing", errs[0].Error())
}
