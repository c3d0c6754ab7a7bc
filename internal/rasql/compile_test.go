package rasql

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sql2ra/internal/catalog"
	"github.com/roach88/sql2ra/internal/ra"
	"github.com/roach88/sql2ra/internal/testutil"
	"github.com/roach88/sql2ra/internal/translate"
)

func compileSQL(t *testing.T, c *SQLCompiler, sql string) (string, []any) {
	t.Helper()
	expr, err := translate.TranslateSQL(sql)
	require.NoError(t, err)
	out, params, err := c.Compile(expr)
	require.NoError(t, err)
	return out, params
}

func TestCompile_Translated(t *testing.T) {
	compiler := NewSQLCompiler(nil)

	tests := []struct {
		name   string
		sql    string
		want   string
		params []any
	}{
		{
			name: "star",
			sql:  "select distinct * from Person",
			want: `SELECT DISTINCT * FROM "Person"`,
		},
		{
			name:   "selection",
			sql:    "select distinct * from Person where age = 16",
			want:   `SELECT DISTINCT * FROM "Person" WHERE "age" = ?`,
			params: []any{int64(16)},
		},
		{
			name:   "conjunction in clause order",
			sql:    "select distinct * from Person where 16 = age and gender = 'f'",
			want:   `SELECT DISTINCT * FROM "Person" WHERE ? = "age" AND "gender" = ?`,
			params: []any{int64(16), "f"},
		},
		{
			name: "projection",
			sql:  "select distinct name, age from Person",
			want: `SELECT DISTINCT "name", "age" FROM "Person" ORDER BY "name" COLLATE BINARY ASC, "age" COLLATE BINARY ASC`,
		},
		{
			name: "rename",
			sql:  "select distinct X.name from Person X",
			want: `SELECT DISTINCT "X"."name" FROM "Person" AS "X" ORDER BY "X"."name" COLLATE BINARY ASC`,
		},
		{
			name: "join",
			sql:  "select distinct A.name, B.name from Eats A, Eats B where A.pizza = B.pizza",
			want: `SELECT DISTINCT "A"."name", "B"."name" FROM "Eats" AS "A", "Eats" AS "B" WHERE "A"."pizza" = "B"."pizza" ` +
				`ORDER BY "A"."name" COLLATE BINARY ASC, "B"."name" COLLATE BINARY ASC`,
		},
		{
			name:   "float literal",
			sql:    "select distinct * from Serves where price = 9.75",
			want:   `SELECT DISTINCT * FROM "Serves" WHERE "price" = ?`,
			params: []any{9.75},
		},
		{
			name:   "string with quote",
			sql:    "select distinct * from Person where name = 'O''Neil'",
			want:   `SELECT DISTINCT * FROM "Person" WHERE "name" = ?`,
			params: []any{"O'Neil"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, params := compileSQL(t, compiler, tt.sql)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.params, params)
		})
	}
}

func TestCompile_NeverInterpolatesLiterals(t *testing.T) {
	got, params := compileSQL(t, NewSQLCompiler(nil),
		"select distinct * from Person where name = 'x; DROP TABLE Person' and age = 16")

	assert.NotContains(t, got, "DROP")
	assert.NotContains(t, got, "16")
	assert.Equal(t, []any{"x; DROP TABLE Person", int64(16)}, params)
}

func TestCompile_ExpandsStarWithCatalog(t *testing.T) {
	cat, err := catalog.ParseCUE([]byte(testutil.PizzaCatalogCUE), "pizza.cue")
	require.NoError(t, err)

	got, _ := compileSQL(t, NewSQLCompiler(cat), "select distinct * from Eats E, Frequents")
	assert.Equal(t,
		`SELECT DISTINCT "E"."name", "E"."pizza", "Frequents"."name", "Frequents"."pizzeria" `+
			`FROM "Eats" AS "E", "Frequents" `+
			`ORDER BY "E"."name" COLLATE BINARY ASC, "E"."pizza" COLLATE BINARY ASC, `+
			`"Frequents"."name" COLLATE BINARY ASC, "Frequents"."pizzeria" COLLATE BINARY ASC`,
		got)
}

func TestCompile_StarUnknownRelation(t *testing.T) {
	expr, err := translate.TranslateSQL("select distinct * from Missing")
	require.NoError(t, err)

	_, _, err = NewSQLCompiler(catalog.New()).Compile(expr)
	assert.Error(t, err)
}

func TestCompile_Nil(t *testing.T) {
	_, _, err := NewSQLCompiler(nil).Compile(nil)
	assert.Error(t, err)
}

func TestCompile_UnsupportedShapes(t *testing.T) {
	person := &ra.RelRef{Name: "Person"}
	cond := ra.Eq(ra.ParseAttrRef("age"), ra.Number("16"))

	tests := []struct {
		name string
		expr ra.RelExpr
	}{
		{"select under cross", &ra.Cross{Left: &ra.Select{Cond: cond, Input: person}, Right: person}},
		{"project under select", &ra.Select{Cond: cond, Input: &ra.Project{Attrs: []*ra.AttrRef{ra.ParseAttrRef("age")}, Input: person}}},
		{"rename of cross", &ra.Rename{Alias: "X", Input: &ra.Cross{Left: person, Right: person}}},
		{"empty projection", &ra.Project{Input: person}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := NewSQLCompiler(nil).Compile(tt.expr)
			assert.ErrorIs(t, err, ErrUnsupportedShape)
		})
	}
}

func TestCompile_UnsupportedCondition(t *testing.T) {
	person := &ra.RelRef{Name: "Person"}

	_, _, err := NewSQLCompiler(nil).Compile(&ra.Select{Cond: ra.Number("1"), Input: person})
	assert.Error(t, err)

	_, _, err = NewSQLCompiler(nil).Compile(&ra.Select{
		Cond:  &ra.BinaryOp{Op: ra.Op(99), Left: ra.Number("1"), Right: ra.Number("1")},
		Input: person,
	})
	assert.Error(t, err)
}

func TestCompile_ExecutesAgainstPizza(t *testing.T) {
	s := testutil.NewPizzaStore(t)
	ctx := context.Background()

	cat, err := catalog.FromStore(ctx, s)
	require.NoError(t, err)
	compiler := NewSQLCompiler(cat)

	tests := []struct {
		sql  string
		rows [][]any
	}{
		{
			sql:  "select distinct name from Person where age = 16",
			rows: [][]any{{"Amy"}},
		},
		{
			sql:  "select distinct * from Person where age = 21 and gender = 'female'",
			rows: [][]any{{"Fay", int64(21), "female"}},
		},
		{
			sql:  "select distinct Person.name, pizzeria from Person, Eats, Serves where Person.name = Eats.name and Eats.pizza = Serves.pizza and Person.name = 'Fay'",
			rows: [][]any{{"Fay", "Dominos"}, {"Fay", "Little Caesars"}},
		},
		{
			sql:  "select distinct A.name, B.name from Eats A, Eats B where A.pizza = B.pizza and A.pizza = 'sausage'",
			rows: [][]any{{"Dan", "Dan"}},
		},
		{
			sql:  "select distinct pizzeria from Serves where price = 9.75",
			rows: [][]any{{"Dominos"}, {"Little Caesars"}, {"Straw Hat"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.sql, func(t *testing.T) {
			query, params := compileSQL(t, compiler, tt.sql)
			res, err := s.Run(ctx, query, params...)
			require.NoError(t, err)
			assert.Equal(t, tt.rows, res.Rows)
		})
	}
}

func TestCompile_OrderByRunsOnSQLite(t *testing.T) {
	s := testutil.NewPizzaStore(t)
	ctx := context.Background()

	query, params := compileSQL(t, NewSQLCompiler(nil), "select distinct name from Person where gender = 'female'")
	assert.Equal(t, `SELECT DISTINCT "name" FROM "Person" WHERE "gender" = ? ORDER BY "name" COLLATE BINARY ASC`, query)

	res, err := s.Run(ctx, query, params...)
	require.NoError(t, err)
	assert.Equal(t, []string{"name"}, res.Columns)
	assert.Equal(t, [][]any{{"Amy"}, {"Fay"}, {"Hil"}}, res.Rows)
}
