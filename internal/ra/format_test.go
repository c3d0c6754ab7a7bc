package ra

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestString(t *testing.T) {
	person := &RelRef{Name: "Person"}
	eats := &RelRef{Name: "Eats"}
	serves := &RelRef{Name: "Serves"}

	tests := []struct {
		name string
		expr RelExpr
		want string
	}{
		{
			name: "relation",
			expr: person,
			want: "Person",
		},
		{
			name: "select",
			expr: &Select{Cond: Eq(&AttrRef{Name: "age"}, Number("16")), Input: person},
			want: `\select_{age = 16} Person`,
		},
		{
			name: "select conjunction",
			expr: &Select{
				Cond:  And(Eq(&AttrRef{Name: "age"}, Number("16")), Eq(&AttrRef{Name: "gender"}, String("f"))),
				Input: person,
			},
			want: `\select_{(age = 16) and (gender = 'f')} Person`,
		},
		{
			name: "project",
			expr: &Project{Attrs: []*AttrRef{{Name: "name"}, {Name: "age"}}, Input: person},
			want: `\project_{name, age} Person`,
		},
		{
			name: "left deep cross",
			expr: &Cross{Left: &Cross{Left: person, Right: eats}, Right: serves},
			want: `(Person \cross Eats) \cross Serves`,
		},
		{
			name: "rename under project",
			expr: &Project{
				Attrs: []*AttrRef{{Rel: "X", Name: "name"}},
				Input: &Rename{Alias: "X", Input: person},
			},
			want: `\project_{X.name} \rename_{X: *} Person`,
		},
		{
			name: "select over cross",
			expr: &Select{
				Cond:  Eq(&AttrRef{Rel: "Person", Name: "name"}, &AttrRef{Rel: "Eats", Name: "name"}),
				Input: &Cross{Left: person, Right: eats},
			},
			want: `\select_{Person.name = Eats.name} (Person \cross Eats)`,
		},
		{
			name: "renames inside cross",
			expr: &Cross{
				Left:  &Rename{Alias: "A", Input: eats},
				Right: &Rename{Alias: "B", Input: eats},
			},
			want: `(\rename_{A: *} Eats) \cross (\rename_{B: *} Eats)`,
		},
		{
			name: "string literal quoting",
			expr: &Select{Cond: Eq(&AttrRef{Name: "name"}, String("O'Hara")), Input: person},
			want: `\select_{name = 'O''Hara'} Person`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.expr.String())
		})
	}
}

func TestBinaryOp_NestedConjunction(t *testing.T) {
	cond := And(
		And(Eq(&AttrRef{Name: "a"}, Number("1")), Eq(&AttrRef{Name: "b"}, Number("2"))),
		Eq(&AttrRef{Name: "c"}, Number("3")),
	)
	assert.Equal(t, "((a = 1) and (b = 2)) and (c = 3)", cond.String())
}
