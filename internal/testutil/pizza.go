package testutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/roach88/sql2ra/internal/store"
)

// PizzaCatalogCUE declares the pizza schema as a CUE catalog.
const PizzaCatalogCUE = `relation: {
	Person: {name: string, age: int, gender: string}
	Frequents: {name: string, pizzeria: string}
	Eats: {name: string, pizza: string}
	Serves: {pizzeria: string, pizza: string, price: float}
}
`

// PizzaSchemaSQL creates the pizza tables.
var PizzaSchemaSQL = []string{
	"CREATE TABLE Person (name TEXT, age INTEGER, gender TEXT)",
	"CREATE TABLE Frequents (name TEXT, pizzeria TEXT)",
	"CREATE TABLE Eats (name TEXT, pizza TEXT)",
	"CREATE TABLE Serves (pizzeria TEXT, pizza TEXT, price REAL)",
}

// PizzaDataSQL fills the pizza tables.
var PizzaDataSQL = []string{
	`INSERT INTO Person VALUES
		('Amy', 16, 'female'), ('Ben', 21, 'male'), ('Cal', 33, 'male'),
		('Dan', 13, 'male'), ('Eli', 45, 'male'), ('Fay', 21, 'female'),
		('Gus', 24, 'male'), ('Hil', 30, 'female'), ('Ian', 18, 'male')`,
	`INSERT INTO Frequents VALUES
		('Amy', 'Pizza Hut'), ('Ben', 'Pizza Hut'), ('Ben', 'Chicago Pizza'),
		('Cal', 'Straw Hat'), ('Cal', 'New York Pizza'), ('Dan', 'Straw Hat'),
		('Dan', 'New York Pizza'), ('Eli', 'Straw Hat'), ('Eli', 'Chicago Pizza'),
		('Fay', 'Dominos'), ('Fay', 'Little Caesars'), ('Gus', 'Chicago Pizza'),
		('Gus', 'Pizza Hut'), ('Hil', 'Dominos'), ('Hil', 'Straw Hat'),
		('Hil', 'Pizza Hut'), ('Ian', 'New York Pizza'), ('Ian', 'Straw Hat'),
		('Ian', 'Dominos')`,
	`INSERT INTO Eats VALUES
		('Amy', 'pepperoni'), ('Amy', 'mushroom'), ('Ben', 'pepperoni'),
		('Ben', 'cheese'), ('Cal', 'supreme'), ('Dan', 'pepperoni'),
		('Dan', 'cheese'), ('Dan', 'sausage'), ('Dan', 'supreme'),
		('Dan', 'mushroom'), ('Eli', 'supreme'), ('Eli', 'cheese'),
		('Fay', 'mushroom'), ('Gus', 'mushroom'), ('Gus', 'supreme'),
		('Gus', 'cheese'), ('Hil', 'supreme'), ('Hil', 'cheese'),
		('Ian', 'supreme'), ('Ian', 'pepperoni')`,
	`INSERT INTO Serves VALUES
		('Pizza Hut', 'pepperoni', 12), ('Pizza Hut', 'sausage', 12),
		('Pizza Hut', 'cheese', 9), ('Pizza Hut', 'supreme', 12),
		('Little Caesars', 'pepperoni', 9.75), ('Little Caesars', 'sausage', 9.5),
		('Little Caesars', 'cheese', 7), ('Little Caesars', 'mushroom', 9.25),
		('Dominos', 'cheese', 9.75), ('Dominos', 'mushroom', 11),
		('Straw Hat', 'pepperoni', 8), ('Straw Hat', 'cheese', 9.25),
		('Straw Hat', 'sausage', 9.75), ('New York Pizza', 'pepperoni', 8),
		('New York Pizza', 'cheese', 7), ('New York Pizza', 'supreme', 8.5),
		('Chicago Pizza', 'cheese', 7.75), ('Chicago Pizza', 'supreme', 8.5)`,
}

// NewPizzaStore opens a file-backed store in a temp dir, loaded with the
// pizza schema and data. The store is closed when the test ends.
func NewPizzaStore(t *testing.T) *store.Store {
	t.Helper()
	path := WritePizzaDB(t, t.TempDir())
	s, err := store.Open(path)
	if err != nil {
		t.Fatalf("open pizza store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// WritePizzaDB creates pizza.db in dir and returns its path.
func WritePizzaDB(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "pizza.db")
	s, err := store.Open(path)
	if err != nil {
		t.Fatalf("create pizza db: %v", err)
	}
	defer s.Close()

	ctx := context.Background()
	for _, stmt := range append(append([]string{}, PizzaSchemaSQL...), PizzaDataSQL...) {
		if err := s.Exec(ctx, stmt); err != nil {
			t.Fatalf("load pizza db: %v", err)
		}
	}
	return path
}

// WritePizzaCatalog writes PizzaCatalogCUE to pizza.cue in dir and returns
// its path.
func WritePizzaCatalog(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "pizza.cue")
	if err := os.WriteFile(path, []byte(PizzaCatalogCUE), 0o644); err != nil {
		t.Fatalf("write pizza catalog: %v", err)
	}
	return path
}
