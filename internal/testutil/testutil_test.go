package testutil

import (
	"context"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixedTraceGenerator(t *testing.T) {
	gen := NewFixedTraceGenerator("trace-abc")
	assert.Equal(t, "trace-abc", gen.Generate())
	assert.Equal(t, "trace-abc", gen.Generate())
}

func TestFixedTraceGenerator_Default(t *testing.T) {
	assert.Equal(t, "test-trace-default", NewFixedTraceGenerator("").Generate())
}

func TestSequentialTraceGenerator(t *testing.T) {
	gen := NewSequentialTraceGenerator()
	assert.Equal(t, "trace-0001", gen.Generate())
	assert.Equal(t, "trace-0002", gen.Generate())

	gen.Reset()
	assert.Equal(t, "trace-0001", gen.Generate())
}

func TestSequentialTraceGenerator_ThreadSafe(t *testing.T) {
	gen := NewSequentialTraceGenerator()
	const numGoroutines = 50

	var wg sync.WaitGroup
	ids := make(chan string, numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ids <- gen.Generate()
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[string]bool)
	for id := range ids {
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
	assert.Len(t, seen, numGoroutines)
}

func TestNewPizzaStore(t *testing.T) {
	s := NewPizzaStore(t)

	tables, err := s.Tables(context.Background())
	require.NoError(t, err)

	var names []string
	for _, tbl := range tables {
		names = append(names, tbl.Name)
	}
	assert.Equal(t, []string{"Eats", "Frequents", "Person", "Serves"}, names)

	res, err := s.Run(context.Background(), "SELECT COUNT(*) FROM Person")
	require.NoError(t, err)
	assert.Equal(t, [][]any{{int64(9)}}, res.Rows)
}

func TestWritePizzaCatalog(t *testing.T) {
	path := WritePizzaCatalog(t, t.TempDir())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, PizzaCatalogCUE, string(data))
}
