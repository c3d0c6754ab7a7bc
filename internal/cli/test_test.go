package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const passingScenario = `name: people
description: Selection over Person
cases:
  - name: sixteen
    sql: select distinct * from Person where age = 16
    expect: '\select_{age = 16} Person'
`

const failingScenario = `name: wrong
description: Expects the wrong expression
cases:
  - name: star
    sql: select distinct * from Person
    expect: Eats
`

// writeScenarioFile writes content to dir/name.
func writeScenarioFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestTestCommandMissingArgs(t *testing.T) {
	_, _, err := execute(t, "test")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg")
}

func TestTestCommandNonExistentDir(t *testing.T) {
	out, _, err := execute(t, "test", "/nonexistent/scenarios")
	require.Error(t, err)

	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "scenarios directory not found")
	assert.Contains(t, out, "Error [E002]")
}

func TestTestCommandEmptyDir(t *testing.T) {
	out, _, err := execute(t, "test", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "No scenarios found")
}

func TestTestCommandEmptyDirJSON(t *testing.T) {
	out, _, err := execute(t, "--format", "json", "test", t.TempDir())
	require.NoError(t, err)

	resp := decodeResponse(t, out)
	assert.Equal(t, "ok", resp.Status)
	data := resp.Data.(map[string]any)
	assert.Equal(t, float64(0), data["total"])
}

func TestTestCommandUpdateThenPass(t *testing.T) {
	dir := t.TempDir()
	writeScenarioFile(t, dir, "people.yaml", passingScenario)

	out, _, err := execute(t, "test", "--update", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Updated 1 golden file(s)")

	golden, err := os.ReadFile(filepath.Join(dir, "golden", "people.golden"))
	require.NoError(t, err)
	assert.Equal(t, "scenario: people\n\ncase: sixteen\nsql: select distinct * from Person where age = 16\nra: \\select_{age = 16} Person\n", string(golden))

	out, _, err = execute(t, "test", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Test Summary: 1 passed, 0 failed, 1 total")
	assert.Contains(t, out, "✓ All scenarios passed")
}

func TestTestCommandMissingGolden(t *testing.T) {
	dir := t.TempDir()
	writeScenarioFile(t, dir, "people.yaml", passingScenario)

	out, _, err := execute(t, "test", dir)
	require.Error(t, err)

	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ people")
	assert.Contains(t, out, "run with --update")
}

func TestTestCommandFailure(t *testing.T) {
	dir := t.TempDir()
	writeScenarioFile(t, dir, "wrong.yaml", failingScenario)

	out, _, err := execute(t, "test", "--update", dir)
	require.Error(t, err)

	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ wrong")
	assert.Contains(t, out, "Assertion failed: translation (case star)")
	assert.Contains(t, out, "Test Summary: 0 passed, 1 failed, 1 total")
}

func TestTestCommandFailureJSON(t *testing.T) {
	dir := t.TempDir()
	writeScenarioFile(t, dir, "wrong.yaml", failingScenario)

	out, _, err := execute(t, "--format", "json", "test", "--update", dir)
	require.Error(t, err)

	resp := decodeResponse(t, out)
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, ErrCodeTestFailed, resp.Error.Code)
	assert.Equal(t, testTraceID, resp.TraceID)

	data := resp.Data.(map[string]any)
	assert.Equal(t, float64(1), data["failed"])
	failures := data["failures"].([]any)
	require.Len(t, failures, 1)
	assert.Equal(t, "wrong", failures[0].(map[string]any)["scenario"])
}

func TestTestCommandFilter(t *testing.T) {
	dir := t.TempDir()
	writeScenarioFile(t, dir, "people.yaml", passingScenario)
	writeScenarioFile(t, dir, "wrong.yaml", failingScenario)

	out, _, err := execute(t, "test", "--update", "--filter", "peo*", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "1 total")
}

func TestTestCommandGoldenFlag(t *testing.T) {
	dir := t.TempDir()
	golden := filepath.Join(t.TempDir(), "snapshots")
	writeScenarioFile(t, dir, "people.yaml", passingScenario)

	_, _, err := execute(t, "test", "--update", "--golden", golden, dir)
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(golden, "people.golden"))
	assert.NoDirExists(t, filepath.Join(dir, "golden"))
}

func TestTestCommandSingleFile(t *testing.T) {
	dir := t.TempDir()
	path := writeScenarioFile(t, dir, "people.yaml", passingScenario)

	_, _, err := execute(t, "test", "--update", path)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "golden", "people.golden"))
}

func TestTestCommandProjectScenarios(t *testing.T) {
	out, _, err := execute(t, "test", "../../testdata/scenarios")
	require.NoError(t, err, "output: %s", out)
	assert.Contains(t, out, "✓ All scenarios passed")
}

func TestDefaultGoldenDir(t *testing.T) {
	assert.Equal(t, filepath.Join("s", "golden"), defaultGoldenDir("s", []string{"s/a.yaml", "s/b.yaml"}))
	assert.Equal(t, filepath.Join("s", "golden"), defaultGoldenDir("s/a.yaml", []string{"s/a.yaml"}))
}
