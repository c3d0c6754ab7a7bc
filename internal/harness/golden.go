package harness

import (
	"fmt"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// Snapshot renders a scenario result in the golden file format:
//
//	scenario: pizza
//
//	case: adults
//	sql: select distinct name from Person where age = 21
//	ra: \project_{name} \select_{age = 21} Person
//	rows: 2
//	  Ben
//	  Fay
//
// Failed translations print "error: <KIND>" in place of "ra:". The
// "check:" line appears only with check errors, "rows:" only for
// evaluated cases. Error messages are left out so rewording one does not
// invalidate golden files.
func Snapshot(name string, result *Result) []byte {
	var buf strings.Builder

	fmt.Fprintf(&buf, "scenario: %s\n", name)
	for _, c := range result.Cases {
		fmt.Fprintf(&buf, "\ncase: %s\n", c.Name)
		fmt.Fprintf(&buf, "sql: %s\n", c.SQL)
		if c.ErrorKind != "" {
			fmt.Fprintf(&buf, "error: %s\n", c.ErrorKind)
		} else {
			fmt.Fprintf(&buf, "ra: %s\n", c.RA)
		}
		if len(c.Check) > 0 {
			fmt.Fprintf(&buf, "check: %s\n", strings.Join(c.Check, ", "))
		}
		if c.Evaluated {
			fmt.Fprintf(&buf, "rows: %d\n", len(c.Rows))
			for _, row := range c.Rows {
				fmt.Fprintf(&buf, "  %s\n", strings.Join(row, " | "))
			}
		}
	}

	return []byte(buf.String())
}

// RunWithGolden executes a scenario and compares its snapshot against a
// golden file stored in testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if the snapshot doesn't match.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}

	AssertGolden(t, scenario.Name, result)
	return result, nil
}

// AssertGolden compares an existing result against its golden file without
// re-running the scenario.
func AssertGolden(t *testing.T, scenarioName string, result *Result) {
	t.Helper()

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, Snapshot(scenarioName, result))
}
