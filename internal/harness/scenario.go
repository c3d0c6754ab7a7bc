package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/sql2ra/internal/translate"
)

// Scenario defines a translation test scenario: a list of SQL statements
// with the relational algebra, error, schema check or rows each one is
// expected to produce.
type Scenario struct {
	// Name uniquely identifies this scenario. It also names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Catalog is an optional path to a CUE catalog the translated
	// expressions are checked against. Relative paths are resolved against
	// the scenario file's directory.
	Catalog string `yaml:"catalog,omitempty"`

	// Setup contains SQL statements run against a fresh in-memory database
	// before the cases. When present, the cases are also evaluated, and the
	// database schema serves as catalog if Catalog is empty.
	Setup []string `yaml:"setup,omitempty"`

	// Cases are translated in order.
	Cases []Case `yaml:"cases"`
}

// Case is one SQL statement and its expectations.
type Case struct {
	// Name identifies the case within the scenario.
	Name string `yaml:"name"`

	// SQL is the statement to translate.
	SQL string `yaml:"sql"`

	// Expect is the expected RA text. Empty means not compared.
	Expect string `yaml:"expect,omitempty"`

	// Error is the expected translation error kind (e.g.
	// "UNSUPPORTED_CONSTRUCT"). Mutually exclusive with Expect and Rows.
	Error string `yaml:"error,omitempty"`

	// Check lists the expected catalog check codes in order. Empty means
	// the expression must pass the check when a catalog is available.
	Check []string `yaml:"check,omitempty"`

	// Rows is the expected evaluation result. Requires Setup. Cells are
	// compared by their printed form, so 16 matches an INTEGER 16 and
	// 9.5 a REAL 9.5.
	Rows [][]any `yaml:"rows,omitempty"`
}

// LoadScenario reads and parses a scenario YAML file.
// A relative catalog path is resolved against the file's directory.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	return LoadScenarioWithBasePath(path, filepath.Dir(path))
}

// LoadScenarioWithBasePath reads and parses a scenario YAML file,
// resolving the catalog path relative to the provided base path.
func LoadScenarioWithBasePath(path, basePath string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	scenario, err := ParseScenario(data)
	if err != nil {
		return nil, err
	}

	if scenario.Catalog != "" && !filepath.IsAbs(scenario.Catalog) && basePath != "" {
		scenario.Catalog = filepath.Join(basePath, scenario.Catalog)
	}
	if scenario.Catalog != "" {
		if _, err := os.Stat(scenario.Catalog); os.IsNotExist(err) {
			return nil, fmt.Errorf("invalid scenario: catalog file not found: %s", scenario.Catalog)
		}
	}

	return scenario, nil
}

// ParseScenario parses scenario YAML. Catalog paths are left as written.
func ParseScenario(data []byte) (*Scenario, error) {
	// Strict field validation catches typos like "case:" vs "cases:".
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if len(s.Cases) == 0 {
		return fmt.Errorf("cases list is required and must be non-empty")
	}

	names := make(map[string]bool, len(s.Cases))
	for i, c := range s.Cases {
		if err := validateCase(i, &c, len(s.Setup) > 0); err != nil {
			return err
		}
		if names[c.Name] {
			return fmt.Errorf("cases[%d]: duplicate case name %q", i, c.Name)
		}
		names[c.Name] = true
	}

	return nil
}

// validateCase validates a single case.
func validateCase(index int, c *Case, hasSetup bool) error {
	if c.Name == "" {
		return fmt.Errorf("cases[%d]: name is required", index)
	}
	if c.SQL == "" {
		return fmt.Errorf("cases[%d]: sql is required", index)
	}

	if c.Error != "" {
		switch translate.ErrorKind(c.Error) {
		case translate.KindUnsupportedConstruct, translate.KindMalformedInput, translate.KindStructuralViolation:
		default:
			return fmt.Errorf("cases[%d]: unknown error kind %q", index, c.Error)
		}
		if c.Expect != "" || len(c.Rows) > 0 || len(c.Check) > 0 {
			return fmt.Errorf("cases[%d]: error cannot be combined with expect, check or rows", index)
		}
	}

	if len(c.Rows) > 0 && !hasSetup {
		return fmt.Errorf("cases[%d]: rows require setup statements", index)
	}

	return nil
}
