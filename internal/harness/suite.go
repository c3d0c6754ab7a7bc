package harness

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ScenarioNotFoundError is returned when a scenario directory or file
// doesn't exist.
type ScenarioNotFoundError struct {
	Path string
}

// Error implements the error interface.
func (e *ScenarioNotFoundError) Error() string {
	return fmt.Sprintf("scenario path %q does not exist", e.Path)
}

// FindScenarios returns the scenario files (*.yaml, *.yml) under path,
// sorted by name. path may also name a single file. filter, when
// non-empty, is a glob matched against the file's base name without its
// extension.
func FindScenarios(path, filter string) ([]string, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, &ScenarioNotFoundError{Path: path}
	}
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	var candidates []string
	if info.IsDir() {
		err := filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			if ext := filepath.Ext(p); ext == ".yaml" || ext == ".yml" {
				candidates = append(candidates, p)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", path, err)
		}
	} else {
		candidates = []string{path}
	}

	var out []string
	for _, p := range candidates {
		if filter != "" {
			base := strings.TrimSuffix(filepath.Base(p), filepath.Ext(p))
			ok, err := filepath.Match(filter, base)
			if err != nil {
				return nil, fmt.Errorf("invalid filter %q: %w", filter, err)
			}
			if !ok {
				continue
			}
		}
		out = append(out, p)
	}
	sort.Strings(out)
	return out, nil
}

// SuiteOptions configures RunSuite.
type SuiteOptions struct {
	// GoldenDir, when set, holds one {scenario}.golden file per scenario
	// that its snapshot must match.
	GoldenDir string

	// Update rewrites golden files instead of comparing them.
	Update bool

	Logger *slog.Logger
}

// SuiteResult summarizes a run of several scenario files.
type SuiteResult struct {
	Total    int               `json:"total"`
	Passed   int               `json:"passed"`
	Failed   int               `json:"failed"`
	Updated  int               `json:"updated,omitempty"`
	Failures []ScenarioFailure `json:"failures,omitempty"`
}

// ScenarioFailure represents a failed scenario file.
type ScenarioFailure struct {
	Scenario string   `json:"scenario"`
	Path     string   `json:"path"`
	Errors   []string `json:"errors"`
}

// RunSuite loads and runs every scenario file in paths.
//
// For each file:
//  1. Load the scenario (catalog resolved against the file's directory)
//  2. Run it in a fresh database
//  3. Compare or update its golden file
//  4. Record pass or failure
//
// Failures of one scenario never stop the others.
func RunSuite(ctx context.Context, paths []string, opts SuiteOptions) (*SuiteResult, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	result := &SuiteResult{}
	for _, path := range paths {
		result.Total++
		fail := func(name string, errs ...string) {
			result.Failed++
			result.Failures = append(result.Failures, ScenarioFailure{Scenario: name, Path: path, Errors: errs})
		}

		scenario, err := LoadScenario(path)
		if err != nil {
			fail(filepath.Base(path), fmt.Sprintf("failed to load scenario: %v", err))
			continue
		}

		run, err := RunContext(ctx, scenario, logger)
		if err != nil {
			fail(scenario.Name, fmt.Sprintf("scenario execution failed: %v", err))
			continue
		}

		errs := run.Errors
		if opts.GoldenDir != "" {
			updated, err := compareGolden(opts.GoldenDir, scenario.Name, Snapshot(scenario.Name, run), opts.Update)
			if err != nil {
				errs = append(errs, err.Error())
			}
			if updated {
				result.Updated++
			}
		}

		logger.Info("scenario run", "scenario", scenario.Name, "path", path, "failures", len(errs))
		if len(errs) > 0 {
			fail(scenario.Name, errs...)
			continue
		}
		result.Passed++
	}

	return result, nil
}

// compareGolden checks snapshot against dir/{name}.golden, or writes it
// when update is set. Reports whether the file was written.
func compareGolden(dir, name string, snapshot []byte, update bool) (bool, error) {
	path := filepath.Join(dir, name+".golden")

	if update {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return false, fmt.Errorf("create golden dir: %w", err)
		}
		if err := os.WriteFile(path, snapshot, 0o644); err != nil {
			return false, fmt.Errorf("write golden file: %w", err)
		}
		return true, nil
	}

	want, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return false, fmt.Errorf("golden file %s missing; run with --update to create it", path)
	}
	if err != nil {
		return false, fmt.Errorf("read golden file: %w", err)
	}
	if !bytes.Equal(want, snapshot) {
		return false, fmt.Errorf("snapshot differs from %s", path)
	}
	return false, nil
}
