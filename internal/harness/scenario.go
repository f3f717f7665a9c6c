package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/housingjson/internal/querypath"
	"github.com/roach88/housingjson/internal/querysql"
)

// Scenario defines an end-to-end query scenario.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Seed is a JSON file holding an array of documents to store first.
	// Relative paths are resolved against the scenario file's directory.
	Seed string `yaml:"seed,omitempty"`

	// Documents are stored after Seed, in order.
	Documents []map[string]any `yaml:"documents,omitempty"`

	// KeyCasing selects path normalization ("capitalize" or "preserve").
	KeyCasing string `yaml:"key_casing,omitempty"`

	// Steps are the queries to run, in order.
	Steps []Step `yaml:"steps"`

	// Assertions validate the step results as a whole.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// Step is one projection query.
type Step struct {
	// Name identifies the step within the scenario.
	Name string `yaml:"name"`

	// Strategy is "dot" or "jq".
	Strategy string `yaml:"strategy"`

	// Query holds the request parameters.
	Query QuerySpec `yaml:"query"`

	// Expect specifies the expected outcome. If nil the step must succeed.
	Expect *Expect `yaml:"expect,omitempty"`
}

// QuerySpec mirrors the HTTP query parameters.
type QuerySpec struct {
	Select []string `yaml:"select,omitempty"`
	Where  string   `yaml:"where,omitempty"`
	Value  string   `yaml:"value,omitempty"`
	String bool     `yaml:"string,omitempty"`
	Limit  int      `yaml:"limit,omitempty"`
}

// Expect specifies expected step behavior.
type Expect struct {
	// Error is "" for success or "validation" for a rejected query.
	Error string `yaml:"error,omitempty"`

	// Count is the expected number of rows, if set.
	Count *int `yaml:"count,omitempty"`

	// Rows is the exact expected data, if set.
	Rows []any `yaml:"rows,omitempty"`
}

// Assertion validates the scenario's results.
type Assertion struct {
	// Type specifies the assertion type:
	// - "oracle": results match an independent JSONPath evaluation
	// - "strategies_agree": dot and jq return the same data
	// - "bind_parity": binds match placeholders
	// - "row_count": Step returned exactly Count rows
	Type string `yaml:"type"`

	// Step names the step (used by row_count).
	Step string `yaml:"step,omitempty"`

	// Count is the expected number of rows (used by row_count).
	Count int `yaml:"count,omitempty"`
}

// Assertion type constants.
const (
	AssertOracle          = "oracle"
	AssertStrategiesAgree = "strategies_agree"
	AssertBindParity      = "bind_parity"
	AssertRowCount        = "row_count"
)

// ExpectValidation marks a step that must be rejected as invalid.
const ExpectValidation = "validation"

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	// Read file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Parse YAML with strict field validation (catches typos like "assertion:" vs "assertions:")
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	// Resolve the seed path relative to the scenario BEFORE validation
	if scenario.Seed != "" && !filepath.IsAbs(scenario.Seed) {
		scenario.Seed = filepath.Join(filepath.Dir(path), scenario.Seed)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// LoadScenarios loads every *.yaml file in dir, sorted by file name.
func LoadScenarios(dir string) ([]*Scenario, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, err
	}
	scenarios := make([]*Scenario, 0, len(paths))
	for _, path := range paths {
		s, err := LoadScenario(path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Seed == "" && len(s.Documents) == 0 {
		return fmt.Errorf("seed or documents is required")
	}

	if s.Seed != "" {
		if _, err := os.Stat(s.Seed); os.IsNotExist(err) {
			return fmt.Errorf("seed file not found: %s", s.Seed)
		}
	}

	if _, err := querypath.ParseCasing(s.KeyCasing); err != nil {
		return err
	}

	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	names := make(map[string]bool, len(s.Steps))
	for i, step := range s.Steps {
		if step.Name == "" {
			return fmt.Errorf("steps[%d]: name is required", i)
		}
		if names[step.Name] {
			return fmt.Errorf("steps[%d]: duplicate name %q", i, step.Name)
		}
		names[step.Name] = true

		if _, err := querysql.ParseStrategy(step.Strategy); err != nil {
			return fmt.Errorf("steps[%d]: %w", i, err)
		}
		if step.Expect != nil && step.Expect.Error != "" && step.Expect.Error != ExpectValidation {
			return fmt.Errorf("steps[%d].expect: unknown error kind %q", i, step.Expect.Error)
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion, names); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion, steps map[string]bool) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertOracle, AssertStrategiesAgree, AssertBindParity:
	case AssertRowCount:
		if a.Step == "" {
			return fmt.Errorf("assertions[%d]: step is required for row_count", index)
		}
		if !steps[a.Step] {
			return fmt.Errorf("assertions[%d]: unknown step %q", index, a.Step)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for row_count", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
