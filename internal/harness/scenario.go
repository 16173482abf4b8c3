package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Scenario is one conformance case: a module, the stage to run, the
// argument lines to feed it and the expected outcome.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Module is a .cue file or CUE package directory.
	// Relative paths resolve against the scenario file's directory.
	Module string `yaml:"module"`

	// Stage selects the entry point: vertex, fragment or compute.
	Stage string `yaml:"stage"`

	// Inputs are the argument lines, one per declared argument.
	Inputs []string `yaml:"inputs"`

	// LegacySequencing runs with last-statement-wins sequencing.
	LegacySequencing bool `yaml:"legacy_sequencing,omitempty"`

	// MaxSteps overrides the interpreter's expression evaluation limit.
	MaxSteps int `yaml:"max_steps,omitempty"`

	// Expect is the required outcome.
	Expect Expect `yaml:"expect"`

	// Assertions check the execution trace.
	// Supported types: trace_contains, trace_order, trace_count, scope_value
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// Expect names exactly one outcome.
type Expect struct {
	// Result is the rendered value, e.g. "[2, 3, 4]".
	Result *string `yaml:"result,omitempty"`

	// Error is a runtime error code, e.g. SIZE_MISMATCH.
	Error string `yaml:"error,omitempty"`

	// Void expects the entry point to finish without a value.
	Void bool `yaml:"void,omitempty"`
}

// Assertion validates the trace.
type Assertion struct {
	// Type specifies the assertion type:
	// - "trace_contains": an expression of Kind was evaluated (to Value, if set)
	// - "trace_order": Kinds first appear in this order
	// - "trace_count": Kind appears exactly Count times
	// - "scope_value": Variable was visible with Value before some statement
	Type string `yaml:"type"`

	// Kind is a statement or expression kind, e.g. "Binary" or "Return".
	Kind string `yaml:"kind,omitempty"`

	// Kinds is the expected order (trace_order).
	Kinds []string `yaml:"kinds,omitempty"`

	// Count is the expected number of occurrences (trace_count).
	Count int `yaml:"count,omitempty"`

	// Variable is a scope name (scope_value).
	Variable string `yaml:"variable,omitempty"`

	// Value is a rendered value (trace_contains, scope_value).
	Value string `yaml:"value,omitempty"`
}

// Assertion type constants.
const (
	AssertTraceContains = "trace_contains"
	AssertTraceOrder    = "trace_order"
	AssertTraceCount    = "trace_count"
	AssertScopeValue    = "scope_value"
)

// LoadScenario reads and parses a scenario YAML file.
// The module path is resolved against the scenario's directory.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict field validation catches typos like "input:" vs "inputs:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if scenario.Module != "" && !filepath.IsAbs(scenario.Module) {
		scenario.Module = filepath.Join(filepath.Dir(path), scenario.Module)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// FindScenarioFiles returns the .yaml and .yml files under dir, sorted.
// A non-empty filter is a glob matched against the file name without extension.
func FindScenarioFiles(dir, filter string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		ext := filepath.Ext(path)
		if ext != ".yaml" && ext != ".yml" {
			return nil
		}

		if filter != "" {
			name := strings.TrimSuffix(filepath.Base(path), ext)
			matched, err := filepath.Match(filter, name)
			if err != nil {
				return fmt.Errorf("invalid filter pattern: %w", err)
			}
			if !matched {
				return nil
			}
		}

		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Module == "" {
		return fmt.Errorf("module is required")
	}
	if _, err := os.Stat(s.Module); os.IsNotExist(err) {
		return fmt.Errorf("module not found: %s", s.Module)
	}

	if s.Stage == "" {
		return fmt.Errorf("stage is required")
	}

	outcomes := 0
	if s.Expect.Result != nil {
		outcomes++
	}
	if s.Expect.Error != "" {
		outcomes++
	}
	if s.Expect.Void {
		outcomes++
	}
	if outcomes != 1 {
		return fmt.Errorf("expect must set exactly one of result, error, void")
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertTraceContains:
		if a.Kind == "" {
			return fmt.Errorf("assertions[%d]: kind is required for trace_contains", index)
		}
	case AssertTraceOrder:
		if len(a.Kinds) == 0 {
			return fmt.Errorf("assertions[%d]: kinds list is required for trace_order", index)
		}
	case AssertTraceCount:
		if a.Kind == "" {
			return fmt.Errorf("assertions[%d]: kind is required for trace_count", index)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for trace_count", index)
		}
	case AssertScopeValue:
		if a.Variable == "" {
			return fmt.Errorf("assertions[%d]: variable is required for scope_value", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
