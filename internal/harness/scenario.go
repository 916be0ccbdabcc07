package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/prestige/internal/ir"
)

// Scenario defines a conformance test scenario.
// Scenarios run declaration sources through the rewrite pipeline and
// assert on the resulting method facts or on the failure it produces.
type Scenario struct {
	// Name uniquely identifies this scenario.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Decls lists paths to CUE declaration files to compile.
	// Paths are relative to the scenario file location.
	Decls []string `yaml:"decls"`

	// Bounds is the caller-supplied capability directive list,
	// e.g. "?Transferable,SharedAccess". Empty means mode defaults.
	Bounds string `yaml:"bounds,omitempty"`

	// Mode is the concurrency mode (threads|local).
	// Empty defaults to the build-time mode.
	Mode string `yaml:"mode,omitempty"`

	// RunID is an optional fixed run id for deterministic ledger rows.
	// If empty, defaults to "test-run-default".
	RunID string `yaml:"run_id,omitempty"`

	// Expect specifies the expected outcome.
	Expect Expectation `yaml:"expect"`
}

// Expectation specifies the expected outcome of a scenario.
// Exactly one of Failure or Methods should drive the scenario: a
// failing scenario names the failure it expects, a passing one lists
// facts about its rewritten methods.
type Expectation struct {
	// Failure, if set, means the pipeline must fail with this error.
	Failure *FailureExpect `yaml:"failure,omitempty"`

	// Methods lists facts that rewritten methods must exhibit.
	// Subset match - only specified fields are validated.
	Methods []MethodExpect `yaml:"methods,omitempty"`
}

// FailureExpect specifies an expected pipeline failure.
type FailureExpect struct {
	// Type is the failure class: "config" or "parse".
	Type string `yaml:"type"`

	// Contains is an optional substring the error message must contain.
	Contains string `yaml:"contains,omitempty"`
}

// MethodExpect specifies expected facts about one rewritten method.
// Pointer fields are only checked when set, so scenarios state just
// the facts they care about.
type MethodExpect struct {
	// Declaration is the declaration name (e.g. "Fetcher",
	// "Fetcher for HttpFetcher").
	Declaration string `yaml:"declaration"`

	// Method is the method or function name.
	Method string `yaml:"method"`

	Deferred     *bool    `yaml:"deferred,omitempty"`
	Yields       string   `yaml:"yields,omitempty"`
	Transferable *bool    `yaml:"transferable,omitempty"`
	SharedAccess *bool    `yaml:"shared_access,omitempty"`
	MustObserve  *bool    `yaml:"must_observe,omitempty"`
	Wrapped      *bool    `yaml:"wrapped,omitempty"`
	Suppress     []string `yaml:"suppress,omitempty"`
}

// Failure type constants.
const (
	FailureConfig = "config"
	FailureParse  = "parse"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	return LoadScenarioWithBasePath(path, "")
}

// LoadScenarioWithBasePath reads and parses a scenario YAML file,
// resolving declaration paths relative to the provided base path.
// This is useful when scenario files reference declarations using
// relative paths.
func LoadScenarioWithBasePath(path, basePath string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Parse YAML with strict field validation (catches typos like "expects:" vs "expect:")
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	// Resolve declaration paths relative to base path BEFORE validation
	for i, declPath := range scenario.Decls {
		if !filepath.IsAbs(declPath) && basePath != "" {
			scenario.Decls[i] = filepath.Join(basePath, declPath)
		}
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

	if len(s.Decls) == 0 {
		return fmt.Errorf("decls list is required and must be non-empty")
	}

	if s.Mode != "" && !ir.ValidModes[s.Mode] {
		return fmt.Errorf("unknown mode %q", s.Mode)
	}

	if s.Expect.Failure == nil && len(s.Expect.Methods) == 0 {
		return fmt.Errorf("expect must specify a failure or at least one method fact")
	}

	if s.Expect.Failure != nil {
		switch s.Expect.Failure.Type {
		case FailureConfig, FailureParse:
		default:
			return fmt.Errorf("expect.failure: unknown failure type %q", s.Expect.Failure.Type)
		}
	}

	// Validate declaration paths exist
	for _, declPath := range s.Decls {
		if _, err := os.Stat(declPath); os.IsNotExist(err) {
			return fmt.Errorf("declaration file not found: %s", declPath)
		}
	}

	// Validate method expectations
	for i, m := range s.Expect.Methods {
		if m.Declaration == "" {
			return fmt.Errorf("expect.methods[%d]: declaration is required", i)
		}
		if m.Method == "" {
			return fmt.Errorf("expect.methods[%d]: method is required", i)
		}
	}

	return nil
}
