package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// CompositeMachine selects the palindrome AND div3 decider.
const CompositeMachine = "composite"

// Scenario defines a conformance test scenario.
// A scenario runs a list of inputs through one machine (or the composite)
// and checks each verdict, optionally the exact trace, and any
// scenario-wide assertions.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Machine is a built-in machine name, "composite", or the name of a
	// machine declared in MachineFile. May be omitted when MachineFile
	// declares exactly one machine.
	Machine string `yaml:"machine,omitempty"`

	// MachineFile is an optional CUE definition file.
	// Relative paths are resolved against the scenario file's directory.
	MachineFile string `yaml:"machine_file,omitempty"`

	// MaxSteps overrides the per-run step ceiling. Zero keeps the default.
	MaxSteps int `yaml:"max_steps,omitempty"`

	// Cases are evaluated in order.
	Cases []Case `yaml:"cases"`

	// Assertions are checked after every case ran.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// Case is one input and its expected outcome.
type Case struct {
	Input string `yaml:"input"`

	// Expect is "accept", "reject" or "error".
	Expect string `yaml:"expect"`

	// Error optionally narrows an expected error:
	// "tape_bounds", "steps_exceeded" or "invalid_input".
	Error string `yaml:"error,omitempty"`

	// Trace is the exact expected state trace (single-machine scenarios only).
	Trace []string `yaml:"trace,omitempty"`

	// Runs maps machine name to its expected verdict (composite scenarios only).
	Runs map[string]string `yaml:"runs,omitempty"`
}

// Expected error kinds.
const (
	ErrorTapeBounds    = "tape_bounds"
	ErrorStepsExceeded = "steps_exceeded"
	ErrorInvalidInput  = "invalid_input"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
//
// A relative machine_file is resolved against the scenario's directory.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Parse YAML with strict field validation (catches typos like "case:" vs "cases:")
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	// Resolve machine path relative to the scenario BEFORE validation
	if scenario.MachineFile != "" && !filepath.IsAbs(scenario.MachineFile) {
		scenario.MachineFile = filepath.Join(filepath.Dir(path), scenario.MachineFile)
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
		return nil, fmt.Errorf("list scenarios: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no scenarios found in %s", dir)
	}

	scenarios := make([]*Scenario, 0, len(paths))
	for _, p := range paths {
		s, err := LoadScenario(p)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(p), err)
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

	if s.Machine == "" && s.MachineFile == "" {
		return fmt.Errorf("machine or machine_file is required")
	}

	if s.Machine == CompositeMachine && s.MachineFile != "" {
		return fmt.Errorf("machine_file cannot be used with the composite machine")
	}

	if s.MachineFile != "" {
		if _, err := os.Stat(s.MachineFile); os.IsNotExist(err) {
			return fmt.Errorf("machine file not found: %s", s.MachineFile)
		}
	}

	if s.MaxSteps < 0 {
		return fmt.Errorf("max_steps must be non-negative")
	}

	if len(s.Cases) == 0 {
		return fmt.Errorf("cases list is required and must be non-empty")
	}

	composite := s.Machine == CompositeMachine
	for i, c := range s.Cases {
		switch c.Expect {
		case StatusAccept, StatusReject:
			if c.Error != "" {
				return fmt.Errorf("cases[%d]: error is only valid with expect: error", i)
			}
		case StatusError:
			switch c.Error {
			case "", ErrorTapeBounds, ErrorStepsExceeded, ErrorInvalidInput:
			default:
				return fmt.Errorf("cases[%d]: unknown error kind %q", i, c.Error)
			}
		case "":
			return fmt.Errorf("cases[%d]: expect is required", i)
		default:
			return fmt.Errorf("cases[%d]: expect must be accept, reject or error, got %q", i, c.Expect)
		}

		if composite && len(c.Trace) > 0 {
			return fmt.Errorf("cases[%d]: trace is only valid for a single machine", i)
		}
		if !composite && len(c.Runs) > 0 {
			return fmt.Errorf("cases[%d]: runs is only valid for the composite machine", i)
		}
		for machine, verdict := range c.Runs {
			if verdict != StatusAccept && verdict != StatusReject {
				return fmt.Errorf("cases[%d].runs.%s: must be accept or reject, got %q", i, machine, verdict)
			}
		}
	}

	for i, a := range s.Assertions {
		if err := validateAssertion(i, &a); err != nil {
			return err
		}
	}

	return nil
}
