package harness

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario defines one conformance scenario.
type Scenario struct {
	// Name uniquely identifies the scenario; golden files use it.
	Name string `yaml:"name"`

	// Description explains what the scenario validates.
	Description string `yaml:"description,omitempty"`

	// Model is inline CUE source for the geometry model. Exactly one of
	// Model and ModelDir must be set.
	Model string `yaml:"model,omitempty"`

	// ModelDir is a directory of CUE model files, relative to the
	// scenario file.
	ModelDir string `yaml:"modelDir,omitempty"`

	// Export, when set, additionally writes the mesh to this path through
	// the kernel exporter after generation.
	Export string `yaml:"export,omitempty"`

	// Assertions validate the recorded kernel-op trace.
	Assertions []Assertion `yaml:"assertions,omitempty"`

	// dir is the directory the scenario was loaded from, for resolving
	// ModelDir. Empty for in-memory scenarios.
	dir string
}

// Assertion types.
const (
	AssertOpContains = "op_contains"
	AssertOpOrder    = "op_order"
	AssertOpCount    = "op_count"
)

// Assertion validates one property of the op trace.
type Assertion struct {
	// Type is one of op_contains, op_order, op_count.
	Type string `yaml:"type"`

	// Op is the op name (op_contains, op_count).
	Op string `yaml:"op,omitempty"`

	// Args are expected op arguments, subset-matched (op_contains).
	Args map[string]any `yaml:"args,omitempty"`

	// Tag is the expected returned tag, when non-zero (op_contains).
	Tag int `yaml:"tag,omitempty"`

	// Count is the expected number of occurrences (op_count).
	Count int `yaml:"count,omitempty"`

	// Ops is the expected op name order, not necessarily consecutive
	// (op_order).
	Ops []string `yaml:"ops,omitempty"`
}

// LoadScenario reads and validates a scenario YAML file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario %s: %w", path, err)
	}

	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}
	s.dir = filepath.Dir(path)

	if err := s.validate(); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	return &s, nil
}

func (s *Scenario) validate() error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if (s.Model == "") == (s.ModelDir == "") {
		return fmt.Errorf("exactly one of model and modelDir is required")
	}
	for i, a := range s.Assertions {
		switch a.Type {
		case AssertOpContains:
			if a.Op == "" {
				return fmt.Errorf("assertion %d: op_contains needs an op", i)
			}
		case AssertOpCount:
			if a.Op == "" {
				return fmt.Errorf("assertion %d: op_count needs an op", i)
			}
		case AssertOpOrder:
			if len(a.Ops) < 2 {
				return fmt.Errorf("assertion %d: op_order needs at least 2 ops", i)
			}
		default:
			return fmt.Errorf("assertion %d: unknown type %q", i, a.Type)
		}
	}
	return nil
}

// modelPath resolves ModelDir against the scenario file location.
func (s *Scenario) modelPath() string {
	if filepath.IsAbs(s.ModelDir) || s.dir == "" {
		return s.ModelDir
	}
	return filepath.Join(s.dir, s.ModelDir)
}
