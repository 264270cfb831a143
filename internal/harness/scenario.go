package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/serress/internal/engine"
	"github.com/roach88/serress/internal/label"
)

// Scenario is one YAML test case.
type Scenario struct {
	// Name identifies the scenario and its golden file.
	Name string `yaml:"name"`

	// Description explains what the scenario checks.
	Description string `yaml:"description"`

	// Example names a catalog entry to start from. When set, width, height
	// and bounds come from the entry.
	Example string `yaml:"example,omitempty"`

	Width  int         `yaml:"width,omitempty"`
	Height int         `yaml:"height,omitempty"`
	Bounds *BoundsSpec `yaml:"bounds,omitempty"`

	Fiber []LabelSpec `yaml:"fiber,omitempty"`
	Base  []LabelSpec `yaml:"base,omitempty"`
	Total []LabelSpec `yaml:"total,omitempty"`

	// Steps are direct sets applied after the seeds.
	Steps []Step `yaml:"steps,omitempty"`

	Assertions []Assertion `yaml:"assertions"`
}

// BoundsSpec overrides the boundary policy. Omitted sides stay bounded.
type BoundsSpec struct {
	Right *bool `yaml:"right,omitempty"`
	Upper *bool `yaml:"upper,omitempty"`
}

// Policy returns the engine policy described by b.
func (b *BoundsSpec) Policy() engine.BoundaryPolicy {
	policy := engine.DefaultBoundaryPolicy()
	if b == nil {
		return policy
	}
	if b.Right != nil {
		policy.RightBounded = *b.Right
	}
	if b.Upper != nil {
		policy.UpperBounded = *b.Upper
	}
	return policy
}

// Step sets one cell.
type Step struct {
	Page  int       `yaml:"page"`
	P     int       `yaml:"p"`
	Q     int       `yaml:"q"`
	Label LabelSpec `yaml:"label"`
}

// Assertion checks the final state of the sequence.
type Assertion struct {
	Type   string      `yaml:"type"`
	Page   int         `yaml:"page,omitempty"`
	P      int         `yaml:"p,omitempty"`
	Q      int         `yaml:"q,omitempty"`
	Label  *LabelSpec  `yaml:"label,omitempty"`
	Labels []LabelSpec `yaml:"labels,omitempty"`
	Rule   string      `yaml:"rule,omitempty"`
	Value  *bool       `yaml:"value,omitempty"`
}

// Assertion type constants.
const (
	AssertCell     = "cell"
	AssertRow      = "row"
	AssertColumn   = "column"
	AssertResolved = "resolved"
	AssertConflict = "conflict"
)

// LabelSpec is a label written as YAML text: Z, 0, "?", Z^2 or a rank.
type LabelSpec struct {
	label.Label
}

// UnmarshalYAML parses the scalar with label.Parse.
func (l *LabelSpec) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: label must be a scalar", node.Line)
	}
	parsed, err := label.Parse(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	l.Label = parsed
	return nil
}

// MarshalYAML writes the display symbol.
func (l LabelSpec) MarshalYAML() (any, error) {
	return l.Display(), nil
}

// Labels converts specs to engine labels.
func Labels(specs []LabelSpec) []label.Label {
	if specs == nil {
		return nil
	}
	out := make([]label.Label, len(specs))
	for i, s := range specs {
		out[i] = s.Label
	}
	return out
}

// Specs converts engine labels to specs.
func Specs(labels []label.Label) []LabelSpec {
	out := make([]LabelSpec, len(labels))
	for i, l := range labels {
		out[i] = LabelSpec{Label: l}
	}
	return out
}

// LoadScenario reads and validates a scenario file. Unknown fields are
// rejected so typos do not silently drop assertions.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

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

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Example == "" {
		if s.Width <= 0 || s.Height <= 0 {
			return fmt.Errorf("width and height must be positive (got %dx%d)", s.Width, s.Height)
		}
	} else if s.Width != 0 || s.Height != 0 || s.Bounds != nil {
		return fmt.Errorf("example %q fixes dimensions and bounds; remove width, height and bounds", s.Example)
	}

	for i, step := range s.Steps {
		if step.Page < engine.FirstPage {
			return fmt.Errorf("steps[%d]: page must be at least %d", i, engine.FirstPage)
		}
		if !step.Label.IsDetermined() {
			return fmt.Errorf("steps[%d]: label must be determined", i)
		}
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}
	for i := range s.Assertions {
		if err := validateAssertion(i, &s.Assertions[i]); err != nil {
			return err
		}
	}
	return nil
}

func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertCell:
		if a.Page < engine.FirstPage {
			return fmt.Errorf("assertions[%d]: page is required for cell", index)
		}
		if a.Label == nil && a.Rule == "" {
			return fmt.Errorf("assertions[%d]: label or rule is required for cell", index)
		}
	case AssertRow, AssertColumn:
		if a.Page < engine.FirstPage {
			return fmt.Errorf("assertions[%d]: page is required for %s", index, a.Type)
		}
		if len(a.Labels) == 0 {
			return fmt.Errorf("assertions[%d]: labels are required for %s", index, a.Type)
		}
	case AssertResolved:
		if a.Value == nil {
			return fmt.Errorf("assertions[%d]: value is required for resolved", index)
		}
	case AssertConflict:
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
