package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/semdoc/internal/token"
)

// Scenario defines one conformance scenario: a document, an observer,
// and a sequence of interactions with expected outcomes.
type Scenario struct {
	// Name uniquely identifies the scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what the scenario validates.
	Description string `yaml:"description"`

	// Document is the source text parsed at the start of the run.
	Document string `yaml:"document"`

	// Definitions optionally holds CUE source extending the builtin
	// token registry for this scenario.
	Definitions string `yaml:"definitions,omitempty"`

	// Observer is the interacting observer.
	Observer ObserverSpec `yaml:"observer"`

	// Interactions is the ordered list of actions to execute.
	Interactions []InteractionStep `yaml:"interactions"`

	// ExpectRender optionally asserts the rendered document text after
	// all interactions ran.
	ExpectRender *string `yaml:"expect_render,omitempty"`
}

// ObserverSpec is the YAML form of a token.Observer.
type ObserverSpec struct {
	ID           string   `yaml:"id"`
	Role         string   `yaml:"role"`
	Capabilities []string `yaml:"capabilities"`
	Density      string   `yaml:"density,omitempty"`
}

// Observer converts the YAML form to the core type.
func (o ObserverSpec) Observer() token.Observer {
	caps := make([]token.Capability, len(o.Capabilities))
	for i, c := range o.Capabilities {
		caps[i] = token.Capability(c)
	}
	density := o.Density
	if density == "" {
		density = "compact"
	}
	return token.Observer{ID: o.ID, Role: o.Role, Capabilities: caps, Density: density}
}

// InteractionStep is one action against one token of the document.
type InteractionStep struct {
	// Action is the affordance name to trigger (e.g. "toggle").
	Action string `yaml:"action"`

	// TokenKind selects which kind of token to target.
	TokenKind string `yaml:"token_kind"`

	// TokenIndex selects the nth token of that kind, in document order.
	TokenIndex int `yaml:"token_index,omitempty"`

	// Args are the action arguments. The string value "$document"
	// expands to the current document text, so text-mode toggles can
	// reference the document without repeating it.
	Args map[string]any `yaml:"args,omitempty"`

	// Expect optionally validates the interaction result.
	Expect *ExpectClause `yaml:"expect,omitempty"`
}

// ExpectClause specifies the expected interaction result.
// Data is a subset match: only the listed keys are compared.
type ExpectClause struct {
	Status          string         `yaml:"status"`
	Data            map[string]any `yaml:"data,omitempty"`
	MessageContains string         `yaml:"message_contains,omitempty"`
}

// LoadScenario reads and parses a scenario YAML file. Unknown fields are
// rejected so a typo like "interaction:" fails loudly instead of running
// an empty scenario.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML bytes with strict field validation.
func ParseScenario(data []byte) (*Scenario, error) {
	var s Scenario
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("parse scenario YAML: %w", err)
	}
	if err := validateScenario(&s); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &s, nil
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.Observer.ID == "" {
		return fmt.Errorf("observer.id is required")
	}
	for _, c := range s.Observer.Capabilities {
		if !token.ValidCapabilities[token.Capability(c)] {
			return fmt.Errorf("observer: unknown capability %q", c)
		}
	}
	if len(s.Interactions) == 0 {
		return fmt.Errorf("interactions list is required and must be non-empty")
	}
	for i, step := range s.Interactions {
		if step.Action == "" {
			return fmt.Errorf("interactions[%d]: action is required", i)
		}
		if step.TokenKind == "" {
			return fmt.Errorf("interactions[%d]: token_kind is required", i)
		}
		if !token.ValidKinds[token.TokenKind(step.TokenKind)] {
			return fmt.Errorf("interactions[%d]: unknown token_kind %q", i, step.TokenKind)
		}
		if step.TokenIndex < 0 {
			return fmt.Errorf("interactions[%d]: token_index must be non-negative", i)
		}
		if step.Expect != nil && step.Expect.Status == "" {
			return fmt.Errorf("interactions[%d].expect: status is required", i)
		}
	}
	return nil
}
