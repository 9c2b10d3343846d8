package effectchain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cwbudde/algo-sfx/dsp/buffer"
)

// ErrUnknownEffect is returned when a step references an unregistered effect.
var ErrUnknownEffect = errors.New("unknown effect type")

// Step is one effect invocation in a recipe.
type Step struct {
	Effect   string `json:"effect"`
	Params   Params `json:"params"`
	Bypassed bool   `json:"bypassed,omitempty"`
}

// Recipe is an ordered list of steps.
type Recipe struct {
	Steps []Step `json:"steps"`
}

// ParseRecipe decodes a JSON recipe. Unknown top-level or step fields are
// rejected.
func ParseRecipe(data []byte) (Recipe, error) {
	var r Recipe
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&r); err != nil {
		return Recipe{}, fmt.Errorf("invalid chain recipe json: %w", err)
	}
	return r, nil
}

type chainStep struct {
	name   string
	effect Effect
}

// Chain runs a compiled recipe. It holds no audio state between calls, so
// one Chain can process many buffers.
type Chain struct {
	steps []chainStep
}

// New resolves every step of recipe against registry and builds its effect.
// A nil registry means DefaultRegistry. Unknown effects, unknown parameter
// keys and mistyped values are reported here, before any audio is processed.
func New(recipe Recipe, registry *Registry) (*Chain, error) {
	if registry == nil {
		registry = DefaultRegistry()
	}

	c := &Chain{}
	for i, s := range recipe.Steps {
		if s.Bypassed {
			continue
		}
		fx, err := registry.Build(s.Effect, s.Params)
		if err != nil {
			return nil, fmt.Errorf("effectchain: step %d (%s): %w", i, s.Effect, err)
		}
		c.steps = append(c.steps, chainStep{name: normalizeEffectName(s.Effect), effect: fx})
	}

	return c, nil
}

// Len returns the number of active steps.
func (c *Chain) Len() int { return len(c.steps) }

// Effects returns the normalized effect names of the active steps.
func (c *Chain) Effects() []string {
	names := make([]string, len(c.steps))
	for i, s := range c.steps {
		names[i] = s.name
	}
	return names
}

// Process runs every step in order. The input is never modified; an empty
// chain returns a copy.
func (c *Chain) Process(a *buffer.Audio) (*buffer.Audio, error) {
	out := a
	for i, s := range c.steps {
		next, err := s.effect.Process(out)
		if err != nil {
			return nil, fmt.Errorf("effectchain: step %d (%s): %w", i, s.name, err)
		}
		out = next
	}
	if out == a {
		return a.Clone(), nil
	}
	return out, nil
}
