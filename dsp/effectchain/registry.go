package effectchain

import (
	"errors"
	"fmt"
	"sort"

	"github.com/cwbudde/algo-sfx/dsp/buffer"
)

// Effect processes a whole buffer and returns a new one.
type Effect interface {
	Process(a *buffer.Audio) (*buffer.Audio, error)
}

// EffectFunc adapts a function to Effect.
type EffectFunc func(a *buffer.Audio) (*buffer.Audio, error)

// Process calls f(a).
func (f EffectFunc) Process(a *buffer.Audio) (*buffer.Audio, error) { return f(a) }

// Factory builds one configured Effect from step parameters.
type Factory func(params Params) (Effect, error)

// Registry maps effect names to their factories.
type Registry struct {
	factories map[string]Factory
}

var errDuplicateEffect = errors.New("duplicate effect type")

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a factory under the normalized form of name.
func (r *Registry) Register(name string, factory Factory) error {
	name = normalizeEffectName(name)
	if name == "" {
		return errors.New("empty effect type")
	}

	if factory == nil {
		return errors.New("nil factory")
	}

	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("%w: %s", errDuplicateEffect, name)
	}

	r.factories[name] = factory

	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(name string, factory Factory) {
	if err := r.Register(name, factory); err != nil {
		panic("effectchain registry: " + err.Error())
	}
}

// Lookup returns the factory for name, or nil.
func (r *Registry) Lookup(name string) Factory {
	return r.factories[normalizeEffectName(name)]
}

// Names returns the registered effect names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Build looks up name and runs its factory.
func (r *Registry) Build(name string, params Params) (Effect, error) {
	factory := r.Lookup(name)
	if factory == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEffect, name)
	}
	return factory(params)
}
