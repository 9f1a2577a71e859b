package codegen

import (
	"fmt"
	"sort"
)

// Registry manages the available artifact generators.
type Registry struct {
	generators map[string]func() Generator
}

// NewRegistry creates an empty generator registry.
func NewRegistry() *Registry {
	return &Registry{generators: make(map[string]func() Generator)}
}

// Register adds a generator factory under the given artifact name.
func (r *Registry) Register(name string, factory func() Generator) {
	r.generators[name] = factory
}

// Get returns a generator for the named artifact.
func (r *Registry) Get(name string) (Generator, error) {
	factory, ok := r.generators[name]
	if !ok {
		return nil, fmt.Errorf("unknown artifact: %s", name)
	}
	return factory(), nil
}

// Names returns the registered artifact names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.generators))
	for name := range r.generators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
