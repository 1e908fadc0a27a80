package pipeline

import (
	"fmt"
	"slices"
	"sync"
)

// StepSet builds a fresh ordered step sequence.
type StepSet func() []Step

// Registry maps step source identifiers to step sets. Sets are validated
// when registered and again when looked up.
type Registry struct {
	mu   sync.RWMutex
	sets map[string]StepSet
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{sets: make(map[string]StepSet)}
}

// Register adds a named step set. Names are unique.
func (r *Registry) Register(name string, set StepSet) error {
	if name == "" {
		return fmt.Errorf("step set name is required")
	}
	if set == nil {
		return fmt.Errorf("step set %q: constructor is nil", name)
	}
	if err := CheckSteps(set()); err != nil {
		return fmt.Errorf("step set %q: %w", name, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.sets[name]; exists {
		return fmt.Errorf("step set %q already registered", name)
	}
	r.sets[name] = set
	return nil
}

// Lookup returns the steps of a named set. ok is false for unknown names.
func (r *Registry) Lookup(name string) (steps []Step, ok bool, err error) {
	r.mu.RLock()
	set, ok := r.sets[name]
	r.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}

	steps = set()
	if err := CheckSteps(steps); err != nil {
		return nil, true, fmt.Errorf("step set %q: %w", name, err)
	}
	return steps, true, nil
}

// Names returns the registered set names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.sets))
	for name := range r.sets {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
