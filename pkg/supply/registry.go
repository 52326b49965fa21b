package supply

import (
	"sort"
	"sync"
)

// Registry is an in-memory supply Provider.
// It tracks registered supplies by name and notifies optional callbacks
// when supplies are added or removed.
type Registry struct {
	mu sync.RWMutex

	// supplies holds all registered supplies keyed by name.
	supplies map[string]Supply

	// callbacks for registry events.
	onAdded   func(s Supply)
	onRemoved func(name string)
}

// NewRegistry creates an empty supply registry.
func NewRegistry() *Registry {
	return &Registry{
		supplies: make(map[string]Supply),
	}
}

// Add registers a supply under its name.
// Returns ErrSupplyExists if the name is already taken.
func (r *Registry) Add(s Supply) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := s.Name()
	if _, exists := r.supplies[name]; exists {
		return ErrSupplyExists
	}
	r.supplies[name] = s

	if r.onAdded != nil {
		r.onAdded(s)
	}
	return nil
}

// Remove unregisters the supply with the given name.
// Returns ErrSupplyNotFound if no such supply is registered.
func (r *Registry) Remove(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.supplies[name]; !exists {
		return ErrSupplyNotFound
	}
	delete(r.supplies, name)

	if r.onRemoved != nil {
		r.onRemoved(name)
	}
	return nil
}

// Get resolves a supply by name.
// Returns ErrSupplyNotFound if no such supply is registered.
func (r *Registry) Get(name string) (Supply, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, exists := r.supplies[name]
	if !exists {
		return nil, ErrSupplyNotFound
	}
	return s, nil
}

// Names returns the names of all registered supplies, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.supplies))
	for name := range r.supplies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered supplies.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.supplies)
}

// OnAdded sets a callback invoked after a supply is registered.
func (r *Registry) OnAdded(fn func(s Supply)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onAdded = fn
}

// OnRemoved sets a callback invoked after a supply is unregistered.
func (r *Registry) OnRemoved(fn func(name string)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onRemoved = fn
}

// Compile-time interface satisfaction check.
var _ Provider = (*Registry)(nil)
