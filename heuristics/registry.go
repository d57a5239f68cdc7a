package heuristics

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Registry manages the available heuristics with thread-safe access.
// Registration order is preserved because Match resolves ties by it.
type Registry struct {
	mu     sync.RWMutex
	byName map[string]Heuristic
	order  []string
}

// NewRegistry creates an empty heuristic registry.
func NewRegistry() *Registry {
	return &Registry{
		byName: make(map[string]Heuristic),
	}
}

// NewRegistryWithDefaults creates a registry preloaded with the built-in
// genre heuristics.
func NewRegistryWithDefaults() *Registry {
	r := NewRegistry()
	for _, h := range Defaults() {
		// Built-in names are unique, so this cannot fail.
		if err := r.Register(h); err != nil {
			panic(fmt.Sprintf("heuristics: registering built-in %q: %v", h.Name, err))
		}
	}
	return r
}

// Register adds a heuristic to the registry.
// Returns an error if one with the same name is already registered.
func (r *Registry) Register(h Heuristic) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if h.Name == "" {
		return fmt.Errorf("heuristic name must not be empty")
	}
	if _, exists := r.byName[h.Name]; exists {
		return fmt.Errorf("heuristic %q already registered", h.Name)
	}

	r.byName[h.Name] = h
	r.order = append(r.order, h.Name)
	return nil
}

// Get retrieves a heuristic by name.
func (r *Registry) Get(name string) (Heuristic, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	h, ok := r.byName[name]
	return h, ok
}

// Has reports whether a heuristic with the given name is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.byName[name]
	return ok
}

// Names returns the registered heuristic names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// List returns all registered heuristics in registration order.
func (r *Registry) List() []Heuristic {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Heuristic, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.byName[name])
	}
	return out
}

// Match selects the heuristic for a game type description. Matching is
// case-insensitive containment: the first registered heuristic with a
// trigger keyword contained in gameType wins. When nothing matches, the
// first wildcard heuristic is returned; ok is false only when the
// registry holds no wildcard either.
func (r *Registry) Match(gameType string) (Heuristic, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	needle := strings.ToLower(gameType)
	var fallback Heuristic
	haveFallback := false

	for _, name := range r.order {
		h := r.byName[name]
		for _, kw := range h.TriggerKeywords {
			if kw == Wildcard {
				if !haveFallback {
					fallback = h
					haveFallback = true
				}
				continue
			}
			if kw != "" && strings.Contains(needle, strings.ToLower(kw)) {
				return h, true
			}
		}
	}

	if haveFallback {
		return fallback, true
	}
	return Heuristic{}, false
}
