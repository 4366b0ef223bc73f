package rules

import (
	"fmt"
	"sort"
	"sync"
)

// Registry is the rule catalogue: a static registry of descriptors,
// looked up by id or alias. The catalogue carries no per-document state;
// it is built once at process startup (via package init() self-registration
// in each internal/rules/mdNNN package) and is safe to share across
// goroutines thereafter.
type Registry struct {
	mu      sync.RWMutex
	byID    map[string]Descriptor
	byAlias map[string]Descriptor
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byID:    make(map[string]Descriptor),
		byAlias: make(map[string]Descriptor),
	}
}

// Register adds a descriptor to the registry. Panics if its id or alias is
// already registered: id and alias are globally unique across the catalogue.
func (r *Registry) Register(d Descriptor) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[d.ID]; exists {
		panic(fmt.Sprintf("rules: id %q already registered", d.ID))
	}
	if _, exists := r.byAlias[d.Alias]; exists {
		panic(fmt.Sprintf("rules: alias %q already registered", d.Alias))
	}
	r.byID[d.ID] = d
	r.byAlias[d.Alias] = d
}

// ByID looks up a descriptor by its stable id (e.g. "MD013").
func (r *Registry) ByID(id string) (Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.byID[id]
	return d, ok
}

// ByAlias looks up a descriptor by its human-readable slug (e.g. "line-length").
func (r *Registry) ByAlias(alias string) (Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.byAlias[alias]
	return d, ok
}

// All returns every registered descriptor, ordered by id.
func (r *Registry) All() []Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Descriptor, 0, len(r.byID))
	for _, d := range r.byID {
		result = append(result, d)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

// Aliases returns every registered alias, sorted.
func (r *Registry) Aliases() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	aliases := make([]string, 0, len(r.byAlias))
	for a := range r.byAlias {
		aliases = append(aliases, a)
	}
	sort.Strings(aliases)
	return aliases
}

var defaultRegistry = NewRegistry()

// DefaultRegistry returns the global catalogue that every internal/rules/mdNNN
// package registers itself into via init().
func DefaultRegistry() *Registry {
	return defaultRegistry
}

// Register adds a descriptor to the default registry.
func Register(d Descriptor) {
	defaultRegistry.Register(d)
}

// ByID looks up a descriptor in the default registry.
func ByID(id string) (Descriptor, bool) {
	return defaultRegistry.ByID(id)
}

// ByAlias looks up a descriptor in the default registry.
func ByAlias(alias string) (Descriptor, bool) {
	return defaultRegistry.ByAlias(alias)
}

// All returns every descriptor in the default registry, ordered by id.
func All() []Descriptor {
	return defaultRegistry.All()
}

// Aliases returns every alias in the default registry, sorted.
func Aliases() []string {
	return defaultRegistry.Aliases()
}
