package behavior

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/layerdisplay/pkg/domain"
	"github.com/aretw0/layerdisplay/pkg/ports"
)

// Registry manages the behaviors a node exposes, by name.
type Registry struct {
	mu        sync.RWMutex
	behaviors map[string]ports.Behavior
}

// Ensure Registry implements ports.Dispatcher
var _ ports.Dispatcher = (*Registry)(nil)

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		behaviors: make(map[string]ports.Behavior),
	}
}

// Register adds a behavior to the registry.
// If a behavior with the same name exists, it is overwritten.
func (r *Registry) Register(name string, b ports.Behavior) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.behaviors[name] = b
}

// Lookup returns the behavior registered under name.
func (r *Registry) Lookup(name string) (ports.Behavior, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.behaviors[name]
	return b, ok
}

// Has reports whether a behavior is registered under name.
func (r *Registry) Has(name string) bool {
	_, ok := r.Lookup(name)
	return ok
}

// Names lists the registered behavior names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.behaviors))
	for name := range r.behaviors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Dispatch runs the pressed or released handler of the behavior named in the binding.
func (r *Registry) Dispatch(ctx context.Context, inv domain.Invocation) error {
	b, ok := r.Lookup(inv.Binding.Behavior)
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrBehaviorNotFound, inv.Binding.Behavior)
	}
	if inv.Pressed {
		return b.Pressed(ctx, inv.Binding, inv.Event)
	}
	return b.Released(ctx, inv.Binding, inv.Event)
}
