package power

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"
)

// Supply is a registered power source.
type Supply interface {
	Name() string
}

// Registry tracks the visible power supplies and fans change
// notifications out to subscribers. Registration makes a supply
// visible; an empty registry swallows notifications, so the SCI
// handler can fire before the power subsystem is up or after it is
// torn down.
type Registry struct {
	mu        sync.Mutex
	supplies  []Supply
	listeners []func(Supply)
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register makes a supply visible. Names are unique.
func (r *Registry) Register(s Supply) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, have := range r.supplies {
		if have.Name() == s.Name() {
			return fmt.Errorf("power: supply %q already registered", s.Name())
		}
	}
	r.supplies = append(r.supplies, s)
	return nil
}

// Unregister removes a supply by name. Unknown supplies are ignored.
func (r *Registry) Unregister(s Supply) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, have := range r.supplies {
		if have.Name() == s.Name() {
			r.supplies = slices.Delete(r.supplies, i, i+1)
			return
		}
	}
}

// Subscribe adds a listener. On every change notification it runs once
// per registered supply.
func (r *Registry) Subscribe(fn func(Supply)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listeners = append(r.listeners, fn)
}

// PowerChanged tells every subscriber the registered supplies need
// re-reading.
func (r *Registry) PowerChanged() {
	r.mu.Lock()
	supplies := slices.Clone(r.supplies)
	listeners := slices.Clone(r.listeners)
	r.mu.Unlock()

	for _, s := range supplies {
		slog.Debug("power: supply changed", "supply", s.Name())
		for _, fn := range listeners {
			fn(s)
		}
	}
}
