// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package layer

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// Factory binds a new Layer with the given options.
// Implementations should validate options and return descriptive errors.
type Factory func(opts Options) (Layer, error)

// RegistryEntry represents a registered layer backend.
type RegistryEntry struct {
	// Name is the unique identifier for this backend.
	Name string

	// Priority determines selection order (higher = preferred).
	// Standard priorities:
	//   - 100: native compositor layers (Metal)
	//   - 50: host GPU contexts (gpucontext)
	//   - 10: offscreen images
	Priority int

	// Factory binds layer instances.
	Factory Factory

	// Available reports if the backend is available on this system.
	Available func() bool
}

// globalRegistry is the default registry.
var globalRegistry = &Registry{}

// Registry manages registered layer backends.
//
// Example registration:
//
//	func init() {
//	    layer.Register("metal", 100, metalFactory, nil)
//	}
//
// Example usage:
//
//	l, err := layer.NewByName("image", layer.Options{Width: 800, Height: 600})
//	// or auto-select best available:
//	l, err := layer.New(opts)
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*RegistryEntry
}

// NewRegistry creates a new empty registry.
// Most code should use the global registry via Register and New.
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[string]*RegistryEntry),
	}
}

// Register adds a backend to the global registry.
//
// If available is nil, the backend is assumed always available.
// Registering a name that already exists replaces the previous entry.
func Register(name string, priority int, factory Factory, available func() bool) {
	globalRegistry.Register(name, priority, factory, available)
}

// Unregister removes a backend from the global registry.
func Unregister(name string) {
	globalRegistry.Unregister(name)
}

// List returns all registered backend names sorted by priority (highest first).
func List() []string {
	return globalRegistry.List()
}

// Available returns names of all available backends sorted by priority.
func Available() []string {
	return globalRegistry.Available()
}

// Get returns information about a specific backend.
func Get(name string) (*RegistryEntry, bool) {
	return globalRegistry.Get(name)
}

// New binds a layer using the best available backend.
func New(opts Options) (Layer, error) {
	return globalRegistry.New(opts)
}

// NewByName binds a layer using a specific named backend.
func NewByName(name string, opts Options) (Layer, error) {
	return globalRegistry.NewByName(name, opts)
}

// Register adds a backend to this registry.
func (r *Registry) Register(name string, priority int, factory Factory, available func() bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.entries == nil {
		r.entries = make(map[string]*RegistryEntry)
	}

	if available == nil {
		available = func() bool { return true }
	}

	r.entries[name] = &RegistryEntry{
		Name:      name,
		Priority:  priority,
		Factory:   factory,
		Available: available,
	}
}

// Unregister removes a backend from this registry.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.entries, name)
}

// List returns all registered backend names sorted by priority.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.sortedNames(false)
}

// Available returns names of all available backends sorted by priority.
func (r *Registry) Available() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.sortedNames(true)
}

// Get returns information about a specific backend.
func (r *Registry) Get(name string) (*RegistryEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.entries[name]
	if !ok {
		return nil, false
	}

	entryCopy := *entry
	return &entryCopy, true
}

// New binds a layer using the best available backend. Backends are tried in
// priority order. A backend that reports ErrUnsupported, or became
// unavailable, is skipped; any other error is returned at once so a handle
// rejected by its backend never falls through to an offscreen layer.
func (r *Registry) New(opts Options) (Layer, error) {
	r.mu.RLock()
	available := r.sortedNames(true)
	r.mu.RUnlock()

	if len(available) == 0 {
		return nil, ErrNoBackendAvailable
	}

	var lastErr error
	for _, name := range available {
		l, err := r.NewByName(name, opts)
		if err == nil {
			return l, nil
		}
		var unavailable *BackendUnavailableError
		if !errors.Is(err, ErrUnsupported) && !errors.As(err, &unavailable) {
			return nil, fmt.Errorf("layer: backend %s: %w", name, err)
		}
		lastErr = err
	}

	if lastErr != nil {
		return nil, lastErr
	}
	return nil, ErrNoBackendAvailable
}

// NewByName binds a layer using a specific backend.
func (r *Registry) NewByName(name string, opts Options) (Layer, error) {
	r.mu.RLock()
	entry, ok := r.entries[name]
	r.mu.RUnlock()

	if !ok {
		return nil, &BackendNotFoundError{Name: name}
	}

	if !entry.Available() {
		return nil, &BackendUnavailableError{Name: name}
	}

	return entry.Factory(opts)
}

// sortedNames returns backend names sorted by priority (highest first).
// Ties are broken by name so selection is deterministic.
// Must be called with lock held.
func (r *Registry) sortedNames(onlyAvailable bool) []string {
	if len(r.entries) == 0 {
		return nil
	}

	type entry struct {
		name     string
		priority int
	}

	entries := make([]entry, 0, len(r.entries))
	for name, e := range r.entries {
		if onlyAvailable && !e.Available() {
			continue
		}
		entries = append(entries, entry{name: name, priority: e.Priority})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].priority != entries[j].priority {
			return entries[i].priority > entries[j].priority
		}
		return entries[i].name < entries[j].name
	})

	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.name
	}
	return names
}

// ErrNoBackendAvailable is returned when no layer backends are registered
// or available on the current system.
var ErrNoBackendAvailable = errors.New("layer: no backend available")

// BackendNotFoundError indicates a named backend is not registered.
type BackendNotFoundError struct {
	Name string
}

func (e *BackendNotFoundError) Error() string {
	return "layer: backend not found: " + e.Name
}

// BackendUnavailableError indicates a backend exists but is not available.
type BackendUnavailableError struct {
	Name string
}

func (e *BackendUnavailableError) Error() string {
	return "layer: backend unavailable: " + e.Name
}

// init registers the built-in backends.
func init() {
	Register("image", 10, func(opts Options) (Layer, error) {
		return NewImageLayer(opts.Width, opts.Height), nil
	}, nil)
	Register("gpucontext", 50, func(opts Options) (Layer, error) {
		if opts.Provider == nil {
			return nil, fmt.Errorf("%w: gpucontext needs a device provider", ErrUnsupported)
		}
		if opts.Present == nil {
			return nil, fmt.Errorf("%w: gpucontext needs a presenter", ErrInvalidOptions)
		}
		return NewCanvasLayer(opts.Provider, opts.Width, opts.Height, opts.Present)
	}, nil)
}
