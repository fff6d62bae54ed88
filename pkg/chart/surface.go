package chart

import (
	"errors"
	"sync"
)

// ErrMissingContainer is returned when the requested container is not
// registered.
var ErrMissingContainer = errors.New("chart container not found")

// Surface receives the scene every time the chart is drawn. Mount replaces
// whatever the surface showed before; it never appends.
type Surface interface {
	Mount(scene *Scene) error
}

// Surfaces resolves container identifiers to surfaces.
type Surfaces interface {
	Lookup(id string) (Surface, bool)
}

// Registry is a concurrency-safe Surfaces implementation.
type Registry struct {
	mu       sync.RWMutex
	surfaces map[string]Surface
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{surfaces: make(map[string]Surface)}
}

// Register binds id to s, replacing any earlier binding.
func (r *Registry) Register(id string, s Surface) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.surfaces[id] = s
}

// Lookup implements Surfaces.
func (r *Registry) Lookup(id string) (Surface, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.surfaces[id]
	return s, ok
}

// MemorySurface keeps the last mounted scene. It backs the terminal view and
// tests.
type MemorySurface struct {
	mu     sync.Mutex
	scene  *Scene
	mounts int
}

// Mount implements Surface.
func (m *MemorySurface) Mount(scene *Scene) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scene = scene
	m.mounts++
	return nil
}

// Scene returns the last mounted scene, or nil.
func (m *MemorySurface) Scene() *Scene {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.scene
}

// Mounts returns how many scenes were mounted.
func (m *MemorySurface) Mounts() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mounts
}
