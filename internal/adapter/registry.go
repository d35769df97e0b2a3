package adapter

import (
	"fmt"
	"sort"
	"sync"
)

// Registry mantiene los adapters registrados por tipo de entidad.
// Lo consumen la capa HTTP y el wiring de tiempo real.
type Registry struct {
	mu       sync.RWMutex
	adapters map[string]*Adapter
}

// NewRegistry crea un registry vacío.
func NewRegistry() *Registry {
	return &Registry{adapters: make(map[string]*Adapter)}
}

// Register registra un adapter bajo su tipo de entidad.
// Registrar dos veces el mismo tipo es un error de wiring.
func (r *Registry) Register(a *Adapter) error {
	if a == nil {
		return fmt.Errorf("registry: nil adapter")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	key := a.EntityType()
	if _, dup := r.adapters[key]; dup {
		return fmt.Errorf("registry: adapter already registered for %q", key)
	}
	r.adapters[key] = a
	return nil
}

// Get retorna el adapter del tipo de entidad dado.
func (r *Registry) Get(entityType string) (*Adapter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.adapters[entityType]
	return a, ok
}

// EntityTypes retorna los tipos registrados, ordenados.
func (r *Registry) EntityTypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.adapters))
	for k := range r.adapters {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
