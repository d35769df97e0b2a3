// Package memory implementa un servicio de dominio in-process,
// tenant-scoped, que cumple el contrato de colaborador que consumen
// los adapters: catálogo opaco más create/update/delete. Útil para
// deployments de demo y para tests.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/dropDatabas3/crudkit/internal/adapter"
	"github.com/dropDatabas3/crudkit/internal/domain/crud"
	"github.com/dropDatabas3/crudkit/internal/refdata"
)

// Service guarda registros crudos por tenant. El catálogo se expone
// anidado bajo la clave "items", uno de los shapes que la extracción
// por defecto del adapter sabe localizar.
type Service struct {
	entityType string

	mu   sync.RWMutex
	data map[string]map[string]map[string]any // tenant → id → registro
}

// New crea un servicio vacío para el tipo de entidad dado.
func New(entityType string) *Service {
	return &Service{
		entityType: entityType,
		data:       make(map[string]map[string]map[string]any),
	}
}

// Seed carga registros iniciales para un tenant. Registros sin id
// reciben uno.
func (s *Service) Seed(tenantID string, records []map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rec := range records {
		cp := copyRecord(rec)
		id, _ := cp["id"].(string)
		if id == "" {
			id = uuid.NewString()
			cp["id"] = id
		}
		s.tenant(tenantID)[id] = cp
	}
}

// tenant retorna (creando) el mapa del tenant. Caller sostiene el lock.
func (s *Service) tenant(tenantID string) map[string]map[string]any {
	m, ok := s.data[tenantID]
	if !ok {
		m = make(map[string]map[string]any)
		s.data[tenantID] = m
	}
	return m
}

// Catalog retorna el payload de catálogo del tenant.
func (s *Service) Catalog(_ context.Context, tenantID string) (any, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]map[string]any, 0, len(s.data[tenantID]))
	for _, rec := range s.data[tenantID] {
		items = append(items, copyRecord(rec))
	}
	return map[string]any{"items": items}, nil
}

// Create persiste un registro nuevo y le asigna id.
func (s *Service) Create(_ context.Context, tenantID string, data map[string]any) (map[string]any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := copyRecord(data)
	id, _ := rec["id"].(string)
	if id == "" {
		id = uuid.NewString()
		rec["id"] = id
	}
	s.tenant(tenantID)[id] = rec
	return copyRecord(rec), nil
}

// Update mergea los campos sobre el registro existente.
func (s *Service) Update(_ context.Context, tenantID, id string, data map[string]any) (map[string]any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.tenant(tenantID)[id]
	if !ok {
		return nil, fmt.Errorf("%s %q: %w", s.entityType, id, crud.ErrNotFound)
	}
	for k, v := range data {
		if k == "id" {
			continue
		}
		rec[k] = v
	}
	return copyRecord(rec), nil
}

// Delete elimina el registro por id.
func (s *Service) Delete(_ context.Context, tenantID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := s.tenant(tenantID)
	if _, ok := m[id]; !ok {
		return fmt.Errorf("%s %q: %w", s.entityType, id, crud.ErrNotFound)
	}
	delete(m, id)
	return nil
}

// AdapterConfig arma la configuración de adapter para este servicio,
// con converters genéricos (id + resto de campos tal cual).
func (s *Service) AdapterConfig(searchFields []string, fallback map[string]string) adapter.Config {
	return adapter.Config{
		EntityType: s.entityType,
		Catalog:    s.Catalog,
		Create:     s.Create,
		Update:     s.Update,
		Delete:     s.Delete,
		ToEntity: func(raw map[string]any, _ *refdata.Cache) crud.Entity {
			e := crud.Entity{Fields: make(map[string]any, len(raw))}
			for k, v := range raw {
				if k == "id" {
					e.ID, _ = v.(string)
					continue
				}
				e.Fields[k] = v
			}
			return e
		},
		FromEntity: func(e crud.Entity) map[string]any {
			out := make(map[string]any, len(e.Fields)+1)
			for k, v := range e.Fields {
				out[k] = v
			}
			if e.ID != "" {
				out["id"] = e.ID
			}
			return out
		},
		SearchFields: searchFields,
		RefFallback:  fallback,
	}
}

func copyRecord(rec map[string]any) map[string]any {
	out := make(map[string]any, len(rec))
	for k, v := range rec {
		out[k] = v
	}
	return out
}
