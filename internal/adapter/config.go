// Package adapter implementa la base de adapters: presenta el contrato
// uniforme crud.Service sobre un servicio de dominio arbitrario.
//
// Las operaciones reales del servicio se declaran como referencias de
// función tipadas en Config y se validan una sola vez al construir el
// adapter: no hay dispatch por nombre en runtime.
package adapter

import (
	"context"
	"fmt"

	"github.com/dropDatabas3/crudkit/internal/domain/crud"
	"github.com/dropDatabas3/crudkit/internal/refdata"
)

// CatalogFunc obtiene el payload de catálogo del servicio de dominio.
// El payload es opaco: el array de entidades se extrae después.
type CatalogFunc func(ctx context.Context, tenantID string) (any, error)

// CreateFunc persiste una entidad nueva y retorna el registro creado.
type CreateFunc func(ctx context.Context, tenantID string, data map[string]any) (map[string]any, error)

// UpdateFunc persiste cambios sobre una entidad existente.
type UpdateFunc func(ctx context.Context, tenantID, id string, data map[string]any) (map[string]any, error)

// DeleteFunc elimina una entidad por id.
type DeleteFunc func(ctx context.Context, tenantID, id string) error

// ToEntityFunc convierte un registro crudo del backend a la forma
// normalizada. Puede consultar el cache de referencia. Pura, sin I/O.
type ToEntityFunc func(raw map[string]any, refs *refdata.Cache) crud.Entity

// FromEntityFunc convierte la forma normalizada (posiblemente parcial)
// al registro que espera el backend. Pura, sin I/O.
type FromEntityFunc func(e crud.Entity) map[string]any

// ExtractFunc localiza el array de entidades dentro del payload de
// catálogo. Nil usa las heurísticas por defecto (ver extract.go).
type ExtractFunc func(payload any) []map[string]any

// RefExtractFunc extrae pares {id, name} del payload de catálogo para
// poblar el cache de referencia. Nil usa la extracción por defecto.
type RefExtractFunc func(payload any) []refdata.Ref

// Config declara las operaciones y converters de un servicio de dominio.
type Config struct {
	// EntityType identifica el tipo de entidad (registry, métricas, scope
	// de tiempo real).
	EntityType string

	// Operaciones del servicio de dominio. Catalog es obligatoria;
	// Create/Update/Delete son obligatorias para el contrato completo.
	Catalog CatalogFunc
	Create  CreateFunc
	Update  UpdateFunc
	Delete  DeleteFunc

	// Converters de entidad. Obligatorios.
	ToEntity   ToEntityFunc
	FromEntity FromEntityFunc

	// Extract localiza el array de entidades (opcional).
	Extract ExtractFunc

	// IDField es la clave del id en el registro crudo. Default: "id".
	IDField string

	// SearchFields son los campos buscables declarados; a estos se suman
	// siempre los de fallback (name, entity_name, description, sku).
	SearchFields []string

	// RefExtract y RefFallback configuran el cache de referencia.
	RefExtract  RefExtractFunc
	RefFallback map[string]string
}

// validate chequea la configuración una sola vez, en construcción.
func (c Config) validate() error {
	missing := func(what string) error {
		return fmt.Errorf("%w: missing %s", crud.ErrInvalidConfig, what)
	}
	if c.EntityType == "" {
		return missing("entity type")
	}
	if c.Catalog == nil {
		return missing("catalog func")
	}
	if c.Create == nil {
		return missing("create func")
	}
	if c.Update == nil {
		return missing("update func")
	}
	if c.Delete == nil {
		return missing("delete func")
	}
	if c.ToEntity == nil {
		return missing("toEntity converter")
	}
	if c.FromEntity == nil {
		return missing("fromEntity converter")
	}
	return nil
}
