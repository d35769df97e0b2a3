package crud

import "context"

// Service es el contrato uniforme que expone todo adapter.
// Todas las operaciones son tenant-scoped: ninguna consulta se emite
// sin el identificador de organización.
type Service interface {
	// List retorna una página del catálogo, con filtro → orden → paginado
	// aplicados del lado del cliente.
	List(ctx context.Context, tenantID string, opts ListOptions) (Page, error)

	// Search es List con opts.Search fijado; mismo code path.
	Search(ctx context.Context, tenantID, query string, opts ListOptions) (Page, error)

	// Read localiza una entidad por id. Retorna ErrNotFound si no existe.
	Read(ctx context.Context, tenantID, id string) (Entity, error)

	// Create persiste una entidad nueva y retorna la forma creada.
	Create(ctx context.Context, tenantID string, data Entity) (Entity, error)

	// Update persiste cambios y retorna la forma post-escritura
	// (garantía read-your-writes).
	Update(ctx context.Context, tenantID, id string, data Entity) (Entity, error)

	// Delete elimina una entidad por id.
	Delete(ctx context.Context, tenantID, id string) error

	// BulkDelete elimina un conjunto de ids en paralelo. Si alguno falla
	// retorna un *BulkError con el conteo agregado.
	BulkDelete(ctx context.Context, tenantID string, ids []string) error
}
