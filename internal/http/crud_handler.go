package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/crudkit/internal/adapter"
	"github.com/dropDatabas3/crudkit/internal/domain/crud"
	"github.com/dropDatabas3/crudkit/internal/observability/logger"
	"github.com/dropDatabas3/crudkit/internal/realtime"
)

// CRUDHandler expone el contrato uniforme sobre los adapters
// registrados. Todas las rutas son tenant-scoped:
//
//	GET    /v1/tenants/{tenant}/{entity}
//	POST   /v1/tenants/{tenant}/{entity}
//	GET    /v1/tenants/{tenant}/{entity}/{id}
//	PUT    /v1/tenants/{tenant}/{entity}/{id}
//	DELETE /v1/tenants/{tenant}/{entity}/{id}
//	POST   /v1/tenants/{tenant}/{entity}/bulk-delete
type CRUDHandler struct {
	Registry        *adapter.Registry
	DefaultPageSize int
	MaxPageSize     int

	// Publisher emite ChangeEvents tras mutaciones exitosas (opcional).
	Publisher realtime.Publisher
}

func (h *CRUDHandler) Register(r chi.Router) {
	r.Route("/v1/tenants/{tenant}/{entity}", func(r chi.Router) {
		r.Get("/", h.list)
		r.Post("/", h.create)
		r.Post("/bulk-delete", h.bulkDelete)
		r.Get("/{id}", h.read)
		r.Put("/{id}", h.update)
		r.Delete("/{id}", h.remove)
	})
}

// resolve localiza el adapter del tipo de entidad de la ruta.
func (h *CRUDHandler) resolve(w http.ResponseWriter, r *http.Request) (*adapter.Adapter, string, bool) {
	tenant := chi.URLParam(r, "tenant")
	entity := chi.URLParam(r, "entity")
	if tenant == "" {
		WriteError(w, http.StatusBadRequest, "missing_tenant", "tenant requerido")
		return nil, "", false
	}
	a, ok := h.Registry.Get(entity)
	if !ok {
		WriteError(w, http.StatusNotFound, "unknown_entity", "no adapter for entity type: "+entity)
		return nil, "", false
	}
	return a, tenant, true
}

func (h *CRUDHandler) publish(r *http.Request, kind crud.EventKind, tenant, entity string, payload map[string]any) {
	if h.Publisher == nil {
		return
	}
	ev := crud.ChangeEvent{
		Kind:    kind,
		Scope:   crud.Scope{OrganizationID: tenant, EntityType: entity},
		Payload: payload,
	}
	if err := h.Publisher.Publish(r.Context(), ev); err != nil {
		logger.From(r.Context()).Warn("publish change event", logger.Err(err))
	}
}

func (h *CRUDHandler) list(w http.ResponseWriter, r *http.Request) {
	a, tenant, ok := h.resolve(w, r)
	if !ok {
		return
	}
	opts, ok := parseListOptions(r, h.DefaultPageSize, h.MaxPageSize)
	if !ok {
		WriteError(w, http.StatusBadRequest, "invalid_filters", "filters debe ser un objeto JSON")
		return
	}
	page, err := a.List(r.Context(), tenant, opts)
	if err != nil {
		writeCRUDError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, page)
}

func (h *CRUDHandler) read(w http.ResponseWriter, r *http.Request) {
	a, tenant, ok := h.resolve(w, r)
	if !ok {
		return
	}
	e, err := a.Read(r.Context(), tenant, chi.URLParam(r, "id"))
	if err != nil {
		writeCRUDError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, e)
}

type entityIn struct {
	ID     string         `json:"id,omitempty"`
	Fields map[string]any `json:"fields"`
}

func (h *CRUDHandler) create(w http.ResponseWriter, r *http.Request) {
	a, tenant, ok := h.resolve(w, r)
	if !ok {
		return
	}
	var in entityIn
	if !ReadJSON(w, r, &in) {
		return
	}
	created, err := a.Create(r.Context(), tenant, crud.Entity{ID: in.ID, Fields: in.Fields})
	if err != nil {
		writeCRUDError(w, err)
		return
	}
	h.publish(r, crud.EventInsert, tenant, a.EntityType(), map[string]any{"id": created.ID})
	WriteJSON(w, http.StatusCreated, created)
}

func (h *CRUDHandler) update(w http.ResponseWriter, r *http.Request) {
	a, tenant, ok := h.resolve(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")
	var in entityIn
	if !ReadJSON(w, r, &in) {
		return
	}
	updated, err := a.Update(r.Context(), tenant, id, crud.Entity{ID: id, Fields: in.Fields})
	if err != nil {
		writeCRUDError(w, err)
		return
	}
	h.publish(r, crud.EventUpdate, tenant, a.EntityType(), map[string]any{"id": id})
	WriteJSON(w, http.StatusOK, updated)
}

func (h *CRUDHandler) remove(w http.ResponseWriter, r *http.Request) {
	a, tenant, ok := h.resolve(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")
	if err := a.Delete(r.Context(), tenant, id); err != nil {
		writeCRUDError(w, err)
		return
	}
	h.publish(r, crud.EventDelete, tenant, a.EntityType(), map[string]any{"id": id})
	WriteJSON(w, http.StatusOK, map[string]any{"deleted": id})
}

type bulkDeleteIn struct {
	IDs []string `json:"ids"`
}

func (h *CRUDHandler) bulkDelete(w http.ResponseWriter, r *http.Request) {
	a, tenant, ok := h.resolve(w, r)
	if !ok {
		return
	}
	var in bulkDeleteIn
	if !ReadJSON(w, r, &in) {
		return
	}
	if len(in.IDs) == 0 {
		WriteError(w, http.StatusBadRequest, "empty_selection", "ids requeridos")
		return
	}
	if err := a.BulkDelete(r.Context(), tenant, in.IDs); err != nil {
		writeCRUDError(w, err)
		return
	}
	h.publish(r, crud.EventDelete, tenant, a.EntityType(), map[string]any{"ids": in.IDs})
	WriteJSON(w, http.StatusOK, map[string]any{"deleted": len(in.IDs)})
}
