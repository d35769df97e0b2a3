// Package state implementa el store canónico de estado CRUD del lado
// del cliente: items cargados, selección, filtros, orden, paginación y
// flags de actividad, con las transiciones que lo mutan de forma
// consistente.
//
// Ciclo de vida: se crea vacío al montar el contexto consumidor y se
// descarta al desmontarlo; nunca se persiste.
package state

import (
	"sort"
	"sync"

	"github.com/dropDatabas3/crudkit/internal/domain/crud"
)

// Pagination es el estado de paginado de la vista.
type Pagination struct {
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
	Total    int `json:"total"`
}

// State es el snapshot del estado CRUD.
type State struct {
	Items       []crud.Entity
	SelectedIDs map[string]struct{}
	CurrentItem *crud.Entity
	ModalType   string

	Loading  bool
	Saving   bool
	Deleting bool
	Error    string

	SearchQuery string
	Filters     map[string]any
	SortConfig  *crud.SortConfig
	Pagination  Pagination
}

// Store guarda el estado y expone las acciones de transición.
// Invariantes duras:
//   - SelectedIDs ⊆ ids de Items, siempre.
//   - Cambiar búsqueda, filtros u orden resetea Pagination.Page a 1.
type Store struct {
	mu sync.Mutex
	s  State
}

// New crea un store vacío con el tamaño de página dado (default 20).
func New(pageSize int) *Store {
	if pageSize < 1 {
		pageSize = 20
	}
	return &Store{s: State{
		SelectedIDs: make(map[string]struct{}),
		Filters:     make(map[string]any),
		Pagination:  Pagination{Page: 1, PageSize: pageSize},
	}}
}

// Snapshot retorna una copia del estado actual.
func (st *Store) Snapshot() State {
	st.mu.Lock()
	defer st.mu.Unlock()

	out := st.s
	out.Items = make([]crud.Entity, len(st.s.Items))
	copy(out.Items, st.s.Items)
	out.SelectedIDs = make(map[string]struct{}, len(st.s.SelectedIDs))
	for id := range st.s.SelectedIDs {
		out.SelectedIDs[id] = struct{}{}
	}
	out.Filters = make(map[string]any, len(st.s.Filters))
	for k, v := range st.s.Filters {
		out.Filters[k] = v
	}
	return out
}

// SelectedIDs retorna los ids seleccionados, ordenados.
func (st *Store) SelectedIDs() []string {
	st.mu.Lock()
	defer st.mu.Unlock()
	out := make([]string, 0, len(st.s.SelectedIDs))
	for id := range st.s.SelectedIDs {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// SelectedItems retorna los items cuya id está seleccionada.
func (st *Store) SelectedItems() []crud.Entity {
	st.mu.Lock()
	defer st.mu.Unlock()
	out := make([]crud.Entity, 0, len(st.s.SelectedIDs))
	for _, it := range st.s.Items {
		if _, ok := st.s.SelectedIDs[it.ID]; ok {
			out = append(out, it)
		}
	}
	return out
}

// ─── Items ───

// SetItems reemplaza la lista autoritativa. La selección se depura de
// ids que ya no existen, para sostener la invariante.
func (st *Store) SetItems(items []crud.Entity) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.s.Items = items

	present := make(map[string]struct{}, len(items))
	for _, it := range items {
		present[it.ID] = struct{}{}
	}
	for id := range st.s.SelectedIDs {
		if _, ok := present[id]; !ok {
			delete(st.s.SelectedIDs, id)
		}
	}
}

// AddItem agrega un item al final de la lista.
func (st *Store) AddItem(item crud.Entity) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.s.Items = append(st.s.Items, item)
}

// UpdateItem mergea el patch sobre los campos del item con ese id.
func (st *Store) UpdateItem(id string, patch map[string]any) {
	st.mu.Lock()
	defer st.mu.Unlock()
	for i := range st.s.Items {
		if st.s.Items[i].ID != id {
			continue
		}
		it := st.s.Items[i].Clone()
		if it.Fields == nil {
			it.Fields = make(map[string]any, len(patch))
		}
		for k, v := range patch {
			it.Fields[k] = v
		}
		st.s.Items[i] = it
		return
	}
}

// RemoveItem quita el item y purga su id de la selección.
func (st *Store) RemoveItem(id string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	out := st.s.Items[:0]
	for _, it := range st.s.Items {
		if it.ID != id {
			out = append(out, it)
		}
	}
	st.s.Items = out
	delete(st.s.SelectedIDs, id)
}

// ─── Selección ───

// SelectItem togglea la selección de un id.
func (st *Store) SelectItem(id string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if _, ok := st.s.SelectedIDs[id]; ok {
		delete(st.s.SelectedIDs, id)
		return
	}
	st.s.SelectedIDs[id] = struct{}{}
}

// SelectAll togglea selección completa sobre los ids visibles: si la
// selección actual ya es exactamente ese conjunto, la limpia; si no,
// selecciona todos.
func (st *Store) SelectAll(visibleIDs []string) {
	st.mu.Lock()
	defer st.mu.Unlock()

	all := len(st.s.SelectedIDs) == len(visibleIDs)
	if all {
		for _, id := range visibleIDs {
			if _, ok := st.s.SelectedIDs[id]; !ok {
				all = false
				break
			}
		}
	}

	if all {
		st.s.SelectedIDs = make(map[string]struct{})
		return
	}
	st.s.SelectedIDs = make(map[string]struct{}, len(visibleIDs))
	for _, id := range visibleIDs {
		st.s.SelectedIDs[id] = struct{}{}
	}
}

// ClearSelection limpia la selección.
func (st *Store) ClearSelection() {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.s.SelectedIDs = make(map[string]struct{})
}

// SetSelectedIDs reemplaza la selección completa.
func (st *Store) SetSelectedIDs(ids []string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.s.SelectedIDs = make(map[string]struct{}, len(ids))
	for _, id := range ids {
		st.s.SelectedIDs[id] = struct{}{}
	}
}

// ─── Modal / item actual ───

// SetModalType fija el modal activo ("" = ninguno).
func (st *Store) SetModalType(t string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.s.ModalType = t
}

// SetCurrentItem fija el item en edición (nil = ninguno).
func (st *Store) SetCurrentItem(item *crud.Entity) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.s.CurrentItem = item
}

// ─── Consulta ───
//
// Estos tres setters resetean la página a 1 de forma atómica con su
// campo. Es invariante dura: sin el reset el usuario puede quedar en
// una página fuera de rango al angostar el resultado.

// SetSearchQuery fija la búsqueda y resetea la página a 1.
func (st *Store) SetSearchQuery(q string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.s.SearchQuery = q
	st.s.Pagination.Page = 1
}

// SetFilters fija los filtros y resetea la página a 1.
func (st *Store) SetFilters(filters map[string]any) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if filters == nil {
		filters = make(map[string]any)
	}
	st.s.Filters = filters
	st.s.Pagination.Page = 1
}

// SetSortConfig fija el orden y resetea la página a 1.
func (st *Store) SetSortConfig(cfg *crud.SortConfig) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.s.SortConfig = cfg
	st.s.Pagination.Page = 1
}

// SetPagination fija página, tamaño y total (post-filtro, pre-paginado).
func (st *Store) SetPagination(page, pageSize, total int) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = st.s.Pagination.PageSize
	}
	st.s.Pagination = Pagination{Page: page, PageSize: pageSize, Total: total}
}

// ─── Flags ───

// SetLoading fija el flag de carga.
func (st *Store) SetLoading(v bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.s.Loading = v
}

// SetSaving fija el flag de guardado.
func (st *Store) SetSaving(v bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.s.Saving = v
}

// SetDeleting fija el flag de borrado.
func (st *Store) SetDeleting(v bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.s.Deleting = v
}

// SetError fija el error visible ("" = sin error). No hay cola ni
// historial: un error nuevo pisa al anterior.
func (st *Store) SetError(msg string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.s.Error = msg
}
