package query

import (
	"sort"

	"github.com/dropDatabas3/crudkit/internal/domain/crud"
)

// ApplySearch retorna las entidades que matchean la búsqueda de texto libre.
func ApplySearch(items []crud.Entity, search string, searchFields []string) []crud.Entity {
	if search == "" {
		return items
	}
	out := make([]crud.Entity, 0, len(items))
	for _, it := range items {
		if MatchesSearch(it.Field, search, searchFields) {
			out = append(out, it)
		}
	}
	return out
}

// ApplyFilters retorna las entidades que satisfacen todos los filtros.
func ApplyFilters(items []crud.Entity, filters map[string]any) []crud.Entity {
	if len(filters) == 0 {
		return items
	}
	out := make([]crud.Entity, 0, len(items))
	for _, it := range items {
		if MatchesFilters(it.Field, filters) {
			out = append(out, it)
		}
	}
	return out
}

// ApplySort ordena por una clave única, asc/desc.
// No hay tiebreak para claves iguales; el orden entre ellas no está definido.
func ApplySort(items []crud.Entity, cfg *crud.SortConfig) []crud.Entity {
	if cfg == nil || cfg.Key == "" {
		return items
	}
	out := make([]crud.Entity, len(items))
	copy(out, items)
	sort.Slice(out, func(i, j int) bool {
		a, _ := out[i].Field(cfg.Key)
		b, _ := out[j].Field(cfg.Key)
		c := Compare(a, b)
		if cfg.Direction == crud.SortDesc {
			return c > 0
		}
		return c < 0
	})
	return out
}

// Apply corre el pipeline completo en el orden fijo:
// búsqueda → filtros → orden.
func Apply(items []crud.Entity, search string, filters map[string]any, sortCfg *crud.SortConfig, searchFields []string) []crud.Entity {
	out := ApplySearch(items, search, searchFields)
	out = ApplyFilters(out, filters)
	return ApplySort(out, sortCfg)
}

// Paginate corta la página solicitada: offset = (page-1)*pageSize.
// Retorna la porción, el total pre-paginado y si quedan más páginas.
func Paginate(items []crud.Entity, page, pageSize int) (slice []crud.Entity, total int, hasMore bool) {
	total = len(items)
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize
	if offset >= total {
		return []crud.Entity{}, total, false
	}
	end := offset + pageSize
	if end > total {
		end = total
	}
	return items[offset:end], total, end < total
}
