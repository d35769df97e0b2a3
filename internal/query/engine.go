package query

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/dropDatabas3/crudkit/internal/domain/crud"
)

// Engine deriva la vista filtrada/ordenada que renderiza la UI.
// La recomputación está memoizada sobre sus inputs: mismos items
// (misma versión) y mismos parámetros retornan el resultado cacheado.
type Engine struct {
	mu           sync.Mutex
	items        []crud.Entity
	version      uint64
	searchFields []string

	lastKey    string
	lastResult []crud.Entity
}

// NewEngine crea un engine con los campos buscables declarados
// (puede ser nil: aplican solo los de fallback).
func NewEngine(searchFields []string) *Engine {
	return &Engine{searchFields: searchFields}
}

// SetItems reemplaza los items base e invalida el memo.
func (e *Engine) SetItems(items []crud.Entity) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.items = items
	e.version++
	e.lastKey = ""
	e.lastResult = nil
}

// View retorna la vista derivada para los parámetros dados.
// Orden de aplicación: búsqueda → filtros → orden.
// El slice retornado es una copia: mutarlo no toca el memo ni los
// items base.
func (e *Engine) View(search string, filters map[string]any, sortCfg *crud.SortConfig) []crud.Entity {
	e.mu.Lock()
	defer e.mu.Unlock()

	key := e.memoKey(search, filters, sortCfg)
	if key != e.lastKey || e.lastResult == nil {
		e.lastResult = Apply(e.items, search, filters, sortCfg, e.searchFields)
		e.lastKey = key
	}

	out := make([]crud.Entity, len(e.lastResult))
	copy(out, e.lastResult)
	return out
}

// memoKey normaliza los parámetros a una clave estable.
func (e *Engine) memoKey(search string, filters map[string]any, sortCfg *crud.SortConfig) string {
	var b strings.Builder
	fmt.Fprintf(&b, "v%d|s:%s|", e.version, search)

	keys := make([]string, 0, len(filters))
	for k := range filters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, "f:%s=%v|", k, filters[k])
	}

	if sortCfg != nil {
		fmt.Fprintf(&b, "o:%s:%s", sortCfg.Key, sortCfg.Direction)
	}
	return b.String()
}
