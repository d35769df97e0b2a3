// Package refdata implementa el cache de datos de referencia
// (id → nombre visible) que consultan los converters de entidad.
//
// El cache pertenece uno-a-uno a la instancia de adapter que lo creó:
// se puebla una sola vez en el primer uso y nunca se invalida solo.
// Para refrescarlo el caller llama Invalidate() o construye un adapter
// nuevo.
package refdata

import (
	"context"
	"sync"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"
)

// Ref es un par id → nombre extraído del catálogo.
type Ref struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Loader obtiene los pares de referencia desde el backend.
type Loader func(ctx context.Context) ([]Ref, error)

// Cache mapea ids a nombres visibles, con carga lazy única y un mapa
// estático de fallback cuando la carga falla o viene vacía.
// Los fallos de carga se absorben en silencio: nunca llegan al usuario.
type Cache struct {
	loader   Loader
	fallback map[string]string

	store *gocache.Cache
	sf    singleflight.Group

	mu     sync.Mutex
	loaded bool
}

// New crea un Cache con el loader y el fallback estático dados.
// Ambos pueden ser nil: sin loader se usa solo el fallback.
func New(loader Loader, fallback map[string]string) *Cache {
	return &Cache{
		loader:   loader,
		fallback: fallback,
		store:    gocache.New(gocache.NoExpiration, 0),
	}
}

// Name resuelve el nombre visible de un id.
// Puebla el cache en el primer uso. Ids desconocidos retornan el id.
func (c *Cache) Name(ctx context.Context, id string) string {
	c.ensure(ctx)
	if v, ok := c.store.Get(id); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return id
}

// Lookup es como Name pero reporta si el id estaba mapeado.
func (c *Cache) Lookup(ctx context.Context, id string) (string, bool) {
	c.ensure(ctx)
	if v, ok := c.store.Get(id); ok {
		if s, ok := v.(string); ok {
			return s, true
		}
	}
	return "", false
}

// ensure puebla el cache una sola vez. Cargas concurrentes colapsan
// en una única llamada al loader.
func (c *Cache) ensure(ctx context.Context) {
	c.mu.Lock()
	if c.loaded {
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()

	_, _, _ = c.sf.Do("load", func() (any, error) {
		c.mu.Lock()
		if c.loaded {
			c.mu.Unlock()
			return nil, nil
		}
		c.mu.Unlock()

		refs := c.load(ctx)
		if len(refs) == 0 {
			// extracción fallida o vacía: fallback estático
			for id, name := range c.fallback {
				c.store.Set(id, name, gocache.NoExpiration)
			}
		} else {
			for _, r := range refs {
				c.store.Set(r.ID, r.Name, gocache.NoExpiration)
			}
		}

		c.mu.Lock()
		c.loaded = true
		c.mu.Unlock()
		return nil, nil
	})
}

func (c *Cache) load(ctx context.Context) []Ref {
	if c.loader == nil {
		return nil
	}
	refs, err := c.loader(ctx)
	if err != nil {
		return nil
	}
	return refs
}

// Invalidate descarta el contenido y permite una recarga en el
// próximo uso.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store.Flush()
	c.loaded = false
}
