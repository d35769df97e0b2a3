package adapter

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/dropDatabas3/crudkit/internal/domain/crud"
	"github.com/dropDatabas3/crudkit/internal/metrics"
	"github.com/dropDatabas3/crudkit/internal/observability/logger"
	"github.com/dropDatabas3/crudkit/internal/query"
	"github.com/dropDatabas3/crudkit/internal/refdata"
)

// Adapter presenta el contrato crud.Service sobre un servicio de
// dominio configurado. Cada instancia es dueña de sus caches de
// referencia (uno por tenant, poblado lazy una sola vez).
type Adapter struct {
	cfg Config
	log *zap.Logger

	mu   sync.Mutex
	refs map[string]*refdata.Cache // por tenant
}

var _ crud.Service = (*Adapter)(nil)

// New construye un Adapter validando la configuración una sola vez.
func New(cfg Config) (*Adapter, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if cfg.IDField == "" {
		cfg.IDField = "id"
	}
	if cfg.Extract == nil {
		cfg.Extract = DefaultExtract
	}
	if cfg.RefExtract == nil {
		cfg.RefExtract = defaultRefExtract
	}
	return &Adapter{
		cfg:  cfg,
		log:  logger.Named("adapter").With(logger.Entity(cfg.EntityType)),
		refs: make(map[string]*refdata.Cache),
	}, nil
}

// EntityType retorna el tipo de entidad que sirve este adapter.
func (a *Adapter) EntityType() string { return a.cfg.EntityType }

// RefCache retorna el cache de referencia del tenant, creándolo si no
// existe. El loader queda ligado al catálogo de ese tenant.
func (a *Adapter) RefCache(tenantID string) *refdata.Cache {
	a.mu.Lock()
	defer a.mu.Unlock()
	if c, ok := a.refs[tenantID]; ok {
		return c
	}
	loader := func(ctx context.Context) ([]refdata.Ref, error) {
		payload, err := a.cfg.Catalog(ctx, tenantID)
		if err != nil {
			return nil, err
		}
		return a.cfg.RefExtract(payload), nil
	}
	c := refdata.New(loader, a.cfg.RefFallback)
	a.refs[tenantID] = c
	return c
}

// InvalidateRefCache descarta el cache de referencia del tenant.
func (a *Adapter) InvalidateRefCache(tenantID string) {
	a.mu.Lock()
	c := a.refs[tenantID]
	a.mu.Unlock()
	if c != nil {
		c.Invalidate()
	}
}

// ─── Operaciones ───

// List obtiene el catálogo y aplica filtro → orden → paginado del lado
// del cliente. Solo las entidades sobrevivientes se convierten.
func (a *Adapter) List(ctx context.Context, tenantID string, opts crud.ListOptions) (page crud.Page, err error) {
	defer a.observe("list", time.Now(), &err)
	defer recoverTo(&err, a.cfg.EntityType, "list")

	opts = opts.Normalize()

	records, err := a.catalog(ctx, tenantID, "list")
	if err != nil {
		return crud.Page{}, err
	}

	filtered := make([]map[string]any, 0, len(records))
	for _, rec := range records {
		get := query.FieldGetter(rec)
		if !query.MatchesSearch(get, opts.Search, a.cfg.SearchFields) {
			continue
		}
		if !query.MatchesFilters(get, opts.Filters) {
			continue
		}
		filtered = append(filtered, rec)
	}

	if opts.Sort != nil && opts.Sort.Key != "" {
		key, desc := opts.Sort.Key, opts.Sort.Direction == crud.SortDesc
		sort.Slice(filtered, func(i, j int) bool {
			c := query.Compare(filtered[i][key], filtered[j][key])
			if desc {
				return c > 0
			}
			return c < 0
		})
	}

	total := len(filtered)
	offset := (opts.Page - 1) * opts.PageSize
	end := offset + opts.PageSize
	if offset > total {
		offset = total
	}
	if end > total {
		end = total
	}

	refs := a.RefCache(tenantID)
	items := make([]crud.Entity, 0, end-offset)
	for _, rec := range filtered[offset:end] {
		items = append(items, a.cfg.ToEntity(rec, refs))
	}

	return crud.Page{
		Items:    items,
		Total:    total,
		Page:     opts.Page,
		PageSize: opts.PageSize,
		HasMore:  end < total,
	}, nil
}

// Search es List con opts.Search fijado; no hay code path separado.
func (a *Adapter) Search(ctx context.Context, tenantID, q string, opts crud.ListOptions) (crud.Page, error) {
	opts.Search = q
	return a.List(ctx, tenantID, opts)
}

// Read re-obtiene el catálogo y localiza la entidad por id linealmente:
// la mayoría de los servicios de dominio solo exponen el catálogo.
func (a *Adapter) Read(ctx context.Context, tenantID, id string) (e crud.Entity, err error) {
	defer a.observe("read", time.Now(), &err)
	defer recoverTo(&err, a.cfg.EntityType, "read")

	records, err := a.catalog(ctx, tenantID, "read")
	if err != nil {
		return crud.Entity{}, err
	}
	for _, rec := range records {
		if stringID(rec[a.cfg.IDField]) == id {
			return a.cfg.ToEntity(rec, a.RefCache(tenantID)), nil
		}
	}
	return crud.Entity{}, fmt.Errorf("%s %q: %w", a.cfg.EntityType, id, crud.ErrNotFound)
}

// Create convierte y llama a la operación de creación configurada.
// La ausencia de id en el resultado es un fallo de integridad, no un
// éxito silencioso.
func (a *Adapter) Create(ctx context.Context, tenantID string, data crud.Entity) (e crud.Entity, err error) {
	defer a.observe("create", time.Now(), &err)
	defer recoverTo(&err, a.cfg.EntityType, "create")

	raw := a.cfg.FromEntity(data)
	created, err := a.cfg.Create(ctx, tenantID, raw)
	if err != nil {
		return crud.Entity{}, svcError("create", err)
	}
	if created == nil || stringID(created[a.cfg.IDField]) == "" {
		return crud.Entity{}, crud.ErrCreatedWithoutID
	}
	return a.cfg.ToEntity(created, a.RefCache(tenantID)), nil
}

// Update persiste y después relee la entidad: el caller recibe la forma
// autoritativa post-escritura (read-your-writes).
func (a *Adapter) Update(ctx context.Context, tenantID, id string, data crud.Entity) (e crud.Entity, err error) {
	defer a.observe("update", time.Now(), &err)
	defer recoverTo(&err, a.cfg.EntityType, "update")

	raw := a.cfg.FromEntity(data)
	if _, err := a.cfg.Update(ctx, tenantID, id, raw); err != nil {
		return crud.Entity{}, svcError("update", err)
	}
	return a.Read(ctx, tenantID, id)
}

// Delete elimina una entidad por id.
func (a *Adapter) Delete(ctx context.Context, tenantID, id string) (err error) {
	defer a.observe("delete", time.Now(), &err)
	defer recoverTo(&err, a.cfg.EntityType, "delete")

	if err := a.cfg.Delete(ctx, tenantID, id); err != nil {
		return svcError("delete", err)
	}
	return nil
}

// BulkDelete emite un delete por id con concurrencia plena y espera a
// que todos terminen. Reporta solo el conteo de fallos, sin detalle por
// item, y no hace rollback de los que sí borraron.
func (a *Adapter) BulkDelete(ctx context.Context, tenantID string, ids []string) (err error) {
	defer a.observe("bulk_delete", time.Now(), &err)
	defer recoverTo(&err, a.cfg.EntityType, "bulk_delete")

	if len(ids) == 0 {
		return nil
	}

	var failed atomic.Int64
	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			if err := a.cfg.Delete(ctx, tenantID, id); err != nil {
				failed.Add(1)
			}
		}(id)
	}
	wg.Wait()

	if n := int(failed.Load()); n > 0 {
		metrics.BulkFailures.WithLabelValues(a.cfg.EntityType, "delete").Add(float64(n))
		a.log.Warn("bulk delete partial failure",
			logger.TenantID(tenantID), logger.Count(n), logger.Total(len(ids)))
		return &crud.BulkError{Verb: "delete", Failed: n, Total: len(ids)}
	}
	return nil
}

// ─── Helpers ───

// catalog obtiene y extrae el array de entidades del payload opaco.
func (a *Adapter) catalog(ctx context.Context, tenantID, op string) ([]map[string]any, error) {
	payload, err := a.cfg.Catalog(ctx, tenantID)
	if err != nil {
		return nil, svcError(op, err)
	}
	return a.cfg.Extract(payload), nil
}

// svcError envuelve el error del backend conservando el mensaje
// verbatim y la cadena original.
func svcError(op string, err error) *crud.ServiceError {
	return &crud.ServiceError{Op: op, Message: err.Error(), Cause: err}
}

// observe registra outcome y latencia de una operación.
func (a *Adapter) observe(op string, start time.Time, err *error) {
	outcome := "ok"
	if *err != nil {
		outcome = "error"
	}
	metrics.AdapterOps.WithLabelValues(a.cfg.EntityType, op, outcome).Inc()
	metrics.AdapterOpLatency.WithLabelValues(a.cfg.EntityType, op).
		Observe(float64(time.Since(start).Milliseconds()))
}

// recoverTo normaliza cualquier panic durante la ejecución del adapter
// a un error regular: ningún code path escapa sin retornar.
func recoverTo(err *error, entity, op string) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("%s %s: unexpected error: %v", entity, op, r)
	}
}

// stringID coerce el valor del campo id a string.
func stringID(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case int:
		return fmt.Sprintf("%d", s)
	case int64:
		return fmt.Sprintf("%d", s)
	case float64:
		return fmt.Sprintf("%v", s)
	default:
		return ""
	}
}
