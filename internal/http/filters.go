package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dropDatabas3/crudkit/internal/domain/crud"
)

// parseListOptions arma el ListOptions desde los query params:
// page, page_size, sort, dir, search y filters (objeto JSON).
func parseListOptions(r *http.Request, defaultPageSize, maxPageSize int) (crud.ListOptions, bool) {
	q := r.URL.Query()

	opts := crud.ListOptions{
		Page:     1,
		PageSize: defaultPageSize,
		Search:   strings.TrimSpace(q.Get("search")),
	}

	if v := q.Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			opts.Page = n
		}
	}
	if v := q.Get("page_size"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			opts.PageSize = n
		}
	}
	if maxPageSize > 0 && opts.PageSize > maxPageSize {
		opts.PageSize = maxPageSize
	}

	if key := strings.TrimSpace(q.Get("sort")); key != "" {
		dir := crud.SortAsc
		if strings.EqualFold(q.Get("dir"), "desc") {
			dir = crud.SortDesc
		}
		opts.Sort = &crud.SortConfig{Key: key, Direction: dir}
	}

	if raw := q.Get("filters"); raw != "" {
		var m map[string]any
		if err := json.Unmarshal([]byte(raw), &m); err != nil {
			return opts, false
		}
		opts.Filters = normalizeFilters(m)
	}
	return opts, true
}

// normalizeFilters traduce los valores JSON a los tipos de filtro del
// dominio: objetos {min,max} o {start,end} se vuelven crud.Range.
func normalizeFilters(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		if obj, ok := v.(map[string]any); ok {
			if r, ok := asRange(obj); ok {
				out[k] = r
				continue
			}
		}
		out[k] = v
	}
	return out
}

func asRange(obj map[string]any) (crud.Range, bool) {
	var r crud.Range
	matched := false

	if v, ok := toFloatPtr(obj["min"]); ok {
		r.Min = v
		matched = true
	}
	if v, ok := toFloatPtr(obj["max"]); ok {
		r.Max = v
		matched = true
	}
	if v, ok := toTimePtr(obj["start"]); ok {
		r.Start = v
		matched = true
	}
	if v, ok := toTimePtr(obj["end"]); ok {
		r.End = v
		matched = true
	}
	return r, matched
}

func toFloatPtr(v any) (*float64, bool) {
	switch n := v.(type) {
	case float64:
		return &n, true
	case json.Number:
		if f, err := n.Float64(); err == nil {
			return &f, true
		}
	}
	return nil, false
}

func toTimePtr(v any) (*time.Time, bool) {
	s, ok := v.(string)
	if !ok {
		return nil, false
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, true
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return &t, true
	}
	return nil, false
}
