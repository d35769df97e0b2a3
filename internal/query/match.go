// Package query implementa el pipeline puro de búsqueda, filtrado y
// ordenamiento sobre entidades ya cargadas. No hace red ni mutación:
// el adapter y el engine de tabla comparten esta misma semántica.
package query

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/dropDatabas3/crudkit/internal/domain/crud"
)

// DefaultSearchFields son los campos de fallback para búsqueda de texto
// libre cuando el adapter no declara campos buscables propios.
var DefaultSearchFields = []string{"name", "entity_name", "description", "sku"}

// Getter resuelve el valor de un campo por nombre.
// Permite aplicar la misma semántica sobre crud.Entity o sobre el
// registro crudo del backend.
type Getter func(field string) (any, bool)

// FieldGetter retorna un Getter sobre un mapa crudo.
func FieldGetter(fields map[string]any) Getter {
	return func(name string) (any, bool) {
		v, ok := fields[name]
		return v, ok
	}
}

// MatchesSearch evalúa búsqueda de texto libre: substring
// case-insensitive sobre los campos declarados más los de fallback.
func MatchesSearch(get Getter, search string, searchFields []string) bool {
	search = strings.TrimSpace(search)
	if search == "" {
		return true
	}
	needle := strings.ToLower(search)

	seen := make(map[string]struct{}, len(searchFields)+len(DefaultSearchFields))
	check := func(field string) bool {
		if _, dup := seen[field]; dup {
			return false
		}
		seen[field] = struct{}{}
		v, ok := get(field)
		if !ok {
			return false
		}
		s, ok := asString(v)
		if !ok {
			return false
		}
		return strings.Contains(strings.ToLower(s), needle)
	}

	for _, f := range searchFields {
		if check(f) {
			return true
		}
	}
	for _, f := range DefaultSearchFields {
		if check(f) {
			return true
		}
	}
	return false
}

// MatchesFilters evalúa el mapa de filtros campo a campo.
// Claves sin campo correspondiente en el registro se ignoran.
func MatchesFilters(get Getter, filters map[string]any) bool {
	for field, fv := range filters {
		if fv == nil {
			continue
		}
		v, ok := get(field)
		if !ok {
			continue // clave desconocida: no filtra
		}
		if !matchValue(v, fv) {
			return false
		}
	}
	return true
}

// matchValue aplica la semántica por tipo del valor de filtro.
func matchValue(v, filter any) bool {
	switch f := filter.(type) {
	case string:
		if strings.TrimSpace(f) == "" {
			return true
		}
		s, ok := asString(v)
		if !ok {
			return false
		}
		return strings.Contains(strings.ToLower(s), strings.ToLower(f))
	case bool:
		b, ok := v.(bool)
		return ok && b == f
	case []string:
		if len(f) == 0 {
			return true
		}
		set := make([]any, len(f))
		for i, e := range f {
			set[i] = e
		}
		return memberOf(v, set)
	case []any:
		if len(f) == 0 {
			return true
		}
		return memberOf(v, f)
	case crud.Range:
		return matchRange(v, f)
	case *crud.Range:
		if f == nil {
			return true
		}
		return matchRange(v, *f)
	default:
		// tipo de filtro no soportado: igualdad por representación
		fs, ok1 := asString(filter)
		vs, ok2 := asString(v)
		return ok1 && ok2 && strings.EqualFold(fs, vs)
	}
}

// memberOf evalúa pertenencia por representación string.
func memberOf(v any, set []any) bool {
	vs, ok := asString(v)
	if !ok {
		return false
	}
	for _, e := range set {
		if es, ok := asString(e); ok && strings.EqualFold(es, vs) {
			return true
		}
	}
	return false
}

// matchRange evalúa rango inclusivo: numérico con Min/Max,
// fecha con Start/End.
func matchRange(v any, r crud.Range) bool {
	if r.Start != nil || r.End != nil {
		t, ok := asTime(v)
		if !ok {
			return false
		}
		if r.Start != nil && t.Before(*r.Start) {
			return false
		}
		if r.End != nil && t.After(*r.End) {
			return false
		}
		return true
	}
	if r.Min == nil && r.Max == nil {
		return true
	}
	n, ok := asFloat(v)
	if !ok {
		return false
	}
	if r.Min != nil && n < *r.Min {
		return false
	}
	if r.Max != nil && n > *r.Max {
		return false
	}
	return true
}

// ─── Coerciones ───

func asString(v any) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, true
	case json.Number:
		return s.String(), true
	case bool:
		return strconv.FormatBool(s), true
	case int:
		return strconv.Itoa(s), true
	case int64:
		return strconv.FormatInt(s, 10), true
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(s), 'f', -1, 32), true
	default:
		return "", false
	}
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func asTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case string:
		if ts, err := time.Parse(time.RFC3339, t); err == nil {
			return ts, true
		}
		if ts, err := time.Parse("2006-01-02", t); err == nil {
			return ts, true
		}
		return time.Time{}, false
	default:
		return time.Time{}, false
	}
}

// Compare ordena dos valores de campo: numérico si ambos lo son,
// fecha si ambos lo son, caso contrario string case-insensitive.
// Retorna <0, 0 o >0.
func Compare(a, b any) int {
	if af, ok := asFloat(a); ok {
		if bf, ok := asFloat(b); ok {
			switch {
			case af < bf:
				return -1
			case af > bf:
				return 1
			default:
				return 0
			}
		}
	}
	if at, ok := asTime(a); ok {
		if bt, ok := asTime(b); ok {
			switch {
			case at.Before(bt):
				return -1
			case at.After(bt):
				return 1
			default:
				return 0
			}
		}
	}
	as, _ := asString(a)
	bs, _ := asString(b)
	return strings.Compare(strings.ToLower(as), strings.ToLower(bs))
}
