package crud

import "time"

// SortDirection indica el sentido de ordenamiento.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// SortConfig describe un ordenamiento por una sola clave.
// Claves iguales no tienen tiebreak definido.
type SortConfig struct {
	Key       string        `json:"key"`
	Direction SortDirection `json:"direction"`
}

// Range es un valor de filtro por rango inclusivo.
// Min/Max para campos numéricos, Start/End para fechas.
type Range struct {
	Min   *float64   `json:"min,omitempty"`
	Max   *float64   `json:"max,omitempty"`
	Start *time.Time `json:"start,omitempty"`
	End   *time.Time `json:"end,omitempty"`
}

// ListOptions es el sobre de consulta para List/Search.
// Inmutable por llamada: el adapter nunca lo modifica.
//
// Valores de Filters soportados:
//   - string: substring case-insensitive
//   - bool: igualdad exacta
//   - []string / []any: pertenencia al conjunto
//   - Range: rango inclusivo (numérico o fecha)
type ListOptions struct {
	Page     int            `json:"page"`
	PageSize int            `json:"page_size"`
	Sort     *SortConfig    `json:"sort,omitempty"`
	Filters  map[string]any `json:"filters,omitempty"`
	Search   string         `json:"search,omitempty"`
}

// Normalize aplica defaults: página 1, tamaño 20.
func (o ListOptions) Normalize() ListOptions {
	if o.Page < 1 {
		o.Page = 1
	}
	if o.PageSize < 1 {
		o.PageSize = 20
	}
	return o
}

// Page es el resultado paginado de List/Search.
// Total es el conteo después de filtrar, antes de paginar.
type Page struct {
	Items    []Entity `json:"items"`
	Total    int      `json:"total"`
	Page     int      `json:"page"`
	PageSize int      `json:"page_size"`
	HasMore  bool     `json:"has_more"`
}
