package query

import (
	"time"

	"github.com/dropDatabas3/crudkit/internal/debounce"
)

// DefaultSearchDebounce es la ventana por defecto para búsqueda mientras
// se tipea: keystrokes rápidos colapsan en una sola recomputación con
// el valor final. Es puramente client-side, sobre items ya cargados.
const DefaultSearchDebounce = 300 * time.Millisecond

// NewSearchDebouncer crea el debouncer de texto de búsqueda.
// window <= 0 usa DefaultSearchDebounce. apply recibe el valor final.
func NewSearchDebouncer(window time.Duration, apply func(string)) *debounce.Text {
	if window <= 0 {
		window = DefaultSearchDebounce
	}
	return debounce.NewText(window, apply)
}
