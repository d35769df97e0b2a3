// Package debounce provee coalescencia de eventos por ventana de tiempo:
// ráfagas de triggers dentro de la ventana colapsan en una sola
// invocación del callback, usando solo el último valor.
package debounce

import (
	"sync"
	"time"
)

// Debouncer coalesce llamadas a Trigger en una sola invocación de fn
// después de que pasa la ventana sin nuevos triggers.
// Stop cancela cualquier timer pendiente: fn no vuelve a ejecutarse.
type Debouncer struct {
	window time.Duration
	fn     func()

	mu      sync.Mutex
	timer   *time.Timer
	gen     uint64
	stopped bool
}

// New crea un Debouncer. window <= 0 usa 1ms (fire casi inmediato).
func New(window time.Duration, fn func()) *Debouncer {
	if window <= 0 {
		window = time.Millisecond
	}
	return &Debouncer{window: window, fn: fn}
}

// Trigger (re)arma la ventana. Triggers posteriores a Stop se ignoran.
// Cada trigger avanza la generación: si el timer anterior ya expiró
// pero su fire todavía no corrió, queda obsoleto y se descarta en vez
// de duplicar el callback.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.timer = time.AfterFunc(d.window, func() { d.fire(gen) })
}

// fire ejecuta el callback solo si sigue siendo la generación vigente.
func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()
	if d.stopped || gen != d.gen {
		d.mu.Unlock()
		return
	}
	d.timer = nil
	d.mu.Unlock()
	d.fn()
}

// Stop cancela el timer pendiente. Idempotente.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Text coalesce valores de texto: solo el último valor dentro de la
// ventana llega al callback. Pensado para búsqueda mientras se tipea.
type Text struct {
	inner *Debouncer

	mu   sync.Mutex
	last string
}

// NewText crea un Text con la ventana dada.
func NewText(window time.Duration, fn func(string)) *Text {
	t := &Text{}
	t.inner = New(window, func() {
		t.mu.Lock()
		v := t.last
		t.mu.Unlock()
		fn(v)
	})
	return t
}

// Trigger registra el valor y (re)arma la ventana.
func (t *Text) Trigger(value string) {
	t.mu.Lock()
	t.last = value
	t.mu.Unlock()
	t.inner.Trigger()
}

// Stop cancela cualquier disparo pendiente.
func (t *Text) Stop() { t.inner.Stop() }
