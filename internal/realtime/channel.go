package realtime

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dropDatabas3/crudkit/internal/debounce"
	"github.com/dropDatabas3/crudkit/internal/domain/crud"
	"github.com/dropDatabas3/crudkit/internal/metrics"
)

// DefaultWindow es la ventana de debounce para notificaciones entrantes:
// ráfagas dentro de la ventana colapsan en un único onUpdate().
const DefaultWindow = time.Second

// ErrStopped indica que el canal ya fue detenido y no puede reusarse.
var ErrStopped = errors.New("realtime: channel stopped")

// ChannelConfig configura un canal de sincronización.
type ChannelConfig struct {
	Transport Transport
	Scope     crud.Scope

	// OnUpdate se invoca (debounced) ante cambios en el scope. El
	// consumidor dispara ahí su recarga de lista; el canal no muta
	// estado propio ajeno.
	OnUpdate func()

	// Window sobreescribe la ventana de debounce (default 1s).
	Window time.Duration
}

// Channel mantiene exactamente una suscripción por scope y coalesce
// las notificaciones entrantes. Ciclo de vida explícito: Start abre la
// suscripción, Stop la cierra y cancela timers pendientes — después de
// Stop no se invoca ningún callback.
type Channel struct {
	transport Transport
	onUpdate  func()
	window    time.Duration

	mu      sync.Mutex
	scope   crud.Scope
	sub     Subscription
	deb     *debounce.Debouncer
	stopped bool
}

// NewChannel valida la configuración y crea el canal (sin suscribir).
func NewChannel(cfg ChannelConfig) (*Channel, error) {
	if cfg.Transport == nil {
		return nil, fmt.Errorf("realtime: nil transport")
	}
	if cfg.OnUpdate == nil {
		return nil, fmt.Errorf("realtime: nil onUpdate callback")
	}
	window := cfg.Window
	if window <= 0 {
		window = DefaultWindow
	}

	c := &Channel{
		transport: cfg.Transport,
		window:    window,
		scope:     cfg.Scope,
	}
	c.onUpdate = func() {
		metrics.RealtimeReloads.Inc()
		cfg.OnUpdate()
	}
	c.deb = debounce.New(window, c.onUpdate)
	return c, nil
}

// Start abre la suscripción del scope actual. Si ya había una abierta
// la cierra primero: nunca hay más de una.
func (c *Channel) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopped {
		return ErrStopped
	}
	if c.sub != nil {
		_ = c.sub.Close()
		c.sub = nil
	}

	scope := c.scope
	sub, err := c.transport.Subscribe(ctx, scope, c.handle)
	if err != nil {
		return err
	}
	c.sub = sub
	return nil
}

// SetScope cambia el scope: cierra la suscripción previa y abre la
// nueva. El debounce pendiente no se cancela (solo Stop lo cancela).
func (c *Channel) SetScope(ctx context.Context, scope crud.Scope) error {
	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		return ErrStopped
	}
	c.scope = scope
	c.mu.Unlock()
	return c.Start(ctx)
}

// handle procesa una notificación entrante.
func (c *Channel) handle(ev crud.ChangeEvent) {
	switch ev.Kind {
	case crud.EventInsert, crud.EventUpdate, crud.EventDelete:
	default:
		return
	}
	metrics.RealtimeEvents.WithLabelValues(ev.Scope.EntityType).Inc()
	c.deb.Trigger()
}

// Stop cierra la suscripción y cancela timers pendientes. Idempotente.
// Garantía de teardown: ningún callback se dispara después de Stop.
func (c *Channel) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopped = true
	if c.sub != nil {
		_ = c.sub.Close()
		c.sub = nil
	}
	c.deb.Stop()
}
