// Package realtime implementa el canal de sincronización en tiempo
// real: una suscripción por scope (tenant, tipo de entidad) que
// colapsa ráfagas de notificaciones en un único callback de recarga.
//
// El canal nunca muta el estado directamente: solo dispara onUpdate()
// y el contexto consumidor decide recargar.
package realtime

import (
	"context"

	"github.com/dropDatabas3/crudkit/internal/domain/crud"
)

// Transport abre suscripciones a notificaciones de cambio.
// El transporte maneja su propia reconexión; este core no reintenta.
type Transport interface {
	// Subscribe abre una suscripción al scope dado. fn se invoca por
	// cada evento que matchea el scope.
	Subscribe(ctx context.Context, scope crud.Scope, fn func(crud.ChangeEvent)) (Subscription, error)
}

// Subscription es una suscripción activa. Close es idempotente.
type Subscription interface {
	Close() error
}

// Publisher emite notificaciones de cambio hacia los suscriptores.
type Publisher interface {
	Publish(ctx context.Context, ev crud.ChangeEvent) error
}
