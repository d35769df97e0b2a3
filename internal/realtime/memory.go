package realtime

import (
	"context"
	"sync"

	"github.com/dropDatabas3/crudkit/internal/domain/crud"
)

// Broker es un transporte in-process: útil para deployments de un solo
// nodo y para tests. Implementa Transport y Publisher.
type Broker struct {
	mu   sync.RWMutex
	next int
	subs map[crud.Scope]map[int]func(crud.ChangeEvent)
}

// NewBroker crea un broker vacío.
func NewBroker() *Broker {
	return &Broker{subs: make(map[crud.Scope]map[int]func(crud.ChangeEvent))}
}

// Subscribe registra un suscriptor para el scope exacto.
func (b *Broker) Subscribe(_ context.Context, scope crud.Scope, fn func(crud.ChangeEvent)) (Subscription, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.subs[scope] == nil {
		b.subs[scope] = make(map[int]func(crud.ChangeEvent))
	}
	id := b.next
	b.next++
	b.subs[scope][id] = fn
	return &brokerSub{b: b, scope: scope, id: id}, nil
}

// Publish entrega el evento a los suscriptores de su scope.
func (b *Broker) Publish(_ context.Context, ev crud.ChangeEvent) error {
	b.mu.RLock()
	fns := make([]func(crud.ChangeEvent), 0, len(b.subs[ev.Scope]))
	for _, fn := range b.subs[ev.Scope] {
		fns = append(fns, fn)
	}
	b.mu.RUnlock()

	for _, fn := range fns {
		fn(ev)
	}
	return nil
}

type brokerSub struct {
	b     *Broker
	scope crud.Scope
	id    int

	once sync.Once
}

func (s *brokerSub) Close() error {
	s.once.Do(func() {
		s.b.mu.Lock()
		defer s.b.mu.Unlock()
		if m := s.b.subs[s.scope]; m != nil {
			delete(m, s.id)
			if len(m) == 0 {
				delete(s.b.subs, s.scope)
			}
		}
	})
	return nil
}
