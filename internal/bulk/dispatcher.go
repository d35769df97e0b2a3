// Package bulk implementa el despacho de operaciones masivas sobre la
// selección actual: registro de operaciones con predicados de
// visibilidad, gate de confirmación para destructivas y guarda contra
// doble invocación en vuelo.
package bulk

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dropDatabas3/crudkit/internal/domain/crud"
)

var (
	// ErrUnknownOperation indica una clave de operación no registrada.
	ErrUnknownOperation = errors.New("bulk: unknown operation")

	// ErrAlreadyExecuting indica que la misma operación ya está en vuelo.
	ErrAlreadyExecuting = errors.New("bulk: operation already executing")

	// ErrNotConfirmed indica que el gate de confirmación rechazó la
	// operación destructiva.
	ErrNotConfirmed = errors.New("bulk: operation not confirmed")

	// ErrEmptySelection indica que no hay ids seleccionados.
	ErrEmptySelection = errors.New("bulk: empty selection")
)

// Operation es una acción masiva registrada.
type Operation struct {
	// Key identifica la operación (ej: "delete", "activate").
	Key string

	// Label es el texto visible de la acción.
	Label string

	// Destructive activa el gate de confirmación antes de ejecutar.
	Destructive bool

	// Visible decide si la acción se ofrece para la selección actual
	// (ej: "activate" solo si hay algún item inactivo). Nil = siempre.
	Visible func(items []crud.Entity) bool

	// Disabled decide si la acción se ofrece pero deshabilitada.
	// Nil = nunca deshabilitada.
	Disabled func(items []crud.Entity) bool

	// Execute corre la operación contra la selección.
	Execute func(ctx context.Context, ids []string, items []crud.Entity) error
}

// ConfirmFunc es el gate de confirmación; retorna false para cancelar.
type ConfirmFunc func(op Operation, ids []string) bool

// Dispatcher registra operaciones y las ejecuta contra la selección.
type Dispatcher struct {
	mu           sync.Mutex
	ops          map[string]Operation
	keys         []string // orden de registro
	executing    map[string]bool
	lastExecuted string
}

// NewDispatcher crea un dispatcher vacío.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		ops:       make(map[string]Operation),
		executing: make(map[string]bool),
	}
}

// Register agrega una operación. Clave duplicada es error de wiring.
func (d *Dispatcher) Register(op Operation) error {
	if op.Key == "" {
		return fmt.Errorf("bulk: operation without key")
	}
	if op.Execute == nil {
		return fmt.Errorf("bulk: operation %q without execute func", op.Key)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, dup := d.ops[op.Key]; dup {
		return fmt.Errorf("bulk: operation %q already registered", op.Key)
	}
	d.ops[op.Key] = op
	d.keys = append(d.keys, op.Key)
	return nil
}

// Available retorna las operaciones visibles para la selección actual,
// en orden de registro.
func (d *Dispatcher) Available(items []crud.Entity) []Operation {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]Operation, 0, len(d.keys))
	for _, k := range d.keys {
		op := d.ops[k]
		if op.Visible != nil && !op.Visible(items) {
			continue
		}
		out = append(out, op)
	}
	return out
}

// Enabled evalúa el predicado Disabled de la operación.
func (d *Dispatcher) Enabled(key string, items []crud.Entity) bool {
	d.mu.Lock()
	op, ok := d.ops[key]
	d.mu.Unlock()
	if !ok {
		return false
	}
	return op.Disabled == nil || !op.Disabled(items)
}

// Executing reporta si la operación está en vuelo.
func (d *Dispatcher) Executing(key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.executing[key]
}

// LastExecuted retorna la clave de la última operación exitosa.
func (d *Dispatcher) LastExecuted() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastExecuted
}

// Execute corre la operación contra (ids, items). confirm puede ser nil
// salvo que la operación sea destructiva; en ese caso nil se trata como
// no confirmado. La misma clave no puede doble-invocarse en vuelo.
func (d *Dispatcher) Execute(ctx context.Context, key string, ids []string, items []crud.Entity, confirm ConfirmFunc) error {
	if len(ids) == 0 {
		return ErrEmptySelection
	}

	d.mu.Lock()
	op, ok := d.ops[key]
	if !ok {
		d.mu.Unlock()
		return fmt.Errorf("%w: %q", ErrUnknownOperation, key)
	}
	if d.executing[key] {
		d.mu.Unlock()
		return fmt.Errorf("%w: %q", ErrAlreadyExecuting, key)
	}
	d.executing[key] = true
	d.mu.Unlock()

	defer func() {
		d.mu.Lock()
		d.executing[key] = false
		d.mu.Unlock()
	}()

	if op.Destructive {
		if confirm == nil || !confirm(op, ids) {
			return ErrNotConfirmed
		}
	}

	if err := op.Execute(ctx, ids, items); err != nil {
		return err
	}

	d.mu.Lock()
	d.lastExecuted = key
	d.mu.Unlock()
	return nil
}
