package bulk

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/crudkit/internal/domain/crud"
)

func selection() ([]string, []crud.Entity) {
	items := []crud.Entity{
		{ID: "1", Fields: map[string]any{"active": true}},
		{ID: "2", Fields: map[string]any{"active": false}},
	}
	return []string{"1", "2"}, items
}

func noop(context.Context, []string, []crud.Entity) error { return nil }

func TestRegister_Validation(t *testing.T) {
	d := NewDispatcher()

	assert.Error(t, d.Register(Operation{Key: "", Execute: noop}))
	assert.Error(t, d.Register(Operation{Key: "delete"}))

	require.NoError(t, d.Register(Operation{Key: "delete", Execute: noop}))
	assert.Error(t, d.Register(Operation{Key: "delete", Execute: noop}), "duplicate key")
}

func TestAvailable_VisibilityAndOrder(t *testing.T) {
	d := NewDispatcher()
	require.NoError(t, d.Register(Operation{Key: "delete", Execute: noop}))
	require.NoError(t, d.Register(Operation{
		Key:     "activate",
		Execute: noop,
		Visible: func(items []crud.Entity) bool {
			for _, it := range items {
				if b, _ := it.Fields["active"].(bool); !b {
					return true
				}
			}
			return false
		},
	}))
	require.NoError(t, d.Register(Operation{Key: "export", Execute: noop}))

	_, items := selection()
	got := d.Available(items)
	require.Len(t, got, 3)
	assert.Equal(t, "delete", got[0].Key)
	assert.Equal(t, "activate", got[1].Key)
	assert.Equal(t, "export", got[2].Key)

	// todos activos: "activate" deja de ofrecerse
	allActive := []crud.Entity{{ID: "1", Fields: map[string]any{"active": true}}}
	got = d.Available(allActive)
	require.Len(t, got, 2)
	assert.Equal(t, "delete", got[0].Key)
	assert.Equal(t, "export", got[1].Key)
}

func TestEnabled(t *testing.T) {
	d := NewDispatcher()
	require.NoError(t, d.Register(Operation{
		Key:     "archive",
		Execute: noop,
		Disabled: func(items []crud.Entity) bool {
			return len(items) > 1
		},
	}))

	_, items := selection()
	assert.False(t, d.Enabled("archive", items))
	assert.True(t, d.Enabled("archive", items[:1]))
	assert.False(t, d.Enabled("ghost", items))
}

func TestExecute_EmptySelection(t *testing.T) {
	d := NewDispatcher()
	require.NoError(t, d.Register(Operation{Key: "delete", Execute: noop}))

	err := d.Execute(context.Background(), "delete", nil, nil, nil)
	assert.ErrorIs(t, err, ErrEmptySelection)
}

func TestExecute_UnknownKey(t *testing.T) {
	d := NewDispatcher()
	ids, items := selection()
	err := d.Execute(context.Background(), "ghost", ids, items, nil)
	assert.ErrorIs(t, err, ErrUnknownOperation)
}

func TestExecute_ConfirmGate(t *testing.T) {
	var ran bool
	d := NewDispatcher()
	require.NoError(t, d.Register(Operation{
		Key:         "delete",
		Destructive: true,
		Execute: func(context.Context, []string, []crud.Entity) error {
			ran = true
			return nil
		},
	}))
	ids, items := selection()

	// nil confirm cuenta como no confirmado
	err := d.Execute(context.Background(), "delete", ids, items, nil)
	assert.ErrorIs(t, err, ErrNotConfirmed)
	assert.False(t, ran)

	// confirm que cancela
	deny := func(Operation, []string) bool { return false }
	err = d.Execute(context.Background(), "delete", ids, items, deny)
	assert.ErrorIs(t, err, ErrNotConfirmed)
	assert.False(t, ran)

	// confirmado: ejecuta
	allow := func(Operation, []string) bool { return true }
	require.NoError(t, d.Execute(context.Background(), "delete", ids, items, allow))
	assert.True(t, ran)
}

func TestExecute_NonDestructiveSkipsConfirm(t *testing.T) {
	var confirmCalled bool
	d := NewDispatcher()
	require.NoError(t, d.Register(Operation{Key: "export", Execute: noop}))
	ids, items := selection()

	confirm := func(Operation, []string) bool {
		confirmCalled = true
		return false
	}
	require.NoError(t, d.Execute(context.Background(), "export", ids, items, confirm))
	assert.False(t, confirmCalled)
}

func TestExecute_DoubleInvokeGuard(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var startedOnce sync.Once

	d := NewDispatcher()
	require.NoError(t, d.Register(Operation{
		Key: "delete",
		Execute: func(context.Context, []string, []crud.Entity) error {
			startedOnce.Do(func() { close(started) })
			<-release
			return nil
		},
	}))
	ids, items := selection()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = d.Execute(context.Background(), "delete", ids, items, nil)
	}()

	<-started
	assert.True(t, d.Executing("delete"))

	err := d.Execute(context.Background(), "delete", ids, items, nil)
	assert.ErrorIs(t, err, ErrAlreadyExecuting)

	close(release)
	wg.Wait()
	assert.False(t, d.Executing("delete"))

	// con la primera terminada, puede volver a correr
	require.NoError(t, d.Execute(context.Background(), "delete", ids, items, nil))
}

func TestExecute_LastExecuted(t *testing.T) {
	d := NewDispatcher()
	require.NoError(t, d.Register(Operation{Key: "export", Execute: noop}))
	require.NoError(t, d.Register(Operation{
		Key: "fail",
		Execute: func(context.Context, []string, []crud.Entity) error {
			return errors.New("backend rejected the batch")
		},
	}))
	ids, items := selection()

	require.NoError(t, d.Execute(context.Background(), "export", ids, items, nil))
	assert.Equal(t, "export", d.LastExecuted())

	assert.Error(t, d.Execute(context.Background(), "fail", ids, items, nil))
	assert.Equal(t, "export", d.LastExecuted(), "failed runs do not update lastExecuted")
}
