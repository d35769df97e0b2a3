package adapter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	svc := &fakeService{records: seedRecords()}
	a := newTestAdapter(t, svc)

	reg := NewRegistry()
	require.NoError(t, reg.Register(a))

	got, ok := reg.Get("products")
	require.True(t, ok)
	assert.Same(t, a, got)

	_, ok = reg.Get("unknown")
	assert.False(t, ok)

	assert.Equal(t, []string{"products"}, reg.EntityTypes())
}

func TestRegistry_RejectsDuplicates(t *testing.T) {
	svc := &fakeService{records: seedRecords()}
	a := newTestAdapter(t, svc)

	reg := NewRegistry()
	require.NoError(t, reg.Register(a))
	assert.Error(t, reg.Register(a))
	assert.Error(t, reg.Register(nil))
}
