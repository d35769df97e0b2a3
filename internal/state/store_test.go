package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/crudkit/internal/domain/crud"
)

func items(ids ...string) []crud.Entity {
	out := make([]crud.Entity, 0, len(ids))
	for _, id := range ids {
		out = append(out, crud.Entity{ID: id, Fields: map[string]any{"name": "item " + id}})
	}
	return out
}

func TestNew_Defaults(t *testing.T) {
	st := New(0)
	s := st.Snapshot()
	assert.Equal(t, 1, s.Pagination.Page)
	assert.Equal(t, 20, s.Pagination.PageSize)
	assert.Empty(t, s.Items)
	assert.Empty(t, s.SelectedIDs)
	assert.False(t, s.Loading)
}

func TestSetItems_PurgesStaleSelection(t *testing.T) {
	st := New(20)
	st.SetItems(items("1", "2", "3"))
	st.SelectItem("1")
	st.SelectItem("3")

	st.SetItems(items("1", "2"))

	assert.Equal(t, []string{"1"}, st.SelectedIDs(), "ids no longer present must leave the selection")
}

func TestRemoveItem_PurgesSelection(t *testing.T) {
	st := New(20)
	st.SetItems(items("1", "2"))
	st.SelectItem("2")

	st.RemoveItem("2")

	s := st.Snapshot()
	require.Len(t, s.Items, 1)
	assert.Equal(t, "1", s.Items[0].ID)
	assert.Empty(t, st.SelectedIDs())
}

func TestSelectItem_Toggles(t *testing.T) {
	st := New(20)
	st.SetItems(items("1"))

	st.SelectItem("1")
	assert.Equal(t, []string{"1"}, st.SelectedIDs())

	st.SelectItem("1")
	assert.Empty(t, st.SelectedIDs())
}

func TestSelectAll_TogglesFullAndNone(t *testing.T) {
	st := New(20)
	st.SetItems(items("1", "2", "3"))
	visible := []string{"1", "2", "3"}

	st.SelectAll(visible)
	assert.Equal(t, []string{"1", "2", "3"}, st.SelectedIDs())

	// con todo ya seleccionado, vuelve a vacío
	st.SelectAll(visible)
	assert.Empty(t, st.SelectedIDs())

	// selección parcial: SelectAll completa, no limpia
	st.SelectItem("2")
	st.SelectAll(visible)
	assert.Equal(t, []string{"1", "2", "3"}, st.SelectedIDs())
}

func TestSelectedItems(t *testing.T) {
	st := New(20)
	st.SetItems(items("1", "2", "3"))
	st.SetSelectedIDs([]string{"3", "1"})

	got := st.SelectedItems()
	require.Len(t, got, 2)
	// respeta el orden de la lista, no el de selección
	assert.Equal(t, "1", got[0].ID)
	assert.Equal(t, "3", got[1].ID)
}

func TestUpdateItem_MergesPatch(t *testing.T) {
	st := New(20)
	st.SetItems([]crud.Entity{{ID: "1", Fields: map[string]any{"name": "old", "price": 5.0}}})

	st.UpdateItem("1", map[string]any{"name": "new"})

	s := st.Snapshot()
	assert.Equal(t, "new", s.Items[0].Fields["name"])
	assert.Equal(t, 5.0, s.Items[0].Fields["price"], "fields outside the patch survive")

	// id inexistente: no-op
	st.UpdateItem("ghost", map[string]any{"name": "x"})
	assert.Len(t, st.Snapshot().Items, 1)
}

func TestQuerySetters_ResetPage(t *testing.T) {
	cases := []struct {
		name string
		mut  func(*Store)
	}{
		{"search", func(st *Store) { st.SetSearchQuery("pizza") }},
		{"filters", func(st *Store) { st.SetFilters(map[string]any{"active": true}) }},
		{"sort", func(st *Store) { st.SetSortConfig(&crud.SortConfig{Key: "name", Direction: crud.SortAsc}) }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			st := New(20)
			st.SetPagination(4, 20, 100)
			tc.mut(st)
			assert.Equal(t, 1, st.Snapshot().Pagination.Page)
		})
	}
}

func TestSetPagination_Clamps(t *testing.T) {
	st := New(10)
	st.SetPagination(0, 0, 7)
	s := st.Snapshot()
	assert.Equal(t, 1, s.Pagination.Page)
	assert.Equal(t, 10, s.Pagination.PageSize)
	assert.Equal(t, 7, s.Pagination.Total)
}

func TestSetError_Overwrites(t *testing.T) {
	st := New(20)
	st.SetError("first failure")
	st.SetError("second failure")
	assert.Equal(t, "second failure", st.Snapshot().Error)

	st.SetError("")
	assert.Empty(t, st.Snapshot().Error)
}

func TestSnapshot_IsACopy(t *testing.T) {
	st := New(20)
	st.SetItems(items("1"))
	st.SelectItem("1")

	s := st.Snapshot()
	s.SelectedIDs["99"] = struct{}{}
	s.Filters["hacked"] = true

	assert.Equal(t, []string{"1"}, st.SelectedIDs())
	assert.Empty(t, st.Snapshot().Filters)
}
