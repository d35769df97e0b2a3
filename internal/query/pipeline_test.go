package query

import (
	"testing"
	"time"

	"github.com/dropDatabas3/crudkit/internal/domain/crud"
)

func ent(id string, fields map[string]any) crud.Entity {
	return crud.Entity{ID: id, Fields: fields}
}

func TestApplySearch_SubstringCaseInsensitive(t *testing.T) {
	items := []crud.Entity{
		ent("1", map[string]any{"name": "Pizza"}),
		ent("2", map[string]any{"name": "Pasta"}),
	}
	got := ApplySearch(items, "piz", nil)
	if len(got) != 1 || got[0].ID != "1" {
		t.Fatalf("expected only Pizza, got %v", got)
	}
}

func TestApplySearch_FallbackFields(t *testing.T) {
	items := []crud.Entity{
		ent("1", map[string]any{"sku": "ABC-123"}),
		ent("2", map[string]any{"description": "sin gluten"}),
		ent("3", map[string]any{"entity_name": "Sucursal Centro"}),
		ent("4", map[string]any{"other": "abc"}),
	}
	if got := ApplySearch(items, "abc", nil); len(got) != 1 || got[0].ID != "1" {
		t.Fatalf("sku fallback: got %v", got)
	}
	if got := ApplySearch(items, "gluten", nil); len(got) != 1 || got[0].ID != "2" {
		t.Fatalf("description fallback: got %v", got)
	}
	if got := ApplySearch(items, "centro", nil); len(got) != 1 || got[0].ID != "3" {
		t.Fatalf("entity_name fallback: got %v", got)
	}
}

func TestApplySearch_DeclaredFields(t *testing.T) {
	items := []crud.Entity{
		ent("1", map[string]any{"barcode": "999888"}),
		ent("2", map[string]any{"barcode": "111222"}),
	}
	got := ApplySearch(items, "888", []string{"barcode"})
	if len(got) != 1 || got[0].ID != "1" {
		t.Fatalf("declared field search: got %v", got)
	}
}

func TestApplyFilters_NumericRangeInclusive(t *testing.T) {
	items := []crud.Entity{
		ent("1", map[string]any{"price": 5.0}),
		ent("2", map[string]any{"price": 10.0}),
		ent("3", map[string]any{"price": 15.0}),
		ent("4", map[string]any{"price": 20.0}),
	}
	min, max := 10.0, 15.0
	got := ApplyFilters(items, map[string]any{"price": crud.Range{Min: &min, Max: &max}})
	if len(got) != 2 {
		t.Fatalf("expected boundary-inclusive match of 2, got %d", len(got))
	}
	for _, it := range got {
		p := it.Fields["price"].(float64)
		if p < min || p > max {
			t.Fatalf("item %s outside range: %v", it.ID, p)
		}
	}
}

func TestApplyFilters_DateRange(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC)
	items := []crud.Entity{
		ent("1", map[string]any{"created_at": "2025-12-31T23:00:00Z"}),
		ent("2", map[string]any{"created_at": "2026-03-15T12:00:00Z"}),
		ent("3", map[string]any{"created_at": time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC)}),
	}
	got := ApplyFilters(items, map[string]any{"created_at": crud.Range{Start: &start, End: &end}})
	if len(got) != 2 {
		t.Fatalf("expected 2 in date range, got %d", len(got))
	}
}

func TestApplyFilters_Membership(t *testing.T) {
	items := []crud.Entity{
		ent("1", map[string]any{"status": "active"}),
		ent("2", map[string]any{"status": "archived"}),
		ent("3", map[string]any{"status": "draft"}),
	}
	got := ApplyFilters(items, map[string]any{"status": []any{"active", "draft"}})
	if len(got) != 2 {
		t.Fatalf("expected 2 members, got %d", len(got))
	}
	for _, it := range got {
		s := it.Fields["status"].(string)
		if s != "active" && s != "draft" {
			t.Fatalf("unexpected member %q", s)
		}
	}
}

func TestApplyFilters_UnknownKeyIgnored(t *testing.T) {
	items := []crud.Entity{ent("1", map[string]any{"name": "a"})}
	got := ApplyFilters(items, map[string]any{"ghost_field": "x"})
	if len(got) != 1 {
		t.Fatalf("unknown filter key must be ignored, got %d items", len(got))
	}
}

func TestApplySort_Ascending(t *testing.T) {
	items := []crud.Entity{
		ent("1", map[string]any{"price": 10}),
		ent("2", map[string]any{"price": 8}),
	}
	got := ApplySort(items, &crud.SortConfig{Key: "price", Direction: crud.SortAsc})
	if got[0].ID != "2" || got[1].ID != "1" {
		t.Fatalf("expected [2 1], got [%s %s]", got[0].ID, got[1].ID)
	}
	// input intacto
	if items[0].ID != "1" {
		t.Fatalf("ApplySort must not mutate input")
	}
}

func TestApplySort_StringsCaseInsensitive(t *testing.T) {
	items := []crud.Entity{
		ent("1", map[string]any{"name": "banana"}),
		ent("2", map[string]any{"name": "Almendra"}),
	}
	got := ApplySort(items, &crud.SortConfig{Key: "name", Direction: crud.SortAsc})
	if got[0].ID != "2" {
		t.Fatalf("expected Almendra first, got %s", got[0].Fields["name"])
	}
}

func TestApply_OrderIsSearchFiltersSort(t *testing.T) {
	items := []crud.Entity{
		ent("1", map[string]any{"name": "Pizza grande", "price": 12.0}),
		ent("2", map[string]any{"name": "Pizza chica", "price": 8.0}),
		ent("3", map[string]any{"name": "Pasta", "price": 9.0}),
		ent("4", map[string]any{"name": "Pizza mediana", "price": 30.0}),
	}
	max := 15.0
	got := Apply(items, "pizza",
		map[string]any{"price": crud.Range{Max: &max}},
		&crud.SortConfig{Key: "price", Direction: crud.SortAsc},
		nil,
	)
	if len(got) != 2 {
		t.Fatalf("expected 2 items after search+filter, got %d", len(got))
	}
	if got[0].ID != "2" || got[1].ID != "1" {
		t.Fatalf("expected sorted [2 1], got [%s %s]", got[0].ID, got[1].ID)
	}
}

func TestPaginate(t *testing.T) {
	items := make([]crud.Entity, 0, 5)
	for _, id := range []string{"1", "2", "3", "4", "5"} {
		items = append(items, ent(id, nil))
	}

	slice, total, hasMore := Paginate(items, 1, 2)
	if total != 5 || len(slice) != 2 || !hasMore {
		t.Fatalf("page 1: slice=%d total=%d hasMore=%v", len(slice), total, hasMore)
	}

	slice, _, hasMore = Paginate(items, 3, 2)
	if len(slice) != 1 || hasMore {
		t.Fatalf("page 3: slice=%d hasMore=%v", len(slice), hasMore)
	}

	slice, total, hasMore = Paginate(items, 9, 2)
	if len(slice) != 0 || total != 5 || hasMore {
		t.Fatalf("out of range page: slice=%d total=%d hasMore=%v", len(slice), total, hasMore)
	}
}
