package query

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/dropDatabas3/crudkit/internal/domain/crud"
)

func engineItems() []crud.Entity {
	return []crud.Entity{
		ent("1", map[string]any{"name": "Pizza", "price": 10.0}),
		ent("2", map[string]any{"name": "Pasta", "price": 8.0}),
		ent("3", map[string]any{"name": "Cola", "price": 3.0}),
	}
}

func TestEngine_View(t *testing.T) {
	e := NewEngine(nil)
	e.SetItems(engineItems())

	got := e.View("p", nil, &crud.SortConfig{Key: "price", Direction: crud.SortAsc})
	if len(got) != 2 {
		t.Fatalf("expected 2 matches for %q, got %d", "p", len(got))
	}
	if got[0].ID != "2" || got[1].ID != "1" {
		t.Fatalf("expected price-ascending [2 1], got [%s %s]", got[0].ID, got[1].ID)
	}
}

func TestEngine_RepeatedParamsSameView(t *testing.T) {
	e := NewEngine(nil)
	e.SetItems(engineItems())

	first := e.View("pizza", nil, nil)
	second := e.View("pizza", nil, nil)
	if len(first) != 1 || len(second) != 1 {
		t.Fatalf("unexpected view sizes: %d / %d", len(first), len(second))
	}
	if first[0].ID != second[0].ID {
		t.Fatalf("views diverged: %s vs %s", first[0].ID, second[0].ID)
	}
}

func TestEngine_ViewResultIsACopy(t *testing.T) {
	e := NewEngine(nil)
	e.SetItems(engineItems())

	got := e.View("pizza", nil, nil)
	if len(got) != 1 {
		t.Fatalf("expected 1 match, got %d", len(got))
	}
	got[0] = ent("hijacked", nil)

	again := e.View("pizza", nil, nil)
	if len(again) != 1 || again[0].ID != "1" {
		t.Fatalf("mutating the returned slice must not corrupt the view, got %v", again)
	}

	// con parámetros vacíos la vista tampoco aliasa los items base
	all := e.View("", nil, nil)
	all[0] = ent("hijacked", nil)
	all = e.View("", nil, nil)
	if all[0].ID != "1" {
		t.Fatalf("base items corrupted through the view: %v", all)
	}
}

func TestEngine_ParamChangeRecomputes(t *testing.T) {
	e := NewEngine(nil)
	e.SetItems(engineItems())

	if got := e.View("pizza", nil, nil); len(got) != 1 {
		t.Fatalf("search pizza: got %d", len(got))
	}
	if got := e.View("cola", nil, nil); len(got) != 1 || got[0].ID != "3" {
		t.Fatalf("search cola: got %v", got)
	}
}

func TestEngine_SetItemsInvalidatesMemo(t *testing.T) {
	e := NewEngine(nil)
	e.SetItems(engineItems())

	if got := e.View("pizza", nil, nil); len(got) != 1 {
		t.Fatalf("before reload: got %d", len(got))
	}

	e.SetItems([]crud.Entity{
		ent("9", map[string]any{"name": "Pizza especial"}),
		ent("10", map[string]any{"name": "Pizza doble"}),
	})
	if got := e.View("pizza", nil, nil); len(got) != 2 {
		t.Fatalf("after reload: got %d", len(got))
	}
}

func TestNewSearchDebouncer_FinalValueWins(t *testing.T) {
	var calls atomic.Int32
	var last atomic.Value

	d := NewSearchDebouncer(30*time.Millisecond, func(s string) {
		calls.Add(1)
		last.Store(s)
	})
	defer d.Stop()

	for _, s := range []string{"p", "pi", "piz", "pizz", "pizza"} {
		d.Trigger(s)
		time.Sleep(2 * time.Millisecond)
	}

	time.Sleep(120 * time.Millisecond)
	if n := calls.Load(); n != 1 {
		t.Fatalf("expected a single apply for rapid keystrokes, got %d", n)
	}
	if got := last.Load(); got != "pizza" {
		t.Fatalf("expected final value %q, got %v", "pizza", got)
	}
}
