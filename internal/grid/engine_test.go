package grid

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestAssignMovesOccupantAndPrunesEmptyCell(t *testing.T) {
	e := New()
	e.Assign("e", "1A")
	e.Assign("e", "2B")
	if cell, ok := e.CellOf("e"); !ok || cell != "2B" {
		t.Fatalf("CellOf(e) = %q, %v; want 2B", cell, ok)
	}
	snap := e.Snapshot()
	if _, ok := snap["1A"]; ok {
		t.Fatalf("1A should be pruned, got %v", snap)
	}
	if diff := cmp.Diff(map[Cell][]string{"2B": {"e"}}, snap); diff != "" {
		t.Fatalf("snapshot (-want +got):\n%s", diff)
	}
}

func TestAssignKeepsOtherOccupants(t *testing.T) {
	e := New()
	e.Assign("a", "1A")
	e.Assign("b", "1A")
	e.Assign("c", "1A")
	e.Assign("b", "3C")
	if diff := cmp.Diff([]string{"a", "c"}, e.OccupantsOf("1A")); diff != "" {
		t.Fatalf("1A (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"b"}, e.OccupantsOf("3C")); diff != "" {
		t.Fatalf("3C (-want +got):\n%s", diff)
	}
}

func TestAssignTwiceIsIdempotentOnCell(t *testing.T) {
	e := New()
	e.Assign("e", "2C")
	e.Assign("e", "2C")
	if cell, _ := e.CellOf("e"); cell != "2C" {
		t.Fatalf("CellOf(e) = %q", cell)
	}
	if diff := cmp.Diff([]string{"e"}, e.OccupantsOf("2C")); diff != "" {
		t.Fatalf("duplicate entries (-want +got):\n%s", diff)
	}
}

func TestRepeatAssignOrdering(t *testing.T) {
	e := New()
	e.Assign("u1", "1A")
	e.Assign("u1", "1A")
	e.Assign("u2", "1A")
	if diff := cmp.Diff([]string{"u1", "u2"}, e.OccupantsOf("1A")); diff != "" {
		t.Fatalf("1A (-want +got):\n%s", diff)
	}
	// Re-assigning to the current cell moves the occupant to the end.
	e.Assign("u1", "1A")
	if diff := cmp.Diff([]string{"u2", "u1"}, e.OccupantsOf("1A")); diff != "" {
		t.Fatalf("1A after repeat (-want +got):\n%s", diff)
	}
}

func TestUnassign(t *testing.T) {
	e := New()
	e.Unassign("ghost")
	if e.Len() != 0 || len(e.Cells()) != 0 {
		t.Fatalf("unassign of unknown occupant mutated state")
	}
	e.Assign("a", "1B")
	e.Assign("b", "1B")
	e.Unassign("a")
	e.Unassign("a")
	if _, ok := e.CellOf("a"); ok {
		t.Fatalf("a still placed")
	}
	if diff := cmp.Diff([]string{"b"}, e.OccupantsOf("1B")); diff != "" {
		t.Fatalf("1B (-want +got):\n%s", diff)
	}
	e.Unassign("b")
	if cells := e.Cells(); len(cells) != 0 {
		t.Fatalf("expected no cells, got %v", cells)
	}
}

func TestOccupantsOfUnknownCellIsEmpty(t *testing.T) {
	e := New()
	got := e.OccupantsOf("9Z")
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}

func TestOccupantsOfReturnsCopy(t *testing.T) {
	e := New()
	e.Assign("a", "1A")
	ids := e.OccupantsOf("1A")
	ids[0] = "mutated"
	if e.OccupantsOf("1A")[0] != "a" {
		t.Fatalf("engine state leaked through OccupantsOf")
	}
}

func TestSingleOccupancyUnderRandomMoves(t *testing.T) {
	e := New()
	occupants := []string{"a", "b", "c", "d"}
	cells := []Cell{"1A", "1B", "2B", "3C", "custom"}
	for i := 0; i < 200; i++ {
		id := occupants[(i*7)%len(occupants)]
		switch i % 5 {
		case 4:
			e.Unassign(id)
		default:
			e.Assign(id, cells[(i*3)%len(cells)])
		}
		seen := map[string]Cell{}
		for cell, ids := range e.Snapshot() {
			if len(ids) == 0 {
				t.Fatalf("step %d: empty cell %s kept", i, cell)
			}
			for _, occ := range ids {
				if prev, dup := seen[occ]; dup {
					t.Fatalf("step %d: %s in both %s and %s", i, occ, prev, cell)
				}
				seen[occ] = cell
				if got, _ := e.CellOf(occ); got != cell {
					t.Fatalf("step %d: CellOf(%s) = %s, mapping says %s", i, occ, got, cell)
				}
			}
		}
		if len(seen) != e.Len() {
			t.Fatalf("step %d: index has %d entries, mapping %d", i, e.Len(), len(seen))
		}
	}
}

func TestRestoreAppliesInvariants(t *testing.T) {
	e := New()
	e.Assign("stale", "2A")
	e.Restore(map[Cell][]string{
		"1A": {"a", "b"},
		"2B": {"b", "c"},
		"3C": {},
	})
	want := map[Cell][]string{
		"1A": {"a"},
		"2B": {"b", "c"},
	}
	if diff := cmp.Diff(want, e.Snapshot()); diff != "" {
		t.Fatalf("restore (-want +got):\n%s", diff)
	}
	if _, ok := e.CellOf("stale"); ok {
		t.Fatalf("restore should drop previous placements")
	}
}

func TestParseCellAndLookup(t *testing.T) {
	cell, err := ParseCell(" 2b ")
	if err != nil || cell != "2B" {
		t.Fatalf("ParseCell = %q, %v", cell, err)
	}
	for _, bad := range []string{"", "4A", "1D", "A1", "1AA"} {
		if _, err := ParseCell(bad); err == nil {
			t.Fatalf("ParseCell(%q) should fail", bad)
		}
	}
	box, ok := Lookup("3A")
	if !ok || box.Row != 2 || box.Col != 0 || box.Label != "Low Perf / High Pot" {
		t.Fatalf("Lookup(3A) = %+v, %v", box, ok)
	}
	if b, ok := At(1, 1); !ok || b.Cell != "2B" {
		t.Fatalf("At(1,1) = %+v", b)
	}
}
