package grid

import "sort"

// Engine maps cells to ordered occupant ids. The zero value is not usable;
// call New.
type Engine struct {
	cells map[Cell][]string
	// index mirrors cells for CellOf; it is rebuilt from cells, never the
	// other way round.
	index map[string]Cell
}

// New returns an empty engine.
func New() *Engine {
	return &Engine{
		cells: map[Cell][]string{},
		index: map[string]Cell{},
	}
}

// Assign moves occupant to the end of target's sequence, removing it from
// wherever it was first. Assigning to the cell it already occupies also
// moves it to the end.
func (e *Engine) Assign(occupant string, target Cell) {
	e.remove(occupant)
	e.cells[target] = append(e.cells[target], occupant)
	e.index[occupant] = target
}

// Unassign removes occupant from its cell. Unknown occupants are ignored.
func (e *Engine) Unassign(occupant string) {
	e.remove(occupant)
}

// OccupantsOf returns a copy of the cell's occupants in placement order.
// Unknown cells yield an empty slice.
func (e *Engine) OccupantsOf(cell Cell) []string {
	ids := e.cells[cell]
	out := make([]string, len(ids))
	copy(out, ids)
	return out
}

// CellOf reports the cell holding occupant.
func (e *Engine) CellOf(occupant string) (Cell, bool) {
	cell, ok := e.index[occupant]
	return cell, ok
}

// Cells returns the non-empty cells in sorted order.
func (e *Engine) Cells() []Cell {
	out := make([]Cell, 0, len(e.cells))
	for cell := range e.cells {
		out = append(out, cell)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Len returns the number of placed occupants.
func (e *Engine) Len() int {
	return len(e.index)
}

// Snapshot returns a deep copy of the mapping.
func (e *Engine) Snapshot() map[Cell][]string {
	out := make(map[Cell][]string, len(e.cells))
	for cell, ids := range e.cells {
		out[cell] = append([]string(nil), ids...)
	}
	return out
}

// Restore replaces the mapping with snapshot, applying the same rules as a
// sequence of Assign calls in cell-then-position order. Duplicate occupants
// keep their last placement.
func (e *Engine) Restore(snapshot map[Cell][]string) {
	e.cells = map[Cell][]string{}
	e.index = map[string]Cell{}
	cells := make([]Cell, 0, len(snapshot))
	for cell := range snapshot {
		cells = append(cells, cell)
	}
	sort.Slice(cells, func(i, j int) bool { return cells[i] < cells[j] })
	for _, cell := range cells {
		for _, id := range snapshot[cell] {
			e.Assign(id, cell)
		}
	}
}

func (e *Engine) remove(occupant string) {
	cell, ok := e.index[occupant]
	if !ok {
		return
	}
	delete(e.index, occupant)
	ids := e.cells[cell]
	filtered := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == occupant {
			continue
		}
		filtered = append(filtered, id)
	}
	if len(filtered) == 0 {
		delete(e.cells, cell)
		return
	}
	e.cells[cell] = filtered
}
