package grid

import (
	"fmt"
	"strings"
)

// Cell identifies a grid box, e.g. "2B". The engine accepts any value; the
// nine standard codes are listed by Standard.
type Cell string

// Box describes one of the nine standard cells. Row 1 is high performance,
// column A is high potential.
type Box struct {
	Cell        Cell
	Label       string
	Description string
	Row         int
	Col         int
}

var standard = [3][3]Box{
	{
		{Cell: "1A", Label: "High Perf / High Pot", Description: "Future leader"},
		{Cell: "1B", Label: "High Perf / Med Pot", Description: "High performer"},
		{Cell: "1C", Label: "High Perf / Low Pot", Description: "Trusted professional"},
	},
	{
		{Cell: "2A", Label: "Med Perf / High Pot", Description: "Emerging talent"},
		{Cell: "2B", Label: "Med Perf / Med Pot", Description: "Core player"},
		{Cell: "2C", Label: "Med Perf / Low Pot", Description: "Effective contributor"},
	},
	{
		{Cell: "3A", Label: "Low Perf / High Pot", Description: "Inconsistent talent"},
		{Cell: "3B", Label: "Low Perf / Med Pot", Description: "Needs development"},
		{Cell: "3C", Label: "Low Perf / Low Pot", Description: "Under review"},
	},
}

func init() {
	for r := range standard {
		for c := range standard[r] {
			standard[r][c].Row = r
			standard[r][c].Col = c
		}
	}
}

// Standard returns the nine cells as rows, top (1) to bottom (3).
func Standard() [3][3]Box {
	return standard
}

// At returns the standard box at a zero-based row/column.
func At(row, col int) (Box, bool) {
	if row < 0 || row > 2 || col < 0 || col > 2 {
		return Box{}, false
	}
	return standard[row][col], true
}

// Lookup returns the standard box for cell.
func Lookup(cell Cell) (Box, bool) {
	row, col, ok := position(cell)
	if !ok {
		return Box{}, false
	}
	return standard[row][col], true
}

// ParseCell normalises user input such as " 2b " into a standard cell.
func ParseCell(raw string) (Cell, error) {
	cell := Cell(strings.ToUpper(strings.TrimSpace(raw)))
	if _, _, ok := position(cell); !ok {
		return "", fmt.Errorf("grid: %q is not a cell (want 1A..3C)", raw)
	}
	return cell, nil
}

func position(cell Cell) (int, int, bool) {
	if len(cell) != 2 {
		return 0, 0, false
	}
	row := int(cell[0] - '1')
	col := int(cell[1] - 'A')
	if row < 0 || row > 2 || col < 0 || col > 2 {
		return 0, 0, false
	}
	return row, col, true
}
