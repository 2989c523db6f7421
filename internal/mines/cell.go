package mines

import (
	"fmt"
	"sort"
)

// Cell identifies a board square by row and column. Cells are value
// types and are used as map keys throughout this package.
type Cell struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d)", c.Row, c.Col)
}

// sortCells orders cells row-major, in place, and returns the slice.
// Set iteration order is not deterministic, so anything user-facing
// goes through here first.
func sortCells(cells []Cell) []Cell {
	sort.Slice(cells, func(i, j int) bool {
		if cells[i].Row != cells[j].Row {
			return cells[i].Row < cells[j].Row
		}
		return cells[i].Col < cells[j].Col
	})
	return cells
}
