package mines

import (
	"fmt"
	"strings"
)

// ErrBadConstraint is returned when a constraint is constructed with a
// mine count that cannot hold over its cell set.
var ErrBadConstraint = fmt.Errorf("constraint count out of range")

/*
Constraint asserts that exactly `count` of `cells` are mines.

A constraint whose count equals its cardinality proves every cell a
mine; one with a zero count proves every cell safe; one with no cells
carries no information and is dropped by the knowledge base.
*/
type Constraint struct {
	cells map[Cell]struct{}
	count int
}

// NewConstraint validates its input: counts outside [0, |cells|] are a
// caller contract violation and are rejected rather than stored.
func NewConstraint(cells []Cell, count int) (*Constraint, error) {
	set := make(map[Cell]struct{}, len(cells))
	for _, cell := range cells {
		set[cell] = struct{}{}
	}
	if count < 0 || count > len(set) {
		return nil, fmt.Errorf(
			"%w: %d mines among %d cells", ErrBadConstraint, count, len(set),
		)
	}
	return &Constraint{cells: set, count: count}, nil
}

func (c *Constraint) Len() int {
	return len(c.cells)
}

func (c *Constraint) Count() int {
	return c.count
}

func (c *Constraint) Has(cell Cell) bool {
	_, ok := c.cells[cell]
	return ok
}

// Cells returns a sorted copy of the cell set.
func (c *Constraint) Cells() []Cell {
	cells := make([]Cell, 0, len(c.cells))
	for cell := range c.cells {
		cells = append(cells, cell)
	}
	return sortCells(cells)
}

// Equal reports value equality: same cell set and same count.
func (c *Constraint) Equal(other *Constraint) bool {
	if c.count != other.count || len(c.cells) != len(other.cells) {
		return false
	}
	for cell := range c.cells {
		if _, ok := other.cells[cell]; !ok {
			return false
		}
	}
	return true
}

// Subset reports whether every cell of c is also a cell of other.
func (c *Constraint) Subset(other *Constraint) bool {
	if len(c.cells) > len(other.cells) {
		return false
	}
	for cell := range c.cells {
		if _, ok := other.cells[cell]; !ok {
			return false
		}
	}
	return true
}

// KnownMines returns every cell this constraint alone proves to be a
// mine, i.e. all of them when the count fills the whole set.
func (c *Constraint) KnownMines() []Cell {
	if c.count == 0 || c.count != len(c.cells) {
		return nil
	}
	return c.Cells()
}

// KnownSafes returns every cell this constraint alone proves safe,
// i.e. all of them when the count is zero.
func (c *Constraint) KnownSafes() []Cell {
	if c.count != 0 {
		return nil
	}
	return c.Cells()
}

// RemoveMine records that cell is a confirmed mine: it leaves the
// unknown set and the count among the remaining cells drops by one.
// No-op when cell is not in the set.
func (c *Constraint) RemoveMine(cell Cell) {
	if _, ok := c.cells[cell]; ok {
		delete(c.cells, cell)
		c.count--
	}
}

// RemoveSafe records that cell is confirmed safe; the count is
// unaffected. No-op when cell is not in the set.
func (c *Constraint) RemoveSafe(cell Cell) {
	delete(c.cells, cell)
}

/*
difference resolves c against a subset of it: if sub's cells all lie
within c, the cells of c outside sub must hold exactly the difference
of the two counts. Soundness of the parents guarantees the result is
well-formed, so this skips NewConstraint validation.
*/
func (c *Constraint) difference(sub *Constraint) *Constraint {
	cells := make(map[Cell]struct{}, len(c.cells)-len(sub.cells))
	for cell := range c.cells {
		if _, ok := sub.cells[cell]; !ok {
			cells[cell] = struct{}{}
		}
	}
	return &Constraint{cells: cells, count: c.count - sub.count}
}

func (c *Constraint) String() string {
	var b strings.Builder
	b.WriteString("{")
	for i, cell := range c.Cells() {
		if i > 0 {
			b.WriteString(" ")
		}
		b.WriteString(cell.String())
	}
	fmt.Fprintf(&b, "} = %d", c.count)
	return b.String()
}
