package mines

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"math/rand/v2"

	"github.com/sirupsen/logrus"
)

var Log = logrus.New()

/*
KB is the agent's knowledge base: every cell proven to be a mine,
every cell proven safe, every move already made, and the set of
still-unresolved constraints over unknown cells.

Invariants, maintained by every mutation:

  - mines and safes never intersect;
  - a cell confirmed either way never remains inside an active
    constraint;
  - no two active constraints are value-equal;
  - after propagation no active constraint is trivial (empty,
    all-mine or all-safe).
*/
type KB struct {
	height, width int

	movesMade map[Cell]struct{}
	mines     map[Cell]struct{}
	safes     map[Cell]struct{}

	constraints []*Constraint
}

// NewKB creates an empty knowledge base for a height x width board.
// The dimensions only bound neighbor enumeration; the KB never looks
// at the board itself.
func NewKB(height, width int) *KB {
	return &KB{
		height:    height,
		width:     width,
		movesMade: make(map[Cell]struct{}),
		mines:     make(map[Cell]struct{}),
		safes:     make(map[Cell]struct{}),
	}
}

// MarkMine records cell as a confirmed mine and propagates the fact
// into every active constraint. Idempotent. Trivial constraints this
// may create are collected by the next settle pass.
func (kb *KB) MarkMine(cell Cell) {
	if _, ok := kb.mines[cell]; ok {
		return
	}
	kb.mines[cell] = struct{}{}
	for _, c := range kb.constraints {
		c.RemoveMine(cell)
	}
}

// MarkSafe records cell as confirmed safe and propagates the fact
// into every active constraint. Idempotent.
func (kb *KB) MarkSafe(cell Cell) {
	if _, ok := kb.safes[cell]; ok {
		return
	}
	kb.safes[cell] = struct{}{}
	for _, c := range kb.constraints {
		c.RemoveSafe(cell)
	}
}

/*
settle runs trivial-fact propagation to a fixpoint: drop emptied
constraints and constraints that shrank into a copy of one already
kept, extract every cell some constraint now proves to be a mine or
safe, mark those cells, repeat until a full pass finds nothing new.

Each pass either shrinks the constraint collection or grows the
strictly-monotonic mines/safes sets, both bounded by the board size,
so the loop terminates.
*/
func (kb *KB) settle() {
	for {
		var foundMines, foundSafes []Cell

		active := kb.constraints[:0]
		for _, c := range kb.constraints {
			if c.Len() == 0 {
				continue
			}
			// Distinct constraints converge to the same cell set
			// once their differing cells are confirmed.
			dup := false
			for _, kept := range active {
				if kept.Equal(c) {
					dup = true
					break
				}
			}
			if dup {
				continue
			}
			foundMines = append(foundMines, c.KnownMines()...)
			foundSafes = append(foundSafes, c.KnownSafes()...)
			active = append(active, c)
		}
		kb.constraints = active

		progress := false
		for _, cell := range foundMines {
			if _, ok := kb.mines[cell]; !ok {
				kb.MarkMine(cell)
				progress = true
			}
		}
		for _, cell := range foundSafes {
			if _, ok := kb.safes[cell]; !ok {
				kb.MarkSafe(cell)
				progress = true
			}
		}

		if !progress {
			return
		}
	}
}

func (kb *KB) hasConstraint(c *Constraint) bool {
	for _, other := range kb.constraints {
		if other.Equal(c) {
			return true
		}
	}
	return false
}

/*
addConstraint feeds a candidate constraint through the resolution
engine. The recursion of repeated subset resolution is run as an
explicit worklist so that memory and termination stay bounded by the
number of reachable subset differences rather than by call stack.

Every candidate is first brought up to date against confirmed facts,
then either absorbed (trivial or duplicate) or stored and resolved
pairwise against the whole active collection: whenever one cell set
contains the other, the difference set with the difference count is a
newly implied constraint and joins the worklist.
*/
func (kb *KB) addConstraint(c *Constraint) {
	pending := []*Constraint{c}

	for len(pending) > 0 {
		cur := pending[0]
		pending = pending[1:]

		kb.settle()

		// Facts confirmed since this candidate was derived have not
		// reached it: it lives outside the active collection.
		for _, cell := range cur.Cells() {
			if _, ok := kb.mines[cell]; ok {
				cur.RemoveMine(cell)
			} else if _, ok := kb.safes[cell]; ok {
				cur.RemoveSafe(cell)
			}
		}

		if cur.Len() == 0 {
			continue
		}
		if kb.hasConstraint(cur) {
			continue
		}
		if cells := cur.KnownMines(); len(cells) > 0 {
			for _, cell := range cells {
				kb.MarkMine(cell)
			}
			continue
		}
		if cells := cur.KnownSafes(); len(cells) > 0 {
			for _, cell := range cells {
				kb.MarkSafe(cell)
			}
			continue
		}

		kb.constraints = append(kb.constraints, cur)
		Log.Debugf("stored constraint %s", cur)

		for _, other := range kb.constraints {
			if other == cur || other.Len() == 0 {
				continue
			}
			if other.Subset(cur) {
				pending = append(pending, cur.difference(other))
			} else if cur.Subset(other) {
				pending = append(pending, other.difference(cur))
			}
		}
	}

	kb.settle()
}

/*
RecordObservation ingests one turn's report from the board: cell was
opened and has adjacentMines mines among its in-bounds neighbors.

The cell is recorded as a made move and marked safe, then a
constraint over its still-unknown neighbors enters the resolution
engine. Neighbors already proven safe are omitted; neighbors already
proven mines are omitted with the count decremented, since their
contribution is accounted for.

Returns ErrBadConstraint when the reported count cannot hold over the
unknown neighbors, which means the caller's board and the KB's facts
contradict each other.
*/
func (kb *KB) RecordObservation(cell Cell, adjacentMines int) error {
	kb.movesMade[cell] = struct{}{}
	kb.MarkSafe(cell)

	count := adjacentMines
	cells := make([]Cell, 0, 8)
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			n := Cell{Row: cell.Row + dr, Col: cell.Col + dc}
			if n.Row < 0 || n.Row >= kb.height ||
				n.Col < 0 || n.Col >= kb.width {
				continue
			}
			if _, ok := kb.safes[n]; ok {
				continue
			}
			if _, ok := kb.mines[n]; ok {
				count--
				continue
			}
			cells = append(cells, n)
		}
	}

	c, err := NewConstraint(cells, count)
	if err != nil {
		return fmt.Errorf("observation at %s: %w", cell, err)
	}
	kb.addConstraint(c)
	return nil
}

// SafeMove returns a cell proven safe that has not been played yet,
// if the KB knows one. Read-only.
func (kb *KB) SafeMove() (Cell, bool) {
	for cell := range kb.safes {
		if _, ok := kb.movesMade[cell]; !ok {
			return cell, true
		}
	}
	return Cell{}, false
}

// RandomMove picks uniformly among cells not yet played and not known
// to be mines. Reports false once no such cell remains. Read-only.
func (kb *KB) RandomMove(rnd *rand.Rand) (Cell, bool) {
	candidates := make([]Cell, 0, kb.height*kb.width)
	for row := range kb.height {
		for col := range kb.width {
			cell := Cell{Row: row, Col: col}
			if _, ok := kb.movesMade[cell]; ok {
				continue
			}
			if _, ok := kb.mines[cell]; ok {
				continue
			}
			candidates = append(candidates, cell)
		}
	}
	if len(candidates) == 0 {
		return Cell{}, false
	}
	return candidates[rnd.IntN(len(candidates))], true
}

// Mines returns a sorted copy of every cell proven to be a mine.
func (kb *KB) Mines() []Cell {
	return collect(kb.mines)
}

// Safes returns a sorted copy of every cell proven safe.
func (kb *KB) Safes() []Cell {
	return collect(kb.safes)
}

// MovesMade returns a sorted copy of every cell already played.
func (kb *KB) MovesMade() []Cell {
	return collect(kb.movesMade)
}

// ConstraintCount reports how many unresolved constraints are active.
func (kb *KB) ConstraintCount() int {
	return len(kb.constraints)
}

func collect(set map[Cell]struct{}) []Cell {
	cells := make([]Cell, 0, len(set))
	for cell := range set {
		cells = append(cells, cell)
	}
	return sortCells(cells)
}

// kbSnapshot flattens a KB for gob, whose encoder cannot reach the
// unexported sets directly.
type kbSnapshot struct {
	Height, Width int
	MovesMade     []Cell
	Mines         []Cell
	Safes         []Cell
	Constraints   []constraintSnapshot
}

type constraintSnapshot struct {
	Cells []Cell
	Count int
}

func (kb *KB) GobEncode() ([]byte, error) {
	snap := kbSnapshot{
		Height:    kb.height,
		Width:     kb.width,
		MovesMade: kb.MovesMade(),
		Mines:     kb.Mines(),
		Safes:     kb.Safes(),
	}
	for _, c := range kb.constraints {
		snap.Constraints = append(snap.Constraints, constraintSnapshot{
			Cells: c.Cells(),
			Count: c.count,
		})
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(snap); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (kb *KB) GobDecode(data []byte) error {
	var snap kbSnapshot
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&snap); err != nil {
		return err
	}
	restored := NewKB(snap.Height, snap.Width)
	for _, cell := range snap.MovesMade {
		restored.movesMade[cell] = struct{}{}
	}
	for _, cell := range snap.Mines {
		restored.mines[cell] = struct{}{}
	}
	for _, cell := range snap.Safes {
		restored.safes[cell] = struct{}{}
	}
	for _, cs := range snap.Constraints {
		c, err := NewConstraint(cs.Cells, cs.Count)
		if err != nil {
			return fmt.Errorf("corrupt snapshot: %w", err)
		}
		restored.constraints = append(restored.constraints, c)
	}
	*kb = *restored
	return nil
}
