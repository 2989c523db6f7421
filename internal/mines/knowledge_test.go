package mines

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// assertSound checks the structural invariants that must hold in every
// reachable KB state.
func assertSound(t *testing.T, kb *KB) {
	t.Helper()

	for _, cell := range kb.Mines() {
		assert.NotContains(t, kb.Safes(), cell,
			"cell proven both mine and safe")
	}

	for i, c := range kb.constraints {
		assert.Greater(t, c.Len(), 0, "empty constraint left active")
		assert.NotZero(t, c.Count(), "all-safe constraint left active")
		assert.NotEqual(t, c.Len(), c.Count(),
			"all-mine constraint left active")
		for _, cell := range c.Cells() {
			assert.NotContains(t, kb.Mines(), cell,
				"confirmed mine still inside a constraint")
			assert.NotContains(t, kb.Safes(), cell,
				"confirmed safe cell still inside a constraint")
		}
		for _, other := range kb.constraints[i+1:] {
			assert.False(t, c.Equal(other), "duplicate constraints stored")
		}
	}
}

func mustConstraint(t *testing.T, cells []Cell, count int) *Constraint {
	t.Helper()
	c, err := NewConstraint(cells, count)
	require.NoError(t, err)
	return c
}

func TestSettleAbsorbsAllMineConstraint(t *testing.T) {
	kb := NewKB(8, 8)
	kb.constraints = append(kb.constraints,
		mustConstraint(t, []Cell{{1, 1}, {1, 2}}, 2))

	kb.settle()

	assert.Equal(t, []Cell{{1, 1}, {1, 2}}, kb.Mines())
	assert.Zero(t, kb.ConstraintCount())
	assertSound(t, kb)
}

func TestSettleRunsToFixpoint(t *testing.T) {
	// Marking (0,0) a mine reduces the second constraint to all-safe,
	// which a single pass would miss.
	kb := NewKB(8, 8)
	kb.constraints = append(kb.constraints,
		mustConstraint(t, []Cell{{0, 0}}, 1),
		mustConstraint(t, []Cell{{0, 0}, {0, 1}, {0, 2}}, 1),
	)

	kb.settle()

	assert.Equal(t, []Cell{{0, 0}}, kb.Mines())
	assert.ElementsMatch(t, []Cell{{0, 1}, {0, 2}}, kb.Safes())
	assert.Zero(t, kb.ConstraintCount())
	assertSound(t, kb)
}

func TestSubsetResolution(t *testing.T) {
	kb := NewKB(8, 8)
	a := Cell{0, 0}
	b := Cell{0, 1}
	c := Cell{0, 2}

	kb.addConstraint(mustConstraint(t, []Cell{a, b, c}, 1))
	kb.addConstraint(mustConstraint(t, []Cell{a, b}, 1))

	// {a,b,c}=1 minus {a,b}=1 leaves {c}=0; confirming c safe then
	// shrinks {a,b,c}=1 into a copy of {a,b}=1
	assert.Contains(t, kb.Safes(), c)
	assert.Equal(t, 1, kb.ConstraintCount())
	assertSound(t, kb)
}

func TestSettleDropsShrunkenDuplicate(t *testing.T) {
	// Confirming the only cell outside a superset constraint shrinks
	// it into a copy of its subset; one copy may stay active.
	kb := NewKB(8, 8)
	kb.constraints = append(kb.constraints,
		mustConstraint(t, []Cell{{0, 0}, {0, 1}}, 1),
		mustConstraint(t, []Cell{{0, 0}, {0, 1}, {0, 2}}, 1),
	)

	kb.MarkSafe(Cell{0, 2})
	kb.settle()

	assert.Equal(t, 1, kb.ConstraintCount())
	assertSound(t, kb)
}

func TestAddConstraintDiscardsDuplicates(t *testing.T) {
	kb := NewKB(8, 8)
	cells := []Cell{{0, 0}, {0, 1}, {0, 2}}

	kb.addConstraint(mustConstraint(t, cells, 1))
	kb.addConstraint(mustConstraint(t, cells, 1))

	assert.Equal(t, 1, kb.ConstraintCount())
	assertSound(t, kb)
}

func TestMarkMineIdempotent(t *testing.T) {
	kb := NewKB(8, 8)
	kb.constraints = append(kb.constraints,
		mustConstraint(t, []Cell{{0, 0}, {0, 1}, {0, 2}}, 2))

	kb.MarkMine(Cell{0, 0})
	want := kb.constraints[0].Cells()
	wantCount := kb.constraints[0].Count()

	kb.MarkMine(Cell{0, 0})
	assert.Equal(t, want, kb.constraints[0].Cells())
	assert.Equal(t, wantCount, kb.constraints[0].Count())
	assert.Equal(t, []Cell{{0, 0}}, kb.Mines())
}

func TestMarkSafeIdempotent(t *testing.T) {
	kb := NewKB(8, 8)
	kb.constraints = append(kb.constraints,
		mustConstraint(t, []Cell{{0, 0}, {0, 1}, {0, 2}}, 1))

	kb.MarkSafe(Cell{0, 1})
	kb.MarkSafe(Cell{0, 1})

	assert.Equal(t, []Cell{{0, 1}}, kb.Safes())
	assert.Equal(t, []Cell{{0, 0}, {0, 2}}, kb.constraints[0].Cells())
	assert.Equal(t, 1, kb.constraints[0].Count())
}

func TestRecordObservationZeroCount(t *testing.T) {
	kb := NewKB(8, 8)

	err := kb.RecordObservation(Cell{0, 0}, 0)
	require.NoError(t, err)

	// every in-bounds neighbor of the corner is proven safe
	assert.ElementsMatch(t,
		[]Cell{{0, 0}, {0, 1}, {1, 0}, {1, 1}},
		kb.Safes(),
	)
	assert.Equal(t, []Cell{{0, 0}}, kb.MovesMade())
	assert.Zero(t, kb.ConstraintCount())
	assertSound(t, kb)
}

func TestRecordObservationBoundsNonSquare(t *testing.T) {
	// height 2, width 5: rows are bounded by height and columns by
	// width, so the corner (1,4) exists and (4,1) does not
	kb := NewKB(2, 5)

	err := kb.RecordObservation(Cell{1, 4}, 1)
	require.NoError(t, err)

	require.Equal(t, 1, kb.ConstraintCount())
	assert.Equal(t,
		[]Cell{{0, 3}, {0, 4}, {1, 3}},
		kb.constraints[0].Cells(),
	)
}

func TestRecordObservationExcludesKnownCells(t *testing.T) {
	kb := NewKB(8, 8)
	kb.MarkMine(Cell{1, 1})
	kb.MarkSafe(Cell{0, 1})

	// 2 adjacent mines, one of which is already confirmed
	err := kb.RecordObservation(Cell{1, 0}, 2)
	require.NoError(t, err)

	require.Equal(t, 1, kb.ConstraintCount())
	c := kb.constraints[0]
	assert.Equal(t, []Cell{{0, 0}, {2, 0}, {2, 1}}, c.Cells())
	assert.Equal(t, 1, c.Count())
	assertSound(t, kb)
}

func TestRecordObservationContradiction(t *testing.T) {
	kb := NewKB(8, 8)

	// a corner has 3 neighbors; 4 adjacent mines cannot hold
	err := kb.RecordObservation(Cell{0, 0}, 4)
	assert.ErrorIs(t, err, ErrBadConstraint)
}

func TestMonotonicity(t *testing.T) {
	kb := NewKB(4, 4)
	rnd := rand.New(rand.NewPCG(1, 2))

	prevMines, prevSafes, prevMoves := 0, 0, 0
	for range 8 {
		cell, ok := kb.RandomMove(rnd)
		if !ok {
			break
		}
		require.NoError(t, kb.RecordObservation(cell, 0))

		assert.GreaterOrEqual(t, len(kb.Mines()), prevMines)
		assert.GreaterOrEqual(t, len(kb.Safes()), prevSafes)
		assert.GreaterOrEqual(t, len(kb.MovesMade()), prevMoves)
		prevMines = len(kb.Mines())
		prevSafes = len(kb.Safes())
		prevMoves = len(kb.MovesMade())
		assertSound(t, kb)
	}
}

func TestSafeMove(t *testing.T) {
	kb := NewKB(8, 8)

	_, ok := kb.SafeMove()
	assert.False(t, ok)

	require.NoError(t, kb.RecordObservation(Cell{0, 0}, 0))

	cell, ok := kb.SafeMove()
	require.True(t, ok)
	assert.Contains(t, []Cell{{0, 1}, {1, 0}, {1, 1}}, cell)
	assert.NotContains(t, kb.MovesMade(), cell)
}

func TestRandomMoveExhaustion(t *testing.T) {
	kb := NewKB(2, 2)
	rnd := rand.New(rand.NewPCG(1, 2))

	require.NoError(t, kb.RecordObservation(Cell{0, 0}, 3))

	// every other cell is a confirmed mine now
	assert.Len(t, kb.Mines(), 3)
	_, ok := kb.RandomMove(rnd)
	assert.False(t, ok)
}

func TestChainedResolution(t *testing.T) {
	// A full deduction chain on a 3x3 board with mines at (0,2) and
	// (2,2):
	//
	//   - 1 *
	//   - 2 -
	//   - 1 *
	//
	kb := NewKB(3, 3)

	require.NoError(t, kb.RecordObservation(Cell{0, 0}, 0))
	require.NoError(t, kb.RecordObservation(Cell{1, 0}, 0))
	require.NoError(t, kb.RecordObservation(Cell{2, 0}, 0))
	require.NoError(t, kb.RecordObservation(Cell{0, 1}, 1))
	require.NoError(t, kb.RecordObservation(Cell{2, 1}, 1))
	require.NoError(t, kb.RecordObservation(Cell{1, 1}, 2))

	assert.ElementsMatch(t, []Cell{{0, 2}, {2, 2}}, kb.Mines())
	assert.Contains(t, kb.Safes(), Cell{1, 2})
	assertSound(t, kb)
}

func TestKBGobRoundTrip(t *testing.T) {
	kb := NewKB(8, 8)
	require.NoError(t, kb.RecordObservation(Cell{0, 0}, 1))
	require.NoError(t, kb.RecordObservation(Cell{3, 3}, 2))

	data, err := kb.GobEncode()
	require.NoError(t, err)

	restored := NewKB(0, 0)
	require.NoError(t, restored.GobDecode(data))

	assert.Equal(t, kb.Mines(), restored.Mines())
	assert.Equal(t, kb.Safes(), restored.Safes())
	assert.Equal(t, kb.MovesMade(), restored.MovesMade())
	assert.Equal(t, kb.ConstraintCount(), restored.ConstraintCount())
}
