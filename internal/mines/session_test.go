package mines

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionStep(t *testing.T) {
	rnd := rand.New(rand.NewPCG(1, 2))
	s, err := NewSession(Params{Height: 8, Width: 8, MineCount: 10}, rnd)
	require.NoError(t, err)

	move, err := s.Step(rnd)
	require.NoError(t, err)
	assert.True(t, move.Guessed, "first move has nothing to deduce from")
	assert.Len(t, s.Moves, 1)

	if move.Exploded {
		assert.True(t, s.Dead)
		_, err = s.Step(rnd)
		assert.ErrorIs(t, err, ErrSessionOver)
	} else {
		assert.Contains(t, s.KB.MovesMade(), move.Cell)
	}
}

func TestSessionSolveTerminates(t *testing.T) {
	rnd := rand.New(rand.NewPCG(5, 6))
	params := Params{Height: 8, Width: 8, MineCount: 8}

	for range 10 {
		s, err := NewSession(params, rnd)
		require.NoError(t, err)

		require.NoError(t, s.Solve(rnd))

		assert.True(t, s.Over())
		assert.LessOrEqual(t, len(s.Moves), params.CellCount())
		if s.Won {
			assert.Len(t, s.KB.MovesMade(),
				params.CellCount()-params.MineCount)
		}
		assert.Equal(t, len(s.Moves),
			s.GuessCount()+s.DeducedCount())
	}
}

func TestSessionMinelessBoardIsWonInOneGuess(t *testing.T) {
	rnd := rand.New(rand.NewPCG(7, 8))
	s, err := NewSession(Params{Height: 4, Width: 4, MineCount: 0}, rnd)
	require.NoError(t, err)

	move, err := s.Step(rnd)
	require.NoError(t, err)
	assert.False(t, move.Exploded)

	// a zero-count cascade proves every remaining cell safe; the rest
	// of the game is pure deduction
	require.NoError(t, s.Solve(rnd))
	assert.True(t, s.Won)
	assert.Equal(t, 1, s.GuessCount())
}

func TestSessionGobRoundTrip(t *testing.T) {
	rnd := rand.New(rand.NewPCG(9, 10))
	s, err := NewSession(Params{Height: 8, Width: 8, MineCount: 10}, rnd)
	require.NoError(t, err)

	for range 3 {
		if s.Over() {
			break
		}
		_, err = s.Step(rnd)
		require.NoError(t, err)
	}

	data, err := s.Bytes()
	require.NoError(t, err)

	restored, err := DecodeSession(data)
	require.NoError(t, err)

	assert.Equal(t, s.Params, restored.Params)
	assert.Equal(t, s.Field.Grid, restored.Field.Grid)
	assert.Equal(t, s.Dead, restored.Dead)
	assert.Equal(t, s.Won, restored.Won)
	assert.Equal(t, s.Moves, restored.Moves)
	assert.Equal(t, s.KB.Safes(), restored.KB.Safes())

	// the restored session keeps playing
	if !restored.Over() {
		_, err = restored.Step(rnd)
		assert.NoError(t, err)
	}
}
