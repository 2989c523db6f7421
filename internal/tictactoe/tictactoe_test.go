package tictactoe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlayerAlternates(t *testing.T) {
	var b Board
	assert.Equal(t, X, Player(b))

	b[0][0] = X
	assert.Equal(t, O, Player(b))

	b[1][1] = O
	assert.Equal(t, X, Player(b))
}

func TestResultRejectsOccupied(t *testing.T) {
	var b Board
	b[1][1] = X

	_, err := Result(b, Action{1, 1})
	assert.ErrorIs(t, err, ErrInvalidAction)

	_, err = Result(b, Action{3, 0})
	assert.ErrorIs(t, err, ErrInvalidAction)

	next, err := Result(b, Action{0, 0})
	require.NoError(t, err)
	assert.Equal(t, O, next[0][0])
	assert.Equal(t, X, b[1][1], "input board is not mutated")
}

func TestWinner(t *testing.T) {
	tests := []struct {
		name string
		b    Board
		want Mark
	}{
		{"empty", Board{}, Empty},
		{"row", Board{{X, X, X}, {O, O, Empty}}, X},
		{"column", Board{{O, X, Empty}, {O, X, Empty}, {O, Empty, X}}, O},
		{"diagonal", Board{{X, O, O}, {Empty, X, Empty}, {Empty, Empty, X}}, X},
		{"antidiagonal", Board{{X, X, O}, {Empty, O, Empty}, {O, Empty, X}}, O},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.want, Winner(test.b))
		})
	}
}

func TestUtility(t *testing.T) {
	assert.Equal(t, 1, Utility(Board{{X, X, X}}))
	assert.Equal(t, -1, Utility(Board{{O, O, O}}))
	assert.Equal(t, 0, Utility(Board{}))
}

func TestMinimaxBlocksImmediateLoss(t *testing.T) {
	// X threatens the top row; O to move must block at (0,2), after
	// which best play runs to a draw
	b := Board{
		{X, X, Empty},
		{Empty, O, X},
		{Empty, O, Empty},
	}
	require.Equal(t, O, Player(b))

	action, ok := Minimax(b)
	require.True(t, ok)
	assert.Equal(t, Action{0, 2}, action)
}

func TestMinimaxTakesImmediateWin(t *testing.T) {
	b := Board{
		{X, X, Empty},
		{O, O, Empty},
		{Empty, Empty, Empty},
	}
	require.Equal(t, X, Player(b))

	action, ok := Minimax(b)
	require.True(t, ok)
	assert.Equal(t, Action{0, 2}, action)
}

func TestMinimaxOnTerminalBoard(t *testing.T) {
	b := Board{{X, X, X}, {O, O, Empty}}
	_, ok := Minimax(b)
	assert.False(t, ok)
}

func TestPerfectPlayDraws(t *testing.T) {
	if testing.Short() {
		t.Skip()
	}

	var b Board
	for !Terminal(b) {
		action, ok := Minimax(b)
		require.True(t, ok)
		next, err := Result(b, action)
		require.NoError(t, err)
		b = next
	}
	assert.Equal(t, Empty, Winner(b), "perfect play never produces a winner")
}
