// Package tictactoe is the counterpart of the minesweeper agent for a
// fully-observable game: instead of accumulating knowledge it searches
// the complete game tree with alpha-beta pruned minimax.
package tictactoe

import (
	"errors"
	"fmt"
)

type Mark int8

const (
	Empty Mark = iota
	X
	O
)

func (m Mark) String() string {
	switch m {
	case X:
		return "X"
	case O:
		return "O"
	default:
		return " "
	}
}

// Board is a value type; Result copies it instead of mutating.
type Board [3][3]Mark

type Action struct {
	Row, Col int
}

var (
	ErrInvalidAction = errors.New("invalid action")
	ErrGameOver      = errors.New("game already over")
)

// Player returns the mark with the next turn, or Empty on a terminal
// board. X always moves first.
func Player(b Board) Mark {
	if Winner(b) != Empty {
		return Empty
	}
	xs, os := 0, 0
	for _, row := range b {
		for _, m := range row {
			switch m {
			case X:
				xs++
			case O:
				os++
			}
		}
	}
	if xs+os == 9 {
		return Empty
	}
	if xs == os {
		return X
	}
	return O
}

// Actions lists every open square.
func Actions(b Board) []Action {
	var actions []Action
	for row := range 3 {
		for col := range 3 {
			if b[row][col] == Empty {
				actions = append(actions, Action{row, col})
			}
		}
	}
	return actions
}

// Result returns the board after the current player takes action.
func Result(b Board, a Action) (Board, error) {
	if a.Row < 0 || a.Row > 2 || a.Col < 0 || a.Col > 2 {
		return b, fmt.Errorf("%w: %v out of range", ErrInvalidAction, a)
	}
	if b[a.Row][a.Col] != Empty {
		return b, fmt.Errorf("%w: square %v occupied", ErrInvalidAction, a)
	}
	mark := Player(b)
	if mark == Empty {
		return b, ErrGameOver
	}
	b[a.Row][a.Col] = mark
	return b, nil
}

var lines = [8][3]Action{
	{{0, 0}, {0, 1}, {0, 2}},
	{{1, 0}, {1, 1}, {1, 2}},
	{{2, 0}, {2, 1}, {2, 2}},
	{{0, 0}, {1, 0}, {2, 0}},
	{{0, 1}, {1, 1}, {2, 1}},
	{{0, 2}, {1, 2}, {2, 2}},
	{{0, 0}, {1, 1}, {2, 2}},
	{{0, 2}, {1, 1}, {2, 0}},
}

// Winner returns the mark holding a full line, or Empty.
func Winner(b Board) Mark {
	for _, line := range lines {
		m := b[line[0].Row][line[0].Col]
		if m != Empty &&
			m == b[line[1].Row][line[1].Col] &&
			m == b[line[2].Row][line[2].Col] {
			return m
		}
	}
	return Empty
}

func Terminal(b Board) bool {
	return Player(b) == Empty
}

// Utility scores a board: 1 when X has won, -1 when O has won, 0
// otherwise.
func Utility(b Board) int {
	switch Winner(b) {
	case X:
		return 1
	case O:
		return -1
	default:
		return 0
	}
}

// Minimax returns an optimal action for the current player, or false
// on a terminal board. X maximizes, O minimizes.
func Minimax(b Board) (Action, bool) {
	player := Player(b)
	if player == Empty {
		return Action{}, false
	}

	var (
		best      Action
		bestScore int
	)
	if player == X {
		bestScore = -2
		for _, a := range Actions(b) {
			next, _ := Result(b, a)
			if score := minValue(next, bestScore, 2); score > bestScore {
				bestScore, best = score, a
			}
		}
	} else {
		bestScore = 2
		for _, a := range Actions(b) {
			next, _ := Result(b, a)
			if score := maxValue(next, -2, bestScore); score < bestScore {
				bestScore, best = score, a
			}
		}
	}
	return best, true
}

func maxValue(b Board, alpha, beta int) int {
	if Terminal(b) {
		return Utility(b)
	}
	score := -2
	for _, a := range Actions(b) {
		next, _ := Result(b, a)
		if v := minValue(next, alpha, beta); v > score {
			score = v
		}
		if score > alpha {
			alpha = score
		}
		if alpha > beta {
			break
		}
	}
	return score
}

func minValue(b Board, alpha, beta int) int {
	if Terminal(b) {
		return Utility(b)
	}
	score := 2
	for _, a := range Actions(b) {
		next, _ := Result(b, a)
		if v := maxValue(next, alpha, beta); v < score {
			score = v
		}
		if score < beta {
			beta = score
		}
		if beta < alpha {
			break
		}
	}
	return score
}
