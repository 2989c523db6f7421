package mines

import (
	"fmt"
	"math/rand/v2"
	"strings"
)

// Params describe a board to be generated.
type Params struct {
	Height    int `json:"height"`
	Width     int `json:"width"`
	MineCount int `json:"mine_count"`
}

func (p Params) Validate() error {
	if p.Height <= 0 || p.Width <= 0 {
		return fmt.Errorf("invalid board size %dx%d", p.Height, p.Width)
	}
	if p.MineCount < 0 || p.MineCount >= p.Height*p.Width {
		return fmt.Errorf(
			"invalid mine count %d for a %dx%d board",
			p.MineCount, p.Height, p.Width,
		)
	}
	return nil
}

func (p Params) CellCount() int {
	return p.Height * p.Width
}

func (p Params) InBounds(c Cell) bool {
	return 0 <= c.Row && c.Row < p.Height && 0 <= c.Col && c.Col < p.Width
}

/*
Field is the ground-truth board: mine locations only. It answers the
two questions the game loop may ask of it, IsMine and AdjacentMines.
The knowledge base never touches it.
*/
type Field struct {
	Params
	Grid []bool
}

// NewField places MineCount mines uniformly at random.
func NewField(params Params, rnd *rand.Rand) (*Field, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	grid := make([]bool, params.CellCount())

	// Write down every possible location, then draw without
	// replacement.
	candidates := make([]int, len(grid))
	for i := range candidates {
		candidates[i] = i
	}
	k := len(candidates)
	for range params.MineCount {
		i := rnd.IntN(k)
		grid[candidates[i]] = true
		k--
		candidates[i] = candidates[k]
	}

	return &Field{Params: params, Grid: grid}, nil
}

func (f *Field) IsMine(c Cell) bool {
	return f.Grid[c.Row*f.Width+c.Col]
}

// AdjacentMines counts mines among the at most 8 in-bounds neighbors
// of c, not counting c itself.
func (f *Field) AdjacentMines(c Cell) int {
	count := 0
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			n := Cell{Row: c.Row + dr, Col: c.Col + dc}
			if f.InBounds(n) && f.IsMine(n) {
				count++
			}
		}
	}
	return count
}

func (f *Field) String() string {
	var b strings.Builder
	for row := range f.Height {
		for col := range f.Width {
			if f.Grid[row*f.Width+col] {
				b.WriteString("* ")
			} else {
				b.WriteString("- ")
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}
