package mines

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParamsValidate(t *testing.T) {
	tests := []struct {
		name   string
		params Params
		ok     bool
	}{
		{"8x8(10)", Params{Height: 8, Width: 8, MineCount: 10}, true},
		{"1x1(0)", Params{Height: 1, Width: 1, MineCount: 0}, true},
		{"zero width", Params{Height: 8, Width: 0, MineCount: 1}, false},
		{"negative mines", Params{Height: 8, Width: 8, MineCount: -1}, false},
		{"all mines", Params{Height: 2, Width: 2, MineCount: 4}, false},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := test.params.Validate()
			if test.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestNewFieldPlacesExactCount(t *testing.T) {
	rnd := rand.New(rand.NewPCG(1, 2))
	params := Params{Height: 16, Width: 30, MineCount: 99}

	f, err := NewField(params, rnd)
	require.NoError(t, err)

	placed := 0
	for _, mine := range f.Grid {
		if mine {
			placed++
		}
	}
	assert.Equal(t, 99, placed)
	assert.Len(t, f.Grid, 16*30)
}

func TestFieldAdjacentMines(t *testing.T) {
	// - * -
	// - - -
	// * * -
	f := &Field{
		Params: Params{Height: 3, Width: 3, MineCount: 3},
		Grid: []bool{
			false, true, false,
			false, false, false,
			true, true, false,
		},
	}

	tests := []struct {
		cell Cell
		want int
	}{
		{Cell{0, 0}, 1},
		{Cell{1, 1}, 3},
		{Cell{2, 2}, 1},
		{Cell{0, 2}, 1},
		{Cell{1, 0}, 3},
	}
	for _, test := range tests {
		assert.Equal(t, test.want, f.AdjacentMines(test.cell),
			"adjacent count at %s", test.cell)
	}
}

func neighborCount(p Params, c Cell) int {
	n := 0
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			if p.InBounds(Cell{Row: c.Row + dr, Col: c.Col + dc}) {
				n++
			}
		}
	}
	return n
}

func TestFieldAgainstKB(t *testing.T) {
	// the two halves of the external contract agree: counts reported
	// by the field never contradict the KB
	rnd := rand.New(rand.NewPCG(3, 4))
	params := Params{Height: 8, Width: 8, MineCount: 10}

	f, err := NewField(params, rnd)
	require.NoError(t, err)

	kb := NewKB(params.Height, params.Width)
	for row := range params.Height {
		for col := range params.Width {
			cell := Cell{Row: row, Col: col}
			if f.IsMine(cell) {
				continue
			}
			require.NoError(t,
				kb.RecordObservation(cell, f.AdjacentMines(cell)))
		}
	}

	// no false positives
	for _, cell := range kb.Mines() {
		assert.True(t, f.IsMine(cell))
	}

	// with the whole board open, every mine bordering an open cell is
	// deducible
	for row := range params.Height {
		for col := range params.Width {
			cell := Cell{Row: row, Col: col}
			if f.IsMine(cell) && f.AdjacentMines(cell) < neighborCount(params, cell) {
				assert.Contains(t, kb.Mines(), cell)
			}
		}
	}
}
