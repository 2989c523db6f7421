package handlers

import (
	"math/rand/v2"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/minesweeper-agent/internal/mines"
)

func TestParseCreateSessionDTO(t *testing.T) {
	t.Parallel()

	t.Run("valid query", func(t *testing.T) {
		t.Parallel()
		query := url.Values{
			"height":     {"8"},
			"width":      {"10"},
			"mine_count": {"12"},
			"extra":      {"ignored"},
		}
		dto, err := ParseCreateSessionDTO(query)
		require.NoError(t, err)
		assert.Equal(t, mines.Params{Height: 8, Width: 10, MineCount: 12}, dto.Params())
	})

	t.Run("missing field", func(t *testing.T) {
		t.Parallel()
		query := url.Values{
			"height": {"8"},
			"width":  {"10"},
		}
		_, err := ParseCreateSessionDTO(query)
		assert.Error(t, err)
	})

	t.Run("non-numeric field", func(t *testing.T) {
		t.Parallel()
		query := url.Values{
			"height":     {"8"},
			"width":      {"ten"},
			"mine_count": {"12"},
		}
		_, err := ParseCreateSessionDTO(query)
		assert.Error(t, err)
	})
}

func TestSessionDTO(t *testing.T) {
	t.Parallel()

	rnd := rand.New(rand.NewPCG(11, 13))
	params := mines.Params{Height: 4, Width: 4, MineCount: 0}
	session, err := mines.NewSession(params, rnd)
	require.NoError(t, err)
	require.NoError(t, session.Solve(rnd))

	startedAt := time.Now().Add(-time.Minute)
	endedAt := time.Now()
	dto := NewSessionDTO(7, startedAt, &endedAt, session)

	assert.Equal(t, "7", dto.SolverSessionId)
	assert.Equal(t, 4, dto.Width)
	assert.Equal(t, 4, dto.Height)
	assert.True(t, dto.Won)
	assert.False(t, dto.Dead)
	assert.Equal(t, len(session.Moves), dto.Deduced+dto.Guessed)
	assert.Equal(t, startedAt.UnixMilli(), dto.StartedAt)
	require.NotNil(t, dto.EndedAt)
	assert.Equal(t, endedAt.UnixMilli(), *dto.EndedAt)
}
