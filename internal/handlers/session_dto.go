package handlers

import (
	"strconv"
	"time"

	"github.com/gorilla/schema"

	"github.com/vancomm/minesweeper-agent/internal/mines"
	"github.com/vancomm/minesweeper-agent/internal/repository"
)

type CreateSessionDTO struct {
	Height    int `schema:"height,required"`
	Width     int `schema:"width,required"`
	MineCount int `schema:"mine_count,required"`
}

func ParseCreateSessionDTO(src map[string][]string) (CreateSessionDTO, error) {
	var dto CreateSessionDTO
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true)
	err := dec.Decode(&dto, src)
	return dto, err
}

func (dto CreateSessionDTO) Params() mines.Params {
	return mines.Params{
		Height:    dto.Height,
		Width:     dto.Width,
		MineCount: dto.MineCount,
	}
}

type SessionDTO struct {
	SolverSessionId string       `json:"solver_session_id"`
	Width           int          `json:"width"`
	Height          int          `json:"height"`
	MineCount       int          `json:"mine_count"`
	Deduced         int          `json:"deduced"`
	Guessed         int          `json:"guessed"`
	Dead            bool         `json:"dead"`
	Won             bool         `json:"won"`
	Moves           []mines.Move `json:"moves"`
	Mines           []mines.Cell `json:"mines"`
	Safes           []mines.Cell `json:"safes"`
	StartedAt       int64        `json:"started_at"`
	EndedAt         *int64       `json:"ended_at,omitempty"`
}

func NewSessionDTO(
	solverSessionId int64,
	startedAt time.Time,
	endedAt *time.Time,
	s *mines.Session,
) *SessionDTO {
	var endedAtMs *int64
	if endedAt != nil {
		e := endedAt.UnixMilli()
		endedAtMs = &e
	}
	return &SessionDTO{
		SolverSessionId: strconv.FormatInt(solverSessionId, 10),
		Width:           s.Width,
		Height:          s.Height,
		MineCount:       s.MineCount,
		Deduced:         s.DeducedCount(),
		Guessed:         s.GuessCount(),
		Dead:            s.Dead,
		Won:             s.Won,
		Moves:           s.Moves,
		Mines:           s.KB.Mines(),
		Safes:           s.KB.Safes(),
		StartedAt:       startedAt.UnixMilli(),
		EndedAt:         endedAtMs,
	}
}

func storedSessionDTO(stored *repository.SolverSession, s *mines.Session) *SessionDTO {
	return NewSessionDTO(
		stored.SolverSessionId, stored.StartedAt.Time, stored.EndedAt, s,
	)
}
