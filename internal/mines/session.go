package mines

import (
	"bytes"
	"encoding/gob"
	"errors"
	"math/rand/v2"
)

var (
	ErrSessionOver = errors.New("session already finished")
	ErrNoMoves     = errors.New("no moves left")
)

// Move records one turn of the agent.
type Move struct {
	Cell     Cell `json:"cell"`
	Guessed  bool `json:"guessed"`
	Exploded bool `json:"exploded"`
	Adjacent int  `json:"adjacent"`
}

/*
Session ties a ground-truth Field to the KB playing against it and
drives the turn loop: each step the agent plays a proven-safe cell
when it has one and falls back to a uniform random guess otherwise,
then feeds the revealed adjacency count back into the KB.
*/
type Session struct {
	Params
	Field *Field
	KB    *KB
	Dead  bool
	Won   bool
	Moves []Move
}

func NewSession(params Params, rnd *rand.Rand) (*Session, error) {
	field, err := NewField(params, rnd)
	if err != nil {
		return nil, err
	}
	return &Session{
		Params: params,
		Field:  field,
		KB:     NewKB(params.Height, params.Width),
	}, nil
}

// DecodeSession restores a session from a gob snapshot produced by
// Bytes.
func DecodeSession(buf []byte) (*Session, error) {
	var s Session
	err := gob.NewDecoder(bytes.NewReader(buf)).Decode(&s)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Session) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Step plays one turn. It returns the move made, ErrSessionOver once
// the game has ended, or ErrNoMoves if no playable cell remains.
func (s *Session) Step(rnd *rand.Rand) (*Move, error) {
	if s.Dead || s.Won {
		return nil, ErrSessionOver
	}

	cell, ok := s.KB.SafeMove()
	guessed := !ok
	if guessed {
		cell, ok = s.KB.RandomMove(rnd)
		if !ok {
			return nil, ErrNoMoves
		}
	}

	move := Move{Cell: cell, Guessed: guessed}
	if s.Field.IsMine(cell) {
		s.Dead = true
		move.Exploded = true
	} else {
		move.Adjacent = s.Field.AdjacentMines(cell)
		if err := s.KB.RecordObservation(cell, move.Adjacent); err != nil {
			return nil, err
		}
	}
	s.Moves = append(s.Moves, move)

	if !s.Dead && len(s.KB.MovesMade()) == s.CellCount()-s.MineCount {
		s.Won = true
	}
	return &s.Moves[len(s.Moves)-1], nil
}

// Solve steps the session until it ends. The step count cannot exceed
// the number of cells, since every step opens a fresh cell or dies.
func (s *Session) Solve(rnd *rand.Rand) error {
	for !s.Dead && !s.Won {
		if _, err := s.Step(rnd); err != nil {
			return err
		}
	}
	return nil
}

// GuessCount reports how many of the moves so far were random
// fallbacks rather than deductions.
func (s *Session) GuessCount() int {
	n := 0
	for _, m := range s.Moves {
		if m.Guessed {
			n++
		}
	}
	return n
}

// DeducedCount reports how many moves were proven safe before being
// played.
func (s *Session) DeducedCount() int {
	return len(s.Moves) - s.GuessCount()
}

// Over reports whether the session has reached a terminal state.
func (s *Session) Over() bool {
	return s.Dead || s.Won
}
