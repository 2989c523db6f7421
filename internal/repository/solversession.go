package repository

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/vancomm/minesweeper-agent/internal/mines"
)

type SolverSession struct {
	SolverSessionId int64
	PlayerId        *int64
	Width           int
	Height          int
	MineCount       int
	Deduced         int
	Guessed         int
	Dead            bool
	Won             bool
	StartedAt       pgtype.Timestamptz
	EndedAt         *time.Time
	State           []byte
	CreatedAt       pgtype.Timestamptz
	UpdatedAt       pgtype.Timestamptz
}

func (q *Queries) CreateSolverSession(
	ctx context.Context, session *mines.Session, playerId *int64,
) (*SolverSession, error) {
	state, err := session.Bytes()
	if err != nil {
		return nil, err
	}

	args := pgx.NamedArgs{
		"width":      session.Width,
		"height":     session.Height,
		"mine_count": session.MineCount,
		"deduced":    session.DeducedCount(),
		"guessed":    session.GuessCount(),
		"dead":       session.Dead,
		"won":        session.Won,
		"state":      state,
	}
	if playerId != nil {
		args["player_id"] = *playerId
	}

	rows, _ := q.db.Query(
		ctx,
		`INSERT INTO solver_session (
			player_id, width, height, mine_count, deduced, guessed, dead, won, state
		)
		VALUES (
			@player_id, @width, @height, @mine_count, @deduced, @guessed, @dead, @won, @state
		)
		RETURNING *;`,
		args,
	)
	return pgx.CollectExactlyOneRow(
		rows, pgx.RowToAddrOfStructByName[SolverSession],
	)
}

func (q *Queries) FetchSolverSession(
	ctx context.Context, solverSessionId int64,
) (*SolverSession, error) {
	rows, _ := q.db.Query(
		ctx,
		"SELECT * FROM solver_session WHERE solver_session_id = $1",
		solverSessionId,
	)
	return pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[SolverSession])
}

type UpdateSolverSessionParams struct {
	Deduced *int
	Guessed *int
	Dead    *bool
	Won     *bool
	EndedAt *time.Time
	State   *[]byte
}

func (p UpdateSolverSessionParams) SetClause() (string, map[string]any) {
	parts := make([]string, 0)
	args := make(map[string]any)

	if p.Deduced != nil {
		parts = append(parts, "deduced = @deduced")
		args["deduced"] = *p.Deduced
	}
	if p.Guessed != nil {
		parts = append(parts, "guessed = @guessed")
		args["guessed"] = *p.Guessed
	}
	if p.Dead != nil {
		parts = append(parts, "dead = @dead")
		args["dead"] = *p.Dead
	}
	if p.Won != nil {
		parts = append(parts, "won = @won")
		args["won"] = *p.Won
	}
	if p.EndedAt != nil {
		parts = append(parts, "ended_at = @ended_at")
		args["ended_at"] = *p.EndedAt
	}
	if p.State != nil {
		parts = append(parts, "state = @state")
		args["state"] = *p.State
	}

	return strings.Join(parts, ", "), args
}

func (q *Queries) UpdateSolverSession(
	ctx context.Context, solverSessionId int64, params UpdateSolverSessionParams,
) (*SolverSession, error) {
	setClause, args := params.SetClause()
	args["solver_session_id"] = solverSessionId
	rows, _ := q.db.Query(
		ctx,
		"UPDATE solver_session SET "+setClause+
			" WHERE solver_session_id = @solver_session_id RETURNING *",
		pgx.NamedArgs(args),
	)
	return pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[SolverSession])
}

// SaveStep persists a played session after one or more solver steps.
func (q *Queries) SaveStep(
	ctx context.Context, stored *SolverSession, session *mines.Session,
) (*SolverSession, error) {
	state, err := session.Bytes()
	if err != nil {
		return nil, err
	}
	deduced := session.DeducedCount()
	guessed := session.GuessCount()
	params := UpdateSolverSessionParams{
		Deduced: &deduced,
		Guessed: &guessed,
		Dead:    &session.Dead,
		Won:     &session.Won,
		State:   &state,
	}
	if session.Over() && stored.EndedAt == nil {
		now := time.Now().UTC()
		params.EndedAt = &now
	}
	return q.UpdateSolverSession(ctx, stored.SolverSessionId, params)
}
