package repository

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/vancomm/minesweeper-agent/internal/mines"
)

type Record struct {
	SolverSessionId string  `json:"solver_session_id"`
	Username        *string `json:"username"`
	Width           int     `json:"width"`
	Height          int     `json:"height"`
	MineCount       int     `json:"mine_count"`
	Deduced         int     `json:"deduced"`
	Guessed         int     `json:"guessed"`
	PlaytimeMs      float64 `json:"playtime_ms"`
}

type RecordFilter struct {
	Username *string
	Params   *mines.Params
}

func (f RecordFilter) WhereClause() (string, pgx.NamedArgs) {
	clauses := make([]string, 0)
	args := pgx.NamedArgs{}
	if f.Username != nil {
		clauses = append(clauses, "username = @username")
		args["username"] = *f.Username
	}
	if f.Params != nil {
		clauses = append(
			clauses,
			"width = @width",
			"height = @height",
			"mine_count = @mineCount",
		)
		args["width"] = f.Params.Width
		args["height"] = f.Params.Height
		args["mineCount"] = f.Params.MineCount
	}
	return strings.Join(clauses, " AND "), args
}

// GetRecords lists won sessions ranked by fewest guesses, ties broken
// by playtime.
func (q *Queries) GetRecords(
	ctx context.Context, filter RecordFilter,
) ([]Record, error) {
	query := `
	SELECT
		solver_session_id::text AS solver_session_id,
		username,
		width,
		height,
		mine_count,
		deduced,
		guessed,
		(
			extract('epoch' from ended_at) -
			extract('epoch' from started_at)
		) * 1000 playtime_ms
	FROM solver_session
		LEFT OUTER JOIN player using (player_id)
	WHERE
		won = true
		AND dead = false
		AND ended_at IS NOT NULL
	`

	whereClause, args := filter.WhereClause()
	if whereClause != "" {
		query += " AND " + whereClause
	}

	query += " ORDER BY guessed, playtime_ms;"

	rows, err := q.db.Query(ctx, query, args)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[Record])
}
