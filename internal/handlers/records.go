package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/schema"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vancomm/minesweeper-agent/internal/mines"
	"github.com/vancomm/minesweeper-agent/internal/repository"
)

type Records struct {
	logger *slog.Logger
	repo   *repository.Queries
}

func NewRecords(logger *slog.Logger, db *pgxpool.Pool) *Records {
	return &Records{
		logger: logger,
		repo:   repository.New(db),
	}
}

type recordsQueryDTO struct {
	Username  *string `schema:"username"`
	Height    *int    `schema:"height"`
	Width     *int    `schema:"width"`
	MineCount *int    `schema:"mine_count"`
}

func (dto recordsQueryDTO) Filter() repository.RecordFilter {
	filter := repository.RecordFilter{Username: dto.Username}
	if dto.Height != nil && dto.Width != nil && dto.MineCount != nil {
		filter.Params = &mines.Params{
			Height:    *dto.Height,
			Width:     *dto.Width,
			MineCount: *dto.MineCount,
		}
	}
	return filter
}

func (h *Records) List(w http.ResponseWriter, r *http.Request) {
	var dto recordsQueryDTO
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true)
	if err := dec.Decode(&dto, r.URL.Query()); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		sendJSONOrLog(w, h.logger, wrapError(err))
		return
	}

	records, err := h.repo.GetRecords(r.Context(), dto.Filter())
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.logger.Error("unable to fetch records", "error", err)
		return
	}

	sendJSONOrLog(w, h.logger, records)
}
