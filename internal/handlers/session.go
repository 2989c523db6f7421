package handlers

import (
	"errors"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vancomm/minesweeper-agent/internal/config"
	"github.com/vancomm/minesweeper-agent/internal/middleware"
	"github.com/vancomm/minesweeper-agent/internal/mines"
	"github.com/vancomm/minesweeper-agent/internal/repository"
)

type SessionHandler struct {
	logger  *slog.Logger
	repo    *repository.Queries
	cookies *config.Cookies
	ws      *config.WebSocket
	rnd     *rand.Rand
}

func NewSessionHandler(
	logger *slog.Logger,
	db *pgxpool.Pool,
	cookies *config.Cookies,
	ws *config.WebSocket,
	rnd *rand.Rand,
) *SessionHandler {
	return &SessionHandler{
		logger:  logger,
		repo:    repository.New(db),
		cookies: cookies,
		ws:      ws,
		rnd:     rnd,
	}
}

func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	dto, err := ParseCreateSessionDTO(r.URL.Query())
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		sendJSONOrLog(w, h.logger, wrapError(err))
		return
	}

	params := dto.Params()
	if err := params.Validate(); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		sendJSONOrLog(w, h.logger, wrapError(err))
		return
	}

	session, err := mines.NewSession(params, h.rnd)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.logger.Error("unable to create session", "error", err)
		return
	}

	var playerId *int64
	if claims, ok := middleware.PlayerClaims(r.Context()); ok {
		playerId = &claims.PlayerId
	}

	stored, err := h.repo.CreateSolverSession(r.Context(), session, playerId)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.logger.Error("unable to store session", "error", err)
		return
	}

	sendJSONOrLog(w, h.logger, storedSessionDTO(stored, session))
}

// load fetches a stored session by the {id} path value and decodes its
// state, writing the appropriate status on failure.
func (h *SessionHandler) load(
	w http.ResponseWriter, r *http.Request,
) (*repository.SolverSession, *mines.Session, bool) {
	solverSessionId, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return nil, nil, false
	}

	stored, err := h.repo.FetchSolverSession(r.Context(), solverSessionId)
	if errors.Is(err, pgx.ErrNoRows) {
		w.WriteHeader(http.StatusNotFound)
		return nil, nil, false
	}
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.logger.Error("unable to fetch session from db", "error", err)
		return nil, nil, false
	}

	session, err := mines.DecodeSession(stored.State)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.logger.Error("db returned invalid solver_session.state", "error", err)
		return nil, nil, false
	}

	return stored, session, true
}

func (h *SessionHandler) Fetch(w http.ResponseWriter, r *http.Request) {
	stored, session, ok := h.load(w, r)
	if !ok {
		return
	}
	sendJSONOrLog(w, h.logger, storedSessionDTO(stored, session))
}

func (h *SessionHandler) Step(w http.ResponseWriter, r *http.Request) {
	stored, session, ok := h.load(w, r)
	if !ok {
		return
	}

	if _, err := session.Step(h.rnd); errors.Is(err, mines.ErrSessionOver) {
		w.WriteHeader(http.StatusConflict)
		sendJSONOrLog(w, h.logger, wrapError(err))
		return
	} else if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.logger.Error("failed to play a step", "error", err)
		return
	}

	updated, err := h.repo.SaveStep(r.Context(), stored, session)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.logger.Error("unable to update session in db", "error", err)
		return
	}

	sendJSONOrLog(w, h.logger, storedSessionDTO(updated, session))
}

func (h *SessionHandler) Solve(w http.ResponseWriter, r *http.Request) {
	stored, session, ok := h.load(w, r)
	if !ok {
		return
	}

	if session.Over() {
		w.WriteHeader(http.StatusConflict)
		sendJSONOrLog(w, h.logger, wrapError(mines.ErrSessionOver))
		return
	}

	if err := session.Solve(h.rnd); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.logger.Error("failed to run session to completion", "error", err)
		return
	}

	updated, err := h.repo.SaveStep(r.Context(), stored, session)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.logger.Error("unable to update session in db", "error", err)
		return
	}

	sendJSONOrLog(w, h.logger, storedSessionDTO(updated, session))
}
