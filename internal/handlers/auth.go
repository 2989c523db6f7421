package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"github.com/vancomm/minesweeper-agent/internal/config"
	"github.com/vancomm/minesweeper-agent/internal/middleware"
	"github.com/vancomm/minesweeper-agent/internal/repository"
)

type Auth struct {
	logger  *slog.Logger
	repo    *repository.Queries
	cookies *config.Cookies
	jwt     *config.JWT
}

func NewAuth(
	logger *slog.Logger,
	db *pgxpool.Pool,
	cookies *config.Cookies,
	jwt *config.JWT,
) *Auth {
	return &Auth{
		logger:  logger,
		repo:    repository.New(db),
		cookies: cookies,
		jwt:     jwt,
	}
}

type PlayerInfo struct {
	PlayerId int64  `json:"player_id"`
	Username string `json:"username"`
}

type Status struct {
	LoggedIn bool        `json:"logged_in"`
	Player   *PlayerInfo `json:"player,omitempty"`
}

func (h *Auth) Status(w http.ResponseWriter, r *http.Request) {
	var status *Status
	claims, ok := middleware.PlayerClaims(r.Context())
	if ok {
		status = &Status{
			LoggedIn: true,
			Player:   &PlayerInfo{claims.PlayerId, claims.Username},
		}
	} else {
		status = &Status{LoggedIn: false}
		h.cookies.Clear(w)
	}
	sendJSONOrLog(w, h.logger, status)
}

var (
	ErrBadAuthBody        = fmt.Errorf("request body must contain url-encoded username and password")
	ErrBadPasswordTooLong = fmt.Errorf("password too long")
	ErrUsernameTaken      = fmt.Errorf("username taken")
)

// credentials pulls a url-encoded username/password pair out of the
// request body, enforcing bcrypt's 72 byte password cap.
func (h *Auth) credentials(w http.ResponseWriter, r *http.Request) (string, []byte, bool) {
	if err := r.ParseForm(); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return "", nil, false
	}

	username := r.FormValue("username")
	password := r.FormValue("password")
	if username == "" || password == "" {
		w.WriteHeader(http.StatusBadRequest)
		sendJSONOrLog(w, h.logger, wrapError(ErrBadAuthBody))
		return "", nil, false
	}

	passwordBytes := []byte(password)
	if len(passwordBytes) > 72 {
		w.WriteHeader(http.StatusBadRequest)
		sendJSONOrLog(w, h.logger, wrapError(ErrBadPasswordTooLong))
		return "", nil, false
	}

	return username, passwordBytes, true
}

func (h *Auth) login(w http.ResponseWriter, player *repository.Player) {
	claims := config.NewPlayerClaims(player.PlayerId, player.Username)
	token, err := h.jwt.Sign(claims)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.logger.Error("failed to sign player claims", "error", err)
		return
	}

	if err = h.cookies.Refresh(w, token); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.logger.Error("failed to set auth cookies", "error", err)
		return
	}

	sendMessageOrLog(w, h.logger, "ok")
}

func (h *Auth) Register(w http.ResponseWriter, r *http.Request) {
	username, password, ok := h.credentials(w, r)
	if !ok {
		return
	}

	hash, err := bcrypt.GenerateFromPassword(password, bcrypt.DefaultCost)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.logger.Error("unable to hash password", "error", err)
		return
	}

	player, err := h.repo.CreatePlayer(r.Context(), repository.CreatePlayerParams{
		Username:     username,
		PasswordHash: hash,
	})
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) &&
		pgerrcode.IsIntegrityConstraintViolation(pgErr.Code) {
		w.WriteHeader(http.StatusConflict)
		sendJSONOrLog(w, h.logger, wrapError(ErrUsernameTaken))
		return
	}
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.logger.Error("unable to insert player", "error", err)
		return
	}

	h.login(w, player)
}

func (h *Auth) Login(w http.ResponseWriter, r *http.Request) {
	username, password, ok := h.credentials(w, r)
	if !ok {
		return
	}

	player, err := h.repo.FetchPlayer(r.Context(), username)
	if errors.Is(err, pgx.ErrNoRows) {
		w.WriteHeader(http.StatusUnauthorized)
		h.logger.Debug("username not found")
		return
	}
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.logger.Error("could not fetch player from db", "error", err)
		return
	}

	err = bcrypt.CompareHashAndPassword(player.PasswordHash, password)
	if err != nil {
		w.WriteHeader(http.StatusUnauthorized)
		if !errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			h.logger.Error("bcrypt compare error", "error", err)
		}
		return
	}

	h.login(w, player)
}

func (h *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	h.cookies.Clear(w)
}
