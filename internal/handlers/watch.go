package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vancomm/minesweeper-agent/internal/mines"
)

// watchFrame is one streamed turn of an autoplayed session.
type watchFrame struct {
	Move    *mines.Move  `json:"move"`
	Deduced int          `json:"deduced"`
	Guessed int          `json:"guessed"`
	Dead    bool         `json:"dead"`
	Won     bool         `json:"won"`
	Mines   []mines.Cell `json:"mines"`
	Safes   []mines.Cell `json:"safes"`
}

const watchStepDelay = 200 * time.Millisecond

// Watch upgrades to a websocket and autoplays the session one step
// at a time, streaming a frame per move until the game ends or the
// client hangs up.
func (h *SessionHandler) Watch(w http.ResponseWriter, r *http.Request) {
	stored, session, ok := h.load(w, r)
	if !ok {
		return
	}

	c, err := h.ws.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("unable to upgrade", "error", err)
		return
	}
	defer c.Close()

	for !session.Over() {
		move, err := session.Step(h.rnd)
		if err != nil {
			h.logger.Error("failed to play a step", "error", err)
			break
		}

		frame := watchFrame{
			Move:    move,
			Deduced: session.DeducedCount(),
			Guessed: session.GuessCount(),
			Dead:    session.Dead,
			Won:     session.Won,
			Mines:   session.KB.Mines(),
			Safes:   session.KB.Safes(),
		}
		if err := c.WriteJSON(frame); err != nil {
			if !errors.Is(err, websocket.ErrCloseSent) {
				h.logger.Warn("abnormal ws break", "error", err)
			}
			break
		}

		time.Sleep(watchStepDelay)
	}

	if _, err := h.repo.SaveStep(r.Context(), stored, session); err != nil {
		h.logger.Error("unable to update session in db", "error", err)
	}

	c.WriteMessage(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
	)
}
