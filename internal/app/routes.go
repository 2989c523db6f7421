package app

import (
	"hash/maphash"
	"math/rand/v2"

	"github.com/vancomm/minesweeper-agent/internal/handlers"
)

func createRand() *rand.Rand {
	return rand.New(rand.NewPCG(
		new(maphash.Hash).Sum64(), new(maphash.Hash).Sum64(),
	))
}

func (a *App) loadRoutes() {
	auth := handlers.NewAuth(a.logger, a.db, a.cookies, a.jwt)
	session := handlers.NewSessionHandler(
		a.logger, a.db, a.cookies, a.ws, createRand(),
	)
	records := handlers.NewRecords(a.logger, a.db)

	a.router.HandleFunc("GET /status", auth.Status)
	a.router.HandleFunc("POST /register", auth.Register)
	a.router.HandleFunc("POST /login", auth.Login)
	a.router.HandleFunc("POST /logout", auth.Logout)

	a.router.HandleFunc("POST /session", session.Create)
	a.router.HandleFunc("GET /session/{id}", session.Fetch)
	a.router.HandleFunc("POST /session/{id}/step", session.Step)
	a.router.HandleFunc("POST /session/{id}/solve", session.Solve)
	a.router.HandleFunc("/session/{id}/watch", session.Watch)

	a.router.HandleFunc("GET /records", records.List)
}
