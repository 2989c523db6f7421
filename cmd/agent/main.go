package main

import (
	"flag"
	"fmt"
	"hash/maphash"
	"math/rand/v2"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/snowzach/rotatefilehook"

	"github.com/vancomm/minesweeper-agent/internal/mines"
)

var log = logrus.New()

var (
	height    int
	width     int
	mineCount int
	games     int
	verbose   bool
	logFile   string
)

func init() {
	flag.IntVar(&height, "height", 16, "board height")
	flag.IntVar(&width, "width", 16, "board width")
	flag.IntVar(&mineCount, "mines", 40, "mines per board")
	flag.IntVar(&games, "games", 100, "number of boards to play")
	flag.BoolVar(&verbose, "v", false, "log every move")
	flag.StringVar(&logFile, "log-file", "", "append logs to a rotating file")
}

func setupLogging() {
	log.SetFormatter(&logrus.TextFormatter{ForceColors: true})
	if verbose {
		log.SetLevel(logrus.DebugLevel)
		mines.Log.SetLevel(logrus.DebugLevel)
	}
	mines.Log.SetOutput(log.Out)

	if logFile == "" {
		return
	}
	hook, err := rotatefilehook.NewRotateFileHook(rotatefilehook.RotateFileConfig{
		Filename:   logFile,
		MaxSize:    50,
		MaxBackups: 3,
		MaxAge:     28,
		Level:      log.GetLevel(),
		Formatter:  &logrus.JSONFormatter{},
	})
	if err != nil {
		log.Fatal("unable to create log file hook: ", err)
	}
	log.AddHook(hook)
	mines.Log.AddHook(hook)
}

type stats struct {
	won     int
	lost    int
	moves   int
	deduced int
	guessed int
}

func (s stats) report(games int) {
	winRate := float64(s.won) / float64(games) * 100
	log.WithFields(logrus.Fields{
		"games":    games,
		"won":      s.won,
		"lost":     s.lost,
		"win_rate": fmt.Sprintf("%.1f%%", winRate),
	}).Info("batch complete")
	if s.moves > 0 {
		log.WithFields(logrus.Fields{
			"moves":   s.moves,
			"deduced": s.deduced,
			"guessed": s.guessed,
			"deduced_share": fmt.Sprintf(
				"%.1f%%", float64(s.deduced)/float64(s.moves)*100,
			),
		}).Info("move breakdown")
	}
}

func main() {
	flag.Parse()
	setupLogging()

	params := mines.Params{Height: height, Width: width, MineCount: mineCount}
	if err := params.Validate(); err != nil {
		log.Fatal("invalid board parameters: ", err)
	}
	if games <= 0 {
		log.Fatal("games must be positive")
	}

	rnd := rand.New(rand.NewPCG(
		new(maphash.Hash).Sum64(), new(maphash.Hash).Sum64(),
	))

	log.WithFields(logrus.Fields{
		"height": height,
		"width":  width,
		"mines":  mineCount,
		"games":  games,
	}).Info("starting batch")

	var s stats
	for i := range games {
		session, err := mines.NewSession(params, rnd)
		if err != nil {
			log.Fatal("unable to create session: ", err)
		}
		if err := session.Solve(rnd); err != nil {
			log.Fatal("solver failed: ", err)
		}

		if session.Won {
			s.won++
		} else {
			s.lost++
		}
		s.moves += len(session.Moves)
		s.deduced += session.DeducedCount()
		s.guessed += session.GuessCount()

		log.WithFields(logrus.Fields{
			"game":    i + 1,
			"won":     session.Won,
			"moves":   len(session.Moves),
			"deduced": session.DeducedCount(),
			"guessed": session.GuessCount(),
		}).Debug("game finished")
	}

	s.report(games)

	if s.won == 0 {
		os.Exit(1)
	}
}
