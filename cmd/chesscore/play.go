package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/config"
	"github.com/hailam/chesscore/internal/engine"
	"github.com/hailam/chesscore/internal/game"
	"github.com/hailam/chesscore/internal/notation"
	"github.com/hailam/chesscore/internal/storage"
)

const playHelp = `commands:
  <move>   play a move in coordinate notation (e2e4, e7e8q, e1g1)
  moves    list legal moves
  hint     ask the engine for a move
  undo     take back your last move
  eval     show the evaluation
  fen      show the position string
  pgn      show the game so far
  quit     save the game and exit`

// session is one interactive game on stdin/stdout.
type session struct {
	cfg    config.Config
	game   *game.Game
	engine *engine.Engine
	store  *storage.Storage
	out    io.Writer
	start  time.Time
}

func play(cfg config.Config, eng *engine.Engine, logger *log.Logger) error {
	store, err := storage.NewStorage(cfg.DataDir, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	err = store.SavePreferences(&storage.Preferences{
		Depth:           cfg.Depth,
		QuiescenceDepth: cfg.QuiescenceDepth,
		PlayerColor:     cfg.PlayerColor,
		StrictCastling:  cfg.StrictCastling,
	})
	if err != nil {
		log.Printf("[STORAGE] %v", err)
	}

	s := &session{cfg: cfg, engine: eng, store: store, out: os.Stdout, start: time.Now()}
	if err := s.newGame(logger); err != nil {
		return err
	}
	if first, _ := store.IsFirstLaunch(); first {
		fmt.Fprintln(s.out, playHelp)
		store.MarkFirstLaunchComplete()
	}
	return s.run(os.Stdin)
}

func (s *session) newGame(logger *log.Logger) error {
	opts := game.Options{
		FEN:         *fenFlag,
		Rules:       s.cfg.Rules(),
		PlayerColor: s.cfg.PlayerColor,
		Engine:      s.engine,
		Logger:      logger,
	}

	var moves []string
	if *loadFlag != "" {
		fen, pgnMoves, err := loadPGN(*loadFlag)
		if err != nil {
			return err
		}
		opts.FEN = fen
		moves = pgnMoves
	}
	if *resumeFlag {
		saved, err := s.store.LoadGame()
		switch {
		case errors.Is(err, storage.ErrNoSavedGame):
			fmt.Fprintln(s.out, "no saved game, starting a new one")
		case err != nil:
			return err
		default:
			opts.FEN = saved.StartFEN
			opts.PlayerColor = saved.PlayerColor
			moves = saved.Moves
		}
	}

	g, err := game.New(opts)
	if err != nil {
		return err
	}
	if err := g.PlayAll(moves); err != nil {
		return fmt.Errorf("resume: %w", err)
	}
	s.game = g
	return nil
}

// loadPGN reads the first game of a PGN file as a start position plus
// coordinate moves.
func loadPGN(path string) (string, []string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", nil, err
	}
	defer f.Close()
	return notation.ParsePGN(f)
}

func (s *session) run(in io.Reader) error {
	scanner := bufio.NewScanner(in)

	for {
		fmt.Fprintln(s.out, s.game.Position())
		if st := s.game.Status(); st.IsOver() {
			return s.finish(st)
		}

		if !s.game.IsPlayerTurn() {
			if err := s.computerMove(); err != nil {
				return err
			}
			continue
		}

		fmt.Fprintf(s.out, "%s to move> ", s.game.SideToMove())
		if !scanner.Scan() {
			return s.suspend()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		switch line {
		case "quit", "exit":
			return s.suspend()
		case "help":
			fmt.Fprintln(s.out, playHelp)
		case "moves":
			var ms []string
			for _, m := range s.game.LegalMoves().Slice() {
				ms = append(ms, m.String())
			}
			fmt.Fprintln(s.out, strings.Join(ms, " "))
		case "hint":
			pos := s.game.Position()
			res := s.engine.Search(pos)
			fmt.Fprintf(s.out, "hint: %s (%s)\n", res.Move, sanOrEmpty(pos, res.Move))
		case "undo":
			s.undo()
		case "eval":
			printEval(s.out, s.game.Position())
		case "fen":
			fmt.Fprintln(s.out, s.game.FEN())
		case "pgn":
			pgn, err := s.pgn()
			if err != nil {
				fmt.Fprintln(s.out, err)
				continue
			}
			fmt.Fprintln(s.out, pgn)
		default:
			if err := s.game.PlayUCI(line); err != nil {
				fmt.Fprintf(s.out, "%v (type help for commands)\n", err)
			}
		}
	}
}

func (s *session) computerMove() error {
	ch, err := s.game.StartComputerMove()
	if err != nil {
		return err
	}
	fmt.Fprintln(s.out, "thinking...")
	m := <-ch

	san := sanOrEmpty(s.game.Position(), m)
	if err := s.game.ApplyComputerMove(m); err != nil && !errors.Is(err, game.ErrGameOver) {
		return err
	}
	if !m.IsNone() {
		fmt.Fprintf(s.out, "engine plays %s (%s)\n", m, san)
	}
	return nil
}

// undo takes back moves until it is the player's turn again.
func (s *session) undo() {
	if err := s.game.Undo(); err != nil {
		fmt.Fprintln(s.out, err)
		return
	}
	if !s.game.IsPlayerTurn() {
		if err := s.game.Undo(); err != nil {
			fmt.Fprintln(s.out, err)
		}
	}
}

func (s *session) pgn() (string, error) {
	white, black := "You", "chesscore"
	if s.game.PlayerColor() == board.Black {
		white, black = black, white
	}
	return notation.PGN(s.game.StartFEN(), s.game.MoveStrings(),
		notation.Tag{Key: "Event", Value: "Casual game"},
		notation.Tag{Key: "Date", Value: s.start.Format("2006.01.02")},
		notation.Tag{Key: "White", Value: white},
		notation.Tag{Key: "Black", Value: black},
	)
}

// suspend stores the unfinished game so -resume can pick it up.
func (s *session) suspend() error {
	fmt.Fprintln(s.out)
	err := s.store.SaveGame(&storage.SavedGame{
		StartFEN:    s.game.StartFEN(),
		Moves:       s.game.MoveStrings(),
		PlayerColor: s.game.PlayerColor(),
	})
	if err != nil {
		return err
	}
	fmt.Fprintln(s.out, "game saved, continue with -resume")
	return nil
}

func (s *session) finish(st game.Status) error {
	fmt.Fprintf(s.out, "%s: %s\n", st, s.game.Result())

	won := st == game.Checkmate && s.game.SideToMove() != s.game.PlayerColor()
	err := s.store.RecordGame(storage.GameResult{
		Won:      won,
		Draw:     st != game.Checkmate,
		Depth:    s.cfg.Depth,
		Duration: time.Since(s.start),
	})
	if err != nil {
		return err
	}
	if err := s.store.ClearGame(); err != nil {
		return err
	}
	if stats, err := s.store.LoadStats(); err == nil {
		fmt.Fprintf(s.out, "games %d, won %d, lost %d, drawn %d (%.0f%%)\n",
			stats.GamesPlayed, stats.Wins, stats.Losses, stats.Draws, stats.WinRate())
	}

	if *pgnFlag == "" {
		return nil
	}
	pgn, err := s.pgn()
	if err != nil {
		return err
	}
	return os.WriteFile(*pgnFlag, []byte(pgn+"\n"), 0644)
}
