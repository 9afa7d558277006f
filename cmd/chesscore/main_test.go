package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/config"
	"github.com/hailam/chesscore/internal/engine"
	"github.com/hailam/chesscore/internal/game"
	"github.com/hailam/chesscore/internal/storage"
	"github.com/hailam/chesscore/internal/testutil"
)

func newSession(t *testing.T, fen string, player board.Color) (*session, *bytes.Buffer) {
	t.Helper()
	store, err := storage.NewMemoryStorage(nil)
	testutil.AssertNoError(t, err)
	t.Cleanup(func() { store.Close() })

	cfg := config.Default()
	cfg.Depth = 2
	cfg.QuiescenceDepth = 1
	eng := engine.NewEngine(cfg.EngineOptions())

	g, err := game.New(game.Options{FEN: fen, PlayerColor: player, Engine: eng})
	testutil.AssertNoError(t, err)

	var out bytes.Buffer
	return &session{cfg: cfg, game: g, engine: eng, store: store, out: &out, start: time.Now()}, &out
}

func TestSessionPlayerMates(t *testing.T) {
	s, out := newSession(t, "6k1/5ppp/8/8/8/8/8/4R2K w - - 0 1", board.White)

	testutil.AssertNoError(t, s.run(strings.NewReader("moves\ne1e8\n")))
	testutil.AssertTrue(t, strings.Contains(out.String(), "checkmate: 1-0"), out.String())

	stats, err := s.store.LoadStats()
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, stats.Wins, 1)
	testutil.AssertEqual(t, stats.WinsByDepth, map[int]int{2: 1})
}

func TestSessionEngineMates(t *testing.T) {
	s, out := newSession(t, "6k1/5ppp/8/8/8/8/8/4R2K w - - 0 1", board.Black)

	testutil.AssertNoError(t, s.run(strings.NewReader("")))
	testutil.AssertTrue(t, strings.Contains(out.String(), "engine plays e1e8 (Re8#)"), out.String())

	stats, err := s.store.LoadStats()
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, stats.Losses, 1)
}

func TestSessionSuspendAndUndo(t *testing.T) {
	s, out := newSession(t, board.StartFEN, board.White)

	input := "e2e5\ne2e4\nundo\nd2d4\nquit\n"
	testutil.AssertNoError(t, s.run(strings.NewReader(input)))
	testutil.AssertTrue(t, strings.Contains(out.String(), "illegal move"), out.String())
	testutil.AssertTrue(t, strings.Contains(out.String(), "game saved"), out.String())

	saved, err := s.store.LoadGame()
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, saved.StartFEN, board.StartFEN)
	testutil.AssertEqual(t, len(saved.Moves), 2)
	testutil.AssertEqual(t, saved.Moves[0], "d2d4")
}

func TestSessionPGN(t *testing.T) {
	s, _ := newSession(t, board.StartFEN, board.Black)
	testutil.AssertNoError(t, s.game.PlayAll([]string{"e2e4", "e7e5"}))

	pgn, err := s.pgn()
	testutil.AssertNoError(t, err)
	testutil.AssertTrue(t, strings.Contains(pgn, `[White "chesscore"]`), pgn)
	testutil.AssertTrue(t, strings.Contains(pgn, `[Black "You"]`), pgn)
	testutil.AssertTrue(t, strings.Contains(pgn, "e4 e5"), pgn)
}

func TestReadPositions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "positions.txt")
	content := "# test set\n" + board.StartFEN + "\n\n  8/8/8/8/8/8/8/K6k w - - 0 1  \n"
	testutil.AssertNoError(t, os.WriteFile(path, []byte(content), 0644))

	fens, err := readPositions(path)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, fens, []string{board.StartFEN, "8/8/8/8/8/8/8/K6k w - - 0 1"})
}

func TestPrintDivide(t *testing.T) {
	var out bytes.Buffer
	printDivide(&out, board.NewPosition(), 2)
	testutil.AssertTrue(t, strings.Contains(out.String(), "e2e4: 20"), out.String())
	testutil.AssertTrue(t, strings.Contains(out.String(), "Nodes searched: 400"), out.String())
}

func TestPrintBestMoveNoMove(t *testing.T) {
	var out bytes.Buffer
	eng := engine.NewEngine(engine.Options{Depth: 1})
	printBestMove(&out, eng, board.MustParseFEN("7k/5Q2/6K1/8/8/8/8/8 b - - 0 1"))
	testutil.AssertEqual(t, out.String(), "bestmove 0000 (stalemate)\n")
}

func TestNewGameFromPGN(t *testing.T) {
	path := filepath.Join(t.TempDir(), "game.pgn")
	pgn := "[Event \"Casual\"]\n\n1. e4 e5 2. Nf3 Nc6 *\n"
	testutil.AssertNoError(t, os.WriteFile(path, []byte(pgn), 0644))

	old := *loadFlag
	*loadFlag = path
	t.Cleanup(func() { *loadFlag = old })

	s, _ := newSession(t, board.StartFEN, board.White)
	testutil.AssertNoError(t, s.newGame(nil))
	testutil.AssertEqual(t, s.game.MoveStrings(), []string{"e2e4", "e7e5", "g1f3", "b8c6"})
	testutil.AssertTrue(t, s.game.IsPlayerTurn())

	_, _, err := loadPGN(filepath.Join(t.TempDir(), "missing.pgn"))
	testutil.AssertTrue(t, err != nil)
}
