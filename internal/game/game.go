// Package game drives a game between a human and the engine: it owns the
// live position, the move history and the end-of-game rules that sit
// outside move generation.
package game

import (
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/engine"
)

// Status is the state of the game after the last move.
type Status int

const (
	Ongoing Status = iota
	Checkmate
	Stalemate
	FiftyMoveDraw
	Repetition
)

func (s Status) String() string {
	switch s {
	case Ongoing:
		return "ongoing"
	case Checkmate:
		return "checkmate"
	case Stalemate:
		return "stalemate"
	case FiftyMoveDraw:
		return "draw by 50-move rule"
	case Repetition:
		return "draw by threefold repetition"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// IsOver reports whether the status ends the game.
func (s Status) IsOver() bool {
	return s != Ongoing
}

var (
	ErrGameOver      = errors.New("game is over")
	ErrEngineRunning = errors.New("engine is thinking")
	ErrNotEngineTurn = errors.New("not the engine's turn")
	ErrNothingToUndo = errors.New("no move to undo")
)

// Game is a single game. It is driven from one goroutine; the only work it
// hands to another goroutine is the engine search started by
// StartComputerMove, which runs on a private copy of the position.
type Game struct {
	startFEN    string
	position    *board.Position
	history     []board.Move
	undo        []board.SavedState
	hashes      []uint64
	playerColor board.Color
	engine      *engine.Engine
	logger      *log.Logger
	thinking    bool
}

// Options configures a new Game.
type Options struct {
	FEN         string // start position; empty selects the standard start
	Rules       board.Rules
	PlayerColor board.Color
	Engine      *engine.Engine // nil selects a depth 3 engine
	Logger      *log.Logger    // nil discards
}

// New creates a game from opts.
func New(opts Options) (*Game, error) {
	fen := opts.FEN
	if fen == "" {
		fen = board.StartFEN
	}
	pos, err := board.ParseFEN(fen)
	if err != nil {
		return nil, err
	}
	pos.Rules = opts.Rules

	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	eng := opts.Engine
	if eng == nil {
		eng = engine.NewEngine(engine.Options{Logger: logger})
	}

	return &Game{
		startFEN:    fen,
		position:    pos,
		hashes:      []uint64{pos.ComputeHash()},
		playerColor: opts.PlayerColor,
		engine:      eng,
		logger:      logger,
	}, nil
}

// StartFEN returns the position the game started from.
func (g *Game) StartFEN() string {
	return g.startFEN
}

// Position returns a copy of the current position.
func (g *Game) Position() *board.Position {
	return g.position.Clone()
}

// FEN returns the current position string.
func (g *Game) FEN() string {
	return g.position.ToFEN()
}

// SideToMove returns the side whose turn it is.
func (g *Game) SideToMove() board.Color {
	return g.position.SideToMove
}

// PlayerColor returns the color the human controls.
func (g *Game) PlayerColor() board.Color {
	return g.playerColor
}

// IsPlayerTurn reports whether the human is to move.
func (g *Game) IsPlayerTurn() bool {
	return g.position.SideToMove == g.playerColor
}

// IsThinking reports whether a computer move is pending.
func (g *Game) IsThinking() bool {
	return g.thinking
}

// Moves returns the moves played so far.
func (g *Game) Moves() []board.Move {
	return append([]board.Move(nil), g.history...)
}

// MoveStrings returns the moves played so far in coordinate notation.
func (g *Game) MoveStrings() []string {
	out := make([]string, len(g.history))
	for i, m := range g.history {
		out[i] = m.String()
	}
	return out
}

// LastMove returns the most recent move, or NoMove.
func (g *Game) LastMove() board.Move {
	if len(g.history) == 0 {
		return board.NoMove
	}
	return g.history[len(g.history)-1]
}

// LegalMoves returns the legal moves in the current position.
func (g *Game) LegalMoves() *board.MoveList {
	return g.position.GenerateLegalMoves()
}

// Status classifies the current position.
func (g *Game) Status() Status {
	if !g.position.HasLegalMoves() {
		if g.position.InCheck() {
			return Checkmate
		}
		return Stalemate
	}
	if g.isThreefoldRepetition() {
		return Repetition
	}
	if g.position.HalfMoveClock >= 100 {
		return FiftyMoveDraw
	}
	return Ongoing
}

// Result returns the PGN result string for the current status.
func (g *Game) Result() string {
	switch g.Status() {
	case Ongoing:
		return "*"
	case Checkmate:
		if g.position.SideToMove == board.White {
			return "0-1"
		}
		return "1-0"
	}
	return "1/2-1/2"
}

// isThreefoldRepetition checks if the current position has occurred 3 times.
func (g *Game) isThreefoldRepetition() bool {
	current := g.hashes[len(g.hashes)-1]
	count := 0
	for _, h := range g.hashes {
		if h == current {
			count++
		}
	}
	return count >= 3
}

// Play applies a move that must be legal in the current position.
func (g *Game) Play(m board.Move) error {
	if g.thinking {
		return ErrEngineRunning
	}
	return g.play(m)
}

func (g *Game) play(m board.Move) error {
	if g.Status().IsOver() {
		return ErrGameOver
	}
	if !g.position.GenerateLegalMoves().Contains(m) {
		return fmt.Errorf("%w: %s", board.ErrIllegalMove, m)
	}

	g.logger.Printf("[MOVE] %s plays %s", g.position.SideToMove, m.Describe())
	saved := g.position.MakeMove(m)
	g.history = append(g.history, m)
	g.undo = append(g.undo, saved)
	g.hashes = append(g.hashes, g.position.ComputeHash())

	if st := g.Status(); st.IsOver() {
		g.logger.Printf("[MOVE] game over: %s (%s)", st, g.Result())
	}
	return nil
}

// PlayUCI parses and plays a move in coordinate notation. A king move onto
// its own rook ("e1h1") is read as castling on that side.
func (g *Game) PlayUCI(s string) error {
	if g.thinking {
		return ErrEngineRunning
	}
	if g.Status().IsOver() {
		return ErrGameOver
	}
	m, err := board.ParseMove(castlingAlias(s, g.position), g.position)
	if err != nil {
		return err
	}
	return g.play(m)
}

// castlingAlias rewrites king-takes-own-rook input to the king's castling
// destination.
func castlingAlias(s string, pos *board.Position) string {
	aliases := map[string]string{"e1h1": "e1g1", "e1a1": "e1c1", "e8h8": "e8g8", "e8a8": "e8c8"}
	to, ok := aliases[s]
	if !ok {
		return s
	}
	from, _ := board.ParseSquare(s[:2])
	if pos.PieceAt(from).Type() != board.King {
		return s
	}
	return to
}

// PlayAll plays moves in coordinate notation, stopping at the first error.
func (g *Game) PlayAll(moves []string) error {
	for i, s := range moves {
		if err := g.PlayUCI(s); err != nil {
			return fmt.Errorf("move %d (%s): %w", i+1, s, err)
		}
	}
	return nil
}

// Undo takes back the last move.
func (g *Game) Undo() error {
	if g.thinking {
		return ErrEngineRunning
	}
	n := len(g.history)
	if n == 0 {
		return ErrNothingToUndo
	}
	m := g.history[n-1]
	g.position.UnmakeMove(m, g.undo[n-1])
	g.history = g.history[:n-1]
	g.undo = g.undo[:n-1]
	g.hashes = g.hashes[:len(g.hashes)-1]
	g.logger.Printf("[MOVE] took back %s", m)
	return nil
}

// StartComputerMove starts an engine search for the side to move. The
// search runs on a copy rebuilt from the position string, so the live
// position is never touched until the result is handed to ApplyComputerMove.
// The channel delivers exactly one move, NoMove if the engine has none.
func (g *Game) StartComputerMove() (<-chan board.Move, error) {
	if g.thinking {
		return nil, ErrEngineRunning
	}
	if g.IsPlayerTurn() {
		return nil, ErrNotEngineTurn
	}
	if g.Status().IsOver() {
		return nil, ErrGameOver
	}

	pos, err := board.ParseFEN(g.position.ToFEN())
	if err != nil {
		return nil, fmt.Errorf("copy position: %w", err)
	}
	pos.Rules = g.position.Rules

	g.logger.Printf("[AI] starting search for %s at depth %d", pos.SideToMove, g.engine.Depth())
	g.thinking = true

	ch := make(chan board.Move, 1)
	go func() {
		ch <- g.engine.Search(pos).Move
	}()
	return ch, nil
}

// ApplyComputerMove plays the move delivered by StartComputerMove.
func (g *Game) ApplyComputerMove(m board.Move) error {
	g.thinking = false
	if m.IsNone() {
		g.logger.Printf("[AI] no move: %s", g.Status())
		return ErrGameOver
	}
	g.logger.Printf("[AI] plays %s", m)
	return g.play(m)
}

// ComputerMove searches and plays synchronously.
func (g *Game) ComputerMove() (board.Move, error) {
	ch, err := g.StartComputerMove()
	if err != nil {
		return board.NoMove, err
	}
	m := <-ch
	return m, g.ApplyComputerMove(m)
}
