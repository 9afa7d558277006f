// Package notation converts between coordinate moves and standard algebraic
// notation, and imports and exports games as PGN.
package notation

import (
	"errors"
	"fmt"
	"io"

	"github.com/notnil/chess"

	"github.com/hailam/chesscore/internal/board"
)

// ErrNotation is wrapped by every conversion failure.
var ErrNotation = errors.New("notation")

// Tag is one PGN tag pair.
type Tag struct {
	Key, Value string
}

// SAN returns m in standard algebraic notation ("Nf3", "exd6", "O-O",
// "e8=Q+"). The move must be legal in pos.
func SAN(pos *board.Position, m board.Move) (string, error) {
	line, err := SANLine(pos.ToFEN(), []string{m.String()})
	if err != nil {
		return "", err
	}
	return line[0], nil
}

// SANLine converts coordinate moves played from fen to algebraic notation.
func SANLine(fen string, moves []string) ([]string, error) {
	g, err := replay(fen, moves)
	if err != nil {
		return nil, err
	}
	positions := g.Positions()
	out := make([]string, len(moves))
	for i, m := range g.Moves() {
		out[i] = chess.AlgebraicNotation{}.Encode(positions[i], m)
	}
	return out, nil
}

// PGN renders the game played from fen as PGN text. A start position other
// than the standard one is recorded with SetUp and FEN tags.
func PGN(fen string, moves []string, tags ...Tag) (string, error) {
	g, err := replay(fen, moves)
	if err != nil {
		return "", err
	}
	for _, t := range tags {
		g.AddTagPair(t.Key, t.Value)
	}
	if fen != "" && fen != board.StartFEN {
		g.AddTagPair("SetUp", "1")
		g.AddTagPair("FEN", fen)
	}
	return g.String(), nil
}

// ParsePGN reads the first game from r and returns its start position and
// moves in coordinate notation.
func ParsePGN(r io.Reader) (fen string, moves []string, err error) {
	opt, err := chess.PGN(r)
	if err != nil {
		return "", nil, fmt.Errorf("%w: pgn: %v", ErrNotation, err)
	}
	g := chess.NewGame(opt)

	positions := g.Positions()
	for i, m := range g.Moves() {
		moves = append(moves, chess.UCINotation{}.Encode(positions[i], m))
	}
	return positions[0].String(), moves, nil
}

// replay builds a notnil game from fen and applies moves, which must be in
// coordinate notation.
func replay(fen string, moves []string) (*chess.Game, error) {
	if fen == "" {
		fen = board.StartFEN
	}
	opt, err := chess.FEN(fen)
	if err != nil {
		return nil, fmt.Errorf("%w: position %q: %v", ErrNotation, fen, err)
	}
	g := chess.NewGame(opt, chess.UseNotation(chess.UCINotation{}))
	for i, m := range moves {
		if err := g.MoveStr(m); err != nil {
			return nil, fmt.Errorf("%w: move %d (%s): %v", ErrNotation, i+1, m, err)
		}
	}
	return g, nil
}
