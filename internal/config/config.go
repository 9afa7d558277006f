// Package config holds engine and command-line settings.
package config

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/engine"
)

// ErrInvalidConfig is wrapped by every Validate failure.
var ErrInvalidConfig = errors.New("invalid config")

// Search depth limits accepted by Validate.
const (
	MinDepth = 1
	MaxDepth = 8

	MaxQuiescenceDepth = 16
)

// Config holds all program configuration.
type Config struct {
	Depth           int         // plies searched per engine move
	QuiescenceDepth int         // capture plies searched below Depth
	StrictCastling  bool        // forbid castling through check
	PlayerColor     board.Color // the human's side in interactive play
	DataDir         string      // storage directory; empty selects the default
	Workers         int         // concurrent searches in batch analysis
	Verbose         bool
}

// Default returns the settings used when nothing is configured. The depth
// matches the computer player of the desktop game.
func Default() Config {
	return Config{
		Depth:           3,
		QuiescenceDepth: engine.DefaultQuiescenceDepth,
		PlayerColor:     board.White,
		Workers:         runtime.NumCPU(),
	}
}

// Validate reports the first out-of-range setting.
func (c Config) Validate() error {
	if c.Depth < MinDepth || c.Depth > MaxDepth {
		return fmt.Errorf("%w: depth %d not in [%d, %d]", ErrInvalidConfig, c.Depth, MinDepth, MaxDepth)
	}
	if c.QuiescenceDepth < 0 || c.QuiescenceDepth > MaxQuiescenceDepth {
		return fmt.Errorf("%w: quiescence depth %d not in [0, %d]", ErrInvalidConfig, c.QuiescenceDepth, MaxQuiescenceDepth)
	}
	if c.PlayerColor != board.White && c.PlayerColor != board.Black {
		return fmt.Errorf("%w: player color %d", ErrInvalidConfig, c.PlayerColor)
	}
	if c.Workers < 1 {
		return fmt.Errorf("%w: workers %d, need at least 1", ErrInvalidConfig, c.Workers)
	}
	return nil
}

// Rules returns the board rule set selected by the config.
func (c Config) Rules() board.Rules {
	return board.Rules{StrictCastling: c.StrictCastling}
}

// EngineOptions returns engine settings for the config.
func (c Config) EngineOptions() engine.Options {
	return engine.Options{Depth: c.Depth, QuiescenceDepth: c.QuiescenceDepth}
}

// ParseColor parses "white"/"w" or "black"/"b".
func ParseColor(s string) (board.Color, error) {
	switch s {
	case "white", "w", "White":
		return board.White, nil
	case "black", "b", "Black":
		return board.Black, nil
	}
	return board.NoColor, fmt.Errorf("%w: color %q", ErrInvalidConfig, s)
}
