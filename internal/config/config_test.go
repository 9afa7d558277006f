package config

import (
	"testing"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/testutil"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	testutil.AssertNoError(t, cfg.Validate())
	testutil.AssertEqual(t, cfg.Depth, 3)
	testutil.AssertEqual(t, cfg.QuiescenceDepth, 5)
	testutil.AssertEqual(t, cfg.PlayerColor, board.White)
	testutil.AssertFalse(t, cfg.StrictCastling)
	testutil.AssertTrue(t, cfg.Workers >= 1)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"depth zero", func(c *Config) { c.Depth = 0 }},
		{"depth too deep", func(c *Config) { c.Depth = MaxDepth + 1 }},
		{"negative quiescence", func(c *Config) { c.QuiescenceDepth = -1 }},
		{"quiescence too deep", func(c *Config) { c.QuiescenceDepth = MaxQuiescenceDepth + 1 }},
		{"no color", func(c *Config) { c.PlayerColor = board.NoColor }},
		{"no workers", func(c *Config) { c.Workers = 0 }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.modify(&cfg)
			testutil.AssertErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}

func TestDerivedSettings(t *testing.T) {
	cfg := Default()
	cfg.StrictCastling = true
	cfg.Depth = 4
	cfg.QuiescenceDepth = 2

	testutil.AssertEqual(t, cfg.Rules(), board.Rules{StrictCastling: true})
	opts := cfg.EngineOptions()
	testutil.AssertEqual(t, opts.Depth, 4)
	testutil.AssertEqual(t, opts.QuiescenceDepth, 2)
}

func TestParseColor(t *testing.T) {
	for in, want := range map[string]board.Color{"white": board.White, "w": board.White, "black": board.Black, "b": board.Black} {
		got, err := ParseColor(in)
		testutil.AssertNoError(t, err, in)
		testutil.AssertEqual(t, got, want, in)
	}
	_, err := ParseColor("red")
	testutil.AssertErrorIs(t, err, ErrInvalidConfig)
}
