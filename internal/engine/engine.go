package engine

import (
	"fmt"
	"io"
	"log"
	"time"

	"github.com/hailam/chesscore/internal/board"
)

// SearchInfo describes a finished search.
type SearchInfo struct {
	Depth int
	Score int
	Nodes uint64
	Time  time.Duration
	Move  board.Move
}

// Options configures an Engine.
type Options struct {
	Depth           int // plies searched by Search
	QuiescenceDepth int
	Logger          *log.Logger // nil discards
}

// Engine is the chess AI: a fixed-depth searcher plus reporting.
type Engine struct {
	depth    int
	searcher *Searcher
	logger   *log.Logger

	// OnInfo, when set, is called after every search.
	OnInfo func(SearchInfo)
}

// NewEngine creates an engine. Zero option values fall back to depth 3 and
// DefaultQuiescenceDepth.
func NewEngine(opts Options) *Engine {
	s := NewSearcher()
	if opts.QuiescenceDepth > 0 {
		s.QuiescenceDepth = opts.QuiescenceDepth
	}
	depth := opts.Depth
	if depth <= 0 {
		depth = 3
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Engine{depth: depth, searcher: s, logger: logger}
}

// Depth returns the configured search depth.
func (e *Engine) Depth() int {
	return e.depth
}

// SetDepth changes the search depth; values below 1 become 1.
func (e *Engine) SetDepth(depth int) {
	e.depth = clamp(depth, 1, MaxPly)
}

// Search finds the best move for pos at the configured depth.
func (e *Engine) Search(pos *board.Position) Result {
	return e.SearchDepth(pos, e.depth)
}

// SearchDepth finds the best move for pos at the given depth.
func (e *Engine) SearchDepth(pos *board.Position, depth int) Result {
	start := time.Now()
	res := e.searcher.Search(pos, depth)
	elapsed := time.Since(start)

	if res.Found {
		e.logger.Printf("[AI] depth %d: %s score %s nodes %d in %v",
			res.Depth, res.Move, ScoreToString(res.Score), res.Nodes, elapsed.Round(time.Millisecond))
	} else {
		e.logger.Printf("[AI] depth %d: no legal move", res.Depth)
	}

	if e.OnInfo != nil {
		e.OnInfo(SearchInfo{
			Depth: res.Depth,
			Score: res.Score,
			Nodes: res.Nodes,
			Time:  elapsed,
			Move:  res.Move,
		})
	}
	return res
}

// Perft performs a perft test (for debugging move generation).
func (e *Engine) Perft(pos *board.Position, depth int) uint64 {
	start := time.Now()
	nodes := pos.Perft(depth)
	e.logger.Printf("[AI] perft %d: %d nodes in %v", depth, nodes, time.Since(start).Round(time.Millisecond))
	return nodes
}

// Evaluate returns the static evaluation of a position.
func (e *Engine) Evaluate(pos *board.Position) int {
	return Evaluate(pos)
}

// IsMateScore reports whether score encodes a forced mate.
func IsMateScore(score int) bool {
	return score >= MateScore || score <= -MateScore
}

// ScoreToString renders a White-relative score as pawns ("+0.35") or as a
// mate announcement ("White mates", "Black mates").
func ScoreToString(score int) string {
	switch {
	case score >= MateScore:
		return "White mates"
	case score <= -MateScore:
		return "Black mates"
	}
	sign := "+"
	if score < 0 {
		sign = "-"
		score = -score
	}
	return fmt.Sprintf("%s%d.%02d", sign, score/100, score%100)
}
