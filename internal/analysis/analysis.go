// Package analysis searches many positions concurrently. Every job parses
// its own position and runs its own searcher, so nothing mutable is shared
// between goroutines.
package analysis

import (
	"context"
	"io"
	"log"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/engine"
)

// Report is the outcome for one input position.
type Report struct {
	Index     int // position in the input slice
	FEN       string
	Move      board.Move // NoMove when the side to move has no legal move
	Score     int        // search score, White's point of view
	Eval      int        // static evaluation of the root
	Nodes     uint64
	Checkmate bool
	Stalemate bool
	Elapsed   time.Duration
	Err       error // the position string could not be parsed
}

// Analyzer configures a batch run.
type Analyzer struct {
	Depth           int
	QuiescenceDepth int // zero selects engine.DefaultQuiescenceDepth
	Workers         int // zero selects runtime.NumCPU
	Rules           board.Rules
	Logger          *log.Logger // nil discards
}

// Run analyzes fens at depth with at most workers concurrent searches.
func Run(ctx context.Context, fens []string, depth, workers int) ([]Report, error) {
	a := &Analyzer{Depth: depth, Workers: workers}
	return a.Run(ctx, fens)
}

// Run analyzes every position and returns one report per input, in input
// order. A malformed position fails only its own report. The returned error
// is non-nil only when ctx is done before every job has started.
func (a *Analyzer) Run(ctx context.Context, fens []string) ([]Report, error) {
	workers := a.Workers
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	logger := a.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	reports := make([]Report, len(fens))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, fen := range fens {
		if gctx.Err() != nil {
			break
		}
		i, fen := i, fen
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			reports[i] = a.analyze(i, fen)
			r := &reports[i]
			if r.Err != nil {
				logger.Printf("[AI] position %d: %v", i+1, r.Err)
			} else {
				logger.Printf("[AI] position %d: %s score %s nodes %d in %v",
					i+1, r.Move, engine.ScoreToString(r.Score), r.Nodes, r.Elapsed.Round(time.Millisecond))
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return reports, err
	}
	return reports, ctx.Err()
}

func (a *Analyzer) analyze(i int, fen string) Report {
	r := Report{Index: i, FEN: fen, Move: board.NoMove}

	pos, err := board.ParseFEN(fen)
	if err != nil {
		r.Err = err
		return r
	}
	pos.Rules = a.Rules

	s := engine.NewSearcher()
	if a.QuiescenceDepth > 0 {
		s.QuiescenceDepth = a.QuiescenceDepth
	}

	start := time.Now()
	res := s.Search(pos, a.Depth)
	r.Elapsed = time.Since(start)

	r.Eval = engine.Evaluate(pos)
	r.Nodes = res.Nodes
	if res.Found {
		r.Move = res.Move
		r.Score = res.Score
		return r
	}
	if pos.InCheck() {
		r.Checkmate = true
		r.Score = engine.MateScore
		if pos.SideToMove == board.White {
			r.Score = -engine.MateScore
		}
	} else {
		r.Stalemate = true
	}
	return r
}
