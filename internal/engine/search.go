package engine

import (
	"github.com/hailam/chesscore/internal/board"
)

// Search constants
const (
	Infinity  = 30000
	MateScore = 29000
	MaxPly    = 128

	// DefaultQuiescenceDepth bounds the capture-only extension below the
	// nominal search depth.
	DefaultQuiescenceDepth = 5
)

// Result is the outcome of a fixed-depth search.
type Result struct {
	Move  board.Move
	Score int // White's point of view
	Depth int
	Nodes uint64
	Found bool // false when the root has no legal move
}

// Searcher runs minimax with alpha-beta pruning over one position it
// mutates in place. A Searcher is not safe for concurrent use; give each
// goroutine its own Searcher and its own position.
type Searcher struct {
	QuiescenceDepth int

	nodes uint64
}

// NewSearcher creates a searcher with the default quiescence depth.
func NewSearcher() *Searcher {
	return &Searcher{QuiescenceDepth: DefaultQuiescenceDepth}
}

// Nodes returns the number of nodes visited by the last search.
func (s *Searcher) Nodes() uint64 {
	return s.nodes
}

// FindBestMove searches pos to depth plies with a default searcher. It
// reports false if the side to move has no legal move; the caller tells
// checkmate from stalemate with KingInCheck.
func FindBestMove(pos *board.Position, depth int) (board.Move, bool) {
	r := NewSearcher().Search(pos, depth)
	return r.Move, r.Found
}

// Search picks the root move with the best minimax score for the side to
// move: highest for White, lowest for Black. Each root move is searched with
// a full window and only a strictly better score replaces the current best,
// so the first of several equal moves wins. Depths below 1 search 1 ply.
// The position is returned to its original state.
func (s *Searcher) Search(pos *board.Position, depth int) Result {
	depth = clamp(depth, 1, MaxPly)
	s.nodes = 0

	res := Result{Move: board.NoMove, Depth: depth}
	moves := pos.GenerateLegalMoves()
	if moves.Len() == 0 {
		return res
	}

	maximizing := pos.SideToMove == board.White
	best := Infinity
	if maximizing {
		best = -Infinity
	}

	for _, m := range moves.Slice() {
		saved := pos.MakeMove(m)
		score := s.minimax(pos, depth-1, -Infinity, Infinity)
		pos.UnmakeMove(m, saved)

		if (maximizing && score > best) || (!maximizing && score < best) {
			best = score
			res.Move = m
			res.Found = true
		}
	}

	res.Score = best
	res.Nodes = s.nodes
	return res
}

// minimax returns the score of pos from White's point of view. At depth 0
// it hands over to quiescence. Mates score MateScore plus the remaining
// depth, so a quicker mate is worth more.
func (s *Searcher) minimax(pos *board.Position, depth, alpha, beta int) int {
	s.nodes++
	if depth == 0 {
		return s.quiesce(pos, alpha, beta, s.QuiescenceDepth)
	}

	moves := pos.GenerateLegalMoves()
	if moves.Len() == 0 {
		if pos.KingInCheck(pos.SideToMove) {
			if pos.SideToMove == board.White {
				return -MateScore - depth
			}
			return MateScore + depth
		}
		return 0
	}

	scores := scoreMoves(pos, moves)
	if pos.SideToMove == board.White {
		best := -Infinity
		for i := 0; i < moves.Len(); i++ {
			PickMove(moves, scores, i)
			m := moves.Get(i)
			saved := pos.MakeMove(m)
			score := s.minimax(pos, depth-1, alpha, beta)
			pos.UnmakeMove(m, saved)

			best = max(best, score)
			alpha = max(alpha, score)
			if alpha >= beta {
				break
			}
		}
		return best
	}

	best := Infinity
	for i := 0; i < moves.Len(); i++ {
		PickMove(moves, scores, i)
		m := moves.Get(i)
		saved := pos.MakeMove(m)
		score := s.minimax(pos, depth-1, alpha, beta)
		pos.UnmakeMove(m, saved)

		best = min(best, score)
		beta = min(beta, score)
		if alpha >= beta {
			break
		}
	}
	return best
}

// quiesce searches captures only until the position is quiet or depth runs
// out, trying the most valuable victims first. White may stand pat on the
// static score as a floor and Black as a ceiling. The result always lies within
// [min(alpha, standPat), max(beta, standPat)].
func (s *Searcher) quiesce(pos *board.Position, alpha, beta, depth int) int {
	s.nodes++
	standPat := Evaluate(pos)
	if depth <= 0 {
		return standPat
	}

	if pos.SideToMove == board.White {
		if standPat >= beta {
			return beta
		}
		alpha = max(alpha, standPat)

		captures := pos.GenerateLegalCaptures()
		scores := scoreMoves(pos, captures)

		best := standPat
		for i := 0; i < captures.Len(); i++ {
			PickMove(captures, scores, i)
			m := captures.Get(i)
			saved := pos.MakeMove(m)
			score := s.quiesce(pos, alpha, beta, depth-1)
			pos.UnmakeMove(m, saved)

			best = max(best, score)
			alpha = max(alpha, score)
			if alpha >= beta {
				return beta
			}
		}
		return best
	}

	if standPat <= alpha {
		return alpha
	}
	beta = min(beta, standPat)

	captures := pos.GenerateLegalCaptures()
	scores := scoreMoves(pos, captures)
	best := standPat
	for i := 0; i < captures.Len(); i++ {
		PickMove(captures, scores, i)
		m := captures.Get(i)
		saved := pos.MakeMove(m)
		score := s.quiesce(pos, alpha, beta, depth-1)
		pos.UnmakeMove(m, saved)

		best = min(best, score)
		beta = min(beta, score)
		if alpha >= beta {
			return alpha
		}
	}
	return best
}
