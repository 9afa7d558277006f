package engine

import (
	"github.com/hailam/chesscore/internal/board"
)

// MVV-LVA (Most Valuable Victim - Least Valuable Attacker) scores
// Higher score = search first
// Score = victimValue * 10 - attackerValue
var mvvLva = [6][6]int{
	//       P    N    B    R    Q    K  (attacker)
	/* P */ {15, 14, 14, 13, 12, 11}, // Pawn victim
	/* N */ {25, 24, 24, 23, 22, 21}, // Knight victim
	/* B */ {35, 34, 34, 33, 32, 31}, // Bishop victim
	/* R */ {45, 44, 44, 43, 42, 41}, // Rook victim
	/* Q */ {55, 54, 54, 53, 52, 51}, // Queen victim
	/* K */ {0, 0, 0, 0, 0, 0},
}

// promotionScore puts queen promotions right after the best captures.
const promotionScore = 50

// scoreMoves rates each move for ordering: captures by MVV-LVA, queen
// promotions next, quiet moves last. Ordering only changes how much of the
// tree alpha-beta prunes, never the value it returns.
func scoreMoves(pos *board.Position, moves *board.MoveList) []int {
	scores := make([]int, moves.Len())
	for i, m := range moves.Slice() {
		if m.IsCapture() {
			attacker := pos.PieceAt(m.From).Type()
			scores[i] = mvvLva[m.Captured.Type()][attacker]
		}
		if m.Promote && m.Promotion == board.Queen {
			scores[i] += promotionScore
		}
	}
	return scores
}

// PickMove selects the best remaining move and moves it to position index.
// This allows lazy move sorting (only sort as much as needed).
func PickMove(moves *board.MoveList, scores []int, index int) {
	best := index
	for j := index + 1; j < moves.Len(); j++ {
		if scores[j] > scores[best] {
			best = j
		}
	}
	if best != index {
		moves.Swap(index, best)
		scores[index], scores[best] = scores[best], scores[index]
	}
}
