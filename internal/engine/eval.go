// Package engine implements the static evaluator and the alpha-beta search.
package engine

import (
	"golang.org/x/exp/constraints"

	"github.com/hailam/chesscore/internal/board"
)

// Evaluation constants
const (
	PawnValue   = 100
	KnightValue = 320
	BishopValue = 330
	RookValue   = 500
	QueenValue  = 900
)

// Piece values array for quick lookup
var pieceValues = [6]int{PawnValue, KnightValue, BishopValue, RookValue, QueenValue, 0}

// Game phase: 256 with all minor and major pieces on the board, 0 with none.
const (
	MaxPhase      = 256
	fullPhaseUnit = 24 // 4 minors + 4 rooks*2 + 2 queens*4
)

var phaseWeight = [6]int{0, 1, 1, 2, 4, 0}

// Pawn structure penalties
const (
	doubledPawnPenalty  = -50 // per extra pawn on a file
	isolatedPawnPenalty = -30
)

// Mobility weights per piece type
var mobilityWeight = [6]int{0, 4, 3, 2, 1, 0} // Pawn, Knight, Bishop, Rook, Queen, King

// King safety
const (
	shieldNearBonus      = 15 // pawn one rank in front of the king
	shieldFarBonus       = 5  // pawn two ranks in front
	openFileNearKing     = -25
	semiOpenFileNearKing = -15
)

// kingAttackPenalty is indexed by the number of enemy pieces bearing on the
// king's 3x3 zone, queens counting twice.
var kingAttackPenalty = [8]int{0, 20, 50, 90, 140, 200, 270, 350}

// Passed pawn bonuses by relative rank.
var passedPawnBonus = [8]int{0, 10, 20, 40, 60, 100, 150, 0}

// Piece bonuses
const (
	bishopPairBonus      = 50
	badBishopPenalty     = -8 // per own pawn on the bishop's square color
	rookOpenFileBonus    = 25
	rookSemiOpenBonus    = 12
	rookSeventhRankBonus = 20
)

// Piece-square tables, from White's point of view with a1 first: each row
// below is one rank, rank 1 at the top. Black looks up the mirrored square.

var pawnMgPST = [64]int{
	0, 0, 0, 0, 0, 0, 0, 0,
	5, 10, 10, -20, -20, 10, 10, 5,
	5, -5, -10, 0, 0, -10, -5, 5,
	0, 0, 0, 20, 20, 0, 0, 0,
	5, 5, 10, 25, 25, 10, 5, 5,
	10, 10, 20, 30, 30, 20, 10, 10,
	50, 50, 50, 50, 50, 50, 50, 50,
	0, 0, 0, 0, 0, 0, 0, 0,
}

// Endgame pawns are worth more the further they advance.
var pawnEgPST = [64]int{
	0, 0, 0, 0, 0, 0, 0, 0,
	5, 5, 5, 5, 5, 5, 5, 5,
	10, 10, 10, 10, 10, 10, 10, 10,
	20, 20, 20, 20, 20, 20, 20, 20,
	35, 35, 35, 35, 35, 35, 35, 35,
	60, 60, 60, 60, 60, 60, 60, 60,
	100, 100, 100, 100, 100, 100, 100, 100,
	0, 0, 0, 0, 0, 0, 0, 0,
}

var knightPST = [64]int{
	-50, -40, -30, -30, -30, -30, -40, -50,
	-40, -20, 0, 5, 5, 0, -20, -40,
	-30, 5, 10, 15, 15, 10, 5, -30,
	-30, 0, 15, 20, 20, 15, 0, -30,
	-30, 5, 15, 20, 20, 15, 5, -30,
	-30, 0, 10, 15, 15, 10, 0, -30,
	-40, -20, 0, 0, 0, 0, -20, -40,
	-50, -40, -30, -30, -30, -30, -40, -50,
}

var bishopPST = [64]int{
	-20, -10, -10, -10, -10, -10, -10, -20,
	-10, 5, 0, 0, 0, 0, 5, -10,
	-10, 10, 10, 10, 10, 10, 10, -10,
	-10, 0, 10, 10, 10, 10, 0, -10,
	-10, 5, 5, 10, 10, 5, 5, -10,
	-10, 0, 5, 10, 10, 5, 0, -10,
	-10, 0, 0, 0, 0, 0, 0, -10,
	-20, -10, -10, -10, -10, -10, -10, -20,
}

var rookPST = [64]int{
	0, 0, 0, 5, 5, 0, 0, 0,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	5, 10, 10, 10, 10, 10, 10, 5,
	0, 0, 0, 0, 0, 0, 0, 0,
}

var queenPST = [64]int{
	-20, -10, -10, -5, -5, -10, -10, -20,
	-10, 0, 5, 0, 0, 0, 0, -10,
	-10, 5, 5, 5, 5, 5, 0, -10,
	0, 0, 5, 5, 5, 5, 0, -5,
	-5, 0, 5, 5, 5, 5, 0, -5,
	-10, 0, 5, 5, 5, 5, 0, -10,
	-10, 0, 0, 0, 0, 0, 0, -10,
	-20, -10, -10, -5, -5, -10, -10, -20,
}

// King PST (middlegame) - encourages castling
var kingMgPST = [64]int{
	20, 30, 10, 0, 0, 10, 30, 20,
	20, 20, 0, 0, 0, 0, 20, 20,
	-10, -20, -20, -20, -20, -20, -20, -10,
	-20, -30, -30, -40, -40, -30, -30, -20,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
}

// King PST (endgame) - king should be active
var kingEgPST = [64]int{
	-50, -30, -30, -30, -30, -30, -30, -50,
	-30, -30, 0, 0, 0, 0, -30, -30,
	-30, -10, 20, 30, 30, 20, -10, -30,
	-30, -10, 30, 40, 40, 30, -10, -30,
	-30, -10, 30, 40, 40, 30, -10, -30,
	-30, -10, 20, 30, 30, 20, -10, -30,
	-30, -20, -10, 0, 0, -10, -20, -30,
	-50, -40, -30, -20, -20, -30, -40, -50,
}

// mgPST and egPST are indexed by piece type. Only pawns and kings differ
// between the two phases.
var (
	mgPST = [6]*[64]int{&pawnMgPST, &knightPST, &bishopPST, &rookPST, &queenPST, &kingMgPST}
	egPST = [6]*[64]int{&pawnEgPST, &knightPST, &bishopPST, &rookPST, &queenPST, &kingEgPST}
)

// Score is a middlegame/endgame pair of centipawn values.
type Score struct {
	MG, EG int
}

func (s *Score) add(mg, eg int) {
	s.MG += mg
	s.EG += eg
}

// Breakdown holds every evaluation term from White's point of view.
type Breakdown struct {
	Material      Score
	PieceSquare   Score
	PawnStructure Score
	Mobility      Score
	KingSafety    Score // middlegame only
	PassedPawns   Score // endgame only
	Pieces        Score // bishop pair, bad bishops, rooks
	Phase         int   // 0..MaxPhase
	Total         int
}

// Sum returns the untapered middlegame and endgame totals.
func (b *Breakdown) Sum() Score {
	var s Score
	for _, t := range []Score{b.Material, b.PieceSquare, b.PawnStructure, b.Mobility, b.KingSafety, b.PassedPawns, b.Pieces} {
		s.add(t.MG, t.EG)
	}
	return s
}

// Evaluate returns the static evaluation in centipawns. Positive favors
// White regardless of the side to move.
func Evaluate(pos *board.Position) int {
	b := Explain(pos)
	return b.Total
}

// Explain evaluates pos and returns each term separately.
func Explain(pos *board.Position) Breakdown {
	var b Breakdown

	b.Phase = gamePhase(pos)
	b.Material = evaluateMaterial(pos)
	b.PieceSquare = evaluatePieceSquares(pos)
	b.PawnStructure = evaluatePawnStructure(pos)
	b.Mobility = evaluateMobility(pos)
	b.KingSafety = Score{MG: evaluateKingSafety(pos)}
	b.PassedPawns = Score{EG: evaluatePassedPawns(pos)}
	b.Pieces = evaluatePieces(pos)

	s := b.Sum()
	b.Total = (s.MG*b.Phase + s.EG*(MaxPhase-b.Phase)) / MaxPhase
	return b
}

// clamp bounds v to [lo, hi].
func clamp[T constraints.Integer](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// gamePhase returns MaxPhase with full material and falls toward 0 as minor
// and major pieces come off.
func gamePhase(pos *board.Position) int {
	units := 0
	for c := board.White; c <= board.Black; c++ {
		for pt := board.Knight; pt <= board.Queen; pt++ {
			units += phaseWeight[pt] * pos.Pieces[c][pt].PopCount()
		}
	}
	units = clamp(units, 0, fullPhaseUnit)
	return units * MaxPhase / fullPhaseUnit
}

func colorSign(c board.Color) int {
	if c == board.White {
		return 1
	}
	return -1
}

// pstIndex maps sq to the table index for color c.
func pstIndex(sq board.Square, c board.Color) board.Square {
	if c == board.Black {
		return sq.Mirror()
	}
	return sq
}

func evaluateMaterial(pos *board.Position) Score {
	var s Score
	for c := board.White; c <= board.Black; c++ {
		sign := colorSign(c)
		for pt := board.Pawn; pt < board.King; pt++ {
			v := sign * pieceValues[pt] * pos.Pieces[c][pt].PopCount()
			s.add(v, v)
		}
	}
	return s
}

func evaluatePieceSquares(pos *board.Position) Score {
	var s Score
	for c := board.White; c <= board.Black; c++ {
		sign := colorSign(c)
		for pt := board.Pawn; pt <= board.King; pt++ {
			bb := pos.Pieces[c][pt]
			for bb != 0 {
				idx := pstIndex(bb.PopLSB(), c)
				s.add(sign*mgPST[pt][idx], sign*egPST[pt][idx])
			}
		}
	}
	return s
}

// adjacentFiles returns the files either side of file.
func adjacentFiles(file int) board.Bitboard {
	var mask board.Bitboard
	if file > 0 {
		mask |= board.FileMask[file-1]
	}
	if file < 7 {
		mask |= board.FileMask[file+1]
	}
	return mask
}

// evaluatePawnStructure penalizes doubled and isolated pawns.
func evaluatePawnStructure(pos *board.Position) Score {
	var score int
	for c := board.White; c <= board.Black; c++ {
		sign := colorSign(c)
		pawns := pos.Pieces[c][board.Pawn]

		for file := 0; file < 8; file++ {
			onFile := (pawns & board.FileMask[file]).PopCount()
			if onFile == 0 {
				continue
			}
			if onFile > 1 {
				score += sign * doubledPawnPenalty * (onFile - 1)
			}
			if pawns&adjacentFiles(file) == 0 {
				score += sign * isolatedPawnPenalty * onFile
			}
		}
	}
	return Score{score, score}
}

// evaluateMobility counts squares each piece attacks that are not held by
// its own side.
func evaluateMobility(pos *board.Position) Score {
	var score int
	occupied := pos.AllOccupied

	for c := board.White; c <= board.Black; c++ {
		sign := colorSign(c)
		own := pos.Occupied[c]
		for pt := board.Knight; pt <= board.Queen; pt++ {
			pieces := pos.Pieces[c][pt]
			for pieces != 0 {
				sq := pieces.PopLSB()
				count := (board.AttacksFrom(pt, c, sq, occupied) &^ own).PopCount()
				score += sign * mobilityWeight[pt] * count
			}
		}
	}
	return Score{score, score}
}

// evaluateKingSafety scores pawn shields, open files around the king and
// enemy pieces bearing on the king zone.
func evaluateKingSafety(pos *board.Position) int {
	var score int
	occupied := pos.AllOccupied

	for c := board.White; c <= board.Black; c++ {
		sign := colorSign(c)
		kingSq := pos.KingSquare(c)
		if kingSq == board.NoSquare {
			continue
		}
		kingFile := kingSq.File()
		enemy := c.Other()
		ownPawns := pos.Pieces[c][board.Pawn]
		enemyPawns := pos.Pieces[enemy][board.Pawn]

		// Pawn shield, only for a king tucked away on its home rank.
		if kingSq.RelativeRank(c) == 0 && (kingFile <= 2 || kingFile >= 5) {
			files := board.FileMask[kingFile] | adjacentFiles(kingFile)
			var near, far board.Bitboard
			if c == board.White {
				near = board.RankMask[1]
				far = board.RankMask[2]
			} else {
				near = board.RankMask[6]
				far = board.RankMask[5]
			}
			score += sign * shieldNearBonus * (ownPawns & files & near).PopCount()
			score += sign * shieldFarBonus * (ownPawns & files & far).PopCount()
		}

		for f := kingFile - 1; f <= kingFile+1; f++ {
			if f < 0 || f > 7 {
				continue
			}
			if ownPawns&board.FileMask[f] != 0 {
				continue
			}
			if enemyPawns&board.FileMask[f] == 0 {
				score += sign * openFileNearKing
			} else {
				score += sign * semiOpenFileNearKing
			}
		}

		zone := board.KingAttacks(kingSq) | board.SquareBB(kingSq)
		attackers := 0
		for pt := board.Knight; pt <= board.Queen; pt++ {
			pieces := pos.Pieces[enemy][pt]
			for pieces != 0 {
				sq := pieces.PopLSB()
				if board.AttacksFrom(pt, enemy, sq, occupied)&zone == 0 {
					continue
				}
				if pt == board.Queen {
					attackers += 2
				} else {
					attackers++
				}
			}
		}
		score -= sign * kingAttackPenalty[clamp(attackers, 0, len(kingAttackPenalty)-1)]
	}

	return score
}

// isPassedPawn reports whether no enemy pawn stands ahead of the pawn on
// its own or an adjacent file.
func isPassedPawn(pos *board.Position, sq board.Square, c board.Color) bool {
	files := board.FileMask[sq.File()] | adjacentFiles(sq.File())
	var front board.Bitboard
	if c == board.White {
		for r := sq.Rank() + 1; r < 8; r++ {
			front |= board.RankMask[r]
		}
	} else {
		for r := sq.Rank() - 1; r >= 0; r-- {
			front |= board.RankMask[r]
		}
	}
	return pos.Pieces[c.Other()][board.Pawn]&files&front == 0
}

func evaluatePassedPawns(pos *board.Position) int {
	var score int
	for c := board.White; c <= board.Black; c++ {
		sign := colorSign(c)
		pawns := pos.Pieces[c][board.Pawn]
		for pawns != 0 {
			sq := pawns.PopLSB()
			if isPassedPawn(pos, sq, c) {
				score += sign * passedPawnBonus[sq.RelativeRank(c)]
			}
		}
	}
	return score
}

// evaluatePieces covers the bishop pair, bad bishops and rook placement.
func evaluatePieces(pos *board.Position) Score {
	var score int
	for c := board.White; c <= board.Black; c++ {
		sign := colorSign(c)
		ownPawns := pos.Pieces[c][board.Pawn]
		enemyPawns := pos.Pieces[c.Other()][board.Pawn]

		bishops := pos.Pieces[c][board.Bishop]
		if bishops.PopCount() >= 2 {
			score += sign * bishopPairBonus
		}
		for bishops != 0 {
			sq := bishops.PopLSB()
			sameColor := board.DarkSquares
			if sq.IsLight() {
				sameColor = board.LightSquares
			}
			score += sign * badBishopPenalty * (ownPawns & sameColor).PopCount()
		}

		rooks := pos.Pieces[c][board.Rook]
		for rooks != 0 {
			sq := rooks.PopLSB()
			fileMask := board.FileMask[sq.File()]
			if ownPawns&fileMask == 0 {
				if enemyPawns&fileMask == 0 {
					score += sign * rookOpenFileBonus
				} else {
					score += sign * rookSemiOpenBonus
				}
			}
			if sq.RelativeRank(c) == 6 {
				score += sign * rookSeventhRankBonus
			}
		}
	}
	return Score{score, score}
}
