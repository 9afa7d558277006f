package board

// Pre-computed attack tables for the non-sliding pieces.
var (
	knightAttacks [64]Bitboard
	kingAttacks   [64]Bitboard
	pawnAttacks   [2][64]Bitboard // [Color][Square]
)

// Direction is a square-index offset for one step along a ray.
type Direction int

const (
	dirNorth     Direction = 8
	dirSouth     Direction = -8
	dirEast      Direction = 1
	dirWest      Direction = -1
	dirNorthEast Direction = 9
	dirNorthWest Direction = 7
	dirSouthEast Direction = -7
	dirSouthWest Direction = -9
)

var (
	rookDirections   = []Direction{dirNorth, dirSouth, dirEast, dirWest}
	bishopDirections = []Direction{dirNorthEast, dirNorthWest, dirSouthEast, dirSouthWest}
	queenDirections  = []Direction{dirNorth, dirSouth, dirEast, dirWest, dirNorthEast, dirNorthWest, dirSouthEast, dirSouthWest}
)

// fileStep is the file delta a single step in d must produce.
func (d Direction) fileStep() int {
	switch d {
	case dirEast, dirNorthEast, dirSouthEast:
		return 1
	case dirWest, dirNorthWest, dirSouthWest:
		return -1
	default:
		return 0
	}
}

// step moves one square along d. It reports false at the board edge,
// including a horizontal or diagonal step that would wrap to the other side.
func step(sq Square, d Direction) (Square, bool) {
	to := int(sq) + int(d)
	if to < 0 || to > 63 {
		return NoSquare, false
	}
	if Square(to).File()-sq.File() != d.fileStep() {
		return NoSquare, false
	}
	return Square(to), true
}

func init() {
	for sq := A1; sq <= H8; sq++ {
		bb := SquareBB(sq)

		knightAttacks[sq] = (bb<<17)&NotFileA | (bb<<15)&NotFileH |
			(bb>>17)&NotFileH | (bb>>15)&NotFileA |
			(bb<<10)&NotFileAB | (bb<<6)&NotFileGH |
			(bb>>10)&NotFileGH | (bb>>6)&NotFileAB

		kingAttacks[sq] = bb.North() | bb.South() | bb.East() | bb.West() |
			bb.NorthEast() | bb.NorthWest() | bb.SouthEast() | bb.SouthWest()

		pawnAttacks[White][sq] = bb.NorthEast() | bb.NorthWest()
		pawnAttacks[Black][sq] = bb.SouthEast() | bb.SouthWest()
	}
}

// KnightAttacks returns the knight destination mask for sq.
func KnightAttacks(sq Square) Bitboard {
	return knightAttacks[sq]
}

// KingAttacks returns the king destination mask for sq.
func KingAttacks(sq Square) Bitboard {
	return kingAttacks[sq]
}

// PawnAttacks returns the squares a pawn of color c on sq attacks.
func PawnAttacks(sq Square, c Color) Bitboard {
	return pawnAttacks[c][sq]
}

// rayAttacks walks each direction from sq until the edge or the first
// occupied square, which is included.
func rayAttacks(sq Square, occupied Bitboard, dirs []Direction) Bitboard {
	var attacks Bitboard
	for _, d := range dirs {
		for to, ok := step(sq, d); ok; to, ok = step(to, d) {
			attacks |= SquareBB(to)
			if occupied.IsSet(to) {
				break
			}
		}
	}
	return attacks
}

// BishopAttacks returns the diagonal ray attacks from sq.
func BishopAttacks(sq Square, occupied Bitboard) Bitboard {
	return rayAttacks(sq, occupied, bishopDirections)
}

// RookAttacks returns the orthogonal ray attacks from sq.
func RookAttacks(sq Square, occupied Bitboard) Bitboard {
	return rayAttacks(sq, occupied, rookDirections)
}

// QueenAttacks returns the ray attacks in all eight directions from sq.
func QueenAttacks(sq Square, occupied Bitboard) Bitboard {
	return rayAttacks(sq, occupied, queenDirections)
}

// AttacksFrom returns every square a piece of type pt and color c on sq
// attacks, whether empty or occupied by either side.
func AttacksFrom(pt PieceType, c Color, sq Square, occupied Bitboard) Bitboard {
	switch pt {
	case Pawn:
		return pawnAttacks[c][sq]
	case Knight:
		return knightAttacks[sq]
	case Bishop:
		return BishopAttacks(sq, occupied)
	case Rook:
		return RookAttacks(sq, occupied)
	case Queen:
		return QueenAttacks(sq, occupied)
	case King:
		return kingAttacks[sq]
	default:
		return Empty
	}
}

// IsSquareAttacked reports whether any piece of color by attacks sq.
func (p *Position) IsSquareAttacked(sq Square, by Color) bool {
	if pawnAttacks[by.Other()][sq]&p.Pieces[by][Pawn] != 0 {
		return true
	}
	if knightAttacks[sq]&p.Pieces[by][Knight] != 0 {
		return true
	}
	if kingAttacks[sq]&p.Pieces[by][King] != 0 {
		return true
	}
	diagonal := p.Pieces[by][Bishop] | p.Pieces[by][Queen]
	if diagonal != 0 && BishopAttacks(sq, p.AllOccupied)&diagonal != 0 {
		return true
	}
	straight := p.Pieces[by][Rook] | p.Pieces[by][Queen]
	return straight != 0 && RookAttacks(sq, p.AllOccupied)&straight != 0
}
