package board

import (
	"fmt"
	"strings"
)

// Move describes one ply. Moves are built by the generator; only the
// promotion target may be filled in afterwards (see WithPromotion).
type Move struct {
	From      Square
	To        Square
	Captured  Piece     // NoPiece for quiet moves
	Promote   bool      // pawn reaches the last rank
	Promotion PieceType // NoPieceType until a target is chosen
	Castling  bool      // two-square king move; the rook moves in MakeMove
	EnPassant bool      // captured pawn sits one rank behind To
}

// NoMove is the zero-information move returned when no move exists.
var NoMove = Move{From: NoSquare, To: NoSquare, Captured: NoPiece, Promotion: NoPieceType}

// newMove builds a plain (possibly capturing) move.
func newMove(from, to Square, captured Piece) Move {
	return Move{From: from, To: to, Captured: captured, Promotion: NoPieceType}
}

// IsNone reports whether m is NoMove.
func (m Move) IsNone() bool {
	return m.From == NoSquare
}

// IsCapture reports whether the move removes an enemy piece.
func (m Move) IsCapture() bool {
	return m.Captured != NoPiece
}

// WithPromotion returns a copy of m promoting to pt.
func (m Move) WithPromotion(pt PieceType) Move {
	m.Promotion = pt
	return m
}

// promotionType is the piece a promoting pawn becomes. A promotion with no
// chosen target becomes a queen.
func (m Move) promotionType() PieceType {
	if m.Promotion == NoPieceType {
		return Queen
	}
	return m.Promotion
}

// String returns coordinate notation such as "e2e4" or "e7e8q".
func (m Move) String() string {
	if m.IsNone() {
		return "0000"
	}
	s := m.From.String() + m.To.String()
	if m.Promote {
		s += string(m.promotionType().Char())
	}
	return s
}

// Describe returns a readable form listing every flag, e.g.
// "e5-f6 captures p (en passant)".
func (m Move) Describe() string {
	if m.IsNone() {
		return "none"
	}
	var sb strings.Builder
	sb.WriteString(m.From.String())
	sb.WriteByte('-')
	sb.WriteString(m.To.String())
	if m.IsCapture() {
		sb.WriteString(" captures ")
		sb.WriteString(m.Captured.String())
	}
	if m.Promote {
		sb.WriteString(" promotes to ")
		sb.WriteString(NewPiece(m.promotionType(), White).String())
	}
	if m.Castling {
		sb.WriteString(" (castling)")
	}
	if m.EnPassant {
		sb.WriteString(" (en passant)")
	}
	return sb.String()
}

// ParseMove resolves coordinate notation against the legal moves of pos.
// A promotion without a suffix resolves to the queen promotion.
func ParseMove(s string, pos *Position) (Move, error) {
	s = strings.TrimSpace(s)
	if len(s) != 4 && len(s) != 5 {
		return NoMove, fmt.Errorf("%w: %q", ErrIllegalMove, s)
	}

	from, err := ParseSquare(s[0:2])
	if err != nil {
		return NoMove, fmt.Errorf("%w: %v", ErrIllegalMove, err)
	}
	to, err := ParseSquare(s[2:4])
	if err != nil {
		return NoMove, fmt.Errorf("%w: %v", ErrIllegalMove, err)
	}

	promo := NoPieceType
	if len(s) == 5 {
		switch strings.ToLower(s[4:]) {
		case "q":
			promo = Queen
		case "r":
			promo = Rook
		case "b":
			promo = Bishop
		case "n":
			promo = Knight
		default:
			return NoMove, fmt.Errorf("%w: bad promotion piece in %q", ErrIllegalMove, s)
		}
	}

	for _, m := range pos.GenerateLegalMoves().Slice() {
		if m.From != from || m.To != to {
			continue
		}
		if !m.Promote {
			if promo != NoPieceType {
				continue
			}
			return m, nil
		}
		if m.promotionType() == promo || (promo == NoPieceType && m.Promotion == Queen) {
			return m, nil
		}
	}
	return NoMove, fmt.Errorf("%w: %s", ErrIllegalMove, s)
}

// MoveList is a fixed-size list of moves to avoid allocations.
type MoveList struct {
	moves [256]Move
	count int
}

// NewMoveList creates an empty move list.
func NewMoveList() *MoveList {
	return &MoveList{}
}

// Add appends a move.
func (ml *MoveList) Add(m Move) {
	ml.moves[ml.count] = m
	ml.count++
}

// Len returns the number of moves in the list.
func (ml *MoveList) Len() int {
	return ml.count
}

// Get returns the move at index i.
func (ml *MoveList) Get(i int) Move {
	return ml.moves[i]
}

// Swap exchanges the moves at indices i and j.
func (ml *MoveList) Swap(i, j int) {
	ml.moves[i], ml.moves[j] = ml.moves[j], ml.moves[i]
}

// Contains reports whether the list holds m.
func (ml *MoveList) Contains(m Move) bool {
	for i := 0; i < ml.count; i++ {
		if ml.moves[i] == m {
			return true
		}
	}
	return false
}

// Slice returns the moves as a slice backed by the list.
func (ml *MoveList) Slice() []Move {
	return ml.moves[:ml.count]
}

// SavedState holds the fields MakeMove changes that reversing the move
// cannot recover.
type SavedState struct {
	CastlingRights CastlingRights
	EnPassant      Square
	HalfMoveClock  int
}
