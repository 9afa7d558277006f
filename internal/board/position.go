package board

import (
	"log"
	"strings"
)

// DebugMoveValidation enables consistency logging in MakeMove and
// UnmakeMove. Off by default; meant for tests and debugging sessions.
var DebugMoveValidation = false

// CastlingRights represents the available castling options.
type CastlingRights uint8

const (
	WhiteKingSideCastle  CastlingRights = 1 << iota // K
	WhiteQueenSideCastle                            // Q
	BlackKingSideCastle                             // k
	BlackQueenSideCastle                            // q
	NoCastling           CastlingRights = 0
	AllCastling          CastlingRights = WhiteKingSideCastle | WhiteQueenSideCastle | BlackKingSideCastle | BlackQueenSideCastle
)

// String returns the castling field of a position string.
func (cr CastlingRights) String() string {
	if cr == NoCastling {
		return "-"
	}
	var sb strings.Builder
	if cr&WhiteKingSideCastle != 0 {
		sb.WriteByte('K')
	}
	if cr&WhiteQueenSideCastle != 0 {
		sb.WriteByte('Q')
	}
	if cr&BlackKingSideCastle != 0 {
		sb.WriteByte('k')
	}
	if cr&BlackQueenSideCastle != 0 {
		sb.WriteByte('q')
	}
	return sb.String()
}

// CanCastle reports whether c still holds the given right.
func (cr CastlingRights) CanCastle(c Color, kingSide bool) bool {
	return cr&castleRight(c, kingSide) != 0
}

func castleRight(c Color, kingSide bool) CastlingRights {
	if c == White {
		if kingSide {
			return WhiteKingSideCastle
		}
		return WhiteQueenSideCastle
	}
	if kingSide {
		return BlackKingSideCastle
	}
	return BlackQueenSideCastle
}

// castleMask[sq] is the set of rights lost when a move leaves sq.
var castleMask [64]CastlingRights

func init() {
	castleMask[E1] = WhiteKingSideCastle | WhiteQueenSideCastle
	castleMask[H1] = WhiteKingSideCastle
	castleMask[A1] = WhiteQueenSideCastle
	castleMask[E8] = BlackKingSideCastle | BlackQueenSideCastle
	castleMask[H8] = BlackKingSideCastle
	castleMask[A8] = BlackQueenSideCastle
}

// Rules selects rule variants that are not part of the position string.
type Rules struct {
	// StrictCastling forbids castling out of, through or into check and
	// revokes a right when the rook's home square is captured on. Without
	// it castling only needs the right and an empty path.
	StrictCastling bool
}

// Position represents a complete chess position.
type Position struct {
	// Piece bitboards: [Color][PieceType]
	Pieces [2][6]Bitboard

	// Occupancy bitboards, kept in step with Pieces
	Occupied    [2]Bitboard
	AllOccupied Bitboard

	SideToMove     Color
	CastlingRights CastlingRights
	EnPassant      Square // NoSquare if none
	HalfMoveClock  int

	Rules Rules
}

// NewPosition creates the starting position.
func NewPosition() *Position {
	pos, _ := ParseFEN(StartFEN)
	return pos
}

// Clone returns an independent copy of the position.
func (p *Position) Clone() *Position {
	c := *p
	return &c
}

// PieceAt returns the piece at the given square, or NoPiece if empty.
func (p *Position) PieceAt(sq Square) Piece {
	bb := SquareBB(sq)
	if p.AllOccupied&bb == 0 {
		return NoPiece
	}

	c := White
	if p.Occupied[Black]&bb != 0 {
		c = Black
	}
	for pt := Pawn; pt <= King; pt++ {
		if p.Pieces[c][pt]&bb != 0 {
			return NewPiece(pt, c)
		}
	}
	return NoPiece
}

// IsEmpty reports whether sq is empty.
func (p *Position) IsEmpty(sq Square) bool {
	return p.AllOccupied&SquareBB(sq) == 0
}

// KingSquare returns c's king square, or NoSquare if c has no king.
func (p *Position) KingSquare(c Color) Square {
	return p.Pieces[c][King].LSB()
}

func (p *Position) setPiece(piece Piece, sq Square) {
	if piece == NoPiece {
		return
	}
	c := piece.Color()
	bb := SquareBB(sq)
	p.Pieces[c][piece.Type()] |= bb
	p.Occupied[c] |= bb
	p.AllOccupied |= bb
}

func (p *Position) removePiece(sq Square) Piece {
	piece := p.PieceAt(sq)
	if piece == NoPiece {
		return NoPiece
	}
	c := piece.Color()
	bb := SquareBB(sq)
	p.Pieces[c][piece.Type()] &^= bb
	p.Occupied[c] &^= bb
	p.AllOccupied &^= bb
	return piece
}

func (p *Position) movePiece(from, to Square) {
	p.setPiece(p.removePiece(from), to)
}

// castlingRookSquares returns the rook's origin and destination for a
// castling king move ending on kingTo.
func castlingRookSquares(kingTo Square) (from, to Square) {
	switch kingTo {
	case G1:
		return H1, F1
	case C1:
		return A1, D1
	case G8:
		return H8, F8
	default: // C8
		return A8, D8
	}
}

// enPassantVictim returns the square of the pawn removed by an en passant
// capture landing on to, made by color c.
func enPassantVictim(to Square, c Color) Square {
	if c == White {
		return to - 8
	}
	return to + 8
}

// MakeMove applies m in place and returns the state needed to undo it.
// m must come from the current position's generator.
func (p *Position) MakeMove(m Move) SavedState {
	saved := SavedState{
		CastlingRights: p.CastlingRights,
		EnPassant:      p.EnPassant,
		HalfMoveClock:  p.HalfMoveClock,
	}
	us := p.SideToMove

	mover := p.removePiece(m.From)
	if DebugMoveValidation && (mover == NoPiece || mover.Color() != us) {
		log.Printf("MAKEMOVE: %v to move but %v stands on %v, move=%s", us, mover, m.From, m.Describe())
	}

	if m.IsCapture() {
		capSq := m.To
		if m.EnPassant {
			capSq = enPassantVictim(m.To, us)
		}
		victim := p.removePiece(capSq)
		if DebugMoveValidation && victim != m.Captured {
			log.Printf("MAKEMOVE: expected %v on %v, found %v, move=%s", m.Captured, capSq, victim, m.Describe())
		}
	}

	placed := mover
	if m.Promote {
		placed = NewPiece(m.promotionType(), us)
	}
	p.setPiece(placed, m.To)

	if m.Castling {
		rookFrom, rookTo := castlingRookSquares(m.To)
		p.movePiece(rookFrom, rookTo)
	}

	if mover.Type() == King {
		p.CastlingRights &^= castleRight(us, true) | castleRight(us, false)
	}
	p.CastlingRights &^= castleMask[m.From]
	if p.Rules.StrictCastling {
		p.CastlingRights &^= castleMask[m.To]
	}

	p.EnPassant = NoSquare
	if mover.Type() == Pawn && (m.To-m.From == 16 || m.From-m.To == 16) {
		p.EnPassant = (m.From + m.To) / 2
	}

	if m.IsCapture() || mover.Type() == Pawn {
		p.HalfMoveClock = 0
	} else {
		p.HalfMoveClock++
	}

	p.SideToMove = us.Other()
	return saved
}

// UnmakeMove reverts m. saved must be the value MakeMove returned for it,
// and moves must be unmade in reverse order of making.
func (p *Position) UnmakeMove(m Move, saved SavedState) {
	p.SideToMove = p.SideToMove.Other()
	us := p.SideToMove

	piece := p.removePiece(m.To)
	if m.Promote {
		piece = NewPiece(Pawn, us)
	}
	if DebugMoveValidation && (piece == NoPiece || piece.Color() != us) {
		log.Printf("UNMAKEMOVE: %v found on %v for %v to move, move=%s", piece, m.To, us, m.Describe())
	}
	p.setPiece(piece, m.From)

	if m.IsCapture() {
		capSq := m.To
		if m.EnPassant {
			capSq = enPassantVictim(m.To, us)
		}
		p.setPiece(m.Captured, capSq)
	}

	if m.Castling {
		rookFrom, rookTo := castlingRookSquares(m.To)
		p.movePiece(rookTo, rookFrom)
	}

	p.CastlingRights = saved.CastlingRights
	p.EnPassant = saved.EnPassant
	p.HalfMoveClock = saved.HalfMoveClock
}

// KingInCheck reports whether side's king is attacked. It generates the
// opponent's pseudo-legal moves and looks for one landing on the king. A
// side without a king is never in check.
func (p *Position) KingInCheck(side Color) bool {
	ksq := p.KingSquare(side)
	if !ksq.IsValid() {
		return false
	}

	stm := p.SideToMove
	p.SideToMove = side.Other()
	moves := p.GeneratePseudoLegalMoves()
	p.SideToMove = stm

	for _, m := range moves.Slice() {
		if m.To == ksq {
			return true
		}
	}
	return false
}

// InCheck reports whether the side to move is in check.
func (p *Position) InCheck() bool {
	return p.KingInCheck(p.SideToMove)
}

// Mirror returns the position with ranks flipped and colors swapped, so
// White's pieces become Black's and the other side moves.
func (p *Position) Mirror() *Position {
	m := &Position{
		SideToMove:    p.SideToMove.Other(),
		EnPassant:     NoSquare,
		HalfMoveClock: p.HalfMoveClock,
		Rules:         p.Rules,
	}
	for c := White; c <= Black; c++ {
		for pt := Pawn; pt <= King; pt++ {
			bb := p.Pieces[c][pt]
			for bb != 0 {
				m.setPiece(NewPiece(pt, c.Other()), bb.PopLSB().Mirror())
			}
		}
	}
	if p.EnPassant != NoSquare {
		m.EnPassant = p.EnPassant.Mirror()
	}
	cr := p.CastlingRights
	m.CastlingRights = (cr&(WhiteKingSideCastle|WhiteQueenSideCastle))<<2 |
		(cr&(BlackKingSideCastle|BlackQueenSideCastle))>>2
	return m
}

// Validate checks the board invariants: disjoint piece masks, occupancy
// caches in step, one king per side, no pawns on the back ranks and an en
// passant square on the correct rank.
func (p *Position) Validate() error {
	var seen Bitboard
	for c := White; c <= Black; c++ {
		var own Bitboard
		for pt := Pawn; pt <= King; pt++ {
			bb := p.Pieces[c][pt]
			if seen&bb != 0 {
				return positionError("placement", p.placement(), errOverlap)
			}
			seen |= bb
			own |= bb
		}
		if own != p.Occupied[c] {
			return positionError("placement", p.placement(), errOccupancy)
		}
		if n := p.Pieces[c][King].PopCount(); n != 1 {
			return positionError("placement", p.placement(), errKingCount)
		}
		if p.Pieces[c][Pawn]&(Rank1|Rank8) != 0 {
			return positionError("placement", p.placement(), errPawnRank)
		}
	}
	if seen != p.AllOccupied {
		return positionError("placement", p.placement(), errOccupancy)
	}

	if p.EnPassant != NoSquare {
		want := 5
		if p.SideToMove == Black {
			want = 2
		}
		if p.EnPassant.Rank() != want || !p.IsEmpty(p.EnPassant) {
			return positionError("en passant", p.EnPassant.String(), errEnPassantRank)
		}
	}
	if p.HalfMoveClock < 0 {
		return positionError("halfmove clock", "", errNegativeClock)
	}
	return nil
}

// String renders the board, rank 8 first.
func (p *Position) String() string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		sb.WriteByte(byte('1' + rank))
		sb.WriteByte(' ')
		for file := 0; file < 8; file++ {
			sb.WriteString(p.PieceAt(NewSquare(file, rank)).String())
			sb.WriteByte(' ')
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("  a b c d e f g h\n")
	return sb.String()
}
