package board

import (
	"testing"

	"github.com/hailam/chesscore/internal/testutil"
)

func playMoves(t *testing.T, pos *Position, moves ...string) {
	t.Helper()
	for _, s := range moves {
		m, err := ParseMove(s, pos)
		if err != nil {
			t.Fatalf("move %s: %v", s, err)
		}
		pos.MakeMove(m)
	}
}

func TestEnPassantCapture(t *testing.T) {
	pos := NewPosition()
	playMoves(t, pos, "e2e4", "d7d5", "e4e5", "f7f5")
	testutil.AssertEqual(t, pos.EnPassant, F6, "en passant square after f7f5")

	want := Move{From: E5, To: F6, Captured: BlackPawn, Promotion: NoPieceType, EnPassant: true}
	testutil.AssertTrue(t, pos.GeneratePseudoLegalMoves().Contains(want), "pseudo-legal list holds e5xf6")
	testutil.AssertTrue(t, pos.GenerateLegalMoves().Contains(want), "legal list holds e5xf6")

	before := pos.Clone()
	saved := pos.MakeMove(want)
	testutil.AssertEqual(t, pos.PieceAt(F5), NoPiece, "captured pawn removed")
	testutil.AssertEqual(t, pos.PieceAt(F6), WhitePawn)
	testutil.AssertEqual(t, pos.PieceAt(E5), NoPiece)
	testutil.AssertEqual(t, pos.HalfMoveClock, 0)

	pos.UnmakeMove(want, saved)
	testutil.AssertEqual(t, pos, before)
}

func TestEnPassantExpiresAfterOnePly(t *testing.T) {
	pos := NewPosition()
	playMoves(t, pos, "e2e4", "d7d5", "e4e5", "f7f5", "g1f3")
	testutil.AssertEqual(t, pos.EnPassant, NoSquare)
	playMoves(t, pos, "a7a6")
	for _, m := range pos.GenerateLegalMoves().Slice() {
		if m.EnPassant {
			t.Errorf("stale en passant move %s", m.Describe())
		}
	}
}

func TestUnderpromotionEnumeration(t *testing.T) {
	pos, err := ParseFEN("8/4P3/8/8/8/8/k7/4K3 w - - 0 1")
	testutil.AssertNoError(t, err)

	var got []PieceType
	for _, m := range pos.GenerateLegalMoves().Slice() {
		if m.From == E7 && m.To == E8 {
			testutil.AssertTrue(t, m.Promote, "move to e8 is a promotion")
			got = append(got, m.Promotion)
		}
	}
	testutil.AssertEqual(t, got, []PieceType{Queen, Rook, Bishop, Knight})
}

func TestCapturePromotion(t *testing.T) {
	pos, err := ParseFEN("1n5k/P7/8/8/8/8/8/7K w - - 0 1")
	testutil.AssertNoError(t, err)

	captures := pos.GenerateLegalCaptures()
	testutil.AssertEqual(t, captures.Len(), 4, "a7xb8 with four promotion pieces")
	for _, m := range captures.Slice() {
		testutil.AssertEqual(t, m.Captured, BlackKnight)
		testutil.AssertTrue(t, m.Promote)
	}

	m := captures.Get(3) // knight
	saved := pos.MakeMove(m)
	testutil.AssertEqual(t, pos.PieceAt(B8), WhiteKnight)
	pos.UnmakeMove(m, saved)
	testutil.AssertEqual(t, pos.PieceAt(A7), WhitePawn)
	testutil.AssertEqual(t, pos.PieceAt(B8), BlackKnight)
}

func TestPawnCaptureDoesNotWrap(t *testing.T) {
	// A pawn on h4 must not "capture" onto a-file squares.
	pos, err := ParseFEN("4k3/8/8/p7/7P/8/8/4K3 w - - 0 1")
	testutil.AssertNoError(t, err)
	for _, m := range pos.GeneratePseudoLegalMoves().Slice() {
		if m.From == H4 && m.To != H5 {
			t.Errorf("unexpected pawn move %s", m.Describe())
		}
	}
}

func TestSliderRaysDoNotWrap(t *testing.T) {
	// Rook on h1 going east and bishop on a3 going west must stop at the edge.
	pos, err := ParseFEN("4k3/8/8/8/8/B7/8/4K2R w - - 0 1")
	testutil.AssertNoError(t, err)
	for _, m := range pos.GeneratePseudoLegalMoves().Slice() {
		switch m.From {
		case H1:
			if m.To.File() != 7 && m.To.Rank() != 0 {
				t.Errorf("rook left its lines: %s", m)
			}
		case A3:
			df := m.To.File() - m.From.File()
			dr := m.To.Rank() - m.From.Rank()
			if df != dr && df != -dr {
				t.Errorf("bishop left its diagonals: %s", m)
			}
		}
	}
}

func TestGenerationOrder(t *testing.T) {
	pos := NewPosition()
	moves := pos.GeneratePseudoLegalMoves().Slice()
	testutil.AssertEqual(t, len(moves), 20)
	for i := 0; i < 4; i++ {
		testutil.AssertEqual(t, pos.PieceAt(moves[i].From).Type(), Knight, "knight moves come first")
	}
	for _, m := range moves[4:] {
		testutil.AssertEqual(t, pos.PieceAt(m.From).Type(), Pawn)
	}
}

func TestCastlingPermissive(t *testing.T) {
	// The bishop on c4 covers f1. Permissive castling ignores attacks.
	pos, err := ParseFEN("4k3/8/8/8/2b5/8/8/R3K2R w KQ - 0 1")
	testutil.AssertNoError(t, err)

	kingSide := Move{From: E1, To: G1, Captured: NoPiece, Promotion: NoPieceType, Castling: true}
	queenSide := Move{From: E1, To: C1, Captured: NoPiece, Promotion: NoPieceType, Castling: true}
	testutil.AssertTrue(t, pos.GenerateLegalMoves().Contains(kingSide), "permissive castles through f1")
	testutil.AssertTrue(t, pos.GenerateLegalMoves().Contains(queenSide))

	pos.Rules.StrictCastling = true
	testutil.AssertFalse(t, pos.GenerateLegalMoves().Contains(kingSide), "strict refuses to cross f1")
	testutil.AssertTrue(t, pos.GenerateLegalMoves().Contains(queenSide))
}

func TestCastlingOutOfCheck(t *testing.T) {
	pos, err := ParseFEN("4k3/8/8/8/8/8/4r3/R3K2R w KQ - 0 1")
	testutil.AssertNoError(t, err)
	testutil.AssertTrue(t, pos.InCheck())

	// g1 and c1 are safe, so permissive mode castles out of check.
	var castles int
	for _, m := range pos.GenerateLegalMoves().Slice() {
		if m.Castling {
			castles++
		}
	}
	testutil.AssertEqual(t, castles, 2)

	pos.Rules.StrictCastling = true
	for _, m := range pos.GenerateLegalMoves().Slice() {
		if m.Castling {
			t.Errorf("strict mode castled out of check: %s", m)
		}
	}
}

func TestCastlingNeedsEmptyPath(t *testing.T) {
	pos, err := ParseFEN("4k3/8/8/8/8/8/8/RN2K1NR w KQ - 0 1")
	testutil.AssertNoError(t, err)
	for _, m := range pos.GenerateLegalMoves().Slice() {
		if m.Castling {
			t.Errorf("castled through a piece: %s", m)
		}
	}
}

func TestCastlingMovesRook(t *testing.T) {
	pos, err := ParseFEN("r3k2r/8/8/8/8/8/8/R3K2R b KQkq - 3 1")
	testutil.AssertNoError(t, err)
	before := pos.Clone()

	m, err := ParseMove("e8c8", pos)
	testutil.AssertNoError(t, err)
	testutil.AssertTrue(t, m.Castling)

	saved := pos.MakeMove(m)
	testutil.AssertEqual(t, pos.PieceAt(C8), BlackKing)
	testutil.AssertEqual(t, pos.PieceAt(D8), BlackRook)
	testutil.AssertEqual(t, pos.PieceAt(A8), NoPiece)
	testutil.AssertEqual(t, pos.CastlingRights, WhiteKingSideCastle|WhiteQueenSideCastle)
	testutil.AssertEqual(t, pos.HalfMoveClock, 4)

	pos.UnmakeMove(m, saved)
	testutil.AssertEqual(t, pos, before)
}

func TestCastlingRightsLostOnDeparture(t *testing.T) {
	tests := []struct {
		name  string
		moves []string
		want  CastlingRights
	}{
		{"king move", []string{"e1e2"}, BlackKingSideCastle | BlackQueenSideCastle},
		{"h-rook", []string{"h1h2"}, WhiteQueenSideCastle | BlackKingSideCastle | BlackQueenSideCastle},
		{"a-rook", []string{"a1a2"}, WhiteKingSideCastle | BlackKingSideCastle | BlackQueenSideCastle},
		{"black king", []string{"a1a2", "e8d8"}, WhiteKingSideCastle},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pos, err := ParseFEN("r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
			testutil.AssertNoError(t, err)
			playMoves(t, pos, tc.moves...)
			testutil.AssertEqual(t, pos.CastlingRights, tc.want)
		})
	}
}

func TestCastlingRightsOnRookCapture(t *testing.T) {
	const fen = "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1"

	// Permissive: taking the rook on a8 leaves black's right in place, but
	// the generator still refuses to castle with a missing rook.
	pos, err := ParseFEN(fen)
	testutil.AssertNoError(t, err)
	playMoves(t, pos, "a1a8")
	testutil.AssertTrue(t, pos.CastlingRights&BlackQueenSideCastle != 0)
	for _, m := range pos.GenerateLegalMoves().Slice() {
		if m.Castling && m.To == C8 {
			t.Errorf("castled with a captured rook: %s", m)
		}
	}

	pos, err = ParseFEN(fen)
	testutil.AssertNoError(t, err)
	pos.Rules.StrictCastling = true
	playMoves(t, pos, "a1a8")
	testutil.AssertEqual(t, pos.CastlingRights, WhiteKingSideCastle|BlackKingSideCastle)
}

func TestLegalMovesNeverLeaveKingInCheck(t *testing.T) {
	fens := []string{
		StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8",
	}
	for _, fen := range fens {
		pos, err := ParseFEN(fen)
		testutil.AssertNoError(t, err, fen)
		us := pos.SideToMove
		for _, m := range pos.GenerateLegalMoves().Slice() {
			saved := pos.MakeMove(m)
			if pos.KingInCheck(us) {
				t.Errorf("%s: %s leaves the mover in check", fen, m.Describe())
			}
			pos.UnmakeMove(m, saved)
		}
	}
}

func TestIsSquareAttackedMatchesKingInCheck(t *testing.T) {
	fens := []string{
		"4k3/8/8/8/8/8/4r3/4K3 w - - 0 1",
		"4k3/8/8/8/1b6/8/8/4K3 w - - 0 1",
		"4k3/8/8/8/8/3n4/8/4K3 w - - 0 1",
		"4k3/8/8/8/8/8/3p4/4K3 w - - 0 1",
		"4k3/8/8/8/8/8/8/R3K3 b - - 0 1",
		StartFEN,
	}
	for _, fen := range fens {
		pos, err := ParseFEN(fen)
		testutil.AssertNoError(t, err, fen)
		for c := White; c <= Black; c++ {
			testutil.AssertEqual(t, pos.IsSquareAttacked(pos.KingSquare(c), c.Other()), pos.KingInCheck(c), "%s %v", fen, c)
		}
	}
}
