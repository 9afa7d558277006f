package board

import (
	"sort"
	"testing"
)

func TestCheckmate(t *testing.T) {
	// Back rank mate: black king boxed in by its own pawns.
	pos, err := ParseFEN("R6k/6pp/8/8/8/8/8/K7 b - - 0 1")
	if err != nil {
		t.Fatal("Error parsing FEN:", err)
	}

	t.Log(pos)
	if !pos.IsCheckmate() {
		t.Error("Expected checkmate but got false")
	}
	if pos.IsStalemate() {
		t.Error("Checkmate reported as stalemate")
	}
}

func TestNotCheckmate(t *testing.T) {
	// Black king can take the unprotected rook.
	pos, err := ParseFEN("6Rk/8/8/8/8/8/8/K7 b - - 0 1")
	if err != nil {
		t.Fatal("Error parsing FEN:", err)
	}

	if !pos.InCheck() {
		t.Error("Expected black to be in check")
	}
	if pos.IsCheckmate() {
		t.Error("Expected NOT checkmate but got true")
	}
}

func TestStalemate(t *testing.T) {
	pos, err := ParseFEN("7k/5Q2/6K1/8/8/8/8/8 b - - 0 1")
	if err != nil {
		t.Fatal("Error parsing FEN:", err)
	}

	if got := pos.GenerateLegalMoves().Len(); got != 0 {
		t.Errorf("stalemated side has %d legal moves", got)
	}
	if !pos.IsStalemate() {
		t.Error("Expected stalemate")
	}
	if pos.IsCheckmate() {
		t.Error("Stalemate reported as checkmate")
	}
}

func TestBackRankRookMate(t *testing.T) {
	pos, err := ParseFEN("6k1/5ppp/8/8/8/8/8/4R2K w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	m, err := ParseMove("e1e8", pos)
	if err != nil {
		t.Fatal(err)
	}
	pos.MakeMove(m)

	if n := pos.GenerateLegalMoves().Len(); n != 0 {
		t.Errorf("black has %d legal replies, want 0", n)
	}
	if !pos.KingInCheck(Black) {
		t.Error("black king should be in check")
	}
}

// Without pawns in front of it the king walks out of the rook check.
func TestBackRankRookCheckWithoutShield(t *testing.T) {
	pos, err := ParseFEN("6k1/8/8/8/8/8/8/4R2K w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	m, err := ParseMove("e1e8", pos)
	if err != nil {
		t.Fatal(err)
	}
	pos.MakeMove(m)

	if !pos.KingInCheck(Black) {
		t.Fatal("black king should be in check")
	}
	var got []string
	for _, reply := range pos.GenerateLegalMoves().Slice() {
		got = append(got, reply.String())
	}
	sort.Strings(got)
	want := []string{"g8f7", "g8g7", "g8h7"}
	if len(got) != len(want) {
		t.Fatalf("replies = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("replies = %v, want %v", got, want)
		}
	}
}
