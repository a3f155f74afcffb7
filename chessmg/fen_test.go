package chessmg

import "testing"

func TestFENRoundTrip(t *testing.T) {
	fens := []string{
		StartposFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"rnbqkbnr/ppp1p1pp/8/3pPp2/8/8/PPPP1PPP/RNBQKBNR w KQkq f6 0 3",
		"8/8/8/8/8/8/4k3/4K3 w - - 0 1",
		"4k3/8/8/8/8/8/4P3/4K3 w - - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 b - - 12 34",
		"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8",
	}
	for _, fen := range fens {
		pos, err := FromFEN(fen)
		if err != nil {
			t.Fatalf("FromFEN(%q) failed: %v", fen, err)
		}
		if got := pos.FEN(); got != fen {
			t.Errorf("round trip: got %q want %q", got, fen)
		}
		back, err := FromFEN(pos.FEN())
		if err != nil {
			t.Fatalf("reparse of %q failed: %v", pos.FEN(), err)
		}
		if !pos.Equal(back) {
			t.Errorf("reparse of %q is not equal to the original", fen)
		}
	}
}

func TestFENWhitespaceTolerance(t *testing.T) {
	pos, err := FromFEN("  rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR   w  KQkq   -   0  1 ")
	if err != nil {
		t.Fatalf("whitespace-heavy FEN rejected: %v", err)
	}
	if pos.FEN() != StartposFEN {
		t.Fatalf("canonical emit: got %q", pos.FEN())
	}
}

func TestFENErrors(t *testing.T) {
	bad := []string{
		"",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP w KQkq - 0 1",      // 7 ranks
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR x KQkq -", // bad side
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w XQkq -", // bad castling
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq z9",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq e4 0 1", // ep rank
		"9/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
	}
	for _, fen := range bad {
		if _, err := FromFEN(fen); err == nil {
			t.Errorf("FromFEN(%q): expected error", fen)
		}
	}
}

func TestFromPieces(t *testing.T) {
	pos := FromPieces([]PlacedPiece{
		{WhiteKing, ParseSquare("e1")},
		{WhitePawn, ParseSquare("e2")},
		{BlackKing, ParseSquare("e8")},
	}, White)

	if pos.FEN() != "4k3/8/8/8/8/8/4P3/4K3 w - - 0 1" {
		t.Fatalf("FromPieces FEN: got %q", pos.FEN())
	}
	if pos.Hash() != pos.ComputeHash() {
		t.Fatalf("FromPieces hash out of sync")
	}
	if pos.PieceCount(WhitePawn) != 1 || pos.KingSquare(Black) != ParseSquare("e8") {
		t.Fatalf("FromPieces piece lists wrong")
	}
}

func TestStartposCounters(t *testing.T) {
	pos := NewPosition()
	if pos.PlyCounter() != 1 {
		t.Fatalf("ply counter: got %d want 1", pos.PlyCounter())
	}
	pos.DoMove(pos.ParseUCI("e2e4"))
	pos.DoMove(pos.ParseUCI("e7e5"))
	// No white pawn can capture to e6, so no en-passant square survives.
	if want := "rnbqkbnr/pppp1ppp/8/4p3/4P3/8/PPPP1PPP/RNBQKBNR w KQkq - 0 2"; pos.FEN() != want {
		t.Fatalf("after 1.e4 e5: got %q want %q", pos.FEN(), want)
	}
}

// A FEN carrying an en-passant square no pawn can capture to parses, but
// the square is normalized away; re-emitting yields the canonical form.
func TestFENEnpassantNormalization(t *testing.T) {
	pos, err := FromFEN("rnbqkbnr/pppp1ppp/8/4p3/4P3/8/PPPP1PPP/RNBQKBNR w KQkq e6 0 2")
	if err != nil {
		t.Fatal(err)
	}
	if pos.EnpassantSquare() != NoSquare {
		t.Fatalf("spurious en-passant square kept: %s", pos.EnpassantSquare())
	}
	if want := "rnbqkbnr/pppp1ppp/8/4p3/4P3/8/PPPP1PPP/RNBQKBNR w KQkq - 0 2"; pos.FEN() != want {
		t.Fatalf("canonical FEN: got %q want %q", pos.FEN(), want)
	}
}
