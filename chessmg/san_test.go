package chessmg

import "testing"

func TestUCIRoundTrip(t *testing.T) {
	for _, fen := range exerciseFENs {
		pos, _ := FromFEN(fen)
		var buf [MaxMoves]Move
		for _, m := range pos.GenerateMovesInto(buf[:]) {
			parsed := pos.ParseUCI(pos.UCI(m))
			if parsed != m {
				t.Errorf("%q: ParseUCI(UCI(%s)) = %s", fen, m, parsed)
			}
		}
	}
}

func TestParseUCIRejectsGarbage(t *testing.T) {
	pos := NewPosition()
	for _, bad := range []string{"", "e2", "e2e9", "i2i4", "e2e4x", "e7e8k"} {
		if pos.ParseUCI(bad) != NoMove {
			t.Errorf("ParseUCI(%q) accepted", bad)
		}
	}
}

func TestSANGeneration(t *testing.T) {
	cases := []struct {
		fen string
		uci string
		san string
	}{
		{StartposFEN, "e2e4", "e4"},
		{StartposFEN, "g1f3", "Nf3"},
		{"r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", "e1g1", "O-O"},
		{"r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", "e1c1", "O-O-O"},
		// File disambiguation between the b1 and d1 knights.
		{"4k3/8/8/8/8/8/8/1N1NK3 w - - 0 1", "b1c3", "Nbc3"},
		// Capture marks, pawn captures carry the origin file.
		{"4k3/8/3p4/4P3/8/8/8/4K3 w - - 0 1", "e5d6", "exd6"},
		// En-passant capture.
		{"rnbqkbnr/ppp1p1pp/8/3pPp2/8/8/PPPP1PPP/RNBQKBNR w KQkq f6 0 3", "e5f6", "exf6"},
		// Promotion with capture and check marker handling below.
		{"1n5k/P7/8/8/8/8/8/7K w - - 0 1", "a7a8q", "a8=Q"},
		{"1n5k/P7/8/8/8/8/8/7K w - - 0 1", "a7b8r", "axb8=R+"},
	}
	for _, tc := range cases {
		pos, err := FromFEN(tc.fen)
		if err != nil {
			t.Fatalf("FromFEN(%q): %v", tc.fen, err)
		}
		m := pos.ParseUCI(tc.uci)
		if got := pos.SAN(m); got != tc.san {
			t.Errorf("%q SAN(%s): got %q want %q", tc.fen, tc.uci, got, tc.san)
		}
	}
}

func TestSANCheckSuffixes(t *testing.T) {
	pos, _ := FromFEN("4k3/8/8/8/8/8/8/R3K3 w - - 0 1")
	m := pos.ParseUCI("a1a8")
	if got := pos.SAN(m); got != "Ra8+" {
		t.Errorf("check suffix: got %q want %q", got, "Ra8+")
	}

	mate, _ := FromFEN("6k1/5ppp/8/8/8/8/8/4R1K1 w - - 0 1")
	m2 := mate.ParseUCI("e1e8")
	if got := mate.SAN(m2); got != "Re8#" {
		t.Errorf("mate suffix: got %q want %q", got, "Re8#")
	}
}

func TestParseSAN(t *testing.T) {
	pos := NewPosition()
	if pos.ParseSAN("e4") != pos.ParseUCI("e2e4") {
		t.Error("ParseSAN(e4)")
	}
	if pos.ParseSAN("Nf3") != pos.ParseUCI("g1f3") {
		t.Error("ParseSAN(Nf3)")
	}
	if pos.ParseSAN("Nxe4") != NoMove {
		t.Error("impossible SAN accepted")
	}
	if pos.ParseSAN("garbage!") != NoMove {
		t.Error("garbage SAN accepted")
	}

	castle, _ := FromFEN("r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
	if castle.ParseSAN("O-O") != NewCastlingMove(KingCastling) {
		t.Error("ParseSAN(O-O)")
	}
	if castle.ParseSAN("0-0-0") != NewCastlingMove(QueenCastling) {
		t.Error("ParseSAN(0-0-0)")
	}

	// Ambiguous without disambiguation, unique with it.
	knights, _ := FromFEN("4k3/8/8/8/8/8/8/1N1NK3 w - - 0 1")
	if knights.ParseSAN("Nc3") != NoMove {
		t.Error("ambiguous SAN must be rejected")
	}
	if knights.ParseSAN("Nbc3") != knights.ParseUCI("b1c3") {
		t.Error("ParseSAN(Nbc3)")
	}
}

// SAN round-trips through the parser for every legal move of a busy
// position.
func TestSANRoundTrip(t *testing.T) {
	pos, _ := FromFEN("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	var buf [MaxMoves]Move
	for _, m := range pos.GenerateMovesInto(buf[:]) {
		san := pos.SAN(m)
		if parsed := pos.ParseSAN(san); parsed != m {
			t.Errorf("ParseSAN(SAN(%s)=%q) = %s", pos.UCI(m), san, pos.UCI(parsed))
		}
	}
}
