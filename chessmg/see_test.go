package chessmg

import "testing"

func TestSEE(t *testing.T) {
	cases := []struct {
		name string
		fen  string
		uci  string
		want int
	}{
		{
			name: "undefended pawn",
			fen:  "k7/8/8/3p4/8/8/8/3R3K w - - 0 1",
			uci:  "d1d5",
			want: 100,
		},
		{
			name: "defended pawn loses the rook",
			fen:  "k7/8/4p3/3p4/8/8/8/3R3K w - - 0 1",
			uci:  "d1d5",
			want: -400,
		},
		{
			name: "pawn trade nets nothing",
			fen:  "k7/8/4p3/3p4/4P3/8/8/7K w - - 0 1",
			uci:  "e4d5",
			want: 0,
		},
		{
			name: "x-ray rook battery wins the pawn",
			fen:  "k7/3q4/8/3p4/8/8/3R4/3R3K w - - 0 1",
			uci:  "d2d5",
			want: 100,
		},
		{
			name: "knight takes defended knight",
			fen:  "k7/8/2p5/3n4/8/4N3/8/7K w - - 0 1",
			uci:  "e3d5",
			want: 0,
		},
		{
			name: "queen grabs a poisoned pawn",
			fen:  "k7/4r3/8/8/8/4p3/8/4Q2K w - - 0 1",
			uci:  "e1e3",
			want: -800,
		},
		{
			name: "en passant capture",
			fen:  "k7/8/8/3pP3/8/8/8/7K w - d6 0 2",
			uci:  "e5d6",
			want: 100,
		},
	}

	for _, tc := range cases {
		pos, err := FromFEN(tc.fen)
		if err != nil {
			t.Fatalf("%s: FromFEN: %v", tc.name, err)
		}
		m := pos.ParseUCI(tc.uci)
		if got := pos.SEE(m); got != tc.want {
			t.Errorf("%s: SEE(%s) = %d, want %d", tc.name, tc.uci, got, tc.want)
		}
	}
}

// The attacker order is cheapest first: with both a pawn and a rook able to
// recapture, the defender uses the pawn, keeping the exchange bad for the
// queen.
func TestSEEAttackerOrdering(t *testing.T) {
	pos, _ := FromFEN("k2r4/8/2p5/3p4/8/8/8/3Q3K w - - 0 1")
	m := pos.ParseUCI("d1d5")
	// Qxd5 cxd5: 100 - 900 = -800.
	if got := pos.SEE(m); got != -800 {
		t.Errorf("SEE(Qxd5) = %d, want -800", got)
	}
}
