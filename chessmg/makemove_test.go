package chessmg

import (
	"math/rand"
	"testing"
)

var exerciseFENs = []string{
	StartposFEN,
	"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
	"rnbqkbnr/ppp1p1pp/8/3pPp2/8/8/PPPP1PPP/RNBQKBNR w KQkq f6 0 3",
	"r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1",
	"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 0 1",
	"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
}

// Every do/undo pair must restore the position exactly, including the
// composed hash, the subkeyed FEN state and the half-move counter.
func TestDoUndoRestoresPosition(t *testing.T) {
	for _, fen := range exerciseFENs {
		pos, err := FromFEN(fen)
		if err != nil {
			t.Fatalf("FromFEN(%q) failed: %v", fen, err)
		}
		before := *pos
		beforeFEN := pos.FEN()

		var buf [MaxMoves]Move
		for _, m := range pos.GenerateMovesInto(buf[:]) {
			mi := pos.DoMove(m)
			pos.UndoMove(m, mi)

			if !pos.Equal(&before) {
				t.Fatalf("%q: do/undo of %s changed position:\n%s", fen, m, pos)
			}
			if got := pos.FEN(); got != beforeFEN {
				t.Fatalf("%q: do/undo of %s changed FEN to %q", fen, m, got)
			}
			if pos.HalfMoveCounter() != before.HalfMoveCounter() {
				t.Fatalf("%q: do/undo of %s changed half-move counter", fen, m)
			}
			if pos.Hash() != pos.ComputeHash() {
				t.Fatalf("%q: hash out of sync after do/undo of %s", fen, m)
			}
		}
	}
}

// The side that just moved must never be left in check.
func TestDoMoveNeverLeavesMoverInCheck(t *testing.T) {
	for _, fen := range exerciseFENs {
		pos, _ := FromFEN(fen)
		var buf [MaxMoves]Move
		for _, m := range pos.GenerateMovesInto(buf[:]) {
			mover := pos.SideToMove()
			mi := pos.DoMove(m)
			if pos.IsInCheck(mover) {
				t.Errorf("%q: %s leaves the mover in check", fen, m)
			}
			pos.UndoMove(m, mi)
		}
	}
}

// Random playouts keep the incremental hash identical to a from-scratch
// recomputation at every ply, and unwind back to the start exactly.
func TestRandomPlayoutHashConsistency(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for game := 0; game < 20; game++ {
		pos, _ := FromFEN(StartposFEN)
		start := *pos

		type undo struct {
			move Move
			info MoveInfo
		}
		var undos []undo

		for ply := 0; ply < 120; ply++ {
			var buf [MaxMoves]Move
			moves := pos.GenerateMovesInto(buf[:])
			if len(moves) == 0 {
				break
			}
			m := moves[rng.Intn(len(moves))]
			mi := pos.DoMove(m)
			undos = append(undos, undo{m, mi})

			if pos.Hash() != pos.ComputeHash() {
				t.Fatalf("game %d ply %d: incremental hash %016x != scratch %016x\n%s",
					game, ply, pos.Hash(), pos.ComputeHash(), pos)
			}
			if pos.PawnHash() != pawnHashScratch(pos) {
				t.Fatalf("game %d ply %d: pawn subkey out of sync", game, ply)
			}
		}

		for i := len(undos) - 1; i >= 0; i-- {
			pos.UndoMove(undos[i].move, undos[i].info)
		}
		if !pos.Equal(&start) {
			t.Fatalf("game %d: unwind did not restore the start position", game)
		}
	}
}

func pawnHashScratch(p *Position) uint64 {
	var key uint64
	for _, piece := range []Piece{WhitePawn, BlackPawn} {
		for i := 0; i < p.PieceCount(piece); i++ {
			key ^= hashPiece[piece][p.PiecePosition(piece, i)]
		}
	}
	return key
}

// Null moves flip the side, clear en passant and restore exactly.
func TestNullMoveRoundTrip(t *testing.T) {
	for _, fen := range exerciseFENs {
		pos, _ := FromFEN(fen)
		before := *pos

		mi := pos.DoNullMove()
		if pos.SideToMove() == before.SideToMove() {
			t.Fatalf("%q: null move did not flip the side", fen)
		}
		if pos.EnpassantSquare() != NoSquare {
			t.Fatalf("%q: null move kept the en-passant square", fen)
		}
		if pos.HalfMoveCounter() != before.HalfMoveCounter()+1 {
			t.Fatalf("%q: null move did not advance the half-move clock", fen)
		}
		pos.UndoNullMove(mi)

		if !pos.Equal(&before) || pos.HalfMoveCounter() != before.HalfMoveCounter() {
			t.Fatalf("%q: null move round trip changed the position", fen)
		}
		if pos.Hash() != pos.ComputeHash() {
			t.Fatalf("%q: hash out of sync after null round trip", fen)
		}
	}
}

// Half-move clock: reset on pawn moves and captures, incremented otherwise
// (castling included).
func TestHalfMoveClock(t *testing.T) {
	pos, _ := FromFEN("r3k2r/8/8/8/8/8/P7/R3K2R w KQkq - 7 20")

	castle := pos.ParseUCI("e1g1")
	mi := pos.DoMove(castle)
	if pos.HalfMoveCounter() != 8 {
		t.Fatalf("castling: half-move counter got %d want 8", pos.HalfMoveCounter())
	}
	pos.UndoMove(castle, mi)

	pawn := pos.ParseUCI("a2a4")
	pos.DoMove(pawn)
	if pos.HalfMoveCounter() != 0 {
		t.Fatalf("pawn move: half-move counter got %d want 0", pos.HalfMoveCounter())
	}
}
