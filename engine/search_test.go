package engine

import (
	"strings"
	"testing"
	"time"

	"github.com/adajed/chess-engine/chessmg"
)

// collectLogger records protocol lines for assertions.
type collectLogger struct {
	lines []string
}

func (l *collectLogger) Println(line string) { l.lines = append(l.lines, line) }

func (l *collectLogger) bestmove() string {
	for i := len(l.lines) - 1; i >= 0; i-- {
		if strings.HasPrefix(l.lines[i], "bestmove ") {
			return strings.TrimPrefix(l.lines[i], "bestmove ")
		}
	}
	return ""
}

func runSearch(t *testing.T, fen string, limits Limits) (chessmg.Move, *collectLogger) {
	t.Helper()
	pos, err := chessmg.FromFEN(fen)
	if err != nil {
		t.Fatalf("FromFEN(%q): %v", fen, err)
	}
	logger := &collectLogger{}
	s := NewSearch(pos, MaterialScorer{}, limits, logger)
	return s.Go(), logger
}

func TestSearchDepth1ReturnsLegalMove(t *testing.T) {
	best, logger := runSearch(t, chessmg.StartposFEN, Limits{Depth: 1})
	if best == chessmg.NoMove {
		t.Fatal("no best move")
	}

	pos := chessmg.NewPosition()
	var buf [chessmg.MaxMoves]chessmg.Move
	legal := pos.GenerateMovesInto(buf[:])
	found := false
	for _, m := range legal {
		if m == best {
			found = true
		}
	}
	if !found {
		t.Fatalf("best move %s is not one of the %d legal moves", pos.UCI(best), len(legal))
	}
	if logger.bestmove() != pos.UCI(best) {
		t.Fatalf("bestmove line %q does not match returned move %s", logger.bestmove(), pos.UCI(best))
	}
	if len(logger.lines) < 2 || !strings.HasPrefix(logger.lines[0], "info depth 1 ") {
		t.Fatalf("missing info line, got %v", logger.lines)
	}
}

func TestSearchFindsBackRankMate(t *testing.T) {
	best, logger := runSearch(t, "6k1/5ppp/8/8/8/8/8/4R1K1 w - - 0 1", Limits{Depth: 3})
	pos, _ := chessmg.FromFEN("6k1/5ppp/8/8/8/8/8/4R1K1 w - - 0 1")
	if got := pos.UCI(best); got != "e1e8" {
		t.Fatalf("best move: got %s want e1e8", got)
	}
	mateSeen := false
	for _, line := range logger.lines {
		if strings.Contains(line, "score mate ") {
			mateSeen = true
		}
	}
	if !mateSeen {
		t.Fatalf("no mate score reported: %v", logger.lines)
	}
}

func TestSearchAvoidsHangingQueen(t *testing.T) {
	// The queen is attacked by the pawn; quiescence must see the capture.
	best, _ := runSearch(t, "k7/8/8/3p4/2Q5/8/8/7K w - - 0 1", Limits{Depth: 2})
	pos, _ := chessmg.FromFEN("k7/8/8/3p4/2Q5/8/8/7K w - - 0 1")
	pos.DoMove(best)
	if pos.IsInCheck(pos.SideToMove()) {
		return // capturing with check is fine too
	}
	// Wherever the queen went, it must not be en prise to the pawn.
	if pos.PieceCount(chessmg.WhiteQueen) == 1 && pos.PieceCount(chessmg.BlackPawn) == 1 {
		qsq := pos.PiecePosition(chessmg.WhiteQueen, 0)
		psq := pos.PiecePosition(chessmg.BlackPawn, 0)
		if chessmg.PawnAttacks(chessmg.Black, psq)&chessmg.SquareBB(qsq) != 0 {
			t.Fatalf("queen left en prise on %s", qsq)
		}
	}
}

func TestSearchRespectsNodeLimit(t *testing.T) {
	pos := chessmg.NewPosition()
	logger := &collectLogger{}
	s := NewSearch(pos, MaterialScorer{}, Limits{Depth: 30, Nodes: 20000}, logger)
	s.Go()
	// The limit is polled every 4096 nodes and the unwinding after the stop
	// still counts nodes, so allow two intervals of slack.
	if s.Nodes() > 20000+2*limitCheckInterval {
		t.Fatalf("node limit ignored: searched %d nodes", s.Nodes())
	}
	if logger.bestmove() == "" {
		t.Fatal("bestmove must still be reported after a node-limit stop")
	}
}

func TestSearchStopFlag(t *testing.T) {
	pos := chessmg.NewPosition()
	logger := &collectLogger{}
	s := NewSearch(pos, MaterialScorer{}, Limits{Infinite: true}, logger)

	done := make(chan chessmg.Move, 1)
	go func() { done <- s.Go() }()
	time.Sleep(50 * time.Millisecond)
	s.Stop()

	select {
	case best := <-done:
		if best == chessmg.NoMove {
			t.Fatal("stopped search returned no move")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("search did not stop")
	}
	if logger.bestmove() == "" {
		t.Fatal("stopped search must report bestmove")
	}
}

func TestSearchMovesRestriction(t *testing.T) {
	pos := chessmg.NewPosition()
	restricted := []chessmg.Move{pos.ParseUCI("a2a3")}
	best, _ := runSearch(t, chessmg.StartposFEN, Limits{Depth: 2, SearchMoves: restricted})
	if best != restricted[0] {
		t.Fatalf("searchmoves ignored: got %s", pos.UCI(best))
	}
}

func TestSearchDrawByRepetitionScoresZero(t *testing.T) {
	// Play the shuffle until the start position occurs for the third time:
	// the draw detector inside the search must return DrawScore at the root.
	pos := chessmg.NewPosition()
	for _, uci := range []string{"g1f3", "g8f6", "f3g1", "f6g8", "g1f3", "g8f6", "f3g1", "f6g8"} {
		pos.DoMove(pos.ParseUCI(uci))
	}
	logger := &collectLogger{}
	s := NewSearch(pos, MaterialScorer{}, Limits{Depth: 1}, logger)
	best := s.Go()
	if best == chessmg.NoMove {
		t.Fatal("no move in a drawn position")
	}
	for _, line := range logger.lines {
		if strings.HasPrefix(line, "info ") && !strings.Contains(line, "score cp 0 ") {
			t.Fatalf("threefold position must score 0: %q", line)
		}
	}
}

func TestCheckmatedRootReportsNoMove(t *testing.T) {
	best, logger := runSearch(t, "4R1k1/5ppp/8/8/8/8/8/6K1 b - - 0 1", Limits{Depth: 2})
	if best != chessmg.NoMove {
		t.Fatalf("checkmated side has no move, got %s", best)
	}
	if logger.bestmove() != "0000" {
		t.Fatalf("bestmove line: got %q want 0000", logger.bestmove())
	}
}

func TestLimitsPrecedence(t *testing.T) {
	cases := []struct {
		limits    Limits
		wantDepth int
		wantTime  int64
	}{
		{Limits{Infinite: true, Depth: 3}, MaxDepth, infiniteTime},
		{Limits{Depth: 5}, 5, infiniteTime},
		{Limits{MoveTime: 1500}, MaxDepth, 1500},
		{Limits{TimeLeft: [2]int64{4200, 0}, MovesToGo: 20}, MaxDepth, 200},
		{Limits{TimeLeft: [2]int64{4200, 0}}, MaxDepth, 200},
		{Limits{}, 7, infiniteTime},
	}
	for i, tc := range cases {
		depth, searchTime := tc.limits.resolve(chessmg.White)
		if depth != tc.wantDepth || searchTime != tc.wantTime {
			t.Errorf("case %d: got (%d, %d) want (%d, %d)", i, depth, searchTime, tc.wantDepth, tc.wantTime)
		}
	}
}

func TestHistoryIncrementByDepth(t *testing.T) {
	info := newSearchInfo()
	m := chessmg.NewMove(chessmg.ParseSquare("b1"), chessmg.ParseSquare("c3"))
	info.updateHistory(chessmg.White, m, 5)
	if got := info.history[chessmg.White][m.From()][m.To()]; got != 5 {
		t.Fatalf("history after one cutoff at depth 5: got %d want 5", got)
	}
	info.updateHistory(chessmg.White, m, 3)
	if got := info.history[chessmg.White][m.From()][m.To()]; got != 8 {
		t.Fatalf("history accumulates by depth: got %d want 8", got)
	}
}

func TestKillerReplacement(t *testing.T) {
	info := newSearchInfo()
	m1 := chessmg.NewMove(0, 1)
	m2 := chessmg.NewMove(2, 3)
	info.updateKillers(4, m1)
	info.updateKillers(4, m1) // same killer must not duplicate
	if info.killers[4][0] != m1 || info.killers[4][1] != chessmg.NoMove {
		t.Fatal("repeated killer shifted into slot 1")
	}
	info.updateKillers(4, m2)
	if info.killers[4][0] != m2 || info.killers[4][1] != m1 {
		t.Fatal("distinct killer must shift slot 0 into slot 1")
	}
}
