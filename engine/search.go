package engine

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/adajed/chess-engine/chessmg"
)

// Score constants. Mate scores ramp toward zero with distance from the
// root, so a shorter mate is always preferred.
const (
	MaxDepth  = 64
	Infinity  = 32000
	DrawScore = 0
)

func lostIn(ply int) int { return -Infinity + ply }
func winIn(ply int) int  { return Infinity - ply }

const limitCheckInterval = 4096

// Search owns a mutable copy of the root position for the duration of one
// search. It is single threaded; the only concurrent interaction is the
// Stop flag, which may be set from another goroutine and is polled at every
// node.
type Search struct {
	root     chessmg.Position
	scorer   Scorer
	limits   Limits
	logger   Logger
	endgames *EndgameTable

	info SearchInfo
	pv   PVLine

	searchDepth  int
	searchTime   int64
	currentDepth int
	startTime    time.Time

	nodes        int64
	checkCounter int
	stopFlag     atomic.Bool

	buffers  [MaxDepth + 1][chessmg.MaxMoves]chessmg.Move
	qbuffers [MaxDepth + 1][chessmg.MaxMoves]chessmg.Move
}

// NewSearch prepares a search of the given position under the given limits.
// The position is copied; the caller's instance is not touched.
func NewSearch(pos *chessmg.Position, scorer Scorer, limits Limits, logger Logger) *Search {
	s := &Search{
		root:   *pos,
		scorer: scorer,
		limits: limits,
		logger: logger,
		info:   newSearchInfo(),
	}
	s.searchDepth, s.searchTime = limits.resolve(pos.SideToMove())
	return s
}

// UseEndgames wires the endgame recognizer as a leaf-evaluation shortcut.
func (s *Search) UseEndgames(table *EndgameTable) { s.endgames = table }

// Stop requests cancellation. The search unwinds promptly, keeps the last
// completed iteration's principal variation, and still reports bestmove.
func (s *Search) Stop() { s.stopFlag.Store(true) }

// PV returns the principal variation of the last completed iteration.
func (s *Search) PV() PVLine { return s.pv }

// Nodes returns the number of nodes visited so far.
func (s *Search) Nodes() int64 { return s.nodes }

// Go runs iterative deepening until a stop condition is met, publishing an
// info line per completed depth, and returns the best move found.
func (s *Search) Go() chessmg.Move {
	pos := s.root
	s.stopFlag.Store(false)
	s.startTime = time.Now()
	s.checkCounter = limitCheckInterval

	diag.Debug().
		Int("depth", s.searchDepth).
		Int64("time_ms", s.searchTime).
		Str("fen", pos.FEN()).
		Msg("search started")

	var iterationPV PVLine

	s.currentDepth = 0
	for !s.stopFlag.Load() {
		s.currentDepth++

		result := s.search(&pos, s.currentDepth, -Infinity, Infinity, &iterationPV, true)
		elapsed := time.Since(s.startTime).Milliseconds()

		if !s.stopFlag.Load() {
			s.pv = iterationPV.Clone()
			s.logger.Println(s.infoLine(result, elapsed))
		}

		if result < lostIn(MaxDepth) || result > winIn(MaxDepth) {
			break
		}
		if s.currentDepth >= s.searchDepth {
			break
		}
		if elapsed >= s.searchTime/2 {
			break
		}
	}

	best := s.pv.BestMove()
	if best == chessmg.NoMove {
		// Stopped before depth 1 completed: fall back to any legal move.
		var buf [chessmg.MaxMoves]chessmg.Move
		if moves := pos.GenerateMovesInto(buf[:]); len(moves) > 0 {
			best = moves[0]
		}
	}
	if best == chessmg.NoMove {
		s.logger.Println("bestmove 0000")
		return best
	}
	s.logger.Println("bestmove " + s.root.UCI(best))
	return best
}

// search is the alpha-beta recursion with principal-variation windowing.
// Moves search the full window until one raises alpha; later moves get a
// zero window and are re-searched on a fail inside (alpha, beta).
func (s *Search) search(pos *chessmg.Position, depth, alpha, beta int, pv *PVLine, allowNull bool) int {
	s.nodes++
	pv.Clear()

	if s.stopFlag.Load() || s.checkLimits() {
		s.stopFlag.Store(true)
		return 0
	}

	if pos.ThreefoldRepetition() || pos.Rule50() {
		return DrawScore
	}

	moves := pos.GenerateMovesInto(s.buffers[depth][:])
	inCheck := pos.IsInCheck(pos.SideToMove())

	if len(moves) == 0 {
		if inCheck {
			return lostIn(s.currentDepth - depth)
		}
		return DrawScore
	}

	if depth == 0 {
		return s.quiescence(pos, MaxDepth-1, alpha, beta)
	}

	var childPV PVLine

	if allowNull && !inCheck && depth > 4 && pos.NonPawnCount(pos.SideToMove()) > 0 {
		s.info.ply++
		mi := pos.DoNullMove()
		result := -s.search(pos, depth-4, -beta, -alpha, &childPV, false)
		pos.UndoNullMove(mi)
		s.info.ply--

		if result >= beta {
			return beta
		}
	}

	best := -Infinity
	atRoot := s.info.ply == 0
	picker := newMovePicker(pos, moves, &s.info, true)
	fullWindow := true

	for picker.hasNext() {
		move := picker.next()

		if atRoot && len(s.limits.SearchMoves) > 0 && !containsMove(s.limits.SearchMoves, move) {
			continue
		}

		quiet := pos.MoveIsQuiet(move)

		mi := pos.DoMove(move)
		s.info.ply++

		var result int
		if fullWindow {
			result = -s.search(pos, depth-1, -beta, -alpha, &childPV, true)
		} else {
			result = -s.search(pos, depth-1, -alpha-1, -alpha, &childPV, true)
			if alpha < result && result < beta {
				result = -s.search(pos, depth-1, -beta, -alpha, &childPV, true)
			}
		}

		s.info.ply--
		pos.UndoMove(move, mi)

		if result >= beta {
			if quiet {
				s.info.updateKillers(Min(s.info.ply, MaxDepth), move)
				s.info.updateHistory(pos.SideToMove(), move, depth)
			}
			pv.Update(move, &childPV)
			s.info.updatePV(pos.Hash(), move)
			return beta
		}
		if result > best {
			best = result
			pv.Update(move, &childPV)
		}
		if result > alpha {
			alpha = result
			fullWindow = false
		}
	}

	if len(pv.Moves) > 0 {
		s.info.updatePV(pos.Hash(), pv.Moves[0])
	}
	return best
}

// quiescence extends the search over captures and promotions with a
// stand-pat cutoff: every node is scored first and that score bounds the
// result from below.
func (s *Search) quiescence(pos *chessmg.Position, depth, alpha, beta int) int {
	s.nodes++

	if s.stopFlag.Load() || s.checkLimits() {
		s.stopFlag.Store(true)
		return 0
	}

	if pos.ThreefoldRepetition() || pos.Rule50() {
		return DrawScore
	}

	inCheck := pos.IsInCheck(pos.SideToMove())

	// Mate and stalemate are decided over the full move set before the
	// quiescence subset replaces it in the same buffer.
	if len(pos.GenerateMovesInto(s.qbuffers[depth][:])) == 0 {
		if inCheck {
			return lostIn(MaxDepth)
		}
		return DrawScore
	}

	standpat := s.evaluate(pos)
	if depth <= 0 {
		return standpat
	}
	if standpat >= beta {
		return beta
	}
	if standpat > alpha {
		alpha = standpat
	}

	moves := pos.GenerateQuiescenceInto(s.qbuffers[depth][:])
	picker := newMovePicker(pos, moves, &s.info, false)
	fullWindow := true

	for picker.hasNext() {
		move := picker.next()

		// Skip captures that lose material outright.
		if !inCheck && move.Promotion() == chessmg.NoPieceKind && pos.SEE(move) < 0 {
			continue
		}

		mi := pos.DoMove(move)

		var result int
		if fullWindow {
			result = -s.quiescence(pos, depth-1, -beta, -alpha)
		} else {
			result = -s.quiescence(pos, depth-1, -alpha-1, -alpha)
			if alpha < result && result < beta {
				result = -s.quiescence(pos, depth-1, -beta, -alpha)
			}
		}

		pos.UndoMove(move, mi)

		if result >= beta {
			return beta
		}
		if result > alpha {
			alpha = result
			fullWindow = false
		}
	}

	return alpha
}

// evaluate consults the endgame recognizer first, then the scorer.
func (s *Search) evaluate(pos *chessmg.Position) int {
	if s.endgames != nil {
		if value, ok := s.endgames.Probe(pos); ok {
			return value
		}
	}
	return s.scorer.Score(pos)
}

// checkLimits polls the node and time limits every limitCheckInterval nodes.
func (s *Search) checkLimits() bool {
	s.checkCounter--
	if s.checkCounter > 0 {
		return false
	}
	s.checkCounter = limitCheckInterval

	if s.limits.Nodes > 0 && s.nodes >= s.limits.Nodes {
		s.stopFlag.Store(true)
		return true
	}
	if time.Since(s.startTime).Milliseconds() >= s.searchTime {
		s.stopFlag.Store(true)
		return true
	}
	return false
}

func (s *Search) infoLine(result int, elapsed int64) string {
	var score string
	switch {
	case result < lostIn(MaxDepth):
		score = fmt.Sprintf("mate -%d", result+Infinity)
	case result > winIn(MaxDepth):
		score = fmt.Sprintf("mate %d", Infinity-result)
	default:
		score = fmt.Sprintf("cp %d", result)
	}

	var pvStr strings.Builder
	walker := s.root
	for _, m := range s.pv.Moves {
		if pvStr.Len() > 0 {
			pvStr.WriteByte(' ')
		}
		pvStr.WriteString(walker.UCI(m))
		walker.DoMove(m)
	}

	nps := s.nodes * 1000 / (elapsed + 1)
	return fmt.Sprintf("info depth %d score %s nodes %d nps %d time %d pv %s",
		s.currentDepth, score, s.nodes, nps, elapsed, pvStr.String())
}

func containsMove(moves []chessmg.Move, m chessmg.Move) bool {
	for _, candidate := range moves {
		if candidate == m {
			return true
		}
	}
	return false
}
