package engine

import "github.com/adajed/chess-engine/chessmg"

const historyMax = 10000

// SearchInfo carries the per-search heuristic state: the current ply from
// root, two killer slots per ply, the side/from/to history counters and a
// principal-variation hint map keyed by Zobrist hash for move ordering.
type SearchInfo struct {
	ply     int
	killers [MaxDepth + 1][2]chessmg.Move
	history [2][64][64]int
	pvHint  map[uint64]chessmg.Move
}

func newSearchInfo() SearchInfo {
	return SearchInfo{pvHint: make(map[uint64]chessmg.Move)}
}

// updateKillers records a quiet cutoff move. Slot 0 shifts into slot 1 only
// when the new killer is distinct.
func (si *SearchInfo) updateKillers(ply int, m chessmg.Move) {
	if m != si.killers[ply][0] {
		si.killers[ply][1] = si.killers[ply][0]
		si.killers[ply][0] = m
	}
}

// updateHistory rewards a quiet cutoff move by the remaining depth. The
// table is halved when any counter would outgrow the ordering offsets.
func (si *SearchInfo) updateHistory(side chessmg.Color, m chessmg.Move, depth int) {
	si.history[side][m.From()][m.To()] += depth
	if si.history[side][m.From()][m.To()] >= historyMax {
		si.ageHistory(side)
	}
}

func (si *SearchInfo) ageHistory(side chessmg.Color) {
	for from := 0; from < 64; from++ {
		for to := 0; to < 64; to++ {
			si.history[side][from][to] /= 2
		}
	}
}

// updatePV remembers the best move found for a position key.
func (si *SearchInfo) updatePV(hash uint64, m chessmg.Move) {
	si.pvHint[hash] = m
}

// PVLine is a principal variation, best move first.
type PVLine struct {
	Moves []chessmg.Move
}

// Clear empties the line.
func (pv *PVLine) Clear() { pv.Moves = pv.Moves[:0] }

// Update sets the line to move followed by the child line.
func (pv *PVLine) Update(m chessmg.Move, child *PVLine) {
	pv.Moves = append(pv.Moves[:0], m)
	pv.Moves = append(pv.Moves, child.Moves...)
}

// Clone returns an independent copy of the line.
func (pv *PVLine) Clone() PVLine {
	moves := make([]chessmg.Move, len(pv.Moves))
	copy(moves, pv.Moves)
	return PVLine{Moves: moves}
}

// BestMove returns the first move of the line, or NoMove when empty.
func (pv *PVLine) BestMove() chessmg.Move {
	if len(pv.Moves) == 0 {
		return chessmg.NoMove
	}
	return pv.Moves[0]
}
