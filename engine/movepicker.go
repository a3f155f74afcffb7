package engine

import "github.com/adajed/chess-engine/chessmg"

// Move ordering offsets. The principal-variation hint outranks everything,
// then promotions, then captures; among quiet moves killers outrank history.
const (
	pvOffset        = 25000
	promotionOffset = 20000
	captureOffset   = 15000
	killerOffset    = 12000
)

// mvvLva scores captures as most-valuable-victim / least-valuable-aggressor:
// mvvLva[victim][aggressor].
var mvvLva = [7][7]int{
	{0, 0, 0, 0, 0, 0, 0},
	{0, 14, 13, 12, 11, 10, 9},  // victim pawn
	{0, 24, 23, 22, 21, 20, 19}, // victim knight
	{0, 34, 33, 32, 31, 30, 29}, // victim bishop
	{0, 44, 43, 42, 41, 40, 39}, // victim rook
	{0, 54, 53, 52, 51, 50, 49}, // victim queen
	{0, 0, 0, 0, 0, 0, 0},
}

type scoredMove struct {
	move  chessmg.Move
	score int
}

// MovePicker yields moves in heuristic order: the PV hint move, promotions,
// captures by MVV/LVA, killer moves, then quiet moves by history. Ordering
// is an incremental selection sort so an early beta cutoff never pays for a
// full sort.
type MovePicker struct {
	moves []scoredMove
	index int
}

func newMovePicker(p *chessmg.Position, moves []chessmg.Move, info *SearchInfo, withQuiets bool) MovePicker {
	scored := make([]scoredMove, len(moves))
	pvMove := info.pvHint[p.Hash()]
	side := p.SideToMove()
	ply := Min(info.ply, MaxDepth)

	for i, m := range moves {
		score := 0
		isCapture := p.MoveIsCapture(m)
		switch {
		case m == pvMove:
			score = pvOffset
		case m.Promotion() != chessmg.NoPieceKind:
			score = promotionOffset + PieceValue[m.Promotion()]
		case isCapture:
			victim := p.PieceAt(m.To()).Kind()
			if victim == chessmg.NoPieceKind {
				victim = chessmg.Pawn // en passant
			}
			aggressor := p.PieceAt(m.From()).Kind()
			score = captureOffset + mvvLva[victim][aggressor]
		case !withQuiets:
			score = 0
		case m == info.killers[ply][0]:
			score = killerOffset + 100
		case m == info.killers[ply][1]:
			score = killerOffset
		default:
			score = info.history[side][m.From()][m.To()]
		}
		scored[i] = scoredMove{move: m, score: score}
	}
	return MovePicker{moves: scored}
}

// hasNext reports whether moves remain.
func (mp *MovePicker) hasNext() bool { return mp.index < len(mp.moves) }

// next returns the best remaining move.
func (mp *MovePicker) next() chessmg.Move {
	best := mp.index
	for i := mp.index + 1; i < len(mp.moves); i++ {
		if mp.moves[i].score > mp.moves[best].score {
			best = i
		}
	}
	mp.moves[mp.index], mp.moves[best] = mp.moves[best], mp.moves[mp.index]
	m := mp.moves[mp.index].move
	mp.index++
	return m
}
