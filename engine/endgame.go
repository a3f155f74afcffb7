package engine

import "github.com/adajed/chess-engine/chessmg"

// Endgame recognizer score constants. ValueKnownWin marks positions proven
// won by pattern knowledge; recognizer scores stay below mate scores.
const (
	ValueKnownWin = 10000
	valueMate     = Infinity
)

// pushToEdgeBonus drives the weak king toward edges and corners.
var pushToEdgeBonus = [64]int{
	100, 90, 80, 70, 70, 80, 90, 100,
	90, 60, 50, 40, 40, 50, 60, 90,
	80, 50, 30, 20, 20, 30, 40, 80,
	70, 40, 20, 10, 10, 20, 40, 70,
	70, 40, 20, 10, 10, 20, 40, 70,
	80, 50, 30, 20, 20, 30, 40, 80,
	90, 60, 50, 40, 40, 50, 60, 90,
	100, 90, 80, 70, 70, 80, 90, 100,
}

// pushToColorCornerBonus drives the weak king toward the dark corners; for
// a light-squared bishop the board is flipped vertically first.
var pushToColorCornerBonus = [64]int{
	100, 90, 80, 70, 70, 60, 50, 40,
	90, 60, 50, 40, 40, 50, 60, 50,
	80, 50, 30, 20, 20, 30, 40, 60,
	70, 40, 20, 10, 10, 20, 40, 70,
	70, 40, 20, 10, 10, 20, 40, 70,
	60, 50, 30, 20, 20, 30, 40, 80,
	50, 60, 50, 40, 40, 50, 60, 90,
	40, 50, 60, 70, 70, 80, 90, 100,
}

// pushClose rewards the kings standing close together.
var pushClose = [8]int{0, 7, 6, 5, 4, 3, 2, 1}

// endgamePattern is one recognized material configuration: a pure applies
// predicate and a pure scoring function, both parameterized by the strong
// side.
type endgamePattern struct {
	applies func(p *chessmg.Position, strong chessmg.Color) bool
	score   func(p *chessmg.Position, strong chessmg.Color) int
}

// EndgameTable is the catalogue of recognized endgames. The generic KXK
// pattern is the always-applicable fallback.
type EndgameTable struct {
	patterns []endgamePattern
	fallback endgamePattern
}

// NewEndgameTable registers the specialized patterns (KPK, KNBK) over the
// generic KXK fallback.
func NewEndgameTable() *EndgameTable {
	initKPKBitbase()
	return &EndgameTable{
		patterns: []endgamePattern{
			{applies: kpkApplies, score: kpkScore},
			{applies: knbkApplies, score: knbkScore},
		},
		fallback: endgamePattern{score: kxkScore},
	}
}

// Probe returns an exact side-to-move-oriented score when the position
// matches the catalogue: one side must be a lone king. The second value is
// false when no pattern applies.
func (t *EndgameTable) Probe(p *chessmg.Position) (int, bool) {
	whiteBare := p.ByColor(chessmg.White) == p.PieceBB(chessmg.White, chessmg.King)
	blackBare := p.ByColor(chessmg.Black) == p.PieceBB(chessmg.Black, chessmg.King)
	if whiteBare == blackBare {
		return 0, false
	}
	strong := chessmg.White
	if whiteBare {
		strong = chessmg.Black
	}

	for _, pattern := range t.patterns {
		if pattern.applies(p, strong) {
			return pattern.score(p, strong), true
		}
	}
	return t.fallback.score(p, strong), true
}

func count(p *chessmg.Position, c chessmg.Color, k chessmg.PieceKind) int {
	return p.PieceCount(chessmg.MakePiece(c, k))
}

// oriented flips a strong-side score to the side to move's perspective.
func oriented(p *chessmg.Position, strong chessmg.Color, v int) int {
	if p.SideToMove() == strong {
		return v
	}
	return -v
}

// KPK: a single pawn against a lone king, decided by the bitbase.
func kpkApplies(p *chessmg.Position, strong chessmg.Color) bool {
	return count(p, strong, chessmg.Pawn) == 1 &&
		count(p, strong.Other(), chessmg.Pawn) == 0 &&
		p.ByKind(chessmg.Knight) == 0 &&
		p.ByKind(chessmg.Bishop) == 0 &&
		p.ByKind(chessmg.Rook) == 0 &&
		p.ByKind(chessmg.Queen) == 0
}

func kpkScore(p *chessmg.Position, strong chessmg.Color) int {
	strongKing := p.KingSquare(strong)
	strongPawn := p.PiecePosition(chessmg.MakePiece(strong, chessmg.Pawn), 0)
	weakKing := p.KingSquare(strong.Other())

	us := chessmg.Black
	if p.SideToMove() == strong {
		us = chessmg.White
	}
	us, strongKing, strongPawn, weakKing = kpkNormalize(strong, us, strongKing, strongPawn, weakKing)

	if !kpkProbe(us, strongKing, strongPawn, weakKing) {
		return DrawScore
	}
	v := ValueKnownWin + strongPawn.Rank()
	return oriented(p, strong, v)
}

// KNBK: the win requires driving the weak king to a corner of the bishop's
// color.
func knbkApplies(p *chessmg.Position, strong chessmg.Color) bool {
	return count(p, strong, chessmg.Knight) == 1 &&
		count(p, strong, chessmg.Bishop) == 1 &&
		p.ByKind(chessmg.Pawn) == 0 &&
		p.ByKind(chessmg.Rook) == 0 &&
		p.ByKind(chessmg.Queen) == 0
}

func knbkScore(p *chessmg.Position, strong chessmg.Color) int {
	weakKing := p.KingSquare(strong.Other())
	bishop := p.PiecePosition(chessmg.MakePiece(strong, chessmg.Bishop), 0)

	kingSquare := weakKing
	if (bishop.Rank()+bishop.File())&1 != 0 {
		// Light-squared bishop: flip so the corner table lines up.
		kingSquare = chessmg.MakeSquare(7-weakKing.Rank(), weakKing.File())
	}
	v := Min(ValueKnownWin+pushToColorCornerBonus[kingSquare], valueMate-1)
	return oriented(p, strong, v)
}

// kxkScore is the generic fallback: material plus driving the weak king to
// the edge with the strong king nearby.
func kxkScore(p *chessmg.Position, strong chessmg.Color) int {
	strongKing := p.KingSquare(strong)
	weakKing := p.KingSquare(strong.Other())

	v := DrawScore
	v += PieceValue[chessmg.Pawn] * count(p, strong, chessmg.Pawn)
	v += PieceValue[chessmg.Knight] * count(p, strong, chessmg.Knight)
	v += PieceValue[chessmg.Bishop] * count(p, strong, chessmg.Bishop)
	v += PieceValue[chessmg.Rook] * count(p, strong, chessmg.Rook)
	v += PieceValue[chessmg.Queen] * count(p, strong, chessmg.Queen)
	v += pushToEdgeBonus[weakKing] + pushClose[chessmg.Distance(strongKing, weakKing)]

	v = Min(v+ValueKnownWin, valueMate-1)
	return oriented(p, strong, v)
}
