package engine

import (
	"math/bits"

	"github.com/adajed/chess-engine/chessmg"
)

// Scorer maps a position to an integer score in centipawns, positive when
// the side to move is better. Implementations must be pure: no state
// mutation, no retained references.
type Scorer interface {
	Score(p *chessmg.Position) int
}

// PieceValue holds the base centipawn values indexed by piece kind.
var PieceValue = [7]int{0, 100, 300, 300, 500, 900, 0}

// MaterialScorer is the built-in fallback scorer: material balance plus a
// small centralization term. The engine is normally wired to an external
// scorer; this keeps it playable standalone.
type MaterialScorer struct{}

// Score implements Scorer.
func (MaterialScorer) Score(p *chessmg.Position) int {
	us := p.SideToMove()
	them := us.Other()

	score := 0
	for kind := chessmg.Pawn; kind <= chessmg.Queen; kind++ {
		score += PieceValue[kind] * bits.OnesCount64(p.PieceBB(us, kind))
		score -= PieceValue[kind] * bits.OnesCount64(p.PieceBB(them, kind))
	}
	score += centralization(p, us) - centralization(p, them)
	return score
}

// centralization rewards pawns, minor pieces and queens for proximity to the
// center.
func centralization(p *chessmg.Position, c chessmg.Color) int {
	bonus := 0
	for bb := p.ByColor(c) &^ p.PieceBB(c, chessmg.King) &^ p.PieceBB(c, chessmg.Rook); bb != 0; {
		sq := chessmg.Square(bits.TrailingZeros64(bb))
		bb &= bb - 1
		fileDist := Abs(2*sq.File() - 7)
		rankDist := Abs(2*sq.Rank() - 7)
		bonus += 6 - (fileDist+rankDist)/2
	}
	return bonus
}
