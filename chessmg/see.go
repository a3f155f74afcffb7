package chessmg

// Exchange values used by the swap-off algorithm. The king's value only
// matters in that it loses every exchange it starts.
var seeValue = [7]int{0, 100, 300, 300, 500, 900, 10000}

// SEE is the static exchange evaluation of a move: the net material outcome
// of the forced capture sequence on the destination square, assuming either
// player may stop. Attackers are consumed cheapest first (lowest kind, then
// lowest square) and x-ray attackers are revealed as occupancy shrinks.
func (p *Position) SEE(m Move) int {
	if m.Castling() != NoCastling {
		return 0
	}

	from := m.From()
	to := m.To()
	side := p.sideToMove
	attackerKind := p.board[from].Kind()

	var gain [32]int
	d := 0

	occ := p.Occupied()
	targetKind := p.board[to].Kind()
	if attackerKind == Pawn && p.enpassantSquare != NoSquare && to == p.enpassantSquare {
		targetKind = Pawn
		capturedSquare := to - 8
		if side == Black {
			capturedSquare = to + 8
		}
		occ &^= squareBB(capturedSquare)
	}
	gain[0] = seeValue[targetKind]

	occ &^= squareBB(from)
	attackers := p.attackersToWithOcc(to, occ)

	diagonals := p.byKind[Bishop] | p.byKind[Queen]
	orthogonals := p.byKind[Rook] | p.byKind[Queen]

	side = side.Other()
	current := attackerKind

	for {
		// Cheapest attacker of the side to recapture.
		var fromBB uint64
		var kind PieceKind
		for kind = Pawn; kind <= King; kind++ {
			if bb := attackers & p.PieceBB(side, kind) & occ; bb != 0 {
				fromBB = bb & -bb
				break
			}
		}
		if fromBB == 0 {
			break
		}

		d++
		gain[d] = seeValue[current] - gain[d-1]
		if max2(-gain[d-1], gain[d]) < 0 {
			break
		}

		occ &^= fromBB
		// Reveal x-ray attackers behind the consumed piece.
		attackers |= BishopAttacks(to, occ) & diagonals
		attackers |= RookAttacks(to, occ) & orthogonals
		attackers &= occ

		current = kind
		side = side.Other()
	}

	// Minimax over the gain stack: either player may decline to recapture.
	for ; d > 0; d-- {
		gain[d-1] = -max2(-gain[d-1], gain[d])
	}
	return gain[0]
}

// attackersToWithOcc collects attackers of both colors to a square, with
// slider attacks computed against the given occupancy.
func (p *Position) attackersToWithOcc(sq Square, occ uint64) uint64 {
	var attackers uint64
	attackers |= pawnAttacksTab[Black][sq] & p.PieceBB(White, Pawn)
	attackers |= pawnAttacksTab[White][sq] & p.PieceBB(Black, Pawn)
	attackers |= knightMask[sq] & p.byKind[Knight]
	attackers |= kingMask[sq] & p.byKind[King]
	attackers |= BishopAttacks(sq, occ) & (p.byKind[Bishop] | p.byKind[Queen])
	attackers |= RookAttacks(sq, occ) & (p.byKind[Rook] | p.byKind[Queen])
	return attackers & occ
}

func max2(a, b int) int {
	if a > b {
		return a
	}
	return b
}
