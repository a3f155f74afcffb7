package chessmg

// Move generation: pseudo-legal candidates are enumerated per piece kind
// from the bitboards and attack tables, then filtered for self-check by
// simulating the occupancy after the move. Castling is emitted fully
// validated. Generation writes into the caller's buffer and returns the
// filled prefix.

const (
	genAll   = iota
	genNoisy // captures and promotions, for quiescence
)

// GenerateMovesInto writes all legal moves for the side to move into buf and
// returns the filled prefix. buf must have capacity MaxMoves.
func (p *Position) GenerateMovesInto(buf []Move) []Move {
	return p.filterLegal(p.generatePseudo(buf[:0], genAll))
}

// GenerateQuiescenceInto writes the quiescence subset (captures, en passant
// and promotions) into buf and returns the filled prefix.
func (p *Position) GenerateQuiescenceInto(buf []Move) []Move {
	return p.filterLegal(p.generatePseudo(buf[:0], genNoisy))
}

// HasLegalMoves reports whether the side to move has at least one legal move.
func (p *Position) HasLegalMoves() bool {
	var buf [MaxMoves]Move
	return len(p.GenerateMovesInto(buf[:])) > 0
}

func (p *Position) filterLegal(moves []Move) []Move {
	us := p.sideToMove
	them := us.Other()
	ksq := p.KingSquare(us)
	occ := p.Occupied()
	inCheck := p.attackedBy(ksq, them, occ, 0)

	out := moves[:0]
	for _, m := range moves {
		if p.moveIsSafe(m, them, ksq, occ, inCheck) {
			out = append(out, m)
		}
	}
	return out
}

// moveIsSafe verifies that the move does not leave the mover's king
// attacked. King moves, en-passant captures, moves while in check, and moves
// of pieces aligned with the king (pin candidates) are checked against the
// simulated post-move occupancy; everything else is trivially safe. Castling
// arrives fully validated from the generator.
func (p *Position) moveIsSafe(m Move, them Color, ksq Square, occ uint64, inCheck bool) bool {
	if m.Castling() != NoCastling {
		return true
	}

	from := m.From()
	to := m.To()
	fromBB := squareBB(from)
	toBB := squareBB(to)
	moved := p.board[from]

	if moved.Kind() == King {
		newOcc := occ&^fromBB | toBB
		return !p.attackedBy(to, them, newOcc, toBB)
	}

	if moved.Kind() == Pawn && p.enpassantSquare != NoSquare && to == p.enpassantSquare {
		capturedSquare := to - 8
		if p.sideToMove == Black {
			capturedSquare = to + 8
		}
		capBB := squareBB(capturedSquare)
		newOcc := (occ &^ fromBB &^ capBB) | toBB
		return !p.attackedBy(ksq, them, newOcc, capBB)
	}

	if !inCheck && kingRaysUnion[ksq]&fromBB == 0 {
		return true
	}

	newOcc := (occ &^ fromBB) | toBB
	return !p.attackedBy(ksq, them, newOcc, toBB)
}

func (p *Position) generatePseudo(moves []Move, filter int) []Move {
	us := p.sideToMove
	them := us.Other()
	ownOcc := p.byColor[us]
	oppOcc := p.byColor[them]
	allOcc := ownOcc | oppOcc

	moves = p.generatePawnMoves(moves, filter, us, oppOcc, allOcc)

	// Knights
	for bb := p.PieceBB(us, Knight); bb != 0; {
		from := Square(popLSB(&bb))
		targets := knightMask[from] &^ ownOcc
		if filter == genNoisy {
			targets &= oppOcc
		}
		for t := targets; t != 0; {
			moves = append(moves, NewMove(from, Square(popLSB(&t))))
		}
	}

	// Bishops
	for bb := p.PieceBB(us, Bishop); bb != 0; {
		from := Square(popLSB(&bb))
		targets := BishopAttacks(from, allOcc) &^ ownOcc
		if filter == genNoisy {
			targets &= oppOcc
		}
		for t := targets; t != 0; {
			moves = append(moves, NewMove(from, Square(popLSB(&t))))
		}
	}

	// Rooks
	for bb := p.PieceBB(us, Rook); bb != 0; {
		from := Square(popLSB(&bb))
		targets := RookAttacks(from, allOcc) &^ ownOcc
		if filter == genNoisy {
			targets &= oppOcc
		}
		for t := targets; t != 0; {
			moves = append(moves, NewMove(from, Square(popLSB(&t))))
		}
	}

	// Queens
	for bb := p.PieceBB(us, Queen); bb != 0; {
		from := Square(popLSB(&bb))
		targets := QueenAttacks(from, allOcc) &^ ownOcc
		if filter == genNoisy {
			targets &= oppOcc
		}
		for t := targets; t != 0; {
			moves = append(moves, NewMove(from, Square(popLSB(&t))))
		}
	}

	// King
	kingFrom := p.KingSquare(us)
	targets := kingMask[kingFrom] &^ ownOcc
	if filter == genNoisy {
		targets &= oppOcc
	}
	for t := targets; t != 0; {
		moves = append(moves, NewMove(kingFrom, Square(popLSB(&t))))
	}

	if filter == genAll {
		moves = p.generateCastling(moves, us, them, allOcc)
	}

	return moves
}

func (p *Position) generatePawnMoves(moves []Move, filter int, us Color, oppOcc, allOcc uint64) []Move {
	up := 8
	startRank := 1
	promoRank := 7
	if us == Black {
		up = -8
		startRank = 6
		promoRank = 0
	}

	for bb := p.PieceBB(us, Pawn); bb != 0; {
		from := Square(popLSB(&bb))

		// Pushes
		one := from + Square(up)
		if allOcc&squareBB(one) == 0 {
			if one.Rank() == promoRank {
				if filter == genAll || filter == genNoisy {
					moves = append(moves,
						NewPromotion(from, one, Queen),
						NewPromotion(from, one, Rook),
						NewPromotion(from, one, Bishop),
						NewPromotion(from, one, Knight))
				}
			} else if filter == genAll {
				moves = append(moves, NewMove(from, one))
				if from.Rank() == startRank {
					two := one + Square(up)
					if allOcc&squareBB(two) == 0 {
						moves = append(moves, NewMove(from, two))
					}
				}
			}
		}

		// Captures
		for t := pawnAttacksTab[us][from] & oppOcc; t != 0; {
			to := Square(popLSB(&t))
			if to.Rank() == promoRank {
				moves = append(moves,
					NewPromotion(from, to, Queen),
					NewPromotion(from, to, Rook),
					NewPromotion(from, to, Bishop),
					NewPromotion(from, to, Knight))
			} else {
				moves = append(moves, NewMove(from, to))
			}
		}

		// En passant
		if p.enpassantSquare != NoSquare &&
			pawnAttacksTab[us][from]&squareBB(p.enpassantSquare) != 0 {
			moves = append(moves, NewMove(from, p.enpassantSquare))
		}
	}
	return moves
}

// generateCastling emits castling moves only when the right is set, the
// squares between king and rook are empty, the rook is home, and the king's
// square, crossing square and landing square are not attacked.
func (p *Position) generateCastling(moves []Move, us, them Color, occ uint64) []Move {
	if p.attackedBy(p.KingSquare(us), them, occ, 0) {
		return moves
	}

	rank := 0
	short, long := WhiteOO, WhiteOOO
	if us == Black {
		rank = 7
		short, long = BlackOO, BlackOOO
	}
	f := MakeSquare(rank, 5)
	g := MakeSquare(rank, 6)
	d := MakeSquare(rank, 3)
	c := MakeSquare(rank, 2)
	b := MakeSquare(rank, 1)

	if p.castlingRights&short != 0 &&
		p.board[f] == NoPiece && p.board[g] == NoPiece &&
		p.board[MakeSquare(rank, 7)] == MakePiece(us, Rook) &&
		!p.attackedBy(f, them, occ, 0) && !p.attackedBy(g, them, occ, 0) {
		moves = append(moves, NewCastlingMove(KingCastling))
	}
	if p.castlingRights&long != 0 &&
		p.board[d] == NoPiece && p.board[c] == NoPiece && p.board[b] == NoPiece &&
		p.board[MakeSquare(rank, 0)] == MakePiece(us, Rook) &&
		!p.attackedBy(d, them, occ, 0) && !p.attackedBy(c, them, occ, 0) {
		moves = append(moves, NewCastlingMove(QueenCastling))
	}
	return moves
}

// MoveGivesCheck reports whether the (legal) move checks the opponent's
// king, without mutating the board. Direct checks, discovered checks, the
// castling rook and the en-passant discovered file are all covered.
func (p *Position) MoveGivesCheck(m Move) bool {
	us := p.sideToMove
	them := us.Other()
	kingSq := p.KingSquare(them)
	kingBB := squareBB(kingSq)
	occ := p.Occupied()

	if m.Castling() != NoCastling {
		rank := 0
		if us == Black {
			rank = 7
		}
		rookTo := MakeSquare(rank, 5)
		kingTo := MakeSquare(rank, 6)
		rookFrom := MakeSquare(rank, 7)
		if m.Castling() == QueenCastling {
			rookTo = MakeSquare(rank, 3)
			kingTo = MakeSquare(rank, 2)
			rookFrom = MakeSquare(rank, 0)
		}
		kingFrom := p.KingSquare(us)
		newOcc := (occ ^ squareBB(kingFrom) ^ squareBB(rookFrom)) | squareBB(kingTo) | squareBB(rookTo)
		return RookAttacks(rookTo, newOcc)&kingBB != 0
	}

	from := m.From()
	to := m.To()
	moved := p.board[from]
	kind := moved.Kind()
	if m.Promotion() != NoPieceKind {
		kind = m.Promotion()
	}

	newOcc := (occ &^ squareBB(from)) | squareBB(to)

	// Direct check from the destination square.
	switch kind {
	case Pawn:
		if pawnAttacksTab[us][to]&kingBB != 0 {
			return true
		}
	case Knight:
		if knightMask[to]&kingBB != 0 {
			return true
		}
	case Bishop:
		if BishopAttacks(to, newOcc)&kingBB != 0 {
			return true
		}
	case Rook:
		if RookAttacks(to, newOcc)&kingBB != 0 {
			return true
		}
	case Queen:
		if QueenAttacks(to, newOcc)&kingBB != 0 {
			return true
		}
	}

	// Discovered check through the vacated square.
	if BishopAttacks(kingSq, newOcc)&(p.PieceBB(us, Bishop)|p.PieceBB(us, Queen))&^squareBB(from) != 0 {
		return true
	}
	if RookAttacks(kingSq, newOcc)&(p.PieceBB(us, Rook)|p.PieceBB(us, Queen))&^squareBB(from) != 0 {
		return true
	}

	// En passant can discover a check through the captured pawn's square.
	if moved.Kind() == Pawn && p.enpassantSquare != NoSquare && to == p.enpassantSquare {
		capturedSquare := MakeSquare(from.Rank(), to.File())
		epOcc := newOcc &^ squareBB(capturedSquare)
		if BishopAttacks(kingSq, epOcc)&(p.PieceBB(us, Bishop)|p.PieceBB(us, Queen)) != 0 {
			return true
		}
		if RookAttacks(kingSq, epOcc)&(p.PieceBB(us, Rook)|p.PieceBB(us, Queen)) != 0 {
			return true
		}
	}

	return false
}
