package chessmg

// DoMove applies a legal move and returns the undo record. The move must be
// legal in the current position; moves produced by GenerateMovesInto always
// are. After the call every board/bitboard/hash invariant holds, the
// position key is appended to the history, and the half-move counter is
// reset on pawn moves and captures.
func (p *Position) DoMove(m Move) MoveInfo {
	side := p.sideToMove
	p.changeSide()
	p.plyCounter++

	captured := NoPieceKind
	prevCastling := p.castlingRights
	prevEnpassant := p.enpassantSquare
	wasEnpassant := false
	prevHalfMove := p.halfMoveCounter

	p.hash.clearEnpassant()

	if m.Castling() != NoCastling {
		p.halfMoveCounter++

		rank := 0
		if side == Black {
			rank = 7
		}
		if m.Castling() == KingCastling {
			p.movePiece(MakeSquare(rank, 4), MakeSquare(rank, 6))
			p.movePiece(MakeSquare(rank, 7), MakeSquare(rank, 5))
		} else {
			p.movePiece(MakeSquare(rank, 4), MakeSquare(rank, 2))
			p.movePiece(MakeSquare(rank, 0), MakeSquare(rank, 3))
		}

		p.castlingRights &^= castlingRightsOf[side]
		p.hash.setCastling(p.castlingRights)
		p.enpassantSquare = NoSquare
	} else {
		moved := p.board[m.From()]
		capturedPiece := p.board[m.To()]
		captured = capturedPiece.Kind()

		if moved.Kind() != Pawn && capturedPiece == NoPiece {
			p.halfMoveCounter++
		} else {
			p.halfMoveCounter = 0
		}

		if moved.Kind() == Pawn && p.enpassantSquare != NoSquare && m.To() == p.enpassantSquare {
			p.movePiece(m.From(), m.To())
			capturedSquare := m.To() - 8
			if side == Black {
				capturedSquare = m.To() + 8
			}
			p.removePiece(capturedSquare)
			wasEnpassant = true
		} else {
			if capturedPiece != NoPiece {
				p.removePiece(m.To())
			}

			if m.Promotion() != NoPieceKind {
				p.removePiece(m.From())
				p.addPiece(MakePiece(side, m.Promotion()), m.To())
			} else {
				p.movePiece(m.From(), m.To())
			}

			if moved.Kind() == King {
				p.castlingRights &^= castlingRightsOf[side]
			}
			if moved.Kind() == Rook && m.From() == kingSideRookSquare[side] {
				p.castlingRights &^= castlingRightsOf[side] & KingCastling
			}
			if moved.Kind() == Rook && m.From() == queenSideRookSquare[side] {
				p.castlingRights &^= castlingRightsOf[side] & QueenCastling
			}
			other := side.Other()
			if captured == Rook && m.To() == kingSideRookSquare[other] {
				p.castlingRights &^= castlingRightsOf[other] & KingCastling
			}
			if captured == Rook && m.To() == queenSideRookSquare[other] {
				p.castlingRights &^= castlingRightsOf[other] & QueenCastling
			}
			p.hash.setCastling(p.castlingRights)
		}

		// A double push sets the en-passant square behind the pawn, but only
		// when an enemy pawn can actually capture to it. State and hash
		// subkey stay symmetric under this rule.
		p.enpassantSquare = NoSquare
		if moved.Kind() == Pawn && rankDistance(m.From(), m.To()) == 2 {
			ep := m.From() + 8
			if side == Black {
				ep = m.From() - 8
			}
			p.enpassantSquare = ep
			if p.enpassantHashApplies() {
				p.hash.setEnpassant(ep.File())
			} else {
				p.enpassantSquare = NoSquare
			}
		}
	}

	// The history is bounded; on overflow the oldest half is discarded.
	// Repetition detection only ever looks back within the 50-move window.
	if p.historyCount == MaxPlies {
		copy(p.history[:], p.history[MaxPlies/2:])
		p.historyCount = MaxPlies / 2
	}
	p.history[p.historyCount] = p.hash.Key()
	p.historyCount++

	return newMoveInfo(captured, prevCastling, prevEnpassant, wasEnpassant, prevHalfMove)
}

// UndoMove reverses a DoMove exactly, restoring the position including its
// Zobrist key. The record is authoritative: castling rights, the en-passant
// square and the half-move counter come from it, not from the board.
func (p *Position) UndoMove(m Move, mi MoveInfo) {
	p.changeSide()
	side := p.sideToMove
	p.plyCounter--

	p.castlingRights = mi.LastCastling()
	p.hash.setCastling(p.castlingRights)
	p.halfMoveCounter = mi.LastHalfMove()

	if m.Castling() != NoCastling {
		rank := 0
		if side == Black {
			rank = 7
		}
		if m.Castling() == KingCastling {
			p.movePiece(MakeSquare(rank, 6), MakeSquare(rank, 4))
			p.movePiece(MakeSquare(rank, 5), MakeSquare(rank, 7))
		} else {
			p.movePiece(MakeSquare(rank, 2), MakeSquare(rank, 4))
			p.movePiece(MakeSquare(rank, 3), MakeSquare(rank, 0))
		}
	} else {
		if mi.WasEnpassant() {
			capturedSquare := m.To() - 8
			if side == Black {
				capturedSquare = m.To() + 8
			}
			p.addPiece(MakePiece(side.Other(), Pawn), capturedSquare)
		}

		if m.Promotion() != NoPieceKind {
			p.removePiece(m.To())
			p.addPiece(MakePiece(side, Pawn), m.From())
		} else {
			p.movePiece(m.To(), m.From())
		}

		if captured := mi.CapturedKind(); captured != NoPieceKind {
			p.addPiece(MakePiece(side.Other(), captured), m.To())
		}
	}

	// Restore en passant after the pieces: the subkey rule reads the board.
	p.enpassantSquare = mi.LastEnpassant()
	if p.enpassantHashApplies() {
		p.hash.setEnpassant(p.enpassantSquare.File())
	} else {
		p.hash.clearEnpassant()
	}

	p.historyCount--
}

// DoNullMove flips the side to move without moving a piece: the en-passant
// square is cleared, the ply and half-move counters advance. Used by
// null-move pruning.
func (p *Position) DoNullMove() MoveInfo {
	p.changeSide()
	p.plyCounter++

	prevEnpassant := p.enpassantSquare
	prevHalfMove := p.halfMoveCounter
	p.halfMoveCounter++

	p.enpassantSquare = NoSquare
	p.hash.clearEnpassant()

	return newMoveInfo(NoPieceKind, NoCastling, prevEnpassant, false, prevHalfMove)
}

// UndoNullMove restores the position prior to DoNullMove.
func (p *Position) UndoNullMove(mi MoveInfo) {
	p.changeSide()
	p.plyCounter--
	p.halfMoveCounter = mi.LastHalfMove()

	p.enpassantSquare = mi.LastEnpassant()
	if p.enpassantHashApplies() {
		p.hash.setEnpassant(p.enpassantSquare.File())
	} else {
		p.hash.clearEnpassant()
	}
}

func rankDistance(a, b Square) int {
	d := a.Rank() - b.Rank()
	if d < 0 {
		return -d
	}
	return d
}
