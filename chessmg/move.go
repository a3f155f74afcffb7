package chessmg

// Move packs a chess move into one integer:
//
//	bits 0-5   from square
//	bits 6-11  to square
//	bits 12-14 promotion kind (NoPieceKind if none)
//	bits 15-16 castling kind (0 none, 1 king side, 2 queen side)
//
// Castling moves encode no squares; the receiver infers them from the side
// to move.
type Move uint32

// NoMove is the sentinel for "no move".
const NoMove Move = 0

// NewMove builds a plain from-to move.
func NewMove(from, to Square) Move {
	return Move(uint32(to)<<6 | uint32(from))
}

// NewPromotion builds a move with a promotion kind. A NoPieceKind promotion
// degrades to a plain move.
func NewPromotion(from, to Square, promotion PieceKind) Move {
	return Move(uint32(promotion)<<12 | uint32(to)<<6 | uint32(from))
}

// NewCastlingMove builds a castling move of the given kind.
func NewCastlingMove(castling Castling) Move {
	if castling == KingCastling {
		return Move(1 << 15)
	}
	return Move(2 << 15)
}

// From returns the source square.
func (m Move) From() Square { return Square(m & 0x3F) }

// To returns the destination square.
func (m Move) To() Square { return Square((m >> 6) & 0x3F) }

// Promotion returns the promoted kind, or NoPieceKind.
func (m Move) Promotion() PieceKind { return PieceKind((m >> 12) & 0x7) }

// Castling returns the castling kind of the move, or NoCastling.
func (m Move) Castling() Castling {
	switch (m >> 15) & 0x3 {
	case 1:
		return KingCastling
	case 2:
		return QueenCastling
	default:
		return NoCastling
	}
}

// String renders the move coordinates without board context. Castling moves
// print as OO/OOO since their squares depend on the side to move; use
// Position.UCI for protocol output.
func (m Move) String() string {
	if m.Castling() == KingCastling {
		return "OO"
	}
	if m.Castling() == QueenCastling {
		return "OOO"
	}
	s := m.From().String() + m.To().String()
	if k := m.Promotion(); k != NoPieceKind {
		s += string(promotionChar(k))
	}
	return s
}

func promotionChar(k PieceKind) byte {
	switch k {
	case Knight:
		return 'n'
	case Bishop:
		return 'b'
	case Rook:
		return 'r'
	case Queen:
		return 'q'
	}
	return '?'
}

// MoveInfo is the self-contained undo record returned by DoMove:
//
//	bits 0-2   captured piece kind
//	bits 3-6   prior castling rights
//	bits 7-12  prior en-passant square
//	bit  13    prior en-passant square was set
//	bit  14    the move itself was an en-passant capture
//	bits 15-22 prior half-move counter
//
// UndoMove restores state purely from this record, never from the board.
type MoveInfo uint32

func newMoveInfo(captured PieceKind, lastCastling Castling, lastEnpassant Square, enpassant bool, halfMove uint8) MoveInfo {
	info := MoveInfo(uint32(halfMove)<<15 | uint32(lastCastling)<<3 | uint32(captured))
	if enpassant {
		info |= 1 << 14
	}
	if lastEnpassant != NoSquare {
		info |= 1<<13 | MoveInfo(uint32(lastEnpassant)<<7)
	}
	return info
}

// CapturedKind returns the captured piece kind, NoPieceKind for quiet moves
// and en-passant captures (the flag identifies those).
func (mi MoveInfo) CapturedKind() PieceKind { return PieceKind(mi & 0x7) }

// LastCastling returns the castling rights before the move.
func (mi MoveInfo) LastCastling() Castling { return Castling((mi >> 3) & 0xF) }

// LastEnpassant returns the en-passant square before the move, or NoSquare.
func (mi MoveInfo) LastEnpassant() Square {
	if (mi>>13)&1 == 0 {
		return NoSquare
	}
	return Square((mi >> 7) & 0x3F)
}

// WasEnpassant reports whether the move was an en-passant capture.
func (mi MoveInfo) WasEnpassant() bool { return (mi>>14)&1 != 0 }

// LastHalfMove returns the half-move counter before the move.
func (mi MoveInfo) LastHalfMove() uint8 { return uint8(mi >> 15) }
