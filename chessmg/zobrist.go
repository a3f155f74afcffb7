package chessmg

import "math/rand"

// Zobrist hashing constants: one 64-bit key per (piece, square), one per
// castling flag, one per en-passant file, and one for the side to move.
var hashPiece [13][64]uint64
var hashCastlingWhiteShort uint64
var hashCastlingWhiteLong uint64
var hashCastlingBlackShort uint64
var hashCastlingBlackLong uint64
var hashEnpassant [8]uint64
var hashTurn uint64

func init() {
	// Fixed seed keeps keys reproducible across runs and tests.
	rnd := rand.New(rand.NewSource(0xDEC0DE))

	for piece := WhitePawn; piece <= BlackKing; piece++ {
		for sq := 0; sq < 64; sq++ {
			hashPiece[piece][sq] = rnd.Uint64()
		}
	}
	hashCastlingWhiteShort = rnd.Uint64()
	hashCastlingWhiteLong = rnd.Uint64()
	hashCastlingBlackShort = rnd.Uint64()
	hashCastlingBlackLong = rnd.Uint64()
	for f := 0; f < 8; f++ {
		hashEnpassant[f] = rnd.Uint64()
	}
	hashTurn = rnd.Uint64()
}

// HashKey holds the Zobrist key split into per-aspect subkeys. The pawn
// subkey covers pawn placements only, so a pawn-structure cache can reuse it.
type HashKey struct {
	pieceKey     uint64
	pawnKey      uint64
	castlingKey  uint64
	enpassantKey uint64
	colorKey     uint64
}

// Key composes the full position key from the subkeys.
func (h *HashKey) Key() uint64 {
	return h.pieceKey ^ h.pawnKey ^ h.castlingKey ^ h.enpassantKey ^ h.colorKey
}

// PawnKey returns the pawn-placement subkey.
func (h *HashKey) PawnKey() uint64 { return h.pawnKey }

// init recomputes every subkey from scratch for the given position.
func (h *HashKey) init(p *Position) {
	*h = HashKey{}

	if p.sideToMove == White {
		h.colorKey ^= hashTurn
	}

	for piece := WhitePawn; piece <= BlackKing; piece++ {
		for i := 0; i < p.pieceCount[piece]; i++ {
			h.togglePiece(piece, p.piecePos[piece][i])
		}
	}

	h.setCastling(p.castlingRights)

	if p.enpassantHashApplies() {
		h.setEnpassant(p.enpassantSquare.File())
	}
}

// togglePiece XORs a piece in or out. Pawns toggle the pawn subkey, every
// other piece the piece subkey.
func (h *HashKey) togglePiece(piece Piece, sq Square) {
	if piece.Kind() == Pawn {
		h.pawnKey ^= hashPiece[piece][sq]
	} else {
		h.pieceKey ^= hashPiece[piece][sq]
	}
}

func (h *HashKey) movePiece(piece Piece, from, to Square) {
	h.togglePiece(piece, from)
	h.togglePiece(piece, to)
}

func (h *HashKey) flipSide() {
	h.colorKey ^= hashTurn
}

func (h *HashKey) clearEnpassant() {
	h.enpassantKey = 0
}

func (h *HashKey) setEnpassant(file int) {
	h.enpassantKey = hashEnpassant[file]
}

// setCastling rewrites the castling subkey from the full rights set.
func (h *HashKey) setCastling(castling Castling) {
	h.castlingKey = 0
	if castling&WhiteOO != 0 {
		h.castlingKey ^= hashCastlingWhiteShort
	}
	if castling&WhiteOOO != 0 {
		h.castlingKey ^= hashCastlingWhiteLong
	}
	if castling&BlackOO != 0 {
		h.castlingKey ^= hashCastlingBlackShort
	}
	if castling&BlackOOO != 0 {
		h.castlingKey ^= hashCastlingBlackLong
	}
}

// ComputeHash recomputes the position key from scratch. Used by tests and
// consistency checks against the incrementally maintained key.
func (p *Position) ComputeHash() uint64 {
	var h HashKey
	h.init(p)
	return h.Key()
}
