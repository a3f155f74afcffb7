// Package chessmg implements the board representation and legal move
// generation core of the engine: a mailbox board kept in sync with
// per-color/per-kind bitboards and piece lists, an incrementally maintained
// Zobrist hash split into subkeys, do/undo move application with explicit
// undo records, static exchange evaluation and FEN/SAN/UCI conversion.
package chessmg

import "math/bits"

// Color of a side. White moves first.
type Color uint8

const (
	White Color = 0
	Black Color = 1
)

// Other returns the opposing color.
func (c Color) Other() Color { return c ^ 1 }

// PieceKind is a colorless piece type.
type PieceKind uint8

const (
	NoPieceKind PieceKind = 0
	Pawn        PieceKind = 1
	Knight      PieceKind = 2
	Bishop      PieceKind = 3
	Rook        PieceKind = 4
	Queen       PieceKind = 5
	King        PieceKind = 6
)

// Piece is a colored piece. White pieces are 1..6, black pieces 7..12.
type Piece uint8

const (
	NoPiece     Piece = 0
	WhitePawn   Piece = 1
	WhiteKnight Piece = 2
	WhiteBishop Piece = 3
	WhiteRook   Piece = 4
	WhiteQueen  Piece = 5
	WhiteKing   Piece = 6
	BlackPawn   Piece = 7
	BlackKnight Piece = 8
	BlackBishop Piece = 9
	BlackRook   Piece = 10
	BlackQueen  Piece = 11
	BlackKing   Piece = 12
)

// MakePiece combines a color and a kind into a concrete piece.
func MakePiece(c Color, k PieceKind) Piece {
	if k == NoPieceKind {
		return NoPiece
	}
	return Piece(uint8(k) + 6*uint8(c))
}

// Kind strips the color from a piece.
func (p Piece) Kind() PieceKind {
	if p == NoPiece {
		return NoPieceKind
	}
	if p > WhiteKing {
		return PieceKind(p - 6)
	}
	return PieceKind(p)
}

// Color returns the side owning the piece. Only valid for real pieces.
func (p Piece) Color() Color {
	if p > WhiteKing {
		return Black
	}
	return White
}

// Square indexes the board, A1=0 .. H8=63, file-major within each rank.
type Square int

const NoSquare Square = -1

const (
	SquareA1 Square = 0
	SquareC1 Square = 2
	SquareD1 Square = 3
	SquareE1 Square = 4
	SquareF1 Square = 5
	SquareG1 Square = 6
	SquareH1 Square = 7
	SquareA8 Square = 56
	SquareC8 Square = 58
	SquareD8 Square = 59
	SquareE8 Square = 60
	SquareF8 Square = 61
	SquareG8 Square = 62
	SquareH8 Square = 63
)

// MakeSquare builds a square from rank and file indices in [0,8).
func MakeSquare(rank, file int) Square { return Square(rank*8 + file) }

// File of the square, 0 = a-file.
func (s Square) File() int { return int(s) & 7 }

// Rank of the square, 0 = first rank.
func (s Square) Rank() int { return int(s) >> 3 }

// String renders the square in algebraic notation ("e4").
func (s Square) String() string {
	if s == NoSquare {
		return "-"
	}
	return string([]byte{'a' + byte(s.File()), '1' + byte(s.Rank())})
}

// ParseSquare converts algebraic notation into a square.
func ParseSquare(str string) Square {
	if len(str) != 2 || str[0] < 'a' || str[0] > 'h' || str[1] < '1' || str[1] > '8' {
		return NoSquare
	}
	return MakeSquare(int(str[1]-'1'), int(str[0]-'a'))
}

// Castling is a set of castling rights. The same bits double as the castling
// kind of a move: KingCastling and QueenCastling select the side-appropriate
// right via castlingRightsOf.
type Castling uint8

const (
	NoCastling Castling = 0
	WhiteOO    Castling = 1
	WhiteOOO   Castling = 2
	BlackOO    Castling = 4
	BlackOOO   Castling = 8

	KingCastling  = WhiteOO | BlackOO
	QueenCastling = WhiteOOO | BlackOOO
	AnyCastling   = WhiteOO | WhiteOOO | BlackOO | BlackOOO
)

var castlingRightsOf = [2]Castling{WhiteOO | WhiteOOO, BlackOO | BlackOOO}

var kingSideRookSquare = [2]Square{SquareH1, SquareH8}
var queenSideRookSquare = [2]Square{SquareA1, SquareA8}

const (
	// MaxPlies bounds the hash history kept for repetition detection.
	MaxPlies = 1024
	// MaxMoves bounds the number of legal moves in any position.
	MaxMoves = 256
)

// Position is the authoritative board state. It is mutated only through
// DoMove/UndoMove/DoNullMove/UndoNullMove; every do has exactly one matching
// undo and the pair restores the position exactly, hash included.
type Position struct {
	board      [64]Piece
	byColor    [2]uint64
	byKind     [7]uint64 // indexed by PieceKind, slot 0 unused
	piecePos   [13][10]Square
	pieceCount [13]int

	sideToMove      Color
	castlingRights  Castling
	enpassantSquare Square
	halfMoveCounter uint8
	plyCounter      int

	hash HashKey

	history      [MaxPlies]uint64
	historyCount int
}

// SideToMove reports which side is to play.
func (p *Position) SideToMove() Color { return p.sideToMove }

// CastlingRights returns the current castling rights set.
func (p *Position) CastlingRights() Castling { return p.castlingRights }

// EnpassantSquare returns the square behind a just double-pushed pawn, or
// NoSquare.
func (p *Position) EnpassantSquare() Square { return p.enpassantSquare }

// HalfMoveCounter returns the plies since the last pawn move or capture.
func (p *Position) HalfMoveCounter() int { return int(p.halfMoveCounter) }

// PlyCounter returns the total plies from the start of the modeled game.
func (p *Position) PlyCounter() int { return p.plyCounter }

// Hash returns the full Zobrist key of the position. The composition matches
// the opening book keying, including the en-passant rule.
func (p *Position) Hash() uint64 { return p.hash.Key() }

// PawnHash returns the pawn-placement subkey.
func (p *Position) PawnHash() uint64 { return p.hash.PawnKey() }

// PieceAt returns the piece on the square, or NoPiece.
func (p *Position) PieceAt(sq Square) Piece { return p.board[sq] }

// Occupied returns the bitboard of all occupied squares.
func (p *Position) Occupied() uint64 { return p.byColor[White] | p.byColor[Black] }

// ByColor returns the occupancy of one side.
func (p *Position) ByColor(c Color) uint64 { return p.byColor[c] }

// ByKind returns the occupancy of one piece kind, both colors.
func (p *Position) ByKind(k PieceKind) uint64 { return p.byKind[k] }

// PieceBB returns the bitboard of one concrete piece.
func (p *Position) PieceBB(c Color, k PieceKind) uint64 {
	return p.byColor[c] & p.byKind[k]
}

// PieceCount returns how many pieces of the given type are on the board.
func (p *Position) PieceCount(piece Piece) int { return p.pieceCount[piece] }

// PiecePosition returns the i-th square of the given piece's unordered list.
func (p *Position) PiecePosition(piece Piece, i int) Square { return p.piecePos[piece][i] }

// KingSquare returns the king square of the given side.
func (p *Position) KingSquare(c Color) Square {
	return p.piecePos[MakePiece(c, King)][0]
}

// NonPawnCount returns the number of knights, bishops, rooks and queens of
// the given side. Null-move pruning requires at least one.
func (p *Position) NonPawnCount(c Color) int {
	return p.pieceCount[MakePiece(c, Knight)] +
		p.pieceCount[MakePiece(c, Bishop)] +
		p.pieceCount[MakePiece(c, Rook)] +
		p.pieceCount[MakePiece(c, Queen)]
}

// squareBB returns a bitboard with the single square bit set.
func squareBB(sq Square) uint64 { return 1 << uint(sq) }

// popLSB removes and returns the least significant set bit's index.
func popLSB(mask *uint64) int {
	idx := bits.TrailingZeros64(*mask)
	*mask &= *mask - 1
	return idx
}

// addPiece places a piece on an empty square, updating bitboards, piece
// lists and the hash.
func (p *Position) addPiece(piece Piece, sq Square) {
	p.board[sq] = piece
	p.byColor[piece.Color()] |= squareBB(sq)
	p.byKind[piece.Kind()] |= squareBB(sq)
	p.piecePos[piece][p.pieceCount[piece]] = sq
	p.pieceCount[piece]++
	p.hash.togglePiece(piece, sq)
}

// removePiece clears a square, updating bitboards, piece lists and the hash.
func (p *Position) removePiece(sq Square) {
	piece := p.board[sq]
	p.board[sq] = NoPiece
	p.byColor[piece.Color()] ^= squareBB(sq)
	p.byKind[piece.Kind()] ^= squareBB(sq)

	// The list is unordered: overwrite the removed entry with the last one.
	for i := 0; i < p.pieceCount[piece]-1; i++ {
		if p.piecePos[piece][i] == sq {
			p.piecePos[piece][i] = p.piecePos[piece][p.pieceCount[piece]-1]
			break
		}
	}
	p.pieceCount[piece]--
	p.hash.togglePiece(piece, sq)
}

// movePiece moves a piece to an empty square.
func (p *Position) movePiece(from, to Square) {
	piece := p.board[from]
	p.board[from] = NoPiece
	p.board[to] = piece

	change := squareBB(from) | squareBB(to)
	p.byColor[piece.Color()] ^= change
	p.byKind[piece.Kind()] ^= change

	for i := 0; i < p.pieceCount[piece]; i++ {
		if p.piecePos[piece][i] == from {
			p.piecePos[piece][i] = to
			break
		}
	}
	p.hash.movePiece(piece, from, to)
}

func (p *Position) changeSide() {
	p.hash.flipSide()
	p.sideToMove = p.sideToMove.Other()
}

// enpassantHashApplies reports whether the en-passant subkey participates in
// the hash: only when a pawn of the side to move can actually capture to the
// en-passant square. Required for opening-book key compatibility.
func (p *Position) enpassantHashApplies() bool {
	if p.enpassantSquare == NoSquare {
		return false
	}
	mover := p.sideToMove.Other()
	return pawnAttacksTab[mover][p.enpassantSquare]&p.PieceBB(p.sideToMove, Pawn) != 0
}

// IsInCheck reports whether the given side's king is attacked.
func (p *Position) IsInCheck(side Color) bool {
	ksq := p.KingSquare(side)
	return p.attackedBy(ksq, side.Other(), p.Occupied(), 0)
}

// attackedBy reports whether square s is attacked by a piece of color `by`,
// with the given occupancy. Bits in removed are excluded from the attacker
// sets (captured pieces during legality simulation).
func (p *Position) attackedBy(s Square, by Color, occ uint64, removed uint64) bool {
	if pawnAttacksTab[by.Other()][s]&(p.PieceBB(by, Pawn)&^removed) != 0 {
		return true
	}
	if knightMask[s]&(p.PieceBB(by, Knight)&^removed) != 0 {
		return true
	}
	if kingMask[s]&p.PieceBB(by, King) != 0 {
		return true
	}
	if bq := (p.PieceBB(by, Bishop) | p.PieceBB(by, Queen)) &^ removed; bq != 0 {
		if BishopAttacks(s, occ)&bq != 0 {
			return true
		}
	}
	if rq := (p.PieceBB(by, Rook) | p.PieceBB(by, Queen)) &^ removed; rq != 0 {
		if RookAttacks(s, occ)&rq != 0 {
			return true
		}
	}
	return false
}

// SquareAttackers returns the bitboard of all pieces of the given color that
// attack the square under the current occupancy.
func (p *Position) SquareAttackers(sq Square, by Color) uint64 {
	occ := p.Occupied()
	var attackers uint64
	attackers |= pawnAttacksTab[by.Other()][sq] & p.PieceBB(by, Pawn)
	attackers |= knightMask[sq] & p.PieceBB(by, Knight)
	attackers |= BishopAttacks(sq, occ) & (p.PieceBB(by, Bishop) | p.PieceBB(by, Queen))
	attackers |= RookAttacks(sq, occ) & (p.PieceBB(by, Rook) | p.PieceBB(by, Queen))
	attackers |= kingMask[sq] & p.PieceBB(by, King)
	return attackers
}

// IsCheckmate reports whether the side to move has no legal moves while in
// check.
func (p *Position) IsCheckmate() bool {
	var buf [MaxMoves]Move
	return len(p.GenerateMovesInto(buf[:])) == 0 && p.IsInCheck(p.sideToMove)
}

// IsStalemate reports whether the side to move has no legal moves while not
// in check.
func (p *Position) IsStalemate() bool {
	var buf [MaxMoves]Move
	return len(p.GenerateMovesInto(buf[:])) == 0 && !p.IsInCheck(p.sideToMove)
}

// IsDraw combines the fifty-move rule, threefold repetition and insufficient
// material.
func (p *Position) IsDraw() bool {
	return p.Rule50() || p.ThreefoldRepetition() || !p.EnoughMaterial()
}

// Rule50 reports a fifty-move-rule draw.
func (p *Position) Rule50() bool { return p.halfMoveCounter >= 100 }

// ThreefoldRepetition reports whether the current key already occurred at
// least twice earlier in the position's history.
func (p *Position) ThreefoldRepetition() bool {
	count := 1
	key := p.hash.Key()
	for i := p.historyCount - 2; i >= 0; i-- {
		if p.history[i] == key {
			count++
			if count == 3 {
				return true
			}
		}
	}
	return false
}

// IsRepeated reports whether the current key occurred at least once before.
func (p *Position) IsRepeated() bool {
	key := p.hash.Key()
	for i := p.historyCount - 2; i >= 0; i-- {
		if p.history[i] == key {
			return true
		}
	}
	return false
}

// materialSignature packs the ten non-king piece counts into 4-bit fields.
func (p *Position) materialSignature() uint64 {
	var sig uint64
	pieces := [10]Piece{
		WhitePawn, WhiteKnight, WhiteBishop, WhiteRook, WhiteQueen,
		BlackPawn, BlackKnight, BlackBishop, BlackRook, BlackQueen,
	}
	for i, piece := range pieces {
		sig |= uint64(p.pieceCount[piece]) << (4 * i)
	}
	return sig
}

// EnoughMaterial reports false only for the closed set of dead positions:
// K vs K, K+N vs K and K+B vs K.
func (p *Position) EnoughMaterial() bool {
	sig := p.materialSignature()
	deadSignatures := [5]uint64{
		0,
		uint64(1) << (4 * 1), // white knight only
		uint64(1) << (4 * 2), // white bishop only
		uint64(1) << (4 * 6), // black knight only
		uint64(1) << (4 * 7), // black bishop only
	}
	for _, dead := range deadSignatures {
		if sig == dead {
			return false
		}
	}
	return true
}

// IsLegal validates the basic shape of a reachable position: one king per
// side, kings not adjacent, and the side not on move not in check.
func (p *Position) IsLegal() bool {
	if p.pieceCount[WhiteKing] != 1 || p.pieceCount[BlackKing] != 1 {
		return false
	}
	if kingMask[p.KingSquare(White)]&squareBB(p.KingSquare(Black)) != 0 {
		return false
	}
	if p.IsInCheck(p.sideToMove.Other()) {
		return false
	}
	return true
}

// MoveIsQuiet reports whether a move is quiet: no capture, no en passant, no
// promotion. Castling counts as quiet.
func (p *Position) MoveIsQuiet(m Move) bool {
	if m.Castling() != NoCastling {
		return true
	}
	if m.Promotion() != NoPieceKind {
		return false
	}
	if m.To() == p.enpassantSquare && p.board[m.From()].Kind() == Pawn {
		return false
	}
	return p.board[m.To()] == NoPiece
}

// MoveIsCapture reports whether a move captures a piece, including en
// passant.
func (p *Position) MoveIsCapture(m Move) bool {
	if m.Castling() != NoCastling {
		return false
	}
	return p.board[m.To()] != NoPiece ||
		(p.board[m.From()].Kind() == Pawn && m.To() == p.enpassantSquare)
}

// Equal compares the observable position state: board, side to move,
// castling rights, en-passant square and the composed hash. History depth
// and ply counters are deliberately excluded, matching the repetition rule.
func (p *Position) Equal(other *Position) bool {
	if p.hash.Key() != other.hash.Key() {
		return false
	}
	if p.sideToMove != other.sideToMove ||
		p.castlingRights != other.castlingRights ||
		p.enpassantSquare != other.enpassantSquare {
		return false
	}
	return p.board == other.board
}
