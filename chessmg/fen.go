package chessmg

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// StartposFEN is the standard initial position.
const StartposFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

func pieceFromChar(ch byte) Piece {
	switch ch {
	case 'P':
		return WhitePawn
	case 'N':
		return WhiteKnight
	case 'B':
		return WhiteBishop
	case 'R':
		return WhiteRook
	case 'Q':
		return WhiteQueen
	case 'K':
		return WhiteKing
	case 'p':
		return BlackPawn
	case 'n':
		return BlackKnight
	case 'b':
		return BlackBishop
	case 'r':
		return BlackRook
	case 'q':
		return BlackQueen
	case 'k':
		return BlackKing
	default:
		return NoPiece
	}
}

func charFromPiece(p Piece) byte {
	return " PNBRQKpnbrqk"[p]
}

// NewPosition returns the standard initial position.
func NewPosition() *Position {
	p, err := FromFEN(StartposFEN)
	if err != nil {
		panic(err)
	}
	return p
}

// PlacedPiece pairs a piece with its square for FromPieces.
type PlacedPiece struct {
	Piece  Piece
	Square Square
}

// FromPieces builds a position from an explicit placement with the given
// side to move and no castling rights or en-passant square.
func FromPieces(pieces []PlacedPiece, side Color) *Position {
	p := &Position{enpassantSquare: NoSquare}
	for _, pp := range pieces {
		p.board[pp.Square] = pp.Piece
		p.byColor[pp.Piece.Color()] |= squareBB(pp.Square)
		p.byKind[pp.Piece.Kind()] |= squareBB(pp.Square)
		p.piecePos[pp.Piece][p.pieceCount[pp.Piece]] = pp.Square
		p.pieceCount[pp.Piece]++
	}
	p.sideToMove = side
	p.plyCounter = 1
	p.hash.init(p)
	p.history[0] = p.hash.Key()
	p.historyCount = 1
	return p
}

// FromFEN parses a six-field FEN string into a Position. Arbitrary
// whitespace between fields is accepted; the half-move and full-move fields
// may be omitted. The Zobrist key is recomputed from scratch.
func FromFEN(fen string) (*Position, error) {
	fields := strings.Fields(fen)
	if len(fields) < 4 {
		return nil, errors.New("fen: not enough fields")
	}

	p := &Position{enpassantSquare: NoSquare}

	ranks := strings.Split(fields[0], "/")
	if len(ranks) != 8 {
		return nil, errors.New("fen: piece placement must have 8 ranks")
	}
	for i, rankStr := range ranks {
		rank := 7 - i
		file := 0
		for j := 0; j < len(rankStr); j++ {
			ch := rankStr[j]
			if ch >= '1' && ch <= '8' {
				file += int(ch - '0')
				continue
			}
			piece := pieceFromChar(ch)
			if piece == NoPiece {
				return nil, fmt.Errorf("fen: unknown piece character %q", ch)
			}
			if file >= 8 {
				return nil, errors.New("fen: too many squares in rank")
			}
			if p.pieceCount[piece] >= len(p.piecePos[piece]) {
				return nil, fmt.Errorf("fen: too many %c pieces", ch)
			}
			sq := MakeSquare(rank, file)
			p.board[sq] = piece
			p.byColor[piece.Color()] |= squareBB(sq)
			p.byKind[piece.Kind()] |= squareBB(sq)
			p.piecePos[piece][p.pieceCount[piece]] = sq
			p.pieceCount[piece]++
			file++
		}
		if file != 8 {
			return nil, errors.New("fen: rank does not describe 8 squares")
		}
	}

	switch fields[1] {
	case "w":
		p.sideToMove = White
	case "b":
		p.sideToMove = Black
	default:
		return nil, fmt.Errorf("fen: invalid side to move %q", fields[1])
	}

	if fields[2] != "-" {
		for j := 0; j < len(fields[2]); j++ {
			switch fields[2][j] {
			case 'K':
				p.castlingRights |= WhiteOO
			case 'Q':
				p.castlingRights |= WhiteOOO
			case 'k':
				p.castlingRights |= BlackOO
			case 'q':
				p.castlingRights |= BlackOOO
			default:
				return nil, fmt.Errorf("fen: invalid castling character %q", fields[2][j])
			}
		}
	}

	if fields[3] != "-" {
		sq := ParseSquare(fields[3])
		if sq == NoSquare {
			return nil, fmt.Errorf("fen: invalid en-passant square %q", fields[3])
		}
		if r := sq.Rank(); r != 2 && r != 5 {
			return nil, fmt.Errorf("fen: en-passant square %s on impossible rank", sq)
		}
		p.enpassantSquare = sq
	}

	halfMove := 0
	if len(fields) > 4 {
		v, err := strconv.Atoi(fields[4])
		if err != nil || v < 0 {
			return nil, fmt.Errorf("fen: invalid half-move counter %q", fields[4])
		}
		halfMove = v
	}
	p.halfMoveCounter = uint8(halfMove)

	fullMove := 1
	if len(fields) > 5 {
		v, err := strconv.Atoi(fields[5])
		if err != nil || v < 1 {
			return nil, fmt.Errorf("fen: invalid full-move number %q", fields[5])
		}
		fullMove = v
	}
	p.plyCounter = 2*fullMove - 1
	if p.sideToMove == Black {
		p.plyCounter++
	}

	// Normalize: the en-passant square is kept only when a pawn of the side
	// to move can actually capture to it.
	if !p.enpassantHashApplies() {
		p.enpassantSquare = NoSquare
	}

	p.hash.init(p)
	p.history[0] = p.hash.Key()
	p.historyCount = 1

	return p, nil
}

// FEN emits the canonical six-field FEN of the position. FromFEN(FEN()) is
// the identity for any legal position.
func (p *Position) FEN() string {
	var sb strings.Builder

	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			piece := p.board[MakeSquare(rank, file)]
			if piece == NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte('0' + byte(empty))
				empty = 0
			}
			sb.WriteByte(charFromPiece(piece))
		}
		if empty > 0 {
			sb.WriteByte('0' + byte(empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}

	sb.WriteByte(' ')
	if p.sideToMove == White {
		sb.WriteByte('w')
	} else {
		sb.WriteByte('b')
	}
	sb.WriteByte(' ')

	if p.castlingRights == NoCastling {
		sb.WriteByte('-')
	} else {
		if p.castlingRights&WhiteOO != 0 {
			sb.WriteByte('K')
		}
		if p.castlingRights&WhiteOOO != 0 {
			sb.WriteByte('Q')
		}
		if p.castlingRights&BlackOO != 0 {
			sb.WriteByte('k')
		}
		if p.castlingRights&BlackOOO != 0 {
			sb.WriteByte('q')
		}
	}
	sb.WriteByte(' ')

	sb.WriteString(p.enpassantSquare.String())
	sb.WriteByte(' ')

	sb.WriteString(strconv.Itoa(int(p.halfMoveCounter)))
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa((p.plyCounter-1)/2 + 1))

	return sb.String()
}

// String renders the board diagram with FEN, hash and side to move.
func (p *Position) String() string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		fmt.Fprintf(&sb, "%d  ", rank+1)
		for file := 0; file < 8; file++ {
			piece := p.board[MakeSquare(rank, file)]
			if piece == NoPiece {
				sb.WriteString(". ")
			} else {
				sb.WriteByte(charFromPiece(piece))
				sb.WriteByte(' ')
			}
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("\n   a b c d e f g h\n\n")
	fmt.Fprintf(&sb, "Fen: %q\n", p.FEN())
	fmt.Fprintf(&sb, "Hash: %016x\n", p.Hash())
	if p.sideToMove == White {
		sb.WriteString("White to move\n")
	} else {
		sb.WriteString("Black to move\n")
	}
	return sb.String()
}
