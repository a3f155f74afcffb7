package chessmg

import (
	"regexp"
	"strings"
)

var sanRegex = regexp.MustCompile(
	`^([NBRQK]?)([a-h]?)([1-8]?)x?([a-h][1-8])=?([nbrqNBRQ]?)[+#]?$`)

// UCI renders a move in UCI coordinate notation. Castling prints as the
// king's move for the side currently on move.
func (p *Position) UCI(m Move) string {
	if m.Castling() == KingCastling {
		if p.sideToMove == White {
			return "e1g1"
		}
		return "e8g8"
	}
	if m.Castling() == QueenCastling {
		if p.sideToMove == White {
			return "e1c1"
		}
		return "e8c8"
	}
	s := m.From().String() + m.To().String()
	if k := m.Promotion(); k != NoPieceKind {
		s += string(promotionChar(k))
	}
	return s
}

// ParseUCI parses a UCI move string against the current position. Castling
// written as the king's two-square move is rewritten to the castling move.
// Returns NoMove for malformed input.
func (p *Position) ParseUCI(str string) Move {
	str = strings.TrimSpace(str)
	if len(str) < 4 || len(str) > 5 {
		return NoMove
	}
	from := ParseSquare(str[0:2])
	to := ParseSquare(str[2:4])
	if from == NoSquare || to == NoSquare {
		return NoMove
	}

	promotion := NoPieceKind
	if len(str) == 5 {
		switch str[4] {
		case 'n', 'N':
			promotion = Knight
		case 'b', 'B':
			promotion = Bishop
		case 'r', 'R':
			promotion = Rook
		case 'q', 'Q':
			promotion = Queen
		default:
			return NoMove
		}
	}

	if p.board[from].Kind() == King {
		switch {
		case from == SquareE1 && to == SquareG1, from == SquareE8 && to == SquareG8:
			return NewCastlingMove(KingCastling)
		case from == SquareE1 && to == SquareC1, from == SquareE8 && to == SquareC8:
			return NewCastlingMove(QueenCastling)
		}
	}

	return NewPromotion(from, to, promotion)
}

// ParseSAN parses a SAN move string against the current position. The move
// must match exactly one legal move, otherwise NoMove is returned.
func (p *Position) ParseSAN(str string) Move {
	var buf [MaxMoves]Move
	legal := p.GenerateMovesInto(buf[:])

	if str == "0-0" || str == "O-O" {
		return findMove(legal, NewCastlingMove(KingCastling))
	}
	if str == "0-0-0" || str == "O-O-O" {
		return findMove(legal, NewCastlingMove(QueenCastling))
	}

	match := sanRegex.FindStringSubmatch(str)
	if match == nil {
		return NoMove
	}

	movedKind := Pawn
	switch match[1] {
	case "N":
		movedKind = Knight
	case "B":
		movedKind = Bishop
	case "R":
		movedKind = Rook
	case "Q":
		movedKind = Queen
	case "K":
		movedKind = King
	}

	fromFile := -1
	if match[2] != "" {
		fromFile = int(match[2][0] - 'a')
	}
	fromRank := -1
	if match[3] != "" {
		fromRank = int(match[3][0] - '1')
	}
	to := ParseSquare(match[4])

	promotion := NoPieceKind
	switch strings.ToUpper(match[5]) {
	case "N":
		promotion = Knight
	case "B":
		promotion = Bishop
	case "R":
		promotion = Rook
	case "Q":
		promotion = Queen
	}

	matching := NoMove
	count := 0
	for _, m := range legal {
		if m.Castling() != NoCastling {
			continue
		}
		if p.board[m.From()].Kind() != movedKind {
			continue
		}
		if fromFile >= 0 && m.From().File() != fromFile {
			continue
		}
		if fromRank >= 0 && m.From().Rank() != fromRank {
			continue
		}
		if m.To() != to || m.Promotion() != promotion {
			continue
		}
		matching = m
		count++
	}
	if count != 1 {
		return NoMove
	}
	return matching
}

// SAN renders a legal move in standard algebraic notation, with "+"/"#"
// suffixes determined by applying the move to a scratch copy.
func (p *Position) SAN(m Move) string {
	s := p.sanWithoutCheck(m)

	temp := *p
	temp.DoMove(m)
	if temp.IsCheckmate() {
		return s + "#"
	}
	if temp.IsInCheck(temp.sideToMove) {
		return s + "+"
	}
	return s
}

// sanWithoutCheck disambiguates by file first, then by rank, then by both,
// only as far as needed among legal moves of the same kind to the same
// destination with the same promotion.
func (p *Position) sanWithoutCheck(m Move) string {
	if m.Castling() == KingCastling {
		return "O-O"
	}
	if m.Castling() == QueenCastling {
		return "O-O-O"
	}

	movedKind := p.board[m.From()].Kind()

	var buf [MaxMoves]Move
	var matching []Move
	for _, lm := range p.GenerateMovesInto(buf[:]) {
		if lm.Castling() != NoCastling {
			continue
		}
		if p.board[lm.From()].Kind() == movedKind &&
			lm.To() == m.To() && lm.Promotion() == m.Promotion() {
			matching = append(matching, lm)
		}
	}

	var sb strings.Builder
	if movedKind != Pawn {
		sb.WriteByte(" PNBRQK"[movedKind])
	}

	if len(matching) > 1 {
		sb.WriteByte('a' + byte(m.From().File()))
		sameFile := matching[:0]
		for _, lm := range matching {
			if lm.From().File() == m.From().File() {
				sameFile = append(sameFile, lm)
			}
		}
		if len(sameFile) > 1 {
			sb.WriteByte('1' + byte(m.From().Rank()))
		}
	}

	capturing := p.byColor[p.sideToMove.Other()]
	if movedKind == Pawn && p.enpassantSquare != NoSquare {
		capturing |= squareBB(p.enpassantSquare)
	}
	if squareBB(m.To())&capturing != 0 {
		if movedKind == Pawn && sb.Len() == 0 {
			sb.WriteByte('a' + byte(m.From().File()))
		}
		sb.WriteByte('x')
	}

	sb.WriteString(m.To().String())
	if k := m.Promotion(); k != NoPieceKind {
		sb.WriteByte('=')
		sb.WriteByte(" PNBRQ"[k])
	}
	return sb.String()
}

func findMove(moves []Move, want Move) Move {
	for _, m := range moves {
		if m == want {
			return m
		}
	}
	return NoMove
}
