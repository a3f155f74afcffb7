package engine

import (
	"encoding/binary"
	"fmt"
	"math/rand"
	"os"
	"sort"
	"time"

	"github.com/adajed/chess-engine/chessmg"
)

// WeightedMove is one opening book entry for a position.
type WeightedMove struct {
	Move   chessmg.Move
	Weight int
}

// Book is an in-memory opening book: a map from 64-bit position key to a
// weighted move list. The key function is Position.Hash(), whose en-passant
// rule matches the Polyglot convention. Selection is either by maximum
// weight or by weight-proportional sampling from the book's own generator.
type Book struct {
	entries map[uint64][]WeightedMove
	rng     *rand.Rand
}

// NewBook returns an empty book seeded from the wall clock.
func NewBook() *Book {
	return NewBookSeeded(time.Now().UnixNano())
}

// NewBookSeeded returns an empty book with a deterministic sampling seed.
func NewBookSeeded(seed int64) *Book {
	return &Book{
		entries: make(map[uint64][]WeightedMove),
		rng:     rand.New(rand.NewSource(seed)),
	}
}

const bookRecordSize = 16

// LoadFile reads a Polyglot book file: a sequence of 16-byte big-endian
// records holding key, move, weight and an ignored learn field. Repeated
// keys append to the same move list.
func (b *Book) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("book: %w", err)
	}
	if len(data)%bookRecordSize != 0 {
		return fmt.Errorf("book: size %d is not a multiple of %d", len(data), bookRecordSize)
	}

	records := 0
	for off := 0; off < len(data); off += bookRecordSize {
		key := binary.BigEndian.Uint64(data[off:])
		moveCode := binary.BigEndian.Uint16(data[off+8:])
		weight := binary.BigEndian.Uint16(data[off+10:])
		b.Add(key, decodeBookMove(moveCode), int(weight))
		records++
	}

	// Keep the lists ordered by descending weight so the best entry leads.
	for _, moves := range b.entries {
		sort.SliceStable(moves, func(i, j int) bool {
			return moves[i].Weight > moves[j].Weight
		})
	}

	diag.Info().
		Str("path", path).
		Int("records", records).
		Int("positions", len(b.entries)).
		Msg("opening book loaded")
	return nil
}

// Add appends an entry for the key.
func (b *Book) Add(key uint64, move chessmg.Move, weight int) {
	b.entries[key] = append(b.entries[key], WeightedMove{Move: move, Weight: weight})
}

// Contains reports whether the book knows the position key.
func (b *Book) Contains(key uint64) bool {
	_, ok := b.entries[key]
	return ok
}

// BestMove returns the maximum-weight entry for the key, decoded against the
// position. NoMove when the key is unknown.
func (b *Book) BestMove(key uint64, p *chessmg.Position) chessmg.Move {
	moves := b.entries[key]
	if len(moves) == 0 {
		return chessmg.NoMove
	}
	best := moves[0]
	for _, wm := range moves[1:] {
		if wm.Weight > best.Weight {
			best = wm
		}
	}
	return rewriteBookCastling(best.Move, p)
}

// RandomMove samples an entry proportionally to weight using the book's own
// generator. NoMove when the key is unknown or all weights are zero.
func (b *Book) RandomMove(key uint64, p *chessmg.Position) chessmg.Move {
	moves := b.entries[key]
	if len(moves) == 0 {
		return chessmg.NoMove
	}
	total := 0
	for _, wm := range moves {
		total += wm.Weight
	}
	if total <= 0 {
		return chessmg.NoMove
	}
	sample := b.rng.Intn(total)
	for _, wm := range moves {
		sample -= wm.Weight
		if sample < 0 {
			return rewriteBookCastling(wm.Move, p)
		}
	}
	return rewriteBookCastling(moves[len(moves)-1].Move, p)
}

// decodeBookMove unpacks the Polyglot 16-bit move word: 3-bit fields for
// to-file, to-rank, from-file, from-rank and promotion.
func decodeBookMove(code uint16) chessmg.Move {
	toFile := int(code) & 0x7
	toRank := int(code>>3) & 0x7
	fromFile := int(code>>6) & 0x7
	fromRank := int(code>>9) & 0x7
	promotionCode := int(code>>12) & 0x7

	promotion := chessmg.NoPieceKind
	if promotionCode != 0 {
		promotion = chessmg.Pawn + chessmg.PieceKind(promotionCode)
	}

	return chessmg.NewPromotion(
		chessmg.MakeSquare(fromRank, fromFile),
		chessmg.MakeSquare(toRank, toFile),
		promotion)
}

// rewriteBookCastling converts the Polyglot "king captures own rook"
// castling encoding (and the plain king two-step form) into the engine's
// castling move.
func rewriteBookCastling(m chessmg.Move, p *chessmg.Position) chessmg.Move {
	from := m.From()
	to := m.To()
	switch {
	case from == chessmg.SquareE1 && (to == chessmg.SquareH1 || to == chessmg.SquareG1) &&
		p.PieceAt(from) == chessmg.WhiteKing:
		return chessmg.NewCastlingMove(chessmg.KingCastling)
	case from == chessmg.SquareE1 && (to == chessmg.SquareA1 || to == chessmg.SquareC1) &&
		p.PieceAt(from) == chessmg.WhiteKing:
		return chessmg.NewCastlingMove(chessmg.QueenCastling)
	case from == chessmg.SquareE8 && (to == chessmg.SquareH8 || to == chessmg.SquareG8) &&
		p.PieceAt(from) == chessmg.BlackKing:
		return chessmg.NewCastlingMove(chessmg.KingCastling)
	case from == chessmg.SquareE8 && (to == chessmg.SquareA8 || to == chessmg.SquareC8) &&
		p.PieceAt(from) == chessmg.BlackKing:
		return chessmg.NewCastlingMove(chessmg.QueenCastling)
	}
	return m
}
