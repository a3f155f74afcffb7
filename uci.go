// Command chess-engine is the UCI front end: it parses protocol lines,
// maintains the game position, probes the opening book and drives the
// search.
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/adajed/chess-engine/chessmg"
	"github.com/adajed/chess-engine/engine"
)

const engineName = "Deep Chess"
const engineAuthor = "Adam Jedrych"

type uciState struct {
	position *chessmg.Position
	scorer   engine.Scorer
	endgames *engine.EndgameTable
	logger   engine.Logger
	book     *engine.Book
	bookSeed int64
	search   *engine.Search
}

func main() {
	if os.Getenv("ENGINE_DEBUG") != "" {
		engine.SetDiagLevel(zerolog.DebugLevel)
	}
	uciLoop(os.Stdin, os.Stdout)
}

func uciLoop(in io.Reader, out io.Writer) {
	state := &uciState{
		position: chessmg.NewPosition(),
		scorer:   engine.MaterialScorer{},
		endgames: engine.NewEndgameTable(),
		logger:   engine.NewLogger(out),
	}

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 1<<16), 1<<20)

	for scanner.Scan() {
		tokens := strings.Fields(scanner.Text())
		if len(tokens) == 0 {
			continue
		}

		switch strings.ToLower(tokens[0]) {
		case "uci":
			state.logger.Println("id name " + engineName)
			state.logger.Println("id author " + engineAuthor)
			state.logger.Println("option name Polyglot Book type string default ")
			state.logger.Println("option name Book Seed type spin default 0 min 0 max 1000000")
			state.logger.Println("uciok")
		case "isready":
			state.logger.Println("readyok")
		case "ucinewgame":
			state.position = chessmg.NewPosition()
		case "setoption":
			state.setOption(tokens[1:])
		case "position":
			state.positionCommand(tokens[1:])
		case "go":
			state.goCommand(tokens[1:])
		case "stop":
			if state.search != nil {
				state.search.Stop()
			}
		case "printboard":
			fmt.Print(state.position.String())
		case "hash":
			state.logger.Println(fmt.Sprintf("%016x", state.position.Hash()))
		case "perft":
			state.perftCommand(tokens[1:])
		case "quit":
			if state.search != nil {
				state.search.Stop()
			}
			return
		default:
			state.logger.Println("Unknown command")
		}
	}
}

func (s *uciState) setOption(tokens []string) {
	if len(tokens) < 2 || tokens[0] != "name" {
		return
	}
	var name, value []string
	rest := tokens[1:]
	for i, tok := range rest {
		if tok == "value" {
			value = rest[i+1:]
			break
		}
		name = append(name, tok)
	}

	switch strings.Join(name, " ") {
	case "Polyglot Book":
		if len(value) == 0 {
			s.book = nil
			return
		}
		book := engine.NewBookSeeded(s.bookSeed)
		if s.bookSeed == 0 {
			book = engine.NewBook()
		}
		if err := book.LoadFile(strings.Join(value, " ")); err != nil {
			s.logger.Println("info string " + err.Error())
			return
		}
		s.book = book
	case "Book Seed":
		if len(value) == 1 {
			if seed, err := strconv.ParseInt(value[0], 10, 64); err == nil {
				s.bookSeed = seed
			}
		}
	}
}

func (s *uciState) positionCommand(tokens []string) {
	if len(tokens) == 0 {
		return
	}

	var movesIndex int
	switch tokens[0] {
	case "startpos":
		s.position = chessmg.NewPosition()
		movesIndex = 1
	case "fen":
		fenEnd := len(tokens)
		for i, tok := range tokens {
			if tok == "moves" {
				fenEnd = i
				break
			}
		}
		pos, err := chessmg.FromFEN(strings.Join(tokens[1:fenEnd], " "))
		if err != nil {
			s.logger.Println("info string " + err.Error())
			return
		}
		s.position = pos
		movesIndex = fenEnd
	default:
		return
	}

	if movesIndex < len(tokens) && tokens[movesIndex] == "moves" {
		for _, moveStr := range tokens[movesIndex+1:] {
			if !s.playMove(moveStr) {
				s.logger.Println("info string illegal move " + moveStr)
				return
			}
		}
	}
}

// playMove applies a UCI move string if it is legal in the current position.
func (s *uciState) playMove(moveStr string) bool {
	move := s.position.ParseUCI(moveStr)
	if move == chessmg.NoMove {
		return false
	}
	var buf [chessmg.MaxMoves]chessmg.Move
	for _, legal := range s.position.GenerateMovesInto(buf[:]) {
		if legal == move {
			s.position.DoMove(move)
			return true
		}
	}
	return false
}

func (s *uciState) goCommand(tokens []string) {
	var limits engine.Limits

	for i := 0; i < len(tokens); i++ {
		switch tokens[i] {
		case "infinite":
			limits.Infinite = true
		case "depth":
			i++
			limits.Depth = atoiAt(tokens, i)
		case "movetime":
			i++
			limits.MoveTime = int64(atoiAt(tokens, i))
		case "wtime":
			i++
			limits.TimeLeft[chessmg.White] = int64(atoiAt(tokens, i))
		case "btime":
			i++
			limits.TimeLeft[chessmg.Black] = int64(atoiAt(tokens, i))
		case "winc":
			i++
			limits.TimeInc[chessmg.White] = int64(atoiAt(tokens, i))
		case "binc":
			i++
			limits.TimeInc[chessmg.Black] = int64(atoiAt(tokens, i))
		case "movestogo":
			i++
			limits.MovesToGo = atoiAt(tokens, i)
		case "nodes":
			i++
			limits.Nodes = int64(atoiAt(tokens, i))
		case "searchmoves":
			for i+1 < len(tokens) {
				move := s.position.ParseUCI(tokens[i+1])
				if move == chessmg.NoMove {
					break
				}
				limits.SearchMoves = append(limits.SearchMoves, move)
				i++
			}
		}
	}

	// Book hit answers immediately, bypassing the search.
	if s.book != nil && s.book.Contains(s.position.Hash()) {
		if move := s.book.RandomMove(s.position.Hash(), s.position); move != chessmg.NoMove {
			s.logger.Println("bestmove " + s.position.UCI(move))
			return
		}
	}

	s.search = engine.NewSearch(s.position, s.scorer, limits, s.logger)
	s.search.UseEndgames(s.endgames)
	go s.search.Go()
}

func (s *uciState) perftCommand(tokens []string) {
	depth := 1
	if len(tokens) > 0 {
		depth = atoiAt(tokens, 0)
	}
	start := time.Now()
	var total uint64
	for uci, nodes := range chessmg.PerftDivide(s.position, depth) {
		s.logger.Println(fmt.Sprintf("%s: %d", uci, nodes))
		total += nodes
	}
	elapsed := time.Since(start).Milliseconds()
	s.logger.Println(fmt.Sprintf("Number of nodes: %d", total))
	s.logger.Println(fmt.Sprintf("Time: %dms", elapsed))
}

func atoiAt(tokens []string, i int) int {
	if i >= len(tokens) {
		return 0
	}
	v, err := strconv.Atoi(tokens[i])
	if err != nil {
		return 0
	}
	return v
}
