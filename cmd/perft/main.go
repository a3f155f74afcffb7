// Command perft runs a perft divide over a position, splitting the root
// moves across goroutines, and can cross-check the total against the
// dragontoothmg move generator.
package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/dylhunn/dragontoothmg"
	"golang.org/x/sync/errgroup"

	"github.com/adajed/chess-engine/chessmg"
)

func main() {
	fen := flag.String("fen", chessmg.StartposFEN, "position to run perft on")
	depth := flag.Int("depth", 5, "perft depth")
	compare := flag.Bool("compare", false, "cross-check the total against dragontoothmg")
	flag.Parse()

	pos, err := chessmg.FromFEN(*fen)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	start := time.Now()
	counts := parallelDivide(pos, *depth)
	elapsed := time.Since(start)

	ucis := make([]string, 0, len(counts))
	for uci := range counts {
		ucis = append(ucis, uci)
	}
	sort.Strings(ucis)

	var total uint64
	for _, uci := range ucis {
		fmt.Printf("%s: %d\n", uci, counts[uci])
		total += counts[uci]
	}
	fmt.Printf("\nNumber of nodes: %d\n", total)
	fmt.Printf("Time: %dms\n", elapsed.Milliseconds())
	if ms := elapsed.Milliseconds(); ms > 0 {
		fmt.Printf("Speed: %dnps\n", int64(total)*1000/ms)
	}

	if *compare {
		reference := dragontoothPerft(*fen, *depth)
		if reference != total {
			fmt.Printf("MISMATCH: dragontoothmg says %d\n", reference)
			os.Exit(1)
		}
		fmt.Printf("dragontoothmg agrees: %d\n", reference)
	}
}

// parallelDivide fans the root moves out over an errgroup, one position copy
// per goroutine.
func parallelDivide(pos *chessmg.Position, depth int) map[string]uint64 {
	var buf [chessmg.MaxMoves]chessmg.Move
	moves := pos.GenerateMovesInto(buf[:])

	counts := make(map[string]uint64, len(moves))
	var mu sync.Mutex
	var g errgroup.Group

	for _, m := range moves {
		move := m
		uci := pos.UCI(move)
		child := *pos
		child.DoMove(move)
		g.Go(func() error {
			n := uint64(1)
			if depth > 1 {
				n = chessmg.Perft(&child, depth-1)
			}
			mu.Lock()
			counts[uci] = n
			mu.Unlock()
			return nil
		})
	}
	g.Wait()
	return counts
}

func dragontoothPerft(fen string, depth int) uint64 {
	board := dragontoothmg.ParseFen(fen)
	return countDragontooth(&board, depth)
}

func countDragontooth(board *dragontoothmg.Board, depth int) uint64 {
	if depth == 0 {
		return 1
	}
	moves := board.GenerateLegalMoves()
	if depth == 1 {
		return uint64(len(moves))
	}
	var nodes uint64
	for _, m := range moves {
		undo := board.Apply(m)
		nodes += countDragontooth(board, depth-1)
		undo()
	}
	return nodes
}
