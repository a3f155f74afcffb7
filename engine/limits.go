package engine

import "github.com/adajed/chess-engine/chessmg"

// infiniteTime is the sentinel budget for searches without a clock.
const infiniteTime int64 = 1 << 32

// Limits configures a single search. Zero values mean "not set".
type Limits struct {
	// Infinite searches until stopped.
	Infinite bool
	// Depth bounds the iterative deepening; 0 leaves the depth to the other
	// limits, or to the default depth 7 when none is set.
	Depth int
	// MoveTime fixes the time budget in milliseconds.
	MoveTime int64
	// TimeLeft is the remaining clock per side in milliseconds.
	TimeLeft [2]int64
	// TimeInc is the increment per side in milliseconds.
	TimeInc [2]int64
	// MovesToGo is the number of moves until the next time control;
	// 0 is treated as 20.
	MovesToGo int
	// Nodes bounds the searched node count, 0 for unbounded.
	Nodes int64
	// SearchMoves restricts the root to the given moves when non-empty.
	SearchMoves []chessmg.Move
}

// resolve turns the limits into a concrete depth and time budget, in order
// of precedence: infinite, explicit depth, explicit movetime, clock share,
// default depth 7.
func (l Limits) resolve(side chessmg.Color) (depth int, searchTime int64) {
	switch {
	case l.Infinite:
		return MaxDepth, infiniteTime
	case l.Depth != 0:
		return Min(l.Depth, MaxDepth), infiniteTime
	case l.MoveTime != 0:
		return MaxDepth, l.MoveTime
	case l.TimeLeft[side] != 0:
		movesToGo := l.MovesToGo
		if movesToGo == 0 {
			movesToGo = 20
		}
		return MaxDepth, l.TimeLeft[side] / int64(movesToGo+1)
	default:
		return 7, infiniteTime
	}
}
