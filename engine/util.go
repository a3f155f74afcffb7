// Package engine implements the search on top of the chessmg core:
// iterative-deepening alpha-beta with principal-variation search, null-move
// pruning and a capture-only quiescence, plus the endgame recognizer and the
// Polyglot opening book.
package engine

import "golang.org/x/exp/constraints"

// Min returns the smaller of x and y.
func Min[T constraints.Ordered](x, y T) T {
	if x < y {
		return x
	}
	return y
}

// Max returns the larger of x and y.
func Max[T constraints.Ordered](x, y T) T {
	if x > y {
		return x
	}
	return y
}

// Abs returns the absolute value of x.
func Abs[T constraints.Signed](x T) T {
	if x < 0 {
		return -x
	}
	return x
}

// Clamp restricts v to the inclusive range [low, high].
func Clamp[T constraints.Ordered](v, low, high T) T {
	if v < low {
		return low
	}
	if v > high {
		return high
	}
	return v
}
