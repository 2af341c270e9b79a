package math

import (
	"golang.org/x/exp/constraints"
)

// Clamp returns f bounded to the closed interval [low, high].
func Clamp[T constraints.Ordered](f, low, high T) T {
	if f < low {
		return low
	}
	if f > high {
		return high
	}
	return f
}
