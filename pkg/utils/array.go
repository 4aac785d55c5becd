package utils

import (
	"golang.org/x/exp/constraints"
)

// Limits a value to the [low, high] range
func Clamp[T constraints.Ordered](value, low, high T) T {
	if value < low {
		return low
	}
	if value > high {
		return high
	}
	return value
}

// Returns the position of the first item matching a predicate, or -1
func IndexFunc[T any](input []T, predicate func(T) bool) int {
	for i, item := range input {
		if predicate(item) {
			return i
		}
	}
	return -1
}
