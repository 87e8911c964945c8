package analysis

import (
	"golang.org/x/exp/constraints"
)

type Number interface {
	constraints.Float | constraints.Integer
}

func Mean[T Number](s []T) float64 {
	if len(s) == 0 {
		return 0
	}
	var sum float64
	for _, v := range s {
		sum += float64(v)
	}
	return sum / float64(len(s))
}

// MaxIndex returns the index of the first maximum, or -1 for an empty slice.
func MaxIndex[T constraints.Ordered](s []T) int {
	if len(s) == 0 {
		return -1
	}
	idx := 0
	for i := range s {
		if s[i] > s[idx] {
			idx = i
		}
	}
	return idx
}

// MinIndex returns the index of the first minimum, or -1 for an empty slice.
func MinIndex[T constraints.Ordered](s []T) int {
	if len(s) == 0 {
		return -1
	}
	idx := 0
	for i := range s {
		if s[i] < s[idx] {
			idx = i
		}
	}
	return idx
}
