package utils

import (
	"cmp"
	"sort"
)

// SortStableDesc sorts xs by key, highest first. Equal keys keep their
// relative order.
func SortStableDesc[T any, K cmp.Ordered](xs []T, key func(T) K) {
	sort.SliceStable(xs, func(i, j int) bool {
		return key(xs[i]) > key(xs[j])
	})
}

// TopN returns a copy of at most n leading elements.
func TopN[T any](xs []T, n int) []T {
	if n < 0 || n > len(xs) {
		n = len(xs)
	}
	out := make([]T, n)
	copy(out, xs[:n])
	return out
}
