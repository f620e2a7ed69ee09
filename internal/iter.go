package internal

import (
	"iter"
	"slices"
)

// Permutations iterates every ordering of items. Each yielded slice is a
// fresh copy the consumer may keep.
func Permutations[T any](items []T) iter.Seq[[]T] {
	return func(yield func([]T) bool) {
		perm := slices.Clone(items)

		var permute func(k int) bool
		permute = func(k int) bool {
			if k == len(perm) {
				return yield(slices.Clone(perm))
			}
			for n := k; n < len(perm); n++ {
				perm[k], perm[n] = perm[n], perm[k]
				if !permute(k + 1) {
					return false // Stop if the consumer stops
				}
				perm[k], perm[n] = perm[n], perm[k]
			}
			return true
		}

		permute(0)
	}
}
