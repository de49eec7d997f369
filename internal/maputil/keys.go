// Package maputil provides helpers for deterministic map iteration.
package maputil

import (
	"cmp"
	"maps"
	"slices"
)

// SortedKeys returns the keys of m in ascending order. A nil or empty map
// yields an empty, non-nil slice.
func SortedKeys[M ~map[K]V, K cmp.Ordered, V any](m M) []K {
	keys := make([]K, 0, len(m))
	keys = slices.AppendSeq(keys, maps.Keys(m))
	slices.Sort(keys)
	return keys
}
