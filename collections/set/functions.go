// Package set provides functions that maintain sorted, duplicate-free slices
// ("ordered sets") for element types that are compared with a function,
// e.g. byte strings compared with bytes.Compare.
package set

import (
	"sort"
)

// CompareFn compares two elements and returns a negative number if e1 < e2,
// zero if e1 == e2 and a positive number if e1 > e2.
type CompareFn[T any] func(e1, e2 T) int

// ContainsFn returns true if the ordered set contains the given element, false otherwise.
func ContainsFn[T any](cmp CompareFn[T], set []T, elem T) bool {
	_, found := sort.Find(len(set), func(i int) int {
		return cmp(elem, set[i])
	})
	return found
}

// InsertFn inserts elements into an ordered set and returns the new ordered set. Elements already contained in the
// set are skipped. The given set is modified in place if it has enough capacity; pass nil to build a new set from
// unordered elements.
func InsertFn[T any](cmp CompareFn[T], set []T, elements ...T) []T {
	if len(set)+len(elements) > cap(set) {
		grown := make([]T, len(set), len(set)+len(elements))
		copy(grown, set)
		set = grown
	}

	for _, elem := range elements {
		idx, found := sort.Find(len(set), func(i int) int {
			return cmp(elem, set[i])
		})
		if found {
			continue
		}
		set = append(set, elem)
		copy(set[idx+1:], set[idx:])
		set[idx] = elem
	}
	return set
}
