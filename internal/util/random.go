package util

import "math/rand"

// Shuffle returns a new slice with the elements in uniformly random order
// (Fisher-Yates). The input is not modified.
func Shuffle[T any](items []T) []T {
	result := make([]T, len(items))
	copy(result, items)
	for i := len(result) - 1; i > 0; i-- {
		j := rand.Intn(i + 1)
		result[i], result[j] = result[j], result[i]
	}
	return result
}

// RandomSubset returns up to size elements chosen uniformly without
// replacement: a full shuffle followed by a prefix slice.
func RandomSubset[T any](items []T, size int) []T {
	if size >= len(items) {
		return Shuffle(items)
	}
	return Shuffle(items)[:size]
}
