package meshcut

import (
	"fmt"
	"sync/atomic"
)

// An arena is an append-only collection which supports concurrent appends.
//
// Writers reserve a range of slots with an atomic cursor and then fill in
// those slots. Elements are never modified once written.
type arena[T any] struct {
	items  []T
	length atomic.Int64
}

func newArena[T any](capacity int) *arena[T] {
	return &arena[T]{items: make([]T, capacity)}
}

// Reserve claims n consecutive slots and returns the index of the first one.
func (a *arena[T]) Reserve(n int) int {
	end := int(a.length.Add(int64(n)))
	if end > len(a.items) {
		panic(fmt.Sprintf("arena overflow: %d > %d", end, len(a.items)))
	}
	return end - n
}

func (a *arena[T]) Append(x T) {
	a.items[a.Reserve(1)] = x
}

func (a *arena[T]) Len() int {
	return int(a.length.Load())
}

// Grow adds capacity for extra more elements.
//
// This may not be called while other Goroutines are appending.
func (a *arena[T]) Grow(extra int) {
	if extra <= 0 {
		return
	}
	items := make([]T, len(a.items)+extra)
	copy(items, a.items[:a.Len()])
	a.items = items
}

// Slice returns the appended elements.
func (a *arena[T]) Slice() []T {
	return a.items[:a.Len():a.Len()]
}
