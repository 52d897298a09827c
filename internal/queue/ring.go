// Package queue provides a fixed-capacity circular FIFO.
package queue

// Ring is a bounded FIFO over a fixed slice. The capacity never changes after New.
// A Ring is not safe for concurrent use.
type Ring[T any] struct {
	items []T
	head  int
	count int
}

// New returns an empty Ring holding at most capacity elements.
func New[T any](capacity int) *Ring[T] {
	if capacity < 1 {
		panic("queue: capacity must be positive")
	}
	return &Ring[T]{items: make([]T, capacity)}
}

// Push appends v at the tail. It returns false, leaving the ring untouched,
// when the ring is full.
func (r *Ring[T]) Push(v T) bool {
	if r.count == len(r.items) {
		return false
	}
	r.items[(r.head+r.count)%len(r.items)] = v
	r.count++
	return true
}

// Pop removes and returns the head. ok is false when the ring is empty.
func (r *Ring[T]) Pop() (v T, ok bool) {
	if r.count == 0 {
		return v, false
	}
	var zero T
	v = r.items[r.head]
	r.items[r.head] = zero
	r.head = (r.head + 1) % len(r.items)
	r.count--
	return v, true
}

// Peek returns the head without removing it.
func (r *Ring[T]) Peek() (v T, ok bool) {
	if r.count == 0 {
		return v, false
	}
	return r.items[r.head], true
}

// Each visits elements head to tail until fn returns false.
func (r *Ring[T]) Each(fn func(T) bool) {
	for i := 0; i < r.count; i++ {
		if !fn(r.items[(r.head+i)%len(r.items)]) {
			return
		}
	}
}

func (r *Ring[T]) Clear() {
	var zero T
	for i := range r.items {
		r.items[i] = zero
	}
	r.head, r.count = 0, 0
}

func (r *Ring[T]) Len() int      { return r.count }
func (r *Ring[T]) Cap() int      { return len(r.items) }
func (r *Ring[T]) IsEmpty() bool { return r.count == 0 }
func (r *Ring[T]) IsFull() bool  { return r.count == len(r.items) }
