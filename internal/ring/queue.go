// Package ring provides a fixed-capacity FIFO queue backed by a ring buffer.
package ring

// Queue is a fixed-capacity FIFO queue. Pushing into a full queue
// overwrites the oldest element.
//
// The zero value is not usable; create queues with New.
// Queue is not safe for concurrent use. Its panics flag caller bugs
// such as a non-positive capacity or an index out of range.
type Queue[T any] struct {
	buf  []T
	head int // index of the oldest element
	size int
}

// New creates a queue that holds at most capacity elements.
// It panics if capacity is not positive.
func New[T any](capacity int) *Queue[T] {
	if capacity <= 0 {
		panic("ring: capacity must be positive")
	}
	return &Queue[T]{buf: make([]T, capacity)}
}

// index maps a logical position (0 = oldest) to a buffer index.
func (q *Queue[T]) index(i int) int {
	i += q.head
	if i >= len(q.buf) {
		i -= len(q.buf)
	}
	return i
}

// Len returns the number of elements in the queue.
func (q *Queue[T]) Len() int { return q.size }

// Cap returns the capacity of the queue.
func (q *Queue[T]) Cap() int { return len(q.buf) }

// Full reports whether the queue holds Cap elements.
func (q *Queue[T]) Full() bool { return q.size == len(q.buf) }

// PushBack appends v. When the queue is full the oldest element is dropped.
func (q *Queue[T]) PushBack(v T) {
	*q.CreateBack() = v
}

// CreateBack appends a zero element and returns a pointer to it so the
// caller can fill it in place. When the queue is full the oldest element
// is dropped.
func (q *Queue[T]) CreateBack() *T {
	if q.Full() {
		q.RemoveFront(1)
	}
	p := &q.buf[q.index(q.size)]
	var zero T
	*p = zero
	q.size++
	return p
}

// At returns a pointer to the i-th element, where 0 is the oldest.
// It panics if i is out of range.
func (q *Queue[T]) At(i int) *T {
	if i < 0 || i >= q.size {
		panic("ring: index out of range")
	}
	return &q.buf[q.index(i)]
}

// Front returns the oldest element. ok is false if the queue is empty.
func (q *Queue[T]) Front() (v T, ok bool) {
	if q.size == 0 {
		return v, false
	}
	return q.buf[q.head], true
}

// Back returns the newest element. ok is false if the queue is empty.
func (q *Queue[T]) Back() (v T, ok bool) {
	if q.size == 0 {
		return v, false
	}
	return q.buf[q.index(q.size-1)], true
}

// RemoveFront drops the n oldest elements. Removing more elements than
// the queue holds empties it.
func (q *Queue[T]) RemoveFront(n int) {
	if n <= 0 {
		return
	}
	n = min(n, q.size)
	q.head = q.index(n)
	q.size -= n
	if q.size == 0 {
		q.head = 0
	}
}

// Clear removes all elements.
func (q *Queue[T]) Clear() {
	q.head = 0
	q.size = 0
}

// All yields the elements from oldest to newest.
func (q *Queue[T]) All() func(yield func(int, T) bool) {
	return func(yield func(int, T) bool) {
		for i := range q.size {
			if !yield(i, q.buf[q.index(i)]) {
				return
			}
		}
	}
}
