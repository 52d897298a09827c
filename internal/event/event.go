// Package event holds the timed-event queue: a bounded FIFO of callbacks paired
// with the delay to wait before each one fires.
package event

import (
	"errors"
	"time"

	"github.com/coreman2200/funtimes-boardgame/internal/callback"
	"github.com/coreman2200/funtimes-boardgame/internal/queue"
)

// Queue capacities of the two board revisions.
const (
	IndexedCapacity = 30 // revision with a rotating LED index
	PlainCapacity   = 35
)

var (
	ErrFull          = errors.New("event: queue full")
	ErrNegativeDelay = errors.New("event: negative delay")
)

// Event pairs a callback with the delay before it fires. The Callback handle is
// owned by whoever holds the Event and must be released once through CleanUp.
type Event struct {
	Callback *callback.Handle
	Delay    time.Duration
}

// CleanUp releases the event's callback. Call it once, after the callback has
// run or the event was dropped.
func (e Event) CleanUp() error {
	return e.Callback.Release()
}

// Queue is a fixed-capacity FIFO of Events. Pop hands ownership of the callback
// to the caller; the queue never releases callbacks on its own except in Discard.
type Queue struct {
	ring  *queue.Ring[Event]
	alloc *callback.Allocator
}

// NewQueue returns a Queue that wraps closures with callback.Default.
func NewQueue(capacity int) *Queue {
	return NewQueueWith(capacity, callback.Default)
}

// NewQueueWith returns a Queue whose Schedule wraps closures with alloc.
func NewQueueWith(capacity int, alloc *callback.Allocator) *Queue {
	return &Queue{ring: queue.New[Event](capacity), alloc: alloc}
}

// Push appends e. It returns false without touching the queue when the queue
// is full, e carries no live callback, or its delay is negative.
func (q *Queue) Push(e Event) bool {
	if e.Callback.Released() || e.Delay < 0 {
		return false
	}
	return q.ring.Push(e)
}

// Schedule wraps fn and pushes it with the given delay. When the queue is full
// the freshly wrapped handle is released again and ErrFull is returned.
func (q *Queue) Schedule(fn func(), delay time.Duration) error {
	if delay < 0 {
		return ErrNegativeDelay
	}
	h, err := q.alloc.Wrap(fn)
	if err != nil {
		return err
	}
	if !q.ring.Push(Event{Callback: h, Delay: delay}) {
		_ = h.Release()
		return ErrFull
	}
	return nil
}

func (q *Queue) Pop() (Event, bool)  { return q.ring.Pop() }
func (q *Queue) Peek() (Event, bool) { return q.ring.Peek() }
func (q *Queue) Len() int            { return q.ring.Len() }
func (q *Queue) Cap() int            { return q.ring.Cap() }
func (q *Queue) IsEmpty() bool       { return q.ring.IsEmpty() }
func (q *Queue) IsFull() bool        { return q.ring.IsFull() }

// Discard drops every pending event, releasing its callback without running it.
// It returns how many events were dropped.
func (q *Queue) Discard() int {
	n := 0
	for {
		e, ok := q.ring.Pop()
		if !ok {
			return n
		}
		_ = e.CleanUp()
		n++
	}
}
