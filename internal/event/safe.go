package event

import (
	"sync"
	"time"
)

// SafeQueue guards a Queue with a mutex for when producers and a dispatcher
// run on different goroutines.
type SafeQueue struct {
	mu sync.Mutex
	Q  *Queue
}

func NewSafeQueue(q *Queue) *SafeQueue {
	return &SafeQueue{Q: q}
}

// With runs f while holding the lock.
func (s *SafeQueue) With(f func(q *Queue)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f(s.Q)
}

func (s *SafeQueue) Push(e Event) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Q.Push(e)
}

func (s *SafeQueue) Schedule(fn func(), delay time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Q.Schedule(fn, delay)
}

func (s *SafeQueue) Pop() (Event, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Q.Pop()
}

func (s *SafeQueue) Peek() (Event, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Q.Peek()
}

func (s *SafeQueue) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Q.Len()
}

func (s *SafeQueue) Discard() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Q.Discard()
}

// popDue pops the head if its delay fits within elapsed.
func (s *SafeQueue) popDue(elapsed time.Duration) (Event, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	head, ok := s.Q.Peek()
	if !ok || head.Delay > elapsed {
		return Event{}, false
	}
	return s.Q.Pop()
}
