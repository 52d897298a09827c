package pins

import (
	"sort"
	"sync"
)

// Sim keeps pin levels in memory. Used when no GPIO is available.
type Sim struct {
	mu     sync.Mutex
	levels map[int]bool
	Writes int
}

func NewSim() *Sim { return &Sim{levels: map[int]bool{}} }

func (s *Sim) Out(pin int, on bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.levels[pin] = on
	s.Writes++
	return nil
}

func (s *Sim) Level(pin int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.levels[pin]
}

// Lit returns the pins currently high, sorted.
func (s *Sim) Lit() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []int
	for p, on := range s.levels {
		if on {
			out = append(out, p)
		}
	}
	sort.Ints(out)
	return out
}

func (s *Sim) Close() error { return nil }
