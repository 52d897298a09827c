package event

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Dispatcher drains a queue in FIFO order. Each event's delay counts from the
// moment the previous event fired, or from when the queue last became non-empty.
// Only one goroutine may call Advance or Run for a given Dispatcher.
type Dispatcher struct {
	q       *SafeQueue
	log     zerolog.Logger
	elapsed time.Duration
	fired   int
}

func NewDispatcher(q *SafeQueue, log zerolog.Logger) *Dispatcher {
	return &Dispatcher{q: q, log: log}
}

// Advance moves the dispatcher clock forward by dt and fires every event that
// became due, releasing each callback after it ran. It returns how many fired.
func (d *Dispatcher) Advance(dt time.Duration) int {
	if dt > 0 {
		d.elapsed += dt
	}
	n := 0
	for {
		e, ok := d.q.popDue(d.elapsed)
		if !ok {
			break
		}
		if e.Delay > 0 {
			d.elapsed -= e.Delay
		}
		d.fire(e)
		n++
	}
	if d.q.Len() == 0 {
		d.elapsed = 0
	}
	d.fired += n
	return n
}

func (d *Dispatcher) fire(e Event) {
	defer func() {
		if r := recover(); r != nil {
			d.log.Error().Str("panic", fmt.Sprint(r)).Dur("delay", e.Delay).Msg("event callback panicked")
		}
		if err := e.CleanUp(); err != nil {
			d.log.Warn().Err(err).Msg("event cleanup")
		}
	}()
	if err := e.Callback.Invoke(); err != nil {
		d.log.Warn().Err(err).Msg("event invoke")
	}
}

// Fired is the total number of events run so far.
func (d *Dispatcher) Fired() int { return d.fired }

// Run advances the dispatcher on every tick until ctx is done.
func (d *Dispatcher) Run(ctx context.Context, tick time.Duration) {
	if tick <= 0 {
		tick = time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case t := <-ticker.C:
			d.Advance(t.Sub(last))
			last = t
		}
	}
}
