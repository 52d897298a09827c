// Package selftest walks the pins of an LED array so wiring faults are visible.
package selftest

import (
	"fmt"
	"sync"
	"time"

	"github.com/coreman2200/funtimes-boardgame/internal/ledarray"
	"github.com/coreman2200/funtimes-boardgame/internal/pins"
)

type Kind string

const (
	None       Kind = ""
	IndexSweep Kind = "index_sweep"
	Blink      Kind = "blink"
)

const blinkSteps = 4

func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case IndexSweep, Blink:
		return Kind(s), nil
	}
	return None, fmt.Errorf("selftest: unknown test %q", s)
}

// Runner is safe to step on one goroutine while another waits on Done and
// reads Err.
type Runner struct {
	kind Kind

	mu   sync.Mutex
	step int
	err  error
	done chan struct{}
	once sync.Once
}

func NewRunner(kind Kind) *Runner {
	return &Runner{kind: kind, done: make(chan struct{})}
}

func (r *Runner) Kind() Kind { return r.kind }

// Err is the first driver error seen by Step.
func (r *Runner) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

// Done is closed once the final step has been driven.
func (r *Runner) Done() <-chan struct{} { return r.done }

func (r *Runner) finish() { r.once.Do(func() { close(r.done) }) }

// Steps is how many times Step returns true for arr.
func (r *Runner) Steps(arr *ledarray.LedArray) int {
	switch r.kind {
	case IndexSweep:
		return arr.Size()
	case Blink:
		return blinkSteps
	}
	return 0
}

// Step drives the next pattern onto drv; returns false when complete.
func (r *Runner) Step(arr *ledarray.LedArray, drv pins.Driver) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := r.Steps(arr)
	if r.step >= n {
		r.finish()
		return false
	}
	var err error
	switch r.kind {
	case IndexSweep:
		err = r.sweep(arr, drv)
	case Blink:
		if r.step%2 == 0 {
			err = pins.Show(drv, allOn(arr))
		} else {
			err = pins.Clear(drv, arr)
		}
	}
	if err != nil && r.err == nil {
		r.err = err
	}
	r.step++
	if r.step == n {
		r.finish()
	}
	return true
}

func (r *Runner) sweep(arr *ledarray.LedArray, drv pins.Driver) error {
	if arr.HasIndex() {
		if _, err := arr.SetIndex(r.step); err != nil {
			return err
		}
		return pins.Show(drv, arr)
	}
	if err := pins.Clear(drv, arr); err != nil {
		return err
	}
	p, err := arr.Pin(r.step)
	if err != nil {
		return err
	}
	return drv.Out(p, true)
}

// allOn views arr's pins as a plain array so Show lights all of them.
func allOn(arr *ledarray.LedArray) *ledarray.LedArray {
	return ledarray.New(arr.Pins(), arr.Size(), ledarray.Options{Variant: ledarray.Plain, Capacity: 1})
}

// Schedule queues every step on the array's own event queue, interval apart.
func Schedule(r *Runner, arr *ledarray.LedArray, drv pins.Driver, interval time.Duration) error {
	n := r.Steps(arr)
	if n == 0 {
		r.finish()
		return nil
	}
	if free := arr.Events().Cap() - arr.Events().Len(); n > free {
		return fmt.Errorf("selftest: %d steps do not fit in %d free queue slots", n, free)
	}
	for i := 0; i < n; i++ {
		if err := arr.Events().Schedule(func() { r.Step(arr, drv) }, interval); err != nil {
			return err
		}
	}
	return nil
}
