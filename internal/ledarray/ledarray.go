// Package ledarray models a strip of LEDs addressed by pin number. An array
// borrows its pin list, may carry a rotating index, and owns a private event
// queue for its own effects.
package ledarray

import (
	"errors"
	"fmt"

	"github.com/coreman2200/funtimes-boardgame/internal/callback"
	"github.com/coreman2200/funtimes-boardgame/internal/event"
)

var (
	ErrZeroSize = errors.New("ledarray: size is zero")
	ErrNoIndex  = errors.New("ledarray: variant has no index")
)

// Variant selects between the two board revisions.
type Variant string

const (
	Indexed Variant = "indexed" // rotating index, 30 queued events
	Plain   Variant = "plain"   // no index, 35 queued events
)

// Capacity is the default event queue capacity for the variant.
func (v Variant) Capacity() int {
	if v == Plain {
		return event.PlainCapacity
	}
	return event.IndexedCapacity
}

func ParseVariant(s string) (Variant, error) {
	switch Variant(s) {
	case Indexed, "":
		return Indexed, nil
	case Plain:
		return Plain, nil
	}
	return "", fmt.Errorf("ledarray: unknown variant %q", s)
}

type Options struct {
	Variant Variant
	// Capacity overrides the variant's queue capacity when positive.
	Capacity int
	// Alloc wraps callbacks scheduled on the array's queue; nil means callback.Default.
	Alloc *callback.Allocator
}

// LedArray references pins owned elsewhere; the pins slice must outlive it.
type LedArray struct {
	pins      []int
	size      int
	index     int
	variant   Variant
	ledEvents *event.Queue
}

// New builds an array over pins. size is taken as given: neither pins nor size
// are copied or checked against each other.
func New(pins []int, size int, opts Options) *LedArray {
	if opts.Variant == "" {
		opts.Variant = Indexed
	}
	capacity := opts.Capacity
	if capacity <= 0 {
		capacity = opts.Variant.Capacity()
	}
	alloc := opts.Alloc
	if alloc == nil {
		alloc = callback.Default
	}
	return &LedArray{
		pins:      pins,
		size:      size,
		variant:   opts.Variant,
		ledEvents: event.NewQueueWith(capacity, alloc),
	}
}

// SetIndex makes newIndex mod size the active index and returns the index that
// was active before. Negative values wrap around to a non-negative index.
func (l *LedArray) SetIndex(newIndex int) (int, error) {
	if l.variant != Indexed {
		return 0, ErrNoIndex
	}
	if l.size <= 0 {
		return 0, ErrZeroSize
	}
	prev := l.index
	l.index = mod(newIndex, l.size)
	return prev, nil
}

// Advance moves the index by step and returns the previous index.
func (l *LedArray) Advance(step int) (int, error) {
	return l.SetIndex(l.index + step)
}

func mod(a, n int) int {
	m := a % n
	if m < 0 {
		m += n
	}
	return m
}

// ActivePin is the pin at the current index.
func (l *LedArray) ActivePin() (int, error) {
	if l.variant != Indexed {
		return 0, ErrNoIndex
	}
	return l.Pin(l.index)
}

func (l *LedArray) Pin(i int) (int, error) {
	if i < 0 || i >= l.size || i >= len(l.pins) {
		return 0, fmt.Errorf("ledarray: pin %d out of range [0,%d)", i, l.size)
	}
	return l.pins[i], nil
}

func (l *LedArray) Index() int       { return l.index }
func (l *LedArray) Size() int        { return l.size }
func (l *LedArray) Pins() []int      { return l.pins }
func (l *LedArray) Variant() Variant { return l.variant }
func (l *LedArray) HasIndex() bool   { return l.variant == Indexed }

// Events is the array's private queue. It is not synchronized; wrap it in an
// event.SafeQueue when a dispatcher drains it on another goroutine.
func (l *LedArray) Events() *event.Queue { return l.ledEvents }
