// Package pins drives LED pins, either on real GPIO through periph or in memory.
package pins

import (
	"fmt"
	"strconv"
	"sync"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
)

// Resolver maps a pin number to a periph output pin, or nil when unknown.
type Resolver func(pin int) gpio.PinOut

// ByNumber looks pins up in the periph registry. host.Init must have run.
func ByNumber(pin int) gpio.PinOut {
	p := gpioreg.ByName(strconv.Itoa(pin))
	if p == nil {
		return nil
	}
	return p
}

type GPIO struct {
	mu      sync.Mutex
	resolve Resolver
	pins    map[int]gpio.PinOut
}

func NewGPIO(resolve Resolver) *GPIO {
	if resolve == nil {
		resolve = ByNumber
	}
	return &GPIO{resolve: resolve, pins: map[int]gpio.PinOut{}}
}

func (g *GPIO) Out(pin int, on bool) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.pins == nil {
		return fmt.Errorf("gpio driver closed")
	}
	p, ok := g.pins[pin]
	if !ok {
		if p = g.resolve(pin); p == nil {
			return fmt.Errorf("no gpio for pin %d", pin)
		}
		g.pins[pin] = p
	}
	return p.Out(gpio.Level(on))
}

// Close drives every pin that was used low and halts it.
func (g *GPIO) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	var first error
	for n, p := range g.pins {
		if err := p.Out(gpio.Low); err != nil && first == nil {
			first = fmt.Errorf("pin %d: %w", n, err)
		}
		if err := p.Halt(); err != nil && first == nil {
			first = fmt.Errorf("pin %d: %w", n, err)
		}
	}
	g.pins = nil
	return first
}
