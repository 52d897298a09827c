package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/coreman2200/funtimes-boardgame/internal/callback"
	"github.com/coreman2200/funtimes-boardgame/internal/config"
	diag "github.com/coreman2200/funtimes-boardgame/internal/diagnostics"
	"github.com/coreman2200/funtimes-boardgame/internal/event"
	"github.com/coreman2200/funtimes-boardgame/internal/ledarray"
	"github.com/coreman2200/funtimes-boardgame/internal/pins"
	"github.com/coreman2200/funtimes-boardgame/internal/selftest"
	"github.com/coreman2200/funtimes-boardgame/internal/strip"
)

// Core ties the shared event queue, the LED array with its own queue, and the
// outputs together. Game logic schedules work through After and the effect
// helpers; Start drains both queues in the background.
//
// Once Start has run, the LED array's queue must only be touched through
// LedEvents: Leds.Events() is the unguarded queue the dispatcher drains.
type Core struct {
	Alloc  *callback.Allocator
	Events *event.SafeQueue
	Leds   *ledarray.LedArray
	Driver pins.Driver
	Strip  *strip.Renderer

	ledQ     *event.SafeQueue
	global   *event.Dispatcher
	local    *event.Dispatcher
	tick     time.Duration
	log      zerolog.Logger
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	shutdown sync.Once
}

// InitCore builds a Core from cfg. rend may be nil when no strip is attached.
func InitCore(cfg *config.Config, drv pins.Driver, rend *strip.Renderer, log zerolog.Logger) (*Core, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	variant, _ := ledarray.ParseVariant(cfg.Variant)
	capacity := cfg.Capacity
	if capacity <= 0 {
		capacity = variant.Capacity()
	}

	alloc := &callback.Allocator{Limit: cfg.HandleLimit}
	// the array borrows its pins, so keep a copy the config cannot mutate
	buf := append([]int(nil), cfg.Pins...)
	leds := ledarray.New(buf, len(buf), ledarray.Options{Variant: variant, Capacity: capacity, Alloc: alloc})

	events := event.NewSafeQueue(event.NewQueueWith(capacity, alloc))
	ledQ := event.NewSafeQueue(leds.Events())

	if rend != nil {
		rend.Brightness = cfg.Strip.Brightness
	}
	return &Core{
		Alloc:  alloc,
		Events: events,
		Leds:   leds,
		Driver: drv,
		Strip:  rend,
		ledQ:   ledQ,
		global: event.NewDispatcher(events, log.With().Str("queue", "events").Logger()),
		local:  event.NewDispatcher(ledQ, log.With().Str("queue", "ledEvents").Logger()),
		tick:   time.Duration(cfg.TickMs) * time.Millisecond,
		log:    log,
	}, nil
}

// Start drains both queues until ctx is done or Shutdown is called.
func (c *Core) Start(ctx context.Context) {
	ctx, c.cancel = context.WithCancel(ctx)
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		ticker := time.NewTicker(c.tick)
		defer ticker.Stop()
		last := time.Now()
		for {
			select {
			case <-ctx.Done():
				return
			case t := <-ticker.C:
				c.Advance(t.Sub(last))
				last = t
			}
		}
	}()
	c.log.Info().Dur("tick", c.tick).Str("variant", string(c.Leds.Variant())).Msg("dispatch started")
}

// Advance moves both queues forward by dt. Start calls it on every tick.
func (c *Core) Advance(dt time.Duration) int {
	return c.global.Advance(dt) + c.local.Advance(dt)
}

// After runs fn on the shared queue once delay has passed since the previous
// shared event fired.
func (c *Core) After(delay time.Duration, fn func()) error {
	return c.Events.Schedule(fn, delay)
}

// Show pushes the array's current state to the pins and the strip.
func (c *Core) Show() {
	if err := pins.Show(c.Driver, c.Leds); err != nil {
		c.log.Warn().Err(err).Msg("pin output")
	}
	if c.Strip != nil {
		if err := c.Strip.Render(c.Leds); err != nil {
			c.log.Warn().Err(err).Msg("strip render")
		}
	}
}

// Chase rotates the active LED steps times, one step every interval. Each step
// schedules the next, so the chase holds a single queue slot.
func (c *Core) Chase(steps int, interval time.Duration) error {
	if steps <= 0 {
		return nil
	}
	if !c.Leds.HasIndex() {
		return c.blink(steps, interval, true)
	}
	var step func(left int) func()
	step = func(left int) func() {
		return func() {
			if _, err := c.Leds.Advance(1); err != nil {
				c.log.Warn().Err(err).Msg("chase")
				return
			}
			c.Show()
			if left > 1 {
				if err := c.ledQ.Schedule(step(left-1), interval); err != nil {
					c.log.Warn().Err(err).Msg("chase reschedule")
				}
			}
		}
	}
	return c.ledQ.Schedule(step(steps), interval)
}

// blink toggles every pin for arrays without an index.
func (c *Core) blink(steps int, interval time.Duration, on bool) error {
	return c.ledQ.Schedule(func() {
		var err error
		if on {
			err = pins.Show(c.Driver, c.Leds)
		} else {
			err = pins.Clear(c.Driver, c.Leds)
		}
		if err != nil {
			c.log.Warn().Err(err).Msg("blink")
		}
		if steps > 1 {
			if err := c.blink(steps-1, interval, !on); err != nil {
				c.log.Warn().Err(err).Msg("blink reschedule")
			}
		}
	}, interval)
}

// SelfTest queues a pin test on the array's own queue.
func (c *Core) SelfTest(kind selftest.Kind, interval time.Duration) (*selftest.Runner, error) {
	r := selftest.NewRunner(kind)
	var err error
	c.ledQ.With(func(*event.Queue) {
		err = selftest.Schedule(r, c.Leds, c.Driver, interval)
	})
	if err != nil {
		return nil, err
	}
	c.log.Info().Str("test", string(kind)).Int("steps", r.Steps(c.Leds)).Msg("self test queued")
	return r, nil
}

// LedEvents is the LED array's own queue, guarded for use alongside Start.
func (c *Core) LedEvents() *event.SafeQueue { return c.ledQ }

// Pending is the number of queued events across both queues.
func (c *Core) Pending() int {
	return c.Events.Len() + c.ledQ.Len()
}

// Shutdown stops dispatching, drops what is still queued, switches the pins off
// and reports anything that was left behind.
func (c *Core) Shutdown() []diag.Diagnostic {
	var out []diag.Diagnostic
	c.shutdown.Do(func() {
		if c.cancel != nil {
			c.cancel()
		}
		c.wg.Wait()

		if n := c.Events.Discard() + c.ledQ.Discard(); n > 0 {
			out = append(out, diag.Diagnostic{
				Severity: diag.Info, Code: "QUEUE.PENDING", Summary: "pending events dropped",
				Evidence: map[string]any{"count": n},
			})
		}
		if err := pins.Clear(c.Driver, c.Leds); err != nil {
			out = append(out, diag.Diagnostic{Severity: diag.Warn, Code: "PINS.CLEAR", Summary: "could not clear pins", Detail: err.Error()})
		}
		if c.Strip != nil {
			if err := c.Strip.Halt(); err != nil {
				out = append(out, diag.Diagnostic{Severity: diag.Warn, Code: "STRIP.HALT", Summary: "could not halt strip", Detail: err.Error()})
			}
		}
		if err := c.Driver.Close(); err != nil {
			out = append(out, diag.Diagnostic{Severity: diag.Warn, Code: "PINS.CLOSE", Summary: "could not close pin driver", Detail: err.Error()})
		}
		if live := c.Alloc.Live(); live > 0 {
			out = append(out, diag.Diagnostic{
				Severity: diag.Err, Code: "LEAK.HANDLES", Summary: "callback handles never released",
				Evidence: map[string]any{"live": live, "allocated": c.Alloc.Allocated()},
			})
		}
		for _, d := range out {
			d.Log(c.log)
		}
		c.log.Info().Int("fired", c.global.Fired()+c.local.Fired()).Msg("dispatch stopped")
	})
	return out
}
