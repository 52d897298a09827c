package pins

import (
	"fmt"

	"github.com/coreman2200/funtimes-boardgame/internal/ledarray"
)

// Driver abstracts the pin output sink.
type Driver interface {
	// Out drives one pin high (on) or low.
	Out(pin int, on bool) error
	// Close releases resources.
	Close() error
}

// Show lights the active pin of arr and clears the others. Arrays without an
// index have every pin switched on.
func Show(drv Driver, arr *ledarray.LedArray) error {
	active := -1
	if arr.HasIndex() && arr.Size() > 0 {
		active = arr.Index()
	}
	for i := 0; i < arr.Size(); i++ {
		p, err := arr.Pin(i)
		if err != nil {
			return err
		}
		on := active < 0 || i == active
		if err := drv.Out(p, on); err != nil {
			return fmt.Errorf("pin %d: %w", p, err)
		}
	}
	return nil
}

// Clear drives every pin of arr low.
func Clear(drv Driver, arr *ledarray.LedArray) error {
	for i := 0; i < arr.Size(); i++ {
		p, err := arr.Pin(i)
		if err != nil {
			return err
		}
		if err := drv.Out(p, false); err != nil {
			return fmt.Errorf("pin %d: %w", p, err)
		}
	}
	return nil
}
