// Package strip previews an LED array on an NRZ (WS2812 style) strip, one pixel
// per pin, or on the console when no SPI port is present.
package strip

import (
	"fmt"
	"image"

	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/nrzled"
	"periph.io/x/extra/devices/screen"

	"github.com/coreman2200/funtimes-boardgame/internal/ledarray"
)

const DefaultFreq = 2500 * physic.KiloHertz

type Palette struct {
	Active ColorVal
	Idle   ColorVal
}

var DefaultPalette = Palette{Active: Active, Idle: Idle}

type Renderer struct {
	drawer  display.Drawer
	Palette Palette
	// Brightness scales every pixel, 0..1.
	Brightness float64
	Spi        bool
	// Fallback is why the console drawer is used instead of an SPI strip.
	Fallback   error
}

// New renders onto an existing drawer.
func New(d display.Drawer) *Renderer {
	return &Renderer{drawer: d, Palette: DefaultPalette, Brightness: 1}
}

// Open drives numPixels LEDs over the named SPI port ("" picks the first one).
// Without an SPI port it falls back to printing frames on the console.
func Open(port string, numPixels int) (*Renderer, error) {
	p, err := spireg.Open(port)
	if err != nil {
		r := New(screen.New(100))
		r.Fallback = fmt.Errorf("spi port %q: %w", port, err)
		return r, nil
	}
	return OpenPort(p, numPixels)
}

// OpenPort drives numPixels LEDs over p. p is closed again if the strip
// cannot be set up.
func OpenPort(p spi.PortCloser, numPixels int) (*Renderer, error) {
	d, err := nrzled.NewSPI(p, &nrzled.Opts{
		NumPixels: numPixels,
		Channels:  3,
		Freq:      DefaultFreq,
	})
	if err != nil {
		_ = p.Close()
		return nil, fmt.Errorf("nrzled: %w", err)
	}
	if err := d.Halt(); err != nil {
		_ = p.Close()
		return nil, fmt.Errorf("nrzled halt: %w", err)
	}
	r := New(d)
	r.Spi = true
	return r, nil
}

// Image is one row with a pixel per pin; the active index uses the Active colour.
func (r *Renderer) Image(arr *ledarray.LedArray) *image.NRGBA {
	im := image.NewNRGBA(image.Rect(0, 0, arr.Size(), 1))
	for x := 0; x < arr.Size(); x++ {
		c := r.Palette.Idle
		if !arr.HasIndex() || x == arr.Index() {
			c = r.Palette.Active
		}
		im.SetNRGBA(x, 0, c.Scale(r.Brightness).NRGBA())
	}
	return im
}

func (r *Renderer) Render(arr *ledarray.LedArray) error {
	return r.drawer.Draw(r.drawer.Bounds(), r.Image(arr), image.Point{})
}

func (r *Renderer) Halt() error {
	return r.drawer.Halt()
}

func (r *Renderer) String() string {
	return r.drawer.String()
}
