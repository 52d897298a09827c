package strip

import "image/color"

const MaxBrightness uint8 = 200

const (
	alphaOffset uint8 = 0x18
	redOffset   uint8 = 0x10
	greenOffset uint8 = 0x08
	blueOffset  uint8 = 0x0
)

// ColorVal packs ARGB into a uint32; alpha acts as brightness.
type ColorVal uint32

const (
	Off    ColorVal = 0
	Active ColorVal = 0xFFFFAA00
	Idle   ColorVal = 0x30002040
)

func setChannel(c uint32, n uint8, off uint8) uint32 {
	mask := uint32(0xFF) << off
	return (c &^ mask) | uint32(n)<<off
}

func channel(c uint32, off uint8) uint8 {
	return uint8((c >> off) & 0xFF)
}

func (c ColorVal) A() uint8 { return channel(uint32(c), alphaOffset) }
func (c ColorVal) R() uint8 { return channel(uint32(c), redOffset) }
func (c ColorVal) G() uint8 { return channel(uint32(c), greenOffset) }
func (c ColorVal) B() uint8 { return channel(uint32(c), blueOffset) }

func (c ColorVal) WithA(a uint8) ColorVal { return ColorVal(setChannel(uint32(c), a, alphaOffset)) }
func (c ColorVal) WithR(r uint8) ColorVal { return ColorVal(setChannel(uint32(c), r, redOffset)) }
func (c ColorVal) WithG(g uint8) ColorVal { return ColorVal(setChannel(uint32(c), g, greenOffset)) }
func (c ColorVal) WithB(b uint8) ColorVal { return ColorVal(setChannel(uint32(c), b, blueOffset)) }

// NRGBA scales the colour channels by alpha, capped at MaxBrightness, and
// returns an opaque pixel.
func (c ColorVal) NRGBA() color.NRGBA {
	a := float64(c.A())
	if a > float64(MaxBrightness) {
		a = float64(MaxBrightness)
	}
	return color.NRGBA{
		R: uint8(float64(c.R()) * a / 255.0),
		G: uint8(float64(c.G()) * a / 255.0),
		B: uint8(float64(c.B()) * a / 255.0),
		A: 255,
	}
}

// Scale multiplies the alpha channel by s in [0,1]; other values leave c as is.
func (c ColorVal) Scale(s float64) ColorVal {
	if s > 1.0 || s < 0.0 {
		return c
	}
	return c.WithA(uint8(float64(c.A()) * s))
}
