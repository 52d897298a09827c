package strip_test

import (
	"bytes"
	"errors"
	"image/color"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/spi/spitest"
	"periph.io/x/devices/v3/nrzled"

	"github.com/coreman2200/funtimes-boardgame/internal/ledarray"
	. "github.com/coreman2200/funtimes-boardgame/internal/strip"
)

var TestChannelsPackIntoColor = []struct {
	A, R, G, B uint8
	Expect     ColorVal
}{
	{0xFF, 0x11, 0x22, 0x33, 0xFF112233},
	{0x00, 0x2A, 0x44, 0x34, 0x002A4434},
	{0xAB, 0x3B, 0x88, 0x35, 0xAB3B8835},
	{0x22, 0x4C, 0xAA, 0x36, 0x224CAA36},
}

func TestColorChannels(t *testing.T) {
	for k, v := range TestChannelsPackIntoColor {
		t.Run("Given ARGB"+strconv.Itoa(k), func(t *testing.T) {
			c := Off.WithA(v.A).WithR(v.R).WithG(v.G).WithB(v.B)
			assert.Equal(t, v.Expect, c)
			assert.Equal(t, v.A, c.A())
			assert.Equal(t, v.R, c.R())
			assert.Equal(t, v.G, c.G())
			assert.Equal(t, v.B, c.B())
		})
	}
}

func TestNRGBACapsBrightness(t *testing.T) {
	full := ColorVal(0xFFFFFFFF).NRGBA()
	assert.Equal(t, color.NRGBA{R: 200, G: 200, B: 200, A: 255}, full)
	assert.Equal(t, color.NRGBA{A: 255}, Off.NRGBA())
}

func TestScale(t *testing.T) {
	c := ColorVal(0xC8102030)
	assert.Equal(t, uint8(100), c.Scale(0.5).A())
	assert.Equal(t, c, c.Scale(2), "out of range scale is ignored")
}

func TestImageMarksActiveIndex(t *testing.T) {
	r := New(nil)
	arr := ledarray.New([]int{2, 3, 4}, 3, ledarray.Options{})
	_, err := arr.SetIndex(2)
	require.NoError(t, err)

	im := r.Image(arr)
	assert.Equal(t, 3, im.Bounds().Dx())
	assert.Equal(t, Active.NRGBA(), im.NRGBAAt(2, 0))
	assert.Equal(t, Idle.NRGBA(), im.NRGBAAt(0, 0))

	plain := ledarray.New([]int{2, 3}, 2, ledarray.Options{Variant: ledarray.Plain})
	im = r.Image(plain)
	assert.Equal(t, Active.NRGBA(), im.NRGBAAt(0, 0))
	assert.Equal(t, Active.NRGBA(), im.NRGBAAt(1, 0))
}

func TestRenderOverSPI(t *testing.T) {
	buf := bytes.Buffer{}
	o := nrzled.Opts{NumPixels: 3, Channels: 3, Freq: DefaultFreq}
	d, err := nrzled.NewSPI(spitest.NewRecordRaw(&buf), &o)
	require.NoError(t, err)
	assert.Equal(t, "nrzled{recordraw}", d.String())

	r := New(d)
	assert.Equal(t, "nrzled{recordraw}", r.String())
	arr := ledarray.New([]int{2, 3, 4}, 3, ledarray.Options{})

	require.NoError(t, r.Render(arr))
	assert.NotZero(t, buf.Len(), "frame written to the SPI port")
	require.NoError(t, r.Halt())
}

type brokenWriter struct{}

func (brokenWriter) Write([]byte) (int, error) { return 0, errors.New("bus fault") }

type closeCounter struct {
	*spitest.RecordRaw
	closed int
}

func (c *closeCounter) Close() error {
	c.closed++
	return c.RecordRaw.Close()
}

func TestOpenPortClosesOnHaltFailure(t *testing.T) {
	p := &closeCounter{RecordRaw: spitest.NewRecordRaw(brokenWriter{})}
	r, err := OpenPort(p, 3)
	assert.Error(t, err)
	assert.Nil(t, r)
	assert.Equal(t, 1, p.closed)
}

func TestOpenPort(t *testing.T) {
	buf := bytes.Buffer{}
	p := &closeCounter{RecordRaw: spitest.NewRecordRaw(&buf)}
	r, err := OpenPort(p, 3)
	require.NoError(t, err)
	assert.True(t, r.Spi)
	assert.NoError(t, r.Fallback)
	assert.Zero(t, p.closed)
	assert.NotZero(t, buf.Len(), "strip halted on open")
}

func TestOpenFallsBackToConsole(t *testing.T) {
	r, err := Open("/dev/spidev-missing", 3)
	require.NoError(t, err)
	assert.False(t, r.Spi)
	assert.Error(t, r.Fallback)
	assert.Contains(t, r.Fallback.Error(), "/dev/spidev-missing")
}
