package selftest

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/funtimes-boardgame/internal/callback"
	"github.com/coreman2200/funtimes-boardgame/internal/event"
	"github.com/coreman2200/funtimes-boardgame/internal/ledarray"
	"github.com/coreman2200/funtimes-boardgame/internal/pins"
)

func TestIndexSweep(t *testing.T) {
	sim := pins.NewSim()
	arr := ledarray.New([]int{2, 3, 4}, 3, ledarray.Options{})
	r := NewRunner(IndexSweep)

	var lit [][]int
	for r.Step(arr, sim) {
		lit = append(lit, sim.Lit())
	}
	assert.Equal(t, [][]int{{2}, {3}, {4}}, lit)
	assert.NoError(t, r.Err())
	assert.False(t, r.Step(arr, sim))
}

func TestIndexSweepPlain(t *testing.T) {
	sim := pins.NewSim()
	arr := ledarray.New([]int{9, 10}, 2, ledarray.Options{Variant: ledarray.Plain})
	r := NewRunner(IndexSweep)
	require.True(t, r.Step(arr, sim))
	assert.Equal(t, []int{9}, sim.Lit())
	require.True(t, r.Step(arr, sim))
	assert.Equal(t, []int{10}, sim.Lit())
}

func TestBlink(t *testing.T) {
	sim := pins.NewSim()
	arr := ledarray.New([]int{2, 3}, 2, ledarray.Options{})
	r := NewRunner(Blink)
	require.True(t, r.Step(arr, sim))
	assert.Equal(t, []int{2, 3}, sim.Lit())
	require.True(t, r.Step(arr, sim))
	assert.Empty(t, sim.Lit())
	assert.Equal(t, 4, r.Steps(arr))
}

func TestStepRecordsDriverError(t *testing.T) {
	arr := ledarray.New([]int{2}, 2, ledarray.Options{})
	r := NewRunner(IndexSweep)
	r.Step(arr, pins.NewSim())
	r.Step(arr, pins.NewSim())
	assert.Error(t, r.Err())
}

func TestScheduleOnArrayQueue(t *testing.T) {
	a := &callback.Allocator{}
	sim := pins.NewSim()
	arr := ledarray.New([]int{2, 3, 4}, 3, ledarray.Options{Alloc: a})
	r := NewRunner(IndexSweep)
	require.NoError(t, Schedule(r, arr, sim, 10*time.Millisecond))
	assert.Equal(t, 3, arr.Events().Len())

	d := event.NewDispatcher(event.NewSafeQueue(arr.Events()), zerolog.Nop())
	assert.Equal(t, 1, d.Advance(10*time.Millisecond))
	assert.Equal(t, []int{2}, sim.Lit())
	assert.Equal(t, 2, d.Advance(20*time.Millisecond))
	assert.Equal(t, []int{4}, sim.Lit())
	assert.Equal(t, 0, a.Live())
}

func TestScheduleTooManySteps(t *testing.T) {
	arr := ledarray.New([]int{1, 2, 3, 4}, 4, ledarray.Options{Capacity: 2})
	err := Schedule(NewRunner(IndexSweep), arr, pins.NewSim(), time.Millisecond)
	assert.Error(t, err)
	assert.Equal(t, 0, arr.Events().Len())
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("blink")
	require.NoError(t, err)
	assert.Equal(t, Blink, k)
	_, err = ParseKind("plane_z")
	assert.Error(t, err)
}

func TestDoneClosesAfterFinalStep(t *testing.T) {
	sim := pins.NewSim()
	arr := ledarray.New([]int{2, 3}, 2, ledarray.Options{})
	r := NewRunner(IndexSweep)

	require.True(t, r.Step(arr, sim))
	select {
	case <-r.Done():
		t.Fatal("done before the last step")
	default:
	}
	require.True(t, r.Step(arr, sim))
	select {
	case <-r.Done():
	default:
		t.Fatal("not done after the last step")
	}
	assert.False(t, r.Step(arr, sim), "extra step after done")
}
