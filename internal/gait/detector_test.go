package gait

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateMissingLandmarks(t *testing.T) {
	t.Parallel()

	frames := map[string]AnkleFrame{
		"left x":  {LeftX: None(), RightX: Some(0.2), LeftY: Some(0.5), RightY: Some(0.5)},
		"right x": {LeftX: Some(0.1), RightX: None(), LeftY: Some(0.5), RightY: Some(0.5)},
		"left y":  {LeftX: Some(0.1), RightX: Some(0.2), LeftY: None(), RightY: Some(0.5)},
		"right y": {LeftX: Some(0.1), RightX: Some(0.2), LeftY: Some(0.5), RightY: None()},
		"all":     {},
	}
	for name, frame := range frames {
		frame := frame
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			for _, prev := range []Side{SideNone, SideLeft, SideRight} {
				state := State{PreviousSide: prev}
				_, ok := Update(&state, frame)
				assert.False(t, ok)
				assert.Equal(t, prev, state.PreviousSide)
				assert.Zero(t, state.StepCount)
				assert.Empty(t, state.StepLengths)
			}
		})
	}
}

// TestUpdateGates checks every combination of the four step conditions and
// expects an event only when all of them hold.
func TestUpdateGates(t *testing.T) {
	t.Parallel()

	for mask := 0; mask < 16; mask++ {
		hasPrevious := mask&1 != 0
		switched := mask&2 != 0
		farApart := mask&4 != 0
		level := mask&8 != 0

		name := fmt.Sprintf("previous=%t/switch=%t/separation=%t/stance=%t", hasPrevious, switched, farApart, level)
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			state := NewState()
			if hasPrevious {
				state.PreviousSide = SideRight
			}

			sep := 0.01
			if farApart {
				sep = 0.1
			}
			yGap := 0.05
			if level {
				yGap = 0.01
			}

			in := Ankles(0.4+sep, 0.4, 0.5, 0.5+yGap) // right foot leads
			want := SideRight
			if switched {
				in = Ankles(0.4, 0.4+sep, 0.5, 0.5+yGap)
				want = SideLeft
			}

			ev, ok := Update(&state, in)
			all := hasPrevious && switched && farApart && level
			assert.Equal(t, all, ok)
			assert.Equal(t, want, state.PreviousSide)
			if all {
				assert.Equal(t, 1, ev.StepNumber)
				assert.Equal(t, SideLeft, ev.Side)
				assert.InDelta(t, sep, ev.XDiff, 1e-12)
				assert.Equal(t, []float64{ev.XDiff}, state.StepLengths)
			} else {
				assert.Zero(t, state.StepCount)
			}
		})
	}
}

func TestUpdateThresholdsAreExclusive(t *testing.T) {
	t.Parallel()

	t.Run("separation equal to threshold is not a step", func(t *testing.T) {
		t.Parallel()
		state := State{PreviousSide: SideRight}
		_, ok := Update(&state, Ankles(0, MinStepThreshold, 0.5, 0.5))
		assert.False(t, ok)
		assert.Equal(t, SideLeft, state.PreviousSide)
	})

	t.Run("vertical gap equal to threshold is not stance", func(t *testing.T) {
		t.Parallel()
		state := State{PreviousSide: SideRight}
		_, ok := Update(&state, Ankles(0.1, 0.3, 0, StanceYThreshold))
		assert.False(t, ok)
	})

	t.Run("equal x counts as right side", func(t *testing.T) {
		t.Parallel()
		state := NewState()
		_, ok := Update(&state, Ankles(0.3, 0.3, 0.5, 0.5))
		assert.False(t, ok)
		assert.Equal(t, SideRight, state.PreviousSide)
	})
}

func TestUpdateWalkingSequence(t *testing.T) {
	t.Parallel()

	frames := []AnkleFrame{
		Ankles(0.10, 0.15, 0.5, 0.52),
		Ankles(0.15, 0.10, 0.51, 0.50),
		{},
		Ankles(0.12, 0.30, 0.4, 0.39),
		Ankles(0.30, 0.10, 0.41, 0.40),
	}

	state := NewState()
	var events []StepEvent
	for _, f := range frames {
		if ev, ok := Update(&state, f); ok {
			events = append(events, ev)
		}
	}

	// The missing frame keeps the previous side, so frames 2, 4 and 5 each
	// switch sides with the feet level and apart.
	want := []StepEvent{
		{StepNumber: 1, Side: SideRight, XDiff: 0.05},
		{StepNumber: 2, Side: SideLeft, XDiff: 0.18},
		{StepNumber: 3, Side: SideRight, XDiff: 0.20},
	}
	if diff := cmp.Diff(want, events, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 3, state.StepCount)
	assert.Equal(t, SideRight, state.PreviousSide)
}

func TestUpdateStepCountMatchesLengths(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(7))
	coord := func() Coord {
		if rng.Intn(10) == 0 {
			return None()
		}
		return Some(rng.Float64())
	}

	state := NewState()
	for i := 0; i < 5000; i++ {
		in := AnkleFrame{LeftX: coord(), RightX: coord(), LeftY: coord(), RightY: coord()}
		if rng.Intn(2) == 0 {
			// keep the feet level often enough to produce steps
			y := rng.Float64()
			in.LeftY, in.RightY = Some(y), Some(y+0.01)
		}
		before := state.PreviousSide
		_, ok := Update(&state, in)
		require.Equal(t, len(state.StepLengths), state.StepCount)
		if !in.Complete() {
			require.False(t, ok)
			require.Equal(t, before, state.PreviousSide)
		}
	}
	assert.Positive(t, state.StepCount)
}

func TestAnkleFrameCoord(t *testing.T) {
	t.Parallel()

	f := Ankles(0.1, 0.2, 0.3, 0.4)
	for _, tc := range []struct {
		side Side
		axis Axis
		want float64
	}{
		{SideLeft, AxisX, 0.1},
		{SideRight, AxisX, 0.2},
		{SideLeft, AxisY, 0.3},
		{SideRight, AxisY, 0.4},
	} {
		v, ok := f.Coord(tc.side, tc.axis).Get()
		require.True(t, ok, "%s %s", tc.side, tc.axis)
		assert.Equal(t, tc.want, v)
	}
	assert.False(t, f.Coord(SideNone, AxisX).Valid())
}

func TestSideText(t *testing.T) {
	t.Parallel()

	for _, s := range []Side{SideNone, SideLeft, SideRight} {
		text, err := s.MarshalText()
		require.NoError(t, err)
		var got Side
		require.NoError(t, got.UnmarshalText(text))
		assert.Equal(t, s, got)
	}

	var s Side
	assert.Error(t, s.UnmarshalText([]byte("center")))
}

func TestMeasure(t *testing.T) {
	t.Parallel()

	m, ok := Measure(Ankles(0.30, 0.10, 0.41, 0.45))
	require.True(t, ok)
	assert.InDelta(t, 0.20, m.XDiff, 1e-12)
	assert.InDelta(t, 0.04, m.YDiff, 1e-12)
	assert.Equal(t, SideRight, m.Side)
	assert.False(t, m.InStance)

	_, ok = Measure(AnkleFrame{LeftX: Some(0.1)})
	assert.False(t, ok)
}
