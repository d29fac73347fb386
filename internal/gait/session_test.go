package gait

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sliceSource struct {
	frames []AnkleFrame
	pos    int
	err    error
}

func (s *sliceSource) Next() (Observation, error) {
	if s.pos >= len(s.frames) {
		if s.err != nil {
			return Observation{}, s.err
		}
		return Observation{}, io.EOF
	}
	obs := Observation{Index: s.pos, Ankles: s.frames[s.pos]}
	s.pos++
	return obs, nil
}

func walk() []AnkleFrame {
	return []AnkleFrame{
		Ankles(0.10, 0.15, 0.5, 0.52),
		Ankles(0.15, 0.10, 0.51, 0.50),
		{},
		Ankles(0.12, 0.30, 0.4, 0.39),
		Ankles(0.30, 0.10, 0.41, 0.40),
	}
}

func TestSessionPhases(t *testing.T) {
	t.Parallel()

	s := NewSession()
	assert.Equal(t, PhaseIdle, s.Phase())

	_, ok := s.Observe(Observation{Index: 0})
	assert.False(t, ok)
	assert.Equal(t, PhaseIdle, s.Phase(), "missing frames keep the session idle")

	s.Observe(Observation{Index: 1, Ankles: Ankles(0.1, 0.2, 0.5, 0.5)})
	assert.Equal(t, PhaseTracking, s.Phase())
	assert.Equal(t, SideLeft, s.State().PreviousSide)

	ev, ok := s.Observe(Observation{Index: 2, Ankles: Ankles(0.2, 0.1, 0.5, 0.5)})
	require.True(t, ok)
	assert.Equal(t, 2, ev.Frame)

	r := s.Finish()
	assert.Equal(t, PhaseDone, s.Phase())
	assert.Same(t, r, s.Finish())

	_, ok = s.Observe(Observation{Index: 3, Ankles: Ankles(0.1, 0.2, 0.5, 0.5)})
	assert.False(t, ok)
	assert.Equal(t, 1, s.State().StepCount)
}

func TestAnalyze(t *testing.T) {
	t.Parallel()

	t.Run("walking sequence", func(t *testing.T) {
		t.Parallel()
		var seen []int
		r, err := Analyze(context.Background(), &sliceSource{frames: walk()}, func(ev StepEvent) {
			seen = append(seen, ev.Frame)
		})
		require.NoError(t, err)
		assert.Equal(t, []int{1, 3, 4}, seen)
		assert.Equal(t, 3, r.StepCount)
		assert.Len(t, r.StepLengths, 3)
		assert.Equal(t, 4, r.ValidFrames)
		assert.Equal(t, 1, r.MissingFrames)
		assert.Equal(t, OutcomeSummarized, r.Outcome)
		require.NotNil(t, r.Variation)
		assert.InDelta(t, 0.1433, r.Variation.Mean, 1e-3)
		assert.False(t, r.Variation.EvenSteps)
	})

	t.Run("insufficient data", func(t *testing.T) {
		t.Parallel()
		r, err := Analyze(context.Background(), &sliceSource{frames: walk()[:2]}, nil)
		require.NoError(t, err)
		assert.Equal(t, 1, r.StepCount)
		assert.Equal(t, OutcomeInsufficientData, r.Outcome)
		assert.Nil(t, r.Variation)
	})

	t.Run("empty stream", func(t *testing.T) {
		t.Parallel()
		r, err := Analyze(context.Background(), &sliceSource{}, nil)
		require.NoError(t, err)
		assert.Zero(t, r.StepCount)
		assert.Empty(t, r.Events)
		assert.Equal(t, OutcomeInsufficientData, r.Outcome)
	})

	t.Run("source error", func(t *testing.T) {
		t.Parallel()
		boom := errors.New("decode failed")
		_, err := Analyze(context.Background(), &sliceSource{frames: walk(), err: boom}, nil)
		assert.ErrorIs(t, err, boom)
	})

	t.Run("stop before next frame", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithCancel(context.Background())
		r, err := Analyze(ctx, &sliceSource{frames: walk()}, func(StepEvent) { cancel() })
		require.NoError(t, err)
		assert.Equal(t, 1, r.StepCount)
		assert.Equal(t, 2, r.ValidFrames)
	})
}

func TestSessionDegenerateOutcome(t *testing.T) {
	t.Parallel()

	// Update never records a zero-length step, so force the state directly.
	s := NewSession()
	s.state = State{PreviousSide: SideLeft, StepCount: 2, StepLengths: []float64{0, 0}}
	r := s.Finish()
	assert.Equal(t, OutcomeDegenerateInput, r.Outcome)
	assert.Nil(t, r.Variation)
}

func TestAnalyzeWithHooksTracesEveryFrame(t *testing.T) {
	t.Parallel()

	var traces []FrameTrace
	var steps int
	r, err := AnalyzeWithHooks(context.Background(), &sliceSource{frames: walk()}, Hooks{
		OnFrame: func(tr FrameTrace) { traces = append(traces, tr) },
		OnStep:  func(StepEvent) { steps++ },
	})
	require.NoError(t, err)
	require.Len(t, traces, 5)
	assert.Equal(t, 3, steps)
	assert.Equal(t, 3, r.StepCount)

	first := traces[0]
	assert.True(t, first.Detected)
	assert.Nil(t, first.Step, "first valid frame only records the side")
	assert.InDelta(t, 0.05, first.Measurement.XDiff, 1e-9)
	assert.InDelta(t, 0.02, first.Measurement.YDiff, 1e-9)
	assert.Equal(t, SideLeft, first.Measurement.Side)
	assert.True(t, first.Measurement.InStance)

	require.NotNil(t, traces[1].Step)
	assert.Equal(t, 1, traces[1].Step.Frame)

	missing := traces[2]
	assert.Equal(t, 2, missing.Index)
	assert.False(t, missing.Detected)
	assert.Nil(t, missing.Step)
	assert.Zero(t, missing.Measurement)
}
