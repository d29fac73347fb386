package gait

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// Observation is one frame's worth of detector input.
type Observation struct {
	Index  int
	Ankles AnkleFrame
}

// FrameSource yields observations in frame order. Next returns io.EOF once
// the underlying stream is exhausted.
type FrameSource interface {
	Next() (Observation, error)
}

// Phase is the lifecycle stage of a Session.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseTracking
	PhaseDone
)

func (p Phase) String() string {
	switch p {
	case PhaseTracking:
		return "tracking"
	case PhaseDone:
		return "done"
	default:
		return "idle"
	}
}

// Outcome describes how the end-of-stream summary turned out.
type Outcome string

const (
	OutcomeSummarized       Outcome = "summarized"
	OutcomeInsufficientData Outcome = "insufficient_data"
	OutcomeDegenerateInput  Outcome = "degenerate_input"
)

// Report is the result of a finished Session.
type Report struct {
	Events        []StepEvent      `json:"events"`
	StepCount     int              `json:"step_count"`
	StepLengths   []float64        `json:"step_lengths"`
	ValidFrames   int              `json:"valid_frames"`
	MissingFrames int              `json:"missing_frames"`
	Outcome       Outcome          `json:"outcome"`
	Variation     *VariationResult `json:"variation,omitempty"`
}

// FrameTrace describes what the detector saw in one frame. Measurement is
// zero when the ankles were not detected; Step is set on frames where a step
// was recognized.
type FrameTrace struct {
	Index       int
	Detected    bool
	Measurement Measurement
	Step        *StepEvent
}

// Session owns the detector state for a single walking sequence. It is not
// safe for concurrent use.
type Session struct {
	state   State
	phase   Phase
	events  []StepEvent
	valid   int
	missing int
	last    FrameTrace
	report  *Report
}

// NewSession returns an idle session.
func NewSession() *Session {
	return &Session{state: NewState(), events: []StepEvent{}}
}

// Phase returns the current lifecycle stage.
func (s *Session) Phase() Phase { return s.phase }

// State returns a copy of the detector state.
func (s *Session) State() State {
	st := s.state
	st.StepLengths = append([]float64(nil), s.state.StepLengths...)
	return st
}

// Observe feeds one frame to the detector. Frames without both ankles are
// counted as missing and leave the state untouched. Observations after
// Finish are ignored.
func (s *Session) Observe(obs Observation) (StepEvent, bool) {
	if s.phase == PhaseDone {
		return StepEvent{}, false
	}
	s.last = FrameTrace{Index: obs.Index}
	m, ok := Measure(obs.Ankles)
	if !ok {
		s.missing++
		return StepEvent{}, false
	}
	s.valid++
	s.phase = PhaseTracking
	s.last.Detected = true
	s.last.Measurement = m

	ev, ok := Update(&s.state, obs.Ankles)
	if ok {
		ev.Frame = obs.Index
		s.events = append(s.events, ev)
		s.last.Step = &ev
	}
	return ev, ok
}

// Trace returns the trace of the most recently observed frame.
func (s *Session) Trace() FrameTrace { return s.last }

// Finish ends the session and summarizes the recorded step lengths when
// there are at least two of them. Calling Finish again returns the same report.
func (s *Session) Finish() *Report {
	if s.report != nil {
		return s.report
	}
	s.phase = PhaseDone
	st := s.State()
	r := &Report{
		Events:        s.events,
		StepCount:     st.StepCount,
		StepLengths:   st.StepLengths,
		ValidFrames:   s.valid,
		MissingFrames: s.missing,
		Outcome:       OutcomeInsufficientData,
	}
	if CanSummarize(st.StepLengths) {
		v, err := Summarize(st.StepLengths)
		switch {
		case err == nil:
			r.Outcome = OutcomeSummarized
			r.Variation = &v
		case errors.Is(err, ErrDegenerateInput):
			r.Outcome = OutcomeDegenerateInput
		}
	}
	s.report = r
	return r
}

// Hooks are optional callbacks invoked while a session runs.
type Hooks struct {
	// OnFrame is called for every frame, including frames without ankles.
	OnFrame func(FrameTrace)
	// OnStep is called for every detected step.
	OnStep func(StepEvent)
}

// Analyze runs a session over src until it is exhausted or ctx is done, in
// which case the steps seen so far are summarized. onStep, when non-nil, is
// called for every detected step.
func Analyze(ctx context.Context, src FrameSource, onStep func(StepEvent)) (*Report, error) {
	return AnalyzeWithHooks(ctx, src, Hooks{OnStep: onStep})
}

// AnalyzeWithHooks is Analyze with per-frame reporting.
func AnalyzeWithHooks(ctx context.Context, src FrameSource, hooks Hooks) (*Report, error) {
	s := NewSession()
	for ctx.Err() == nil {
		obs, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read frame: %w", err)
		}
		ev, ok := s.Observe(obs)
		if hooks.OnFrame != nil {
			hooks.OnFrame(s.Trace())
		}
		if ok && hooks.OnStep != nil {
			hooks.OnStep(ev)
		}
	}
	return s.Finish(), nil
}
