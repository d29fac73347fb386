package gait

import "math"

const (
	// MinStepThreshold is the minimum horizontal ankle separation, in normalized
	// image units, for a side switch to count as a step.
	MinStepThreshold = 0.015
	// StanceYThreshold is the maximum vertical ankle separation, in normalized
	// image units, for both feet to be considered grounded.
	StanceYThreshold = 0.03
)

// AnkleFrame holds the ankle coordinates extracted from a single frame.
// A coordinate is absent when its landmark was not visible enough.
type AnkleFrame struct {
	LeftX  Coord
	RightX Coord
	LeftY  Coord
	RightY Coord
}

// Ankles builds an AnkleFrame with every coordinate present.
func Ankles(leftX, rightX, leftY, rightY float64) AnkleFrame {
	return AnkleFrame{LeftX: Some(leftX), RightX: Some(rightX), LeftY: Some(leftY), RightY: Some(rightY)}
}

// Coord returns the coordinate for the given side and axis.
func (f AnkleFrame) Coord(side Side, axis Axis) Coord {
	switch {
	case side == SideLeft && axis == AxisX:
		return f.LeftX
	case side == SideLeft && axis == AxisY:
		return f.LeftY
	case side == SideRight && axis == AxisX:
		return f.RightX
	case side == SideRight && axis == AxisY:
		return f.RightY
	}
	return None()
}

// Complete reports whether all four coordinates are present.
func (f AnkleFrame) Complete() bool {
	return f.LeftX.Valid() && f.RightX.Valid() && f.LeftY.Valid() && f.RightY.Valid()
}

// State is the cross-frame memory of the step detector. StepCount always
// equals len(StepLengths).
type State struct {
	PreviousSide Side      `json:"previous_side"`
	StepCount    int       `json:"step_count"`
	StepLengths  []float64 `json:"step_lengths"`
}

// NewState returns the detector state at the start of an analysis.
func NewState() State {
	return State{PreviousSide: SideNone, StepLengths: []float64{}}
}

// StepEvent is emitted when a step transition is recognized.
type StepEvent struct {
	StepNumber int     `json:"step_number"`
	Side       Side    `json:"side"`
	XDiff      float64 `json:"x_diff"`
	// Frame is the index of the frame the step was detected on. Update leaves
	// it zero; Session fills it in.
	Frame int `json:"frame"`
}

// Measurement holds the per-frame quantities the detector decides on.
type Measurement struct {
	XDiff    float64 `json:"x_diff"`
	YDiff    float64 `json:"y_diff"`
	Side     Side    `json:"side"`
	InStance bool    `json:"in_stance"`
}

// Measure computes the ankle separations of a frame. It reports false when
// any coordinate is missing.
func Measure(in AnkleFrame) (Measurement, bool) {
	if !in.Complete() {
		return Measurement{}, false
	}
	leftX, _ := in.LeftX.Get()
	rightX, _ := in.RightX.Get()
	leftY, _ := in.LeftY.Get()
	rightY, _ := in.RightY.Get()

	m := Measurement{
		XDiff: math.Abs(leftX - rightX),
		YDiff: math.Abs(leftY - rightY),
		Side:  SideRight,
	}
	if leftX < rightX {
		m.Side = SideLeft
	}
	m.InStance = m.YDiff < StanceYThreshold
	return m, true
}

// Update feeds one frame of ankle coordinates to the detector. It reports
// false without touching state when any coordinate is missing.
//
// A step is recognized when the leading foot switches sides, the feet are
// more than MinStepThreshold apart horizontally and less than
// StanceYThreshold apart vertically. The last condition approximates a heel
// strike rather than a mid-swing crossing; it is a heuristic, not a
// biomechanical model.
func Update(state *State, in AnkleFrame) (StepEvent, bool) {
	m, ok := Measure(in)
	if !ok {
		return StepEvent{}, false
	}

	var (
		ev       StepEvent
		detected bool
	)
	if state.PreviousSide != SideNone &&
		m.Side != state.PreviousSide &&
		m.XDiff > MinStepThreshold &&
		m.InStance {
		state.StepCount++
		state.StepLengths = append(state.StepLengths, m.XDiff)
		ev = StepEvent{StepNumber: state.StepCount, Side: m.Side, XDiff: m.XDiff}
		detected = true
	}
	state.PreviousSide = m.Side
	return ev, detected
}
