package gait

import "fmt"

// Side identifies which foot is leading horizontally in a frame.
type Side int

const (
	// SideNone is the tracker's side before the first frame with both ankles visible.
	SideNone Side = iota
	SideLeft
	SideRight
)

func (s Side) String() string {
	switch s {
	case SideLeft:
		return "left"
	case SideRight:
		return "right"
	default:
		return "none"
	}
}

// MarshalText encodes the side as "none", "left" or "right".
func (s Side) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText parses the textual form produced by MarshalText.
func (s *Side) UnmarshalText(text []byte) error {
	switch string(text) {
	case "none", "":
		*s = SideNone
	case "left":
		*s = SideLeft
	case "right":
		*s = SideRight
	default:
		return fmt.Errorf("unknown side %q", string(text))
	}
	return nil
}

// Axis names a normalized image axis of a landmark coordinate.
type Axis int

const (
	AxisX Axis = iota
	AxisY
)

func (a Axis) String() string {
	if a == AxisY {
		return "y"
	}
	return "x"
}

// Coord is a landmark coordinate that may be absent because the detector
// was not confident enough about the landmark in this frame.
type Coord struct {
	value float64
	ok    bool
}

// Some returns a present coordinate.
func Some(v float64) Coord { return Coord{value: v, ok: true} }

// None returns an absent coordinate.
func None() Coord { return Coord{} }

// Get returns the value and whether it is present.
func (c Coord) Get() (float64, bool) { return c.value, c.ok }

// Valid reports whether the coordinate is present.
func (c Coord) Valid() bool { return c.ok }
