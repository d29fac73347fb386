// Package pose holds the landmark types exchanged with an external pose
// estimator and converts them into step detector input.
package pose

import (
	"context"

	"gait-analysis/internal/gait"
)

// Landmark indices of the 33-point BlazePose topology used by MediaPipe Pose.
const (
	Nose           = 0
	LeftShoulder   = 11
	RightShoulder  = 12
	LeftElbow      = 13
	RightElbow     = 14
	LeftWrist      = 15
	RightWrist     = 16
	LeftHip        = 23
	RightHip       = 24
	LeftKnee       = 25
	RightKnee      = 26
	LeftAnkle      = 27
	RightAnkle     = 28
	LeftHeel       = 29
	RightHeel      = 30
	LeftFootIndex  = 31
	RightFootIndex = 32
	NumLandmarks   = 33
)

// MinVisibility is the visibility a landmark must exceed to be used.
const MinVisibility = 0.5

// Names maps the landmark names used in landmark files to their indices.
var Names = map[string]int{
	"nose":             Nose,
	"left_shoulder":    LeftShoulder,
	"right_shoulder":   RightShoulder,
	"left_elbow":       LeftElbow,
	"right_elbow":      RightElbow,
	"left_wrist":       LeftWrist,
	"right_wrist":      RightWrist,
	"left_hip":         LeftHip,
	"right_hip":        RightHip,
	"left_knee":        LeftKnee,
	"right_knee":       RightKnee,
	"left_ankle":       LeftAnkle,
	"right_ankle":      RightAnkle,
	"left_heel":        LeftHeel,
	"right_heel":       RightHeel,
	"left_foot_index":  LeftFootIndex,
	"right_foot_index": RightFootIndex,
}

// Landmark is a single body landmark with normalized image coordinates.
type Landmark struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Z          float64 `json:"z,omitempty"`
	Visibility float64 `json:"visibility"`
}

// Visible reports whether the landmark is confident enough to be used.
func (l Landmark) Visible() bool {
	return l.Visibility > MinVisibility
}

// LandmarkSet is the pose found in one frame, keyed by landmark name.
type LandmarkSet map[string]Landmark

// Get returns the landmark stored under name.
func (s LandmarkSet) Get(name string) (Landmark, bool) {
	l, ok := s[name]
	return l, ok
}

// Frame pairs a frame index with the pose found in it. Landmarks is nil when
// the estimator found no pose.
type Frame struct {
	Index     int         `json:"frame"`
	Landmarks LandmarkSet `json:"landmarks"`
}

// Estimator is implemented by pose detectors that run outside this module.
// It returns a nil set when no pose is found in the frame.
type Estimator interface {
	Estimate(ctx context.Context, frameIndex int) (LandmarkSet, error)
}

// Ankles extracts the step detector input from a landmark set. Ankles whose
// visibility does not exceed MinVisibility are reported as absent.
func Ankles(set LandmarkSet) gait.AnkleFrame {
	var f gait.AnkleFrame
	if set == nil {
		return f
	}
	if l, ok := set.Get("left_ankle"); ok && l.Visible() {
		f.LeftX, f.LeftY = gait.Some(l.X), gait.Some(l.Y)
	}
	if l, ok := set.Get("right_ankle"); ok && l.Visible() {
		f.RightX, f.RightY = gait.Some(l.X), gait.Some(l.Y)
	}
	return f
}

// Observation converts a frame into detector input.
func (f Frame) Observation() gait.Observation {
	return gait.Observation{Index: f.Index, Ankles: Ankles(f.Landmarks)}
}
