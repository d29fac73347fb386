package pose

import (
	"errors"
	"fmt"
	"io"
)

// Aligner matches landmark frames to video frame indices. Estimators may
// drop frames, so a video frame with no landmark line of the same index is
// reported as having no pose.
type Aligner struct {
	r       *Reader
	pending *Frame
	done    bool
}

// NewAligner returns an Aligner reading from r.
func NewAligner(r *Reader) *Aligner {
	return &Aligner{r: r}
}

// At returns the landmarks recorded for frame index, or nil when there are
// none. Indices must be requested in increasing order.
func (a *Aligner) At(index int) (LandmarkSet, error) {
	for !a.done && (a.pending == nil || a.pending.Index < index) {
		f, err := a.r.ReadFrame()
		if errors.Is(err, io.EOF) {
			a.done = true
			a.pending = nil
			break
		}
		if err != nil {
			return nil, fmt.Errorf("align frame %d: %w", index, err)
		}
		a.pending = &f
	}
	if a.pending != nil && a.pending.Index == index {
		return a.pending.Landmarks, nil
	}
	return nil, nil
}
