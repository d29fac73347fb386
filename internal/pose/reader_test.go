package pose

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gait-analysis/internal/gait"
)

const walkJSONL = `{"frame":0,"landmarks":{"left_ankle":{"x":0.10,"y":0.5,"visibility":0.9},"right_ankle":{"x":0.15,"y":0.52,"visibility":0.9}}}
{"frame":1,"landmarks":{"left_ankle":{"x":0.15,"y":0.51,"visibility":0.9},"right_ankle":{"x":0.10,"y":0.50,"visibility":0.9}}}

{"frame":2,"landmarks":null}
{"frame":3,"landmarks":{"left_ankle":{"x":0.12,"y":0.4,"visibility":0.8},"right_ankle":{"x":0.30,"y":0.39,"visibility":0.5}}}
{"frame":4,"landmarks":{"left_ankle":{"x":0.30,"y":0.41,"visibility":0.8},"right_ankle":{"x":0.10,"y":0.40,"visibility":0.7}}}
`

func TestAnkles(t *testing.T) {
	t.Parallel()

	t.Run("no pose", func(t *testing.T) {
		t.Parallel()
		assert.False(t, Ankles(nil).Complete())
	})

	t.Run("visibility must exceed threshold", func(t *testing.T) {
		t.Parallel()
		f := Ankles(LandmarkSet{
			"left_ankle":  {X: 0.1, Y: 0.2, Visibility: 0.51},
			"right_ankle": {X: 0.3, Y: 0.4, Visibility: MinVisibility},
		})
		assert.True(t, f.LeftX.Valid())
		assert.True(t, f.LeftY.Valid())
		assert.False(t, f.RightX.Valid())
		assert.False(t, f.RightY.Valid())
		assert.False(t, f.Complete())
	})

	t.Run("both visible", func(t *testing.T) {
		t.Parallel()
		f := Ankles(LandmarkSet{
			"left_ankle":  {X: 0.1, Y: 0.2, Visibility: 0.9},
			"right_ankle": {X: 0.3, Y: 0.4, Visibility: 0.9},
		})
		require.True(t, f.Complete())
		x, _ := f.RightX.Get()
		assert.Equal(t, 0.3, x)
	})
}

func TestReader(t *testing.T) {
	t.Parallel()

	r := NewReader(strings.NewReader(walkJSONL))
	var frames []Frame
	for {
		f, err := r.ReadFrame()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		frames = append(frames, f)
	}
	require.Len(t, frames, 5)
	assert.Nil(t, frames[2].Landmarks)
	assert.Equal(t, 4, frames[4].Index)
	assert.InDelta(t, 0.3, frames[4].Landmarks["left_ankle"].X, 1e-12)
	assert.NoError(t, r.Close())
}

func TestReaderNumbersFramesWithoutIndex(t *testing.T) {
	t.Parallel()

	r := NewReader(strings.NewReader("{\"landmarks\":null}\n{\"frame\":10,\"landmarks\":null}\n{\"landmarks\":null}\n"))
	var idx []int
	for {
		f, err := r.ReadFrame()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		idx = append(idx, f.Index)
	}
	assert.Equal(t, []int{0, 10, 11}, idx)
}

func TestReaderMalformedLine(t *testing.T) {
	t.Parallel()

	r := NewReader(strings.NewReader("{\"frame\":0,\"landmarks\":null}\n{not json\n"))
	_, err := r.ReadFrame()
	require.NoError(t, err)
	_, err = r.ReadFrame()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

func TestReaderAsFrameSource(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "walk.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(walkJSONL), 0o644))

	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()

	// Frame 3's right ankle sits exactly at the visibility threshold and is
	// dropped, so frame 4 stays on the right side and is not a new step.
	report, err := gait.Analyze(context.Background(), r, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, report.StepCount)
	assert.Equal(t, 3, report.ValidFrames)
	assert.Equal(t, 2, report.MissingFrames)
	require.Len(t, report.Events, 1)
	assert.Equal(t, 1, report.Events[0].Frame)
	assert.Equal(t, gait.OutcomeInsufficientData, report.Outcome)
}

func TestOpenMissingFile(t *testing.T) {
	t.Parallel()

	_, err := Open(filepath.Join(t.TempDir(), "missing.jsonl"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSliceSource(t *testing.T) {
	t.Parallel()

	src := &SliceSource{Frames: []Frame{{Index: 0}, {Index: 1}}}
	obs, err := src.Next()
	require.NoError(t, err)
	assert.Equal(t, 0, obs.Index)
	_, err = src.Next()
	require.NoError(t, err)
	_, err = src.Next()
	assert.ErrorIs(t, err, io.EOF)
}
