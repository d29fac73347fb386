// Package vision wraps the gocv frame source, writer and drawing
// primitives used by the command line tools.
package vision

import (
	"fmt"

	"gocv.io/x/gocv"
)

// DefaultFPS is used when the capture device does not report a frame rate.
const DefaultFPS = 30.0

// Capture is an ordered, non-restartable source of BGR frames.
type Capture struct {
	vc *gocv.VideoCapture
}

// OpenVideo opens a video file.
func OpenVideo(path string) (*Capture, error) {
	vc, err := gocv.VideoCaptureFile(path)
	if err != nil {
		return nil, fmt.Errorf("open video %s: %w", path, err)
	}
	return &Capture{vc: vc}, nil
}

// OpenCamera opens a camera by device index.
func OpenCamera(device int) (*Capture, error) {
	vc, err := gocv.VideoCaptureDevice(device)
	if err != nil {
		return nil, fmt.Errorf("open camera %d: %w", device, err)
	}
	return &Capture{vc: vc}, nil
}

// Read decodes the next frame into dst. It returns false at end of stream.
func (c *Capture) Read(dst *gocv.Mat) bool {
	return c.vc.Read(dst) && !dst.Empty()
}

// FPS returns the source frame rate, falling back to DefaultFPS.
func (c *Capture) FPS() float64 {
	if fps := c.vc.Get(gocv.VideoCaptureFPS); fps > 0 {
		return fps
	}
	return DefaultFPS
}

// Size returns the frame width and height.
func (c *Capture) Size() (int, int) {
	return int(c.vc.Get(gocv.VideoCaptureFrameWidth)), int(c.vc.Get(gocv.VideoCaptureFrameHeight))
}

func (c *Capture) Close() error {
	return c.vc.Close()
}

// NewWriter creates an MJPG writer sized for frames from c.
func (c *Capture) NewWriter(path string) (*gocv.VideoWriter, error) {
	w, h := c.Size()
	vw, err := gocv.VideoWriterFile(path, "MJPG", c.FPS(), w, h, true)
	if err != nil {
		return nil, fmt.Errorf("create writer %s: %w", path, err)
	}
	return vw, nil
}
