package pose

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gait-analysis/internal/gait"
)

// Reader decodes a JSON Lines landmark stream, one Frame per line, as
// written by an external pose estimator. Blank lines are skipped. Frames
// without an explicit index are numbered by their position in the stream.
type Reader struct {
	sc     *bufio.Scanner
	line   int
	next   int
	closer io.Closer
}

// NewReader returns a Reader over r.
func NewReader(r io.Reader) *Reader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	return &Reader{sc: sc}
}

// Open opens a landmark file.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open landmarks: %w", err)
	}
	r := NewReader(f)
	r.closer = f
	return r, nil
}

// ReadFrame returns the next frame or io.EOF at the end of the stream.
func (r *Reader) ReadFrame() (Frame, error) {
	for r.sc.Scan() {
		r.line++
		raw := bytes.TrimSpace(r.sc.Bytes())
		if len(raw) == 0 {
			continue
		}
		f := Frame{Index: -1}
		if err := json.Unmarshal(raw, &f); err != nil {
			return Frame{}, fmt.Errorf("landmarks line %d: %w", r.line, err)
		}
		if f.Index < 0 {
			f.Index = r.next
		}
		r.next = f.Index + 1
		return f, nil
	}
	if err := r.sc.Err(); err != nil {
		return Frame{}, fmt.Errorf("landmarks line %d: %w", r.line+1, err)
	}
	return Frame{}, io.EOF
}

// Next implements gait.FrameSource.
func (r *Reader) Next() (gait.Observation, error) {
	f, err := r.ReadFrame()
	if err != nil {
		return gait.Observation{}, err
	}
	return f.Observation(), nil
}

// Close closes the underlying file when the Reader was created by Open.
func (r *Reader) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}

// SliceSource serves frames held in memory.
type SliceSource struct {
	Frames []Frame
	pos    int
}

// Next implements gait.FrameSource.
func (s *SliceSource) Next() (gait.Observation, error) {
	if s.pos >= len(s.Frames) {
		return gait.Observation{}, io.EOF
	}
	f := s.Frames[s.pos]
	s.pos++
	return f.Observation(), nil
}
