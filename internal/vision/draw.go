package vision

import (
	"fmt"
	"image"
	"image/color"

	"gait-analysis/internal/gait"
	"gait-analysis/internal/pose"

	"gocv.io/x/gocv"
)

var (
	boneColor  = color.RGBA{G: 255, A: 255}
	jointColor = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	rightColor = color.RGBA{R: 255, A: 255}
	textColor  = color.RGBA{R: 255, G: 255, A: 255}
	warnColor  = color.RGBA{R: 255, G: 64, A: 255}
	evenColor  = color.RGBA{G: 255, A: 255}
)

// skeleton lists the landmark pairs joined when drawing a pose.
var skeleton = [][2]string{
	{"left_shoulder", "right_shoulder"},
	{"left_shoulder", "left_elbow"}, {"left_elbow", "left_wrist"},
	{"right_shoulder", "right_elbow"}, {"right_elbow", "right_wrist"},
	{"left_shoulder", "left_hip"}, {"right_shoulder", "right_hip"},
	{"left_hip", "right_hip"},
	{"left_hip", "left_knee"}, {"left_knee", "left_ankle"},
	{"right_hip", "right_knee"}, {"right_knee", "right_ankle"},
	{"left_ankle", "left_heel"}, {"left_heel", "left_foot_index"}, {"left_ankle", "left_foot_index"},
	{"right_ankle", "right_heel"}, {"right_heel", "right_foot_index"}, {"right_ankle", "right_foot_index"},
}

func toPixel(l pose.Landmark, cols, rows int) image.Point {
	return image.Pt(int(l.X*float64(cols)), int(l.Y*float64(rows)))
}

// DrawPose overlays the skeleton of set on img. Landmarks that are not
// visible enough are skipped along with their bones.
func DrawPose(img *gocv.Mat, set pose.LandmarkSet) {
	if set == nil {
		return
	}
	cols, rows := img.Cols(), img.Rows()
	for _, bone := range skeleton {
		a, okA := set.Get(bone[0])
		b, okB := set.Get(bone[1])
		if !okA || !okB || !a.Visible() || !b.Visible() {
			continue
		}
		gocv.Line(img, toPixel(a, cols, rows), toPixel(b, cols, rows), boneColor, 2)
	}
	for _, l := range set {
		if l.Visible() {
			gocv.Circle(img, toPixel(l, cols, rows), 3, jointColor, -1)
		}
	}
}

// DrawAnkles marks the visible ankles while both feet are planted (the
// stance phase) and reports whether anything was drawn.
func DrawAnkles(img *gocv.Mat, set pose.LandmarkSet, inStance bool) bool {
	if !inStance {
		return false
	}
	cols, rows := img.Cols(), img.Rows()
	drawn := false
	for _, name := range []string{"left_ankle", "right_ankle"} {
		if l, ok := set.Get(name); ok && l.Visible() {
			gocv.Circle(img, toPixel(l, cols, rows), 8, evenColor, -1)
			drawn = true
		}
	}
	return drawn
}

// DrawStatus writes the running step count, and the last step when there
// is one, in the top-left corner.
func DrawStatus(img *gocv.Mat, steps int, last *gait.StepEvent) {
	gocv.PutText(img, fmt.Sprintf("Steps: %d", steps), image.Pt(10, 30), gocv.FontHersheySimplex, 0.8, textColor, 2)
	if last != nil {
		msg := fmt.Sprintf("Step %d: %s foot, x_diff %.3f", last.StepNumber, last.Side, last.XDiff)
		gocv.PutText(img, msg, image.Pt(10, 60), gocv.FontHersheySimplex, 0.6, textColor, 1)
	}
}

// DrawNoLandmarks flags a frame where the ankles were not detected.
func DrawNoLandmarks(img *gocv.Mat) {
	gocv.PutText(img, "Landmarks not detected", image.Pt(10, img.Rows()-20), gocv.FontHersheySimplex, 0.7, warnColor, 2)
}

// DrawResult writes the final verdict of r onto img.
func DrawResult(img *gocv.Mat, r *gait.Report) {
	switch {
	case r.Outcome == gait.OutcomeSummarized && r.Variation != nil:
		verdict, c := "Result: UNEVEN steps", rightColor
		if r.Variation.EvenSteps {
			verdict, c = "Result: EVEN steps", evenColor
		}
		gocv.PutText(img, verdict, image.Pt(50, 100), gocv.FontHersheySimplex, 1.2, c, 3)
		gocv.PutText(img, fmt.Sprintf("Coeff of Var: %.4f", r.Variation.CoefficientOfVariation), image.Pt(50, 150), gocv.FontHersheySimplex, 1, textColor, 2)
	case r.Outcome == gait.OutcomeDegenerateInput:
		gocv.PutText(img, "Result: step lengths are all zero", image.Pt(50, 100), gocv.FontHersheySimplex, 1, warnColor, 2)
	default:
		gocv.PutText(img, "Result: not enough steps", image.Pt(50, 100), gocv.FontHersheySimplex, 1, warnColor, 2)
	}
}

// FrameWriter receives encoded frames; *gocv.VideoWriter satisfies it.
type FrameWriter interface {
	Write(img gocv.Mat) error
}

// SummaryFrames is how many frames hold the result for seconds at fps.
func SummaryFrames(fps, seconds float64) int {
	if fps <= 0 {
		fps = DefaultFPS
	}
	if seconds <= 0 {
		return 0
	}
	return int(fps * seconds)
}

// WriteSummary draws the result onto a copy of last and writes it n times.
func WriteSummary(w FrameWriter, last gocv.Mat, n int, r *gait.Report) error {
	if last.Empty() || n <= 0 {
		return nil
	}
	frame := last.Clone()
	defer frame.Close()
	DrawResult(&frame, r)
	for i := 0; i < n; i++ {
		if err := w.Write(frame); err != nil {
			return fmt.Errorf("write summary frame %d: %w", i, err)
		}
	}
	return nil
}
