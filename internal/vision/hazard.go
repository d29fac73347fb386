package vision

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"
)

var hazardColor = color.RGBA{G: 255, A: 255}

// DefaultStepSize is the column spacing of the edge free-space profile.
const DefaultStepSize = 5

// profileMargin rows at the bottom of the frame are skipped when scanning
// for the nearest edge.
const profileMargin = 5

// Hazards is what one frame yielded.
type Hazards struct {
	// Regions are the bounding boxes of dark blobs large enough to matter.
	Regions []image.Rectangle
	// Profile holds, per sampled column, the lowest edge pixel above the
	// bottom margin, or row 0 when the column has none.
	Profile []image.Point
}

// HazardHighlighter finds obstacles in a frame two ways. The edge branch
// (bilateral filter, Canny) yields the free-space profile; the threshold
// branch (bilateral filter, inverted binary threshold, morphological
// opening, external contours) yields the hazard regions.
type HazardHighlighter struct {
	EdgeDiameter   int
	EdgeSigma      float64
	CannyLow       float32
	CannyHigh      float32
	RegionDiameter int
	RegionSigma    float64
	Threshold      float32
	MinArea        float64
	StepSize       int

	color  gocv.Mat
	smooth gocv.Mat
	gray   gocv.Mat
	edges  gocv.Mat
	mask   gocv.Mat
	kernel gocv.Mat
}

// NewHazardHighlighter returns a highlighter with the default filter settings.
// Close must be called to release its buffers.
func NewHazardHighlighter() *HazardHighlighter {
	return &HazardHighlighter{
		EdgeDiameter:   9,
		EdgeSigma:      40,
		CannyLow:       50,
		CannyHigh:      100,
		RegionDiameter: 9,
		RegionSigma:    75,
		Threshold:      106,
		MinArea:        500,
		StepSize:       DefaultStepSize,
		color:          gocv.NewMat(),
		smooth:         gocv.NewMat(),
		gray:           gocv.NewMat(),
		edges:          gocv.NewMat(),
		mask:           gocv.NewMat(),
		kernel:         gocv.GetStructuringElement(gocv.MorphRect, image.Pt(3, 3)),
	}
}

// source returns frame as a 3-channel image.
func (h *HazardHighlighter) source(frame gocv.Mat) gocv.Mat {
	if frame.Channels() == 1 {
		gocv.CvtColor(frame, &h.color, gocv.ColorGrayToBGR)
		return h.color
	}
	return frame
}

// Detect runs both branches on frame. The edge map and the cleaned
// threshold mask stay in the highlighter until the next call.
func (h *HazardHighlighter) Detect(frame gocv.Mat) Hazards {
	if frame.Empty() {
		return Hazards{}
	}
	src := h.source(frame)

	gocv.BilateralFilter(src, &h.smooth, h.EdgeDiameter, h.EdgeSigma, h.EdgeSigma)
	gocv.CvtColor(h.smooth, &h.gray, gocv.ColorBGRToGray)
	gocv.Canny(h.gray, &h.edges, h.CannyLow, h.CannyHigh)

	gocv.BilateralFilter(src, &h.smooth, h.RegionDiameter, h.RegionSigma, h.RegionSigma)
	gocv.CvtColor(h.smooth, &h.gray, gocv.ColorBGRToGray)
	gocv.Threshold(h.gray, &h.mask, h.Threshold, 255, gocv.ThresholdBinaryInv)
	gocv.MorphologyEx(h.mask, &h.mask, gocv.MorphOpen, h.kernel)

	contours := gocv.FindContours(h.mask, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	var out Hazards
	for i := 0; i < contours.Size(); i++ {
		c := contours.At(i)
		if gocv.ContourArea(c) < h.MinArea {
			continue
		}
		out.Regions = append(out.Regions, gocv.BoundingRect(c))
	}
	out.Profile = EdgeProfile(h.edges, h.StepSize)
	return out
}

// Highlight draws the free-space profile and hazard boxes onto frame and
// returns how many regions were marked.
func (h *HazardHighlighter) Highlight(frame *gocv.Mat) int {
	if frame.Empty() {
		return 0
	}
	hz := h.Detect(*frame)
	if frame.Channels() == 1 {
		h.color.CopyTo(frame)
	}
	DrawEdgeProfile(frame, hz.Profile)
	DrawHazards(frame, hz.Regions)
	return len(hz.Regions)
}

// Grid renders the combined view into dst: the frame and its edge map on
// top, the threshold mask and the annotated detections below, scaled to
// 70%. It returns how many regions were marked.
func (h *HazardHighlighter) Grid(frame gocv.Mat, dst *gocv.Mat) int {
	if frame.Empty() {
		return 0
	}
	hz := h.Detect(frame)
	original := h.source(frame).Clone()
	defer original.Close()

	detections := original.Clone()
	defer detections.Close()
	DrawHazards(&detections, hz.Regions)

	edges := gocv.NewMat()
	defer edges.Close()
	gocv.CvtColor(h.edges, &edges, gocv.ColorGrayToBGR)
	DrawEdgeProfile(&edges, hz.Profile)

	mask := gocv.NewMat()
	defer mask.Close()
	gocv.CvtColor(h.mask, &mask, gocv.ColorGrayToBGR)

	top, bottom, grid := gocv.NewMat(), gocv.NewMat(), gocv.NewMat()
	defer top.Close()
	defer bottom.Close()
	defer grid.Close()
	gocv.Hconcat(original, edges, &top)
	gocv.Hconcat(mask, detections, &bottom)
	gocv.Vconcat(top, bottom, &grid)
	gocv.Resize(grid, dst, image.Point{}, 0.7, 0.7, gocv.InterpolationLinear)
	return len(hz.Regions)
}

func (h *HazardHighlighter) Close() error {
	h.color.Close()
	h.smooth.Close()
	h.gray.Close()
	h.edges.Close()
	h.mask.Close()
	return h.kernel.Close()
}

// EdgeProfile samples every stepSize-th column of a single-channel edge map
// and scans upward from just above the bottom margin for the first edge
// pixel. Columns without one report row 0.
func EdgeProfile(edges gocv.Mat, stepSize int) []image.Point {
	if stepSize <= 0 {
		stepSize = DefaultStepSize
	}
	rows, cols := edges.Rows(), edges.Cols()
	var profile []image.Point
	for j := 0; j < cols-1; j += stepSize {
		p := image.Pt(j, 0)
		for i := rows - 1 - profileMargin; i > 0; i-- {
			if edges.GetUCharAt(i, j) == 255 {
				p = image.Pt(j, i)
				break
			}
		}
		profile = append(profile, p)
	}
	return profile
}

// DrawEdgeProfile joins the profile points and draws a ray from the bottom
// of each sampled column up to its point.
func DrawEdgeProfile(img *gocv.Mat, profile []image.Point) {
	bottom := img.Rows() - 1
	for i := 0; i+1 < len(profile); i++ {
		gocv.Line(img, profile[i], profile[i+1], hazardColor, 1)
	}
	for _, p := range profile {
		gocv.Line(img, image.Pt(p.X, bottom), p, hazardColor, 1)
	}
}

// DrawHazards boxes and labels each region.
func DrawHazards(img *gocv.Mat, regions []image.Rectangle) {
	for _, r := range regions {
		gocv.Rectangle(img, r, hazardColor, 2)
		gocv.PutText(img, "Hazard", image.Pt(r.Min.X, max(r.Min.Y-10, 12)), gocv.FontHersheySimplex, 0.6, hazardColor, 2)
	}
}
