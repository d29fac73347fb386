// Package report renders gait analysis results for people: a console
// summary and a step length chart.
package report

import (
	"errors"
	"fmt"
	"image/color"
	"io"

	"gait-analysis/internal/gait"
	"gait-analysis/internal/utils"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// ErrNoSteps is returned by PlotStepLengths when there is nothing to plot.
var ErrNoSteps = errors.New("report: no steps to plot")

// StepLine formats a single step event.
func StepLine(ev gait.StepEvent) string {
	return fmt.Sprintf("Step %d detected at frame %d: %s foot leading, x_diff=%.4f", ev.StepNumber, ev.Frame, ev.Side, ev.XDiff)
}

// sideStats returns the rounded mean and sample standard deviation of the
// step lengths that landed on side.
func sideStats(events []gait.StepEvent, side gait.Side) (float64, float64, int) {
	lengths := make([]*float64, len(events))
	n := 0
	for i := range events {
		if events[i].Side == side {
			lengths[i] = &events[i].XDiff
			n++
		}
	}
	mean, std := utils.CalculateStats(lengths)
	return mean, std, n
}

// TraceLine formats the per-frame detector trace.
func TraceLine(tr gait.FrameTrace) string {
	if !tr.Detected {
		return fmt.Sprintf("[Frame %d] landmarks not detected", tr.Index)
	}
	m := tr.Measurement
	return fmt.Sprintf("[Frame %d] X Diff: %.4f | Y Diff: %.4f | Side: %s | In Stance: %t", tr.Index, m.XDiff, m.YDiff, m.Side, m.InStance)
}

// Print writes the step events and the end-of-stream summary of r to w.
func Print(w io.Writer, r *gait.Report) error {
	for _, ev := range r.Events {
		if _, err := fmt.Fprintln(w, StepLine(ev)); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintf(w, "\nTotal steps: %d (%d frames with both ankles, %d without)\n", r.StepCount, r.ValidFrames, r.MissingFrames); err != nil {
		return err
	}
	for _, side := range []gait.Side{gait.SideLeft, gait.SideRight} {
		mean, std, n := sideStats(r.Events, side)
		if n == 0 {
			continue
		}
		if _, err := fmt.Fprintf(w, "  %s foot leading: %d steps, avg %.4f, sd %.4f\n", side, n, mean, std); err != nil {
			return err
		}
	}

	var err error
	switch r.Outcome {
	case gait.OutcomeSummarized:
		v := r.Variation
		verdict := "Uneven steps"
		if v.EvenSteps {
			verdict = "Even steps"
		}
		_, err = fmt.Fprintf(w, "Mean step length: %.4f\nStd dev: %.4f\nCoefficient of variation: %.4f\n%s\n",
			v.Mean, v.StdDev, v.CoefficientOfVariation, verdict)
	case gait.OutcomeDegenerateInput:
		_, err = fmt.Fprintln(w, "Step lengths are all zero; variation is undefined")
	default:
		_, err = fmt.Fprintln(w, "Not enough steps detected to analyze variation")
	}
	return err
}

// PlotStepLengths saves a bar chart of the recorded step lengths to path,
// with the mean drawn as a horizontal line when it is known. The image
// format follows the file extension.
func PlotStepLengths(r *gait.Report, path string) error {
	if len(r.StepLengths) == 0 {
		return ErrNoSteps
	}

	p := plot.New()
	p.Title.Text = "Step lengths"
	p.X.Label.Text = "Step"
	p.Y.Label.Text = "Ankle separation (normalized)"

	values := make(plotter.Values, len(r.StepLengths))
	labels := make([]string, len(r.StepLengths))
	copy(values, r.StepLengths)
	for i := range labels {
		labels[i] = fmt.Sprintf("%d", i+1)
	}

	bars, err := plotter.NewBarChart(values, vg.Points(14))
	if err != nil {
		return fmt.Errorf("bar chart: %w", err)
	}
	bars.Color = color.RGBA{R: 70, G: 130, B: 180, A: 255}
	p.Add(bars)
	p.NominalX(labels...)

	if r.Variation != nil {
		mean := r.Variation.Mean
		line := plotter.NewFunction(func(float64) float64 { return mean })
		line.Color = color.RGBA{R: 220, A: 255}
		line.Width = vg.Points(1)
		p.Add(line)
		p.Legend.Add(fmt.Sprintf("mean %.4f (CV %.3f)", mean, r.Variation.CoefficientOfVariation), line)
	}

	if err := p.Save(8*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("save plot %s: %w", path, err)
	}
	return nil
}
