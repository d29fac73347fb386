// Command hazard highlights dark obstacles and the edge free-space profile
// in a camera feed or video file in real time. With -grid it shows the
// frame, edge map, threshold mask and detections side by side.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"gait-analysis/internal/utils"
	"gait-analysis/internal/vision"

	"gocv.io/x/gocv"
)

func main() {
	camera := flag.Int("camera", 0, "Camera device index, used when -video is empty")
	videoPath := flag.String("video", "", "Read frames from a video file instead of a camera")
	outPath := flag.String("out", "", "Write highlighted frames to this .avi file")
	show := flag.Bool("show", true, "Show highlighted frames in a window (ESC stops)")
	minArea := flag.Float64("min-area", 500, "Minimum contour area in pixels to highlight")
	step := flag.Int("step", vision.DefaultStepSize, "Column spacing of the edge profile")
	grid := flag.Bool("grid", false, "Render the 2x2 diagnostic grid instead of the annotated frame")
	flag.Parse()
	if *outPath != "" {
		if err := utils.ValidateAnnotatedPath(*outPath); err != nil {
			log.Fatalf("invalid -out: %v", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		capture *vision.Capture
		err     error
	)
	if *videoPath != "" {
		capture, err = vision.OpenVideo(*videoPath)
	} else {
		capture, err = vision.OpenCamera(*camera)
	}
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer capture.Close()

	var writer *gocv.VideoWriter
	if *outPath != "" && !*grid {
		if writer, err = capture.NewWriter(*outPath); err != nil {
			log.Fatalf("%v", err)
		}
		defer writer.Close()
	}

	var window *gocv.Window
	if *show {
		window = gocv.NewWindow("Hazard detection")
		defer window.Close()
	}

	highlighter := vision.NewHazardHighlighter()
	highlighter.MinArea = *minArea
	highlighter.StepSize = *step
	defer highlighter.Close()

	img := gocv.NewMat()
	defer img.Close()
	view := gocv.NewMat()
	defer view.Close()

	frames, flagged := 0, 0
	for ctx.Err() == nil && capture.Read(&img) {
		frames++
		var found int
		if *grid {
			found = highlighter.Grid(img, &view)
		} else {
			found = highlighter.Highlight(&img)
			img.CopyTo(&view)
		}
		if found > 0 {
			flagged++
		}
		if writer == nil && *outPath != "" {
			// The grid is smaller than the source, so its writer is sized
			// from the first rendered view.
			if writer, err = gocv.VideoWriterFile(*outPath, "MJPG", capture.FPS(), view.Cols(), view.Rows(), true); err != nil {
				log.Fatalf("create writer %s: %v", *outPath, err)
			}
			defer writer.Close()
		}
		if writer != nil {
			if err := writer.Write(view); err != nil {
				log.Fatalf("failed to write frame %d: %v", frames, err)
			}
		}
		if window != nil {
			window.IMShow(view)
			if window.WaitKey(1) == 27 {
				break
			}
		}
	}
	log.Printf("processed %d frames, %d with hazards", frames, flagged)
}
