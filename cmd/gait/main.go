// Command gait detects steps in a recorded walk from per-frame pose
// landmarks and reports how even the step lengths are. When the source
// video is given, detected steps are drawn onto it.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"gait-analysis/internal/config"
	"gait-analysis/internal/gait"
	"gait-analysis/internal/pose"
	"gait-analysis/internal/report"
	"gait-analysis/internal/utils"
	"gait-analysis/internal/vision"

	"gocv.io/x/gocv"
)

var (
	landmarksPath = flag.String("landmarks", "", "JSON Lines landmark file produced by the pose estimator (required)")
	videoPath     = flag.String("video", "", "Source video to annotate")
	outPath       = flag.String("out", "", "Annotated video output (.avi); requires -video")
	toMP4         = flag.Bool("mp4", false, "Also transcode the annotated video to MP4 with ffmpeg")
	plotPath      = flag.String("plot", "", "Write a step length chart (.png/.svg/.pdf)")
	show          = flag.Bool("show", false, "Preview annotated frames in a window (ESC stops)")
	summarySecs   = flag.Float64("summary", 3, "Seconds to hold the result on the last frame of -out (0 disables)")
	verbose       = flag.Bool("v", false, "Log the detector measurements for every frame")
)

func main() {
	flag.Parse()
	if *landmarksPath == "" {
		log.Fatal("-landmarks is required")
	}
	if *outPath != "" {
		if err := utils.ValidateAnnotatedPath(*outPath); err != nil {
			log.Fatalf("invalid -out: %v", err)
		}
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reader, err := pose.Open(*landmarksPath)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer reader.Close()

	hooks := gait.Hooks{
		OnStep: func(ev gait.StepEvent) { log.Print(report.StepLine(ev)) },
	}
	if *verbose {
		hooks.OnFrame = func(tr gait.FrameTrace) { log.Print(report.TraceLine(tr)) }
	}

	var r *gait.Report
	if *videoPath == "" {
		r, err = gait.AnalyzeWithHooks(ctx, reader, hooks)
	} else {
		r, err = annotate(ctx, reader, hooks)
	}
	if err != nil {
		log.Fatalf("analysis failed: %v", err)
	}

	if err := report.Print(os.Stdout, r); err != nil {
		log.Fatalf("failed to print report: %v", err)
	}
	if *plotPath != "" {
		if err := report.PlotStepLengths(r, *plotPath); err != nil {
			log.Printf("step chart not written: %v", err)
		}
	}
	if *outPath != "" && *toMP4 {
		mp4, err := utils.PublishVideo(ctx, *outPath, cfg.FFmpegPath)
		if err != nil {
			log.Fatalf("failed to transcode %s: %v", *outPath, err)
		}
		log.Printf("wrote %s", mp4)
	}
}

// annotate runs the session frame by frame alongside the video so each step
// can be drawn on the frame it was detected in.
func annotate(ctx context.Context, reader *pose.Reader, hooks gait.Hooks) (*gait.Report, error) {
	capture, err := vision.OpenVideo(*videoPath)
	if err != nil {
		return nil, err
	}
	defer capture.Close()

	var writer *gocv.VideoWriter
	if *outPath != "" {
		if writer, err = capture.NewWriter(*outPath); err != nil {
			return nil, err
		}
		defer writer.Close()
	}

	var window *gocv.Window
	if *show {
		window = gocv.NewWindow("Gait analysis")
		defer window.Close()
	}

	img := gocv.NewMat()
	defer img.Close()
	lastRaw := gocv.NewMat()
	defer lastRaw.Close()

	aligner := pose.NewAligner(reader)
	session := gait.NewSession()
	var last *gait.StepEvent

	for i := 0; ctx.Err() == nil && capture.Read(&img); i++ {
		set, err := aligner.At(i)
		if err != nil {
			return nil, err
		}

		img.CopyTo(&lastRaw)
		ankles := pose.Ankles(set)
		ev, ok := session.Observe(gait.Observation{Index: i, Ankles: ankles})
		if ok {
			last = &ev
			if hooks.OnStep != nil {
				hooks.OnStep(ev)
			}
		}
		trace := session.Trace()
		if hooks.OnFrame != nil {
			hooks.OnFrame(trace)
		}

		if !trace.Detected {
			vision.DrawNoLandmarks(&img)
		} else {
			vision.DrawPose(&img, set)
			vision.DrawAnkles(&img, set, trace.Measurement.InStance)
		}
		vision.DrawStatus(&img, session.State().StepCount, last)

		if writer != nil {
			if err := writer.Write(img); err != nil {
				return nil, err
			}
		}
		if window != nil {
			window.IMShow(img)
			if window.WaitKey(1) == 27 {
				break
			}
		}
	}
	r := session.Finish()
	if writer != nil {
		n := vision.SummaryFrames(capture.FPS(), *summarySecs)
		if err := vision.WriteSummary(writer, lastRaw, n, r); err != nil {
			return nil, err
		}
	}
	return r, nil
}
