// Command overlay draws recorded pose landmarks onto their source video.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"gait-analysis/internal/config"
	"gait-analysis/internal/pose"
	"gait-analysis/internal/utils"
	"gait-analysis/internal/vision"

	"gocv.io/x/gocv"
)

func main() {
	videoPath := flag.String("video", "", "Source video (required)")
	landmarksPath := flag.String("landmarks", "", "JSON Lines landmark file for the video (required)")
	outPath := flag.String("out", "pose_overlay.avi", "Output video")
	toMP4 := flag.Bool("mp4", false, "Also transcode the output to MP4 with ffmpeg")
	flag.Parse()
	if *videoPath == "" || *landmarksPath == "" {
		log.Fatal("-video and -landmarks are required")
	}
	if err := utils.ValidateAnnotatedPath(*outPath); err != nil {
		log.Fatalf("invalid -out: %v", err)
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

	capture, err := vision.OpenVideo(*videoPath)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer capture.Close()

	writer, err := capture.NewWriter(*outPath)
	if err != nil {
		log.Fatalf("%v", err)
	}

	img := gocv.NewMat()
	defer img.Close()

	aligner := pose.NewAligner(reader)
	frames, posed := 0, 0
	for ; ctx.Err() == nil && capture.Read(&img); frames++ {
		set, err := aligner.At(frames)
		if err != nil {
			log.Fatalf("%v", err)
		}
		if set != nil {
			vision.DrawPose(&img, set)
			posed++
		}
		if err := writer.Write(img); err != nil {
			log.Fatalf("failed to write frame %d: %v", frames, err)
		}
	}
	if err := writer.Close(); err != nil {
		log.Fatalf("failed to finish %s: %v", *outPath, err)
	}
	log.Printf("wrote %s: %d frames, %d with a pose", *outPath, frames, posed)

	if *toMP4 {
		mp4, err := utils.PublishVideo(ctx, *outPath, cfg.FFmpegPath)
		if err != nil {
			log.Fatalf("failed to transcode %s: %v", *outPath, err)
		}
		log.Printf("wrote %s", mp4)
	}
}
