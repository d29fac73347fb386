package utils

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

var (
	// ErrSameFile is returned when a conversion would overwrite its own input.
	ErrSameFile = errors.New("input and output are the same file")
	// ErrNotAVI is returned for annotated video paths that are not .avi files.
	ErrNotAVI = errors.New("annotated video must be an .avi file")
)

// ValidateAnnotatedPath checks that path names an MJPG container (.avi), so
// the published MP4 lands in a different file.
func ValidateAnnotatedPath(path string) error {
	if !strings.EqualFold(filepath.Ext(path), ".avi") {
		return fmt.Errorf("%w: %s", ErrNotAVI, path)
	}
	return nil
}

func samePath(a, b string) bool {
	if filepath.Clean(a) == filepath.Clean(b) {
		return true
	}
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	return errA == nil && errB == nil && absA == absB
}

// ensureDir creates the parent directory of path if it does not exist.
func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == string(filepath.Separator) {
		return nil
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		log.Printf("Creating directory: %s", dir)
		return os.MkdirAll(dir, 0755)
	}
	return nil
}

// runFFmpegCommand executes an ffmpeg command and logs its output on failure.
func runFFmpegCommand(ctx context.Context, ffmpegPath string, args ...string) error {
	cmd := exec.CommandContext(ctx, ffmpegPath, args...)
	log.Printf("Executing FFmpeg command: %s %s", ffmpegPath, strings.Join(args, " "))

	output, err := cmd.CombinedOutput()
	if err != nil {
		log.Printf("FFmpeg command failed: %v\n%s", err, string(output))
		return fmt.Errorf("ffmpeg error: %w, output: %s", err, string(output))
	}
	return nil
}

// GenerateThumbnail creates a thumbnail from a video file using ffmpeg.
// timeInSeconds specifies the point in the video to capture the thumbnail from.
func GenerateThumbnail(ctx context.Context, videoPath, thumbnailPath string, timeInSeconds int, ffmpegExecutable string) error {
	if _, err := os.Stat(videoPath); os.IsNotExist(err) {
		return fmt.Errorf("video input file does not exist: %s", videoPath)
	}
	if err := ensureDir(thumbnailPath); err != nil {
		return fmt.Errorf("failed to ensure thumbnail output directory: %w", err)
	}

	args := []string{
		"-i", videoPath,
		"-ss", strconv.Itoa(timeInSeconds),
		"-vframes", "1",
		"-y",
		thumbnailPath,
	}
	return runFFmpegCommand(ctx, ffmpegExecutable, args...)
}

// ConvertToMP4 re-encodes an annotated video (gocv writes MJPG/AVI) to
// H.264 MP4 so browsers can play it. A partial output file is removed on failure.
func ConvertToMP4(ctx context.Context, inputPath, outputPath string, ffmpegExecutable string) error {
	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		return fmt.Errorf("input file does not exist: %s", inputPath)
	}
	if samePath(inputPath, outputPath) {
		return fmt.Errorf("convert %s: %w", inputPath, ErrSameFile)
	}
	if err := ensureDir(outputPath); err != nil {
		return fmt.Errorf("failed to ensure output directory: %w", err)
	}

	args := []string{
		"-i", inputPath,
		"-c:v", "libx264",
		"-an",
		"-pix_fmt", "yuv420p",
		"-movflags", "+faststart",
		"-y",
		outputPath,
	}
	if err := runFFmpegCommand(ctx, ffmpegExecutable, args...); err != nil {
		if removeErr := os.Remove(outputPath); removeErr != nil && !os.IsNotExist(removeErr) {
			log.Printf("Warning: Failed to remove incomplete output file %s: %v", outputPath, removeErr)
		}
		return err
	}
	return nil
}

// PublishVideo converts an annotated video to MP4 next to it and writes a
// JPEG thumbnail taken one second in. It returns the MP4 path.
func PublishVideo(ctx context.Context, annotatedPath, ffmpegExecutable string) (string, error) {
	base := strings.TrimSuffix(annotatedPath, filepath.Ext(annotatedPath))
	mp4Path := base + ".mp4"
	if samePath(annotatedPath, mp4Path) {
		return "", fmt.Errorf("publish %s: %w", annotatedPath, ErrSameFile)
	}
	if err := ConvertToMP4(ctx, annotatedPath, mp4Path, ffmpegExecutable); err != nil {
		return "", err
	}
	if err := GenerateThumbnail(ctx, mp4Path, base+".jpg", 1, ffmpegExecutable); err != nil {
		log.Printf("Warning: thumbnail for %s failed: %v", mp4Path, err)
	}
	return mp4Path, nil
}
