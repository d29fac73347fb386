package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"path/filepath"
	"strconv"

	"gait-analysis/internal/database"
	"gait-analysis/internal/gait"
	"gait-analysis/internal/pose"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// --- Structs for Request Binding ---

// AnalyzeGaitRequest carries the landmarks of a recorded walk, one entry per
// video frame in order. Frames are numbered by their position in the list.
type AnalyzeGaitRequest struct {
	Frames []pose.Frame `json:"frames" binding:"required"`
}

// GaitResponse is the analysis report returned to clients.
type GaitResponse struct {
	RunID   string `json:"run_id"`
	VideoID *uint  `json:"video_id,omitempty"`
	*gait.Report
}

func runGait(ctx context.Context, runID string, src gait.FrameSource) (*gait.Report, error) {
	return gait.Analyze(ctx, src, func(ev gait.StepEvent) {
		log.Printf("[%s] step %d detected at frame %d: %s foot, x_diff=%.4f", runID, ev.StepNumber, ev.Frame, ev.Side, ev.XDiff)
	})
}

// --- Handler Functions ---

func AnalyzeGait(c *gin.Context) {
	var req AnalyzeGaitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	frames := make([]pose.Frame, len(req.Frames))
	for i, f := range req.Frames {
		frames[i] = pose.Frame{Index: i, Landmarks: f.Landmarks}
	}

	runID := uuid.NewString()
	report, err := runGait(c.Request.Context(), runID, &pose.SliceSource{Frames: frames})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Gait analysis failed", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, GaitResponse{RunID: runID, Report: report})
}

// AnalyzeVideoGait analyzes the landmark file recorded for a catalogued
// video. Paths in the catalog are resolved against videoDir.
func AnalyzeVideoGait(videoDir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		videoID, err := strconv.ParseUint(c.Param("video_id"), 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid video ID format"})
			return
		}

		video, err := database.FindGaitVideo(database.DB, uint(videoID))
		if err != nil {
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				c.JSON(http.StatusNotFound, gin.H{"message": "Video not found"})
			case errors.Is(err, database.ErrNoLandmarks):
				c.JSON(http.StatusConflict, gin.H{"message": "Video has no extracted landmarks"})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"message": "Database error fetching video", "details": err.Error()})
			}
			return
		}

		r, err := pose.Open(filepath.Join(videoDir, filepath.Clean("/"+*video.LandmarkPath)))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to open landmarks", "details": err.Error()})
			return
		}
		defer r.Close()

		runID := uuid.NewString()
		report, err := runGait(c.Request.Context(), runID, r)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Gait analysis failed", "details": err.Error()})
			return
		}
		log.Printf("[%s] video %d: %d steps, outcome %s", runID, video.ID, report.StepCount, report.Outcome)

		id := video.ID
		c.JSON(http.StatusOK, GaitResponse{RunID: runID, VideoID: &id, Report: report})
	}
}

func Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
