package server

import (
	"time"

	"gait-analysis/internal/config"
	"gait-analysis/internal/handlers"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// NewRouter wires the HTTP routes of the gait analysis service.
func NewRouter(cfg *config.Config) *gin.Engine {
	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowAllOrigins:  true,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/healthz", handlers.Healthz)

	api := r.Group("/api")
	{
		api.POST("/gait/analyze", handlers.AnalyzeGait)
		api.GET("/videos/:video_id/gait", handlers.AnalyzeVideoGait(cfg.VideoDir))
	}
	return r
}
