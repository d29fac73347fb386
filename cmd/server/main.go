package main

import (
	"log"

	"gait-analysis/internal/config"
	"gait-analysis/internal/database"
	"gait-analysis/internal/server"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := database.InitDB(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	r := server.NewRouter(cfg)
	log.Printf("Gait analysis service listening on :%s (videos in %s)", cfg.ListenPort, cfg.VideoDir)
	if err := r.Run(":" + cfg.ListenPort); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}
