package database

import (
	"errors"
	"fmt"

	"gait-analysis/internal/config"
	"gait-analysis/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// DB holds the database connection.
var DB *gorm.DB

// ErrNoLandmarks is returned for videos that have no extracted landmark file.
var ErrNoLandmarks = errors.New("video has no landmark file")

// InitDB initializes the database connection.
func InitDB(cfg *config.Config) error {
	return Open(postgres.Open(cfg.PostgresURI))
}

// Open connects DB through the given dialector.
func Open(dialector gorm.Dialector) error {
	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return err
	}
	DB = db
	return nil
}

// FindGaitVideo returns the video with the given ID when neither it nor its
// patient is deleted and it has a landmark file. gorm.ErrRecordNotFound is
// returned for missing or deleted records.
func FindGaitVideo(db *gorm.DB, videoID uint) (*models.VideoPath, error) {
	var video models.VideoPath
	if err := db.Where("id = ? AND is_deleted = ?", videoID, false).First(&video).Error; err != nil {
		return nil, err
	}

	var patient models.Patient
	if err := db.Where("id = ? AND is_deleted = ?", video.PatientID, false).First(&patient).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("patient %d: %w", video.PatientID, err)
		}
		return nil, err
	}

	if video.LandmarkPath == nil || *video.LandmarkPath == "" {
		return nil, ErrNoLandmarks
	}
	return &video, nil
}
