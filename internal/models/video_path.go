package models

// VideoPath defines the structure for video file records.
// LandmarkPath points at the JSON Lines pose landmarks extracted from the
// video by the external pose estimator; both paths are relative to VIDEO_DIR.
type VideoPath struct {
	ID             uint    `json:"id" gorm:"primaryKey"`
	PatientID      uint    `json:"patient_id" gorm:"index"`
	OriginalVideo  bool    `json:"original_video"`
	InferenceVideo bool    `json:"inference_video"`
	VideoPath      string  `json:"video_path"`
	LandmarkPath   *string `json:"landmark_path"`
	Notes          *string `json:"notes"`
	CreateTime     string  `json:"create_time"`
	UpdateTime     string  `json:"update_time"`
	IsDeleted      bool    `json:"is_deleted,omitempty" gorm:"default:false;index"`
}
