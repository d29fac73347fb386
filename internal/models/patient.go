package models

// Patient defines the structure for patient records. Videos of deleted
// patients are not analyzed.
type Patient struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	Username   string `json:"username" gorm:"index"`
	CaseID     string `json:"case_id" gorm:"uniqueIndex"`
	CreateTime string `json:"create_time"`
	UpdateTime string `json:"update_time"`
	IsDeleted  bool   `json:"is_deleted,omitempty" gorm:"default:false;index"`
}
