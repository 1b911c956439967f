package models

import (
	"time"

	"gorm.io/gorm"
)

// CareLog is an append-only video report submitted by staff during a shift.
type CareLog struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	JobID       *uint  `gorm:"index" json:"job_id"`
	StaffID     uint   `gorm:"not null;index" json:"staff_id"`
	VideoURL     string `gorm:"size:512;not null" json:"video_url"`
	ThumbnailURL string `gorm:"size:512" json:"thumbnail_url"` // poster frame for list views
	Description  string `gorm:"type:text" json:"description"`

	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Staff Profile `gorm:"foreignKey:StaffID" json:"-"`
}

func (CareLog) TableName() string { return "care_logs" }
