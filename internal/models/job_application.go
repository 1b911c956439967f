package models

import (
	"time"

	"gorm.io/gorm"
)

// JobApplication records one staff member's interest in one job. The
// composite unique index makes a duplicate apply a constraint violation
// instead of a second row.
type JobApplication struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	JobID   uint   `gorm:"not null;uniqueIndex:idx_job_staff" json:"job_id"`
	StaffID uint   `gorm:"not null;uniqueIndex:idx_job_staff;index" json:"staff_id"`
	Status  string `gorm:"size:20;not null;default:'pending';index" json:"status"` // pending | accepted | rejected

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Job   Job     `gorm:"foreignKey:JobID" json:"-"`
	Staff Profile `gorm:"foreignKey:StaffID" json:"-"`
}

func (JobApplication) TableName() string { return "job_applications" }
