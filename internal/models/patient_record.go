package models

import (
	"time"

	"gorm.io/gorm"
)

// PatientRecord is a customer-owned profile of the person receiving care,
// selectable as context when submitting a job.
type PatientRecord struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	CustomerID uint       `gorm:"not null;index" json:"customer_id"`
	FullName   string     `gorm:"size:255;not null" json:"full_name"`
	DOB        *time.Time `json:"dob"`
	Pathology  string     `gorm:"type:text" json:"pathology"`
	Notes      string     `gorm:"type:text" json:"notes"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Customer Profile `gorm:"foreignKey:CustomerID" json:"-"`
}

func (PatientRecord) TableName() string { return "patient_records" }
