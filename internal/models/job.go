package models

import (
	"time"

	"gorm.io/gorm"
)

// Job is a customer's care request. A nil AssignedStaffID means the job is
// still on the open marketplace.
type Job struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	CustomerID uint `gorm:"not null;index" json:"customer_id"`

	Name    string `gorm:"size:255;not null" json:"name"`
	Phone   string `gorm:"size:20" json:"phone"`
	Email   string `gorm:"size:255" json:"email"`
	Address string `gorm:"size:512" json:"address"`
	Message string `gorm:"type:text;not null" json:"message"` // care need description

	Status          string `gorm:"size:20;not null;default:'new';index" json:"status"`
	AssignedStaffID *uint  `gorm:"index" json:"assigned_staff_id"`
	PaymentStatus   string `gorm:"size:20;not null;default:'unpaid'" json:"payment_status"`
	Price           int64  `gorm:"not null;default:0" json:"price"` // 0 = unset, flat default applies at payment

	CheckInTime  *time.Time `json:"check_in_time"`
	CheckInImg   string     `gorm:"size:512" json:"check_in_img"`
	CheckOutTime *time.Time `json:"check_out_time"`
	CheckOutImg  string     `gorm:"size:512" json:"check_out_img"`

	AdminReply      string `gorm:"type:text" json:"admin_reply"`
	PatientRecordID *uint  `gorm:"index" json:"patient_record_id"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Customer      Profile  `gorm:"foreignKey:CustomerID" json:"-"`
	AssignedStaff *Profile `gorm:"foreignKey:AssignedStaffID" json:"assigned_staff,omitempty"`
}

func (Job) TableName() string { return "jobs" }

func (j *Job) IsAssigned() bool { return j.AssignedStaffID != nil }

func (j *Job) IsAssignedTo(staffID uint) bool {
	return j.AssignedStaffID != nil && *j.AssignedStaffID == staffID
}
