package models

import (
	"time"

	"gorm.io/gorm"
)

// ServiceCatalogEntry is an admin-owned service category staff can register for.
type ServiceCatalogEntry struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Name         string `gorm:"size:255;not null;uniqueIndex" json:"name"`
	Price        string `gorm:"size:64" json:"price"`
	Description  string `gorm:"type:text" json:"description"`
	Requirements string `gorm:"type:text" json:"requirements"` // prose describing needed credentials

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (ServiceCatalogEntry) TableName() string { return "services" }

// ServiceRegistration tracks one staff member's permission request for one
// service category. At most one row per (staff, service); resubmission after
// rejection reuses the row.
type ServiceRegistration struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	StaffID   uint   `gorm:"not null;uniqueIndex:idx_staff_service" json:"staff_id"`
	ServiceID uint   `gorm:"not null;uniqueIndex:idx_staff_service" json:"service_id"`
	Status    string `gorm:"size:20;not null;default:'pending';index" json:"status"`
	AdminNote string `gorm:"size:512" json:"admin_note"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Staff   Profile             `gorm:"foreignKey:StaffID" json:"-"`
	Service ServiceCatalogEntry `gorm:"foreignKey:ServiceID" json:"service,omitempty"`
}

func (ServiceRegistration) TableName() string { return "service_registrations" }
