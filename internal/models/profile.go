package models

import (
	"encoding/json"
	"time"

	"carelink/internal/domain"

	"gorm.io/gorm"
)

type Profile struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	Email        string  `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash string  `gorm:"size:255" json:"-"`
	GoogleID     *string `gorm:"uniqueIndex;size:255" json:"-"` // nil for email signups
	FullName     string  `gorm:"size:255;not null" json:"full_name"`
	Phone        string  `gorm:"size:20" json:"phone"`
	Role         string  `gorm:"size:20;not null;index" json:"role"` // customer | staff | admin

	// Staff fields
	Specialties        string `gorm:"size:255" json:"specialties"` // free-text list of service names
	VerificationStatus string `gorm:"size:20;not null;default:'unverified'" json:"verification_status"`
	IDFrontImg         string `gorm:"size:512" json:"id_front_img"`
	IDBackImg          string `gorm:"size:512" json:"id_back_img"`
	CredentialImgs     string `gorm:"type:text" json:"-"` // JSON array of credential image URLs

	ReferralCode string `gorm:"uniqueIndex;size:16" json:"referral_code"`
	ReferredBy   *uint  `gorm:"index" json:"referred_by"`

	// Whole currency units, never negative. Written only by the wallet
	// service inside the same DB transaction as the ledger row.
	WalletBalance int64 `gorm:"not null;default:0" json:"wallet_balance"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Profile) TableName() string { return "profiles" }

func (p *Profile) IsStaff() bool    { return p.Role == domain.RoleStaff }
func (p *Profile) IsCustomer() bool { return p.Role == domain.RoleCustomer }
func (p *Profile) IsAdmin() bool    { return p.Role == domain.RoleAdmin }

func (p *Profile) CredentialImages() []string {
	if p.CredentialImgs == "" {
		return nil
	}
	var urls []string
	if json.Unmarshal([]byte(p.CredentialImgs), &urls) != nil {
		return nil
	}
	return urls
}

func (p *Profile) SetCredentialImages(urls []string) {
	b, _ := json.Marshal(urls)
	p.CredentialImgs = string(b)
}

// HasKYCDocuments reports whether both ID images and at least one
// credential image are on file.
func (p *Profile) HasKYCDocuments() bool {
	return p.IDFrontImg != "" && p.IDBackImg != "" && len(p.CredentialImages()) > 0
}
