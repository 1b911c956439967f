package models

import (
	"time"

	"gorm.io/gorm"
)

// Transaction is an append-only ledger entry. Amount is a positive
// magnitude; Type discriminates direction (deposit/bonus credit, payment
// debit). Rows are inserted in the same DB transaction as the balance
// mutation they explain.
type Transaction struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	UserID      uint   `gorm:"not null;index" json:"user_id"`  // affected wallet
	ActorID     uint   `gorm:"not null;index" json:"actor_id"` // who caused the movement
	Amount      int64  `gorm:"not null" json:"amount"`
	Type        string `gorm:"size:20;not null;index" json:"type"` // deposit | bonus | payment
	Description string `gorm:"size:512" json:"description"`

	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	User Profile `gorm:"foreignKey:UserID" json:"-"`
}

func (Transaction) TableName() string { return "transactions" }
