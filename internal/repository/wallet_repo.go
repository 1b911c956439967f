package repository

import (
	"errors"
	"fmt"

	"carelink/internal/domain"
	"carelink/internal/models"

	"gorm.io/gorm"
)

var (
	ErrInsufficientBalance = errors.New("insufficient wallet balance")
	ErrAlreadyPaid         = errors.New("job already paid")
	ErrJobUnassigned       = errors.New("job has no assigned staff")
)

// WalletRepository is the only writer of Profile.WalletBalance. Every balance
// mutation happens inside a DB transaction that also inserts the matching
// ledger row, so the ledger always explains the balance.
type WalletRepository struct {
	db *gorm.DB
}

func NewWalletRepository(db *gorm.DB) *WalletRepository {
	return &WalletRepository{db: db}
}

func (r *WalletRepository) GetBalance(userID uint) (int64, error) {
	var balance int64
	err := r.db.Model(&models.Profile{}).Where("id = ?", userID).
		Pluck("wallet_balance", &balance).Error
	return balance, err
}

func (r *WalletRepository) ListTransactions(userID uint) ([]models.Transaction, error) {
	var list []models.Transaction
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&list).Error
	return list, err
}

// Credit adds amount to the user's wallet and records the ledger row.
// txType is deposit or bonus.
func (r *WalletRepository) Credit(userID, actorID uint, amount int64, txType, description string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Profile{}).Where("id = ?", userID).
			Update("wallet_balance", gorm.Expr("wallet_balance + ?", amount))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Create(&models.Transaction{
			UserID:      userID,
			ActorID:     actorID,
			Amount:      amount,
			Type:        txType,
			Description: description,
		}).Error
	})
}

// GrantBonus moves amount from the admin's pool balance to the recipient and
// records one bonus ledger row tagged to the recipient. The debit guards on
// the admin's balance; a failed guard rolls back the whole transfer so
// neither side moves alone.
func (r *WalletRepository) GrantBonus(adminID, toUserID uint, amount int64, description string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Profile{}).
			Where("id = ? AND wallet_balance >= ?", adminID, amount).
			Update("wallet_balance", gorm.Expr("wallet_balance - ?", amount))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInsufficientBalance
		}
		res = tx.Model(&models.Profile{}).Where("id = ?", toUserID).
			Update("wallet_balance", gorm.Expr("wallet_balance + ?", amount))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Create(&models.Transaction{
			UserID:      toUserID,
			ActorID:     adminID,
			Amount:      amount,
			Type:        domain.TxTypeBonus,
			Description: description,
		}).Error
	})
}

// PayForJob debits the customer for an assigned job exactly once. The
// payment flip guards on payment_status = 'unpaid' and the debit guards on
// wallet_balance >= amount; either guard failing rolls back the whole
// transaction, so a retry after success is a no-op error, never a second
// charge.
func (r *WalletRepository) PayForJob(job *models.Job, customerID uint, amount int64) error {
	if job.AssignedStaffID == nil {
		return ErrJobUnassigned
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Job{}).
			Where("id = ? AND payment_status = ?", job.ID, domain.PaymentStatusUnpaid).
			Updates(map[string]interface{}{
				"payment_status": domain.PaymentStatusPaid,
				"price":          amount,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrAlreadyPaid
		}

		res = tx.Model(&models.Profile{}).
			Where("id = ? AND wallet_balance >= ?", customerID, amount).
			Update("wallet_balance", gorm.Expr("wallet_balance - ?", amount))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInsufficientBalance
		}

		return tx.Create(&models.Transaction{
			UserID:      customerID,
			ActorID:     customerID,
			Amount:      amount,
			Type:        domain.TxTypePayment,
			Description: fmt.Sprintf("Payment for job #%d", job.ID),
		}).Error
	})
}
