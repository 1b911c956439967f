package service

import (
	"errors"
	"fmt"

	"carelink/config"
	"carelink/internal/domain"
	"carelink/internal/models"
	"carelink/internal/repository"
	"carelink/internal/ws"

	"github.com/sirupsen/logrus"
)

var (
	ErrDepositTooSmall = errors.New("deposit below minimum")
	ErrNotJobOwner     = errors.New("job belongs to another customer")
)

// WalletService owns every balance movement. Credits and debits go through
// WalletRepository so the ledger row and the balance change share one DB
// transaction.
type WalletService struct {
	cfg        *config.Config
	walletRepo *repository.WalletRepository
	jobRepo    *repository.JobRepository
	hub        *ws.Hub
}

func NewWalletService(cfg *config.Config, walletRepo *repository.WalletRepository, jobRepo *repository.JobRepository, hub *ws.Hub) *WalletService {
	return &WalletService{cfg: cfg, walletRepo: walletRepo, jobRepo: jobRepo, hub: hub}
}

func (s *WalletService) Balance(userID uint) (int64, error) {
	return s.walletRepo.GetBalance(userID)
}

func (s *WalletService) History(userID uint) ([]models.Transaction, error) {
	return s.walletRepo.ListTransactions(userID)
}

// Deposit credits the user's own wallet. Amounts below the configured
// minimum are rejected before any write.
func (s *WalletService) Deposit(userID uint, amount int64) (int64, error) {
	if amount < s.cfg.Wallet.MinDeposit {
		return 0, ErrDepositTooSmall
	}
	if err := s.walletRepo.Credit(userID, userID, amount, domain.TxTypeDeposit, "Wallet deposit"); err != nil {
		return 0, err
	}
	balance, err := s.walletRepo.GetBalance(userID)
	if err != nil {
		return 0, err
	}
	s.hub.BroadcastToUser(userID, map[string]interface{}{
		"type":    "wallet",
		"event":   "deposit",
		"amount":  amount,
		"balance": balance,
	})
	return balance, nil
}

// GrantReferralBonus credits the referrer after a successful signup. Both
// the balance bump and the bonus ledger row land atomically; a failure
// leaves neither.
func (s *WalletService) GrantReferralBonus(referrerID, newUserID uint) {
	amount := s.cfg.Wallet.ReferralBonus
	if amount <= 0 {
		return
	}
	desc := fmt.Sprintf("Referral bonus for user #%d", newUserID)
	if err := s.walletRepo.Credit(referrerID, newUserID, amount, domain.TxTypeBonus, desc); err != nil {
		logrus.WithError(err).WithField("referrer_id", referrerID).Error("referral bonus credit failed")
		return
	}
	s.hub.BroadcastToUser(referrerID, map[string]interface{}{
		"type":   "wallet",
		"event":  "bonus",
		"amount": amount,
	})
}

// GrantBonus transfers amount from the admin pool to a user. Fails whole
// when the admin balance cannot cover it.
func (s *WalletService) GrantBonus(adminID, toUserID uint, amount int64, reason string) error {
	if amount <= 0 {
		return errors.New("bonus amount must be positive")
	}
	if reason == "" {
		reason = "Bonus"
	}
	if err := s.walletRepo.GrantBonus(adminID, toUserID, amount, reason); err != nil {
		return err
	}
	s.hub.BroadcastToUser(toUserID, map[string]interface{}{
		"type":   "wallet",
		"event":  "bonus",
		"amount": amount,
		"reason": reason,
	})
	return nil
}

// PayForJob settles an assigned job from the customer's balance. Jobs
// without a price fall back to the flat default rate. Retries after a
// successful payment return ErrAlreadyPaid and charge nothing.
func (s *WalletService) PayForJob(customerID, jobID uint) (*models.Job, error) {
	job, err := s.jobRepo.GetByID(jobID)
	if err != nil {
		return nil, err
	}
	if job.CustomerID != customerID {
		return nil, ErrNotJobOwner
	}
	amount := job.Price
	if amount <= 0 {
		amount = s.cfg.Wallet.DefaultJobPrice
		logrus.WithFields(logrus.Fields{
			"job_id": jobID,
			"amount": amount,
		}).Warn("job has no price, applying flat rate")
	}
	if err := s.walletRepo.PayForJob(job, customerID, amount); err != nil {
		return nil, err
	}
	job, err = s.jobRepo.GetByID(jobID)
	if err != nil {
		return nil, err
	}
	s.hub.BroadcastToUser(customerID, map[string]interface{}{
		"type":   "wallet",
		"event":  "payment",
		"job_id": jobID,
		"amount": amount,
	})
	if job.AssignedStaffID != nil {
		s.hub.BroadcastToUser(*job.AssignedStaffID, map[string]interface{}{
			"type":   "job",
			"event":  "paid",
			"job_id": jobID,
		})
	}
	return job, nil
}
