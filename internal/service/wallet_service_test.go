package service

import (
	"testing"

	"carelink/internal/domain"
	"carelink/internal/models"
	"carelink/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWalletService(env *testEnv) *WalletService {
	return NewWalletService(env.cfg, env.walletRepo, env.jobRepo, env.hub)
}

func TestDepositBelowMinimumRejected(t *testing.T) {
	env := newTestEnv(t)
	svc := newWalletService(env)
	customer := seedUser(t, env.db, domain.RoleCustomer, 0)

	_, err := svc.Deposit(customer.ID, env.cfg.Wallet.MinDeposit-1)
	assert.ErrorIs(t, err, ErrDepositTooSmall)

	balance, err := svc.Balance(customer.ID)
	require.NoError(t, err)
	assert.Zero(t, balance)
}

func TestDepositCreditsBalanceAndLedger(t *testing.T) {
	env := newTestEnv(t)
	svc := newWalletService(env)
	customer := seedUser(t, env.db, domain.RoleCustomer, 0)

	balance, err := svc.Deposit(customer.ID, 50000)
	require.NoError(t, err)
	assert.Equal(t, int64(50000), balance)

	txs, err := svc.History(customer.ID)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, domain.TxTypeDeposit, txs[0].Type)
	assert.Equal(t, int64(50000), txs[0].Amount)
}

func TestPayForJobIdempotent(t *testing.T) {
	env := newTestEnv(t)
	svc := newWalletService(env)
	customer := seedUser(t, env.db, domain.RoleCustomer, 500000)
	staff := seedUser(t, env.db, domain.RoleStaff, 0)
	job := seedJob(t, env.db, customer.ID, "elder care at home")
	job.AssignedStaffID = &staff.ID
	job.Price = 150000
	require.NoError(t, env.db.Save(job).Error)

	paid, err := svc.PayForJob(customer.ID, job.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusPaid, paid.PaymentStatus)

	// Second attempt must conflict, not re-charge.
	_, err = svc.PayForJob(customer.ID, job.ID)
	assert.ErrorIs(t, err, repository.ErrAlreadyPaid)

	balance, err := svc.Balance(customer.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(350000), balance)

	txs, err := svc.History(customer.ID)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, domain.TxTypePayment, txs[0].Type)
}

func TestPayForJobInsufficientBalanceRollsBack(t *testing.T) {
	env := newTestEnv(t)
	svc := newWalletService(env)
	customer := seedUser(t, env.db, domain.RoleCustomer, 1000)
	staff := seedUser(t, env.db, domain.RoleStaff, 0)
	job := seedJob(t, env.db, customer.ID, "night shift care")
	job.AssignedStaffID = &staff.ID
	job.Price = 150000
	require.NoError(t, env.db.Save(job).Error)

	_, err := svc.PayForJob(customer.ID, job.ID)
	assert.ErrorIs(t, err, repository.ErrInsufficientBalance)

	// The payment flip must have rolled back with the failed debit.
	var fresh models.Job
	require.NoError(t, env.db.First(&fresh, job.ID).Error)
	assert.Equal(t, domain.PaymentStatusUnpaid, fresh.PaymentStatus)

	balance, err := svc.Balance(customer.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), balance)
}

func TestPayForJobUnassignedRejected(t *testing.T) {
	env := newTestEnv(t)
	svc := newWalletService(env)
	customer := seedUser(t, env.db, domain.RoleCustomer, 500000)
	job := seedJob(t, env.db, customer.ID, "day care")

	_, err := svc.PayForJob(customer.ID, job.ID)
	assert.ErrorIs(t, err, repository.ErrJobUnassigned)
}

func TestPayForJobFlatRateFallback(t *testing.T) {
	env := newTestEnv(t)
	svc := newWalletService(env)
	customer := seedUser(t, env.db, domain.RoleCustomer, 500000)
	staff := seedUser(t, env.db, domain.RoleStaff, 0)
	job := seedJob(t, env.db, customer.ID, "care with no price set")
	job.AssignedStaffID = &staff.ID
	require.NoError(t, env.db.Save(job).Error)

	paid, err := svc.PayForJob(customer.ID, job.ID)
	require.NoError(t, err)
	assert.Equal(t, env.cfg.Wallet.DefaultJobPrice, paid.Price)

	balance, err := svc.Balance(customer.ID)
	require.NoError(t, err)
	assert.Equal(t, 500000-env.cfg.Wallet.DefaultJobPrice, balance)
}

func TestPayForJobWrongOwnerRejected(t *testing.T) {
	env := newTestEnv(t)
	svc := newWalletService(env)
	customer := seedUser(t, env.db, domain.RoleCustomer, 500000)
	other := seedUser(t, env.db, domain.RoleCustomer, 500000)
	staff := seedUser(t, env.db, domain.RoleStaff, 0)
	job := seedJob(t, env.db, customer.ID, "care")
	job.AssignedStaffID = &staff.ID
	require.NoError(t, env.db.Save(job).Error)

	_, err := svc.PayForJob(other.ID, job.ID)
	assert.ErrorIs(t, err, ErrNotJobOwner)
}

func TestGrantBonusMovesFundsAtomically(t *testing.T) {
	env := newTestEnv(t)
	svc := newWalletService(env)
	admin := seedUser(t, env.db, domain.RoleAdmin, 100000)
	staff := seedUser(t, env.db, domain.RoleStaff, 0)

	require.NoError(t, svc.GrantBonus(admin.ID, staff.ID, 30000, "great work"))

	adminBalance, _ := svc.Balance(admin.ID)
	staffBalance, _ := svc.Balance(staff.ID)
	assert.Equal(t, int64(70000), adminBalance)
	assert.Equal(t, int64(30000), staffBalance)

	txs, err := svc.History(staff.ID)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, domain.TxTypeBonus, txs[0].Type)
	assert.Equal(t, admin.ID, txs[0].ActorID)
}

func TestGrantBonusInsufficientPoolLeavesBothUntouched(t *testing.T) {
	env := newTestEnv(t)
	svc := newWalletService(env)
	admin := seedUser(t, env.db, domain.RoleAdmin, 10000)
	staff := seedUser(t, env.db, domain.RoleStaff, 5000)

	err := svc.GrantBonus(admin.ID, staff.ID, 30000, "too generous")
	assert.ErrorIs(t, err, repository.ErrInsufficientBalance)

	adminBalance, _ := svc.Balance(admin.ID)
	staffBalance, _ := svc.Balance(staff.ID)
	assert.Equal(t, int64(10000), adminBalance)
	assert.Equal(t, int64(5000), staffBalance)

	txs, err := svc.History(staff.ID)
	require.NoError(t, err)
	assert.Empty(t, txs)
}
