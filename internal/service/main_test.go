package service

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"carelink/config"
	"carelink/internal/database"
	"carelink/internal/domain"
	"carelink/internal/models"
	"carelink/internal/repository"
	"carelink/internal/ws"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

func testConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			AccessSecret:  "test-access",
			RefreshSecret: "test-refresh",
			AccessExpiry:  15 * time.Minute,
			RefreshExpiry: time.Hour,
			Issuer:        "carelink-test",
		},
		Wallet: config.WalletConfig{
			DefaultJobPrice: 200000,
			MinDeposit:      10000,
			ReferralBonus:   50000,
		},
		Upload:     config.UploadConfig{MaxVideoBytes: 50 << 20},
		Cloudinary: config.CloudinaryConfig{CloudName: "test-cloud"},
	}
}

// fakeStorage satisfies cloudinary.Client without network traffic.
type fakeStorage struct {
	uploads int
	fail    bool
}

func (f *fakeStorage) UploadImage(_ context.Context, file io.Reader, folder, publicID string) (string, error) {
	if f.fail {
		return "", fmt.Errorf("storage unavailable")
	}
	io.Copy(io.Discard, file)
	f.uploads++
	return "https://cdn.test/" + folder + "/" + publicID + ".jpg", nil
}

func (f *fakeStorage) UploadVideo(_ context.Context, file io.Reader, folder, publicID string) (string, error) {
	if f.fail {
		return "", fmt.Errorf("storage unavailable")
	}
	io.Copy(io.Discard, file)
	f.uploads++
	return "https://cdn.test/" + folder + "/" + publicID + ".mp4", nil
}

func seedUser(t *testing.T, db *gorm.DB, role string, balance int64) *models.Profile {
	t.Helper()
	p := &models.Profile{
		Email:         uuid.NewString() + "@test.local",
		FullName:      "Test " + role,
		Role:          role,
		ReferralCode:  uuid.NewString()[:8],
		WalletBalance: balance,
	}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return p
}

func seedVerifiedStaff(t *testing.T, db *gorm.DB) *models.Profile {
	t.Helper()
	p := seedUser(t, db, domain.RoleStaff, 0)
	p.VerificationStatus = domain.VerificationVerified
	p.IDFrontImg = "https://cdn.test/front.jpg"
	p.IDBackImg = "https://cdn.test/back.jpg"
	p.SetCredentialImages([]string{"https://cdn.test/cred.jpg"})
	if err := db.Save(p).Error; err != nil {
		t.Fatalf("seed verified staff: %v", err)
	}
	return p
}

func seedJob(t *testing.T, db *gorm.DB, customerID uint, message string) *models.Job {
	t.Helper()
	j := &models.Job{
		CustomerID:    customerID,
		Name:          "Family Contact",
		Phone:         "0700000000",
		Email:         "family@test.local",
		Address:       "12 Care Street",
		Message:       message,
		Status:        domain.JobStatusNew,
		PaymentStatus: domain.PaymentStatusUnpaid,
	}
	if err := db.Create(j).Error; err != nil {
		t.Fatalf("seed job: %v", err)
	}
	return j
}

type testEnv struct {
	db          *gorm.DB
	cfg         *config.Config
	hub         *ws.Hub
	chatHub     *ws.ChatHub
	profileRepo *repository.ProfileRepository
	jobRepo     *repository.JobRepository
	appRepo     *repository.ApplicationRepository
	chatRepo    *repository.ChatRepository
	walletRepo  *repository.WalletRepository
	serviceRepo *repository.ServiceRepository
	careLogRepo *repository.CareLogRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := newTestDB(t)
	return &testEnv{
		db:          db,
		cfg:         testConfig(),
		hub:         ws.NewHub(),
		chatHub:     ws.NewChatHub(),
		profileRepo: repository.NewProfileRepository(db),
		jobRepo:     repository.NewJobRepository(db),
		appRepo:     repository.NewApplicationRepository(db),
		chatRepo:    repository.NewChatRepository(db),
		walletRepo:  repository.NewWalletRepository(db),
		serviceRepo: repository.NewServiceRepository(db),
		careLogRepo: repository.NewCareLogRepository(db),
	}
}
