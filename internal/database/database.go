package database

import (
	"carelink/config"
	"carelink/internal/domain"
	"carelink/internal/models"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(cfg.DSN), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Error),
		TranslateError: true, // duplicate-key detection via gorm.ErrDuplicatedKey
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	return db, nil
}

// AutoMigrate runs Gorm auto-migration for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Profile{},
		&models.Job{},
		&models.JobApplication{},
		&models.ChatMessage{},
		&models.Transaction{},
		&models.ServiceCatalogEntry{},
		&models.ServiceRegistration{},
		&models.CareLog{},
		&models.PatientRecord{},
	)
}

// SeedAdmin creates the first admin account when none exists. A no-op when
// ADMIN_PASSWORD is unset.
func SeedAdmin(db *gorm.DB, cfg *config.AdminConfig) {
	if cfg.Password == "" {
		return
	}
	var count int64
	db.Model(&models.Profile{}).Where("role = ?", domain.RoleAdmin).Count(&count)
	if count > 0 {
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Password), bcrypt.DefaultCost)
	if err != nil {
		logrus.Errorf("[db] seed admin: %v", err)
		return
	}
	admin := &models.Profile{
		Email:        cfg.Email,
		PasswordHash: string(hash),
		FullName:     "Administrator",
		Role:         domain.RoleAdmin,
		ReferralCode: "ADMIN",
	}
	if err := db.Create(admin).Error; err != nil {
		logrus.Errorf("[db] seed admin: %v", err)
		return
	}
	logrus.Infof("[db] seeded admin account %s", cfg.Email)
}
