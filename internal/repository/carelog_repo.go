package repository

import (
	"carelink/internal/models"

	"gorm.io/gorm"
)

type CareLogRepository struct {
	db *gorm.DB
}

func NewCareLogRepository(db *gorm.DB) *CareLogRepository {
	return &CareLogRepository{db: db}
}

func (r *CareLogRepository) Create(l *models.CareLog) error {
	return r.db.Create(l).Error
}

func (r *CareLogRepository) ListByJob(jobID uint) ([]models.CareLog, error) {
	var list []models.CareLog
	err := r.db.Where("job_id = ?", jobID).Preload("Staff").
		Order("created_at DESC").Find(&list).Error
	return list, err
}

func (r *CareLogRepository) ListByStaff(staffID uint) ([]models.CareLog, error) {
	var list []models.CareLog
	err := r.db.Where("staff_id = ?", staffID).Order("created_at DESC").Find(&list).Error
	return list, err
}

func (r *CareLogRepository) ListAll() ([]models.CareLog, error) {
	var list []models.CareLog
	err := r.db.Preload("Staff").Order("created_at DESC").Find(&list).Error
	return list, err
}
