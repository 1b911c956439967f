package repository

import (
	"errors"

	"carelink/internal/domain"
	"carelink/internal/models"

	"gorm.io/gorm"
)

var ErrDuplicateApplication = errors.New("staff already applied to this job")

type ApplicationRepository struct {
	db *gorm.DB
}

func NewApplicationRepository(db *gorm.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

func (r *ApplicationRepository) Create(a *models.JobApplication) error {
	err := r.db.Create(a).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateApplication
	}
	return err
}

func (r *ApplicationRepository) GetByJobAndStaff(jobID, staffID uint) (*models.JobApplication, error) {
	var a models.JobApplication
	if err := r.db.Where("job_id = ? AND staff_id = ?", jobID, staffID).First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

// ListJobIDsByStaff returns the jobs the staff member has applied to,
// used by the marketplace to toggle apply vs open-chat.
func (r *ApplicationRepository) ListJobIDsByStaff(staffID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&models.JobApplication{}).
		Where("staff_id = ?", staffID).Pluck("job_id", &ids).Error
	return ids, err
}

func (r *ApplicationRepository) ListByJob(jobID uint) ([]models.JobApplication, error) {
	var list []models.JobApplication
	err := r.db.Where("job_id = ?", jobID).Preload("Staff").
		Order("created_at ASC").Find(&list).Error
	return list, err
}

// MarkDecided tags the winning application accepted and every other
// application for the job rejected.
func (r *ApplicationRepository) MarkDecided(jobID, winnerStaffID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.JobApplication{}).
			Where("job_id = ? AND staff_id = ?", jobID, winnerStaffID).
			Update("status", domain.ApplicationAccepted).Error; err != nil {
			return err
		}
		return tx.Model(&models.JobApplication{}).
			Where("job_id = ? AND staff_id <> ? AND status = ?", jobID, winnerStaffID, domain.ApplicationPending).
			Update("status", domain.ApplicationRejected).Error
	})
}
