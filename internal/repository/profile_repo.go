package repository

import (
	"carelink/internal/models"

	"gorm.io/gorm"
)

type ProfileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) Create(p *models.Profile) error {
	return r.db.Create(p).Error
}

func (r *ProfileRepository) GetByID(id uint) (*models.Profile, error) {
	var p models.Profile
	if err := r.db.First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProfileRepository) GetByEmail(email string) (*models.Profile, error) {
	var p models.Profile
	if err := r.db.Where("email = ?", email).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProfileRepository) GetByGoogleID(googleID string) (*models.Profile, error) {
	var p models.Profile
	if err := r.db.Where("google_id = ?", googleID).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProfileRepository) GetByReferralCode(code string) (*models.Profile, error) {
	var p models.Profile
	if err := r.db.Where("referral_code = ?", code).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProfileRepository) Update(p *models.Profile) error {
	return r.db.Save(p).Error
}

func (r *ProfileRepository) ListAll() ([]models.Profile, error) {
	var list []models.Profile
	err := r.db.Order("created_at DESC").Find(&list).Error
	return list, err
}

func (r *ProfileRepository) ListByRole(role string) ([]models.Profile, error) {
	var list []models.Profile
	err := r.db.Where("role = ?", role).Find(&list).Error
	return list, err
}

// DeleteCascade removes an account and all rows it owns. The admin-initiated
// replacement for the original's privileged stored procedure.
func (r *ProfileRepository) DeleteCascade(userID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("staff_id = ?", userID).Delete(&models.JobApplication{}).Error; err != nil {
			return err
		}
		if err := tx.Where("sender_id = ? OR receiver_id = ?", userID, userID).Delete(&models.ChatMessage{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.Transaction{}).Error; err != nil {
			return err
		}
		if err := tx.Where("staff_id = ?", userID).Delete(&models.ServiceRegistration{}).Error; err != nil {
			return err
		}
		if err := tx.Where("staff_id = ?", userID).Delete(&models.CareLog{}).Error; err != nil {
			return err
		}
		if err := tx.Where("customer_id = ?", userID).Delete(&models.PatientRecord{}).Error; err != nil {
			return err
		}
		if err := tx.Where("customer_id = ?", userID).Delete(&models.Job{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Profile{}, userID).Error
	})
}
