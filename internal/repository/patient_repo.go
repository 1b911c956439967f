package repository

import (
	"carelink/internal/models"

	"gorm.io/gorm"
)

type PatientRepository struct {
	db *gorm.DB
}

func NewPatientRepository(db *gorm.DB) *PatientRepository {
	return &PatientRepository{db: db}
}

func (r *PatientRepository) Create(p *models.PatientRecord) error {
	return r.db.Create(p).Error
}

func (r *PatientRepository) GetByID(id uint) (*models.PatientRecord, error) {
	var p models.PatientRecord
	if err := r.db.First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PatientRepository) Update(p *models.PatientRecord) error {
	return r.db.Save(p).Error
}

func (r *PatientRepository) Delete(id uint) error {
	return r.db.Delete(&models.PatientRecord{}, id).Error
}

func (r *PatientRepository) ListByCustomer(customerID uint) ([]models.PatientRecord, error) {
	var list []models.PatientRecord
	err := r.db.Where("customer_id = ?", customerID).Order("created_at DESC").Find(&list).Error
	return list, err
}
