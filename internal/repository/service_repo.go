package repository

import (
	"carelink/internal/domain"
	"carelink/internal/models"

	"gorm.io/gorm"
)

type ServiceRepository struct {
	db *gorm.DB
}

func NewServiceRepository(db *gorm.DB) *ServiceRepository {
	return &ServiceRepository{db: db}
}

func (r *ServiceRepository) CreateCatalogEntry(s *models.ServiceCatalogEntry) error {
	return r.db.Create(s).Error
}

func (r *ServiceRepository) GetCatalogEntry(id uint) (*models.ServiceCatalogEntry, error) {
	var s models.ServiceCatalogEntry
	if err := r.db.First(&s, id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *ServiceRepository) UpdateCatalogEntry(s *models.ServiceCatalogEntry) error {
	return r.db.Save(s).Error
}

func (r *ServiceRepository) DeleteCatalogEntry(id uint) error {
	return r.db.Delete(&models.ServiceCatalogEntry{}, id).Error
}

func (r *ServiceRepository) ListCatalog() ([]models.ServiceCatalogEntry, error) {
	var list []models.ServiceCatalogEntry
	err := r.db.Order("name ASC").Find(&list).Error
	return list, err
}

func (r *ServiceRepository) CreateRegistration(reg *models.ServiceRegistration) error {
	return r.db.Create(reg).Error
}

func (r *ServiceRepository) GetRegistration(id uint) (*models.ServiceRegistration, error) {
	var reg models.ServiceRegistration
	if err := r.db.Preload("Service").First(&reg, id).Error; err != nil {
		return nil, err
	}
	return &reg, nil
}

// GetRegistrationByStaffAndService looks up the single row for the pair, if any.
func (r *ServiceRepository) GetRegistrationByStaffAndService(staffID, serviceID uint) (*models.ServiceRegistration, error) {
	var reg models.ServiceRegistration
	if err := r.db.Where("staff_id = ? AND service_id = ?", staffID, serviceID).First(&reg).Error; err != nil {
		return nil, err
	}
	return &reg, nil
}

func (r *ServiceRepository) UpdateRegistration(reg *models.ServiceRegistration) error {
	return r.db.Save(reg).Error
}

func (r *ServiceRepository) ListRegistrationsByStaff(staffID uint) ([]models.ServiceRegistration, error) {
	var list []models.ServiceRegistration
	err := r.db.Where("staff_id = ?", staffID).Preload("Service").
		Order("updated_at DESC").Find(&list).Error
	return list, err
}

func (r *ServiceRepository) ListPendingRegistrations() ([]models.ServiceRegistration, error) {
	var list []models.ServiceRegistration
	err := r.db.Where("status = ?", domain.RegistrationPending).
		Preload("Service").Preload("Staff").
		Order("updated_at ASC").Find(&list).Error
	return list, err
}

func (r *ServiceRepository) ListAllRegistrations() ([]models.ServiceRegistration, error) {
	var list []models.ServiceRegistration
	err := r.db.Preload("Service").Preload("Staff").
		Order("updated_at DESC").Find(&list).Error
	return list, err
}
