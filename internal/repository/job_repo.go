package repository

import (
	"time"

	"carelink/internal/domain"
	"carelink/internal/models"

	"gorm.io/gorm"
)

type JobRepository struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) *JobRepository {
	return &JobRepository{db: db}
}

func (r *JobRepository) Create(j *models.Job) error {
	return r.db.Create(j).Error
}

func (r *JobRepository) GetByID(id uint) (*models.Job, error) {
	var j models.Job
	if err := r.db.First(&j, id).Error; err != nil {
		return nil, err
	}
	return &j, nil
}

func (r *JobRepository) Update(j *models.Job) error {
	return r.db.Save(j).Error
}

func (r *JobRepository) Delete(id uint) error {
	return r.db.Delete(&models.Job{}, id).Error
}

// ListOpen returns jobs visible on the marketplace: unassigned and not done,
// newest first.
func (r *JobRepository) ListOpen() ([]models.Job, error) {
	var list []models.Job
	err := r.db.Where("assigned_staff_id IS NULL AND status <> ?", domain.JobStatusDone).
		Order("created_at DESC").Find(&list).Error
	return list, err
}

func (r *JobRepository) ListByCustomer(customerID uint) ([]models.Job, error) {
	var list []models.Job
	err := r.db.Where("customer_id = ?", customerID).
		Preload("AssignedStaff").Order("created_at DESC").Find(&list).Error
	return list, err
}

func (r *JobRepository) ListAssignedToStaff(staffID uint) ([]models.Job, error) {
	var list []models.Job
	err := r.db.Where("assigned_staff_id = ?", staffID).Order("created_at DESC").Find(&list).Error
	return list, err
}

// ListUnpaidAssigned returns a customer's jobs that have a staff member and
// still await payment.
func (r *JobRepository) ListUnpaidAssigned(customerID uint) ([]models.Job, error) {
	var list []models.Job
	err := r.db.Where("customer_id = ? AND payment_status = ? AND assigned_staff_id IS NOT NULL",
		customerID, domain.PaymentStatusUnpaid).
		Preload("AssignedStaff").Order("created_at DESC").Find(&list).Error
	return list, err
}

func (r *JobRepository) ListAll() ([]models.Job, error) {
	var list []models.Job
	err := r.db.Preload("AssignedStaff").Order("created_at DESC").Find(&list).Error
	return list, err
}

// AssignIfUnassigned binds the staff member only when no one holds the job
// yet. Returns false when another actor won the race.
func (r *JobRepository) AssignIfUnassigned(jobID, staffID uint) (bool, error) {
	res := r.db.Model(&models.Job{}).
		Where("id = ? AND assigned_staff_id IS NULL", jobID).
		Updates(map[string]interface{}{
			"assigned_staff_id": staffID,
			"status":            domain.JobStatusProcessing,
		})
	return res.RowsAffected == 1, res.Error
}

// SetCheckIn records shift start for the assigned staff member. The WHERE
// clause enforces both the assignment and the no-prior-check-in precondition.
func (r *JobRepository) SetCheckIn(jobID, staffID uint, at time.Time, imgURL string) (bool, error) {
	res := r.db.Model(&models.Job{}).
		Where("id = ? AND assigned_staff_id = ? AND check_in_time IS NULL", jobID, staffID).
		Updates(map[string]interface{}{
			"check_in_time": at,
			"check_in_img":  imgURL,
		})
	return res.RowsAffected == 1, res.Error
}

// SetCheckOut records shift end; requires a prior check-in and no prior check-out.
func (r *JobRepository) SetCheckOut(jobID, staffID uint, at time.Time, imgURL string) (bool, error) {
	res := r.db.Model(&models.Job{}).
		Where("id = ? AND assigned_staff_id = ? AND check_in_time IS NOT NULL AND check_out_time IS NULL", jobID, staffID).
		Updates(map[string]interface{}{
			"check_out_time": at,
			"check_out_img":  imgURL,
		})
	return res.RowsAffected == 1, res.Error
}

func (r *JobRepository) SetStatus(jobID uint, status string) error {
	return r.db.Model(&models.Job{}).Where("id = ?", jobID).Update("status", status).Error
}

func (r *JobRepository) SetAdminReply(jobID uint, reply string) error {
	return r.db.Model(&models.Job{}).Where("id = ?", jobID).Updates(map[string]interface{}{
		"admin_reply": reply,
		"status":      domain.JobStatusDone,
	}).Error
}
