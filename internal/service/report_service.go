package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"carelink/config"
	"carelink/internal/domain"
	"carelink/internal/models"
	"carelink/internal/repository"
	"carelink/internal/ws"
	"carelink/pkg/cloudinary"

	"github.com/google/uuid"
)

var ErrVideoTooLarge = errors.New("video exceeds maximum size")

type ReportService struct {
	cfg     *config.Config
	logRepo *repository.CareLogRepository
	jobRepo *repository.JobRepository
	storage cloudinary.Client
	hub     *ws.Hub
}

func NewReportService(cfg *config.Config, logRepo *repository.CareLogRepository, jobRepo *repository.JobRepository, storage cloudinary.Client, hub *ws.Hub) *ReportService {
	return &ReportService{cfg: cfg, logRepo: logRepo, jobRepo: jobRepo, storage: storage, hub: hub}
}

// Submit uploads a work-report video and appends the care log. size is the
// declared upload size, checked against the configured cap before any
// storage traffic.
func (s *ReportService) Submit(ctx context.Context, jobID *uint, staffID uint, video io.Reader, size int64, description string) (*models.CareLog, error) {
	if size <= 0 || size > s.cfg.Upload.MaxVideoBytes {
		return nil, ErrVideoTooLarge
	}
	var customerID uint
	if jobID != nil {
		job, err := s.jobRepo.GetByID(*jobID)
		if err != nil {
			return nil, err
		}
		if !job.IsAssignedTo(staffID) {
			return nil, ErrNotAssignedToJob
		}
		customerID = job.CustomerID
	}

	publicID := fmt.Sprintf("report_%d_%s", staffID, uuid.NewString()[:8])
	url, err := s.storage.UploadVideo(ctx, io.LimitReader(video, s.cfg.Upload.MaxVideoBytes), "care-reports", publicID)
	if err != nil {
		return nil, err
	}

	entry := &models.CareLog{
		JobID:        jobID,
		StaffID:      staffID,
		VideoURL:     url,
		ThumbnailURL: cloudinary.BuildThumbnailURL(s.cfg.Cloudinary.CloudName, "care-reports/"+publicID),
		Description:  description,
	}
	if err := s.logRepo.Create(entry); err != nil {
		return nil, err
	}

	payload := map[string]interface{}{
		"type":   "report",
		"event":  "new",
		"log_id": entry.ID,
	}
	if customerID != 0 {
		s.hub.BroadcastToUser(customerID, payload)
	}
	s.hub.BroadcastToRole(domain.RoleAdmin, payload)
	return entry, nil
}

func (s *ReportService) ListByJob(jobID uint) ([]models.CareLog, error) {
	return s.logRepo.ListByJob(jobID)
}

func (s *ReportService) ListByStaff(staffID uint) ([]models.CareLog, error) {
	return s.logRepo.ListByStaff(staffID)
}

func (s *ReportService) ListAll() ([]models.CareLog, error) {
	return s.logRepo.ListAll()
}
