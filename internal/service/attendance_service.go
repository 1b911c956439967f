package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"carelink/internal/domain"
	"carelink/internal/models"
	"carelink/internal/repository"
	"carelink/internal/ws"
	"carelink/pkg/cloudinary"

	"github.com/google/uuid"
)

var (
	ErrNotAssignedToJob  = errors.New("job is not assigned to this staff member")
	ErrAlreadyCheckedIn  = errors.New("already checked in")
	ErrNotCheckedIn      = errors.New("check-in required before check-out")
	ErrAlreadyCheckedOut = errors.New("already checked out")
	ErrInvalidKind       = errors.New("kind must be check-in or check-out")
)

type AttendanceService struct {
	jobRepo *repository.JobRepository
	storage cloudinary.Client
	hub     *ws.Hub
}

func NewAttendanceService(jobRepo *repository.JobRepository, storage cloudinary.Client, hub *ws.Hub) *AttendanceService {
	return &AttendanceService{jobRepo: jobRepo, storage: storage, hub: hub}
}

// Record stores the attendance photo and stamps the job. Each precondition
// failure gets its own error so clients can explain instead of retrying.
func (s *AttendanceService) Record(ctx context.Context, jobID, staffID uint, kind string, photo io.Reader) (*models.Job, error) {
	if kind != domain.AttendanceCheckIn && kind != domain.AttendanceCheckOut {
		return nil, ErrInvalidKind
	}
	job, err := s.jobRepo.GetByID(jobID)
	if err != nil {
		return nil, err
	}
	if !job.IsAssignedTo(staffID) {
		return nil, ErrNotAssignedToJob
	}
	switch kind {
	case domain.AttendanceCheckIn:
		if job.CheckInTime != nil {
			return nil, ErrAlreadyCheckedIn
		}
	case domain.AttendanceCheckOut:
		if job.CheckInTime == nil {
			return nil, ErrNotCheckedIn
		}
		if job.CheckOutTime != nil {
			return nil, ErrAlreadyCheckedOut
		}
	}

	publicID := fmt.Sprintf("job%d_%s_%s", jobID, kind, uuid.NewString()[:8])
	url, err := s.storage.UploadImage(ctx, photo, "attendance", publicID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	var ok bool
	if kind == domain.AttendanceCheckIn {
		ok, err = s.jobRepo.SetCheckIn(jobID, staffID, now, url)
	} else {
		ok, err = s.jobRepo.SetCheckOut(jobID, staffID, now, url)
	}
	if err != nil {
		return nil, err
	}
	if !ok {
		// Lost a race since the precondition read.
		if kind == domain.AttendanceCheckIn {
			return nil, ErrAlreadyCheckedIn
		}
		return nil, ErrAlreadyCheckedOut
	}

	s.hub.BroadcastToUser(job.CustomerID, map[string]interface{}{
		"type":   "attendance",
		"event":  kind,
		"job_id": jobID,
		"photo":  url,
		"at":     now,
	})
	return s.jobRepo.GetByID(jobID)
}
