package service

import (
	"errors"
	"fmt"

	"carelink/internal/domain"
	"carelink/internal/models"
	"carelink/internal/repository"
	"carelink/internal/ws"

	"github.com/sirupsen/logrus"
)

var ErrJobNotOpen = errors.New("job is no longer open")

// OpenJob is a marketplace row: the job plus whether the viewing staff
// member already applied, which toggles apply vs open-chat client-side.
type OpenJob struct {
	models.Job
	Applied bool `json:"applied"`
}

type MarketplaceService struct {
	jobRepo  *repository.JobRepository
	appRepo  *repository.ApplicationRepository
	chatRepo *repository.ChatRepository
	hub      *ws.Hub
}

func NewMarketplaceService(jobRepo *repository.JobRepository, appRepo *repository.ApplicationRepository, chatRepo *repository.ChatRepository, hub *ws.Hub) *MarketplaceService {
	return &MarketplaceService{jobRepo: jobRepo, appRepo: appRepo, chatRepo: chatRepo, hub: hub}
}

// ListOpenJobs returns unassigned, not-done jobs newest first, annotated
// with the viewer's application state.
func (s *MarketplaceService) ListOpenJobs(staffID uint) ([]OpenJob, error) {
	jobs, err := s.jobRepo.ListOpen()
	if err != nil {
		return nil, err
	}
	appliedIDs, err := s.appRepo.ListJobIDsByStaff(staffID)
	if err != nil {
		return nil, err
	}
	applied := make(map[uint]bool, len(appliedIDs))
	for _, id := range appliedIDs {
		applied[id] = true
	}
	out := make([]OpenJob, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, OpenJob{Job: j, Applied: applied[j.ID]})
	}
	return out, nil
}

func (s *MarketplaceService) ListMyApplications(staffID uint) ([]uint, error) {
	return s.appRepo.ListJobIDsByStaff(staffID)
}

// Apply creates the application and then sends an introductory chat message
// to the job's customer. The application persists even when the greeting
// fails; greetingSent reports that outcome separately.
func (s *MarketplaceService) Apply(jobID, staffID uint, staffName string) (*models.JobApplication, bool, error) {
	job, err := s.jobRepo.GetByID(jobID)
	if err != nil {
		return nil, false, err
	}
	if job.IsAssigned() || job.Status == domain.JobStatusDone {
		return nil, false, ErrJobNotOpen
	}
	app := &models.JobApplication{JobID: jobID, StaffID: staffID}
	if err := s.appRepo.Create(app); err != nil {
		return nil, false, err
	}

	greetingSent := true
	receiver := job.CustomerID
	greeting := &models.ChatMessage{
		SenderID:     staffID,
		ReceiverID:   &receiver,
		JobID:        &jobID,
		Content:      fmt.Sprintf("Hello, I am %s and I would like to help with your request.", staffName),
		IsStaffReply: true,
	}
	if err := s.chatRepo.Create(greeting); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"job_id":   jobID,
			"staff_id": staffID,
		}).Error("application greeting failed")
		greetingSent = false
	} else {
		s.hub.BroadcastToUser(job.CustomerID, map[string]interface{}{
			"type":    "chat",
			"event":   "message",
			"message": greeting,
		})
	}
	s.hub.BroadcastToUser(job.CustomerID, map[string]interface{}{
		"type":   "application",
		"event":  "new",
		"job_id": jobID,
	})
	return app, greetingSent, nil
}
