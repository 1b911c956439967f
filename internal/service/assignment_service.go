package service

import (
	"errors"
	"fmt"
	"strings"

	"carelink/internal/domain"
	"carelink/internal/models"
	"carelink/internal/repository"
	"carelink/internal/ws"

	"github.com/sirupsen/logrus"
)

var (
	ErrJobAlreadyAssigned = errors.New("job already assigned")
	ErrNotAnApplicant     = errors.New("staff did not apply to this job")
)

// Applicant is one row of the approval screen: the staff profile joined
// with the recommendation rank.
type Applicant struct {
	models.Profile
	ApplicationID uint   `json:"application_id"`
	Status        string `json:"application_status"`
	Recommended   bool   `json:"recommended"`
}

type AssignmentService struct {
	jobRepo  *repository.JobRepository
	appRepo  *repository.ApplicationRepository
	chatRepo *repository.ChatRepository
	hub      *ws.Hub
}

func NewAssignmentService(jobRepo *repository.JobRepository, appRepo *repository.ApplicationRepository, chatRepo *repository.ChatRepository, hub *ws.Hub) *AssignmentService {
	return &AssignmentService{jobRepo: jobRepo, appRepo: appRepo, chatRepo: chatRepo, hub: hub}
}

// ListApplicants returns the job's applicants, recommended ones first.
// Recommendation is a case-insensitive substring match of any of the staff
// member's comma-separated specialties against the job's need description;
// ties keep application order.
func (s *AssignmentService) ListApplicants(jobID uint) ([]Applicant, error) {
	job, err := s.jobRepo.GetByID(jobID)
	if err != nil {
		return nil, err
	}
	apps, err := s.appRepo.ListByJob(jobID)
	if err != nil {
		return nil, err
	}
	var recommended, others []Applicant
	for _, a := range apps {
		row := Applicant{
			Profile:       a.Staff,
			ApplicationID: a.ID,
			Status:        a.Status,
			Recommended:   matchesSpecialties(a.Staff.Specialties, job.Message),
		}
		if row.Recommended {
			recommended = append(recommended, row)
		} else {
			others = append(others, row)
		}
	}
	return append(recommended, others...), nil
}

func matchesSpecialties(specialties, message string) bool {
	message = strings.ToLower(message)
	for _, sp := range strings.Split(specialties, ",") {
		sp = strings.ToLower(strings.TrimSpace(sp))
		if sp != "" && strings.Contains(message, sp) {
			return true
		}
	}
	return false
}

// Approve binds the staff member to the job. The conditional update is the
// single transition that removes the job from the marketplace; a concurrent
// approval loses with ErrJobAlreadyAssigned. The winner's application is
// marked accepted, all others rejected, and a confirmation message goes to
// the selected staff.
func (s *AssignmentService) Approve(jobID, staffID, approverID uint) (*models.Job, error) {
	if _, err := s.appRepo.GetByJobAndStaff(jobID, staffID); err != nil {
		return nil, ErrNotAnApplicant
	}
	ok, err := s.jobRepo.AssignIfUnassigned(jobID, staffID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrJobAlreadyAssigned
	}
	if err := s.appRepo.MarkDecided(jobID, staffID); err != nil {
		logrus.WithError(err).WithField("job_id", jobID).Error("marking applications decided failed")
	}

	receiver := staffID
	confirmation := &models.ChatMessage{
		SenderID:   approverID,
		ReceiverID: &receiver,
		JobID:      &jobID,
		Content:    fmt.Sprintf("You have been approved for job #%d. Please coordinate the schedule here.", jobID),
	}
	if err := s.chatRepo.Create(confirmation); err != nil {
		logrus.WithError(err).WithField("job_id", jobID).Error("approval confirmation message failed")
	}

	s.hub.BroadcastToUser(staffID, map[string]interface{}{
		"type":   "assignment",
		"event":  domain.ApplicationAccepted,
		"job_id": jobID,
	})
	apps, err := s.appRepo.ListByJob(jobID)
	if err == nil {
		for _, a := range apps {
			if a.StaffID == staffID {
				continue
			}
			s.hub.BroadcastToUser(a.StaffID, map[string]interface{}{
				"type":   "assignment",
				"event":  domain.ApplicationRejected,
				"job_id": jobID,
			})
		}
	}
	return s.jobRepo.GetByID(jobID)
}
