package service

import (
	"errors"
	"fmt"

	"carelink/internal/domain"
	"carelink/internal/models"
	"carelink/internal/repository"
	"carelink/internal/ws"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrNotVerified          = errors.New("verified profile with complete documents required")
	ErrRegistrationPending  = errors.New("registration already pending")
	ErrRegistrationApproved = errors.New("registration already approved")
	ErrInvalidRegDecision   = errors.New("decision must be approved or rejected")
)

type RegistrationService struct {
	serviceRepo *repository.ServiceRepository
	profileRepo *repository.ProfileRepository
	chatRepo    *repository.ChatRepository
	hub         *ws.Hub
}

func NewRegistrationService(serviceRepo *repository.ServiceRepository, profileRepo *repository.ProfileRepository, chatRepo *repository.ChatRepository, hub *ws.Hub) *RegistrationService {
	return &RegistrationService{serviceRepo: serviceRepo, profileRepo: profileRepo, chatRepo: chatRepo, hub: hub}
}

// Register opens or reopens a permission request for one service category.
// The KYC gate is authoritative here regardless of client-side checks.
// Resubmission after rejection reuses the existing row; pending and approved
// rows refuse a new request.
func (s *RegistrationService) Register(staffID, serviceID uint) (*models.ServiceRegistration, error) {
	p, err := s.profileRepo.GetByID(staffID)
	if err != nil {
		return nil, err
	}
	if !p.IsStaff() {
		return nil, ErrNotStaff
	}
	if p.VerificationStatus != domain.VerificationVerified || !p.HasKYCDocuments() {
		return nil, ErrNotVerified
	}
	if _, err := s.serviceRepo.GetCatalogEntry(serviceID); err != nil {
		return nil, err
	}

	existing, err := s.serviceRepo.GetRegistrationByStaffAndService(staffID, serviceID)
	switch {
	case err == nil:
		switch existing.Status {
		case domain.RegistrationPending:
			return nil, ErrRegistrationPending
		case domain.RegistrationApproved:
			return nil, ErrRegistrationApproved
		}
		existing.Status = domain.RegistrationPending
		existing.AdminNote = ""
		if err := s.serviceRepo.UpdateRegistration(existing); err != nil {
			return nil, err
		}
		s.notifyAdmins(existing)
		return existing, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		reg := &models.ServiceRegistration{
			StaffID:   staffID,
			ServiceID: serviceID,
			Status:    domain.RegistrationPending,
		}
		if err := s.serviceRepo.CreateRegistration(reg); err != nil {
			return nil, err
		}
		s.notifyAdmins(reg)
		return reg, nil
	default:
		return nil, err
	}
}

func (s *RegistrationService) notifyAdmins(reg *models.ServiceRegistration) {
	s.hub.BroadcastToRole(domain.RoleAdmin, map[string]interface{}{
		"type":            "registration",
		"event":           "requested",
		"registration_id": reg.ID,
		"staff_id":        reg.StaffID,
	})
}

// Decide records the admin outcome and notifies the staff member via a
// support-channel message summarizing it.
func (s *RegistrationService) Decide(adminID, registrationID uint, decision, note string) (*models.ServiceRegistration, error) {
	if decision != domain.RegistrationApproved && decision != domain.RegistrationRejected {
		return nil, ErrInvalidRegDecision
	}
	reg, err := s.serviceRepo.GetRegistration(registrationID)
	if err != nil {
		return nil, err
	}
	reg.Status = decision
	reg.AdminNote = note
	if err := s.serviceRepo.UpdateRegistration(reg); err != nil {
		return nil, err
	}

	content := fmt.Sprintf("Your registration for %q was %s.", reg.Service.Name, decision)
	if decision == domain.RegistrationRejected && note != "" {
		content += " Reason: " + note
	}
	receiver := reg.StaffID
	msg := &models.ChatMessage{
		SenderID:     adminID,
		ReceiverID:   &receiver,
		Content:      content,
		IsStaffReply: true,
	}
	if err := s.chatRepo.Create(msg); err != nil {
		logrus.WithError(err).WithField("registration_id", registrationID).Error("registration decision message failed")
	}

	s.hub.BroadcastToUser(reg.StaffID, map[string]interface{}{
		"type":            "registration",
		"event":           decision,
		"registration_id": reg.ID,
		"note":            note,
	})
	return reg, nil
}

func (s *RegistrationService) ListMine(staffID uint) ([]models.ServiceRegistration, error) {
	return s.serviceRepo.ListRegistrationsByStaff(staffID)
}

func (s *RegistrationService) ListPending() ([]models.ServiceRegistration, error) {
	return s.serviceRepo.ListPendingRegistrations()
}

func (s *RegistrationService) ListAll() ([]models.ServiceRegistration, error) {
	return s.serviceRepo.ListAllRegistrations()
}
