package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"carelink/internal/domain"
	"carelink/internal/models"
	"carelink/internal/repository"
	"carelink/internal/ws"
	"carelink/pkg/cloudinary"

	"github.com/google/uuid"
)

var (
	ErrNotStaff           = errors.New("only staff accounts verify credentials")
	ErrDocumentsMissing   = errors.New("both ID images and at least one credential image required")
	ErrAlreadyVerified    = errors.New("profile already verified")
	ErrNoPendingReview    = errors.New("no pending verification to review")
	ErrInvalidKYCDecision = errors.New("decision must be verified or rejected")
)

type KYCService struct {
	profileRepo *repository.ProfileRepository
	storage     cloudinary.Client
	hub         *ws.Hub
}

func NewKYCService(profileRepo *repository.ProfileRepository, storage cloudinary.Client, hub *ws.Hub) *KYCService {
	return &KYCService{profileRepo: profileRepo, storage: storage, hub: hub}
}

// SubmitDocuments uploads the staff member's ID images and credential
// images and moves the profile to pending review. Resubmission after a
// rejection follows the same path.
func (s *KYCService) SubmitDocuments(ctx context.Context, staffID uint, idFront, idBack io.Reader, credentials []io.Reader) (*models.Profile, error) {
	p, err := s.profileRepo.GetByID(staffID)
	if err != nil {
		return nil, err
	}
	if !p.IsStaff() {
		return nil, ErrNotStaff
	}
	if p.VerificationStatus == domain.VerificationVerified {
		return nil, ErrAlreadyVerified
	}
	if idFront == nil || idBack == nil || len(credentials) == 0 {
		return nil, ErrDocumentsMissing
	}

	folder := fmt.Sprintf("kyc/%d", staffID)
	frontURL, err := s.storage.UploadImage(ctx, idFront, folder, "id_front_"+uuid.NewString()[:8])
	if err != nil {
		return nil, err
	}
	backURL, err := s.storage.UploadImage(ctx, idBack, folder, "id_back_"+uuid.NewString()[:8])
	if err != nil {
		return nil, err
	}
	credURLs := make([]string, 0, len(credentials))
	for i, c := range credentials {
		url, err := s.storage.UploadImage(ctx, c, folder, fmt.Sprintf("credential_%d_%s", i, uuid.NewString()[:8]))
		if err != nil {
			return nil, err
		}
		credURLs = append(credURLs, url)
	}

	p.IDFrontImg = frontURL
	p.IDBackImg = backURL
	p.SetCredentialImages(credURLs)
	p.VerificationStatus = domain.VerificationPending
	if err := s.profileRepo.Update(p); err != nil {
		return nil, err
	}

	s.hub.BroadcastToRole(domain.RoleAdmin, map[string]interface{}{
		"type":     "kyc",
		"event":    "submitted",
		"staff_id": staffID,
	})
	return p, nil
}

// Review records the admin decision on a pending submission and notifies
// the staff member. Only pending profiles are reviewable: a verified profile
// cannot be demoted here and an unverified one cannot skip the submission.
func (s *KYCService) Review(staffID uint, decision string) (*models.Profile, error) {
	if decision != domain.VerificationVerified && decision != domain.VerificationRejected {
		return nil, ErrInvalidKYCDecision
	}
	p, err := s.profileRepo.GetByID(staffID)
	if err != nil {
		return nil, err
	}
	if !p.IsStaff() {
		return nil, ErrNotStaff
	}
	if p.VerificationStatus != domain.VerificationPending {
		return nil, ErrNoPendingReview
	}
	p.VerificationStatus = decision
	if err := s.profileRepo.Update(p); err != nil {
		return nil, err
	}
	s.hub.BroadcastToUser(staffID, map[string]interface{}{
		"type":   "kyc",
		"event":  decision,
		"status": p.VerificationStatus,
	})
	return p, nil
}

// ListPending returns staff profiles awaiting review.
func (s *KYCService) ListPending() ([]models.Profile, error) {
	staff, err := s.profileRepo.ListByRole(domain.RoleStaff)
	if err != nil {
		return nil, err
	}
	var pending []models.Profile
	for _, p := range staff {
		if p.VerificationStatus == domain.VerificationPending {
			pending = append(pending, p)
		}
	}
	return pending, nil
}
