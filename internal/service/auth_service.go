package service

import (
	"errors"
	"strings"

	"carelink/config"
	"carelink/internal/auth"
	"carelink/internal/domain"
	"carelink/internal/models"
	"carelink/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailExists  = errors.New("email already registered")
	ErrInvalidCreds = errors.New("invalid email or password")
	ErrInvalidRole  = errors.New("role must be customer or staff")
)

type AuthService struct {
	cfg         *config.Config
	profileRepo *repository.ProfileRepository
	wallet      *WalletService
}

func NewAuthService(cfg *config.Config, profileRepo *repository.ProfileRepository, wallet *WalletService) *AuthService {
	return &AuthService{cfg: cfg, profileRepo: profileRepo, wallet: wallet}
}

// Register creates a customer or staff account. A valid referral code links
// the accounts and credits the referrer's wallet; an unknown code is ignored
// so signup never fails on it.
func (s *AuthService) Register(email, password, fullName, phone, role, referralCode string) (*models.Profile, string, string, error) {
	if role != domain.RoleCustomer && role != domain.RoleStaff {
		return nil, "", "", ErrInvalidRole
	}
	email = strings.ToLower(strings.TrimSpace(email))
	_, err := s.profileRepo.GetByEmail(email)
	if err == nil {
		return nil, "", "", ErrEmailExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", "", err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", "", err
	}

	var referrer *models.Profile
	if referralCode != "" {
		referrer, _ = s.profileRepo.GetByReferralCode(strings.ToUpper(strings.TrimSpace(referralCode)))
	}

	p := &models.Profile{
		Email:              email,
		PasswordHash:       string(hash),
		FullName:           fullName,
		Phone:              phone,
		Role:               role,
		VerificationStatus: domain.VerificationUnverified,
		ReferralCode:       newReferralCode(),
	}
	if referrer != nil {
		p.ReferredBy = &referrer.ID
	}
	if err := s.profileRepo.Create(p); err != nil {
		return nil, "", "", err
	}
	if referrer != nil {
		s.wallet.GrantReferralBonus(referrer.ID, p.ID)
	}

	access, err := auth.GenerateAccessToken(&s.cfg.JWT, p.ID, p.Email, p.Role)
	if err != nil {
		return p, "", "", err
	}
	refresh, err := auth.GenerateRefreshToken(&s.cfg.JWT, p.ID)
	if err != nil {
		return p, access, "", err
	}
	return p, access, refresh, nil
}

func (s *AuthService) Login(email, password string) (*models.Profile, string, string, error) {
	p, err := s.profileRepo.GetByEmail(strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", "", ErrInvalidCreds
		}
		return nil, "", "", err
	}
	if p.PasswordHash == "" {
		return nil, "", "", ErrInvalidCreds
	}
	if err := bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte(password)); err != nil {
		return nil, "", "", ErrInvalidCreds
	}
	access, _ := auth.GenerateAccessToken(&s.cfg.JWT, p.ID, p.Email, p.Role)
	refresh, _ := auth.GenerateRefreshToken(&s.cfg.JWT, p.ID)
	return p, access, refresh, nil
}

// LoginWithGoogle finds or creates an account by Google ID. role applies
// only to brand-new accounts; existing email accounts get the Google ID
// linked instead.
func (s *AuthService) LoginWithGoogle(googleID, email, name, role string) (*models.Profile, string, string, bool, error) {
	p, err := s.profileRepo.GetByGoogleID(googleID)
	if err == nil {
		access, _ := auth.GenerateAccessToken(&s.cfg.JWT, p.ID, p.Email, p.Role)
		refresh, _ := auth.GenerateRefreshToken(&s.cfg.JWT, p.ID)
		return p, access, refresh, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", "", false, err
	}

	email = strings.ToLower(strings.TrimSpace(email))
	existing, _ := s.profileRepo.GetByEmail(email)
	if existing != nil {
		gid := googleID
		existing.GoogleID = &gid
		if err := s.profileRepo.Update(existing); err != nil {
			return nil, "", "", false, err
		}
		access, _ := auth.GenerateAccessToken(&s.cfg.JWT, existing.ID, existing.Email, existing.Role)
		refresh, _ := auth.GenerateRefreshToken(&s.cfg.JWT, existing.ID)
		return existing, access, refresh, false, nil
	}

	if role != domain.RoleStaff {
		role = domain.RoleCustomer
	}
	gid := googleID
	p = &models.Profile{
		Email:              email,
		GoogleID:           &gid,
		FullName:           name,
		Role:               role,
		VerificationStatus: domain.VerificationUnverified,
		ReferralCode:       newReferralCode(),
	}
	if err := s.profileRepo.Create(p); err != nil {
		return nil, "", "", false, err
	}
	access, _ := auth.GenerateAccessToken(&s.cfg.JWT, p.ID, p.Email, p.Role)
	refresh, _ := auth.GenerateRefreshToken(&s.cfg.JWT, p.ID)
	return p, access, refresh, true, nil
}

// ChangePassword updates the password after verifying the current one.
func (s *AuthService) ChangePassword(userID uint, currentPassword, newPassword string) error {
	p, err := s.profileRepo.GetByID(userID)
	if err != nil {
		return ErrInvalidCreds
	}
	if p.PasswordHash == "" {
		return errors.New("account uses Google sign-in; set a password first")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte(currentPassword)); err != nil {
		return ErrInvalidCreds
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	p.PasswordHash = string(hash)
	return s.profileRepo.Update(p)
}

func (s *AuthService) RefreshToken(refreshToken string) (access, refresh string, err error) {
	userID, err := auth.ParseRefreshToken(&s.cfg.JWT, refreshToken)
	if err != nil {
		return "", "", err
	}
	p, err := s.profileRepo.GetByID(userID)
	if err != nil {
		return "", "", auth.ErrInvalidToken
	}
	access, _ = auth.GenerateAccessToken(&s.cfg.JWT, p.ID, p.Email, p.Role)
	refresh, _ = auth.GenerateRefreshToken(&s.cfg.JWT, p.ID)
	return access, refresh, nil
}

func newReferralCode() string {
	return strings.ToUpper(uuid.NewString()[:8])
}
