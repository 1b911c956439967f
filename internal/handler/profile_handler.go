package handler

import (
	"net/http"

	"carelink/internal/middleware"
	"carelink/internal/repository"
	"carelink/internal/service"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	profileRepo *repository.ProfileRepository
	chatSvc     *service.ChatService
}

func NewProfileHandler(profileRepo *repository.ProfileRepository, chatSvc *service.ChatService) *ProfileHandler {
	return &ProfileHandler{profileRepo: profileRepo, chatSvc: chatSvc}
}

func (h *ProfileHandler) Me(c *gin.Context) {
	p, err := h.profileRepo.GetByID(middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
		return
	}
	unread, _ := h.chatSvc.UnreadCount(p.ID)
	c.JSON(http.StatusOK, gin.H{
		"user":            p,
		"credential_imgs": p.CredentialImages(),
		"unread_messages": unread,
	})
}

type UpdateMeRequest struct {
	FullName    *string `json:"full_name"`
	Phone       *string `json:"phone"`
	Specialties *string `json:"specialties"`
}

// UpdateMe changes self-service fields only. Role, verification status and
// balance stay admin- or ledger-owned.
func (h *ProfileHandler) UpdateMe(c *gin.Context) {
	var req UpdateMeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, err := h.profileRepo.GetByID(middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
		return
	}
	if req.FullName != nil {
		p.FullName = *req.FullName
	}
	if req.Phone != nil {
		p.Phone = *req.Phone
	}
	if req.Specialties != nil && p.IsStaff() {
		p.Specialties = *req.Specialties
	}
	if err := h.profileRepo.Update(p); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": p})
}

func (h *ProfileHandler) MyReferralCode(c *gin.Context) {
	p, err := h.profileRepo.GetByID(middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"referral_code": p.ReferralCode})
}
