package handler

import (
	"errors"
	"net/http"
	"strconv"

	"carelink/internal/middleware"
	"carelink/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type RegistrationHandler struct {
	svc *service.RegistrationService
}

func NewRegistrationHandler(svc *service.RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{svc: svc}
}

type RegisterForServiceRequest struct {
	ServiceID uint `json:"service_id" binding:"required"`
}

// Register requests permission for one service category. Gated on a
// verified profile with complete documents.
func (h *RegistrationHandler) Register(c *gin.Context) {
	var req RegisterForServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	reg, err := h.svc.Register(middleware.GetUserID(c), req.ServiceID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotStaff):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrNotVerified):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrRegistrationPending), errors.Is(err, service.ErrRegistrationApproved):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, gorm.ErrRecordNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "service not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "registration failed"})
		}
		return
	}
	c.JSON(http.StatusCreated, gin.H{"registration": reg})
}

func (h *RegistrationHandler) ListMine(c *gin.Context) {
	regs, err := h.svc.ListMine(middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "listing failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"registrations": regs})
}

func (h *RegistrationHandler) AdminListPending(c *gin.Context) {
	regs, err := h.svc.ListPending()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "listing failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"registrations": regs})
}

func (h *RegistrationHandler) AdminListAll(c *gin.Context) {
	regs, err := h.svc.ListAll()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "listing failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"registrations": regs})
}

type RegistrationDecisionRequest struct {
	Decision string `json:"decision" binding:"required,oneof=approved rejected"`
	Note     string `json:"note"`
}

func (h *RegistrationHandler) AdminDecide(c *gin.Context) {
	regID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid registration id"})
		return
	}
	var req RegistrationDecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	reg, err := h.svc.Decide(middleware.GetUserID(c), uint(regID), req.Decision, req.Note)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRegDecision):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, gorm.ErrRecordNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "registration not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "decision failed"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"registration": reg})
}
