package handler

import (
	"errors"
	"net/http"
	"strconv"

	"carelink/internal/domain"
	"carelink/internal/middleware"
	"carelink/internal/repository"
	"carelink/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AssignmentHandler struct {
	svc     *service.AssignmentService
	jobRepo *repository.JobRepository
}

func NewAssignmentHandler(svc *service.AssignmentService, jobRepo *repository.JobRepository) *AssignmentHandler {
	return &AssignmentHandler{svc: svc, jobRepo: jobRepo}
}

// ListApplicants shows the job's applicants, recommended first. Visible to
// the owning customer and admins.
func (h *AssignmentHandler) ListApplicants(c *gin.Context) {
	jobID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid job id"})
		return
	}
	if !h.mayDecide(c, uint(jobID)) {
		return
	}
	applicants, err := h.svc.ListApplicants(uint(jobID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "listing failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"applicants": applicants})
}

type ApproveRequest struct {
	StaffID uint `json:"staff_id" binding:"required"`
}

// Approve assigns the chosen applicant. A concurrent approval by another
// actor gets a conflict so the client refreshes instead of retrying.
func (h *AssignmentHandler) Approve(c *gin.Context) {
	jobID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid job id"})
		return
	}
	var req ApproveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !h.mayDecide(c, uint(jobID)) {
		return
	}
	job, err := h.svc.Approve(uint(jobID), req.StaffID, middleware.GetUserID(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrJobAlreadyAssigned):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrNotAnApplicant):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, gorm.ErrRecordNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "approval failed"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"job": job})
}

func (h *AssignmentHandler) mayDecide(c *gin.Context, jobID uint) bool {
	if middleware.GetRole(c) == domain.RoleAdmin {
		return true
	}
	job, err := h.jobRepo.GetByID(jobID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
		return false
	}
	if job.CustomerID != middleware.GetUserID(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "not your job"})
		return false
	}
	return true
}
