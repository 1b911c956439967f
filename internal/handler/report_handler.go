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

type ReportHandler struct {
	svc     *service.ReportService
	jobRepo *repository.JobRepository
}

func NewReportHandler(svc *service.ReportService, jobRepo *repository.JobRepository) *ReportHandler {
	return &ReportHandler{svc: svc, jobRepo: jobRepo}
}

// Submit accepts a multipart form with a video, an optional job_id form
// field and a description.
func (h *ReportHandler) Submit(c *gin.Context) {
	file, err := c.FormFile("video")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "video required"})
		return
	}
	var jobID *uint
	if raw := c.PostForm("job_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid job id"})
			return
		}
		v := uint(id)
		jobID = &v
	}

	f, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read video"})
		return
	}
	defer f.Close()

	entry, err := h.svc.Submit(c.Request.Context(), jobID, middleware.GetUserID(c), f, file.Size, c.PostForm("description"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrVideoTooLarge):
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrNotAssignedToJob):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		case errors.Is(err, gorm.ErrRecordNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "report failed"})
		}
		return
	}
	c.JSON(http.StatusCreated, gin.H{"report": entry})
}

// ListByJob shows a job's reports to its customer, its staff and admins.
func (h *ReportHandler) ListByJob(c *gin.Context) {
	jobID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid job id"})
		return
	}
	job, err := h.jobRepo.GetByID(uint(jobID))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
		return
	}
	userID := middleware.GetUserID(c)
	if middleware.GetRole(c) != domain.RoleAdmin && job.CustomerID != userID && !job.IsAssignedTo(userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "not your job"})
		return
	}
	reports, err := h.svc.ListByJob(uint(jobID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "listing failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"reports": reports})
}

func (h *ReportHandler) MyReports(c *gin.Context) {
	reports, err := h.svc.ListByStaff(middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "listing failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"reports": reports})
}

func (h *ReportHandler) AdminList(c *gin.Context) {
	reports, err := h.svc.ListAll()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "listing failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"reports": reports})
}
