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

type AttendanceHandler struct {
	svc *service.AttendanceService
}

func NewAttendanceHandler(svc *service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{svc: svc}
}

// Record accepts a multipart form with kind (check-in or check-out) and a
// mandatory photo.
func (h *AttendanceHandler) Record(c *gin.Context) {
	jobID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid job id"})
		return
	}
	kind := c.PostForm("kind")
	file, err := c.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "photo required"})
		return
	}
	f, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read photo"})
		return
	}
	defer f.Close()

	job, err := h.svc.Record(c.Request.Context(), uint(jobID), middleware.GetUserID(c), kind, f)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidKind):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrNotAssignedToJob):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrNotCheckedIn):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrAlreadyCheckedIn), errors.Is(err, service.ErrAlreadyCheckedOut):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, gorm.ErrRecordNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "attendance failed"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"job": job})
}
