package handler

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"carelink/internal/middleware"
	"carelink/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type KYCHandler struct {
	svc *service.KYCService
}

func NewKYCHandler(svc *service.KYCService) *KYCHandler {
	return &KYCHandler{svc: svc}
}

// Submit accepts a multipart form with id_front, id_back and one or more
// credentials files, and moves the profile to pending review.
func (h *KYCHandler) Submit(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "multipart form required"})
		return
	}
	idFront, err := openSingle(form, "id_front")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id_front image required"})
		return
	}
	defer idFront.Close()
	idBack, err := openSingle(form, "id_back")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id_back image required"})
		return
	}
	defer idBack.Close()

	credFiles := form.File["credentials"]
	if len(credFiles) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "at least one credential image required"})
		return
	}
	credentials := make([]io.Reader, 0, len(credFiles))
	for _, fh := range credFiles {
		f, err := fh.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "could not read credential image"})
			return
		}
		defer f.Close()
		credentials = append(credentials, f)
	}

	p, err := h.svc.SubmitDocuments(c.Request.Context(), middleware.GetUserID(c), idFront, idBack, credentials)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotStaff):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrAlreadyVerified):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrDocumentsMissing):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "submission failed"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": p})
}

func openSingle(form *multipart.Form, field string) (multipart.File, error) {
	files := form.File[field]
	if len(files) == 0 {
		return nil, errors.New(field + " missing")
	}
	return files[0].Open()
}

func (h *KYCHandler) AdminListPending(c *gin.Context) {
	pending, err := h.svc.ListPending()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "listing failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"pending": pending})
}

type KYCReviewRequest struct {
	Decision string `json:"decision" binding:"required,oneof=verified rejected"`
}

func (h *KYCHandler) AdminReview(c *gin.Context) {
	staffID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}
	var req KYCReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, err := h.svc.Review(uint(staffID), req.Decision)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotStaff), errors.Is(err, service.ErrInvalidKYCDecision):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrNoPendingReview):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, gorm.ErrRecordNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "review failed"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": p})
}
