package handler

import (
	"net/http"
	"strconv"
	"time"

	"carelink/internal/middleware"
	"carelink/internal/models"
	"carelink/internal/repository"

	"github.com/gin-gonic/gin"
)

type PatientHandler struct {
	patientRepo *repository.PatientRepository
}

func NewPatientHandler(patientRepo *repository.PatientRepository) *PatientHandler {
	return &PatientHandler{patientRepo: patientRepo}
}

type PatientRecordRequest struct {
	FullName    string `json:"full_name" binding:"required,max=255"`
	DateOfBirth string `json:"date_of_birth"` // YYYY-MM-DD
	Pathology   string `json:"pathology"`
	Notes       string `json:"notes"`
}

func (h *PatientHandler) Create(c *gin.Context) {
	var req PatientRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rec := &models.PatientRecord{
		CustomerID: middleware.GetUserID(c),
		FullName:   req.FullName,
		Pathology:  req.Pathology,
		Notes:      req.Notes,
	}
	if req.DateOfBirth != "" {
		dob, err := time.Parse("2006-01-02", req.DateOfBirth)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date_of_birth format (use YYYY-MM-DD)"})
			return
		}
		rec.DOB = &dob
	}
	if err := h.patientRepo.Create(rec); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "creation failed"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"patient": rec})
}

func (h *PatientHandler) List(c *gin.Context) {
	records, err := h.patientRepo.ListByCustomer(middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "listing failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"patients": records})
}

func (h *PatientHandler) Update(c *gin.Context) {
	rec, ok := h.loadOwned(c)
	if !ok {
		return
	}
	var req PatientRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rec.FullName = req.FullName
	rec.Pathology = req.Pathology
	rec.Notes = req.Notes
	if req.DateOfBirth != "" {
		dob, err := time.Parse("2006-01-02", req.DateOfBirth)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date_of_birth format (use YYYY-MM-DD)"})
			return
		}
		rec.DOB = &dob
	}
	if err := h.patientRepo.Update(rec); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"patient": rec})
}

func (h *PatientHandler) Delete(c *gin.Context) {
	rec, ok := h.loadOwned(c)
	if !ok {
		return
	}
	if err := h.patientRepo.Delete(rec.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "patient record deleted"})
}

func (h *PatientHandler) loadOwned(c *gin.Context) (*models.PatientRecord, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid record id"})
		return nil, false
	}
	rec, err := h.patientRepo.GetByID(uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "patient record not found"})
		return nil, false
	}
	if rec.CustomerID != middleware.GetUserID(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "not your record"})
		return nil, false
	}
	return rec, true
}
