package handler

import (
	"errors"
	"net/http"
	"strconv"

	"carelink/internal/middleware"
	"carelink/internal/repository"
	"carelink/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type MarketplaceHandler struct {
	svc         *service.MarketplaceService
	profileRepo *repository.ProfileRepository
}

func NewMarketplaceHandler(svc *service.MarketplaceService, profileRepo *repository.ProfileRepository) *MarketplaceHandler {
	return &MarketplaceHandler{svc: svc, profileRepo: profileRepo}
}

func (h *MarketplaceHandler) ListOpen(c *gin.Context) {
	jobs, err := h.svc.ListOpenJobs(middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "listing failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"jobs": jobs})
}

func (h *MarketplaceHandler) MyApplications(c *gin.Context) {
	ids, err := h.svc.ListMyApplications(middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "listing failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"job_ids": ids})
}

func (h *MarketplaceHandler) Apply(c *gin.Context) {
	jobID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid job id"})
		return
	}
	staffID := middleware.GetUserID(c)
	p, err := h.profileRepo.GetByID(staffID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
		return
	}
	app, greetingSent, err := h.svc.Apply(uint(jobID), staffID, p.FullName)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateApplication), errors.Is(err, service.ErrJobNotOpen):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, gorm.ErrRecordNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "apply failed"})
		}
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"application":   app,
		"greeting_sent": greetingSent,
	})
}
