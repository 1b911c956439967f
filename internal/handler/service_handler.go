package handler

import (
	"net/http"
	"strconv"

	"carelink/internal/models"
	"carelink/internal/repository"
	"carelink/internal/ws"

	"github.com/gin-gonic/gin"
)

type ServiceHandler struct {
	serviceRepo *repository.ServiceRepository
	hub         *ws.Hub
}

func NewServiceHandler(serviceRepo *repository.ServiceRepository, hub *ws.Hub) *ServiceHandler {
	return &ServiceHandler{serviceRepo: serviceRepo, hub: hub}
}

// catalogChanged tells every connected client to refetch the service list.
func (h *ServiceHandler) catalogChanged(event string, id uint) {
	h.hub.BroadcastAll(map[string]interface{}{
		"type":       "catalog",
		"event":      event,
		"service_id": id,
	})
}

func (h *ServiceHandler) List(c *gin.Context) {
	services, err := h.serviceRepo.ListCatalog()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "listing failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"services": services})
}

type ServiceCatalogRequest struct {
	Name         string `json:"name" binding:"required,max=255"`
	Price        string `json:"price"`
	Description  string `json:"description"`
	Requirements string `json:"requirements"`
}

func (h *ServiceHandler) AdminCreate(c *gin.Context) {
	var req ServiceCatalogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	entry := &models.ServiceCatalogEntry{
		Name:         req.Name,
		Price:        req.Price,
		Description:  req.Description,
		Requirements: req.Requirements,
	}
	if err := h.serviceRepo.CreateCatalogEntry(entry); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "creation failed"})
		return
	}
	h.catalogChanged("created", entry.ID)
	c.JSON(http.StatusCreated, gin.H{"service": entry})
}

func (h *ServiceHandler) AdminUpdate(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid service id"})
		return
	}
	entry, err := h.serviceRepo.GetCatalogEntry(uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "service not found"})
		return
	}
	var req ServiceCatalogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	entry.Name = req.Name
	entry.Price = req.Price
	entry.Description = req.Description
	entry.Requirements = req.Requirements
	if err := h.serviceRepo.UpdateCatalogEntry(entry); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	h.catalogChanged("updated", entry.ID)
	c.JSON(http.StatusOK, gin.H{"service": entry})
}

func (h *ServiceHandler) AdminDelete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid service id"})
		return
	}
	if err := h.serviceRepo.DeleteCatalogEntry(uint(id)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	h.catalogChanged("deleted", uint(id))
	c.JSON(http.StatusOK, gin.H{"message": "service deleted"})
}
