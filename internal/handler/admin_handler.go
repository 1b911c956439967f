package handler

import (
	"net/http"
	"strconv"

	"carelink/internal/domain"
	"carelink/internal/middleware"
	"carelink/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type AdminHandler struct {
	profileRepo *repository.ProfileRepository
}

func NewAdminHandler(profileRepo *repository.ProfileRepository) *AdminHandler {
	return &AdminHandler{profileRepo: profileRepo}
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	if role := c.Query("role"); role != "" {
		users, err := h.profileRepo.ListByRole(role)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "listing failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"users": users})
		return
	}
	users, err := h.profileRepo.ListAll()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "listing failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

func (h *AdminHandler) GetUser(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}
	p, err := h.profileRepo.GetByID(uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"user":            p,
		"credential_imgs": p.CredentialImages(),
	})
}

type UpdateRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=customer staff admin"`
}

func (h *AdminHandler) UpdateUserRole(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}
	var req UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, err := h.profileRepo.GetByID(uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	p.Role = req.Role
	if err := h.profileRepo.Update(p); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": p})
}

// DeleteUser removes an account and everything it owns. Admins cannot
// delete themselves or other admins.
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}
	if uint(id) == middleware.GetUserID(c) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot delete own account"})
		return
	}
	p, err := h.profileRepo.GetByID(uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	if p.Role == domain.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "cannot delete an admin account"})
		return
	}
	if err := h.profileRepo.DeleteCascade(p.ID); err != nil {
		logrus.WithError(err).WithField("user_id", p.ID).Error("cascade delete failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "user deleted"})
}
