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

type ChatHandler struct {
	svc *service.ChatService
}

func NewChatHandler(svc *service.ChatService) *ChatHandler {
	return &ChatHandler{svc: svc}
}

type SendMessageRequest struct {
	ReceiverID *uint  `json:"receiver_id"` // nil = admin support channel
	JobID      *uint  `json:"job_id"`      // nil = not job-scoped
	Content    string `json:"content" binding:"required,max=4000"`
}

func (h *ChatHandler) Send(c *gin.Context) {
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	msg, err := h.svc.Send(middleware.GetUserID(c), middleware.GetRole(c), req.ReceiverID, req.JobID, req.Content)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotThreadMember):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		case errors.Is(err, gorm.ErrRecordNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "send failed"})
		}
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": msg})
}

// Thread returns the job conversation between self and a counterpart and
// marks it read.
func (h *ChatHandler) Thread(c *gin.Context) {
	jobID, err := strconv.ParseUint(c.Param("jobID"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid job id"})
		return
	}
	counterpartID, err := strconv.ParseUint(c.Param("userID"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}
	msgs, err := h.svc.Thread(uint(jobID), uint(counterpartID), middleware.GetUserID(c), middleware.GetRole(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotThreadMember):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		case errors.Is(err, gorm.ErrRecordNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "fetch failed"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": msgs})
}

func (h *ChatHandler) SupportThread(c *gin.Context) {
	msgs, err := h.svc.SupportThread(middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "fetch failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": msgs})
}

func (h *ChatHandler) AdminSupportChannel(c *gin.Context) {
	msgs, err := h.svc.SupportChannel()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "fetch failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": msgs})
}

func (h *ChatHandler) AdminInbox(c *gin.Context) {
	conversations, err := h.svc.AdminInbox()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "fetch failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"conversations": conversations})
}

func (h *ChatHandler) UnreadCount(c *gin.Context) {
	n, err := h.svc.UnreadCount(middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "fetch failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"unread": n})
}
