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

type WalletHandler struct {
	svc *service.WalletService
}

func NewWalletHandler(svc *service.WalletService) *WalletHandler {
	return &WalletHandler{svc: svc}
}

func (h *WalletHandler) Balance(c *gin.Context) {
	balance, err := h.svc.Balance(middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "wallet error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"balance": balance})
}

func (h *WalletHandler) History(c *gin.Context) {
	txs, err := h.svc.History(middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "wallet error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": txs})
}

type DepositRequest struct {
	Amount int64 `json:"amount" binding:"required,gt=0"`
}

func (h *WalletHandler) Deposit(c *gin.Context) {
	var req DepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	balance, err := h.svc.Deposit(middleware.GetUserID(c), req.Amount)
	if err != nil {
		if errors.Is(err, service.ErrDepositTooSmall) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "deposit failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"balance": balance})
}

// Pay settles one of the customer's assigned jobs. A second attempt on a
// paid job returns a conflict, never a second charge.
func (h *WalletHandler) Pay(c *gin.Context) {
	jobID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid job id"})
		return
	}
	job, err := h.svc.PayForJob(middleware.GetUserID(c), uint(jobID))
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrAlreadyPaid):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, repository.ErrInsufficientBalance):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, repository.ErrJobUnassigned):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrNotJobOwner):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		case errors.Is(err, gorm.ErrRecordNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "payment failed"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"job": job})
}

type GrantBonusRequest struct {
	UserID uint   `json:"user_id" binding:"required"`
	Amount int64  `json:"amount" binding:"required,gt=0"`
	Reason string `json:"reason"`
}

// GrantBonus moves funds from the admin pool to a user's wallet.
func (h *WalletHandler) GrantBonus(c *gin.Context) {
	var req GrantBonusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	err := h.svc.GrantBonus(middleware.GetUserID(c), req.UserID, req.Amount, req.Reason)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrInsufficientBalance):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, gorm.ErrRecordNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "bonus failed"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "bonus granted"})
}
