package handler

import (
	"net/http"
	"strconv"

	"carelink/internal/domain"
	"carelink/internal/middleware"
	"carelink/internal/models"
	"carelink/internal/repository"
	"carelink/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type JobHandler struct {
	jobRepo     *repository.JobRepository
	patientRepo *repository.PatientRepository
	chatRepo    *repository.ChatRepository
	hub         *ws.Hub
}

func NewJobHandler(jobRepo *repository.JobRepository, patientRepo *repository.PatientRepository, chatRepo *repository.ChatRepository, hub *ws.Hub) *JobHandler {
	return &JobHandler{jobRepo: jobRepo, patientRepo: patientRepo, chatRepo: chatRepo, hub: hub}
}

type CreateJobRequest struct {
	Name            string `json:"name" binding:"required"`
	Phone           string `json:"phone" binding:"required"`
	Email           string `json:"email" binding:"required,email"`
	Address         string `json:"address" binding:"required"`
	Message         string `json:"message" binding:"required"`
	PatientRecordID *uint  `json:"patient_record_id"`
}

// Create posts a care request. An optional patient record reference must
// belong to the posting customer.
func (h *JobHandler) Create(c *gin.Context) {
	var req CreateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	customerID := middleware.GetUserID(c)
	if req.PatientRecordID != nil {
		rec, err := h.patientRepo.GetByID(*req.PatientRecordID)
		if err != nil || rec.CustomerID != customerID {
			c.JSON(http.StatusBadRequest, gin.H{"error": "patient record not found"})
			return
		}
	}
	job := &models.Job{
		CustomerID:      customerID,
		Name:            req.Name,
		Phone:           req.Phone,
		Email:           req.Email,
		Address:         req.Address,
		Message:         req.Message,
		Status:          domain.JobStatusNew,
		PaymentStatus:   domain.PaymentStatusUnpaid,
		PatientRecordID: req.PatientRecordID,
	}
	if err := h.jobRepo.Create(job); err != nil {
		logrus.WithError(err).Error("job creation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "job creation failed"})
		return
	}
	h.hub.BroadcastToRole(domain.RoleAdmin, map[string]interface{}{
		"type":   "job",
		"event":  "new",
		"job_id": job.ID,
	})
	c.JSON(http.StatusCreated, gin.H{"job": job})
}

func (h *JobHandler) Get(c *gin.Context) {
	job, ok := h.loadJob(c)
	if !ok {
		return
	}
	userID := middleware.GetUserID(c)
	role := middleware.GetRole(c)
	if role != domain.RoleAdmin && job.CustomerID != userID && !job.IsAssignedTo(userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "not your job"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"job": job})
}

// ListMine returns the customer's own jobs.
func (h *JobHandler) ListMine(c *gin.Context) {
	jobs, err := h.jobRepo.ListByCustomer(middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "listing failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"jobs": jobs})
}

// ListAssigned returns jobs assigned to the acting staff member.
func (h *JobHandler) ListAssigned(c *gin.Context) {
	jobs, err := h.jobRepo.ListAssignedToStaff(middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "listing failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"jobs": jobs})
}

// ListUnpaid returns the customer's assigned-but-unpaid jobs for the
// payment screen.
func (h *JobHandler) ListUnpaid(c *gin.Context) {
	jobs, err := h.jobRepo.ListUnpaidAssigned(middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "listing failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"jobs": jobs})
}

// --- admin ---

func (h *JobHandler) AdminList(c *gin.Context) {
	jobs, err := h.jobRepo.ListAll()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "listing failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"jobs": jobs})
}

// AdminMarkRead advances a fresh request to read once an admin has seen it.
func (h *JobHandler) AdminMarkRead(c *gin.Context) {
	job, ok := h.loadJob(c)
	if !ok {
		return
	}
	if job.Status != domain.JobStatusNew {
		c.JSON(http.StatusOK, gin.H{"job": job})
		return
	}
	if err := h.jobRepo.SetStatus(job.ID, domain.JobStatusRead); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	job.Status = domain.JobStatusRead
	c.JSON(http.StatusOK, gin.H{"job": job})
}

type AdminReplyRequest struct {
	Reply string `json:"reply" binding:"required"`
}

// AdminReply stores the admin's free-text reply, drops it into the job chat
// so the customer sees it in the conversation, and closes the request.
func (h *JobHandler) AdminReply(c *gin.Context) {
	job, ok := h.loadJob(c)
	if !ok {
		return
	}
	var req AdminReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	receiver := job.CustomerID
	msg := &models.ChatMessage{
		SenderID:     middleware.GetUserID(c),
		ReceiverID:   &receiver,
		JobID:        &job.ID,
		Content:      req.Reply,
		IsStaffReply: true,
	}
	if err := h.chatRepo.Create(msg); err != nil {
		logrus.WithError(err).WithField("job_id", job.ID).Error("admin reply message failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	if err := h.jobRepo.SetAdminReply(job.ID, req.Reply); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	h.hub.BroadcastToUser(job.CustomerID, map[string]interface{}{
		"type":    "chat",
		"event":   "message",
		"message": msg,
	})
	h.hub.BroadcastToUser(job.CustomerID, map[string]interface{}{
		"type":   "job",
		"event":  "reply",
		"job_id": job.ID,
	})
	c.JSON(http.StatusOK, gin.H{"message": "reply saved"})
}

type SetPriceRequest struct {
	Price int64 `json:"price" binding:"required,gt=0"`
}

func (h *JobHandler) AdminSetPrice(c *gin.Context) {
	job, ok := h.loadJob(c)
	if !ok {
		return
	}
	var req SetPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	job.Price = req.Price
	if err := h.jobRepo.Update(job); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"job": job})
}

func (h *JobHandler) AdminDelete(c *gin.Context) {
	job, ok := h.loadJob(c)
	if !ok {
		return
	}
	if err := h.jobRepo.Delete(job.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "job deleted"})
}

func (h *JobHandler) loadJob(c *gin.Context) (*models.Job, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid job id"})
		return nil, false
	}
	job, err := h.jobRepo.GetByID(uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
		return nil, false
	}
	return job, true
}
