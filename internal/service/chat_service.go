package service

import (
	"errors"

	"carelink/internal/domain"
	"carelink/internal/models"
	"carelink/internal/repository"
	"carelink/internal/ws"
)

var ErrNotThreadMember = errors.New("not a participant of this thread")

// Conversation is one admin inbox entry: the counterpart plus their thread.
type Conversation struct {
	User     models.Profile       `json:"user"`
	Messages []models.ChatMessage `json:"messages"`
}

type ChatService struct {
	chatRepo    *repository.ChatRepository
	jobRepo     *repository.JobRepository
	appRepo     *repository.ApplicationRepository
	profileRepo *repository.ProfileRepository
	hub         *ws.Hub
	chatHub     *ws.ChatHub
}

func NewChatService(chatRepo *repository.ChatRepository, jobRepo *repository.JobRepository, appRepo *repository.ApplicationRepository, profileRepo *repository.ProfileRepository, hub *ws.Hub, chatHub *ws.ChatHub) *ChatService {
	return &ChatService{
		chatRepo:    chatRepo,
		jobRepo:     jobRepo,
		appRepo:     appRepo,
		profileRepo: profileRepo,
		hub:         hub,
		chatHub:     chatHub,
	}
}

// Send persists a message and pushes it to the receiver's notification
// socket and, for job threads, the live chat room. Delivery is push only;
// clients de-duplicate by message id.
func (s *ChatService) Send(senderID uint, senderRole string, receiverID, jobID *uint, content string) (*models.ChatMessage, error) {
	if jobID != nil {
		job, err := s.jobRepo.GetByID(*jobID)
		if err != nil {
			return nil, err
		}
		if !s.mayPostToThread(senderID, senderRole, job) {
			return nil, ErrNotThreadMember
		}
	}
	msg := &models.ChatMessage{
		SenderID:     senderID,
		ReceiverID:   receiverID,
		JobID:        jobID,
		Content:      content,
		IsStaffReply: senderRole == domain.RoleStaff || senderRole == domain.RoleAdmin,
	}
	if err := s.chatRepo.Create(msg); err != nil {
		return nil, err
	}

	payload := map[string]interface{}{
		"type":    "chat",
		"event":   "message",
		"message": msg,
	}
	if receiverID != nil {
		s.hub.BroadcastToUser(*receiverID, payload)
	} else {
		// Support channel: every connected admin sees it.
		s.hub.BroadcastToRole(domain.RoleAdmin, payload)
	}
	if jobID != nil {
		if room := s.chatHub.GetRoom(*jobID); room != nil {
			room.Broadcast(nil, payload)
		}
	}
	return msg, nil
}

func (s *ChatService) mayPostToThread(senderID uint, role string, job *models.Job) bool {
	switch role {
	case domain.RoleAdmin:
		return true
	case domain.RoleCustomer:
		return job.CustomerID == senderID
	case domain.RoleStaff:
		if job.IsAssignedTo(senderID) {
			return true
		}
		_, err := s.appRepo.GetByJobAndStaff(job.ID, senderID)
		return err == nil
	}
	return false
}

// Thread returns the two-party job conversation and marks the reader's
// unread messages read.
func (s *ChatService) Thread(jobID, counterpartID, selfID uint, selfRole string) ([]models.ChatMessage, error) {
	job, err := s.jobRepo.GetByID(jobID)
	if err != nil {
		return nil, err
	}
	if !s.mayPostToThread(selfID, selfRole, job) {
		return nil, ErrNotThreadMember
	}
	msgs, err := s.chatRepo.ListThread(jobID, selfID, counterpartID)
	if err != nil {
		return nil, err
	}
	if err := s.chatRepo.MarkThreadRead(jobID, selfID); err != nil {
		return nil, err
	}
	return msgs, nil
}

// SupportThread returns the user's conversation with the admin team.
func (s *ChatService) SupportThread(userID uint) ([]models.ChatMessage, error) {
	return s.chatRepo.ListSupportForUser(userID)
}

// SupportChannel returns the whole support channel in chronological order,
// for the admin firehose view next to the per-user inbox.
func (s *ChatService) SupportChannel() ([]models.ChatMessage, error) {
	return s.chatRepo.ListSupportAll()
}

// AdminInbox builds one conversation per distinct non-admin counterpart in
// the support channel.
func (s *ChatService) AdminInbox() ([]Conversation, error) {
	ids, err := s.chatRepo.AdminInboxUserIDs()
	if err != nil {
		return nil, err
	}
	out := make([]Conversation, 0, len(ids))
	for _, id := range ids {
		p, err := s.profileRepo.GetByID(id)
		if err != nil {
			continue
		}
		msgs, err := s.chatRepo.ListSupportForUser(id)
		if err != nil {
			return nil, err
		}
		out = append(out, Conversation{User: *p, Messages: msgs})
	}
	return out, nil
}

func (s *ChatService) UnreadCount(userID uint) (int64, error) {
	return s.chatRepo.CountUnread(userID)
}
