package repository

import (
	"carelink/internal/domain"
	"carelink/internal/models"

	"gorm.io/gorm"
)

type ChatRepository struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) *ChatRepository {
	return &ChatRepository{db: db}
}

func (r *ChatRepository) Create(m *models.ChatMessage) error {
	return r.db.Create(m).Error
}

// ListThread returns the two-party thread for a job: messages matching the
// job and the unordered {a, b} participant pair, oldest first.
func (r *ChatRepository) ListThread(jobID, a, b uint) ([]models.ChatMessage, error) {
	var list []models.ChatMessage
	err := r.db.Where("job_id = ?", jobID).
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)", a, b, b, a).
		Order("created_at ASC").Find(&list).Error
	return list, err
}

// ListSupportForUser returns the admin support thread as seen by one
// staff/customer: everything they sent to the channel plus everything
// addressed to them.
func (r *ChatRepository) ListSupportForUser(userID uint) ([]models.ChatMessage, error) {
	var list []models.ChatMessage
	err := r.db.Where("job_id IS NULL").
		Where("sender_id = ? OR receiver_id = ? OR (receiver_id IS NULL AND sender_id = ?)", userID, userID, userID).
		Order("created_at ASC").Find(&list).Error
	return list, err
}

// ListSupportAll returns every support-channel message, for the admin inbox.
func (r *ChatRepository) ListSupportAll() ([]models.ChatMessage, error) {
	var list []models.ChatMessage
	err := r.db.Where("job_id IS NULL").Order("created_at ASC").Find(&list).Error
	return list, err
}

// AdminInboxUserIDs returns the distinct non-admin counterparts appearing in
// the support channel, one conversation entry each.
func (r *ChatRepository) AdminInboxUserIDs() ([]uint, error) {
	var ids []uint
	err := r.db.Model(&models.ChatMessage{}).
		Distinct("chat_messages.sender_id").
		Joins("JOIN profiles ON profiles.id = chat_messages.sender_id AND profiles.role <> ?", domain.RoleAdmin).
		Where("chat_messages.job_id IS NULL").
		Pluck("chat_messages.sender_id", &ids).Error
	return ids, err
}

// MarkThreadRead flags every unread message addressed to the reader in a job
// thread, called when the reader opens it.
func (r *ChatRepository) MarkThreadRead(jobID, readerID uint) error {
	return r.db.Model(&models.ChatMessage{}).
		Where("job_id = ? AND receiver_id = ? AND is_read = ?", jobID, readerID, false).
		Update("is_read", true).Error
}

func (r *ChatRepository) CountUnread(userID uint) (int64, error) {
	var n int64
	err := r.db.Model(&models.ChatMessage{}).
		Where("receiver_id = ? AND is_read = ?", userID, false).Count(&n).Error
	return n, err
}
