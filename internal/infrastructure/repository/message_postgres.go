package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"habithub/internal/domain"
	"habithub/internal/result"
)

type MessageEntity struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	SenderID    uuid.UUID `gorm:"type:uuid;index;not null"`
	RecipientID uuid.UUID `gorm:"type:uuid;index;not null"`
	Text        string    `gorm:"type:text;not null"`
	DateTime    time.Time `gorm:"index"`
}

func (MessageEntity) TableName() string {
	return "messages"
}

func messageToEntity(m *domain.Message) *MessageEntity {
	return &MessageEntity{
		ID:          m.ID,
		SenderID:    m.SenderID,
		RecipientID: m.RecipientID,
		Text:        m.Text,
		DateTime:    m.DateTime,
	}
}

func messageToDomain(e *MessageEntity) *domain.Message {
	return &domain.Message{
		ID:          e.ID,
		SenderID:    e.SenderID,
		RecipientID: e.RecipientID,
		Text:        e.Text,
		DateTime:    e.DateTime,
	}
}

type MessageRepository struct {
	*Repository[domain.Message, MessageEntity]
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{Repository: New(db, messageToEntity, messageToDomain), db: db}
}

// GetConversation — вся переписка пары пользователей по времени.
func (r *MessageRepository) GetConversation(ctx context.Context, a, b uuid.UUID) result.Result[[]*domain.Message] {
	var entities []MessageEntity
	err := r.db.WithContext(ctx).
		Where("(sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?)", a, b, b, a).
		Order("date_time asc").
		Find(&entities).Error
	if err != nil {
		return result.Failure[[]*domain.Message](result.NewError(result.ServerError,
			"failed to get conversation: "+err.Error()))
	}

	messages := make([]*domain.Message, 0, len(entities))
	for i := range entities {
		messages = append(messages, messageToDomain(&entities[i]))
	}
	return result.Success(messages)
}

// GetCompanionIDs — все пользователи, с которыми есть переписка.
func (r *MessageRepository) GetCompanionIDs(ctx context.Context, userID uuid.UUID) result.Result[[]uuid.UUID] {
	var raw []string
	err := r.db.WithContext(ctx).Raw(
		`SELECT DISTINCT CASE WHEN sender_id = ? THEN recipient_id ELSE sender_id END
		 FROM messages WHERE sender_id = ? OR recipient_id = ?`,
		userID, userID, userID).Scan(&raw).Error
	if err != nil {
		return result.Failure[[]uuid.UUID](result.NewError(result.ServerError,
			"failed to get companions: "+err.Error()))
	}

	ids := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		id, perr := uuid.Parse(s)
		if perr != nil {
			continue
		}
		ids = append(ids, id)
	}
	return result.Success(ids)
}
