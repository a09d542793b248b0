package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"habithub/internal/domain"
	"habithub/internal/infrastructure/repository"
	"habithub/internal/result"
)

type MessageService struct {
	messages *repository.MessageRepository
	users    *repository.UserRepository
}

func NewMessageService(messages *repository.MessageRepository, users *repository.UserRepository) *MessageService {
	return &MessageService{messages: messages, users: users}
}

func (s *MessageService) Add(ctx context.Context, senderID, recipientID uuid.UUID, text string) result.Result[*domain.Message] {
	if text == "" {
		return result.Failure[*domain.Message](result.NewError(result.BadRequest,
			"message text cannot be empty"))
	}
	if senderID == recipientID {
		return result.Failure[*domain.Message](result.NewError(result.BadRequest,
			"cannot message yourself"))
	}

	recipientRes := s.users.GetByFilter(ctx, "id = ?", recipientID)
	if !recipientRes.IsSuccess() {
		return result.Failure[*domain.Message](recipientRes.Err())
	}
	if recipientRes.Value() == nil {
		return result.Failure[*domain.Message](result.NewError(result.NotFound,
			"recipient not found"))
	}

	message := &domain.Message{
		ID:          uuid.New(),
		SenderID:    senderID,
		RecipientID: recipientID,
		Text:        text,
		DateTime:    time.Now().UTC(),
	}
	if addRes := s.messages.Add(ctx, message); !addRes.IsSuccess() {
		return result.Failure[*domain.Message](addRes.Err())
	}
	return result.Success(message)
}

// GetByID отдаёт сообщение только участнику переписки.
func (s *MessageService) GetByID(ctx context.Context, requesterID, messageID uuid.UUID) result.Result[*domain.Message] {
	msgRes := s.messages.GetByFilter(ctx,
		"id = ? AND (sender_id = ? OR recipient_id = ?)", messageID, requesterID, requesterID)
	if !msgRes.IsSuccess() {
		return result.Failure[*domain.Message](msgRes.Err())
	}
	if msgRes.Value() == nil {
		return result.Failure[*domain.Message](result.NewError(result.BadRequest,
			"no permission to access message"))
	}
	return result.Success(msgRes.Value())
}

// Update: редактировать может только отправитель — фильтр (id, sender_id).
func (s *MessageService) Update(ctx context.Context, senderID, messageID uuid.UUID, newText string) result.Result[result.Void] {
	if newText == "" {
		return result.Fail(result.NewError(result.BadRequest, "message text cannot be empty"))
	}

	ownRes := s.messages.GetByFilter(ctx, "id = ? AND sender_id = ?", messageID, senderID)
	if !ownRes.IsSuccess() {
		return result.Fail(ownRes.Err())
	}
	if ownRes.Value() == nil {
		return result.Fail(result.NewError(result.BadRequest, "no permission to edit message"))
	}

	return s.messages.Update(ctx, messageID, func(e *repository.MessageEntity) {
		e.Text = newText
	})
}

func (s *MessageService) Delete(ctx context.Context, senderID, messageID uuid.UUID) result.Result[result.Void] {
	ownRes := s.messages.GetByFilter(ctx, "id = ? AND sender_id = ?", messageID, senderID)
	if !ownRes.IsSuccess() {
		return result.Fail(ownRes.Err())
	}
	if ownRes.Value() == nil {
		return result.Fail(result.NewError(result.BadRequest, "no permission to delete message"))
	}
	return s.messages.Delete(ctx, "id = ?", messageID)
}

func (s *MessageService) GetAllByUsersID(ctx context.Context, userID, companionID uuid.UUID) result.Result[[]*domain.Message] {
	return s.messages.GetConversation(ctx, userID, companionID)
}

func (s *MessageService) GetAllCompanionsID(ctx context.Context, userID uuid.UUID) result.Result[[]uuid.UUID] {
	return s.messages.GetCompanionIDs(ctx, userID)
}
