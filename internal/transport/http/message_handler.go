package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"habithub/internal/application/usecase"
)

// MessageHandler — REST-дубль чатовых операций: история и отправка доступны
// и без websocket-соединения.
type MessageHandler struct {
	messages *usecase.MessageService
}

func NewMessageHandler(messages *usecase.MessageService) *MessageHandler {
	return &MessageHandler{messages: messages}
}

// POST /api/messages/send
func (h *MessageHandler) Send(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req struct {
		RecipientID string `json:"recipient_id" binding:"required"`
		Text        string `json:"text" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	recipientID, err := uuid.Parse(req.RecipientID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipient_id"})
		return
	}

	res := h.messages.Add(c, userID, recipientID, req.Text)
	if !res.IsSuccess() {
		fail(c, res.Err())
		return
	}
	c.JSON(http.StatusCreated, res.Value())
}

// GET /api/messages/history/:companionId
func (h *MessageHandler) History(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	companionID, ok := parseIDParam(c, "companionId")
	if !ok {
		return
	}

	res := h.messages.GetAllByUsersID(c, userID, companionID)
	if !res.IsSuccess() {
		fail(c, res.Err())
		return
	}
	c.JSON(http.StatusOK, res.Value())
}

// GET /api/messages/companions
func (h *MessageHandler) Companions(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	res := h.messages.GetAllCompanionsID(c, userID)
	if !res.IsSuccess() {
		fail(c, res.Err())
		return
	}
	c.JSON(http.StatusOK, res.Value())
}
