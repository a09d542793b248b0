package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"habithub/internal/application/usecase"
	"habithub/internal/domain"
)

type GoogleHandler struct {
	google *usecase.GoogleService
}

func NewGoogleHandler(google *usecase.GoogleService) *GoogleHandler {
	return &GoogleHandler{google: google}
}

// POST /api/google/token — клиент уже получил токены сам и отдаёт их на хранение.
func (h *GoogleHandler) AddToken(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req struct {
		AccessToken  string `json:"access_token" binding:"required"`
		RefreshToken string `json:"refresh_token"`
		ExpiresAt    int64  `json:"expires_at"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res := h.google.AddToken(c, userID, domain.GoogleToken{
		AccessToken:  req.AccessToken,
		RefreshToken: req.RefreshToken,
		ExpiresAt:    time.Unix(req.ExpiresAt, 0),
	})
	if !res.IsSuccess() {
		fail(c, res.Err())
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// POST /api/google/exchange — обмен authorization code на токены на сервере.
func (h *GoogleHandler) ExchangeCode(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req struct {
		Code string `json:"code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res := h.google.ExchangeCode(c, userID, req.Code)
	if !res.IsSuccess() {
		fail(c, res.Err())
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// DELETE /api/google/token
func (h *GoogleHandler) RemoveToken(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	res := h.google.RemoveToken(c, userID)
	if !res.IsSuccess() {
		fail(c, res.Err())
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GET /api/google/token/status
func (h *GoogleHandler) TokenStatus(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	res := h.google.HasToken(c, userID)
	if !res.IsSuccess() {
		fail(c, res.Err())
		return
	}
	c.JSON(http.StatusOK, gin.H{"connected": res.Value()})
}

// POST /api/google/fit/analyze
func (h *GoogleHandler) AnalyzeFit(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req struct {
		HabitID string `json:"habit_id" binding:"required"`
		From    string `json:"from"`
		To      string `json:"to"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	habitID, err := uuid.Parse(req.HabitID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid habit_id"})
		return
	}

	// По умолчанию — сегодняшний день.
	now := time.Now().UTC()
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	to := now

	if req.From != "" {
		from, err = time.Parse(time.RFC3339, req.From)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "from must be RFC3339"})
			return
		}
	}
	if req.To != "" {
		to, err = time.Parse(time.RFC3339, req.To)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "to must be RFC3339"})
			return
		}
	}

	res := h.google.GetUserFitProgress(c, userID, habitID, from, to)
	if !res.IsSuccess() {
		fail(c, res.Err())
		return
	}
	c.JSON(http.StatusOK, res.Value())
}
