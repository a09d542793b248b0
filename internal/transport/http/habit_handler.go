package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"habithub/internal/application/usecase"
	"habithub/internal/domain"
)

type HabitHandler struct {
	habits *usecase.HabitService
}

func NewHabitHandler(habits *usecase.HabitService) *HabitHandler {
	return &HabitHandler{habits: habits}
}

// POST /api/habits
func (h *HabitHandler) Add(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req struct {
		Type                 string `json:"type" binding:"required"`
		PhysicalActivityType string `json:"physical_activity_type"`
		Goal                 string `json:"goal"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res := h.habits.Add(c, userID, usecase.AddHabitInput{
		Type:                 domain.HabitType(req.Type),
		PhysicalActivityType: domain.PhysicalActivityType(req.PhysicalActivityType),
		Goal:                 req.Goal,
	})
	if !res.IsSuccess() {
		fail(c, res.Err())
		return
	}
	c.JSON(http.StatusCreated, res.Value())
}

// GET /api/habits
func (h *HabitHandler) GetAll(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	res := h.habits.GetAllByUserID(c, userID)
	if !res.IsSuccess() {
		fail(c, res.Err())
		return
	}
	c.JSON(http.StatusOK, res.Value())
}

// GET /api/habits/:id
func (h *HabitHandler) GetByID(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	habitID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	res := h.habits.GetByID(c, userID, habitID)
	if !res.IsSuccess() {
		fail(c, res.Err())
		return
	}
	c.JSON(http.StatusOK, res.Value())
}

// PUT /api/habits/:id
func (h *HabitHandler) Update(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	habitID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Goal                 string `json:"goal"`
		PhysicalActivityType string `json:"physical_activity_type"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res := h.habits.Update(c, userID, habitID, usecase.UpdateHabitInput{
		Goal:                 req.Goal,
		PhysicalActivityType: domain.PhysicalActivityType(req.PhysicalActivityType),
	})
	if !res.IsSuccess() {
		fail(c, res.Err())
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// POST /api/habits/:id/deactivate
func (h *HabitHandler) Deactivate(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	habitID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	res := h.habits.Deactivate(c, userID, habitID)
	if !res.IsSuccess() {
		fail(c, res.Err())
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// DELETE /api/habits/:id
func (h *HabitHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	habitID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	res := h.habits.Delete(c, userID, habitID)
	if !res.IsSuccess() {
		fail(c, res.Err())
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// POST /api/habits/:id/progress
func (h *HabitHandler) AddProgress(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	habitID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Date       string  `json:"date"`
		Percentage float64 `json:"percentage"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	date := time.Now().UTC()
	if req.Date != "" {
		var err error
		date, err = time.Parse("2006-01-02", req.Date)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
			return
		}
	}

	res := h.habits.AddProgress(c, userID, habitID, date, req.Percentage)
	if !res.IsSuccess() {
		fail(c, res.Err())
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GET /api/habits/:id/progress
func (h *HabitHandler) GetProgress(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	habitID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	res := h.habits.GetProgress(c, userID, habitID)
	if !res.IsSuccess() {
		fail(c, res.Err())
		return
	}
	c.JSON(http.StatusOK, res.Value())
}
