package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"habithub/internal/application/usecase"
	"habithub/internal/domain"
)

type UserHandler struct {
	users *usecase.UserService
}

func NewUserHandler(users *usecase.UserService) *UserHandler {
	return &UserHandler{users: users}
}

type userResponse struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Status    string `json:"status"`
	Birthday  string `json:"birthday,omitempty"`
}

func toUserResponse(u *domain.User) userResponse {
	resp := userResponse{
		ID:        u.ID.String(),
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Status:    u.Status,
	}
	if !u.Birthday.IsZero() {
		resp.Birthday = u.Birthday.Format("2006-01-02")
	}
	return resp
}

// GET /api/users/me
func (h *UserHandler) GetMe(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	res := h.users.GetByID(c, userID)
	if !res.IsSuccess() {
		fail(c, res.Err())
		return
	}
	c.JSON(http.StatusOK, toUserResponse(res.Value()))
}

// GET /api/users/:id
func (h *UserHandler) GetByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	res := h.users.GetByID(c, id)
	if !res.IsSuccess() {
		fail(c, res.Err())
		return
	}
	c.JSON(http.StatusOK, toUserResponse(res.Value()))
}

// PUT /api/users/me
func (h *UserHandler) Update(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req struct {
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		Status    string `json:"status"`
		Birthday  string `json:"birthday"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input := usecase.UpdateUserInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Status:    req.Status,
	}
	if req.Birthday != "" {
		birthday, err := time.Parse("2006-01-02", req.Birthday)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "birthday must be YYYY-MM-DD"})
			return
		}
		input.Birthday = &birthday
	}

	res := h.users.Update(c, userID, input)
	if !res.IsSuccess() {
		fail(c, res.Err())
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// DELETE /api/users/me
func (h *UserHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	res := h.users.Delete(c, userID)
	if !res.IsSuccess() {
		fail(c, res.Err())
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
