package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"habithub/internal/application/usecase"
)

type AuthHandler struct {
	users *usecase.UserService
}

func NewAuthHandler(users *usecase.UserService) *AuthHandler {
	return &AuthHandler{users: users}
}

// POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req struct {
		FirstName string `json:"first_name" binding:"required"`
		LastName  string `json:"last_name"`
		Email     string `json:"email" binding:"required,email"`
		Password  string `json:"password" binding:"required,min=8"`
		Birthday  string `json:"birthday"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var birthday time.Time
	if req.Birthday != "" {
		var err error
		birthday, err = time.Parse("2006-01-02", req.Birthday)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "birthday must be YYYY-MM-DD"})
			return
		}
	}

	res := h.users.Register(c, usecase.RegisterInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
		Birthday:  birthday,
	})
	if !res.IsSuccess() {
		fail(c, res.Err())
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": res.Value().ID})
}

// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res := h.users.Login(c, req.Email, req.Password)
	if !res.IsSuccess() {
		fail(c, res.Err())
		return
	}
	c.JSON(http.StatusOK, res.Value())
}

// POST /api/auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res := h.users.Refresh(c, req.RefreshToken)
	if !res.IsSuccess() {
		fail(c, res.Err())
		return
	}
	c.JSON(http.StatusOK, res.Value())
}

// POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res := h.users.Logout(c, req.RefreshToken)
	if !res.IsSuccess() {
		fail(c, res.Err())
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
