package handlers

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"habithub/internal/application/usecase"
)

// Лимит multipart-формы целиком, картинки с телефона влезают с запасом.
const maxUploadSize = 32 << 20

type PostHandler struct {
	posts *usecase.PostService
}

func NewPostHandler(posts *usecase.PostService) *PostHandler {
	return &PostHandler{posts: posts}
}

// POST /api/posts — multipart: поля habit_id, text и файлы media.
func (h *PostHandler) Add(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := c.Request.ParseMultipartForm(maxUploadSize); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid multipart form"})
		return
	}

	habitID, err := uuid.Parse(c.PostForm("habit_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid habit_id"})
		return
	}

	input := usecase.AddPostInput{
		HabitID: habitID,
		Text:    c.PostForm("text"),
	}

	form := c.Request.MultipartForm
	var closers []interface{ Close() error }
	defer func() {
		for _, f := range closers {
			_ = f.Close()
		}
	}()

	for _, header := range form.File["media"] {
		file, err := header.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read uploaded file"})
			return
		}
		closers = append(closers, file)

		ext := strings.TrimPrefix(filepath.Ext(header.Filename), ".")
		if ext == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "file must have an extension"})
			return
		}

		input.Media = append(input.Media, usecase.MediaUpload{
			Reader:    file,
			Size:      header.Size,
			Extension: ext,
		})
	}

	res := h.posts.Add(c, userID, input)
	if !res.IsSuccess() {
		fail(c, res.Err())
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": res.Value().ID})
}

// GET /api/posts — лента, новые сверху.
func (h *PostHandler) GetAllByNew(c *gin.Context) {
	res := h.posts.GetAllByNew(c)
	if !res.IsSuccess() {
		fail(c, res.Err())
		return
	}
	c.JSON(http.StatusOK, res.Value())
}

// GET /api/posts/:id
func (h *PostHandler) GetByID(c *gin.Context) {
	postID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	res := h.posts.GetByID(c, postID)
	if !res.IsSuccess() {
		fail(c, res.Err())
		return
	}
	c.JSON(http.StatusOK, res.Value())
}

// PUT /api/posts/:id
func (h *PostHandler) Update(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	postID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Text string `json:"text" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res := h.posts.Update(c, userID, postID, req.Text)
	if !res.IsSuccess() {
		fail(c, res.Err())
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// DELETE /api/posts/:id
func (h *PostHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	postID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	res := h.posts.Delete(c, userID, postID)
	if !res.IsSuccess() {
		fail(c, res.Err())
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// POST /api/posts/:id/like
func (h *PostHandler) AddLike(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	postID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	res := h.posts.AddLike(c, userID, postID)
	if !res.IsSuccess() {
		fail(c, res.Err())
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// DELETE /api/posts/:id/like
func (h *PostHandler) RemoveLike(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	postID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	res := h.posts.RemoveLike(c, userID, postID)
	if !res.IsSuccess() {
		fail(c, res.Err())
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// POST /api/posts/:id/comments
func (h *PostHandler) AddComment(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	postID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Text string `json:"text" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res := h.posts.AddComment(c, userID, postID, req.Text)
	if !res.IsSuccess() {
		fail(c, res.Err())
		return
	}
	c.JSON(http.StatusCreated, res.Value())
}

// GET /api/posts/:id/comments
func (h *PostHandler) GetComments(c *gin.Context) {
	postID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	res := h.posts.GetComments(c, postID)
	if !res.IsSuccess() {
		fail(c, res.Err())
		return
	}
	c.JSON(http.StatusOK, res.Value())
}

// DELETE /api/comments/:commentId
func (h *PostHandler) DeleteComment(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	commentID, ok := parseIDParam(c, "commentId")
	if !ok {
		return
	}

	res := h.posts.DeleteComment(c, userID, commentID)
	if !res.IsSuccess() {
		fail(c, res.Err())
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
