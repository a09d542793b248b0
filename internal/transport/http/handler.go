package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"habithub/internal/result"
)

// currentUserID достаёт идентификатор из контекста (кладёт AuthMiddleware).
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.GetString("userId"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid user id in token"})
		return uuid.Nil, false
	}
	return id, true
}

// fail переводит доменную ошибку в HTTP-ответ: статус из типа, текст как есть.
func fail(c *gin.Context, err *result.Error) {
	c.JSON(err.Status(), gin.H{"error": err.Message})
}

func parseIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return uuid.Nil, false
	}
	return id, true
}
