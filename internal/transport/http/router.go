package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"habithub/internal/middleware"
)

type Router struct {
	Auth     *AuthHandler
	Users    *UserHandler
	Habits   *HabitHandler
	Posts    *PostHandler
	Messages *MessageHandler
	Google   *GoogleHandler

	AuthMiddleware gin.HandlerFunc
	RateLimiter    *middleware.RateLimiter

	// Chat обслуживает websocket-апгрейд на /ws/chat.
	Chat http.Handler
}

func (r *Router) Setup(allowedOrigins string) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Split(allowedOrigins, ","),
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/register", r.Auth.Register)
		auth.POST("/login", r.RateLimiter.Limit("login", 5, time.Minute), r.Auth.Login)
		auth.POST("/refresh", r.Auth.Refresh)
		auth.POST("/logout", r.Auth.Logout)
	}

	protected := api.Group("")
	protected.Use(r.AuthMiddleware)

	users := protected.Group("/users")
	{
		users.GET("/me", r.Users.GetMe)
		users.PUT("/me", r.Users.Update)
		users.DELETE("/me", r.Users.Delete)
		users.GET("/:id", r.Users.GetByID)
	}

	habits := protected.Group("/habits")
	{
		habits.POST("", r.Habits.Add)
		habits.GET("", r.Habits.GetAll)
		habits.GET("/:id", r.Habits.GetByID)
		habits.PUT("/:id", r.Habits.Update)
		habits.DELETE("/:id", r.Habits.Delete)
		habits.POST("/:id/deactivate", r.Habits.Deactivate)
		habits.POST("/:id/progress", r.Habits.AddProgress)
		habits.GET("/:id/progress", r.Habits.GetProgress)
	}

	posts := protected.Group("/posts")
	{
		posts.POST("", r.Posts.Add)
		posts.GET("", r.Posts.GetAllByNew)
		posts.GET("/:id", r.Posts.GetByID)
		posts.PUT("/:id", r.Posts.Update)
		posts.DELETE("/:id", r.Posts.Delete)
		posts.POST("/:id/like", r.Posts.AddLike)
		posts.DELETE("/:id/like", r.Posts.RemoveLike)
		posts.POST("/:id/comments", r.Posts.AddComment)
		posts.GET("/:id/comments", r.Posts.GetComments)
	}

	protected.DELETE("/comments/:commentId", r.Posts.DeleteComment)

	messages := protected.Group("/messages")
	{
		messages.POST("/send", r.Messages.Send)
		messages.GET("/history/:companionId", r.Messages.History)
		messages.GET("/companions", r.Messages.Companions)
	}

	google := protected.Group("/google")
	{
		google.POST("/token", r.Google.AddToken)
		google.GET("/token/status", r.Google.TokenStatus)
		google.DELETE("/token", r.Google.RemoveToken)
		google.POST("/exchange", r.Google.ExchangeCode)
		google.POST("/fit/analyze", r.Google.AnalyzeFit)
	}

	// Websocket-чат живёт вне /api: токен проверяет сам хаб при апгрейде.
	router.GET("/ws/chat", gin.WrapH(r.Chat))

	return router
}
