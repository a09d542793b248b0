package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"habithub/internal/application/usecase"
	"habithub/internal/infrastructure/cache"
	"habithub/internal/infrastructure/repository"
	"habithub/internal/infrastructure/security"
	"habithub/internal/infrastructure/storage"
	"habithub/internal/middleware"
	"habithub/internal/result"
	"habithub/internal/transport/ws"
)

type testEnv struct {
	engine       *gin.Engine
	users        *usecase.UserService
	tokenManager *security.TokenManager
}

type noopStorage struct{}

func (noopStorage) Upload(context.Context, string, io.Reader, int64, string) result.Result[result.Void] {
	return result.Ok()
}
func (noopStorage) PresignedURL(_ context.Context, name string) result.Result[string] {
	return result.Success("https://media.test/" + name)
}
func (noopStorage) Remove(context.Context, string) result.Result[result.Void] {
	return result.Ok()
}

var _ storage.MediaStorage = noopStorage{}

// Redis в этих тестах недоступен: лимитер на ошибке Incr пропускает запрос.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(
		&repository.UserEntity{},
		&repository.HabitEntity{},
		&repository.HabitProgressEntity{},
		&repository.PostEntity{},
		&repository.MediaFileEntity{},
		&repository.LikeEntity{},
		&repository.CommentEntity{},
		&repository.MessageEntity{},
	))

	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	mediaRepo := repository.NewMediaFileRepository(db)
	habitRepo := repository.NewHabitRepository(db)

	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	tokenManager := security.NewTokenManager("test-access", "test-refresh")

	userService := usecase.NewUserService(
		userRepo, postRepo, mediaRepo,
		cache.NewTokenCache(rdb),
		security.NewPasswordHasher(),
		tokenManager,
		noopStorage{},
	)
	habitService := usecase.NewHabitService(habitRepo, repository.NewHabitProgressRepository(db))
	postService := usecase.NewPostService(
		postRepo,
		repository.NewLikeRepository(db),
		repository.NewCommentRepository(db),
		mediaRepo, habitRepo, userRepo,
		noopStorage{},
	)
	messageService := usecase.NewMessageService(repository.NewMessageRepository(db), userRepo)

	log := logrus.New()
	log.SetOutput(io.Discard)

	router := Router{
		Auth:           NewAuthHandler(userService),
		Users:          NewUserHandler(userService),
		Habits:         NewHabitHandler(habitService),
		Posts:          NewPostHandler(postService),
		Messages:       NewMessageHandler(messageService),
		Google:         NewGoogleHandler(usecase.NewGoogleService(nil, nil, nil, habitRepo)),
		AuthMiddleware: middleware.AuthMiddleware(tokenManager),
		RateLimiter:    middleware.NewRateLimiter(rdb),
		Chat:           ws.NewHub(messageService, tokenManager, log),
	}

	return &testEnv{
		engine:       router.Setup("http://localhost:3000"),
		users:        userService,
		tokenManager: tokenManager,
	}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.engine.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) registeredUser(t *testing.T, email string) (uuid.UUID, string) {
	t.Helper()

	res := e.users.Register(context.Background(), usecase.RegisterInput{
		FirstName: "Test", Email: email, Password: "secret-password",
	})
	require.True(t, res.IsSuccess())

	access, _, err := e.tokenManager.Generate(res.Value().ID.String())
	require.NoError(t, err)
	return res.Value().ID, access
}

func TestRegisterEndpoint(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"first_name": "Ivan",
		"email":      "ivan@test.dev",
		"password":   "secret-password",
	})
	assert.Equal(t, http.StatusCreated, rec.Code)

	// Дубль почты отбивается на бизнес-слое.
	rec = env.do(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"first_name": "Ivan",
		"email":      "ivan@test.dev",
		"password":   "secret-password",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegisterValidatesPayload(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"first_name": "Ivan",
		"email":      "not-an-email",
		"password":   "secret-password",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"first_name": "Ivan",
		"email":      "short@test.dev",
		"password":   "short",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/habits", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/habits", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHabitFlowOverHTTP(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.registeredUser(t, "habit@test.dev")

	rec := env.do(t, http.MethodPost, "/api/habits", token, gin.H{
		"type": "reading",
		"goal": "30 страниц в день",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created struct {
		ID uuid.UUID `json:"ID"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotEqual(t, uuid.Nil, created.ID)

	rec = env.do(t, http.MethodPost, "/api/habits/"+created.ID.String()+"/progress", token, gin.H{
		"date":       "2025-08-01",
		"percentage": 55,
	})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/habits/"+created.ID.String()+"/progress", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "55")

	// Чужой токен не видит привычку.
	_, foreign := env.registeredUser(t, "other@test.dev")
	rec = env.do(t, http.MethodGet, "/api/habits/"+created.ID.String(), foreign, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMessageEndpointValidation(t *testing.T) {
	env := newTestEnv(t)
	senderID, token := env.registeredUser(t, "sender@test.dev")
	recipientID, _ := env.registeredUser(t, "recipient@test.dev")

	rec := env.do(t, http.MethodPost, "/api/messages/send", token, gin.H{
		"recipient_id": senderID.String(),
		"text":         "себе",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/messages/send", token, gin.H{
		"recipient_id": recipientID.String(),
		"text":         "привет",
	})
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/messages/companions", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), recipientID.String())
}
