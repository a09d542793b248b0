package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"habithub/config"
	"habithub/internal/application/usecase"
	"habithub/internal/bot"
	"habithub/internal/infrastructure/cache"
	"habithub/internal/infrastructure/gigachat"
	"habithub/internal/infrastructure/googlefit"
	"habithub/internal/infrastructure/repository"
	"habithub/internal/infrastructure/security"
	"habithub/internal/infrastructure/storage"
	"habithub/internal/middleware"
	handlers "habithub/internal/transport/http"
	"habithub/internal/transport/ws"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// 1. Конфиг
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Postgres
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	if err := db.AutoMigrate(
		&repository.UserEntity{},
		&repository.HabitEntity{},
		&repository.HabitProgressEntity{},
		&repository.PostEntity{},
		&repository.MediaFileEntity{},
		&repository.LikeEntity{},
		&repository.CommentEntity{},
		&repository.MessageEntity{},
	); err != nil {
		log.Fatalf("Failed to migrate DB: %v", err)
	}

	// 3. Redis
	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	log.Infof("Connected to Redis at %s", cfg.RedisAddr)

	// 4. MinIO
	mediaStorage, err := storage.NewMinioStorage(
		cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL)
	if err != nil {
		log.Fatalf("Failed to connect to MinIO: %v", err)
	}
	if err := mediaStorage.EnsureBucket(context.Background()); err != nil {
		log.Fatalf("Failed to ensure MinIO bucket: %v", err)
	}

	// 5. Репозитории и кэши
	userRepo := repository.NewUserRepository(db)
	habitRepo := repository.NewHabitRepository(db)
	progressRepo := repository.NewHabitProgressRepository(db)
	postRepo := repository.NewPostRepository(db)
	mediaRepo := repository.NewMediaFileRepository(db)
	likeRepo := repository.NewLikeRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	messageRepo := repository.NewMessageRepository(db)

	tokenCache := cache.NewTokenCache(rdb)
	googleTokens := cache.NewGoogleTokenStore(rdb)
	telegramChats := cache.NewTelegramChatStore(rdb, log)

	hasher := security.NewPasswordHasher()
	tokenManager := security.NewTokenManager(cfg.AccessSecret, cfg.RefreshSecret)

	// 6. Внешние клиенты
	fitClient := googlefit.NewClient(googlefit.Options{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURI:  cfg.GoogleRedirectURI,
	}, googleTokens, log)

	gigaClient := gigachat.NewClient(gigachat.Options{
		AuthURL:      cfg.GigaChatAuthURL,
		APIURL:       cfg.GigaChatAPIURL,
		Scope:        cfg.GigaChatScope,
		ClientID:     cfg.GigaChatClientID,
		ClientSecret: cfg.GigaChatClientSecret,
	}, log)

	// 7. Сервисы
	userService := usecase.NewUserService(userRepo, postRepo, mediaRepo, tokenCache, hasher, tokenManager, mediaStorage)
	habitService := usecase.NewHabitService(habitRepo, progressRepo)
	postService := usecase.NewPostService(postRepo, likeRepo, commentRepo, mediaRepo, habitRepo, userRepo, mediaStorage)
	messageService := usecase.NewMessageService(messageRepo, userRepo)
	aiService := usecase.NewAIService(gigaClient)
	googleService := usecase.NewGoogleService(googleTokens, fitClient, aiService, habitRepo)

	// 8. Чат-хаб
	chatHub := ws.NewHub(messageService, tokenManager, log)

	// 9. Роутер
	router := handlers.Router{
		Auth:           handlers.NewAuthHandler(userService),
		Users:          handlers.NewUserHandler(userService),
		Habits:         handlers.NewHabitHandler(habitService),
		Posts:          handlers.NewPostHandler(postService),
		Messages:       handlers.NewMessageHandler(messageService),
		Google:         handlers.NewGoogleHandler(googleService),
		AuthMiddleware: middleware.AuthMiddleware(tokenManager),
		RateLimiter:    middleware.NewRateLimiter(rdb),
		Chat:           chatHub,
	}
	engine := router.Setup(cfg.AllowedOrigins)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// 10. Телеграм-бот и рассылка напоминаний (опциональны: без токена не стартуют)
	var notifier *bot.Notifier
	if cfg.TelegramBotToken != "" {
		api, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
		if err != nil {
			log.Fatalf("Failed to connect to Telegram: %v", err)
		}

		telegramBot := bot.New(api, telegramChats, userService, habitService, log)
		go telegramBot.Run(ctx)

		notifier = bot.NewNotifier(api, telegramChats, habitRepo, log)
		if err := notifier.Start(); err != nil {
			log.Fatalf("Failed to start notification job: %v", err)
		}
	} else {
		log.Warn("TELEGRAM_BOT_TOKEN is empty, bot and reminders are disabled")
	}

	// 11. HTTP сервер
	server := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: engine,
	}

	go func() {
		log.Infof("HabitHub API running on port %s", cfg.HTTPPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to run server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorf("HTTP server shutdown: %v", err)
	}
	if notifier != nil {
		notifier.Stop()
	}

	_ = rdb.Close()
	os.Exit(0)
}
