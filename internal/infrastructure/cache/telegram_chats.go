package cache

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"habithub/internal/result"
)

const (
	telegramChatPrefix = "telegram_chat:" // userID -> chatID
	telegramUserPrefix = "telegram_user:" // chatID -> userID, обратный индекс для callback'ов
)

// TelegramChatStore — связка "пользователь — чат бота". Пара ключей с общим TTL,
// последняя запись побеждает.
type TelegramChatStore struct {
	client *redis.Client
	log    *logrus.Logger
}

func NewTelegramChatStore(client *redis.Client, log *logrus.Logger) *TelegramChatStore {
	return &TelegramChatStore{client: client, log: log}
}

func (s *TelegramChatStore) StoreConnection(ctx context.Context, userID uuid.UUID, chatID int64, expiry time.Duration) result.Result[result.Void] {
	if err := s.client.Set(ctx, telegramChatPrefix+userID.String(), chatID, expiry).Err(); err != nil {
		s.log.WithError(err).Error("failed to store telegram connection")
		return result.Fail(result.NewError(result.ServerError, "failed to store connection"))
	}
	if err := s.client.Set(ctx, telegramUserPrefix+strconv.FormatInt(chatID, 10), userID.String(), expiry).Err(); err != nil {
		s.log.WithError(err).Error("failed to store telegram reverse index")
		return result.Fail(result.NewError(result.ServerError, "failed to store connection"))
	}
	return result.Ok()
}

func (s *TelegramChatStore) GetChatID(ctx context.Context, userID uuid.UUID) result.Result[*int64] {
	val, err := s.client.Get(ctx, telegramChatPrefix+userID.String()).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return result.Success[*int64](nil)
		}
		return result.Failure[*int64](result.NewError(result.ServerError, "failed to get connection"))
	}

	chatID, perr := strconv.ParseInt(val, 10, 64)
	if perr != nil {
		return result.Success[*int64](nil)
	}
	return result.Success(&chatID)
}

func (s *TelegramChatStore) GetUserIDByChat(ctx context.Context, chatID int64) result.Result[*uuid.UUID] {
	val, err := s.client.Get(ctx, telegramUserPrefix+strconv.FormatInt(chatID, 10)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return result.Success[*uuid.UUID](nil)
		}
		return result.Failure[*uuid.UUID](result.NewError(result.ServerError, "failed to get user"))
	}

	userID, perr := uuid.Parse(val)
	if perr != nil {
		return result.Success[*uuid.UUID](nil)
	}
	return result.Success(&userID)
}

// GetAllConnections обходит ключи через SCAN — KEYS на проде блокирует Redis.
func (s *TelegramChatStore) GetAllConnections(ctx context.Context) result.Result[map[uuid.UUID]int64] {
	connections := make(map[uuid.UUID]int64)

	iter := s.client.Scan(ctx, 0, telegramChatPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()

		userID, perr := uuid.Parse(strings.TrimPrefix(key, telegramChatPrefix))
		if perr != nil {
			continue
		}

		val, err := s.client.Get(ctx, key).Result()
		if err != nil {
			continue
		}
		chatID, perr := strconv.ParseInt(val, 10, 64)
		if perr != nil {
			continue
		}
		connections[userID] = chatID
	}
	if err := iter.Err(); err != nil {
		s.log.WithError(err).Error("failed to scan telegram connections")
		return result.Failure[map[uuid.UUID]int64](result.NewError(result.ServerError,
			"failed to get connections"))
	}
	return result.Success(connections)
}

func (s *TelegramChatStore) RemoveConnection(ctx context.Context, userID uuid.UUID) result.Result[result.Void] {
	chatRes := s.GetChatID(ctx, userID)
	if chatRes.IsSuccess() && chatRes.Value() != nil {
		_ = s.client.Del(ctx, telegramUserPrefix+strconv.FormatInt(*chatRes.Value(), 10)).Err()
	}
	if err := s.client.Del(ctx, telegramChatPrefix+userID.String()).Err(); err != nil {
		return result.Fail(result.NewError(result.ServerError, "failed to remove connection"))
	}
	return result.Ok()
}
