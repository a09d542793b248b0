package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"habithub/internal/domain"
	"habithub/internal/result"
)

const googleTokenPrefix = "google_token:"

// Токены Google живут только в Redis: это кеш авторизации, не учётные данные.
const googleTokenTTL = 30 * 24 * time.Hour

type GoogleTokenStore struct {
	client *redis.Client
}

func NewGoogleTokenStore(client *redis.Client) *GoogleTokenStore {
	return &GoogleTokenStore{client: client}
}

func (s *GoogleTokenStore) Store(ctx context.Context, userID uuid.UUID, token domain.GoogleToken) result.Result[result.Void] {
	data, err := json.Marshal(token)
	if err != nil {
		return result.Fail(result.NewError(result.ServerError, "failed to store google token"))
	}
	if err := s.client.Set(ctx, googleTokenPrefix+userID.String(), data, googleTokenTTL).Err(); err != nil {
		return result.Fail(result.NewError(result.ServerError, "failed to store google token"))
	}
	return result.Ok()
}

// Get возвращает nil при отсутствии токена — это не ошибка.
func (s *GoogleTokenStore) Get(ctx context.Context, userID uuid.UUID) result.Result[*domain.GoogleToken] {
	data, err := s.client.Get(ctx, googleTokenPrefix+userID.String()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return result.Success[*domain.GoogleToken](nil)
		}
		return result.Failure[*domain.GoogleToken](result.NewError(result.ServerError,
			"failed to get google token"))
	}

	var token domain.GoogleToken
	if err := json.Unmarshal(data, &token); err != nil {
		return result.Failure[*domain.GoogleToken](result.NewError(result.ServerError,
			"failed to decode google token"))
	}
	return result.Success(&token)
}

func (s *GoogleTokenStore) Has(ctx context.Context, userID uuid.UUID) result.Result[bool] {
	n, err := s.client.Exists(ctx, googleTokenPrefix+userID.String()).Result()
	if err != nil {
		return result.Failure[bool](result.NewError(result.ServerError,
			"failed to check google token"))
	}
	return result.Success(n > 0)
}

func (s *GoogleTokenStore) Remove(ctx context.Context, userID uuid.UUID) result.Result[result.Void] {
	if err := s.client.Del(ctx, googleTokenPrefix+userID.String()).Err(); err != nil {
		return result.Fail(result.NewError(result.ServerError, "failed to remove google token"))
	}
	return result.Ok()
}
