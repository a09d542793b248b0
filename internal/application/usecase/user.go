package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"habithub/internal/domain"
	"habithub/internal/infrastructure/cache"
	"habithub/internal/infrastructure/repository"
	"habithub/internal/infrastructure/security"
	"habithub/internal/infrastructure/storage"
	"habithub/internal/result"
)

type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	Birthday  time.Time
}

type UpdateUserInput struct {
	FirstName string
	LastName  string
	Status    string
	Birthday  *time.Time
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type UserService struct {
	users        *repository.UserRepository
	posts        *repository.PostRepository
	media        *repository.MediaFileRepository
	tokenCache   *cache.TokenCache
	hasher       *security.PasswordHasher
	tokenManager *security.TokenManager
	storage      storage.MediaStorage
}

func NewUserService(
	users *repository.UserRepository,
	posts *repository.PostRepository,
	media *repository.MediaFileRepository,
	tokenCache *cache.TokenCache,
	hasher *security.PasswordHasher,
	tokenManager *security.TokenManager,
	mediaStorage storage.MediaStorage,
) *UserService {
	return &UserService{
		users:        users,
		posts:        posts,
		media:        media,
		tokenCache:   tokenCache,
		hasher:       hasher,
		tokenManager: tokenManager,
		storage:      mediaStorage,
	}
}

func (s *UserService) Register(ctx context.Context, input RegisterInput) result.Result[*domain.User] {
	if input.Email == "" || input.Password == "" {
		return result.Failure[*domain.User](result.NewError(result.BadRequest,
			"email and password are required"))
	}

	existing := s.users.GetByFilter(ctx, "email = ?", input.Email)
	if !existing.IsSuccess() {
		return result.Failure[*domain.User](existing.Err())
	}
	if existing.Value() != nil {
		return result.Failure[*domain.User](result.NewError(result.BadRequest,
			"email already registered"))
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return result.Failure[*domain.User](result.NewError(result.ServerError,
			"failed to hash password"))
	}

	user := &domain.User{
		ID:           uuid.New(),
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Email:        input.Email,
		PasswordHash: hash,
		Birthday:     input.Birthday,
	}

	if addRes := s.users.Add(ctx, user); !addRes.IsSuccess() {
		return result.Failure[*domain.User](addRes.Err())
	}
	return result.Success(user)
}

func (s *UserService) Login(ctx context.Context, email, password string) result.Result[*TokenPair] {
	userRes := s.users.GetByFilter(ctx, "email = ?", email)
	if !userRes.IsSuccess() {
		return result.Failure[*TokenPair](userRes.Err())
	}
	user := userRes.Value()
	if user == nil {
		return result.Failure[*TokenPair](result.NewError(result.BadRequest, "invalid credentials"))
	}
	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		return result.Failure[*TokenPair](result.NewError(result.BadRequest, "invalid credentials"))
	}

	return s.issueTokens(ctx, user.ID.String())
}

func (s *UserService) Refresh(ctx context.Context, oldRefreshToken string) result.Result[*TokenPair] {
	userID, err := s.tokenManager.ValidateRefreshToken(oldRefreshToken)
	if err != nil {
		return result.Failure[*TokenPair](result.NewError(result.BadRequest, "invalid refresh token"))
	}

	cachedID, err := s.tokenCache.CheckRefresh(ctx, oldRefreshToken)
	if err != nil || cachedID != userID {
		if err != nil && !errors.Is(err, redis.Nil) {
			return result.Failure[*TokenPair](result.NewError(result.ServerError,
				"failed to check refresh token"))
		}
		return result.Failure[*TokenPair](result.NewError(result.BadRequest, "token revoked"))
	}

	// Ротация: старый токен гасим сразу.
	_ = s.tokenCache.DeleteRefresh(ctx, oldRefreshToken)

	return s.issueTokens(ctx, userID)
}

func (s *UserService) Logout(ctx context.Context, refreshToken string) result.Result[result.Void] {
	if err := s.tokenCache.DeleteRefresh(ctx, refreshToken); err != nil {
		return result.Fail(result.NewError(result.ServerError, "failed to logout"))
	}
	return result.Ok()
}

func (s *UserService) issueTokens(ctx context.Context, userID string) result.Result[*TokenPair] {
	access, refresh, err := s.tokenManager.Generate(userID)
	if err != nil {
		return result.Failure[*TokenPair](result.NewError(result.ServerError,
			"failed to generate tokens"))
	}
	if err := s.tokenCache.SaveRefresh(ctx, userID, refresh); err != nil {
		return result.Failure[*TokenPair](result.NewError(result.ServerError,
			"failed to save refresh token"))
	}
	return result.Success(&TokenPair{AccessToken: access, RefreshToken: refresh})
}

func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) result.Result[*domain.User] {
	userRes := s.users.GetByFilter(ctx, "id = ?", id)
	if !userRes.IsSuccess() {
		return result.Failure[*domain.User](userRes.Err())
	}
	if userRes.Value() == nil {
		return result.Failure[*domain.User](result.NewError(result.NotFound, "user not found"))
	}
	return result.Success(userRes.Value())
}

func (s *UserService) Update(ctx context.Context, userID uuid.UUID, input UpdateUserInput) result.Result[result.Void] {
	return s.users.Update(ctx, userID, func(e *repository.UserEntity) {
		if input.FirstName != "" {
			e.FirstName = input.FirstName
		}
		if input.LastName != "" {
			e.LastName = input.LastName
		}
		if input.Status != "" {
			e.Status = input.Status
		}
		if input.Birthday != nil {
			e.Birthday = *input.Birthday
		}
	})
}

// Delete удаляет пользователя. Строки зависимых таблиц снимают каскады БД,
// блобы медиафайлов чистим сами — хранилище про каскады не знает.
func (s *UserService) Delete(ctx context.Context, userID uuid.UUID) result.Result[result.Void] {
	postsRes := s.posts.GetAllByFilter(ctx, "user_id = ?", userID)
	if !postsRes.IsSuccess() {
		return result.Failure[result.Void](postsRes.Err())
	}

	var objectNames []string
	for _, post := range postsRes.Value() {
		filesRes := s.media.GetAllByFilter(ctx, "post_id = ?", post.ID)
		if !filesRes.IsSuccess() {
			return result.Failure[result.Void](filesRes.Err())
		}
		for _, f := range filesRes.Value() {
			objectNames = append(objectNames, f.ID.String()+"."+f.Extension)
		}
	}

	if delRes := s.users.Delete(ctx, "id = ?", userID); !delRes.IsSuccess() {
		return delRes
	}

	for _, name := range objectNames {
		_ = s.storage.Remove(ctx, name)
	}
	return result.Ok()
}
