package usecase

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"habithub/internal/infrastructure/repository"
	"habithub/internal/infrastructure/security"
	"habithub/internal/result"
)

type userFixture struct {
	users   *UserService
	posts   *PostService
	habits  *HabitService
	storage *fakeStorage
	db      *gorm.DB
}

// Redis-кэш токенов в этих сценариях не трогается, поэтому nil.
func newUserFixture(t *testing.T) *userFixture {
	t.Helper()
	db := openTestDB(t)

	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	mediaRepo := repository.NewMediaFileRepository(db)
	habitRepo := repository.NewHabitRepository(db)
	fs := newFakeStorage()

	users := NewUserService(
		userRepo, postRepo, mediaRepo,
		nil,
		security.NewPasswordHasher(),
		security.NewTokenManager("access", "refresh"),
		fs,
	)
	habits := NewHabitService(habitRepo, repository.NewHabitProgressRepository(db))
	posts := NewPostService(
		postRepo,
		repository.NewLikeRepository(db),
		repository.NewCommentRepository(db),
		mediaRepo,
		habitRepo,
		userRepo,
		fs,
	)

	return &userFixture{users: users, posts: posts, habits: habits, storage: fs, db: db}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()

	input := RegisterInput{FirstName: "Ivan", Email: "ivan@test", Password: "secret-password"}
	require.True(t, f.users.Register(ctx, input).IsSuccess())

	dup := f.users.Register(ctx, input)
	require.False(t, dup.IsSuccess())
	assert.Equal(t, result.BadRequest, dup.Err().Type)
	assert.Contains(t, dup.Err().Message, "already registered")
}

func TestRegisterHashesPassword(t *testing.T) {
	f := newUserFixture(t)

	res := f.users.Register(context.Background(), RegisterInput{
		FirstName: "Ivan", Email: "hash@test", Password: "secret-password",
	})
	require.True(t, res.IsSuccess())
	assert.NotEqual(t, "secret-password", res.Value().PasswordHash)
	assert.True(t, strings.HasPrefix(res.Value().PasswordHash, "$2"))
}

func TestGetByIDMissingIsNotFound(t *testing.T) {
	f := newUserFixture(t)

	res := f.users.GetByID(context.Background(), uuid.New())
	require.False(t, res.IsSuccess())
	assert.Equal(t, result.NotFound, res.Err().Type)
}

func TestUserUpdateTouchesOnlyGivenFields(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()

	reg := f.users.Register(ctx, RegisterInput{
		FirstName: "Ivan", LastName: "Petrov", Email: "upd@test", Password: "secret-password",
	})
	require.True(t, reg.IsSuccess())

	require.True(t, f.users.Update(ctx, reg.Value().ID, UpdateUserInput{Status: "бегаю по утрам"}).IsSuccess())

	got := f.users.GetByID(ctx, reg.Value().ID)
	require.True(t, got.IsSuccess())
	assert.Equal(t, "бегаю по утрам", got.Value().Status)
	assert.Equal(t, "Ivan", got.Value().FirstName)
	assert.Equal(t, "Petrov", got.Value().LastName)
}

// Удаление аккаунта сносит строки каскадом и подчищает блобы постов.
func TestUserDeleteCleansUpMedia(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()

	reg := f.users.Register(ctx, RegisterInput{
		FirstName: "Ivan", Email: "del@test", Password: "secret-password",
	})
	require.True(t, reg.IsSuccess())
	userID := reg.Value().ID

	habit := f.habits.Add(ctx, userID, AddHabitInput{Type: "reading"})
	require.True(t, habit.IsSuccess())

	post := f.posts.Add(ctx, userID, AddPostInput{
		HabitID: habit.Value().ID,
		Text:    "фото дня",
		Media:   []MediaUpload{{Reader: strings.NewReader("img"), Size: 3, Extension: "jpg"}},
	})
	require.True(t, post.IsSuccess())
	require.Len(t, f.storage.objects, 1)

	require.True(t, f.users.Delete(ctx, userID).IsSuccess())

	assert.Empty(t, f.storage.objects)
	assert.False(t, f.users.GetByID(ctx, userID).IsSuccess())
}
