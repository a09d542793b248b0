package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"habithub/internal/domain"
	"habithub/internal/result"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// in-memory sqlite живёт в одном соединении
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&UserEntity{},
		&HabitEntity{},
		&HabitProgressEntity{},
		&PostEntity{},
		&MediaFileEntity{},
		&LikeEntity{},
		&CommentEntity{},
		&MessageEntity{},
	))
	return db
}

func addTestUser(t *testing.T, repo *UserRepository, email string) *domain.User {
	t.Helper()
	user := &domain.User{
		ID:           uuid.New(),
		FirstName:    "Test",
		Email:        email,
		PasswordHash: "hash",
	}
	require.True(t, repo.Add(context.Background(), user).IsSuccess())
	return user
}

func TestRepositoryAddAndGetByFilter(t *testing.T) {
	db := openTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := addTestUser(t, repo, "a@b.c")

	res := repo.GetByFilter(ctx, "email = ?", "a@b.c")
	require.True(t, res.IsSuccess())
	require.NotNil(t, res.Value())
	assert.Equal(t, user.ID, res.Value().ID)
}

// Отсутствие записи — не ошибка: успех с nil.
func TestRepositoryGetByFilterAbsent(t *testing.T) {
	db := openTestDB(t)
	repo := NewUserRepository(db)

	res := repo.GetByFilter(context.Background(), "email = ?", "nobody@nowhere")
	require.True(t, res.IsSuccess())
	assert.Nil(t, res.Value())
}

func TestRepositoryDeleteZeroRowsIsBadRequest(t *testing.T) {
	db := openTestDB(t)
	repo := NewUserRepository(db)

	res := repo.Delete(context.Background(), "id = ?", uuid.New())
	require.False(t, res.IsSuccess())
	assert.Equal(t, result.BadRequest, res.Err().Type)
}

func TestRepositoryUpdateMissingIsNotFound(t *testing.T) {
	db := openTestDB(t)
	repo := NewUserRepository(db)

	res := repo.Update(context.Background(), uuid.New(), func(e *UserEntity) {
		e.FirstName = "Never"
	})
	require.False(t, res.IsSuccess())
	assert.Equal(t, result.NotFound, res.Err().Type)
}

func TestRepositoryUpdateMutatesRow(t *testing.T) {
	db := openTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := addTestUser(t, repo, "mut@b.c")

	res := repo.Update(ctx, user.ID, func(e *UserEntity) {
		e.Status = "running every day"
	})
	require.True(t, res.IsSuccess())

	got := repo.GetByFilter(ctx, "id = ?", user.ID)
	require.True(t, got.IsSuccess())
	assert.Equal(t, "running every day", got.Value().Status)
}

func TestProgressGetByHabitAndDate(t *testing.T) {
	db := openTestDB(t)
	users := NewUserRepository(db)
	habits := NewHabitRepository(db)
	progress := NewHabitProgressRepository(db)
	ctx := context.Background()

	user := addTestUser(t, users, "p@b.c")
	habit := &domain.Habit{ID: uuid.New(), UserID: user.ID, Type: domain.HabitReading, IsActive: true}
	require.True(t, habits.Add(ctx, habit).IsSuccess())

	day := time.Date(2025, 6, 1, 15, 30, 0, 0, time.UTC)
	require.True(t, progress.Add(ctx, &domain.HabitProgress{
		ID:                   uuid.New(),
		HabitID:              habit.ID,
		Date:                 day,
		PercentageCompletion: 40,
	}).IsSuccess())

	// Время суток не влияет: ключ — календарная дата.
	sameDay := time.Date(2025, 6, 1, 3, 0, 0, 0, time.UTC)
	res := progress.GetByHabitAndDate(ctx, habit.ID, sameDay)
	require.True(t, res.IsSuccess())
	require.NotNil(t, res.Value())
	assert.Equal(t, float64(40), res.Value().PercentageCompletion)

	otherDay := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	res = progress.GetByHabitAndDate(ctx, habit.ID, otherDay)
	require.True(t, res.IsSuccess())
	assert.Nil(t, res.Value())
}

func TestMessageConversationAndCompanions(t *testing.T) {
	db := openTestDB(t)
	users := NewUserRepository(db)
	messages := NewMessageRepository(db)
	ctx := context.Background()

	alice := addTestUser(t, users, "alice@b.c")
	bob := addTestUser(t, users, "bob@b.c")
	carol := addTestUser(t, users, "carol@b.c")

	add := func(from, to uuid.UUID, text string, at time.Time) {
		require.True(t, messages.Add(ctx, &domain.Message{
			ID: uuid.New(), SenderID: from, RecipientID: to, Text: text, DateTime: at,
		}).IsSuccess())
	}

	base := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	add(alice.ID, bob.ID, "hi", base)
	add(bob.ID, alice.ID, "hello", base.Add(time.Minute))
	add(alice.ID, carol.ID, "hey", base.Add(2*time.Minute))

	conv := messages.GetConversation(ctx, alice.ID, bob.ID)
	require.True(t, conv.IsSuccess())
	require.Len(t, conv.Value(), 2)
	assert.Equal(t, "hi", conv.Value()[0].Text)
	assert.Equal(t, "hello", conv.Value()[1].Text)

	companions := messages.GetCompanionIDs(ctx, alice.ID)
	require.True(t, companions.IsSuccess())
	assert.ElementsMatch(t, []uuid.UUID{bob.ID, carol.ID}, companions.Value())
}
