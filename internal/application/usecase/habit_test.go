package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"habithub/internal/domain"
	"habithub/internal/infrastructure/repository"
	"habithub/internal/result"
)

func newHabitFixture(t *testing.T) (*HabitService, *gorm.DB, uuid.UUID) {
	t.Helper()
	db := openTestDB(t)

	users := repository.NewUserRepository(db)
	owner := &domain.User{ID: uuid.New(), FirstName: "Owner", Email: "owner@test", PasswordHash: "x"}
	require.True(t, users.Add(context.Background(), owner).IsSuccess())

	service := NewHabitService(
		repository.NewHabitRepository(db),
		repository.NewHabitProgressRepository(db),
	)
	return service, db, owner.ID
}

func TestHabitAddRequiresType(t *testing.T) {
	service, _, ownerID := newHabitFixture(t)

	res := service.Add(context.Background(), ownerID, AddHabitInput{Goal: "10000 шагов"})
	require.False(t, res.IsSuccess())
	assert.Equal(t, result.BadRequest, res.Err().Type)
}

func TestHabitOwnershipHidesForeignHabit(t *testing.T) {
	service, _, ownerID := newHabitFixture(t)
	ctx := context.Background()

	habit := service.Add(ctx, ownerID, AddHabitInput{Type: domain.HabitReading, Goal: "30 страниц"})
	require.True(t, habit.IsSuccess())

	// Чужой пользователь получает тот же ответ, что и на несуществующий ID.
	stranger := uuid.New()
	res := service.GetByID(ctx, stranger, habit.Value().ID)
	require.False(t, res.IsSuccess())
	assert.Equal(t, result.BadRequest, res.Err().Type)

	missing := service.GetByID(ctx, ownerID, uuid.New())
	require.False(t, missing.IsSuccess())
	assert.Equal(t, res.Err().Message, missing.Err().Message)
}

func TestHabitProgressUpsertKeepsOneRowPerDay(t *testing.T) {
	service, _, ownerID := newHabitFixture(t)
	ctx := context.Background()

	habit := service.Add(ctx, ownerID, AddHabitInput{Type: domain.HabitSleep, Goal: "8 часов"})
	require.True(t, habit.IsSuccess())
	habitID := habit.Value().ID

	day := time.Date(2025, 7, 10, 9, 0, 0, 0, time.UTC)
	require.True(t, service.AddProgress(ctx, ownerID, habitID, day, 50).IsSuccess())

	// Вторая запись за ту же дату обновляет процент, а не плодит строки.
	evening := time.Date(2025, 7, 10, 22, 0, 0, 0, time.UTC)
	require.True(t, service.AddProgress(ctx, ownerID, habitID, evening, 90).IsSuccess())

	progress := service.GetProgress(ctx, ownerID, habitID)
	require.True(t, progress.IsSuccess())
	require.Len(t, progress.Value(), 1)
	assert.Equal(t, float64(90), progress.Value()[0].PercentageCompletion)
}

func TestHabitProgressRejectsOutOfRange(t *testing.T) {
	service, _, ownerID := newHabitFixture(t)
	ctx := context.Background()

	habit := service.Add(ctx, ownerID, AddHabitInput{Type: domain.HabitOther})
	require.True(t, habit.IsSuccess())

	for _, pct := range []float64{-1, 101} {
		res := service.AddProgress(ctx, ownerID, habit.Value().ID, time.Now(), pct)
		require.False(t, res.IsSuccess())
		assert.Equal(t, result.BadRequest, res.Err().Type)
	}
}

func TestHabitDeactivateKeepsHistory(t *testing.T) {
	service, _, ownerID := newHabitFixture(t)
	ctx := context.Background()

	habit := service.Add(ctx, ownerID, AddHabitInput{Type: domain.HabitMeditation})
	require.True(t, habit.IsSuccess())
	habitID := habit.Value().ID

	require.True(t, service.AddProgress(ctx, ownerID, habitID, time.Now(), 70).IsSuccess())
	require.True(t, service.Deactivate(ctx, ownerID, habitID).IsSuccess())

	got := service.GetByID(ctx, ownerID, habitID)
	require.True(t, got.IsSuccess())
	assert.False(t, got.Value().IsActive)

	progress := service.GetProgress(ctx, ownerID, habitID)
	require.True(t, progress.IsSuccess())
	assert.Len(t, progress.Value(), 1)
}

func TestHabitDeleteIsOwnerOnly(t *testing.T) {
	service, _, ownerID := newHabitFixture(t)
	ctx := context.Background()

	habit := service.Add(ctx, ownerID, AddHabitInput{Type: domain.HabitNutrition})
	require.True(t, habit.IsSuccess())

	res := service.Delete(ctx, uuid.New(), habit.Value().ID)
	require.False(t, res.IsSuccess())

	require.True(t, service.Delete(ctx, ownerID, habit.Value().ID).IsSuccess())
	assert.False(t, service.GetByID(ctx, ownerID, habit.Value().ID).IsSuccess())
}
