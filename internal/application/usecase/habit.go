package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"habithub/internal/domain"
	"habithub/internal/infrastructure/repository"
	"habithub/internal/result"
)

type AddHabitInput struct {
	Type                 domain.HabitType
	PhysicalActivityType domain.PhysicalActivityType
	Goal                 string
}

type UpdateHabitInput struct {
	Goal                 string
	PhysicalActivityType domain.PhysicalActivityType
}

type HabitService struct {
	habits   *repository.HabitRepository
	progress *repository.HabitProgressRepository
}

func NewHabitService(habits *repository.HabitRepository, progress *repository.HabitProgressRepository) *HabitService {
	return &HabitService{habits: habits, progress: progress}
}

func (s *HabitService) Add(ctx context.Context, userID uuid.UUID, input AddHabitInput) result.Result[*domain.Habit] {
	if input.Type == "" {
		return result.Failure[*domain.Habit](result.NewError(result.BadRequest,
			"habit type is required"))
	}

	habit := &domain.Habit{
		ID:                   uuid.New(),
		UserID:               userID,
		Type:                 input.Type,
		PhysicalActivityType: input.PhysicalActivityType,
		Goal:                 input.Goal,
		IsActive:             true,
	}

	if addRes := s.habits.Add(ctx, habit); !addRes.IsSuccess() {
		return result.Failure[*domain.Habit](addRes.Err())
	}
	return result.Success(habit)
}

func (s *HabitService) GetAllByUserID(ctx context.Context, userID uuid.UUID) result.Result[[]*domain.Habit] {
	return s.habits.GetAllByFilter(ctx, "user_id = ?", userID)
}

// GetByID ищет привычку по паре (id, владелец): чужая и несуществующая
// неразличимы для вызывающего.
func (s *HabitService) GetByID(ctx context.Context, userID, habitID uuid.UUID) result.Result[*domain.Habit] {
	habitRes := s.habits.GetByFilter(ctx, "id = ? AND user_id = ?", habitID, userID)
	if !habitRes.IsSuccess() {
		return result.Failure[*domain.Habit](habitRes.Err())
	}
	if habitRes.Value() == nil {
		return result.Failure[*domain.Habit](result.NewError(result.BadRequest,
			"no permission to access habit"))
	}
	return result.Success(habitRes.Value())
}

func (s *HabitService) Update(ctx context.Context, userID, habitID uuid.UUID, input UpdateHabitInput) result.Result[result.Void] {
	if ownRes := s.GetByID(ctx, userID, habitID); !ownRes.IsSuccess() {
		return result.Fail(ownRes.Err())
	}

	return s.habits.Update(ctx, habitID, func(e *repository.HabitEntity) {
		if input.Goal != "" {
			e.Goal = input.Goal
		}
		if input.PhysicalActivityType != "" {
			e.PhysicalActivityType = string(input.PhysicalActivityType)
		}
	})
}

func (s *HabitService) Deactivate(ctx context.Context, userID, habitID uuid.UUID) result.Result[result.Void] {
	if ownRes := s.GetByID(ctx, userID, habitID); !ownRes.IsSuccess() {
		return result.Fail(ownRes.Err())
	}

	return s.habits.Update(ctx, habitID, func(e *repository.HabitEntity) {
		e.IsActive = false
	})
}

func (s *HabitService) Delete(ctx context.Context, userID, habitID uuid.UUID) result.Result[result.Void] {
	if ownRes := s.GetByID(ctx, userID, habitID); !ownRes.IsSuccess() {
		return result.Fail(ownRes.Err())
	}
	return s.habits.Delete(ctx, "id = ?", habitID)
}

// AddProgress — upsert по ключу (привычка, дата): есть запись за этот день —
// обновляем процент, нет — создаём. Проверка и запись не обёрнуты в транзакцию,
// конкурентные вызовы за один день могут гонять (известное ограничение).
func (s *HabitService) AddProgress(ctx context.Context, userID, habitID uuid.UUID, date time.Time, percentage float64) result.Result[result.Void] {
	if percentage < 0 || percentage > 100 {
		return result.Fail(result.NewError(result.BadRequest,
			"percentage must be between 0 and 100"))
	}

	if ownRes := s.GetByID(ctx, userID, habitID); !ownRes.IsSuccess() {
		return result.Fail(ownRes.Err())
	}

	existingRes := s.progress.GetByHabitAndDate(ctx, habitID, date)
	if !existingRes.IsSuccess() {
		return result.Fail(existingRes.Err())
	}

	if existing := existingRes.Value(); existing != nil {
		return s.progress.Update(ctx, existing.ID, func(e *repository.HabitProgressEntity) {
			e.PercentageCompletion = percentage
		})
	}

	return s.progress.Add(ctx, &domain.HabitProgress{
		ID:                   uuid.New(),
		HabitID:              habitID,
		Date:                 date,
		PercentageCompletion: percentage,
	})
}

func (s *HabitService) GetProgress(ctx context.Context, userID, habitID uuid.UUID) result.Result[[]*domain.HabitProgress] {
	if ownRes := s.GetByID(ctx, userID, habitID); !ownRes.IsSuccess() {
		return result.Failure[[]*domain.HabitProgress](ownRes.Err())
	}
	return s.progress.GetAllByFilter(ctx, "habit_id = ?", habitID)
}
