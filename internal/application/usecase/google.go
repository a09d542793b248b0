package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"habithub/internal/domain"
	"habithub/internal/infrastructure/cache"
	"habithub/internal/infrastructure/repository"
	"habithub/internal/result"
)

// FitAPI — нужная часть клиента Google Fit.
type FitAPI interface {
	ExchangeCode(ctx context.Context, code string) result.Result[*domain.GoogleToken]
	GetActivityData(ctx context.Context, userID uuid.UUID, from, to time.Time) result.Result[[]domain.ActivityData]
}

// GoalAnalyzer — нужная часть AI-сервиса.
type GoalAnalyzer interface {
	AnalyzeGoalCompletion(ctx context.Context, activities []domain.ActivityData, goal string) result.Result[*domain.GoalAnalysis]
}

type GoogleService struct {
	tokens *cache.GoogleTokenStore
	fit    FitAPI
	ai     GoalAnalyzer
	habits *repository.HabitRepository
}

func NewGoogleService(tokens *cache.GoogleTokenStore, fit FitAPI, ai GoalAnalyzer, habits *repository.HabitRepository) *GoogleService {
	return &GoogleService{tokens: tokens, fit: fit, ai: ai, habits: habits}
}

func (s *GoogleService) AddToken(ctx context.Context, userID uuid.UUID, token domain.GoogleToken) result.Result[result.Void] {
	if token.AccessToken == "" {
		return result.Fail(result.NewError(result.BadRequest, "access token is required"))
	}
	return s.tokens.Store(ctx, userID, token)
}

// ExchangeCode — серверный вариант: код авторизации меняется на токены здесь
// и сразу сохраняется.
func (s *GoogleService) ExchangeCode(ctx context.Context, userID uuid.UUID, code string) result.Result[result.Void] {
	if code == "" {
		return result.Fail(result.NewError(result.BadRequest, "authorization code is required"))
	}

	tokenRes := s.fit.ExchangeCode(ctx, code)
	if !tokenRes.IsSuccess() {
		return result.Fail(tokenRes.Err())
	}
	return s.tokens.Store(ctx, userID, *tokenRes.Value())
}

func (s *GoogleService) RemoveToken(ctx context.Context, userID uuid.UUID) result.Result[result.Void] {
	return s.tokens.Remove(ctx, userID)
}

func (s *GoogleService) HasToken(ctx context.Context, userID uuid.UUID) result.Result[bool] {
	return s.tokens.Has(ctx, userID)
}

// GetUserFitProgress: активность из Google Fit -> проверка типа привычки ->
// анализ выполнения цели через AI.
func (s *GoogleService) GetUserFitProgress(ctx context.Context, userID, habitID uuid.UUID, from, to time.Time) result.Result[*domain.GoalAnalysis] {
	activityRes := s.fit.GetActivityData(ctx, userID, from, to)
	if !activityRes.IsSuccess() {
		return result.Failure[*domain.GoalAnalysis](activityRes.Err())
	}

	habitRes := s.habits.GetByFilter(ctx, "id = ?", habitID)
	if !habitRes.IsSuccess() {
		return result.Failure[*domain.GoalAnalysis](habitRes.Err())
	}
	habit := habitRes.Value()
	if habit == nil {
		return result.Failure[*domain.GoalAnalysis](result.NewError(result.NotFound,
			"habit not found"))
	}
	if habit.Type != domain.HabitPhysicalActivity {
		return result.Failure[*domain.GoalAnalysis](result.NewError(result.BadRequest,
			fmt.Sprintf("habit type is not %s", domain.HabitPhysicalActivity)))
	}

	goal := fmt.Sprintf("%s - Вид активности %s", habit.Goal, habit.PhysicalActivityType)

	return s.ai.AnalyzeGoalCompletion(ctx, activityRes.Value(), goal)
}
