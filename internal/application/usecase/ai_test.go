package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"habithub/internal/domain"
	"habithub/internal/result"
)

type fakeChat struct {
	reply      string
	lastPrompt string
}

func (f *fakeChat) GetAccessToken(context.Context) result.Result[string] {
	return result.Success("token")
}

func (f *fakeChat) SendMessage(_ context.Context, _ string, message string) result.Result[string] {
	f.lastPrompt = message
	return result.Success(f.reply)
}

func sampleActivities() []domain.ActivityData {
	start := time.Date(2025, 7, 1, 8, 0, 0, 0, time.UTC)
	return []domain.ActivityData{
		{
			StartTime:    start,
			EndTime:      start.Add(30 * time.Minute),
			ActivityType: domain.ActivityWalking,
			Steps:        4000,
			Calories:     150,
			Distance:     3200,
		},
		{
			StartTime:    start.Add(time.Hour),
			EndTime:      start.Add(2 * time.Hour),
			ActivityType: domain.ActivityRunning,
			Steps:        8000,
			Calories:     500,
			Distance:     9000,
		},
	}
}

func TestAnalyzeGoalCompletion(t *testing.T) {
	chat := &fakeChat{reply: `Вот анализ: {"completionPercentage": 85, "analysisSummary": "Почти у цели"} Удачи!`}
	service := NewAIService(chat)

	res := service.AnalyzeGoalCompletion(context.Background(), sampleActivities(), "10000 шагов в день")
	require.True(t, res.IsSuccess())
	assert.Equal(t, float64(85), res.Value().CompletionPercentage)
	assert.Equal(t, "Почти у цели", res.Value().AnalysisSummary)

	// Промпт содержит сводку и доминирующую по длительности активность.
	assert.Contains(t, chat.lastPrompt, "10000 шагов в день")
	assert.Contains(t, chat.lastPrompt, "12000")
	assert.Contains(t, chat.lastPrompt, string(domain.ActivityRunning))
}

func TestAnalyzeGoalCompletionRejectsEmptyInput(t *testing.T) {
	service := NewAIService(&fakeChat{})
	ctx := context.Background()

	noGoal := service.AnalyzeGoalCompletion(ctx, sampleActivities(), "  ")
	require.False(t, noGoal.IsSuccess())
	assert.Equal(t, result.ServerError, noGoal.Err().Type)

	noData := service.AnalyzeGoalCompletion(ctx, nil, "цель")
	require.False(t, noData.IsSuccess())
	assert.Equal(t, result.ServerError, noData.Err().Type)
}

func TestAnalyzeGoalCompletionBadReply(t *testing.T) {
	service := NewAIService(&fakeChat{reply: "извините, не могу помочь"})

	res := service.AnalyzeGoalCompletion(context.Background(), sampleActivities(), "цель")
	require.False(t, res.IsSuccess())
	assert.Equal(t, result.ServerError, res.Err().Type)
}

func TestParseAnalysis(t *testing.T) {
	cases := []struct {
		name  string
		reply string
		ok    bool
	}{
		{"plain json", `{"completionPercentage": 50, "analysisSummary": "ok"}`, true},
		{"wrapped in prose", "Конечно! ```json\n{\"completionPercentage\": 70, \"analysisSummary\": \"хорошо\"}\n``` Надеюсь, помог.", true},
		{"no json at all", "сегодня без анализа", false},
		{"broken json", `{"completionPercentage": }`, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			analysis, err := ParseAnalysis(tc.reply)
			if tc.ok {
				require.NoError(t, err)
				assert.NotNil(t, analysis)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
