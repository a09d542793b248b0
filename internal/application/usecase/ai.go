package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"habithub/internal/domain"
	"habithub/internal/result"
)

// ChatAPI — то, что сервису нужно от GigaChat. Интерфейс ради тестов.
type ChatAPI interface {
	GetAccessToken(ctx context.Context) result.Result[string]
	SendMessage(ctx context.Context, accessToken, message string) result.Result[string]
}

type AIService struct {
	chat ChatAPI
}

func NewAIService(chat ChatAPI) *AIService {
	return &AIService{chat: chat}
}

// AnalyzeGoalCompletion строит промпт по сводке активности и цели, запрашивает
// completion и разбирает из ответа строгий JSON.
func (s *AIService) AnalyzeGoalCompletion(ctx context.Context, activities []domain.ActivityData, goal string) result.Result[*domain.GoalAnalysis] {
	if strings.TrimSpace(goal) == "" {
		return result.Failure[*domain.GoalAnalysis](result.NewError(result.ServerError,
			"goal cannot be empty"))
	}
	if len(activities) == 0 {
		return result.Failure[*domain.GoalAnalysis](result.NewError(result.ServerError,
			"no activity data to analyze"))
	}

	prompt := buildPrompt(activities, goal)

	tokenRes := s.chat.GetAccessToken(ctx)
	if !tokenRes.IsSuccess() {
		return result.Failure[*domain.GoalAnalysis](tokenRes.Err())
	}

	replyRes := s.chat.SendMessage(ctx, tokenRes.Value(), prompt)
	if !replyRes.IsSuccess() {
		return result.Failure[*domain.GoalAnalysis](replyRes.Err())
	}

	analysis, err := ParseAnalysis(replyRes.Value())
	if err != nil {
		return result.Failure[*domain.GoalAnalysis](result.NewError(result.ServerError,
			"invalid ai response format"))
	}
	return result.Success(analysis)
}

func buildPrompt(activities []domain.ActivityData, goal string) string {
	var summary strings.Builder

	var totalSteps, totalCalories int64
	var totalDistance float64
	var totalMinutes int
	var main *domain.ActivityData
	for i := range activities {
		a := &activities[i]
		totalSteps += a.Steps
		totalCalories += a.Calories
		totalDistance += a.Distance
		totalMinutes += int(a.EndTime.Sub(a.StartTime).Minutes())
		if main == nil || a.EndTime.Sub(a.StartTime) > main.EndTime.Sub(main.StartTime) {
			main = a
		}
	}

	fmt.Fprintf(&summary, "- Общее количество шагов: %d\n", totalSteps)
	fmt.Fprintf(&summary, "- Сожжено калорий: %d ккал\n", totalCalories)
	fmt.Fprintf(&summary, "- Пройдено дистанции: %.2f км\n", totalDistance/1000)
	fmt.Fprintf(&summary, "- Общее время активности: %d мин\n", totalMinutes)
	if main != nil {
		fmt.Fprintf(&summary, "- Основная активность: %s (%d мин)\n",
			main.ActivityType, int(main.EndTime.Sub(main.StartTime).Minutes()))
	}

	return fmt.Sprintf(`**Цель:** "%s"

**Сегодняшняя активность:**
%s
**Требования к ответу:**
1. Рассчитай процент выполнения цели (0-100%%)
2. Сравни фактические показатели с целью
3. Укажи основные достижения
4. Дай рекомендации по улучшению

**Формат ответа (строгий JSON):**
{
    "completionPercentage": number,
    "analysisSummary": string
}`, goal, summary.String())
}

// ParseAnalysis вырезает JSON-объект из ответа модели: модель любит
// оборачивать его пояснениями, берём кусок от первой '{' до последней '}'.
func ParseAnalysis(reply string) (*domain.GoalAnalysis, error) {
	start := strings.Index(reply, "{")
	end := strings.LastIndex(reply, "}")

	clean := reply
	if start >= 0 && end > start {
		clean = reply[start : end+1]
	}

	var analysis domain.GoalAnalysis
	if err := json.Unmarshal([]byte(clean), &analysis); err != nil {
		return nil, err
	}
	return &analysis, nil
}
