package domain

import "time"

// ActivityData — агрегированный бакет активности из Google Fit.
type ActivityData struct {
	StartTime    time.Time
	EndTime      time.Time
	ActivityType PhysicalActivityType
	Steps        int64
	Calories     int64
	Distance     float64 // метры
}

// GoalAnalysis — разбор выполнения цели, который возвращает AI.
type GoalAnalysis struct {
	CompletionPercentage float64 `json:"completionPercentage"`
	AnalysisSummary      string  `json:"analysisSummary"`
}

// GoogleToken — токены Google OAuth, живут в Redis, не в основной БД.
type GoogleToken struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}
