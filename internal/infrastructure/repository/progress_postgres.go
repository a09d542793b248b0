package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"habithub/internal/domain"
	"habithub/internal/result"
)

// Дата хранится строкой YYYY-MM-DD: ключ апсерта — пара (habit_id, date),
// сравнение календарных дат должно быть точным.
const progressDateLayout = "2006-01-02"

type HabitProgressEntity struct {
	ID                   uuid.UUID `gorm:"type:uuid;primaryKey"`
	HabitID              uuid.UUID `gorm:"type:uuid;index:idx_progress_habit_date;not null"`
	Date                 string    `gorm:"size:10;index:idx_progress_habit_date;not null"`
	PercentageCompletion float64   `gorm:"not null"`
}

func (HabitProgressEntity) TableName() string {
	return "habit_progress"
}

func progressToEntity(p *domain.HabitProgress) *HabitProgressEntity {
	return &HabitProgressEntity{
		ID:                   p.ID,
		HabitID:              p.HabitID,
		Date:                 p.Date.Format(progressDateLayout),
		PercentageCompletion: p.PercentageCompletion,
	}
}

func progressToDomain(e *HabitProgressEntity) *domain.HabitProgress {
	date, _ := time.Parse(progressDateLayout, e.Date)
	return &domain.HabitProgress{
		ID:                   e.ID,
		HabitID:              e.HabitID,
		Date:                 date,
		PercentageCompletion: e.PercentageCompletion,
	}
}

type HabitProgressRepository struct {
	*Repository[domain.HabitProgress, HabitProgressEntity]
}

func NewHabitProgressRepository(db *gorm.DB) *HabitProgressRepository {
	return &HabitProgressRepository{Repository: New(db, progressToEntity, progressToDomain)}
}

// GetByHabitAndDate — выборка по натуральному ключу апсерта.
func (r *HabitProgressRepository) GetByHabitAndDate(ctx context.Context, habitID uuid.UUID, date time.Time) result.Result[*domain.HabitProgress] {
	return r.GetByFilter(ctx, "habit_id = ? AND date = ?", habitID, date.Format(progressDateLayout))
}
