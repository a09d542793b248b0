package repository

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"habithub/internal/domain"
)

type HabitEntity struct {
	ID                   uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID               uuid.UUID `gorm:"type:uuid;index;not null"`
	Type                 string    `gorm:"size:30;not null"`
	PhysicalActivityType string    `gorm:"size:30"`
	Goal                 string    `gorm:"type:text"`
	IsActive             bool      `gorm:"default:true"`
	CreatedAt            time.Time

	Progress []HabitProgressEntity `gorm:"foreignKey:HabitID;constraint:OnDelete:CASCADE"`
}

func (HabitEntity) TableName() string {
	return "habits"
}

func habitToEntity(h *domain.Habit) *HabitEntity {
	return &HabitEntity{
		ID:                   h.ID,
		UserID:               h.UserID,
		Type:                 string(h.Type),
		PhysicalActivityType: string(h.PhysicalActivityType),
		Goal:                 h.Goal,
		IsActive:             h.IsActive,
	}
}

func habitToDomain(e *HabitEntity) *domain.Habit {
	return &domain.Habit{
		ID:                   e.ID,
		UserID:               e.UserID,
		Type:                 domain.HabitType(e.Type),
		PhysicalActivityType: domain.PhysicalActivityType(e.PhysicalActivityType),
		Goal:                 e.Goal,
		IsActive:             e.IsActive,
		CreatedAt:            e.CreatedAt,
	}
}

type HabitRepository struct {
	*Repository[domain.Habit, HabitEntity]
}

func NewHabitRepository(db *gorm.DB) *HabitRepository {
	return &HabitRepository{Repository: New(db, habitToEntity, habitToDomain)}
}
