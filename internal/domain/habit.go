package domain

import (
	"time"

	"github.com/google/uuid"
)

type HabitType string

const (
	HabitPhysicalActivity HabitType = "physical_activity"
	HabitNutrition        HabitType = "nutrition"
	HabitSleep            HabitType = "sleep"
	HabitReading          HabitType = "reading"
	HabitMeditation       HabitType = "meditation"
	HabitOther            HabitType = "other"
)

type PhysicalActivityType string

const (
	ActivityWalking      PhysicalActivityType = "walking"
	ActivityRunning      PhysicalActivityType = "running"
	ActivityCycling      PhysicalActivityType = "cycling"
	ActivitySwimming     PhysicalActivityType = "swimming"
	ActivitySkiing       PhysicalActivityType = "skiing"
	ActivitySnowboarding PhysicalActivityType = "snowboarding"
	ActivityYoga         PhysicalActivityType = "yoga"
	ActivityOther        PhysicalActivityType = "other_activity"
)

type Habit struct {
	ID                   uuid.UUID
	UserID               uuid.UUID
	Type                 HabitType
	PhysicalActivityType PhysicalActivityType
	Goal                 string
	IsActive             bool
	CreatedAt            time.Time
}

// HabitProgress — одна запись на пару (привычка, календарная дата), upsert-семантика.
type HabitProgress struct {
	ID                   uuid.UUID
	HabitID              uuid.UUID
	Date                 time.Time
	PercentageCompletion float64
}
