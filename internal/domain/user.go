package domain

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string
	Birthday     time.Time
	Status       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
