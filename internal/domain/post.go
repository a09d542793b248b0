package domain

import (
	"time"

	"github.com/google/uuid"
)

type Post struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	HabitID    uuid.UUID
	Text       string
	DateTime   time.Time
	MediaFiles []MediaFile
}

// MediaFile хранится в объектном хранилище под ключом "<ID>.<Extension>".
type MediaFile struct {
	ID        uuid.UUID
	PostID    uuid.UUID
	Extension string
}

type Like struct {
	ID     uuid.UUID
	PostID uuid.UUID
	UserID uuid.UUID
}

type Comment struct {
	ID       uuid.UUID
	PostID   uuid.UUID
	UserID   uuid.UUID
	Text     string
	DateTime time.Time
}
