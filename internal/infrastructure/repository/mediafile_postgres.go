package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"habithub/internal/domain"
)

type MediaFileEntity struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	PostID    uuid.UUID `gorm:"type:uuid;index;not null"`
	Extension string    `gorm:"size:10;not null"`
}

func (MediaFileEntity) TableName() string {
	return "media_files"
}

func mediaFileToEntity(m *domain.MediaFile) *MediaFileEntity {
	return &MediaFileEntity{ID: m.ID, PostID: m.PostID, Extension: m.Extension}
}

func mediaFileToDomain(e *MediaFileEntity) *domain.MediaFile {
	return &domain.MediaFile{ID: e.ID, PostID: e.PostID, Extension: e.Extension}
}

type MediaFileRepository struct {
	*Repository[domain.MediaFile, MediaFileEntity]
}

func NewMediaFileRepository(db *gorm.DB) *MediaFileRepository {
	return &MediaFileRepository{Repository: New(db, mediaFileToEntity, mediaFileToDomain)}
}
