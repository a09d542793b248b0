package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"habithub/internal/domain"
	"habithub/internal/result"
)

type PostEntity struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID   uuid.UUID `gorm:"type:uuid;index;not null"`
	HabitID  uuid.UUID `gorm:"type:uuid;index;not null"`
	Text     string    `gorm:"type:text"`
	DateTime time.Time `gorm:"index"`

	MediaFiles []MediaFileEntity `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`
	Likes      []LikeEntity      `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`
	Comments   []CommentEntity   `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`
}

func (PostEntity) TableName() string {
	return "posts"
}

func postToEntity(p *domain.Post) *PostEntity {
	return &PostEntity{
		ID:       p.ID,
		UserID:   p.UserID,
		HabitID:  p.HabitID,
		Text:     p.Text,
		DateTime: p.DateTime,
	}
}

func postToDomain(e *PostEntity) *domain.Post {
	post := &domain.Post{
		ID:       e.ID,
		UserID:   e.UserID,
		HabitID:  e.HabitID,
		Text:     e.Text,
		DateTime: e.DateTime,
	}
	for i := range e.MediaFiles {
		post.MediaFiles = append(post.MediaFiles, *mediaFileToDomain(&e.MediaFiles[i]))
	}
	return post
}

type PostRepository struct {
	*Repository[domain.Post, PostEntity]
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) *PostRepository {
	return &PostRepository{Repository: New(db, postToEntity, postToDomain), db: db}
}

// GetAllByNew — лента, свежие посты первыми.
func (r *PostRepository) GetAllByNew(ctx context.Context) result.Result[[]*domain.Post] {
	var entities []PostEntity
	err := r.db.WithContext(ctx).
		Preload("MediaFiles").
		Order("date_time desc").
		Find(&entities).Error
	if err != nil {
		return result.Failure[[]*domain.Post](result.NewError(result.ServerError,
			"failed to get posts: "+err.Error()))
	}

	posts := make([]*domain.Post, 0, len(entities))
	for i := range entities {
		posts = append(posts, postToDomain(&entities[i]))
	}
	return result.Success(posts)
}
