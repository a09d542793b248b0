package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"habithub/internal/domain"
	"habithub/internal/result"
)

type CommentEntity struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	PostID   uuid.UUID `gorm:"type:uuid;index;not null"`
	UserID   uuid.UUID `gorm:"type:uuid;index;not null"`
	Text     string    `gorm:"type:text;not null"`
	DateTime time.Time
}

func (CommentEntity) TableName() string {
	return "comments"
}

func commentToEntity(c *domain.Comment) *CommentEntity {
	return &CommentEntity{ID: c.ID, PostID: c.PostID, UserID: c.UserID, Text: c.Text, DateTime: c.DateTime}
}

func commentToDomain(e *CommentEntity) *domain.Comment {
	return &domain.Comment{ID: e.ID, PostID: e.PostID, UserID: e.UserID, Text: e.Text, DateTime: e.DateTime}
}

type CommentRepository struct {
	*Repository[domain.Comment, CommentEntity]
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) *CommentRepository {
	return &CommentRepository{Repository: New(db, commentToEntity, commentToDomain), db: db}
}

func (r *CommentRepository) CountByPost(ctx context.Context, postID uuid.UUID) result.Result[int64] {
	var count int64
	err := r.db.WithContext(ctx).Model(&CommentEntity{}).
		Where("post_id = ?", postID).
		Count(&count).Error
	if err != nil {
		return result.Failure[int64](result.NewError(result.ServerError,
			"failed to count comments: "+err.Error()))
	}
	return result.Success(count)
}

// GetAllByPost — комментарии поста в порядке добавления.
func (r *CommentRepository) GetAllByPost(ctx context.Context, postID uuid.UUID) result.Result[[]*domain.Comment] {
	var entities []CommentEntity
	err := r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("date_time asc").
		Find(&entities).Error
	if err != nil {
		return result.Failure[[]*domain.Comment](result.NewError(result.ServerError,
			"failed to get comments: "+err.Error()))
	}

	comments := make([]*domain.Comment, 0, len(entities))
	for i := range entities {
		comments = append(comments, commentToDomain(&entities[i]))
	}
	return result.Success(comments)
}
