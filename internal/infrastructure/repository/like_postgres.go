package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"habithub/internal/domain"
	"habithub/internal/result"
)

type LikeEntity struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey"`
	PostID uuid.UUID `gorm:"type:uuid;index;not null"`
	UserID uuid.UUID `gorm:"type:uuid;index;not null"`
}

func (LikeEntity) TableName() string {
	return "likes"
}

func likeToEntity(l *domain.Like) *LikeEntity {
	return &LikeEntity{ID: l.ID, PostID: l.PostID, UserID: l.UserID}
}

func likeToDomain(e *LikeEntity) *domain.Like {
	return &domain.Like{ID: e.ID, PostID: e.PostID, UserID: e.UserID}
}

type LikeRepository struct {
	*Repository[domain.Like, LikeEntity]
	db *gorm.DB
}

func NewLikeRepository(db *gorm.DB) *LikeRepository {
	return &LikeRepository{Repository: New(db, likeToEntity, likeToDomain), db: db}
}

func (r *LikeRepository) CountByPost(ctx context.Context, postID uuid.UUID) result.Result[int64] {
	var count int64
	err := r.db.WithContext(ctx).Model(&LikeEntity{}).
		Where("post_id = ?", postID).
		Count(&count).Error
	if err != nil {
		return result.Failure[int64](result.NewError(result.ServerError,
			"failed to count likes: "+err.Error()))
	}
	return result.Success(count)
}
