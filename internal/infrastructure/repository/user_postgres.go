package repository

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"habithub/internal/domain"
)

// GORM модель
type UserEntity struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	FirstName    string    `gorm:"size:50;not null"`
	LastName     string    `gorm:"size:50"`
	Email        string    `gorm:"uniqueIndex;not null;size:100"`
	PasswordHash string    `gorm:"not null"`
	Birthday     time.Time
	Status       string `gorm:"size:200"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// Каскады: удаление пользователя сносит его привычки, посты, лайки,
	// комментарии и переписку в обе стороны.
	Habits   []HabitEntity   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Posts    []PostEntity    `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Likes    []LikeEntity    `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Comments []CommentEntity `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Sent     []MessageEntity `gorm:"foreignKey:SenderID;constraint:OnDelete:CASCADE"`
	Received []MessageEntity `gorm:"foreignKey:RecipientID;constraint:OnDelete:CASCADE"`
}

func (UserEntity) TableName() string {
	return "users"
}

func userToEntity(u *domain.User) *UserEntity {
	return &UserEntity{
		ID:           u.ID,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Birthday:     u.Birthday,
		Status:       u.Status,
	}
}

func userToDomain(e *UserEntity) *domain.User {
	return &domain.User{
		ID:           e.ID,
		FirstName:    e.FirstName,
		LastName:     e.LastName,
		Email:        e.Email,
		PasswordHash: e.PasswordHash,
		Birthday:     e.Birthday,
		Status:       e.Status,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
}

type UserRepository struct {
	*Repository[domain.User, UserEntity]
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{Repository: New(db, userToEntity, userToDomain)}
}
