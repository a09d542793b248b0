package usecase

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"habithub/internal/infrastructure/repository"
	"habithub/internal/result"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&repository.UserEntity{},
		&repository.HabitEntity{},
		&repository.HabitProgressEntity{},
		&repository.PostEntity{},
		&repository.MediaFileEntity{},
		&repository.LikeEntity{},
		&repository.CommentEntity{},
		&repository.MessageEntity{},
	))
	return db
}

// fakeStorage считает загрузки и удаления вместо похода в MinIO.
type fakeStorage struct {
	objects map[string]bool
	removed []string
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: make(map[string]bool)}
}

func (f *fakeStorage) Upload(_ context.Context, objectName string, _ io.Reader, _ int64, _ string) result.Result[result.Void] {
	f.objects[objectName] = true
	return result.Ok()
}

func (f *fakeStorage) PresignedURL(_ context.Context, objectName string) result.Result[string] {
	return result.Success("https://media.test/" + objectName)
}

func (f *fakeStorage) Remove(_ context.Context, objectName string) result.Result[result.Void] {
	delete(f.objects, objectName)
	f.removed = append(f.removed, objectName)
	return result.Ok()
}
