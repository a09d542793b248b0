package storage

import (
	"context"
	"io"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"habithub/internal/result"
)

// MediaStorage — то, что нужно сервисам от объектного хранилища.
// Интерфейс здесь, чтобы тесты могли подставить фейк.
type MediaStorage interface {
	Upload(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) result.Result[result.Void]
	PresignedURL(ctx context.Context, objectName string) result.Result[string]
	Remove(ctx context.Context, objectName string) result.Result[result.Void]
}

type MinioStorage struct {
	client *minio.Client
	bucket string
}

func NewMinioStorage(endpoint, accessKey, secretKey, bucket string, useSSL bool) (*MinioStorage, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, err
	}
	return &MinioStorage{client: client, bucket: bucket}, nil
}

// EnsureBucket создаёт бакет, если его ещё нет. Вызывается один раз на старте.
func (s *MinioStorage) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return err
	}
	if !exists {
		return s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{})
	}
	return nil
}

func (s *MinioStorage) Upload(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) result.Result[result.Void] {
	_, err := s.client.PutObject(ctx, s.bucket, objectName, reader, size,
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return result.Fail(result.NewError(result.ServerError,
			"failed to upload file: "+err.Error()))
	}
	return result.Ok()
}

func (s *MinioStorage) PresignedURL(ctx context.Context, objectName string) result.Result[string] {
	u, err := s.client.PresignedGetObject(ctx, s.bucket, objectName, time.Hour, url.Values{})
	if err != nil {
		return result.Failure[string](result.NewError(result.ServerError,
			"failed to get file url: "+err.Error()))
	}
	return result.Success(u.String())
}

func (s *MinioStorage) Remove(ctx context.Context, objectName string) result.Result[result.Void] {
	err := s.client.RemoveObject(ctx, s.bucket, objectName, minio.RemoveObjectOptions{})
	if err != nil {
		return result.Fail(result.NewError(result.ServerError,
			"failed to remove file: "+err.Error()))
	}
	return result.Ok()
}
