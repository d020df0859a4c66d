package objectstore

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"drift_inc/internal/storage"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioStorage реализация MediaStorage поверх MinIO/S3-совместимого хранилища
type MinioStorage struct {
	client *minio.Client
	bucket string
}

// политика анонимного чтения: публичные URL выдаются без подписи
const publicReadPolicy = `{
	"Version": "2012-10-17",
	"Statement": [{
		"Effect": "Allow",
		"Principal": {"AWS": ["*"]},
		"Action": ["s3:GetObject"],
		"Resource": ["arn:aws:s3:::%s/*"]
	}]
}`

// NewMinioStorage подключается к MinIO и готовит публичный бакет
func NewMinioStorage(endpoint, accessKey, secretKey, bucket string, useSSL bool) (*MinioStorage, error) {
	const op = "objectstore.NewMinioStorage"

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if err := client.SetBucketPolicy(ctx, bucket, fmt.Sprintf(publicReadPolicy, bucket)); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	return &MinioStorage{client: client, bucket: bucket}, nil
}

func (s *MinioStorage) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	const op = "objectstore.MinioStorage.Upload"

	if len(data) == 0 {
		return "", fmt.Errorf("%s: %w", op, storage.ErrEmptyObject)
	}

	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return fmt.Sprintf("%s/%s/%s", s.client.EndpointURL(), s.bucket, key), nil
}

func (s *MinioStorage) RemoveByURL(ctx context.Context, rawURL string) error {
	const op = "objectstore.MinioStorage.RemoveByURL"

	prefix := fmt.Sprintf("%s/%s/", s.client.EndpointURL(), s.bucket)
	key := strings.TrimPrefix(rawURL, prefix)
	if key == rawURL || key == "" {
		return fmt.Errorf("%s: %w", op, storage.ErrForeignURL)
	}

	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
