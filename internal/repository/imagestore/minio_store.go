package imagestore

import (
	"context"
	"fmt"
	"io"
	"path"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/kasetgo/kaset/internal/config"
	"github.com/kasetgo/kaset/internal/domain/models"
)

// Store saves uploaded images and returns opaque references. The rest of the
// application only ever holds the reference, never the bytes.
type Store interface {
	Put(ctx context.Context, folder, filename string, r io.Reader, size int64, contentType string) (ref string, err error)
}

type minioStore struct {
	client *minio.Client
	bucket string
}

// NewStore connects to MinIO and creates the bucket when it does not exist.
func NewStore(ctx context.Context, cfg config.StorageConfig) (Store, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to init minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %s: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %s: %w", cfg.Bucket, err)
		}
	}

	return &minioStore{client: client, bucket: cfg.Bucket}, nil
}

// Put stores the object under a generated key and returns that key as the
// image reference.
func (s *minioStore) Put(ctx context.Context, folder, filename string, r io.Reader, size int64, contentType string) (string, error) {
	objectName := fmt.Sprintf("%s/%s%s", folder, uuid.NewString(), path.Ext(filename))

	_, err := s.client.PutObject(ctx, s.bucket, objectName, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", &models.DependencyError{Dependency: "minio", Err: err}
	}

	return objectName, nil
}
