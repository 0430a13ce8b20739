package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"rentwheels/pkg/config"
	"rentwheels/pkg/logger"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
)

// ImageStore persists car images and returns a URL the catalog can embed.
type ImageStore interface {
	Upload(ctx context.Context, reader io.Reader, size int64, filename, contentType string) (string, error)
}

type minioImageStore struct {
	client    *minio.Client
	bucket    string
	publicURL string
	log       *logger.Logger
}

func NewMinioImageStore(cfg *config.Config) (ImageStore, error) {
	store := &minioImageStore{
		client:    cfg.Client.Minio,
		bucket:    cfg.MinioBucket,
		publicURL: cfg.MinioPublicURL,
		log:       cfg.Log,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	exists, err := store.client.BucketExists(ctx, store.bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %s: %w", store.bucket, err)
	}
	if !exists {
		if err := store.client.MakeBucket(ctx, store.bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %s: %w", store.bucket, err)
		}
		cfg.Log.Info("Created image bucket", "bucket", store.bucket)
	}

	return store, nil
}

func (s *minioImageStore) Upload(ctx context.Context, reader io.Reader, size int64, filename, contentType string) (string, error) {
	ext := strings.ToLower(path.Ext(filename))
	if ext == "" {
		ext = ".jpg"
	}
	objectName := fmt.Sprintf("cars/%s%s", uuid.NewString(), ext)

	if contentType == "" {
		contentType = "application/octet-stream"
	}

	info, err := s.client.PutObject(ctx, s.bucket, objectName, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload image %s: %w", objectName, err)
	}

	s.log.Debug("Image uploaded", "object", objectName, "size", info.Size)
	return s.objectURL(objectName), nil
}

func (s *minioImageStore) objectURL(objectName string) string {
	base := strings.TrimSuffix(s.publicURL, "/")
	if base == "" {
		base = s.client.EndpointURL().String()
	}
	return fmt.Sprintf("%s/%s/%s", base, s.bucket, objectName)
}
