package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/chngmn/Quizly-server/internal/config"
	"github.com/chngmn/Quizly-server/internal/database/minio"
	"github.com/chngmn/Quizly-server/internal/models"
	"github.com/chngmn/Quizly-server/pkg/utils"
)

// MinioStore keeps attachments in a single bucket. minio.InitMinioClient must
// have been called first.
type MinioStore struct {
	bucket  string
	baseURL string
}

func NewMinioStore(cfg *config.MinIOConfig) *MinioStore {
	endpoint := cfg.PublicEndpoint
	if endpoint == "" {
		endpoint = cfg.Endpoint
	}
	scheme := "http"
	if cfg.UseSSL {
		scheme = "https"
	}
	return &MinioStore{
		bucket:  cfg.BucketName,
		baseURL: fmt.Sprintf("%s://%s/%s", scheme, endpoint, cfg.BucketName),
	}
}

func (s *MinioStore) Save(ctx context.Context, originalName string, r io.Reader, size int64, contentType string) (models.QuizFile, error) {
	key := newObjectKey(originalName)
	contentType = resolveContentType(originalName, contentType)

	info, err := minio.UploadFile(ctx, s.bucket, key, r, contentType, size)
	if err != nil {
		return models.QuizFile{}, fmt.Errorf("failed to upload %s: %w", originalName, err)
	}

	return models.QuizFile{
		Key:          key,
		URL:          s.baseURL + "/" + key,
		OriginalName: originalName,
		Size:         info.Size,
		ContentType:  contentType,
	}, nil
}

func (s *MinioStore) Remove(ctx context.Context, key string) error {
	if !utils.IsValidObjectKey(key) {
		return ErrInvalidKey
	}
	return minio.DeleteFile(ctx, s.bucket, key)
}
