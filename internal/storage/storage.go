package storage

import (
	"context"
	"errors"
	"io"

	"github.com/chngmn/Quizly-server/internal/models"
	"github.com/chngmn/Quizly-server/pkg/utils"
	"github.com/google/uuid"
)

var ErrInvalidKey = errors.New("invalid object key")

// FileStore keeps quiz attachments.
type FileStore interface {
	Save(ctx context.Context, originalName string, r io.Reader, size int64, contentType string) (models.QuizFile, error)
	Remove(ctx context.Context, key string) error
}

func newObjectKey(originalName string) string {
	return uuid.NewString() + utils.Extension(originalName)
}

func resolveContentType(originalName, contentType string) string {
	if contentType == "" || contentType == "application/octet-stream" {
		return utils.ContentTypeFromName(originalName)
	}
	return contentType
}
