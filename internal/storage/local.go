package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/chngmn/Quizly-server/internal/models"
	"github.com/chngmn/Quizly-server/pkg/utils"
)

// LocalStore writes files under a directory that the HTTP server exposes at
// publicURL.
type LocalStore struct {
	dir       string
	publicURL string
}

func NewLocalStore(dir, publicURL string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &LocalStore{
		dir:       dir,
		publicURL: strings.TrimRight(publicURL, "/"),
	}, nil
}

func (s *LocalStore) Dir() string {
	return s.dir
}

func (s *LocalStore) Save(_ context.Context, originalName string, r io.Reader, _ int64, contentType string) (models.QuizFile, error) {
	key := newObjectKey(originalName)
	path := filepath.Join(s.dir, key)

	file, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		return models.QuizFile{}, fmt.Errorf("failed to create file: %w", err)
	}

	written, err := io.Copy(file, r)
	closeErr := file.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(path)
		return models.QuizFile{}, fmt.Errorf("failed to write file: %w", err)
	}

	return models.QuizFile{
		Key:          key,
		URL:          s.publicURL + "/" + key,
		OriginalName: originalName,
		Size:         written,
		ContentType:  resolveContentType(originalName, contentType),
	}, nil
}

// Remove deletes key. Missing files are not an error.
func (s *LocalStore) Remove(_ context.Context, key string) error {
	if !utils.IsValidObjectKey(key) {
		return ErrInvalidKey
	}
	err := os.Remove(filepath.Join(s.dir, key))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
