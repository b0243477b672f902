package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chngmn/Quizly-server/internal/config"
)

func TestLocalStoreSaveAndRemove(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStore(dir, "/uploads/")
	if err != nil {
		t.Fatalf("NewLocalStore failed: %v", err)
	}
	ctx := context.Background()

	file, err := store.Save(ctx, "exam.PDF", strings.NewReader("content"), 7, "")
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if !strings.HasSuffix(file.Key, ".pdf") {
		t.Errorf("expected key to keep the extension, got %s", file.Key)
	}
	if file.URL != "/uploads/"+file.Key {
		t.Errorf("unexpected url: %s", file.URL)
	}
	if file.Size != 7 || file.OriginalName != "exam.PDF" {
		t.Errorf("unexpected descriptor: %+v", file)
	}
	if file.ContentType != "application/pdf" {
		t.Errorf("unexpected content type: %s", file.ContentType)
	}

	data, err := os.ReadFile(filepath.Join(dir, file.Key))
	if err != nil || string(data) != "content" {
		t.Fatalf("stored content mismatch: %q, %v", data, err)
	}

	if err := store.Remove(ctx, file.Key); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, file.Key)); !os.IsNotExist(err) {
		t.Errorf("file still present after Remove")
	}
	if err := store.Remove(ctx, file.Key); err != nil {
		t.Errorf("removing a missing file should succeed, got %v", err)
	}
}

func TestLocalStoreRejectsTraversal(t *testing.T) {
	store, err := NewLocalStore(t.TempDir(), "/uploads")
	if err != nil {
		t.Fatalf("NewLocalStore failed: %v", err)
	}
	if err := store.Remove(context.Background(), "../secret"); !errors.Is(err, ErrInvalidKey) {
		t.Errorf("expected ErrInvalidKey, got %v", err)
	}
}

func TestMinioStoreURL(t *testing.T) {
	store := NewMinioStore(&config.MinIOConfig{
		Endpoint:       "minio:9000",
		PublicEndpoint: "files.example.com",
		UseSSL:         true,
		BucketName:     "quizly",
	})
	if store.baseURL != "https://files.example.com/quizly" {
		t.Errorf("unexpected base url: %s", store.baseURL)
	}
}
