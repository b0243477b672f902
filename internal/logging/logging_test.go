package logging

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFileName(t *testing.T) {
	got := fileName(time.Date(2024, 3, 7, 23, 59, 0, 0, time.UTC))
	if got != "log_2024-03-07.log" {
		t.Errorf("unexpected file name: %s", got)
	}
}

func TestSetupCreatesDailyFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "log")

	file, err := Setup(dir, "debug")
	if err != nil {
		t.Fatalf("Setup returned error: %v", err)
	}
	defer file.Close()

	if _, err := os.Stat(filepath.Join(dir, fileName(time.Now()))); err != nil {
		t.Errorf("expected daily log file to exist: %v", err)
	}
}
