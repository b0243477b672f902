package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup points the global zerolog logger at stdout and a daily log file
// under dir. The returned file must be closed by the caller. When the file
// cannot be opened the logger still writes to stdout and the error is
// returned.
func Setup(dir, level string) (*os.File, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	zerolog.TimeFieldFormat = time.RFC3339

	console := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}

	file, err := openDailyFile(dir, time.Now())
	if err != nil {
		log.Logger = zerolog.New(console).With().Timestamp().Logger()
		return nil, err
	}

	log.Logger = zerolog.New(io.MultiWriter(console, file)).With().Timestamp().Caller().Logger()
	return file, nil
}

func openDailyFile(dir string, now time.Time) (*os.File, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	logFile := filepath.Join(dir, fileName(now))
	file, err := os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return file, nil
}

func fileName(t time.Time) string {
	return fmt.Sprintf("log_%s.log", t.Format("2006-01-02"))
}
