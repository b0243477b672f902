package utils

import (
	"mime"
	"path/filepath"
	"strings"
)

const defaultContentType = "application/octet-stream"

// ContentTypeFromName guesses a MIME type from the file extension.
func ContentTypeFromName(filename string) string {
	ext := filepath.Ext(filename)
	if ext == "" {
		return defaultContentType
	}
	if contentType := mime.TypeByExtension(strings.ToLower(ext)); contentType != "" {
		return contentType
	}
	return defaultContentType
}

// IsValidObjectKey accepts flat keys only: no separators, no parent refs.
func IsValidObjectKey(key string) bool {
	if key == "" || len(key) > 255 || strings.Contains(key, "..") {
		return false
	}
	for _, char := range []string{"\\", "/", ":", "*", "?", "\"", "<", ">", "|"} {
		if strings.Contains(key, char) {
			return false
		}
	}
	return true
}

// Extension returns the lower-cased extension of a user-supplied name,
// dropped entirely when it would not be a valid key suffix.
func Extension(filename string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(filename)))
	if len(ext) > 16 || !IsValidObjectKey("x"+ext) {
		return ""
	}
	return ext
}
