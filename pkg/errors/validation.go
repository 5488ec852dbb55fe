package errors

import (
	"strings"
	"unicode"
)

// ValidateStorageKey validates an object key used to address photos and documents.
// It rejects keys that could escape the storage root of a filesystem backend.
//
// Validation rules:
//   - Key cannot be empty
//   - Maximum length of 512 characters
//   - No null bytes or control characters
//   - No leading slash
//   - No path traversal sequences (..) or empty segments (//)
//   - No backslashes (Windows-style paths)
func ValidateStorageKey(key string) error {
	if key == "" {
		return New(ErrCodeInvalidInput, "storage key cannot be empty")
	}

	const maxKeyLength = 512
	if len(key) > maxKeyLength {
		return New(ErrCodeInvalidInput, "storage key too long (max %d characters)", maxKeyLength)
	}

	for _, r := range key {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "storage key contains invalid characters")
		}
	}

	if strings.HasPrefix(key, "/") {
		return New(ErrCodeInvalidInput, "storage key must be relative (cannot start with /)")
	}

	dangerousPatterns := []string{
		"..",
		"//",
		"\\",
	}
	for _, pattern := range dangerousPatterns {
		if strings.Contains(key, pattern) {
			return New(ErrCodeInvalidInput, "storage key contains invalid sequence: %q", pattern)
		}
	}

	return nil
}

// ValidateFilename validates a client-supplied upload filename.
// It must be a simple basename without path components.
func ValidateFilename(filename string) error {
	if filename == "" {
		return New(ErrCodeInvalidInput, "filename cannot be empty")
	}
	if len(filename) > 255 {
		return New(ErrCodeInvalidInput, "filename too long (max 255 characters)")
	}
	if strings.ContainsAny(filename, "/\\") {
		return New(ErrCodeInvalidInput, "filename cannot contain path separators")
	}
	if filename == "." || filename == ".." {
		return New(ErrCodeInvalidInput, "filename cannot be %q", filename)
	}
	for _, r := range filename {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "filename contains invalid control characters")
		}
	}
	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	// Simple scheme validation without full URL parsing
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}
