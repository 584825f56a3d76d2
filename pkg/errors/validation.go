package errors

import (
	"strings"
	"unicode"
)

// MaxDepth is the deepest pyramid level accepted anywhere in tilecascade.
// At depth 30 a single level already holds 2^60 tiles.
const MaxDepth = 30

// ValidateDepth checks that depth is a usable pyramid depth.
func ValidateDepth(depth int) error {
	if depth < 0 {
		return New(ErrCodeInvalidInput, "depth cannot be negative (got %d)", depth)
	}
	if depth > MaxDepth {
		return New(ErrCodeInvalidInput, "depth %d exceeds maximum of %d", depth, MaxDepth)
	}
	return nil
}

// ValidateKeyPrefix validates a key prefix used to namespace tiles in a
// shared backend (Redis, MongoDB).
//
// The validation rules are intentionally conservative:
//   - Maximum length of 128 characters
//   - No control characters or whitespace
//   - No glob metacharacters (*, ?, [, ]) since prefixes are used in SCAN patterns
func ValidateKeyPrefix(prefix string) error {
	if len(prefix) > 128 {
		return New(ErrCodeInvalidConfig, "key prefix too long (max 128 characters)")
	}
	for _, r := range prefix {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidConfig, "key prefix contains whitespace or control characters")
		}
	}
	if strings.ContainsAny(prefix, "*?[]") {
		return New(ErrCodeInvalidConfig, "key prefix cannot contain glob characters: %q", prefix)
	}
	return nil
}

// ValidateDirectory validates a directory path for a file-backed store.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
func ValidateDirectory(path string) error {
	if path == "" {
		return New(ErrCodeInvalidConfig, "directory cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidConfig, "directory path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidConfig, "directory path contains invalid characters")
		}
	}
	return nil
}
