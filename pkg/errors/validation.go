package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// noteIDRegex matches identifiers produced by the editor (UUIDs, nanoid-style
// block ids) without admitting separators that would escape a storage key.
var noteIDRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]*$`)

// ValidateNoteID validates a caller-supplied note identifier.
// Identifiers become Redis keys and MongoDB _id values, so the rules are
// conservative:
//   - No empty identifiers
//   - Maximum length of 128 characters
//   - No control characters
//   - Only letters, digits, '-' and '_' (first character alphanumeric)
func ValidateNoteID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "note ID is required")
	}

	if len(id) > 128 {
		return New(ErrCodeInvalidInput, "note ID too long (max 128 characters)")
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "note ID contains invalid control characters")
		}
	}

	if !noteIDRegex.MatchString(id) {
		return New(ErrCodeInvalidInput, "invalid note ID: %q", id)
	}

	return nil
}

// ValidatePath validates an output file path supplied by a user.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No path traversal sequences (..)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	for _, part := range strings.FieldsFunc(path, func(r rune) bool { return r == '/' || r == '\\' }) {
		if part == ".." {
			return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
		}
	}

	return nil
}
