package errors

import (
	"slices"
	"strings"
	"unicode"
)

// MaxIDLength bounds node ids, lane actors and categories.
const MaxIDLength = 256

// ValidateID validates an identifier used as a node id, lane actor or
// category name.
//
// The rules are intentionally conservative:
//   - No empty ids
//   - No control characters (ids end up in SVG attributes and DOT files)
//   - Maximum length of 256 characters
func ValidateID(kind, id string) error {
	if strings.TrimSpace(id) == "" {
		return New(ErrCodeInvalidModel, "%s cannot be empty", kind)
	}

	if len(id) > MaxIDLength {
		return NewRef(ErrCodeInvalidModel, id, "%s too long (max %d characters)", kind, MaxIDLength)
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return NewRef(ErrCodeInvalidModel, id, "%s %q contains invalid control characters", kind, id)
		}
	}

	return nil
}

// ValidateFormats checks every format against the allowed set.
func ValidateFormats(formats []string, allowed []string) error {
	if len(formats) == 0 {
		return New(ErrCodeInvalidFormat, "no output format requested")
	}
	for _, f := range formats {
		if !slices.Contains(allowed, f) {
			return NewRef(ErrCodeInvalidFormat, f, "invalid format: %s (must be one of: %s)", f, strings.Join(allowed, ", "))
		}
	}
	return nil
}

// ValidatePath validates a relative output path for safety.
// It prevents path traversal when a server writes artifacts under a root.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No absolute paths (must be relative)
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
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

	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidPath, "path must be relative (cannot start with /)")
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}

	return nil
}
