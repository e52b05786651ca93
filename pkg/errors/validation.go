package errors

import (
	"strconv"
	"strings"
	"unicode"
)

// maxNameLength bounds user-supplied file names echoed back in reports.
const maxNameLength = 255

// ValidateFileName validates a user-supplied upload file name.
// It ensures the name is a simple basename that is safe to echo back
// in failure reports and logs.
//
// Validation rules:
//   - Name cannot be empty
//   - Maximum length of 255 bytes
//   - No control characters or null bytes
//   - No path separators or traversal sequences
func ValidateFileName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidName, "file name cannot be empty")
	}

	if len(name) > maxNameLength {
		return New(ErrCodeInvalidName, "file name too long (max %d characters)", maxNameLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidName, "file name contains invalid control characters")
		}
	}

	if strings.ContainsAny(name, "/\\") {
		return New(ErrCodeInvalidName, "file name cannot contain path separators")
	}

	if name == "." || name == ".." {
		return New(ErrCodeInvalidName, "file name cannot be a directory reference")
	}

	return nil
}

// SanitizeFileName returns name if it is valid, or a positional fallback
// such as "file-3" otherwise.
func SanitizeFileName(name string, index int) string {
	if ValidateFileName(name) == nil {
		return name
	}
	return "file-" + strconv.Itoa(index+1)
}
