package errors

import (
	"strings"
	"unicode"
)

// ValidateFieldName validates a configured column name.
// Empty names are allowed and mean "use the default".
func ValidateFieldName(role, name string) error {
	if len(name) > 256 {
		return New(ErrCodeInvalidConfig, "%s: field name too long (max 256 characters)", role)
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidConfig, "%s: field name contains control characters", role)
		}
	}
	return nil
}

// ValidateLayerPick checks that a zero-based layer index lies in [0, count).
func ValidateLayerPick(pick, count int) error {
	if count <= 0 {
		return New(ErrCodeInvalidLayer, "no layers configured")
	}
	if pick < 0 || pick >= count {
		return New(ErrCodeInvalidLayer, "layer %d out of range (1..%d)", pick+1, count)
	}
	return nil
}

// ValidateSnapshotName validates a human-readable snapshot name.
func ValidateSnapshotName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidInput, "snapshot name cannot be empty")
	}
	if len(name) > 200 {
		return New(ErrCodeInvalidInput, "snapshot name too long (max 200 characters)")
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "snapshot name contains invalid control characters")
		}
	}
	return nil
}

// ValidatePath validates an output file path for safety.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
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
	return nil
}
