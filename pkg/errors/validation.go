package errors

import (
	"math"
	"strings"
	"unicode"
)

// ValidateName validates a layer or feature identifier.
// It rejects names that could break file names or log lines.
//
// The validation rules are intentionally conservative:
//   - No control characters
//   - No null bytes
//   - Maximum length of 256 characters
//
// Empty names are allowed; callers that need one should check separately.
func ValidateName(name string) error {
	if len(name) > 256 {
		return New(ErrCodeInvalidInput, "name too long (max 256 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "name contains invalid control characters")
		}
	}

	return nil
}

// ValidatePath validates a scene or output file path for safety.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	// Check for null bytes and control characters
	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	return nil
}

// ValidateNonNegative checks that a numeric style parameter is finite and
// not negative.
func ValidateNonNegative(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidStyle, "%s must be finite, got %v", field, v)
	}
	if v < 0 {
		return New(ErrCodeInvalidStyle, "%s must not be negative, got %v", field, v)
	}
	return nil
}

// ValidateEnum checks that value is one of allowed. The empty string is
// accepted and means "use the default".
func ValidateEnum(field, value string, allowed []string) error {
	if value == "" {
		return nil
	}
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return New(ErrCodeInvalidStyle, "invalid %s: %q (must be one of: %s)", field, value, strings.Join(allowed, ", "))
}
