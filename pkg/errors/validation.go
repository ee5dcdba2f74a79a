package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidateID validates a node, edge, or flow identifier for safety and
// correctness. It rejects ids that could be used for path traversal or
// injection attacks when ids end up in file names or store keys.
//
// The validation rules are intentionally conservative:
//   - No empty ids
//   - No control characters
//   - No path traversal sequences (.., //, etc.)
//   - No null bytes
//   - Maximum length of 256 characters
func ValidateID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "id cannot be empty")
	}

	if len(id) > 256 {
		return New(ErrCodeInvalidInput, "id too long (max 256 characters)")
	}

	// Check for control characters and null bytes
	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "id contains invalid control characters")
		}
	}

	// Check for path traversal patterns
	dangerousPatterns := []string{
		"..",   // Parent directory
		"//",   // Double slash
		"\x00", // Null byte
		"\\",   // Backslash (Windows path)
	}

	for _, pattern := range dangerousPatterns {
		if strings.Contains(id, pattern) {
			return New(ErrCodeInvalidInput, "id contains invalid characters: %q", pattern)
		}
	}

	return nil
}

// ValidateFlowFilename validates a flow filename for safety.
// It ensures the filename is a simple basename without path components.
func ValidateFlowFilename(filename string) error {
	if filename == "" {
		return New(ErrCodeInvalidInput, "flow filename cannot be empty")
	}

	// Must be a simple filename, not a path
	if strings.ContainsAny(filename, "/\\") {
		return New(ErrCodeInvalidInput, "flow filename cannot contain path separators")
	}

	if strings.HasPrefix(filename, ".") {
		return New(ErrCodeInvalidInput, "flow filename cannot be a hidden file")
	}

	return nil
}

// flowIDRegex matches the ids the store generates and the editor accepts:
// ASCII letters, digits, and separators, starting with a letter or digit.
var flowIDRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidateFlowID validates an id used to address a flow document in a store
// or over the API.
func ValidateFlowID(id string) error {
	if err := ValidateID(id); err != nil {
		return err
	}

	if !flowIDRegex.MatchString(id) {
		return New(ErrCodeInvalidInput, "invalid flow id: %q", id)
	}

	return nil
}
