package errors

import (
	"strings"
	"unicode"
)

// ValidateNodeID validates a node identifier from external input (JSON
// imports, HTTP queries). Generated labels are always short uppercase
// strings; imported graphs may use anything printable, so the rules stay
// conservative:
//   - No empty IDs
//   - No control characters or null bytes
//   - No whitespace
//   - Maximum length of 64 characters
func ValidateNodeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "node id cannot be empty")
	}

	if len(id) > 64 {
		return New(ErrCodeInvalidInput, "node id too long (max 64 characters)")
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "node id contains control characters")
		}
		if unicode.IsSpace(r) {
			return New(ErrCodeInvalidInput, "node id cannot contain whitespace")
		}
	}

	return nil
}

// ValidateEdgeID validates an edge identifier from external input. Edge
// IDs are opaque (generated ones are UUIDs) but must be non-empty,
// printable, and of bounded length.
func ValidateEdgeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "edge id cannot be empty")
	}

	if len(id) > 128 {
		return New(ErrCodeInvalidInput, "edge id too long (max 128 characters)")
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "edge id contains control characters")
		}
	}

	return nil
}

// ValidateOutputPath validates an export destination path. It rejects
// obviously unsafe values while leaving filesystem errors to os.Create.
func ValidateOutputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidInput, "output path cannot be empty")
	}

	if strings.ContainsRune(path, '\x00') {
		return New(ErrCodeInvalidInput, "output path contains null byte")
	}

	return nil
}
