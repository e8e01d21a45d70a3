package photo

import (
	"errors"
	"fmt"
)

// =============================================================================
// Sentinel Errors
// =============================================================================

var (
	// ErrNotFound is returned when a requested photo doesn't exist.
	ErrNotFound = errors.New("photo not found")

	// ErrInvalidKey is returned when a photo key is invalid or contains
	// forbidden characters (e.g., path traversal attempts like "../").
	ErrInvalidKey = errors.New("invalid photo key")

	// ErrTooLarge is returned when a photo exceeds MaxPhotoSize.
	ErrTooLarge = errors.New("photo exceeds maximum size")

	// ErrAccessDenied is returned when the storage provider denies access
	// to a photo (insufficient permissions, ACL restrictions, etc.).
	ErrAccessDenied = errors.New("access denied")

	// ErrUnsupported is returned when a photo is not a decodable image.
	ErrUnsupported = errors.New("unsupported photo format")
)

// =============================================================================
// Structured Error Type
// =============================================================================

// SourceError wraps photo operation errors with additional context.
// It supports errors.Unwrap for sentinel error checking with errors.Is().
type SourceError struct {
	// Op is the operation that failed (e.g., "Open", "Score").
	Op string

	// Key is the photo key involved in the operation.
	Key string

	// Err is the underlying error that occurred.
	Err error
}

// Error implements the error interface.
func (e *SourceError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("photo %s %q: %v", e.Op, e.Key, e.Err)
	}
	return fmt.Sprintf("photo %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for use with errors.Is() and errors.As().
func (e *SourceError) Unwrap() error {
	return e.Err
}

// =============================================================================
// Helper Functions
// =============================================================================

// IsNotFound returns true if the error indicates a photo was not found.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsInvalid returns true if the caller supplied an unusable key or photo.
func IsInvalid(err error) bool {
	return errors.Is(err, ErrInvalidKey) ||
		errors.Is(err, ErrUnsupported) ||
		errors.Is(err, ErrTooLarge)
}
