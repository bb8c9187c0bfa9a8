package util

import "errors"

// Sentinel errors for common failure modes
var (
	// ErrInvalidURL indicates a URL that does not point at a release
	ErrInvalidURL = errors.New("invalid release URL")

	// ErrNotFound indicates a required resource was not found
	ErrNotFound = errors.New("not found")

	// ErrAuthRequired indicates the remote service rejected our credentials
	ErrAuthRequired = errors.New("authentication required")

	// ErrUnavailable indicates the remote service failed or is rate limiting
	ErrUnavailable = errors.New("service unavailable")

	// ErrInvalidConfig indicates invalid configuration
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrConflict indicates a destination file conflict
	ErrConflict = errors.New("destination conflict")

	// ErrUnsupported indicates a file format or operation is not supported
	ErrUnsupported = errors.New("unsupported")
)
