package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound marks a missing sidecar. The content filter reads it as empty text.
	ErrNotFound = errors.New("not found")
	// ErrCollision marks a destination file that already exists.
	ErrCollision = errors.New("destination exists")
	// ErrInvalidArgument marks caller input rejected before any I/O.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrFormat marks data that cannot be interpreted, such as a non-numeric
	// base filename where numeric ordering is required.
	ErrFormat = errors.New("format error")
	// ErrIO marks filesystem failures (permission, disk full, path too long).
	ErrIO = errors.New("io failure")
)

// Wrap builds an error message that includes operation and path context while
// tagging it with the provided marker for later classification. The marker
// should be one of the exported sentinel errors above.
func Wrap(marker error, operation, path, message string, err error) error {
	detail := buildDetail(operation, path, message)
	if marker == nil {
		marker = ErrIO
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// BatchError is returned by fail-fast batch operations. Completed counts the
// groups fully processed before the failure; nothing is rolled back.
type BatchError struct {
	Operation string
	Path      string
	Completed int
	Total     int
	Err       error
}

func (e *BatchError) Error() string {
	var b strings.Builder
	b.WriteString(e.Operation)
	b.WriteString(" aborted")
	if e.Path != "" {
		b.WriteString(" at ")
		b.WriteString(e.Path)
	}
	fmt.Fprintf(&b, " after %d of %d groups", e.Completed, e.Total)
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *BatchError) Unwrap() error { return e.Err }

// Kind returns a short label for the marker carried by err, or "unknown".
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrCollision):
		return "collision"
	case errors.Is(err, ErrInvalidArgument):
		return "invalid_argument"
	case errors.Is(err, ErrFormat):
		return "format"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrIO):
		return "io"
	default:
		return "unknown"
	}
}

func buildDetail(operation, path, message string) string {
	parts := make([]string, 0, 3)
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if path = strings.TrimSpace(path); path != "" {
		parts = append(parts, path)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "operation failure"
	}
	return strings.Join(parts, ": ")
}
