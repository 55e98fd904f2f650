package core

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyDocument means text recovery produced no usable text at all,
	// typically an image-only or scanned PDF. Distinct from recovering text
	// and finding zero candidates, which is a valid empty result.
	ErrEmptyDocument = errors.New("extract: no text could be recovered from the document")

	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("store: record not found")

	// ErrNoObjectStorage indicates the server was started without object
	// storage credentials, so file uploads cannot be served.
	ErrNoObjectStorage = errors.New("storage: object storage is not configured")
)

// FieldError rejects a malformed or out-of-range field at the API boundary
// before it reaches any computation.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("invalid field %q: %s", e.Field, e.Reason)
}

// NewFieldError builds a FieldError for the named field.
func NewFieldError(field, reason string) error {
	return &FieldError{Field: field, Reason: reason}
}

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsFieldError returns the FieldError if err carries one.
func IsFieldError(err error) (*FieldError, bool) {
	var fe *FieldError
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}
