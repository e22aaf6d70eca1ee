package artifacts

import (
	"errors"
	"fmt"
)

var (
	// ErrFormat is matched by every FormatError
	ErrFormat = errors.New("format error")
	// ErrDuplicateKey is returned when a definition name or source type indicator is already registered
	ErrDuplicateKey = errors.New("duplicate key")
	// ErrNotFound is returned when deregistering a definition or source type that is not registered
	ErrNotFound = errors.New("not found")
)

// FormatError reports malformed artifact definition data, either a document
// that is not well-formed or a record that violates definition semantics.
type FormatError struct {
	// Artifact is the name of the offending definition, if known
	Artifact string
	Err      error
}

// NewFormatError creates a FormatError with a formatted message and no artifact name.
func NewFormatError(format string, args ...any) *FormatError {
	return &FormatError{Err: fmt.Errorf(format, args...)}
}

func (e *FormatError) Error() string {
	if e.Artifact == "" {
		return fmt.Sprintf("format error: %v", e.Err)
	}
	return fmt.Sprintf("format error in artifact definition %s: %v", e.Artifact, e.Err)
}

// Unwrap returns both ErrFormat and the underlying cause so errors.Is works for either.
func (e *FormatError) Unwrap() []error {
	return []error{ErrFormat, e.Err}
}

// AsFormatError converts err into a FormatError attributed to artifact.
// An existing FormatError keeps its cause; its artifact name is filled in when empty.
func AsFormatError(artifact string, err error) *FormatError {
	var fe *FormatError
	if errors.As(err, &fe) {
		if fe.Artifact != "" {
			return fe
		}
		return &FormatError{Artifact: artifact, Err: fe.Err}
	}
	return &FormatError{Artifact: artifact, Err: err}
}
