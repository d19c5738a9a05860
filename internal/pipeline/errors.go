package pipeline

import (
	"errors"
	"fmt"
)

// Kind classifies a pipeline failure.
type Kind int

const (
	// RequestFailure covers everything up to receiving the audio: invalid
	// input, network, auth, quota and service errors.
	RequestFailure Kind = iota + 1

	// WriteFailure covers saving the audio to local storage.
	WriteFailure
)

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case RequestFailure:
		return "request failure"
	case WriteFailure:
		return "write failure"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Error is returned by Pipeline.Run.
type Error struct {
	Kind Kind
	// Path is the output file, set for write failures.
	Path string
	Err  error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// IsKind reports whether err is a pipeline error of kind k.
func IsKind(err error, k Kind) bool {
	var pe *Error
	return errors.As(err, &pe) && pe.Kind == k
}
