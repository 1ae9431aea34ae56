package manifest

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownFormat = errors.New("unknown manifest format")
	ErrMissingURL    = errors.New("missing url")
)

// ParseError reports the location of a malformed manifest entry.
type ParseError struct {
	// Path is the manifest file, empty when parsing a reader.
	Path string
	// Line is the 1-based line for text manifests or the 1-based entry
	// index for JSON manifests.
	Line  int
	Cause error
}

func (e *ParseError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("manifest entry %d: %v", e.Line, e.Cause)
	}
	return fmt.Sprintf("%s:%d: %v", e.Path, e.Line, e.Cause)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}
