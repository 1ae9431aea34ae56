package preload

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyURL          = errors.New("preload url is empty")
	ErrTimeout           = errors.New("preload deadline exceeded")
	ErrFetcherPanicked   = errors.New("fetcher panicked")
	ErrUnsupportedScheme = errors.New("unsupported scheme")
	ErrNotImage          = errors.New("resource is not an image")
)

// FetchError is a structured error from a Fetcher.
// Use errors.As to extract and inspect it.
type FetchError struct {
	// URL is the resource that failed.
	URL string
	// Op is the stage that failed: "request", "status" or "decode".
	Op string
	// Cause is the underlying error.
	Cause error
}

// Error implements the error interface.
// Format: "op url: cause"
func (e *FetchError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s %s: %s", e.Op, e.URL, e.Cause.Error())
	}
	return fmt.Sprintf("%s %s", e.Op, e.URL)
}

// Unwrap returns the underlying cause, enabling errors.Is/As chaining.
func (e *FetchError) Unwrap() error {
	return e.Cause
}

func newFetchError(url, op string, cause error) *FetchError {
	return &FetchError{URL: url, Op: op, Cause: cause}
}
