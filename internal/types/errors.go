package types

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for common failure modes.
var (
	// ErrNoSnapshot is returned by aggregation queries issued before any
	// data has been loaded. This is the one error class that must halt the
	// dependent operation instead of defaulting.
	ErrNoSnapshot = errors.New("no snapshot loaded")

	// ErrSnapshotNotFound signals a missing data file or collection.
	ErrSnapshotNotFound = errors.New("snapshot not found")

	ErrEmptyResponse = errors.New("empty response body")
	ErrInvalidURL    = errors.New("invalid URL")
	ErrUnknownSource = errors.New("unknown media source")
)

// FetchError wraps errors that occur while fetching a page.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
	Retryable  bool
	RetryAfter time.Duration
}

func (e *FetchError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("fetch error for %s (status %d): %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch error for %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ExtractError wraps errors that occur while extracting an article from a page.
type ExtractError struct {
	URL    string
	Source string
	Err    error
}

func (e *ExtractError) Error() string {
	return fmt.Sprintf("extract error for %s (source=%s): %v", e.URL, e.Source, e.Err)
}

func (e *ExtractError) Unwrap() error { return e.Err }

// StoreError wraps errors from a storage backend.
type StoreError struct {
	Backend string
	Err     error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store error (%s): %v", e.Backend, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }
