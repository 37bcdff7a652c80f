package types

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure modes.
var (
	ErrInvalidURL     = errors.New("invalid URL")
	ErrMaxDepth       = errors.New("max depth exceeded")
	ErrDuplicateURL   = errors.New("duplicate URL")
	ErrNotEnoughPages = errors.New("fewer than two pages available")
	ErrCrawlStopped   = errors.New("crawl has been stopped")
)

// FetchError wraps a failed or skipped fetch. Fetch errors are branch-local:
// they are recorded on the crawl result and never abort the run.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
	Retryable  bool
}

func (e *FetchError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("fetch error for %s (status %d): %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch error for %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

func (e *FetchError) IsRetryable() bool { return e.Retryable }

// ParseError wraps a markup parsing failure. Parsing is best-effort and a
// ParseError is never fatal to the crawl.
type ParseError struct {
	URL string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error for %s: %v", e.URL, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// StorageError wraps an I/O failure persisting a page or asset. The page
// stays in the SiteMap even when its persistence failed.
type StorageError struct {
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error for %s: %v", e.Path, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// ClusteringError wraps a clustering precondition failure. Callers are
// expected to degrade to an empty clustering result rather than fail.
type ClusteringError struct {
	Err error
}

func (e *ClusteringError) Error() string {
	return fmt.Sprintf("clustering error: %v", e.Err)
}

func (e *ClusteringError) Unwrap() error { return e.Err }
