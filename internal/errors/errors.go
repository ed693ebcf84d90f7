// Package errors defines the typed error values produced by the core
// indexing and scoring engine.
package errors

import (
	"fmt"
	"time"
)

// Kind classifies an error produced by the core.
type Kind string

const (
	KindRepoNotFound Kind = "repo_not_found"
	KindIndexMissing Kind = "index_missing"
	KindIndexCorrupt Kind = "index_corrupt"
	KindFileIO       Kind = "file_io"
	KindChunker      Kind = "chunker"
	KindCancelled    Kind = "cancelled"
)

// RepoNotFoundError indicates the repository root is missing or unreadable. Fatal.
type RepoNotFoundError struct {
	Root       string
	Underlying error
}

func NewRepoNotFound(root string, err error) *RepoNotFoundError {
	return &RepoNotFoundError{Root: root, Underlying: err}
}

func (e *RepoNotFoundError) Error() string {
	return fmt.Sprintf("repository not found: %s: %v", e.Root, e.Underlying)
}

func (e *RepoNotFoundError) Unwrap() error { return e.Underlying }

// IndexMissingError indicates load was requested with no persisted artifact.
// Recovered by invoking build.
type IndexMissingError struct {
	Path string
}

func NewIndexMissing(path string) *IndexMissingError {
	return &IndexMissingError{Path: path}
}

func (e *IndexMissingError) Error() string {
	return fmt.Sprintf("index missing: %s", e.Path)
}

// IndexCorruptError indicates a header/magic/version mismatch, truncation,
// or checksum failure. Recovered by a full rebuild with force=true.
type IndexCorruptError struct {
	Path       string
	Reason     string
	Underlying error
}

func NewIndexCorrupt(path, reason string, err error) *IndexCorruptError {
	return &IndexCorruptError{Path: path, Reason: reason, Underlying: err}
}

func (e *IndexCorruptError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("index corrupt: %s: %s: %v", e.Path, e.Reason, e.Underlying)
	}
	return fmt.Sprintf("index corrupt: %s: %s", e.Path, e.Reason)
}

func (e *IndexCorruptError) Unwrap() error { return e.Underlying }

// FileIOError represents a single unreadable file during scan. Recovered
// locally: the scan skips the file, counts it, and continues.
type FileIOError struct {
	Path       string
	Op         string
	Underlying error
	Timestamp  time.Time
}

func NewFileIOError(op, path string, err error) *FileIOError {
	return &FileIOError{Op: op, Path: path, Underlying: err, Timestamp: time.Now()}
}

func (e *FileIOError) Error() string {
	return fmt.Sprintf("file %s failed for %s: %v", e.Op, e.Path, e.Underlying)
}

func (e *FileIOError) Unwrap() error { return e.Underlying }

// ChunkerError represents an extractor malfunction for a given file and
// language. Recovered locally; body terms still contributed if available.
type ChunkerError struct {
	Path       string
	Language   string
	Underlying error
	Timestamp  time.Time
}

func NewChunkerError(path, language string, err error) *ChunkerError {
	return &ChunkerError{Path: path, Language: language, Underlying: err, Timestamp: time.Now()}
}

func (e *ChunkerError) Error() string {
	return fmt.Sprintf("chunker failed for %s (%s): %v", e.Path, e.Language, e.Underlying)
}

func (e *ChunkerError) Unwrap() error { return e.Underlying }

// CancelledError is surfaced when cooperative cancellation is observed at a
// component boundary.
type CancelledError struct {
	Component string
}

func NewCancelled(component string) *CancelledError {
	return &CancelledError{Component: component}
}

func (e *CancelledError) Error() string {
	return fmt.Sprintf("cancelled during %s", e.Component)
}

// MultiError aggregates per-file errors that never abort the pipeline
// (scan/chunk failures counted into IndexStats rather than propagated).
type MultiError struct {
	Errors []error
}

// NewMultiError filters nil errors and returns an aggregate. Returns nil if
// the filtered set is empty.
func NewMultiError(errs []error) *MultiError {
	filtered := make([]error, 0, len(errs))
	for _, err := range errs {
		if err != nil {
			filtered = append(filtered, err)
		}
	}
	if len(filtered) == 0 {
		return nil
	}
	return &MultiError{Errors: filtered}
}

func (e *MultiError) Error() string {
	if len(e.Errors) == 0 {
		return "no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("%d errors (first: %v)", len(e.Errors), e.Errors[0])
}

func (e *MultiError) Unwrap() []error { return e.Errors }
