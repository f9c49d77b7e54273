package application

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions
var (
	// ErrAlreadyInitialized guards against silently re-planning over
	// in-progress work.
	ErrAlreadyInitialized = errors.New("winter tree already initialized (use --force to re-plan)")

	// ErrNotInitialized means no plan exists yet; run init first.
	ErrNotInitialized = errors.New("winter tree not initialized (run init first)")

	// ErrInterrupted marks a clean, resumable stop: the in-flight chunk was
	// fully committed and the run ended before claiming another.
	ErrInterrupted = errors.New("scan interrupted")

	// ErrScanComplete means every chunk is already done.
	ErrScanComplete = errors.New("all chunks already scanned")
)

// ValidationError represents a validation failure with details
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// CorpusError represents a fatal corpus access failure
type CorpusError struct {
	Root   string
	Reason string
}

func (e *CorpusError) Error() string {
	return fmt.Sprintf("corpus root %s: %s", e.Root, e.Reason)
}

// TreeCorruptError represents a Progress Index that exists but cannot be
// trusted; the scan aborts rather than risk double or lost work.
type TreeCorruptError struct {
	Path   string
	Reason string
}

func (e *TreeCorruptError) Error() string {
	return fmt.Sprintf("progress index %s is unusable: %s", e.Path, e.Reason)
}
