package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown document format.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrNormalization indicates a document could not be turned into text.
	ErrNormalization = errors.New("normalization failed")

	// ErrInsufficientData indicates too few samples to build a baseline.
	ErrInsufficientData = errors.New("insufficient data")

	// ErrProcessing indicates a per-document failure inside a batch.
	ErrProcessing = errors.New("processing failed")

	// ErrBatchTooLarge indicates a batch exceeds the configured maximum size.
	ErrBatchTooLarge = errors.New("batch too large")
)

// NormalizationError is returned when a declared format yields no text.
type NormalizationError struct {
	Format string
	Reason string
	Err    error
}

func (e *NormalizationError) Error() string {
	msg := fmt.Sprintf("normalize %s: %s", e.Format, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *NormalizationError) Unwrap() error { return e.Err }

// Is matches ErrNormalization.
func (e *NormalizationError) Is(target error) bool { return target == ErrNormalization }

// InsufficientDataError is returned when a baseline has no samples to build from.
type InsufficientDataError struct {
	AuthorID string
	Have     int
	Need     int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("baseline for %q: have %d samples, need at least %d", e.AuthorID, e.Have, e.Need)
}

// Is matches ErrInsufficientData.
func (e *InsufficientDataError) Is(target error) bool { return target == ErrInsufficientData }

// ProcessingError wraps a failure of one document in a batch.
type ProcessingError struct {
	DocumentID string
	Stage      string
	Err        error
}

func (e *ProcessingError) Error() string {
	return fmt.Sprintf("document %s: %s: %v", e.DocumentID, e.Stage, e.Err)
}

func (e *ProcessingError) Unwrap() error { return e.Err }

// Is matches ErrProcessing.
func (e *ProcessingError) Is(target error) bool { return target == ErrProcessing }
