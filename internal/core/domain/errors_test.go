package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestErrors_Existence tests that all error variables exist and are not nil
func TestErrors_Existence(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrNotFound", ErrNotFound},
		{"ErrAlreadyExists", ErrAlreadyExists},
		{"ErrInvalidInput", ErrInvalidInput},
		{"ErrUnsupportedType", ErrUnsupportedType},
		{"ErrNormalization", ErrNormalization},
		{"ErrInsufficientData", ErrInsufficientData},
		{"ErrProcessing", ErrProcessing},
		{"ErrBatchTooLarge", ErrBatchTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

func TestErrNotFound(t *testing.T) {
	assert.Equal(t, "not found", ErrNotFound.Error())
	assert.True(t, errors.Is(ErrNotFound, ErrNotFound))
	assert.False(t, errors.Is(ErrNotFound, ErrAlreadyExists))
}

func TestNormalizationError(t *testing.T) {
	cause := errors.New("zip: not a valid zip file")
	err := &NormalizationError{Format: "docx", Reason: "no text extracted", Err: cause}

	assert.Equal(t, "normalize docx: no text extracted: zip: not a valid zip file", err.Error())
	assert.ErrorIs(t, err, ErrNormalization)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrProcessing)

	var target *NormalizationError
	wrapped := fmt.Errorf("normalise upload: %w", err)
	assert.True(t, errors.As(wrapped, &target))
	assert.Equal(t, "docx", target.Format)
}

func TestNormalizationError_NoCause(t *testing.T) {
	err := &NormalizationError{Format: "pdf", Reason: "empty document"}
	assert.Equal(t, "normalize pdf: empty document", err.Error())
	assert.Nil(t, err.Unwrap())
}

func TestInsufficientDataError(t *testing.T) {
	err := &InsufficientDataError{AuthorID: "s-1", Have: 0, Need: 1}

	assert.Contains(t, err.Error(), `"s-1"`)
	assert.ErrorIs(t, err, ErrInsufficientData)
	assert.ErrorIs(t, fmt.Errorf("build baseline: %w", err), ErrInsufficientData)
}

func TestProcessingError(t *testing.T) {
	cause := &NormalizationError{Format: "pdf", Reason: "no text extracted"}
	err := &ProcessingError{DocumentID: "doc-1", Stage: "normalize", Err: cause}

	assert.Equal(t, "document doc-1: normalize: normalize pdf: no text extracted", err.Error())
	assert.ErrorIs(t, err, ErrProcessing)
	assert.ErrorIs(t, err, ErrNormalization)
}
