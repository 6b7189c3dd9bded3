package pdf

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/penmark/internal/core/domain"
	"github.com/custodia-labs/penmark/internal/core/ports/driven"
)

func TestNew(t *testing.T) {
	normaliser := New()
	require.NotNil(t, normaliser)
	assert.IsType(t, &Normaliser{}, normaliser)
}

func TestSupportedMIMETypes(t *testing.T) {
	mimeTypes := New().SupportedMIMETypes()
	assert.Equal(t, []string{"application/pdf"}, mimeTypes)
}

func TestPriority(t *testing.T) {
	assert.Equal(t, 50, New().Priority())
}

func TestNormalise_NilDocument(t *testing.T) {
	result, err := New().Normalise(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Nil(t, result)
}

func TestNormalise_NotAPDF(t *testing.T) {
	tests := []struct {
		name    string
		content []byte
	}{
		{"empty", nil},
		{"plain text", []byte("this is not a pdf")},
		{"truncated header", []byte("%PDF-1.4\n%garbage")},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result, err := New().Normalise(context.Background(), &domain.RawDocument{Name: "x.pdf", Content: tc.content})
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
			assert.Nil(t, result)
		})
	}
}

func TestExtractTitle(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"/scans/essay_week-3.pdf", "essay week 3"},
		{"report.pdf", "report"},
		{"", ""},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			assert.Equal(t, tc.expected, extractTitle(tc.input))
		})
	}
}

func TestCopyMetadata(t *testing.T) {
	assert.Nil(t, copyMetadata(nil))

	src := map[string]any{"class": "7B"}
	dst := copyMetadata(src)
	dst["class"] = "8A"
	assert.Equal(t, "7B", src["class"])
}

func TestInterfaceCompliance(t *testing.T) {
	var _ driven.Normaliser = (*Normaliser)(nil)
}
