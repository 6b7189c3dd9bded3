package markdown

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
	assert.Contains(t, mimeTypes, "text/markdown")
	assert.Contains(t, mimeTypes, "text/x-markdown")
}

func TestPriority(t *testing.T) {
	assert.Equal(t, 50, New().Priority())
}

func TestNormalise_NilDocument(t *testing.T) {
	result, err := New().Normalise(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Nil(t, result)
}

func TestNormalise_Success(t *testing.T) {
	raw := &domain.RawDocument{
		Name:     "essay.md",
		Content:  []byte("# My Summer\n\nI went to the **beach**.\n\n- swimming\n- reading"),
		Metadata: map[string]any{"student": "s-1"},
	}

	result, err := New().Normalise(context.Background(), raw)
	require.NoError(t, err)

	assert.Equal(t, "My Summer", result.Title)
	assert.Equal(t, "My Summer\n\nI went to the beach.\n\nswimming\nreading", result.Text)
	assert.Equal(t, "markdown", result.Metadata["format"])
	assert.Equal(t, "s-1", result.Metadata["student"])
}

func TestNormalise_TitleFallsBackToName(t *testing.T) {
	raw := &domain.RawDocument{Name: "/tmp/book_report-final.md", Content: []byte("No heading here.")}

	result, err := New().Normalise(context.Background(), raw)
	require.NoError(t, err)
	assert.Equal(t, "book report final", result.Title)
}

func TestStripMarkdown(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"headings removed", "# Title\n## Subtitle\n### Third", "Title\nSubtitle\nThird"},
		{"bold removed", "This is **bold** text", "This is bold text"},
		{"links converted", "Click [here](https://example.com)", "Click here"},
		{"images removed", "See ![alt text](image.png) here", "See  here"},
		{"code blocks removed", "Before\n```go\ncode here\n```\nAfter", "Before\n\nAfter"},
		{"inline code removed", "Use `code` here", "Use  here"},
		{"blockquotes cleaned", "> This is a quote", "This is a quote"},
		{"list markers removed", "- Item 1\n- Item 2", "Item 1\nItem 2"},
		{"numbered list markers removed", "1. First\n2. Second", "First\nSecond"},
		{"horizontal rule removed", "Above\n\n***\n\nBelow", "Above\n\nBelow"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, stripMarkdown(tc.input))
		})
	}
}

func TestInterfaceCompliance(t *testing.T) {
	var _ driven.Normaliser = (*Normaliser)(nil)
}
