package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/custodia-labs/penmark/internal/core/domain"
)

// readDocument loads a file as a raw document named after its base name.
func readDocument(path string) (domain.RawDocument, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return domain.RawDocument{}, fmt.Errorf("reading %s: %w", path, err)
	}
	name := filepath.Base(path)
	return domain.RawDocument{
		ID:       name,
		Name:     name,
		Content:  content,
		Metadata: map[string]any{"path": path},
	}, nil
}

// readDocuments loads every path, failing on the first unreadable file.
func readDocuments(paths []string) ([]domain.RawDocument, error) {
	docs := make([]domain.RawDocument, 0, len(paths))
	for _, p := range paths {
		doc, err := readDocument(p)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// readText extracts the cleaned text of a file in any supported format.
func readText(ctx context.Context, path string) (string, error) {
	if analysisService == nil {
		return "", errors.New("analysis service not configured")
	}
	doc, err := readDocument(path)
	if err != nil {
		return "", err
	}
	analysis, err := analysisService.AnalyzeDocument(ctx, &doc)
	if err != nil {
		return "", err
	}
	return analysis.Document.Text, nil
}
