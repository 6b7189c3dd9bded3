package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/penmark/internal/core/domain"
	"github.com/custodia-labs/penmark/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// MIMEType is the DOCX content type.
const MIMEType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// Normaliser handles DOCX documents.
type Normaliser struct{}

// New creates a new DOCX normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{MIMEType}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 50 // Generic MIME normaliser
}

// Normalise extracts the paragraphs of word/document.xml.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	reader, err := zip.NewReader(bytes.NewReader(raw.Content), int64(len(raw.Content)))
	if err != nil {
		return nil, fmt.Errorf("open docx zip: %v: %w", err, domain.ErrInvalidInput)
	}

	data, err := readEntry(reader, "word/document.xml")
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, fmt.Errorf("word/document.xml not found: %w", domain.ErrInvalidInput)
	}

	text, err := parseDocumentXML(data)
	if err != nil {
		return nil, err
	}

	result := &driven.NormaliseResult{
		Text:       text,
		Title:      extractTitle(reader, raw.Name),
		Confidence: 0.95,
		Metadata:   copyMetadata(raw.Metadata),
	}
	if result.Metadata == nil {
		result.Metadata = make(map[string]any)
	}
	result.Metadata["format"] = "docx"

	return result, nil
}

// readEntry returns the content of a zip entry, or nil if it is absent.
func readEntry(reader *zip.Reader, name string) ([]byte, error) {
	for _, file := range reader.File {
		if file.Name != name {
			continue
		}

		rc, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s: %v: %w", name, err, domain.ErrInvalidInput)
		}
		defer rc.Close()

		content, err := io.ReadAll(rc)
		if err != nil {
			return nil, fmt.Errorf("read %s: %v: %w", name, err, domain.ErrInvalidInput)
		}
		return content, nil
	}
	return nil, nil
}

// parseDocumentXML streams the document XML, joining the text runs of each
// paragraph and separating paragraphs with a blank line. Tabs and line
// breaks inside a run are kept as whitespace.
func parseDocumentXML(data []byte) (string, error) {
	decoder := xml.NewDecoder(bytes.NewReader(data))

	var (
		paragraphs []string
		current    strings.Builder
		inText     bool
	)
	flush := func() {
		if p := strings.TrimSpace(current.String()); p != "" {
			paragraphs = append(paragraphs, p)
		}
		current.Reset()
	}

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("decode document.xml: %v: %w", err, domain.ErrInvalidInput)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				current.WriteString("\t")
			case "br", "cr":
				current.WriteString("\n")
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				flush()
			}
		case xml.CharData:
			if inText {
				current.Write(t)
			}
		}
	}
	flush()

	return strings.Join(paragraphs, "\n\n"), nil
}

// coreXML represents the structure of docProps/core.xml.
type coreXML struct {
	Title string `xml:"title"`
}

// extractTitle extracts the title from docProps/core.xml or falls back to the file name.
func extractTitle(reader *zip.Reader, name string) string {
	if data, err := readEntry(reader, "docProps/core.xml"); err == nil && data != nil {
		var core coreXML
		if err := xml.Unmarshal(data, &core); err == nil && strings.TrimSpace(core.Title) != "" {
			return strings.TrimSpace(core.Title)
		}
	}

	if name == "" {
		return ""
	}
	filename := filepath.Base(name)
	if ext := filepath.Ext(filename); ext != "" {
		filename = strings.TrimSuffix(filename, ext)
	}
	filename = strings.ReplaceAll(filename, "_", " ")
	filename = strings.ReplaceAll(filename, "-", " ")
	return filename
}

// copyMetadata creates a shallow copy of metadata.
func copyMetadata(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	dst := make(map[string]any, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
