package eml

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/mail"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/penmark/internal/core/domain"
	"github.com/custodia-labs/penmark/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles EML (email) documents, such as essays submitted by mail.
// Only the message body becomes text; headers go to metadata.
type Normaliser struct{}

// New creates a new EML normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{"message/rfc822"}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 50 // Generic MIME normaliser
}

// Normalise extracts the body of an email message.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	msg, err := mail.ReadMessage(bytes.NewReader(raw.Content))
	if err != nil {
		return nil, fmt.Errorf("parse email: %v: %w", err, domain.ErrInvalidInput)
	}

	subject := decodeHeader(msg.Header.Get("Subject"))
	from := decodeHeader(msg.Header.Get("From"))
	to := decodeHeader(msg.Header.Get("To"))
	date := msg.Header.Get("Date")

	body, err := extractBody(msg)
	if err != nil {
		return nil, err
	}

	title := subject
	if title == "" {
		title = extractTitleFromName(raw.Name)
	}

	result := &driven.NormaliseResult{
		Text:       strings.TrimSpace(body),
		Title:      title,
		Confidence: 0.9,
		Metadata:   copyMetadata(raw.Metadata),
	}
	if result.Metadata == nil {
		result.Metadata = make(map[string]any)
	}
	result.Metadata["format"] = "eml"
	if from != "" {
		result.Metadata["from"] = from
	}
	if to != "" {
		result.Metadata["to"] = to
	}
	if date != "" {
		result.Metadata["date"] = date
	}

	return result, nil
}

// decodeHeader decodes RFC 2047 encoded headers.
func decodeHeader(header string) string {
	if header == "" {
		return ""
	}
	dec := new(mime.WordDecoder)
	decoded, err := dec.DecodeHeader(header)
	if err != nil {
		return header // Return original if decoding fails
	}
	return decoded
}

// extractBody extracts the text content from an email message.
func extractBody(msg *mail.Message) (string, error) {
	contentType := msg.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "text/plain"
	}

	body := decodeTransfer(msg.Body, msg.Header.Get("Content-Transfer-Encoding"))

	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		// If we can't parse content type, try to read as plain text
		data, readErr := io.ReadAll(body)
		if readErr != nil {
			return "", fmt.Errorf("read email body: %v: %w", readErr, domain.ErrInvalidInput)
		}
		return string(data), nil
	}

	if strings.HasPrefix(mediaType, "multipart/") {
		return extractMultipartBody(body, params["boundary"])
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return "", fmt.Errorf("read email body: %v: %w", err, domain.ErrInvalidInput)
	}
	if mediaType == "text/html" {
		return stripHTMLTags(string(data)), nil
	}
	return string(data), nil
}

// decodeTransfer wraps r with a decoder for the Content-Transfer-Encoding.
func decodeTransfer(r io.Reader, encoding string) io.Reader {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "base64":
		return base64.NewDecoder(base64.StdEncoding, &newlineStripper{r: r})
	case "quoted-printable":
		return quotedprintable.NewReader(r)
	default:
		return r
	}
}

// newlineStripper drops CR and LF bytes so that wrapped base64 decodes.
type newlineStripper struct {
	r io.Reader
}

func (s *newlineStripper) Read(p []byte) (int, error) {
	n, err := s.r.Read(p)
	out := p[:0]
	for _, b := range p[:n] {
		if b != '\r' && b != '\n' {
			out = append(out, b)
		}
	}
	return len(out), err
}

// extractMultipartBody extracts text from multipart messages.
// Plain text parts are preferred over HTML parts.
func extractMultipartBody(r io.Reader, boundary string) (string, error) {
	if boundary == "" {
		return "", nil
	}

	mr := multipart.NewReader(r, boundary)
	var textParts []string
	var htmlParts []string

	for {
		part, err := mr.NextPart()
		if err != nil {
			break
		}

		mediaType, params, parseErr := mime.ParseMediaType(part.Header.Get("Content-Type"))
		if parseErr != nil {
			mediaType = "text/plain"
		}

		content, readErr := io.ReadAll(part)
		part.Close()
		if readErr != nil {
			continue
		}

		switch {
		case part.FileName() != "":
			// Attachments are not part of the message text.
		case mediaType == "text/plain":
			textParts = append(textParts, string(content))
		case mediaType == "text/html":
			htmlParts = append(htmlParts, stripHTMLTags(string(content)))
		case strings.HasPrefix(mediaType, "multipart/"):
			nested, nestedErr := extractMultipartBody(bytes.NewReader(content), params["boundary"])
			if nestedErr == nil && nested != "" {
				textParts = append(textParts, nested)
			}
		}
	}

	if len(textParts) > 0 {
		return strings.Join(textParts, "\n\n"), nil
	}
	if len(htmlParts) > 0 {
		return strings.Join(htmlParts, "\n\n"), nil
	}
	return "", nil
}

// stripHTMLTags removes HTML tags for basic text extraction.
func stripHTMLTags(html string) string {
	var result strings.Builder
	inTag := false

	for _, r := range html {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			result.WriteRune(r)
		}
	}

	lines := strings.Split(result.String(), "\n")
	var cleaned []string
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			cleaned = append(cleaned, line)
		}
	}
	return strings.Join(cleaned, "\n")
}

// extractTitleFromName extracts a title from the file name.
func extractTitleFromName(name string) string {
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
