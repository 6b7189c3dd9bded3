package normalisers

import (
	"archive/zip"
	"bytes"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/penmark/internal/normalisers/docx"
	"github.com/custodia-labs/penmark/internal/normalisers/pdf"
)

// MIME types the registry knows by name.
const (
	MIMEPlainText = "text/plain"
	MIMEMarkdown  = "text/markdown"
	MIMEHTML      = "text/html"
	MIMEEmail     = "message/rfc822"
	MIMEBinary    = "application/octet-stream"
)

// formatAliases maps short format hints to MIME types.
var formatAliases = map[string]string{
	"txt":      MIMEPlainText,
	"text":     MIMEPlainText,
	"plain":    MIMEPlainText,
	"csv":      "text/csv",
	"md":       MIMEMarkdown,
	"markdown": MIMEMarkdown,
	"html":     MIMEHTML,
	"htm":      MIMEHTML,
	"pdf":      pdf.MIMEType,
	"docx":     docx.MIMEType,
	"eml":      MIMEEmail,
	"email":    MIMEEmail,
	"binary":   MIMEBinary,
}

// formatNames maps MIME types to the short name reported on documents.
var formatNames = map[string]string{
	MIMEPlainText:           "text",
	"text/csv":              "text",
	MIMEBinary:              "text",
	MIMEMarkdown:            "markdown",
	"text/x-markdown":       "markdown",
	MIMEHTML:                "html",
	"application/xhtml+xml": "html",
	pdf.MIMEType:            "pdf",
	docx.MIMEType:           "docx",
	MIMEEmail:               "eml",
}

// extensionTypes maps file extensions of text formats to MIME types.
var extensionTypes = map[string]string{
	".txt":      MIMEPlainText,
	".csv":      "text/csv",
	".md":       MIMEMarkdown,
	".markdown": MIMEMarkdown,
	".html":     MIMEHTML,
	".htm":      MIMEHTML,
	".eml":      MIMEEmail,
}

var (
	headerLine    = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9-]*:[ \t]`)
	emailHeader   = regexp.MustCompile(`(?i)^(from|to|subject|date|received|return-path|message-id|mime-version|delivered-to):[ \t]`)
	markdownShape = regexp.MustCompile("(?m)^(#{1,6}[ \\t]+\\S|```)|\\[[^\\]\\n]+\\]\\([^)\\s]+\\)")
)

// ResolveFormat turns a format hint into a MIME type. Hints may be short
// names ("pdf", "md") or MIME types; parameters such as charset are dropped.
func ResolveFormat(hint string) string {
	hint = strings.ToLower(strings.TrimSpace(hint))
	if i := strings.IndexByte(hint, ';'); i >= 0 {
		hint = strings.TrimSpace(hint[:i])
	}
	hint = strings.TrimPrefix(hint, ".")
	if mimeType, ok := formatAliases[hint]; ok {
		return mimeType
	}
	return hint
}

// FormatName returns the short format name for a MIME type.
func FormatName(mimeType string) string {
	if name, ok := formatNames[mimeType]; ok {
		return name
	}
	return mimeType
}

// Detect guesses the MIME type of content from its leading signature and,
// for text, from the file name and shape. ok is false when nothing matched
// and the content is not valid UTF-8; the type is then MIMEBinary.
func Detect(content []byte, name string) (mimeType string, ok bool) {
	switch {
	case bytes.HasPrefix(content, []byte("%PDF-")):
		return pdf.MIMEType, true
	case bytes.HasPrefix(content, []byte("PK\x03\x04")):
		if isDOCX(content) {
			return docx.MIMEType, true
		}
		return MIMEBinary, false
	}

	if !utf8.Valid(content) {
		return MIMEBinary, false
	}

	head := leadingText(content, 512)
	lower := strings.ToLower(head)
	switch {
	case strings.HasPrefix(lower, "<!doctype html"), strings.HasPrefix(lower, "<html"):
		return MIMEHTML, true
	case looksLikeEmail(head):
		return MIMEEmail, true
	}

	if mimeType, found := extensionTypes[strings.ToLower(filepath.Ext(name))]; found && mimeType != MIMEEmail {
		return mimeType, true
	}
	if markdownShape.MatchString(head) {
		return MIMEMarkdown, true
	}
	return MIMEPlainText, true
}

func isDOCX(content []byte) bool {
	reader, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return false
	}
	for _, f := range reader.File {
		if f.Name == "word/document.xml" {
			return true
		}
	}
	return false
}

// leadingText returns up to n bytes of content with any BOM and leading
// whitespace removed.
func leadingText(content []byte, n int) string {
	content = bytes.TrimPrefix(content, []byte("\xef\xbb\xbf"))
	content = bytes.TrimLeft(content, " \t\r\n")
	if len(content) > n {
		content = content[:n]
	}
	return string(content)
}

// looksLikeEmail requires a known RFC 822 header on the first line
// followed by at least one more header line.
func looksLikeEmail(head string) bool {
	lines := strings.Split(strings.ReplaceAll(head, "\r\n", "\n"), "\n")
	if len(lines) < 2 || !emailHeader.MatchString(lines[0]) {
		return false
	}
	return headerLine.MatchString(lines[1])
}
