// Package html provides a Normaliser implementation for HTML documents.
// It extracts readable text from HTML, stripping tags, scripts and styles,
// decoding entities and keeping block elements as separate paragraphs.
package html
