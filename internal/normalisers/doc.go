// Package normalisers turns raw submissions into clean text.
//
// Each subpackage extracts text from one format. The Registry picks the
// extractor for a declared or detected format, runs the cleaning pipeline
// over the result and derives document metadata and quality scores.
package normalisers
