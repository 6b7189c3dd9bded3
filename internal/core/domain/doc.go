// Package domain defines the core business entities for penmark.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - RawDocument: Opaque bytes from an upload or scan inbox
//   - NormalizedDocument: Cleaned text with quality metadata
//   - TokenSet: Words, sentences, paragraphs and n-grams of a text
//   - MetricsSnapshot: Vocabulary, style and readability measurements
//   - BaselineProfile: Per-author aggregate of writing samples
//   - AssignmentResult: Outcome of a batch auto-assignment run
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
