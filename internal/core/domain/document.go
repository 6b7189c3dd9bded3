package domain

// LanguageUnknown is reported when no language detector is configured
// and the text is empty.
const LanguageUnknown = "und"

// QualityScores rates a normalised text. Every score is in [0, 1].
type QualityScores struct {
	// Readability is the Flesch reading ease scaled to [0, 1].
	Readability float64

	// Formatting rewards well-formed paragraphs and sentence punctuation.
	Formatting float64

	// Consistency penalises large swings in sentence length.
	Consistency float64
}

// DocumentMetadata is derived from the cleaned text.
type DocumentMetadata struct {
	// Title is taken from the source document when the format carries one.
	Title string

	// WordCount counts whitespace-separated words in the cleaned text.
	WordCount int

	// ParagraphCount counts non-empty paragraphs.
	ParagraphCount int

	// Language is an ISO 639-1 code.
	Language string

	// Quality holds the text quality scores.
	Quality QualityScores
}

// NormalizedDocument is the canonical representation after normalisation.
// Text contains no control characters other than the paragraph separator
// "\n\n", and whitespace inside a paragraph is collapsed to single spaces.
type NormalizedDocument struct {
	// DocumentID links to the RawDocument this was produced from.
	DocumentID string

	// Text is the cleaned text content.
	Text string

	// Format is the detected or declared source format.
	Format string

	// Metadata describes the cleaned text.
	Metadata DocumentMetadata

	// Confidence is the normaliser's confidence in the extraction, in [0, 1].
	Confidence float64

	// Warnings lists non-fatal problems met while normalising.
	Warnings []string
}

// DocumentAnalysis pairs a normalised document with the metrics of its text.
type DocumentAnalysis struct {
	Document *NormalizedDocument
	Metrics  MetricsSnapshot
}
