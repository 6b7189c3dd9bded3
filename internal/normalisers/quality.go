package normalisers

import (
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/custodia-labs/penmark/internal/core/domain"
	"github.com/custodia-labs/penmark/internal/core/ports/driven"
	"github.com/custodia-labs/penmark/internal/scoring"
	"github.com/custodia-labs/penmark/internal/tokenizer"
)

// DefaultLanguage is reported for non-empty text when no detector is set.
const DefaultLanguage = "en"

// describe derives metadata from cleaned text.
func describe(text, title string, detector driven.LanguageDetector) domain.DocumentMetadata {
	tokens := tokenizer.Tokenize(text)

	meta := domain.DocumentMetadata{
		Title:          title,
		WordCount:      len(strings.Fields(text)),
		ParagraphCount: len(tokens.Paragraphs),
		Language:       domain.LanguageUnknown,
	}
	if text == "" {
		return meta
	}

	meta.Language = DefaultLanguage
	if detector != nil {
		meta.Language = detector.Detect(text)
	}
	meta.Quality = domain.QualityScores{
		Readability: scoring.ReadingEaseScore(scoring.ScoreReadability(tokens).ReadingEase),
		Formatting:  formattingScore(tokens.Paragraphs),
		Consistency: consistencyScore(tokens.Sentences),
	}
	return meta
}

// formattingScore gives each paragraph half credit for opening with a
// capital letter or digit and half for closing with terminal punctuation.
func formattingScore(paragraphs []string) float64 {
	if len(paragraphs) == 0 {
		return 0
	}
	var total float64
	for _, p := range paragraphs {
		first, _ := utf8.DecodeRuneInString(p)
		if unicode.IsUpper(first) || unicode.IsDigit(first) {
			total += 0.5
		}
		trimmed := strings.TrimRight(p, `"')`)
		if strings.HasSuffix(trimmed, ".") || strings.HasSuffix(trimmed, "!") || strings.HasSuffix(trimmed, "?") {
			total += 0.5
		}
	}
	return total / float64(len(paragraphs))
}

// consistencyScore is 1/(1+cv) where cv is the coefficient of variation of
// sentence lengths in words.
func consistencyScore(sentences []string) float64 {
	var lengths []float64
	for _, s := range sentences {
		if n := len(tokenizer.Words(s)); n > 0 {
			lengths = append(lengths, float64(n))
		}
	}
	if len(lengths) == 0 {
		return 0
	}

	var sum float64
	for _, l := range lengths {
		sum += l
	}
	mean := sum / float64(len(lengths))

	var sq float64
	for _, l := range lengths {
		sq += (l - mean) * (l - mean)
	}
	cv := math.Sqrt(sq/float64(len(lengths))) / mean
	return 1 / (1 + cv)
}
