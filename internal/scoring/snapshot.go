package scoring

import (
	"time"

	"github.com/custodia-labs/penmark/internal/core/domain"
	"github.com/custodia-labs/penmark/internal/tokenizer"
)

// Measure tokenises text and computes a full metrics snapshot.
// confidentWords is the word count at which the snapshot confidence reaches 1.
func Measure(text string, confidentWords int, at time.Time) (domain.MetricsSnapshot, domain.TokenSet) {
	tokens := tokenizer.Tokenize(text)
	return Snapshot(tokens, text, confidentWords, at), tokens
}

// Snapshot computes a metrics snapshot from already tokenised text.
func Snapshot(tokens domain.TokenSet, text string, confidentWords int, at time.Time) domain.MetricsSnapshot {
	if confidentWords < 1 {
		confidentWords = domain.DefaultConfidentWordCount
	}
	return domain.MetricsSnapshot{
		Vocabulary:  ScoreVocabulary(tokens),
		Style:       ScoreStyle(tokens, text),
		Readability: ScoreReadability(tokens),
		Confidence:  clip01(float64(len(tokens.Words)) / float64(confidentWords)),
		Timestamp:   at,
	}
}
