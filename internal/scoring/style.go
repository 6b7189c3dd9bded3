package scoring

import (
	"strings"

	"github.com/custodia-labs/penmark/internal/core/domain"
	"github.com/custodia-labs/penmark/internal/tokenizer"
)

// ScoreStyle measures sentence and paragraph structure. text is the cleaned
// text the tokens were produced from and is used for punctuation counts.
func ScoreStyle(tokens domain.TokenSet, text string) domain.StyleMetrics {
	m := domain.StyleMetrics{
		SentenceCount:        len(tokens.Sentences),
		ParagraphCount:       len(tokens.Paragraphs),
		PunctuationFrequency: map[string]float64{},
	}

	sentenceLengths := make([]float64, 0, len(tokens.Sentences))
	for _, s := range tokens.Sentences {
		sentenceLengths = append(sentenceLengths, float64(len(tokenizer.Words(s))))
	}
	m.AverageSentenceLength, m.SentenceLengthVariance = meanVariance(sentenceLengths)

	paragraphLengths := make([]float64, 0, len(tokens.Paragraphs))
	for _, p := range tokens.Paragraphs {
		paragraphLengths = append(paragraphLengths, float64(len(tokenizer.Words(p))))
	}
	m.AverageParagraphLength, _ = meanVariance(paragraphLengths)

	if m.SentenceCount > 0 {
		m.TransitionWordFrequency = float64(countTransitions(tokens)) / float64(m.SentenceCount)
	}

	if words := len(tokens.Words); words > 0 {
		for _, mark := range domain.PunctuationMarks {
			m.PunctuationFrequency[mark] = float64(strings.Count(text, mark)) * 100 / float64(words)
		}
	}
	return m
}

// countTransitions counts single transition words and multi-word
// transition phrases.
func countTransitions(tokens domain.TokenSet) int {
	loadWordLists()

	count := 0
	for _, w := range tokens.Words {
		if _, ok := transitions[w]; ok {
			count++
		}
	}
	for n := 2; n <= maxPhraseLen; n++ {
		set := phrases[n]
		if len(set) == 0 {
			continue
		}
		grams, ok := tokens.NGrams[n]
		if !ok {
			grams = tokenizer.NGrams(tokens.Words, n)[n]
		}
		for _, g := range grams {
			if _, ok := set[g]; ok {
				count++
			}
		}
	}
	return count
}

// meanVariance returns the mean and population variance of xs.
func meanVariance(xs []float64) (mean, variance float64) {
	if len(xs) == 0 {
		return 0, 0
	}
	for _, x := range xs {
		mean += x
	}
	mean /= float64(len(xs))
	for _, x := range xs {
		d := x - mean
		variance += d * d
	}
	variance /= float64(len(xs))
	return mean, variance
}
