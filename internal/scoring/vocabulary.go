package scoring

import (
	"unicode/utf8"

	"github.com/custodia-labs/penmark/internal/core/domain"
)

// LongWordLength is the rune count at which a word counts as long.
const LongWordLength = 7

// ScoreVocabulary measures word choice.
func ScoreVocabulary(tokens domain.TokenSet) domain.VocabularyMetrics {
	total := len(tokens.Words)
	if total == 0 {
		return domain.VocabularyMetrics{}
	}
	loadWordLists()

	var runes, long, academic int
	for _, w := range tokens.Words {
		n := utf8.RuneCountInString(w)
		runes += n
		if n >= LongWordLength {
			long++
		}
		if _, ok := academicSet[w]; ok {
			academic++
		}
	}
	unique := len(tokens.Distinct())

	avgLen := float64(runes) / float64(total)
	complexity := 0.5*min(1, avgLen/10) + 0.5*(float64(long)/float64(total))
	density := float64(academic) / float64(total)

	return domain.VocabularyMetrics{
		UniqueWords:       unique,
		TotalWords:        total,
		AcademicWords:     academic,
		AverageWordLength: avgLen,
		Complexity:        clip01(complexity),
		Diversity:         float64(unique) / float64(total),
		Sophistication:    clip01(0.6*min(1, 5*density) + 0.4*complexity),
	}
}

func clip01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
