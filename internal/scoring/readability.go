package scoring

import (
	"strings"
	"unicode"

	"github.com/custodia-labs/penmark/internal/core/domain"
)

const vowels = "aeiouy"

// ScoreReadability computes Flesch-Kincaid grade, Flesch reading ease and
// the Coleman-Liau index.
func ScoreReadability(tokens domain.TokenSet) domain.ReadabilityMetrics {
	words := len(tokens.Words)
	sentences := len(tokens.Sentences)
	if words == 0 || sentences == 0 {
		return domain.ReadabilityMetrics{}
	}

	var syllables, letters int
	for _, w := range tokens.Words {
		syllables += CountSyllables(w)
		for _, r := range w {
			if unicode.IsLetter(r) {
				letters++
			}
		}
	}

	wps := float64(words) / float64(sentences)
	spw := float64(syllables) / float64(words)
	l := float64(letters) * 100 / float64(words)
	s := float64(sentences) * 100 / float64(words)

	return domain.ReadabilityMetrics{
		GradeLevel:  0.39*wps + 11.8*spw - 15.59,
		ReadingEase: 206.835 - 1.015*wps - 84.6*spw,
		ColemanLiau: 0.0588*l - 0.296*s - 15.8,
	}
}

// ReadingEaseScore maps a Flesch reading ease score onto [0, 1].
func ReadingEaseScore(ease float64) float64 {
	return clip01(ease / 100)
}

// CountSyllables estimates syllables by counting vowel groups, dropping a
// silent trailing "e" and restoring the consonant-"le" ending. Every word
// has at least one syllable.
func CountSyllables(word string) int {
	word = strings.TrimFunc(strings.ToLower(word), unicode.IsDigit)
	count := 0
	onVowel := false
	for _, r := range word {
		isVowel := strings.ContainsRune(vowels, r)
		if isVowel && !onVowel {
			count++
		}
		onVowel = isVowel
	}

	if strings.HasSuffix(word, "e") {
		count--
	}
	if n := len(word); n > 2 && strings.HasSuffix(word, "le") && !strings.ContainsRune(vowels, rune(word[n-3])) {
		count++
	}
	if count <= 0 {
		count = 1
	}
	return count
}
