// Package tokenizer splits cleaned text into words, sentences, paragraphs
// and n-grams.
//
// Tokenisation is deterministic: case folding uses unicode.ToLower and
// never depends on the process locale.
package tokenizer

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/custodia-labs/penmark/internal/core/domain"
)

// MinWordLength is the shortest alphanumeric run kept as a word.
const MinWordLength = 2

var (
	sentenceBoundary  = regexp.MustCompile(`[.!?]+`)
	paragraphBoundary = regexp.MustCompile(`\n[ \t\r]*\n`)
)

// Tokenize produces the full token set of text.
func Tokenize(text string) domain.TokenSet {
	words := Words(text)
	return domain.TokenSet{
		Words:      words,
		Sentences:  Sentences(text),
		Paragraphs: Paragraphs(text),
		NGrams:     NGrams(words, domain.MaxNGram),
	}
}

// Words returns the case-folded alphanumeric runs of text that are at
// least MinWordLength runes long.
func Words(text string) []string {
	var (
		words []string
		buf   []rune
	)
	flush := func() {
		if len(buf) >= MinWordLength {
			words = append(words, string(buf))
		}
		buf = buf[:0]
	}
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			buf = append(buf, unicode.ToLower(r))
			continue
		}
		flush()
	}
	flush()
	return words
}

// Sentences splits text on runs of sentence terminators. Empty fragments
// are dropped.
func Sentences(text string) []string {
	return nonEmpty(sentenceBoundary.Split(text, -1))
}

// Paragraphs splits text on blank lines. Empty paragraphs are dropped.
func Paragraphs(text string) []string {
	return nonEmpty(paragraphBoundary.Split(text, -1))
}

// NGrams builds space-joined sliding windows of words for n in 1..maxN.
// Sizes longer than the word list map to an empty slice.
func NGrams(words []string, maxN int) map[int][]string {
	grams := make(map[int][]string, maxN)
	for n := 1; n <= maxN; n++ {
		count := len(words) - n + 1
		if count <= 0 {
			grams[n] = []string{}
			continue
		}
		out := make([]string, 0, count)
		for i := 0; i < count; i++ {
			out = append(out, strings.Join(words[i:i+n], " "))
		}
		grams[n] = out
	}
	return grams
}

func nonEmpty(parts []string) []string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
