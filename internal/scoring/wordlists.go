package scoring

import (
	"bufio"
	"embed"
	"strings"
	"sync"

	"github.com/custodia-labs/penmark/internal/tokenizer"
)

//go:embed wordlists/*.txt
var wordlistFS embed.FS

var (
	loadOnce     sync.Once
	academicSet  map[string]struct{}
	transitions  map[string]struct{}
	phrases      map[int]map[string]struct{}
	maxPhraseLen int
)

// loadWordLists parses the embedded lists once. The resulting sets are
// read-only and shared by every goroutine.
func loadWordLists() {
	loadOnce.Do(func() {
		academicSet = make(map[string]struct{})
		for _, line := range readList("wordlists/academic.txt") {
			for _, w := range tokenizer.Words(line) {
				academicSet[w] = struct{}{}
			}
		}

		transitions = make(map[string]struct{})
		phrases = make(map[int]map[string]struct{})
		for _, line := range readList("wordlists/transitions.txt") {
			// Phrases are keyed by their tokenised form so that dropped
			// one-letter words ("as a result") still match the n-grams.
			words := tokenizer.Words(line)
			switch n := len(words); {
			case n == 0:
			case n == 1:
				transitions[words[0]] = struct{}{}
			default:
				if phrases[n] == nil {
					phrases[n] = make(map[string]struct{})
				}
				phrases[n][strings.Join(words, " ")] = struct{}{}
				if n > maxPhraseLen {
					maxPhraseLen = n
				}
			}
		}
	})
}

func readList(name string) []string {
	data, err := wordlistFS.ReadFile(name)
	if err != nil {
		panic("scoring: missing embedded word list " + name)
	}
	var lines []string
	sc := bufio.NewScanner(strings.NewReader(string(data)))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

// IsAcademic reports whether a case-folded word is on the academic list.
func IsAcademic(word string) bool {
	loadWordLists()
	_, ok := academicSet[word]
	return ok
}
