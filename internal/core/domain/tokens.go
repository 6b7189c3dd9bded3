package domain

// MaxNGram is the largest n-gram size produced by the tokenizer.
const MaxNGram = 5

// TokenSet is the tokenised form of a text.
type TokenSet struct {
	// Words are case-folded alphanumeric runs of at least two characters,
	// in text order.
	Words []string

	// Sentences are trimmed, non-empty sentence fragments.
	Sentences []string

	// Paragraphs are trimmed, non-empty paragraphs.
	Paragraphs []string

	// NGrams maps n (1..MaxNGram) to the space-joined sliding windows of Words.
	NGrams map[int][]string
}

// IsEmpty reports whether the token set contains no words.
func (t TokenSet) IsEmpty() bool {
	return len(t.Words) == 0
}

// Distinct returns the set of distinct words.
func (t TokenSet) Distinct() map[string]struct{} {
	set := make(map[string]struct{}, len(t.Words))
	for _, w := range t.Words {
		set[w] = struct{}{}
	}
	return set
}
