package similarity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/penmark/internal/core/domain"
	"github.com/custodia-labs/penmark/internal/tokenizer"
)

func TestJaccard(t *testing.T) {
	tests := []struct {
		name     string
		a, b     []string
		expected float64
	}{
		{"identical", []string{"cat", "mat"}, []string{"mat", "cat"}, 1.0},
		{"disjoint", []string{"cat"}, []string{"dog"}, 0.0},
		{"half overlap", []string{"cat", "mat"}, []string{"cat", "mat", "sat", "ran"}, 0.5},
		{"both empty", nil, nil, 1.0},
		{"one empty", []string{"cat"}, nil, 0.0},
		{"duplicates ignored", []string{"cat", "cat", "mat"}, []string{"cat"}, 0.5},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.expected, Jaccard(tc.a, tc.b), 1e-9)
		})
	}
}

func TestSimilarity_Properties(t *testing.T) {
	texts := []string{
		"The cat sat on the mat.",
		"A dog ran in the park, chasing the cat.",
		"Completely unrelated vocabulary appears here.",
		"",
	}

	for _, x := range texts {
		a := tokenizer.Tokenize(x)
		assert.Equal(t, 1.0, Similarity(a, a), "reflexive for %q", x)
		for _, y := range texts {
			b := tokenizer.Tokenize(y)
			s := Similarity(a, b)
			assert.Equal(t, s, Similarity(b, a), "symmetric for %q, %q", x, y)
			assert.GreaterOrEqual(t, s, 0.0)
			assert.LessOrEqual(t, s, 1.0)
		}
	}
}

func candidate(id, text string) domain.RosterCandidate {
	return domain.RosterCandidate{AuthorID: id, Tokens: tokenizer.Tokenize(text)}
}

func TestRankCandidates(t *testing.T) {
	doc := tokenizer.Tokenize("the cat sat on the mat")
	ranked := RankCandidates("doc-1", doc, []domain.RosterCandidate{
		candidate("zoe", "dogs bark loudly"),
		candidate("bob", "the cat sat on the mat"),
		candidate("amy", "the cat sat"),
		candidate("cat", "the cat sat"),
	})

	require.Len(t, ranked, 4)
	assert.Equal(t, "bob", ranked[0].AuthorID)
	assert.Equal(t, 1.0, ranked[0].Confidence)
	// amy and cat tie; author ID breaks the tie.
	assert.Equal(t, "amy", ranked[1].AuthorID)
	assert.Equal(t, "cat", ranked[2].AuthorID)
	assert.Equal(t, "zoe", ranked[3].AuthorID)
	for _, r := range ranked {
		assert.Equal(t, "doc-1", r.DocumentID)
	}
}

func TestRankCandidates_Empty(t *testing.T) {
	ranked := RankCandidates("doc-1", tokenizer.Tokenize("hello world"), nil)
	assert.Empty(t, ranked)

	_, ok := TopMatch(ranked, domain.MaxAlternatives)
	assert.False(t, ok)
}

func TestTopMatch(t *testing.T) {
	ranked := []domain.AssignmentCandidate{
		{AuthorID: "a", Confidence: 0.9},
		{AuthorID: "b", Confidence: 0.8},
		{AuthorID: "c", Confidence: 0.7},
		{AuthorID: "d", Confidence: 0.6},
		{AuthorID: "e", Confidence: 0.5},
	}

	best, ok := TopMatch(ranked, 3)
	require.True(t, ok)
	assert.Equal(t, "a", best.AuthorID)
	assert.Equal(t, []string{"b", "c", "d"}, best.Alternatives)

	single, ok := TopMatch(ranked[:1], 3)
	require.True(t, ok)
	assert.Empty(t, single.Alternatives)
}

func BenchmarkRankCandidates(b *testing.B) {
	doc := tokenizer.Tokenize("the quick brown fox jumps over the lazy dog and keeps running far away")
	roster := make([]domain.RosterCandidate, 0, 30)
	for i := 0; i < 30; i++ {
		roster = append(roster, candidate(string(rune('a'+i%26))+"x", "the lazy dog sleeps while a fox runs quickly over fields"))
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		RankCandidates("doc", doc, roster)
	}
}
