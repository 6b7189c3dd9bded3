// Package similarity scores documents against candidate authors using the
// Jaccard coefficient of their word sets, and ranks the candidates.
package similarity

import (
	"sort"

	"github.com/custodia-labs/penmark/internal/core/domain"
)

// Jaccard returns |A∩B| / |A∪B| over the distinct elements of a and b.
// Two empty sets are identical (1.0). One empty set shares nothing (0.0).
func Jaccard(a, b []string) float64 {
	return jaccardSets(toSet(a), toSet(b))
}

// Similarity compares the word sets of two token sets.
func Similarity(a, b domain.TokenSet) float64 {
	return jaccardSets(a.Distinct(), b.Distinct())
}

func jaccardSets(a, b map[string]struct{}) float64 {
	switch {
	case len(a) == 0 && len(b) == 0:
		return 1.0
	case len(a) == 0 || len(b) == 0:
		return 0.0
	}
	if len(a) > len(b) {
		a, b = b, a
	}
	inter := 0
	for w := range a {
		if _, ok := b[w]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	return float64(inter) / float64(union)
}

func toSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// RankCandidates scores doc against every candidate and returns them sorted
// by descending confidence. Ties are broken by ascending author ID.
func RankCandidates(documentID string, doc domain.TokenSet, candidates []domain.RosterCandidate) []domain.AssignmentCandidate {
	docSet := doc.Distinct()
	ranked := make([]domain.AssignmentCandidate, 0, len(candidates))
	for _, c := range candidates {
		ranked = append(ranked, domain.AssignmentCandidate{
			DocumentID: documentID,
			AuthorID:   c.AuthorID,
			Confidence: jaccardSets(docSet, c.Tokens.Distinct()),
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Confidence != ranked[j].Confidence {
			return ranked[i].Confidence > ranked[j].Confidence
		}
		return ranked[i].AuthorID < ranked[j].AuthorID
	})
	return ranked
}

// TopMatch returns the best ranked candidate with up to maxAlternatives
// next-best author IDs attached. ok is false when ranked is empty.
func TopMatch(ranked []domain.AssignmentCandidate, maxAlternatives int) (best domain.AssignmentCandidate, ok bool) {
	if len(ranked) == 0 {
		return domain.AssignmentCandidate{}, false
	}
	best = ranked[0]
	rest := ranked[1:]
	if len(rest) > maxAlternatives {
		rest = rest[:maxAlternatives]
	}
	best.Alternatives = make([]string, 0, len(rest))
	for _, r := range rest {
		best.Alternatives = append(best.Alternatives, r.AuthorID)
	}
	return best, true
}
