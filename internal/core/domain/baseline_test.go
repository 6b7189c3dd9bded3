package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBaselineProfile_WordSet(t *testing.T) {
	now := time.Now()
	p := &BaselineProfile{
		AuthorID: "s-1",
		Samples: []BaselineSample{
			{ID: "a", Words: []string{"cat", "mat"}, AddedAt: now.Add(-48 * time.Hour)},
			{ID: "b", Words: []string{"cat", "dog"}, AddedAt: now},
		},
	}

	assert.Equal(t, []string{"cat", "dog", "mat"}, p.WordSet(time.Time{}))
	assert.Equal(t, []string{"cat", "dog"}, p.WordSet(now.Add(-time.Hour)))

	var nilProfile *BaselineProfile
	assert.Nil(t, nilProfile.WordSet(time.Time{}))
}

func TestBaselineProfile_CloneIsDeep(t *testing.T) {
	p := &BaselineProfile{
		AuthorID: "s-1",
		Samples: []BaselineSample{{
			ID:      "a",
			Words:   []string{"cat"},
			Metrics: MetricsSnapshot{Style: StyleMetrics{PunctuationFrequency: map[string]float64{".": 10}}},
		}},
		Aggregate: MetricsSnapshot{Style: StyleMetrics{PunctuationFrequency: map[string]float64{".": 10}}},
	}

	c := p.Clone()
	c.Samples[0].Words[0] = "dog"
	c.Samples[0].Metrics.Style.PunctuationFrequency["."] = 99
	c.Aggregate.Style.PunctuationFrequency["."] = 99

	assert.Equal(t, "cat", p.Samples[0].Words[0])
	assert.Equal(t, 10.0, p.Samples[0].Metrics.Style.PunctuationFrequency["."])
	assert.Equal(t, 10.0, p.Aggregate.Style.PunctuationFrequency["."])
}

func TestTokenSet_Distinct(t *testing.T) {
	ts := TokenSet{Words: []string{"the", "cat", "the"}}
	assert.Len(t, ts.Distinct(), 2)
	assert.False(t, ts.IsEmpty())
	assert.True(t, TokenSet{}.IsEmpty())
}
