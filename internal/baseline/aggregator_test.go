package baseline

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/penmark/internal/core/domain"
)

var testNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func testAggregator() *Aggregator {
	return NewAggregator(domain.BaselineSettings{
		MinSamples:         3,
		MaxSamples:         10,
		ExpireAfter:        30 * 24 * time.Hour,
		LowConfidenceFloor: 0.3,
		MaxVariancePenalty: 0.5,
	}).WithClock(func() time.Time { return testNow })
}

func sample(id string, diversity float64, age time.Duration) domain.BaselineSample {
	return domain.BaselineSample{
		ID: id,
		Metrics: domain.MetricsSnapshot{
			Vocabulary: domain.VocabularyMetrics{TotalWords: 100, UniqueWords: int(diversity * 100), Diversity: diversity},
			Style: domain.StyleMetrics{
				SentenceCount:        5,
				PunctuationFrequency: map[string]float64{".": 5},
			},
		},
		Words:   []string{"word-" + id},
		AddedAt: testNow.Add(-age),
	}
}

func TestCreateOrUpdate_NoSamples(t *testing.T) {
	p, err := testAggregator().CreateOrUpdate("s-1", nil)

	assert.Nil(t, p)
	var insufficient *domain.InsufficientDataError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, "s-1", insufficient.AuthorID)
	assert.ErrorIs(t, err, domain.ErrInsufficientData)
}

func TestCreateOrUpdate_InvalidAuthor(t *testing.T) {
	agg := testAggregator()

	_, err := agg.CreateOrUpdate("", nil, sample("a", 0.5, 0))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	p, err := agg.CreateOrUpdate("s-1", nil, sample("a", 0.5, 0))
	require.NoError(t, err)
	_, err = agg.CreateOrUpdate("s-2", p, sample("b", 0.5, 0))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreateOrUpdate_Mean(t *testing.T) {
	p, err := testAggregator().CreateOrUpdate("s-1", nil,
		sample("a", 0.4, 2*time.Hour),
		sample("b", 0.6, time.Hour),
	)
	require.NoError(t, err)

	assert.Equal(t, "s-1", p.AuthorID)
	assert.Len(t, p.Samples, 2)
	assert.Equal(t, 2, p.ActiveSamples)
	assert.InDelta(t, 0.5, p.Aggregate.Vocabulary.Diversity, 1e-9)
	assert.Equal(t, 50, p.Aggregate.Vocabulary.UniqueWords)
	assert.Equal(t, 5, p.Aggregate.Style.SentenceCount)
	assert.InDelta(t, 5.0, p.Aggregate.Style.PunctuationFrequency["."], 1e-9)
	assert.Equal(t, testNow, p.LastUpdated)
	assert.Equal(t, testNow, p.CreatedAt)
}

func TestCreateOrUpdate_ConfidenceMonotonic(t *testing.T) {
	agg := testAggregator()
	var (
		p    *domain.BaselineProfile
		err  error
		prev float64
	)

	for i := 1; i <= 12; i++ {
		p, err = agg.CreateOrUpdate("s-1", p, sample(fmt.Sprintf("s%d", i), 0.5, time.Duration(12-i)*time.Hour))
		require.NoError(t, err)

		if i < 3 {
			assert.LessOrEqual(t, p.Confidence, 0.3, "below min samples at %d", i)
		}
		assert.GreaterOrEqual(t, p.Confidence, prev, "monotonic at %d", i)
		prev = p.Confidence
	}

	assert.InDelta(t, 1.0, p.Confidence, 1e-9)
}

func TestCreateOrUpdate_ConfidenceValues(t *testing.T) {
	agg := testAggregator()
	tests := []struct {
		n        int
		expected float64
	}{
		{1, 0.1},
		{2, 0.2},
		{3, 0.3875},
		{10, 1.0},
	}

	for _, tc := range tests {
		t.Run(fmt.Sprintf("%d samples", tc.n), func(t *testing.T) {
			samples := make([]domain.BaselineSample, 0, tc.n)
			for i := 0; i < tc.n; i++ {
				samples = append(samples, sample(fmt.Sprintf("s%d", i), 0.5, time.Duration(i)*time.Minute))
			}
			p, err := agg.CreateOrUpdate("s-1", nil, samples...)
			require.NoError(t, err)
			assert.InDelta(t, tc.expected, p.Confidence, 1e-9)
		})
	}
}

func TestCreateOrUpdate_VariancePenalty(t *testing.T) {
	p, err := testAggregator().CreateOrUpdate("s-1", nil,
		sample("a", 0.2, time.Hour),
		sample("b", 0.8, 0),
	)
	require.NoError(t, err)

	// Coefficient of variation is 0.6, capped at 0.5.
	assert.InDelta(t, 0.1, p.Confidence, 1e-9)
}

func TestCreateOrUpdate_EvictsOldest(t *testing.T) {
	samples := make([]domain.BaselineSample, 0, 12)
	for i := 0; i < 12; i++ {
		samples = append(samples, sample(fmt.Sprintf("s%d", i), 0.5, time.Duration(12-i)*time.Hour))
	}

	p, err := testAggregator().CreateOrUpdate("s-1", nil, samples...)
	require.NoError(t, err)

	require.Len(t, p.Samples, 10)
	assert.Equal(t, "s2", p.Samples[0].ID)
	assert.Equal(t, "s11", p.Samples[9].ID)
}

func TestCreateOrUpdate_ExpiredExcluded(t *testing.T) {
	p, err := testAggregator().CreateOrUpdate("s-1", nil,
		sample("old", 0.9, 40*24*time.Hour),
		sample("new", 0.5, time.Hour),
	)
	require.NoError(t, err)

	assert.Len(t, p.Samples, 2)
	assert.Equal(t, 1, p.ActiveSamples)
	assert.InDelta(t, 0.5, p.Aggregate.Vocabulary.Diversity, 1e-9)
	assert.Equal(t, []string{"word-new"}, p.WordSet(testAggregator().ActiveSince(testNow)))
}

func TestCreateOrUpdate_AllExpired(t *testing.T) {
	p, err := testAggregator().CreateOrUpdate("s-1", nil, sample("old", 0.9, 90*24*time.Hour))
	require.NoError(t, err)

	assert.Zero(t, p.ActiveSamples)
	assert.Zero(t, p.Confidence)
	assert.Zero(t, p.Aggregate.Vocabulary.Diversity)
}

func TestCreateOrUpdate_DoesNotMutateExisting(t *testing.T) {
	agg := testAggregator()
	first, err := agg.CreateOrUpdate("s-1", nil, sample("a", 0.4, time.Hour))
	require.NoError(t, err)

	second, err := agg.CreateOrUpdate("s-1", first, sample("b", 0.6, 0))
	require.NoError(t, err)

	assert.Len(t, first.Samples, 1)
	assert.InDelta(t, 0.4, first.Aggregate.Vocabulary.Diversity, 1e-9)
	assert.Len(t, second.Samples, 2)

	second.Samples[0].Words[0] = "changed"
	assert.Equal(t, "word-a", first.Samples[0].Words[0])
}

func TestCreateOrUpdate_ExistingWithoutSamples(t *testing.T) {
	agg := testAggregator()
	first, err := agg.CreateOrUpdate("s-1", nil, sample("a", 0.4, time.Hour))
	require.NoError(t, err)

	again, err := agg.CreateOrUpdate("s-1", first)
	require.NoError(t, err)
	assert.Len(t, again.Samples, 1)
}

func TestKeyedMutex(t *testing.T) {
	km := NewKeyedMutex()
	counters := map[string]int{}
	var mu sync.Mutex

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		key := fmt.Sprintf("author-%d", i%5)
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := km.Lock(key)
			defer unlock()

			mu.Lock()
			v := counters[key]
			mu.Unlock()
			time.Sleep(time.Millisecond)
			mu.Lock()
			counters[key] = v + 1
			mu.Unlock()
		}()
	}
	wg.Wait()

	for i := 0; i < 5; i++ {
		assert.Equal(t, 10, counters[fmt.Sprintf("author-%d", i)])
	}
	assert.Zero(t, km.Len())
}
