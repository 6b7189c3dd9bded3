package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/penmark/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/penmark/internal/core/domain"
)

var essays = []string{
	"My dog likes the park. We walk there every morning before school.",
	"On weekends my dog and I walk to the river. He chases the ducks.",
	"The park near school is big. My dog runs around the pond there.",
}

func newTestBaselineService() (*BaselineService, *memory.BaselineStore) {
	store := memory.NewBaselineStore()
	return NewBaselineService(store, domain.DefaultEngineSettings()), store
}

func TestBaselineService_BuildBaseline(t *testing.T) {
	service, store := newTestBaselineService()

	profile, err := service.BuildBaseline(context.Background(), "alice", essays)

	require.NoError(t, err)
	assert.Equal(t, "alice", profile.AuthorID)
	assert.Len(t, profile.Samples, 3)
	assert.Equal(t, 3, profile.ActiveSamples)
	assert.Greater(t, profile.Confidence, 0.0)
	assert.LessOrEqual(t, profile.Confidence, 1.0)
	assert.Contains(t, profile.WordSet(time.Time{}), "dog")

	stored, err := store.Load(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, profile.Confidence, stored.Confidence)
}

func TestBaselineService_BuildBaseline_InsufficientData(t *testing.T) {
	service, _ := newTestBaselineService()

	for name, input := range map[string][]string{
		"nil":   nil,
		"empty": {},
		"blank": {"", "   \n"},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := service.BuildBaseline(context.Background(), "alice", input)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInsufficientData)

			var insufficient *domain.InsufficientDataError
			require.True(t, errors.As(err, &insufficient))
			assert.Equal(t, "alice", insufficient.AuthorID)
			assert.Equal(t, 0, insufficient.Have)
			assert.Equal(t, 1, insufficient.Need)
		})
	}
}

func TestBaselineService_BuildBaseline_BelowMinimumIsTentative(t *testing.T) {
	service, _ := newTestBaselineService()
	settings := domain.DefaultEngineSettings()

	profile, err := service.BuildBaseline(context.Background(), "alice", []string{"", essays[0]})

	require.NoError(t, err)
	assert.Equal(t, 1, profile.ActiveSamples)
	assert.Less(t, profile.ActiveSamples, settings.Baseline.MinSamples)
	assert.LessOrEqual(t, profile.Confidence, settings.Baseline.LowConfidenceFloor)
}

func TestBaselineService_BuildBaseline_EmptyAuthor(t *testing.T) {
	service, _ := newTestBaselineService()
	_, err := service.BuildBaseline(context.Background(), "  ", essays)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestBaselineService_BuildBaseline_Replaces(t *testing.T) {
	service, _ := newTestBaselineService()
	ctx := context.Background()

	_, err := service.BuildBaseline(ctx, "alice", essays)
	require.NoError(t, err)
	profile, err := service.BuildBaseline(ctx, "alice", essays[:1])
	require.NoError(t, err)

	assert.Len(t, profile.Samples, 1)
}

func TestBaselineService_BuildBaseline_StoreError(t *testing.T) {
	service := NewBaselineService(failingBaselineStore{}, domain.DefaultEngineSettings())
	_, err := service.BuildBaseline(context.Background(), "alice", essays)
	assert.ErrorIs(t, err, errStoreDown)
}

func TestBaselineService_AddSample(t *testing.T) {
	service, _ := newTestBaselineService()
	ctx := context.Background()

	first, err := service.AddSample(ctx, "bob", essays[0])
	require.NoError(t, err)
	assert.Len(t, first.Samples, 1)
	assert.LessOrEqual(t, first.Confidence, domain.DefaultLowConfidenceFloor)

	second, err := service.AddSample(ctx, "bob", essays[1])
	require.NoError(t, err)
	assert.Len(t, second.Samples, 2)
	assert.Len(t, first.Samples, 1, "earlier profile must not change")

	_, err = service.AddSample(ctx, "bob", "  ")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestBaselineService_AddSample_EvictsOldest(t *testing.T) {
	settings := domain.DefaultEngineSettings()
	settings.Baseline.MinSamples = 1
	settings.Baseline.MaxSamples = 2
	service := NewBaselineService(memory.NewBaselineStore(), settings)

	tick := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	service.WithClock(func() time.Time {
		tick = tick.Add(time.Minute)
		return tick
	})

	var profile *domain.BaselineProfile
	for _, e := range essays {
		var err error
		profile, err = service.AddSample(context.Background(), "carol", e)
		require.NoError(t, err)
	}

	require.Len(t, profile.Samples, 2)
	assert.NotContains(t, profile.WordSet(time.Time{}), "morning")
}

func TestBaselineService_AddSample_Concurrent(t *testing.T) {
	service, _ := newTestBaselineService()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := service.AddSample(context.Background(), "dave", essays[0])
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	profile, err := service.Get(context.Background(), "dave")
	require.NoError(t, err)
	assert.Len(t, profile.Samples, 8, "every update must be applied once")
}

func TestBaselineService_GetDeleteList(t *testing.T) {
	service, _ := newTestBaselineService()
	ctx := context.Background()

	_, err := service.Get(ctx, "ghost")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, service.Delete(ctx, "ghost"), domain.ErrNotFound)

	_, err = service.BuildBaseline(ctx, "alice", essays)
	require.NoError(t, err)
	_, err = service.BuildBaseline(ctx, "bob", essays)
	require.NoError(t, err)

	list, err := service.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	require.NoError(t, service.Delete(ctx, "alice"))
	list, err = service.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "bob", list[0].AuthorID)
}

func TestBaselineService_CompareToBaseline_SameText(t *testing.T) {
	service, _ := newTestBaselineService()
	ctx := context.Background()

	profile, err := service.BuildBaseline(ctx, "alice", essays[:1])
	require.NoError(t, err)

	comparison, err := service.CompareToBaseline(ctx, profile, essays[0])

	require.NoError(t, err)
	assert.Equal(t, "alice", comparison.AuthorID)
	assert.Equal(t, 1.0, comparison.Similarity)
	assert.Equal(t, domain.DriftNone, comparison.Level)
	assert.InDelta(t, 0.0, comparison.StyleDrift, 1e-9)
	assert.InDelta(t, 0.0, comparison.GradeLevelChange, 1e-9)
	assert.Nil(t, comparison.AIProbability)
}

func TestBaselineService_CompareToBaseline_Drift(t *testing.T) {
	service, _ := newTestBaselineService()
	ctx := context.Background()

	profile, err := service.BuildBaseline(ctx, "alice", essays)
	require.NoError(t, err)

	sophisticated := "Notwithstanding considerable methodological constraints, " +
		"the comprehensive investigation demonstrated substantial theoretical implications. " +
		"Consequently, subsequent interpretations necessitate extraordinarily rigorous justification."
	comparison, err := service.CompareToBaseline(ctx, profile, sophisticated)

	require.NoError(t, err)
	assert.Less(t, comparison.Similarity, 0.2)
	assert.NotEqual(t, domain.DriftNone, comparison.Level)
	assert.NotEmpty(t, comparison.Flags)
	assert.Greater(t, comparison.GradeLevelChange, 0.0)
}

func TestBaselineService_CompareToBaseline_AIScorer(t *testing.T) {
	service, _ := newTestBaselineService()
	ctx := context.Background()
	profile, err := service.BuildBaseline(ctx, "alice", essays)
	require.NoError(t, err)

	scorer := &mockAIScorer{probability: 0.42}
	service.SetAIScorer(scorer)
	comparison, err := service.CompareToBaseline(ctx, profile, essays[2])
	require.NoError(t, err)
	require.NotNil(t, comparison.AIProbability)
	assert.Equal(t, 0.42, *comparison.AIProbability)
	assert.Equal(t, 1, scorer.calls)

	scorer.err = errors.New("scorer offline")
	_, err = service.CompareToBaseline(ctx, profile, essays[2])
	assert.ErrorContains(t, err, "scorer offline")
}

func TestBaselineService_CompareToBaseline_Invalid(t *testing.T) {
	service, _ := newTestBaselineService()

	_, err := service.CompareToBaseline(context.Background(), nil, "text")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = service.CompareToBaseline(ctx, &domain.BaselineProfile{AuthorID: "x"}, "text")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBaselineService_CompareAuthor(t *testing.T) {
	service, _ := newTestBaselineService()
	ctx := context.Background()

	_, err := service.CompareAuthor(ctx, "ghost", "text")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = service.BuildBaseline(ctx, "alice", essays)
	require.NoError(t, err)
	comparison, err := service.CompareAuthor(ctx, "alice", essays[0])
	require.NoError(t, err)
	assert.Greater(t, comparison.Similarity, 0.0)
}

func TestDistinctWords(t *testing.T) {
	tokens := domain.TokenSet{Words: []string{"the", "cat", "the", "mat"}}
	assert.Equal(t, []string{"cat", "mat", "the"}, distinctWords(tokens))
	assert.Empty(t, distinctWords(domain.TokenSet{}))
}
