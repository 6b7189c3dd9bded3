package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/custodia-labs/penmark/internal/core/domain"
	"github.com/custodia-labs/penmark/internal/core/ports/driven"
)

// mockRecorder counts observations.
type mockRecorder struct {
	mu       sync.Mutex
	outcomes map[domain.OutcomeStatus]int
	batches  []domain.AssignmentSummary
	analyses int
	hits     int
}

func newMockRecorder() *mockRecorder {
	return &mockRecorder{outcomes: make(map[domain.OutcomeStatus]int)}
}

func (m *mockRecorder) ObserveOutcome(status domain.OutcomeStatus, _ float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outcomes[status]++
}

func (m *mockRecorder) ObserveBatch(summary domain.AssignmentSummary, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.batches = append(m.batches, summary)
}

func (m *mockRecorder) ObserveAnalysis(_ time.Duration, cached bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.analyses++
	if cached {
		m.hits++
	}
}

var _ driven.MetricsRecorder = (*mockRecorder)(nil)

// mockAIScorer returns a fixed probability or error.
type mockAIScorer struct {
	probability float64
	err         error
	calls       int
}

func (m *mockAIScorer) Score(_ context.Context, _ string) (float64, error) {
	m.calls++
	return m.probability, m.err
}

var _ driven.AIScorer = (*mockAIScorer)(nil)

// mockRosterProvider returns fixed candidates or an error.
type mockRosterProvider struct {
	candidates []domain.RosterCandidate
	err        error
	classID    string
}

func (m *mockRosterProvider) GetCandidates(_ context.Context, classID string) ([]domain.RosterCandidate, error) {
	m.classID = classID
	return m.candidates, m.err
}

// failingBaselineStore fails every operation.
type failingBaselineStore struct{}

var errStoreDown = errors.New("store unavailable")

func (failingBaselineStore) Load(context.Context, string) (*domain.BaselineProfile, error) {
	return nil, errStoreDown
}
func (failingBaselineStore) Save(context.Context, *domain.BaselineProfile) error { return errStoreDown }
func (failingBaselineStore) Delete(context.Context, string) error                { return errStoreDown }
func (failingBaselineStore) List(context.Context) ([]domain.BaselineProfile, error) {
	return nil, errStoreDown
}

// blockingNormaliser waits for release before returning text, so tests can
// cancel a batch while documents are in flight.
type blockingNormaliser struct {
	started chan struct{}
	release chan struct{}
}

func (b *blockingNormaliser) SupportedMIMETypes() []string { return []string{"text/x-slow"} }
func (b *blockingNormaliser) Priority() int                { return 90 }

func (b *blockingNormaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	b.started <- struct{}{}
	<-b.release
	return &driven.NormaliseResult{Text: string(raw.Content), Confidence: 1}, nil
}
