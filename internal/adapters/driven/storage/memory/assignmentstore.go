package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/penmark/internal/core/domain"
	"github.com/custodia-labs/penmark/internal/core/ports/driven"
)

// Ensure AssignmentStore implements the interface.
var _ driven.AssignmentStore = (*AssignmentStore)(nil)

// AssignmentStore is an in-memory implementation of driven.AssignmentStore.
type AssignmentStore struct {
	mu      sync.RWMutex
	batches map[string][]domain.DocumentOutcome
}

// NewAssignmentStore creates a new in-memory assignment store.
func NewAssignmentStore() *AssignmentStore {
	return &AssignmentStore{
		batches: make(map[string][]domain.DocumentOutcome),
	}
}

// Record appends an outcome to a batch. A later outcome for the same
// document replaces the earlier one.
func (s *AssignmentStore) Record(_ context.Context, batchID string, outcome domain.DocumentOutcome) error {
	if batchID == "" || outcome == nil {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	outcomes := s.batches[batchID]
	for i, o := range outcomes {
		if o.DocID() == outcome.DocID() {
			outcomes[i] = outcome
			return nil
		}
	}
	s.batches[batchID] = append(outcomes, outcome)
	return nil
}

// ListBatch returns the outcomes of a batch in recording order.
func (s *AssignmentStore) ListBatch(_ context.Context, batchID string) ([]domain.DocumentOutcome, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	outcomes, ok := s.batches[batchID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return append([]domain.DocumentOutcome(nil), outcomes...), nil
}
