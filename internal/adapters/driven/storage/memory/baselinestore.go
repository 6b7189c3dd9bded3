package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/penmark/internal/core/domain"
	"github.com/custodia-labs/penmark/internal/core/ports/driven"
)

// Ensure BaselineStore implements the interface.
var _ driven.BaselineStore = (*BaselineStore)(nil)

// BaselineStore is an in-memory implementation of driven.BaselineStore.
// Profiles are cloned on the way in and out.
type BaselineStore struct {
	mu       sync.RWMutex
	profiles map[string]*domain.BaselineProfile
}

// NewBaselineStore creates a new in-memory baseline store.
func NewBaselineStore() *BaselineStore {
	return &BaselineStore{
		profiles: make(map[string]*domain.BaselineProfile),
	}
}

// Load retrieves the profile for an author.
func (s *BaselineStore) Load(_ context.Context, authorID string) (*domain.BaselineProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	profile, ok := s.profiles[authorID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return profile.Clone(), nil
}

// Save stores or replaces a profile.
func (s *BaselineStore) Save(_ context.Context, profile *domain.BaselineProfile) error {
	if profile == nil || profile.AuthorID == "" {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[profile.AuthorID] = profile.Clone()
	return nil
}

// Delete removes a profile.
func (s *BaselineStore) Delete(_ context.Context, authorID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.profiles[authorID]; !ok {
		return domain.ErrNotFound
	}
	delete(s.profiles, authorID)
	return nil
}

// List returns all profiles ordered by author ID.
func (s *BaselineStore) List(_ context.Context) ([]domain.BaselineProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.BaselineProfile, 0, len(s.profiles))
	for _, profile := range s.profiles {
		result = append(result, *profile.Clone())
	}
	sort.Slice(result, func(i, j int) bool { return result[i].AuthorID < result[j].AuthorID })
	return result, nil
}
