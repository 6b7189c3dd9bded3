package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/custodia-labs/penmark/internal/core/domain"
	"github.com/custodia-labs/penmark/internal/core/ports/driven"
)

// Ensure RosterStore implements the interfaces.
var (
	_ driven.RosterStore    = (*RosterStore)(nil)
	_ driven.RosterProvider = (*RosterStore)(nil)
)

// RosterStore is an in-memory implementation of driven.RosterStore.
// It also serves as a driven.RosterProvider by joining members with the
// vocabulary of their baselines.
type RosterStore struct {
	mu        sync.RWMutex
	classes   map[string]map[string]domain.RosterMember
	baselines driven.BaselineStore

	// expireAfter drops older samples from candidate vocabularies.
	expireAfter time.Duration
	now         func() time.Time
}

// NewRosterStore creates a new in-memory roster store. baselines supplies
// candidate vocabularies and may be nil, in which case no candidates are
// returned.
func NewRosterStore(baselines driven.BaselineStore) *RosterStore {
	return &RosterStore{
		classes:   make(map[string]map[string]domain.RosterMember),
		baselines: baselines,
		now:       time.Now,
	}
}

// SetExpireAfter excludes samples older than d from candidate
// vocabularies. Zero keeps every sample.
func (s *RosterStore) SetExpireAfter(d time.Duration) {
	s.expireAfter = d
}

// AddMember enrols an author in a class.
func (s *RosterStore) AddMember(_ context.Context, member domain.RosterMember) error {
	if member.ClassID == "" || member.AuthorID == "" {
		return domain.ErrInvalidInput
	}
	if member.AddedAt.IsZero() {
		member.AddedAt = time.Now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	members, ok := s.classes[member.ClassID]
	if !ok {
		members = make(map[string]domain.RosterMember)
		s.classes[member.ClassID] = members
	}
	if existing, ok := members[member.AuthorID]; ok {
		member.AddedAt = existing.AddedAt
	}
	members[member.AuthorID] = member
	return nil
}

// RemoveMember removes an author from a class.
func (s *RosterStore) RemoveMember(_ context.Context, classID, authorID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	members, ok := s.classes[classID]
	if !ok {
		return domain.ErrNotFound
	}
	if _, ok := members[authorID]; !ok {
		return domain.ErrNotFound
	}
	delete(members, authorID)
	if len(members) == 0 {
		delete(s.classes, classID)
	}
	return nil
}

// ListMembers returns the members of a class ordered by author ID.
func (s *RosterStore) ListMembers(_ context.Context, classID string) ([]domain.RosterMember, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	members := s.classes[classID]
	result := make([]domain.RosterMember, 0, len(members))
	for _, m := range members {
		result = append(result, m)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].AuthorID < result[j].AuthorID })
	return result, nil
}

// GetCandidates returns the members of a class that have a baseline.
// Members without one are skipped. Each candidate carries the words of
// its unexpired samples.
func (s *RosterStore) GetCandidates(ctx context.Context, classID string) ([]domain.RosterCandidate, error) {
	members, err := s.ListMembers(ctx, classID)
	if err != nil {
		return nil, err
	}
	if s.baselines == nil {
		return nil, nil
	}

	var since time.Time
	if s.expireAfter > 0 {
		since = s.now().Add(-s.expireAfter)
	}

	candidates := make([]domain.RosterCandidate, 0, len(members))
	for _, m := range members {
		profile, err := s.baselines.Load(ctx, m.AuthorID)
		if errors.Is(err, domain.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, domain.RosterCandidate{
			AuthorID: m.AuthorID,
			Name:     m.Name,
			Tokens:   domain.TokenSet{Words: profile.WordSet(since)},
		})
	}
	return candidates, nil
}
