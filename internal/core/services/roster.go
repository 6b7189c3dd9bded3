package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/penmark/internal/core/domain"
	"github.com/custodia-labs/penmark/internal/core/ports/driven"
	"github.com/custodia-labs/penmark/internal/core/ports/driving"
	"github.com/custodia-labs/penmark/internal/logger"
)

// Ensure RosterService implements the interface.
var _ driving.RosterService = (*RosterService)(nil)

// RosterService manages class rosters.
type RosterService struct {
	store     driven.RosterStore
	baselines driven.BaselineStore
	now       func() time.Time
}

// NewRosterService creates a roster service. baselines may be nil, in which
// case no member is reported as having a baseline.
func NewRosterService(store driven.RosterStore, baselines driven.BaselineStore) *RosterService {
	return &RosterService{store: store, baselines: baselines, now: time.Now}
}

// Enrol adds an author to a class.
func (s *RosterService) Enrol(ctx context.Context, classID, authorID, name string) error {
	classID, authorID = strings.TrimSpace(classID), strings.TrimSpace(authorID)
	if classID == "" || authorID == "" {
		return fmt.Errorf("enrol: class and author are required: %w", domain.ErrInvalidInput)
	}

	member := domain.RosterMember{
		ClassID:  classID,
		AuthorID: authorID,
		Name:     strings.TrimSpace(name),
		AddedAt:  s.now(),
	}
	if err := s.store.AddMember(ctx, member); err != nil {
		return fmt.Errorf("enrol %s in %s: %w", authorID, classID, err)
	}
	logger.Debug("enrolled %s in class %s", authorID, classID)
	return nil
}

// Withdraw removes an author from a class.
func (s *RosterService) Withdraw(ctx context.Context, classID, authorID string) error {
	if err := s.store.RemoveMember(ctx, classID, authorID); err != nil {
		return fmt.Errorf("withdraw %s from %s: %w", authorID, classID, err)
	}
	logger.Debug("withdrew %s from class %s", authorID, classID)
	return nil
}

// Members lists a class roster.
func (s *RosterService) Members(ctx context.Context, classID string) ([]driving.RosterEntry, error) {
	members, err := s.store.ListMembers(ctx, classID)
	if err != nil {
		return nil, fmt.Errorf("list class %s: %w", classID, err)
	}

	entries := make([]driving.RosterEntry, len(members))
	for i, m := range members {
		entries[i] = driving.RosterEntry{RosterMember: m}
		if s.baselines == nil {
			continue
		}
		_, err := s.baselines.Load(ctx, m.AuthorID)
		switch {
		case err == nil:
			entries[i].HasBaseline = true
		case !errors.Is(err, domain.ErrNotFound):
			return nil, fmt.Errorf("load baseline %s: %w", m.AuthorID, err)
		}
	}
	return entries, nil
}
