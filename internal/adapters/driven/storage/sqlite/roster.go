package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/penmark/internal/core/domain"
	"github.com/custodia-labs/penmark/internal/core/ports/driven"
)

// RosterStore implements driven.RosterStore and driven.RosterProvider.
type RosterStore struct {
	store *Store

	// expireAfter drops older samples from candidate vocabularies.
	expireAfter time.Duration
	now         func() time.Time
}

var (
	_ driven.RosterStore    = (*RosterStore)(nil)
	_ driven.RosterProvider = (*RosterStore)(nil)
)

// SetExpireAfter excludes samples older than d from candidate
// vocabularies. Zero keeps every sample.
func (s *RosterStore) SetExpireAfter(d time.Duration) {
	s.expireAfter = d
}

// activeSince returns the sample cutoff, or the zero time without expiry.
func (s *RosterStore) activeSince() time.Time {
	if s.expireAfter <= 0 {
		return time.Time{}
	}
	return s.now().Add(-s.expireAfter)
}

// AddMember enrols an author in a class. Re-adding keeps the original
// enrolment time and updates the name.
func (s *RosterStore) AddMember(ctx context.Context, member domain.RosterMember) error {
	if member.ClassID == "" || member.AuthorID == "" {
		return domain.ErrInvalidInput
	}
	if member.AddedAt.IsZero() {
		member.AddedAt = time.Now().UTC()
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO roster_members (class_id, author_id, name, added_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(class_id, author_id) DO UPDATE SET name = excluded.name
	`, member.ClassID, member.AuthorID, member.Name, member.AddedAt)
	if err != nil {
		return fmt.Errorf("adding roster member: %w", err)
	}
	return nil
}

// RemoveMember removes an author from a class.
func (s *RosterStore) RemoveMember(ctx context.Context, classID, authorID string) error {
	res, err := s.store.db.ExecContext(ctx,
		"DELETE FROM roster_members WHERE class_id = ? AND author_id = ?", classID, authorID)
	if err != nil {
		return fmt.Errorf("removing roster member: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListMembers returns the members of a class ordered by author ID.
func (s *RosterStore) ListMembers(ctx context.Context, classID string) ([]domain.RosterMember, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT class_id, author_id, name, added_at
		FROM roster_members WHERE class_id = ?
		ORDER BY author_id
	`, classID)
	if err != nil {
		return nil, fmt.Errorf("querying roster: %w", err)
	}
	defer rows.Close()

	members := []domain.RosterMember{}
	for rows.Next() {
		var m domain.RosterMember
		if err := rows.Scan(&m.ClassID, &m.AuthorID, &m.Name, &m.AddedAt); err != nil {
			return nil, fmt.Errorf("scanning roster member: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating roster: %w", err)
	}
	return members, nil
}

// GetCandidates joins the members of a class with their baselines.
// Members without a baseline are skipped. Each candidate carries the words
// of its unexpired samples.
func (s *RosterStore) GetCandidates(ctx context.Context, classID string) ([]domain.RosterCandidate, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT m.author_id, m.name, b.profile
		FROM roster_members m
		JOIN baselines b ON b.author_id = m.author_id
		WHERE m.class_id = ?
		ORDER BY m.author_id
	`, classID)
	if err != nil {
		return nil, fmt.Errorf("querying candidates: %w", err)
	}
	defer rows.Close()

	since := s.activeSince()
	var candidates []domain.RosterCandidate //nolint:prealloc // size unknown from query
	for rows.Next() {
		var (
			authorID, name, profileJSON string
		)
		if err := rows.Scan(&authorID, &name, &profileJSON); err != nil {
			return nil, fmt.Errorf("scanning candidate: %w", err)
		}
		profile, err := decodeProfile(profileJSON)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, domain.RosterCandidate{
			AuthorID: authorID,
			Name:     name,
			Tokens:   domain.TokenSet{Words: profile.WordSet(since)},
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating candidates: %w", err)
	}
	return candidates, nil
}
