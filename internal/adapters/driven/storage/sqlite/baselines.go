package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/penmark/internal/core/domain"
	"github.com/custodia-labs/penmark/internal/core/ports/driven"
)

// baselineStore implements driven.BaselineStore. Profiles are stored as
// JSON with the headline numbers duplicated into columns for listing.
type baselineStore struct {
	store *Store
}

var _ driven.BaselineStore = (*baselineStore)(nil)

// Load retrieves the profile for an author.
func (s *baselineStore) Load(ctx context.Context, authorID string) (*domain.BaselineProfile, error) {
	row := s.store.db.QueryRowContext(ctx, "SELECT profile FROM baselines WHERE author_id = ?", authorID)

	var profileJSON string
	if err := row.Scan(&profileJSON); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning baseline: %w", err)
	}
	return decodeProfile(profileJSON)
}

// Save creates or replaces a profile.
func (s *baselineStore) Save(ctx context.Context, profile *domain.BaselineProfile) error {
	if profile == nil || profile.AuthorID == "" {
		return domain.ErrInvalidInput
	}

	data, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("marshalling baseline: %w", err)
	}

	createdAt := profile.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	updatedAt := profile.LastUpdated
	if updatedAt.IsZero() {
		updatedAt = createdAt
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO baselines (author_id, profile, confidence, active_samples, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(author_id) DO UPDATE SET
			profile = excluded.profile,
			confidence = excluded.confidence,
			active_samples = excluded.active_samples,
			updated_at = excluded.updated_at
	`, profile.AuthorID, string(data), profile.Confidence, profile.ActiveSamples, createdAt, updatedAt)
	if err != nil {
		return fmt.Errorf("saving baseline: %w", err)
	}
	return nil
}

// Delete removes a profile.
func (s *baselineStore) Delete(ctx context.Context, authorID string) error {
	res, err := s.store.db.ExecContext(ctx, "DELETE FROM baselines WHERE author_id = ?", authorID)
	if err != nil {
		return fmt.Errorf("deleting baseline: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List returns every profile ordered by author ID.
func (s *baselineStore) List(ctx context.Context) ([]domain.BaselineProfile, error) {
	rows, err := s.store.db.QueryContext(ctx, "SELECT profile FROM baselines ORDER BY author_id")
	if err != nil {
		return nil, fmt.Errorf("querying baselines: %w", err)
	}
	defer rows.Close()

	var profiles []domain.BaselineProfile //nolint:prealloc // size unknown from query
	for rows.Next() {
		var profileJSON string
		if err := rows.Scan(&profileJSON); err != nil {
			return nil, fmt.Errorf("scanning baseline: %w", err)
		}
		profile, err := decodeProfile(profileJSON)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, *profile)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating baselines: %w", err)
	}
	return profiles, nil
}

func decodeProfile(data string) (*domain.BaselineProfile, error) {
	var profile domain.BaselineProfile
	if err := json.Unmarshal([]byte(data), &profile); err != nil {
		return nil, fmt.Errorf("unmarshalling baseline: %w", err)
	}
	return &profile, nil
}
