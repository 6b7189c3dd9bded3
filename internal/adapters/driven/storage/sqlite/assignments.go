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

// assignmentStore implements driven.AssignmentStore.
type assignmentStore struct {
	store *Store
}

var _ driven.AssignmentStore = (*assignmentStore)(nil)

// outcomeRecord is the JSON form of a domain.DocumentOutcome.
type outcomeRecord struct {
	Status     domain.OutcomeStatus         `json:"status"`
	DocumentID string                       `json:"document_id"`
	Reason     string                       `json:"reason,omitempty"`
	Best       *domain.AssignmentCandidate  `json:"best,omitempty"`
	Matches    []domain.AssignmentCandidate `json:"matches,omitempty"`
	Manual     bool                         `json:"manual,omitempty"`
	Error      string                       `json:"error,omitempty"`
}

// Record stores the outcome of one document. Re-recording a document
// replaces the outcome but keeps its position in the batch.
func (s *assignmentStore) Record(ctx context.Context, batchID string, outcome domain.DocumentOutcome) error {
	if batchID == "" || outcome == nil {
		return domain.ErrInvalidInput
	}

	rec, authorID, confidence := encodeOutcome(outcome)
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshalling outcome: %w", err)
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO assignments (batch_id, document_id, seq, status, author_id, confidence, outcome, recorded_at)
		VALUES (?, ?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM assignments WHERE batch_id = ?), ?, ?, ?, ?, ?)
		ON CONFLICT(batch_id, document_id) DO UPDATE SET
			status = excluded.status,
			author_id = excluded.author_id,
			confidence = excluded.confidence,
			outcome = excluded.outcome,
			recorded_at = excluded.recorded_at
	`, batchID, outcome.DocID(), batchID, string(outcome.Status()), authorID, confidence,
		string(data), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("recording outcome: %w", err)
	}
	return nil
}

// ListBatch returns the outcomes of a batch in recording order.
func (s *assignmentStore) ListBatch(ctx context.Context, batchID string) ([]domain.DocumentOutcome, error) {
	rows, err := s.store.db.QueryContext(ctx,
		"SELECT outcome FROM assignments WHERE batch_id = ? ORDER BY seq", batchID)
	if err != nil {
		return nil, fmt.Errorf("querying assignments: %w", err)
	}
	defer rows.Close()

	var outcomes []domain.DocumentOutcome //nolint:prealloc // size unknown from query
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scanning assignment: %w", err)
		}
		outcome, err := decodeOutcome(data)
		if err != nil {
			return nil, err
		}
		outcomes = append(outcomes, outcome)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating assignments: %w", err)
	}
	if len(outcomes) == 0 {
		return nil, domain.ErrNotFound
	}
	return outcomes, nil
}

func encodeOutcome(outcome domain.DocumentOutcome) (outcomeRecord, sql.NullString, sql.NullFloat64) {
	rec := outcomeRecord{Status: outcome.Status(), DocumentID: outcome.DocID()}
	var (
		authorID   sql.NullString
		confidence sql.NullFloat64
	)

	switch o := outcome.(type) {
	case domain.Unassigned:
		rec.Reason = o.Reason
	case domain.Predicted:
		best := o.Best
		rec.Best = &best
		rec.Matches = o.PossibleMatches
		authorID = sql.NullString{String: best.AuthorID, Valid: true}
		confidence = sql.NullFloat64{Float64: best.Confidence, Valid: true}
	case domain.Assigned:
		candidate := o.Candidate
		rec.Best = &candidate
		rec.Manual = o.Manual
		authorID = sql.NullString{String: candidate.AuthorID, Valid: true}
		confidence = sql.NullFloat64{Float64: candidate.Confidence, Valid: true}
	case domain.Errored:
		if o.Err != nil {
			rec.Error = o.Err.Error()
		}
	}
	return rec, authorID, confidence
}

func decodeOutcome(data string) (domain.DocumentOutcome, error) {
	var rec outcomeRecord
	if err := json.Unmarshal([]byte(data), &rec); err != nil {
		return nil, fmt.Errorf("unmarshalling outcome: %w", err)
	}

	var best domain.AssignmentCandidate
	if rec.Best != nil {
		best = *rec.Best
	}

	switch rec.Status {
	case domain.StatusUnassigned:
		return domain.Unassigned{DocumentID: rec.DocumentID, Reason: rec.Reason}, nil
	case domain.StatusPredicted:
		return domain.Predicted{DocumentID: rec.DocumentID, Best: best, PossibleMatches: rec.Matches}, nil
	case domain.StatusAssigned:
		return domain.Assigned{DocumentID: rec.DocumentID, Candidate: best, Manual: rec.Manual}, nil
	case domain.StatusError:
		return domain.Errored{DocumentID: rec.DocumentID, Err: errors.New(rec.Error)}, nil
	default:
		return nil, fmt.Errorf("unknown outcome status %q", rec.Status)
	}
}
