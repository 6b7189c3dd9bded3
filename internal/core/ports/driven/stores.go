package driven

import (
	"context"

	"github.com/custodia-labs/penmark/internal/core/domain"
)

// BaselineStore persists baseline profiles.
// Implementations must return copies so callers never share mutable state.
type BaselineStore interface {
	// Load retrieves the profile for an author.
	// Returns domain.ErrNotFound if the author has no baseline.
	Load(ctx context.Context, authorID string) (*domain.BaselineProfile, error)

	// Save creates or replaces a profile.
	Save(ctx context.Context, profile *domain.BaselineProfile) error

	// Delete removes a profile. Returns domain.ErrNotFound if absent.
	Delete(ctx context.Context, authorID string) error

	// List returns every stored profile ordered by author ID.
	List(ctx context.Context) ([]domain.BaselineProfile, error)
}

// RosterProvider supplies the candidate authors for a class.
type RosterProvider interface {
	// GetCandidates returns the candidates of a class, each carrying the
	// vocabulary of the author's baseline samples. Members without a
	// baseline are not candidates.
	GetCandidates(ctx context.Context, classID string) ([]domain.RosterCandidate, error)
}

// RosterStore manages class membership.
type RosterStore interface {
	// AddMember enrols an author in a class. Re-adding updates the name.
	AddMember(ctx context.Context, member domain.RosterMember) error

	// RemoveMember removes an author from a class.
	// Returns domain.ErrNotFound if the author is not enrolled.
	RemoveMember(ctx context.Context, classID, authorID string) error

	// ListMembers returns the members of a class ordered by author ID.
	ListMembers(ctx context.Context, classID string) ([]domain.RosterMember, error)
}

// AssignmentStore records the outcomes of batch runs.
type AssignmentStore interface {
	// Record stores the outcome of one document in a batch. Recording a
	// document again replaces its earlier outcome.
	Record(ctx context.Context, batchID string, outcome domain.DocumentOutcome) error

	// ListBatch returns the recorded outcomes of a batch in recording order.
	// Returns domain.ErrNotFound for an unknown batch.
	ListBatch(ctx context.Context, batchID string) ([]domain.DocumentOutcome, error)
}
