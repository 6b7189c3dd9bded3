package driving

import (
	"context"

	"github.com/custodia-labs/penmark/internal/core/domain"
)

// AssignmentService attributes scanned documents to roster members.
type AssignmentService interface {
	// Assign ranks every document against the given candidates.
	// On cancellation the partial result is returned with ctx.Err().
	Assign(
		ctx context.Context,
		docs []domain.RawDocument,
		roster []domain.RosterCandidate,
		opts domain.AssignOptions,
	) (*domain.AssignmentResult, error)

	// AssignClass fetches the candidates of a class and runs Assign.
	AssignClass(
		ctx context.Context,
		classID string,
		docs []domain.RawDocument,
		opts domain.AssignOptions,
	) (*domain.AssignmentResult, error)

	// Confirm manually assigns a predicted or unassigned document.
	Confirm(ctx context.Context, state domain.BatchState, documentID, authorID string) (domain.BatchState, error)

	// History returns the recorded outcomes of a past batch.
	History(ctx context.Context, batchID string) ([]domain.DocumentOutcome, error)
}
