package driving

import (
	"context"

	"github.com/custodia-labs/penmark/internal/core/domain"
)

// BaselineService manages author baselines and compares new texts to them.
type BaselineService interface {
	// BuildBaseline creates a profile from essays, replacing any existing one.
	// Returns *domain.InsufficientDataError when no essay has text.
	BuildBaseline(ctx context.Context, authorID string, essays []string) (*domain.BaselineProfile, error)

	// AddSample folds one more essay into an author's profile, creating it
	// when absent.
	AddSample(ctx context.Context, authorID, text string) (*domain.BaselineProfile, error)

	// Get returns the stored profile of an author.
	Get(ctx context.Context, authorID string) (*domain.BaselineProfile, error)

	// Delete removes an author's profile.
	Delete(ctx context.Context, authorID string) error

	// List returns every stored profile.
	List(ctx context.Context) ([]domain.BaselineProfile, error)

	// CompareToBaseline measures text against a given profile.
	CompareToBaseline(ctx context.Context, profile *domain.BaselineProfile, text string) (*domain.Comparison, error)

	// CompareAuthor loads an author's profile and compares text against it.
	CompareAuthor(ctx context.Context, authorID, text string) (*domain.Comparison, error)
}
