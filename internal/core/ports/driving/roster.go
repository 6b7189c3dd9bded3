package driving

import (
	"context"

	"github.com/custodia-labs/penmark/internal/core/domain"
)

// RosterService manages which authors belong to a class.
type RosterService interface {
	// Enrol adds an author to a class. Enrolling again updates the name.
	Enrol(ctx context.Context, classID, authorID, name string) error

	// Withdraw removes an author from a class.
	Withdraw(ctx context.Context, classID, authorID string) error

	// Members lists the authors of a class and whether each has a baseline.
	Members(ctx context.Context, classID string) ([]RosterEntry, error)
}

// RosterEntry is one class member as shown to users.
type RosterEntry struct {
	domain.RosterMember

	// HasBaseline reports whether the author can be matched during assignment.
	HasBaseline bool
}
