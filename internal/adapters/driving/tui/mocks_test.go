package tui

import (
	"context"

	"github.com/custodia-labs/penmark/internal/core/domain"
)

// MockBaselineService implements driving.BaselineService for testing.
type MockBaselineService struct {
	Profiles []domain.BaselineProfile
	Err      error
}

func (m *MockBaselineService) BuildBaseline(context.Context, string, []string) (*domain.BaselineProfile, error) {
	return nil, m.Err
}

func (m *MockBaselineService) AddSample(context.Context, string, string) (*domain.BaselineProfile, error) {
	return nil, m.Err
}

func (m *MockBaselineService) Get(context.Context, string) (*domain.BaselineProfile, error) {
	return nil, domain.ErrNotFound
}

func (m *MockBaselineService) Delete(context.Context, string) error {
	return m.Err
}

func (m *MockBaselineService) List(context.Context) ([]domain.BaselineProfile, error) {
	return m.Profiles, m.Err
}

func (m *MockBaselineService) CompareToBaseline(
	context.Context, *domain.BaselineProfile, string,
) (*domain.Comparison, error) {
	return nil, m.Err
}

func (m *MockBaselineService) CompareAuthor(context.Context, string, string) (*domain.Comparison, error) {
	return nil, m.Err
}

// MockAssignmentService implements driving.AssignmentService for testing.
type MockAssignmentService struct {
	Err error
}

func (m *MockAssignmentService) Assign(
	ctx context.Context, docs []domain.RawDocument, _ []domain.RosterCandidate, opts domain.AssignOptions,
) (*domain.AssignmentResult, error) {
	return m.AssignClass(ctx, "", docs, opts)
}

func (m *MockAssignmentService) AssignClass(
	_ context.Context, _ string, docs []domain.RawDocument, opts domain.AssignOptions,
) (*domain.AssignmentResult, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	result := &domain.AssignmentResult{Summary: domain.AssignmentSummary{Total: len(docs)}}
	for i, d := range docs {
		result.Summary.Assigned++
		if opts.OnProgress != nil {
			opts.OnProgress(domain.BatchProgress{
				Completed: i + 1, Total: len(docs), DocumentID: d.ID, Status: domain.StatusAssigned,
			})
		}
	}
	return result, nil
}

func (m *MockAssignmentService) Confirm(
	_ context.Context, state domain.BatchState, _, _ string,
) (domain.BatchState, error) {
	return state, m.Err
}

func (m *MockAssignmentService) History(context.Context, string) ([]domain.DocumentOutcome, error) {
	return nil, m.Err
}
