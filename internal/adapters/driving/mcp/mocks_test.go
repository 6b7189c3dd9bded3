package mcp

import (
	"context"

	"github.com/custodia-labs/penmark/internal/core/domain"
)

// mockAnalysisService is a mock implementation of driving.AnalysisService.
type mockAnalysisService struct {
	snapshot *domain.MetricsSnapshot
	err      error
}

func (m *mockAnalysisService) AnalyzeText(_ context.Context, _ string) (*domain.MetricsSnapshot, error) {
	return m.snapshot, m.err
}

func (m *mockAnalysisService) AnalyzeDocument(_ context.Context, _ *domain.RawDocument) (*domain.DocumentAnalysis, error) {
	return nil, m.err
}

// mockBaselineService is a mock implementation of driving.BaselineService.
type mockBaselineService struct {
	profile    *domain.BaselineProfile
	profiles   []domain.BaselineProfile
	comparison *domain.Comparison
	err        error

	lastAuthor string
	lastEssays []string
}

func (m *mockBaselineService) BuildBaseline(_ context.Context, authorID string, essays []string) (*domain.BaselineProfile, error) {
	m.lastAuthor, m.lastEssays = authorID, essays
	return m.profile, m.err
}

func (m *mockBaselineService) AddSample(_ context.Context, _, _ string) (*domain.BaselineProfile, error) {
	return m.profile, m.err
}

func (m *mockBaselineService) Get(_ context.Context, authorID string) (*domain.BaselineProfile, error) {
	m.lastAuthor = authorID
	return m.profile, m.err
}

func (m *mockBaselineService) Delete(_ context.Context, _ string) error {
	return m.err
}

func (m *mockBaselineService) List(_ context.Context) ([]domain.BaselineProfile, error) {
	return m.profiles, m.err
}

func (m *mockBaselineService) CompareToBaseline(
	_ context.Context, _ *domain.BaselineProfile, _ string,
) (*domain.Comparison, error) {
	return m.comparison, m.err
}

func (m *mockBaselineService) CompareAuthor(_ context.Context, authorID, _ string) (*domain.Comparison, error) {
	m.lastAuthor = authorID
	return m.comparison, m.err
}

// mockAssignmentService is a mock implementation of driving.AssignmentService.
type mockAssignmentService struct {
	result   *domain.AssignmentResult
	outcomes []domain.DocumentOutcome
	err      error

	lastClass string
	lastDocs  []domain.RawDocument
	lastOpts  domain.AssignOptions
}

func (m *mockAssignmentService) Assign(
	_ context.Context, docs []domain.RawDocument, _ []domain.RosterCandidate, opts domain.AssignOptions,
) (*domain.AssignmentResult, error) {
	m.lastDocs, m.lastOpts = docs, opts
	return m.result, m.err
}

func (m *mockAssignmentService) AssignClass(
	_ context.Context, classID string, docs []domain.RawDocument, opts domain.AssignOptions,
) (*domain.AssignmentResult, error) {
	m.lastClass, m.lastDocs, m.lastOpts = classID, docs, opts
	return m.result, m.err
}

func (m *mockAssignmentService) Confirm(
	_ context.Context, state domain.BatchState, _, _ string,
) (domain.BatchState, error) {
	return state, m.err
}

func (m *mockAssignmentService) History(_ context.Context, _ string) ([]domain.DocumentOutcome, error) {
	return m.outcomes, m.err
}
