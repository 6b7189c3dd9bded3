package mcp

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/penmark/internal/core/domain"
)

func newTestServer(t *testing.T, ports *Ports) *Server {
	t.Helper()
	if ports.Analysis == nil {
		ports.Analysis = &mockAnalysisService{}
	}
	server, err := NewServer(ports)
	require.NoError(t, err)
	return server
}

func TestServer_handleAnalyzeText(t *testing.T) {
	ctx := context.Background()

	t.Run("returns metrics", func(t *testing.T) {
		analysis := &mockAnalysisService{snapshot: &domain.MetricsSnapshot{
			Vocabulary:  domain.VocabularyMetrics{TotalWords: 10, UniqueWords: 7, Diversity: 0.7},
			Style:       domain.StyleMetrics{SentenceCount: 2, ParagraphCount: 1, AverageSentenceLength: 5},
			Readability: domain.ReadabilityMetrics{GradeLevel: 1.2, ReadingEase: 98},
			Confidence:  0.04,
		}}
		server := newTestServer(t, &Ports{Analysis: analysis})

		_, output, err := server.handleAnalyzeText(ctx, nil, AnalyzeTextInput{Text: "The cat sat."})

		require.NoError(t, err)
		assert.Equal(t, 10, output.Words)
		assert.Equal(t, 7, output.UniqueWords)
		assert.Equal(t, 2, output.Sentences)
		assert.Equal(t, 0.7, output.Diversity)
		assert.Equal(t, 98.0, output.ReadingEase)
		assert.Equal(t, 0.04, output.Confidence)
	})

	t.Run("returns error on failure", func(t *testing.T) {
		server := newTestServer(t, &Ports{Analysis: &mockAnalysisService{err: errors.New("analysis failed")}})

		_, _, err := server.handleAnalyzeText(ctx, nil, AnalyzeTextInput{Text: "x"})

		assert.ErrorContains(t, err, "analysis failed")
	})
}

func TestServer_handleCompare(t *testing.T) {
	ctx := context.Background()

	t.Run("returns comparison", func(t *testing.T) {
		p := 0.3
		baseline := &mockBaselineService{comparison: &domain.Comparison{
			AuthorID:      "alice",
			Similarity:    0.4,
			Level:         domain.DriftHigh,
			Flags:         []string{"average word length rose 27%"},
			AIProbability: &p,
		}}
		server := newTestServer(t, &Ports{Baseline: baseline})

		_, output, err := server.handleCompare(ctx, nil, CompareInput{AuthorID: "alice", Text: "new essay"})

		require.NoError(t, err)
		assert.Equal(t, "alice", baseline.lastAuthor)
		assert.Equal(t, "high", output.Level)
		assert.Equal(t, 0.4, output.Similarity)
		assert.Len(t, output.Flags, 1)
		require.NotNil(t, output.AIProbability)
		assert.Equal(t, 0.3, *output.AIProbability)
	})

	t.Run("unknown author", func(t *testing.T) {
		server := newTestServer(t, &Ports{Baseline: &mockBaselineService{err: domain.ErrNotFound}})
		_, _, err := server.handleCompare(ctx, nil, CompareInput{AuthorID: "ghost"})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("service not configured", func(t *testing.T) {
		server := newTestServer(t, &Ports{})
		_, _, err := server.handleCompare(ctx, nil, CompareInput{})
		assert.ErrorIs(t, err, ErrServiceUnavailable)
	})
}

func TestServer_handleBuildBaseline(t *testing.T) {
	ctx := context.Background()
	baseline := &mockBaselineService{profile: &domain.BaselineProfile{
		AuthorID:      "alice",
		Samples:       make([]domain.BaselineSample, 3),
		ActiveSamples: 3,
		Confidence:    0.5,
	}}
	server := newTestServer(t, &Ports{Baseline: baseline})

	_, output, err := server.handleBuildBaseline(ctx, nil, BuildBaselineInput{AuthorID: "alice", Essays: []string{"a", "b", "c"}})

	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, baseline.lastEssays)
	assert.Equal(t, 3, output.Samples)
	assert.Equal(t, 0.5, output.Confidence)

	baseline.err = &domain.InsufficientDataError{AuthorID: "alice"}
	_, _, err = server.handleBuildBaseline(ctx, nil, BuildBaselineInput{AuthorID: "alice"})
	assert.ErrorIs(t, err, domain.ErrInsufficientData)
}

func TestServer_handleAssignBatch(t *testing.T) {
	ctx := context.Background()

	t.Run("maps the result", func(t *testing.T) {
		assignment := &mockAssignmentService{result: &domain.AssignmentResult{
			BatchID: "batch-1",
			Successful: []domain.AssignmentCandidate{
				{DocumentID: "d1", AuthorID: "alice", Confidence: 0.9, Alternatives: []string{"bob"}},
			},
			Failed: []domain.FailedAssignment{
				{
					DocumentID:      "d2",
					Reason:          domain.ReasonLowConfidence,
					PossibleMatches: []domain.AssignmentCandidate{{AuthorID: "bob", Confidence: 0.4}},
				},
			},
			Summary: domain.AssignmentSummary{Total: 2, Assigned: 1, Failed: 1, AverageConfidence: 0.9},
		}}
		server := newTestServer(t, &Ports{Assignment: assignment})

		input := AssignBatchInput{
			ClassID:   "7B",
			Threshold: 0.8,
			Documents: []DocumentInput{
				{ID: "d1", Text: "essay text"},
				{ID: "d2", Format: "pdf", ContentBase64: base64.StdEncoding.EncodeToString([]byte("%PDF-1.4"))},
			},
		}
		_, output, err := server.handleAssignBatch(ctx, nil, input)

		require.NoError(t, err)
		assert.Equal(t, "7B", assignment.lastClass)
		assert.Equal(t, 0.8, assignment.lastOpts.Threshold)
		require.Len(t, assignment.lastDocs, 2)
		assert.Equal(t, []byte("essay text"), assignment.lastDocs[0].Content)
		assert.Equal(t, []byte("%PDF-1.4"), assignment.lastDocs[1].Content)

		assert.Equal(t, "batch-1", output.BatchID)
		require.Len(t, output.Assigned, 1)
		assert.Equal(t, "alice", output.Assigned[0].AuthorID)
		assert.Equal(t, []string{"bob"}, output.Assigned[0].Alternatives)
		require.Len(t, output.Failed, 1)
		assert.Equal(t, domain.ReasonLowConfidence, output.Failed[0].Reason)
		require.Len(t, output.Failed[0].PossibleMatches, 1)
		assert.Equal(t, 2, output.Total)
	})

	t.Run("invalid base64", func(t *testing.T) {
		server := newTestServer(t, &Ports{Assignment: &mockAssignmentService{}})
		input := AssignBatchInput{ClassID: "7B", Documents: []DocumentInput{{ContentBase64: "%%%"}}}
		_, _, err := server.handleAssignBatch(ctx, nil, input)
		assert.ErrorContains(t, err, "decoding content")
	})

	t.Run("batch too large", func(t *testing.T) {
		server := newTestServer(t, &Ports{Assignment: &mockAssignmentService{err: domain.ErrBatchTooLarge}})
		_, _, err := server.handleAssignBatch(ctx, nil, AssignBatchInput{ClassID: "7B"})
		assert.ErrorIs(t, err, domain.ErrBatchTooLarge)
	})

	t.Run("service not configured", func(t *testing.T) {
		server := newTestServer(t, &Ports{})
		_, _, err := server.handleAssignBatch(ctx, nil, AssignBatchInput{})
		assert.ErrorIs(t, err, ErrServiceUnavailable)
	})
}
