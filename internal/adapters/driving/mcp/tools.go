package mcp

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/penmark/internal/core/domain"
)

// AnalyzeTextInput is the input schema for the analyze_text tool.
type AnalyzeTextInput struct {
	Text string `json:"text" jsonschema:"the text to measure"`
}

// AnalyzeTextOutput is the output schema for the analyze_text tool.
type AnalyzeTextOutput struct {
	Words                 int     `json:"words"`
	UniqueWords           int     `json:"unique_words"`
	AcademicWords         int     `json:"academic_words"`
	Sentences             int     `json:"sentences"`
	Paragraphs            int     `json:"paragraphs"`
	Diversity             float64 `json:"diversity"`
	Complexity            float64 `json:"complexity"`
	Sophistication        float64 `json:"sophistication"`
	AverageSentenceLength float64 `json:"average_sentence_length"`
	GradeLevel            float64 `json:"grade_level"`
	ReadingEase           float64 `json:"reading_ease"`
	Confidence            float64 `json:"confidence"`
}

// CompareInput is the input schema for the compare_to_baseline tool.
type CompareInput struct {
	AuthorID string `json:"author_id" jsonschema:"the author whose baseline to compare against"`
	Text     string `json:"text" jsonschema:"the new text"`
}

// CompareOutput is the output schema for the compare_to_baseline tool.
type CompareOutput struct {
	AuthorID         string   `json:"author_id"`
	Level            string   `json:"level"`
	Similarity       float64  `json:"similarity"`
	StyleDrift       float64  `json:"style_drift"`
	VocabularyShift  float64  `json:"vocabulary_shift"`
	GradeLevelChange float64  `json:"grade_level_change"`
	Flags            []string `json:"flags,omitempty"`
	AIProbability    *float64 `json:"ai_probability,omitempty"`
}

// BuildBaselineInput is the input schema for the build_baseline tool.
type BuildBaselineInput struct {
	AuthorID string   `json:"author_id" jsonschema:"the author the essays belong to"`
	Essays   []string `json:"essays" jsonschema:"earlier essays by the author"`
}

// BuildBaselineOutput is the output schema for the build_baseline tool.
type BuildBaselineOutput struct {
	AuthorID      string  `json:"author_id"`
	Samples       int     `json:"samples"`
	ActiveSamples int     `json:"active_samples"`
	Confidence    float64 `json:"confidence"`
}

// DocumentInput is one document of an assign_batch call.
type DocumentInput struct {
	ID            string `json:"id,omitempty" jsonschema:"document identifier, generated when empty"`
	Name          string `json:"name,omitempty" jsonschema:"original file name"`
	Format        string `json:"format,omitempty" jsonschema:"format hint such as pdf or text/plain"`
	Text          string `json:"text,omitempty" jsonschema:"plain text content"`
	ContentBase64 string `json:"content_base64,omitempty" jsonschema:"binary content, base64 encoded"`
}

// AssignBatchInput is the input schema for the assign_batch tool.
type AssignBatchInput struct {
	ClassID   string          `json:"class_id" jsonschema:"the class whose roster to match against"`
	Documents []DocumentInput `json:"documents" jsonschema:"the scanned documents"`
	Threshold float64         `json:"threshold,omitempty" jsonschema:"minimum similarity for auto-assignment (default 0.85)"`
}

// MatchOutput is one scored author.
type MatchOutput struct {
	AuthorID     string   `json:"author_id"`
	Confidence   float64  `json:"confidence"`
	Alternatives []string `json:"alternatives,omitempty"`
}

// AssignedOutput is an auto-assigned document.
type AssignedOutput struct {
	DocumentID   string   `json:"document_id"`
	AuthorID     string   `json:"author_id"`
	Confidence   float64  `json:"confidence"`
	Alternatives []string `json:"alternatives,omitempty"`
}

// FailedOutput is a document that was not assigned.
type FailedOutput struct {
	DocumentID      string        `json:"document_id"`
	Reason          string        `json:"reason"`
	PossibleMatches []MatchOutput `json:"possible_matches,omitempty"`
}

// AssignBatchOutput is the output schema for the assign_batch tool.
type AssignBatchOutput struct {
	BatchID           string           `json:"batch_id"`
	Assigned          []AssignedOutput `json:"assigned"`
	Failed            []FailedOutput   `json:"failed"`
	Total             int              `json:"total"`
	AverageConfidence float64          `json:"average_confidence"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "analyze_text",
		Description: "Measure vocabulary, style and readability of a text",
	}, s.handleAnalyzeText)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "compare_to_baseline",
		Description: "Compare a text with an author's writing baseline and grade the drift",
	}, s.handleCompare)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "build_baseline",
		Description: "Build an author's writing baseline from earlier essays",
	}, s.handleBuildBaseline)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "assign_batch",
		Description: "Assign scanned documents to the members of a class roster",
	}, s.handleAssignBatch)
}

// handleAnalyzeText handles the analyze_text tool invocation.
func (s *Server) handleAnalyzeText(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AnalyzeTextInput,
) (*mcp.CallToolResult, AnalyzeTextOutput, error) {
	m, err := s.ports.Analysis.AnalyzeText(ctx, input.Text)
	if err != nil {
		return nil, AnalyzeTextOutput{}, err
	}

	return nil, AnalyzeTextOutput{
		Words:                 m.Vocabulary.TotalWords,
		UniqueWords:           m.Vocabulary.UniqueWords,
		AcademicWords:         m.Vocabulary.AcademicWords,
		Sentences:             m.Style.SentenceCount,
		Paragraphs:            m.Style.ParagraphCount,
		Diversity:             m.Vocabulary.Diversity,
		Complexity:            m.Vocabulary.Complexity,
		Sophistication:        m.Vocabulary.Sophistication,
		AverageSentenceLength: m.Style.AverageSentenceLength,
		GradeLevel:            m.Readability.GradeLevel,
		ReadingEase:           m.Readability.ReadingEase,
		Confidence:            m.Confidence,
	}, nil
}

// handleCompare handles the compare_to_baseline tool invocation.
func (s *Server) handleCompare(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input CompareInput,
) (*mcp.CallToolResult, CompareOutput, error) {
	if s.ports.Baseline == nil {
		return nil, CompareOutput{}, ErrServiceUnavailable
	}

	c, err := s.ports.Baseline.CompareAuthor(ctx, input.AuthorID, input.Text)
	if err != nil {
		return nil, CompareOutput{}, err
	}

	return nil, CompareOutput{
		AuthorID:         c.AuthorID,
		Level:            string(c.Level),
		Similarity:       c.Similarity,
		StyleDrift:       c.StyleDrift,
		VocabularyShift:  c.VocabularyShift,
		GradeLevelChange: c.GradeLevelChange,
		Flags:            c.Flags,
		AIProbability:    c.AIProbability,
	}, nil
}

// handleBuildBaseline handles the build_baseline tool invocation.
func (s *Server) handleBuildBaseline(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input BuildBaselineInput,
) (*mcp.CallToolResult, BuildBaselineOutput, error) {
	if s.ports.Baseline == nil {
		return nil, BuildBaselineOutput{}, ErrServiceUnavailable
	}

	profile, err := s.ports.Baseline.BuildBaseline(ctx, input.AuthorID, input.Essays)
	if err != nil {
		return nil, BuildBaselineOutput{}, err
	}

	return nil, BuildBaselineOutput{
		AuthorID:      profile.AuthorID,
		Samples:       len(profile.Samples),
		ActiveSamples: profile.ActiveSamples,
		Confidence:    profile.Confidence,
	}, nil
}

// handleAssignBatch handles the assign_batch tool invocation.
func (s *Server) handleAssignBatch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AssignBatchInput,
) (*mcp.CallToolResult, AssignBatchOutput, error) {
	if s.ports.Assignment == nil {
		return nil, AssignBatchOutput{}, ErrServiceUnavailable
	}

	docs, err := toRawDocuments(input.Documents)
	if err != nil {
		return nil, AssignBatchOutput{}, err
	}

	opts := domain.AssignOptions{Threshold: input.Threshold}
	result, err := s.ports.Assignment.AssignClass(ctx, input.ClassID, docs, opts)
	if err != nil {
		return nil, AssignBatchOutput{}, err
	}

	output := AssignBatchOutput{
		BatchID:           result.BatchID,
		Assigned:          make([]AssignedOutput, len(result.Successful)),
		Failed:            make([]FailedOutput, len(result.Failed)),
		Total:             result.Summary.Total,
		AverageConfidence: result.Summary.AverageConfidence,
	}
	for i, a := range result.Successful {
		output.Assigned[i] = AssignedOutput{
			DocumentID:   a.DocumentID,
			AuthorID:     a.AuthorID,
			Confidence:   a.Confidence,
			Alternatives: a.Alternatives,
		}
	}
	for i, f := range result.Failed {
		output.Failed[i] = FailedOutput{DocumentID: f.DocumentID, Reason: f.Reason}
		for _, m := range f.PossibleMatches {
			output.Failed[i].PossibleMatches = append(output.Failed[i].PossibleMatches, toMatch(m))
		}
	}

	return nil, output, nil
}

func toMatch(c domain.AssignmentCandidate) MatchOutput {
	return MatchOutput{AuthorID: c.AuthorID, Confidence: c.Confidence, Alternatives: c.Alternatives}
}

func toRawDocuments(inputs []DocumentInput) ([]domain.RawDocument, error) {
	docs := make([]domain.RawDocument, len(inputs))
	for i, in := range inputs {
		content := []byte(in.Text)
		if in.ContentBase64 != "" {
			decoded, err := base64.StdEncoding.DecodeString(in.ContentBase64)
			if err != nil {
				return nil, fmt.Errorf("document %d: decoding content: %w", i, err)
			}
			content = decoded
		}
		docs[i] = domain.RawDocument{ID: in.ID, Name: in.Name, Format: in.Format, Content: content}
	}
	return docs, nil
}
