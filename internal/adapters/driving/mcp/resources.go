package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// URIScheme is the custom URI scheme for penmark resources.
	uriScheme = "penmark://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource for listing baselines.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "baselines",
		Name:        "baselines",
		Description: "Authors with a writing baseline",
		MIMEType:    "application/json",
	}, s.handleBaselinesResource)

	// Template for a single baseline.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "baselines/{authorId}",
		Name:        "baseline",
		Description: "Aggregate metrics of an author's baseline",
		MIMEType:    "application/json",
	}, s.handleBaselineResource)

	// Template for recorded batch outcomes.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "batches/{batchId}",
		Name:        "batch",
		Description: "Recorded outcomes of an assignment batch",
		MIMEType:    "application/json",
	}, s.handleBatchResource)
}

// baselineInfo is the JSON form of a baseline summary.
type baselineInfo struct {
	AuthorID      string  `json:"author_id"`
	Samples       int     `json:"samples"`
	ActiveSamples int     `json:"active_samples"`
	Confidence    float64 `json:"confidence"`
	LastUpdated   string  `json:"last_updated"`
}

// handleBaselinesResource lists every baseline.
func (s *Server) handleBaselinesResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Baseline == nil {
		return jsonResult(req.Params.URI, []baselineInfo{})
	}

	profiles, err := s.ports.Baseline.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing baselines: %w", err)
	}

	infos := make([]baselineInfo, len(profiles))
	for i, p := range profiles {
		infos[i] = baselineInfo{
			AuthorID:      p.AuthorID,
			Samples:       len(p.Samples),
			ActiveSamples: p.ActiveSamples,
			Confidence:    p.Confidence,
			LastUpdated:   p.LastUpdated.UTC().Format("2006-01-02T15:04:05Z"),
		}
	}
	return jsonResult(req.Params.URI, infos)
}

// handleBaselineResource returns the aggregate of one baseline.
func (s *Server) handleBaselineResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	authorID := extractID(req.Params.URI, "baselines/")
	if s.ports.Baseline == nil || authorID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	profile, err := s.ports.Baseline.Get(ctx, authorID)
	if err != nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	return jsonResult(req.Params.URI, struct {
		baselineInfo
		Aggregate any `json:"aggregate"`
	}{
		baselineInfo: baselineInfo{
			AuthorID:      profile.AuthorID,
			Samples:       len(profile.Samples),
			ActiveSamples: profile.ActiveSamples,
			Confidence:    profile.Confidence,
			LastUpdated:   profile.LastUpdated.UTC().Format("2006-01-02T15:04:05Z"),
		},
		Aggregate: profile.Aggregate,
	})
}

// handleBatchResource returns the recorded outcomes of a batch.
func (s *Server) handleBatchResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	batchID := extractID(req.Params.URI, "batches/")
	if s.ports.Assignment == nil || batchID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	outcomes, err := s.ports.Assignment.History(ctx, batchID)
	if err != nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	type outcomeInfo struct {
		DocumentID string `json:"document_id"`
		Status     string `json:"status"`
	}
	infos := make([]outcomeInfo, len(outcomes))
	for i, o := range outcomes {
		infos[i] = outcomeInfo{DocumentID: o.DocID(), Status: string(o.Status())}
	}
	return jsonResult(req.Params.URI, infos)
}

func jsonResult(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling resource: %w", err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractID extracts the trailing ID from a URI like penmark://{kind}{id}.
func extractID(uri, kind string) string {
	prefix := uriScheme + kind
	if !strings.HasPrefix(uri, prefix) {
		return ""
	}
	id := strings.TrimPrefix(uri, prefix)
	if strings.Contains(id, "/") {
		return ""
	}
	return id
}
