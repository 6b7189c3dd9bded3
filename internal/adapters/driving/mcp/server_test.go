package mcp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServer(t *testing.T) {
	t.Run("nil analysis service returns error", func(t *testing.T) {
		ports := &Ports{}
		server, err := NewServer(ports)
		require.Error(t, err)
		assert.Nil(t, server)
		assert.ErrorIs(t, err, ErrMissingAnalysisService)
	})

	t.Run("valid ports creates server", func(t *testing.T) {
		ports := &Ports{
			Analysis: &mockAnalysisService{},
		}
		server, err := NewServer(ports)
		require.NoError(t, err)
		assert.NotNil(t, server)
	})
}

func TestPorts_Validate(t *testing.T) {
	t.Run("nil analysis service returns error", func(t *testing.T) {
		ports := &Ports{}
		err := ports.Validate()
		assert.ErrorIs(t, err, ErrMissingAnalysisService)
	})

	t.Run("analysis only is valid", func(t *testing.T) {
		ports := &Ports{
			Analysis: &mockAnalysisService{},
		}
		err := ports.Validate()
		assert.NoError(t, err)
	})

	t.Run("all ports is valid", func(t *testing.T) {
		ports := &Ports{
			Analysis:   &mockAnalysisService{},
			Baseline:   &mockBaselineService{},
			Assignment: &mockAssignmentService{},
		}
		err := ports.Validate()
		assert.NoError(t, err)
	})
}

func TestInstructions(t *testing.T) {
	t.Run("analysis only", func(t *testing.T) {
		text := instructions(&Ports{Analysis: &mockAnalysisService{}})
		assert.Contains(t, text, "analyze_text")
		assert.NotContains(t, text, "build_baseline")
		assert.NotContains(t, text, "assign_batch")
	})

	t.Run("all ports", func(t *testing.T) {
		text := instructions(&Ports{
			Analysis:   &mockAnalysisService{},
			Baseline:   &mockBaselineService{},
			Assignment: &mockAssignmentService{},
		})
		for _, tool := range []string{"analyze_text", "build_baseline", "compare_to_baseline", "assign_batch"} {
			assert.Contains(t, text, tool)
		}
		assert.Contains(t, text, uriScheme+"baselines")
		assert.Contains(t, text, uriScheme+"batches/{batchId}")
	})
}
