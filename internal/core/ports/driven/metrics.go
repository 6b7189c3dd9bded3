package driven

import (
	"time"

	"github.com/custodia-labs/penmark/internal/core/domain"
)

// MetricsRecorder receives engine telemetry.
// Implementations must be safe for concurrent use.
type MetricsRecorder interface {
	// ObserveOutcome records the outcome of one document in a batch.
	ObserveOutcome(status domain.OutcomeStatus, confidence float64)

	// ObserveBatch records a completed batch run.
	ObserveBatch(summary domain.AssignmentSummary, elapsed time.Duration)

	// ObserveAnalysis records one text analysis. cached is true on a cache hit.
	ObserveAnalysis(elapsed time.Duration, cached bool)
}
