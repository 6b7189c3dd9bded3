package telemetry

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/custodia-labs/penmark/internal/core/domain"
	"github.com/custodia-labs/penmark/internal/core/ports/driven"
)

// Verify interface compliance.
var _ driven.MetricsRecorder = (*Recorder)(nil)

const namespace = "penmark"

// Recorder implements driven.MetricsRecorder on a private Prometheus registry.
type Recorder struct {
	registry *prometheus.Registry

	outcomes     *prometheus.CounterVec
	confidence   prometheus.Histogram
	batches      prometheus.Counter
	batchTime    prometheus.Histogram
	cancelled    prometheus.Counter
	analyses     *prometheus.CounterVec
	analysisTime prometheus.Histogram
}

// NewRecorder creates a recorder and registers its collectors.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "document_outcomes_total",
			Help:      "Documents processed by outcome status.",
		}, []string{"status"}),
		confidence: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "match_confidence",
			Help:      "Best-match similarity of assigned and predicted documents.",
			Buckets:   prometheus.LinearBuckets(0.1, 0.1, 10),
		}),
		batches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batches_total",
			Help:      "Completed batch runs.",
		}),
		batchTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_duration_seconds",
			Help:      "Wall time of batch runs.",
			Buckets:   prometheus.DefBuckets,
		}),
		cancelled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "documents_cancelled_total",
			Help:      "Documents skipped because a batch was cancelled.",
		}),
		analyses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analyses_total",
			Help:      "Text analyses by cache result.",
		}, []string{"cache"}),
		analysisTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "analysis_duration_seconds",
			Help:      "Time spent measuring a text.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
	}
	r.registry.MustRegister(
		r.outcomes, r.confidence, r.batches, r.batchTime, r.cancelled, r.analyses, r.analysisTime,
	)
	return r
}

// ObserveOutcome counts one document outcome.
func (r *Recorder) ObserveOutcome(status domain.OutcomeStatus, confidence float64) {
	r.outcomes.WithLabelValues(string(status)).Inc()
	if status == domain.StatusAssigned || status == domain.StatusPredicted {
		r.confidence.Observe(confidence)
	}
}

// ObserveBatch records a completed batch run.
func (r *Recorder) ObserveBatch(summary domain.AssignmentSummary, elapsed time.Duration) {
	r.batches.Inc()
	r.batchTime.Observe(elapsed.Seconds())
	r.cancelled.Add(float64(summary.Cancelled))
}

// ObserveAnalysis records one text analysis.
func (r *Recorder) ObserveAnalysis(elapsed time.Duration, cached bool) {
	label := "miss"
	if cached {
		label = "hit"
	}
	r.analyses.WithLabelValues(label).Inc()
	r.analysisTime.Observe(elapsed.Seconds())
}

// Registry returns the registry holding the recorder's collectors.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the collected metrics in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
