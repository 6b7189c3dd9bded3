package services

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/penmark/internal/core/domain"
	"github.com/custodia-labs/penmark/internal/core/ports/driven"
	"github.com/custodia-labs/penmark/internal/core/ports/driving"
	"github.com/custodia-labs/penmark/internal/logger"
	"github.com/custodia-labs/penmark/internal/similarity"
	"github.com/custodia-labs/penmark/internal/tokenizer"
)

// Ensure AssignmentService implements the interface.
var _ driving.AssignmentService = (*AssignmentService)(nil)

// reasonAboveThreshold is attached to automatically assigned candidates.
const reasonAboveThreshold = "similarity above threshold"

// AssignmentService runs batches of scanned documents against a roster.
type AssignmentService struct {
	registry driven.NormaliserRegistry
	roster   driven.RosterProvider
	store    driven.AssignmentStore
	recorder driven.MetricsRecorder
	settings domain.AssignmentSettings
	now      func() time.Time
}

// NewAssignmentService creates an assignment service.
// The roster provider is only needed by AssignClass and may be nil.
func NewAssignmentService(
	registry driven.NormaliserRegistry,
	roster driven.RosterProvider,
	settings domain.AssignmentSettings,
) *AssignmentService {
	return &AssignmentService{
		registry: registry,
		roster:   roster,
		settings: settings,
		now:      time.Now,
	}
}

// SetAssignmentStore sets the optional store that records every outcome.
func (s *AssignmentService) SetAssignmentStore(store driven.AssignmentStore) {
	s.store = store
}

// SetMetricsRecorder sets the optional outcome and batch recorder.
func (s *AssignmentService) SetMetricsRecorder(recorder driven.MetricsRecorder) {
	s.recorder = recorder
}

// Assign ranks docs against roster.
func (s *AssignmentService) Assign(
	ctx context.Context,
	docs []domain.RawDocument,
	roster []domain.RosterCandidate,
	opts domain.AssignOptions,
) (*domain.AssignmentResult, error) {
	cfg, err := s.options(opts, len(docs))
	if err != nil {
		return nil, err
	}
	return s.run(ctx, "", docs, roster, cfg)
}

// AssignClass fetches the candidates of classID before ranking begins.
func (s *AssignmentService) AssignClass(
	ctx context.Context,
	classID string,
	docs []domain.RawDocument,
	opts domain.AssignOptions,
) (*domain.AssignmentResult, error) {
	if s.roster == nil {
		return nil, fmt.Errorf("assign class %s: no roster provider: %w", classID, domain.ErrInvalidInput)
	}
	cfg, err := s.options(opts, len(docs))
	if err != nil {
		return nil, err
	}

	candidates, err := s.roster.GetCandidates(ctx, classID)
	if err != nil {
		return nil, fmt.Errorf("fetch roster %s: %w", classID, err)
	}
	logger.Debug("class %s: %d candidates", classID, len(candidates))
	return s.run(ctx, classID, docs, candidates, cfg)
}

// Confirm manually assigns a document and records the new outcome.
func (s *AssignmentService) Confirm(
	ctx context.Context, state domain.BatchState, documentID, authorID string,
) (domain.BatchState, error) {
	next, err := state.Confirm(documentID, authorID)
	if err != nil {
		return state, err
	}
	outcome, _ := next.Outcome(documentID)
	if s.store != nil {
		if err := s.store.Record(ctx, state.BatchID, outcome); err != nil {
			return state, fmt.Errorf("record confirmation: %w", err)
		}
	}
	if s.recorder != nil {
		s.recorder.ObserveOutcome(outcome.Status(), outcome.(domain.Assigned).Candidate.Confidence)
	}
	logger.Info("batch %s: %s confirmed as %s", state.BatchID, documentID, authorID)
	return next, nil
}

// History returns the recorded outcomes of a batch.
func (s *AssignmentService) History(ctx context.Context, batchID string) ([]domain.DocumentOutcome, error) {
	if s.store == nil {
		return nil, fmt.Errorf("history: no assignment store: %w", domain.ErrInvalidInput)
	}
	outcomes, err := s.store.ListBatch(ctx, batchID)
	if err != nil {
		return nil, fmt.Errorf("history %s: %w", batchID, err)
	}
	return outcomes, nil
}

// options fills zero fields of opts from the engine settings and checks
// the batch against the resulting limits.
func (s *AssignmentService) options(opts domain.AssignOptions, size int) (domain.AssignOptions, error) {
	cfg := opts
	if cfg.Threshold < 0 {
		return cfg, fmt.Errorf("threshold %.2f below 0: %w", cfg.Threshold, domain.ErrInvalidInput)
	}
	if cfg.Threshold == 0 {
		cfg.Threshold = s.settings.Threshold
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = s.settings.Concurrency
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = runtime.GOMAXPROCS(0)
	}
	if cfg.MaxBatchSize <= 0 {
		cfg.MaxBatchSize = s.settings.MaxBatchSize
	}

	if cfg.Threshold > 1 {
		return cfg, fmt.Errorf("threshold %.2f above 1: %w", cfg.Threshold, domain.ErrInvalidInput)
	}
	if cfg.MaxBatchSize > 0 && size > cfg.MaxBatchSize {
		return cfg, fmt.Errorf("batch of %d documents exceeds limit of %d: %w", size, cfg.MaxBatchSize, domain.ErrBatchTooLarge)
	}
	return cfg, nil
}

func (s *AssignmentService) run(
	ctx context.Context,
	classID string,
	docs []domain.RawDocument,
	roster []domain.RosterCandidate,
	cfg domain.AssignOptions,
) (*domain.AssignmentResult, error) {
	ids, err := documentIDs(docs)
	if err != nil {
		return nil, err
	}

	start := s.now()
	batchID := uuid.NewString()
	logger.Section("Assignment")
	logger.Debug("batch %s: %d documents, %d candidates, threshold %.2f, %d workers",
		batchID, len(docs), len(roster), cfg.Threshold, cfg.Concurrency)

	outcomes := make([]domain.DocumentOutcome, len(docs))
	progress := &progressTracker{total: len(docs), report: cfg.OnProgress}

	var g errgroup.Group
	g.SetLimit(cfg.Concurrency)
	for i := range docs {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			outcome := s.process(ctx, ids[i], docs[i], roster, cfg.Threshold)
			if e, ok := outcome.(domain.Errored); ok && ctx.Err() != nil && errors.Is(e.Err, ctx.Err()) {
				return nil
			}
			outcomes[i] = outcome
			s.record(ctx, batchID, outcome)
			progress.advance(outcome)
			return nil
		})
	}
	_ = g.Wait()

	cancelled := 0
	for i, outcome := range outcomes {
		if outcome != nil {
			continue
		}
		outcome = domain.Unassigned{DocumentID: ids[i], Reason: domain.ReasonCancelled}
		outcomes[i] = outcome
		cancelled++
		s.record(ctx, batchID, outcome)
		progress.advance(outcome)
	}

	result := buildResult(batchID, classID, ids, outcomes, cancelled)
	elapsed := s.now().Sub(start)
	if s.recorder != nil {
		s.recorder.ObserveBatch(result.Summary, elapsed)
	}
	logger.Info("batch %s: %d assigned, %d failed, %d cancelled in %s",
		batchID, result.Summary.Assigned, result.Summary.Failed, cancelled, elapsed.Round(time.Millisecond))

	if cancelled > 0 {
		return result, ctx.Err()
	}
	return result, nil
}

// process runs one document through normalise, tokenize and rank.
func (s *AssignmentService) process(
	ctx context.Context,
	id string,
	raw domain.RawDocument,
	roster []domain.RosterCandidate,
	threshold float64,
) domain.DocumentOutcome {
	raw.ID = id
	normalized, err := s.registry.Normalise(ctx, &raw)
	if err != nil {
		logger.Warn("document %s: %v", id, err)
		return domain.Errored{
			DocumentID: id,
			Err:        &domain.ProcessingError{DocumentID: id, Stage: "normalize", Err: err},
		}
	}

	ranked := similarity.RankCandidates(id, tokenizer.Tokenize(normalized.Text), roster)
	best, ok := similarity.TopMatch(ranked, domain.MaxAlternatives)
	if !ok {
		return domain.Unassigned{DocumentID: id, Reason: domain.ReasonNoMatches}
	}
	if best.Confidence >= threshold {
		best.Reason = reasonAboveThreshold
		logger.Debug("document %s: assigned to %s (%.3f)", id, best.AuthorID, best.Confidence)
		return domain.Assigned{DocumentID: id, Candidate: best}
	}

	best.Reason = domain.ReasonLowConfidence
	n := min(len(ranked), domain.MaxAlternatives)
	matches := append([]domain.AssignmentCandidate(nil), ranked[:n]...)
	logger.Debug("document %s: best %s (%.3f) below threshold", id, best.AuthorID, best.Confidence)
	return domain.Predicted{DocumentID: id, Best: best, PossibleMatches: matches}
}

// record stores and observes an outcome. Failures are logged, never fatal.
func (s *AssignmentService) record(ctx context.Context, batchID string, outcome domain.DocumentOutcome) {
	if s.store != nil {
		if err := s.store.Record(context.WithoutCancel(ctx), batchID, outcome); err != nil {
			logger.Warn("record %s: %v", outcome.DocID(), err)
		}
	}
	if s.recorder != nil {
		s.recorder.ObserveOutcome(outcome.Status(), outcomeConfidence(outcome))
	}
}

// documentIDs returns the ID of every document, generating one for
// documents without. Duplicate IDs are rejected.
func documentIDs(docs []domain.RawDocument) ([]string, error) {
	ids := make([]string, len(docs))
	seen := make(map[string]struct{}, len(docs))
	for i, d := range docs {
		id := d.ID
		if id == "" {
			id = uuid.NewString()
		}
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("duplicate document id %q: %w", id, domain.ErrInvalidInput)
		}
		seen[id] = struct{}{}
		ids[i] = id
	}
	return ids, nil
}

func buildResult(
	batchID, classID string,
	ids []string,
	outcomes []domain.DocumentOutcome,
	cancelled int,
) *domain.AssignmentResult {
	result := &domain.AssignmentResult{
		BatchID:    batchID,
		Successful: []domain.AssignmentCandidate{},
		Failed:     []domain.FailedAssignment{},
		State: domain.BatchState{
			BatchID:  batchID,
			ClassID:  classID,
			Order:    ids,
			Outcomes: make(map[string]domain.DocumentOutcome, len(outcomes)),
		},
	}

	var total float64
	for _, outcome := range outcomes {
		result.State.Outcomes[outcome.DocID()] = outcome
		switch o := outcome.(type) {
		case domain.Assigned:
			result.Successful = append(result.Successful, o.Candidate)
			total += o.Candidate.Confidence
		case domain.Predicted:
			result.Failed = append(result.Failed, domain.FailedAssignment{
				DocumentID:      o.DocumentID,
				Reason:          domain.ReasonLowConfidence,
				PossibleMatches: o.PossibleMatches,
			})
		case domain.Unassigned:
			result.Failed = append(result.Failed, domain.FailedAssignment{
				DocumentID: o.DocumentID,
				Reason:     o.Reason,
			})
		case domain.Errored:
			result.Failed = append(result.Failed, domain.FailedAssignment{
				DocumentID: o.DocumentID,
				Reason:     o.Err.Error(),
				Err:        o.Err,
			})
		}
	}

	result.Summary = domain.AssignmentSummary{
		Total:     len(outcomes),
		Assigned:  len(result.Successful),
		Failed:    len(result.Failed),
		Cancelled: cancelled,
	}
	if n := len(result.Successful); n > 0 {
		result.Summary.AverageConfidence = total / float64(n)
	}
	return result
}

func outcomeConfidence(outcome domain.DocumentOutcome) float64 {
	switch o := outcome.(type) {
	case domain.Assigned:
		return o.Candidate.Confidence
	case domain.Predicted:
		return o.Best.Confidence
	}
	return 0
}

// progressTracker reports a monotonically increasing completion count.
type progressTracker struct {
	mu     sync.Mutex
	done   int
	total  int
	report func(domain.BatchProgress)
}

func (p *progressTracker) advance(outcome domain.DocumentOutcome) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.done++
	if p.report != nil {
		p.report(domain.BatchProgress{
			Completed:  p.done,
			Total:      p.total,
			DocumentID: outcome.DocID(),
			Status:     outcome.Status(),
		})
	}
}
