package domain

import (
	"fmt"
	"time"
)

// MaxAlternatives bounds the alternatives and possible matches attached to
// an assignment.
const MaxAlternatives = 3

// Failure reasons recorded on FailedAssignment.
const (
	ReasonNoMatches     = "no matches found"
	ReasonLowConfidence = "low confidence match"
	ReasonCancelled     = "cancelled"
)

// RosterMember is a student enrolled in a class.
type RosterMember struct {
	ClassID  string
	AuthorID string
	Name     string
	AddedAt  time.Time
}

// RosterCandidate is an author that a document may be assigned to.
type RosterCandidate struct {
	AuthorID string
	Name     string
	Tokens   TokenSet
}

// AssignmentCandidate is a scored (document, author) pairing.
type AssignmentCandidate struct {
	DocumentID string
	AuthorID   string

	// Confidence is the similarity score in [0, 1].
	Confidence float64

	// Alternatives holds up to MaxAlternatives next-best author IDs.
	Alternatives []string

	Reason string
}

// FailedAssignment records a document that was not auto-assigned.
type FailedAssignment struct {
	DocumentID string
	Reason     string

	// PossibleMatches holds up to MaxAlternatives candidates.
	PossibleMatches []AssignmentCandidate

	// Err is set when the document failed with an error.
	Err error
}

// AssignmentSummary aggregates a batch run.
type AssignmentSummary struct {
	Total    int
	Assigned int
	Failed   int

	// Cancelled counts documents not processed because the run was cancelled.
	Cancelled int

	// AverageConfidence is the mean confidence over successful entries.
	AverageConfidence float64
}

// AssignmentResult is the outcome of a batch run.
// Invariant: len(Successful)+len(Failed) equals the number of input documents.
type AssignmentResult struct {
	BatchID    string
	Successful []AssignmentCandidate
	Failed     []FailedAssignment
	Summary    AssignmentSummary
	State      BatchState
}

// OutcomeStatus names the variant of a DocumentOutcome.
type OutcomeStatus string

// Outcome statuses.
const (
	StatusUnassigned OutcomeStatus = "unassigned"
	StatusPredicted  OutcomeStatus = "predicted"
	StatusAssigned   OutcomeStatus = "assigned"
	StatusError      OutcomeStatus = "error"
)

// DocumentOutcome is the per-document result of a batch run.
// The set of implementations is closed: Unassigned, Predicted, Assigned
// and Errored.
type DocumentOutcome interface {
	Status() OutcomeStatus
	DocID() string
	outcome()
}

// Unassigned is a document with no candidate match.
type Unassigned struct {
	DocumentID string
	Reason     string
}

// Predicted is a document whose best match fell below the threshold.
type Predicted struct {
	DocumentID      string
	Best            AssignmentCandidate
	PossibleMatches []AssignmentCandidate
}

// Assigned is a document attributed to an author.
type Assigned struct {
	DocumentID string
	Candidate  AssignmentCandidate

	// Manual is true when the assignment was confirmed by a person.
	Manual bool
}

// Errored is a document that failed to process.
type Errored struct {
	DocumentID string
	Err        error
}

func (u Unassigned) Status() OutcomeStatus { return StatusUnassigned }
func (u Unassigned) DocID() string         { return u.DocumentID }
func (Unassigned) outcome()                {}

func (p Predicted) Status() OutcomeStatus { return StatusPredicted }
func (p Predicted) DocID() string         { return p.DocumentID }
func (Predicted) outcome()                {}

func (a Assigned) Status() OutcomeStatus { return StatusAssigned }
func (a Assigned) DocID() string         { return a.DocumentID }
func (Assigned) outcome()                {}

func (e Errored) Status() OutcomeStatus { return StatusError }
func (e Errored) DocID() string         { return e.DocumentID }
func (Errored) outcome()                {}

// BatchState holds the outcomes of a batch run keyed by document ID.
// It is returned to callers and passed back for manual confirmation,
// so no session storage is needed.
type BatchState struct {
	BatchID string
	ClassID string

	// Order preserves the input order of document IDs.
	Order    []string
	Outcomes map[string]DocumentOutcome
}

// Outcome returns the outcome for a document.
func (s BatchState) Outcome(documentID string) (DocumentOutcome, bool) {
	o, ok := s.Outcomes[documentID]
	return o, ok
}

// Count returns the number of outcomes with the given status.
func (s BatchState) Count(status OutcomeStatus) int {
	n := 0
	for _, o := range s.Outcomes {
		if o.Status() == status {
			n++
		}
	}
	return n
}

// Confirm returns a new state in which the document is manually assigned
// to authorID. Only unassigned and predicted documents can be confirmed.
func (s BatchState) Confirm(documentID, authorID string) (BatchState, error) {
	if authorID == "" {
		return s, fmt.Errorf("confirm %s: empty author: %w", documentID, ErrInvalidInput)
	}
	current, ok := s.Outcomes[documentID]
	if !ok {
		return s, fmt.Errorf("confirm %s: %w", documentID, ErrNotFound)
	}

	candidate := AssignmentCandidate{
		DocumentID: documentID,
		AuthorID:   authorID,
		Reason:     "manually confirmed",
	}
	switch o := current.(type) {
	case Predicted:
		for _, m := range append([]AssignmentCandidate{o.Best}, o.PossibleMatches...) {
			if m.AuthorID == authorID {
				candidate.Confidence = m.Confidence
				break
			}
		}
	case Unassigned:
	default:
		return s, fmt.Errorf("confirm %s: document is %s: %w", documentID, current.Status(), ErrInvalidInput)
	}

	next := BatchState{
		BatchID:  s.BatchID,
		ClassID:  s.ClassID,
		Order:    append([]string(nil), s.Order...),
		Outcomes: make(map[string]DocumentOutcome, len(s.Outcomes)),
	}
	for k, v := range s.Outcomes {
		next.Outcomes[k] = v
	}
	next.Outcomes[documentID] = Assigned{DocumentID: documentID, Candidate: candidate, Manual: true}
	return next, nil
}

// BatchProgress reports how far a batch run has got.
type BatchProgress struct {
	// Completed is the number of documents with an outcome, including
	// cancelled ones. It never decreases within a run.
	Completed int
	Total     int

	// DocumentID and Status describe the outcome that was just produced.
	DocumentID string
	Status     OutcomeStatus
}

// AssignOptions tunes a single batch run. Zero values fall back to the
// engine settings.
type AssignOptions struct {
	// Threshold is the minimum similarity for auto-assignment, in (0, 1].
	// Zero uses the configured default; anything outside [0, 1] is rejected.
	Threshold float64

	// Concurrency bounds the worker pool.
	Concurrency int

	// MaxBatchSize rejects larger batches.
	MaxBatchSize int

	// OnProgress is called after every outcome, never concurrently.
	OnProgress func(BatchProgress)
}
