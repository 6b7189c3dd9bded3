package driven

import "context"

// AIScorer estimates the probability that a text was machine generated.
// The ollama scorer adapter is one implementation; integrators may plug in
// their own model.
type AIScorer interface {
	// Score returns a probability in [0, 1].
	Score(ctx context.Context, text string) (float64, error)
}
