// Package ollama provides an AI probability scorer backed by a local
// Ollama model.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"time"

	"github.com/custodia-labs/penmark/internal/core/ports/driven"
)

// Ensure Scorer implements the interface.
var _ driven.AIScorer = (*Scorer)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "http://localhost:11434"
	DefaultModel   = "llama3.2"
	DefaultTimeout = 60 * time.Second

	// maxPromptChars bounds the text sent to the model.
	maxPromptChars = 8000
)

// ErrNoScore is returned when the model reply holds no number.
var ErrNoScore = errors.New("ollama: reply contains no score")

// Config holds configuration for the Ollama scorer.
type Config struct {
	// BaseURL is the Ollama API base URL (default: http://localhost:11434).
	BaseURL string

	// Model is the model to ask (default: llama3.2).
	Model string

	// Timeout is the request timeout (default: 60s).
	Timeout time.Duration
}

// Scorer asks an Ollama model how likely a text is to be machine generated.
type Scorer struct {
	client  *http.Client
	baseURL string
	model   string
}

// generateRequest is the Ollama /api/generate request format.
type generateRequest struct {
	Model   string   `json:"model"`
	Prompt  string   `json:"prompt"`
	Stream  bool     `json:"stream"`
	Options *options `json:"options,omitempty"`
}

type options struct {
	NumPredict  int     `json:"num_predict,omitempty"`
	Temperature float64 `json:"temperature"`
}

// generateResponse is the Ollama /api/generate response format.
type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// New creates an Ollama scorer.
func New(cfg Config) *Scorer {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Scorer{
		client:  &http.Client{Timeout: cfg.Timeout},
		baseURL: cfg.BaseURL,
		model:   cfg.Model,
	}
}

const scorePrompt = `Estimate the probability that the following student essay was written by
an AI language model rather than by the student. Answer with a single
number between 0 and 1 and nothing else.

Essay:
%s

Probability:`

// Score returns the model's estimate in [0, 1].
func (s *Scorer) Score(ctx context.Context, text string) (float64, error) {
	if len(text) > maxPromptChars {
		text = text[:maxPromptChars]
	}

	reply, err := s.generate(ctx, fmt.Sprintf(scorePrompt, text))
	if err != nil {
		return 0, err
	}
	return parseScore(reply)
}

func (s *Scorer) generate(ctx context.Context, prompt string) (string, error) {
	reqBody := generateRequest{
		Model:   s.model,
		Prompt:  prompt,
		Stream:  false,
		Options: &options{NumPredict: 8, Temperature: 0},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		s.baseURL+"/api/generate",
		bytes.NewReader(jsonBody),
	)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return "", fmt.Errorf("ollama error (status %d): failed to read response", resp.StatusCode)
		}
		return "", fmt.Errorf("ollama error (status %d): %s", resp.StatusCode, string(body))
	}

	var genResp generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&genResp); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	return genResp.Response, nil
}

var numberPattern = regexp.MustCompile(`\d+(?:\.\d+)?%?`)

// parseScore reads the first number of reply. Percentages and values
// above 1 are scaled to [0, 1].
func parseScore(reply string) (float64, error) {
	m := numberPattern.FindString(reply)
	if m == "" {
		return 0, fmt.Errorf("%w: %q", ErrNoScore, reply)
	}

	percent := m[len(m)-1] == '%'
	if percent {
		m = m[:len(m)-1]
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrNoScore, reply)
	}
	if percent || v > 1 {
		v /= 100
	}
	return min(max(v, 0), 1), nil
}

// ModelName returns the name of the model being used.
func (s *Scorer) ModelName() string {
	return s.model
}

// Ping validates the service is reachable by checking the /api/tags endpoint.
func (s *Scorer) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/api/tags", http.NoBody)
	if err != nil {
		return fmt.Errorf("ollama: failed to create ping request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("ollama: ping failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ollama: API returned status %d", resp.StatusCode)
	}
	return nil
}
