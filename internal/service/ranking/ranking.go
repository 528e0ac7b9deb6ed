// Package ranking provides read-only access to the CV ranking collaborator.
package ranking

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Provider supplies the CV screening score (0-100) for a candidate on a
// job posting. A missing score is reported as 0 with a nil error.
type Provider interface {
	CVScore(ctx context.Context, candidateID, jobID string) (float64, error)
}

// Client fetches cv_score from the ranking service over HTTP.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a ranking client. baseURL is the ranking service root.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
	}
}

// CVScore looks up the candidate's screening score. A 404 means the
// candidate was never screened and scores as 0.
func (c *Client) CVScore(ctx context.Context, candidateID, jobID string) (float64, error) {
	u := fmt.Sprintf("%s/v1/rankings?candidate_id=%s&job_posting_id=%s",
		c.baseURL, url.QueryEscape(candidateID), url.QueryEscape(jobID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return 0, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("ranking request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		log.Debug().Str("candidateId", candidateID).Msg("No CV ranking for candidate")
		return 0, nil
	}
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("ranking status %d", resp.StatusCode)
	}

	var body struct {
		CVScore float64 `json:"cv_score"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, fmt.Errorf("ranking decode: %w", err)
	}
	return body.CVScore, nil
}

// Static is an in-memory Provider for tests and single-node development.
type Static struct {
	mu     sync.RWMutex
	scores map[string]float64 // keyed by candidateID
}

// NewStatic creates an empty static provider.
func NewStatic() *Static {
	return &Static{scores: make(map[string]float64)}
}

// Set records a candidate's score.
func (s *Static) Set(candidateID string, score float64) {
	s.mu.Lock()
	s.scores[candidateID] = score
	s.mu.Unlock()
}

// CVScore returns the recorded score, or 0 when absent.
func (s *Static) CVScore(ctx context.Context, candidateID, jobID string) (float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.scores[candidateID], nil
}
