// Package client provides a small Go client for the job status API, used by
// internal tools and tests that need to wait for background jobs.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultPollInterval = 2 * time.Second

// JobStatus mirrors the job status API response payload.
type JobStatus struct {
	Id           string                 `json:"id"`
	Type         string                 `json:"type"`
	Status       string                 `json:"status"`
	Progress     *float64               `json:"progress,omitempty"`
	CurrentStep  *string                `json:"current_step,omitempty"`
	Result       map[string]interface{} `json:"result,omitempty"`
	ErrorCode    *string                `json:"error_code,omitempty"`
	ErrorMessage *string                `json:"error_message,omitempty"`
}

// IsTerminal reports whether the job has finished, either way.
func (s *JobStatus) IsTerminal() bool {
	return s.Status == "SUCCEEDED" || s.Status == "FAILED"
}

type envelope struct {
	Success bool       `json:"success"`
	Message string     `json:"message"`
	Data    *JobStatus `json:"data"`
}

// JobPoller polls the job status endpoint at a fixed interval until the job
// reaches a terminal state or the context is cancelled.
type JobPoller struct {
	BaseURL  string
	Token    string
	Interval time.Duration
	Client   *http.Client
}

func NewJobPoller(baseURL, token string) *JobPoller {
	return &JobPoller{
		BaseURL:  baseURL,
		Token:    token,
		Interval: defaultPollInterval,
		Client:   &http.Client{Timeout: 10 * time.Second},
	}
}

// Fetch retrieves the current status of one job.
func (p *JobPoller) Fetch(ctx context.Context, jobId string) (*JobStatus, error) {
	url := fmt.Sprintf("%s/api/job/v1/%s", p.BaseURL, jobId)
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, err
	}
	if p.Token != "" {
		req.Header.Set("Authorization", "Bearer "+p.Token)
	}

	res, err := p.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("job status request failed: status %d, body %s", res.StatusCode, string(body))
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("failed to decode job status: %w", err)
	}
	if env.Data == nil {
		return nil, fmt.Errorf("job status response missing data")
	}

	return env.Data, nil
}

// Wait polls until the job is terminal and returns its final status.
// Transient fetch errors are returned immediately; callers who want retries
// wrap Wait themselves.
func (p *JobPoller) Wait(ctx context.Context, jobId string) (*JobStatus, error) {
	interval := p.Interval
	if interval <= 0 {
		interval = defaultPollInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		status, err := p.Fetch(ctx, jobId)
		if err != nil {
			return nil, err
		}
		if status.IsTerminal() {
			return status, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}
