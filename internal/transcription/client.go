// Package transcription submits audio to the AssemblyAI v2 API and polls
// the resulting job until it reaches a terminal state.
package transcription

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ethanbaker/carebridge/internal/faults"
	"github.com/ethanbaker/carebridge/pkg/utils"
)

const (
	defaultBaseURL = "https://api.assemblyai.com/v2"

	// Timeout for a single submit or poll round-trip, not the whole job
	requestTimeout = 30 * time.Second
)

// Status is the backend-reported lifecycle state of a transcription job
type Status string

const (
	StatusQueued     Status = "queued"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusError      Status = "error"
)

// Job is the transient state of one transcription request. It is never
// persisted; the runner discards it once a terminal status is consumed.
type Job struct {
	ID     string `json:"id"`
	Status Status `json:"status"`
	Text   string `json:"text"`
	Error  string `json:"error"`
}

// Client is a thin AssemblyAI HTTP client
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client from configuration. ASSEMBLYAI_BASE_URL is
// an override hook for tests.
func NewClient(cfg *utils.Config) *Client {
	return &Client{
		apiKey:     cfg.Get("ASSEMBLYAI_API_KEY"),
		baseURL:    cfg.GetWithDefault("ASSEMBLYAI_BASE_URL", defaultBaseURL),
		httpClient: &http.Client{Timeout: requestTimeout},
	}
}

// submitRequest posts either an explicit language code or the
// auto-detect flag, never both
type submitRequest struct {
	AudioURL          string `json:"audio_url"`
	LanguageCode      string `json:"language_code,omitempty"`
	LanguageDetection bool   `json:"language_detection,omitempty"`
}

// Submit creates a transcription job for the audio at audioURL and
// returns its job id. An empty languageHint asks the backend to detect
// the language. The credential is checked before any network call.
func (c *Client) Submit(ctx context.Context, audioURL, languageHint string) (string, error) {
	if c.apiKey == "" {
		return "", &faults.ConfigurationError{Service: "AssemblyAI", Key: "ASSEMBLYAI_API_KEY"}
	}

	body := submitRequest{AudioURL: audioURL}
	if languageHint != "" {
		body.LanguageCode = languageHint
	} else {
		body.LanguageDetection = true
	}

	b, err := json.Marshal(body)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/transcript", bytes.NewBuffer(b))
	if err != nil {
		return "", err
	}
	c.setHeaders(req)

	var job Job
	if err := c.do(req, &job); err != nil {
		return "", fmt.Errorf("failed to submit transcription: %w", err)
	}
	if job.ID == "" {
		return "", fmt.Errorf("transcription backend returned no job id")
	}

	return job.ID, nil
}

// Poll fetches the current state of a transcription job
func (c *Client) Poll(ctx context.Context, jobID string) (*Job, error) {
	if c.apiKey == "" {
		return nil, &faults.ConfigurationError{Service: "AssemblyAI", Key: "ASSEMBLYAI_API_KEY"}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/transcript/"+jobID, nil)
	if err != nil {
		return nil, err
	}
	c.setHeaders(req)

	var job Job
	if err := c.do(req, &job); err != nil {
		return nil, fmt.Errorf("failed to poll transcription job %s: %w", jobID, err)
	}

	return &job, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", c.apiKey)
	req.Header.Set("Content-Type", "application/json")
}

// do performs one round-trip and decodes the JSON response. Transport
// and status errors propagate to the caller; the runner treats them as
// fail-fast rather than "still processing".
func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("backend returned %d: %s", resp.StatusCode, string(body))
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
