package sdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/ethanbaker/api/pkg/api_types"
)

// Client wraps calls to the CareBridge backend
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 120 * time.Second},
	}
}

// SendMessage ingests a text message
func (c *Client) SendMessage(ctx context.Context, req *SendMessageRequest) (*SendMessageResponse, error) {
	var out ApiResponse[SendMessageResponse]
	if err := c.doJSON(ctx, http.MethodPost, "/api/messages/send", req, &out); err != nil {
		return nil, err
	}
	if err := out.asError(); err != nil {
		return nil, err
	}

	return &out.Data, nil
}

// SendAudio uploads a recorded message and ingests its transcription
func (c *Client) SendAudio(ctx context.Context, audio []byte, filename, role, language, targetLanguage, conversationID string) (*AudioMessageResponse, error) {
	// Build the multipart form
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(audio); err != nil {
		return nil, err
	}

	fields := map[string]string{
		"role":            role,
		"language":        language,
		"target_language": targetLanguage,
		"conversation_id": conversationID,
	}
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return nil, err
		}
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/messages/audio", &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	var out ApiResponse[AudioMessageResponse]
	if err := c.decode(req, &out); err != nil {
		return nil, err
	}
	if err := out.asError(); err != nil {
		return nil, err
	}

	return &out.Data, nil
}

// GetHistory retrieves a conversation's entries in chronological order
func (c *Client) GetHistory(ctx context.Context, conversationID string, limit int) (*HistoryResponse, error) {
	query := url.Values{}
	if conversationID != "" {
		query.Set("conversation_id", conversationID)
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	path := "/api/messages/history"
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var out ApiResponse[HistoryResponse]
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	if err := out.asError(); err != nil {
		return nil, err
	}

	return &out.Data, nil
}

// Search finds entries matching the query, newest first
func (c *Client) Search(ctx context.Context, req *SearchRequest) (*SearchResponse, error) {
	var out ApiResponse[SearchResponse]
	if err := c.doJSON(ctx, http.MethodPost, "/api/messages/search", req, &out); err != nil {
		return nil, err
	}
	if err := out.asError(); err != nil {
		return nil, err
	}

	return &out.Data, nil
}

// GenerateSummary builds a structured report for a conversation
func (c *Client) GenerateSummary(ctx context.Context, conversationID string) (*SummaryReport, error) {
	req := &SummaryRequest{ConversationID: conversationID}

	var out ApiResponse[SummaryReport]
	if err := c.doJSON(ctx, http.MethodPost, "/api/summary/generate", req, &out); err != nil {
		return nil, err
	}
	if err := out.asError(); err != nil {
		return nil, err
	}

	return &out.Data, nil
}

// Languages lists the language codes the backend can translate between
func (c *Client) Languages(ctx context.Context) (*LanguagesResponse, error) {
	var out ApiResponse[LanguagesResponse]
	if err := c.doJSON(ctx, http.MethodGet, "/api/languages", nil, &out); err != nil {
		return nil, err
	}
	if err := out.asError(); err != nil {
		return nil, err
	}

	return &out.Data, nil
}

// Health reports which backend collaborators are configured
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	var out ApiResponse[HealthResponse]
	if err := c.doJSON(ctx, http.MethodGet, "/api/health", nil, &out); err != nil {
		return nil, err
	}
	if err := out.asError(); err != nil {
		return nil, err
	}

	return &out.Data, nil
}

// asError converts a non-success envelope into an error
func (r ApiResponse[T]) asError() error {
	switch r.Status {
	case api_types.StatusFail:
		return fmt.Errorf("request failed: %s", r.Message)
	case api_types.StatusError:
		return fmt.Errorf("request error (%s): %v", r.Message, r.Error)
	}
	return nil
}

// doJSON is a helper to perform JSON requests to the backend
func (c *Client) doJSON(ctx context.Context, method, path string, in any, out any) error {
	// Create request body if input is provided
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewBuffer(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	return c.decode(req, out)
}

// decode performs the request and unmarshals the response envelope
func (c *Client) decode(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	// Error envelopes still decode; transport-level failures do not
	if out != nil {
		if err := json.Unmarshal(b, out); err != nil {
			return fmt.Errorf("backend '%s %s' returned %d: %s", req.Method, req.URL.Path, resp.StatusCode, string(b))
		}
	}

	return nil
}
