package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"hirelens/candidate-analyzer/internal/config"
	"hirelens/candidate-analyzer/internal/models"
)

// CallRecordingService is the client for the call-recording platform
// (Gong). The pipeline only needs transcripts; users and calls listing back
// the passthrough endpoints.
type CallRecordingService interface {
	GetUsers(ctx context.Context) ([]models.GongUser, error)
	GetCallsByDateRange(ctx context.Context, from, to time.Time) ([]models.GongCall, error)
	GetCallTranscripts(ctx context.Context, callID string) ([]models.CallTranscript, error)
}

type gongService struct {
	baseURL    string
	username   string
	password   string
	httpClient *http.Client
}

func NewGongService(cfg config.GongConfig) CallRecordingService {
	return &gongService{
		baseURL:  cfg.BaseURL,
		username: cfg.Username,
		password: cfg.Password,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// GetUsers implements CallRecordingService.
func (g *gongService) GetUsers(ctx context.Context) ([]models.GongUser, error) {
	var out models.GongUsersResponse
	if err := g.doJSON(ctx, http.MethodGet, "/v2/users", nil, &out); err != nil {
		return nil, fmt.Errorf("failed to fetch gong users: %w", err)
	}
	return out.Users, nil
}

// GetCallsByDateRange implements CallRecordingService.
func (g *gongService) GetCallsByDateRange(ctx context.Context, from, to time.Time) ([]models.GongCall, error) {
	params := url.Values{}
	params.Set("fromDateTime", from.UTC().Format(time.RFC3339))
	params.Set("toDateTime", to.UTC().Format(time.RFC3339))

	var out models.GongCallsResponse
	if err := g.doJSON(ctx, http.MethodGet, "/v2/calls?"+params.Encode(), nil, &out); err != nil {
		return nil, fmt.Errorf("failed to fetch gong calls: %w", err)
	}
	return out.Calls, nil
}

// GetCallTranscripts implements CallRecordingService. One call id can yield
// several transcript entries.
func (g *gongService) GetCallTranscripts(ctx context.Context, callID string) ([]models.CallTranscript, error) {
	body := map[string]any{
		"filter": map[string]any{
			"callIds": []string{callID},
		},
	}

	var out models.TranscriptResponse
	if err := g.doJSON(ctx, http.MethodPost, "/v2/calls/transcript", body, &out); err != nil {
		return nil, fmt.Errorf("failed to fetch gong transcript for call %s: %w", callID, err)
	}
	return out.CallTranscripts, nil
}

func (g *gongService) doJSON(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.SetBasicAuth(g.username, g.password)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("gong api returned status %d: %s", resp.StatusCode, string(snippet))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
