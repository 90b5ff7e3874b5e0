package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"hirelens/candidate-analyzer/internal/config"
	"hirelens/candidate-analyzer/internal/models"
)

var (
	ErrNoDocuments = errors.New("no documents linked to candidate")
	ErrNoNotes     = errors.New("no notes found for candidate")
)

// CRMService is the client for the CRM platform (Salesforce). The pipeline
// uses the candidate's first linked document (the resume) and the candidate
// notes; Query backs the generic passthrough endpoint.
type CRMService interface {
	Query(ctx context.Context, soql string) ([]map[string]any, error)
	GetNotes(ctx context.Context, candidateID string) ([]models.NoteRecord, error)
	GetFirstDocumentContent(ctx context.Context, candidateID string) ([]byte, error)
}

type salesforceService struct {
	cfg        config.SalesforceConfig
	httpClient *http.Client

	mu          sync.Mutex
	accessToken string
	instanceURL string
	tokenExpiry time.Time
}

func NewSalesforceService(cfg config.SalesforceConfig) CRMService {
	return &salesforceService{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

type queryResponse struct {
	TotalSize int              `json:"totalSize"`
	Done      bool             `json:"done"`
	Records   []map[string]any `json:"records"`
}

// Query implements CRMService.
func (s *salesforceService) Query(ctx context.Context, soql string) ([]map[string]any, error) {
	token, instance, err := s.token(ctx)
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/services/data/%s/query?q=%s", instance, s.cfg.APIVersion, url.QueryEscape(soql))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build query request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("salesforce query failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("salesforce query returned status %d: %s", resp.StatusCode, string(snippet))
	}

	var out queryResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode query response: %w", err)
	}
	return out.Records, nil
}

// GetNotes implements CRMService. Notes come back oldest first so the
// pipeline's take-first behavior is stable.
func (s *salesforceService) GetNotes(ctx context.Context, candidateID string) ([]models.NoteRecord, error) {
	soql := fmt.Sprintf(
		"SELECT Id, Title, Body FROM Note WHERE ParentId = '%s' ORDER BY CreatedDate ASC",
		escapeSOQL(candidateID),
	)
	records, err := s.Query(ctx, soql)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch candidate notes: %w", err)
	}

	notes := make([]models.NoteRecord, 0, len(records))
	for _, record := range records {
		notes = append(notes, models.NoteRecord{
			ID:    stringField(record, "Id"),
			Title: stringField(record, "Title"),
			Body:  stringField(record, "Body"),
		})
	}
	return notes, nil
}

// GetFirstDocumentContent implements CRMService. Resolves the first file
// linked to the candidate record and downloads its binary content.
func (s *salesforceService) GetFirstDocumentContent(ctx context.Context, candidateID string) ([]byte, error) {
	soql := fmt.Sprintf(
		"SELECT ContentDocument.LatestPublishedVersionId FROM ContentDocumentLink WHERE LinkedEntityId = '%s' ORDER BY ContentDocument.CreatedDate ASC LIMIT 1",
		escapeSOQL(candidateID),
	)
	records, err := s.Query(ctx, soql)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve candidate documents: %w", err)
	}
	if len(records) == 0 {
		return nil, ErrNoDocuments
	}

	versionID := ""
	if doc, ok := records[0]["ContentDocument"].(map[string]any); ok {
		versionID = stringField(doc, "LatestPublishedVersionId")
	}
	if versionID == "" {
		return nil, ErrNoDocuments
	}

	token, instance, err := s.token(ctx)
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/services/data/%s/sobjects/ContentVersion/%s/VersionData", instance, s.cfg.APIVersion, versionID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build version data request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download document content: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("version data returned status %d: %s", resp.StatusCode, string(snippet))
	}

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read document content: %w", err)
	}
	return content, nil
}

// token returns a cached access token, refreshing it via the OAuth2
// password grant when missing or near expiry.
func (s *salesforceService) token(ctx context.Context) (string, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.accessToken != "" && time.Now().Before(s.tokenExpiry) {
		return s.accessToken, s.instanceURL, nil
	}

	form := url.Values{}
	form.Set("grant_type", "password")
	form.Set("client_id", s.cfg.ClientID)
	form.Set("client_secret", s.cfg.ClientSecret)
	form.Set("username", s.cfg.Username)
	form.Set("password", s.cfg.Password+s.cfg.SecurityToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.LoginURL+"/services/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", "", fmt.Errorf("failed to build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("salesforce login failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", "", fmt.Errorf("salesforce login returned status %d: %s", resp.StatusCode, string(snippet))
	}

	var out struct {
		AccessToken string `json:"access_token"`
		InstanceURL string `json:"instance_url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", "", fmt.Errorf("failed to decode token response: %w", err)
	}
	if out.AccessToken == "" || out.InstanceURL == "" {
		return "", "", fmt.Errorf("salesforce login returned empty token")
	}

	s.accessToken = out.AccessToken
	s.instanceURL = out.InstanceURL
	// Session TTLs are org-configured; refresh well before the common 2h default.
	s.tokenExpiry = time.Now().Add(90 * time.Minute)

	return s.accessToken, s.instanceURL, nil
}

func escapeSOQL(value string) string {
	value = strings.ReplaceAll(value, `\`, `\\`)
	return strings.ReplaceAll(value, `'`, `\'`)
}

func stringField(record map[string]any, key string) string {
	if v, ok := record[key].(string); ok {
		return v
	}
	return ""
}
