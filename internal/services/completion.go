package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"google.golang.org/genai"

	"hirelens/candidate-analyzer/internal/models"
)

// CompletionService is the single wire boundary to the text-generation
// backend. One synchronous request per call, no retry, no streaming.
// Transport and backend errors come back as a CompletionFailure value, not
// as a Go error: callers check the failure and propagate it unchanged.
type CompletionService interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (*models.CompletionResult, *models.CompletionFailure)
}

type EmbeddingService interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

type geminiService struct {
	client     *genai.Client
	modelName  string
	embedModel string
	timeout    time.Duration
}

// NewGeminiService wraps an already-constructed genai client. The client is
// injected at startup so tests can substitute the whole service and no
// package-level state exists. Safe for concurrent use.
func NewGeminiService(client *genai.Client, modelName, embedModel string, timeout time.Duration) *geminiService {
	return &geminiService{
		client:     client,
		modelName:  modelName,
		embedModel: embedModel,
		timeout:    timeout,
	}
}

// Complete implements CompletionService.
func (g *geminiService) Complete(ctx context.Context, systemPrompt, userPrompt string) (*models.CompletionResult, *models.CompletionFailure) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	temperature := float32(0.2)
	cfg := &genai.GenerateContentConfig{
		Temperature:     &temperature,
		MaxOutputTokens: 4096,
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: systemPrompt}},
		},
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.modelName, genai.Text(userPrompt), cfg)
	if err != nil {
		log.Printf("❌ Gemini API error: %v\n", err)
		return nil, &models.CompletionFailure{
			Message: fmt.Sprintf("An error occurred while processing the request: %v", err),
		}
	}

	if resp == nil || len(resp.Candidates) == 0 {
		return nil, &models.CompletionFailure{Message: "no response generated (empty candidates)"}
	}

	text := resp.Text()
	if text == "" {
		return nil, &models.CompletionFailure{Message: "no text content in response"}
	}

	result := &models.CompletionResult{
		Text:         text,
		FinishReason: mapFinishReason(resp.Candidates[0].FinishReason),
	}
	if resp.UsageMetadata != nil {
		result.PromptTokens = int(resp.UsageMetadata.PromptTokenCount)
		result.CompletionTokens = int(resp.UsageMetadata.CandidatesTokenCount)
	}

	return result, nil
}

// GenerateEmbedding implements EmbeddingService.
func (g *geminiService) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	// Truncate text if too long (max ~10000 tokens for embedding)
	if len(text) > 40000 {
		text = text[:40000]
	}

	result, err := g.client.Models.EmbedContent(ctx, g.embedModel, genai.Text(text), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to generate embedding: %w", err)
	}

	if result == nil || len(result.Embeddings) == 0 {
		return nil, fmt.Errorf("empty embedding result")
	}

	return result.Embeddings[0].Values, nil
}

func mapFinishReason(reason genai.FinishReason) models.FinishReason {
	switch reason {
	case genai.FinishReasonStop:
		return models.FinishStop
	case genai.FinishReasonMaxTokens:
		return models.FinishLength
	default:
		return models.FinishOther
	}
}
