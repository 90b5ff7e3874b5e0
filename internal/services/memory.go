package services

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"

	"hirelens/candidate-analyzer/internal/config"
	"hirelens/candidate-analyzer/internal/models"
)

// MemoryService stores completed analyses as embedded chunks so recruiters
// can look up similar past evaluations. It sits entirely outside the
// analysis pipeline: indexing runs after a verdict is persisted and its
// failures are never fatal.
type MemoryService interface {
	InitCollection() error
	IndexEvaluation(ctx context.Context, evaluationID string, verdict models.Verdict, callSummaries map[string]string) error
	DeleteEvaluation(ctx context.Context, evaluationID string) error
	SearchSimilar(ctx context.Context, query string, limit int) ([]models.SearchMatch, error)
}

type memoryService struct {
	client         *qdrant.Client
	embeddings     EmbeddingService
	chunker        TextChunker
	collectionName string
	vectorSize     uint64
}

func NewMemoryService(cfg config.QdrantConfig, embeddings EmbeddingService) (MemoryService, error) {
	// Parse URL to extract host, port, and TLS usage
	parsed, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid Qdrant URL: %w", err)
	}

	host := parsed.Hostname()
	useTLS := parsed.Scheme == "https"

	// For gRPC client, use port 6334 by default (gRPC port)
	port := 6334
	if p := parsed.Port(); p != "" {
		if v, err := strconv.Atoi(p); err == nil {
			port = v
		}
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   host,
		Port:   port,
		APIKey: cfg.APIKey,
		UseTLS: useTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client: %w", err)
	}

	return &memoryService{
		client:         client,
		embeddings:     embeddings,
		chunker:        NewTextChunker(),
		collectionName: cfg.Collection,
		vectorSize:     768, // text-embedding-004 dimensionality
	}, nil
}

// InitCollection implements MemoryService.
func (m *memoryService) InitCollection() error {
	ctx := context.Background()

	exists, err := m.client.CollectionExists(ctx, m.collectionName)
	if err != nil {
		return fmt.Errorf("failed to check collection: %w", err)
	}

	if exists {
		log.Println("✅ Memory collection already exists")
		return nil
	}

	err = m.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: m.collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     m.vectorSize,
			Distance: qdrant.Distance_Cosine,
		}),
	})

	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	log.Printf("✅ Qdrant collection '%s' created successfully\n", m.collectionName)
	return nil
}

// IndexEvaluation implements MemoryService. The verdict summary, reasons,
// and per-call conversation summaries are chunked, embedded, and upserted.
// Re-indexing the same evaluation first drops its previous chunks.
func (m *memoryService) IndexEvaluation(ctx context.Context, evaluationID string, verdict models.Verdict, callSummaries map[string]string) error {
	var parts []string
	parts = append(parts, fmt.Sprintf("Decision: %s (score %.1f)", verdict.Decision, verdict.Score))
	parts = append(parts, verdict.Summary, verdict.Reasons)
	for callID, summary := range callSummaries {
		parts = append(parts, fmt.Sprintf("Call %s summary:\n%s", callID, summary))
	}
	text := strings.Join(parts, "\n\n")

	if err := m.DeleteEvaluation(ctx, evaluationID); err != nil {
		return err
	}

	chunks := m.chunker.ChunkText(text, 1000, 200)
	for i, chunk := range chunks {
		embedding, err := m.embeddings.GenerateEmbedding(ctx, chunk)
		if err != nil {
			return fmt.Errorf("failed to embed chunk %d: %w", i, err)
		}

		point := &qdrant.PointStruct{
			Id:      qdrant.NewIDNum(uint64(uuid.New().ID())),
			Vectors: qdrant.NewVectors(embedding...),
			Payload: qdrant.NewValueMap(map[string]interface{}{
				"evaluation_id": evaluationID,
				"chunk":         int64(i),
				"text":          chunk,
			}),
		}

		_, err = m.client.Upsert(ctx, &qdrant.UpsertPoints{
			CollectionName: m.collectionName,
			Points:         []*qdrant.PointStruct{point},
		})
		if err != nil {
			return fmt.Errorf("failed to upsert chunk %d: %w", i, err)
		}
	}

	return nil
}

// DeleteEvaluation implements MemoryService.
func (m *memoryService) DeleteEvaluation(ctx context.Context, evaluationID string) error {
	filter := &qdrant.Filter{
		Must: []*qdrant.Condition{
			qdrant.NewMatch("evaluation_id", evaluationID),
		},
	}

	_, err := m.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: m.collectionName,
		Points: &qdrant.PointsSelector{
			PointsSelectorOneOf: &qdrant.PointsSelector_Filter{
				Filter: filter,
			},
		},
	})

	if err != nil {
		return fmt.Errorf("failed to delete evaluation chunks: %w", err)
	}

	return nil
}

// SearchSimilar implements MemoryService.
func (m *memoryService) SearchSimilar(ctx context.Context, query string, limit int) ([]models.SearchMatch, error) {
	embedding, err := m.embeddings.GenerateEmbedding(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	points, err := m.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: m.collectionName,
		Query:          qdrant.NewQuery(embedding...),
		Limit:          qdrant.PtrOf(uint64(limit)),
		WithPayload:    qdrant.NewWithPayload(true),
	})

	if err != nil {
		return nil, fmt.Errorf("failed to search: %w", err)
	}

	var matches []models.SearchMatch
	for _, point := range points {
		match := models.SearchMatch{Score: point.Score}

		if id, ok := point.Payload["evaluation_id"]; ok {
			if val, ok := id.GetKind().(*qdrant.Value_StringValue); ok {
				match.EvaluationID = val.StringValue
			}
		}
		if text, ok := point.Payload["text"]; ok {
			if val, ok := text.GetKind().(*qdrant.Value_StringValue); ok {
				match.Text = val.StringValue
			}
		}

		matches = append(matches, match)
	}

	return matches, nil
}
