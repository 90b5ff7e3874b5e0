package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"strings"

	"google.golang.org/genai"

	"hirelens/candidate-analyzer/internal/config"
	"hirelens/candidate-analyzer/internal/models"
	"hirelens/candidate-analyzer/internal/repositories"
	"hirelens/candidate-analyzer/internal/services"
)

func main() {
	log.Println("🚀 Starting analysis memory backfill...")

	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}
	evalRepo := repositories.NewEvaluationRepository(db)

	// Initialize services
	ctx := context.Background()
	genaiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.Gemini.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		log.Fatalf("❌ Failed to initialize Gemini: %v", err)
	}
	geminiService := services.NewGeminiService(
		genaiClient,
		cfg.Gemini.Model,
		cfg.Gemini.EmbedModel,
		cfg.Analysis.CompletionTimeout,
	)

	memoryService, err := services.NewMemoryService(cfg.Qdrant, geminiService)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Qdrant: %v", err)
	}

	if err := memoryService.InitCollection(); err != nil {
		log.Fatalf("❌ Failed to initialize collection: %v", err)
	}

	// Fetch completed evaluations
	evals, err := evalRepo.FindCompleted(500)
	if err != nil {
		log.Fatalf("❌ Failed to load completed evaluations: %v", err)
	}
	log.Printf("📋 Found %d completed evaluations", len(evals))

	successCount := 0
	failCount := 0

	for i, eval := range evals {
		log.Printf("\n📄 Processing: %s (%d/%d)", eval.ID, i+1, len(evals))

		verdict := verdictFromRecord(&eval)
		if verdict == nil {
			log.Printf("   ⚠️  Record has no verdict fields, skipping...")
			failCount++
			continue
		}

		callSummaries := map[string]string{}
		if eval.CallSummaries != nil && *eval.CallSummaries != "" {
			if err := json.Unmarshal([]byte(*eval.CallSummaries), &callSummaries); err != nil {
				log.Printf("   ⚠️  Failed to decode call summaries: %v", err)
			}
		}

		if err := memoryService.IndexEvaluation(ctx, eval.ID.String(), *verdict, callSummaries); err != nil {
			log.Printf("   ❌ Failed to index evaluation: %v", err)
			failCount++
			continue
		}

		log.Printf("   ✅ Indexed evaluation %s", eval.ID)
		successCount++
	}

	// Summary
	log.Println("\n" + strings.Repeat("=", 60))
	log.Printf("📊 Backfill Summary:")
	log.Printf("   ✅ Successful: %d evaluations", successCount)
	log.Printf("   ❌ Failed: %d evaluations", failCount)
	log.Println(strings.Repeat("=", 60))

	if failCount > 0 {
		log.Println("⚠️  Some evaluations failed to index. Please check the logs above.")
		os.Exit(1)
	}

	log.Println("✅ All completed evaluations indexed successfully!")
}

func verdictFromRecord(eval *models.Evaluation) *models.Verdict {
	if eval.Summary == nil || eval.Score == nil || eval.Decision == nil {
		return nil
	}

	verdict := &models.Verdict{
		Summary:  *eval.Summary,
		Score:    *eval.Score,
		Decision: models.Decision(*eval.Decision),
	}
	if eval.Reasons != nil {
		verdict.Reasons = *eval.Reasons
	}
	if eval.Comment != nil {
		verdict.Comment = *eval.Comment
	}
	return verdict
}
