package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"google.golang.org/genai"

	"hirelens/candidate-analyzer/internal/config"
	"hirelens/candidate-analyzer/internal/handlers"
	"hirelens/candidate-analyzer/internal/repositories"
	"hirelens/candidate-analyzer/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log.Println("✅ Config loaded successfully")

	// Initialize database
	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}

	// Initialize repositories
	evalRepo := repositories.NewEvaluationRepository(db)
	log.Println("✅ Repositories initialized successfully")

	// Initialize Gemini AI
	ctx := context.Background()
	genaiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.Gemini.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		log.Fatalf("❌ Failed to initialize Gemini AI: %v", err)
	}
	geminiService := services.NewGeminiService(
		genaiClient,
		cfg.Gemini.Model,
		cfg.Gemini.EmbedModel,
		cfg.Analysis.CompletionTimeout,
	)
	log.Println("✅ Gemini AI initialized successfully")

	// Initialize evidence services
	pdfParser := services.NewPDFParserService()
	gongService := services.NewGongService(cfg.Gong)
	salesforceService := services.NewSalesforceService(cfg.Salesforce)
	log.Println("✅ Evidence services initialized successfully")

	// Initialize analysis pipeline
	normalizer := services.NewEvidenceNormalizer()
	promptBuilder := services.NewPromptBuilder(cfg.Analysis)
	summarizer := services.NewConversationSummarizer(
		geminiService,
		normalizer,
		promptBuilder,
		cfg.Analysis.SummaryConcurrency,
	)
	verdictParser := services.NewVerdictParser()

	// Initialize analysis memory (Qdrant)
	memoryService, err := services.NewMemoryService(cfg.Qdrant, geminiService)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Qdrant: %v", err)
	}

	if err := memoryService.InitCollection(); err != nil {
		log.Fatalf("❌ Failed to initialize Qdrant collection: %v", err)
	}
	log.Println("✅ Qdrant initialized successfully")

	// Initialize analyzer
	analyzerService := services.NewAnalyzerService(
		evalRepo,
		salesforceService,
		gongService,
		pdfParser,
		normalizer,
		summarizer,
		promptBuilder,
		geminiService,
		verdictParser,
		memoryService,
		cfg.Analysis.NotesRequired,
	)
	log.Println("✅ Analyzer service initialized")

	// Initialize worker
	worker := services.NewWorker(
		evalRepo,
		analyzerService,
		cfg.Worker.Concurrency,
		cfg.Worker.PollInterval,
	)
	log.Println("✅ Worker initialized successfully")

	// Start worker
	worker.Start(ctx)
	log.Println("✅ Worker started successfully")

	// Initialize Handlers
	analyzeHandler := handlers.NewAnalyzeHandler(analyzerService)
	evaluationHandler := handlers.NewEvaluationHandler(evalRepo, worker)
	searchHandler := handlers.NewSearchHandler(memoryService)
	gongHandler := handlers.NewGongHandler(gongService)
	salesforceHandler := handlers.NewSalesforceHandler(salesforceService)
	log.Println("✅ Handlers initialized")

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Candidate Analyzer API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		ErrorHandler: customErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	// Routes
	api := app.Group("/api/v1")

	// Health check
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	// API endpoints
	api.Post("/candidate-analysis/analyze", analyzeHandler.HandleAnalyze)
	api.Post("/evaluations", evaluationHandler.HandleEvaluate)
	// The search route must be registered before the :id route so fiber
	// does not treat "search" as an evaluation ID.
	api.Get("/evaluations/search", searchHandler.HandleSearch)
	api.Get("/evaluations/:id", evaluationHandler.HandleGetResult)
	api.Get("/gong/users", gongHandler.HandleGetUsers)
	api.Get("/gong/calls", gongHandler.HandleGetCalls)
	api.Get("/gong/calls/:id/transcript", gongHandler.HandleGetTranscript)
	api.Get("/salesforce/query", salesforceHandler.HandleQuery)

	// Root route
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Candidate Analyzer API",
			"version": "1.0.0",
			"endpoints": []string{
				"POST /api/v1/candidate-analysis/analyze",
				"POST /api/v1/evaluations",
				"GET /api/v1/evaluations/:id",
				"GET /api/v1/evaluations/search",
				"GET /api/v1/gong/users",
				"GET /api/v1/gong/calls",
				"GET /api/v1/gong/calls/:id/transcript",
				"GET /api/v1/salesforce/query",
			},
		})
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("\n🛑 Shutting down server...")
		worker.Stop()
		if err := app.Shutdown(); err != nil {
			log.Printf("❌ Server forced to shutdown: %v", err)
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("🚀 Server starting on %s\n", addr)
	log.Printf("📖 API Documentation: http://localhost%s\n", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}

}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}
