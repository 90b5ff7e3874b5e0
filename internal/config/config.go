package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Gong       GongConfig
	Salesforce SalesforceConfig
	Gemini     GeminiConfig
	Qdrant     QdrantConfig
	Analysis   AnalysisConfig
	Worker     WorkerConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

type GongConfig struct {
	BaseURL  string
	Username string
	Password string
	Timeout  time.Duration
}

type SalesforceConfig struct {
	LoginURL      string
	ClientID      string
	ClientSecret  string
	Username      string
	Password      string
	SecurityToken string
	APIVersion    string
	Timeout       time.Duration
}

type GeminiConfig struct {
	APIKey     string
	Model      string
	EmbedModel string
}

type QdrantConfig struct {
	URL        string
	APIKey     string
	Collection string
}

// AnalysisConfig tunes the candidate-analysis pipeline.
// NotesRequired picks the notes-failure policy: when true a CRM notes
// failure aborts the run, when false the run continues with empty notes.
// The Max*Chars budgets bound each prompt section before composition.
type AnalysisConfig struct {
	NotesRequired      bool
	MaxResumeChars     int
	MaxTranscriptChars int
	MaxNotesChars      int
	CompletionTimeout  time.Duration
	SummaryConcurrency int
}

type WorkerConfig struct {
	Concurrency  int
	PollInterval time.Duration
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Using default values.")
	}

	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "3000"),
			Env:  getEnv("ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "candidate_analyzer"),
		},
		Gong: GongConfig{
			BaseURL:  getEnv("GONG_BASE_URL", "https://api.gong.io"),
			Username: getEnv("GONG_USERNAME", ""),
			Password: getEnv("GONG_PASSWORD", ""),
			Timeout:  getEnvAsDuration("GONG_TIMEOUT", "30s"),
		},
		Salesforce: SalesforceConfig{
			LoginURL:      getEnv("SALESFORCE_LOGIN_URL", "https://login.salesforce.com"),
			ClientID:      getEnv("SALESFORCE_CLIENT_ID", ""),
			ClientSecret:  getEnv("SALESFORCE_CLIENT_SECRET", ""),
			Username:      getEnv("SALESFORCE_USERNAME", ""),
			Password:      getEnv("SALESFORCE_PASSWORD", ""),
			SecurityToken: getEnv("SALESFORCE_SECURITY_TOKEN", ""),
			APIVersion:    getEnv("SALESFORCE_API_VERSION", "v59.0"),
			Timeout:       getEnvAsDuration("SALESFORCE_TIMEOUT", "30s"),
		},
		Gemini: GeminiConfig{
			APIKey:     getEnv("GEMINI_API_KEY", ""),
			Model:      getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
			EmbedModel: getEnv("GEMINI_EMBED_MODEL", "text-embedding-004"),
		},
		Qdrant: QdrantConfig{
			URL:        getEnv("QDRANT_URL", "http://localhost:6333"),
			APIKey:     getEnv("QDRANT_API_KEY", ""),
			Collection: getEnv("QDRANT_COLLECTION", "analysis_memory"),
		},
		Analysis: AnalysisConfig{
			NotesRequired:      getEnvAsBool("NOTES_REQUIRED", false),
			MaxResumeChars:     getEnvAsInt("MAX_RESUME_CHARS", 20000),
			MaxTranscriptChars: getEnvAsInt("MAX_TRANSCRIPT_CHARS", 30000),
			MaxNotesChars:      getEnvAsInt("MAX_NOTES_CHARS", 8000),
			CompletionTimeout:  getEnvAsDuration("COMPLETION_TIMEOUT", "120s"),
			SummaryConcurrency: getEnvAsInt("SUMMARY_CONCURRENCY", 3),
		},
		Worker: WorkerConfig{
			Concurrency:  getEnvAsInt("WORKER_CONCURRENCY", 3),
			PollInterval: getEnvAsDuration("WORKER_POLL_INTERVAL", "10s"),
		},
	}
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}
