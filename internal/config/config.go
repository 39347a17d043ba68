package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Vector   VectorConfig
	Ai       AIConfig
	Rag      RagConfig
	SMTP     SMTPConfig
	Keys     APIKeys
	Admin    AdminConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	Environment        string
	LogFilePath        string
	IngestLogFilePath  string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	UploadDir          string
	IngestTopic        string
}

type DatabaseConfig struct {
	// Connection is the Postgres DSN. Empty means no Postgres: the vector
	// backend must be "local" and the training store falls back to SQLite.
	Connection string
	// TrainingSQLitePath is the SQLite file used for training pairs when no
	// Postgres connection is configured.
	TrainingSQLitePath string
}

type VectorConfig struct {
	Backend   string // "local" or "postgres"
	Dataset   string
	StorePath string // local backend: packed float32 vectors
	DocsPath  string // local backend: texts + metadata index
	TableName string // postgres backend
	Dimension int
}

type AIConfig struct {
	EmbeddingProvider string // "ollama", "jina", "openai" or "gemini"
	EmbeddingModel    string
	EmbeddingBaseURL  string // overrides the provider's default endpoint (vLLM, LM Studio, proxies)
	OllamaBaseURL     string
	LLMProvider       string // "openrouter" or "ollama"
	LLMModel          string
	OpenRouterBaseURL string
}

type RagConfig struct {
	TopK             int
	Threshold        float64
	MaxContextTokens int
	ChunkSize        int
	ChunkOverlap     int
	IngestWorkers    int
	MaxFileSizeMB    int64
	HistoryLimit     int
	CacheTTLMinutes  int
}

type SMTPConfig struct {
	Host       string
	Port       int
	Email      string
	Password   string
	SenderName string
	ReportTo   string // recipient for ingest summary reports; empty disables them
}

type APIKeys struct {
	OpenRouter string
	Jina       string
	OpenAI     string
	Gemini     string
	JWTSecret  string
}

type AdminConfig struct {
	Username string
	Password string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	dataset := datasetName(getEnv("DATASET_NAME", "default"))

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			IngestLogFilePath:  getEnv("INGEST_LOG_FILE_PATH", "logs/ingest.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			UploadDir:          getEnv("UPLOAD_DIR", "uploads"),
			IngestTopic:        getEnv("INGEST_DOCUMENT_TOPIC_NAME", "INGEST_DOCUMENT"),
		},
		Database: DatabaseConfig{
			Connection:         getEnv("DB_CONNECTION_STRING", ""),
			TrainingSQLitePath: getEnv("TRAINING_DB_PATH", "data/chatbot_training.db"),
		},
		Vector: VectorConfig{
			Backend:   strings.ToLower(getEnv("VECTOR_BACKEND", "local")),
			Dataset:   dataset,
			StorePath: getEnv("STORE_PATH", fmt.Sprintf("data/%s_vectors.bin", dataset)),
			DocsPath:  getEnv("DOCS_INDEX_PATH", fmt.Sprintf("data/%s_docs.json", dataset)),
			TableName: getEnv("PG_TABLE", fmt.Sprintf("rag_chunks_%s", dataset)),
			Dimension: getEnvAsInt("EMBEDDING_DIMENSION", 768),
		},
		Ai: AIConfig{
			EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", "ollama"),
			EmbeddingModel:    getEnv("EMB_MODEL", "nomic-embed-text"),
			EmbeddingBaseURL:  getEnv("EMBEDDING_BASE_URL", ""),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			LLMProvider:       getEnv("LLM_PROVIDER", "openrouter"),
			LLMModel:          getEnv("GEN_MODEL", "mistralai/mistral-small"),
			OpenRouterBaseURL: getEnv("OPENROUTER_BASE_URL", "https://openrouter.ai/api/v1"),
		},
		Rag: RagConfig{
			TopK:             getEnvAsInt("TOP_K", 8),
			Threshold:        getEnvAsFloat("SIMILARITY_THRESHOLD", 0.30),
			MaxContextTokens: getEnvAsInt("MAX_CONTEXT_TOKENS", 1600),
			ChunkSize:        getEnvAsInt("CHUNK_SIZE", 800),
			ChunkOverlap:     getEnvAsInt("CHUNK_OVERLAP", 100),
			IngestWorkers:    getEnvAsInt("INGEST_WORKERS", 4),
			MaxFileSizeMB:    int64(getEnvAsInt("INGEST_MAX_FILE_SIZE_MB", 50)),
			HistoryLimit:     getEnvAsInt("CHAT_HISTORY_LIMIT", 10),
			CacheTTLMinutes:  getEnvAsInt("ANSWER_CACHE_TTL_MINUTES", 60),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvAsInt("SMTP_PORT", 587),
			Email:      getEnv("SMTP_EMAIL", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			SenderName: getEnv("SMTP_SENDER_NAME", "PTSP Chatbot"),
			ReportTo:   getEnv("INGEST_REPORT_EMAIL", ""),
		},
		Keys: APIKeys{
			OpenRouter: getEnv("OPENROUTER_API_KEY", ""),
			Jina:       getEnv("JINA_API_KEY", ""),
			OpenAI:     getEnv("OPENAI_API_KEY", ""),
			Gemini:     getEnv("GEMINI_API_KEY", ""),
			JWTSecret:  getEnv("JWT_SECRET", ""),
		},
		Admin: AdminConfig{
			Username: getEnv("ADMIN_USERNAME", "admin"),
			Password: getEnv("ADMIN_PASSWORD", ""),
		},
	}
}

// Validate reports configuration combinations that cannot start: a selected
// provider or backend whose required settings are missing.
func (c *Config) Validate() error {
	switch c.Vector.Backend {
	case "local":
	case "postgres":
		if c.Database.Connection == "" {
			return fmt.Errorf("VECTOR_BACKEND=postgres requires DB_CONNECTION_STRING")
		}
	default:
		return fmt.Errorf("unknown VECTOR_BACKEND %q (expected \"local\" or \"postgres\")", c.Vector.Backend)
	}

	switch c.Ai.EmbeddingProvider {
	case "ollama", "openai":
	case "jina":
		if c.Keys.Jina == "" {
			return fmt.Errorf("EMBEDDING_PROVIDER=jina requires JINA_API_KEY")
		}
	case "gemini":
		if c.Keys.Gemini == "" {
			return fmt.Errorf("EMBEDDING_PROVIDER=gemini requires GEMINI_API_KEY")
		}
	default:
		return fmt.Errorf("unknown EMBEDDING_PROVIDER %q", c.Ai.EmbeddingProvider)
	}

	switch c.Ai.LLMProvider {
	case "ollama":
	case "openrouter":
		if c.Keys.OpenRouter == "" {
			return fmt.Errorf("LLM_PROVIDER=openrouter requires OPENROUTER_API_KEY")
		}
	default:
		return fmt.Errorf("unknown LLM_PROVIDER %q", c.Ai.LLMProvider)
	}

	if c.Rag.ChunkOverlap >= c.Rag.ChunkSize {
		return fmt.Errorf("CHUNK_OVERLAP (%d) must be smaller than CHUNK_SIZE (%d)", c.Rag.ChunkOverlap, c.Rag.ChunkSize)
	}
	return nil
}

// RerankEnabled reports whether the optional rerank stage is active. The
// feature rides entirely on presence of the Jina key.
func (c *Config) RerankEnabled() bool {
	return c.Keys.Jina != ""
}

// CacheTTL returns the answer cache lifetime.
func (r RagConfig) CacheTTL() time.Duration {
	return time.Duration(r.CacheTTLMinutes) * time.Minute
}

// datasetName normalizes DATASET_NAME the way the artifact paths expect:
// trimmed, spaces replaced with underscores.
func datasetName(raw string) string {
	name := strings.ReplaceAll(strings.TrimSpace(raw), " ", "_")
	if name == "" {
		return "default"
	}
	return name
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}
