package bootstrap

import (
	"context"
	"log"
	"os"

	"github.com/Erlanda-Prasetio/ptsp-chatbot/internal/config"
	"github.com/Erlanda-Prasetio/ptsp-chatbot/internal/controller"
	"github.com/Erlanda-Prasetio/ptsp-chatbot/internal/model"
	"github.com/Erlanda-Prasetio/ptsp-chatbot/internal/pkg/logger"
	"github.com/Erlanda-Prasetio/ptsp-chatbot/internal/pkg/mailer"
	"github.com/Erlanda-Prasetio/ptsp-chatbot/internal/repository/cache"
	"github.com/Erlanda-Prasetio/ptsp-chatbot/internal/repository/implementation"
	"github.com/Erlanda-Prasetio/ptsp-chatbot/internal/repository/memory"
	"github.com/Erlanda-Prasetio/ptsp-chatbot/internal/service"
	"github.com/Erlanda-Prasetio/ptsp-chatbot/pkg/database"
	"github.com/Erlanda-Prasetio/ptsp-chatbot/pkg/embedding"
	"github.com/Erlanda-Prasetio/ptsp-chatbot/pkg/embedding/jina"
	"github.com/Erlanda-Prasetio/ptsp-chatbot/pkg/llm/factory"
	"github.com/Erlanda-Prasetio/ptsp-chatbot/pkg/rag/executor"
	"github.com/Erlanda-Prasetio/ptsp-chatbot/pkg/rag/expand"
	ragsearch "github.com/Erlanda-Prasetio/ptsp-chatbot/pkg/rag/search"
	"github.com/Erlanda-Prasetio/ptsp-chatbot/pkg/rerank"
	jinarerank "github.com/Erlanda-Prasetio/ptsp-chatbot/pkg/rerank/jina"
	"github.com/Erlanda-Prasetio/ptsp-chatbot/pkg/vectorstore"

	pktNats "github.com/Erlanda-Prasetio/ptsp-chatbot/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	ChatController     controller.IChatController
	IngestController   controller.IIngestController
	TrainingController controller.ITrainingController
	AuthController     controller.IAuthController
	HealthController   controller.IHealthController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// Shared handles main.go closes on shutdown
	Logger        logger.ILogger
	NatsPublisher *pktNats.Publisher
}

// NewContainer wires the whole application. db is the Postgres handle and may
// be nil when the local vector backend runs without a database; the training
// store then falls back to its SQLite file.
func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	ingestLogger := logger.NewIsolatedLogger(cfg.App.IngestLogFilePath)
	pipelineLog := log.New(os.Stdout, "", log.LstdFlags)

	var emailService mailer.IEmailService
	if cfg.SMTP.Host != "" {
		emailService = mailer.NewEmailService(
			cfg.SMTP.Host,
			cfg.SMTP.Port,
			cfg.SMTP.Email,
			cfg.SMTP.Password,
			cfg.SMTP.Email,
		)
	}

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// NATS (optional: ops events only, the app runs fine without it)
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}

	// Redis (optional: shared answer cache degrades to misses)
	var redisClient *redis.Client
	if opt, err := redis.ParseURL(cfg.App.RedisURL); err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v", err)
	} else {
		rdb := redis.NewClient(opt)
		if _, err := rdb.Ping(context.Background()).Result(); err != nil {
			log.Printf("[WARN] Failed to connect to Redis: %v", err)
		} else {
			redisClient = rdb
		}
	}
	answerCache := cache.NewAnswerCache(redisClient, cfg.Rag.CacheTTL())

	// 3. Retrieval Pipeline
	embeddingProvider := NewEmbeddingProvider(cfg)
	store, persister := NewVectorStore(db, cfg)
	pipeline := NewPipeline(cfg, store, embeddingProvider, pipelineLog)

	// 4. Training Store (Postgres when available, SQLite file otherwise)
	var trainingService service.ITrainingService
	trainingDB := db
	if trainingDB == nil {
		sqliteDB, err := database.NewSQLiteDB(cfg.Database.TrainingSQLitePath)
		if err != nil {
			log.Printf("[WARN] Training store unavailable (%v); trained answers disabled", err)
		} else {
			trainingDB = sqliteDB
		}
	}
	if trainingDB != nil {
		if err := trainingDB.AutoMigrate(&model.TrainingPair{}); err != nil {
			log.Printf("[WARN] Training table migration failed: %v", err)
		}
		trainingRepo := implementation.NewTrainingRepository(trainingDB)
		trainingService = service.NewTrainingService(trainingRepo, natsPub)
	}

	// 5. Services
	conversationRepo := memory.NewConversationRepository()

	publisherService := service.NewPublisherService(cfg.App.IngestTopic, pubSub)
	ingestService := service.NewIngestService(
		store,
		embeddingProvider,
		persister,
		cfg,
		emailService,
		natsPub,
		ingestLogger,
	)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.App.IngestTopic,
		ingestService,
	)

	chatService := service.NewChatService(
		trainingService,
		pipeline,
		conversationRepo,
		answerCache,
		natsPub,
		cfg,
	)
	authService := service.NewAuthService(cfg)

	// 6. Controllers
	container := &Container{
		ChatController:   controller.NewChatController(chatService),
		IngestController: controller.NewIngestController(ingestService, publisherService, cfg.App.UploadDir),
		AuthController:   controller.NewAuthController(authService),
		HealthController: controller.NewHealthController(store, answerCache, cfg),

		ConsumerService: consumerService,

		Logger:        sysLogger,
		NatsPublisher: natsPub,
	}
	if trainingService != nil {
		container.TrainingController = controller.NewTrainingController(trainingService)
	}
	return container
}

// NewEmbeddingProvider picks the embedding backend from config. Validate()
// already rejected unknown providers and missing keys. Exported because the
// ingest and debug CLIs build the same provider without the full container.
func NewEmbeddingProvider(cfg *config.Config) embedding.EmbeddingProvider {
	switch cfg.Ai.EmbeddingProvider {
	case "jina":
		log.Printf("[INFO] Using Embedding Provider: JINA AI")
		return jina.NewJinaProvider(cfg.Keys.Jina)
	case "openai":
		log.Printf("[INFO] Using Embedding Provider: OPENAI-compatible (%s)", cfg.Ai.EmbeddingModel)
		return embedding.NewOpenAIProvider(cfg.Keys.OpenAI, cfg.Ai.EmbeddingBaseURL, cfg.Ai.EmbeddingModel)
	case "gemini":
		log.Printf("[INFO] Using Embedding Provider: GEMINI (%s)", cfg.Ai.EmbeddingModel)
		return embedding.NewGeminiProvider(cfg.Keys.Gemini, cfg.Ai.EmbeddingBaseURL, cfg.Ai.EmbeddingModel)
	default:
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.EmbeddingModel)
		return embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.EmbeddingModel)
	}
}

// NewVectorStore builds the configured vector backend. The local flat-file
// store doubles as the persister; the pgvector store persists on every insert.
func NewVectorStore(db *gorm.DB, cfg *config.Config) (vectorstore.Store, service.Persister) {
	if cfg.Vector.Backend == "postgres" {
		if db == nil {
			log.Fatalf("[FATAL] Vector backend is postgres but no database connection was provided")
		}
		log.Printf("[INFO] Vector store: pgvector table %s", cfg.Vector.TableName)
		chunkRepo := implementation.NewChunkRepository(db, cfg.Vector.TableName)
		return implementation.NewPgVectorStore(chunkRepo, cfg.Vector.Dimension), nil
	}

	// Load tolerates absent artifacts (fresh deployment starts empty) but
	// refuses corrupt ones.
	localStore := vectorstore.NewLocalStore(cfg.Vector.StorePath, cfg.Vector.DocsPath)
	if err := localStore.Load(); err != nil {
		log.Fatalf("[FATAL] Failed to load vector store %s: %v", cfg.Vector.StorePath, err)
	}
	count, _ := localStore.Count(context.Background())
	log.Printf("[INFO] Vector store: local flat-file %s (%d chunks)", cfg.Vector.StorePath, count)
	return localStore, localStore
}

// NewPipeline assembles the answer pipeline: LLM provider, query expander,
// optional reranker, search orchestrator and the four-phase executor.
func NewPipeline(cfg *config.Config, store vectorstore.Store, embeddingProvider embedding.EmbeddingProvider, pipelineLog *log.Logger) *executor.PipelineExecutor {
	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		llmBaseURL(cfg),
		cfg.Keys.OpenRouter,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	var reranker rerank.Reranker
	if cfg.RerankEnabled() {
		reranker = jinarerank.NewJinaReranker(cfg.Keys.Jina)
		log.Printf("[INFO] Reranking enabled (Jina)")
	}

	orchestrator := ragsearch.NewOrchestrator(
		embeddingProvider,
		store,
		expand.NewExpander(),
		reranker,
		pipelineLog,
	)
	searchConfig := ragsearch.Config{
		TopK:         cfg.Rag.TopK,
		Threshold:    cfg.Rag.Threshold,
		FallbackTopN: ragsearch.DefaultConfig().FallbackTopN,
		RerankTopM:   ragsearch.DefaultConfig().RerankTopM,
	}

	return executor.NewPipelineExecutor(
		llmProvider,
		orchestrator,
		searchConfig,
		cfg.Rag.MaxContextTokens,
		pipelineLog,
	)
}

func llmBaseURL(cfg *config.Config) string {
	if cfg.Ai.LLMProvider == "ollama" {
		return cfg.Ai.OllamaBaseURL
	}
	return cfg.Ai.OpenRouterBaseURL
}
