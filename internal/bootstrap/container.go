package bootstrap

import (
	"context"
	"log"
	"os"

	"ai-filesearch-be/internal/config"
	"ai-filesearch-be/internal/controller"
	"ai-filesearch-be/internal/handler"
	"ai-filesearch-be/internal/pkg/logger"
	"ai-filesearch-be/internal/repository/implementation"
	"ai-filesearch-be/internal/repository/unitofwork"
	"ai-filesearch-be/internal/service"
	"ai-filesearch-be/internal/websocket"
	"ai-filesearch-be/pkg/embedding"
	"ai-filesearch-be/pkg/embedding/jina"
	"ai-filesearch-be/pkg/llm/factory"
	"ai-filesearch-be/pkg/rag/convo"
	"ai-filesearch-be/pkg/rag/executor"
	"ai-filesearch-be/pkg/rag/expand"
	"ai-filesearch-be/pkg/search"

	pktNats "ai-filesearch-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	ChatController   controller.IChatController
	SearchController controller.ISearchController
	StatusController controller.IStatusController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// WebSockets
	EventHandler *handler.EventHandler
	WebSocketHub *websocket.Hub
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. AI Providers
	// Initialize Embedding Provider based on Config
	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.OllamaModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	} else if cfg.Ai.EmbeddingProvider == "jina" {
		embeddingProvider = jina.NewJinaProvider(cfg.Keys.Jina)
		log.Printf("[INFO] Using Embedding Provider: JINA AI")
	} else {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Keys.Gemini)
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
	}

	// Initialize LLM Provider based on Config
	llmFactoryCfg := factory.Config{
		Provider:         cfg.Ai.LLMProvider,
		ModelName:        cfg.Ai.LLMModel,
		OllamaBaseURL:    cfg.Ai.OllamaBaseURL,
		OpenRouterURL:    cfg.Ai.OpenRouterBaseURL,
		OpenRouterAPIKey: cfg.Keys.OpenRouter,
	}
	llmProvider, err := factory.NewLLMProvider(llmFactoryCfg)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	resolvedLLMProvider := factory.ResolveProvider(llmFactoryCfg)
	log.Printf("[INFO] Using LLM Provider: %s (%s)", resolvedLLMProvider, cfg.Ai.LLMModel)

	// Synonym table for query expansion
	synonyms := expand.DefaultTable()
	if cfg.Ai.SynonymTablePath != "" {
		loaded, lerr := expand.LoadTable(cfg.Ai.SynonymTablePath)
		if lerr != nil {
			log.Printf("[WARN] Failed to load synonym table from %s: %v. Using builtin table", cfg.Ai.SynonymTablePath, lerr)
		} else {
			synonyms = loaded
		}
	}

	// Retrieval layer shared by chat and search
	ragLogger := log.New(os.Stdout, "[RAG] ", log.LstdFlags)
	fileDocRepo := implementation.NewFileDocumentRepository(db)
	searcher := search.NewPgVectorSearcher(fileDocRepo, embeddingProvider, ragLogger, search.DefaultAdapterConfig())

	convoCfg := convo.DefaultConfig()
	if cfg.Pipeline.ContextTurns > 0 {
		convoCfg.MaxTurns = cfg.Pipeline.ContextTurns
	}
	convoStore := convo.NewStore(ragLogger, convoCfg)

	// 3.5 Infrastructure
	// NATS (optional; with no URL turn events stay in-process only)
	var natsPub *pktNats.Publisher
	if cfg.App.NatsURL != "" {
		natsPub, err = pktNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		}
	}

	// Redis (optional; with no URL websocket delivery is single-instance)
	var rdb *redis.Client
	if cfg.App.RedisURL != "" {
		opt, perr := redis.ParseURL(cfg.App.RedisURL)
		if perr != nil {
			log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", perr)
			opt = &redis.Options{
				Addr: cfg.App.RedisURL,
			}
		}
		rdb = redis.NewClient(opt)
		if _, perr := rdb.Ping(context.Background()).Result(); perr != nil {
			log.Printf("[WARN] Failed to connect to Redis: %v", perr)
		}
	}

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/websocket.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// 4. Services
	publisherService := service.NewPublisherService(cfg.Keys.TurnTopic, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Keys.TurnTopic,
		wsHub,
		natsPub,
	)

	chatService := service.NewChatService(
		llmProvider,
		searcher,
		synonyms,
		convoStore,
		publisherService,
		executor.Config{
			Phrasings:      cfg.Pipeline.Phrasings,
			TopK:           cfg.Pipeline.TopK,
			CandidateLimit: cfg.Pipeline.CandidateLimit,
			MaxResults:     cfg.Pipeline.MaxResults,
		},
	)
	searchService := service.NewSearchService(
		uowFactory,
		searcher,
		llmProvider,
		synonyms,
	)
	statusService := service.NewStatusService(
		uowFactory,
		convoStore,
		rdb,
		natsPub,
		resolvedLLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.EmbeddingProvider,
	)

	// Handler
	eventHandler := handler.NewEventHandler(wsHub, natsPub, sysLogger)

	// 5. Controllers
	// Note: We return the container with public fields for the server to register
	return &Container{
		EventHandler: eventHandler,
		WebSocketHub: wsHub,

		ChatController:   controller.NewChatController(chatService),
		SearchController: controller.NewSearchController(searchService),
		StatusController: controller.NewStatusController(statusService),

		ConsumerService: consumerService,
	}
}
