package bootstrap

import (
	"context"
	"log"

	"edu-chatbot-be/internal/config"
	"edu-chatbot-be/internal/controller"
	"edu-chatbot-be/internal/handler"
	"edu-chatbot-be/internal/pkg/logger"
	"edu-chatbot-be/internal/pkg/mailer"
	"edu-chatbot-be/internal/repository/memory"
	"edu-chatbot-be/internal/repository/redisstore"
	"edu-chatbot-be/internal/repository/unitofwork"
	"edu-chatbot-be/internal/service"
	"edu-chatbot-be/internal/websocket"
	"edu-chatbot-be/pkg/embedding"
	"edu-chatbot-be/pkg/knowledge"
	"edu-chatbot-be/pkg/llm/factory"
	"edu-chatbot-be/pkg/store"

	pktNats "edu-chatbot-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AuthController         controller.IAuthController
	OAuthController        controller.IOAuthController
	DocumentController     controller.IDocumentController
	ConversationController controller.IConversationController
	ChatController         controller.IChatController
	NotesController        controller.INotesController

	// Background services (exposed for main.go to run)
	ConsumerService service.IConsumerService

	// WebSockets
	EventsHandler *handler.EventsHandler
	WebSocketHub  *websocket.Hub
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
	)

	// 2. Event bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. AI providers
	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.OllamaModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	} else {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Keys.GoogleGemini)
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
	}

	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Keys.GoogleGemini,
		cfg.Keys.HuggingFace,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	knowledgeService := knowledge.NewService(llmProvider)

	// 4. Infrastructure
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	}

	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	redisAvailable := true
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
		redisAvailable = false
	}

	// Dialog state survives restarts when Redis is up; otherwise it lives in
	// process memory with the same TTL.
	var dialogStates store.DialogStateRepository
	if redisAvailable {
		dialogStates = redisstore.NewDialogStateRepository(rdb)
	} else {
		dialogStates = memory.NewDialogStateRepository()
	}

	// WebSocket hub
	wsLogger := logger.NewIsolatedLogger("logs/events.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// 5. Services
	publisherService := service.NewPublisherService(cfg.Keys.DocumentTopic, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Keys.DocumentTopic,
		uowFactory,
		embeddingProvider,
		wsHub,
		natsPub,
	)

	authService := service.NewAuthService(uowFactory, emailService, natsPub)
	oauthService := service.NewOAuthService(uowFactory)
	documentService := service.NewDocumentService(uowFactory, publisherService)
	conversationService := service.NewConversationService(uowFactory, dialogStates)
	assistantService := service.NewAssistantService(
		uowFactory,
		dialogStates,
		embeddingProvider,
		llmProvider,
		knowledgeService,
		sysLogger,
	)
	notesService := service.NewNotesService(uowFactory, llmProvider)

	if natsSub != nil {
		auditService := service.NewAuditService(natsSub, sysLogger)
		go func() {
			if err := auditService.Start(); err != nil {
				log.Printf("[WARN] Audit worker failed to start: %v", err)
			}
		}()
	}

	eventsHandler := handler.NewEventsHandler(wsHub, wsLogger)

	sysLogger.Info("Bootstrap", "Container initialized", map[string]interface{}{
		"llm_provider":       cfg.Ai.LLMProvider,
		"embedding_provider": cfg.Ai.EmbeddingProvider,
		"redis_available":    redisAvailable,
	})

	// 6. Controllers
	return &Container{
		AuthController:         controller.NewAuthController(authService),
		OAuthController:        controller.NewOAuthController(oauthService),
		DocumentController:     controller.NewDocumentController(documentService),
		ConversationController: controller.NewConversationController(conversationService),
		ChatController:         controller.NewChatController(assistantService),
		NotesController:        controller.NewNotesController(notesService),

		ConsumerService: consumerService,

		EventsHandler: eventsHandler,
		WebSocketHub:  wsHub,
	}
}
