package bootstrap

import (
	"context"
	"log"

	"ai-studyguide-be/internal/config"
	"ai-studyguide-be/internal/controller"
	"ai-studyguide-be/internal/handler"
	"ai-studyguide-be/internal/pkg/logger"
	"ai-studyguide-be/internal/repository/memory"
	"ai-studyguide-be/internal/repository/unitofwork"
	"ai-studyguide-be/internal/service"
	"ai-studyguide-be/internal/websocket"
	"ai-studyguide-be/pkg/embedding"
	"ai-studyguide-be/pkg/extract"
	"ai-studyguide-be/pkg/genai"
	pktNats "ai-studyguide-be/pkg/nats"
	"ai-studyguide-be/pkg/study"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	SessionController controller.ISessionController
	StudyController   controller.IStudyController
	QuizController    controller.IQuizController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// WebSockets
	ProgressHandler *handler.ProgressHandler
	WebSocketHub    *websocket.Hub
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	if cfg.Keys.GoogleGemini == "" {
		log.Fatal("[FATAL] GEMINI_API_KEY is not set")
	}

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. AI Clients
	genaiClient := genai.NewClient(cfg.Keys.GoogleGemini)
	embeddingProvider := embedding.NewGeminiProvider(cfg.Keys.GoogleGemini)
	extractor := extract.NewExtractor(genaiClient, cfg.Ai.DetectionModel)
	guides := study.NewService(genaiClient, study.Config{
		DetectionModel:  cfg.Ai.DetectionModel,
		GenerationModel: cfg.Ai.GenerationModel,
		TargetDomain:    cfg.Ai.TargetDomain,
	})

	// Session storage: in-memory cache over the snapshot table
	sessionCache := memory.NewSessionCache()
	store := service.NewSessionStore(sessionCache, uowFactory)

	// 4. Infrastructure
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}

	// Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
		rdb = nil
	}

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/progress.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// 5. Services
	publisherService := service.NewPublisherService(pubSub, cfg.Keys.EmbedTopicName)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Keys.EmbedTopicName,
		store,
		uowFactory,
		embeddingProvider,
	)

	sessionService := service.NewSessionService(store, natsPub)
	studyService := service.NewStudyService(
		store,
		extractor,
		guides,
		publisherService,
		embeddingProvider,
		natsPub,
		wsHub,
		sysLogger,
	)
	quizService := service.NewQuizService(store)

	progressHandler := handler.NewProgressHandler(wsHub, wsLogger)

	// 6. Controllers
	return &Container{
		SessionController: controller.NewSessionController(sessionService),
		StudyController:   controller.NewStudyController(studyService),
		QuizController:    controller.NewQuizController(quizService),

		ConsumerService: consumerService,

		ProgressHandler: progressHandler,
		WebSocketHub:    wsHub,
	}
}
