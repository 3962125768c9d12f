package bootstrap

import (
	"context"
	"log"

	"ai-studyflow-be/internal/config"
	"ai-studyflow-be/internal/controller"
	"ai-studyflow-be/internal/pkg/logger"
	"ai-studyflow-be/internal/pkg/mailer"
	"ai-studyflow-be/internal/repository/implementation"
	"ai-studyflow-be/internal/repository/unitofwork"
	"ai-studyflow-be/internal/service"
	"ai-studyflow-be/internal/websocket"
	"ai-studyflow-be/internal/worker"
	"ai-studyflow-be/pkg/ai"
	aifactory "ai-studyflow-be/pkg/ai/factory"
	"ai-studyflow-be/pkg/embedding"
	pkgNats "ai-studyflow-be/pkg/nats"
	"ai-studyflow-be/pkg/progress"
	"ai-studyflow-be/pkg/queue"
	"ai-studyflow-be/pkg/storage"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	JobController          controller.IJobController
	MaterialController     controller.IMaterialController
	PlanController         controller.IPlanController
	SessionRunController   controller.ISessionRunController
	ReviewController       controller.IReviewController
	NotificationController controller.INotificationController

	// Background components (exposed for cmd/worker)
	MaterialProcessor *worker.MaterialProcessor
	PlanGenerator     *worker.PlanGenerator

	// Infrastructure
	JobQueue     *queue.Publisher
	ProgressBus  *progress.Bus
	WebSocketHub *websocket.Hub
	Logger       logger.ILogger
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

	// 2. Redis (run lock, websocket fan-out, upload progress relay)
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
	}

	// 3. Progress bus for upload SSE. Redis-backed so steps published by the
	// worker process reach SSE subscribers in the rest process.
	progressBus := progress.NewBus(rdb)

	// 4. AI providers
	var embeddingProvider embedding.EmbeddingProvider
	switch cfg.Ai.EmbeddingProvider {
	case "ollama":
		embeddingProvider = embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.OllamaModel)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	case "gemini":
		if cfg.Ai.GeminiApiKey == "" {
			embeddingProvider = embedding.NewUnavailableProvider()
			log.Printf("[WARN] GEMINI_API_KEY missing, embeddings disabled")
		} else {
			embeddingProvider = embedding.NewGeminiProvider(cfg.Ai.GeminiApiKey)
			log.Printf("[INFO] Using Embedding Provider: GEMINI")
		}
	default:
		embeddingProvider = embedding.NewUnavailableProvider()
		log.Printf("[WARN] No embedding provider configured, embeddings disabled")
	}

	llmProvider, err := aifactory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Ai.GeminiApiKey,
	)
	if err != nil {
		log.Printf("[WARN] Failed to initialize LLM provider (%v), AI features disabled", err)
		llmProvider = ai.NewUnavailableProvider()
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// 5. Object storage (R2)
	var store storage.ObjectStorage
	if cfg.Storage.AccountId != "" && cfg.Storage.AccessKeyId != "" {
		r2, storeErr := storage.NewR2Storage(
			context.Background(),
			cfg.Storage.AccountId,
			cfg.Storage.AccessKeyId,
			cfg.Storage.SecretAccessKey,
			cfg.Storage.Bucket,
		)
		if storeErr != nil {
			log.Printf("[WARN] Failed to initialize R2 storage: %v. Uploads disabled", storeErr)
			store = storage.NewUnavailableStorage()
		} else {
			store = r2
		}
	} else {
		log.Printf("[WARN] R2 credentials missing, uploads disabled")
		store = storage.NewUnavailableStorage()
	}

	// 6. Queues and event bus (NATS)
	jobQueue, err := queue.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Fatalf("[FATAL] Failed to connect to NATS job queue: %v", err)
	}
	natsPub, err := pkgNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS event publisher: %v", err)
	}
	natsSub, err := pkgNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS event subscriber: %v", err)
	}

	// 7. WebSocket hub
	wsLogger := logger.NewIsolatedLogger("logs/notification.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// 8. Services
	jobStatusService := service.NewJobStatusService(uowFactory)
	uploadService := service.NewUploadService(uowFactory, store, progressBus, jobQueue, sysLogger)
	materialService := service.NewMaterialService(uowFactory, embeddingProvider)
	planService := service.NewPlanService(uowFactory, jobQueue, sysLogger)
	runService := service.NewSessionRunService(uowFactory, rdb, sysLogger)
	reviewService := service.NewReviewService(uowFactory)

	notifRepo := implementation.NewNotificationRepository(db)
	notifService := service.NewNotificationService(notifRepo, uowFactory, natsSub, wsHub, emailService, wsLogger)
	if natsSub != nil {
		if err := notifService.StartConsuming(); err != nil {
			log.Printf("[WARN] Failed to start notification consumer: %v", err)
		}
	}

	// 9. Worker processors (used by cmd/worker)
	materialProcessor := worker.NewMaterialProcessor(
		uowFactory,
		store,
		embeddingProvider,
		llmProvider,
		progressBus,
		natsPub,
		sysLogger,
	)
	planGenerator := worker.NewPlanGenerator(
		uowFactory,
		llmProvider,
		natsPub,
		sysLogger,
	)

	return &Container{
		JobController:          controller.NewJobController(jobStatusService),
		MaterialController:     controller.NewMaterialController(uploadService, materialService, progressBus, sysLogger),
		PlanController:         controller.NewPlanController(planService),
		SessionRunController:   controller.NewSessionRunController(runService),
		ReviewController:       controller.NewReviewController(reviewService),
		NotificationController: controller.NewNotificationController(notifService),

		MaterialProcessor: materialProcessor,
		PlanGenerator:     planGenerator,

		JobQueue:     jobQueue,
		ProgressBus:  progressBus,
		WebSocketHub: wsHub,
		Logger:       sysLogger,
	}
}
