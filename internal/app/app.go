// Package app assembles the QuestionConnection API from configuration. Both the
// standalone server and the Lambda entrypoint build their handler here.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/questionconnection/backend/internal/auth"
	"github.com/questionconnection/backend/internal/blob"
	"github.com/questionconnection/backend/internal/breaker"
	"github.com/questionconnection/backend/internal/cache"
	"github.com/questionconnection/backend/internal/config"
	"github.com/questionconnection/backend/internal/handler"
	"github.com/questionconnection/backend/internal/metrics"
	"github.com/questionconnection/backend/internal/middleware"
	"github.com/questionconnection/backend/internal/notify"
	"github.com/questionconnection/backend/internal/push"
	"github.com/questionconnection/backend/internal/quota"
	"github.com/questionconnection/backend/internal/repository"
	"github.com/questionconnection/backend/internal/service"
)

// App holds the assembled HTTP handler and the resources behind it.
type App struct {
	Handler http.Handler
	Metrics *metrics.PrometheusRecorder

	// Worker is nil unless NOTIFY_WORKER_ENABLED is set.
	Worker *notify.Worker

	repo   *repository.Repository
	cache  *cache.Cache
	logger *slog.Logger
}

// New connects to PostgreSQL, Redis, S3 and SNS and wires every service.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	repo, err := repository.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database (%s): %s",
			RedactURL(cfg.DatabaseURL), SanitizeError(err, cfg.DatabaseURL))
	}
	logger.Info("connected to database")

	cacheClient, err := cache.New(ctx, cfg.RedisURL)
	if err != nil {
		repo.Close()
		return nil, fmt.Errorf("failed to connect to Redis (%s): %s",
			RedactURL(cfg.RedisURL), SanitizeError(err, cfg.RedisURL))
	}
	logger.Info("connected to Redis")

	a, err := build(ctx, cfg, logger, repo, cacheClient)
	if err != nil {
		_ = cacheClient.Close()
		repo.Close()
		return nil, err
	}
	return a, nil
}

func build(ctx context.Context, cfg *config.Config, logger *slog.Logger, repo *repository.Repository, cacheClient *cache.Cache) (*App, error) {
	recorder := metrics.NewPrometheus()

	s3Breaker := breaker.New("s3", cfg.S3BreakerTimeout, cfg.S3BreakerMaxFailures)
	blobs, err := blob.NewFromConfig(ctx, cfg.ProfileImageBucket, cfg.AWSRegion, s3Breaker)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize blob store: %w", err)
	}

	snsBreaker := breaker.New("sns", cfg.PushBreakerTimeout, cfg.PushBreakerMaxFailures)
	gateway, err := push.NewFromConfig(ctx, cfg.AWSRegion, cfg.SNSPlatformApplicationARN, snsBreaker, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize push gateway: %w", err)
	}
	if !cfg.PushEnabled() {
		logger.Warn("push notifications disabled, SNS platform application not configured")
	}

	publisher := notify.NewPublisher(cacheClient.Client(), logger, recorder)
	dispatcher := notify.NewDispatcher(repo, gateway, logger, recorder)

	var worker *notify.Worker
	if cfg.NotifyWorkerEnabled {
		worker = notify.NewWorker(cacheClient.Client(), dispatcher, logger, notify.NewConsumerID(), recorder)
	}

	limiter := quota.New(cfg.ProfileImageMaxChangesPerMonth, cfg.ProfileImageRetentionYears)

	// Initialize services
	questionSvc := service.NewQuestionService(repo, logger, recorder)
	quizSvc := service.NewQuizService(repo, repo, dispatcher, logger)
	answerSvc := service.NewAnswerService(repo, logger, recorder)
	messageSvc := service.NewMessageService(repo, repo, repo, publisher, logger, recorder)
	blockSvc := service.NewBlockService(repo, logger)
	deviceSvc := service.NewDeviceService(repo, gateway, logger)
	profileSvc := service.NewProfileService(repo, cacheClient, logger)
	imageSvc := service.NewProfileImageService(repo, blobs, cacheClient, limiter, logger, recorder)

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = cfg.GetCORSAllowedOrigins()

	router := NewRouter(RouterConfig{
		Logger:         logger,
		Verifier:       auth.NewVerifier(cfg.JWTSecret, cfg.JWTIssuer),
		Limiter:        cacheClient,
		Metrics:        recorder,
		MetricsHandler: recorder.Handler(),
		CORS:           corsCfg,
		IsDevelopment:  cfg.IsDevelopment(),
		MaxBodySize:    cfg.MaxRequestBodySize,
		RateLimit:      cfg.RateLimitAPIEnabled,
		RatePerMinute:  cfg.RateLimitAPIRPM,
		RateBurst:      cfg.RateLimitAPIBurst,
	}, Handlers{
		Health:       handler.NewHealthHandler(repo, cacheClient),
		Questions:    handler.NewQuestionHandler(questionSvc, quizSvc, logger),
		Answers:      handler.NewAnswerHandler(answerSvc, logger),
		Messages:     handler.NewMessageHandler(messageSvc, logger),
		Blocks:       handler.NewBlockHandler(blockSvc, logger),
		Users:        handler.NewUserHandler(profileSvc, deviceSvc, logger),
		ProfileImage: handler.NewProfileImageHandler(imageSvc, logger),
	})

	return &App{
		Handler: router,
		Metrics: recorder,
		Worker:  worker,
		repo:    repo,
		cache:   cacheClient,
		logger:  logger,
	}, nil
}

// CloseStores releases the Redis client and the database pool.
// It matches server.ShutdownFunc.
func (a *App) CloseStores(ctx context.Context) error {
	err := a.cache.Close()
	a.repo.Close()
	if err != nil {
		a.logger.Error("failed to close redis", "error", err)
		return fmt.Errorf("close redis: %w", err)
	}
	return nil
}
