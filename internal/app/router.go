package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/questionconnection/backend/internal/handler"
	"github.com/questionconnection/backend/internal/metrics"
	"github.com/questionconnection/backend/internal/middleware"
)

// Handlers groups the route handlers mounted by NewRouter.
type Handlers struct {
	Health       *handler.HealthHandler
	Questions    *handler.QuestionHandler
	Answers      *handler.AnswerHandler
	Messages     *handler.MessageHandler
	Blocks       *handler.BlockHandler
	Users        *handler.UserHandler
	ProfileImage *handler.ProfileImageHandler
}

// RouterConfig holds the middleware dependencies of the router.
type RouterConfig struct {
	Logger         *slog.Logger
	Verifier       middleware.TokenVerifier
	Limiter        middleware.SubjectLimiter
	Metrics        metrics.Recorder
	MetricsHandler http.Handler
	CORS           middleware.CORSConfig
	IsDevelopment  bool
	MaxBodySize    int64
	RateLimit      bool
	RatePerMinute  int
	RateBurst      int
}

// NewRouter configures the chi router with all routes and middleware.
func NewRouter(cfg RouterConfig, hs Handlers) *chi.Mux {
	h := handler.New()
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.Recoverer(cfg.Logger, cfg.IsDevelopment))
	r.Use(middleware.Security(middleware.SecurityConfig{IsDevelopment: cfg.IsDevelopment}))
	r.Use(middleware.CORS(cfg.CORS))
	r.Use(middleware.Metrics(cfg.Metrics))

	// Health endpoints (no auth required)
	r.Get("/healthz", hs.Health.Healthz)
	r.Get("/readyz", hs.Health.Readyz)
	if cfg.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", cfg.MetricsHandler)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.MaxBodySize(cfg.MaxBodySize))
		r.Use(middleware.Auth(cfg.Verifier, cfg.Logger))
		r.Use(middleware.RateLimit(middleware.RateLimitConfig{
			Logger:        cfg.Logger,
			Limiter:       cfg.Limiter,
			Enabled:       cfg.RateLimit,
			RatePerMinute: cfg.RatePerMinute,
			Burst:         cfg.RateBurst,
		}))

		r.Route("/questions", func(r chi.Router) {
			r.Post("/", hs.Questions.Create)
			r.Get("/{questionId}", hs.Questions.Get)
			r.Post("/{questionId}/complete", hs.Questions.Complete)
		})

		r.Route("/answers", func(r chi.Router) {
			r.Post("/", hs.Answers.Log)
			r.Get("/status", hs.Answers.Status)
		})

		r.Route("/threads", func(r chi.Router) {
			r.Post("/", hs.Messages.Create)
			r.Get("/{threadId}/messages", hs.Messages.ListMessages)
		})

		r.Route("/users", func(r chi.Router) {
			// Static segments are matched before {userId}.
			r.Post("/block", hs.Blocks.Block)
			r.Delete("/block/{blockedUserId}", hs.Blocks.Unblock)
			r.Get("/blocklist", hs.Blocks.List)
			r.Get("/check-block", hs.Blocks.Check)

			r.Route("/{userId}", func(r chi.Router) {
				r.Get("/", hs.Users.GetProfile)
				r.Post("/", hs.Users.UpdateProfile)
				r.Put("/", hs.Users.UpdateProfile)
				r.Post("/devices", hs.Users.RegisterDevice)
				r.Post("/profile-image", hs.ProfileImage.Upload)
				r.Get("/questions", hs.Questions.ListByAuthor)
				r.Get("/stats", hs.Answers.Stats)
				r.Get("/threads", hs.Messages.ListThreads)
			})
		})
	})

	// 404 and 405 handlers
	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	return r
}
