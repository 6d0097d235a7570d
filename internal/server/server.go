// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"context"
	"errors"
	"fmt"
	"time"

	_ "promptly/docs" // swagger docs
	"promptly/internal/cache"
	"promptly/internal/config"
	"promptly/internal/database"
	"promptly/internal/events"
	"promptly/internal/identity"
	"promptly/internal/middleware"
	"promptly/internal/models"
	"promptly/internal/notifications"
	"promptly/internal/repository"
	"promptly/internal/service"
	"promptly/internal/storage"

	"github.com/ansrivas/fiberprometheus/v2"
	gojson "github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const wsPathPrefix = "/api/ws"

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	shutdownCtx    context.Context
	shutdownFn     context.CancelFunc

	userRepo        repository.UserRepository
	promptRepo      repository.PromptRepository
	interactionRepo repository.InteractionRepository

	tokens  *identity.Tokens
	bus     *events.Bus
	store   storage.ObjectStorage
	feedHub *notifications.Hub

	promptSvc      *service.PromptService
	interactionSvc *service.InteractionService
	userSvc        *service.UserService
	rankingSvc     *service.RankingService
	authSvc        *service.AuthService
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	redisClient := cache.InitRedis(cfg.RedisURL)
	return NewServerWithDeps(cfg, db, redisClient)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis itself.
// redisClient may be nil.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var rdb events.RedisClient
	if redisClient != nil {
		rdb = redisClient
	}
	bus, err := events.New(ctx, cfg, rdb)
	if err != nil {
		return nil, fmt.Errorf("event bus setup failed: %w", err)
	}

	store, err := storage.New(ctx, cfg)
	if err != nil {
		_ = bus.Close()
		return nil, fmt.Errorf("asset storage setup failed: %w", err)
	}

	s := &Server{
		config:          cfg,
		db:              db,
		redis:           redisClient,
		promMiddleware:  middleware.InitMetrics("promptly-api"),
		userRepo:        repository.NewUserRepository(db),
		promptRepo:      repository.NewPromptRepository(db),
		interactionRepo: repository.NewInteractionRepository(db),
		tokens:          identity.NewTokens(cfg, redisClient),
		bus:             bus,
		store:           store,
		feedHub:         notifications.NewHub(),
	}
	s.wireServices()
	return s, nil
}

func (s *Server) wireServices() {
	var uploader service.AssetUploader
	if assets := service.NewAssetService(s.store, s.config); assets.Enabled() {
		uploader = assets
	}

	views := service.NewViewComposer(s.interactionRepo)
	retries := s.config.InteractionMaxRetries

	s.promptSvc = service.NewPromptService(s.promptRepo, uploader, views, s.bus, retries)
	s.interactionSvc = service.NewInteractionService(s.interactionRepo, s.bus, retries)
	s.userSvc = service.NewUserService(s.userRepo, s.promptRepo, s.interactionRepo, views)
	s.rankingSvc = service.NewRankingService(s.userRepo, s.config.LeaderboardDefaultLimit)
	s.authSvc = service.NewAuthService(s.userRepo, uploader, s.tokens)
}

// authConfig binds the token service to the auth middleware.
func (s *Server) authConfig() middleware.AuthConfig {
	return middleware.AuthConfig{
		VerifyToken: func(ctx context.Context, token string) (uint, any, error) {
			claims, err := s.tokens.Verify(ctx, token)
			if err != nil {
				return 0, nil, err
			}
			userID, err := claims.UserID()
			if err != nil {
				return 0, nil, models.NewUnauthorizedError("Invalid user ID in token")
			}
			return userID, claims, nil
		},
		RedeemTicket: s.tokens.RedeemTicket,
		TicketPrefix: wsPathPrefix,
	}
}

// AuthRequired returns the authentication middleware
func (s *Server) AuthRequired() fiber.Handler {
	return middleware.AuthRequired(s.authConfig())
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Server span per request; must run before ContextMiddleware picks up the trace ID
	app.Use(middleware.TracingMiddleware())

	// Context Middleware to propagate Request ID and User ID
	app.Use(middleware.ContextMiddleware())

	// Prometheus Metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers
	app.Use(helmet.New())

	// Structured Logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// CORS runs before the limiter so error responses still carry CORS headers.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, Upgrade, Connection, Sec-WebSocket-Key, Sec-WebSocket-Version",
		AllowCredentials: origins != "*",
		MaxAge:           86400, // 24 hours
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.HealthCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	api := app.Group("/api")
	api.Get("/metrics/dashboard", monitor.New(monitor.Config{Title: "Promptly Metrics"}))
	api.Get("/swagger/*", swagger.HandlerDefault)

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/signup", middleware.RateLimit(s.redis, 3, 10*time.Minute, "signup"), s.Signup)
	auth.Post("/login", middleware.RateLimit(s.redis, 10, 5*time.Minute, "login"), s.Login)
	auth.Post("/logout", s.AuthRequired(), s.Logout)

	// WebSocket ticket issuance and the feed itself. Registered ahead of the protected
	// group so a ticket is redeemed exactly once.
	api.Post("/ws/ticket", s.AuthRequired(), s.IssueWSTicket)
	api.Get("/ws/feed", s.AuthRequired(), s.WebSocketFeedHandler())

	// Public prompt browsing, annotated when the caller is signed in
	optional := middleware.OptionalAuth(s.authConfig())
	api.Get("/prompts", optional, s.GetPrompts)
	api.Get("/prompts/:id", optional, s.GetPrompt)

	protected := api.Group("", s.AuthRequired())

	prompts := protected.Group("/prompts")
	prompts.Post("/", middleware.RateLimit(s.redis, 10, time.Minute, "create_prompt"), s.CreatePrompt)
	prompts.Post("/:id/like", s.LikePrompt)
	prompts.Post("/:id/upvote", s.UpvotePrompt)
	prompts.Post("/:id/downvote", s.DownvotePrompt)
	prompts.Post("/:id/bookmark", s.BookmarkPrompt)
	prompts.Put("/:id/output", s.SavePromptOutput)

	// Specific /users routes before /:id
	users := protected.Group("/users")
	users.Get("/profile", s.GetProfile)
	users.Get("/bookmarks", s.GetBookmarks)
	users.Get("/leaderboard", s.GetLeaderboard)
	users.Get("/:id", s.GetUser)

}

// HealthCheck is a legacy/simple alias for ReadinessCheck
func (s *Server) HealthCheck(c *fiber.Ctx) error {
	return s.ReadinessCheck(c)
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck reports database and Redis health. Redis is optional for this service,
// so an unconfigured Redis is "unavailable" but does not fail readiness.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "unavailable"
	if s.redis != nil {
		redisStatus = "healthy"
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" || redisStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	checks := fiber.Map{
		"database": dbStatus,
		"redis":    redisStatus,
		"events":   s.bus.Backend(),
		"assets":   "disabled",
	}
	if s.store != nil {
		checks["assets"] = s.store.Name()
	}

	return c.Status(status).JSON(fiber.Map{
		"message": "Promptly",
		"version": "1.0.0",
		"status":  overallStatus,
		"checks":  checks,
		"time":    time.Now(),
	})
}

// newApp builds the Fiber app with middleware and routes.
func (s *Server) newApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "Promptly API",
		BodyLimit:    (s.config.AssetMaxUploadSizeMB + 1) * 1024 * 1024,
		ErrorHandler: errorHandler,
		JSONEncoder:  gojson.Marshal,
		JSONDecoder:  gojson.Unmarshal,
	})
	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	return app
}

// errorHandler renders errors that escaped a handler. Fiber errors keep their status;
// anything else is answered from its AppError code, defaulting to INTERNAL_ERROR.
func errorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code := models.CodeInternal
		switch fe.Code {
		case fiber.StatusNotFound:
			code = models.CodeNotFound
		case fiber.StatusBadRequest, fiber.StatusRequestEntityTooLarge, fiber.StatusUnprocessableEntity, fiber.StatusUpgradeRequired:
			code = models.CodeValidation
		case fiber.StatusUnauthorized:
			code = models.CodeUnauthorized
		case fiber.StatusForbidden:
			code = models.CodeForbidden
		}
		return c.Status(fe.Code).JSON(models.ErrorResponse{Error: fe.Message, Code: code})
	}

	status := models.StatusFor(err)
	if status >= fiber.StatusInternalServerError {
		middleware.Logger.ErrorContext(c.UserContext(), "unhandled error",
			"path", c.Path(), "error", err.Error())
	}
	var appErr *models.AppError
	if !errors.As(err, &appErr) {
		err = models.NewInternalError(err)
	}
	return models.RespondWithError(c, status, err)
}

// Start starts the server
func (s *Server) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	s.shutdownCtx = ctx
	s.shutdownFn = cancel

	s.app = s.newApp()

	// Feed the websocket hub from the event bus
	go func() {
		if err := s.feedHub.StartWiring(s.shutdownCtx, s.bus); err != nil && !errors.Is(err, context.Canceled) {
			middleware.Logger.Error("feed wiring stopped", "hub", s.feedHub.Name(), "error", err)
		}
	}()

	middleware.Logger.Info("Server starting", "port", s.config.Port, "events", s.bus.Backend())
	return s.app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	// Cancel the server-scoped context to stop the feed wiring
	if s.shutdownFn != nil {
		s.shutdownFn()
	}

	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			middleware.Logger.Error("error shutting down HTTP server", "error", err)
		}
	}

	if err := s.feedHub.Shutdown(ctx); err != nil {
		middleware.Logger.Error("error shutting down hub", "hub", s.feedHub.Name(), "error", err)
	}

	if err := s.bus.Close(); err != nil {
		middleware.Logger.Error("error closing event bus", "error", err)
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			middleware.Logger.Error("error closing sql DB", "error", cerr)
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			middleware.Logger.Error("error closing redis", "error", rerr)
		}
	}

	middleware.Logger.Info("Server shutdown complete")
	return nil
}
