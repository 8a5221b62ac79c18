// Package server contains the HTTP handlers and middleware wiring for the reso API.
package server

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"reso/internal/auth/google"
	"reso/internal/cache"
	"reso/internal/config"
	"reso/internal/database"
	"reso/internal/embedding"
	"reso/internal/middleware"
	"reso/internal/repository"
	"reso/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

var (
	promOnce sync.Once
	prom     *fiberprometheus.FiberPrometheus
)

// httpMetrics registers the HTTP collectors on the default registry once per
// process, next to the promauto domain metrics.
func httpMetrics() *fiberprometheus.FiberPrometheus {
	promOnce.Do(func() {
		prom = fiberprometheus.NewWithRegistry(prometheus.DefaultRegisterer, "reso-api", "reso", "http", nil)
	})
	return prom
}

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus

	embedder    embedding.Embedder
	google      *google.Client
	stateSigner *google.StateSigner

	sessions        *service.SessionService
	authService     *service.AuthService
	userService     *service.UserService
	storyService    *service.StoryService
	commentService  *service.CommentService
	bookmarkService *service.BookmarkService
}

// Option customizes a Server built by NewServerWithDeps.
type Option func(*Server)

// WithEmbedder replaces the HTTP embedding client.
func WithEmbedder(e embedding.Embedder) Option {
	return func(s *Server) { s.embedder = e }
}

// WithGoogleEndpoints points the OAuth client at other URLs.
func WithGoogleEndpoints(endpoints google.Endpoints) Option {
	return func(s *Server) {
		s.google = google.NewClient(s.config.GoogleClientID, s.config.GoogleClientSecret, s.config.GoogleCallbackURL, endpoints)
	}
}

// NewServer connects to the database and Redis and builds the server.
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)
	return NewServerWithDeps(cfg, db, cache.GetClient())
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB and Redis.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, opts ...Option) (*Server, error) {
	s := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: httpMetrics(),
		embedder:       embedding.NewClient(cfg.EmbeddingServiceURL, cfg.EmbeddingTimeout()),
		google:         google.NewClient(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleCallbackURL, google.Endpoints{}),
		stateSigner:    google.NewStateSigner(cfg.OAuthStateSecret),
	}
	for _, opt := range opts {
		opt(s)
	}

	sessionRepo := repository.NewSessionRepository(db)
	userRepo := repository.NewUserRepository(db)
	storyRepo := repository.NewStoryRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	likeRepo := repository.NewLikeRepository(db)
	bookmarkRepo := repository.NewBookmarkRepository(db)
	adviceRepo := repository.NewAdviceRepository(db)

	s.sessions = service.NewSessionService(sessionRepo, cfg.SessionTTL())
	s.authService = service.NewAuthService(userRepo, s.sessions)
	s.userService = service.NewUserService(userRepo)
	recommender := service.NewRecommender(s.embedder, storyRepo, cfg.SimilarStoriesLimit)
	s.storyService = service.NewStoryService(storyRepo, likeRepo, recommender)
	s.commentService = service.NewCommentService(commentRepo, storyRepo, likeRepo)
	s.bookmarkService = service.NewBookmarkService(bookmarkRepo, adviceRepo)

	return s, nil
}

// NewApp builds the Fiber app with the API error envelope as error handler.
func NewApp() *fiber.App {
	return fiber.New(fiber.Config{
		AppName:      "reso API",
		BodyLimit:    1 * 1024 * 1024,
		ErrorHandler: errorHandler,
	})
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.TracingMiddleware())

	// Moves request and trace ids into the user context; needs both locals set above.
	app.Use(middleware.ContextMiddleware())

	if s.promMiddleware != nil {
		app.Use(s.promMiddleware.Middleware)
	}

	app.Use(helmet.New())
	app.Use(middleware.StructuredLogger())

	// CORS runs before the limiter so rejected browser requests still carry CORS headers.
	// Credentials are required for the session cookie.
	app.Use(cors.New(cors.Config{
		AllowOrigins:     s.config.AllowedOrigins,
		AllowMethods:     "GET,POST,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

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
			return respondStatus(c, fiber.StatusTooManyRequests, "RATE_LIMITED", "Too many requests, please try again later.")
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Get("/google", s.strictRateLimit(20, 10*time.Minute, "oauth"), s.GoogleLogin)
	auth.Get("/google/callback", s.strictRateLimit(20, 10*time.Minute, "oauth_callback"), s.GoogleCallback)
	auth.Post("/logout", s.Logout)
	auth.Post("/logout-all", s.AuthRequired(), s.LogoutAll)
	auth.Get("/me", s.AuthRequired(), s.GetMe)

	// Advice is public; a session only adds bookmark flags.
	api.Get("/advice", s.ListAdvice)
	api.Get("/advice/random", s.RandomAdvice)

	protected := api.Group("", s.AuthRequired())

	users := protected.Group("/users")
	users.Get("/me", s.GetMe)
	users.Patch("/me", s.UpdateMe)

	stories := protected.Group("/stories")
	stories.Get("/", s.ListStories)
	stories.Post("/", s.strictRateLimit(5, 10*time.Minute, "create_story"), s.CreateStory)
	stories.Post("/:id/like", s.rateLimit(60, time.Minute, "like"), s.ToggleStoryLike)
	stories.Get("/:id", s.GetStory)
	stories.Patch("/:id", s.UpdateStory)
	stories.Delete("/:id", s.DeleteStory)

	comments := protected.Group("/comments")
	comments.Get("/", s.ListComments)
	comments.Post("/", s.rateLimit(10, time.Minute, "create_comment"), s.CreateComment)
	comments.Post("/:id/like", s.rateLimit(60, time.Minute, "like"), s.ToggleCommentLike)
	comments.Patch("/:id/adopt", s.AdoptComment)
	comments.Delete("/:id", s.DeleteComment)

	bookmarks := protected.Group("/bookmarks")
	bookmarks.Get("/", s.ListBookmarks)
	bookmarks.Post("/", s.AddBookmark)
	bookmarks.Delete("/:adviceId", s.RemoveBookmark)
}

// rateLimit throttles a route through Redis. Without a client the limiter
// fails open.
func (s *Server) rateLimit(limit int, window time.Duration, name string) fiber.Handler {
	return middleware.RateLimit(s.limiterClient(), limit, window, name)
}

// strictRateLimit guards login and story creation; it answers 503 while
// Redis is unreachable.
func (s *Server) strictRateLimit(limit int, window time.Duration, name string) fiber.Handler {
	return middleware.RateLimitWithPolicy(s.limiterClient(), limit, window, middleware.FailClosed, name)
}

// limiterClient keeps a nil *redis.Client from becoming a non-nil interface.
func (s *Server) limiterClient() redis.Cmdable {
	if s.redis == nil {
		return nil
	}
	return s.redis
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck pings the database and Redis.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	if err := database.Ping(ctx, s.db); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "healthy"
	if s.redis == nil {
		redisStatus = "unavailable"
	} else if err := s.redis.Ping(ctx).Err(); err != nil {
		redisStatus = "unhealthy"
	}

	status := fiber.StatusOK
	overall := "healthy"
	if dbStatus != "healthy" || redisStatus != "healthy" {
		status = fiber.StatusServiceUnavailable
		overall = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overall,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// Start builds the app and listens on the configured port.
func (s *Server) Start() error {
	s.app = NewApp()
	s.SetupMiddleware(s.app)
	s.SetupRoutes(s.app)

	log.Printf("Server starting on port %s...", s.config.Port)
	return s.app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			log.Printf("error shutting down HTTP server: %v", err)
		}
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Printf("error closing sql DB: %v", cerr)
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			log.Printf("error closing redis: %v", rerr)
		}
	}

	log.Println("Server shutdown complete")
	return nil
}
