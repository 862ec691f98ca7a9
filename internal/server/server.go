// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"context"
	"fmt"
	"log"
	"time"

	"ripple/internal/cache"
	"ripple/internal/config"
	"ripple/internal/database"
	"ripple/internal/events"
	"ripple/internal/linkmeta"
	"ripple/internal/middleware"
	"ripple/internal/models"
	"ripple/internal/notifications"
	"ripple/internal/repository"
	"ripple/internal/scheduler"
	"ripple/internal/service"
	"ripple/internal/storage"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	shutdownCtx    context.Context
	shutdownFn     context.CancelFunc

	userRepo       repository.UserRepository
	postRepo       repository.PostRepository
	commentRepo    repository.CommentRepository
	likeRepo       repository.LikeRepository
	reactionRepo   repository.ReactionRepository
	shareRepo      repository.ShareRepository
	bookmarkRepo   repository.BookmarkRepository
	reportRepo     repository.ReportRepository
	collectionRepo repository.CollectionRepository
	photoRepo      repository.PhotoRepository
	videoRepo      repository.VideoRepository

	bus      *events.Bus
	registry *service.ResourceRegistry

	postService       *service.PostService
	commentService    *service.CommentService
	engagementService *service.EngagementService
	collectionService *service.CollectionService
	analyticsService  *service.AnalyticsService
	userService       *service.UserService

	scheduler *scheduler.Scheduler
	notifier  *notifications.Notifier
	hub       *notifications.Hub
	sessions  *notifications.SessionStore
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)
	redisClient := cache.GetClient()

	var store storage.Service
	if cfg.StorageBucket != "" {
		store, err = storage.New(cfg)
		if err != nil {
			return nil, fmt.Errorf("storage initialization failed: %w", err)
		}
	}

	return newServer(cfg, db, redisClient, store, linkmeta.NewFetcher()), nil
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis itself.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *Server {
	return newServer(cfg, db, redisClient, nil, linkmeta.NewFetcher())
}

func newServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, store storage.Service, links linkmeta.Fetcher) *Server {
	middleware.InitMiddleware(cfg)

	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics("ripple-api"),
		userRepo:       repository.NewUserRepository(db),
		postRepo:       repository.NewPostRepository(db),
		commentRepo:    repository.NewCommentRepository(db),
		likeRepo:       repository.NewLikeRepository(db),
		reactionRepo:   repository.NewReactionRepository(db),
		shareRepo:      repository.NewShareRepository(db),
		bookmarkRepo:   repository.NewBookmarkRepository(db),
		reportRepo:     repository.NewReportRepository(db),
		collectionRepo: repository.NewCollectionRepository(db),
		photoRepo:      repository.NewPhotoRepository(db),
		videoRepo:      repository.NewVideoRepository(db),
		bus:            events.NewBus(middleware.Logger),
	}

	server.registry = service.NewResourceRegistry(server.postRepo, server.photoRepo, server.videoRepo)
	server.userService = service.NewUserService(server.userRepo)
	server.postService = service.NewPostService(
		server.postRepo, server.videoRepo, server.userRepo,
		store, links, server.bus, server.userService.IsAdmin)
	server.commentService = service.NewCommentService(
		server.commentRepo, server.registry, server.bus, server.userService.IsAdmin)
	server.engagementService = service.NewEngagementService(
		server.likeRepo, server.reactionRepo, server.shareRepo,
		server.bookmarkRepo, server.reportRepo, server.registry, server.bus)
	server.collectionService = service.NewCollectionService(server.collectionRepo, server.postRepo)
	server.analyticsService = service.NewAnalyticsService(server.postRepo, server.reactionRepo)
	server.scheduler = scheduler.New(server.postService)
	server.sessions = notifications.NewSessionStore(redisClient)

	// Fan engagement events out to connected websocket clients when Redis
	// pub/sub is available.
	if redisClient != nil {
		server.notifier = notifications.NewNotifier(redisClient)
		server.hub = notifications.NewHub()
		notifications.BridgeBus(server.bus, server.notifier)
	}

	return server
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Context Middleware to propagate Request ID and User ID
	app.Use(middleware.ContextMiddleware())

	// OpenTelemetry spans for every request
	app.Use(middleware.TracingMiddleware())

	// Prometheus Metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers
	app.Use(helmet.New())

	// Structured Logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// CORS middleware should run before middlewares that can short-circuit (e.g. limiter)
	// so browser clients still receive CORS headers on error responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, Upgrade, Connection, Sec-WebSocket-Key, Sec-WebSocket-Version",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		// Never rate-limit preflight requests; they should be handled by CORS.
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
	api := app.Group("/api")

	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}
	api.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "Ripple Metrics Dashboard",
	}))

	// Public post routes (browse/search); per-user fields are filled in when
	// a valid token happens to be present.
	publicPosts := api.Group("/posts", middleware.AuthOptional)
	publicPosts.Get("/", s.Explore)
	publicPosts.Get("/search", middleware.RateLimit(
		s.redis, 10, time.Minute, "search"), s.SearchPosts)
	publicPosts.Get("/:id", s.GetPost)

	// Comment detail routes
	comments := api.Group("/comments")
	comments.Get("/:id", s.GetComment)
	comments.Put("/:id", middleware.AuthRequired, s.UpdateComment)
	comments.Delete("/:id", middleware.AuthRequired, s.DeleteComment)

	// Protected routes
	protected := api.Group("", middleware.AuthRequired)

	// Protected post routes
	posts := protected.Group("/posts")
	posts.Post("/", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "create_post"), s.CreatePost)
	posts.Post("/upload", middleware.RateLimit(
		s.redis, 5, 5*time.Minute, "upload_post"), s.CreatePostWithFiles)
	// Define specific /:id/:resource routes BEFORE generic /:id route
	posts.Post("/:id/view", s.TrackView)
	posts.Post("/:id/pin", s.TogglePin)
	posts.Post("/:id/archive", s.ToggleArchive)
	posts.Post("/:id/schedule", s.SchedulePost)
	posts.Get("/:id/analytics", s.PostAnalytics)
	posts.Put("/:id", s.UpdatePost)
	posts.Delete("/:id", s.DeletePost)

	// The follow-graph feed
	protected.Get("/feed", s.Feed)

	// Bookmarks are private to their owner
	protected.Get("/bookmarks", s.ListBookmarks)

	// User routes
	users := api.Group("/users", middleware.AuthOptional)
	users.Get("/:id/posts", s.GetUserPosts)
	users.Get("/:id/stats", s.UserStats)
	users.Get("/:id/collections", s.ListUserCollections)
	users.Get("/:id", s.GetUser)
	protected.Post("/users/:id/follow", s.Follow)
	protected.Delete("/users/:id/follow", s.Unfollow)

	// Collection routes
	publicCollections := api.Group("/collections", middleware.AuthOptional)
	publicCollections.Get("/:id/posts", s.ListCollectionPosts)
	publicCollections.Get("/:id", s.GetCollection)

	collections := protected.Group("/collections")
	collections.Post("/", s.CreateCollection)
	collections.Post("/:id/posts/:postId", s.AddPostToCollection)
	collections.Delete("/:id/posts/:postId", s.RemovePostFromCollection)
	collections.Put("/:id", s.UpdateCollection)
	collections.Delete("/:id", s.DeleteCollection)

	// WebSocket session issuance and upgrade
	api.Post("/ws/session", middleware.AuthRequired, s.IssueWSSession)
	api.Get("/ws", s.WebsocketHandler())

	// Per-resource engagement routes. The same handlers serve posts, photos,
	// and videos; the resource type in the path selects the target table.
	// Registered last so specific routes above always win.
	resources := api.Group("/:resourceType/:resourceId")
	resources.Get("/comments", middleware.AuthOptional, s.ListComments)
	resources.Get("/likes", middleware.AuthOptional, s.ListLikers)
	resources.Get("/reactions", middleware.AuthOptional, s.ReactionSummary)

	resourcesAuth := resources.Group("", middleware.AuthRequired)
	resourcesAuth.Post("/comments", middleware.RateLimit(
		s.redis, 10, time.Minute, "create_comment"), s.CreateComment)
	resourcesAuth.Post("/like", s.Like)
	resourcesAuth.Delete("/like", s.Unlike)
	resourcesAuth.Put("/reaction", s.React)
	resourcesAuth.Delete("/reaction", s.RemoveReaction)
	resourcesAuth.Post("/share", middleware.RateLimit(
		s.redis, 10, time.Minute, "share"), s.Share)
	resourcesAuth.Post("/bookmark", s.Bookmark)
	resourcesAuth.Delete("/bookmark", s.Unbookmark)
	resourcesAuth.Post("/report", middleware.RateLimit(
		s.redis, 5, 10*time.Minute, "report"), s.Report)
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" || redisStatus != "healthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// Start starts the server
func (s *Server) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	s.shutdownCtx = ctx
	s.shutdownFn = cancel

	app := fiber.New(fiber.Config{
		AppName:   "Ripple Engagement API",
		BodyLimit: 25 * 1024 * 1024,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return models.RespondWithError(c, err)
		},
	})
	s.app = app

	s.SetupMiddleware(app)
	s.SetupRoutes(app)

	// Wire the hub to the Redis subscriber if available
	if s.notifier != nil && s.hub != nil {
		go func() {
			if err := s.hub.StartWiring(s.shutdownCtx, s.notifier); err != nil {
				log.Printf("failed to start %s wiring: %v", s.hub.Name(), err)
			}
		}()
	}

	if err := s.scheduler.Start(); err != nil {
		return fmt.Errorf("scheduler start failed: %w", err)
	}

	log.Printf("Server starting on port %s...", s.config.Port)
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	// Cancel the server-scoped context to stop all wiring goroutines
	if s.shutdownFn != nil {
		s.shutdownFn()
	}

	s.scheduler.Stop()

	// Shutdown the HTTP/WS server
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			log.Printf("error shutting down HTTP server: %v", err)
		}
	}

	// Close WebSocket connections gracefully
	if s.hub != nil {
		if err := s.hub.Shutdown(ctx); err != nil {
			log.Printf("error shutting down %s: %v", s.hub.Name(), err)
		}
	}

	// Close database connection
	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Printf("error closing sql DB: %v", cerr)
		}
	}

	// Close Redis connection
	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			log.Printf("error closing redis: %v", rerr)
		}
	}

	return nil
}
