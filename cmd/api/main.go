package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"blogcms/internal/config"
	"blogcms/internal/handler"
	"blogcms/internal/middleware"
	"blogcms/internal/pkg/i18n"
	"blogcms/internal/repository"
	"blogcms/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()

	zapConfig := zap.NewProductionConfig()
	if cfg.IsDevelopment() {
		zapConfig.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	zlog, err := zapConfig.Build()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	if err := i18n.LoadTranslations(cfg.LocalesDir); err != nil {
		zlog.Warn("failed to load translations", zap.String("dir", cfg.LocalesDir), zap.Error(err))
	}

	repos, closeStore := openStore(cfg, zlog)
	defer closeStore()

	var redisClient *redis.Client
	if client, err := config.NewRedisClient(cfg); errors.Is(err, config.ErrCacheDisabled) {
		zlog.Info("comment cache disabled")
	} else if err != nil {
		zlog.Warn("redis unavailable, comment cache disabled", zap.Error(err))
	} else {
		redisClient = client
		defer redisClient.Close()
	}

	services, err := service.NewServices(repos, redisClient, cfg, zlog)
	if err != nil {
		zlog.Fatal("failed to build services", zap.Error(err))
	}
	handlers := handler.NewHandlers(services)

	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.NewErrorHandler(zlog),
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == "/health"
		},
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Accept-Language, Authorization",
		AllowMethods: "GET, POST, DELETE, OPTIONS",
	}))

	setupRoutes(app, handlers, services)

	go func() {
		zlog.Info("server starting", zap.String("port", cfg.Port))
		if err := app.Listen(":" + cfg.Port); err != nil {
			zlog.Fatal("failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zlog.Info("shutting down")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		zlog.Error("shutdown failed", zap.Error(err))
	}
	services.Comment.Wait()
}

// openStore connects to Postgres and applies migrations. Without DATABASE_URL
// in development the comments live in memory.
func openStore(cfg *config.Config, zlog *zap.Logger) (*repository.Repositories, func()) {
	if cfg.DatabaseURL == "" && cfg.IsDevelopment() {
		zlog.Warn("DATABASE_URL not set, using in-memory comment store")
		return repository.NewMemoryRepositories(), func() {}
	}

	db, err := config.NewPostgresDB(cfg)
	if err != nil {
		zlog.Fatal("failed to connect to database", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	applied, err := repository.ApplyMigrations(ctx, db, cfg.MigrationsDir)
	if err != nil {
		zlog.Fatal("failed to apply migrations", zap.Error(err))
	}
	if len(applied) > 0 {
		zlog.Info("migrations applied", zap.Strings("versions", applied))
	}

	return repository.NewRepositories(db, cfg.StoreTimeout), func() { _ = db.Close() }
}

func setupRoutes(app *fiber.App, h *handler.Handlers, services *service.Services) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	v1 := app.Group("/api/v1")

	auth := v1.Group("/auth")
	auth.Post("/login", h.Auth.Login)

	posts := v1.Group("/posts/:postId/comments")
	posts.Get("/", h.Comment.List)
	posts.Post("/", h.Comment.Create)

	admin := v1.Group("/admin/comments", middleware.AdminRequired(services.Auth))
	admin.Get("/", h.AdminComment.List)
	admin.Get("/counts", h.AdminComment.Counts)
	admin.Get("/activity", h.Activity.Recent)
	admin.Get("/:commentId/history", h.Activity.History)
	admin.Post("/:commentId/moderate", h.AdminComment.Moderate)
	admin.Post("/:commentId/reply", h.AdminComment.Reply)
	admin.Post("/:commentId/approve-thread", h.AdminComment.ApproveThread)
	admin.Delete("/:commentId", h.AdminComment.Delete)
}
