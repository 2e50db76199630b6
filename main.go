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
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gorm.io/gorm"

	"vyns/internal/config"
	"vyns/internal/handlers"
	"vyns/internal/logging"
	"vyns/internal/middleware"
	"vyns/internal/repositories"
	"vyns/internal/services"
	"vyns/internal/wallet"
	"vyns/pkg/rabbitmq"
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	appLog := logging.New(os.Stdout, cfg.AppEnv, cfg.LogLevel)
	ctx := context.Background()

	// --- Database ---
	db, err := config.InitDB(cfg)
	if err != nil {
		appLog.Error(ctx, "failed to initialize database", "error", err)
		os.Exit(1)
	}

	// --- RabbitMQ (optional) ---
	// Without a broker, events are recorded in process.
	var mqClient *rabbitmq.Client
	if cfg.RabbitMQURL != "" {
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL, Queue: cfg.RabbitMQQueue})
		if err != nil {
			appLog.Error(ctx, "failed to initialize RabbitMQ client", "error", err)
			os.Exit(1)
		}
		defer mqClient.Close()
	}

	var queue services.MessageQueue
	if mqClient != nil {
		queue = mqClient
	}
	app, activityService := newApp(cfg, db, appLog, queue)

	// --- Activity consumer ---
	if mqClient != nil {
		appLog.Info(ctx, "starting activity consumer", "queue", cfg.RabbitMQQueue)
		err := mqClient.Consume(func(body []byte) error {
			event, err := services.DecodeEvent(body)
			if err != nil {
				return err
			}
			return activityService.HandleEvent(context.Background(), event)
		})
		if err != nil {
			appLog.Error(ctx, "failed to start activity consumer", "error", err)
		}
	}

	// --- Start HTTP Server ---
	appLog.Info(ctx, "starting server", "port", cfg.AppPort, "env", cfg.AppEnv)

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(cfg.AppPort); err != nil {
			appLog.Error(ctx, "server failed", "error", err)
			quit <- syscall.SIGTERM
		}
	}()

	<-quit
	appLog.Info(ctx, "shutting down server")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		appLog.Error(ctx, "error during shutdown", "error", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
	appLog.Info(ctx, "server gracefully stopped")
}

// newApp wires repositories, services and handlers into a Fiber app. A nil
// queue makes the activity service consume events in process.
func newApp(cfg *config.Config, db *gorm.DB, appLog logging.Logger, queue services.MessageQueue) (*fiber.App, *services.ActivityService) {
	// --- Repositories ---
	userRepo := repositories.NewGORMUserRepository(db, cfg.StoreTimeout)
	usernameRepo := repositories.NewGORMUsernameRepository(db, cfg.StoreTimeout)
	activityRepo := repositories.NewGORMActivityRepository(db, cfg.StoreTimeout)

	// --- Services ---
	activityService := services.NewActivityService(activityRepo, userRepo, appLog)
	var publisher services.EventPublisher = activityService
	if queue != nil {
		publisher = services.NewQueuePublisher(queue)
	}
	tokens := services.NewTokenService(cfg.JWTSecret)
	authService := services.NewAuthService(userRepo, tokens, wallet.NewVerifier(), publisher, appLog)
	usernameService := services.NewUsernameService(usernameRepo, userRepo, publisher, appLog)

	// --- Fiber App ---
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var e *fiber.Error
			if errors.As(err, &e) {
				code = e.Code
			}
			if code == fiber.StatusInternalServerError {
				appLog.Error(c.UserContext(), "unhandled error", "path", c.Path(), "error", err)
				return c.Status(code).JSON(fiber.Map{"success": false, "error": "Internal server error"})
			}
			return c.Status(code).JSON(fiber.Map{"success": false, "error": err.Error()})
		},
	})

	// --- Middleware ---
	app.Use(recover.New())
	app.Use(logger.New())

	// --- Health Check Endpoint ---
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// --- API Routes ---
	api := app.Group("/api")
	requireAuth := middleware.AuthRequired(tokens)

	handlers.NewAuthHandler(authService, appLog, cfg.Production()).RegisterRoutes(api)
	handlers.NewUsernameHandler(usernameService, appLog).RegisterRoutes(api, requireAuth)
	handlers.NewActivityHandler(activityService, appLog).RegisterRoutes(api, requireAuth)

	return app, activityService
}
