package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/jelajahid/jelajah/pkg/config"
	"github.com/jelajahid/jelajah/pkg/errx/errxfiber"
	"github.com/jelajahid/jelajah/pkg/logx"
)

func main() {
	// 1. Initialize Logger
	logx.SetLevel(logx.ParseLevel(os.Getenv("LOG_LEVEL")))

	logx.Info("🚀 Starting Jelajah API Server...")

	// 2. Load Config and Initialize Dependency Container
	cfg := config.Load()
	container := NewContainer(cfg)
	defer container.Cleanup()

	// 3. Create Fiber App with Config
	app := fiber.New(fiber.Config{
		AppName:               "Jelajah API",
		DisableStartupMessage: true,
		ErrorHandler:          errxfiber.ErrorHandler(errxfiber.Options{Debug: cfg.Server.Debug}),
		IdleTimeout:           120 * time.Second,
	})

	// 4. Global Middleware
	app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
	}))

	app.Use(requestid.New(requestid.Config{
		Header: "X-Request-ID",
		Generator: func() string {
			return uuid.NewString()
		},
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.CORSOrigins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Request-ID",
		AllowMethods:     "GET, POST, PUT, DELETE, OPTIONS",
		AllowCredentials: cfg.Server.CORSOrigins != "*",
		ExposeHeaders:    "X-Request-ID",
	}))

	app.Use(logger.New(logger.Config{
		Format:     "${time} | ${status} | ${latency} | ${method} ${path} | ${ip} | ${reqHeader:X-Request-ID}\n",
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "Local",
	}))

	app.Use(container.Metrics.Middleware())

	// 5. Health Check & Info Endpoints
	app.Get("/health", healthCheckHandler(container))
	app.Get("/", infoHandler(cfg))
	app.Get("/metrics", adaptor.HTTPHandler(container.Metrics.HTTPHandler()))

	// 6. Register Routes

	// ========================================================================
	// Authentication & Profile Routes
	// ========================================================================
	// Routes: /api/register, /api/login, /api/logout, /api/reset-password,
	//         /api/complete-profile, /api/profile
	container.AuthHandlers.RegisterRoutes(app, container.AuthMiddleware)
	logx.Info("✓ Auth routes registered")

	// ========================================================================
	// Travel Routes
	// ========================================================================
	// Routes: /api/destinasi/*, /api/posts
	container.TravelHandlers.RegisterRoutes(app, container.AuthMiddleware)
	logx.Info("✓ Travel routes registered")

	// 7. 404 Handler
	app.Use(notFoundHandler)

	// 8. Start Server with Graceful Shutdown
	startServer(app, cfg)
}

// ============================================================================
// Handler Functions
// ============================================================================

// healthCheckHandler reports the configured adapters. The document store is
// probed only when asked, the same way a slow dependency check should be.
func healthCheckHandler(container *Container) fiber.Handler {
	return func(c *fiber.Ctx) error {
		health := fiber.Map{
			"status":   "healthy",
			"service":  "jelajah-api",
			"version":  container.Config.Server.AppVersion,
			"identity": container.Config.Identity.Provider,
			"docstore": container.Config.Docstore.Provider,
		}

		if c.QueryBool("check_store", false) {
			if _, err := container.Docstore.List(c.Context(), "destinations"); err != nil {
				health["docstore_error"] = err.Error()
				health["status"] = "degraded"
			}
		}

		status := fiber.StatusOK
		if health["status"] == "degraded" {
			status = fiber.StatusServiceUnavailable
		}
		return c.Status(status).JSON(health)
	}
}

// infoHandler returns basic API information
func infoHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"service":     "Jelajah API",
			"version":     cfg.Server.AppVersion,
			"description": "Travel destination API",
			"endpoints": fiber.Map{
				"auth":         "/api/register, /api/login, /api/logout, /api/reset-password",
				"profile":      "/api/profile, /api/complete-profile",
				"destinations": "/api/destinasi",
				"posts":        "/api/posts",
				"health":       "/health",
				"metrics":      "/metrics",
			},
		})
	}
}

// notFoundHandler handles 404 errors
func notFoundHandler(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"error":      "Route not found",
		"code":       "NOT_FOUND",
		"path":       c.Path(),
		"method":     c.Method(),
		"request_id": c.Get("X-Request-ID"),
	})
}

// startServer starts the server with graceful shutdown
func startServer(app *fiber.App, cfg *config.Config) {
	go func() {
		logx.Infof("🚀 Server listening on port %s", cfg.Server.Port)
		logx.Infof("💚 Health Check: http://localhost:%s/health", cfg.Server.Port)

		if err := app.Listen(":" + cfg.Server.Port); err != nil {
			logx.Fatalf("Server error: %v", err)
		}
	}()

	gracefulShutdown(app)
}

// gracefulShutdown handles graceful server shutdown
func gracefulShutdown(app *fiber.App) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	sig := <-sigChan
	logx.Infof("🛑 Received signal: %v", sig)
	logx.Info("Shutting down gracefully...")

	if err := app.ShutdownWithTimeout(30 * time.Second); err != nil {
		logx.Errorf("Server forced to shutdown: %v", err)
	}

	logx.Info("✅ Server exited successfully")
}
