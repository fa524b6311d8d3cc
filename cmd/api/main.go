package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/dulcefe/storefront/internal/catalog"
	"github.com/dulcefe/storefront/internal/config"
	"github.com/dulcefe/storefront/internal/handler"
	"github.com/dulcefe/storefront/internal/repository"
	"github.com/dulcefe/storefront/internal/service"
	"github.com/dulcefe/storefront/internal/validator"
	"github.com/dulcefe/storefront/pkg/database"
)

func main() {
	// Load configuration first
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Initialize zerolog based on configuration
	initLogger(cfg)

	// Create context for startup
	ctx := context.Background()

	// Connect to the persistent cart store with retry
	redisClient, err := database.NewRedisClient(ctx, database.Options{
		Addr:         cfg.Redis.Addr(),
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
	}, 5)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to storage")
	}

	// Initialize Fiber with production-ready configuration
	app := fiber.New(fiber.Config{
		AppName:      "Dulce Fe Storefront",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
		BodyLimit:    1 * 1024 * 1024,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logger.New())

	// Initialize validator
	validate := validator.New()

	// Initialize storefront components (layered architecture)
	catalogStore := catalog.NewStore(cfg.Catalog.URL, time.Duration(cfg.Catalog.Timeout)*time.Second)
	cartRepo := repository.NewCartRepository(redisClient, cfg.Cart.KeyPrefix, time.Duration(cfg.Cart.TTLHours)*time.Hour)
	cartService := service.NewCartService(cartRepo, catalogStore)
	cartHandler := handler.NewCartHandler(cartService, validate)
	catalogHandler := handler.NewCatalogHandler(catalogStore)
	healthHandler := handler.NewHealthHandler(redisClient)

	app.Get("/health", healthHandler.Check)

	// Storefront API
	api := app.Group("/api", handler.NewSession())
	api.Get("/products", catalogHandler.ListProducts)
	api.Get("/cart", cartHandler.GetCart)
	api.Delete("/cart", cartHandler.ClearCart)
	api.Post("/cart/items", cartHandler.AddItem)
	api.Put("/cart/items/:id", cartHandler.UpdateQuantity)
	api.Delete("/cart/items/:id", cartHandler.RemoveItem)
	api.Post("/cart/coupon", cartHandler.ApplyCoupon)
	api.Put("/cart/coupon/target", cartHandler.SetCouponTarget)
	api.Delete("/cart/coupon", cartHandler.RemoveCoupon)

	// Static storefront with SPA fallback: any non-API GET serves the app
	app.Static("/", cfg.Server.StaticDir)
	app.Get("/*", func(c *fiber.Ctx) error {
		if strings.HasPrefix(c.Path(), "/api/") {
			return fiber.ErrNotFound
		}
		return c.SendFile(filepath.Join(cfg.Server.StaticDir, "index.html"))
	})

	// Start server with graceful shutdown
	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("starting server")
		if err := app.Listen(":" + cfg.Server.Port); err != nil {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("received shutdown signal")
	log.Info().Int("timeout_seconds", cfg.Server.ShutdownTimeout).Msg("shutting down server...")

	// Create shutdown context with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer shutdownCancel()

	// Shutdown server (waits for in-flight requests)
	log.Info().Msg("waiting for in-flight requests to complete...")
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during server shutdown")
	}

	// Close the storage client after the server stops so late cart writes land
	log.Info().Msg("closing storage connection...")
	if err := redisClient.Close(); err != nil {
		log.Error().Err(err).Msg("error closing storage connection")
	}
	log.Info().Msg("server stopped")
}

// initLogger configures zerolog based on the application configuration.
func initLogger(cfg *config.Config) {
	// Set log level
	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	// Configure output format
	if cfg.Log.Pretty {
		// Human-readable output for development
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).
			With().Timestamp().Logger()
	} else {
		// JSON output for production
		zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	}
}
