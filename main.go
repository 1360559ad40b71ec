package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/spf13/viper"

	"katalog/internal/database"
	"katalog/internal/handlers"
	"katalog/internal/repositories"
	"katalog/internal/services"
)

func main() {
	// --- Configuration ---
	// Viper reads from environment variables with sensible local defaults.
	viper.SetDefault("APP_PORT", ":8080")
	viper.SetDefault("DB_DRIVER", "sqlite")
	viper.SetDefault("DB_DSN", "katalog.db")
	viper.SetDefault("LOW_STOCK_THRESHOLD", handlers.DefaultLowStockThreshold)
	viper.AutomaticEnv()

	appPort := viper.GetString("APP_PORT")
	dbDriver := viper.GetString("DB_DRIVER")
	dbDSN := viper.GetString("DB_DSN")
	lowStockThreshold := viper.GetInt("LOW_STOCK_THRESHOLD")

	// --- Database ---
	db, err := database.Open(dbDriver, dbDSN)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// --- Repositories ---
	idGen := repositories.NewGORMSequenceGenerator(db)
	productRepo := repositories.NewGORMProductRepository(db, idGen)

	// Seed catalog data on first run
	if err := database.Seed(productRepo); err != nil {
		log.Fatalf("Failed to seed products: %v", err)
	}

	// --- Services ---
	productService := services.NewProductService(productRepo)

	// --- Handlers ---
	productHandler := handlers.NewProductHandler(productService, lowStockThreshold)

	// --- Fiber App ---
	app := fiber.New()

	// --- Middleware ---
	app.Use(requestid.New(requestid.Config{
		Generator: func() string { return uuid.NewString() },
	}))
	app.Use(logger.New())
	app.Use(recover.New())

	// --- API Routes ---
	apiV1 := app.Group("/api/v1")
	productHandler.RegisterRoutes(apiV1)

	// --- Health Check Endpoint ---
	app.Get("/health", func(c *fiber.Ctx) error {
		status := "healthy"
		code := fiber.StatusOK
		if sqlDB, dbErr := db.DB(); dbErr != nil || sqlDB.Ping() != nil {
			status = "degraded"
			code = fiber.StatusServiceUnavailable
		}
		return c.Status(code).JSON(fiber.Map{
			"status": status,
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
	})

	// --- Start HTTP Server ---
	log.Printf("Starting server on port %s", appPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(appPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}
	log.Println("Server gracefully stopped")
}
