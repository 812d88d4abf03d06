package main

import (
	"fmt"
	"os"

	"budgetree/internal/config"
	"budgetree/internal/ledger"
	"budgetree/internal/logger"
	"budgetree/internal/router"
	"budgetree/internal/services"
)

// @title           Budgetree API
// @version         1.0
// @description     Budgetree keeps a budget as a forest of income and expense categories and derives group totals, income usage and budget progress from it.

// @host      localhost:8080
// @BasePath  /api/v1

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Build the in-memory ledger
	store := ledger.NewStore()
	if appConfig.SeedDefaults {
		if err := store.Seed(); err != nil {
			return fmt.Errorf("failed to seed default categories: %w", err)
		}
		log.Infow("seeded default categories", "count", store.Len())
	}

	ledgerService := services.NewLedgerService(store, appConfig.DefaultCurrency)
	engine := router.New(ledgerService)

	log.Infof("Starting Budgetree server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return engine.Run(":" + appConfig.Port)
}
