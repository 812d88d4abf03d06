package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"budgetree/internal/currency"
)

// Config holds application configuration
type Config struct {
	// Server
	Env  string
	Port string

	// Ledger
	SeedDefaults    bool
	DefaultCurrency string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if not already loaded
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	config := &Config{
		Env:             getEnv("ENV", "development"),
		Port:            getEnv("PORT", "8080"),
		DefaultCurrency: strings.ToUpper(getEnv("DEFAULT_CURRENCY", string(currency.USD))),
	}

	seedStr := getEnv("SEED_DEFAULTS", "true")
	seed, err := strconv.ParseBool(seedStr)
	if err != nil {
		return nil, fmt.Errorf("invalid SEED_DEFAULTS value %q: %w", seedStr, err)
	}
	config.SeedDefaults = seed

	if !currency.IsSupported(config.DefaultCurrency) {
		return nil, fmt.Errorf("unsupported DEFAULT_CURRENCY %q", config.DefaultCurrency)
	}

	return config, nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
