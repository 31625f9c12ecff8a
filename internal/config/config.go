package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sjperalta/fintera-ledger/pkg/amount"
)

// Config holds all application configuration
type Config struct {
	// Server
	Port        string
	Environment string
	LogLevel    string

	// Database
	DatabaseURL string

	// Ledger
	LedgerCurrency       string
	ChartOfAccountsPath  string
	SeedDefaultChart     bool
	AnalyticsCacheTTL    time.Duration
	BudgetRefreshEvery   time.Duration
	BalanceCheckInterval time.Duration

	// Background Workers
	WorkerCount int

	// CORS
	AllowedOrigins []string

	// Sentry
	SentryDSN string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Port:                 getEnv("PORT", "8080"),
		Environment:          getEnv("ENVIRONMENT", "development"),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		DatabaseURL:          getEnv("DATABASE_URL", ""),
		LedgerCurrency:       strings.ToUpper(getEnv("LEDGER_CURRENCY", amount.DefaultCurrency)),
		ChartOfAccountsPath:  getEnv("CHART_OF_ACCOUNTS_PATH", ""),
		SeedDefaultChart:     getEnvAsBool("SEED_DEFAULT_CHART", false),
		AnalyticsCacheTTL:    time.Duration(getEnvAsInt("ANALYTICS_CACHE_TTL_MINUTES", 15)) * time.Minute,
		BudgetRefreshEvery:   time.Duration(getEnvAsInt("BUDGET_REFRESH_MINUTES", 15)) * time.Minute,
		BalanceCheckInterval: time.Duration(getEnvAsInt("BALANCE_CHECK_HOURS", 6)) * time.Hour,
		WorkerCount:          getEnvAsInt("WORKER_COUNT", 5),
		AllowedOrigins:       getEnvAsSlice("ALLOWED_ORIGINS", []string{"*"}),
		SentryDSN:            getEnv("SENTRY_DSN", ""),
	}

	// Validate required configuration
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if _, err := amount.Lookup(cfg.LedgerCurrency); err != nil {
		return nil, fmt.Errorf("LEDGER_CURRENCY: %w", err)
	}

	if cfg.WorkerCount < 1 {
		cfg.WorkerCount = 1
	}

	return cfg, nil
}

// IsProduction reports whether the service runs with production settings
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt reads an environment variable as integer
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsSlice reads an environment variable as comma-separated slice
func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	parts := strings.Split(valueStr, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
