package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
// Every environment variable is read here and nowhere else.
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Redis
	Redis RedisConfig

	// External providers
	Scanner ScannerConfig
	Quotes  QuotesConfig

	// Screener defaults
	Market   string
	PageSize int

	// Chart output
	ChartDir string

	// Scheduler
	RefreshSchedule string

	// Logging
	LogLevel  string
	LogFormat string
}

// RedisConfig holds Redis cache configuration.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
	CacheTTL time.Duration
}

// ScannerConfig holds the market scanner endpoint configuration.
type ScannerConfig struct {
	BaseURL   string
	Timeout   time.Duration
	RateLimit float64 // requests per second
	RateBurst int
}

// QuotesConfig holds the quote-history / news endpoint configuration.
type QuotesConfig struct {
	ChartBaseURL  string
	SearchBaseURL string
	Timeout       time.Duration
	RateLimit     float64
	RateBurst     int
	MaxRetries    int
}

// Load reads configuration from environment variables.
// Only this function calls os.Getenv().
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("ENV", "development"),

		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", true),
			CacheTTL: getEnvAsDuration("CACHE_TTL", "1h"),
		},

		Scanner: ScannerConfig{
			BaseURL:   getEnv("SCANNER_BASE_URL", "https://scanner.tradingview.com"),
			Timeout:   getEnvAsDuration("SCANNER_TIMEOUT", "30s"),
			RateLimit: getEnvAsFloat("SCANNER_RATE_LIMIT", 2),
			RateBurst: getEnvAsInt("SCANNER_RATE_BURST", 2),
		},

		Quotes: QuotesConfig{
			ChartBaseURL:  getEnv("QUOTES_CHART_BASE_URL", "https://query1.finance.yahoo.com/v8/finance/chart"),
			SearchBaseURL: getEnv("QUOTES_SEARCH_BASE_URL", "https://query1.finance.yahoo.com/v1/finance/search"),
			Timeout:       getEnvAsDuration("QUOTES_TIMEOUT", "10s"),
			RateLimit:     getEnvAsFloat("QUOTES_RATE_LIMIT", 5),
			RateBurst:     getEnvAsInt("QUOTES_RATE_BURST", 5),
			MaxRetries:    getEnvAsInt("QUOTES_MAX_RETRIES", 3),
		},

		Market:   getEnv("SCREENER_MARKET", "america"),
		PageSize: getEnvAsInt("SCREENER_PAGE_SIZE", 100),

		ChartDir: getEnv("CHART_DIR", "charts"),

		RefreshSchedule: getEnv("REFRESH_SCHEDULE", "0 0 6 * * *"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are sane.
func (c *Config) validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if c.PageSize < 1 {
		return fmt.Errorf("SCREENER_PAGE_SIZE must be positive, got %d", c.PageSize)
	}

	if c.Scanner.BaseURL == "" {
		return fmt.Errorf("SCANNER_BASE_URL is required")
	}

	return nil
}

// loadEnvFile tries to load .env from multiple locations.
func loadEnvFile() {
	paths := []string{
		".env",
	}

	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
