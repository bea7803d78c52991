package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config represents the full application configuration surface.
type Config struct {
	Server    ServerConfig
	MongoDB   MongoDBConfig
	Prices    PricesConfig
	Valuation ValuationConfig
	Sheets    SheetsConfig
	Scheduler SchedulerConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port string
}

// MongoDBConfig holds settings for MongoDB.
type MongoDBConfig struct {
	URI    string
	DBName string
}

// PricesConfig contains the upstream market price API settings and the
// cache staleness rule parameters.
type PricesConfig struct {
	BaseURL        string
	APIKey         string
	RequestTimeout time.Duration

	// The upstream source publishes new prices once a day at this local
	// time; the price cache is stale once the boundary has been crossed.
	RefreshHour   int
	RefreshMinute int
	CacheMaxAge   time.Duration
}

// ValuationConfig holds engine defaults applied when no preferences exist.
type ValuationConfig struct {
	DefaultState string
}

// SheetsConfig contains configuration for the valuation snapshot export.
// Export is disabled when SpreadsheetID is empty.
type SheetsConfig struct {
	CredentialsPath string
	SpreadsheetID   string
	SnapshotRange   string
}

// SchedulerConfig holds cron expressions for the background jobs.
type SchedulerConfig struct {
	PrefetchSchedule string
	SnapshotSchedule string
	Timezone         string
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Ignore the returned error here; missing .env files are acceptable when
		// configuration comes from the environment directly.
		_ = godotenv.Load()
	}

	requestTimeout, err := getenvDuration("PRICES_REQUEST_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	cacheMaxAge, err := getenvDuration("PRICES_CACHE_MAX_AGE", 24*time.Hour)
	if err != nil {
		return nil, err
	}
	refreshHour, err := getenvInt("PRICES_REFRESH_HOUR", 1)
	if err != nil {
		return nil, err
	}
	refreshMinute, err := getenvInt("PRICES_REFRESH_MINUTE", 30)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getenvWithDefault("APP_PORT", "8080"),
		},
		MongoDB: MongoDBConfig{
			URI:    getenvWithDefault("MONGODB_URI", "mongodb://localhost:27017"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "stockyard"),
		},
		Prices: PricesConfig{
			BaseURL:        getenvWithDefault("PRICES_BASE_URL", "https://prices.mla.com.au"),
			APIKey:         os.Getenv("PRICES_API_KEY"),
			RequestTimeout: requestTimeout,
			RefreshHour:    refreshHour,
			RefreshMinute:  refreshMinute,
			CacheMaxAge:    cacheMaxAge,
		},
		Valuation: ValuationConfig{
			DefaultState: getenvWithDefault("VALUATION_DEFAULT_STATE", "NSW"),
		},
		Sheets: SheetsConfig{
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:   os.Getenv("GOOGLE_SHEET_SNAPSHOT_ID"),
			SnapshotRange:   getenvWithDefault("GOOGLE_SHEET_SNAPSHOT_RANGE", "Valuations!A:J"),
		},
		Scheduler: SchedulerConfig{
			PrefetchSchedule: getenvWithDefault("PREFETCH_CRON_SCHEDULE", "40 1 * * *"),
			SnapshotSchedule: getenvWithDefault("SNAPSHOT_CRON_SCHEDULE", "0 7 * * *"),
			Timezone:         getenvWithDefault("TIMEZONE", "Australia/Sydney"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated and coherent.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	switch {
	case c.MongoDB.URI == "":
		return errors.New("MONGODB_URI must be provided")
	case c.MongoDB.DBName == "":
		return errors.New("MONGODB_DB_NAME must be provided")
	}

	if c.Prices.BaseURL == "" {
		return errors.New("PRICES_BASE_URL must not be empty")
	}
	if c.Prices.RequestTimeout <= 0 {
		return errors.New("PRICES_REQUEST_TIMEOUT must be positive")
	}
	if c.Prices.CacheMaxAge <= 0 {
		return errors.New("PRICES_CACHE_MAX_AGE must be positive")
	}
	if c.Prices.RefreshHour < 0 || c.Prices.RefreshHour > 23 {
		return errors.New("PRICES_REFRESH_HOUR must be between 0 and 23")
	}
	if c.Prices.RefreshMinute < 0 || c.Prices.RefreshMinute > 59 {
		return errors.New("PRICES_REFRESH_MINUTE must be between 0 and 59")
	}

	if c.Sheets.SpreadsheetID != "" && c.Sheets.CredentialsPath == "" {
		return errors.New("GOOGLE_SHEETS_CREDENTIALS_PATH must be provided when snapshot export is enabled")
	}

	if c.Scheduler.PrefetchSchedule == "" {
		return errors.New("PREFETCH_CRON_SCHEDULE must be provided")
	}
	if c.Scheduler.SnapshotSchedule == "" {
		return errors.New("SNAPSHOT_CRON_SCHEDULE must be provided")
	}
	if c.Scheduler.Timezone == "" {
		return errors.New("TIMEZONE must be provided")
	}

	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getenvInt(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return parsed, nil
}

func getenvDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration: %w", key, err)
	}
	return parsed, nil
}
