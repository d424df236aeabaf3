package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Database drivers
const (
	DBTypePostgres = "postgres"
	DBTypeSQLite   = "sqlite"
)

// Config holds all application configuration
type Config struct {
	// Server
	Port        string
	Environment string

	// Database
	DBType       string
	DatabaseURL  string
	SeedFixtures bool

	// JWT
	JWTSecret          string
	JWTExpirationHours int

	// Storage
	StoragePath string

	// Background Workers
	WorkerCount      int
	ReminderInterval time.Duration

	// CORS
	AllowedOrigins []string

	// Email (Resend)
	EnableEmailNotifications bool
	ResendAPIKey             string
	FromEmail                string

	// Sentry
	SentryDSN string

	// Advisor (language model completion endpoint)
	AdvisorURL     string
	AdvisorAPIKey  string
	AdvisorModel   string
	AdvisorTimeout time.Duration

	// Pricing premiums per unit step
	PricingBuildingStep float64
	PricingPlotStep     float64
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Port:                     getEnv("PORT", "8080"),
		Environment:              getEnv("ENVIRONMENT", "development"),
		DBType:                   strings.ToLower(getEnv("DB_TYPE", DBTypeSQLite)),
		DatabaseURL:              getEnv("DATABASE_URL", ""),
		SeedFixtures:             getEnvAsBool("SEED_FIXTURES", false),
		JWTSecret:                getEnv("JWT_SECRET", ""),
		JWTExpirationHours:       getEnvAsInt("JWT_EXPIRATION_HOURS", 24),
		StoragePath:              getEnv("STORAGE_PATH", "./storage"),
		WorkerCount:              getEnvAsInt("WORKER_COUNT", 5),
		ReminderInterval:         time.Duration(getEnvAsInt("REMINDER_INTERVAL_HOURS", 24)) * time.Hour,
		AllowedOrigins:           getEnvAsSlice("ALLOWED_ORIGINS", []string{"*"}),
		ResendAPIKey:             getEnv("RESEND_API_KEY", ""),
		EnableEmailNotifications: getEnvAsBool("ENABLE_EMAIL_NOTIFICATIONS", false),
		FromEmail:                getEnv("FROM_EMAIL", "noreply@cobuy.id"),
		SentryDSN:                getEnv("SENTRY_DSN", ""),
		AdvisorURL:               getEnv("ADVISOR_URL", ""),
		AdvisorAPIKey:            getEnv("ADVISOR_API_KEY", ""),
		AdvisorModel:             getEnv("ADVISOR_MODEL", "default"),
		AdvisorTimeout:           time.Duration(getEnvAsInt("ADVISOR_TIMEOUT_SECONDS", 30)) * time.Second,
		PricingBuildingStep:      getEnvAsFloat("PRICING_BUILDING_STEP", 0.05),
		PricingPlotStep:          getEnvAsFloat("PRICING_PLOT_STEP", 0.02),
	}

	// Validate required configuration
	switch cfg.DBType {
	case DBTypePostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required for postgres")
		}
	case DBTypeSQLite:
		if cfg.DatabaseURL == "" {
			cfg.DatabaseURL = "cobuy.db"
		}
	default:
		return nil, fmt.Errorf("unsupported DB_TYPE %q", cfg.DBType)
	}

	if cfg.JWTSecret == "" && cfg.Environment == "production" {
		return nil, fmt.Errorf("JWT_SECRET is required in production")
	}

	// Set default JWT secret for development
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "dev-secret-change-in-production"
	}

	if cfg.ReminderInterval <= 0 {
		return nil, fmt.Errorf("REMINDER_INTERVAL_HOURS must be positive")
	}

	return cfg, nil
}

// IsProduction reports whether the service runs in production
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

// getEnvAsFloat reads an environment variable as float
func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsBool reads an environment variable as boolean
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
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
