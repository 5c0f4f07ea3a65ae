package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"
	_ "time/tzdata" // APP_TIMEZONE must resolve in minimal containers

	"github.com/joho/godotenv"

	"github.com/nekogravitycat/facility-booking-backend/internal/holiday"
	"github.com/nekogravitycat/facility-booking-backend/internal/zone"
)

const PROD_STRING = "prod"

// Config holds all application configuration loaded from environment.
type Config struct {
	IsProduction      bool
	ProdOrigins       string
	HTTPAddr          string
	DBDSN             string
	JWTSecret         string
	JWTAccessTokenTTL time.Duration
	AutoMigrate       bool

	// Resolver
	Location         *time.Location
	SlotMatchMode    zone.MatchMode
	EnforcePeerRules bool
	MaintenanceDates []time.Time

	// External booking service; empty URL means bookings are read locally.
	BookingServiceURL     string
	BookingServiceTimeout time.Duration
	BookingServiceRPS     float64

	// Heatmap cache; empty address disables it.
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	HeatmapCacheTTL time.Duration

	RateLimitRPS   float64
	RateLimitBurst int
}

// Load loads configuration from .env (optional) and environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists
	err := godotenv.Load()
	if err != nil {
		log.Printf("failed to load .env file: %v", err)
	}

	cfg := &Config{}

	// Production origin (default: empty)
	cfg.ProdOrigins = getEnv("PROD_ORIGINS", "")

	// Application environment (default: dev)
	appEnvStr := getEnv("APP_ENV", "dev")
	cfg.IsProduction = appEnvStr == PROD_STRING

	// HTTP listen address (default: :8080)
	cfg.HTTPAddr = getEnv("HTTP_ADDR", ":8080")

	// Database DSN is required
	cfg.DBDSN = os.Getenv("DB_DSN")
	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required")
	}

	// JWT secret is required for verifying tokens
	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	// Apply the embedded schema on start (default: true)
	cfg.AutoMigrate, err = getEnvAsBool("DB_AUTO_MIGRATE", true)
	if err != nil {
		return nil, err
	}

	// JWT access token TTL, parse as time.Duration (e.g. "15m", "1h").
	cfg.JWTAccessTokenTTL, err = getEnvAsDuration("JWT_ACCESS_TOKEN_TTL", 15*time.Minute)
	if err != nil {
		return nil, err
	}

	// Wall-clock zone used for slots, weekdays and "today" (default: Europe/Oslo)
	cfg.Location, err = time.LoadLocation(getEnv("APP_TIMEZONE", "Europe/Oslo"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_TIMEZONE: %w", err)
	}

	// How time slot labels are compared: "label" (default) or "overlap"
	cfg.SlotMatchMode, err = zone.ParseMatchMode(getEnv("SLOT_MATCH_MODE", ""))
	if err != nil {
		return nil, fmt.Errorf("invalid SLOT_MATCH_MODE: %w", err)
	}

	cfg.EnforcePeerRules, err = getEnvAsBool("ENFORCE_PEER_RULES", true)
	if err != nil {
		return nil, err
	}

	cfg.MaintenanceDates, err = holiday.ParseMaintenanceDates(getEnv("MAINTENANCE_DATES", ""))
	if err != nil {
		return nil, fmt.Errorf("invalid MAINTENANCE_DATES: %w", err)
	}

	cfg.BookingServiceURL = getEnv("BOOKING_SERVICE_URL", "")
	cfg.BookingServiceTimeout, err = getEnvAsDuration("BOOKING_SERVICE_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, err
	}
	if cfg.BookingServiceTimeout <= 0 {
		return nil, fmt.Errorf("BOOKING_SERVICE_TIMEOUT must be positive, got %s", cfg.BookingServiceTimeout)
	}
	cfg.BookingServiceRPS, err = getEnvAsFloat("BOOKING_SERVICE_RPS", 10)
	if err != nil {
		return nil, err
	}

	cfg.RedisAddr = getEnv("REDIS_ADDR", "")
	cfg.RedisPassword = getEnv("REDIS_PASSWORD", "")
	cfg.RedisDB, err = getEnvAsInt("REDIS_DB", 0)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}
	cfg.HeatmapCacheTTL, err = getEnvAsDuration("HEATMAP_CACHE_TTL", 10*time.Minute)
	if err != nil {
		return nil, err
	}

	// Per client IP limit on public endpoints (0 disables)
	cfg.RateLimitRPS, err = getEnvAsFloat("RATE_LIMIT_RPS", 20)
	if err != nil {
		return nil, err
	}
	cfg.RateLimitBurst, err = getEnvAsInt("RATE_LIMIT_BURST", 40)
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_BURST: %w", err)
	}

	return cfg, nil
}

// getEnv returns the value of the environment variable if set,
// otherwise returns the provided default value.
func getEnv(key, defaultValue string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer.
// It returns the default value if the variable is not set.
// It returns an error if the variable is set but is not a valid integer.
func getEnvAsInt(key string, defaultValue int) (int, error) {
	valStr := getEnv(key, "")
	if valStr == "" {
		return defaultValue, nil
	}

	val, err := strconv.Atoi(valStr)
	if err != nil {
		// Return 0 and a wrapped error to provide context
		return 0, fmt.Errorf("env %s value %q is not a valid integer: %w", key, valStr, err)
	}

	return val, nil
}

func getEnvAsFloat(key string, defaultValue float64) (float64, error) {
	valStr := getEnv(key, "")
	if valStr == "" {
		return defaultValue, nil
	}
	val, err := strconv.ParseFloat(valStr, 64)
	if err != nil {
		return 0, fmt.Errorf("env %s value %q is not a valid number: %w", key, valStr, err)
	}
	return val, nil
}

func getEnvAsBool(key string, defaultValue bool) (bool, error) {
	valStr := getEnv(key, "")
	if valStr == "" {
		return defaultValue, nil
	}
	val, err := strconv.ParseBool(valStr)
	if err != nil {
		return false, fmt.Errorf("env %s value %q is not a valid boolean: %w", key, valStr, err)
	}
	return val, nil
}

func getEnvAsDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	valStr := getEnv(key, "")
	if valStr == "" {
		return defaultValue, nil
	}
	val, err := time.ParseDuration(valStr)
	if err != nil {
		return 0, fmt.Errorf("env %s value %q is not a valid duration: %w", key, valStr, err)
	}
	return val, nil
}
