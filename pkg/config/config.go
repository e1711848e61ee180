package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool

	// FX provider settings
	FxAPIBase     string
	FxAPIKey      string
	FxCacheTTL    time.Duration
	FxHTTPTimeout time.Duration

	// Rate limiting for the FX endpoints
	FxRateLimitRequests int64
	FxRateLimitPeriod   time.Duration
}

// LoadConfig loads configuration from environment variables and .env file if present.
// Precedence: process environment over .env file over defaults.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("FX_API_BASE", "https://api.exchangerate.host")
	viper.SetDefault("FX_API_KEY", "")
	viper.SetDefault("FX_CACHE_TTL", "6h")
	viper.SetDefault("FX_HTTP_TIMEOUT", "5s")
	viper.SetDefault("FX_RATE_LIMIT_REQUESTS", 60)
	viper.SetDefault("FX_RATE_LIMIT_PERIOD", "1m")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")

	cfg.FxAPIBase = viper.GetString("FX_API_BASE")
	cfg.FxAPIKey = viper.GetString("FX_API_KEY")
	if cfg.FxAPIKey == "" {
		log.Println("Warning: FX_API_KEY not set. Provider calls will be unauthenticated.")
	}

	cfg.FxCacheTTL = parseDurationOr("FX_CACHE_TTL", 6*time.Hour)
	cfg.FxHTTPTimeout = parseDurationOr("FX_HTTP_TIMEOUT", 5*time.Second)
	cfg.FxRateLimitPeriod = parseDurationOr("FX_RATE_LIMIT_PERIOD", time.Minute)

	cfg.FxRateLimitRequests = viper.GetInt64("FX_RATE_LIMIT_REQUESTS")
	if cfg.FxRateLimitRequests <= 0 {
		cfg.FxRateLimitRequests = 60
		log.Printf("Warning: Invalid FX_RATE_LIMIT_REQUESTS. Defaulting to %d.\n", cfg.FxRateLimitRequests)
	}

	return cfg, nil
}

func parseDurationOr(key string, fallback time.Duration) time.Duration {
	raw := viper.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, fallback)
		}
		return fallback
	}
	return d
}
