package config

import (
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// AppConfig general application configuration, loaded from the environment.
type AppConfig struct {
	Port        string `env:"PORT" envDefault:"8080"`
	Environment string `env:"APP_ENV" envDefault:"development"`

	DatabaseURL  string `env:"DATABASE_URL"`
	DatabasePath string `env:"DATABASE_PATH" envDefault:"database.db"`
	RedisURL     string `env:"REDIS_URL"`

	// Token signing
	JWTSecret           string        `env:"JWT_SECRET"`
	JWTExpiresIn        time.Duration `env:"JWT_EXPIRES_IN" envDefault:"2160h"`
	JWTCookieExpiresIn  int           `env:"JWT_COOKIE_EXPIRES_IN" envDefault:"90"`

	// Rate Limiting
	RateLimitEnabled  bool          `env:"RATE_LIMIT_ENABLED" envDefault:"true"`
	RateLimitRequests int           `env:"RATE_LIMIT_REQUESTS" envDefault:"100"`
	RateLimitWindow   time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"1h"`

	// Response Cache
	CacheEnabled bool          `env:"CACHE_ENABLED" envDefault:"false"`
	CacheTTL     time.Duration `env:"CACHE_TTL" envDefault:"3s"`

	// HTTPS Enforcement
	EnforceHTTPS bool `env:"ENFORCE_HTTPS" envDefault:"false"`

	// Telemetry
	MetricsPort  string `env:"METRICS_PORT" envDefault:"9091"`
	OTLPEndpoint string `env:"OTLP_ENDPOINT" envDefault:"localhost:4317"`

	// Request body limit in bytes
	MaxBodyBytes int64 `env:"MAX_BODY_BYTES" envDefault:"10240"`
}

// Load reads .env when present and parses the environment.
func Load() (*AppConfig, error) {
	_ = godotenv.Load()

	cfg, err := env.ParseAs[AppConfig]()

	if err != nil {
		return nil, err
	}

	return &cfg, nil
}

// GetDefaultConfig returns the configuration used when the environment is not
// fully set, mainly from tests.
func GetDefaultConfig() *AppConfig {
	return &AppConfig{
		Port:               "8080",
		Environment:        "development",
		DatabasePath:       "database.db",
		JWTSecret:          "development-only-secret",
		JWTExpiresIn:       2160 * time.Hour,
		JWTCookieExpiresIn: 90,
		RateLimitEnabled:   true,
		RateLimitRequests:  100,
		RateLimitWindow:    time.Hour,
		CacheEnabled:       false,
		CacheTTL:           3 * time.Second,
		MetricsPort:        "9091",
		OTLPEndpoint:       "localhost:4317",
		MaxBodyBytes:       10 << 10,
	}
}

func (c *AppConfig) IsProduction() bool {
	return c.Environment == "production"
}
