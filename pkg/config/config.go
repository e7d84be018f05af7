package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	EnvDev  = "dev"
	EnvTest = "test"
	EnvProd = "prod"
)

var ErrInvalidEnv = errors.New("APP_ENV must be one of dev, test, prod")

// Config holds every process level setting. Values come from the
// environment, optionally seeded by a .env file in the working directory.
type Config struct {
	Env  string `env:"APP_ENV" envDefault:"dev"`
	Port string `env:"PORT" envDefault:"3333"`

	DatabaseURL string `env:"DATABASE_URL,required,notEmpty"`
	AutoMigrate bool   `env:"AUTO_MIGRATE" envDefault:"true"`

	JWTSecret string        `env:"JWT_SECRET,required,notEmpty"`
	JWTTTL    time.Duration `env:"JWT_TTL" envDefault:"168h"`

	AbacatePayAPIKey        string        `env:"ABACATE_PAY_API_KEY"`
	AbacatePayBaseURL       string        `env:"ABACATE_PAY_BASE_URL" envDefault:"https://api.abacatepay.com/v1"`
	AbacatePayWebhookSecret string        `env:"ABACATE_PAY_WEBHOOK_SECRET"`
	PixChargeTTL            time.Duration `env:"PIX_CHARGE_TTL" envDefault:"1h"`
	HTTPClientTimeout       time.Duration `env:"HTTP_CLIENT_TIMEOUT" envDefault:"15s"`

	RedisURL           string   `env:"REDIS_URL"`
	RateLimitPerMinute int      `env:"RATE_LIMIT_PER_MINUTE" envDefault:"100"`
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT"`
}

// Load reads the optional .env files and parses the environment into a Config.
func Load(files ...string) (*Config, error) {
	// a missing .env file is fine, the process environment still applies
	_ = godotenv.Load(files...)

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.Env = strings.ToLower(strings.TrimSpace(cfg.Env))
	if cfg.Env == "" {
		cfg.Env = EnvDev
	}
	switch cfg.Env {
	case EnvDev, EnvTest, EnvProd:
	default:
		return nil, ErrInvalidEnv
	}

	return &cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Env == EnvProd
}
