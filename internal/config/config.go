package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	AppPort       string `env:"APP_PORT" envDefault:"8080"`
	DBDSN         string `env:"DB_DSN,required,notEmpty"`
	JWTSecret     string `env:"JWT_SECRET,required,notEmpty"`
	JWTExpiresMin int    `env:"JWT_EXPIRES_MIN" envDefault:"10080"`

	DBMaxOpenConns int           `env:"DB_MAX_OPEN_CONNS" envDefault:"10"`
	DBMaxIdleConns int           `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"5s"`

	// Empty RedisAddr keeps message fan-out in-process.
	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	GoogleClientID  string `env:"GOOGLE_CLIENT_ID"`
	GoogleSecret    string `env:"GOOGLE_CLIENT_SECRET"`
	GoogleRedirect  string `env:"GOOGLE_REDIRECT_URL"`
	FrontendBaseURL string `env:"FRONTEND_BASE_URL" envDefault:"http://localhost:3000"`
	CORSOrigins     string `env:"CORS_ORIGINS" envDefault:"http://127.0.0.1:3000, http://localhost:3000"`
}

// Load reads .env (if present) and then the process environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.JWTExpiresMin <= 0 {
		return Config{}, fmt.Errorf("JWT_EXPIRES_MIN must be positive, got %d", cfg.JWTExpiresMin)
	}
	if cfg.RequestTimeout <= 0 {
		return Config{}, fmt.Errorf("REQUEST_TIMEOUT must be positive, got %s", cfg.RequestTimeout)
	}
	cfg.FrontendBaseURL = strings.TrimRight(cfg.FrontendBaseURL, "/")
	return cfg, nil
}

// GoogleEnabled reports whether Google sign-in is configured.
func (c Config) GoogleEnabled() bool {
	return c.GoogleClientID != "" && c.GoogleSecret != "" && c.GoogleRedirect != ""
}
