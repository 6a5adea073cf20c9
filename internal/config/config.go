package config

import (
	stderrors "errors"
	"io/fs"
	"strings"
	"time"

	"github.com/caarlos0/env/v9"
	"github.com/joho/godotenv"

	apperrors "github.com/Simplici0/interior-estimator/internal/errors"
	"github.com/Simplici0/interior-estimator/internal/logging"
)

const dotEnvFile = ".env"

// Config holds application configuration sourced from environment variables.
type Config struct {
	AppEnv string `env:"APP_ENV" envDefault:"development"`
	Port   string `env:"PORT" envDefault:"8080"`
	DBPath string `env:"DB_PATH" envDefault:"./dev.db"`

	// CatalogFile, when set, replaces the SQLite catalog with an HCL or
	// JSON catalog file.
	CatalogFile string `env:"CATALOG_FILE"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	RedisAddr     string        `env:"REDIS_ADDR"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	RedisDB       int           `env:"REDIS_DB" envDefault:"0"`
	CacheTTL      time.Duration `env:"CACHE_TTL" envDefault:"10m"`

	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// Load reads a local .env file, if present, and then the environment.
func Load() (Config, error) {
	return load(dotEnvFile)
}

func load(dotEnvPath string) (Config, error) {
	// Best-effort: production injects real environment variables, and values
	// already in the environment win over the file.
	if err := godotenv.Load(dotEnvPath); err != nil && !stderrors.Is(err, fs.ErrNotExist) {
		return Config{}, apperrors.Wrap(apperrors.TypeConfig, "read "+dotEnvPath, err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, apperrors.Wrap(apperrors.TypeConfig, "parse environment", err)
	}
	if cfg.ShutdownTimeout <= 0 {
		return Config{}, apperrors.Config("SHUTDOWN_TIMEOUT must be positive")
	}
	if cfg.CacheTTL <= 0 {
		return Config{}, apperrors.Config("CACHE_TTL must be positive")
	}
	return cfg, nil
}

// IsDev reports whether the app runs in development mode, where migrations
// and the default catalog seed are applied on startup.
func (c Config) IsDev() bool {
	switch strings.ToLower(c.AppEnv) {
	case "", "dev", "development", "local":
		return true
	}
	return false
}

// CacheEnabled reports whether a Redis address is configured.
func (c Config) CacheEnabled() bool {
	return c.RedisAddr != ""
}

// Logging returns the logger configuration for c.
func (c Config) Logging() logging.Config {
	return logging.Config{
		Level:       c.LogLevel,
		Format:      c.LogFormat,
		Output:      "stderr",
		Development: c.IsDev(),
	}
}
