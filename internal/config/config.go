// Package config содержит логику чтения конфигурации бэк-офиса ресторана.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"time"
	_ "time/tzdata"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	defaultRunAddress   = "localhost:8080"
	defaultBotServerURL = "http://localhost:5000"
)

// Config содержит параметры конфигурации бэк-офиса.
type Config struct {
	RunAddress   string `env:"RUN_ADDRESS"`
	DatabaseURI  string `env:"DATABASE_URI"`
	BotServerURL string `env:"BOT_SERVER_URL"`

	MongoDatabase string `env:"MONGO_DATABASE" envDefault:"restaurant"`

	// APIKey защищает маршруты, которые вызывает бот, и передаётся боту в X-API-Key.
	APIKey string `env:"ADMIN_SERVER_API_KEY"`

	JWTSecret string        `env:"JWT_SECRET" envDefault:"default_secret"`
	JWTTTL    time.Duration `env:"JWT_TTL" envDefault:"1h"`

	TelegramBackendURL string `env:"TELEGRAM_BACKEND_URL"`
	SecretKey          string `env:"SECRET_KEY"`

	AnalyticsTimezone string `env:"ANALYTICS_TIMEZONE" envDefault:"Asia/Tashkent"`
	AnalyticsDailyAt  string `env:"ANALYTICS_DAILY_AT" envDefault:"00:05"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	LogFile  string `env:"LOG_FILE"`

	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"*"`
}

// Location возвращает часовой пояс, в котором считается аналитика.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.AnalyticsTimezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", c.AnalyticsTimezone, err)
	}
	return loc, nil
}

// loadDotEnv подгружает .env, не перетирая уже заданные переменные окружения.
func loadDotEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

// FromEnv считывает конфигурацию только из окружения и .env, без флагов.
func FromEnv() (*Config, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if cfg.RunAddress == "" {
		cfg.RunAddress = defaultRunAddress
	}
	if cfg.BotServerURL == "" {
		cfg.BotServerURL = defaultBotServerURL
	}
	return cfg, nil
}

// Parse считывает конфигурацию из флагов командной строки и переменных окружения.
// Переменные окружения имеют приоритет над флагами.
func Parse() (*Config, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	envRunAddress := cfg.RunAddress
	envDatabaseURI := cfg.DatabaseURI
	envBotServerURL := cfg.BotServerURL

	flag.StringVar(&cfg.RunAddress, "a", defaultRunAddress, "address and port for HTTP server")
	flag.StringVar(&cfg.DatabaseURI, "d", "", "database URI (postgres:// or mongodb://)")
	flag.StringVar(&cfg.BotServerURL, "b", defaultBotServerURL, "bot notification service address")

	flag.Parse()

	if envRunAddress != "" {
		cfg.RunAddress = envRunAddress
	}
	if envDatabaseURI != "" {
		cfg.DatabaseURI = envDatabaseURI
	}
	if envBotServerURL != "" {
		cfg.BotServerURL = envBotServerURL
	}

	if cfg.RunAddress == "" {
		cfg.RunAddress = defaultRunAddress
	}

	return cfg, nil
}
