// Package app собирает зависимости сервиса из конфигурации.
package app

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/mmeshcher/restaurant-backoffice/internal/analytics"
	"github.com/mmeshcher/restaurant-backoffice/internal/config"
	"github.com/mmeshcher/restaurant-backoffice/internal/notify"
	"github.com/mmeshcher/restaurant-backoffice/internal/repository"
	"github.com/mmeshcher/restaurant-backoffice/internal/service"
)

// OpenRepository открывает хранилище по схеме DATABASE_URI: mongodb:// или PostgreSQL.
func OpenRepository(cfg *config.Config) (service.Repository, error) {
	switch {
	case cfg.DatabaseURI == "":
		return nil, fmt.Errorf("database URI is not set")
	case isMongoURI(cfg.DatabaseURI):
		return repository.NewMongoRepository(cfg.DatabaseURI, cfg.MongoDatabase)
	default:
		return repository.NewPostgresRepository(cfg.DatabaseURI)
	}
}

func isMongoURI(uri string) bool {
	return strings.HasPrefix(uri, "mongodb://") || strings.HasPrefix(uri, "mongodb+srv://")
}

// NewNotifier создаёт клиента сервиса бота.
func NewNotifier(cfg *config.Config) *notify.Client {
	return notify.NewClient(cfg.BotServerURL,
		notify.WithAPIKey(cfg.APIKey),
		notify.WithBroadcast(cfg.TelegramBackendURL, cfg.SecretKey),
	)
}

// Components хранит собранные зависимости сервиса.
type Components struct {
	Repo       service.Repository
	Aggregator *analytics.Aggregator
	Service    *service.Service
}

// Build открывает хранилище и собирает агрегатор и сервис.
func Build(cfg *config.Config, logger *zap.Logger) (*Components, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	repo, err := OpenRepository(cfg)
	if err != nil {
		return nil, fmt.Errorf("open repository: %w", err)
	}

	aggregator := analytics.NewAggregator(repo, repo, loc, logger)
	svc := service.NewService(repo, NewNotifier(cfg), aggregator, logger)

	return &Components{Repo: repo, Aggregator: aggregator, Service: svc}, nil
}
