// Package service реализует бизнес-логику бэк-офиса ресторана.
package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mmeshcher/restaurant-backoffice/internal/model"
	"github.com/mmeshcher/restaurant-backoffice/internal/notify"
	"github.com/mmeshcher/restaurant-backoffice/internal/validation"
)

// ErrMalformedID возвращается, если хранилище не принимает идентификатор.
var ErrMalformedID = errors.New("malformed identifier")

// ErrInvalidCredentials возвращается при неверном логине или пароле администратора.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Repository описывает контракт доступа к данным, используемый сервисом.
type Repository interface {
	Close() error

	// NormalizeID проверяет идентификатор и приводит его к виду, в котором он хранится.
	NormalizeID(id string) (string, bool)

	CreateOrder(ctx context.Context, o *model.Order) error
	GetOrder(ctx context.Context, id string) (*model.Order, error)
	UpdateOrderStatus(ctx context.Context, id string, status model.OrderStatus) (*model.Order, error)
	UpdateOrderRating(ctx context.Context, id string, rating float64) (*model.Order, error)
	ListOrdersCreatedBetween(ctx context.Context, from, to time.Time) ([]model.Order, error)

	SaveSnapshot(ctx context.Context, s *model.AnalyticsSnapshot) error
	GetSnapshot(ctx context.Context) (*model.AnalyticsSnapshot, error)

	ListMenuItems(ctx context.Context) ([]model.MenuItem, error)
	GetMenuItem(ctx context.Context, id string) (*model.MenuItem, error)
	CreateMenuItem(ctx context.Context, m *model.MenuItem) error
	UpdateMenuItem(ctx context.Context, m *model.MenuItem) error

	CreateAdmin(ctx context.Context, a *model.Admin) error
	GetAdminByUsername(ctx context.Context, username string) (*model.Admin, error)
	GetAdminByID(ctx context.Context, id string) (*model.Admin, error)
	UpdateAdminCredentials(ctx context.Context, id, username, passwordHash string) error

	GetBotSchedule(ctx context.Context) (*model.BotSchedule, error)
	SaveBotSchedule(ctx context.Context, s *model.BotSchedule) error
}

// Notifier доставляет сообщения через сервис бота.
type Notifier interface {
	Notify(ctx context.Context, chatID, message string) error
	SendBroadcast(ctx context.Context, b notify.Broadcast) error
}

// Recomputer пересчитывает снимок аналитики.
type Recomputer interface {
	Recompute(ctx context.Context) (*model.AnalyticsSnapshot, error)
}

// Service содержит бизнес-логику бэк-офиса.
type Service struct {
	repo      Repository
	notifier  Notifier
	analytics Recomputer
	validator *validation.Validator
	logger    *zap.Logger
	now       func() time.Time

	notifications sync.WaitGroup
}

// NewService создаёт сервис с указанным репозиторием, клиентом бота и агрегатором аналитики.
func NewService(repo Repository, notifier Notifier, analytics Recomputer, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repo:      repo,
		notifier:  notifier,
		analytics: analytics,
		validator: validation.New(),
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Close дожидается отправки уведомлений и закрывает ресурсы сервиса.
func (s *Service) Close() error {
	s.notifications.Wait()
	if s.repo != nil {
		return s.repo.Close()
	}
	return nil
}

func (s *Service) parseID(id string) (string, error) {
	normalized, ok := s.repo.NormalizeID(id)
	if !ok {
		return "", ErrMalformedID
	}
	return normalized, nil
}
