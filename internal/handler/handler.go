// Package handler содержит HTTP-обработчики API бэк-офиса ресторана.
package handler

import (
	"context"
	"io"

	"go.uber.org/zap"

	"github.com/mmeshcher/restaurant-backoffice/internal/middleware"
	"github.com/mmeshcher/restaurant-backoffice/internal/model"
	"github.com/mmeshcher/restaurant-backoffice/internal/notify"
	"github.com/mmeshcher/restaurant-backoffice/internal/service"
)

// Service определяет контракт бизнес-логики, используемой HTTP-обработчиками.
type Service interface {
	CreateOrder(ctx context.Context, in service.CreateOrderInput) (*model.Order, error)
	GetOrder(ctx context.Context, id string) (*model.Order, error)
	SetStatus(ctx context.Context, id, status string) (*model.Order, error)
	SetRating(ctx context.Context, id string, rating float64) (*model.Order, error)

	RecomputeAnalytics(ctx context.Context) (*model.AnalyticsSnapshot, error)
	GetDashboard(ctx context.Context) (*model.AnalyticsSnapshot, error)
	ExportDashboard(ctx context.Context, w io.Writer) error

	GetMenu(ctx context.Context) (*model.Menu, error)
	AddMenuItem(ctx context.Context, item model.MenuItem) (*model.MenuItem, error)
	UpdateMenuItem(ctx context.Context, id string, patch service.MenuItemPatch) (*model.MenuItem, error)

	AuthenticateAdmin(ctx context.Context, username, password string) (*model.Admin, error)
	UpdateAdminCredentials(ctx context.Context, adminID, username, password string) error

	GetBotSchedule(ctx context.Context) (*model.BotSchedule, error)
	UpdateBotSchedule(ctx context.Context, schedule model.WeekSchedule, emergencyOff bool) (*model.BotSchedule, error)
	SendBroadcast(ctx context.Context, b notify.Broadcast) error
}

// Handler реализует HTTP-обработчики API бэк-офиса.
type Handler struct {
	service        Service
	logger         *zap.Logger
	authMiddleware *middleware.AuthMiddleware
}

// NewHandler создаёт новый экземпляр обработчика HTTP-запросов.
func NewHandler(s Service, logger *zap.Logger, auth *middleware.AuthMiddleware) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		service:        s,
		logger:         logger,
		authMiddleware: auth,
	}
}
