package service

import (
	"context"
	"math"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mmeshcher/restaurant-backoffice/internal/model"
	"github.com/mmeshcher/restaurant-backoffice/internal/notify"
	"github.com/mmeshcher/restaurant-backoffice/internal/validation"
)

// CreateOrderInput содержит данные нового заказа. nil означает, что поле не передано.
type CreateOrderInput struct {
	UserID           *string
	CustomerName     string
	DeliveryType     *string
	LocationName     string
	Products         []model.Product
	TotalPrice       *float64
	DeliveryDistance *float64
}

func (in CreateOrderInput) missingFields() []validation.FieldError {
	var missing []validation.FieldError
	add := func(field string) {
		missing = append(missing, validation.FieldError{Field: field, Message: "is required"})
	}

	if in.UserID == nil || strings.TrimSpace(*in.UserID) == "" {
		add("user_id")
	}
	if in.DeliveryType == nil || *in.DeliveryType == "" {
		add("delivery_type")
	}
	if in.Products == nil {
		add("products")
	}
	if in.TotalPrice == nil {
		add("total_price")
	}
	return missing
}

// CreateOrder проверяет и сохраняет новый заказ в статусе pending.
// Пересчёт аналитики не запускается.
func (s *Service) CreateOrder(ctx context.Context, in CreateOrderInput) (*model.Order, error) {
	if missing := in.missingFields(); len(missing) > 0 {
		return nil, validation.NewError("Missing required order fields", missing...)
	}

	now := s.now()
	o := &model.Order{
		ID:           uuid.NewString(),
		UserID:       strings.TrimSpace(*in.UserID),
		CustomerName: in.CustomerName,
		DeliveryType: model.DeliveryType(*in.DeliveryType),
		LocationName: in.LocationName,
		Products:     in.Products,
		TotalPrice:   *in.TotalPrice,
		Status:       model.OrderStatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if in.DeliveryDistance != nil {
		o.DeliveryDistance = *in.DeliveryDistance
	}

	if err := s.validator.Struct(o); err != nil {
		return nil, err
	}

	if err := s.repo.CreateOrder(ctx, o); err != nil {
		return nil, err
	}

	s.logger.Info("order created",
		zap.String("order_id", o.ID),
		zap.String("user_id", o.UserID),
		zap.String("delivery_type", string(o.DeliveryType)),
		zap.Float64("total_price", o.TotalPrice),
	)
	return o, nil
}

// GetOrder возвращает заказ по id.
func (s *Service) GetOrder(ctx context.Context, id string) (*model.Order, error) {
	id, err := s.parseID(id)
	if err != nil {
		return nil, err
	}
	return s.repo.GetOrder(ctx, id)
}

// SetStatus меняет статус заказа и асинхронно уведомляет клиента.
// Переходы между статусами не ограничиваются; сбой уведомления не влияет на результат.
func (s *Service) SetStatus(ctx context.Context, id, status string) (*model.Order, error) {
	if status == "" {
		return nil, validation.NewError("Missing status field",
			validation.FieldError{Field: "status", Message: "is required"})
	}

	st := model.OrderStatus(status)
	if !st.Valid() {
		return nil, validation.NewError("Invalid status value: "+status,
			validation.FieldError{Field: "status", Message: "must be one of: " + statusList()})
	}

	id, err := s.parseID(id)
	if err != nil {
		return nil, err
	}

	o, err := s.repo.UpdateOrderStatus(ctx, id, st)
	if err != nil {
		return nil, err
	}

	s.logger.Info("order status updated", zap.String("order_id", o.ID), zap.String("status", status))
	s.notifyStatus(ctx, o)

	return o, nil
}

func statusList() string {
	names := make([]string, 0, len(model.OrderStatuses))
	for _, st := range model.OrderStatuses {
		names = append(names, string(st))
	}
	return strings.Join(names, ", ")
}

func (s *Service) notifyStatus(ctx context.Context, o *model.Order) {
	if s.notifier == nil || o.UserID == "" {
		return
	}

	message, ok := notify.StatusMessage(o.Status, o.ID)
	if !ok {
		return
	}

	ctx = context.WithoutCancel(ctx)
	chatID, orderID := o.UserID, o.ID

	s.notifications.Add(1)
	go func() {
		defer s.notifications.Done()

		if err := s.notifier.Notify(ctx, chatID, message); err != nil {
			s.logger.Warn("customer notification failed",
				zap.String("order_id", orderID),
				zap.String("chat_id", chatID),
				zap.Error(err),
			)
			return
		}
		s.logger.Info("customer notified", zap.String("order_id", orderID), zap.String("chat_id", chatID))
	}()
}

// SetRating записывает оценку заказа от 1 до 5.
func (s *Service) SetRating(ctx context.Context, id string, rating float64) (*model.Order, error) {
	if math.IsNaN(rating) || rating < 1 || rating > 5 {
		return nil, validation.NewError("Invalid rating value. Must be a number between 1 and 5.",
			validation.FieldError{Field: "rating", Message: "must be between 1 and 5"})
	}

	id, err := s.parseID(id)
	if err != nil {
		return nil, err
	}

	o, err := s.repo.UpdateOrderRating(ctx, id, rating)
	if err != nil {
		return nil, err
	}

	s.logger.Info("order rated", zap.String("order_id", o.ID), zap.Float64("rating", rating))
	return o, nil
}
