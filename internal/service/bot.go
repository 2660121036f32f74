package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/mmeshcher/restaurant-backoffice/internal/model"
	"github.com/mmeshcher/restaurant-backoffice/internal/notify"
	"github.com/mmeshcher/restaurant-backoffice/internal/validation"
)

// GetBotSchedule возвращает расписание работы бота.
func (s *Service) GetBotSchedule(ctx context.Context) (*model.BotSchedule, error) {
	return s.repo.GetBotSchedule(ctx)
}

// UpdateBotSchedule проверяет и сохраняет расписание бота целиком.
func (s *Service) UpdateBotSchedule(ctx context.Context, schedule model.WeekSchedule, emergencyOff bool) (*model.BotSchedule, error) {
	bs := &model.BotSchedule{
		Schedule:       schedule,
		IsEmergencyOff: emergencyOff,
		UpdatedAt:      s.now(),
	}

	if err := s.validator.Struct(bs); err != nil {
		return nil, err
	}

	if err := s.repo.SaveBotSchedule(ctx, bs); err != nil {
		return nil, err
	}

	s.logger.Info("bot schedule updated", zap.Bool("emergency_off", emergencyOff))
	return bs, nil
}

// SendBroadcast передаёт рассылку всем пользователям бота.
func (s *Service) SendBroadcast(ctx context.Context, b notify.Broadcast) error {
	var missing []validation.FieldError
	if strings.TrimSpace(b.Title) == "" {
		missing = append(missing, validation.FieldError{Field: "title", Message: "is required"})
	}
	if strings.TrimSpace(b.Message) == "" {
		missing = append(missing, validation.FieldError{Field: "message", Message: "is required"})
	}
	if len(missing) > 0 {
		return validation.NewError("Title and message are required", missing...)
	}

	if s.notifier == nil {
		return notify.ErrNotConfigured
	}

	if err := s.notifier.SendBroadcast(ctx, b); err != nil {
		return err
	}

	s.logger.Info("broadcast sent", zap.String("title", b.Title))
	return nil
}
