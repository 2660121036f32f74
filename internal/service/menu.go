package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mmeshcher/restaurant-backoffice/internal/model"
)

// MenuItemPatch описывает частичное обновление позиции меню. nil означает «не менять».
type MenuItemPatch struct {
	Name        *string
	Price       *float64
	Image       *string
	IsAvailable *bool
	Category    *string
	Toppings    *[]model.MenuOption
	Sizes       *[]model.MenuOption
}

// GetMenu возвращает меню с категориями, выведенными из позиций.
func (s *Service) GetMenu(ctx context.Context) (*model.Menu, error) {
	items, err := s.repo.ListMenuItems(ctx)
	if err != nil {
		return nil, err
	}
	return model.NewMenu(items), nil
}

// AddMenuItem проверяет и сохраняет новую позицию меню.
func (s *Service) AddMenuItem(ctx context.Context, item model.MenuItem) (*model.MenuItem, error) {
	now := s.now()
	item.ID = uuid.NewString()
	item.CreatedAt = now
	item.UpdatedAt = now
	item.Normalize()

	if err := s.validator.Struct(&item); err != nil {
		return nil, err
	}

	if err := s.repo.CreateMenuItem(ctx, &item); err != nil {
		return nil, err
	}

	s.logger.Info("menu item added", zap.String("item_id", item.ID), zap.String("name", item.Name))
	return &item, nil
}

// UpdateMenuItem применяет переданные поля к позиции меню.
func (s *Service) UpdateMenuItem(ctx context.Context, id string, patch MenuItemPatch) (*model.MenuItem, error) {
	id, err := s.parseID(id)
	if err != nil {
		return nil, err
	}

	item, err := s.repo.GetMenuItem(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		item.Name = *patch.Name
	}
	if patch.Price != nil {
		item.Price = *patch.Price
	}
	if patch.Image != nil {
		item.Image = *patch.Image
	}
	if patch.IsAvailable != nil {
		item.IsAvailable = *patch.IsAvailable
	}
	if patch.Category != nil {
		item.Category = *patch.Category
	}
	if patch.Toppings != nil {
		item.Toppings = *patch.Toppings
	}
	if patch.Sizes != nil {
		item.Sizes = *patch.Sizes
	}
	item.Normalize()
	item.UpdatedAt = s.now()

	if err := s.validator.Struct(item); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateMenuItem(ctx, item); err != nil {
		return nil, err
	}

	s.logger.Info("menu item updated", zap.String("item_id", item.ID))
	return item, nil
}
