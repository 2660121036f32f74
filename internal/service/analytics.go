package service

import (
	"context"
	"errors"
	"io"

	"github.com/mmeshcher/restaurant-backoffice/internal/analytics"
	"github.com/mmeshcher/restaurant-backoffice/internal/model"
)

// ErrAnalyticsUnavailable возвращается, если агрегатор аналитики не подключён.
var ErrAnalyticsUnavailable = errors.New("analytics aggregator not configured")

// RecomputeAnalytics пересчитывает снимок аналитики по запросу.
func (s *Service) RecomputeAnalytics(ctx context.Context) (*model.AnalyticsSnapshot, error) {
	if s.analytics == nil {
		return nil, ErrAnalyticsUnavailable
	}
	return s.analytics.Recompute(ctx)
}

// GetDashboard возвращает последний рассчитанный снимок аналитики.
func (s *Service) GetDashboard(ctx context.Context) (*model.AnalyticsSnapshot, error) {
	return s.repo.GetSnapshot(ctx)
}

// ExportDashboard выгружает последний снимок в XLSX.
func (s *Service) ExportDashboard(ctx context.Context, w io.Writer) error {
	snapshot, err := s.repo.GetSnapshot(ctx)
	if err != nil {
		return err
	}
	return analytics.WriteWorkbook(snapshot, w)
}
