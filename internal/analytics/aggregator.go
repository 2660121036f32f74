package analytics

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mmeshcher/restaurant-backoffice/internal/model"
)

// OrderSource отдаёт заказы, созданные в интервале [from, to] включительно.
type OrderSource interface {
	ListOrdersCreatedBetween(ctx context.Context, from, to time.Time) ([]model.Order, error)
}

// SnapshotStore атомарно заменяет единственный документ аналитики.
type SnapshotStore interface {
	SaveSnapshot(ctx context.Context, snapshot *model.AnalyticsSnapshot) error
}

// Aggregator пересчитывает снимок аналитики и сохраняет его целиком.
type Aggregator struct {
	orders    OrderSource
	snapshots SnapshotStore
	loc       *time.Location
	now       func() time.Time
	logger    *zap.Logger
}

// NewAggregator создаёт агрегатор. loc используется только для подписей графиков.
func NewAggregator(orders OrderSource, snapshots SnapshotStore, loc *time.Location, logger *zap.Logger) *Aggregator {
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Aggregator{
		orders:    orders,
		snapshots: snapshots,
		loc:       loc,
		now:       time.Now,
		logger:    logger,
	}
}

// Recompute читает заказы, строит новый снимок и сохраняет его.
// Ошибка чтения прерывает пересчёт до записи, прежний снимок остаётся нетронутым.
func (a *Aggregator) Recompute(ctx context.Context) (*model.AnalyticsSnapshot, error) {
	started := a.now()
	span := WindowsAt(started).Span()

	orders, err := a.orders.ListOrdersCreatedBetween(ctx, span.From, span.To)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}

	snapshot := Compute(orders, started, a.loc)
	snapshot.UpdatedAt = started.UTC()

	if err := a.snapshots.SaveSnapshot(ctx, snapshot); err != nil {
		return nil, fmt.Errorf("save snapshot: %w", err)
	}

	a.logger.Info("analytics recomputed",
		zap.Int("orders_scanned", len(orders)),
		zap.Int64("today_orders", snapshot.Today.Orders),
		zap.Int64("year_orders", snapshot.Year.Orders),
		zap.Duration("took", a.now().Sub(started)),
	)

	return snapshot, nil
}
