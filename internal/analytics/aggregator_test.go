package analytics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mmeshcher/restaurant-backoffice/internal/model"
)

type stubOrderSource struct {
	orders []model.Order
	err    error

	from, to time.Time
}

func (s *stubOrderSource) ListOrdersCreatedBetween(ctx context.Context, from, to time.Time) ([]model.Order, error) {
	s.from, s.to = from, to
	if s.err != nil {
		return nil, s.err
	}
	res := make([]model.Order, 0, len(s.orders))
	for _, o := range s.orders {
		if !o.CreatedAt.Before(from) && !o.CreatedAt.After(to) {
			res = append(res, o)
		}
	}
	return res, nil
}

type stubSnapshotStore struct {
	saved []*model.AnalyticsSnapshot
	err   error
}

func (s *stubSnapshotStore) SaveSnapshot(ctx context.Context, snapshot *model.AnalyticsSnapshot) error {
	if s.err != nil {
		return s.err
	}
	s.saved = append(s.saved, snapshot)
	return nil
}

func newTestAggregator(src OrderSource, store SnapshotStore, now time.Time) *Aggregator {
	a := NewAggregator(src, store, time.UTC, zap.NewNop())
	a.now = func() time.Time { return now }
	return a
}

func TestRecompute_SavesSnapshot(t *testing.T) {
	now := utc(2025, time.June, 18, 18, 0)
	src := &stubOrderSource{orders: []model.Order{
		order("u1", model.DeliveryTypeTakeout, 10, 0, utc(2025, time.June, 18, 9, 0)),
		order("u2", model.DeliveryTypeDelivery, 15, 3, utc(2025, time.June, 18, 10, 0)),
	}}
	store := &stubSnapshotStore{}

	snapshot, err := newTestAggregator(src, store, now).Recompute(context.Background())
	require.NoError(t, err)

	require.Len(t, store.saved, 1)
	assert.Same(t, snapshot, store.saved[0])
	assert.Equal(t, now, snapshot.UpdatedAt)
	assert.Equal(t, int64(2), snapshot.Today.Orders)
	assert.Equal(t, 25.0, snapshot.Today.Price)

	span := WindowsAt(now).Span()
	assert.Equal(t, span.From, src.from)
	assert.Equal(t, span.To, src.to)
}

func TestRecompute_Idempotent(t *testing.T) {
	src := &stubOrderSource{orders: []model.Order{
		order("u1", model.DeliveryTypeTakeout, 10, 0, utc(2025, time.June, 18, 9, 0)),
		order("u1", model.DeliveryTypeDelivery, 12.5, 4, utc(2025, time.June, 3, 10, 0)),
		order("u2", model.DeliveryTypeTakeout, 7, 0, utc(2025, time.February, 3, 10, 0)),
	}}
	store := &stubSnapshotStore{}

	first, err := newTestAggregator(src, store, utc(2025, time.June, 18, 18, 0)).Recompute(context.Background())
	require.NoError(t, err)
	second, err := newTestAggregator(src, store, utc(2025, time.June, 18, 18, 5)).Recompute(context.Background())
	require.NoError(t, err)

	assert.NotEqual(t, first.UpdatedAt, second.UpdatedAt)

	a, b := *first, *second
	a.UpdatedAt, b.UpdatedAt = time.Time{}, time.Time{}
	assert.Equal(t, a, b)
}

func TestRecompute_ReadErrorAbortsBeforeWrite(t *testing.T) {
	src := &stubOrderSource{err: errors.New("connection refused")}
	store := &stubSnapshotStore{}

	_, err := newTestAggregator(src, store, utc(2025, time.June, 18, 18, 0)).Recompute(context.Background())
	require.Error(t, err)
	assert.Empty(t, store.saved)
}

func TestRecompute_WriteErrorReported(t *testing.T) {
	writeErr := errors.New("write failed")
	src := &stubOrderSource{}
	store := &stubSnapshotStore{err: writeErr}

	snapshot, err := newTestAggregator(src, store, utc(2025, time.June, 18, 18, 0)).Recompute(context.Background())
	assert.Nil(t, snapshot)
	assert.ErrorIs(t, err, writeErr)
}
