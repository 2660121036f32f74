//go:build integration

package repository

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mmeshcher/restaurant-backoffice/internal/model"
)

func newTestMongo(t *testing.T) *MongoRepository {
	t.Helper()

	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		t.Skip("MONGO_URI not set, skipping integration tests")
	}

	r, err := NewMongoRepository(uri, "backoffice_test_"+uuid.NewString()[:8])
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = r.db.Drop(context.Background())
		_ = r.Close()
	})
	return r
}

func TestMongo_OrderLifecycle(t *testing.T) {
	r := newTestMongo(t)
	ctx := context.Background()

	o := newTestOrder(time.Now().UTC().Truncate(time.Millisecond))
	require.NoError(t, r.CreateOrder(ctx, o))

	updated, err := r.UpdateOrderStatus(ctx, o.ID, model.OrderStatusReady)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusReady, updated.Status)
	assert.Equal(t, o.UserID, updated.UserID)

	_, err = r.UpdateOrderRating(ctx, uuid.NewString(), 4)
	assert.True(t, errors.Is(err, ErrOrderNotFound))

	orders, err := r.ListOrdersCreatedBetween(ctx, o.CreatedAt, o.CreatedAt)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, o.ID, orders[0].ID)
}

func TestMongo_LegacyObjectIDOrder(t *testing.T) {
	r := newTestMongo(t)
	ctx := context.Background()

	oid := primitive.NewObjectID()
	_, err := r.db.Collection(collOrders).InsertOne(ctx, bson.M{
		"_id":           oid,
		"user_id":       "5551234",
		"delivery_type": model.DeliveryTypeTakeout,
		"products":      bson.A{},
		"total_price":   9.555,
		"order_status":  model.OrderStatusPending,
		"createdAt":     time.Now().UTC(),
	})
	require.NoError(t, err)

	id, ok := r.NormalizeID(oid.Hex())
	require.True(t, ok)

	got, err := r.GetOrder(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, oid.Hex(), got.ID)
	assert.Equal(t, 9.555, got.TotalPrice)

	updated, err := r.UpdateOrderStatus(ctx, id, model.OrderStatusAccepted)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusAccepted, updated.Status)
}

func TestMongo_SnapshotSingleton(t *testing.T) {
	r := newTestMongo(t)
	ctx := context.Background()

	_, err := r.GetSnapshot(ctx)
	require.True(t, errors.Is(err, ErrSnapshotNotFound))

	for i := int64(1); i <= 2; i++ {
		require.NoError(t, r.SaveSnapshot(ctx, &model.AnalyticsSnapshot{
			Today:     model.PeriodStats{Orders: i},
			UpdatedAt: time.Now().UTC(),
		}))
	}

	n, err := r.db.Collection(collAnalytics).CountDocuments(ctx, map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err := r.GetSnapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.Today.Orders)
	assert.NotNil(t, got.Month.Chart)
}
