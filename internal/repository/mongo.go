package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mmeshcher/restaurant-backoffice/internal/model"
)

// Имена коллекций совпадают с теми, что читают бот и админ-панель.
const (
	collOrders    = "orderData"
	collAnalytics = "dashboardAnalytics"
	collMenu      = "productData"
	collAdmins    = "admin"
	collSchedule  = "botEdit"
)

// MongoRepository предоставляет доступ к хранилищу данных в MongoDB.
type MongoRepository struct {
	client *mongo.Client
	db     *mongo.Database
	now    func() time.Time
}

// NewMongoRepository подключается к MongoDB и создаёт необходимые индексы.
func NewMongoRepository(uri, database string) (*MongoRepository, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	r := &MongoRepository{
		client: client,
		db:     client.Database(database),
		now:    func() time.Time { return time.Now().UTC() },
	}

	if err := r.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	return r, nil
}

func (r *MongoRepository) ensureIndexes(ctx context.Context) error {
	indexes := map[string][]mongo.IndexModel{
		collOrders: {
			{Keys: bson.D{{Key: "createdAt", Value: 1}}},
			{Keys: bson.D{{Key: "user_id", Value: 1}}},
		},
		collAnalytics: {
			{Keys: bson.D{{Key: "identifier", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		collAdmins: {
			{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		collSchedule: {
			{Keys: bson.D{{Key: "identifier", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
	}

	for coll, models := range indexes {
		if _, err := r.db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create indexes on %s: %w", coll, err)
		}
	}
	return nil
}

// Close отключается от MongoDB.
func (r *MongoRepository) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return r.client.Disconnect(ctx)
}

// CreateOrder сохраняет новый заказ.
func (r *MongoRepository) CreateOrder(ctx context.Context, o *model.Order) error {
	if _, err := r.db.Collection(collOrders).InsertOne(ctx, o); err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// GetOrder возвращает заказ по id.
func (r *MongoRepository) GetOrder(ctx context.Context, id string) (*model.Order, error) {
	var o model.Order
	err := r.db.Collection(collOrders).FindOne(ctx, idFilter(id)).Decode(&o)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	return &o, nil
}

func (r *MongoRepository) updateOrder(ctx context.Context, id string, set bson.M) (*model.Order, error) {
	set["updatedAt"] = r.now()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var o model.Order
	err := r.db.Collection(collOrders).FindOneAndUpdate(ctx, idFilter(id), bson.M{"$set": set}, opts).Decode(&o)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("update order: %w", err)
	}
	return &o, nil
}

// UpdateOrderStatus записывает новый статус и возвращает обновлённый заказ.
func (r *MongoRepository) UpdateOrderStatus(ctx context.Context, id string, status model.OrderStatus) (*model.Order, error) {
	return r.updateOrder(ctx, id, bson.M{"order_status": status})
}

// UpdateOrderRating записывает оценку и возвращает обновлённый заказ.
func (r *MongoRepository) UpdateOrderRating(ctx context.Context, id string, rating float64) (*model.Order, error) {
	return r.updateOrder(ctx, id, bson.M{"rating": rating})
}

// ListOrdersCreatedBetween возвращает заказы с createdAt в интервале [from, to].
func (r *MongoRepository) ListOrdersCreatedBetween(ctx context.Context, from, to time.Time) ([]model.Order, error) {
	filter := bson.M{"createdAt": bson.M{"$gte": from, "$lte": to}}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})

	cur, err := r.db.Collection(collOrders).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find orders: %w", err)
	}

	var orders []model.Order
	if err := cur.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("decode orders: %w", err)
	}
	return orders, nil
}

// SaveSnapshot заменяет документ аналитики целиком одним upsert.
func (r *MongoRepository) SaveSnapshot(ctx context.Context, s *model.AnalyticsSnapshot) error {
	s.Normalize()
	if s.Identifier == "" {
		s.Identifier = model.DashboardIdentifier
	}

	update := bson.M{
		"$set": bson.M{
			"identifier": s.Identifier,
			"today":      s.Today,
			"week":       s.Week,
			"month":      s.Month,
			"year":       s.Year,
			"updatedAt":  s.UpdatedAt,
		},
		"$setOnInsert": bson.M{"createdAt": s.UpdatedAt},
	}

	_, err := r.db.Collection(collAnalytics).UpdateOne(ctx,
		bson.M{"identifier": s.Identifier}, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("upsert snapshot: %w", err)
	}
	return nil
}

// GetSnapshot возвращает последний сохранённый снимок аналитики.
func (r *MongoRepository) GetSnapshot(ctx context.Context) (*model.AnalyticsSnapshot, error) {
	var s model.AnalyticsSnapshot
	err := r.db.Collection(collAnalytics).FindOne(ctx, bson.M{"identifier": model.DashboardIdentifier}).Decode(&s)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("get snapshot: %w", err)
	}
	s.Normalize()
	return &s, nil
}

// ListMenuItems возвращает все позиции меню.
func (r *MongoRepository) ListMenuItems(ctx context.Context) ([]model.MenuItem, error) {
	opts := options.Find().SetSort(bson.D{{Key: "category", Value: 1}, {Key: "name", Value: 1}})

	cur, err := r.db.Collection(collMenu).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find menu items: %w", err)
	}

	var items []model.MenuItem
	if err := cur.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("decode menu items: %w", err)
	}
	for i := range items {
		items[i].Normalize()
	}
	return items, nil
}

// GetMenuItem возвращает позицию меню по id.
func (r *MongoRepository) GetMenuItem(ctx context.Context, id string) (*model.MenuItem, error) {
	var m model.MenuItem
	err := r.db.Collection(collMenu).FindOne(ctx, idFilter(id)).Decode(&m)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrMenuItemNotFound
		}
		return nil, fmt.Errorf("get menu item: %w", err)
	}
	m.Normalize()
	return &m, nil
}

// CreateMenuItem добавляет позицию меню.
func (r *MongoRepository) CreateMenuItem(ctx context.Context, m *model.MenuItem) error {
	m.Normalize()
	if _, err := r.db.Collection(collMenu).InsertOne(ctx, m); err != nil {
		return fmt.Errorf("insert menu item: %w", err)
	}
	return nil
}

// UpdateMenuItem перезаписывает изменяемые поля позиции меню.
func (r *MongoRepository) UpdateMenuItem(ctx context.Context, m *model.MenuItem) error {
	m.Normalize()
	set := bson.M{
		"name":        m.Name,
		"price":       m.Price,
		"image":       m.Image,
		"isAvailable": m.IsAvailable,
		"category":    m.Category,
		"toppings":    m.Toppings,
		"sizes":       m.Sizes,
		"updatedAt":   m.UpdatedAt,
	}

	res, err := r.db.Collection(collMenu).UpdateOne(ctx, idFilter(m.ID), bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("update menu item: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrMenuItemNotFound
	}
	return nil
}

// CreateAdmin создаёт учётную запись администратора.
func (r *MongoRepository) CreateAdmin(ctx context.Context, a *model.Admin) error {
	if _, err := r.db.Collection(collAdmins).InsertOne(ctx, a); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: %s", ErrAdminExists, a.Username)
		}
		return fmt.Errorf("create admin: %w", err)
	}
	return nil
}

func (r *MongoRepository) getAdmin(ctx context.Context, filter bson.M) (*model.Admin, error) {
	var a model.Admin
	err := r.db.Collection(collAdmins).FindOne(ctx, filter).Decode(&a)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrAdminNotFound
		}
		return nil, fmt.Errorf("get admin: %w", err)
	}
	return &a, nil
}

// GetAdminByUsername возвращает администратора по логину.
func (r *MongoRepository) GetAdminByUsername(ctx context.Context, username string) (*model.Admin, error) {
	return r.getAdmin(ctx, bson.M{"username": username})
}

// GetAdminByID возвращает администратора по id.
func (r *MongoRepository) GetAdminByID(ctx context.Context, id string) (*model.Admin, error) {
	return r.getAdmin(ctx, idFilter(id))
}

// UpdateAdminCredentials меняет логин и хеш пароля администратора.
func (r *MongoRepository) UpdateAdminCredentials(ctx context.Context, id, username, passwordHash string) error {
	set := bson.M{"username": username, "password": passwordHash, "updatedAt": r.now()}

	res, err := r.db.Collection(collAdmins).UpdateOne(ctx, idFilter(id), bson.M{"$set": set})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: %s", ErrAdminExists, username)
		}
		return fmt.Errorf("update admin: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrAdminNotFound
	}
	return nil
}

// GetBotSchedule возвращает расписание бота.
func (r *MongoRepository) GetBotSchedule(ctx context.Context) (*model.BotSchedule, error) {
	var s model.BotSchedule
	err := r.db.Collection(collSchedule).FindOne(ctx, bson.M{"identifier": model.BotScheduleIdentifier}).Decode(&s)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrScheduleNotFound
		}
		return nil, fmt.Errorf("get bot schedule: %w", err)
	}
	return &s, nil
}

// SaveBotSchedule заменяет расписание бота целиком.
func (r *MongoRepository) SaveBotSchedule(ctx context.Context, s *model.BotSchedule) error {
	update := bson.M{
		"$set": bson.M{
			"identifier":     model.BotScheduleIdentifier,
			"schedule":       s.Schedule,
			"isEmergencyOff": s.IsEmergencyOff,
			"updatedAt":      s.UpdatedAt,
		},
		"$setOnInsert": bson.M{"createdAt": s.UpdatedAt},
	}

	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var saved model.BotSchedule
	err := r.db.Collection(collSchedule).FindOneAndUpdate(ctx,
		bson.M{"identifier": model.BotScheduleIdentifier}, update, opts).Decode(&saved)
	if err != nil {
		return fmt.Errorf("upsert bot schedule: %w", err)
	}
	s.CreatedAt = saved.CreatedAt
	return nil
}
