// Package repository содержит реализации хранилища бэк-офиса: PostgreSQL и MongoDB.
package repository

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/mmeshcher/restaurant-backoffice/internal/model"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// PostgresRepository предоставляет доступ к хранилищу данных в PostgreSQL.
type PostgresRepository struct {
	pool   *pgxpool.Pool
	delays []time.Duration
}

// NewPostgresRepository создаёт новый репозиторий и инициализирует схему БД через миграции.
func NewPostgresRepository(dsn string) (*PostgresRepository, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse pool config: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	r := &PostgresRepository{
		pool:   pool,
		delays: []time.Duration{1 * time.Second, 3 * time.Second, 5 * time.Second},
	}

	if err := r.runMigrations(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return r, nil
}

func (r *PostgresRepository) runMigrations(ctx context.Context) error {
	db := stdlib.OpenDBFromPool(r.pool)
	defer db.Close()

	goose.SetBaseFS(migrationsFS)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	return nil
}

// withRetry повторяет идемпотентную операцию при временных ошибках БД.
func (r *PostgresRepository) withRetry(ctx context.Context, fn func() error) error {
	var err error

	for i := 0; i <= len(r.delays); i++ {
		err = fn()
		if err == nil {
			return nil
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		if !isRetryable(err) || i == len(r.delays) {
			break
		}

		timer := time.NewTimer(r.delays[i])
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return err
}

func isRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgerrcode.SerializationFailure || pgErr.Code == pgerrcode.DeadlockDetected
	}
	return isConnectionError(err)
}

func isConnectionError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "broken pipe") ||
		strings.Contains(msg, "connection reset by peer")
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

// Close закрывает пул соединений с БД.
func (r *PostgresRepository) Close() error {
	r.pool.Close()
	return nil
}

const orderColumns = `id, user_id, customer_name, location_name, delivery_type, products,
	total_price, delivery_distance, order_status, rating, created_at, updated_at`

func scanOrder(row pgx.Row) (*model.Order, error) {
	var (
		o        model.Order
		products []byte
	)
	err := row.Scan(&o.ID, &o.UserID, &o.CustomerName, &o.LocationName, &o.DeliveryType, &products,
		&o.TotalPrice, &o.DeliveryDistance, &o.Status, &o.Rating, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(products, &o.Products); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	return &o, nil
}

// CreateOrder сохраняет новый заказ. Повтор с тем же id не создаёт дубликат.
func (r *PostgresRepository) CreateOrder(ctx context.Context, o *model.Order) error {
	products, err := json.Marshal(o.Products)
	if err != nil {
		return fmt.Errorf("encode products: %w", err)
	}

	err = r.withRetry(ctx, func() error {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO orders (id, user_id, customer_name, location_name, delivery_type, products,
				total_price, delivery_distance, order_status, rating, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			 ON CONFLICT (id) DO NOTHING`,
			o.ID, o.UserID, o.CustomerName, o.LocationName, string(o.DeliveryType), products,
			o.TotalPrice, o.DeliveryDistance, string(o.Status), o.Rating, o.CreatedAt, o.UpdatedAt,
		)
		return err
	})
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// GetOrder возвращает заказ по id.
func (r *PostgresRepository) GetOrder(ctx context.Context, id string) (*model.Order, error) {
	o, err := scanOrder(r.pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	return o, nil
}

func (r *PostgresRepository) updateOrder(ctx context.Context, query string, args ...any) (*model.Order, error) {
	var o *model.Order
	err := r.withRetry(ctx, func() error {
		var err error
		o, err = scanOrder(r.pool.QueryRow(ctx, query, args...))
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("update order: %w", err)
	}
	return o, nil
}

// UpdateOrderStatus записывает новый статус и возвращает обновлённый заказ.
func (r *PostgresRepository) UpdateOrderStatus(ctx context.Context, id string, status model.OrderStatus) (*model.Order, error) {
	return r.updateOrder(ctx,
		`UPDATE orders SET order_status = $2, updated_at = NOW() WHERE id = $1 RETURNING `+orderColumns,
		id, string(status),
	)
}

// UpdateOrderRating записывает оценку и возвращает обновлённый заказ.
func (r *PostgresRepository) UpdateOrderRating(ctx context.Context, id string, rating float64) (*model.Order, error) {
	return r.updateOrder(ctx,
		`UPDATE orders SET rating = $2, updated_at = NOW() WHERE id = $1 RETURNING `+orderColumns,
		id, rating,
	)
}

// ListOrdersCreatedBetween возвращает заказы с created_at в интервале [from, to].
func (r *PostgresRepository) ListOrdersCreatedBetween(ctx context.Context, from, to time.Time) ([]model.Order, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+orderColumns+`
		 FROM orders
		 WHERE created_at BETWEEN $1 AND $2
		 ORDER BY created_at`,
		from, to,
	)
	if err != nil {
		return nil, fmt.Errorf("select orders: %w", err)
	}
	defer rows.Close()

	var orders []model.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, *o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return orders, nil
}

// SaveSnapshot заменяет документ аналитики целиком одним upsert.
func (r *PostgresRepository) SaveSnapshot(ctx context.Context, s *model.AnalyticsSnapshot) error {
	periods := make([][]byte, 0, 4)
	for _, p := range []model.PeriodStats{s.Today, s.Week, s.Month, s.Year} {
		p.Normalize()
		b, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("encode period: %w", err)
		}
		periods = append(periods, b)
	}

	identifier := s.Identifier
	if identifier == "" {
		identifier = model.DashboardIdentifier
	}

	var createdAt time.Time
	err := r.withRetry(ctx, func() error {
		return r.pool.QueryRow(ctx,
			`INSERT INTO dashboard_analytics (identifier, today, week, month, year, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6)
			 ON CONFLICT (identifier) DO UPDATE SET
				today = EXCLUDED.today,
				week = EXCLUDED.week,
				month = EXCLUDED.month,
				year = EXCLUDED.year,
				updated_at = EXCLUDED.updated_at
			 RETURNING created_at`,
			identifier, periods[0], periods[1], periods[2], periods[3], s.UpdatedAt,
		).Scan(&createdAt)
	})
	if err != nil {
		return fmt.Errorf("upsert snapshot: %w", err)
	}

	s.Identifier = identifier
	s.CreatedAt = createdAt
	return nil
}

// GetSnapshot возвращает последний сохранённый снимок аналитики.
func (r *PostgresRepository) GetSnapshot(ctx context.Context) (*model.AnalyticsSnapshot, error) {
	var (
		s                        model.AnalyticsSnapshot
		today, week, month, year []byte
	)
	err := r.pool.QueryRow(ctx,
		`SELECT identifier, today, week, month, year, created_at, updated_at
		 FROM dashboard_analytics WHERE identifier = $1`,
		model.DashboardIdentifier,
	).Scan(&s.Identifier, &today, &week, &month, &year, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("get snapshot: %w", err)
	}

	for _, p := range []struct {
		raw []byte
		dst *model.PeriodStats
	}{{today, &s.Today}, {week, &s.Week}, {month, &s.Month}, {year, &s.Year}} {
		if err := json.Unmarshal(p.raw, p.dst); err != nil {
			return nil, fmt.Errorf("decode period: %w", err)
		}
	}
	s.Normalize()

	return &s, nil
}

const menuColumns = `id, name, price, image, is_available, category, toppings, sizes, created_at, updated_at`

func scanMenuItem(row pgx.Row) (*model.MenuItem, error) {
	var (
		m               model.MenuItem
		toppings, sizes []byte
	)
	err := row.Scan(&m.ID, &m.Name, &m.Price, &m.Image, &m.IsAvailable, &m.Category,
		&toppings, &sizes, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(toppings, &m.Toppings); err != nil {
		return nil, fmt.Errorf("decode toppings: %w", err)
	}
	if err := json.Unmarshal(sizes, &m.Sizes); err != nil {
		return nil, fmt.Errorf("decode sizes: %w", err)
	}
	m.Normalize()
	return &m, nil
}

func encodeOptions(m *model.MenuItem) ([]byte, []byte, error) {
	m.Normalize()
	toppings, err := json.Marshal(m.Toppings)
	if err != nil {
		return nil, nil, fmt.Errorf("encode toppings: %w", err)
	}
	sizes, err := json.Marshal(m.Sizes)
	if err != nil {
		return nil, nil, fmt.Errorf("encode sizes: %w", err)
	}
	return toppings, sizes, nil
}

// ListMenuItems возвращает все позиции меню.
func (r *PostgresRepository) ListMenuItems(ctx context.Context) ([]model.MenuItem, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+menuColumns+` FROM menu_items ORDER BY category, name`)
	if err != nil {
		return nil, fmt.Errorf("select menu items: %w", err)
	}
	defer rows.Close()

	var items []model.MenuItem
	for rows.Next() {
		m, err := scanMenuItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan menu item: %w", err)
		}
		items = append(items, *m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return items, nil
}

// GetMenuItem возвращает позицию меню по id.
func (r *PostgresRepository) GetMenuItem(ctx context.Context, id string) (*model.MenuItem, error) {
	m, err := scanMenuItem(r.pool.QueryRow(ctx, `SELECT `+menuColumns+` FROM menu_items WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMenuItemNotFound
		}
		return nil, fmt.Errorf("get menu item: %w", err)
	}
	return m, nil
}

// CreateMenuItem добавляет позицию меню.
func (r *PostgresRepository) CreateMenuItem(ctx context.Context, m *model.MenuItem) error {
	toppings, sizes, err := encodeOptions(m)
	if err != nil {
		return err
	}

	err = r.withRetry(ctx, func() error {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO menu_items (`+menuColumns+`)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			 ON CONFLICT (id) DO NOTHING`,
			m.ID, m.Name, m.Price, m.Image, m.IsAvailable, m.Category, toppings, sizes, m.CreatedAt, m.UpdatedAt,
		)
		return err
	})
	if err != nil {
		return fmt.Errorf("insert menu item: %w", err)
	}
	return nil
}

// UpdateMenuItem перезаписывает изменяемые поля позиции меню.
func (r *PostgresRepository) UpdateMenuItem(ctx context.Context, m *model.MenuItem) error {
	toppings, sizes, err := encodeOptions(m)
	if err != nil {
		return err
	}

	var tag pgconn.CommandTag
	err = r.withRetry(ctx, func() error {
		var err error
		tag, err = r.pool.Exec(ctx,
			`UPDATE menu_items
			 SET name = $2, price = $3, image = $4, is_available = $5, category = $6,
				 toppings = $7, sizes = $8, updated_at = $9
			 WHERE id = $1`,
			m.ID, m.Name, m.Price, m.Image, m.IsAvailable, m.Category, toppings, sizes, m.UpdatedAt,
		)
		return err
	})
	if err != nil {
		return fmt.Errorf("update menu item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrMenuItemNotFound
	}
	return nil
}

// CreateAdmin создаёт учётную запись администратора.
func (r *PostgresRepository) CreateAdmin(ctx context.Context, a *model.Admin) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO admins (id, username, password_hash, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)`,
		a.ID, a.Username, a.PasswordHash, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", ErrAdminExists, a.Username)
		}
		return fmt.Errorf("create admin: %w", err)
	}
	return nil
}

func (r *PostgresRepository) getAdmin(ctx context.Context, where string, arg any) (*model.Admin, error) {
	var a model.Admin
	err := r.pool.QueryRow(ctx,
		`SELECT id, username, password_hash, created_at, updated_at FROM admins WHERE `+where+` = $1`,
		arg,
	).Scan(&a.ID, &a.Username, &a.PasswordHash, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAdminNotFound
		}
		return nil, fmt.Errorf("get admin: %w", err)
	}
	return &a, nil
}

// GetAdminByUsername возвращает администратора по логину.
func (r *PostgresRepository) GetAdminByUsername(ctx context.Context, username string) (*model.Admin, error) {
	return r.getAdmin(ctx, "username", username)
}

// GetAdminByID возвращает администратора по id.
func (r *PostgresRepository) GetAdminByID(ctx context.Context, id string) (*model.Admin, error) {
	return r.getAdmin(ctx, "id", id)
}

// UpdateAdminCredentials меняет логин и хеш пароля администратора.
func (r *PostgresRepository) UpdateAdminCredentials(ctx context.Context, id, username, passwordHash string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE admins SET username = $2, password_hash = $3, updated_at = NOW() WHERE id = $1`,
		id, username, passwordHash,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", ErrAdminExists, username)
		}
		return fmt.Errorf("update admin: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAdminNotFound
	}
	return nil
}

// GetBotSchedule возвращает расписание бота.
func (r *PostgresRepository) GetBotSchedule(ctx context.Context) (*model.BotSchedule, error) {
	var (
		s   model.BotSchedule
		raw []byte
	)
	err := r.pool.QueryRow(ctx,
		`SELECT schedule, is_emergency_off, created_at, updated_at FROM bot_schedule WHERE identifier = $1`,
		model.BotScheduleIdentifier,
	).Scan(&raw, &s.IsEmergencyOff, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrScheduleNotFound
		}
		return nil, fmt.Errorf("get bot schedule: %w", err)
	}
	if err := json.Unmarshal(raw, &s.Schedule); err != nil {
		return nil, fmt.Errorf("decode schedule: %w", err)
	}
	return &s, nil
}

// SaveBotSchedule заменяет расписание бота целиком.
func (r *PostgresRepository) SaveBotSchedule(ctx context.Context, s *model.BotSchedule) error {
	raw, err := json.Marshal(s.Schedule)
	if err != nil {
		return fmt.Errorf("encode schedule: %w", err)
	}

	err = r.withRetry(ctx, func() error {
		return r.pool.QueryRow(ctx,
			`INSERT INTO bot_schedule (identifier, schedule, is_emergency_off, updated_at)
			 VALUES ($1, $2, $3, $4)
			 ON CONFLICT (identifier) DO UPDATE SET
				schedule = EXCLUDED.schedule,
				is_emergency_off = EXCLUDED.is_emergency_off,
				updated_at = EXCLUDED.updated_at
			 RETURNING created_at`,
			model.BotScheduleIdentifier, raw, s.IsEmergencyOff, s.UpdatedAt,
		).Scan(&s.CreatedAt)
	})
	if err != nil {
		return fmt.Errorf("upsert bot schedule: %w", err)
	}
	return nil
}
