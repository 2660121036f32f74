// Package model содержит доменные сущности бэк-офиса ресторана.
package model

import "time"

// OrderStatus описывает статус обработки заказа.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusAccepted  OrderStatus = "accepted"
	OrderStatusDenied    OrderStatus = "denied"
	OrderStatusReady     OrderStatus = "ready"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// OrderStatuses перечисляет допустимые статусы в порядке жизненного цикла.
var OrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusAccepted,
	OrderStatusDenied,
	OrderStatusReady,
	OrderStatusCompleted,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

// Valid сообщает, входит ли статус в допустимый набор.
func (s OrderStatus) Valid() bool {
	for _, st := range OrderStatuses {
		if s == st {
			return true
		}
	}
	return false
}

// DeliveryType описывает способ получения заказа.
type DeliveryType string

const (
	DeliveryTypeDelivery DeliveryType = "delivery"
	DeliveryTypeTakeout  DeliveryType = "takeout"
)

// Product описывает позицию заказа.
type Product struct {
	Name     string  `json:"name" bson:"name" validate:"required"`
	Quantity int     `json:"quantity" bson:"quantity" validate:"min=1"`
	Price    float64 `json:"price" bson:"price" validate:"min=0"`
}

// Order описывает заказ клиента.
type Order struct {
	ID               string       `json:"id" bson:"_id"`
	UserID           string       `json:"user_id" bson:"user_id" validate:"required"`
	CustomerName     string       `json:"customer_name,omitempty" bson:"customer_name,omitempty"`
	DeliveryType     DeliveryType `json:"delivery_type" bson:"delivery_type" validate:"required,oneof=delivery takeout"`
	LocationName     string       `json:"location_name,omitempty" bson:"location_name,omitempty"`
	Products         []Product    `json:"products" bson:"products" validate:"min=1,dive"`
	TotalPrice       float64      `json:"total_price" bson:"total_price" validate:"min=0"`
	DeliveryDistance float64      `json:"delivery_distance" bson:"delivery_distance" validate:"min=0"`
	Status           OrderStatus  `json:"order_status" bson:"order_status" validate:"required,oneof=pending accepted denied ready completed delivered cancelled"`
	Rating           float64      `json:"rating" bson:"rating" validate:"min=0,max=5"`
	CreatedAt        time.Time    `json:"created_at" bson:"createdAt"`
	UpdatedAt        time.Time    `json:"updated_at" bson:"updatedAt"`
}

// IsDelivery сообщает, оформлен ли заказ с доставкой.
func (o *Order) IsDelivery() bool {
	return o.DeliveryType == DeliveryTypeDelivery
}

// DashboardIdentifier задаёт фиксированный ключ единственного документа аналитики.
const DashboardIdentifier = "main_dashboard"

// ChartPoint описывает точку графика внутри периода.
type ChartPoint struct {
	Label string  `json:"date" bson:"date"`
	Total float64 `json:"total" bson:"total"`
}

// PeriodStats содержит агрегированные показатели за один период.
type PeriodStats struct {
	Orders           int64        `json:"orders" bson:"orders"`
	Price            float64      `json:"price" bson:"price"`
	DeliveryOrders   int64        `json:"deliveryOrders" bson:"deliveryOrders"`
	DeliveryPrice    float64      `json:"deliveryPrice" bson:"deliveryPrice"`
	DeliveryDistance float64      `json:"deliveryDistance" bson:"deliveryDistance"`
	Users            int64        `json:"users" bson:"users"`
	Chart            []ChartPoint `json:"chart" bson:"chart"`
}

// Normalize гарантирует непустой (не nil) график после чтения из хранилища.
func (p *PeriodStats) Normalize() {
	if p.Chart == nil {
		p.Chart = []ChartPoint{}
	}
}

// AnalyticsSnapshot хранит последние рассчитанные показатели в единственном документе.
type AnalyticsSnapshot struct {
	Identifier string      `json:"identifier" bson:"identifier"`
	Today      PeriodStats `json:"today" bson:"today"`
	Week       PeriodStats `json:"week" bson:"week"`
	Month      PeriodStats `json:"month" bson:"month"`
	Year       PeriodStats `json:"year" bson:"year"`
	CreatedAt  time.Time   `json:"created_at" bson:"createdAt"`
	UpdatedAt  time.Time   `json:"updated_at" bson:"updatedAt"`
}

// Normalize приводит все периоды снимка к канонической форме.
func (s *AnalyticsSnapshot) Normalize() {
	s.Today.Normalize()
	s.Week.Normalize()
	s.Month.Normalize()
	s.Year.Normalize()
}
