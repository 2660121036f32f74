package analytics

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmeshcher/restaurant-backoffice/internal/model"
)

var weekdayLabels = [...]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// Compute строит снимок аналитики по заказам на момент now.
// Окна периодов считаются в UTC, а подписи графиков в часовом поясе loc.
// Заказы вне всех окон игнорируются; UpdatedAt остаётся нулевым.
func Compute(orders []model.Order, now time.Time, loc *time.Location) *model.AnalyticsSnapshot {
	if loc == nil {
		loc = time.UTC
	}
	w := WindowsAt(now)

	monthStart := w.Month.From.In(loc)

	return &model.AnalyticsSnapshot{
		Identifier: model.DashboardIdentifier,
		Today:      periodStats(orders, w.Today, loc, hourBucket, byKey),
		Week:       periodStats(orders, w.Week, loc, weekdayBucket, byKey),
		Month: periodStats(orders, w.Month, loc, func(t time.Time) (int, string) {
			return monthWeekBucket(t, monthStart)
		}, byFirstOrder),
		Year: periodStats(orders, w.Year, loc, monthBucket, byKey),
	}
}

// bucketFunc возвращает ключ и подпись точки графика для локального времени заказа.
type bucketFunc func(local time.Time) (key int, label string)

// chartOrder задаёт порядок точек графика.
type chartOrder int

const (
	byKey chartOrder = iota
	byFirstOrder
)

type bucket struct {
	label string
	first time.Time
	total decimal.Decimal
}

func periodStats(orders []model.Order, w Window, loc *time.Location, bucketOf bucketFunc, order chartOrder) model.PeriodStats {
	var (
		stats         model.PeriodStats
		price         = decimal.Zero
		deliveryPrice = decimal.Zero
		distance      = decimal.Zero
		users         = make(map[string]struct{})
		buckets       = make(map[int]*bucket)
	)

	for i := range orders {
		o := &orders[i]
		if !w.Contains(o.CreatedAt) {
			continue
		}

		total := finiteDecimal(o.TotalPrice)

		stats.Orders++
		price = price.Add(total)
		users[o.UserID] = struct{}{}

		if o.IsDelivery() {
			stats.DeliveryOrders++
			deliveryPrice = deliveryPrice.Add(total)
			distance = distance.Add(finiteDecimal(o.DeliveryDistance))
		}

		key, label := bucketOf(o.CreatedAt.In(loc))
		b, ok := buckets[key]
		if !ok {
			b = &bucket{label: label, first: o.CreatedAt, total: decimal.Zero}
			buckets[key] = b
		}
		if o.CreatedAt.Before(b.first) {
			b.first = o.CreatedAt
		}
		b.total = b.total.Add(total)
	}

	stats.Price = price.InexactFloat64()
	stats.DeliveryPrice = deliveryPrice.InexactFloat64()
	stats.DeliveryDistance = distance.InexactFloat64()
	stats.Users = int64(len(users))
	stats.Chart = chartPoints(buckets, order)

	return stats
}

// chartPoints упорядочивает точки по ключу либо по самому раннему заказу в корзине.
func chartPoints(buckets map[int]*bucket, order chartOrder) []model.ChartPoint {
	keys := make([]int, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := buckets[keys[i]], buckets[keys[j]]
		if order == byFirstOrder && !a.first.Equal(b.first) {
			return a.first.Before(b.first)
		}
		return keys[i] < keys[j]
	})

	points := make([]model.ChartPoint, 0, len(keys))
	for _, k := range keys {
		b := buckets[k]
		points = append(points, model.ChartPoint{Label: b.label, Total: b.total.InexactFloat64()})
	}
	return points
}

// finiteDecimal переводит число в decimal; NaN и бесконечности считаются нулём.
func finiteDecimal(v float64) decimal.Decimal {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(v)
}

func hourBucket(t time.Time) (int, string) {
	return t.Hour(), fmt.Sprintf("%d:00", t.Hour())
}

func weekdayBucket(t time.Time) (int, string) {
	return int(t.Weekday()), weekdayLabel(int(t.Weekday()))
}

func weekdayLabel(day int) string {
	if day < 0 || day >= len(weekdayLabels) {
		return "Unk"
	}
	return weekdayLabels[day]
}

func monthBucket(t time.Time) (int, string) {
	return int(t.Month()), t.Month().String()[:3]
}

// monthWeekBucket группирует по ISO-неделе. Номер в подписи равен разности ISO-недель
// заказа и первого дня месяца плюс один; в конце декабря неделя следующего ISO-года
// даёт отрицательный номер, порядок точек от этого не зависит.
func monthWeekBucket(t, monthStart time.Time) (int, string) {
	year, week := t.ISOWeek()
	_, firstWeek := monthStart.ISOWeek()
	return year*100 + week, fmt.Sprintf("Week %d", week-firstWeek+1)
}
