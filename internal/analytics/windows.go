// Package analytics рассчитывает сводную статистику заказов по периодам и
// запускает ежедневный пересчёт.
package analytics

import (
	"time"

	_ "time/tzdata"
)

// Window задаёт закрытый интервал времени [From, To] в UTC.
type Window struct {
	From time.Time
	To   time.Time
}

// Contains сообщает, попадает ли момент t в окно включительно с обеих сторон.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.From) && !t.After(w.To)
}

// Windows содержит четыре окна отчёта, вычисленные от одного момента.
type Windows struct {
	Today Window
	Week  Window
	Month Window
	Year  Window
}

// WindowsAt вычисляет окна дня, недели (с понедельника), месяца и года, содержащие now.
// Все границы считаются в UTC, конец окна приходится на последнюю миллисекунду периода.
func WindowsAt(now time.Time) Windows {
	now = now.UTC()
	y, m, d := now.Date()

	dayStart := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	back := int(now.Weekday()) - 1
	if now.Weekday() == time.Sunday {
		back = 6
	}
	weekStart := dayStart.AddDate(0, 0, -back)

	monthStart := time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
	yearStart := time.Date(y, time.January, 1, 0, 0, 0, 0, time.UTC)

	return Windows{
		Today: closed(dayStart, dayStart.AddDate(0, 0, 1)),
		Week:  closed(weekStart, weekStart.AddDate(0, 0, 7)),
		Month: closed(monthStart, monthStart.AddDate(0, 1, 0)),
		Year:  closed(yearStart, yearStart.AddDate(1, 0, 0)),
	}
}

// Span возвращает наименьшее окно, покрывающее все четыре периода.
// Неделя может начаться в прошлом году, поэтому годовое окно не всегда шире.
func (w Windows) Span() Window {
	span := w.Year
	for _, win := range []Window{w.Today, w.Week, w.Month} {
		if win.From.Before(span.From) {
			span.From = win.From
		}
		if win.To.After(span.To) {
			span.To = win.To
		}
	}
	return span
}

func closed(from, next time.Time) Window {
	return Window{From: from, To: next.Add(-time.Millisecond)}
}
