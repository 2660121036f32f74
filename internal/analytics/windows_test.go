package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func utc(y int, m time.Month, d, h, min int) time.Time {
	return time.Date(y, m, d, h, min, 0, 0, time.UTC)
}

func endOfDay(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), time.UTC)
}

func TestWindowsAt_Wednesday(t *testing.T) {
	w := WindowsAt(utc(2025, time.June, 18, 14, 30))

	assert.Equal(t, utc(2025, time.June, 18, 0, 0), w.Today.From)
	assert.Equal(t, endOfDay(2025, time.June, 18), w.Today.To)

	assert.Equal(t, utc(2025, time.June, 16, 0, 0), w.Week.From)
	assert.Equal(t, endOfDay(2025, time.June, 22), w.Week.To)

	assert.Equal(t, utc(2025, time.June, 1, 0, 0), w.Month.From)
	assert.Equal(t, endOfDay(2025, time.June, 30), w.Month.To)

	assert.Equal(t, utc(2025, time.January, 1, 0, 0), w.Year.From)
	assert.Equal(t, endOfDay(2025, time.December, 31), w.Year.To)
}

func TestWindowsAt_SundayBelongsToPreviousMonday(t *testing.T) {
	w := WindowsAt(utc(2025, time.June, 22, 23, 0))

	assert.Equal(t, utc(2025, time.June, 16, 0, 0), w.Week.From)
	assert.Equal(t, endOfDay(2025, time.June, 22), w.Week.To)
}

func TestWindowsAt_UsesUTCDate(t *testing.T) {
	tashkent, err := time.LoadLocation("Asia/Tashkent")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}

	// 02:00 в Ташкенте 19 июня по UTC ещё 18 июня.
	now := time.Date(2025, time.June, 19, 2, 0, 0, 0, tashkent)
	w := WindowsAt(now)

	assert.Equal(t, utc(2025, time.June, 18, 0, 0), w.Today.From)
}

func TestWindowContains_Inclusive(t *testing.T) {
	w := WindowsAt(utc(2025, time.June, 18, 14, 30)).Today

	assert.True(t, w.Contains(w.From))
	assert.True(t, w.Contains(w.To))
	assert.False(t, w.Contains(w.From.Add(-time.Millisecond)))
	assert.False(t, w.Contains(w.To.Add(time.Millisecond)))
}

func TestWindowsSpan_WeekCrossesYear(t *testing.T) {
	w := WindowsAt(utc(2027, time.January, 1, 10, 0))

	span := w.Span()
	assert.Equal(t, utc(2026, time.December, 28, 0, 0), span.From)
	assert.Equal(t, endOfDay(2027, time.December, 31), span.To)
}
