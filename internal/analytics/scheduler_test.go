package analytics

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mmeshcher/restaurant-backoffice/internal/model"
)

type funcJob func(ctx context.Context) (*model.AnalyticsSnapshot, error)

func (f funcJob) Recompute(ctx context.Context) (*model.AnalyticsSnapshot, error) {
	return f(ctx)
}

func TestParseDailyAt(t *testing.T) {
	h, m, err := ParseDailyAt("00:05")
	require.NoError(t, err)
	assert.Equal(t, 0, h)
	assert.Equal(t, 5, m)

	_, _, err = ParseDailyAt("25:00")
	assert.Error(t, err)

	_, _, err = ParseDailyAt("noon")
	assert.Error(t, err)
}

func TestNextRun(t *testing.T) {
	tashkent, err := time.LoadLocation("Asia/Tashkent")
	require.NoError(t, err)

	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{
			name: "later today",
			now:  time.Date(2025, time.June, 18, 0, 1, 0, 0, tashkent),
			want: time.Date(2025, time.June, 18, 0, 5, 0, 0, tashkent),
		},
		{
			name: "already passed",
			now:  time.Date(2025, time.June, 18, 10, 0, 0, 0, tashkent),
			want: time.Date(2025, time.June, 19, 0, 5, 0, 0, tashkent),
		},
		{
			name: "exactly now",
			now:  time.Date(2025, time.June, 18, 0, 5, 0, 0, tashkent),
			want: time.Date(2025, time.June, 19, 0, 5, 0, 0, tashkent),
		},
		{
			name: "utc evening is next local day",
			now:  time.Date(2025, time.June, 18, 19, 30, 0, 0, time.UTC),
			want: time.Date(2025, time.June, 20, 0, 5, 0, 0, tashkent),
		},
		{
			name: "end of year",
			now:  time.Date(2025, time.December, 31, 23, 0, 0, 0, tashkent),
			want: time.Date(2026, time.January, 1, 0, 5, 0, 0, tashkent),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NextRun(tt.now, tashkent, 0, 5)
			assert.True(t, tt.want.Equal(got), "got %v, want %v", got, tt.want)
		})
	}
}

func TestRunOnce_SkipsWhileRunning(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})

	job := funcJob(func(ctx context.Context) (*model.AnalyticsSnapshot, error) {
		close(started)
		<-release
		return &model.AnalyticsSnapshot{}, nil
	})

	s, err := NewScheduler(job, time.UTC, "00:05", zap.NewNop())
	require.NoError(t, err)

	done := make(chan bool)
	go func() { done <- s.RunOnce(context.Background()) }()

	<-started
	assert.False(t, s.RunOnce(context.Background()))

	close(release)
	assert.True(t, <-done)
}

func TestRunOnce_SwallowsErrors(t *testing.T) {
	job := funcJob(func(ctx context.Context) (*model.AnalyticsSnapshot, error) {
		return nil, errors.New("boom")
	})

	s, err := NewScheduler(job, time.UTC, "00:05", zap.NewNop())
	require.NoError(t, err)

	assert.True(t, s.RunOnce(context.Background()))
	// Флаг снят, следующий запуск не пропускается.
	assert.True(t, s.RunOnce(context.Background()))
}

func TestRun_FiresAndStops(t *testing.T) {
	var calls atomic.Int32
	fired := make(chan struct{}, 1)

	job := funcJob(func(ctx context.Context) (*model.AnalyticsSnapshot, error) {
		calls.Add(1)
		select {
		case fired <- struct{}{}:
		default:
		}
		return &model.AnalyticsSnapshot{}, nil
	})

	s, err := NewScheduler(job, time.UTC, "00:05", zap.NewNop())
	require.NoError(t, err)

	// Часы стоят за 20 мс до запуска.
	s.now = func() time.Time { return time.Date(2025, time.June, 18, 0, 4, 59, int(980*time.Millisecond), time.UTC) }

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- s.Run(ctx) }()

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not fire")
	}

	cancel()

	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop")
	}
	assert.GreaterOrEqual(t, calls.Load(), int32(1))
}

func TestNewScheduler_InvalidTime(t *testing.T) {
	_, err := NewScheduler(funcJob(nil), time.UTC, "24:61", zap.NewNop())
	assert.Error(t, err)
}
