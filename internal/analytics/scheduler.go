package analytics

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/mmeshcher/restaurant-backoffice/internal/model"
)

// Recomputer выполняет один пересчёт аналитики.
type Recomputer interface {
	Recompute(ctx context.Context) (*model.AnalyticsSnapshot, error)
}

// Scheduler раз в сутки в заданное локальное время запускает пересчёт аналитики.
// Если предыдущий запуск ещё идёт, очередной пропускается.
type Scheduler struct {
	job    Recomputer
	loc    *time.Location
	hour   int
	minute int
	logger *zap.Logger
	now    func() time.Time

	running atomic.Bool
	wg      sync.WaitGroup
}

// NewScheduler создаёт планировщик. dailyAt задаётся в формате "HH:MM" в зоне loc.
func NewScheduler(job Recomputer, loc *time.Location, dailyAt string, logger *zap.Logger) (*Scheduler, error) {
	hour, minute, err := ParseDailyAt(dailyAt)
	if err != nil {
		return nil, err
	}
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		job:    job,
		loc:    loc,
		hour:   hour,
		minute: minute,
		logger: logger,
		now:    time.Now,
	}, nil
}

// ParseDailyAt разбирает время суток вида "00:05".
func ParseDailyAt(s string) (int, int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, 0, fmt.Errorf("parse daily time %q: %w", s, err)
	}
	return t.Hour(), t.Minute(), nil
}

// NextRun возвращает ближайший момент строго после now, когда в зоне loc наступает hour:minute.
func NextRun(now time.Time, loc *time.Location, hour, minute int) time.Time {
	local := now.In(loc)
	y, m, d := local.Date()

	next := time.Date(y, m, d, hour, minute, 0, 0, loc)
	if !next.After(now) {
		next = time.Date(y, m, d+1, hour, minute, 0, 0, loc)
	}
	return next
}

// Run блокируется до отмены ctx, запуская пересчёт по расписанию.
// Ошибки пересчёта логируются и не прерывают цикл.
func (s *Scheduler) Run(ctx context.Context) error {
	defer s.wg.Wait()

	for {
		next := NextRun(s.now(), s.loc, s.hour, s.minute)
		s.logger.Info("analytics run scheduled", zap.Time("at", next))

		timer := time.NewTimer(next.Sub(s.now()))
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-timer.C:
		}

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.RunOnce(ctx)
		}()
	}
}

// RunOnce выполняет пересчёт, если другой запуск этого планировщика не идёт.
// Возвращает false, если запуск был пропущен.
func (s *Scheduler) RunOnce(ctx context.Context) bool {
	if !s.running.CompareAndSwap(false, true) {
		s.logger.Warn("analytics run skipped: previous run still in progress")
		return false
	}
	defer s.running.Store(false)

	if _, err := s.job.Recompute(ctx); err != nil {
		s.logger.Error("scheduled analytics run failed", zap.Error(err))
	}
	return true
}
