// Package stats computes the productivity score and the dashboard counters.
package stats

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Productivity blends the daily pomodoro goal with the on-time task ratio and
// returns a percentage in [0, 100].
func Productivity(dailyDone, dailyTarget, completedTasks, completedOnTime int) int {
	var pomodoroRatio float64
	switch {
	case dailyTarget > 0:
		pomodoroRatio = math.Min(1, float64(dailyDone)/float64(dailyTarget))
	case dailyDone > 0:
		pomodoroRatio = 1
	}

	var onTimeRatio float64
	if completedTasks > 0 {
		onTimeRatio = float64(completedOnTime) / float64(completedTasks)
	}

	score := int(math.Round((pomodoroRatio + onTimeRatio) / 2 * 100))
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// TaskCounter is implemented by the task store.
type TaskCounter interface {
	CountActiveTasks() (int, error)
	CountCompletedTasks() (int, error)
	CountCompletedOnTimeTasks() (int, error)
}

// TargetProvider supplies the user's goals. Missing users report 0.
type TargetProvider interface {
	DailyTarget() (int, error)
	WeeklyTarget() (int, error)
}

// SessionCounter counts completed focus sessions started at or after t.
type SessionCounter interface {
	CountSessionsSince(t time.Time) (int, error)
}

// Source bundles everything the dashboard reads.
type Source interface {
	TaskCounter
	TargetProvider
	SessionCounter
	WeekStart() (time.Weekday, error)
}

// Dashboard is one consistent read of the dashboard counters.
type Dashboard struct {
	TodaySessions  int
	DailyTarget    int
	WeekSessions   int
	WeeklyTarget   int
	ActiveTasks    int
	CompletedTasks int
	OnTimeTasks    int
	Productivity   int
	WeekStartsOn   time.Weekday
	GeneratedAt    time.Time
}

// Loader gathers dashboard counters concurrently.
type Loader struct {
	src    Source
	now    func() time.Time
	logger *zap.Logger
}

func NewLoader(src Source, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{src: src, now: time.Now, logger: logger}
}

// Load reads every counter. The first failing query cancels the rest.
func (l *Loader) Load(ctx context.Context) (Dashboard, error) {
	now := l.now()
	weekStart, err := l.src.WeekStart()
	if err != nil {
		return Dashboard{}, fmt.Errorf("week start: %w", err)
	}
	d := Dashboard{WeekStartsOn: weekStart, GeneratedAt: now}

	g, ctx := errgroup.WithContext(ctx)
	run := func(name string, dst *int, fn func() (int, error)) {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			n, err := fn()
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			*dst = n
			return nil
		})
	}

	run("today sessions", &d.TodaySessions, func() (int, error) {
		return l.src.CountSessionsSince(StartOfDay(now))
	})
	run("week sessions", &d.WeekSessions, func() (int, error) {
		return l.src.CountSessionsSince(StartOfWeek(now, weekStart))
	})
	run("daily target", &d.DailyTarget, l.src.DailyTarget)
	run("weekly target", &d.WeeklyTarget, l.src.WeeklyTarget)
	run("active tasks", &d.ActiveTasks, l.src.CountActiveTasks)
	run("completed tasks", &d.CompletedTasks, l.src.CountCompletedTasks)
	run("on-time tasks", &d.OnTimeTasks, l.src.CountCompletedOnTimeTasks)

	if err := g.Wait(); err != nil {
		l.logger.Warn("dashboard load failed", zap.Error(err))
		return Dashboard{}, err
	}

	d.Productivity = Productivity(d.TodaySessions, d.DailyTarget, d.CompletedTasks, d.OnTimeTasks)
	l.logger.Debug("dashboard loaded",
		zap.Int("today", d.TodaySessions),
		zap.Int("week", d.WeekSessions),
		zap.Int("productivity", d.Productivity))
	return d, nil
}

// StartOfDay returns local midnight of t's day.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// StartOfWeek returns midnight of the most recent weekStart on or before t.
func StartOfWeek(t time.Time, weekStart time.Weekday) time.Time {
	day := StartOfDay(t)
	offset := (int(day.Weekday()) - int(weekStart) + 7) % 7
	return day.AddDate(0, 0, -offset)
}
