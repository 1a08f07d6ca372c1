package pomodoro

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Update is published by a Runner after every observable change.
type Update struct {
	Snapshot Snapshot
	Event    *Event
}

// RunnerConfig controls a Runner's timing.
type RunnerConfig struct {
	TickInterval time.Duration // one countdown second (default 1s)
	BufferSize   int           // updates channel capacity (default 16)
}

// DefaultRunnerConfig returns the 1 Hz configuration.
func DefaultRunnerConfig() RunnerConfig {
	return RunnerConfig{
		TickInterval: time.Second,
		BufferSize:   16,
	}
}

type command struct {
	apply func(*Engine) error
	reply chan error
}

// Runner owns an Engine on a single goroutine. All engine access goes through
// Run's loop, so callers on any goroutine can use its methods safely.
type Runner struct {
	engine  *Engine
	config  RunnerConfig
	cmds    chan command
	updates chan Update
	logger  *zap.Logger
}

// NewRunner wraps e. The engine must not be used directly afterwards.
func NewRunner(e *Engine, config RunnerConfig, logger *zap.Logger) *Runner {
	defaults := DefaultRunnerConfig()
	if config.TickInterval <= 0 {
		config.TickInterval = defaults.TickInterval
	}
	if config.BufferSize <= 0 {
		config.BufferSize = defaults.BufferSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		engine:  e,
		config:  config,
		cmds:    make(chan command),
		updates: make(chan Update, config.BufferSize),
		logger:  logger,
	}
}

// Updates streams snapshots. It is closed when Run returns.
func (r *Runner) Updates() <-chan Update { return r.updates }

// Run drives the engine until ctx is cancelled.
func (r *Runner) Run(ctx context.Context) error {
	defer close(r.updates)

	ticker := time.NewTicker(r.config.TickInterval)
	defer ticker.Stop()

	var (
		alarmTimer *time.Timer
		alarmC     <-chan time.Time
		alarmToken uint64
	)
	stopAlarm := func() {
		if alarmTimer != nil {
			alarmTimer.Stop()
		}
		alarmTimer, alarmC = nil, nil
	}
	defer stopAlarm()

	handle := func(ev *Event) {
		if ev != nil && ev.Kind == EventAlarm {
			stopAlarm()
			alarmToken = ev.Token
			alarmTimer = time.NewTimer(scaleWait(ev.Wait, r.config.TickInterval))
			alarmC = alarmTimer.C
		}
		r.publish(ev)
	}

	r.logger.Debug("runner started", zap.Duration("tick", r.config.TickInterval))
	for {
		select {
		case <-ctx.Done():
			r.engine.StopAndReset()
			r.logger.Debug("runner stopping")
			return ctx.Err()

		case cmd := <-r.cmds:
			err := cmd.apply(r.engine)
			cmd.reply <- err
			if !r.engine.Snapshot().Alarming {
				stopAlarm()
			}
			r.publish(nil)

		case <-ticker.C:
			if !r.engine.Ticking() {
				continue
			}
			handle(r.engine.Tick())

		case <-alarmC:
			alarmTimer, alarmC = nil, nil
			handle(r.engine.FinishAlarm(alarmToken))
		}
	}
}

// scaleWait keeps the alarm proportional to the tick interval, so a runner
// ticking faster than 1 Hz also shortens the interstitial.
func scaleWait(wait, tick time.Duration) time.Duration {
	if tick == time.Second {
		return wait
	}
	return time.Duration(float64(wait) * float64(tick) / float64(time.Second))
}

func (r *Runner) publish(ev *Event) {
	u := Update{Snapshot: r.engine.Snapshot(), Event: ev}
	select {
	case r.updates <- u:
	default:
		r.logger.Debug("update dropped, subscriber is behind")
	}
}

// Do runs fn on the engine goroutine and returns its error.
func (r *Runner) Do(ctx context.Context, fn func(*Engine) error) error {
	cmd := command{apply: fn, reply: make(chan error, 1)}
	select {
	case r.cmds <- cmd:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-cmd.reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *Runner) Start(ctx context.Context) error {
	return r.Do(ctx, (*Engine).Start)
}

func (r *Runner) Pause(ctx context.Context) error {
	return r.Do(ctx, (*Engine).Pause)
}

func (r *Runner) Stop(ctx context.Context) error {
	return r.Do(ctx, func(e *Engine) error {
		e.StopAndReset()
		return nil
	})
}

func (r *Runner) SelectMode(ctx context.Context, m Mode) error {
	return r.Do(ctx, func(e *Engine) error { return e.SelectMode(m) })
}

func (r *Runner) ApplyCustomSettings(ctx context.Context, in CustomInput) error {
	return r.Do(ctx, func(e *Engine) error { return e.ApplyCustomSettings(in) })
}

// Snapshot fetches the current snapshot from the engine goroutine.
func (r *Runner) Snapshot(ctx context.Context) (Snapshot, error) {
	var snap Snapshot
	err := r.Do(ctx, func(e *Engine) error {
		snap = e.Snapshot()
		return nil
	})
	return snap, err
}
