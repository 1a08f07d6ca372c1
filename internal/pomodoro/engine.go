// Package pomodoro implements the focus session engine: duration policies,
// the tick-driven timer state machine and the completed-session contract.
package pomodoro

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// State is the externally visible timer state.
type State int

const (
	Stopped State = iota
	Running
	Paused
)

var stateNames = map[State]string{
	Stopped: "stopped",
	Running: "running",
	Paused:  "paused",
}

func (s State) String() string { return stateNames[s] }

// SessionType is the kind of interval being counted down.
type SessionType int

const (
	Focus SessionType = iota
	ShortBreak
	LongBreak
)

var sessionTypeNames = map[SessionType]string{
	Focus:      "Focus",
	ShortBreak: "Short Break",
	LongBreak:  "Long Break",
}

func (t SessionType) String() string { return sessionTypeNames[t] }

// DefaultAlarmDuration is how long the alarm holds the next interval back.
const DefaultAlarmDuration = 9 * time.Second

var (
	// ErrNoSettings is returned by Start before any mode has been configured.
	ErrNoSettings = errors.New("pomodoro: no duration settings configured")
	// ErrNotRunning is returned by Pause outside the Running state.
	ErrNotRunning = errors.New("pomodoro: timer is not running")
	// ErrAlarmActive is returned by Pause while the alarm interstitial is in progress.
	ErrAlarmActive = errors.New("pomodoro: alarm in progress")
)

// Alarm is the optional resource played between intervals. Without one the
// engine switches sessions as soon as the countdown reaches zero.
type Alarm interface {
	Ring()
	Silence()
}

// EventKind classifies what a tick or alarm completion did.
type EventKind int

const (
	// EventAlarm means the countdown hit zero and the alarm started. The host
	// must call FinishAlarm with Token once Wait has elapsed.
	EventAlarm EventKind = iota + 1
	// EventSessionChanged means the engine moved to the next interval.
	EventSessionChanged
)

// Event describes a state-machine transition.
type Event struct {
	Kind  EventKind
	Token uint64
	Wait  time.Duration
	From  SessionType
	To    SessionType
	// Completed is set when a focus interval finished naturally.
	Completed *CompletedSession
}

// Snapshot is a read-only view of the engine, recomputed on demand.
type Snapshot struct {
	State           State
	SessionType     SessionType
	Mode            Mode
	Settings        Settings
	Remaining       time.Duration
	SessionTotal    time.Duration
	Progress        float64
	RoundsCompleted int
	Alarming        bool
	StatusText      string
}

// ShowHours reports whether the clock needs an hours field.
func (s Snapshot) ShowHours() bool {
	return s.SessionTotal >= time.Hour || s.Remaining >= time.Hour
}

// Clock formats the remaining time as MM:SS, or HH:MM:SS for long intervals.
func (s Snapshot) Clock() string {
	secs := int64(s.Remaining / time.Second)
	if secs < 0 {
		secs = 0
	}
	h, m, sec := secs/3600, (secs%3600)/60, secs%60
	if s.ShowHours() {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, sec)
	}
	return fmt.Sprintf("%02d:%02d", h*60+m, sec)
}

// Option configures an Engine.
type Option func(*Engine)

// WithRecorder logs every naturally finished focus interval to r.
func WithRecorder(r SessionRecorder) Option {
	return func(e *Engine) { e.recorder = r }
}

// WithAlarm enables the alarm interstitial. A non-positive d uses DefaultAlarmDuration.
func WithAlarm(a Alarm, d time.Duration) Option {
	return func(e *Engine) {
		e.alarm = a
		if d > 0 {
			e.alarmDuration = d
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithClock overrides time.Now for session timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// Engine is the timer state machine. It does no locking: every method must be
// called from one goroutine (a Bubble Tea update loop or a Runner).
type Engine struct {
	settings Settings
	mode     Mode

	state        State
	sessionType  SessionType
	remaining    time.Duration
	sessionTotal time.Duration
	progress     float64
	rounds       int

	focusStartedAt time.Time
	focusElapsed   time.Duration
	countdownEnd   time.Time

	alarming   bool
	alarmToken uint64

	recorder      SessionRecorder
	alarm         Alarm
	alarmDuration time.Duration
	logger        *zap.Logger
	now           func() time.Time
}

// New creates an unconfigured engine. Call SelectMode or ApplyCustomSettings
// before Start.
func New(opts ...Option) *Engine {
	e := &Engine{
		state:         Stopped,
		sessionType:   Focus,
		alarmDuration: DefaultAlarmDuration,
		logger:        zap.NewNop(),
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SelectMode switches to a fixed preset and resets the timer. ModeCustom is a
// no-op here; custom settings arrive through ApplyCustomSettings.
func (e *Engine) SelectMode(mode Mode) error {
	if mode == ModeCustom {
		return nil
	}
	s, err := Resolve(mode, nil)
	if err != nil {
		return err
	}
	e.settings = s
	e.mode = mode
	e.StopAndReset()
	e.logger.Debug("mode selected", zap.String("mode", mode.String()))
	return nil
}

// ApplyCustomSettings validates the input and, on success, switches to
// ModeCustom and resets. On failure nothing changes.
func (e *Engine) ApplyCustomSettings(in CustomInput) error {
	s, err := Resolve(ModeCustom, &in)
	if err != nil {
		return err
	}
	e.settings = s
	e.mode = ModeCustom
	e.StopAndReset()
	e.logger.Debug("custom settings applied",
		zap.Int("focus_min", in.FocusMinutes),
		zap.Int("short_break_min", in.ShortBreakMinutes),
		zap.Int("long_break_min", in.LongBreakMinutes),
		zap.Int("rounds", in.Rounds))
	return nil
}

// Start begins a fresh cycle from Stopped or resumes from Paused.
func (e *Engine) Start() error {
	if e.settings.IsZero() {
		return ErrNoSettings
	}
	switch e.state {
	case Running:
		return nil
	case Paused:
		e.state = Running
		return nil
	}
	e.sessionType = Focus
	e.rounds = 0
	e.remaining = e.settings.Focus()
	e.sessionTotal = e.remaining
	e.progress = 0
	e.beginFocus()
	e.state = Running
	return nil
}

// Pause halts ticking and keeps the remaining time.
func (e *Engine) Pause() error {
	if e.state != Running {
		return ErrNotRunning
	}
	if e.alarming {
		return ErrAlarmActive
	}
	e.state = Paused
	return nil
}

// Toggle pauses a running timer and starts or resumes any other.
func (e *Engine) Toggle() error {
	if e.state == Running {
		return e.Pause()
	}
	return e.Start()
}

// StopAndReset aborts any alarm in progress and returns to a fresh Stopped state.
func (e *Engine) StopAndReset() {
	if e.alarming {
		e.alarm.Silence()
		e.alarming = false
	}
	// Invalidate any outstanding FinishAlarm token.
	e.alarmToken++

	e.state = Stopped
	e.sessionType = Focus
	e.rounds = 0
	if !e.settings.IsZero() {
		e.remaining = e.settings.Focus()
		e.sessionTotal = e.remaining
	}
	e.progress = 0
	e.focusStartedAt = time.Time{}
	e.focusElapsed = 0
	e.countdownEnd = time.Time{}
}

// Ticking reports whether Tick would advance the countdown.
func (e *Engine) Ticking() bool {
	return e.state == Running && !e.alarming
}

// Tick advances the countdown by one second. It returns a non-nil event when
// the countdown ran out.
func (e *Engine) Tick() *Event {
	if !e.Ticking() {
		return nil
	}
	e.remaining -= time.Second
	if e.remaining < 0 {
		e.remaining = 0
	}
	if e.sessionType == Focus {
		e.focusElapsed += time.Second
	}
	e.progress = progressOf(e.sessionTotal, e.remaining)
	if e.remaining > 0 {
		return nil
	}
	return e.exhaust()
}

// FinishAlarm ends the interstitial started by an EventAlarm and moves to the
// next interval. Stale tokens are ignored and return nil.
func (e *Engine) FinishAlarm(token uint64) *Event {
	if !e.alarming || token != e.alarmToken {
		return nil
	}
	e.alarm.Silence()
	e.alarming = false
	return e.advance()
}

// Snapshot returns the current read-only view.
func (e *Engine) Snapshot() Snapshot {
	return Snapshot{
		State:           e.state,
		SessionType:     e.sessionType,
		Mode:            e.mode,
		Settings:        e.settings,
		Remaining:       e.remaining,
		SessionTotal:    e.sessionTotal,
		Progress:        e.progress,
		RoundsCompleted: e.rounds,
		Alarming:        e.alarming,
		StatusText:      e.statusText(),
	}
}

// Mode returns the active mode, empty before any configuration.
func (e *Engine) Mode() Mode { return e.mode }

func (e *Engine) exhaust() *Event {
	e.countdownEnd = e.now()
	if e.alarm == nil {
		return e.advance()
	}
	e.alarming = true
	e.alarmToken++
	e.alarm.Ring()
	return &Event{
		Kind:  EventAlarm,
		Token: e.alarmToken,
		Wait:  e.alarmDuration,
		From:  e.sessionType,
		To:    e.sessionType,
	}
}

func (e *Engine) advance() *Event {
	ev := &Event{Kind: EventSessionChanged, From: e.sessionType}

	if e.sessionType == Focus {
		e.rounds++
		if e.rounds%e.settings.Rounds() == 0 {
			e.sessionType = LongBreak
		} else {
			e.sessionType = ShortBreak
		}
		done := e.completedFocus()
		e.record(done)
		ev.Completed = &done
	} else {
		e.sessionType = Focus
		e.beginFocus()
	}

	e.remaining = e.settings.Duration(e.sessionType)
	e.sessionTotal = e.remaining
	e.progress = 0
	e.state = Running
	ev.To = e.sessionType
	return ev
}

func (e *Engine) beginFocus() {
	e.focusStartedAt = e.now()
	e.focusElapsed = 0
}

func (e *Engine) completedFocus() CompletedSession {
	end := e.countdownEnd
	if end.IsZero() {
		end = e.now()
	}
	return CompletedSession{
		StartedAt:       e.focusStartedAt,
		EndedAt:         end,
		DurationSeconds: int64(e.focusElapsed / time.Second),
		Mode:            e.mode,
		Status:          StatusCompleted,
	}
}

func (e *Engine) record(s CompletedSession) {
	if e.recorder == nil {
		return
	}
	if err := e.recorder.RecordSession(s); err != nil {
		e.logger.Warn("failed to record completed session",
			zap.Time("started_at", s.StartedAt),
			zap.Int64("duration_seconds", s.DurationSeconds),
			zap.Error(err))
		return
	}
	e.logger.Info("focus session recorded",
		zap.String("mode", s.Mode.String()),
		zap.Int64("duration_seconds", s.DurationSeconds))
}

func (e *Engine) statusText() string {
	if e.settings.IsZero() {
		return ""
	}
	if e.state == Stopped {
		return fmt.Sprintf("%d rounds of %d min focus, %d min break.",
			e.settings.Rounds(),
			int(e.settings.Focus()/time.Minute),
			int(e.settings.ShortBreak()/time.Minute))
	}
	if e.sessionType == Focus {
		return fmt.Sprintf("Focus %d/%d", e.rounds%e.settings.Rounds()+1, e.settings.Rounds())
	}
	return e.sessionType.String()
}

func progressOf(total, remaining time.Duration) float64 {
	if total <= 0 {
		return 0
	}
	return float64(total-remaining) / float64(total)
}
