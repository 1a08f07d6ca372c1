package pomodoro

import "time"

// SessionStatus is the persisted outcome of a focus interval.
type SessionStatus string

const (
	StatusCompleted SessionStatus = "completed"
	StatusCancelled SessionStatus = "cancelled"
)

// CompletedSession is handed to the recorder when a focus interval finishes
// on its own. Breaks and manual stops never produce one.
type CompletedSession struct {
	StartedAt       time.Time
	EndedAt         time.Time
	DurationSeconds int64
	Mode            Mode
	Status          SessionStatus
}

// SessionRecorder persists completed focus intervals and counts them back.
// RecordSession errors are logged by the engine and never stop the timer.
type SessionRecorder interface {
	RecordSession(s CompletedSession) error
	// CountSessionsSince counts completed sessions with StartedAt >= t.
	CountSessionsSince(t time.Time) (int, error)
}

// SilentAlarm holds the interstitial without producing any sound. Hosts
// signal the alarm themselves: the TUI on its status line, the headless
// printer with a terminal bell.
type SilentAlarm struct{}

func (SilentAlarm) Ring()    {}
func (SilentAlarm) Silence() {}
