package pomodoro

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Mode selects which duration policy is active.
type Mode string

const (
	ModeClassic Mode = "classic"
	ModeIntense Mode = "intense"
	ModeCustom  Mode = "custom"
)

// Modes lists every mode in display order.
var Modes = []Mode{ModeClassic, ModeIntense, ModeCustom}

func (m Mode) String() string { return string(m) }

// Label is the human-readable mode name.
func (m Mode) Label() string {
	switch m {
	case ModeClassic:
		return "Classic"
	case ModeIntense:
		return "Intense"
	case ModeCustom:
		return "Custom"
	}
	return string(m)
}

// ParseMode accepts a mode name in any case.
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	switch m {
	case ModeClassic, ModeIntense, ModeCustom:
		return m, nil
	}
	return "", &ValidationError{Field: "mode", Value: s, Reason: "unknown mode"}
}

// ValidationError reports a rejected duration or mode input.
type ValidationError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %v: %s", e.Field, e.Value, e.Reason)
}

// Settings holds the interval lengths for one mode. The zero value means
// "not configured"; valid values only come from NewSettings or Resolve.
type Settings struct {
	focus      time.Duration
	shortBreak time.Duration
	longBreak  time.Duration
	rounds     int
}

// NewSettings validates and builds a Settings value.
func NewSettings(focus, shortBreak, longBreak time.Duration, rounds int) (Settings, error) {
	if focus <= 0 {
		return Settings{}, &ValidationError{Field: "focus", Value: focus, Reason: "must be positive"}
	}
	if shortBreak < 0 {
		return Settings{}, &ValidationError{Field: "short break", Value: shortBreak, Reason: "cannot be negative"}
	}
	if longBreak < 0 {
		return Settings{}, &ValidationError{Field: "long break", Value: longBreak, Reason: "cannot be negative"}
	}
	if rounds <= 0 {
		return Settings{}, &ValidationError{Field: "rounds", Value: rounds, Reason: "must be positive"}
	}
	return Settings{focus: focus, shortBreak: shortBreak, longBreak: longBreak, rounds: rounds}, nil
}

func (s Settings) Focus() time.Duration      { return s.focus }
func (s Settings) ShortBreak() time.Duration { return s.shortBreak }
func (s Settings) LongBreak() time.Duration  { return s.longBreak }

// Rounds is the number of focus intervals before a long break.
func (s Settings) Rounds() int { return s.rounds }

// IsZero reports whether s was never configured.
func (s Settings) IsZero() bool { return s.rounds == 0 }

// Duration returns the configured length of the given interval type.
func (s Settings) Duration(t SessionType) time.Duration {
	switch t {
	case ShortBreak:
		return s.shortBreak
	case LongBreak:
		return s.longBreak
	}
	return s.focus
}

// CustomInput is user-supplied custom settings, in minutes.
type CustomInput struct {
	FocusMinutes      int
	ShortBreakMinutes int
	LongBreakMinutes  int
	Rounds            int
}

// Input converts settings back to whole minutes.
func (s Settings) Input() CustomInput {
	return CustomInput{
		FocusMinutes:      int(s.focus / time.Minute),
		ShortBreakMinutes: int(s.shortBreak / time.Minute),
		LongBreakMinutes:  int(s.longBreak / time.Minute),
		Rounds:            s.rounds,
	}
}

var (
	classicSettings = Settings{focus: 25 * time.Minute, shortBreak: 5 * time.Minute, longBreak: 15 * time.Minute, rounds: 4}
	intenseSettings = Settings{focus: 50 * time.Minute, shortBreak: 10 * time.Minute, longBreak: 30 * time.Minute, rounds: 2}
)

// Resolve produces the settings for a mode. The custom input is only read
// for ModeCustom, where it is required.
func Resolve(mode Mode, custom *CustomInput) (Settings, error) {
	switch mode {
	case ModeClassic:
		return classicSettings, nil
	case ModeIntense:
		return intenseSettings, nil
	case ModeCustom:
		if custom == nil {
			return Settings{}, &ValidationError{Field: "custom settings", Value: nil, Reason: "missing"}
		}
		for _, f := range []struct {
			name    string
			minutes int
		}{
			{"focus", custom.FocusMinutes},
			{"short break", custom.ShortBreakMinutes},
			{"long break", custom.LongBreakMinutes},
		} {
			if int64(f.minutes) > maxMinutes {
				return Settings{}, &ValidationError{Field: f.name, Value: f.minutes, Reason: "too large"}
			}
		}
		return NewSettings(
			time.Duration(custom.FocusMinutes)*time.Minute,
			time.Duration(custom.ShortBreakMinutes)*time.Minute,
			time.Duration(custom.LongBreakMinutes)*time.Minute,
			custom.Rounds,
		)
	}
	return Settings{}, &ValidationError{Field: "mode", Value: mode, Reason: "unknown mode"}
}

// maxMinutes is the longest interval a time.Duration can hold.
const maxMinutes = math.MaxInt64 / int64(time.Minute)
