package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/sadopc/pomodone/internal/pomodoro"
)

// CustomPresetName is the single preset slot each user has.
const CustomPresetName = "Custom"

// LatestPreset returns the user's saved custom durations.
func (s *Store) LatestPreset() (*CustomPreset, error) {
	p := &CustomPreset{}
	var updatedAt string
	err := s.db.QueryRow(
		`SELECT id, preset_name, focus_minutes, short_break_minutes, long_break_minutes, rounds, updated_at
		 FROM pomodoro_custom_presets WHERE user_id = ? ORDER BY updated_at DESC, id DESC LIMIT 1`, s.userID,
	).Scan(&p.ID, &p.Name, &p.FocusMinutes, &p.ShortBreakMinutes, &p.LongBreakMinutes, &p.Rounds, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("latest preset: %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("latest preset: %w", err)
	}
	p.UpdatedAt = parseTime(updatedAt)
	return p, nil
}

// SavePreset upserts the custom preset. Input is validated the same way the
// engine validates it, so only values the timer accepts are persisted.
func (s *Store) SavePreset(in pomodoro.CustomInput) error {
	if _, err := pomodoro.Resolve(pomodoro.ModeCustom, &in); err != nil {
		return err
	}
	now := formatTime(s.now())
	_, err := s.db.Exec(
		`INSERT INTO pomodoro_custom_presets
			(user_id, preset_name, focus_minutes, short_break_minutes, long_break_minutes, rounds, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(user_id, preset_name) DO UPDATE SET
			focus_minutes = excluded.focus_minutes,
			short_break_minutes = excluded.short_break_minutes,
			long_break_minutes = excluded.long_break_minutes,
			rounds = excluded.rounds,
			updated_at = excluded.updated_at`,
		s.userID, CustomPresetName, in.FocusMinutes, in.ShortBreakMinutes, in.LongBreakMinutes, in.Rounds, now, now,
	)
	if err != nil {
		return fmt.Errorf("save preset: %w", err)
	}
	return nil
}

// Input converts the preset back into engine input.
func (p CustomPreset) Input() pomodoro.CustomInput {
	return pomodoro.CustomInput{
		FocusMinutes:      p.FocusMinutes,
		ShortBreakMinutes: p.ShortBreakMinutes,
		LongBreakMinutes:  p.LongBreakMinutes,
		Rounds:            p.Rounds,
	}
}
