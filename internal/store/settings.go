package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sadopc/pomodone/internal/pomodoro"
)

const (
	settingTimerMode = "timer_mode"
	settingWeekStart = "week_start"
)

func (s *Store) GetSetting(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("get setting %q: %w", key, ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("get setting %q: %w", key, err)
	}
	return value, nil
}

func (s *Store) SetSetting(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	return err
}

func (s *Store) GetAllSettings() ([]Setting, error) {
	rows, err := s.db.Query(`SELECT key, value FROM settings ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	defer rows.Close()

	var settings []Setting
	for rows.Next() {
		var s Setting
		if err := rows.Scan(&s.Key, &s.Value); err != nil {
			return nil, err
		}
		settings = append(settings, s)
	}
	return settings, rows.Err()
}

// TimerMode returns the last selected mode, classic when unset or unreadable.
func (s *Store) TimerMode() (pomodoro.Mode, error) {
	v, err := s.GetSetting(settingTimerMode)
	if errors.Is(err, ErrNotFound) {
		return pomodoro.ModeClassic, nil
	}
	if err != nil {
		return "", err
	}
	m, err := pomodoro.ParseMode(v)
	if err != nil {
		return pomodoro.ModeClassic, nil
	}
	return m, nil
}

func (s *Store) SetTimerMode(m pomodoro.Mode) error {
	if _, err := pomodoro.ParseMode(string(m)); err != nil {
		return err
	}
	return s.SetSetting(settingTimerMode, string(m))
}

// WeekStart returns the first day of the reporting week (Monday or Sunday).
func (s *Store) WeekStart() (time.Weekday, error) {
	v, err := s.GetSetting(settingWeekStart)
	if errors.Is(err, ErrNotFound) {
		return time.Monday, nil
	}
	if err != nil {
		return time.Monday, err
	}
	if strings.EqualFold(v, "sunday") {
		return time.Sunday, nil
	}
	return time.Monday, nil
}

func (s *Store) SetWeekStart(d time.Weekday) error {
	switch d {
	case time.Monday:
		return s.SetSetting(settingWeekStart, "monday")
	case time.Sunday:
		return s.SetSetting(settingWeekStart, "sunday")
	}
	return &pomodoro.ValidationError{Field: "week start", Value: d, Reason: "must be monday or sunday"}
}
