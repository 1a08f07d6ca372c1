package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/sadopc/pomodone/internal/pomodoro"
)

func (s *Store) GetUser() (*User, error) {
	u := &User{}
	var createdAt string
	err := s.db.QueryRow(
		`SELECT id, name, daily_pomodoro_target, weekly_pomodoro_target, created_at FROM users WHERE id = ?`, s.userID,
	).Scan(&u.ID, &u.Name, &u.DailyTarget, &u.WeeklyTarget, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get user %d: %w", s.userID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user %d: %w", s.userID, err)
	}
	u.CreatedAt = parseTime(createdAt)
	return u, nil
}

// DailyTarget returns the current user's daily pomodoro goal, or 0 when the
// user row is missing.
func (s *Store) DailyTarget() (int, error) {
	u, err := s.GetUser()
	if errors.Is(err, ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return u.DailyTarget, nil
}

// WeeklyTarget returns the current user's weekly pomodoro goal.
func (s *Store) WeeklyTarget() (int, error) {
	u, err := s.GetUser()
	if errors.Is(err, ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return u.WeeklyTarget, nil
}

func (s *Store) UpdateUserTargets(daily, weekly int) error {
	if daily < 0 {
		return &pomodoro.ValidationError{Field: "daily target", Value: daily, Reason: "must not be negative"}
	}
	if weekly < 0 {
		return &pomodoro.ValidationError{Field: "weekly target", Value: weekly, Reason: "must not be negative"}
	}
	_, err := s.db.Exec(
		`UPDATE users SET daily_pomodoro_target = ?, weekly_pomodoro_target = ? WHERE id = ?`,
		daily, weekly, s.userID,
	)
	if err != nil {
		return fmt.Errorf("update targets: %w", err)
	}
	return nil
}

func (s *Store) UpdateUserName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return &pomodoro.ValidationError{Field: "name", Value: name, Reason: "must not be blank"}
	}
	_, err := s.db.Exec(`UPDATE users SET name = ? WHERE id = ?`, name, s.userID)
	if err != nil {
		return fmt.Errorf("update user name: %w", err)
	}
	return nil
}
