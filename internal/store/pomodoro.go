package store

import (
	"fmt"
	"time"

	"github.com/sadopc/pomodone/internal/pomodoro"
)

// RecordSession stores a finished focus interval. Sessions missing either
// timestamp are ignored.
func (s *Store) RecordSession(cs pomodoro.CompletedSession) error {
	if cs.StartedAt.IsZero() || cs.EndedAt.IsZero() {
		return nil
	}
	status := cs.Status
	if status == "" {
		status = pomodoro.StatusCompleted
	}
	_, err := s.db.Exec(
		`INSERT INTO pomodoro_sessions (user_id, started_at, ended_at, duration_seconds, mode, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		s.userID, formatTime(cs.StartedAt), formatTime(cs.EndedAt), cs.DurationSeconds,
		string(cs.Mode), string(status), formatTime(s.now()),
	)
	if err != nil {
		return fmt.Errorf("record session: %w", err)
	}
	return nil
}

// CountSessionsSince counts completed sessions that started at or after t.
func (s *Store) CountSessionsSince(t time.Time) (int, error) {
	var n int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM pomodoro_sessions
		 WHERE user_id = ? AND status = 'completed' AND started_at >= ?`,
		s.userID, formatTime(t),
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count sessions: %w", err)
	}
	return n, nil
}

func (s *Store) ListSessions(f SessionFilter) ([]PomodoroSession, error) {
	query := `SELECT id, user_id, started_at, ended_at, duration_seconds, mode, status
		FROM pomodoro_sessions WHERE user_id = ?`
	args := []any{s.userID}

	if f.From != nil {
		query += ` AND started_at >= ?`
		args = append(args, formatTime(*f.From))
	}
	if f.To != nil {
		query += ` AND started_at < ?`
		args = append(args, formatTime(*f.To))
	}
	query += ` ORDER BY started_at DESC, id DESC`
	if f.Limit > 0 {
		query += fmt.Sprintf(` LIMIT %d`, f.Limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []PomodoroSession
	for rows.Next() {
		var p PomodoroSession
		var startedAt, endedAt string
		if err := rows.Scan(&p.ID, &p.UserID, &startedAt, &endedAt, &p.DurationSeconds, &p.Mode, &p.Status); err != nil {
			return nil, err
		}
		p.StartedAt = parseTime(startedAt)
		p.EndedAt = parseTime(endedAt)
		sessions = append(sessions, p)
	}
	return sessions, rows.Err()
}

// DailySessionCounts buckets completed sessions in [from, to) by calendar day
// in from's location. Every day in the range is present, empty days included.
func (s *Store) DailySessionCounts(from, to time.Time) ([]DailyCount, error) {
	loc := from.Location()
	rows, err := s.db.Query(
		`SELECT started_at, duration_seconds FROM pomodoro_sessions
		 WHERE user_id = ? AND status = 'completed' AND started_at >= ? AND started_at < ?`,
		s.userID, formatTime(from), formatTime(to),
	)
	if err != nil {
		return nil, fmt.Errorf("daily session counts: %w", err)
	}
	defer rows.Close()

	byDay := make(map[string]*DailyCount)
	for rows.Next() {
		var startedAt string
		var secs int64
		if err := rows.Scan(&startedAt, &secs); err != nil {
			return nil, err
		}
		day := parseTime(startedAt).In(loc).Format("2006-01-02")
		dc, ok := byDay[day]
		if !ok {
			dc = &DailyCount{Date: day}
			byDay[day] = dc
		}
		dc.Sessions++
		dc.FocusSeconds += secs
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var out []DailyCount
	for d := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, loc); d.Before(to); d = d.AddDate(0, 0, 1) {
		key := d.Format("2006-01-02")
		if dc, ok := byDay[key]; ok {
			out = append(out, *dc)
		} else {
			out = append(out, DailyCount{Date: key})
		}
	}
	return out, nil
}
