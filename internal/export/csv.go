// Package export writes pomodoro sessions and tasks to CSV or JSON files.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/sadopc/pomodone/internal/store"
)

var sessionHeader = []string{"ID", "Mode", "Status", "Start", "End", "Duration (s)", "Duration"}

var taskHeader = []string{"ID", "Title", "Difficulty", "Status", "Due", "Completed", "On Time", "Description"}

// SessionsToCSV writes one row per pomodoro session.
func SessionsToCSV(sessions []store.PomodoroSession, path string) error {
	rows := make([][]string, 0, len(sessions))
	for _, s := range sessions {
		rows = append(rows, []string{
			strconv.FormatInt(s.ID, 10),
			s.Mode,
			s.Status,
			s.StartedAt.Local().Format(time.RFC3339),
			s.EndedAt.Local().Format(time.RFC3339),
			strconv.FormatInt(s.DurationSeconds, 10),
			formatDuration(s.DurationSeconds),
		})
	}
	return writeCSV(path, sessionHeader, rows)
}

// TasksToCSV writes one row per task. Empty dates stay empty.
func TasksToCSV(tasks []store.Task, path string) error {
	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		onTime := ""
		if t.Status == store.TaskDone {
			onTime = strconv.FormatBool(t.OnTime())
		}
		rows = append(rows, []string{
			strconv.FormatInt(t.ID, 10),
			t.Title,
			string(t.Difficulty),
			string(t.Status),
			formatOptionalTime(t.DueAt),
			formatOptionalTime(t.CompletedAt),
			onTime,
			t.Description,
		})
	}
	return writeCSV(path, taskHeader, rows)
}

func writeCSV(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}
	if err := w.WriteAll(rows); err != nil {
		return err
	}
	return w.Error()
}

func formatOptionalTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Local().Format(time.RFC3339)
}

func formatDuration(secs int64) string {
	h := secs / 3600
	m := (secs % 3600) / 60
	s := secs % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
