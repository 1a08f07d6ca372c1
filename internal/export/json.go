package export

import (
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-json"

	"github.com/sadopc/pomodone/internal/store"
)

type jsonExport struct {
	ExportedAt string        `json:"exported_at"`
	Summary    jsonSummary   `json:"summary"`
	Sessions   []jsonSession `json:"sessions"`
	Tasks      []jsonTask    `json:"tasks"`
}

type jsonSummary struct {
	Sessions        int   `json:"sessions"`
	FocusSeconds    int64 `json:"focus_seconds"`
	Tasks           int   `json:"tasks"`
	CompletedTasks  int   `json:"completed_tasks"`
	CompletedOnTime int   `json:"completed_on_time"`
}

type jsonSession struct {
	ID          int64  `json:"id"`
	Mode        string `json:"mode"`
	Status      string `json:"status"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	DurationSec int64  `json:"duration_seconds"`
	Duration    string `json:"duration"`
}

type jsonTask struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Difficulty  string `json:"difficulty"`
	Status      string `json:"status"`
	DueAt       string `json:"due_at,omitempty"`
	CompletedAt string `json:"completed_at,omitempty"`
	OnTime      *bool  `json:"on_time,omitempty"`
}

// ToJSON writes sessions and tasks into one indented document.
func ToJSON(sessions []store.PomodoroSession, tasks []store.Task, path string) error {
	export := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
	}

	for _, s := range sessions {
		if s.Status == "completed" {
			export.Summary.Sessions++
			export.Summary.FocusSeconds += s.DurationSeconds
		}
		export.Sessions = append(export.Sessions, jsonSession{
			ID:          s.ID,
			Mode:        s.Mode,
			Status:      s.Status,
			StartTime:   s.StartedAt.Local().Format(time.RFC3339),
			EndTime:     s.EndedAt.Local().Format(time.RFC3339),
			DurationSec: s.DurationSeconds,
			Duration:    formatDuration(s.DurationSeconds),
		})
	}

	for _, t := range tasks {
		export.Summary.Tasks++
		jt := jsonTask{
			ID:          t.ID,
			Title:       t.Title,
			Description: t.Description,
			Difficulty:  string(t.Difficulty),
			Status:      string(t.Status),
			DueAt:       formatOptionalTime(t.DueAt),
			CompletedAt: formatOptionalTime(t.CompletedAt),
		}
		if t.Status == store.TaskDone {
			onTime := t.OnTime()
			jt.OnTime = &onTime
			export.Summary.CompletedTasks++
			if onTime {
				export.Summary.CompletedOnTime++
			}
		}
		export.Tasks = append(export.Tasks, jt)
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
