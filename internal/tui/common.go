package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// viewState represents the currently active view.
type viewState int

const (
	viewDashboard viewState = iota
	viewTimer
	viewTasks
	viewReports
	viewSettings
)

var viewNames = []string{"Dashboard", "Timer", "Tasks", "Reports", "Settings"}

// --- Messages ---

type statusMsg struct {
	text    string
	isError bool
}

type tickMsg time.Time

// alarmDoneMsg fires when the alarm interstitial identified by token has elapsed.
type alarmDoneMsg struct {
	token uint64
}

// sessionCompletedMsg is sent after a focus interval was recorded.
type sessionCompletedMsg struct{}

type exportDoneMsg struct {
	path string
}

// --- Helpers ---

func statusCmd(text string, isError bool) tea.Cmd {
	return func() tea.Msg { return statusMsg{text: text, isError: isError} }
}

func errorStatus(prefix string, err error) statusMsg {
	return statusMsg{text: fmt.Sprintf("%s: %v", prefix, err), isError: true}
}

func formatDuration(d time.Duration) string {
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

func formatSeconds(secs int64) string {
	return formatDuration(time.Duration(secs) * time.Second)
}

func formatHours(secs int64) string {
	h := float64(secs) / 3600
	return fmt.Sprintf("%.1fh", h)
}

func formatDate(t *time.Time) string {
	if t == nil {
		return "—"
	}
	return t.Local().Format("Jan 02")
}
