package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/pomodone/internal/pomodoro"
	"github.com/sadopc/pomodone/internal/store"
)

// Each interval type owns a color; the rest of the palette stays neutral.
var (
	colorFocus     = lipgloss.Color("#E8554E")
	colorBreak     = lipgloss.Color("#4FB286")
	colorLongBreak = lipgloss.Color("#5C9EE6")
	colorAlarm     = lipgloss.Color("#FFCE3A")

	colorText   = lipgloss.Color("#D8DEE9")
	colorMuted  = lipgloss.Color("#6B7280")
	colorBorder = lipgloss.Color("#3B4252")
	colorDanger = lipgloss.Color("#D64545")
)

var (
	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorFocus).
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(colorFocus).
			Padding(0, 2)
	inactiveTabStyle = lipgloss.NewStyle().Foreground(colorMuted).Padding(0, 2)

	panelStyle       = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorBorder).Padding(1, 2)
	activePanelStyle = panelStyle.BorderForeground(colorFocus)

	headerStyle = lipgloss.NewStyle().Padding(0, 1)
	footerStyle = lipgloss.NewStyle().Foreground(colorMuted).Padding(0, 1)

	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(colorText)
	mutedStyle     = lipgloss.NewStyle().Foreground(colorMuted)
	highlightStyle = lipgloss.NewStyle().Foreground(colorLongBreak)
	accentStyle    = lipgloss.NewStyle().Foreground(colorFocus)
	successStyle   = lipgloss.NewStyle().Foreground(colorBreak)
	warningStyle   = lipgloss.NewStyle().Foreground(colorAlarm)
	errorStyle     = lipgloss.NewStyle().Foreground(colorDanger)

	normalItemStyle   = lipgloss.NewStyle().Foreground(colorText)
	selectedItemStyle = lipgloss.NewStyle().Foreground(colorFocus).Bold(true)

	focusBarStyle = lipgloss.NewStyle().Foreground(colorFocus)
)

// Clock styles. The big countdown takes the color of the running interval.
var (
	clockIdleStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorText)
	clockPausedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorMuted)
	clockAlarmStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorAlarm).Reverse(true)

	clockStyles = map[pomodoro.SessionType]lipgloss.Style{
		pomodoro.Focus:      lipgloss.NewStyle().Bold(true).Foreground(colorFocus),
		pomodoro.ShortBreak: lipgloss.NewStyle().Bold(true).Foreground(colorBreak),
		pomodoro.LongBreak:  lipgloss.NewStyle().Bold(true).Foreground(colorLongBreak),
	}
)

var taskStatusStyles = map[store.TaskStatus]lipgloss.Style{
	store.TaskPending: warningStyle,
	store.TaskOverdue: errorStyle.Bold(true),
	store.TaskDone:    successStyle,
}

var difficultyStyles = map[store.Difficulty]lipgloss.Style{
	store.DifficultyEasy:   successStyle,
	store.DifficultyMedium: warningStyle,
	store.DifficultyHard:   accentStyle,
}

func sessionStyle(snap pomodoro.Snapshot) lipgloss.Style {
	switch {
	case snap.Alarming:
		return clockAlarmStyle
	case snap.State == pomodoro.Paused:
		return clockPausedStyle
	case snap.State == pomodoro.Stopped:
		return clockIdleStyle
	}
	return clockStyles[snap.SessionType]
}

func taskStatusStyle(s store.TaskStatus) lipgloss.Style {
	if st, ok := taskStatusStyles[s]; ok {
		return st
	}
	return mutedStyle
}

func difficultyStyle(d store.Difficulty) lipgloss.Style {
	if st, ok := difficultyStyles[d]; ok {
		return st
	}
	return normalItemStyle
}
