package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/pomodone/internal/pomodoro"
	"github.com/sadopc/pomodone/internal/stats"
	"github.com/sadopc/pomodone/internal/store"
)

const dashboardLoadTimeout = 5 * time.Second

type dashboardModel struct {
	store  *store.Store
	loader *stats.Loader
	timer  timerModel
	width  int
	height int

	stats   stats.Dashboard
	loaded  bool
	recent  []store.PomodoroSession
	lastErr error
}

func newDashboardModel(s *store.Store, l *stats.Loader, t timerModel) dashboardModel {
	return dashboardModel{
		store:  s,
		loader: l,
		timer:  t,
	}
}

func (d dashboardModel) Init() tea.Cmd {
	return d.loadData()
}

func (d *dashboardModel) setSize(w, h int) {
	d.width = w
	d.height = h
}

type dashboardDataMsg struct {
	stats  stats.Dashboard
	recent []store.PomodoroSession
	err    error
}

func (d dashboardModel) loadData() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), dashboardLoadTimeout)
		defer cancel()

		dash, err := d.loader.Load(ctx)
		if err != nil {
			return dashboardDataMsg{err: err}
		}
		recent, err := d.store.ListSessions(store.SessionFilter{Limit: 5})
		return dashboardDataMsg{stats: dash, recent: recent, err: err}
	}
}

func (d dashboardModel) update(msg tea.Msg) (dashboardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardDataMsg:
		d.lastErr = msg.err
		if msg.err != nil {
			return d, func() tea.Msg { return errorStatus("Dashboard", msg.err) }
		}
		d.stats = msg.stats
		d.recent = msg.recent
		d.loaded = true
		return d, nil
	}
	return d, nil
}

func (d dashboardModel) view() string {
	if d.width < 20 {
		return "Terminal too small"
	}

	contentWidth := d.width - 4
	return lipgloss.JoinVertical(lipgloss.Left,
		d.renderTimerPanel(contentWidth),
		d.renderStatsPanel(contentWidth),
		d.renderRecentPanel(contentWidth),
	)
}

func (d dashboardModel) renderTimerPanel(w int) string {
	snap := d.timer.snapshot()
	if snap.Settings.IsZero() {
		return panelStyle.Width(w).Render(mutedStyle.Render("No mode selected. Press 2 for the Timer tab."))
	}

	var indicator string
	switch {
	case snap.Alarming:
		indicator = warningStyle.Render("♪  TIME'S UP")
	case snap.State == pomodoro.Running:
		indicator = successStyle.Render("●  " + strings.ToUpper(snap.SessionType.String()))
	case snap.State == pomodoro.Paused:
		indicator = warningStyle.Render("⏸  PAUSED")
	default:
		indicator = mutedStyle.Render("■  STOPPED")
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		sessionStyle(snap).Width(w-6).Align(lipgloss.Center).Render(snap.Clock()),
		indicator,
		mutedStyle.Render(snap.Mode.Label()+" · "+snap.StatusText),
	)
	if snap.State == pomodoro.Stopped {
		return panelStyle.Width(w).Render(content)
	}
	return activePanelStyle.Width(w).Render(content)
}

func (d dashboardModel) renderStatsPanel(w int) string {
	title := titleStyle.Render("Progress")
	if !d.loaded {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, title, mutedStyle.Render("Loading...")))
	}

	s := d.stats
	rows := []string{
		title + "  " + highlightStyle.Render(fmt.Sprintf("%d%% productivity", s.Productivity)),
		"",
		fmt.Sprintf("  %-14s %s", "Today", targetLine(s.TodaySessions, s.DailyTarget)),
		fmt.Sprintf("  %-14s %s", "This week", targetLine(s.WeekSessions, s.WeeklyTarget)),
		fmt.Sprintf("  %-14s %d", "Active tasks", s.ActiveTasks),
		fmt.Sprintf("  %-14s %d (%d on time)", "Completed", s.CompletedTasks, s.OnTimeTasks),
		mutedStyle.Render(fmt.Sprintf("  Weeks start on %s", s.WeekStartsOn)),
	}
	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func targetLine(done, target int) string {
	text := fmt.Sprintf("%d / %d sessions", done, target)
	if target > 0 && done >= target {
		return successStyle.Render(text + " ✓")
	}
	return text
}

func (d dashboardModel) renderRecentPanel(w int) string {
	title := titleStyle.Render("Recent Sessions")
	if len(d.recent) == 0 {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			title,
			mutedStyle.Render("No sessions yet"),
		))
	}

	rows := []string{title}
	for _, s := range d.recent {
		mark := successStyle.Render("✓")
		if s.Status != string(pomodoro.StatusCompleted) {
			mark = errorStyle.Render("✗")
		}
		rows = append(rows, fmt.Sprintf("  %s %s  %-8s %s",
			mark,
			s.StartedAt.Local().Format("Jan 02 15:04"),
			s.Mode,
			formatSeconds(s.DurationSeconds),
		))
	}
	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
