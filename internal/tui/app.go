package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/sadopc/pomodone/internal/export"
	"github.com/sadopc/pomodone/internal/pomodoro"
	"github.com/sadopc/pomodone/internal/stats"
	"github.com/sadopc/pomodone/internal/store"
)

// Options wires the app to its collaborators.
type Options struct {
	Store  *store.Store
	Engine *pomodoro.Engine
	Loader *stats.Loader
	Logger *zap.Logger
	// Bell rings the terminal bell when an interval ends.
	Bell bool
	// ExportDir is where exports are written. Defaults to the home directory.
	ExportDir string
}

// App is the root Bubble Tea model.
type App struct {
	store     *store.Store
	logger    *zap.Logger
	exportDir string
	width     int
	height    int

	activeView    viewState
	showHelp      bool
	exportPicking bool
	exportCursor  int

	timer     timerModel
	dashboard dashboardModel
	pomodoro  pomodoroModel
	tasks     tasksModel
	reports   reportsModel
	settings  settingsModel

	help        help.Model
	status      string
	statusError bool
}

func NewApp(opts Options) App {
	h := help.New()
	h.ShowAll = false

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	exportDir := opts.ExportDir
	if exportDir == "" {
		exportDir, _ = os.UserHomeDir()
	}
	loader := opts.Loader
	if loader == nil {
		loader = stats.NewLoader(opts.Store, logger)
	}

	t := newTimerModel(opts.Engine, opts.Bell)
	return App{
		store:      opts.Store,
		logger:     logger,
		exportDir:  exportDir,
		activeView: viewDashboard,
		timer:      t,
		dashboard:  newDashboardModel(opts.Store, loader, t),
		pomodoro:   newPomodoroModel(opts.Store, t),
		tasks:      newTasksModel(opts.Store),
		reports:    newReportsModel(opts.Store),
		settings:   newSettingsModel(opts.Store),
		help:       h,
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(
		a.dashboard.Init(),
		a.pomodoro.refresh(),
		tickCmd(),
	)
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.dashboard.setSize(a.width, contentHeight)
		a.pomodoro.setSize(a.width, contentHeight)
		a.tasks.setSize(a.width, contentHeight)
		a.reports.setSize(a.width, contentHeight)
		a.settings.setSize(a.width, contentHeight)
		return a, nil

	case tea.KeyMsg:
		if a.exportPicking {
			return a.updateExportPicker(msg)
		}

		// A child view capturing input (form, search) gets every key.
		if a.isFormActive() {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Export):
			a.exportPicking = true
			a.exportCursor = 0
			return a, nil
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Start):
			return a, a.timer.start()
		case key.Matches(msg, keys.Pause):
			return a, a.timer.toggle()
		case key.Matches(msg, keys.Stop):
			return a, a.timer.stop()
		case key.Matches(msg, keys.Tab1):
			return a.switchView(viewDashboard)
		case key.Matches(msg, keys.Tab2):
			return a.switchView(viewTimer)
		case key.Matches(msg, keys.Tab3):
			return a.switchView(viewTasks)
		case key.Matches(msg, keys.Tab4):
			return a.switchView(viewReports)
		case key.Matches(msg, keys.Tab5):
			return a.switchView(viewSettings)
		case key.Matches(msg, keys.Tab):
			return a.switchView((a.activeView + 1) % viewState(len(viewNames)))
		}

	case tickMsg:
		return a, tea.Batch(tickCmd(), a.timer.tick())

	case alarmDoneMsg:
		return a, a.timer.finishAlarm(msg.token)

	case sessionCompletedMsg:
		cmds := []tea.Cmd{a.dashboard.loadData()}
		if a.activeView == viewReports {
			cmds = append(cmds, a.reports.refresh())
		}
		return a, tea.Batch(cmds...)

	case taskChangedMsg:
		return a, a.dashboard.loadData()

	case statusMsg:
		a.status = msg.text
		a.statusError = msg.isError
		if msg.isError {
			a.logger.Warn("tui error", zap.String("status", msg.text))
		}
		return a, nil

	case exportDoneMsg:
		a.status = "Exported to " + msg.path
		a.statusError = false
		a.exportPicking = false
		return a, nil

	case dashboardDataMsg:
		var cmd tea.Cmd
		a.dashboard, cmd = a.dashboard.update(msg)
		return a, cmd

	case presetDataMsg:
		var cmd tea.Cmd
		a.pomodoro, cmd = a.pomodoro.update(msg)
		return a, cmd
	}

	return a.updateActiveView(msg)
}

func (a App) switchView(v viewState) (tea.Model, tea.Cmd) {
	a.activeView = v
	return a, a.refreshCurrentView()
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewDashboard:
		a.dashboard, cmd = a.dashboard.update(msg)
	case viewTimer:
		a.pomodoro, cmd = a.pomodoro.update(msg)
	case viewTasks:
		a.tasks, cmd = a.tasks.update(msg)
	case viewReports:
		a.reports, cmd = a.reports.update(msg)
	case viewSettings:
		a.settings, cmd = a.settings.update(msg)
	}
	return a, cmd
}

func (a App) isFormActive() bool {
	switch a.activeView {
	case viewTimer:
		return a.pomodoro.formActive
	case viewTasks:
		return a.tasks.capturing()
	case viewSettings:
		return a.settings.formActive
	}
	return false
}

func (a App) refreshCurrentView() tea.Cmd {
	switch a.activeView {
	case viewDashboard:
		return a.dashboard.loadData()
	case viewTimer:
		return a.pomodoro.refresh()
	case viewTasks:
		return a.tasks.refresh()
	case viewReports:
		return a.reports.refresh()
	case viewSettings:
		return a.settings.refresh()
	}
	return nil
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewDashboard:
		content = a.dashboard.view()
	case viewTimer:
		content = a.pomodoro.view()
	case viewTasks:
		content = a.tasks.view()
	case viewReports:
		content = a.reports.view()
	case viewSettings:
		content = a.settings.view()
	}

	contentHeight := max(1, a.height-lipgloss.Height(header)-lipgloss.Height(footer))

	if a.exportPicking {
		content = a.renderExportPicker()
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := accentStyle.Bold(true).Render("pomodone")
	gap := max(1, a.width-lipgloss.Width(title)-lipgloss.Width(tabRow)-4)
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		style := mutedStyle
		if a.statusError {
			style = errorStyle
		}
		status = style.Render(" " + a.status)
	}

	timerInfo := ""
	snap := a.timer.snapshot()
	switch {
	case snap.Alarming:
		timerInfo = warningStyle.Render(" ♪ " + snap.Clock())
	case snap.State == pomodoro.Running:
		timerInfo = successStyle.Render(" ● " + snap.Clock())
	case snap.State == pomodoro.Paused:
		timerInfo = warningStyle.Render(" ⏸ " + snap.Clock())
	}

	left := footerStyle.Render(helpView)
	right := timerInfo + status

	gap := max(1, a.width-lipgloss.Width(left)-lipgloss.Width(right)-2)
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}

var exportFormats = []string{"Sessions CSV", "Tasks CSV", "JSON (everything)"}

func (a App) renderExportPicker() string {
	rows := []string{titleStyle.Render("Export"), ""}
	for i, f := range exportFormats {
		cursor := "  "
		style := normalItemStyle
		if i == a.exportCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+f))
	}
	rows = append(rows, "", mutedStyle.Render("  enter: export  esc: cancel"))

	return activePanelStyle.Width(a.width - 4).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.exportCursor < len(exportFormats)-1 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		return a, a.doExport(a.exportCursor)
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

func (a App) doExport(format int) tea.Cmd {
	return func() tea.Msg {
		dateStr := time.Now().Format("2006-01-02")

		switch format {
		case 0:
			sessions, err := a.store.ListSessions(store.SessionFilter{})
			if err != nil {
				return errorStatus("Export", err)
			}
			path := filepath.Join(a.exportDir, fmt.Sprintf("pomodone-sessions-%s.csv", dateStr))
			if err := export.SessionsToCSV(sessions, path); err != nil {
				return errorStatus("CSV", err)
			}
			return exportDoneMsg{path: path}
		case 1:
			tasks, err := a.store.ListTasks(store.TaskFilter{})
			if err != nil {
				return errorStatus("Export", err)
			}
			path := filepath.Join(a.exportDir, fmt.Sprintf("pomodone-tasks-%s.csv", dateStr))
			if err := export.TasksToCSV(tasks, path); err != nil {
				return errorStatus("CSV", err)
			}
			return exportDoneMsg{path: path}
		}

		sessions, err := a.store.ListSessions(store.SessionFilter{})
		if err != nil {
			return errorStatus("Export", err)
		}
		tasks, err := a.store.ListTasks(store.TaskFilter{})
		if err != nil {
			return errorStatus("Export", err)
		}
		path := filepath.Join(a.exportDir, fmt.Sprintf("pomodone-export-%s.json", dateStr))
		if err := export.ToJSON(sessions, tasks, path); err != nil {
			return errorStatus("JSON", err)
		}
		return exportDoneMsg{path: path}
	}
}
