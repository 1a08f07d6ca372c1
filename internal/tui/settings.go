package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/pomodone/internal/store"
)

type settingsModel struct {
	store  *store.Store
	width  int
	height int

	user      *store.User
	weekStart time.Weekday
	preset    *store.CustomPreset
	settings  []store.Setting

	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	name         *string
	dailyTarget  *string
	weeklyTarget *string
	weekStartDay *time.Weekday
}

func newSettingsModel(s *store.Store) settingsModel {
	name, daily, weekly := "", "", ""
	ws := time.Monday
	return settingsModel{
		store:        s,
		weekStart:    time.Monday,
		name:         &name,
		dailyTarget:  &daily,
		weeklyTarget: &weekly,
		weekStartDay: &ws,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

type settingsDataMsg struct {
	user      *store.User
	weekStart time.Weekday
	preset    *store.CustomPreset
	settings  []store.Setting
	err       error
}

func (s settingsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		user, err := s.store.GetUser()
		if err != nil {
			return settingsDataMsg{err: err}
		}
		weekStart, err := s.store.WeekStart()
		if err != nil {
			return settingsDataMsg{err: err}
		}
		settings, err := s.store.GetAllSettings()
		if err != nil {
			return settingsDataMsg{err: err}
		}
		msg := settingsDataMsg{user: user, weekStart: weekStart, settings: settings}
		if preset, err := s.store.LatestPreset(); err == nil {
			msg.preset = preset
		}
		return msg
	}
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	switch msg := msg.(type) {
	case settingsDataMsg:
		if msg.err != nil {
			return s, func() tea.Msg { return errorStatus("Settings", msg.err) }
		}
		s.user = msg.user
		s.weekStart = msg.weekStart
		s.preset = msg.preset
		s.settings = msg.settings
		return s, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Enter), key.Matches(msg, keys.Edit):
			return s.showForm()
		}
	}
	return s, nil
}

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	if s.user == nil {
		return s, nil
	}
	*s.name = s.user.Name
	*s.dailyTarget = strconv.Itoa(s.user.DailyTarget)
	*s.weeklyTarget = strconv.Itoa(s.user.WeeklyTarget)
	*s.weekStartDay = s.weekStart

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Name").Value(s.name).Validate(func(v string) error {
				if strings.TrimSpace(v) == "" {
					return errors.New("name is required")
				}
				return nil
			}),
			huh.NewInput().Title("Daily target (sessions)").Value(s.dailyTarget).Validate(nonNegativeInt),
			huh.NewInput().Title("Weekly target (sessions)").Value(s.weeklyTarget).Validate(nonNegativeInt),
			huh.NewSelect[time.Weekday]().Title("Week starts on").
				Options(
					huh.NewOption("Monday", time.Monday),
					huh.NewOption("Sunday", time.Sunday),
				).Value(s.weekStartDay),
		).Title("Profile"),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func nonNegativeInt(v string) error {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return errors.New("enter a whole number")
	}
	if n < 0 {
		return errors.New("must not be negative")
	}
	return nil
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		if err := s.saveSettings(); err != nil {
			return s, tea.Batch(s.refresh(), func() tea.Msg { return errorStatus("Save settings", err) })
		}
		return s, tea.Batch(s.refresh(), statusCmd("Settings saved", false), taskChanged)
	}

	return s, cmd
}

func (s settingsModel) saveSettings() error {
	daily, err := strconv.Atoi(strings.TrimSpace(*s.dailyTarget))
	if err != nil {
		return fmt.Errorf("daily target: %w", err)
	}
	weekly, err := strconv.Atoi(strings.TrimSpace(*s.weeklyTarget))
	if err != nil {
		return fmt.Errorf("weekly target: %w", err)
	}
	if err := s.store.UpdateUserName(*s.name); err != nil {
		return err
	}
	if err := s.store.UpdateUserTargets(daily, weekly); err != nil {
		return err
	}
	return s.store.SetWeekStart(*s.weekStartDay)
}

func (s settingsModel) view() string {
	w := s.width - 4
	title := titleStyle.Render("Settings")

	if s.formActive && s.form != nil {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", s.form.View()),
		)
	}

	rows := []string{title, ""}
	if s.user != nil {
		rows = append(rows,
			settingRow("Name", s.user.Name),
			settingRow("Daily target", fmt.Sprintf("%d sessions", s.user.DailyTarget)),
			settingRow("Weekly target", fmt.Sprintf("%d sessions", s.user.WeeklyTarget)),
		)
	}
	for _, setting := range s.settings {
		rows = append(rows, settingRow(setting.Key, setting.Value))
	}
	if s.preset != nil {
		rows = append(rows, settingRow("Custom preset", fmt.Sprintf("%d/%d/%d min, %d rounds",
			s.preset.FocusMinutes, s.preset.ShortBreakMinutes, s.preset.LongBreakMinutes, s.preset.Rounds)))
	}

	rows = append(rows, "", mutedStyle.Render("Press enter to edit"))
	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func settingRow(label, value string) string {
	return fmt.Sprintf("  %s %s", lipgloss.NewStyle().Width(24).Render(label), highlightStyle.Render(value))
}
