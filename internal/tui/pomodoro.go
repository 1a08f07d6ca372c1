package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/pomodone/internal/pomodoro"
	"github.com/sadopc/pomodone/internal/store"
)

// pomodoroModel is the Timer tab: the countdown, mode switching and the
// custom settings form.
type pomodoroModel struct {
	store  *store.Store
	timer  timerModel
	width  int
	height int

	bar    progress.Model
	preset *store.CustomPreset

	formActive bool
	form       *huh.Form

	// Form field pointers (survive value copies)
	formFocus      *string
	formShortBreak *string
	formLongBreak  *string
	formRounds     *string
}

func newPomodoroModel(s *store.Store, t timerModel) pomodoroModel {
	focus, short, long, rounds := "", "", "", ""
	return pomodoroModel{
		store:          s,
		timer:          t,
		bar:            progress.New(progress.WithGradient(string(colorFocus), string(colorBreak)), progress.WithoutPercentage()),
		formFocus:      &focus,
		formShortBreak: &short,
		formLongBreak:  &long,
		formRounds:     &rounds,
	}
}

func (p *pomodoroModel) setSize(w, h int) {
	p.width = w
	p.height = h
	p.bar.Width = max(10, w-16)
}

type presetDataMsg struct {
	preset *store.CustomPreset
}

func (p pomodoroModel) refresh() tea.Cmd {
	return func() tea.Msg {
		preset, err := p.store.LatestPreset()
		if err != nil {
			return presetDataMsg{}
		}
		return presetDataMsg{preset: preset}
	}
}

func (p pomodoroModel) update(msg tea.Msg) (pomodoroModel, tea.Cmd) {
	if p.formActive && p.form != nil {
		return p.updateForm(msg)
	}

	switch msg := msg.(type) {
	case presetDataMsg:
		p.preset = msg.preset
		return p, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Mode):
			return p.cycleMode()
		case key.Matches(msg, keys.Custom):
			return p.showCustomForm()
		}
	}
	return p, nil
}

// cycleMode moves to the next mode. Custom reuses the saved preset and falls
// back to the form when there is none.
func (p pomodoroModel) cycleMode() (pomodoroModel, tea.Cmd) {
	next := nextMode(p.timer.engine.Mode())
	if next == pomodoro.ModeCustom {
		if p.preset == nil {
			return p.showCustomForm()
		}
		return p, p.applyCustom(p.preset.Input(), false)
	}

	if err := p.timer.engine.SelectMode(next); err != nil {
		return p, func() tea.Msg { return errorStatus("Mode", err) }
	}
	if err := p.store.SetTimerMode(next); err != nil {
		return p, func() tea.Msg { return errorStatus("Save mode", err) }
	}
	return p, statusCmd(next.Label()+" mode", false)
}

func nextMode(current pomodoro.Mode) pomodoro.Mode {
	for i, m := range pomodoro.Modes {
		if m == current {
			return pomodoro.Modes[(i+1)%len(pomodoro.Modes)]
		}
	}
	return pomodoro.Modes[0]
}

func (p pomodoroModel) showCustomForm() (pomodoroModel, tea.Cmd) {
	in := pomodoro.CustomInput{FocusMinutes: 25, ShortBreakMinutes: 5, LongBreakMinutes: 15, Rounds: 4}
	if p.preset != nil {
		in = p.preset.Input()
	} else if snap := p.timer.snapshot(); !snap.Settings.IsZero() {
		in = snap.Settings.Input()
	}
	*p.formFocus = strconv.Itoa(in.FocusMinutes)
	*p.formShortBreak = strconv.Itoa(in.ShortBreakMinutes)
	*p.formLongBreak = strconv.Itoa(in.LongBreakMinutes)
	*p.formRounds = strconv.Itoa(in.Rounds)

	fields := p.customFields()
	inputs := make([]huh.Field, 0, len(fields))
	for _, f := range fields {
		inputs = append(inputs, huh.NewInput().Title(f.title).Value(f.src).Validate(f.validate))
	}
	p.form = huh.NewForm(
		huh.NewGroup(inputs...).Title("Custom mode"),
	).WithShowHelp(true).WithShowErrors(true)

	p.formActive = true
	return p, p.form.Init()
}

func positiveInt(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return errors.New("enter a whole number")
	}
	if n <= 0 {
		return errors.New("must be greater than 0")
	}
	return nil
}

func (p pomodoroModel) updateForm(msg tea.Msg) (pomodoroModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			p.formActive = false
			p.form = nil
			return p, nil
		}
	}

	form, cmd := p.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		p.form = f
	}

	if p.form.State == huh.StateCompleted {
		p.formActive = false
		in, err := p.formInput()
		if err != nil {
			return p, func() tea.Msg { return errorStatus("Custom mode", err) }
		}
		return p, tea.Batch(p.applyCustom(in, true), p.refresh())
	}

	return p, cmd
}

// customField is one input of the custom form. Breaks may be zero.
type customField struct {
	name     string
	title    string
	src      *string
	validate func(string) error
	dst      func(*pomodoro.CustomInput) *int
}

func (p pomodoroModel) customFields() []customField {
	return []customField{
		{"focus", "Focus (min)", p.formFocus, positiveInt,
			func(in *pomodoro.CustomInput) *int { return &in.FocusMinutes }},
		{"short break", "Short break (min)", p.formShortBreak, nonNegativeInt,
			func(in *pomodoro.CustomInput) *int { return &in.ShortBreakMinutes }},
		{"long break", "Long break (min)", p.formLongBreak, nonNegativeInt,
			func(in *pomodoro.CustomInput) *int { return &in.LongBreakMinutes }},
		{"rounds", "Rounds before long break", p.formRounds, positiveInt,
			func(in *pomodoro.CustomInput) *int { return &in.Rounds }},
	}
}

func (p pomodoroModel) formInput() (pomodoro.CustomInput, error) {
	var in pomodoro.CustomInput
	for _, f := range p.customFields() {
		if err := f.validate(*f.src); err != nil {
			return in, &pomodoro.ValidationError{Field: f.name, Value: *f.src, Reason: err.Error()}
		}
		n, _ := strconv.Atoi(strings.TrimSpace(*f.src))
		*f.dst(&in) = n
	}
	return in, nil
}

// applyCustom switches the engine to custom settings and persists the mode.
// save also stores the values as the preset.
func (p pomodoroModel) applyCustom(in pomodoro.CustomInput, save bool) tea.Cmd {
	if err := p.timer.engine.ApplyCustomSettings(in); err != nil {
		return func() tea.Msg { return errorStatus("Custom mode", err) }
	}
	if save {
		if err := p.store.SavePreset(in); err != nil {
			return func() tea.Msg { return errorStatus("Save preset", err) }
		}
	}
	if err := p.store.SetTimerMode(pomodoro.ModeCustom); err != nil {
		return func() tea.Msg { return errorStatus("Save mode", err) }
	}
	return statusCmd("Custom mode", false)
}

func (p pomodoroModel) view() string {
	w := p.width - 4

	if p.formActive && p.form != nil {
		title := titleStyle.Render("Custom Mode")
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", p.form.View()),
		)
	}

	snap := p.timer.snapshot()
	title := titleStyle.Render("Pomodoro Timer")

	if snap.Settings.IsZero() {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Center,
			title, "", mutedStyle.Render("Press m to choose a mode or c for custom settings"),
		))
	}

	style := sessionStyle(snap).Width(w - 6).Align(lipgloss.Center)
	clock := style.Render(snap.Clock())
	label := sessionStyle(snap).Render(strings.ToUpper(snap.SessionType.String()))
	if snap.Alarming {
		label = warningStyle.Bold(true).Render("TIME'S UP")
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		title,
		mutedStyle.Render(snap.Mode.Label()+" mode"),
		"",
		clock,
		label,
		"",
		p.bar.ViewAs(snap.Progress),
		"",
		renderRounds(snap),
		mutedStyle.Render(snap.StatusText),
	)

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Center, content, "", mutedStyle.Render(timerControls(snap))),
	)
}

// renderRounds shows one dot per round of the current cycle.
func renderRounds(snap pomodoro.Snapshot) string {
	total := snap.Settings.Rounds()
	done := snap.RoundsCompleted % total
	if snap.SessionType == pomodoro.LongBreak {
		done = total
	}
	var parts []string
	for i := 0; i < total; i++ {
		switch {
		case i < done:
			parts = append(parts, successStyle.Render("●"))
		case i == done && snap.SessionType == pomodoro.Focus && snap.State != pomodoro.Stopped:
			parts = append(parts, accentStyle.Render("◐"))
		default:
			parts = append(parts, mutedStyle.Render("○"))
		}
	}
	counter := mutedStyle.Render(fmt.Sprintf("  %d done", snap.RoundsCompleted))
	return strings.Join(parts, " ") + counter
}

func timerControls(snap pomodoro.Snapshot) string {
	switch {
	case snap.Alarming:
		return "x: stop  m: mode  c: custom"
	case snap.State == pomodoro.Running:
		return "space: pause  x: stop  m: mode  c: custom"
	case snap.State == pomodoro.Paused:
		return "space: resume  x: stop  m: mode  c: custom"
	}
	return "s: start  m: mode  c: custom"
}
