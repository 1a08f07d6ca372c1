package tui

import (
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sadopc/pomodone/internal/pomodoro"
)

// timerModel drives the engine from the Bubble Tea loop. The engine is only
// touched from Update, so it needs no locking.
type timerModel struct {
	engine *pomodoro.Engine
	bell   bool
}

func newTimerModel(e *pomodoro.Engine, bell bool) timerModel {
	return timerModel{engine: e, bell: bell}
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (t timerModel) snapshot() pomodoro.Snapshot {
	return t.engine.Snapshot()
}

func (t timerModel) running() bool {
	return t.engine.Snapshot().State != pomodoro.Stopped
}

func (t timerModel) paused() bool {
	return t.engine.Snapshot().State == pomodoro.Paused
}

// tick advances the countdown by one second and turns any transition into
// commands for the app.
func (t timerModel) tick() tea.Cmd {
	if !t.engine.Ticking() {
		return nil
	}
	return t.handle(t.engine.Tick())
}

func (t timerModel) finishAlarm(token uint64) tea.Cmd {
	return t.handle(t.engine.FinishAlarm(token))
}

func (t timerModel) handle(ev *pomodoro.Event) tea.Cmd {
	if ev == nil {
		return nil
	}
	switch ev.Kind {
	case pomodoro.EventAlarm:
		text := ev.From.String() + " finished. Time's up!"
		if t.bell {
			text += "\a"
		}
		token := ev.Token
		return tea.Batch(
			statusCmd(text, false),
			tea.Tick(ev.Wait, func(time.Time) tea.Msg { return alarmDoneMsg{token: token} }),
		)
	case pomodoro.EventSessionChanged:
		cmds := []tea.Cmd{statusCmd(ev.To.String()+" started", false)}
		if ev.Completed != nil {
			cmds = append(cmds, func() tea.Msg { return sessionCompletedMsg{} })
		}
		return tea.Batch(cmds...)
	}
	return nil
}

func (t timerModel) start() tea.Cmd {
	if err := t.engine.Start(); err != nil {
		return t.errorCmd(err)
	}
	return statusCmd(t.engine.Snapshot().StatusText, false)
}

func (t timerModel) toggle() tea.Cmd {
	wasStopped := !t.running()
	if err := t.engine.Toggle(); err != nil {
		return t.errorCmd(err)
	}
	switch {
	case wasStopped:
		return statusCmd(t.engine.Snapshot().StatusText, false)
	case t.paused():
		return statusCmd("Paused", false)
	}
	return statusCmd("Resumed", false)
}

func (t timerModel) stop() tea.Cmd {
	if !t.running() {
		return nil
	}
	t.engine.StopAndReset()
	return statusCmd("Timer stopped", false)
}

func (t timerModel) errorCmd(err error) tea.Cmd {
	switch {
	case errors.Is(err, pomodoro.ErrNoSettings):
		return statusCmd("Pick a mode on the Timer tab first", true)
	case errors.Is(err, pomodoro.ErrAlarmActive):
		return statusCmd("Alarm ringing, wait or press x", true)
	}
	return func() tea.Msg { return errorStatus("Timer", err) }
}
