package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/pomodone/internal/store"
)

const dueDateLayout = "2006-01-02"

// taskFilters is the order the status filter cycles through. Empty means all.
var taskFilters = []store.TaskStatus{"", store.TaskPending, store.TaskOverdue, store.TaskDone}

type tasksModel struct {
	store  *store.Store
	width  int
	height int

	tasks  []store.Task
	cursor int

	filter    int
	sort      int
	searching bool
	search    textinput.Model

	formActive bool
	form       *huh.Form
	editingID  int64 // 0 when creating

	// Form field pointers (survive value copies)
	formTitle       *string
	formDescription *string
	formDue         *string
	formDifficulty  *store.Difficulty
}

func newTasksModel(s *store.Store) tasksModel {
	title, desc, due := "", "", ""
	diff := store.DifficultyMedium

	search := textinput.New()
	search.Placeholder = "search titles"
	search.Prompt = "/ "
	search.CharLimit = 64

	return tasksModel{
		store:           s,
		search:          search,
		formTitle:       &title,
		formDescription: &desc,
		formDue:         &due,
		formDifficulty:  &diff,
	}
}

func (t *tasksModel) setSize(w, h int) {
	t.width = w
	t.height = h
	t.search.Width = max(10, w-12)
}

// capturing reports whether keystrokes belong to a form or the search box.
func (t tasksModel) capturing() bool {
	return t.formActive || t.searching
}

func (t tasksModel) currentFilter() store.TaskFilter {
	return store.TaskFilter{
		Status: taskFilters[t.filter],
		Search: strings.TrimSpace(t.search.Value()),
		Sort:   store.TaskSorts[t.sort],
	}
}

type tasksDataMsg struct {
	tasks []store.Task
	err   error
}

func (t tasksModel) refresh() tea.Cmd {
	f := t.currentFilter()
	return func() tea.Msg {
		tasks, err := t.store.ListTasks(f)
		return tasksDataMsg{tasks: tasks, err: err}
	}
}

func (t tasksModel) update(msg tea.Msg) (tasksModel, tea.Cmd) {
	if t.formActive && t.form != nil {
		return t.updateForm(msg)
	}

	switch msg := msg.(type) {
	case tasksDataMsg:
		if msg.err != nil {
			return t, func() tea.Msg { return errorStatus("Tasks", msg.err) }
		}
		t.tasks = msg.tasks
		if t.cursor >= len(t.tasks) {
			t.cursor = max(0, len(t.tasks)-1)
		}
		return t, nil

	case tea.KeyMsg:
		if t.searching {
			return t.updateSearch(msg)
		}
		return t.updateList(msg)
	}
	return t, nil
}

func (t tasksModel) updateSearch(msg tea.KeyMsg) (tasksModel, tea.Cmd) {
	switch msg.String() {
	case "enter":
		t.searching = false
		t.search.Blur()
		t.cursor = 0
		return t, t.refresh()
	case "esc":
		t.searching = false
		t.search.Blur()
		t.search.SetValue("")
		return t, t.refresh()
	}
	var cmd tea.Cmd
	t.search, cmd = t.search.Update(msg)
	return t, cmd
}

func (t tasksModel) updateList(msg tea.KeyMsg) (tasksModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if t.cursor > 0 {
			t.cursor--
		}
	case key.Matches(msg, keys.Down):
		if t.cursor < len(t.tasks)-1 {
			t.cursor++
		}
	case key.Matches(msg, keys.New):
		return t.showForm(nil)
	case key.Matches(msg, keys.Edit):
		if len(t.tasks) > 0 {
			task := t.tasks[t.cursor]
			return t.showForm(&task)
		}
	case key.Matches(msg, keys.Delete):
		if len(t.tasks) > 0 {
			task := t.tasks[t.cursor]
			if err := t.store.DeleteTask(task.ID); err != nil {
				return t, func() tea.Msg { return errorStatus("Delete task", err) }
			}
			return t, tea.Batch(t.refresh(), statusCmd("Deleted "+task.Title, false), taskChanged)
		}
	case key.Matches(msg, keys.Done):
		if len(t.tasks) > 0 {
			task := t.tasks[t.cursor]
			done := task.Status != store.TaskDone
			if err := t.store.SetTaskStatus(task.ID, done); err != nil {
				return t, func() tea.Msg { return errorStatus("Update task", err) }
			}
			return t, tea.Batch(t.refresh(), taskChanged)
		}
	case key.Matches(msg, keys.Filter):
		t.filter = (t.filter + 1) % len(taskFilters)
		t.cursor = 0
		return t, t.refresh()
	case key.Matches(msg, keys.Sort):
		t.sort = (t.sort + 1) % len(store.TaskSorts)
		return t, t.refresh()
	case key.Matches(msg, keys.Search):
		t.searching = true
		return t, t.search.Focus()
	case key.Matches(msg, keys.Back):
		if t.search.Value() != "" {
			t.search.SetValue("")
			return t, t.refresh()
		}
	}
	return t, nil
}

// taskChanged tells the app to reload the dashboard counters.
func taskChanged() tea.Msg { return taskChangedMsg{} }

type taskChangedMsg struct{}

func (t tasksModel) showForm(task *store.Task) (tasksModel, tea.Cmd) {
	*t.formTitle = ""
	*t.formDescription = ""
	*t.formDue = ""
	*t.formDifficulty = store.DifficultyMedium
	t.editingID = 0
	if task != nil {
		t.editingID = task.ID
		*t.formTitle = task.Title
		*t.formDescription = task.Description
		*t.formDifficulty = task.Difficulty
		if task.DueAt != nil {
			*t.formDue = task.DueAt.Local().Format(dueDateLayout)
		}
	}

	diffOptions := make([]huh.Option[store.Difficulty], len(store.Difficulties))
	for i, d := range store.Difficulties {
		diffOptions[i] = huh.NewOption(string(d), d)
	}

	t.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Title").Value(t.formTitle).Validate(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return errors.New("title is required")
				}
				return nil
			}),
			huh.NewText().Title("Description").Value(t.formDescription).Lines(3),
			huh.NewInput().Title("Due date (YYYY-MM-DD, optional)").Value(t.formDue).Validate(func(s string) error {
				_, err := parseDueDate(s)
				return err
			}),
			huh.NewSelect[store.Difficulty]().Title("Difficulty").Options(diffOptions...).Value(t.formDifficulty),
		),
	).WithShowHelp(true).WithShowErrors(true)

	t.formActive = true
	return t, t.form.Init()
}

// parseDueDate reads a local calendar date. The task is due at the end of
// that day. Blank input means no due date.
func parseDueDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	d, err := time.ParseInLocation(dueDateLayout, s, time.Local)
	if err != nil {
		return nil, errors.New("use YYYY-MM-DD")
	}
	due := d.AddDate(0, 0, 1).Add(-time.Second)
	return &due, nil
}

func (t tasksModel) updateForm(msg tea.Msg) (tasksModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			t.formActive = false
			t.form = nil
			return t, nil
		}
	}

	form, cmd := t.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		t.form = f
	}

	if t.form.State == huh.StateCompleted {
		t.formActive = false
		return t, t.save()
	}

	return t, cmd
}

func (t tasksModel) save() tea.Cmd {
	due, err := parseDueDate(*t.formDue)
	if err != nil {
		return func() tea.Msg { return errorStatus("Due date", err) }
	}
	in := store.TaskInput{
		Title:       *t.formTitle,
		Description: *t.formDescription,
		DueAt:       due,
		Difficulty:  *t.formDifficulty,
	}

	if t.editingID != 0 {
		if err := t.store.UpdateTask(t.editingID, in); err != nil {
			return func() tea.Msg { return errorStatus("Update task", err) }
		}
		return tea.Batch(t.refresh(), statusCmd("Task updated", false), taskChanged)
	}
	if _, err := t.store.CreateTask(in); err != nil {
		return func() tea.Msg { return errorStatus("Create task", err) }
	}
	return tea.Batch(t.refresh(), statusCmd("Task created", false), taskChanged)
}

func (t tasksModel) view() string {
	w := t.width - 4

	if t.formActive && t.form != nil {
		title := titleStyle.Render("New Task")
		if t.editingID != 0 {
			title = titleStyle.Render("Edit Task")
		}
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, title, "", t.form.View()))
	}

	f := t.currentFilter()
	status := "all"
	if f.Status != "" {
		status = string(f.Status)
	}
	header := titleStyle.Render("Tasks") + "  " +
		mutedStyle.Render(fmt.Sprintf("filter: %s  sort: %s", status, f.Sort))

	rows := []string{header}
	if t.searching || f.Search != "" {
		rows = append(rows, t.search.View())
	}
	rows = append(rows, "")

	if len(t.tasks) == 0 {
		rows = append(rows, mutedStyle.Render("No tasks. Press n to add one."))
	} else {
		rows = append(rows, mutedStyle.Render(fmt.Sprintf("    %-28s %-8s %-8s %s", "Title", "Level", "Status", "Due")))
		for i, task := range t.tasks {
			cursor := "  "
			style := normalItemStyle
			if i == t.cursor {
				cursor = "> "
				style = selectedItemStyle
			}
			line := style.Render(fmt.Sprintf("%s%s %-28s ", cursor, taskMark(task), truncate(task.Title, 28))) +
				difficultyStyle(task.Difficulty).Render(fmt.Sprintf("%-8s", task.Difficulty)) + " " +
				taskStatusStyle(task.Status).Render(fmt.Sprintf("%-8s", task.Status)) + " " +
				mutedStyle.Render(formatDate(task.DueAt))
			rows = append(rows, line)
		}
		if sel := t.tasks[t.cursor]; sel.Description != "" {
			rows = append(rows, "", mutedStyle.Render("  "+truncate(sel.Description, max(10, w-8))))
		}
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: new  e: edit  d: delete  enter: done  f: filter  o: sort  /: search"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func taskMark(t store.Task) string {
	if t.Status == store.TaskDone {
		return "✓"
	}
	return "○"
}

func truncate(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
